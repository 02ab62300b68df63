package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"event-staffing-backend/internal/domain"
)

// GoTrue talks to the Supabase auth REST API (/auth/v1).
type GoTrue struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewGoTrue(projectURL, apiKey string, timeout time.Duration) *GoTrue {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoTrue{
		baseURL: strings.TrimRight(projectURL, "/") + "/auth/v1",
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type gotrueUser struct {
	ID           string                   `json:"id"`
	Email        string                   `json:"email"`
	UserMetadata domain.ProfileAttributes `json:"user_metadata"`
}

type tokenResponse struct {
	AccessToken  string     `json:"access_token"`
	TokenType    string     `json:"token_type"`
	ExpiresIn    int64      `json:"expires_in"`
	ExpiresAt    int64      `json:"expires_at"`
	RefreshToken string     `json:"refresh_token"`
	User         gotrueUser `json:"user"`
}

// signUpResponse covers both shapes GoTrue returns from /signup: a full
// token response, or the bare user when email confirmation is pending.
type signUpResponse struct {
	tokenResponse
	ID    string `json:"id"`
	Email string `json:"email"`
	// bare-user form
	UserMetadata domain.ProfileAttributes `json:"user_metadata"`
}

type gotrueError struct {
	Code             int    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
}

func (t *tokenResponse) session() *domain.Session {
	expiresAt := t.ExpiresAt
	if expiresAt == 0 && t.ExpiresIn > 0 {
		expiresAt = time.Now().Unix() + t.ExpiresIn
	}
	return &domain.Session{
		UserID:       t.User.ID,
		Email:        t.User.Email,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    expiresAt,
	}
}

func (u gotrueUser) identity() *domain.Identity {
	return &domain.Identity{ID: u.ID, Email: u.Email, Metadata: u.UserMetadata}
}

// PasswordGrant exchanges email and password for a session.
func (g *GoTrue) PasswordGrant(ctx context.Context, email, password string) (*tokenResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out tokenResponse
	if err := g.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshGrant exchanges a refresh token for a new session.
func (g *GoTrue) RefreshGrant(ctx context.Context, refreshToken string) (*tokenResponse, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var out tokenResponse
	if err := g.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignUp registers a new identity. The returned token response has an empty
// AccessToken when the project requires email confirmation.
func (g *GoTrue) SignUp(ctx context.Context, email, password string, attrs domain.ProfileAttributes) (*tokenResponse, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
		"data":     attrs,
	}
	var out signUpResponse
	if err := g.do(ctx, http.MethodPost, "/signup", "", body, &out); err != nil {
		return nil, err
	}
	resp := out.tokenResponse
	if resp.User.ID == "" {
		resp.User = gotrueUser{ID: out.ID, Email: out.Email, UserMetadata: out.UserMetadata}
	}
	return &resp, nil
}

// Logout revokes the refresh tokens of the session behind accessToken.
func (g *GoTrue) Logout(ctx context.Context, accessToken string) error {
	return g.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

// User returns the identity the access token was issued to.
func (g *GoTrue) User(ctx context.Context, accessToken string) (*gotrueUser, error) {
	var out gotrueUser
	if err := g.do(ctx, http.MethodGet, "/user", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *GoTrue) do(ctx context.Context, method, path, bearer string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode gotrue request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build gotrue request: %w", err)
	}
	req.Header.Set("apikey", g.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return &domain.AuthError{Kind: domain.AuthUnavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &domain.AuthError{Kind: domain.AuthUnavailable, Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode >= 300 {
		return parseAuthError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode gotrue response: %w", err)
	}
	return nil
}

// parseAuthError maps a GoTrue error body onto an AuthErrorKind. Newer
// servers send error_code, older ones only a message.
func parseAuthError(status int, body []byte) *domain.AuthError {
	var ge gotrueError
	_ = json.Unmarshal(body, &ge)

	msg := firstNonEmpty(ge.Msg, ge.ErrorDescription, ge.Message, ge.Error, http.StatusText(status))
	authErr := &domain.AuthError{Kind: domain.AuthUnavailable, Status: status, Message: msg}

	switch ge.ErrorCode {
	case "invalid_credentials":
		authErr.Kind = domain.AuthInvalidCredentials
		return authErr
	case "email_not_confirmed":
		authErr.Kind = domain.AuthEmailNotConfirmed
		return authErr
	case "over_request_rate_limit", "over_email_send_rate_limit", "over_sms_send_rate_limit":
		authErr.Kind = domain.AuthRateLimited
		return authErr
	case "user_not_found":
		authErr.Kind = domain.AuthUserNotFound
		return authErr
	case "user_already_exists", "email_exists":
		authErr.Kind = domain.AuthUserExists
		return authErr
	case "weak_password":
		authErr.Kind = domain.AuthWeakPassword
		return authErr
	case "session_not_found", "refresh_token_not_found", "refresh_token_already_used", "bad_jwt":
		authErr.Kind = domain.AuthSessionMissing
		return authErr
	}

	lower := strings.ToLower(msg)
	switch {
	case status == http.StatusTooManyRequests:
		authErr.Kind = domain.AuthRateLimited
	case strings.Contains(lower, "invalid login credentials"), ge.Error == "invalid_grant" && strings.Contains(lower, "credentials"):
		authErr.Kind = domain.AuthInvalidCredentials
	case strings.Contains(lower, "email not confirmed"):
		authErr.Kind = domain.AuthEmailNotConfirmed
	case strings.Contains(lower, "already registered"), strings.Contains(lower, "already exists"):
		authErr.Kind = domain.AuthUserExists
	case strings.Contains(lower, "user not found"):
		authErr.Kind = domain.AuthUserNotFound
	case strings.Contains(lower, "password should be"):
		authErr.Kind = domain.AuthWeakPassword
	case strings.Contains(lower, "refresh token"), status == http.StatusUnauthorized:
		authErr.Kind = domain.AuthSessionMissing
	}
	return authErr
}

// IsAuthKind reports whether err is an AuthError of the given kind.
func IsAuthKind(err error, kind domain.AuthErrorKind) bool {
	return domain.IsAuthKind(err, kind)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
