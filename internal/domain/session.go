package domain

import (
	"context"
	"errors"
	"time"
)

// Session is a time-bounded grant issued by the auth provider.
type Session struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // epoch seconds, 0 = no expiry
}

// Expired reports whether now is at or past the expiry.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt > 0 && now.Unix() >= s.ExpiresAt
}

// Identity is the authenticated caller as seen by the auth provider.
type Identity struct {
	ID       string
	Email    string
	Metadata ProfileAttributes
}

// ProfileAttributes are passed at sign-up and echoed back as user metadata.
type ProfileAttributes struct {
	FullName string   `json:"full_name,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	UserType UserType `json:"user_type,omitempty"`
}

type AuthEventType string

const (
	AuthEventSignedIn       AuthEventType = "SIGNED_IN"
	AuthEventSignedOut      AuthEventType = "SIGNED_OUT"
	AuthEventTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
	AuthEventUserUpdated    AuthEventType = "USER_UPDATED"
)

// AuthEvent is delivered to OnAuthStateChange subscribers. Key identifies the
// browser session the event belongs to; Session is nil after sign-out.
type AuthEvent struct {
	Type     AuthEventType
	Key      string
	Session  *Session
	Identity *Identity
}

// AuthClient is the auth surface of the managed backend.
type AuthClient interface {
	GetSession(ctx context.Context, key string) (*Session, *Identity, error)
	OnAuthStateChange(handler func(AuthEvent)) (unsubscribe func())
	SignInWithPassword(ctx context.Context, key, email, password string) (*Session, error)
	SignUp(ctx context.Context, key, email, password string, attrs ProfileAttributes) (*Session, *Identity, error)
	SignOut(ctx context.Context, key string) error
	RefreshSession(ctx context.Context, key string) (*Session, error)
	// GetUser verifies the stored access token and returns the identity it
	// was issued to.
	GetUser(ctx context.Context, key string) (*Identity, error)
}

type AuthErrorKind string

const (
	AuthInvalidCredentials AuthErrorKind = "invalid_credentials"
	AuthEmailNotConfirmed  AuthErrorKind = "email_not_confirmed"
	AuthRateLimited        AuthErrorKind = "rate_limited"
	AuthUserNotFound       AuthErrorKind = "user_not_found"
	AuthUserExists         AuthErrorKind = "user_already_exists"
	AuthWeakPassword       AuthErrorKind = "weak_password"
	AuthSessionMissing     AuthErrorKind = "session_missing"
	AuthUnavailable        AuthErrorKind = "unavailable"
)

// AuthError is returned by AuthClient implementations.
type AuthError struct {
	Kind    AuthErrorKind
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// IsAuthKind reports whether err is an AuthError of the given kind.
func IsAuthKind(err error, kind AuthErrorKind) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Kind == kind
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6,max=72"`
	FullName string   `json:"fullName" validate:"required,min=2,max=100,valid_name"`
	Phone    string   `json:"phone" validate:"omitempty,valid_phone"`
	UserType UserType `json:"userType" validate:"required,oneof=promoter company"`
}

type AuthUsecase interface {
	SignIn(ctx context.Context, key, email, password, clientIP string) (*Session, error)
	SignUp(ctx context.Context, key string, input RegisterInput) (*Session, error)
	EnsureProfile(ctx context.Context, identity Identity) (*Profile, error)
	GetProfile(ctx context.Context, id string) (*Profile, error)
}
