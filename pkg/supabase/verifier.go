package supabase

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid access token")
	// ErrNoSecret is returned for HS256 tokens when no JWT secret is set.
	ErrNoSecret = errors.New("jwt secret not configured")
	// ErrKeysUnavailable wraps failures to fetch the project's JWKS.
	ErrKeysUnavailable = errors.New("jwks unavailable")
)

type JWKS struct {
	Keys []JSONWebKey `json:"keys"`
}

type JSONWebKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Claims are the GoTrue access token claims this service reads.
type Claims struct {
	Email        string                 `json:"email"`
	Role         string                 `json:"role"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// Verifier validates GoTrue access tokens. HS256 tokens are checked against
// the project JWT secret, RS256 tokens against the project's JWKS.
type Verifier struct {
	secret []byte
	http   *http.Client

	mu        sync.RWMutex
	keys      map[string]*JSONWebKey
	url       string
	refreshed time.Time
}

func NewVerifier(projectURL, jwtSecret string) *Verifier {
	return &Verifier{
		secret: []byte(jwtSecret),
		http:   &http.Client{Timeout: 5 * time.Second},
		keys:   make(map[string]*JSONWebKey),
		url:    projectURL + "/auth/v1/.well-known/jwks.json",
	}
}

// Verify parses and validates the token and returns its claims. A token
// whose signature checks out but whose exp has passed returns its claims
// together with an error wrapping jwt.ErrTokenExpired.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.keyFunc(ctx, token)
	}, jwt.WithExpirationRequired())
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidToken, err)
		if errors.Is(err, jwt.ErrTokenExpired) && claims.Subject != "" {
			return claims, err
		}
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (v *Verifier) keyFunc(ctx context.Context, token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if len(v.secret) == 0 {
			return nil, ErrNoSecret
		}
		return v.secret, nil
	case *jwt.SigningMethodRSA:
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("kid header not found")
		}
		key, err := v.getKey(ctx, kid)
		if err != nil {
			return nil, err
		}
		return key.PublicKey()
	}
	return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
}

func (v *Verifier) getKey(ctx context.Context, kid string) (*JSONWebKey, error) {
	v.mu.RLock()
	key, exists := v.keys[kid]
	v.mu.RUnlock()
	if exists {
		return key, nil
	}

	if err := v.fetchKeys(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeysUnavailable, err)
	}

	v.mu.RLock()
	key, exists = v.keys[kid]
	v.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("key not found")
	}
	return key, nil
}

func (v *Verifier) fetchKeys(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	// at most one refresh per minute
	if time.Since(v.refreshed) < time.Minute && len(v.keys) > 0 {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.url, nil)
	if err != nil {
		return err
	}
	resp, err := v.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks endpoint returned %d", resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return err
	}

	v.keys = make(map[string]*JSONWebKey, len(jwks.Keys))
	for i := range jwks.Keys {
		v.keys[jwks.Keys[i].Kid] = &jwks.Keys[i]
	}
	v.refreshed = time.Now()
	return nil
}

func (k *JSONWebKey) PublicKey() (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}

	n := new(big.Int).SetBytes(nBytes)
	var e int
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	return &rsa.PublicKey{N: n, E: e}, nil
}
