package supabase

import (
	"context"
	"errors"
	"sync"
	"time"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

// Auth implements domain.AuthClient on top of GoTrue. Sessions are kept
// server side, keyed by an opaque browser session key, and every change is
// published to OnAuthStateChange subscribers.
type Auth struct {
	gotrue   *GoTrue
	verifier *Verifier
	store    SessionStore

	refreshGroup singleflight.Group

	mu       sync.RWMutex
	handlers map[int]func(domain.AuthEvent)
	nextID   int
}

// NewAuth wires the auth client. verifier may be nil, in which case GetUser
// asks GoTrue instead of validating the token locally.
func NewAuth(gotrue *GoTrue, verifier *Verifier, store SessionStore) *Auth {
	return &Auth{
		gotrue:   gotrue,
		verifier: verifier,
		store:    store,
		handlers: make(map[int]func(domain.AuthEvent)),
	}
}

func (a *Auth) OnAuthStateChange(handler func(domain.AuthEvent)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.handlers[id] = handler
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.handlers, id)
			a.mu.Unlock()
		})
	}
}

// emit delivers the event to every subscriber. Handlers must not block.
// Session and Identity are copied so callers may keep using their own
// values after the event is out.
func (a *Auth) emit(event domain.AuthEvent) {
	if event.Session != nil {
		session := *event.Session
		event.Session = &session
	}
	if event.Identity != nil {
		identity := *event.Identity
		event.Identity = &identity
	}

	a.mu.RLock()
	handlers := make([]func(domain.AuthEvent), 0, len(a.handlers))
	for _, h := range a.handlers {
		handlers = append(handlers, h)
	}
	a.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

func (a *Auth) GetSession(ctx context.Context, key string) (*domain.Session, *domain.Identity, error) {
	stored, err := a.store.Load(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	if stored == nil {
		return nil, nil, nil
	}
	session := stored.Session
	identity := stored.Identity
	return &session, &identity, nil
}

func (a *Auth) SignInWithPassword(ctx context.Context, key, email, password string) (*domain.Session, error) {
	resp, err := a.gotrue.PasswordGrant(ctx, email, password)
	if err != nil {
		return nil, err
	}
	session := resp.session()
	identity := resp.User.identity()
	if err := a.store.Save(ctx, key, &StoredSession{Session: *session, Identity: *identity}); err != nil {
		return nil, err
	}

	a.emit(domain.AuthEvent{Type: domain.AuthEventSignedIn, Key: key, Session: session, Identity: identity})
	return session, nil
}

func (a *Auth) SignUp(ctx context.Context, key, email, password string, attrs domain.ProfileAttributes) (*domain.Session, *domain.Identity, error) {
	resp, err := a.gotrue.SignUp(ctx, email, password, attrs)
	if err != nil {
		return nil, nil, err
	}
	identity := resp.User.identity()
	if identity.Metadata.UserType == "" {
		// older GoTrue servers do not echo the metadata back
		identity.Metadata = attrs
	}
	if resp.AccessToken == "" {
		// email confirmation pending
		return nil, identity, nil
	}

	session := resp.session()
	if err := a.store.Save(ctx, key, &StoredSession{Session: *session, Identity: *identity}); err != nil {
		return nil, nil, err
	}
	a.emit(domain.AuthEvent{Type: domain.AuthEventSignedIn, Key: key, Session: session, Identity: identity})
	return session, identity, nil
}

// SignOut forgets the session locally before revoking it remotely, so the
// key is signed out even when GoTrue is unreachable.
func (a *Auth) SignOut(ctx context.Context, key string) error {
	stored, loadErr := a.store.Load(ctx, key)
	if err := a.store.Delete(ctx, key); err != nil {
		logger.Log.Warn("Failed to delete stored session", "error", err)
	}
	a.emit(domain.AuthEvent{Type: domain.AuthEventSignedOut, Key: key})

	if loadErr != nil {
		return loadErr
	}
	if stored == nil || stored.Session.AccessToken == "" {
		return nil
	}
	return a.gotrue.Logout(ctx, stored.Session.AccessToken)
}

// RefreshSession trades the stored refresh token for a new session.
// Concurrent refreshes of the same key share one GoTrue call, since a
// refresh token can only be used once.
func (a *Auth) RefreshSession(ctx context.Context, key string) (*domain.Session, error) {
	v, err, _ := a.refreshGroup.Do(key, func() (interface{}, error) {
		return a.refresh(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Session), nil
}

func (a *Auth) refresh(ctx context.Context, key string) (*domain.Session, error) {
	stored, err := a.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.Session.RefreshToken == "" {
		return nil, &domain.AuthError{Kind: domain.AuthSessionMissing, Message: "no session to refresh"}
	}

	resp, err := a.gotrue.RefreshGrant(ctx, stored.Session.RefreshToken)
	if err != nil {
		if IsAuthKind(err, domain.AuthSessionMissing) {
			_ = a.store.Delete(ctx, key)
			a.emit(domain.AuthEvent{Type: domain.AuthEventSignedOut, Key: key})
		}
		return nil, err
	}

	session := resp.session()
	identity := resp.User.identity()
	if identity.ID == "" {
		identity = &stored.Identity
	}
	if err := a.store.Save(ctx, key, &StoredSession{Session: *session, Identity: *identity}); err != nil {
		return nil, err
	}
	a.emit(domain.AuthEvent{Type: domain.AuthEventTokenRefreshed, Key: key, Session: session, Identity: identity})
	return session, nil
}

// GetUser checks the stored access token and returns the identity it was
// issued to. Tokens are verified locally when a verifier is set; HS256
// tokens without a configured secret are checked with GoTrue instead. An
// expired token still names its user: expiry is left to the caller.
func (a *Auth) GetUser(ctx context.Context, key string) (*domain.Identity, error) {
	stored, err := a.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, &domain.AuthError{Kind: domain.AuthSessionMissing, Message: "not signed in"}
	}

	if a.verifier != nil {
		claims, err := a.verifier.Verify(ctx, stored.Session.AccessToken)
		switch {
		case err == nil, claims != nil && errors.Is(err, jwt.ErrTokenExpired):
			identity := stored.Identity
			identity.ID = claims.Subject
			if claims.Email != "" {
				identity.Email = claims.Email
			}
			return &identity, nil
		case errors.Is(err, ErrKeysUnavailable):
			return nil, &domain.AuthError{Kind: domain.AuthUnavailable, Message: err.Error()}
		case !errors.Is(err, ErrNoSecret):
			return nil, &domain.AuthError{Kind: domain.AuthSessionMissing, Message: err.Error()}
		}
	}

	if stored.Session.Expired(time.Now()) {
		identity := stored.Identity
		return &identity, nil
	}
	user, err := a.gotrue.User(ctx, stored.Session.AccessToken)
	if err != nil {
		return nil, err
	}
	return user.identity(), nil
}
