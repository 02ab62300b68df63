package middleware

import (
	"context"
	"time"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/internal/session"
	"event-staffing-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie holds the opaque key of the browser session. Tokens stay
	// on the server.
	SessionCookie = "sb_session"
	// SessionHeader is accepted instead of the cookie by non-browser clients.
	SessionHeader = "X-Session-Key"
)

type SessionConfig struct {
	// Sessions expiring within RefreshMargin are refreshed before the
	// request is handled.
	RefreshMargin time.Duration
	// LoadTimeout bounds how long a request waits for a loading session.
	LoadTimeout time.Duration
}

// SessionMiddleware resolves the caller's session state and stores it in
// the gin context. It never rejects a request; ProtectedRoute decides.
func SessionMiddleware(manager *session.Manager, auth domain.AuthClient, cfg SessionConfig) gin.HandlerFunc {
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = 3 * time.Second
	}

	return func(c *gin.Context) {
		key := SessionKey(c)
		if key == "" {
			c.Set(string(domain.KeyAuthState), session.State{})
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.LoadTimeout)
		defer cancel()

		state, err := manager.Load(ctx, key)
		if err != nil {
			logger.Log.Warn("Failed to load session",
				"request_id", c.GetString(RequestIDKey),
				"error", err,
			)
		}
		if state.Loading {
			state = manager.Wait(ctx, key)
		}

		if state.SignedIn() && expiresWithin(state.Session, cfg.RefreshMargin, time.Now()) && state.Session.RefreshToken != "" {
			if _, err := auth.RefreshSession(ctx, key); err != nil {
				logger.Log.Info("Session refresh failed",
					"user_id", state.User.ID,
					"error", err,
				)
			}
			state = manager.Wait(ctx, key)
		}

		setState(c, key, state)
		c.Next()
	}
}

// SessionKey returns the session key sent by the client, if any.
func SessionKey(c *gin.Context) string {
	if key, err := c.Cookie(SessionCookie); err == nil && key != "" {
		return key
	}
	return c.GetHeader(SessionHeader)
}

// CurrentState returns the state stored by SessionMiddleware. Requests that
// never went through it read as loading.
func CurrentState(c *gin.Context) session.State {
	if v, ok := c.Get(string(domain.KeyAuthState)); ok {
		if state, ok := v.(session.State); ok {
			return state
		}
	}
	return session.State{Loading: true}
}

func setState(c *gin.Context, key string, state session.State) {
	c.Set(string(domain.KeySessionKey), key)
	c.Set(string(domain.KeyAuthState), state)
	if state.User != nil {
		c.Set(string(domain.KeyUserID), state.User.ID)
		c.Set(string(domain.KeyUserRole), string(state.User.UserType))
	}
	if state.Session != nil {
		c.Set(string(domain.KeyUserEmail), state.Session.Email)
	}
}

func expiresWithin(s *domain.Session, margin time.Duration, now time.Time) bool {
	if s == nil || s.ExpiresAt == 0 {
		return false
	}
	return time.Unix(s.ExpiresAt, 0).Sub(now) <= margin
}
