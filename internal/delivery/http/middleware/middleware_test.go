package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/internal/session"
	"event-staffing-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withState(state session.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(domain.KeyAuthState), state)
		c.Next()
	}
}

func signedIn(role domain.UserType, expiresAt int64) session.State {
	return session.State{
		User:    &domain.Profile{ID: "u1", UserType: role},
		Session: &domain.Session{UserID: "u1", ExpiresAt: expiresAt},
	}
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestProtectedRoute(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name     string
		state    session.State
		role     domain.UserType
		method   string
		status   int
		location string
	}{
		{
			name:   "loading answers 202",
			state:  session.State{Loading: true},
			method: http.MethodGet,
			status: http.StatusAccepted,
		},
		{
			name:     "signed out redirects to login",
			state:    session.State{},
			method:   http.MethodGet,
			status:   http.StatusFound,
			location: "/auth/login?redirect=%2Fpage%3Ftab%3D2",
		},
		{
			name:     "wrong role on POST uses 303",
			state:    signedIn(domain.UserTypePromoter, future),
			role:     domain.UserTypeCompany,
			method:   http.MethodPost,
			status:   http.StatusSeeOther,
			location: "/dashboard?error=no_permission",
		},
		{
			name:   "matching role passes",
			state:  signedIn(domain.UserTypeCompany, future),
			role:   domain.UserTypeCompany,
			method: http.MethodGet,
			status: http.StatusOK,
		},
		{
			name:   "any role passes an open route",
			state:  signedIn(domain.UserTypeSupervisor, future),
			method: http.MethodGet,
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Handle(tt.method, "/page", withState(tt.state), ProtectedRoute(tt.role), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := serve(r, tt.method, "/page?tab=2")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
			if tt.status == http.StatusAccepted {
				assert.Equal(t, "1", w.Header().Get("Retry-After"))
			}
		})
	}
}

func TestProtectedRoute_WithoutSessionMiddlewareIsPending(t *testing.T) {
	r := gin.New()
	r.GET("/page", ProtectedRoute(""), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusAccepted, serve(r, http.MethodGet, "/page").Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := serve(r, http.MethodGet, "/")
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Body.String())

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.GET("/validation", func(c *gin.Context) {
		c.Error(apperror.Validation("Please check the highlighted fields", []string{"Email is required"}))
	})
	r.GET("/internal", func(c *gin.Context) {
		c.Error(assert.AnError)
	})

	w := serve(r, http.MethodGet, "/validation")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email is required")

	w = serve(r, http.MethodGet, "/internal")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestRateLimitMiddleware_InMemory(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitConfig{Limit: 2, Window: time.Hour, KeyPrefix: "rl:test:"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/").Code)

	w := serve(r, http.MethodGet, "/")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestLocalLimiterSweepsIdleVisitors(t *testing.T) {
	l := newLocalLimiter(RateLimitConfig{Limit: 5, Window: time.Minute})
	start := time.Now()

	l.get("10.0.0.1", start)
	l.get("10.0.0.2", start.Add(5*time.Minute))
	assert.Len(t, l.visitors, 2)

	// past the idle window only the recent visitor survives the sweep
	l.get("10.0.0.3", start.Add(11*time.Minute))
	assert.Len(t, l.visitors, 2)
	assert.NotContains(t, l.visitors, "10.0.0.1")
	assert.Contains(t, l.visitors, "10.0.0.2")
}

func TestCSRFMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CSRFMiddleware(false, "/auth/login"))
	r.POST("/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/messages", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/auth/login").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPost, "/messages").Code)

	req := httptest.NewRequest(http.MethodPost, "/messages", nil)
	req.AddCookie(&http.Cookie{Name: CSRFTokenCookieName, Value: "token"})
	req.Header.Set(CSRFTokenHeaderName, "token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/messages", nil)
	req.Header.Set(SessionHeader, "key")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware(true))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "key"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
}

func TestExpiresWithin(t *testing.T) {
	now := time.Unix(1_000, 0)

	assert.False(t, expiresWithin(nil, time.Minute, now))
	assert.False(t, expiresWithin(&domain.Session{}, time.Minute, now))
	assert.True(t, expiresWithin(&domain.Session{ExpiresAt: 1_030}, time.Minute, now))
	assert.False(t, expiresWithin(&domain.Session{ExpiresAt: 2_000}, time.Minute, now))
}
