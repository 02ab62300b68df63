package middleware

import (
	"net/http"
	"strconv"
	"time"

	"event-staffing-backend/internal/delivery/http/response"
	"event-staffing-backend/internal/domain"
	"event-staffing-backend/internal/session"

	"github.com/gin-gonic/gin"
)

// PendingRetryAfter is sent with 202 while the session is still loading.
const PendingRetryAfter = 1

// ProtectedRoute gates a route group on the session state. An empty
// requiredRole admits any signed-in user.
func ProtectedRoute(requiredRole domain.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := CurrentState(c)
		decision := session.Decide(state, requiredRole, c.Request.URL.RequestURI(), time.Now())

		switch decision.Outcome {
		case session.Allow:
			c.Next()
		case session.Pending:
			c.Header("Retry-After", strconv.Itoa(PendingRetryAfter))
			response.Success(c, http.StatusAccepted, "Loading", gin.H{"loading": true})
			c.Abort()
		default:
			status := http.StatusFound
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				status = http.StatusSeeOther
			}
			c.Redirect(status, decision.Location)
			c.Abort()
		}
	}
}
