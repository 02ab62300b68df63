package middleware

import (
	"errors"
	"net/http"

	"event-staffing-backend/internal/delivery/http/response"
	"event-staffing-backend/pkg/apperror"
	"event-staffing-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Err != nil {
				level := logger.Log.Warn
				if appErr.Code >= http.StatusInternalServerError {
					level = logger.Log.Error
				}
				level("Request failed",
					"request_id", c.GetString(RequestIDKey),
					"path", c.FullPath(),
					"status", appErr.Code,
					"error", appErr.Err,
				)
			}
			var details interface{}
			if len(appErr.Details) > 0 {
				details = appErr.Details
			}
			response.Error(c, appErr.Code, appErr.Message, details)
			return
		}

		// Never expose internal error details to clients.
		logger.Log.Error("Internal Server Error",
			"request_id", c.GetString(RequestIDKey),
			"path", c.FullPath(),
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
