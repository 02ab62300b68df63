package v1

import (
	"net/http"

	"event-staffing-backend/internal/delivery/http/response"
	"event-staffing-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUC domain.NotificationUsecase
}

func NewNotificationHandler(authenticated *gin.RouterGroup, notificationUC domain.NotificationUsecase) {
	handler := &NotificationHandler{notificationUC: notificationUC}

	notifications := authenticated.Group("/notifications")
	{
		notifications.GET("", handler.List)
		notifications.PATCH("/read-all", handler.MarkAllAsRead)
		notifications.PATCH("/:id/read", handler.MarkAsRead)
	}
}

// List godoc
// @Summary      Notifications page
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	notifications, err := h.notificationUC.List(ctx, userID)
	if err != nil {
		c.Error(err)
		return
	}
	unread, err := h.notificationUC.UnreadCount(ctx, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Notifications retrieved", gin.H{
		"notifications": notifications,
		"unread":        unread,
	})
}

// MarkAsRead godoc
// @Summary      Mark notification as read
// @Description  Idempotent
// @Tags         notifications
// @Produce      json
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  response.Response
// @Router       /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	if err := h.notificationUC.MarkAsRead(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllAsRead godoc
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.notificationUC.MarkAllAsRead(c.Request.Context(), currentUserID(c)); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "All notifications marked as read", nil)
}
