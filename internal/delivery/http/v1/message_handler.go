package v1

import (
	"net/http"

	"event-staffing-backend/internal/delivery/http/response"
	"event-staffing-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageUC domain.MessageUsecase
}

func NewMessageHandler(authenticated *gin.RouterGroup, messageUC domain.MessageUsecase) {
	handler := &MessageHandler{messageUC: messageUC}

	messages := authenticated.Group("/messages")
	{
		messages.GET("", handler.List)
		messages.POST("", handler.Send)
		messages.PATCH("/:id/read", handler.MarkAsRead)
	}
}

// List godoc
// @Summary      Messages page
// @Tags         messages
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	inbox, err := h.messageUC.ListInbox(ctx, userID)
	if err != nil {
		c.Error(err)
		return
	}
	sent, err := h.messageUC.ListSent(ctx, userID)
	if err != nil {
		c.Error(err)
		return
	}
	unread, err := h.messageUC.UnreadCount(ctx, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Messages retrieved", gin.H{
		"inbox":  inbox,
		"sent":   sent,
		"unread": unread,
	})
}

// Send godoc
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        message  body      domain.MessageInput  true  "Message"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var input domain.MessageInput
	if !bindJSON(c, &input) {
		return
	}
	msg, err := h.messageUC.Send(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Message sent", msg)
}

// MarkAsRead godoc
// @Summary      Mark message as read
// @Description  Idempotent
// @Tags         messages
// @Produce      json
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  response.Response
// @Router       /messages/{id}/read [patch]
func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	if err := h.messageUC.MarkAsRead(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Message marked as read", nil)
}
