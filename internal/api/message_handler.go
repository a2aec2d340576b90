package api

import (
	"coachfit/coaching-app/internal/domain"
	"coachfit/coaching-app/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type SendMessageRequest struct {
	RecipientID string `json:"recipientId" binding:"required"`
	Body        string `json:"body" binding:"required"`
}

func mapMessageError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrRecipientNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotPaired):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEmptyMessage):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// Send godoc
// @Summary Send a message to the paired coach or client
// @Tags Messages
// @Security BearerAuth
// @Param message body SendMessageRequest true "Recipient and body"
// @Success 201 {object} domain.Message
// @Router /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	senderID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify sender from token.")
		return
	}
	recipientID, err := primitive.ObjectIDFromHex(req.RecipientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid recipientId format.")
		return
	}

	message, err := h.messageService.Send(c.Request.Context(), senderID, recipientID, req.Body)
	if err != nil {
		mapMessageError(c, err, "Failed to send message.")
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) GetConversation(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	otherUserID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	messages, err := h.messageService.GetConversation(c.Request.Context(), userID, otherUserID)
	if err != nil {
		mapMessageError(c, err, "Failed to retrieve conversation.")
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	c.JSON(http.StatusOK, messages)
}

func (h *MessageHandler) MarkConversationRead(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	otherUserID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.messageService.MarkConversationRead(c.Request.Context(), userID, otherUserID); err != nil {
		mapMessageError(c, err, "Failed to mark conversation read.")
		return
	}
	c.Status(http.StatusNoContent)
}
