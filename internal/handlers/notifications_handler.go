package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	notificationsmodels "io.winapps.smokefree/internal/models/notifications"
)

type PushTokenStore interface {
	UpsertPushToken(ctx context.Context, userID int64, token, platform string) error
}

type NotificationsHandler struct {
	store  PushTokenStore
	logger *zap.SugaredLogger
}

func NewNotificationsHandler(s PushTokenStore, logger *zap.SugaredLogger) *NotificationsHandler {
	return &NotificationsHandler{store: s, logger: logger}
}

// RegisterPushToken stores the device token badge notifications go to.
// A user has one active token; registering again replaces it.
func (h *NotificationsHandler) RegisterPushToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req notificationsmodels.RegisterPushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.store.UpsertPushToken(c.Request.Context(), userID, req.Token, req.Platform); err != nil {
		logError(h.logger, c, err, "Error saving push token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save token"})
		return
	}

	logWithContext(h.logger, c, "info", "Push token registered", "platform", req.Platform)
	c.JSON(http.StatusOK, notificationsmodels.RegisterPushTokenResponse{Success: true, Message: "Token registered successfully"})
}
