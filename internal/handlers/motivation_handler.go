package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	accountmodels "io.winapps.smokefree/internal/models/account"
	motivationmodels "io.winapps.smokefree/internal/models/motivation"
	"io.winapps.smokefree/internal/motivation"
	"io.winapps.smokefree/internal/services"
	"io.winapps.smokefree/internal/store"
)

type TodayMotivation interface {
	Today(ctx context.Context, userID int64) (*accountmodels.DailyMotivation, error)
}

type MotivationHistory interface {
	ListMotivations(ctx context.Context, userID int64, page store.Page) ([]accountmodels.DailyMotivation, error)
	CountMotivations(ctx context.Context, userID int64) (int, error)
}

type MotivationHandler struct {
	today   TodayMotivation
	history MotivationHistory
	logger  *zap.SugaredLogger
}

func NewMotivationHandler(today TodayMotivation, history MotivationHistory, logger *zap.SugaredLogger) *MotivationHandler {
	return &MotivationHandler{today: today, history: history, logger: logger}
}

// GetDetailedText returns today's motivation, generating it on first read.
func (h *MotivationHandler) GetDetailedText(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	m, err := h.today.Today(c.Request.Context(), userID)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrNoPreference):
		c.JSON(http.StatusNotFound, gin.H{"error": "Preferences not found"})
		return
	case errors.Is(err, motivation.ErrInvalidResponse):
		logError(h.logger, c, err, "Model returned an unusable motivation")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Invalid motivation returned by the model"})
		return
	default:
		logError(h.logger, c, err, "Failed to load motivation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load motivation"})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MotivationHandler) ListMotivations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	list, err := h.history.ListMotivations(ctx, userID, page)
	if err != nil {
		logError(h.logger, c, err, "Failed to list motivations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list motivations"})
		return
	}
	total, err := h.history.CountMotivations(ctx, userID)
	if err != nil {
		logError(h.logger, c, err, "Failed to count motivations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list motivations"})
		return
	}
	if list == nil {
		list = []accountmodels.DailyMotivation{}
	}
	c.JSON(http.StatusOK, motivationmodels.MotivationListResponse{Motivations: list, Total: total})
}

func (h *MotivationHandler) CountMotivations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	n, err := h.history.CountMotivations(c.Request.Context(), userID)
	if err != nil {
		logError(h.logger, c, err, "Failed to count motivations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count motivations"})
		return
	}
	c.JSON(http.StatusOK, motivationmodels.MotivationCountResponse{Count: n})
}
