package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	accountmodels "io.winapps.smokefree/internal/models/account"
	prefmodels "io.winapps.smokefree/internal/models/preferences"
	"io.winapps.smokefree/internal/services"
	"io.winapps.smokefree/internal/store"
)

type PreferenceManager interface {
	Get(ctx context.Context, userID int64) (*accountmodels.Preference, error)
	Create(ctx context.Context, userID int64, req *prefmodels.CreatePreferenceRequest) (*accountmodels.Preference, error)
	Update(ctx context.Context, userID int64, req *prefmodels.UpdatePreferenceRequest) (*accountmodels.Preference, error)
}

type MotivationRefresher interface {
	Regenerate(ctx context.Context, userID int64)
}

type PreferencesHandler struct {
	prefs      PreferenceManager
	motivation MotivationRefresher
	logger     *zap.SugaredLogger
}

func NewPreferencesHandler(prefs PreferenceManager, motivation MotivationRefresher, logger *zap.SugaredLogger) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs, motivation: motivation, logger: logger}
}

func (h *PreferencesHandler) GetPreference(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	pref, err := h.prefs.Get(c.Request.Context(), userID)
	if errors.Is(err, services.ErrNoPreference) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No preference set"})
		return
	}
	if err != nil {
		logError(h.logger, c, err, "Failed to load preference")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preference"})
		return
	}
	c.JSON(http.StatusOK, pref)
}

// CreatePreference stores the user's quit plan and writes today's
// motivation for it.
func (h *PreferencesHandler) CreatePreference(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req prefmodels.CreatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.QuitDate.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quit date is required"})
		return
	}

	pref, err := h.prefs.Create(c.Request.Context(), userID, &req)
	if errors.Is(err, store.ErrDuplicate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Preferences already set"})
		return
	}
	if err != nil {
		logError(h.logger, c, err, "Failed to create preference")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create preference"})
		return
	}

	h.motivation.Regenerate(c.Request.Context(), userID)
	logWithContext(h.logger, c, "info", "Preference created", "preference_id", pref.ID)
	c.JSON(http.StatusCreated, pref)
}

// UpdatePreference patches the plan. Today's motivation is dropped and
// written again so it reflects the new reason, goals or quit date.
func (h *PreferencesHandler) UpdatePreference(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req prefmodels.UpdatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.QuitDate != nil && req.QuitDate.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quit date cannot be empty"})
		return
	}

	pref, err := h.prefs.Update(c.Request.Context(), userID, &req)
	if errors.Is(err, services.ErrNoPreference) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Preferences not found"})
		return
	}
	if err != nil {
		logError(h.logger, c, err, "Failed to update preference")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preference"})
		return
	}

	h.motivation.Regenerate(c.Request.Context(), userID)
	logWithContext(h.logger, c, "info", "Preference updated", "preference_id", pref.ID)
	c.JSON(http.StatusOK, pref)
}
