package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	accountmodels "io.winapps.smokefree/internal/models/account"
	cravingmodels "io.winapps.smokefree/internal/models/cravings"
	"io.winapps.smokefree/internal/store"
)

type CravingStore interface {
	ListCravings(ctx context.Context, userID int64, day *accountmodels.Date, page store.Page) ([]accountmodels.Craving, int, error)
	GetCraving(ctx context.Context, userID, id int64) (*accountmodels.Craving, error)
	CreateCraving(ctx context.Context, userID int64, req *cravingmodels.CreateCravingRequest) (*accountmodels.Craving, error)
	UpdateCraving(ctx context.Context, userID, id int64, req *cravingmodels.UpdateCravingRequest) (*accountmodels.Craving, error)
	DeleteCraving(ctx context.Context, userID, id int64) error
}

type CravingsHandler struct {
	store  CravingStore
	logger *zap.SugaredLogger
}

func NewCravingsHandler(s CravingStore, logger *zap.SugaredLogger) *CravingsHandler {
	return &CravingsHandler{store: s, logger: logger}
}

// ListCravings accepts an optional day=YYYY-MM-DD filter.
func (h *CravingsHandler) ListCravings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}

	var day *accountmodels.Date
	if raw := c.Query("day"); raw != "" {
		d, err := accountmodels.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "day must be formatted as YYYY-MM-DD"})
			return
		}
		day = &d
	}

	cravings, total, err := h.store.ListCravings(c.Request.Context(), userID, day, page)
	if err != nil {
		logError(h.logger, c, err, "Failed to list cravings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list cravings"})
		return
	}
	if cravings == nil {
		cravings = []accountmodels.Craving{}
	}
	c.JSON(http.StatusOK, cravingmodels.CravingListResponse{Cravings: cravings, Total: total})
}

func (h *CravingsHandler) GetCraving(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "craving")
	if !ok {
		return
	}

	craving, err := h.store.GetCraving(c.Request.Context(), userID, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Craving not found"})
		return
	}
	if err != nil {
		logError(h.logger, c, err, "Failed to load craving", "craving_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load craving"})
		return
	}
	c.JSON(http.StatusOK, craving)
}

func (h *CravingsHandler) CreateCraving(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req cravingmodels.CreateCravingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.Date.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date is required"})
		return
	}

	craving, err := h.store.CreateCraving(c.Request.Context(), userID, &req)
	if err != nil {
		logError(h.logger, c, err, "Failed to create craving")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create craving"})
		return
	}

	logWithContext(h.logger, c, "info", "Craving created", "craving_id", craving.ID)
	c.JSON(http.StatusCreated, craving)
}

func (h *CravingsHandler) UpdateCraving(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "craving")
	if !ok {
		return
	}

	var req cravingmodels.UpdateCravingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	craving, err := h.store.UpdateCraving(c.Request.Context(), userID, id, &req)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Craving not found"})
		return
	}
	if err != nil {
		logError(h.logger, c, err, "Failed to update craving", "craving_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update craving"})
		return
	}
	c.JSON(http.StatusOK, craving)
}

func (h *CravingsHandler) DeleteCraving(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "craving")
	if !ok {
		return
	}

	err := h.store.DeleteCraving(c.Request.Context(), userID, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Craving not found"})
		return
	}
	if err != nil {
		logError(h.logger, c, err, "Failed to delete craving", "craving_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete craving"})
		return
	}
	c.Status(http.StatusNoContent)
}
