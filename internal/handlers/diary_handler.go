package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	accountmodels "io.winapps.smokefree/internal/models/account"
	diarymodels "io.winapps.smokefree/internal/models/diary"
	"io.winapps.smokefree/internal/store"
)

type DiaryStore interface {
	ListDiaryEntries(ctx context.Context, userID int64, page store.Page) ([]accountmodels.DiaryEntry, int, error)
	GetDiaryEntry(ctx context.Context, userID, id int64) (*accountmodels.DiaryEntry, error)
	CreateDiaryEntry(ctx context.Context, userID int64, req *diarymodels.CreateDiaryRequest) (*accountmodels.DiaryEntry, error)
	UpdateDiaryEntry(ctx context.Context, userID, id int64, req *diarymodels.UpdateDiaryRequest) (*accountmodels.DiaryEntry, error)
	DeleteDiaryEntry(ctx context.Context, userID, id int64) error
}

// DiaryHandler serves the one-entry-per-day smoking diary.
type DiaryHandler struct {
	store  DiaryStore
	logger *zap.SugaredLogger
}

func NewDiaryHandler(s DiaryStore, logger *zap.SugaredLogger) *DiaryHandler {
	return &DiaryHandler{store: s, logger: logger}
}

func (h *DiaryHandler) ListEntries(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}

	entries, total, err := h.store.ListDiaryEntries(c.Request.Context(), userID, page)
	if err != nil {
		logError(h.logger, c, err, "Failed to list diary entries")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list diary entries"})
		return
	}
	if entries == nil {
		entries = []accountmodels.DiaryEntry{}
	}
	c.JSON(http.StatusOK, diarymodels.DiaryListResponse{Diaries: entries, Total: total})
}

func (h *DiaryHandler) GetEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "diary")
	if !ok {
		return
	}

	entry, err := h.store.GetDiaryEntry(c.Request.Context(), userID, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Diary not found"})
		return
	}
	if err != nil {
		logError(h.logger, c, err, "Failed to load diary entry", "diary_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load diary entry"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *DiaryHandler) CreateEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req diarymodels.CreateDiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.Date.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date is required"})
		return
	}

	entry, err := h.store.CreateDiaryEntry(c.Request.Context(), userID, &req)
	if errors.Is(err, store.ErrDuplicate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Diary already exists for this date"})
		return
	}
	if err != nil {
		logError(h.logger, c, err, "Failed to create diary entry")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create diary entry"})
		return
	}

	logWithContext(h.logger, c, "info", "Diary entry created", "diary_id", entry.ID)
	c.JSON(http.StatusCreated, entry)
}

func (h *DiaryHandler) UpdateEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "diary")
	if !ok {
		return
	}

	var req diarymodels.UpdateDiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.Date != nil && req.Date.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date cannot be empty"})
		return
	}

	entry, err := h.store.UpdateDiaryEntry(c.Request.Context(), userID, id, &req)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Diary not found"})
		return
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Diary already exists for this date"})
		return
	default:
		logError(h.logger, c, err, "Failed to update diary entry", "diary_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update diary entry"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *DiaryHandler) DeleteEntry(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "diary")
	if !ok {
		return
	}

	err := h.store.DeleteDiaryEntry(c.Request.Context(), userID, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Diary not found"})
		return
	}
	if err != nil {
		logError(h.logger, c, err, "Failed to delete diary entry", "diary_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete diary entry"})
		return
	}

	logWithContext(h.logger, c, "info", "Diary entry deleted", "diary_id", id)
	c.Status(http.StatusNoContent)
}
