package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	accountmodels "io.winapps.smokefree/internal/models/account"
	badgemodels "io.winapps.smokefree/internal/models/badges"
	"io.winapps.smokefree/internal/store"
)

type BadgeStore interface {
	CreateBadge(ctx context.Context, req *badgemodels.CreateBadgeRequest) (*accountmodels.Badge, error)
	CountBadges(ctx context.Context) (int, error)
	ListBadges(ctx context.Context, page store.Page) ([]accountmodels.Badge, error)
	ListUserBadges(ctx context.Context, userID int64, page store.Page) ([]accountmodels.Badge, error)
	CountUserBadges(ctx context.Context, userID int64) (int, error)
	GetBadge(ctx context.Context, id int64) (*accountmodels.Badge, error)
	UpdateBadge(ctx context.Context, id int64, req *badgemodels.UpdateBadgeRequest) (*accountmodels.Badge, error)
	DeleteBadge(ctx context.Context, id int64) error
	ListBadgeHolders(ctx context.Context, badgeID int64) ([]int64, error)
	AssignBadge(ctx context.Context, userID, badgeID int64) error
}

// PreferenceInvalidator drops a user's cached preference, which embeds the
// badges they hold.
type PreferenceInvalidator interface {
	Invalidate(ctx context.Context, userID int64)
}

type BadgesHandler struct {
	store  BadgeStore
	prefs  PreferenceInvalidator
	logger *zap.SugaredLogger
}

func NewBadgesHandler(s BadgeStore, prefs PreferenceInvalidator, logger *zap.SugaredLogger) *BadgesHandler {
	return &BadgesHandler{store: s, prefs: prefs, logger: logger}
}

func (h *BadgesHandler) ListBadges(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	list, err := h.store.ListBadges(ctx, page)
	if err != nil {
		logError(h.logger, c, err, "Failed to list badges")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list badges"})
		return
	}
	total, err := h.store.CountBadges(ctx)
	if err != nil {
		logError(h.logger, c, err, "Failed to count badges")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list badges"})
		return
	}
	if list == nil {
		list = []accountmodels.Badge{}
	}
	c.JSON(http.StatusOK, badgemodels.BadgeListResponse{Badges: list, Total: total})
}

// ListMyBadges returns the badges the authenticated user has earned.
func (h *BadgesHandler) ListMyBadges(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	list, err := h.store.ListUserBadges(ctx, userID, page)
	if err != nil {
		logError(h.logger, c, err, "Failed to list user badges")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list badges"})
		return
	}
	total, err := h.store.CountUserBadges(ctx, userID)
	if err != nil {
		logError(h.logger, c, err, "Failed to count user badges")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list badges"})
		return
	}
	if list == nil {
		list = []accountmodels.Badge{}
	}
	c.JSON(http.StatusOK, badgemodels.BadgeListResponse{Badges: list, Total: total})
}

func (h *BadgesHandler) GetBadge(c *gin.Context) {
	id, ok := pathID(c, "badge")
	if !ok {
		return
	}

	badge, err := h.store.GetBadge(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Badge not found"})
		return
	}
	if err != nil {
		logError(h.logger, c, err, "Failed to load badge", "badge_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load badge"})
		return
	}
	c.JSON(http.StatusOK, badge)
}

func (h *BadgesHandler) CreateBadge(c *gin.Context) {
	var req badgemodels.CreateBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	badge, err := h.store.CreateBadge(c.Request.Context(), &req)
	if errors.Is(err, store.ErrDuplicate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Badge with this name or condition time already exists"})
		return
	}
	if err != nil {
		logError(h.logger, c, err, "Failed to create badge")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create badge"})
		return
	}

	logWithContext(h.logger, c, "info", "Badge created", "badge_id", badge.ID)
	c.JSON(http.StatusCreated, badge)
}

func (h *BadgesHandler) UpdateBadge(c *gin.Context) {
	id, ok := pathID(c, "badge")
	if !ok {
		return
	}

	var req badgemodels.UpdateBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	holders := h.badgeHolders(c, id)
	badge, err := h.store.UpdateBadge(c.Request.Context(), id, &req)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Badge not found"})
		return
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Badge with this name or condition time already exists"})
		return
	default:
		logError(h.logger, c, err, "Failed to update badge", "badge_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update badge"})
		return
	}
	h.invalidateHolders(c, holders)
	c.JSON(http.StatusOK, badge)
}

func (h *BadgesHandler) DeleteBadge(c *gin.Context) {
	id, ok := pathID(c, "badge")
	if !ok {
		return
	}

	holders := h.badgeHolders(c, id)
	err := h.store.DeleteBadge(c.Request.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Badge not found"})
		return
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Badge is still assigned to users"})
		return
	default:
		logError(h.logger, c, err, "Failed to delete badge", "badge_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete badge"})
		return
	}

	h.invalidateHolders(c, holders)
	logWithContext(h.logger, c, "info", "Badge deleted", "badge_id", id)
	c.Status(http.StatusNoContent)
}

// badgeHolders is read before a catalog change because cached preferences
// embed the holder's badges and deletes cascade the awards away.
func (h *BadgesHandler) badgeHolders(c *gin.Context, badgeID int64) []int64 {
	holders, err := h.store.ListBadgeHolders(c.Request.Context(), badgeID)
	if err != nil {
		logWithContext(h.logger, c, "warn", "Failed to list badge holders", "badge_id", badgeID, "error", err)
		return nil
	}
	return holders
}

func (h *BadgesHandler) invalidateHolders(c *gin.Context, holders []int64) {
	for _, userID := range holders {
		h.prefs.Invalidate(c.Request.Context(), userID)
	}
}

// AssignBadge grants a badge to the calling user by hand.
func (h *BadgesHandler) AssignBadge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "badge")
	if !ok {
		return
	}

	err := h.store.AssignBadge(c.Request.Context(), userID, id)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Badge already assigned"})
		return
	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Badge not found"})
		return
	default:
		logError(h.logger, c, err, "Failed to assign badge", "badge_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign badge"})
		return
	}

	h.prefs.Invalidate(c.Request.Context(), userID)
	c.JSON(http.StatusCreated, badgemodels.AssignBadgeResponse{UserID: userID, BadgeID: id})
}
