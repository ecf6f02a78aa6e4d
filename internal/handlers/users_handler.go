package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	accountmodels "io.winapps.smokefree/internal/models/account"
	usermodels "io.winapps.smokefree/internal/models/users"
	"io.winapps.smokefree/internal/services"
	"io.winapps.smokefree/internal/store"
)

type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, user *accountmodels.User, req *usermodels.UpdateUserRequest) (*accountmodels.User, error)
}

type UsersHandler struct {
	users  ProfileUpdater
	logger *zap.SugaredLogger
}

func NewUsersHandler(users ProfileUpdater, logger *zap.SugaredLogger) *UsersHandler {
	return &UsersHandler{users: users, logger: logger}
}

// GetMe returns the authenticated user's profile.
func (h *UsersHandler) GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe patches name, surname, img and email. auth0_id cannot change.
func (h *UsersHandler) UpdateMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req usermodels.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.Empty() {
		c.JSON(http.StatusOK, user)
		return
	}
	if req.Email != nil && *req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email cannot be empty"})
		return
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), user, &req)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrEmailChangeNotAllowed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email can only be changed for email and password accounts"})
		return
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already in use"})
		return
	default:
		logError(h.logger, c, err, "Failed to update user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	logWithContext(h.logger, c, "info", "User updated")
	c.JSON(http.StatusOK, updated)
}
