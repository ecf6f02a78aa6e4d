package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.smokefree/internal/middleware"
	accountmodels "io.winapps.smokefree/internal/models/account"
	"io.winapps.smokefree/internal/store"
)

const (
	defaultLimit = 100
	maxLimit     = 100
)

func requestContextFields(c *gin.Context) []interface{} {
	return append(middleware.ContextFields(c), "query", c.Request.URL.RawQuery)
}

func logWithContext(logger *zap.SugaredLogger, c *gin.Context, level string, msg string, fields ...interface{}) {
	if logger == nil {
		return
	}
	all := append(requestContextFields(c), fields...)
	switch level {
	case "debug":
		logger.Debugw(msg, all...)
	case "warn":
		logger.Warnw(msg, all...)
	case "error":
		logger.Errorw(msg, all...)
	default:
		logger.Infow(msg, all...)
	}
}

func logError(logger *zap.SugaredLogger, c *gin.Context, err error, msg string, fields ...interface{}) {
	logWithContext(logger, c, "error", msg, append(fields, "error", err)...)
}

// currentUserID reads the id AuthMiddleware stored. It writes the 401 itself
// when the request was not authenticated.
func currentUserID(c *gin.Context) (int64, bool) {
	uid := c.GetInt64(middleware.UserIDKey)
	if uid == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	return uid, true
}

func currentUser(c *gin.Context) (*accountmodels.User, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}
	return user, true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " ID"})
		return 0, false
	}
	return id, true
}

// pageFromQuery reads skip (>= 0, default 0) and limit (1..100, default 100).
func pageFromQuery(c *gin.Context) (store.Page, bool) {
	page := store.Page{Skip: 0, Limit: defaultLimit}

	if raw := c.Query("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "skip must be a non-negative integer"})
			return page, false
		}
		page.Skip = skip
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return page, false
		}
		page.Limit = limit
	}
	return page, true
}
