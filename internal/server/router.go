package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.smokefree/internal/handlers"
	"io.winapps.smokefree/internal/metrics"
	"io.winapps.smokefree/internal/middleware"
)

const manageBadges = "manage:badges"

type Deps struct {
	Logger         *zap.SugaredLogger
	AllowedOrigins []string
	Auth           gin.HandlerFunc
	RateLimiter    *middleware.RateLimiter

	System        *handlers.SystemHandler
	Users         *handlers.UsersHandler
	Preferences   *handlers.PreferencesHandler
	Diary         *handlers.DiaryHandler
	Cravings      *handlers.CravingsHandler
	Badges        *handlers.BadgesHandler
	Motivation    *handlers.MotivationHandler
	Health        *handlers.HealthHandler
	Notifications *handlers.NotificationsHandler
}

// NewRouter builds the gin engine. Global middleware runs in the order
// request id, recovery, logging, CORS, metrics.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.RecoveryMiddleware(d.Logger),
		middleware.RequestLoggingMiddleware(d.Logger),
		middleware.CORSMiddleware(d.AllowedOrigins),
		middleware.MetricsMiddleware(),
	)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	limit := d.RateLimiter.Handler()

	v1 := router.Group("/api/v1")
	{
		v1.GET("/healthcheck", d.System.HealthCheck)
		v1.GET("/readiness", d.System.Readiness)
		v1.GET("/auth/config", limit, d.System.AuthConfig)

		public := v1.Group("", limit)
		{
			public.GET("/badges", d.Badges.ListBadges)
			public.GET("/badges/:id", d.Badges.GetBadge)
		}

		authed := v1.Group("", d.Auth, limit)
		{
			authed.GET("/users/me", d.Users.GetMe)
			authed.PATCH("/users/me", d.Users.UpdateMe)

			authed.GET("/preferences", d.Preferences.GetPreference)
			authed.POST("/preferences", d.Preferences.CreatePreference)
			authed.PATCH("/preferences", d.Preferences.UpdatePreference)

			authed.GET("/diary", d.Diary.ListEntries)
			authed.GET("/diary/:id", d.Diary.GetEntry)
			authed.POST("/diary", d.Diary.CreateEntry)
			authed.PATCH("/diary/:id", d.Diary.UpdateEntry)
			authed.DELETE("/diary/:id", d.Diary.DeleteEntry)

			authed.GET("/cravings", d.Cravings.ListCravings)
			authed.GET("/cravings/:id", d.Cravings.GetCraving)
			authed.POST("/cravings", d.Cravings.CreateCraving)
			authed.PUT("/cravings/:id", d.Cravings.UpdateCraving)
			authed.DELETE("/cravings/:id", d.Cravings.DeleteCraving)

			authed.GET("/badges/me", d.Badges.ListMyBadges)
			admin := authed.Group("/badges", middleware.RequirePermission(manageBadges))
			{
				admin.POST("", d.Badges.CreateBadge)
				admin.PUT("/:id", d.Badges.UpdateBadge)
				admin.DELETE("/:id", d.Badges.DeleteBadge)
				admin.POST("/:id/assign", d.Badges.AssignBadge)
			}

			authed.GET("/motivation/detailed-text", d.Motivation.GetDetailedText)
			authed.GET("/motivation", d.Motivation.ListMotivations)
			authed.GET("/motivation/count", d.Motivation.CountMotivations)

			authed.GET("/health", d.Health.GetHealth)

			authed.POST("/notifications/register", d.Notifications.RegisterPushToken)
		}
	}

	return router
}
