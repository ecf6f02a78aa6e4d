package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.smokefree/internal/health"
	accountmodels "io.winapps.smokefree/internal/models/account"
	healthmodels "io.winapps.smokefree/internal/models/health"
	"io.winapps.smokefree/internal/services"
)

// HealthHandler reports the recovery indices for today. It is unrelated to
// the /healthcheck liveness probe.
type HealthHandler struct {
	prefs  PreferenceManager
	loc    *time.Location
	now    func() time.Time
	logger *zap.SugaredLogger
}

func NewHealthHandler(prefs PreferenceManager, loc *time.Location, logger *zap.SugaredLogger) *HealthHandler {
	return &HealthHandler{prefs: prefs, loc: loc, now: time.Now, logger: logger}
}

func (h *HealthHandler) GetHealth(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	pref, err := h.prefs.Get(c.Request.Context(), userID)
	if errors.Is(err, services.ErrNoPreference) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Preferences not found"})
		return
	}
	if err != nil {
		logError(h.logger, c, err, "Failed to load preference")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preference"})
		return
	}

	today := accountmodels.DateOf(h.now().In(h.loc))
	days := pref.DaysSinceQuit(today)
	idx := health.Compute(days)
	savings := health.ComputeSavings(days, pref.CigPerDay, pref.CigPrice)
	if days < 0 {
		days = 0
	}

	c.JSON(http.StatusOK, healthmodels.HealthResponse{
		Date:                       today,
		DaysSinceQuit:              days,
		PulseRate:                  idx.PulseRate,
		OxygenLevels:               idx.OxygenLevels,
		CarbonMonoxideLevel:        idx.CarbonMonoxideLevel,
		NicotineExpelled:           idx.NicotineExpelled,
		TasteAndSmell:              idx.TasteAndSmell,
		Breathing:                  idx.Breathing,
		EnergyLevels:               idx.EnergyLevels,
		Circulation:                idx.Circulation,
		GumTexture:                 idx.GumTexture,
		ImmunityAndLungFunction:    idx.ImmunityAndLungFunction,
		ReducedRiskOfHeartDisease:  idx.ReducedRiskOfHeartDisease,
		DecreasedRiskOfLungCancer:  idx.DecreasedRiskOfLungCancer,
		DecreasedRiskOfHeartAttack: idx.DecreasedRiskOfHeartAttack,
		LifeRegainedInHours:        idx.LifeRegainedInHours,
		CigarettesAvoided:          savings.CigarettesAvoided,
		MoneySaved:                 savings.MoneySaved,
		MinutesNotSmoked:           savings.MinutesNotSmoked,
	})
}
