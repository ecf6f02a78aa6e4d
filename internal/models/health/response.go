package models

import (
	accountmodels "io.winapps.smokefree/internal/models/account"
)

type HealthResponse struct {
	Date                       accountmodels.Date `json:"date"`
	DaysSinceQuit              int                `json:"days_since_quit"`
	PulseRate                  int                `json:"pulse_rate"`
	OxygenLevels               int                `json:"oxygen_levels"`
	CarbonMonoxideLevel        int                `json:"carbon_monoxide_level"`
	NicotineExpelled           int                `json:"nicotine_expelled"`
	TasteAndSmell              int                `json:"taste_and_smell"`
	Breathing                  int                `json:"breathing"`
	EnergyLevels               int                `json:"energy_levels"`
	Circulation                int                `json:"circulation"`
	GumTexture                 int                `json:"gum_texture"`
	ImmunityAndLungFunction    int                `json:"immunity_and_lung_function"`
	ReducedRiskOfHeartDisease  int                `json:"reduced_risk_of_heart_disease"`
	DecreasedRiskOfLungCancer  int                `json:"decreased_risk_of_lung_cancer"`
	DecreasedRiskOfHeartAttack int                `json:"decreased_risk_of_heart_attack"`
	LifeRegainedInHours        int                `json:"life_regained_in_hours"`
	CigarettesAvoided          int                `json:"cigarettes_avoided"`
	MoneySaved                 int                `json:"money_saved"`
	MinutesNotSmoked           int                `json:"minutes_not_smoked"`
}
