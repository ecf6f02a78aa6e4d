package models

import (
	accountmodels "io.winapps.smokefree/internal/models/account"
)

type MotivationListResponse struct {
	Motivations []accountmodels.DailyMotivation `json:"motivations"`
	Total       int                             `json:"total"`
}

type MotivationCountResponse struct {
	Count int `json:"count"`
}
