package models

import (
	accountmodels "io.winapps.smokefree/internal/models/account"
)

type CravingListResponse struct {
	Cravings []accountmodels.Craving `json:"cravings"`
	Total    int                     `json:"total"`
}
