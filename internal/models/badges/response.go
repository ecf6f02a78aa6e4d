package models

import (
	accountmodels "io.winapps.smokefree/internal/models/account"
)

type BadgeListResponse struct {
	Badges []accountmodels.Badge `json:"badges"`
	Total  int                   `json:"total"`
}

type AssignBadgeResponse struct {
	UserID  int64 `json:"user_id"`
	BadgeID int64 `json:"badge_id"`
}
