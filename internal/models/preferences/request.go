package models

import (
	accountmodels "io.winapps.smokefree/internal/models/account"
)

type GoalInput struct {
	// ID is set when an existing goal is being updated.
	ID          *int64 `json:"id,omitempty"`
	Description string `json:"description" binding:"required"`
	IsCompleted bool   `json:"is_completed"`
}

type CreatePreferenceRequest struct {
	Reason       string             `json:"reason" binding:"required"`
	QuitDate     accountmodels.Date `json:"quit_date" binding:"required"`
	Language     *string            `json:"language,omitempty"`
	CigPerDay    *int               `json:"cig_per_day,omitempty" binding:"omitempty,min=0"`
	YearsSmoking *int               `json:"years_smoking,omitempty" binding:"omitempty,min=0"`
	CigPrice     *int               `json:"cig_price,omitempty" binding:"omitempty,min=0"`
	Goals        []GoalInput        `json:"goals" binding:"dive"`
}

type UpdatePreferenceRequest struct {
	Reason       *string             `json:"reason,omitempty"`
	QuitDate     *accountmodels.Date `json:"quit_date,omitempty"`
	Language     *string             `json:"language,omitempty"`
	CigPerDay    *int                `json:"cig_per_day,omitempty" binding:"omitempty,min=0"`
	YearsSmoking *int                `json:"years_smoking,omitempty" binding:"omitempty,min=0"`
	CigPrice     *int                `json:"cig_price,omitempty" binding:"omitempty,min=0"`
	// Goals, when present, replaces the stored list.
	Goals *[]GoalInput `json:"goals,omitempty" binding:"omitempty,dive"`
}
