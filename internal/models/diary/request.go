package models

import (
	accountmodels "io.winapps.smokefree/internal/models/account"
)

type CreateDiaryRequest struct {
	Date                   accountmodels.Date `json:"date" binding:"required"`
	Notes                  string             `json:"notes" binding:"required"`
	HaveSmoked             bool               `json:"have_smoked"`
	CravingRange           *int               `json:"craving_range,omitempty" binding:"omitempty,min=0,max=10"`
	NumberOfCravings       *int               `json:"number_of_cravings,omitempty" binding:"omitempty,min=0"`
	NumberOfCigaretsSmoked *int               `json:"number_of_cigarets_smoked,omitempty" binding:"omitempty,min=0"`
}

type UpdateDiaryRequest struct {
	Date                   *accountmodels.Date `json:"date,omitempty"`
	Notes                  *string             `json:"notes,omitempty"`
	HaveSmoked             *bool               `json:"have_smoked,omitempty"`
	CravingRange           *int                `json:"craving_range,omitempty" binding:"omitempty,min=0,max=10"`
	NumberOfCravings       *int                `json:"number_of_cravings,omitempty" binding:"omitempty,min=0"`
	NumberOfCigaretsSmoked *int                `json:"number_of_cigarets_smoked,omitempty" binding:"omitempty,min=0"`
}
