package models

import (
	accountmodels "io.winapps.smokefree/internal/models/account"
)

type CreateCravingRequest struct {
	Date                   accountmodels.Date `json:"date" binding:"required"`
	Comments               string             `json:"comments" binding:"required"`
	HaveSmoked             bool               `json:"have_smoked"`
	DesireRange            *int               `json:"desire_range,omitempty" binding:"omitempty,min=0,max=10"`
	NumberOfCigaretsSmoked *int               `json:"number_of_cigarets_smoked,omitempty" binding:"omitempty,min=0"`
	Feeling                *string            `json:"feeling,omitempty"`
	Activity               *string            `json:"activity,omitempty"`
	Company                *string            `json:"company,omitempty"`
}

type UpdateCravingRequest struct {
	Comments               *string `json:"comments,omitempty"`
	HaveSmoked             *bool   `json:"have_smoked,omitempty"`
	DesireRange            *int    `json:"desire_range,omitempty" binding:"omitempty,min=0,max=10"`
	NumberOfCigaretsSmoked *int    `json:"number_of_cigarets_smoked,omitempty" binding:"omitempty,min=0"`
	Feeling                *string `json:"feeling,omitempty"`
	Activity               *string `json:"activity,omitempty"`
	Company                *string `json:"company,omitempty"`
}
