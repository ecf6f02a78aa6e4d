package models

type CreateBadgeRequest struct {
	Name          string `json:"name" yaml:"name" binding:"required"`
	Description   string `json:"description" yaml:"description"`
	Image         string `json:"image" yaml:"image"`
	ConditionTime int    `json:"condition_time" yaml:"condition_time" binding:"min=0"`
}

type UpdateBadgeRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	Image         *string `json:"image,omitempty"`
	ConditionTime *int    `json:"condition_time,omitempty" binding:"omitempty,min=0"`
}
