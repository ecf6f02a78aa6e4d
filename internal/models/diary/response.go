package models

import (
	accountmodels "io.winapps.smokefree/internal/models/account"
)

type DiaryListResponse struct {
	Diaries []accountmodels.DiaryEntry `json:"diaries"`
	Total   int                        `json:"total"`
}
