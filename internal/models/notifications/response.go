package models

type RegisterPushTokenResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
