package dto

import "time"

type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

type SetCalendarsRequest struct {
	CalendarIDs []string `json:"calendar_ids" binding:"required"`
}

type AuthURLResponse struct {
	URL string `json:"url"`
}

type StatusResponse struct {
	Provider  string     `json:"provider"`
	Connected bool       `json:"connected"`
	Email     string     `json:"email,omitempty"`
	LastSync  *time.Time `json:"last_sync,omitempty"`
}
