package dto

import "github.com/docsched/clinic-booking-api/internal/models"

// AppointmentListRequest captures query params for the admin appointment list.
type AppointmentListRequest struct {
	Status          string `form:"status" validate:"omitempty,oneof=pending approved rejected cancelled"`
	Day             string `form:"day"`
	Date            string `form:"date"`
	Phone           string `form:"phone"`
	IncludeRejected bool   `form:"include_rejected"`
	Page            int    `form:"page" validate:"omitempty,min=1"`
	PageSize        int    `form:"page_size" validate:"omitempty,min=1,max=100"`
	SortBy          string `form:"sort_by"`
	SortOrder       string `form:"sort_order" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// StatusUpdateRequest is the practitioner's decision on a pending request.
type StatusUpdateRequest struct {
	Status models.AppointmentStatus `json:"status" validate:"required,oneof=approved rejected"`
}

// AvailabilityUpsertRequest replaces one weekday's schedule configuration.
type AvailabilityUpsertRequest struct {
	Enabled      bool           `json:"enabled"`
	Shifts       []models.Shift `json:"shifts" validate:"omitempty,dive"`
	SlotDuration int            `json:"slot_duration" validate:"required"`
}

// PresenceUpdateRequest toggles the practitioner's online indicator.
type PresenceUpdateRequest struct {
	Online bool `json:"online"`
}
