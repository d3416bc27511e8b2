package models

import "time"

// AppointmentStatus tracks the lifecycle of a booking request.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusApproved  AppointmentStatus = "approved"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the patient can no longer act on the appointment.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

// Appointment is a booking request made by a patient for a concrete slot.
// Date and Time are immutable after creation; only Status transitions.
type Appointment struct {
	ID           string            `db:"id" json:"id"`
	Day          string            `db:"day" json:"day"`
	Date         string            `db:"date" json:"date"`
	Time         string            `db:"time" json:"time"`
	PatientName  string            `db:"patient_name" json:"patient_name"`
	PatientPhone string            `db:"patient_phone" json:"patient_phone"`
	Status       AppointmentStatus `db:"status" json:"status"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`
}

// AppointmentFilter describes query params for listing appointments.
type AppointmentFilter struct {
	Status          string
	Day             string
	Date            string
	Phone           string
	IncludeRejected bool
	Page            int
	PageSize        int
	SortBy          string
	SortOrder       string
}
