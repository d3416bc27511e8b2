package dto

import "github.com/docsched/clinic-booking-api/internal/models"

// DayView is one entry on the public day picker.
type DayView struct {
	Day     string `json:"day"`
	Date    string `json:"date"`
	Enabled bool   `json:"enabled"`
	IsToday bool   `json:"is_today"`
}

// SlotView is a single bookable time on the slot board.
type SlotView struct {
	Time    string `json:"time"`
	Display string `json:"display"`
	Booked  bool   `json:"booked"`
}

// DaySlotsResponse is the slot board for one weekday.
type DaySlotsResponse struct {
	Day          string     `json:"day"`
	Date         string     `json:"date"`
	Enabled      bool       `json:"enabled"`
	SlotDuration int        `json:"slot_duration"`
	Slots        []SlotView `json:"slots"`
}

// BookRequest is the patient booking payload. The server resolves the
// concrete date from the weekday, so patients never submit one.
type BookRequest struct {
	Day          string `json:"day" validate:"required"`
	Time         string `json:"time" validate:"required"`
	PatientName  string `json:"patient_name" validate:"required,min=2,max=100"`
	PatientPhone string `json:"patient_phone" validate:"required,min=5,max=20"`
}

// CancelRequest identifies the caller for a patient-side cancellation.
type CancelRequest struct {
	PatientPhone string `json:"patient_phone" validate:"required"`
}

// AppointmentView is an appointment as shown to patients and staff, with
// display-formatted time and phone alongside the raw values.
type AppointmentView struct {
	ID            string                   `json:"id"`
	Day           string                   `json:"day"`
	Date          string                   `json:"date"`
	Time          string                   `json:"time"`
	TimeDisplay   string                   `json:"time_display"`
	PatientName   string                   `json:"patient_name"`
	PatientPhone  string                   `json:"patient_phone"`
	PhoneDisplay  string                   `json:"phone_display"`
	Status        models.AppointmentStatus `json:"status"`
	Cancellable   bool                     `json:"cancellable"`
	CancelMessage string                   `json:"cancel_message,omitempty"`
	CreatedAt     string                   `json:"created_at"`
}
