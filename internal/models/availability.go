package models

import (
	"encoding/json"
	"time"
)

// DayNames lists the seven weekday names in clinic display order.
// The names match time.Weekday.String() so weekday resolution is a
// straight string comparison.
var DayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// KnownDay reports whether name is one of the seven weekday names.
func KnownDay(name string) bool {
	for _, d := range DayNames {
		if d == name {
			return true
		}
	}
	return false
}

// Shift is a working interval within a day, bounds in 24-hour HH:MM.
type Shift struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// DayAvailability configures one weekday of the practitioner's week.
//
// The canonical shape is a list of shifts. Earlier revisions of the data
// stored a single start/end pair; Normalize folds that legacy form into a
// one-element shift list so the slot generator only ever sees shifts.
type DayAvailability struct {
	Day          string    `db:"day" json:"day"`
	Enabled      bool      `db:"enabled" json:"enabled"`
	Shifts       []Shift   `db:"-" json:"shifts"`
	StartTime    *string   `db:"start_time" json:"start_time,omitempty"`
	EndTime      *string   `db:"end_time" json:"end_time,omitempty"`
	SlotDuration int       `db:"slot_duration" json:"slot_duration"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	// ShiftsJSON is the raw column value; repositories decode it into Shifts.
	ShiftsJSON []byte `db:"shifts" json:"-"`
}

// Normalize decodes the stored shift list and folds the legacy single
// start/end pair into a one-element list when no shift list is present.
func (d *DayAvailability) Normalize() error {
	if len(d.ShiftsJSON) > 0 {
		if err := json.Unmarshal(d.ShiftsJSON, &d.Shifts); err != nil {
			return err
		}
	}
	if len(d.Shifts) == 0 && d.StartTime != nil && d.EndTime != nil {
		d.Shifts = []Shift{{Start: *d.StartTime, End: *d.EndTime}}
	}
	return nil
}

// EncodeShifts serialises the canonical shift list for storage.
func (d *DayAvailability) EncodeShifts() error {
	raw, err := json.Marshal(d.Shifts)
	if err != nil {
		return err
	}
	d.ShiftsJSON = raw
	return nil
}
