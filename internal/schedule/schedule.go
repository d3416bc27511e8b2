// Package schedule holds the pure scheduling calculator: slot generation
// from a day's shifts, weekday/date resolution, the booked-set join and the
// cancellation-window policy. Every function is deterministic over its
// explicit inputs plus a supplied "now"; nothing here touches storage or
// mutates its arguments.
//
// Time strings are 24-hour HH:MM and dates are YYYY-MM-DD. Callers validate
// format upstream; this package is not a validating parser.
package schedule

import (
	"fmt"
	"time"

	"github.com/docsched/clinic-booking-api/internal/models"
	appErrors "github.com/docsched/clinic-booking-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// GenerateSlots produces the ordered slot start times for a day's shifts.
// Each shift yields every multiple-of-duration offset from its start that
// is strictly before its end, so the final slot of a shift may run past
// the nominal end (a 17:00 end with 30-minute slots still yields 16:45).
// Runs are concatenated in shift order with no overlap checking; shifts
// are assumed caller-valid.
//
// A non-positive duration is rejected outright: it would otherwise loop
// forever.
func GenerateSlots(shifts []models.Shift, durationMinutes int) ([]string, error) {
	if durationMinutes <= 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidDuration,
			fmt.Sprintf("slot duration must be positive, got %d", durationMinutes))
	}

	var slots []string
	for _, shift := range shifts {
		start := minutesOf(shift.Start)
		end := minutesOf(shift.End)
		for current := start; current < end; current += durationMinutes {
			slots = append(slots, fmt.Sprintf("%02d:%02d", current/60, current%60))
		}
	}
	return slots, nil
}

// FormatTime12 converts a 24-hour HH:MM string to 12-hour display form.
// Hours 0 and 12 both render as 12.
func FormatTime12(hhmm string) string {
	h, m := splitClock(hhmm)
	meridiem := "AM"
	if h >= 12 {
		meridiem = "PM"
	}
	hour := h % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, m, meridiem)
}

// Today returns the weekday name of now.
func Today(now time.Time) string {
	return now.Weekday().String()
}

// DateFor resolves the next calendar date landing on the named weekday,
// counting today as a match. The result is never more than six days out.
// Unknown day names resolve to today's date.
func DateFor(day string, now time.Time) string {
	idx := weekdayIndex(day)
	if idx < 0 {
		return now.Format(dateLayout)
	}
	diff := idx - int(now.Weekday())
	if diff < 0 {
		diff += 7
	}
	return now.AddDate(0, 0, diff).Format(dateLayout)
}

// IsPast reports whether the instant formed by date and time is strictly
// before now, in now's location.
func IsPast(date, hhmm string, now time.Time) bool {
	return instant(date, hhmm, now.Location()).Before(now)
}

// OccupiedTimes derives the set of taken slot times for a (day, date) pair
// from the full appointment snapshot. Rejected and cancelled appointments
// do not occupy a slot, and neither do appointments already in the past.
// A generated slot is bookable iff its time is absent from this set.
func OccupiedTimes(appointments []models.Appointment, day, date string, now time.Time) map[string]struct{} {
	occupied := make(map[string]struct{})
	for _, apt := range appointments {
		if apt.Day != day || apt.Date != date {
			continue
		}
		if apt.Status.Terminal() {
			continue
		}
		if IsPast(apt.Date, apt.Time, now) {
			continue
		}
		occupied[apt.Time] = struct{}{}
	}
	return occupied
}

// Decision is the outcome of a cancellation-policy check. When cancellation
// is refused, Message explains why.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message,omitempty"`
}

// CanCancel applies the cancellation-window policy to an appointment
// instant. The partition is strict: already passed, inside the window, or
// allowed. An appointment exactly at the window boundary is still allowed.
func CanCancel(date, hhmm string, window time.Duration, now time.Time) Decision {
	delta := instant(date, hhmm, now.Location()).Sub(now)

	switch {
	case delta >= window:
		return Decision{Allowed: true}
	case delta < 0:
		return Decision{Allowed: false, Message: "This appointment has already passed."}
	default:
		return Decision{
			Allowed: false,
			Message: fmt.Sprintf("Cancellation period (%d hours before) has passed. Please contact the clinic to cancel.", int(window.Hours())),
		}
	}
}

func instant(date, hhmm string, loc *time.Location) time.Time {
	var year, month, day int
	fmt.Sscanf(date, "%d-%d-%d", &year, &month, &day)
	h, m := splitClock(hhmm)
	return time.Date(year, time.Month(month), day, h, m, 0, 0, loc)
}

func splitClock(hhmm string) (hour, minute int) {
	fmt.Sscanf(hhmm, "%d:%d", &hour, &minute)
	return hour, minute
}

func minutesOf(hhmm string) int {
	h, m := splitClock(hhmm)
	return h*60 + m
}

func weekdayIndex(day string) int {
	for i := 0; i < 7; i++ {
		if time.Weekday(i).String() == day {
			return i
		}
	}
	return -1
}
