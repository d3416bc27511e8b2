package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/docsched/clinic-booking-api/internal/models"
)

const availabilityColumns = "day, enabled, shifts, start_time, end_time, slot_duration, updated_at"

// AvailabilityRepository persists the weekly availability configuration,
// one row per weekday.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListWeek returns all seven day configurations in clinic display order.
// Rows are normalised on load: legacy single start/end pairs become
// one-element shift lists, so consumers only ever see the canonical shape.
func (r *AvailabilityRepository) ListWeek(ctx context.Context) ([]models.DayAvailability, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability
		ORDER BY CASE day
			WHEN 'Monday' THEN 1 WHEN 'Tuesday' THEN 2 WHEN 'Wednesday' THEN 3
			WHEN 'Thursday' THEN 4 WHEN 'Friday' THEN 5 WHEN 'Saturday' THEN 6
			ELSE 7 END`, availabilityColumns)
	var days []models.DayAvailability
	if err := r.db.SelectContext(ctx, &days, query); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	for i := range days {
		if err := days[i].Normalize(); err != nil {
			return nil, fmt.Errorf("normalize availability for %s: %w", days[i].Day, err)
		}
	}
	return days, nil
}

// FindDay loads the configuration for a single weekday.
func (r *AvailabilityRepository) FindDay(ctx context.Context, day string) (*models.DayAvailability, error) {
	query := fmt.Sprintf("SELECT %s FROM availability WHERE day = $1", availabilityColumns)
	var d models.DayAvailability
	if err := r.db.GetContext(ctx, &d, query, day); err != nil {
		return nil, err
	}
	if err := d.Normalize(); err != nil {
		return nil, fmt.Errorf("normalize availability for %s: %w", day, err)
	}
	return &d, nil
}

// Upsert writes a day's configuration, storing the canonical shift list and
// clearing any legacy start/end columns.
func (r *AvailabilityRepository) Upsert(ctx context.Context, d *models.DayAvailability) error {
	if err := d.EncodeShifts(); err != nil {
		return fmt.Errorf("encode shifts for %s: %w", d.Day, err)
	}
	d.StartTime = nil
	d.EndTime = nil
	d.UpdatedAt = time.Now().UTC()

	const query = `INSERT INTO availability (day, enabled, shifts, start_time, end_time, slot_duration, updated_at)
		VALUES (:day, :enabled, :shifts, :start_time, :end_time, :slot_duration, :updated_at)
		ON CONFLICT (day) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			shifts = EXCLUDED.shifts,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			slot_duration = EXCLUDED.slot_duration,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, d); err != nil {
		return fmt.Errorf("upsert availability for %s: %w", d.Day, err)
	}
	return nil
}
