package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/docsched/clinic-booking-api/internal/models"
)

const appointmentColumns = "id, day, date, time, patient_name, patient_phone, status, created_at, updated_at"

// AppointmentRepository provides persistence for booking requests.
type AppointmentRepository struct {
	db *sqlx.DB
}

// NewAppointmentRepository creates a new appointment repository.
func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// List returns appointments with optional filtering and pagination.
// Rejected appointments are hidden unless the filter asks for them
// explicitly, mirroring the booking surfaces which never show them.
func (r *AppointmentRepository) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error) {
	base := "FROM appointments WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	} else if !filter.IncludeRejected {
		conditions = append(conditions, fmt.Sprintf("status <> $%d", len(args)+1))
		args = append(args, models.StatusRejected)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}
	if filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, filter.Date)
	}
	if filter.Phone != "" {
		conditions = append(conditions, fmt.Sprintf("patient_phone = $%d", len(args)+1))
		args = append(args, filter.Phone)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"date":       true,
		"time":       true,
		"status":     true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, time ASC LIMIT %d OFFSET %d", appointmentColumns, base, sortBy, order, size, offset)
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	return appointments, total, nil
}

// FindByID loads an appointment by id.
func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	query := fmt.Sprintf("SELECT %s FROM appointments WHERE id = $1", appointmentColumns)
	var apt models.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		return nil, err
	}
	return &apt, nil
}

// ListByDayDate returns every appointment on the exact (day, date) pair.
// The caller derives the occupied set from this snapshot; filtering of
// terminal and past entries happens at read time in the calculator.
func (r *AppointmentRepository) ListByDayDate(ctx context.Context, day, date string) ([]models.Appointment, error) {
	query := fmt.Sprintf("SELECT %s FROM appointments WHERE day = $1 AND date = $2 ORDER BY time ASC", appointmentColumns)
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, day, date); err != nil {
		return nil, fmt.Errorf("list appointments by day/date: %w", err)
	}
	return appointments, nil
}

// ListByPhone returns appointments booked under the exact raw phone string.
func (r *AppointmentRepository) ListByPhone(ctx context.Context, phone string) ([]models.Appointment, error) {
	query := fmt.Sprintf("SELECT %s FROM appointments WHERE patient_phone = $1 ORDER BY date ASC, time ASC", appointmentColumns)
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, phone); err != nil {
		return nil, fmt.Errorf("list appointments by phone: %w", err)
	}
	return appointments, nil
}

// FindHolders returns the non-terminal appointments occupying a (date, time)
// pair, used as the double-booking check at creation.
func (r *AppointmentRepository) FindHolders(ctx context.Context, date, timeStr string) ([]models.Appointment, error) {
	query := fmt.Sprintf("SELECT %s FROM appointments WHERE date = $1 AND time = $2 AND status NOT IN ($3, $4)", appointmentColumns)
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, date, timeStr, models.StatusRejected, models.StatusCancelled); err != nil {
		return nil, fmt.Errorf("find slot holders: %w", err)
	}
	return appointments, nil
}

// Create stores a new appointment record.
func (r *AppointmentRepository) Create(ctx context.Context, apt *models.Appointment) error {
	if apt.ID == "" {
		apt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if apt.CreatedAt.IsZero() {
		apt.CreatedAt = now
	}
	apt.UpdatedAt = now

	const query = `INSERT INTO appointments (id, day, date, time, patient_name, patient_phone, status, created_at, updated_at)
		VALUES (:id, :day, :date, :time, :patient_name, :patient_phone, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, apt); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// UpdateStatus transitions an appointment; date and time never change.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus, updatedAt time.Time) error {
	const query = `UPDATE appointments SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, updatedAt); err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	return nil
}

// Delete removes an appointment record entirely.
func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM appointments WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}
