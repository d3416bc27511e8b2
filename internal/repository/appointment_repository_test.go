package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsched/clinic-booking-api/internal/models"
)

func appointmentRows(times ...string) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "day", "date", "time", "patient_name", "patient_phone", "status", "created_at", "updated_at"})
	for i, ts := range times {
		rows.AddRow(string(rune('a'+i)), "Monday", "2024-01-01", ts, "Asha", "9876543210", string(models.StatusApproved), now, now)
	}
	return rows
}

func TestAppointmentListHidesRejectedByDefault(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, day, date, time, patient_name, patient_phone, status, created_at, updated_at FROM appointments WHERE 1=1 AND status <> $1 ORDER BY date ASC, time ASC LIMIT 20 OFFSET 0")).
		WithArgs(models.StatusRejected).
		WillReturnRows(appointmentRows("09:00"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM appointments WHERE 1=1 AND status <> $1")).
		WithArgs(models.StatusRejected).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	appointments, total, err := repo.List(context.Background(), models.AppointmentFilter{})
	require.NoError(t, err)
	assert.Len(t, appointments, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentListByDayDate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, day, date, time, patient_name, patient_phone, status, created_at, updated_at FROM appointments WHERE day = $1 AND date = $2 ORDER BY time ASC")).
		WithArgs("Monday", "2024-01-01").
		WillReturnRows(appointmentRows("09:00", "09:30"))

	appointments, err := repo.ListByDayDate(context.Background(), "Monday", "2024-01-01")
	require.NoError(t, err)
	require.Len(t, appointments, 2)
	assert.Equal(t, "09:00", appointments[0].Time)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentFindHoldersExcludesTerminalStatuses(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, day, date, time, patient_name, patient_phone, status, created_at, updated_at FROM appointments WHERE date = $1 AND time = $2 AND status NOT IN ($3, $4)")).
		WithArgs("2024-01-01", "09:00", models.StatusRejected, models.StatusCancelled).
		WillReturnRows(appointmentRows())

	holders, err := repo.FindHolders(context.Background(), "2024-01-01", "09:00")
	require.NoError(t, err)
	assert.Empty(t, holders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectExec("INSERT INTO appointments").WillReturnResult(sqlmock.NewResult(1, 1))

	apt := &models.Appointment{
		Day:          "Monday",
		Date:         "2024-01-01",
		Time:         "09:00",
		PatientName:  "Asha",
		PatientPhone: "9876543210",
		Status:       models.StatusPending,
	}
	err := repo.Create(context.Background(), apt)
	require.NoError(t, err)
	assert.NotEmpty(t, apt.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentUpdateStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET status = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("apt-1", models.StatusApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "apt-1", models.StatusApproved, time.Now().UTC())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
