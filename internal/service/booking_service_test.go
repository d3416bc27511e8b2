package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsched/clinic-booking-api/internal/dto"
	"github.com/docsched/clinic-booking-api/internal/models"
	appErrors "github.com/docsched/clinic-booking-api/pkg/errors"
)

// Wednesday 2024-01-03 08:00 local.
var testNow = time.Date(2024, 1, 3, 8, 0, 0, 0, time.Local)

type appointmentRepoStub struct {
	items map[string]*models.Appointment
	err   error
}

func newAppointmentRepoStub(items ...*models.Appointment) *appointmentRepoStub {
	stub := &appointmentRepoStub{items: map[string]*models.Appointment{}}
	for _, apt := range items {
		stub.items[apt.ID] = apt
	}
	return stub
}

func (s *appointmentRepoStub) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	if apt, ok := s.items[id]; ok {
		copied := *apt
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *appointmentRepoStub) ListByDayDate(ctx context.Context, day, date string) ([]models.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := []models.Appointment{}
	for _, apt := range s.items {
		if apt.Day == day && apt.Date == date {
			result = append(result, *apt)
		}
	}
	return result, nil
}

func (s *appointmentRepoStub) ListByPhone(ctx context.Context, phone string) ([]models.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := []models.Appointment{}
	for _, apt := range s.items {
		if apt.PatientPhone == phone {
			result = append(result, *apt)
		}
	}
	return result, nil
}

func (s *appointmentRepoStub) FindHolders(ctx context.Context, date, timeStr string) ([]models.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := []models.Appointment{}
	for _, apt := range s.items {
		if apt.Date == date && apt.Time == timeStr && !apt.Status.Terminal() {
			result = append(result, *apt)
		}
	}
	return result, nil
}

func (s *appointmentRepoStub) Create(ctx context.Context, apt *models.Appointment) error {
	if s.err != nil {
		return s.err
	}
	copied := *apt
	s.items[apt.ID] = &copied
	return nil
}

func (s *appointmentRepoStub) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus, updatedAt time.Time) error {
	if s.err != nil {
		return s.err
	}
	apt, ok := s.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	apt.Status = status
	apt.UpdatedAt = updatedAt
	return nil
}

func (s *appointmentRepoStub) Delete(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.items, id)
	return nil
}

func (s *appointmentRepoStub) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	result := []models.Appointment{}
	for _, apt := range s.items {
		if apt.Status == models.StatusRejected && !filter.IncludeRejected && filter.Status != string(models.StatusRejected) {
			continue
		}
		if filter.Status != "" && string(apt.Status) != filter.Status {
			continue
		}
		if filter.Day != "" && apt.Day != filter.Day {
			continue
		}
		result = append(result, *apt)
	}
	return result, len(result), nil
}

type availabilityReaderStub struct {
	days map[string]*models.DayAvailability
	err  error
}

func (s *availabilityReaderStub) ListWeek(ctx context.Context) ([]models.DayAvailability, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := []models.DayAvailability{}
	for _, day := range models.DayNames {
		if d, ok := s.days[day]; ok {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (s *availabilityReaderStub) FindDay(ctx context.Context, day string) (*models.DayAvailability, error) {
	if s.err != nil {
		return nil, s.err
	}
	if d, ok := s.days[day]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func standardWeek() *availabilityReaderStub {
	days := map[string]*models.DayAvailability{}
	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"} {
		days[day] = &models.DayAvailability{
			Day:          day,
			Enabled:      true,
			Shifts:       []models.Shift{{Start: "09:00", End: "17:00"}},
			SlotDuration: 30,
		}
	}
	days["Saturday"] = &models.DayAvailability{Day: "Saturday", Enabled: false}
	return &availabilityReaderStub{days: days}
}

func newBookingService(appointments *appointmentRepoStub, availability *availabilityReaderStub) *BookingService {
	cache := NewCacheService(nil, nil, 0, nil, false)
	svc := NewBookingService(appointments, availability, cache, nil, validator.New(), nil, BookingServiceConfig{
		CancelWindow: 3 * time.Hour,
	})
	return svc.WithClock(func() time.Time { return testNow })
}

func TestBookingServiceDays(t *testing.T) {
	svc := newBookingService(newAppointmentRepoStub(), standardWeek())

	days, err := svc.Days(context.Background())
	require.NoError(t, err)
	require.Len(t, days, 7)

	assert.Equal(t, "Wednesday", days[2].Day)
	assert.Equal(t, "2024-01-03", days[2].Date)
	assert.True(t, days[2].IsToday)
	assert.True(t, days[2].Enabled)

	// Monday resolves forward, never backward.
	assert.Equal(t, "2024-01-08", days[0].Date)
	assert.False(t, days[5].Enabled)
	// Sunday was never configured.
	assert.False(t, days[6].Enabled)
}

func TestBookingServiceDaySlots(t *testing.T) {
	repo := newAppointmentRepoStub(&models.Appointment{
		ID: "a1", Day: "Wednesday", Date: "2024-01-03", Time: "10:00",
		PatientName: "Asha Rao", PatientPhone: "9876543210", Status: models.StatusPending,
	})
	svc := newBookingService(repo, standardWeek())

	board, _, err := svc.DaySlots(context.Background(), "Wednesday")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", board.Date)
	assert.True(t, board.Enabled)
	require.Len(t, board.Slots, 16)

	assert.Equal(t, "09:00", board.Slots[0].Time)
	assert.Equal(t, "9:00 AM", board.Slots[0].Display)
	assert.False(t, board.Slots[0].Booked)

	var ten *dto.SlotView
	for i := range board.Slots {
		if board.Slots[i].Time == "10:00" {
			ten = &board.Slots[i]
		}
	}
	require.NotNil(t, ten)
	assert.True(t, ten.Booked)
}

func TestBookingServiceDaySlotsDropsPassedToday(t *testing.T) {
	svc := newBookingService(newAppointmentRepoStub(), standardWeek()).
		WithClock(func() time.Time { return time.Date(2024, 1, 3, 10, 5, 0, 0, time.Local) })

	board, _, err := svc.DaySlots(context.Background(), "Wednesday")
	require.NoError(t, err)
	require.NotEmpty(t, board.Slots)
	assert.Equal(t, "10:30", board.Slots[0].Time)
}

func TestBookingServiceDaySlotsDisabledDay(t *testing.T) {
	svc := newBookingService(newAppointmentRepoStub(), standardWeek())

	board, _, err := svc.DaySlots(context.Background(), "Saturday")
	require.NoError(t, err)
	assert.False(t, board.Enabled)
	assert.Empty(t, board.Slots)
}

func TestBookingServiceDaySlotsUnknownDay(t *testing.T) {
	svc := newBookingService(newAppointmentRepoStub(), standardWeek())

	_, _, err := svc.DaySlots(context.Background(), "Funday")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceBook(t *testing.T) {
	repo := newAppointmentRepoStub()
	svc := newBookingService(repo, standardWeek())

	apt, err := svc.Book(context.Background(), dto.BookRequest{
		Day: "Thursday", Time: "09:30", PatientName: "Asha Rao", PatientPhone: "9876543210",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, apt.ID)
	assert.Equal(t, models.StatusPending, apt.Status)
	assert.Equal(t, "2024-01-04", apt.Date)
	require.Contains(t, repo.items, apt.ID)
}

func TestBookingServiceBookSlotTaken(t *testing.T) {
	repo := newAppointmentRepoStub(&models.Appointment{
		ID: "a1", Day: "Thursday", Date: "2024-01-04", Time: "09:30",
		PatientPhone: "9876543210", Status: models.StatusApproved,
	})
	svc := newBookingService(repo, standardWeek())

	_, err := svc.Book(context.Background(), dto.BookRequest{
		Day: "Thursday", Time: "09:30", PatientName: "Ravi Kumar", PatientPhone: "9123456789",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotTaken.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceBookCancelledSlotReopens(t *testing.T) {
	repo := newAppointmentRepoStub(&models.Appointment{
		ID: "a1", Day: "Thursday", Date: "2024-01-04", Time: "09:30",
		PatientPhone: "9876543210", Status: models.StatusCancelled,
	})
	svc := newBookingService(repo, standardWeek())

	_, err := svc.Book(context.Background(), dto.BookRequest{
		Day: "Thursday", Time: "09:30", PatientName: "Ravi Kumar", PatientPhone: "9123456789",
	})
	require.NoError(t, err)
}

func TestBookingServiceBookUnknownSlot(t *testing.T) {
	svc := newBookingService(newAppointmentRepoStub(), standardWeek())

	_, err := svc.Book(context.Background(), dto.BookRequest{
		Day: "Thursday", Time: "09:10", PatientName: "Ravi Kumar", PatientPhone: "9123456789",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotUnknown.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceBookDisabledDay(t *testing.T) {
	svc := newBookingService(newAppointmentRepoStub(), standardWeek())

	_, err := svc.Book(context.Background(), dto.BookRequest{
		Day: "Saturday", Time: "09:00", PatientName: "Ravi Kumar", PatientPhone: "9123456789",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDayDisabled.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceBookPassedSlot(t *testing.T) {
	svc := newBookingService(newAppointmentRepoStub(), standardWeek()).
		WithClock(func() time.Time { return time.Date(2024, 1, 3, 12, 0, 0, 0, time.Local) })

	_, err := svc.Book(context.Background(), dto.BookRequest{
		Day: "Wednesday", Time: "09:00", PatientName: "Ravi Kumar", PatientPhone: "9123456789",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotPassed.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceCancel(t *testing.T) {
	repo := newAppointmentRepoStub(&models.Appointment{
		ID: "a1", Day: "Wednesday", Date: "2024-01-03", Time: "12:00",
		PatientPhone: "9876543210", Status: models.StatusApproved,
	})
	// 08:00 now, 12:00 appointment: exactly at the boundary 09:00 would
	// still be allowed, 08:00 clearly is.
	svc := newBookingService(repo, standardWeek())

	apt, err := svc.Cancel(context.Background(), "a1", "9876543210")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, apt.Status)
	assert.Equal(t, models.StatusCancelled, repo.items["a1"].Status)
}

func TestBookingServiceCancelAtWindowBoundary(t *testing.T) {
	repo := newAppointmentRepoStub(&models.Appointment{
		ID: "a1", Day: "Wednesday", Date: "2024-01-03", Time: "11:00",
		PatientPhone: "9876543210", Status: models.StatusApproved,
	})
	svc := newBookingService(repo, standardWeek())

	_, err := svc.Cancel(context.Background(), "a1", "9876543210")
	require.NoError(t, err)
}

func TestBookingServiceCancelInsideWindow(t *testing.T) {
	repo := newAppointmentRepoStub(&models.Appointment{
		ID: "a1", Day: "Wednesday", Date: "2024-01-03", Time: "10:59",
		PatientPhone: "9876543210", Status: models.StatusApproved,
	})
	svc := newBookingService(repo, standardWeek())

	_, err := svc.Cancel(context.Background(), "a1", "9876543210")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrCancelWindowClosed.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Cancellation period (3 hours before) has passed")
}

func TestBookingServiceCancelPassedAppointment(t *testing.T) {
	repo := newAppointmentRepoStub(&models.Appointment{
		ID: "a1", Day: "Wednesday", Date: "2024-01-03", Time: "07:30",
		PatientPhone: "9876543210", Status: models.StatusApproved,
	})
	svc := newBookingService(repo, standardWeek())

	_, err := svc.Cancel(context.Background(), "a1", "9876543210")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrAppointmentPassed.Code, appErr.Code)
	assert.Equal(t, "This appointment has already passed.", appErr.Message)
}

func TestBookingServiceCancelPendingRefused(t *testing.T) {
	repo := newAppointmentRepoStub(&models.Appointment{
		ID: "a1", Day: "Wednesday", Date: "2024-01-03", Time: "12:00",
		PatientPhone: "9876543210", Status: models.StatusPending,
	})
	svc := newBookingService(repo, standardWeek())

	_, err := svc.Cancel(context.Background(), "a1", "9876543210")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceCancelWrongPhone(t *testing.T) {
	repo := newAppointmentRepoStub(&models.Appointment{
		ID: "a1", Day: "Wednesday", Date: "2024-01-03", Time: "12:00",
		PatientPhone: "9876543210", Status: models.StatusApproved,
	})
	svc := newBookingService(repo, standardWeek())

	_, err := svc.Cancel(context.Background(), "a1", "9999999999")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestBookingServiceLookup(t *testing.T) {
	repo := newAppointmentRepoStub(
		&models.Appointment{ID: "a1", Day: "Wednesday", Date: "2024-01-03", Time: "12:00",
			PatientName: "Asha Rao", PatientPhone: "9876543210", Status: models.StatusApproved},
		&models.Appointment{ID: "a2", Day: "Wednesday", Date: "2024-01-03", Time: "07:00",
			PatientPhone: "9876543210", Status: models.StatusApproved},
		&models.Appointment{ID: "a3", Day: "Thursday", Date: "2024-01-04", Time: "09:00",
			PatientPhone: "9876543210", Status: models.StatusRejected},
		&models.Appointment{ID: "a4", Day: "Thursday", Date: "2024-01-04", Time: "09:30",
			PatientPhone: "9123456789", Status: models.StatusPending},
	)
	svc := newBookingService(repo, standardWeek())

	views, err := svc.Lookup(context.Background(), "9876543210")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "a1", views[0].ID)
	assert.Equal(t, "12:00 PM", views[0].TimeDisplay)
	assert.Equal(t, "+91 98765 43210", views[0].PhoneDisplay)
	assert.True(t, views[0].Cancellable)
}
