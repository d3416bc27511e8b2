package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docsched/clinic-booking-api/internal/dto"
	"github.com/docsched/clinic-booking-api/internal/models"
	"github.com/docsched/clinic-booking-api/internal/schedule"
	appErrors "github.com/docsched/clinic-booking-api/pkg/errors"
	"github.com/docsched/clinic-booking-api/pkg/phone"
)

const slotsCachePrefix = "clinic:slots"

type bookingAppointmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Appointment, error)
	ListByDayDate(ctx context.Context, day, date string) ([]models.Appointment, error)
	ListByPhone(ctx context.Context, phone string) ([]models.Appointment, error)
	FindHolders(ctx context.Context, date, timeStr string) ([]models.Appointment, error)
	Create(ctx context.Context, apt *models.Appointment) error
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus, updatedAt time.Time) error
}

type bookingAvailabilityReader interface {
	ListWeek(ctx context.Context) ([]models.DayAvailability, error)
	FindDay(ctx context.Context, day string) (*models.DayAvailability, error)
}

// BookingServiceConfig tunes booking policy.
type BookingServiceConfig struct {
	CancelWindow     time.Duration
	PhoneCountryCode string
	SlotsCacheTTL    time.Duration
}

// BookingService implements the patient-facing booking workflow: the day
// picker, the slot board, booking, lookup and cancellation.
type BookingService struct {
	appointments bookingAppointmentRepository
	availability bookingAvailabilityReader
	cache        *CacheService
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	config       BookingServiceConfig
	now          func() time.Time
}

// NewBookingService constructs a BookingService.
func NewBookingService(appointments bookingAppointmentRepository, availability bookingAvailabilityReader, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg BookingServiceConfig) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CancelWindow <= 0 {
		cfg.CancelWindow = 3 * time.Hour
	}
	if cfg.PhoneCountryCode == "" {
		cfg.PhoneCountryCode = phone.DefaultCountryCode
	}
	return &BookingService{
		appointments: appointments,
		availability: availability,
		cache:        cache,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		config:       cfg,
		now:          time.Now,
	}
}

// WithClock overrides the time source. Tests use this to pin "now".
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// Days returns the seven-day picker with each weekday resolved to its next
// calendar date, today included.
func (s *BookingService) Days(ctx context.Context) ([]dto.DayView, error) {
	week, err := s.availability.ListWeek(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly availability")
	}

	enabled := make(map[string]bool, len(week))
	for _, d := range week {
		enabled[d.Day] = d.Enabled
	}

	now := s.now()
	today := schedule.Today(now)
	views := make([]dto.DayView, 0, len(models.DayNames))
	for _, day := range models.DayNames {
		views = append(views, dto.DayView{
			Day:     day,
			Date:    schedule.DateFor(day, now),
			Enabled: enabled[day],
			IsToday: day == today,
		})
	}
	return views, nil
}

// DaySlots builds the slot board for one weekday: every generated slot with
// its 12-hour display form and whether it is already taken. Slots that have
// passed today are dropped entirely. The board is cached briefly so the
// patient view can poll without hammering Postgres.
func (s *BookingService) DaySlots(ctx context.Context, day string) (*dto.DaySlotsResponse, bool, error) {
	if !models.KnownDay(day) {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown day %q", day))
	}

	cacheKey := fmt.Sprintf("%s:%s", slotsCachePrefix, day)
	if s.cache.Enabled() {
		var cached dto.DaySlotsResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	avail, err := s.availability.FindDay(ctx, day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &dto.DaySlotsResponse{Day: day, Date: schedule.DateFor(day, s.now()), Slots: []dto.SlotView{}}, false, nil
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}

	now := s.now()
	date := schedule.DateFor(day, now)
	resp := &dto.DaySlotsResponse{
		Day:          day,
		Date:         date,
		Enabled:      avail.Enabled,
		SlotDuration: avail.SlotDuration,
		Slots:        []dto.SlotView{},
	}
	if !avail.Enabled {
		return resp, false, nil
	}

	slots, err := schedule.GenerateSlots(avail.Shifts, avail.SlotDuration)
	if err != nil {
		return nil, false, err
	}

	appointments, err := s.appointments.ListByDayDate(ctx, day, date)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointments")
	}
	occupied := schedule.OccupiedTimes(appointments, day, date, now)

	for _, slot := range slots {
		if schedule.IsPast(date, slot, now) {
			continue
		}
		_, booked := occupied[slot]
		resp.Slots = append(resp.Slots, dto.SlotView{
			Time:    slot,
			Display: schedule.FormatTime12(slot),
			Booked:  booked,
		})
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, resp, s.config.SlotsCacheTTL); err != nil {
			s.logger.Warn("failed to cache slot board", zap.String("day", day), zap.Error(err))
		}
	}
	return resp, false, nil
}

// Book submits a booking request for a slot. The request lands as pending
// and stays invisible to other patients as a taken slot from that moment.
func (s *BookingService) Book(ctx context.Context, req dto.BookRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordBooking("rejected_input")
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}
	if !models.KnownDay(req.Day) {
		s.metrics.RecordBooking("rejected_input")
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", req.Day))
	}

	avail, err := s.availability.FindDay(ctx, req.Day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordBooking("day_disabled")
			return nil, appErrors.Clone(appErrors.ErrDayDisabled, fmt.Sprintf("%s is not open for booking", req.Day))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	if !avail.Enabled {
		s.metrics.RecordBooking("day_disabled")
		return nil, appErrors.Clone(appErrors.ErrDayDisabled, fmt.Sprintf("%s is not open for booking", req.Day))
	}

	slots, err := schedule.GenerateSlots(avail.Shifts, avail.SlotDuration)
	if err != nil {
		return nil, err
	}
	known := false
	for _, slot := range slots {
		if slot == req.Time {
			known = true
			break
		}
	}
	if !known {
		s.metrics.RecordBooking("rejected_input")
		return nil, appErrors.Clone(appErrors.ErrSlotUnknown, fmt.Sprintf("%s is not a bookable time on %s", req.Time, req.Day))
	}

	now := s.now()
	date := schedule.DateFor(req.Day, now)
	if schedule.IsPast(date, req.Time, now) {
		s.metrics.RecordBooking("slot_passed")
		return nil, appErrors.Clone(appErrors.ErrSlotPassed, "this time has already passed")
	}

	holders, err := s.appointments.FindHolders(ctx, date, req.Time)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot availability")
	}
	if len(holders) > 0 {
		s.metrics.RecordBooking("slot_taken")
		return nil, appErrors.Clone(appErrors.ErrSlotTaken, fmt.Sprintf("the %s slot on %s is already booked", schedule.FormatTime12(req.Time), date))
	}

	apt := &models.Appointment{
		ID:           uuid.NewString(),
		Day:          req.Day,
		Date:         date,
		Time:         req.Time,
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		Status:       models.StatusPending,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}
	if err := s.appointments.Create(ctx, apt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create appointment")
	}

	s.invalidateSlots(ctx, req.Day)
	s.metrics.RecordBooking("created")
	s.logger.Info("appointment requested",
		zap.String("appointment_id", apt.ID),
		zap.String("day", apt.Day),
		zap.String("date", apt.Date),
		zap.String("time", apt.Time))
	return apt, nil
}

// Lookup returns a patient's upcoming appointments matched by the exact
// phone string they booked with. Rejected and cancelled bookings are hidden,
// as are appointments already in the past.
func (s *BookingService) Lookup(ctx context.Context, rawPhone string) ([]dto.AppointmentView, error) {
	if rawPhone == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "phone is required")
	}

	appointments, err := s.appointments.ListByPhone(ctx, rawPhone)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up appointments")
	}

	now := s.now()
	views := make([]dto.AppointmentView, 0, len(appointments))
	for _, apt := range appointments {
		if apt.Status.Terminal() {
			continue
		}
		if schedule.IsPast(apt.Date, apt.Time, now) {
			continue
		}
		views = append(views, s.view(apt, now))
	}
	return views, nil
}

// Cancel lets a patient cancel their own approved appointment, subject to
// the cancellation window. Pending requests stay with the practitioner to
// decide; they cannot be cancelled from the patient side.
func (s *BookingService) Cancel(ctx context.Context, id, rawPhone string) (*models.Appointment, error) {
	apt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment")
	}
	if apt.PatientPhone != rawPhone {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "appointment does not belong to this phone number")
	}
	if apt.Status != models.StatusApproved {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("a %s appointment cannot be cancelled", apt.Status))
	}

	now := s.now()
	decision := schedule.CanCancel(apt.Date, apt.Time, s.config.CancelWindow, now)
	if !decision.Allowed {
		if schedule.IsPast(apt.Date, apt.Time, now) {
			return nil, appErrors.Clone(appErrors.ErrAppointmentPassed, decision.Message)
		}
		return nil, appErrors.Clone(appErrors.ErrCancelWindowClosed, decision.Message)
	}

	if err := s.appointments.UpdateStatus(ctx, apt.ID, models.StatusCancelled, now.UTC()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel appointment")
	}
	apt.Status = models.StatusCancelled
	apt.UpdatedAt = now.UTC()

	s.invalidateSlots(ctx, apt.Day)
	s.metrics.RecordBooking("cancelled")
	s.logger.Info("appointment cancelled by patient", zap.String("appointment_id", apt.ID))
	return apt, nil
}

func (s *BookingService) view(apt models.Appointment, now time.Time) dto.AppointmentView {
	decision := schedule.CanCancel(apt.Date, apt.Time, s.config.CancelWindow, now)
	return dto.AppointmentView{
		ID:            apt.ID,
		Day:           apt.Day,
		Date:          apt.Date,
		Time:          apt.Time,
		TimeDisplay:   schedule.FormatTime12(apt.Time),
		PatientName:   apt.PatientName,
		PatientPhone:  apt.PatientPhone,
		PhoneDisplay:  phone.Format(apt.PatientPhone, s.config.PhoneCountryCode),
		Status:        apt.Status,
		Cancellable:   !apt.Status.Terminal() && decision.Allowed,
		CancelMessage: decision.Message,
		CreatedAt:     apt.CreatedAt.Format(time.RFC3339),
	}
}

func (s *BookingService) invalidateSlots(ctx context.Context, day string) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("%s:%s*", slotsCachePrefix, day)); err != nil {
		s.logger.Warn("failed to invalidate slot cache", zap.String("day", day), zap.Error(err))
	}
}
