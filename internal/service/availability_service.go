package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/docsched/clinic-booking-api/internal/dto"
	"github.com/docsched/clinic-booking-api/internal/models"
	appErrors "github.com/docsched/clinic-booking-api/pkg/errors"
)

const clockLayout = "15:04"

type availabilityRepository interface {
	ListWeek(ctx context.Context) ([]models.DayAvailability, error)
	Upsert(ctx context.Context, d *models.DayAvailability) error
}

// AvailabilityService manages the practitioner's weekly schedule.
type AvailabilityService struct {
	repo      availabilityRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(repo availabilityRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Week returns all seven weekday configurations in display order. Days
// never configured come back disabled so the admin grid is always complete.
func (s *AvailabilityService) Week(ctx context.Context) ([]models.DayAvailability, error) {
	stored, err := s.repo.ListWeek(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly availability")
	}

	byDay := make(map[string]models.DayAvailability, len(stored))
	for _, d := range stored {
		byDay[d.Day] = d
	}

	week := make([]models.DayAvailability, 0, len(models.DayNames))
	for _, day := range models.DayNames {
		if d, ok := byDay[day]; ok {
			week = append(week, d)
			continue
		}
		week = append(week, models.DayAvailability{Day: day, Enabled: false, Shifts: []models.Shift{}})
	}
	return week, nil
}

// Upsert replaces one weekday's configuration. An enabled day must carry at
// least one well-formed shift and a positive slot duration.
func (s *AvailabilityService) Upsert(ctx context.Context, day string, req dto.AvailabilityUpsertRequest) (*models.DayAvailability, error) {
	if !models.KnownDay(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", day))
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	if req.SlotDuration <= 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidDuration, fmt.Sprintf("slot duration must be positive, got %d", req.SlotDuration))
	}
	if req.Enabled && len(req.Shifts) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidShift, "an enabled day needs at least one shift")
	}
	for _, shift := range req.Shifts {
		if err := validateShift(shift); err != nil {
			return nil, err
		}
	}

	avail := &models.DayAvailability{
		Day:          day,
		Enabled:      req.Enabled,
		Shifts:       req.Shifts,
		SlotDuration: req.SlotDuration,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, avail); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save availability")
	}

	if s.cache.Enabled() {
		if err := s.cache.Invalidate(ctx, slotsCachePrefix+":*"); err != nil {
			s.logger.Warn("failed to invalidate slot cache", zap.Error(err))
		}
	}
	s.logger.Info("availability updated",
		zap.String("day", day),
		zap.Bool("enabled", req.Enabled),
		zap.Int("shifts", len(req.Shifts)))
	return avail, nil
}

func validateShift(shift models.Shift) error {
	start, err := time.Parse(clockLayout, shift.Start)
	if err != nil {
		return appErrors.Clone(appErrors.ErrInvalidShift, fmt.Sprintf("invalid shift start %q, want HH:MM", shift.Start))
	}
	end, err := time.Parse(clockLayout, shift.End)
	if err != nil {
		return appErrors.Clone(appErrors.ErrInvalidShift, fmt.Sprintf("invalid shift end %q, want HH:MM", shift.End))
	}
	if !end.After(start) {
		return appErrors.Clone(appErrors.ErrInvalidShift, fmt.Sprintf("shift end %s must be after start %s", shift.End, shift.Start))
	}
	return nil
}
