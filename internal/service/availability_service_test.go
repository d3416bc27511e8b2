package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsched/clinic-booking-api/internal/dto"
	"github.com/docsched/clinic-booking-api/internal/models"
	appErrors "github.com/docsched/clinic-booking-api/pkg/errors"
)

type availabilityRepoStub struct {
	days map[string]*models.DayAvailability
	err  error
}

func (s *availabilityRepoStub) ListWeek(ctx context.Context) ([]models.DayAvailability, error) {
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

func (s *availabilityRepoStub) FindDay(ctx context.Context, day string) (*models.DayAvailability, error) {
	if s.err != nil {
		return nil, s.err
	}
	if d, ok := s.days[day]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *availabilityRepoStub) Upsert(ctx context.Context, d *models.DayAvailability) error {
	if s.err != nil {
		return s.err
	}
	if s.days == nil {
		s.days = map[string]*models.DayAvailability{}
	}
	copied := *d
	s.days[d.Day] = &copied
	return nil
}

func newAvailabilityService(repo *availabilityRepoStub) *AvailabilityService {
	cache := NewCacheService(nil, nil, 0, nil, false)
	return NewAvailabilityService(repo, cache, validator.New(), nil)
}

func TestAvailabilityServiceWeekFillsMissingDays(t *testing.T) {
	repo := &availabilityRepoStub{days: map[string]*models.DayAvailability{
		"Monday": {Day: "Monday", Enabled: true, Shifts: []models.Shift{{Start: "09:00", End: "17:00"}}, SlotDuration: 30},
	}}
	svc := newAvailabilityService(repo)

	week, err := svc.Week(context.Background())
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.True(t, week[0].Enabled)
	for _, d := range week[1:] {
		assert.False(t, d.Enabled)
	}
	assert.Equal(t, "Sunday", week[6].Day)
}

func TestAvailabilityServiceUpsert(t *testing.T) {
	repo := &availabilityRepoStub{}
	svc := newAvailabilityService(repo)

	avail, err := svc.Upsert(context.Background(), "Tuesday", dto.AvailabilityUpsertRequest{
		Enabled:      true,
		Shifts:       []models.Shift{{Start: "09:00", End: "13:00"}, {Start: "15:00", End: "18:00"}},
		SlotDuration: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, "Tuesday", avail.Day)
	require.Contains(t, repo.days, "Tuesday")
	assert.Len(t, repo.days["Tuesday"].Shifts, 2)
}

func TestAvailabilityServiceUpsertUnknownDay(t *testing.T) {
	svc := newAvailabilityService(&availabilityRepoStub{})

	_, err := svc.Upsert(context.Background(), "Someday", dto.AvailabilityUpsertRequest{SlotDuration: 30})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityServiceUpsertRejectsZeroDuration(t *testing.T) {
	svc := newAvailabilityService(&availabilityRepoStub{})

	_, err := svc.Upsert(context.Background(), "Monday", dto.AvailabilityUpsertRequest{
		Enabled:      true,
		Shifts:       []models.Shift{{Start: "09:00", End: "17:00"}},
		SlotDuration: 0,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityServiceUpsertEnabledNeedsShifts(t *testing.T) {
	svc := newAvailabilityService(&availabilityRepoStub{})

	_, err := svc.Upsert(context.Background(), "Monday", dto.AvailabilityUpsertRequest{
		Enabled:      true,
		SlotDuration: 30,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidShift.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityServiceUpsertRejectsInvertedShift(t *testing.T) {
	svc := newAvailabilityService(&availabilityRepoStub{})

	_, err := svc.Upsert(context.Background(), "Monday", dto.AvailabilityUpsertRequest{
		Enabled:      true,
		Shifts:       []models.Shift{{Start: "17:00", End: "09:00"}},
		SlotDuration: 30,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidShift.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityServiceUpsertDisableDay(t *testing.T) {
	repo := &availabilityRepoStub{days: map[string]*models.DayAvailability{
		"Friday": {Day: "Friday", Enabled: true, Shifts: []models.Shift{{Start: "09:00", End: "17:00"}}, SlotDuration: 30},
	}}
	svc := newAvailabilityService(repo)

	avail, err := svc.Upsert(context.Background(), "Friday", dto.AvailabilityUpsertRequest{
		Enabled:      false,
		SlotDuration: 30,
	})
	require.NoError(t, err)
	assert.False(t, avail.Enabled)
}
