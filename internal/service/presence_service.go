package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/docsched/clinic-booking-api/internal/models"
	appErrors "github.com/docsched/clinic-booking-api/pkg/errors"
)

type presenceRepository interface {
	Get(ctx context.Context) (*models.Presence, error)
	Set(ctx context.Context, online bool) (*models.Presence, error)
}

// PresenceService exposes the practitioner's online indicator.
type PresenceService struct {
	repo   presenceRepository
	logger *zap.Logger
}

// NewPresenceService constructs a PresenceService.
func NewPresenceService(repo presenceRepository, logger *zap.Logger) *PresenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PresenceService{repo: repo, logger: logger}
}

// Get returns the current presence flag. Patients see this on the booking
// page as the "doctor is in" light.
func (s *PresenceService) Get(ctx context.Context) (*models.Presence, error) {
	p, err := s.repo.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read presence")
	}
	return p, nil
}

// Set toggles the presence flag.
func (s *PresenceService) Set(ctx context.Context, online bool) (*models.Presence, error) {
	p, err := s.repo.Set(ctx, online)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update presence")
	}
	s.logger.Info("presence updated", zap.Bool("online", online))
	return p, nil
}
