package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/docsched/clinic-booking-api/internal/dto"
	"github.com/docsched/clinic-booking-api/internal/models"
	"github.com/docsched/clinic-booking-api/internal/schedule"
	appErrors "github.com/docsched/clinic-booking-api/pkg/errors"
	"github.com/docsched/clinic-booking-api/pkg/export"
	"github.com/docsched/clinic-booking-api/pkg/phone"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type adminAppointmentRepository interface {
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error)
	FindByID(ctx context.Context, id string) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// AppointmentService covers the practitioner's side of the workflow:
// reviewing requests, approving or rejecting them, deleting records and
// exporting the book.
type AppointmentService struct {
	repo         adminAppointmentRepository
	cache        *CacheService
	validator    *validator.Validate
	logger       *zap.Logger
	csvExporter  *export.CSVExporter
	pdfExporter  *export.PDFExporter
	cancelWindow time.Duration
	countryCode  string
	now          func() time.Time
}

// NewAppointmentService constructs an AppointmentService.
func NewAppointmentService(repo adminAppointmentRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, cancelWindow time.Duration, countryCode string) *AppointmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cancelWindow <= 0 {
		cancelWindow = 3 * time.Hour
	}
	if countryCode == "" {
		countryCode = phone.DefaultCountryCode
	}
	return &AppointmentService{
		repo:         repo,
		cache:        cache,
		validator:    validate,
		logger:       logger,
		csvExporter:  export.NewCSVExporter(),
		pdfExporter:  export.NewPDFExporter(),
		cancelWindow: cancelWindow,
		countryCode:  countryCode,
		now:          time.Now,
	}
}

// WithClock overrides the time source. Tests use this to pin "now".
func (s *AppointmentService) WithClock(now func() time.Time) *AppointmentService {
	s.now = now
	return s
}

// List returns a filtered, paginated page of appointments for the admin
// dashboard. Rejected requests stay hidden unless asked for explicitly.
func (s *AppointmentService) List(ctx context.Context, req dto.AppointmentListRequest) ([]dto.AppointmentView, *models.Pagination, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid list query")
	}
	if req.Day != "" && !models.KnownDay(req.Day) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", req.Day))
	}

	filter := models.AppointmentFilter{
		Status:          req.Status,
		Day:             req.Day,
		Date:            req.Date,
		Phone:           req.Phone,
		IncludeRejected: req.IncludeRejected,
		Page:            req.Page,
		PageSize:        req.PageSize,
		SortBy:          req.SortBy,
		SortOrder:       req.SortOrder,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	appointments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointments")
	}

	now := s.now()
	views := make([]dto.AppointmentView, 0, len(appointments))
	for _, apt := range appointments {
		views = append(views, s.view(apt, now))
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return views, pagination, nil
}

// UpdateStatus records the practitioner's decision on a request. Only
// pending requests can be approved or rejected.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, req dto.StatusUpdateRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}

	apt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment")
	}
	if apt.Status != models.StatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot %s a %s appointment", verbFor(req.Status), apt.Status))
	}

	now := s.now().UTC()
	if err := s.repo.UpdateStatus(ctx, id, req.Status, now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
	}
	apt.Status = req.Status
	apt.UpdatedAt = now

	s.invalidateSlots(ctx, apt.Day)
	s.logger.Info("appointment status updated",
		zap.String("appointment_id", id),
		zap.String("status", string(req.Status)))
	return apt, nil
}

// Delete removes an appointment record entirely, from any state.
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	apt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete appointment")
	}
	s.invalidateSlots(ctx, apt.Day)
	s.logger.Info("appointment deleted", zap.String("appointment_id", id))
	return nil
}

// Export renders the filtered appointment book as CSV or PDF bytes.
func (s *AppointmentService) Export(ctx context.Context, req dto.AppointmentListRequest, format string) ([]byte, string, error) {
	req.Page = 1
	req.PageSize = maxPageSize
	views, _, err := s.List(ctx, req)
	if err != nil {
		return nil, "", err
	}

	headers := []string{"Date", "Day", "Time", "Patient", "Phone", "Status"}
	rows := make([]map[string]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, map[string]string{
			"Date":    v.Date,
			"Day":     v.Day,
			"Time":    v.TimeDisplay,
			"Patient": v.PatientName,
			"Phone":   v.PhoneDisplay,
			"Status":  string(v.Status),
		})
	}
	dataset := export.Dataset{Headers: headers, Rows: rows}

	switch strings.ToLower(format) {
	case "csv", "":
		payload, err := s.csvExporter.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdfExporter.Render(dataset, "Appointments")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *AppointmentService) view(apt models.Appointment, now time.Time) dto.AppointmentView {
	decision := schedule.CanCancel(apt.Date, apt.Time, s.cancelWindow, now)
	return dto.AppointmentView{
		ID:            apt.ID,
		Day:           apt.Day,
		Date:          apt.Date,
		Time:          apt.Time,
		TimeDisplay:   schedule.FormatTime12(apt.Time),
		PatientName:   apt.PatientName,
		PatientPhone:  apt.PatientPhone,
		PhoneDisplay:  phone.Format(apt.PatientPhone, s.countryCode),
		Status:        apt.Status,
		Cancellable:   apt.Status == models.StatusApproved && decision.Allowed,
		CancelMessage: decision.Message,
		CreatedAt:     apt.CreatedAt.Format(time.RFC3339),
	}
}

func (s *AppointmentService) invalidateSlots(ctx context.Context, day string) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("%s:%s*", slotsCachePrefix, day)); err != nil {
		s.logger.Warn("failed to invalidate slot cache", zap.String("day", day), zap.Error(err))
	}
}

func verbFor(status models.AppointmentStatus) string {
	switch status {
	case models.StatusApproved:
		return "approve"
	case models.StatusRejected:
		return "reject"
	default:
		return "transition"
	}
}
