package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docsched/clinic-booking-api/internal/models"
	"github.com/docsched/clinic-booking-api/internal/schedule"
	appErrors "github.com/docsched/clinic-booking-api/pkg/errors"
	"github.com/docsched/clinic-booking-api/pkg/export"
	"github.com/docsched/clinic-booking-api/pkg/jobs"
	"github.com/docsched/clinic-booking-api/pkg/phone"
	"github.com/docsched/clinic-booking-api/pkg/storage"
)

const archiveJobType = "archive"

// archiveBatchSize caps one repository page while draining the book.
const archiveBatchSize = 500

type archiveAppointmentReader interface {
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error)
}

type archiveFileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ArchiveConfig tunes archive generation.
type ArchiveConfig struct {
	APIPrefix   string
	ResultTTL   time.Duration
	Workers     int
	CountryCode string
}

// ArchiveService renders full snapshots of the appointment book in the
// background. Jobs run on an in-process worker queue and finished files are
// handed out through signed, expiring download links.
type ArchiveService struct {
	appointments archiveAppointmentReader
	storage      archiveFileStorage
	signer       *storage.SignedURLSigner
	queue        *jobs.Queue
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	logger       *zap.Logger
	cfg          ArchiveConfig

	mu   sync.RWMutex
	jobs map[string]*models.ArchiveJob
}

// NewArchiveService constructs an ArchiveService.
func NewArchiveService(appointments archiveAppointmentReader, fileStorage archiveFileStorage, signer *storage.SignedURLSigner, cfg ArchiveConfig, logger *zap.Logger) *ArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.CountryCode == "" {
		cfg.CountryCode = phone.DefaultCountryCode
	}

	s := &ArchiveService{
		appointments: appointments,
		storage:      fileStorage,
		signer:       signer,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		logger:       logger,
		cfg:          cfg,
		jobs:         make(map[string]*models.ArchiveJob),
	}
	s.queue = jobs.NewQueue(archiveJobType, s.process, jobs.QueueConfig{
		Workers: cfg.Workers,
		Logger:  logger,
	})
	return s
}

// Start launches the worker queue.
func (s *ArchiveService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the worker queue.
func (s *ArchiveService) Stop() {
	s.queue.Stop()
}

// Enqueue registers a new archive job and schedules it for rendering.
func (s *ArchiveService) Enqueue(ctx context.Context, format string) (*models.ArchiveJob, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported archive format %q", format))
	}

	job := &models.ArchiveJob{
		ID:          uuid.NewString(),
		Format:      format,
		Status:      models.ArchiveQueued,
		RequestedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: archiveJobType, Payload: format}); err != nil {
		s.fail(job.ID, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue archive job")
	}

	copied := *job
	return &copied, nil
}

// Job returns the state of one archive job.
func (s *ArchiveService) Job(id string) (*models.ArchiveJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "archive job not found")
	}
	copied := *job
	return &copied, nil
}

// Jobs lists all known archive jobs, newest first.
func (s *ArchiveService) Jobs() []models.ArchiveJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]models.ArchiveJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		list = append(list, *job)
	}
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			if list[j].RequestedAt.After(list[i].RequestedAt) {
				list[i], list[j] = list[j], list[i]
			}
		}
	}
	return list
}

// Download validates a signed token and opens the archived file.
func (s *ArchiveService) Download(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "archive file not found")
	}
	return file, nil
}

// Cleanup removes archive files older than the configured TTL.
func (s *ArchiveService) Cleanup() ([]string, error) {
	return s.storage.CleanupOlderThan(s.cfg.ResultTTL)
}

func (s *ArchiveService) process(ctx context.Context, job jobs.Job) error {
	format, _ := job.Payload.(string)

	dataset, err := s.buildDataset(ctx)
	if err != nil {
		s.fail(job.ID, err)
		return err
	}

	var payload []byte
	switch format {
	case "pdf":
		payload, err = s.pdf.Render(dataset, "Appointment Book")
	default:
		payload, err = s.csv.Render(dataset)
	}
	if err != nil {
		s.fail(job.ID, err)
		return err
	}

	filename := fmt.Sprintf("appointments_%s.%s", time.Now().UTC().Format("20060102_150405"), format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		s.fail(job.ID, err)
		return err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		s.fail(job.ID, err)
		return err
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	now := time.Now().UTC()
	s.mu.Lock()
	if stored, ok := s.jobs[job.ID]; ok {
		stored.Status = models.ArchiveCompleted
		stored.File = relPath
		stored.DownloadURL = fmt.Sprintf("%s/archives/download/%s", prefix, token)
		stored.ExpiresAt = &expiresAt
		stored.CompletedAt = &now
	}
	s.mu.Unlock()

	s.logger.Info("archive rendered", zap.String("job_id", job.ID), zap.String("file", relPath))
	return nil
}

func (s *ArchiveService) buildDataset(ctx context.Context) (export.Dataset, error) {
	headers := []string{"Date", "Day", "Time", "Patient", "Phone", "Status", "Requested At"}
	rows := []map[string]string{}

	for page := 1; ; page++ {
		batch, total, err := s.appointments.List(ctx, models.AppointmentFilter{
			IncludeRejected: true,
			Page:            page,
			PageSize:        archiveBatchSize,
			SortBy:          "date",
			SortOrder:       "ASC",
		})
		if err != nil {
			return export.Dataset{}, err
		}
		for _, apt := range batch {
			rows = append(rows, map[string]string{
				"Date":         apt.Date,
				"Day":          apt.Day,
				"Time":         schedule.FormatTime12(apt.Time),
				"Patient":      apt.PatientName,
				"Phone":        phone.Format(apt.PatientPhone, s.cfg.CountryCode),
				"Status":       string(apt.Status),
				"Requested At": apt.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		if len(rows) >= total || len(batch) == 0 {
			break
		}
	}

	return export.Dataset{Headers: headers, Rows: rows}, nil
}

func (s *ArchiveService) fail(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		job.Status = models.ArchiveFailed
		job.Error = err.Error()
	}
}
