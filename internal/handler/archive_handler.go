package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docsched/clinic-booking-api/internal/models"
	appErrors "github.com/docsched/clinic-booking-api/pkg/errors"
	"github.com/docsched/clinic-booking-api/pkg/response"
)

type archiveService interface {
	Enqueue(ctx context.Context, format string) (*models.ArchiveJob, error)
	Job(id string) (*models.ArchiveJob, error)
	Jobs() []models.ArchiveJob
	Download(token string) (*os.File, error)
}

// ArchiveHandler exposes background snapshot exports of the appointment book.
type ArchiveHandler struct {
	service archiveService
}

// NewArchiveHandler builds a new handler.
func NewArchiveHandler(service archiveService) *ArchiveHandler {
	return &ArchiveHandler{service: service}
}

// Create godoc
// @Summary Queue an archive of the appointment book
// @Description Schedules a background job that renders the full book as CSV or PDF
// @Tags Archives
// @Produce json
// @Param format query string false "csv or pdf" default(csv)
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/archives [post]
func (h *ArchiveHandler) Create(c *gin.Context) {
	job, err := h.service.Enqueue(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// List godoc
// @Summary List archive jobs
// @Tags Archives
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/archives [get]
func (h *ArchiveHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Jobs(), nil)
}

// Get godoc
// @Summary Inspect an archive job
// @Tags Archives
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/archives/{id} [get]
func (h *ArchiveHandler) Get(c *gin.Context) {
	job, err := h.service.Job(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a finished archive
// @Description Streams the archived file referenced by a signed token
// @Tags Archives
// @Produce text/csv
// @Produce application/pdf
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /archives/download/{token} [get]
func (h *ArchiveHandler) Download(c *gin.Context) {
	file, err := h.service.Download(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	name := filepath.Base(file.Name())
	contentType := "text/csv"
	if strings.HasSuffix(name, ".pdf") {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		_ = c.Error(appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stream archive"))
	}
}
