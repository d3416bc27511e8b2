package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsched/clinic-booking-api/internal/models"
	appErrors "github.com/docsched/clinic-booking-api/pkg/errors"
)

type archiveServiceMock struct {
	job         *models.ArchiveJob
	enqueueErr  error
	jobErr      error
	file        *os.File
	downloadErr error
}

func (m *archiveServiceMock) Enqueue(ctx context.Context, format string) (*models.ArchiveJob, error) {
	if m.enqueueErr != nil {
		return nil, m.enqueueErr
	}
	return m.job, nil
}

func (m *archiveServiceMock) Job(id string) (*models.ArchiveJob, error) {
	if m.jobErr != nil {
		return nil, m.jobErr
	}
	return m.job, nil
}

func (m *archiveServiceMock) Jobs() []models.ArchiveJob {
	if m.job == nil {
		return nil
	}
	return []models.ArchiveJob{*m.job}
}

func (m *archiveServiceMock) Download(token string) (*os.File, error) {
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	return m.file, nil
}

func queuedArchiveJob() *models.ArchiveJob {
	return &models.ArchiveJob{
		ID:          "job-1",
		Format:      "csv",
		Status:      models.ArchiveQueued,
		RequestedAt: time.Now().UTC(),
	}
}

func TestArchiveHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewArchiveHandler(&archiveServiceMock{job: queuedArchiveJob()})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/archives?format=csv", nil)
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "job-1")
}

func TestArchiveHandlerCreateBadFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewArchiveHandler(&archiveServiceMock{enqueueErr: appErrors.ErrValidation})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/archives?format=xlsx", nil)
	c.Request = req

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestArchiveHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	job := queuedArchiveJob()
	job.Status = models.ArchiveCompleted
	handler := NewArchiveHandler(&archiveServiceMock{job: job})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/archives/job-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "completed")
}

func TestArchiveHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewArchiveHandler(&archiveServiceMock{jobErr: appErrors.ErrNotFound})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/archives/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArchiveHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "appointments_20240103.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Day\n"), 0o644))
	file, err := os.Open(path)
	require.NoError(t, err)

	handler := NewArchiveHandler(&archiveServiceMock{file: file})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/archives/download/token", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "token", Value: "token"}}

	handler.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "appointments_20240103.csv")
	assert.Contains(t, w.Body.String(), "Date,Day")
}

func TestArchiveHandlerDownloadBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewArchiveHandler(&archiveServiceMock{downloadErr: appErrors.ErrForbidden})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/archives/download/bad", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "token", Value: "bad"}}

	handler.Download(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
