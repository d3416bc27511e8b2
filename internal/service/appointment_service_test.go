package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsched/clinic-booking-api/internal/dto"
	"github.com/docsched/clinic-booking-api/internal/models"
	appErrors "github.com/docsched/clinic-booking-api/pkg/errors"
)

func newAppointmentService(repo *appointmentRepoStub) *AppointmentService {
	cache := NewCacheService(nil, nil, 0, nil, false)
	svc := NewAppointmentService(repo, cache, validator.New(), nil, 3*time.Hour, "91")
	return svc.WithClock(func() time.Time { return testNow })
}

func TestAppointmentServiceListHidesRejected(t *testing.T) {
	repo := newAppointmentRepoStub(
		&models.Appointment{ID: "a1", Day: "Wednesday", Date: "2024-01-03", Time: "10:00",
			PatientName: "Asha Rao", PatientPhone: "9876543210", Status: models.StatusPending},
		&models.Appointment{ID: "a2", Day: "Wednesday", Date: "2024-01-03", Time: "10:30",
			PatientPhone: "9123456789", Status: models.StatusRejected},
	)
	svc := newAppointmentService(repo)

	views, pagination, err := svc.List(context.Background(), dto.AppointmentListRequest{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "a1", views[0].ID)
	assert.Equal(t, "+91 98765 43210", views[0].PhoneDisplay)
	assert.Equal(t, 1, pagination.TotalCount)

	views, _, err = svc.List(context.Background(), dto.AppointmentListRequest{IncludeRejected: true})
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestAppointmentServiceListUnknownDay(t *testing.T) {
	svc := newAppointmentService(newAppointmentRepoStub())

	_, _, err := svc.List(context.Background(), dto.AppointmentListRequest{Day: "Funday"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAppointmentServiceApprove(t *testing.T) {
	repo := newAppointmentRepoStub(&models.Appointment{
		ID: "a1", Day: "Thursday", Date: "2024-01-04", Time: "09:30",
		PatientPhone: "9876543210", Status: models.StatusPending,
	})
	svc := newAppointmentService(repo)

	apt, err := svc.UpdateStatus(context.Background(), "a1", dto.StatusUpdateRequest{Status: models.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, apt.Status)
	assert.Equal(t, models.StatusApproved, repo.items["a1"].Status)
}

func TestAppointmentServiceRejectNonPending(t *testing.T) {
	repo := newAppointmentRepoStub(&models.Appointment{
		ID: "a1", Day: "Thursday", Date: "2024-01-04", Time: "09:30",
		PatientPhone: "9876543210", Status: models.StatusApproved,
	})
	svc := newAppointmentService(repo)

	_, err := svc.UpdateStatus(context.Background(), "a1", dto.StatusUpdateRequest{Status: models.StatusRejected})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "cannot reject")
}

func TestAppointmentServiceUpdateStatusRejectsCancelled(t *testing.T) {
	svc := newAppointmentService(newAppointmentRepoStub())

	_, err := svc.UpdateStatus(context.Background(), "a1", dto.StatusUpdateRequest{Status: models.StatusCancelled})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAppointmentServiceUpdateStatusNotFound(t *testing.T) {
	svc := newAppointmentService(newAppointmentRepoStub())

	_, err := svc.UpdateStatus(context.Background(), "missing", dto.StatusUpdateRequest{Status: models.StatusApproved})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAppointmentServiceDelete(t *testing.T) {
	repo := newAppointmentRepoStub(&models.Appointment{
		ID: "a1", Day: "Thursday", Date: "2024-01-04", Time: "09:30",
		PatientPhone: "9876543210", Status: models.StatusCancelled,
	})
	svc := newAppointmentService(repo)

	require.NoError(t, svc.Delete(context.Background(), "a1"))
	assert.NotContains(t, repo.items, "a1")

	err := svc.Delete(context.Background(), "a1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAppointmentServiceExportCSV(t *testing.T) {
	repo := newAppointmentRepoStub(&models.Appointment{
		ID: "a1", Day: "Thursday", Date: "2024-01-04", Time: "09:30",
		PatientName: "Asha Rao", PatientPhone: "9876543210", Status: models.StatusApproved,
	})
	svc := newAppointmentService(repo)

	payload, contentType, err := svc.Export(context.Background(), dto.AppointmentListRequest{}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(payload)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Day,Time,Patient,Phone,Status", lines[0])
	assert.Contains(t, lines[1], "9:30 AM")
	assert.Contains(t, lines[1], "+91 98765 43210")
}

func TestAppointmentServiceExportUnsupportedFormat(t *testing.T) {
	svc := newAppointmentService(newAppointmentRepoStub())

	_, _, err := svc.Export(context.Background(), dto.AppointmentListRequest{}, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
