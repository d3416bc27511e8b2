package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsched/clinic-booking-api/internal/dto"
	"github.com/docsched/clinic-booking-api/internal/models"
	appErrors "github.com/docsched/clinic-booking-api/pkg/errors"
)

type availabilityServiceMock struct {
	week      []models.DayAvailability
	upsertErr error
}

func (m *availabilityServiceMock) Week(ctx context.Context) ([]models.DayAvailability, error) {
	return m.week, nil
}

func (m *availabilityServiceMock) Upsert(ctx context.Context, day string, req dto.AvailabilityUpsertRequest) (*models.DayAvailability, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	return &models.DayAvailability{Day: day, Enabled: req.Enabled, Shifts: req.Shifts, SlotDuration: req.SlotDuration}, nil
}

func TestAvailabilityHandlerWeek(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAvailabilityHandler(&availabilityServiceMock{week: []models.DayAvailability{
		{Day: "Monday", Enabled: true, SlotDuration: 30},
	}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/availability", nil)
	c.Request = req

	handler.Week(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAvailabilityHandlerUpsert(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAvailabilityHandler(&availabilityServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.AvailabilityUpsertRequest{
		Enabled:      true,
		Shifts:       []models.Shift{{Start: "09:00", End: "17:00"}},
		SlotDuration: 30,
	})
	req, _ := http.NewRequest(http.MethodPut, "/admin/availability/Monday", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "day", Value: "Monday"}}

	handler.Upsert(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAvailabilityHandlerUpsertInvalidShift(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAvailabilityHandler(&availabilityServiceMock{upsertErr: appErrors.ErrInvalidShift})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.AvailabilityUpsertRequest{Enabled: true, SlotDuration: 30})
	req, _ := http.NewRequest(http.MethodPut, "/admin/availability/Monday", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "day", Value: "Monday"}}

	handler.Upsert(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
