package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docsched/clinic-booking-api/internal/dto"
	"github.com/docsched/clinic-booking-api/internal/models"
	appErrors "github.com/docsched/clinic-booking-api/pkg/errors"
	"github.com/docsched/clinic-booking-api/pkg/response"
)

type availabilityService interface {
	Week(ctx context.Context) ([]models.DayAvailability, error)
	Upsert(ctx context.Context, day string, req dto.AvailabilityUpsertRequest) (*models.DayAvailability, error)
}

// AvailabilityHandler exposes weekly schedule management endpoints.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler builds a new handler.
func NewAvailabilityHandler(service availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// Week godoc
// @Summary Weekly availability grid
// @Tags Availability
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/availability [get]
func (h *AvailabilityHandler) Week(c *gin.Context) {
	week, err := h.service.Week(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// Upsert godoc
// @Summary Replace one weekday's schedule
// @Tags Availability
// @Accept json
// @Produce json
// @Param day path string true "Weekday name, e.g. Monday"
// @Param payload body dto.AvailabilityUpsertRequest true "Availability payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/availability/{day} [put]
func (h *AvailabilityHandler) Upsert(c *gin.Context) {
	var req dto.AvailabilityUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}

	avail, err := h.service.Upsert(c.Request.Context(), c.Param("day"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, avail, nil)
}
