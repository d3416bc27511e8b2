package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docsched/clinic-booking-api/internal/dto"
	"github.com/docsched/clinic-booking-api/internal/models"
	appErrors "github.com/docsched/clinic-booking-api/pkg/errors"
	"github.com/docsched/clinic-booking-api/pkg/response"
)

type appointmentService interface {
	List(ctx context.Context, req dto.AppointmentListRequest) ([]dto.AppointmentView, *models.Pagination, error)
	UpdateStatus(ctx context.Context, id string, req dto.StatusUpdateRequest) (*models.Appointment, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, req dto.AppointmentListRequest, format string) ([]byte, string, error)
}

// AppointmentHandler exposes the practitioner's appointment management endpoints.
type AppointmentHandler struct {
	service appointmentService
}

// NewAppointmentHandler builds a new handler.
func NewAppointmentHandler(service appointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// List godoc
// @Summary List appointments
// @Description Filtered, paginated appointment list; rejected requests hidden by default
// @Tags Appointments
// @Produce json
// @Param status query string false "Filter by status"
// @Param day query string false "Filter by weekday"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param phone query string false "Filter by patient phone"
// @Param include_rejected query bool false "Include rejected requests"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	var req dto.AppointmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid list query"))
		return
	}

	views, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, pagination)
}

// UpdateStatus godoc
// @Summary Approve or reject a request
// @Description Records the practitioner's decision on a pending request
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param payload body dto.StatusUpdateRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/appointments/{id}/status [patch]
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	apt, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apt, nil)
}

// Delete godoc
// @Summary Delete an appointment record
// @Tags Appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export the appointment book
// @Description Download the filtered appointment list as CSV or PDF
// @Tags Appointments
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /admin/appointments/export [get]
func (h *AppointmentHandler) Export(c *gin.Context) {
	var req dto.AppointmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}

	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.service.Export(c.Request.Context(), req, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("appointments-%s.%s", time.Now().Format("2006-01-02"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
