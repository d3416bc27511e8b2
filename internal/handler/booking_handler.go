package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docsched/clinic-booking-api/internal/dto"
	"github.com/docsched/clinic-booking-api/internal/middleware"
	"github.com/docsched/clinic-booking-api/internal/models"
	appErrors "github.com/docsched/clinic-booking-api/pkg/errors"
	"github.com/docsched/clinic-booking-api/pkg/response"
)

type bookingService interface {
	Days(ctx context.Context) ([]dto.DayView, error)
	DaySlots(ctx context.Context, day string) (*dto.DaySlotsResponse, bool, error)
	Book(ctx context.Context, req dto.BookRequest) (*models.Appointment, error)
	Lookup(ctx context.Context, phone string) ([]dto.AppointmentView, error)
	Cancel(ctx context.Context, id, phone string) (*models.Appointment, error)
}

// BookingHandler exposes the public patient-facing endpoints.
type BookingHandler struct {
	service bookingService
}

// NewBookingHandler builds a new handler.
func NewBookingHandler(service bookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Days godoc
// @Summary List bookable days
// @Description Seven weekdays with their next calendar date and open state
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /days [get]
func (h *BookingHandler) Days(c *gin.Context) {
	days, err := h.service.Days(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, days, nil)
}

// DaySlots godoc
// @Summary Slot board for a weekday
// @Description All generated slots with 12-hour display form and taken flag
// @Tags Booking
// @Produce json
// @Param day path string true "Weekday name, e.g. Monday"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /days/{day}/slots [get]
func (h *BookingHandler) DaySlots(c *gin.Context) {
	board, cacheHit, err := h.service.DaySlots(c.Request.Context(), c.Param("day"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, board, nil, middleware.ExtractMeta(c))
}

// Book godoc
// @Summary Request an appointment
// @Description Submit a booking request; it lands as pending until the practitioner decides
// @Tags Booking
// @Accept json
// @Produce json
// @Param payload body dto.BookRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /appointments [post]
func (h *BookingHandler) Book(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}

	apt, err := h.service.Book(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, apt)
}

// Lookup godoc
// @Summary Look up appointments by phone
// @Description Upcoming appointments booked with the given phone number
// @Tags Booking
// @Produce json
// @Param phone query string true "Phone number as entered at booking"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /appointments/lookup [get]
func (h *BookingHandler) Lookup(c *gin.Context) {
	phone := c.Query("phone")
	views, err := h.service.Lookup(c.Request.Context(), phone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}

// Cancel godoc
// @Summary Cancel an appointment
// @Description Patient-side cancellation, subject to the cancellation window
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param payload body dto.CancelRequest true "Cancellation payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /appointments/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	var req dto.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid cancellation payload"))
		return
	}

	apt, err := h.service.Cancel(c.Request.Context(), c.Param("id"), req.PatientPhone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apt, nil)
}
