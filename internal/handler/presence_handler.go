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

type presenceService interface {
	Get(ctx context.Context) (*models.Presence, error)
	Set(ctx context.Context, online bool) (*models.Presence, error)
}

// PresenceHandler exposes the practitioner's online indicator.
type PresenceHandler struct {
	service presenceService
}

// NewPresenceHandler builds a new handler.
func NewPresenceHandler(service presenceService) *PresenceHandler {
	return &PresenceHandler{service: service}
}

// Get godoc
// @Summary Practitioner presence
// @Description Whether the practitioner is currently marked online
// @Tags Presence
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /presence [get]
func (h *PresenceHandler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, p, nil)
}

// Set godoc
// @Summary Toggle presence
// @Tags Presence
// @Accept json
// @Produce json
// @Param payload body dto.PresenceUpdateRequest true "Presence payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/presence [put]
func (h *PresenceHandler) Set(c *gin.Context) {
	var req dto.PresenceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid presence payload"))
		return
	}

	p, err := h.service.Set(c.Request.Context(), req.Online)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, p, nil)
}
