package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/diabify/platform/internal/dto"
	"github.com/diabify/platform/internal/service"
	"github.com/diabify/platform/pkg/response"
)

// AppointmentHandler handles appointment and professional HTTP requests
type AppointmentHandler struct {
	appointmentService service.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler
func NewAppointmentHandler(appointmentService service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// Create books an appointment for the authenticated user
// POST /api/v1/appointments
func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	appointment, err := h.appointmentService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfessionalNotFound):
			response.NotFound(c, "Professional not found")
		case errors.Is(err, service.ErrProfessionalInactive):
			response.Error(c, http.StatusConflict, "PROFESSIONAL_INACTIVE", "Professional is not accepting appointments", "")
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.Created(c, appointment)
}

// Get returns one of the user's appointments
// GET /api/v1/appointments/:id
func (h *AppointmentHandler) Get(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Unauthorized(c, "Authentication required")
		return
	}

	appointment, err := h.appointmentService.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAppointmentNotFound):
			response.NotFound(c, "Appointment not found")
		case errors.Is(err, service.ErrAppointmentNotOwned):
			response.Forbidden(c, "Appointment belongs to another user")
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.Success(c, appointment)
}

// List returns the user's appointments
// GET /api/v1/appointments
func (h *AppointmentHandler) List(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Unauthorized(c, "Authentication required")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	appointments, err := h.appointmentService.ListMine(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, appointments)
}

// Cancel cancels one of the user's appointments
// POST /api/v1/appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.Unauthorized(c, "Authentication required")
		return
	}

	appointment, err := h.appointmentService.Cancel(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAppointmentNotFound):
			response.NotFound(c, "Appointment not found")
		case errors.Is(err, service.ErrAppointmentNotOwned):
			response.Forbidden(c, "Appointment belongs to another user")
		default:
			response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error(), "")
		}
		return
	}

	response.Success(c, appointment)
}

// ListProfessionals returns bookable professionals
// GET /api/v1/professionals
func (h *AppointmentHandler) ListProfessionals(c *gin.Context) {
	activeOnly := c.DefaultQuery("active", "true") != "false"

	professionals, err := h.appointmentService.ListProfessionals(c.Request.Context(), activeOnly)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, professionals)
}

// CreateProfessional registers a professional (admin only)
// POST /api/v1/admin/professionals
func (h *AppointmentHandler) CreateProfessional(c *gin.Context) {
	var req dto.CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	professional, err := h.appointmentService.CreateProfessional(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Created(c, professional)
}

// UpdateProfessional updates a professional (admin only)
// PATCH /api/v1/admin/professionals/:id
func (h *AppointmentHandler) UpdateProfessional(c *gin.Context) {
	var req dto.UpdateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	professional, err := h.appointmentService.UpdateProfessional(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrProfessionalNotFound) {
			response.NotFound(c, "Professional not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, professional)
}
