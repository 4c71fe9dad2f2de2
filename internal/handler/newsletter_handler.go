package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/diabify/platform/internal/dto"
	"github.com/diabify/platform/internal/service"
	"github.com/diabify/platform/pkg/response"
)

// NewsletterHandler handles newsletter subscription HTTP requests
type NewsletterHandler struct {
	newsletterService service.NewsletterService
}

// NewNewsletterHandler creates a new NewsletterHandler
func NewNewsletterHandler(newsletterService service.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService}
}

// Subscribe adds an email to the newsletter
// POST /api/v1/newsletter/subscribe
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if valid, msg := req.ValidateEmail(); !valid {
		response.BadRequest(c, msg)
		return
	}

	subscriber, err := h.newsletterService.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, subscriber)
}

// Unsubscribe removes an email from the newsletter. Idempotent.
// POST /api/v1/newsletter/unsubscribe
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.newsletterService.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "unsubscribed"})
}

// List returns subscribers for the admin dashboard
// GET /api/v1/admin/newsletter/subscribers
func (h *NewsletterHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	subscribers, meta, err := h.newsletterService.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.SuccessWithMeta(c, subscribers, meta)
}
