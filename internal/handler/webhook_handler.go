package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/diabify/platform/internal/dto"
	"github.com/diabify/platform/internal/service"
	"github.com/diabify/platform/pkg/logger"
	"github.com/diabify/platform/pkg/response"
)

// SignatureHeader carries the provider's HMAC signature over the raw body
const SignatureHeader = "X-Webhook-Signature"

// WebhookHandler handles payment provider webhook deliveries
type WebhookHandler struct {
	paymentService service.PaymentService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(paymentService service.PaymentService) *WebhookHandler {
	return &WebhookHandler{paymentService: paymentService}
}

// HandlePaymentEvent processes a payment webhook delivery
// POST /api/v1/webhooks/payments
func (h *WebhookHandler) HandlePaymentEvent(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "failed to read request body")
		return
	}

	signature := c.GetHeader(SignatureHeader)
	if err := h.paymentService.VerifySignature(payload, signature); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_SIGNATURE", "Webhook signature verification failed", "")
		return
	}

	var event dto.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		response.BadRequest(c, "invalid webhook payload")
		return
	}

	// The delivery is acknowledged once the signature checks out. Failed
	// processing is logged for retry out of band, not returned to the
	// provider, which would otherwise redeliver forever.
	if err := h.paymentService.ProcessWebhookEvent(c.Request.Context(), &event); err != nil {
		logger.Get().Error("webhook processing failed",
			zap.String("event_type", event.Type),
			zap.String("provider_payment_id", event.PaymentID),
			zap.Error(err))
	}

	response.Success(c, gin.H{"received": true})
}
