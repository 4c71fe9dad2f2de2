package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/diabify/platform/internal/dto"
	"github.com/diabify/platform/internal/service"
)

// mockPaymentService is a mock implementation of service.PaymentService
type mockPaymentService struct {
	secret    string
	processed []*dto.WebhookEvent
	failWith  error
}

func (m *mockPaymentService) VerifySignature(payload []byte, signature string) error {
	mac := hmac.New(sha256.New, []byte(m.secret))
	mac.Write(payload)
	if hex.EncodeToString(mac.Sum(nil)) != signature {
		return service.ErrInvalidSignature
	}
	return nil
}

func (m *mockPaymentService) ProcessWebhookEvent(ctx context.Context, event *dto.WebhookEvent) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.processed = append(m.processed, event)
	return nil
}

func setupWebhookRouter(svc service.PaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/webhooks/payments", NewWebhookHandler(svc).HandlePaymentEvent)
	return router
}

func signWith(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func deliverWebhook(router *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler_ValidDelivery(t *testing.T) {
	svc := &mockPaymentService{secret: "whsec_test"}
	router := setupWebhookRouter(svc)

	payload := []byte(`{"type":"payment.succeeded","payment_id":"pay_1","appointment_id":"appt-1","amount":60,"currency":"EUR"}`)
	w := deliverWebhook(router, payload, signWith("whsec_test", payload))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	if len(svc.processed) != 1 {
		t.Fatalf("processed %d events, want 1", len(svc.processed))
	}
	if svc.processed[0].PaymentID != "pay_1" {
		t.Errorf("processed payment id = %q", svc.processed[0].PaymentID)
	}
}

func TestWebhookHandler_BadSignature(t *testing.T) {
	svc := &mockPaymentService{secret: "whsec_test"}
	router := setupWebhookRouter(svc)

	payload := []byte(`{"type":"payment.succeeded","payment_id":"pay_1"}`)

	t.Run("wrong signature", func(t *testing.T) {
		w := deliverWebhook(router, payload, signWith("other-secret", payload))
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("missing signature", func(t *testing.T) {
		w := deliverWebhook(router, payload, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	if len(svc.processed) != 0 {
		t.Errorf("processed %d events despite bad signatures", len(svc.processed))
	}
}

func TestWebhookHandler_ProcessingFailureStillAcks(t *testing.T) {
	svc := &mockPaymentService{secret: "whsec_test", failWith: service.ErrAppointmentNotFound}
	router := setupWebhookRouter(svc)

	payload := []byte(`{"type":"payment.succeeded","payment_id":"pay_1","appointment_id":"missing"}`)
	w := deliverWebhook(router, payload, signWith("whsec_test", payload))

	// A verified delivery is acknowledged even when processing fails, so the
	// provider does not retry indefinitely.
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestWebhookHandler_MalformedPayload(t *testing.T) {
	svc := &mockPaymentService{secret: "whsec_test"}
	router := setupWebhookRouter(svc)

	payload := []byte(`not json`)
	w := deliverWebhook(router, payload, signWith("whsec_test", payload))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
