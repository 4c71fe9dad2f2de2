package dto

import (
	"time"
)

// Webhook event types sent by the payment provider
const (
	WebhookEventPaymentSucceeded = "payment.succeeded"
	WebhookEventPaymentFailed    = "payment.failed"
)

// WebhookEvent is the provider-agnostic payment event payload
type WebhookEvent struct {
	Type          string  `json:"type"`
	PaymentID     string  `json:"payment_id"`
	AppointmentID string  `json:"appointment_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Reason        string  `json:"reason,omitempty"`
}

// PaymentSettledEvent is published after webhook processing
type PaymentSettledEvent struct {
	EventType     string    `json:"event_type"`
	PaymentID     string    `json:"payment_id"`
	AppointmentID string    `json:"appointment_id"`
	Status        string    `json:"status"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Timestamp     time.Time `json:"timestamp"`
}

// Key returns the Kafka partition key for the event
func (e *PaymentSettledEvent) Key() string {
	return e.AppointmentID
}

// TopicPayments is the Kafka topic for payment events
const TopicPayments = "payments"
