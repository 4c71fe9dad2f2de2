package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment records a settled provider charge for an appointment. Rows are
// written once from webhook processing, keyed by the provider payment id.
type Payment struct {
	ID                string        `json:"id"`
	ProviderPaymentID string        `json:"provider_payment_id"`
	AppointmentID     string        `json:"appointment_id"`
	Amount            float64       `json:"amount"`
	Currency          string        `json:"currency"`
	Status            PaymentStatus `json:"status"`
	FailureReason     string        `json:"failure_reason,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

// NewPayment creates a payment record from a webhook event
func NewPayment(providerPaymentID, appointmentID string, amount float64, currency string, status PaymentStatus) (*Payment, error) {
	if providerPaymentID == "" {
		return nil, errors.New("provider payment id is required")
	}
	if appointmentID == "" {
		return nil, errors.New("appointment_id is required")
	}
	if currency == "" {
		return nil, errors.New("currency is required")
	}

	return &Payment{
		ID:                uuid.New().String(),
		ProviderPaymentID: providerPaymentID,
		AppointmentID:     appointmentID,
		Amount:            amount,
		Currency:          currency,
		Status:            status,
		CreatedAt:         time.Now().UTC(),
	}, nil
}
