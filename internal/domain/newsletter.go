package domain

import (
	"time"
)

// Subscriber is a newsletter subscription, deduplicated by lowercased email
type Subscriber struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	SubscribedAt   time.Time  `json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty"`
}

// IsSubscribed reports whether the subscription is currently active
func (s *Subscriber) IsSubscribed() bool {
	return s.UnsubscribedAt == nil
}
