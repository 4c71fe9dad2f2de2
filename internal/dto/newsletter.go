package dto

// SubscribeRequest is the payload for newsletter subscription
type SubscribeRequest struct {
	Email string `json:"email" binding:"required"`
}

// ValidateEmail validates email format
func (r *SubscribeRequest) ValidateEmail() (bool, string) {
	if !emailPattern.MatchString(r.Email) {
		return false, "invalid email format"
	}
	return true, ""
}

// SubscriberListMeta is the pagination and counts metadata for the
// admin newsletter dashboard
type SubscriberListMeta struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
