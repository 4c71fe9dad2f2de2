package dto

// AdminLoginRequest is the payload for admin login
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse is the result of a successful admin login
type AdminLoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"` // epoch milliseconds
}

// AdminVerifyRequest is the payload for the admin verify-access endpoint
type AdminVerifyRequest struct {
	AdminToken string `json:"adminToken"`
}

// AdminVerifyResponse is the result of a successful verify-access check
type AdminVerifyResponse struct {
	Authorized bool         `json:"authorized"`
	User       UserResponse `json:"user"`
}
