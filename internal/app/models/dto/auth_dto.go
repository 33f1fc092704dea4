package dto

// LoginRequest carries either local credentials (email and password) or an
// identity-provider ID token, depending on the configured auth mode.
type LoginRequest struct {
	Email    string `json:"email" example:"admin@eldenheights.org"`
	Password string `json:"password"`
	IDToken  string `json:"id_token"`
}

// LoginResponse represents an admin session
type LoginResponse struct {
	Token     string `json:"token"`
	Email     string `json:"email" example:"admin@eldenheights.org"`
	Role      string `json:"role" example:"admin"`
	ExpiresIn int    `json:"expires_in" example:"86400"`
}
