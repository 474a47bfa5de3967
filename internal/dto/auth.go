package dto

// ── auth requests ──

// RegisterRequest self-registration
type RegisterRequest struct {
	Email    string `json:"email"    binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest login
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyEmailRequest email verification
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required,max=128"`
}

// EmailRequest forgot-password and resend-verification
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest password reset with a mailed token
type ResetPasswordRequest struct {
	Token       string `json:"token"       binding:"required,max=128"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}

// ChangePasswordRequest password change for the signed-in user
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}
