package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"union-officer/backend/internal/dto"
	"union-officer/backend/internal/service"
	"union-officer/backend/pkg/response"
)

// AuthHandler account and session endpoints
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register self sign-up
// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Response{
		Code:    0,
		Message: "registration successful, please check your email to verify the account",
		Data:    user,
	})
}

// Login
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout revokes the presented access token
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp := tokenIdentity(c)
	if err := h.authSvc.Logout(c.Request.Context(), jti, exp); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dto.MessageResponse{Success: true, Message: "logged out"})
}

// VerifyEmail
// POST /auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	if err := h.authSvc.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		h.handleAuthError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Success: true, Message: "email verified"})
}

// ResendVerification
// POST /auth/resend-verification
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req dto.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	if err := h.authSvc.ResendVerification(c.Request.Context(), req.Email); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dto.MessageResponse{
		Success: true,
		Message: "if the account exists and is not verified, a new verification email has been sent",
	})
}

// ForgotPassword
// POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	if err := h.authSvc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dto.MessageResponse{
		Success: true,
		Message: "if the email exists, a password reset link has been sent",
	})
}

// ResetPassword
// POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), &req); err != nil {
		h.handleAuthError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Success: true, Message: "password has been reset"})
}

// Me current account
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}
	response.OK(c, user)
}

// ChangePassword
// POST /auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Unauthorized(c, 11009, "user not found")
			return
		}
		h.handleAuthError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Success: true, Message: "password changed"})
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 11001, "invalid email or password")
	case errors.Is(err, service.ErrEmailNotVerified):
		response.Unauthorized(c, 11002, "please verify your email before logging in")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 11003, "email already registered")
	case errors.Is(err, service.ErrInvalidVerificationToken):
		response.BadRequest(c, 11004, "invalid verification token")
	case errors.Is(err, service.ErrVerificationTokenExpired):
		response.BadRequest(c, 11005, "verification token has expired")
	case errors.Is(err, service.ErrInvalidResetToken):
		response.BadRequest(c, 11006, "invalid reset token")
	case errors.Is(err, service.ErrResetTokenExpired):
		response.BadRequest(c, 11007, "reset token has expired")
	case errors.Is(err, service.ErrWrongPassword):
		response.Unauthorized(c, 11008, "current password is incorrect")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11009, "user not found")
	default:
		response.InternalError(c)
	}
}
