package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"union-officer/backend/internal/dto"
	"union-officer/backend/internal/service"
	"union-officer/backend/pkg/response"
)

// ProfileHandler self-service officer profile
type ProfileHandler struct {
	profileSvc service.ProfileService
}

// NewProfileHandler creates a ProfileHandler
func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// GetMine
// GET /api/v1/profile/me
func (h *ProfileHandler) GetMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileSvc.GetMine(c.Request.Context(), userID)
	if err != nil {
		handleProfileError(c, err)
		return
	}
	response.OK(c, profile)
}

// CreateMine
// POST /api/v1/profile/me
func (h *ProfileHandler) CreateMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	profile, err := h.profileSvc.CreateMine(c.Request.Context(), userID, &req)
	if err != nil {
		handleProfileError(c, err)
		return
	}
	response.Created(c, profile)
}

// UpdateMine partial update
// PATCH /api/v1/profile/me
func (h *ProfileHandler) UpdateMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	profile, err := h.profileSvc.UpdateMine(c.Request.Context(), userID, &req)
	if err != nil {
		handleProfileError(c, err)
		return
	}
	response.OK(c, profile)
}

// handleProfileError maps profile sentinels; shared with the officer handler.
func handleProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		response.NotFound(c, 12001, "profile not found")
	case errors.Is(err, service.ErrProfileExists):
		response.Conflict(c, 12002, "profile already exists")
	case errors.Is(err, service.ErrEmployeeIDExists):
		response.Conflict(c, 12003, "employee ID already in use")
	case errors.Is(err, service.ErrNationalIDExists):
		response.Conflict(c, 12004, "national ID already in use")
	case errors.Is(err, service.ErrEmployeeIDBlank):
		response.BadRequest(c, 10001, "employee ID must not be blank")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 12005, "invalid date, expected YYYY-MM-DD")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 11003, "email already registered")
	default:
		response.InternalError(c)
	}
}
