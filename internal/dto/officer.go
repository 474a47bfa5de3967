package dto

import "union-officer/backend/internal/model"

// OfficerListRequest GET /admin/officers query
type OfficerListRequest struct {
	PaginationRequest
	Search        string `form:"search"        binding:"omitempty,max=100"`
	Department    string `form:"department"    binding:"omitempty,oneof=PROPAGANDA_EDUCATION ORGANIZATION POLICIES_LAWS OFFICE WOMEN_AFFAIRS"`
	UnionPosition string `form:"unionPosition" binding:"omitempty,oneof=PRESIDENT VICE_PRESIDENT EXECUTIVE_COMMITTEE_MEMBER BOARD_MEMBER SPECIALIZED_OFFICER"`
	IsActive      string `form:"isActive"      binding:"omitempty,oneof=true false"`
	Tag           string `form:"tag"           binding:"omitempty,max=100"`
}

// CreateOfficerRequest POST /admin/officers
type CreateOfficerRequest struct {
	Email         string `json:"email"         binding:"required,email,max=255"`
	Password      string `json:"password"      binding:"required,min=6,max=72"`
	FullName      string `json:"fullName"      binding:"required,max=255"`
	EmployeeID    string `json:"employeeId"    binding:"required,max=50"`
	Department    string `json:"department"    binding:"required,oneof=PROPAGANDA_EDUCATION ORGANIZATION POLICIES_LAWS OFFICE WOMEN_AFFAIRS"`
	UnionPosition string `json:"unionPosition" binding:"required,oneof=PRESIDENT VICE_PRESIDENT EXECUTIVE_COMMITTEE_MEMBER BOARD_MEMBER SPECIALIZED_OFFICER"`
	ProfileFields
}

// UpdateOfficerRequest PATCH /admin/officers/:id
type UpdateOfficerRequest struct {
	FullName      *string   `json:"fullName"      binding:"omitempty,min=1,max=255"`
	EmployeeID    *string   `json:"employeeId"    binding:"omitempty,min=1,max=50"`
	Department    *string   `json:"department"    binding:"omitempty,oneof=PROPAGANDA_EDUCATION ORGANIZATION POLICIES_LAWS OFFICE WOMEN_AFFAIRS"`
	UnionPosition *string   `json:"unionPosition" binding:"omitempty,oneof=PRESIDENT VICE_PRESIDENT EXECUTIVE_COMMITTEE_MEMBER BOARD_MEMBER SPECIALIZED_OFFICER"`
	Tags          *[]string `json:"tags"          binding:"omitempty,max=20,dive,min=1,max=100"`
	ProfileFields
}

// UpdateStatusRequest PATCH /admin/officers/:id/status
type UpdateStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// OfficerListItem row of the officer table
type OfficerListItem struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	Role          string   `json:"role"`
	IsActive      bool     `json:"isActive"`
	FullName      string   `json:"fullName"`
	EmployeeID    string   `json:"employeeId"`
	UnionPosition string   `json:"unionPosition"`
	Department    string   `json:"department"`
	Tags          []string `json:"tags"`
}

// OfficerDetailResponse GET /admin/officers/:id
type OfficerDetailResponse struct {
	ID       string                `json:"id"`
	Email    string                `json:"email"`
	Role     string                `json:"role"`
	IsActive bool                  `json:"isActive"`
	Profile  *model.OfficerProfile `json:"profile"`
}

// CreateOfficerResponse POST /admin/officers
type CreateOfficerResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// StatusResponse PATCH /admin/officers/:id/status
type StatusResponse struct {
	IsActive bool `json:"isActive"`
	Changed  bool `json:"changed"`
}

// SeedResponse POST /admin/officers/seed
type SeedResponse struct {
	Updated int `json:"updated"`
}

// ImportOfficerResponse POST /admin/officers/import
type ImportOfficerResponse struct {
	Total   int              `json:"total"`
	Success int              `json:"success"`
	Failed  int              `json:"failed"`
	Errors  []ImportRowError `json:"errors,omitempty"`
	// Created lists imported accounts; TempPassword is set only when the row had no password.
	Created []ImportedOfficer `json:"created,omitempty"`
}

// ImportedOfficer account created by an import row
type ImportedOfficer struct {
	Row          int    `json:"row"`
	ID           string `json:"id"`
	Email        string `json:"email"`
	TempPassword string `json:"tempPassword,omitempty"`
}

// ImportRowError rejected spreadsheet row
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
