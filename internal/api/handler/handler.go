package handler

import "union-officer/backend/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth      *AuthHandler
	Profile   *ProfileHandler
	Officer   *OfficerHandler
	Dashboard *DashboardHandler
	CV        *CVHandler
}

// NewHandler builds the handlers. maxUploadBytes caps spreadsheet imports.
func NewHandler(svc *service.Service, maxUploadBytes int64) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		Profile:   NewProfileHandler(svc.Profile),
		Officer:   NewOfficerHandler(svc.Officer, maxUploadBytes),
		Dashboard: NewDashboardHandler(svc.Dashboard),
		CV:        NewCVHandler(svc.CV, maxUploadBytes),
	}
}
