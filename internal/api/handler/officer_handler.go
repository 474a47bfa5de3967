package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"union-officer/backend/internal/dto"
	"union-officer/backend/internal/service"
	"union-officer/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// OfficerHandler admin officer management
type OfficerHandler struct {
	officerSvc     service.OfficerService
	maxUploadBytes int64
}

// NewOfficerHandler creates an OfficerHandler
func NewOfficerHandler(officerSvc service.OfficerService, maxUploadBytes int64) *OfficerHandler {
	return &OfficerHandler{officerSvc: officerSvc, maxUploadBytes: maxUploadBytes}
}

// List paged officer search
// GET /admin/officers
func (h *OfficerHandler) List(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.OfficerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	items, total, err := h.officerSvc.List(c.Request.Context(), &req, caller)
	if err != nil {
		handleOfficerError(c, err)
		return
	}
	response.OKPage(c, items, total, req.GetPage(), req.GetLimit())
}

// Create officer account with profile (ADMIN)
// POST /admin/officers
func (h *OfficerHandler) Create(c *gin.Context) {
	var req dto.CreateOfficerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	result, err := h.officerSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleOfficerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Response{
		Code:    0,
		Message: "officer account created",
		Data:    result,
	})
}

// Get
// GET /admin/officers/:id
func (h *OfficerHandler) Get(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamUUID(c, "id", 13001, "officer not found")
	if !ok {
		return
	}

	detail, err := h.officerSvc.Get(c.Request.Context(), id, caller)
	if err != nil {
		handleOfficerError(c, err)
		return
	}
	response.OK(c, detail)
}

// Update partial profile update
// PATCH /admin/officers/:id
func (h *OfficerHandler) Update(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamUUID(c, "id", 13001, "officer not found")
	if !ok {
		return
	}

	var req dto.UpdateOfficerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	detail, err := h.officerSvc.Update(c.Request.Context(), id, &req, caller)
	if err != nil {
		handleOfficerError(c, err)
		return
	}
	response.OK(c, detail)
}

// Delete (ADMIN)
// DELETE /admin/officers/:id
func (h *OfficerHandler) Delete(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamUUID(c, "id", 13001, "officer not found")
	if !ok {
		return
	}

	if err := h.officerSvc.Delete(c.Request.Context(), id, caller); err != nil {
		handleOfficerError(c, err)
		return
	}
	response.OK(c, dto.MessageResponse{Success: true, Message: "officer deleted"})
}

// UpdateStatus
// PATCH /admin/officers/:id/status
func (h *OfficerHandler) UpdateStatus(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamUUID(c, "id", 13001, "officer not found")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	result, err := h.officerSvc.UpdateStatus(c.Request.Context(), id, *req.IsActive, caller)
	if err != nil {
		handleOfficerError(c, err)
		return
	}
	response.OK(c, result)
}

// History
// GET /admin/officers/:id/history
func (h *OfficerHandler) History(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamUUID(c, "id", 13001, "officer not found")
	if !ok {
		return
	}

	entries, err := h.officerSvc.History(c.Request.Context(), id, caller)
	if err != nil {
		handleOfficerError(c, err)
		return
	}
	response.OK(c, entries)
}

// Seed fills demo data (ADMIN)
// POST /admin/officers/seed
func (h *OfficerHandler) Seed(c *gin.Context) {
	result, err := h.officerSvc.Seed(c.Request.Context())
	if err != nil {
		handleOfficerError(c, err)
		return
	}
	response.OKMessage(c, "seeded demo data", result)
}

// Export filtered officers as xlsx
// GET /admin/officers/export
func (h *OfficerHandler) Export(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.OfficerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	buf, filename, err := h.officerSvc.Export(c.Request.Context(), &req, caller)
	if err != nil {
		handleOfficerError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Import bulk-creates officers from an xlsx upload (ADMIN)
// POST /admin/officers/import
func (h *OfficerHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "missing upload field \"file\"")
		return
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "file too large")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 13004, "cannot read uploaded file")
		return
	}
	defer f.Close()

	rows, err := h.officerSvc.ParseImportFile(f)
	if err != nil {
		handleOfficerError(c, err)
		return
	}

	result, err := h.officerSvc.Import(c.Request.Context(), rows)
	if err != nil {
		handleOfficerError(c, err)
		return
	}
	response.OK(c, result)
}

func handleOfficerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOfficerNotFound):
		response.NotFound(c, 13001, "officer not found")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 13002, "no permission for this officer")
	case errors.Is(err, service.ErrCannotDeleteSelf):
		response.BadRequest(c, 13003, "cannot delete your own account")
	case errors.Is(err, service.ErrImportBadFile):
		response.BadRequest(c, 13004, "cannot read spreadsheet")
	case errors.Is(err, service.ErrImportNoData):
		response.BadRequest(c, 13005, "spreadsheet has no data rows")
	case errors.Is(err, service.ErrImportTooManyRows):
		response.BadRequest(c, 13006, err.Error())
	case errors.Is(err, service.ErrImportBadHeader):
		response.BadRequest(c, 13007, err.Error())
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		handleProfileError(c, err)
	}
}
