package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"union-officer/backend/internal/service"
	"union-officer/backend/pkg/response"
)

// CVHandler CV upload and download
type CVHandler struct {
	cvSvc          service.CVService
	maxUploadBytes int64
}

// NewCVHandler creates a CVHandler
func NewCVHandler(cvSvc service.CVService, maxUploadBytes int64) *CVHandler {
	return &CVHandler{cvSvc: cvSvc, maxUploadBytes: maxUploadBytes}
}

// Upload stores a new CV version for the current user
// POST /me/cv (multipart field "file")
func (h *CVHandler) Upload(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 14008, "missing upload field \"file\"")
		return
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		response.UnprocessableEntity(c, 14004, "file exceeds the size limit")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 14008, "cannot read uploaded file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.BadRequest(c, 14008, "cannot read uploaded file")
		return
	}

	cv, err := h.cvSvc.Upload(c.Request.Context(), userID, &service.CVUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		handleCVError(c, err)
		return
	}
	response.Created(c, cv)
}

// ListMine versions newest first
// GET /me/cv
func (h *CVHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	cvs, err := h.cvSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		handleCVError(c, err)
		return
	}
	response.OK(c, cvs)
}

// DownloadMine
// GET /me/cv/:id/download
func (h *CVHandler) DownloadMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := mustParamUUID(c, "id", 14001, "CV not found")
	if !ok {
		return
	}

	dl, err := h.cvSvc.OpenMine(c.Request.Context(), userID, id)
	if err != nil {
		handleCVError(c, err)
		return
	}
	sendCV(c, dl)
}

// ListByUser (admin)
// GET /admin/cv/user/:userId
func (h *CVHandler) ListByUser(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	userID, ok := mustParamUUID(c, "userId", 11009, "user not found")
	if !ok {
		return
	}

	cvs, err := h.cvSvc.ListByUser(c.Request.Context(), userID, caller)
	if err != nil {
		handleCVError(c, err)
		return
	}
	response.OK(c, cvs)
}

// Download (admin)
// GET /admin/cv/:id/download
func (h *CVHandler) Download(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := mustParamUUID(c, "id", 14001, "CV not found")
	if !ok {
		return
	}

	dl, err := h.cvSvc.Open(c.Request.Context(), id, caller)
	if err != nil {
		handleCVError(c, err)
		return
	}
	sendCV(c, dl)
}

func sendCV(c *gin.Context, dl *service.CVDownload) {
	defer dl.Body.Close()
	c.DataFromReader(http.StatusOK, dl.CV.FileSize, dl.CV.FileType, dl.Body, map[string]string{
		"Content-Disposition": "attachment; filename*=UTF-8''" + url.PathEscape(dl.CV.FileName),
	})
}

func handleCVError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCVNotFound):
		response.NotFound(c, 14001, "CV not found")
	case errors.Is(err, service.ErrCVFileMissing):
		response.NotFound(c, 14002, "CV file is missing from storage")
	case errors.Is(err, service.ErrCVEmptyFile):
		response.UnprocessableEntity(c, 14003, "uploaded file is empty")
	case errors.Is(err, service.ErrCVFileTooLarge):
		response.UnprocessableEntity(c, 14004, "file exceeds the size limit")
	case errors.Is(err, service.ErrCVInvalidType):
		response.UnprocessableEntity(c, 14005, "only PDF, DOC and DOCX files are accepted")
	case errors.Is(err, service.ErrCVCorruptFile):
		response.UnprocessableEntity(c, 14006, "file content does not match its type")
	case errors.Is(err, service.ErrStoreUnavailable):
		response.Error(c, http.StatusServiceUnavailable, 14007, "file storage is not configured")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11009, "user not found")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 13002, "no permission for this officer")
	default:
		response.InternalError(c)
	}
}
