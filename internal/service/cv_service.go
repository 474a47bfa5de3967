package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"union-officer/backend/config"
	"union-officer/backend/internal/model"
	"union-officer/backend/internal/repository"
	"union-officer/backend/pkg/storage"
)

var (
	ErrCVNotFound       = errors.New("CV not found")
	ErrCVFileMissing    = errors.New("CV file is missing from storage")
	ErrCVEmptyFile      = errors.New("uploaded file is empty")
	ErrCVFileTooLarge   = errors.New("uploaded file exceeds the size limit")
	ErrCVInvalidType    = errors.New("only PDF, DOC and DOCX files are accepted")
	ErrCVCorruptFile    = errors.New("file content does not match its type")
	ErrStoreUnavailable = errors.New("file storage is not configured")
)

var (
	allowedCVExt  = map[string]bool{".pdf": true, ".doc": true, ".docx": true}
	cvMimePattern = regexp.MustCompile(`pdf|msword|officedocument`)
	oleSignature  = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// CVUpload an uploaded file held in memory.
type CVUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// CVDownload metadata plus an open stream; the caller closes Body.
type CVDownload struct {
	CV   *model.CV
	Body io.ReadCloser
}

// CVService versioned CV storage per user.
type CVService interface {
	Upload(ctx context.Context, userID string, file *CVUpload) (*model.CV, error)
	ListMine(ctx context.Context, userID string) ([]model.CV, error)
	OpenMine(ctx context.Context, userID, cvID string) (*CVDownload, error)
	ListByUser(ctx context.Context, userID string, caller Caller) ([]model.CV, error)
	Open(ctx context.Context, cvID string, caller Caller) (*CVDownload, error)
}

type cvService struct {
	repo     *repository.Repository
	store    storage.BlobStore
	maxBytes int64
	logger   *zap.Logger
}

// NewCVService creates a CVService.
func NewCVService(cfg *config.Config, repo *repository.Repository, store storage.BlobStore, logger *zap.Logger) CVService {
	return &cvService{
		repo:     repo,
		store:    store,
		maxBytes: cfg.Storage.MaxUploadBytes,
		logger:   logger,
	}
}

// ────────────────────── Upload ──────────────────────

// Upload stores a new version and makes it the only latest one. The user row
// is locked so concurrent uploads get distinct versions.
func (s *cvService) Upload(ctx context.Context, userID string, file *CVUpload) (*model.CV, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	pageCount, err := s.validateUpload(file)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var (
		cv        *model.CV
		storedKey string
	)
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.User.LockByID(ctx, userID); err != nil {
			return err
		}
		maxVersion, err := tx.CV.MaxVersion(ctx, userID)
		if err != nil {
			return err
		}
		if err := tx.CV.ClearLatest(ctx, userID); err != nil {
			return err
		}

		version := maxVersion + 1
		key := storage.BuildKey(userID, version, file.FileName, now)
		size, err := s.store.Put(ctx, key, file.ContentType, bytes.NewReader(file.Data))
		if err != nil {
			return fmt.Errorf("store CV: %w", err)
		}
		storedKey = key

		cv = &model.CV{
			UserID:     userID,
			FileName:   filepath.Base(file.FileName),
			StorageKey: key,
			FileType:   file.ContentType,
			FileSize:   size,
			PageCount:  pageCount,
			Version:    version,
			IsLatest:   true,
			UploadedAt: now,
		}
		return tx.CV.Create(ctx, cv)
	})
	if err != nil {
		if storedKey != "" {
			if delErr := s.store.Delete(ctx, storedKey); delErr != nil {
				s.logger.Warn("failed to remove orphaned CV file", zap.String("key", storedKey), zap.Error(delErr))
			}
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("failed to upload CV", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("CV uploaded",
		zap.String("user_id", userID),
		zap.Int("version", cv.Version),
		zap.Int64("size", cv.FileSize))
	return cv, nil
}

// validateUpload checks extension, declared type, size and content. PDFs
// must parse; the page count is returned for them.
func (s *cvService) validateUpload(file *CVUpload) (*int, error) {
	if len(file.Data) == 0 {
		return nil, ErrCVEmptyFile
	}
	if s.maxBytes > 0 && int64(len(file.Data)) > s.maxBytes {
		return nil, ErrCVFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.FileName))
	if !allowedCVExt[ext] || !cvMimePattern.MatchString(strings.ToLower(file.ContentType)) {
		return nil, ErrCVInvalidType
	}

	switch ext {
	case ".pdf":
		pages, err := pdfPageCount(file.Data)
		if err != nil {
			return nil, ErrCVCorruptFile
		}
		return &pages, nil
	case ".docx":
		if _, err := zip.NewReader(bytes.NewReader(file.Data), int64(len(file.Data))); err != nil {
			return nil, ErrCVCorruptFile
		}
	case ".doc":
		if !bytes.HasPrefix(file.Data, oleSignature) {
			return nil, ErrCVCorruptFile
		}
	}
	return nil, nil
}

// pdfPageCount parses the document. The parser panics on some malformed input.
func pdfPageCount(data []byte) (pages int, err error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return 0, errors.New("missing PDF header")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	return reader.NumPage(), nil
}

// ────────────────────── ListMine / OpenMine ──────────────────────

func (s *cvService) ListMine(ctx context.Context, userID string) ([]model.CV, error) {
	cvs, err := s.repo.CV.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list CVs", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if cvs == nil {
		cvs = []model.CV{}
	}
	return cvs, nil
}

func (s *cvService) OpenMine(ctx context.Context, userID, cvID string) (*CVDownload, error) {
	cv, err := s.repo.CV.GetByIDAndUser(ctx, cvID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCVNotFound
		}
		return nil, err
	}
	return s.open(ctx, cv)
}

// ────────────────────── ListByUser / Open (admin) ──────────────────────

func (s *cvService) ListByUser(ctx context.Context, userID string, caller Caller) ([]model.CV, error) {
	user, err := s.repo.User.GetByIDWithProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := checkScope(ctx, s.repo, caller, user); err != nil {
		return nil, err
	}
	return s.ListMine(ctx, userID)
}

func (s *cvService) Open(ctx context.Context, cvID string, caller Caller) (*CVDownload, error) {
	cv, err := s.repo.CV.GetByID(ctx, cvID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCVNotFound
		}
		return nil, err
	}

	owner, err := s.repo.User.GetByIDWithProfile(ctx, cv.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCVNotFound
		}
		return nil, err
	}
	if err := checkScope(ctx, s.repo, caller, owner); err != nil {
		return nil, err
	}
	return s.open(ctx, cv)
}

func (s *cvService) open(ctx context.Context, cv *model.CV) (*CVDownload, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	body, err := s.store.Open(ctx, cv.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("CV metadata without stored file", zap.String("cv_id", cv.ID), zap.String("key", cv.StorageKey))
			return nil, ErrCVFileMissing
		}
		s.logger.Error("failed to open CV file", zap.String("cv_id", cv.ID), zap.Error(err))
		return nil, err
	}
	return &CVDownload{CV: cv, Body: body}, nil
}
