package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"union-officer/backend/config"
	"union-officer/backend/internal/dto"
	"union-officer/backend/internal/model"
	"union-officer/backend/internal/repository"
	"union-officer/backend/pkg/mailer"
	"union-officer/backend/pkg/storage"
	"union-officer/backend/pkg/validate"
)

// ── officer management errors ──

var (
	ErrOfficerNotFound  = errors.New("officer not found")
	ErrNoPermission     = errors.New("no permission for this officer")
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
)

// History notes written by admin mutations.
const (
	noteUnitChange   = "Cập nhật đơn vị công tác bởi Admin"
	noteStatusChange = "Cập nhật trạng thái công tác bởi Admin"
)

// OfficerService admin management of officer accounts and profiles.
type OfficerService interface {
	List(ctx context.Context, req *dto.OfficerListRequest, caller Caller) ([]dto.OfficerListItem, int64, error)
	Create(ctx context.Context, req *dto.CreateOfficerRequest) (*dto.CreateOfficerResponse, error)
	Get(ctx context.Context, id string, caller Caller) (*dto.OfficerDetailResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateOfficerRequest, caller Caller) (*dto.OfficerDetailResponse, error)
	Delete(ctx context.Context, id string, caller Caller) error
	UpdateStatus(ctx context.Context, id string, isActive bool, caller Caller) (*dto.StatusResponse, error)
	History(ctx context.Context, id string, caller Caller) ([]model.OfficerHistory, error)
	Seed(ctx context.Context) (*dto.SeedResponse, error)
	Export(ctx context.Context, req *dto.OfficerListRequest, caller Caller) (*bytes.Buffer, string, error)
	ParseImportFile(reader io.Reader) ([]ImportOfficerRow, error)
	Import(ctx context.Context, rows []ImportOfficerRow) (*dto.ImportOfficerResponse, error)
}

type officerService struct {
	cfg      *config.Config
	repo     *repository.Repository
	store    storage.BlobStore
	mailer   mailer.Mailer
	stats    *statsInvalidator
	validate *validator.Validate
	newRand  func() *rand.Rand
	logger   *zap.Logger
}

// NewOfficerService creates an OfficerService. store and m may be nil.
func NewOfficerService(
	cfg *config.Config,
	repo *repository.Repository,
	store storage.BlobStore,
	m mailer.Mailer,
	stats *statsInvalidator,
	logger *zap.Logger,
) OfficerService {
	v := validator.New()
	_ = validate.Register(v)
	return &officerService{
		cfg:      cfg,
		repo:     repo,
		store:    store,
		mailer:   m,
		stats:    stats,
		validate: v,
		newRand:  func() *rand.Rand { return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) },
		logger:   logger,
	}
}

// ────────────────────── List ──────────────────────

func (s *officerService) List(ctx context.Context, req *dto.OfficerListRequest, caller Caller) ([]dto.OfficerListItem, int64, error) {
	filter, err := s.buildFilter(ctx, req, caller)
	if err != nil {
		return nil, 0, err
	}

	users, total, err := s.repo.User.ListOfficers(ctx, filter, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("failed to list officers", zap.Error(err))
		return nil, 0, err
	}

	items := make([]dto.OfficerListItem, 0, len(users))
	for i := range users {
		items = append(items, toOfficerListItem(&users[i]))
	}
	return items, total, nil
}

// buildFilter applies the caller's department scope on top of the query.
func (s *officerService) buildFilter(ctx context.Context, req *dto.OfficerListRequest, caller Caller) (repository.OfficerFilter, error) {
	filter := repository.OfficerFilter{
		Search:        strings.TrimSpace(req.Search),
		Department:    req.Department,
		UnionPosition: req.UnionPosition,
		Tag:           req.Tag,
	}
	switch req.IsActive {
	case "true":
		v := true
		filter.IsActive = &v
	case "false":
		v := false
		filter.IsActive = &v
	}

	dept, err := scopeDepartment(ctx, s.repo, caller)
	if err != nil {
		return filter, err
	}
	if dept != "" {
		filter.Department = dept
	}
	return filter, nil
}

// ────────────────────── Create ──────────────────────

// Create provisions an officer account and profile in one transaction. The
// verification mail goes out after commit.
func (s *officerService) Create(ctx context.Context, req *dto.CreateOfficerRequest) (*dto.CreateOfficerResponse, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := ensureEmployeeIDFree(ctx, s.repo, req.EmployeeID, ""); err != nil {
		return nil, err
	}

	profile := newProfile("", req.EmployeeID, req.FullName, req.Department, req.UnionPosition)
	if err := applyProfileFields(profile, &req.ProfileFields); err != nil {
		return nil, err
	}
	if profile.NationalID != nil {
		if err := ensureNationalIDFree(ctx, s.repo, *profile.NationalID, ""); err != nil {
			return nil, err
		}
	}

	user, token, err := newAccount(email, req.Password, model.RoleUser, &s.cfg.Auth)
	if err != nil {
		s.logger.Error("failed to prepare account", zap.Error(err))
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Profile.Create(ctx, profile)
	})
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		s.logger.Error("failed to create officer", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendEmailVerification(ctx, user.Email, token); err != nil {
			s.logger.Warn("failed to send verification email", zap.String("email", user.Email), zap.Error(err))
		}
	}

	s.stats.Invalidate(ctx)
	return &dto.CreateOfficerResponse{ID: user.ID, Email: user.Email, FullName: profile.FullName}, nil
}

// ────────────────────── Get ──────────────────────

func (s *officerService) Get(ctx context.Context, id string, caller Caller) (*dto.OfficerDetailResponse, error) {
	user, err := s.loadInScope(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	return toOfficerDetail(user), nil
}

// ────────────────────── Update ──────────────────────

func (s *officerService) Update(ctx context.Context, id string, req *dto.UpdateOfficerRequest, caller Caller) (*dto.OfficerDetailResponse, error) {
	user, err := s.loadInScope(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	profile := user.Profile
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	oldDept := profile.Department
	if req.Department != nil && *req.Department != oldDept && caller.Role == model.RoleUnitAdmin {
		return nil, ErrNoPermission
	}

	if req.EmployeeID != nil {
		employeeID := strings.TrimSpace(*req.EmployeeID)
		if employeeID != profile.EmployeeID {
			if err := ensureEmployeeIDFree(ctx, s.repo, employeeID, profile.ID); err != nil {
				return nil, err
			}
			profile.EmployeeID = employeeID
		}
	}
	if req.FullName != nil {
		profile.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Department != nil {
		profile.Department = *req.Department
	}
	if req.UnionPosition != nil {
		profile.UnionPosition = *req.UnionPosition
	}
	if req.Tags != nil {
		profile.Tags = normalizeTags(*req.Tags)
	}

	prevNationalID := derefString(profile.NationalID)
	if err := applyProfileFields(profile, &req.ProfileFields); err != nil {
		return nil, err
	}
	if nid := derefString(profile.NationalID); nid != "" && nid != prevNationalID {
		if err := ensureNationalIDFree(ctx, s.repo, nid, profile.ID); err != nil {
			return nil, err
		}
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Profile.Update(ctx, profile); err != nil {
			return err
		}
		if profile.Department == oldDept {
			return nil
		}
		return tx.History.Create(ctx, newHistory(user.ID, model.ChangeTypeUnit, oldDept, profile.Department, noteUnitChange))
	})
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		s.logger.Error("failed to update officer", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.stats.Invalidate(ctx)
	return toOfficerDetail(user), nil
}

// ────────────────────── Delete ──────────────────────

// Delete removes the account; profile, history and CV rows cascade and the
// stored CV files are removed afterwards.
func (s *officerService) Delete(ctx context.Context, id string, caller Caller) error {
	if id == caller.UserID {
		return ErrCannotDeleteSelf
	}

	keys, err := s.repo.CV.ListStorageKeys(ctx, id)
	if err != nil {
		s.logger.Error("failed to list CV files", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOfficerNotFound
		}
		s.logger.Error("failed to delete officer", zap.String("id", id), zap.Error(err))
		return err
	}

	if s.store != nil {
		for _, key := range keys {
			if err := s.store.Delete(ctx, key); err != nil {
				s.logger.Warn("failed to delete CV file", zap.String("key", key), zap.Error(err))
			}
		}
	}

	s.stats.Invalidate(ctx)
	return nil
}

// ────────────────────── UpdateStatus ──────────────────────

// UpdateStatus toggles the account's active flag. A history row is written
// only when the flag actually changes.
func (s *officerService) UpdateStatus(ctx context.Context, id string, isActive bool, caller Caller) (*dto.StatusResponse, error) {
	if _, err := s.loadInScope(ctx, id, caller); err != nil {
		return nil, err
	}

	changed := false
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		user, err := tx.User.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if user.IsActive == isActive {
			return nil
		}

		oldLabel := model.StatusLabel(user.IsActive)
		user.IsActive = isActive
		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		changed = true
		return tx.History.Create(ctx, newHistory(id, model.ChangeTypeStatus, oldLabel, model.StatusLabel(isActive), noteStatusChange))
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficerNotFound
		}
		s.logger.Error("failed to update officer status", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if changed {
		s.stats.Invalidate(ctx)
	}
	return &dto.StatusResponse{IsActive: isActive, Changed: changed}, nil
}

// ────────────────────── History ──────────────────────

func (s *officerService) History(ctx context.Context, id string, caller Caller) ([]model.OfficerHistory, error) {
	if _, err := s.loadInScope(ctx, id, caller); err != nil {
		return nil, err
	}

	entries, err := s.repo.History.ListByOfficer(ctx, id)
	if err != nil {
		s.logger.Error("failed to list officer history", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if entries == nil {
		entries = []model.OfficerHistory{}
	}
	return entries, nil
}

// ── scope helpers ──

// scopeDepartment returns the department a UNIT_ADMIN is limited to, or ""
// when the caller is unrestricted.
func scopeDepartment(ctx context.Context, repo *repository.Repository, caller Caller) (string, error) {
	if caller.Role != model.RoleUnitAdmin {
		return "", nil
	}
	profile, err := repo.Profile.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoPermission
		}
		return "", err
	}
	return profile.Department, nil
}

// checkScope rejects targets outside the caller's department.
func checkScope(ctx context.Context, repo *repository.Repository, caller Caller, target *model.User) error {
	dept, err := scopeDepartment(ctx, repo, caller)
	if err != nil || dept == "" {
		return err
	}
	if target.Profile == nil || target.Profile.Department != dept {
		return ErrNoPermission
	}
	return nil
}

func (s *officerService) loadInScope(ctx context.Context, id string, caller Caller) (*model.User, error) {
	user, err := s.repo.User.GetByIDWithProfile(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficerNotFound
		}
		s.logger.Error("failed to load officer", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if err := checkScope(ctx, s.repo, caller, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ── converters ──

func newHistory(officerID, changeType, oldValue, newValue, note string) *model.OfficerHistory {
	h := &model.OfficerHistory{
		OfficerID:  officerID,
		ChangeType: changeType,
		NewValue:   newValue,
		ChangeDate: time.Now(),
	}
	if oldValue != "" {
		h.OldValue = &oldValue
	}
	if note != "" {
		h.Note = &note
	}
	return h
}

// normalizeTags trims and de-duplicates while preserving order.
func normalizeTags(tags []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func toOfficerListItem(u *model.User) dto.OfficerListItem {
	item := dto.OfficerListItem{
		ID:       u.ID,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
		Tags:     []string{},
	}
	if p := u.Profile; p != nil {
		item.FullName = p.FullName
		item.EmployeeID = p.EmployeeID
		item.UnionPosition = p.UnionPosition
		item.Department = p.Department
		if p.Tags != nil {
			item.Tags = p.Tags
		}
	}
	return item
}

func toOfficerDetail(u *model.User) *dto.OfficerDetailResponse {
	return &dto.OfficerDetailResponse{
		ID:       u.ID,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
		Profile:  u.Profile,
	}
}
