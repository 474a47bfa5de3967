package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"union-officer/backend/internal/dto"
	"union-officer/backend/internal/model"
	"union-officer/backend/internal/repository"
	pkgerrors "union-officer/backend/pkg/errors"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrProfileExists    = errors.New("profile already exists")
	ErrEmployeeIDExists = errors.New("employee ID already in use")
	ErrNationalIDExists = errors.New("national ID already in use")
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrEmployeeIDBlank  = errors.New("employee ID must not be blank")
)

// ProfileService self-service officer profile.
type ProfileService interface {
	GetMine(ctx context.Context, userID string) (*model.OfficerProfile, error)
	CreateMine(ctx context.Context, userID string, req *dto.CreateProfileRequest) (*model.OfficerProfile, error)
	UpdateMine(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*model.OfficerProfile, error)
}

type profileService struct {
	repo   *repository.Repository
	stats  *statsInvalidator
	logger *zap.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(repo *repository.Repository, stats *statsInvalidator, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, stats: stats, logger: logger}
}

// ────────────────────── GetMine ──────────────────────

func (s *profileService) GetMine(ctx context.Context, userID string) (*model.OfficerProfile, error) {
	profile, err := s.repo.Profile.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("failed to load profile", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return profile, nil
}

// ────────────────────── CreateMine ──────────────────────

func (s *profileService) CreateMine(ctx context.Context, userID string, req *dto.CreateProfileRequest) (*model.OfficerProfile, error) {
	if _, err := s.repo.Profile.GetByUserID(ctx, userID); err == nil {
		return nil, ErrProfileExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := ensureEmployeeIDFree(ctx, s.repo, req.EmployeeID, ""); err != nil {
		return nil, err
	}

	profile := newProfile(userID, req.EmployeeID, req.FullName, req.Department, req.UnionPosition)
	if err := applyProfileFields(profile, &req.ProfileFields); err != nil {
		return nil, err
	}
	if profile.NationalID != nil {
		if err := ensureNationalIDFree(ctx, s.repo, *profile.NationalID, ""); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Profile.Create(ctx, profile); err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		s.logger.Error("failed to create profile", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.stats.Invalidate(ctx)
	return profile, nil
}

// ────────────────────── UpdateMine ──────────────────────

func (s *profileService) UpdateMine(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*model.OfficerProfile, error) {
	profile, err := s.GetMine(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		profile.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.UnionPosition != nil {
		profile.UnionPosition = *req.UnionPosition
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

	if err := s.repo.Profile.Update(ctx, profile); err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		s.logger.Error("failed to update profile", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.stats.Invalidate(ctx)
	return profile, nil
}

// ── shared profile helpers ──

func newProfile(userID, employeeID, fullName, department, position string) *model.OfficerProfile {
	return &model.OfficerProfile{
		UserID:        userID,
		EmployeeID:    strings.TrimSpace(employeeID),
		FullName:      strings.TrimSpace(fullName),
		Department:    department,
		UnionPosition: position,
		Gender:        model.GenderMale,
		WorkStatus:    model.WorkStatusActive,
		JoinDate:      truncateDay(time.Now()),
		Tags:          pq.StringArray{},
	}
}

// applyProfileFields merges the non-nil optional fields into p.
// Empty strings clear nullable columns.
func applyProfileFields(p *model.OfficerProfile, f *dto.ProfileFields) error {
	if f.DateOfBirth != nil {
		if strings.TrimSpace(*f.DateOfBirth) == "" {
			p.DateOfBirth = nil
		} else {
			d, err := parseDate(*f.DateOfBirth)
			if err != nil {
				return err
			}
			p.DateOfBirth = &d
		}
	}
	if f.JoinDate != nil && strings.TrimSpace(*f.JoinDate) != "" {
		d, err := parseDate(*f.JoinDate)
		if err != nil {
			return err
		}
		p.JoinDate = d
	}
	if f.Gender != nil && *f.Gender != "" {
		p.Gender = *f.Gender
	}
	if f.WorkStatus != nil && *f.WorkStatus != "" {
		p.WorkStatus = *f.WorkStatus
	}
	if f.IsPartyMember != nil {
		p.IsPartyMember = *f.IsPartyMember
	}

	setOptional(&p.NationalID, f.NationalID)
	setOptional(&p.PhoneNumber, f.PhoneNumber)
	setOptional(&p.PersonalEmail, f.PersonalEmail)
	setOptional(&p.Address, f.Address)
	setOptional(&p.UnitName, f.UnitName)
	setOptional(&p.Education, f.Education)
	setOptional(&p.Experience, f.Experience)
	setOptional(&p.Skills, f.Skills)
	setOptional(&p.Achievements, f.Achievements)
	return nil
}

func setOptional(dst **string, src *string) {
	if src == nil {
		return
	}
	v := strings.TrimSpace(*src)
	if v == "" {
		*dst = nil
		return
	}
	*dst = &v
}

// ensureEmployeeIDFree also rejects ids that are blank once trimmed.
func ensureEmployeeIDFree(ctx context.Context, repo *repository.Repository, employeeID, selfID string) error {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return ErrEmployeeIDBlank
	}
	existing, err := repo.Profile.GetByEmployeeID(ctx, employeeID)
	if err == nil && existing.ID != selfID {
		return ErrEmployeeIDExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func ensureNationalIDFree(ctx context.Context, repo *repository.Repository, nationalID, selfID string) error {
	existing, err := repo.Profile.GetByNationalID(ctx, nationalID)
	if err == nil && existing.ID != selfID {
		return ErrNationalIDExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// mapUniqueViolation translates a unique-constraint error into its domain error.
func mapUniqueViolation(err error) error {
	constraint, ok := pkgerrors.IsUniqueViolation(err)
	if !ok {
		return nil
	}
	switch constraint {
	case "uq_users_email":
		return ErrEmailExists
	case "uq_officer_profiles_user_id":
		return ErrProfileExists
	case "uq_officer_profiles_employee_id":
		return ErrEmployeeIDExists
	case "uq_officer_profiles_national_id":
		return ErrNationalIDExists
	}
	return nil
}

// parseDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return truncateDay(t), nil
	}
	return time.Time{}, ErrInvalidDate
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
