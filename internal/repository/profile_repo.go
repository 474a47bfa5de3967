package repository

import (
	"context"

	"gorm.io/gorm"

	"union-officer/backend/internal/model"
)

// ProfileRepository officer profile data access
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.OfficerProfile) error
	GetByUserID(ctx context.Context, userID string) (*model.OfficerProfile, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*model.OfficerProfile, error)
	GetByNationalID(ctx context.Context, nationalID string) (*model.OfficerProfile, error)
	Update(ctx context.Context, profile *model.OfficerProfile) error
}

type profileRepo struct {
	db *gorm.DB
}

// NewProfileRepo creates a ProfileRepository.
func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, profile *model.OfficerProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*model.OfficerProfile, error) {
	return r.first(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *profileRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*model.OfficerProfile, error) {
	return r.first(r.db.WithContext(ctx).Where("employee_id = ?", employeeID))
}

func (r *profileRepo) GetByNationalID(ctx context.Context, nationalID string) (*model.OfficerProfile, error) {
	return r.first(r.db.WithContext(ctx).Where("national_id = ?", nationalID))
}

func (r *profileRepo) first(q *gorm.DB) (*model.OfficerProfile, error) {
	var profile model.OfficerProfile
	if err := q.First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) Update(ctx context.Context, profile *model.OfficerProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
