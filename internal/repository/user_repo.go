package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"union-officer/backend/internal/model"
)

// OfficerFilter narrows the officer list. Empty fields are ignored.
type OfficerFilter struct {
	Search        string
	Department    string
	UnionPosition string
	Tag           string
	IsActive      *bool
}

// UserRepository user data access
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByIDWithProfile(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*model.User, error)
	GetByResetToken(ctx context.Context, token string) (*model.User, error)
	// LockByID loads the user with SELECT ... FOR UPDATE. Only meaningful inside a transaction.
	LockByID(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	// ListOfficers returns role USER accounts with profiles; limit <= 0 returns every match.
	ListOfficers(ctx context.Context, filter OfficerFilter, offset, limit int) ([]model.User, int64, error)
	ListWithProfileByRole(ctx context.Context, role string) ([]model.User, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a UserRepository.
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *userRepo) GetByIDWithProfile(ctx context.Context, id string) (*model.User, error) {
	return r.first(r.db.WithContext(ctx).Preload("Profile").Where("id = ?", id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(r.db.WithContext(ctx).Where("email = ?", email))
}

func (r *userRepo) GetByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	return r.first(r.db.WithContext(ctx).Where("email_verification_token = ?", token))
}

func (r *userRepo) GetByResetToken(ctx context.Context, token string) (*model.User, error) {
	return r.first(r.db.WithContext(ctx).Where("password_reset_token = ?", token))
}

func (r *userRepo) LockByID(ctx context.Context, id string) (*model.User, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *userRepo) first(q *gorm.DB) (*model.User, error) {
	var user model.User
	if err := q.First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

// Delete removes the user; profile, history and CV rows cascade.
func (r *userRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) ListOfficers(ctx context.Context, filter OfficerFilter, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{}).
		Joins("LEFT JOIN officer_profiles ON officer_profiles.user_id = users.id").
		Where("users.role = ?", model.RoleUser)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where(
			"(officer_profiles.full_name ILIKE ? OR officer_profiles.employee_id ILIKE ? OR users.email ILIKE ?)",
			like, like, like,
		)
	}
	if filter.Department != "" {
		db = db.Where("officer_profiles.department = ?", filter.Department)
	}
	if filter.UnionPosition != "" {
		db = db.Where("officer_profiles.union_position = ?", filter.UnionPosition)
	}
	if filter.Tag != "" {
		db = db.Where("? = ANY(officer_profiles.tags)", filter.Tag)
	}
	if filter.IsActive != nil {
		db = db.Where("users.is_active = ?", *filter.IsActive)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.Preload("Profile").Order("users.created_at DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepo) ListWithProfileByRole(ctx context.Context, role string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("role = ?", role).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}
