package repository

import (
	"context"

	"gorm.io/gorm"

	"union-officer/backend/internal/model"
)

// CVRepository CV metadata data access
type CVRepository interface {
	Create(ctx context.Context, cv *model.CV) error
	GetByID(ctx context.Context, id string) (*model.CV, error)
	GetByIDAndUser(ctx context.Context, id, userID string) (*model.CV, error)
	// ListByUser newest version first.
	ListByUser(ctx context.Context, userID string) ([]model.CV, error)
	MaxVersion(ctx context.Context, userID string) (int, error)
	ClearLatest(ctx context.Context, userID string) error
	ListStorageKeys(ctx context.Context, userID string) ([]string, error)
}

type cvRepo struct {
	db *gorm.DB
}

// NewCVRepo creates a CVRepository.
func NewCVRepo(db *gorm.DB) CVRepository {
	return &cvRepo{db: db}
}

func (r *cvRepo) Create(ctx context.Context, cv *model.CV) error {
	return r.db.WithContext(ctx).Create(cv).Error
}

func (r *cvRepo) GetByID(ctx context.Context, id string) (*model.CV, error) {
	var cv model.CV
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&cv).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *cvRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*model.CV, error) {
	var cv model.CV
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&cv).Error
	if err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *cvRepo) ListByUser(ctx context.Context, userID string) ([]model.CV, error) {
	var cvs []model.CV
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("version DESC").
		Find(&cvs).Error
	return cvs, err
}

// MaxVersion returns 0 when the user has no CV yet.
func (r *cvRepo) MaxVersion(ctx context.Context, userID string) (int, error) {
	var v int
	err := r.db.WithContext(ctx).Model(&model.CV{}).
		Select("COALESCE(MAX(version), 0)").
		Where("user_id = ?", userID).
		Scan(&v).Error
	return v, err
}

func (r *cvRepo) ClearLatest(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&model.CV{}).
		Where("user_id = ? AND is_latest = ?", userID, true).
		Update("is_latest", false).Error
}

func (r *cvRepo) ListStorageKeys(ctx context.Context, userID string) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Model(&model.CV{}).
		Where("user_id = ?", userID).
		Pluck("storage_key", &keys).Error
	return keys, err
}
