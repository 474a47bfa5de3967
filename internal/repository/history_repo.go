package repository

import (
	"context"

	"gorm.io/gorm"

	"union-officer/backend/internal/model"
)

// HistoryRepository officer history data access. Rows are append-only.
type HistoryRepository interface {
	Create(ctx context.Context, entry *model.OfficerHistory) error
	ListByOfficer(ctx context.Context, officerID string) ([]model.OfficerHistory, error)
	CountByOfficer(ctx context.Context, officerID string) (int64, error)
}

type historyRepo struct {
	db *gorm.DB
}

// NewHistoryRepo creates a HistoryRepository.
func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db: db}
}

func (r *historyRepo) Create(ctx context.Context, entry *model.OfficerHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByOfficer newest first.
func (r *historyRepo) ListByOfficer(ctx context.Context, officerID string) ([]model.OfficerHistory, error) {
	var entries []model.OfficerHistory
	err := r.db.WithContext(ctx).
		Where("officer_id = ?", officerID).
		Order("change_date DESC").
		Find(&entries).Error
	return entries, err
}

func (r *historyRepo) CountByOfficer(ctx context.Context, officerID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.OfficerHistory{}).
		Where("officer_id = ?", officerID).
		Count(&n).Error
	return n, err
}
