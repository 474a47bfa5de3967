package repository

import (
	"context"

	"gorm.io/gorm"

	"union-officer/backend/internal/model"
)

// GroupCount one row of a GROUP BY aggregate.
type GroupCount struct {
	Label string
	Count int64
}

// DashboardRepository aggregate queries over officers (role USER).
type DashboardRepository interface {
	CountProfiles(ctx context.Context) (int64, error)
	CountByActive(ctx context.Context, active bool) (int64, error)
	CountByDepartment(ctx context.Context) ([]GroupCount, error)
	CountByPosition(ctx context.Context) ([]GroupCount, error)
	// JoinTrend counts join dates per YYYY-MM, oldest month first.
	JoinTrend(ctx context.Context) ([]GroupCount, error)
}

type dashboardRepo struct {
	db *gorm.DB
}

// NewDashboardRepo creates a DashboardRepository.
func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db: db}
}

func (r *dashboardRepo) officerProfiles(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.OfficerProfile{}).
		Joins("JOIN users ON users.id = officer_profiles.user_id").
		Where("users.role = ?", model.RoleUser)
}

func (r *dashboardRepo) CountProfiles(ctx context.Context) (int64, error) {
	var n int64
	err := r.officerProfiles(ctx).Count(&n).Error
	return n, err
}

func (r *dashboardRepo) CountByActive(ctx context.Context, active bool) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ? AND is_active = ?", model.RoleUser, active).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepo) CountByDepartment(ctx context.Context) ([]GroupCount, error) {
	return r.groupBy(ctx, "officer_profiles.department", "officer_profiles.department")
}

func (r *dashboardRepo) CountByPosition(ctx context.Context) ([]GroupCount, error) {
	return r.groupBy(ctx, "officer_profiles.union_position", "officer_profiles.union_position")
}

func (r *dashboardRepo) JoinTrend(ctx context.Context) ([]GroupCount, error) {
	month := "TO_CHAR(officer_profiles.join_date, 'YYYY-MM')"
	return r.groupBy(ctx, month, "label ASC")
}

func (r *dashboardRepo) groupBy(ctx context.Context, expr, order string) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.officerProfiles(ctx).
		Select(expr + " AS label, COUNT(*) AS count").
		Group(expr).
		Order(order).
		Scan(&rows).Error
	return rows, err
}
