package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every data-access interface.
type Repository struct {
	db *gorm.DB

	User      UserRepository
	Profile   ProfileRepository
	History   HistoryRepository
	CV        CVRepository
	Dashboard DashboardRepository
}

// NewRepository builds the aggregate on top of db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:        db,
		User:      NewUserRepo(db),
		Profile:   NewProfileRepo(db),
		History:   NewHistoryRepo(db),
		CV:        NewCVRepo(db),
		Dashboard: NewDashboardRepo(db),
	}
}

// Transaction runs fn with a Repository bound to a single database
// transaction. fn's error rolls everything back.
// An aggregate assembled without a database (unit tests) runs fn directly.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
