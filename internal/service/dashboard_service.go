package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"union-officer/backend/config"
	"union-officer/backend/internal/dto"
	"union-officer/backend/internal/model"
	"union-officer/backend/internal/repository"
)

const dashboardCacheKey = "dashboard:stats"

// DashboardService aggregate statistics for the admin dashboard.
type DashboardService interface {
	GetStats(ctx context.Context) (*dto.DashboardStats, error)
}

type dashboardService struct {
	repo   *repository.Repository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewDashboardService creates a DashboardService. cache may be nil.
func NewDashboardService(cfg *config.Config, repo *repository.Repository, cache Cache, logger *zap.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		cache:  cache,
		ttl:    cfg.Cache.DashboardTTL,
		logger: logger,
	}
}

// GetStats reads through the cache. Cache failures fall back to the database.
func (s *dashboardService) GetStats(ctx context.Context) (*dto.DashboardStats, error) {
	if s.cache != nil && s.ttl > 0 {
		var cached dto.DashboardStats
		hit, err := s.cache.GetJSON(ctx, dashboardCacheKey, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.SetJSON(ctx, dashboardCacheKey, stats, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *dashboardService) compute(ctx context.Context) (*dto.DashboardStats, error) {
	dash := s.repo.Dashboard

	total, err := dash.CountProfiles(ctx)
	if err != nil {
		s.logger.Error("failed to count profiles", zap.Error(err))
		return nil, err
	}
	active, err := dash.CountByActive(ctx, true)
	if err != nil {
		s.logger.Error("failed to count active officers", zap.Error(err))
		return nil, err
	}
	inactive, err := dash.CountByActive(ctx, false)
	if err != nil {
		s.logger.Error("failed to count inactive officers", zap.Error(err))
		return nil, err
	}
	byDept, err := dash.CountByDepartment(ctx)
	if err != nil {
		s.logger.Error("failed to group by department", zap.Error(err))
		return nil, err
	}
	byPos, err := dash.CountByPosition(ctx)
	if err != nil {
		s.logger.Error("failed to group by position", zap.Error(err))
		return nil, err
	}
	trend, err := dash.JoinTrend(ctx)
	if err != nil {
		s.logger.Error("failed to compute join trend", zap.Error(err))
		return nil, err
	}

	joinTrend := make([]dto.LabelCount, 0, len(trend))
	for _, r := range trend {
		joinTrend = append(joinTrend, dto.LabelCount{Label: r.Label, Count: r.Count})
	}

	return &dto.DashboardStats{
		OfficerStats: dto.OfficerStats{
			Total:        total,
			ByStatus:     dto.StatusCount{Active: active, Inactive: inactive},
			ByDepartment: toTypeCounts(byDept),
			ByPosition:   toTypeCounts(byPos),
		},
		TimeStats: dto.TimeStats{JoinTrend: joinTrend},
		FundStats: fundStats(),
	}, nil
}

func toTypeCounts(rows []repository.GroupCount) []dto.TypeCount {
	out := make([]dto.TypeCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TypeCount{Type: r.Label, Count: r.Count})
	}
	return out
}

// fundStats union fund figures. There is no fund ledger yet; the numbers
// are the fixed budget published for the current term.
func fundStats() dto.FundStats {
	return dto.FundStats{
		TotalAmount: 1_500_000_000,
		Currency:    "VND",
		ByDepartment: []dto.TypeAmount{
			{Type: model.DepartmentOffice, Amount: 300_000_000},
			{Type: model.DepartmentOrganization, Amount: 450_000_000},
			{Type: model.DepartmentPropagandaEducation, Amount: 250_000_000},
			{Type: model.DepartmentPoliciesLaws, Amount: 200_000_000},
			{Type: model.DepartmentWomenAffairs, Amount: 300_000_000},
		},
		YearlyTrend: []dto.YearAmount{
			{Year: 2022, Amount: 1_200_000_000},
			{Year: 2023, Amount: 1_350_000_000},
			{Year: 2024, Amount: 1_500_000_000},
		},
	}
}

// ── cache invalidation ──

// statsInvalidator drops the cached dashboard after officer mutations.
type statsInvalidator struct {
	cache  Cache
	logger *zap.Logger
}

func newStatsInvalidator(cache Cache, logger *zap.Logger) *statsInvalidator {
	return &statsInvalidator{cache: cache, logger: logger}
}

// Invalidate is safe on a nil receiver or without a cache.
func (i *statsInvalidator) Invalidate(ctx context.Context) {
	if i == nil || i.cache == nil {
		return
	}
	if err := i.cache.Del(ctx, dashboardCacheKey); err != nil {
		i.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
