package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"union-officer/backend/config"
	"union-officer/backend/internal/repository"
	"union-officer/backend/pkg/jwt"
	"union-officer/backend/pkg/mailer"
	"union-officer/backend/pkg/redis"
	"union-officer/backend/pkg/storage"
)

// TokenBlacklist revokes access tokens by jti until they expire.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Cache JSON read-through cache.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Caller identity of the authenticated requester.
type Caller struct {
	UserID string
	Role   string
}

// Deps optional infrastructure. Nil members degrade gracefully:
// no Redis disables logout revocation and the dashboard cache.
type Deps struct {
	Redis  *redis.Client
	Store  storage.BlobStore
	Mailer mailer.Mailer
}

// Service aggregates every business service.
type Service struct {
	Auth      AuthService
	Profile   ProfileService
	Officer   OfficerService
	Dashboard DashboardService
	CV        CVService
}

// NewService wires the business services.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	deps Deps,
	logger *zap.Logger,
) *Service {
	var (
		blacklist TokenBlacklist
		cache     Cache
	)
	if deps.Redis != nil {
		blacklist = deps.Redis
		cache = deps.Redis
	}
	stats := newStatsInvalidator(cache, logger)

	return &Service{
		Auth:      NewAuthService(cfg, repo, jwtMgr, blacklist, deps.Mailer, logger),
		Profile:   NewProfileService(repo, stats, logger),
		Officer:   NewOfficerService(cfg, repo, deps.Store, deps.Mailer, stats, logger),
		Dashboard: NewDashboardService(cfg, repo, cache, logger),
		CV:        NewCVService(cfg, repo, deps.Store, logger),
	}
}
