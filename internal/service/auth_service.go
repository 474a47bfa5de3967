package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"union-officer/backend/config"
	"union-officer/backend/internal/dto"
	"union-officer/backend/internal/model"
	"union-officer/backend/internal/repository"
	pkgerrors "union-officer/backend/pkg/errors"
	"union-officer/backend/pkg/jwt"
	"union-officer/backend/pkg/mailer"
)

var (
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrEmailNotVerified         = errors.New("email has not been verified")
	ErrEmailExists              = errors.New("email already registered")
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	ErrVerificationTokenExpired = errors.New("verification token has expired")
	ErrInvalidResetToken        = errors.New("invalid reset token")
	ErrResetTokenExpired        = errors.New("reset token has expired")
	ErrWrongPassword            = errors.New("current password is incorrect")
	ErrUserNotFound             = errors.New("user not found")
)

// AuthService account lifecycle: registration, verification, login and passwords.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	mailer    mailer.Mailer
	logger    *zap.Logger
}

// NewAuthService creates an AuthService. blacklist and m may be nil.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	m mailer.Mailer,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		mailer:    m,
		logger:    logger,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to look up email", zap.Error(err))
		return nil, err
	}

	user, token, err := newAccount(email, req.Password, model.RoleUser, &s.cfg.Auth)
	if err != nil {
		s.logger.Error("failed to prepare account", zap.Error(err))
		return nil, err
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if _, ok := pkgerrors.IsUniqueViolation(err); ok {
			return nil, ErrEmailExists
		}
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	s.sendVerification(ctx, user.Email, token)

	return toUserResponse(user), nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsEmailVerified {
		return nil, ErrEmailNotVerified
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error("failed to sign access token", zap.Error(err))
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User: dto.UserBrief{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

// ────────────────────── Logout ──────────────────────

// Logout revokes the token's jti for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Error("failed to blacklist token", zap.String("jti", jti), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── VerifyEmail ──────────────────────

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.repo.User.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidVerificationToken
		}
		s.logger.Error("failed to look up verification token", zap.Error(err))
		return err
	}

	if user.EmailVerificationTokenExpiresAt == nil || time.Now().After(*user.EmailVerificationTokenExpiresAt) {
		return ErrVerificationTokenExpired
	}

	user.IsEmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationTokenExpiresAt = nil

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("failed to mark email verified", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ResendVerification ──────────────────────

// ResendVerification issues a fresh token. Unknown or already verified
// addresses succeed silently.
func (s *authService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repo.User.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("failed to look up user", zap.Error(err))
		return err
	}
	if user.IsEmailVerified {
		return nil
	}

	token, err := newSecureToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(s.cfg.Auth.VerificationTokenTTL)
	user.EmailVerificationToken = &token
	user.EmailVerificationTokenExpiresAt = &expires

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("failed to store verification token", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}

	s.sendVerification(ctx, user.Email, token)
	return nil
}

// ────────────────────── ForgotPassword ──────────────────────

// ForgotPassword always succeeds for unknown addresses.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.User.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("failed to look up user", zap.Error(err))
		return err
	}

	token, err := newSecureToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(s.cfg.Auth.ResetTokenTTL)
	user.PasswordResetToken = &token
	user.PasswordResetTokenExpiresAt = &expires

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("failed to store reset token", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
			s.logger.Warn("failed to send password reset email", zap.String("email", user.Email), zap.Error(err))
		}
	}
	return nil
}

// ────────────────────── ResetPassword ──────────────────────

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	user, err := s.repo.User.GetByResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		s.logger.Error("failed to look up reset token", zap.Error(err))
		return err
	}

	if user.PasswordResetTokenExpiresAt == nil || time.Now().After(*user.PasswordResetTokenExpiresAt) {
		return ErrResetTokenExpired
	}

	hash, err := hashPassword(req.NewPassword, s.cfg.Auth.BcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return err
	}

	user.PasswordHash = hash
	user.PasswordResetToken = nil
	user.PasswordResetTokenExpiresAt = nil

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("failed to reset password", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── GetCurrentUser ──────────────────────

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByIDWithProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("failed to load user", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("failed to load user", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := hashPassword(req.NewPassword, s.cfg.Auth.BcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return err
	}
	user.PasswordHash = hash

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("failed to change password", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *authService) sendVerification(ctx context.Context, email, token string) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.SendEmailVerification(ctx, email, token); err != nil {
		s.logger.Warn("failed to send verification email", zap.String("email", email), zap.Error(err))
	}
}

// newAccount builds an unverified user with a pending verification token.
func newAccount(email, password, role string, cfg *config.AuthConfig) (*model.User, string, error) {
	hash, err := hashPassword(password, cfg.BcryptCost)
	if err != nil {
		return nil, "", err
	}
	token, err := newSecureToken()
	if err != nil {
		return nil, "", err
	}
	expires := time.Now().Add(cfg.VerificationTokenTTL)
	return &model.User{
		Email:                           email,
		PasswordHash:                    hash,
		Role:                            role,
		IsActive:                        true,
		EmailVerificationToken:          &token,
		EmailVerificationTokenExpiresAt: &expires,
	}, token, nil
}

func hashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// newSecureToken returns 32 random bytes, hex encoded.
func newSecureToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		Role:            user.Role,
		IsActive:        user.IsActive,
		IsEmailVerified: user.IsEmailVerified,
		HasProfile:      user.Profile != nil,
		CreatedAt:       user.CreatedAt,
	}
}
