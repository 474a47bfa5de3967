package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"union-officer/backend/config"
	"union-officer/backend/internal/model"
	"union-officer/backend/internal/repository"
)

// AccountSeed describes an account created by cmd/seedadmin.
type AccountSeed struct {
	Email    string
	Password string
	Role     string
	// Profile is attached when the account has none yet; UserID is filled in.
	Profile *model.OfficerProfile
}

// EnsureAccount creates a verified account with the given role, or promotes
// an existing one. The password of an existing account is left unchanged.
func EnsureAccount(ctx context.Context, repo *repository.Repository, cfg *config.AuthConfig, seed AccountSeed) (created bool, err error) {
	email := normalizeEmail(seed.Email)
	if email == "" || seed.Password == "" {
		return false, errors.New("email and password are required")
	}

	err = repo.Transaction(ctx, func(tx *repository.Repository) error {
		user, err := tx.User.GetByEmail(ctx, email)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			hash, err := hashPassword(seed.Password, cfg.BcryptCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			user = &model.User{
				Email:           email,
				PasswordHash:    hash,
				Role:            seed.Role,
				IsActive:        true,
				IsEmailVerified: true,
			}
			if err := tx.User.Create(ctx, user); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			created = true
		case err != nil:
			return err
		default:
			if user.Role != seed.Role || !user.IsEmailVerified || !user.IsActive {
				user.Role = seed.Role
				user.IsEmailVerified = true
				user.IsActive = true
				if err := tx.User.Update(ctx, user); err != nil {
					return fmt.Errorf("update user: %w", err)
				}
			}
		}

		if seed.Profile == nil {
			return nil
		}
		if _, err := tx.Profile.GetByUserID(ctx, user.ID); err == nil {
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		profile := *seed.Profile
		profile.UserID = user.ID
		if profile.JoinDate.IsZero() {
			profile.JoinDate = time.Now()
		}
		if profile.Gender == "" {
			profile.Gender = model.GenderMale
		}
		if profile.WorkStatus == "" {
			profile.WorkStatus = model.WorkStatusActive
		}
		if err := tx.Profile.Create(ctx, &profile); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		return nil
	})
	return created, err
}
