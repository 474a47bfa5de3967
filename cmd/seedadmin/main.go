// Command seedadmin creates the bootstrap administrator, or promotes the
// account if it already exists.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"union-officer/backend/config"
	"union-officer/backend/internal/model"
	"union-officer/backend/internal/repository"
	"union-officer/backend/internal/service"
	"union-officer/backend/pkg/database"
	applogger "union-officer/backend/pkg/logger"
)

type options struct {
	configPath    string
	email         string
	password      string
	withUnitAdmin bool
}

func main() {
	var opts options

	cmd := &cobra.Command{
		Use:   "seedadmin",
		Short: "Create or promote the bootstrap admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to config file")
	cmd.Flags().StringVar(&opts.email, "email", "", "admin email (default: seed.admin_email)")
	cmd.Flags().StringVar(&opts.password, "password", "", "admin password (default: seed.admin_password)")
	cmd.Flags().BoolVar(&opts.withUnitAdmin, "unit-admin", false, "also create the sample unit admin with a profile")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	_ = godotenv.Load()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	repo := repository.NewRepository(db)

	seeds := []service.AccountSeed{{
		Email:    firstNonEmpty(opts.email, cfg.Seed.AdminEmail),
		Password: firstNonEmpty(opts.password, cfg.Seed.AdminPassword),
		Role:     model.RoleAdmin,
	}}
	if opts.withUnitAdmin {
		seeds = append(seeds, service.AccountSeed{
			Email:    "unitadmin@system.com",
			Password: "UnitAdmin@123",
			Role:     model.RoleUnitAdmin,
			Profile: &model.OfficerProfile{
				EmployeeID:    "UA-0001",
				FullName:      "Trưởng ban Tổ chức",
				UnionPosition: model.PositionVicePresident,
				Department:    model.DepartmentOrganization,
			},
		})
	}

	for _, seed := range seeds {
		created, err := service.EnsureAccount(ctx, repo, &cfg.Auth, seed)
		if err != nil {
			logger.Error("seed account failed", zap.String("email", seed.Email), zap.Error(err))
			return err
		}
		if created {
			logger.Info("account created", zap.String("email", seed.Email), zap.String("role", seed.Role))
		} else {
			logger.Info("account already exists, role ensured", zap.String("email", seed.Email), zap.String("role", seed.Role))
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
