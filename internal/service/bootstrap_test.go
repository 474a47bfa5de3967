package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"union-officer/backend/internal/model"
)

func TestEnsureAccount_CreatesVerifiedAdmin(t *testing.T) {
	env := newTestEnv()

	created, err := EnsureAccount(context.Background(), env.repo, &env.cfg.Auth, AccountSeed{
		Email:    " Admin@System.com ",
		Password: "Admin@123",
		Role:     model.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected account to be created")
	}

	user, err := env.users.GetByEmail(context.Background(), "admin@system.com")
	if err != nil {
		t.Fatalf("admin not stored: %v", err)
	}
	if user.Role != model.RoleAdmin || !user.IsEmailVerified || !user.IsActive {
		t.Errorf("unexpected admin state: %+v", user)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Admin@123")) != nil {
		t.Error("password not hashed with bcrypt")
	}
}

func TestEnsureAccount_PromotesExisting(t *testing.T) {
	env := newTestEnv()
	existing := env.addUser("user-1", "admin@system.com", model.RoleUser, true)
	oldHash := existing.PasswordHash

	created, err := EnsureAccount(context.Background(), env.repo, &env.cfg.Auth, AccountSeed{
		Email:    "admin@system.com",
		Password: "another-password",
		Role:     model.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("existing account should not be recreated")
	}

	user, _ := env.users.GetByID(context.Background(), "user-1")
	if user.Role != model.RoleAdmin {
		t.Errorf("expected role ADMIN, got %s", user.Role)
	}
	if user.PasswordHash != oldHash {
		t.Error("password of an existing account must be kept")
	}
}

func TestEnsureAccount_AttachesProfileOnce(t *testing.T) {
	env := newTestEnv()
	seed := AccountSeed{
		Email:    "unit@system.com",
		Password: "Unit@123",
		Role:     model.RoleUnitAdmin,
		Profile: &model.OfficerProfile{
			EmployeeID:    "UA001",
			FullName:      "Trần Thị Bình",
			UnionPosition: model.PositionVicePresident,
			Department:    model.DepartmentOrganization,
		},
	}

	for i := 0; i < 2; i++ {
		if _, err := EnsureAccount(context.Background(), env.repo, &env.cfg.Auth, seed); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
	}

	user, _ := env.users.GetByEmail(context.Background(), "unit@system.com")
	profile, err := env.profiles.GetByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("profile not created: %v", err)
	}
	if profile.Department != model.DepartmentOrganization || profile.WorkStatus != model.WorkStatusActive {
		t.Errorf("unexpected profile: %+v", profile)
	}
	if len(env.profiles.byUser) != 1 {
		t.Errorf("expected exactly one profile, got %d", len(env.profiles.byUser))
	}
}

func TestEnsureAccount_RequiresCredentials(t *testing.T) {
	env := newTestEnv()
	if _, err := EnsureAccount(context.Background(), env.repo, &env.cfg.Auth, AccountSeed{Role: model.RoleAdmin}); err == nil {
		t.Error("expected error for empty credentials")
	}
}
