//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"union-officer/backend/internal/model"
	"union-officer/backend/internal/repository"
	"union-officer/backend/pkg/database"
	pkgerrors "union-officer/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=union_officer password=union_officer_password dbname=union_officer_test sslmode=disable TimeZone=Asia/Ho_Chi_Minh"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot connect to test database: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "get sql.DB: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "migrations failed: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// createOfficer inserts a user with profile and registers cleanup.
func createOfficer(t *testing.T, department string, tags ...string) (*model.User, *model.OfficerProfile) {
	t.Helper()
	ctx := context.Background()
	n := time.Now().UnixNano()

	user := &model.User{
		Email:           fmt.Sprintf("officer%d@union.vn", n),
		PasswordHash:    "$2a$10$placeholder",
		Role:            model.RoleUser,
		IsActive:        true,
		IsEmailVerified: true,
	}
	if err := testDB.WithContext(ctx).Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	if tags == nil {
		tags = []string{}
	}
	profile := &model.OfficerProfile{
		UserID:        user.ID,
		EmployeeID:    fmt.Sprintf("NV%d", n),
		FullName:      fmt.Sprintf("Cán bộ %d", n),
		Gender:        model.GenderFemale,
		UnionPosition: model.PositionBoardMember,
		Department:    department,
		JoinDate:      time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC),
		WorkStatus:    model.WorkStatusActive,
		Tags:          pq.StringArray(tags),
	}
	if err := testDB.WithContext(ctx).Create(profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}

	t.Cleanup(func() {
		testDB.Where("id = ?", user.ID).Delete(&model.User{})
	})
	return user, profile
}

// ═══════════════════════════════════════════════════════════
// UserRepository
// ═══════════════════════════════════════════════════════════

func TestIntegration_ListOfficers_TagAndDepartment(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	tag := fmt.Sprintf("tag-%d", time.Now().UnixNano())

	u1, _ := createOfficer(t, model.DepartmentOffice, tag)
	createOfficer(t, model.DepartmentOffice)
	createOfficer(t, model.DepartmentWomenAffairs, tag)

	users, total, err := repo.User.ListOfficers(ctx, repository.OfficerFilter{
		Department: model.DepartmentOffice,
		Tag:        tag,
	}, 0, 10)
	if err != nil {
		t.Fatalf("ListOfficers: %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].ID != u1.ID {
		t.Fatalf("expected only %s, got total=%d users=%v", u1.ID, total, users)
	}
	if users[0].Profile == nil || users[0].Profile.Tags[0] != tag {
		t.Error("profile should be preloaded with tags")
	}
}

func TestIntegration_ListOfficers_Search(t *testing.T) {
	repo := repository.NewRepository(testDB)
	_, p := createOfficer(t, model.DepartmentOrganization)

	users, total, err := repo.User.ListOfficers(context.Background(), repository.OfficerFilter{Search: p.EmployeeID}, 0, 10)
	if err != nil {
		t.Fatalf("ListOfficers: %v", err)
	}
	if total != 1 || users[0].Profile.EmployeeID != p.EmployeeID {
		t.Errorf("search by employee ID should match exactly one officer, got %d", total)
	}
}

func TestIntegration_DeleteCascades(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	u, _ := createOfficer(t, model.DepartmentOffice)

	if err := repo.History.Create(ctx, &model.OfficerHistory{
		OfficerID: u.ID, ChangeType: model.ChangeTypeStatus, NewValue: model.StatusLabelInactive, ChangeDate: time.Now(),
	}); err != nil {
		t.Fatalf("create history: %v", err)
	}

	if err := repo.User.Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Profile.GetByUserID(ctx, u.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("profile should cascade, got %v", err)
	}
	if n, _ := repo.History.CountByOfficer(ctx, u.ID); n != 0 {
		t.Errorf("history should cascade, got %d rows", n)
	}
}

// ═══════════════════════════════════════════════════════════
// ProfileRepository
// ═══════════════════════════════════════════════════════════

func TestIntegration_Profile_DuplicateEmployeeID(t *testing.T) {
	repo := repository.NewRepository(testDB)
	_, existing := createOfficer(t, model.DepartmentOffice)
	other, _ := createOfficer(t, model.DepartmentOffice)
	testDB.Where("user_id = ?", other.ID).Delete(&model.OfficerProfile{})

	err := repo.Profile.Create(context.Background(), &model.OfficerProfile{
		UserID:        other.ID,
		EmployeeID:    existing.EmployeeID,
		FullName:      "Trùng mã",
		Gender:        model.GenderMale,
		UnionPosition: model.PositionBoardMember,
		Department:    model.DepartmentOffice,
		JoinDate:      time.Now(),
		WorkStatus:    model.WorkStatusActive,
		Tags:          pq.StringArray{},
	})
	constraint, ok := pkgerrors.IsUniqueViolation(err)
	if !ok || constraint != "uq_officer_profiles_employee_id" {
		t.Errorf("expected employee ID unique violation, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// CVRepository
// ═══════════════════════════════════════════════════════════

func TestIntegration_CV_SingleLatest(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	u, _ := createOfficer(t, model.DepartmentOffice)

	newCV := func(version int) *model.CV {
		return &model.CV{
			UserID: u.ID, FileName: "cv.pdf", StorageKey: fmt.Sprintf("%s/v%d.pdf", u.ID, version),
			FileType: "application/pdf", FileSize: 10, Version: version, IsLatest: true, UploadedAt: time.Now(),
		}
	}

	if err := repo.CV.Create(ctx, newCV(1)); err != nil {
		t.Fatalf("create v1: %v", err)
	}
	if err := repo.CV.Create(ctx, newCV(2)); err == nil {
		t.Fatal("a second latest CV should violate uq_cvs_user_latest")
	}

	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.User.LockByID(ctx, u.ID); err != nil {
			return err
		}
		if err := tx.CV.ClearLatest(ctx, u.ID); err != nil {
			return err
		}
		return tx.CV.Create(ctx, newCV(2))
	})
	if err != nil {
		t.Fatalf("versioned upload transaction: %v", err)
	}

	maxVersion, _ := repo.CV.MaxVersion(ctx, u.ID)
	if maxVersion != 2 {
		t.Errorf("expected max version 2, got %d", maxVersion)
	}
	list, _ := repo.CV.ListByUser(ctx, u.ID)
	if len(list) != 2 || !list[0].IsLatest || list[1].IsLatest {
		t.Errorf("only v2 should be latest, got %+v", list)
	}
	keys, _ := repo.CV.ListStorageKeys(ctx, u.ID)
	if len(keys) != 2 {
		t.Errorf("expected 2 storage keys, got %v", keys)
	}
}

// ═══════════════════════════════════════════════════════════
// DashboardRepository
// ═══════════════════════════════════════════════════════════

func TestIntegration_Dashboard_Groups(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	createOfficer(t, model.DepartmentPoliciesLaws)

	total, err := repo.Dashboard.CountProfiles(ctx)
	if err != nil || total < 1 {
		t.Fatalf("CountProfiles: %d, %v", total, err)
	}

	byDept, err := repo.Dashboard.CountByDepartment(ctx)
	if err != nil {
		t.Fatalf("CountByDepartment: %v", err)
	}
	found := false
	for _, g := range byDept {
		if g.Label == model.DepartmentPoliciesLaws && g.Count >= 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("department group missing: %+v", byDept)
	}

	trend, err := repo.Dashboard.JoinTrend(ctx)
	if err != nil {
		t.Fatalf("JoinTrend: %v", err)
	}
	for _, g := range trend {
		if len(g.Label) != 7 {
			t.Errorf("trend label should be YYYY-MM, got %q", g.Label)
		}
	}
}

func TestIntegration_Transaction_Rollback(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	email := fmt.Sprintf("rollback%d@union.vn", time.Now().UnixNano())

	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, &model.User{Email: email, PasswordHash: "x", Role: model.RoleUser, IsActive: true}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("transaction should return the callback error")
	}
	if _, err := repo.User.GetByEmail(ctx, email); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("user should be rolled back, got %v", err)
	}
}
