package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"union-officer/backend/config"
	"union-officer/backend/internal/model"
	"union-officer/backend/internal/repository"
	"union-officer/backend/pkg/storage"
)

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users    map[string]*model.User
	profiles *mockProfileRepo
	seq      int
}

func newMockUserRepo(profiles *mockProfileRepo) *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User), profiles: profiles}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return uniqueViolation("uq_users_email")
		}
	}
	if user.ID == "" {
		for {
			m.seq++
			user.ID = fmt.Sprintf("user-%d", m.seq)
			if _, taken := m.users[user.ID]; !taken {
				break
			}
		}
	} else if _, taken := m.users[user.ID]; taken {
		return uniqueViolation("users_pkey")
	}
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByIDWithProfile(ctx context.Context, id string) (*model.User, error) {
	u, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Profile = m.profiles.byUser[id]
	return u, nil
}

func (m *mockUserRepo) find(match func(*model.User) bool) (*model.User, error) {
	for _, u := range m.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.Email == email })
}

func (m *mockUserRepo) GetByVerificationToken(_ context.Context, token string) (*model.User, error) {
	return m.find(func(u *model.User) bool {
		return u.EmailVerificationToken != nil && *u.EmailVerificationToken == token
	})
}

func (m *mockUserRepo) GetByResetToken(_ context.Context, token string) (*model.User, error) {
	return m.find(func(u *model.User) bool {
		return u.PasswordResetToken != nil && *u.PasswordResetToken == token
	})
}

func (m *mockUserRepo) LockByID(ctx context.Context, id string) (*model.User, error) {
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	delete(m.profiles.byUser, id)
	return nil
}

func (m *mockUserRepo) ListOfficers(_ context.Context, f repository.OfficerFilter, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role != model.RoleUser {
			continue
		}
		p := m.profiles.byUser[u.ID]
		if f.Department != "" && (p == nil || p.Department != f.Department) {
			continue
		}
		if f.UnionPosition != "" && (p == nil || p.UnionPosition != f.UnionPosition) {
			continue
		}
		if f.Tag != "" && (p == nil || !slices.Contains(p.Tags, f.Tag)) {
			continue
		}
		if f.IsActive != nil && u.IsActive != *f.IsActive {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			hit := strings.Contains(strings.ToLower(u.Email), q)
			if p != nil {
				hit = hit || strings.Contains(strings.ToLower(p.FullName), q) ||
					strings.Contains(strings.ToLower(p.EmployeeID), q)
			}
			if !hit {
				continue
			}
		}
		cp := *u
		cp.Profile = p
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	total := int64(len(result))
	if limit > 0 {
		if offset >= len(result) {
			return []model.User{}, total, nil
		}
		end := min(offset+limit, len(result))
		result = result[offset:end]
	}
	return result, total, nil
}

func (m *mockUserRepo) ListWithProfileByRole(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role != role {
			continue
		}
		cp := *u
		cp.Profile = m.profiles.byUser[u.ID]
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	byUser map[string]*model.OfficerProfile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{byUser: make(map[string]*model.OfficerProfile)}
}

func (m *mockProfileRepo) Create(_ context.Context, p *model.OfficerProfile) error {
	if _, ok := m.byUser[p.UserID]; ok {
		return uniqueViolation("uq_officer_profiles_user_id")
	}
	for _, existing := range m.byUser {
		if existing.EmployeeID == p.EmployeeID {
			return uniqueViolation("uq_officer_profiles_employee_id")
		}
	}
	if p.ID == "" {
		p.ID = "profile-" + p.UserID
	}
	m.byUser[p.UserID] = p
	return nil
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID string) (*model.OfficerProfile, error) {
	if p, ok := m.byUser[userID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) GetByEmployeeID(_ context.Context, employeeID string) (*model.OfficerProfile, error) {
	for _, p := range m.byUser {
		if p.EmployeeID == employeeID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) GetByNationalID(_ context.Context, nationalID string) (*model.OfficerProfile, error) {
	for _, p := range m.byUser {
		if p.NationalID != nil && *p.NationalID == nationalID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) Update(_ context.Context, p *model.OfficerProfile) error {
	m.byUser[p.UserID] = p
	return nil
}

// ── Mock HistoryRepository ──

type mockHistoryRepo struct {
	entries []*model.OfficerHistory
}

func (m *mockHistoryRepo) Create(_ context.Context, entry *model.OfficerHistory) error {
	entry.ID = fmt.Sprintf("history-%d", len(m.entries)+1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockHistoryRepo) ListByOfficer(_ context.Context, officerID string) ([]model.OfficerHistory, error) {
	var result []model.OfficerHistory
	for _, e := range m.entries {
		if e.OfficerID == officerID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ChangeDate.After(result[j].ChangeDate) })
	return result, nil
}

func (m *mockHistoryRepo) CountByOfficer(ctx context.Context, officerID string) (int64, error) {
	list, _ := m.ListByOfficer(ctx, officerID)
	return int64(len(list)), nil
}

// ── Mock CVRepository ──

type mockCVRepo struct {
	cvs       []*model.CV
	createErr error
}

func (m *mockCVRepo) Create(_ context.Context, cv *model.CV) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.cvs {
		if existing.UserID == cv.UserID && existing.IsLatest && cv.IsLatest {
			return uniqueViolation("uq_cvs_user_latest")
		}
	}
	cv.ID = fmt.Sprintf("cv-%d", len(m.cvs)+1)
	m.cvs = append(m.cvs, cv)
	return nil
}

func (m *mockCVRepo) GetByID(_ context.Context, id string) (*model.CV, error) {
	for _, cv := range m.cvs {
		if cv.ID == id {
			return cv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCVRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*model.CV, error) {
	cv, err := m.GetByID(ctx, id)
	if err != nil || cv.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return cv, nil
}

func (m *mockCVRepo) ListByUser(_ context.Context, userID string) ([]model.CV, error) {
	var result []model.CV
	for _, cv := range m.cvs {
		if cv.UserID == userID {
			result = append(result, *cv)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Version > result[j].Version })
	return result, nil
}

func (m *mockCVRepo) MaxVersion(_ context.Context, userID string) (int, error) {
	v := 0
	for _, cv := range m.cvs {
		if cv.UserID == userID && cv.Version > v {
			v = cv.Version
		}
	}
	return v, nil
}

func (m *mockCVRepo) ClearLatest(_ context.Context, userID string) error {
	for _, cv := range m.cvs {
		if cv.UserID == userID {
			cv.IsLatest = false
		}
	}
	return nil
}

func (m *mockCVRepo) ListStorageKeys(_ context.Context, userID string) ([]string, error) {
	var keys []string
	for _, cv := range m.cvs {
		if cv.UserID == userID {
			keys = append(keys, cv.StorageKey)
		}
	}
	return keys, nil
}

// ── Mock DashboardRepository ──

type mockDashboardRepo struct {
	calls int
}

func (m *mockDashboardRepo) CountProfiles(_ context.Context) (int64, error) {
	m.calls++
	return 12, nil
}

func (m *mockDashboardRepo) CountByActive(_ context.Context, active bool) (int64, error) {
	if active {
		return 10, nil
	}
	return 2, nil
}

func (m *mockDashboardRepo) CountByDepartment(_ context.Context) ([]repository.GroupCount, error) {
	return []repository.GroupCount{
		{Label: model.DepartmentOffice, Count: 7},
		{Label: model.DepartmentOrganization, Count: 5},
	}, nil
}

func (m *mockDashboardRepo) CountByPosition(_ context.Context) ([]repository.GroupCount, error) {
	return []repository.GroupCount{{Label: model.PositionBoardMember, Count: 12}}, nil
}

func (m *mockDashboardRepo) JoinTrend(_ context.Context) ([]repository.GroupCount, error) {
	return []repository.GroupCount{
		{Label: "2023-01", Count: 4},
		{Label: "2023-06", Count: 8},
	}, nil
}

// ── infrastructure fakes ──

type sentMail struct {
	kind  string
	to    string
	token string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendEmailVerification(_ context.Context, to, token string) error {
	f.sent = append(f.sent, sentMail{kind: "verify", to: to, token: token})
	return f.err
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, to, token string) error {
	f.sent = append(f.sent, sentMail{kind: "reset", to: to, token: token})
	return f.err
}

type fakeBlacklist struct {
	entries map[string]time.Duration
}

func (f *fakeBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if f.entries == nil {
		f.entries = make(map[string]time.Duration)
	}
	f.entries[jti] = ttl
	return nil
}

type fakeCache struct {
	data    map[string][]byte
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
		f.deleted = append(f.deleted, k)
	}
	return nil
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Put(_ context.Context, key, _ string, r io.Reader) (int64, error) {
	if m.putErr != nil {
		return 0, m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return int64(len(data)), nil
}

func (m *memStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// ── test environment ──

type testEnv struct {
	cfg      *config.Config
	repo     *repository.Repository
	users    *mockUserRepo
	profiles *mockProfileRepo
	history  *mockHistoryRepo
	cvs      *mockCVRepo
	dash     *mockDashboardRepo
	logger   *zap.Logger
}

func newTestEnv() *testEnv {
	profiles := newMockProfileRepo()
	env := &testEnv{
		cfg:      testConfig(),
		users:    newMockUserRepo(profiles),
		profiles: profiles,
		history:  &mockHistoryRepo{},
		cvs:      &mockCVRepo{},
		dash:     &mockDashboardRepo{},
		logger:   zap.NewNop(),
	}
	env.repo = &repository.Repository{
		User:      env.users,
		Profile:   env.profiles,
		History:   env.history,
		CV:        env.cvs,
		Dashboard: env.dash,
	}
	return env
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret-key-0123456789",
			Issuer:               "union-officer",
			AccessTokenTTL:       time.Hour,
			VerificationTokenTTL: 24 * time.Hour,
			ResetTokenTTL:        time.Hour,
			BcryptCost:           bcrypt.MinCost,
		},
		Storage: config.StorageConfig{MaxUploadBytes: 1 << 20},
		Cache:   config.CacheConfig{DashboardTTL: time.Minute},
	}
}

// addUser stores a verified account with password "password123".
func (e *testEnv) addUser(id, email, role string, active bool) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	u := &model.User{
		ID:              id,
		Email:           email,
		PasswordHash:    string(hash),
		Role:            role,
		IsActive:        active,
		IsEmailVerified: true,
	}
	e.users.users[id] = u
	return u
}

func (e *testEnv) addOfficer(id, email, employeeID, department string) (*model.User, *model.OfficerProfile) {
	u := e.addUser(id, email, model.RoleUser, true)
	p := newProfile(id, employeeID, "Cán bộ "+employeeID, department, model.PositionBoardMember)
	p.ID = "profile-" + id
	e.profiles.byUser[id] = p
	return u, p
}
