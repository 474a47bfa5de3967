package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"union-officer/backend/config"
	"union-officer/backend/internal/api/handler"
	"union-officer/backend/internal/service"
	"union-officer/backend/pkg/jwt"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			MaxBodyBytes: 1 << 20,
			CORS:         config.CORSConfig{AllowOrigins: []string{"http://localhost:5173"}},
		},
		Auth: config.AuthConfig{
			JWTSecret:      "router-test-secret-long-enough-32b",
			Issuer:         "union-officer",
			AccessTokenTTL: time.Hour,
		},
		Storage: config.StorageConfig{MaxUploadBytes: 1 << 20},
	}
}

func TestSetup_AccessControl(t *testing.T) {
	cfg := testConfig()
	mgr := jwt.NewManager(&cfg.Auth)
	// Services are never reached: every case stops in middleware.
	h := handler.NewHandler(&service.Service{}, cfg.Storage.MaxUploadBytes)
	engine := Setup(cfg, h, mgr, nil, fakePinger{}, zap.NewNop())

	userToken, _ := mgr.GenerateAccessToken("u1", "user@union.vn", "USER")
	unitToken, _ := mgr.GenerateAccessToken("u2", "unit@union.vn", "UNIT_ADMIN")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"MeWithoutToken", "GET", "/auth/me", "", http.StatusUnauthorized},
		{"ProfileWithoutToken", "GET", "/api/v1/profile/me", "", http.StatusUnauthorized},
		{"CVWithoutToken", "GET", "/me/cv", "", http.StatusUnauthorized},
		{"AdminWithoutToken", "GET", "/admin/officers", "", http.StatusUnauthorized},
		{"AdminAsUser", "GET", "/admin/officers", userToken, http.StatusForbidden},
		{"DashboardAsUser", "GET", "/admin/dashboard/stats", userToken, http.StatusForbidden},
		{"CreateAsUnitAdmin", "POST", "/admin/officers", unitToken, http.StatusForbidden},
		{"DeleteAsUnitAdmin", "DELETE", "/admin/officers/u9", unitToken, http.StatusForbidden},
		{"SeedAsUnitAdmin", "POST", "/admin/officers/seed", unitToken, http.StatusForbidden},
		{"ImportAsUnitAdmin", "POST", "/admin/officers/import", unitToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			engine.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestSetup_Health(t *testing.T) {
	cfg := testConfig()
	h := handler.NewHandler(&service.Service{}, 0)

	w := httptest.NewRecorder()
	Setup(cfg, h, jwt.NewManager(&cfg.Auth), nil, fakePinger{}, zap.NewNop()).
		ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"redis":"disabled"`) {
		t.Errorf("healthy: got %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	Setup(cfg, h, jwt.NewManager(&cfg.Auth), nil, fakePinger{err: errors.New("down")}, zap.NewNop()).
		ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("db down: expected 503, got %d", w.Code)
	}
}
