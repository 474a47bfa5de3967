package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("UNION_AUTH_JWT_SECRET", "test-secret-key-for-unit-testing")
	t.Setenv("UNION_SERVER_PORT", "8088")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8088 {
		t.Errorf("expected port 8088 from env, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug from file, got %s", cfg.Log.Level)
	}
	if cfg.Auth.VerificationTokenTTL != 24*time.Hour {
		t.Errorf("expected verification ttl 24h, got %v", cfg.Auth.VerificationTokenTTL)
	}
	if cfg.Auth.ResetTokenTTL != time.Hour {
		t.Errorf("expected reset ttl 1h, got %v", cfg.Auth.ResetTokenTTL)
	}
	if cfg.Storage.MaxUploadBytes != 10<<20 {
		t.Errorf("expected 10MB upload limit, got %d", cfg.Storage.MaxUploadBytes)
	}
	if cfg.Storage.Driver != "local" {
		t.Errorf("expected local storage driver, got %s", cfg.Storage.Driver)
	}
}

func TestLoad_SecretsFromEnvOnly(t *testing.T) {
	t.Setenv("UNION_AUTH_JWT_SECRET", "a-very-long-secret-value-123")
	t.Setenv("UNION_MAIL_SMTP_HOST", "smtp.union.vn")
	t.Setenv("UNION_MAIL_USERNAME", "mailer")
	t.Setenv("UNION_MAIL_PASSWORD", "mail-pass")
	t.Setenv("UNION_STORAGE_DRIVER", "s3")
	t.Setenv("UNION_STORAGE_S3_BUCKET", "union-cv")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Auth.JWTSecret != "a-very-long-secret-value-123" {
		t.Errorf("jwt secret not read from env, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Mail.SMTPHost != "smtp.union.vn" || cfg.Mail.Username != "mailer" || cfg.Mail.Password != "mail-pass" {
		t.Errorf("mail settings not read from env: %+v", cfg.Mail)
	}
	if cfg.Storage.S3.Bucket != "union-cv" {
		t.Errorf("s3 bucket not read from env, got %q", cfg.Storage.S3.Bucket)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 3000},
			Auth:    AuthConfig{JWTSecret: "0123456789abcdef"},
			Storage: StorageConfig{Driver: "local", MaxUploadBytes: 1},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := map[string]func(c *Config){
		"empty secret":   func(c *Config) { c.Auth.JWTSecret = "" },
		"short secret":   func(c *Config) { c.Auth.JWTSecret = "short" },
		"bad port":       func(c *Config) { c.Server.Port = 70000 },
		"unknown driver": func(c *Config) { c.Storage.Driver = "ftp" },
		"s3 no bucket":   func(c *Config) { c.Storage.Driver = "s3" },
		"gcs no bucket":  func(c *Config) { c.Storage.Driver = "gcs" },
		"zero upload":    func(c *Config) { c.Storage.MaxUploadBytes = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
