// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "file:test.db")
	os.Setenv("ADMIN_KEY_SALT", "test-salt")
	os.Setenv("WARNING_THRESHOLD_MINUTES", "30")
	os.Setenv("SHOW_USER_VOTING_STATS", "true")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default database type sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.WarningWindow != 30*time.Minute {
		t.Errorf("expected warning window 30m, got %s", cfg.WarningWindow)
	}
	if !cfg.ShowUserVotingStats {
		t.Error("expected user voting stats to be enabled")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "file:test.db")
	os.Setenv("ADMIN_KEY_SALT", "test-salt")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.SweepInterval != 5*time.Minute {
		t.Errorf("expected sweep interval 5m, got %s", cfg.SweepInterval)
	}
	if cfg.DefaultTTL != 24*time.Hour {
		t.Errorf("expected default ttl 24h, got %s", cfg.DefaultTTL)
	}
	if cfg.SessionIdleTimeout != 24*time.Hour {
		t.Errorf("expected session idle timeout 24h, got %s", cfg.SessionIdleTimeout)
	}
	if cfg.WarningWindow != time.Hour {
		t.Errorf("expected warning window 1h, got %s", cfg.WarningWindow)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("SWEEP_INTERVAL", "10m")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1", "-sweep", "30s"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.SweepInterval != 30*time.Second {
		t.Errorf("CLI should override env: expected 30s, got %s", cfg.SweepInterval)
	}
}

func TestParseFlags_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"no database url", map[string]string{"ADMIN_KEY_SALT": "s"}},
		{"no admin salt", map[string]string{"DATABASE_URL": "file:test.db"}},
		{"bad database type", map[string]string{"DATABASE_URL": "file:test.db", "ADMIN_KEY_SALT": "s", "DATABASE_TYPE": "mysql"}},
		{"bad port", map[string]string{"DATABASE_URL": "file:test.db", "ADMIN_KEY_SALT": "s", "PORT": "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				os.Setenv(k, v)
			}
			defer os.Clearenv()

			if _, err := ParseFlags([]string{}); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseFlags_OperatorKeyWithoutDatabase(t *testing.T) {
	os.Clearenv()
	os.Setenv("ADMIN_KEY_SALT", "test-salt")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-operator-key"})
	if err != nil {
		t.Fatalf("expected no database requirement with -operator-key, got %v", err)
	}
	if !cfg.PrintOperatorKey {
		t.Error("expected PrintOperatorKey to be set")
	}
	if cfg.AdminKeySalt != "test-salt" {
		t.Errorf("expected salt test-salt, got %s", cfg.AdminKeySalt)
	}

	os.Unsetenv("ADMIN_KEY_SALT")
	if _, err := ParseFlags([]string{"-operator-key"}); err == nil {
		t.Error("expected an error without ADMIN_KEY_SALT")
	}
}
