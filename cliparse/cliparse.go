// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKeySalt string

	SweepInterval       time.Duration
	WarningWindow       time.Duration
	DefaultTTL          time.Duration
	SessionIdleTimeout  time.Duration
	ShowUserVotingStats bool
	ParticipantRoleID   string
	GuildID             string

	// PrintOperatorKey prints the operator key and exits without serving.
	PrintOperatorKey bool
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	fs := flag.NewFlagSet("gorkminion-voting-machine", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")

	// Ballot lifecycle
	fs.DurationVar(&cfg.SweepInterval, "sweep", 0, "Interval between lifecycle sweeps")
	fs.DurationVar(&cfg.SessionIdleTimeout, "session-idle", 0, "Idle timeout of voting sessions")

	fs.BoolVar(&cfg.PrintOperatorKey, "operator-key", false, "Print the operator key for POST /ballots and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := intEnv("PORT", 3318)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" && !cfg.PrintOperatorKey {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.SweepInterval == 0 {
		d, err := durationEnv("SWEEP_INTERVAL", 5*time.Minute)
		if err != nil {
			return Config{}, err
		}
		cfg.SweepInterval = d
	}
	if cfg.SessionIdleTimeout == 0 {
		d, err := durationEnv("SESSION_IDLE_TIMEOUT", 24*time.Hour)
		if err != nil {
			return Config{}, err
		}
		cfg.SessionIdleTimeout = d
	}

	warning, err := intEnv("WARNING_THRESHOLD_MINUTES", 60)
	if err != nil {
		return Config{}, err
	}
	cfg.WarningWindow = time.Duration(warning) * time.Minute

	ttl, err := intEnv("DEFAULT_TTL_MINUTES", 1440)
	if err != nil {
		return Config{}, err
	}
	cfg.DefaultTTL = time.Duration(ttl) * time.Minute

	if v := os.Getenv("SHOW_USER_VOTING_STATS"); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, errors.New("invalid SHOW_USER_VOTING_STATS env variable")
		}
		cfg.ShowUserVotingStats = show
	}

	cfg.ParticipantRoleID = os.Getenv("PARTICIPANT_ROLE_ID")
	cfg.GuildID = os.Getenv("GUILD_ID")

	if cfg.SweepInterval <= 0 {
		return Config{}, errors.New("sweep interval must be positive")
	}
	if cfg.DefaultTTL <= 0 {
		return Config{}, errors.New("DEFAULT_TTL_MINUTES must be positive")
	}

	return cfg, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return d, nil
}
