// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded first when present. Variables
already set in the environment are not overridden by it.

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type (sqlite or postgres)
	-admin-salt    Admin key salt
	-sweep         Interval between lifecycle sweeps
	-session-idle  Idle timeout of voting sessions

# Environment Variables

	PORT                       → -p (default 3318)
	DATABASE_URL               → -d (required)
	DATABASE_TYPE              → -t (default sqlite)
	ADMIN_KEY_SALT             → -admin-salt (required)
	SWEEP_INTERVAL             → -sweep (default 5m)
	SESSION_IDLE_TIMEOUT       → -session-idle (default 24h)
	WARNING_THRESHOLD_MINUTES  warning window before closure (default 60)
	DEFAULT_TTL_MINUTES        ballot TTL when none is requested (default 1440)
	SHOW_USER_VOTING_STATS     include per-user sequences in closing stats
	PARTICIPANT_ROLE_ID        role mentioned in warnings and results
	GUILD_ID                   guild used to build thread links

CLI flags take precedence over environment variables.
*/
package cliparse
