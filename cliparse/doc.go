// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line flags and configuration.

# Binding

BindFlags registers the flags on any pflag set, so the cobra root command
shares them with every subcommand:

	cliparse.BindFlags(root.PersistentFlags(), &cfg)
	// later, once flags are parsed
	err := cliparse.Resolve(&cfg)

# CLI Flags

	-p, --port           Server port (default 3318)
	-d, --database-url   Connection string or SQLite file
	-t, --database-type  sqlite or postgres (default sqlite)
	    --admin-salt     Admin key salt
	    --admin-user     Admin username (default admin)
	    --admin-password Seeds the admin account
	    --log-level      debug, info, warn, error
	    --cors-origin    Allowed browser origin, repeatable

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	ADMIN_KEY_SALT → --admin-salt
	ADMIN_USERNAME → --admin-user
	ADMIN_PASSWORD → --admin-password
	LOG_LEVEL      → --log-level
	CORS_ORIGINS   → --cors-origin (comma separated)

A .env file in the working directory is loaded first and never overrides
variables already set. CLI flags take precedence over both.

# Validation

Resolve fails for an unknown database type, a bad PORT, or postgres
without a URL. RequireServerSecrets additionally demands ADMIN_KEY_SALT
and is only checked by the serve command.
*/
package cliparse
