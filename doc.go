// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for seatcalc.

seatcalc allocates the parliamentary seats of an electoral district: a 5%
threshold, a votes-per-seat quota, one bonus seat for the district winner,
whole quotas in the first round and largest remainders in the second.

# Commands

Run the HTTP API:

	ADMIN_KEY_SALT=... go run . serve

Allocate one district from the terminal, or from a YAML ballot file:

	go run . allocate
	go run . allocate --file colombo.yaml --save
	go run . allocate --file colombo.yaml --json

# Configuration

Flags fall back to environment variables, and a .env file is loaded first:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): Connection string or SQLite file (default: seatcalc.db)
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC, required by serve
  - ADMIN_USERNAME (--admin-user): Admin account (default: admin)
  - ADMIN_PASSWORD (--admin-password): Seeds the admin account's password
  - LOG_LEVEL (--log-level): debug, info, warn or error

# Architecture

  - allocation: the seat allocation engine
  - cmd: cobra commands
  - console: interactive prompts, stage report, ballot files
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, admin check, JSON helpers
  - models: Request/response and stored types
  - auth: IDs, admin keys, password hashing
  - db: Connection, schema and result storage
  - cliparse: Configuration parsing
*/
package main
