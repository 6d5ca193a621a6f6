// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is kept to the subset PostgreSQL and SQLite share.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Accounts
CREATE TABLE IF NOT EXISTS app_user (
    username TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'admin',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Provinces
CREATE TABLE IF NOT EXISTS province (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

-- Districts
CREATE TABLE IF NOT EXISTS district (
    id TEXT PRIMARY KEY,
    province_id TEXT NOT NULL REFERENCES province(id),
    name TEXT NOT NULL UNIQUE,
    seat_count INTEGER NOT NULL CHECK (seat_count >= 0)
);

CREATE INDEX IF NOT EXISTS idx_district_province_id ON district(province_id);

-- Elections
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    year INTEGER NOT NULL UNIQUE
);

-- Parties
CREATE TABLE IF NOT EXISTS party (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

-- One allocation run per district and year
CREATE TABLE IF NOT EXISTS district_election (
    id TEXT PRIMARY KEY,
    district_id TEXT NOT NULL REFERENCES district(id),
    election_id TEXT NOT NULL REFERENCES election(id),
    seat_count INTEGER NOT NULL,
    total_valid_votes INTEGER NOT NULL,
    threshold INTEGER NOT NULL,
    disqualified_votes INTEGER NOT NULL,
    disqualified_party_count INTEGER NOT NULL,
    qualified_votes INTEGER NOT NULL,
    votes_per_seat INTEGER NOT NULL,
    calculated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (district_id, election_id)
);

CREATE INDEX IF NOT EXISTS idx_district_election_election_id ON district_election(election_id);

-- Party votes
CREATE TABLE IF NOT EXISTS party_votes (
    district_election_id TEXT NOT NULL REFERENCES district_election(id) ON DELETE CASCADE,
    party_id TEXT NOT NULL REFERENCES party(id),
    votes INTEGER NOT NULL CHECK (votes >= 0),
    PRIMARY KEY (district_election_id, party_id)
);

-- Seat allocations
CREATE TABLE IF NOT EXISTS seat_allocation (
    id TEXT PRIMARY KEY,
    district_election_id TEXT NOT NULL REFERENCES district_election(id) ON DELETE CASCADE,
    party_id TEXT NOT NULL REFERENCES party(id),
    ballot_order INTEGER NOT NULL,
    disqualified BOOLEAN NOT NULL,
    bonus_seat INTEGER NOT NULL CHECK (bonus_seat IN (0, 1)),
    first_round INTEGER NOT NULL CHECK (first_round >= 0),
    second_round INTEGER NOT NULL CHECK (second_round >= 0),
    final_seats INTEGER NOT NULL CHECK (final_seats >= 0),
    UNIQUE (district_election_id, party_id)
);

CREATE INDEX IF NOT EXISTS idx_seat_allocation_party_id ON seat_allocation(party_id);
`
