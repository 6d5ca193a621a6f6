// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections, schema creation and result storage.

# Connections

Open picks the driver from the configured database type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

PostgreSQL goes through lib/pq. SQLite goes through modernc.org/sqlite with
foreign keys enabled and a single pooled connection.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
Every statement is valid on both PostgreSQL and SQLite.

# Tables

  - app_user: Admin accounts (bcrypt password hashes)
  - province, district: Geography and seat counts
  - election: One row per election year
  - party: Party names (unique, matched case-insensitively)
  - district_election: Summary of one allocation run
  - party_votes: Votes per party in a run
  - seat_allocation: Seats per party in a run

# Relationships

	province 1──* district
	district 1──* district_election *──1 election
	district_election 1──* party_votes *──1 party
	district_election 1──* seat_allocation *──1 party

Deleting a district_election cascades to its votes and seat rows. Other
references are restricted; handlers refuse those deletes up front.

# Storing Results

SaveAllocation writes a whole run in one transaction:

	id, err := db.SaveAllocation(ctx, conn, db.Run{
		District: "Colombo",
		Year:     2024,
		Result:   res,
	})

It creates the election year and any unknown parties on the fly and fails
with ErrResultExists if the district already has a result for that year.
*/
package db
