// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/seatcalc/allocation"
	"github.com/danielhkuo/seatcalc/auth"
	"github.com/danielhkuo/seatcalc/models"
)

var (
	ErrDistrictNotFound = errors.New("district not found")
	ErrResultExists     = errors.New("result already stored for this district and year")
)

// Run is one computed allocation ready to be stored
type Run struct {
	District string
	Year     int
	Result   allocation.Result
}

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// FindDistrict looks a district up by name, ignoring case
func FindDistrict(ctx context.Context, q queryer, name string) (models.District, error) {
	var d models.District
	err := q.QueryRowContext(ctx, `
		SELECT id, province_id, name, seat_count
		FROM district
		WHERE LOWER(name) = LOWER($1)
	`, name).Scan(&d.ID, &d.ProvinceID, &d.Name, &d.SeatCount)
	if errors.Is(err, sql.ErrNoRows) {
		return models.District{}, fmt.Errorf("%w: %s", ErrDistrictNotFound, name)
	}
	if err != nil {
		return models.District{}, fmt.Errorf("failed to query district: %w", err)
	}
	return d, nil
}

// ResultExists reports whether a district already has a result for year
func ResultExists(ctx context.Context, q queryer, district string, year int) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM district_election de
		JOIN district d ON de.district_id = d.id
		JOIN election e ON de.election_id = e.id
		WHERE LOWER(d.name) = LOWER($1) AND e.year = $2
	`, district, year).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check existing result: %w", err)
	}
	return count > 0, nil
}

// SaveAllocation stores a run in one transaction: either every party row is
// written or none is. Returns the new district_election ID.
func SaveAllocation(ctx context.Context, conn *sql.DB, run Run) (string, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	electionID, err := ensureElection(ctx, tx, run.Year)
	if err != nil {
		return "", err
	}

	district, err := FindDistrict(ctx, tx, run.District)
	if err != nil {
		return "", err
	}

	var existing int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM district_election WHERE district_id = $1 AND election_id = $2
	`, district.ID, electionID).Scan(&existing)
	if err != nil {
		return "", fmt.Errorf("failed to check existing result: %w", err)
	}
	if existing > 0 {
		return "", ErrResultExists
	}

	res := run.Result
	districtElectionID := auth.GenerateID()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO district_election (
			id, district_id, election_id, seat_count, total_valid_votes, threshold,
			disqualified_votes, disqualified_party_count, qualified_votes, votes_per_seat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, districtElectionID, district.ID, electionID, res.TotalSeats, res.TotalValidVotes, res.Threshold,
		res.DisqualifiedVotes, res.DisqualifiedParties, res.QualifiedVotes, res.VotesPerSeat)
	if err != nil {
		return "", fmt.Errorf("failed to insert district election: %w", err)
	}

	for i, p := range res.Parties {
		partyID, err := ensureParty(ctx, tx, p.Name)
		if err != nil {
			return "", err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO party_votes (district_election_id, party_id, votes)
			VALUES ($1, $2, $3)
		`, districtElectionID, partyID, p.ValidVotes)
		if err != nil {
			return "", fmt.Errorf("failed to insert votes for %s: %w", p.Name, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO seat_allocation (
				id, district_election_id, party_id, ballot_order, disqualified,
				bonus_seat, first_round, second_round, final_seats
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, auth.GenerateID(), districtElectionID, partyID, i, p.Disqualified,
			p.BonusSeat, p.FirstRoundSeats, p.SecondRoundSeats, p.FinalSeats)
		if err != nil {
			return "", fmt.Errorf("failed to insert seat allocation for %s: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit allocation: %w", err)
	}

	return districtElectionID, nil
}

func ensureElection(ctx context.Context, q queryer, year int) (string, error) {
	var id string
	err := q.QueryRowContext(ctx, `SELECT id FROM election WHERE year = $1`, year).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to query election: %w", err)
	}

	id = auth.GenerateID()
	if _, err := q.ExecContext(ctx, `INSERT INTO election (id, year) VALUES ($1, $2)`, id, year); err != nil {
		return "", fmt.Errorf("failed to insert election: %w", err)
	}
	return id, nil
}

// ensureParty finds a party by name ignoring case and surrounding spaces,
// creating it when missing
func ensureParty(ctx context.Context, q queryer, name string) (string, error) {
	name = strings.TrimSpace(name)
	var id string
	err := q.QueryRowContext(ctx, `SELECT id FROM party WHERE LOWER(name) = LOWER($1)`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to query party: %w", err)
	}

	id = auth.GenerateID()
	if _, err := q.ExecContext(ctx, `INSERT INTO party (id, name) VALUES ($1, $2)`, id, name); err != nil {
		return "", fmt.Errorf("failed to insert party %s: %w", name, err)
	}
	return id, nil
}
