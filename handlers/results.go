// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/seatcalc/cliparse"
	"github.com/danielhkuo/seatcalc/middleware"
	"github.com/danielhkuo/seatcalc/models"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

const districtElectionColumns = `
	SELECT de.id, d.name, e.year, de.seat_count, de.total_valid_votes, de.threshold,
	       de.disqualified_votes, de.disqualified_party_count, de.qualified_votes, de.votes_per_seat
	FROM district_election de
	JOIN district d ON de.district_id = d.id
	JOIN election e ON de.election_id = e.id
`

// GetYearResults handles GET /results/{year}
// Returns every stored district result of the year with its party rows
func (h *ResultsHandler) GetYearResults(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}

	elections, err := h.queryDistrictElections(districtElectionColumns+`
		WHERE e.year = $1
		ORDER BY d.name
	`, year)
	if err != nil {
		slog.Error("failed to query district results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	results := []models.DistrictResult{}
	for _, de := range elections {
		allocations, err := h.queryAllocations(de.ID)
		if err != nil {
			slog.Error("failed to query allocations", "error", err, "district_election_id", de.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		results = append(results, models.DistrictResult{DistrictElection: de, Allocations: allocations})
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetDistrictResult handles GET /results/{year}/districts/{district}
func (h *ResultsHandler) GetDistrictResult(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}
	district := r.PathValue("district")

	elections, err := h.queryDistrictElections(districtElectionColumns+`
		WHERE e.year = $1 AND LOWER(d.name) = LOWER($2)
	`, year, district)
	if err != nil {
		slog.Error("failed to query district result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(elections) == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "No result for this district and year")
		return
	}

	de := elections[0]
	allocations, err := h.queryAllocations(de.ID)
	if err != nil {
		slog.Error("failed to query allocations", "error", err, "district_election_id", de.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DistrictResult{
		DistrictElection: de,
		Allocations:      allocations,
	})
}

// GetNationalResult handles GET /results/national/{year}
// Sums votes and final seats per party across every district of the year
func (h *ResultsHandler) GetNationalResult(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}

	var count int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM election WHERE year = $1`, year).Scan(&count); err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}

	rows, err := h.db.Query(`
		SELECT p.name, COALESCE(SUM(pv.votes), 0) AS votes, COALESCE(SUM(sa.final_seats), 0) AS seats
		FROM seat_allocation sa
		JOIN district_election de ON sa.district_election_id = de.id
		JOIN election e ON de.election_id = e.id
		JOIN party p ON sa.party_id = p.id
		JOIN party_votes pv ON pv.district_election_id = sa.district_election_id AND pv.party_id = sa.party_id
		WHERE e.year = $1
		GROUP BY p.name
		ORDER BY seats DESC, votes DESC, p.name
	`, year)
	if err != nil {
		slog.Error("failed to query national totals", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	result := models.NationalResult{Year: year, Parties: []models.PartySeatTotal{}}
	for rows.Next() {
		var t models.PartySeatTotal
		if err := rows.Scan(&t.Party, &t.Votes, &t.TotalSeats); err != nil {
			slog.Error("failed to scan national total", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		result.TotalSeats += t.TotalSeats
		result.Parties = append(result.Parties, t)
	}

	if err := rows.Err(); err != nil {
		slog.Error("failed to read national totals", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, result)
}

// GetPartyResults handles GET /results/parties/{party}
// Lists the party's seat rows by year and district
func (h *ResultsHandler) GetPartyResults(w http.ResponseWriter, r *http.Request) {
	partyID, name, ok := h.lookupParty(w, r.PathValue("party"))
	if !ok {
		return
	}

	rows, err := h.db.Query(`
		SELECT e.year, d.name, sa.bonus_seat, sa.first_round, sa.second_round, sa.final_seats
		FROM seat_allocation sa
		JOIN district_election de ON sa.district_election_id = de.id
		JOIN district d ON de.district_id = d.id
		JOIN election e ON de.election_id = e.id
		WHERE sa.party_id = $1
		ORDER BY e.year, d.name
	`, partyID)
	if err != nil {
		slog.Error("failed to query party results", "error", err, "party", name)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	records := []models.PartySeatRecord{}
	for rows.Next() {
		var rec models.PartySeatRecord
		if err := rows.Scan(&rec.Year, &rec.District, &rec.BonusSeat, &rec.FirstRound, &rec.SecondRound, &rec.FinalSeats); err != nil {
			slog.Error("failed to scan party result", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		slog.Error("failed to read party results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, records)
}

// GetPartyTotal handles GET /results/parties/{party}/total/{year}
func (h *ResultsHandler) GetPartyTotal(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}

	partyID, name, ok := h.lookupParty(w, r.PathValue("party"))
	if !ok {
		return
	}

	resp := models.PartyTotalResponse{Party: name, Year: year}
	err := h.db.QueryRow(`
		SELECT COALESCE(SUM(sa.final_seats), 0)
		FROM seat_allocation sa
		JOIN district_election de ON sa.district_election_id = de.id
		JOIN election e ON de.election_id = e.id
		WHERE sa.party_id = $1 AND e.year = $2
	`, partyID, year).Scan(&resp.TotalSeats)
	if err != nil {
		slog.Error("failed to sum party seats", "error", err, "party", name)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// UpdateAllocation handles PUT /results/allocations/{id}
// Applies a manual correction to one party's seat row. The district election
// keeps at most one bonus seat and never more seats than it elects.
func (h *ResultsHandler) UpdateAllocation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.UpdateAllocationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.BonusSeat < 0 || req.FirstRound < 0 || req.SecondRound < 0 || req.FinalSeats < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "seat values must not be negative")
		return
	}
	if req.BonusSeat > 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "bonus_seat must be 0 or 1")
		return
	}
	if req.FinalSeats != req.BonusSeat+req.FirstRound+req.SecondRound {
		middleware.ErrorResponse(w, http.StatusBadRequest, "final_seats must equal bonus_seat + first_round + second_round")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var districtElectionID string
	var seatCount int
	err = tx.QueryRow(`
		SELECT de.id, de.seat_count
		FROM seat_allocation sa
		JOIN district_election de ON sa.district_election_id = de.id
		WHERE sa.id = $1
	`, id).Scan(&districtElectionID, &seatCount)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Allocation not found")
		return
	}
	if err != nil {
		slog.Error("failed to query allocation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var otherBonus, otherSeats int
	err = tx.QueryRow(`
		SELECT COALESCE(SUM(bonus_seat), 0), COALESCE(SUM(final_seats), 0)
		FROM seat_allocation
		WHERE district_election_id = $1 AND id <> $2
	`, districtElectionID, id).Scan(&otherBonus, &otherSeats)
	if err != nil {
		slog.Error("failed to sum district allocations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if req.BonusSeat == 1 && otherBonus > 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Another party already holds the bonus seat")
		return
	}
	if otherSeats+req.FinalSeats > seatCount {
		middleware.ErrorResponse(w, http.StatusConflict,
			fmt.Sprintf("District would exceed its %d seats", seatCount))
		return
	}

	_, err = tx.Exec(`
		UPDATE seat_allocation
		SET bonus_seat = $1, first_round = $2, second_round = $3, final_seats = $4
		WHERE id = $5
	`, req.BonusSeat, req.FirstRound, req.SecondRound, req.FinalSeats, id)
	if err != nil {
		slog.Error("failed to update allocation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update allocation")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit allocation update", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update allocation")
		return
	}

	slog.Info("allocation corrected",
		"allocation_id", id,
		"district_election_id", districtElectionID,
		"final_seats", req.FinalSeats,
	)

	allocations, err := h.queryAllocations(districtElectionID)
	if err != nil {
		slog.Error("failed to query allocations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	for _, a := range allocations {
		if a.ID == id {
			middleware.JSONResponse(w, http.StatusOK, a)
			return
		}
	}

	middleware.ErrorResponse(w, http.StatusNotFound, "Allocation not found")
}

// DeleteDistrictResult handles DELETE /results/{year}/districts/{district}
// Removes the stored run so the district can be recalculated
func (h *ResultsHandler) DeleteDistrictResult(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}
	district := r.PathValue("district")

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRow(`
		SELECT de.id
		FROM district_election de
		JOIN district d ON de.district_id = d.id
		JOIN election e ON de.election_id = e.id
		WHERE e.year = $1 AND LOWER(d.name) = LOWER($2)
	`, year, district).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "No result for this district and year")
		return
	}
	if err != nil {
		slog.Error("failed to query district result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	for _, stmt := range []string{
		`DELETE FROM seat_allocation WHERE district_election_id = $1`,
		`DELETE FROM party_votes WHERE district_election_id = $1`,
		`DELETE FROM district_election WHERE id = $1`,
	} {
		if _, err := tx.Exec(stmt, id); err != nil {
			slog.Error("failed to delete district result", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete result")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit result deletion", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete result")
		return
	}

	slog.Info("district result deleted", "district", district, "year", year)

	w.WriteHeader(http.StatusNoContent)
}

// queryDistrictElections reads every matching run before returning, so
// callers are free to issue follow-up queries on the same connection
func (h *ResultsHandler) queryDistrictElections(query string, args ...any) ([]models.DistrictElection, error) {
	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DistrictElection
	for rows.Next() {
		var de models.DistrictElection
		if err := rows.Scan(
			&de.ID, &de.District, &de.Year, &de.SeatCount, &de.TotalValidVotes, &de.Threshold,
			&de.DisqualifiedVotes, &de.DisqualifiedPartyCount, &de.QualifiedVotes, &de.VotesPerSeat,
		); err != nil {
			return nil, err
		}
		out = append(out, de)
	}
	return out, rows.Err()
}

// queryAllocations returns a run's party rows in ballot order
func (h *ResultsHandler) queryAllocations(districtElectionID string) ([]models.SeatAllocation, error) {
	rows, err := h.db.Query(`
		SELECT sa.id, p.name, pv.votes, sa.disqualified, sa.bonus_seat,
		       sa.first_round, sa.second_round, sa.final_seats
		FROM seat_allocation sa
		JOIN party p ON sa.party_id = p.id
		JOIN party_votes pv ON pv.district_election_id = sa.district_election_id AND pv.party_id = sa.party_id
		WHERE sa.district_election_id = $1
		ORDER BY sa.ballot_order
	`, districtElectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	allocations := []models.SeatAllocation{}
	for rows.Next() {
		var a models.SeatAllocation
		if err := rows.Scan(&a.ID, &a.Party, &a.Votes, &a.Disqualified, &a.BonusSeat,
			&a.FirstRound, &a.SecondRound, &a.FinalSeats); err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}
	return allocations, rows.Err()
}

// lookupParty resolves a party name, writing a 404 when it is unknown
func (h *ResultsHandler) lookupParty(w http.ResponseWriter, name string) (string, string, bool) {
	var id, stored string
	err := h.db.QueryRow(`
		SELECT id, name FROM party WHERE LOWER(name) = LOWER($1)
	`, name).Scan(&id, &stored)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Party not found")
		return "", "", false
	}
	if err != nil {
		slog.Error("failed to query party", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return "", "", false
	}
	return id, stored, true
}
