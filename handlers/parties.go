// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/seatcalc/auth"
	"github.com/danielhkuo/seatcalc/cliparse"
	"github.com/danielhkuo/seatcalc/middleware"
	"github.com/danielhkuo/seatcalc/models"
)

type PartyHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPartyHandler(db *sql.DB, cfg cliparse.Config) *PartyHandler {
	return &PartyHandler{db: db, cfg: cfg}
}

// ListParties handles GET /parties
func (h *PartyHandler) ListParties(w http.ResponseWriter, r *http.Request) {
	h.listParties(w, `SELECT id, name FROM party ORDER BY name`)
}

// ListPartiesByYear handles GET /parties/year/{year}
// Returns the parties that received votes anywhere in that year
func (h *PartyHandler) ListPartiesByYear(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}

	h.listParties(w, `
		SELECT DISTINCT p.id, p.name
		FROM party p
		JOIN party_votes pv ON pv.party_id = p.id
		JOIN district_election de ON pv.district_election_id = de.id
		JOIN election e ON de.election_id = e.id
		WHERE e.year = $1
		ORDER BY p.name
	`, year)
}

// ListPartiesBelowThreshold handles GET /parties/below-threshold/{year}
// Returns the parties disqualified in at least one district that year
func (h *PartyHandler) ListPartiesBelowThreshold(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}

	h.listParties(w, `
		SELECT DISTINCT p.id, p.name
		FROM party p
		JOIN seat_allocation sa ON sa.party_id = p.id
		JOIN district_election de ON sa.district_election_id = de.id
		JOIN election e ON de.election_id = e.id
		WHERE e.year = $1 AND sa.disqualified = TRUE
		ORDER BY p.name
	`, year)
}

func (h *PartyHandler) listParties(w http.ResponseWriter, query string, args ...any) {
	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query parties", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	parties := []models.Party{}
	for rows.Next() {
		var p models.Party
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			slog.Error("failed to scan party", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		parties = append(parties, p)
	}

	if err := rows.Err(); err != nil {
		slog.Error("failed to read parties", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, parties)
}

// GetParty handles GET /parties/{id}
func (h *PartyHandler) GetParty(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var p models.Party
	err := h.db.QueryRow(`SELECT id, name FROM party WHERE id = $1`, id).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Party not found")
		return
	}
	if err != nil {
		slog.Error("failed to query party", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, p)
}

// CreateParty handles POST /parties
func (h *PartyHandler) CreateParty(w http.ResponseWriter, r *http.Request) {
	var req models.PartyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	taken, err := nameTaken(h.db, "party", req.Name, "")
	if err != nil {
		slog.Error("failed to check party name", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if taken {
		middleware.ErrorResponse(w, http.StatusConflict, "Party already exists")
		return
	}

	id := auth.GenerateID()
	if _, err := h.db.Exec(`INSERT INTO party (id, name) VALUES ($1, $2)`, id, req.Name); err != nil {
		slog.Error("failed to insert party", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create party")
		return
	}

	slog.Info("party created", "party_id", id, "name", req.Name)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// UpdateParty handles PUT /parties/{id}
func (h *PartyHandler) UpdateParty(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.PartyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	taken, err := nameTaken(h.db, "party", req.Name, id)
	if err != nil {
		slog.Error("failed to check party name", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if taken {
		middleware.ErrorResponse(w, http.StatusConflict, "Party already exists")
		return
	}

	result, err := h.db.Exec(`UPDATE party SET name = $1 WHERE id = $2`, req.Name, id)
	if err != nil {
		slog.Error("failed to update party", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update party")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Party not found")
		return
	}

	slog.Info("party updated", "party_id", id, "name", req.Name)

	middleware.JSONResponse(w, http.StatusOK, models.Party{ID: id, Name: req.Name})
}

// DeleteParty handles DELETE /parties/{id}
// Refused while stored results reference the party
func (h *PartyHandler) DeleteParty(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var refs int
	err := h.db.QueryRow(`SELECT COUNT(*) FROM party_votes WHERE party_id = $1`, id).Scan(&refs)
	if err != nil {
		slog.Error("failed to count party votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if refs > 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Party has stored results")
		return
	}

	result, err := h.db.Exec(`DELETE FROM party WHERE id = $1`, id)
	if err != nil {
		slog.Error("failed to delete party", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete party")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Party not found")
		return
	}

	slog.Info("party deleted", "party_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// parseYear reads the {year} path value, writing a 400 when it is not a
// positive integer
func parseYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid year")
		return 0, false
	}
	return year, true
}
