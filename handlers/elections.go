// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/seatcalc/auth"
	"github.com/danielhkuo/seatcalc/cliparse"
	"github.com/danielhkuo/seatcalc/middleware"
	"github.com/danielhkuo/seatcalc/models"
)

type ElectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{db: db, cfg: cfg}
}

// ListElections handles GET /elections
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`SELECT id, year FROM election ORDER BY year DESC`)
	if err != nil {
		slog.Error("failed to query elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		var e models.Election
		if err := rows.Scan(&e.ID, &e.Year); err != nil {
			slog.Error("failed to scan election", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		elections = append(elections, e)
	}

	if err := rows.Err(); err != nil {
		slog.Error("failed to read elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, elections)
}

// GetElection handles GET /elections/{year}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}

	var e models.Election
	err := h.db.QueryRow(`SELECT id, year FROM election WHERE year = $1`, year).Scan(&e.ID, &e.Year)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, e)
}

// CreateElection handles POST /elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.ElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Year <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "year must be positive")
		return
	}

	var count int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM election WHERE year = $1`, req.Year).Scan(&count); err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Election already exists")
		return
	}

	id := auth.GenerateID()
	if _, err := h.db.Exec(`INSERT INTO election (id, year) VALUES ($1, $2)`, id, req.Year); err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	slog.Info("election created", "election_id", id, "year", req.Year)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// DeleteElection handles DELETE /elections/{year}
// Refused while district results exist for the year
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, r)
	if !ok {
		return
	}

	var results int
	err := h.db.QueryRow(`
		SELECT COUNT(*)
		FROM district_election de
		JOIN election e ON de.election_id = e.id
		WHERE e.year = $1
	`, year).Scan(&results)
	if err != nil {
		slog.Error("failed to count election results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if results > 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Election has stored results")
		return
	}

	result, err := h.db.Exec(`DELETE FROM election WHERE year = $1`, year)
	if err != nil {
		slog.Error("failed to delete election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete election")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}

	slog.Info("election deleted", "year", year)

	w.WriteHeader(http.StatusNoContent)
}
