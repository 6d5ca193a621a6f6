// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/seatcalc/auth"
	"github.com/danielhkuo/seatcalc/cliparse"
	"github.com/danielhkuo/seatcalc/middleware"
	"github.com/danielhkuo/seatcalc/models"
)

type DistrictHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewDistrictHandler(db *sql.DB, cfg cliparse.Config) *DistrictHandler {
	return &DistrictHandler{db: db, cfg: cfg}
}

// ListDistricts handles GET /districts
// ?with_seats=true keeps only districts that elect at least one member
func (h *DistrictHandler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	query := `SELECT id, province_id, name, seat_count FROM district`
	if r.URL.Query().Get("with_seats") == "true" {
		query += ` WHERE seat_count > 0`
	}
	query += ` ORDER BY name`

	rows, err := h.db.Query(query)
	if err != nil {
		slog.Error("failed to query districts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	districts := []models.District{}
	for rows.Next() {
		var d models.District
		if err := rows.Scan(&d.ID, &d.ProvinceID, &d.Name, &d.SeatCount); err != nil {
			slog.Error("failed to scan district", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		districts = append(districts, d)
	}

	if err := rows.Err(); err != nil {
		slog.Error("failed to read districts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, districts)
}

// GetDistrict handles GET /districts/{id}
func (h *DistrictHandler) GetDistrict(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var d models.District
	err := h.db.QueryRow(`
		SELECT id, province_id, name, seat_count FROM district WHERE id = $1
	`, id).Scan(&d.ID, &d.ProvinceID, &d.Name, &d.SeatCount)

	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "District not found")
		return
	}
	if err != nil {
		slog.Error("failed to query district", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, d)
}

// CreateDistrict handles POST /districts
func (h *DistrictHandler) CreateDistrict(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseRequest(w, r, "")
	if !ok {
		return
	}

	id := auth.GenerateID()
	_, err := h.db.Exec(`
		INSERT INTO district (id, province_id, name, seat_count)
		VALUES ($1, $2, $3, $4)
	`, id, req.ProvinceID, req.Name, req.SeatCount)
	if err != nil {
		slog.Error("failed to insert district", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create district")
		return
	}

	slog.Info("district created", "district_id", id, "name", req.Name, "seats", req.SeatCount)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// UpdateDistrict handles PUT /districts/{id}
func (h *DistrictHandler) UpdateDistrict(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	req, ok := h.parseRequest(w, r, id)
	if !ok {
		return
	}

	result, err := h.db.Exec(`
		UPDATE district SET province_id = $1, name = $2, seat_count = $3 WHERE id = $4
	`, req.ProvinceID, req.Name, req.SeatCount, id)
	if err != nil {
		slog.Error("failed to update district", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update district")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "District not found")
		return
	}

	slog.Info("district updated", "district_id", id, "name", req.Name, "seats", req.SeatCount)

	middleware.JSONResponse(w, http.StatusOK, models.District{
		ID:         id,
		ProvinceID: req.ProvinceID,
		Name:       req.Name,
		SeatCount:  req.SeatCount,
	})
}

// DeleteDistrict handles DELETE /districts/{id}
// Refused while stored results reference the district
func (h *DistrictHandler) DeleteDistrict(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var results int
	err := h.db.QueryRow(`SELECT COUNT(*) FROM district_election WHERE district_id = $1`, id).Scan(&results)
	if err != nil {
		slog.Error("failed to count district results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if results > 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "District has stored results")
		return
	}

	result, err := h.db.Exec(`DELETE FROM district WHERE id = $1`, id)
	if err != nil {
		slog.Error("failed to delete district", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete district")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "District not found")
		return
	}

	slog.Info("district deleted", "district_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// parseRequest decodes and validates a district body, writing the error
// response itself when it returns false
func (h *DistrictHandler) parseRequest(w http.ResponseWriter, r *http.Request, exceptID string) (models.DistrictRequest, bool) {
	var req models.DistrictRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return req, false
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return req, false
	}
	if req.ProvinceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "province_id is required")
		return req, false
	}
	if req.SeatCount < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "seat_count must not be negative")
		return req, false
	}

	var provinces int
	err := h.db.QueryRow(`SELECT COUNT(*) FROM province WHERE id = $1`, req.ProvinceID).Scan(&provinces)
	if err != nil {
		slog.Error("failed to query province", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return req, false
	}
	if provinces == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown province_id")
		return req, false
	}

	taken, err := nameTaken(h.db, "district", req.Name, exceptID)
	if err != nil {
		slog.Error("failed to check district name", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return req, false
	}
	if taken {
		middleware.ErrorResponse(w, http.StatusConflict, "District already exists")
		return req, false
	}

	return req, true
}
