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

type ProvinceHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewProvinceHandler(db *sql.DB, cfg cliparse.Config) *ProvinceHandler {
	return &ProvinceHandler{db: db, cfg: cfg}
}

// ListProvinces handles GET /provinces
func (h *ProvinceHandler) ListProvinces(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`SELECT id, name FROM province ORDER BY name`)
	if err != nil {
		slog.Error("failed to query provinces", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	provinces := []models.Province{}
	for rows.Next() {
		var p models.Province
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			slog.Error("failed to scan province", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		provinces = append(provinces, p)
	}

	if err := rows.Err(); err != nil {
		slog.Error("failed to read provinces", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, provinces)
}

// GetProvince handles GET /provinces/{id}
func (h *ProvinceHandler) GetProvince(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var p models.Province
	err := h.db.QueryRow(`SELECT id, name FROM province WHERE id = $1`, id).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Province not found")
		return
	}
	if err != nil {
		slog.Error("failed to query province", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, p)
}

// ListProvinceDistricts handles GET /provinces/{id}/districts
func (h *ProvinceHandler) ListProvinceDistricts(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	found, err := h.exists(id)
	if err != nil {
		slog.Error("failed to query province", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Province not found")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, province_id, name, seat_count
		FROM district
		WHERE province_id = $1
		ORDER BY name
	`, id)
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

// GetProvinceSeats handles GET /provinces/{id}/seats
// Sums the seat counts of every district in the province
func (h *ProvinceHandler) GetProvinceSeats(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var resp models.ProvinceSeatsResponse
	err := h.db.QueryRow(`
		SELECT p.id, p.name, COALESCE(SUM(d.seat_count), 0)
		FROM province p
		LEFT JOIN district d ON d.province_id = p.id
		WHERE p.id = $1
		GROUP BY p.id, p.name
	`, id).Scan(&resp.ProvinceID, &resp.Name, &resp.TotalSeats)

	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Province not found")
		return
	}
	if err != nil {
		slog.Error("failed to sum province seats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// CreateProvince handles POST /provinces
func (h *ProvinceHandler) CreateProvince(w http.ResponseWriter, r *http.Request) {
	var req models.ProvinceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	taken, err := nameTaken(h.db, "province", req.Name, "")
	if err != nil {
		slog.Error("failed to check province name", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if taken {
		middleware.ErrorResponse(w, http.StatusConflict, "Province already exists")
		return
	}

	id := auth.GenerateID()
	_, err = h.db.Exec(`INSERT INTO province (id, name) VALUES ($1, $2)`, id, req.Name)
	if err != nil {
		slog.Error("failed to insert province", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create province")
		return
	}

	slog.Info("province created", "province_id", id, "name", req.Name)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// UpdateProvince handles PUT /provinces/{id}
func (h *ProvinceHandler) UpdateProvince(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.ProvinceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	taken, err := nameTaken(h.db, "province", req.Name, id)
	if err != nil {
		slog.Error("failed to check province name", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if taken {
		middleware.ErrorResponse(w, http.StatusConflict, "Province already exists")
		return
	}

	result, err := h.db.Exec(`UPDATE province SET name = $1 WHERE id = $2`, req.Name, id)
	if err != nil {
		slog.Error("failed to update province", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update province")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Province not found")
		return
	}

	slog.Info("province updated", "province_id", id, "name", req.Name)

	middleware.JSONResponse(w, http.StatusOK, models.Province{ID: id, Name: req.Name})
}

// DeleteProvince handles DELETE /provinces/{id}
// Refused while districts still reference the province
func (h *ProvinceHandler) DeleteProvince(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var districts int
	err := h.db.QueryRow(`SELECT COUNT(*) FROM district WHERE province_id = $1`, id).Scan(&districts)
	if err != nil {
		slog.Error("failed to count districts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if districts > 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Province still has districts")
		return
	}

	result, err := h.db.Exec(`DELETE FROM province WHERE id = $1`, id)
	if err != nil {
		slog.Error("failed to delete province", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete province")
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Province not found")
		return
	}

	slog.Info("province deleted", "province_id", id)

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProvinceHandler) exists(id string) (bool, error) {
	var count int
	err := h.db.QueryRow(`SELECT COUNT(*) FROM province WHERE id = $1`, id).Scan(&count)
	return count > 0, err
}

// nameTaken reports whether table already holds name (ignoring case) on a
// row other than exceptID. table is always a package constant.
func nameTaken(db *sql.DB, table, name, exceptID string) (bool, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM `+table+`
		WHERE LOWER(name) = LOWER($1) AND id <> $2
	`, name, exceptID).Scan(&count)
	return count > 0, err
}
