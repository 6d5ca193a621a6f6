// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/seatcalc/allocation"
	"github.com/danielhkuo/seatcalc/cliparse"
	"github.com/danielhkuo/seatcalc/db"
	"github.com/danielhkuo/seatcalc/middleware"
	"github.com/danielhkuo/seatcalc/models"
)

type CalculationHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCalculationHandler(db *sql.DB, cfg cliparse.Config) *CalculationHandler {
	return &CalculationHandler{db: db, cfg: cfg}
}

// Preview handles POST /calculations/preview
// Runs the allocation without storing anything
func (h *CalculationHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req models.CalculationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	res, ok := h.allocate(w, r, &req)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CalculationResponse{
		District: req.District,
		Year:     req.Year,
		Result:   res,
	})
}

// Calculate handles POST /calculations
// Runs the allocation and stores it as the district's result for the year
func (h *CalculationHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req models.CalculationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.District == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "district is required")
		return
	}
	if req.Year <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "year must be positive")
		return
	}

	exists, err := db.ResultExists(r.Context(), h.db, req.District, req.Year)
	if err != nil {
		slog.Error("failed to check existing result", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		middleware.ErrorResponse(w, http.StatusConflict, "Result already stored for this district and year")
		return
	}

	res, ok := h.allocate(w, r, &req)
	if !ok {
		return
	}

	id, err := db.SaveAllocation(r.Context(), h.db, db.Run{
		District: req.District,
		Year:     req.Year,
		Result:   res,
	})
	if errors.Is(err, db.ErrResultExists) {
		middleware.ErrorResponse(w, http.StatusConflict, "Result already stored for this district and year")
		return
	}
	if errors.Is(err, db.ErrDistrictNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "District not found")
		return
	}
	if err != nil {
		slog.Error("failed to save allocation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save result")
		return
	}

	slog.Info("allocation saved",
		"district_election_id", id,
		"district", req.District,
		"year", req.Year,
		"winner", res.Winner().Name,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CalculationResponse{
		DistrictElectionID: id,
		District:           req.District,
		Year:               req.Year,
		Saved:              true,
		Result:             res,
	})
}

// allocate resolves the seat count and runs the engine. It writes the error
// response itself when it returns false.
func (h *CalculationHandler) allocate(w http.ResponseWriter, r *http.Request, req *models.CalculationRequest) (allocation.Result, bool) {
	if req.TotalSeats == 0 && req.District != "" {
		d, err := db.FindDistrict(r.Context(), h.db, req.District)
		if errors.Is(err, db.ErrDistrictNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "District not found")
			return allocation.Result{}, false
		}
		if err != nil {
			slog.Error("failed to query district", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return allocation.Result{}, false
		}
		req.TotalSeats = d.SeatCount
		req.District = d.Name
	}

	in := allocation.Input{
		TotalSeats:      req.TotalSeats,
		TotalValidVotes: req.TotalValidVotes,
		Ballots:         req.Ballots,
	}

	var sum int
	for _, b := range in.Ballots {
		sum += b.ValidVotes
	}
	if sum > in.TotalValidVotes {
		slog.Warn("ballot votes exceed declared total",
			"district", req.District,
			"ballot_votes", sum,
			"total_valid_votes", in.TotalValidVotes,
		)
	}

	res, err := allocation.Allocate(in)
	if err != nil {
		var verr *allocation.ValidationError
		if errors.As(err, &verr) {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return allocation.Result{}, false
		}
		slog.Error("allocation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Allocation failed")
		return allocation.Result{}, false
	}

	if awarded := res.SeatsAwarded(); awarded != res.TotalSeats {
		slog.Warn("allocation does not fill the seat count",
			"district", req.District,
			"seats", res.TotalSeats,
			"awarded", awarded,
		)
	}

	return res, true
}
