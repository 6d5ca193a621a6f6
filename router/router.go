// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/seatcalc/cliparse"
	"github.com/danielhkuo/seatcalc/handlers"
	"github.com/danielhkuo/seatcalc/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	provinceHandler := handlers.NewProvinceHandler(db, cfg)
	districtHandler := handlers.NewDistrictHandler(db, cfg)
	partyHandler := handlers.NewPartyHandler(db, cfg)
	electionHandler := handlers.NewElectionHandler(db, cfg)
	calcHandler := handlers.NewCalculationHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	public := middleware.WithLogging
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(cfg, next))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /login", public(authHandler.Login))

	// Provinces
	mux.HandleFunc("GET /provinces", public(provinceHandler.ListProvinces))
	mux.HandleFunc("GET /provinces/{id}", public(provinceHandler.GetProvince))
	mux.HandleFunc("GET /provinces/{id}/districts", public(provinceHandler.ListProvinceDistricts))
	mux.HandleFunc("GET /provinces/{id}/seats", public(provinceHandler.GetProvinceSeats))
	mux.HandleFunc("POST /provinces", admin(provinceHandler.CreateProvince))
	mux.HandleFunc("PUT /provinces/{id}", admin(provinceHandler.UpdateProvince))
	mux.HandleFunc("DELETE /provinces/{id}", admin(provinceHandler.DeleteProvince))

	// Districts
	mux.HandleFunc("GET /districts", public(districtHandler.ListDistricts))
	mux.HandleFunc("GET /districts/{id}", public(districtHandler.GetDistrict))
	mux.HandleFunc("POST /districts", admin(districtHandler.CreateDistrict))
	mux.HandleFunc("PUT /districts/{id}", admin(districtHandler.UpdateDistrict))
	mux.HandleFunc("DELETE /districts/{id}", admin(districtHandler.DeleteDistrict))

	// Parties
	mux.HandleFunc("GET /parties", public(partyHandler.ListParties))
	mux.HandleFunc("GET /parties/{id}", public(partyHandler.GetParty))
	mux.HandleFunc("GET /parties/year/{year}", public(partyHandler.ListPartiesByYear))
	mux.HandleFunc("GET /parties/below-threshold/{year}", public(partyHandler.ListPartiesBelowThreshold))
	mux.HandleFunc("POST /parties", admin(partyHandler.CreateParty))
	mux.HandleFunc("PUT /parties/{id}", admin(partyHandler.UpdateParty))
	mux.HandleFunc("DELETE /parties/{id}", admin(partyHandler.DeleteParty))

	// Elections
	mux.HandleFunc("GET /elections", public(electionHandler.ListElections))
	mux.HandleFunc("GET /elections/{year}", public(electionHandler.GetElection))
	mux.HandleFunc("POST /elections", admin(electionHandler.CreateElection))
	mux.HandleFunc("DELETE /elections/{year}", admin(electionHandler.DeleteElection))

	// Calculations
	mux.HandleFunc("POST /calculations/preview", public(calcHandler.Preview))
	mux.HandleFunc("POST /calculations", admin(calcHandler.Calculate))

	// Results
	mux.HandleFunc("GET /results/{year}", public(resultsHandler.GetYearResults))
	mux.HandleFunc("GET /results/{year}/districts/{district}", public(resultsHandler.GetDistrictResult))
	mux.HandleFunc("GET /results/national/{year}", public(resultsHandler.GetNationalResult))
	mux.HandleFunc("GET /results/parties/{party}", public(resultsHandler.GetPartyResults))
	mux.HandleFunc("GET /results/parties/{party}/total/{year}", public(resultsHandler.GetPartyTotal))
	mux.HandleFunc("PUT /results/allocations/{id}", admin(resultsHandler.UpdateAllocation))
	mux.HandleFunc("DELETE /results/{year}/districts/{district}", admin(resultsHandler.DeleteDistrictResult))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("seatcalc API v1"))
	})

	return mux
}
