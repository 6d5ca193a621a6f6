// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the seatcalc API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AuthHandler: admin login
  - ProvinceHandler, DistrictHandler: the electoral map and seat counts
  - PartyHandler, ElectionHandler: parties and election years
  - CalculationHandler: runs the allocation engine
  - ResultsHandler: stored results, national totals, manual corrections

Handlers are created via constructor functions that accept *sql.DB and Config:

	calcHandler := handlers.NewCalculationHandler(db, cfg)

# Calculations

	POST /calculations/preview → Preview (nothing stored)
	POST /calculations         → Calculate (one result per district and year)

A request without total_seats uses the district's seat count. Ballot
votes that sum above total_valid_votes are accepted and logged.

# Results

	GET /results/{year}                      → GetYearResults
	GET /results/{year}/districts/{district} → GetDistrictResult
	GET /results/national/{year}             → GetNationalResult
	PUT /results/allocations/{id}            → UpdateAllocation

UpdateAllocation keeps a district at one bonus seat and never above its
seat count.

Mutating routes are wrapped in middleware.RequireAdmin by the router;
handlers themselves do not check the admin key.
*/
package handlers
