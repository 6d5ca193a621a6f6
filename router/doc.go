// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the seatcalc API.

	mux := router.NewRouter(db, cfg)

Every route except /health and / is wrapped in middleware.WithLogging.
Routes that change data are also wrapped in middleware.RequireAdmin and
need an X-Admin-Key from POST /login.

# Endpoints

Public reads:

	GET /provinces, /provinces/{id}, /provinces/{id}/districts, /provinces/{id}/seats
	GET /districts[?with_seats=true], /districts/{id}
	GET /parties, /parties/{id}, /parties/year/{year}, /parties/below-threshold/{year}
	GET /elections, /elections/{year}
	GET /results/{year}, /results/{year}/districts/{district}
	GET /results/national/{year}
	GET /results/parties/{party}, /results/parties/{party}/total/{year}
	POST /calculations/preview

Admin:

	POST, PUT, DELETE on provinces, districts and parties
	POST /elections, DELETE /elections/{year}
	POST /calculations
	PUT /results/allocations/{id}
	DELETE /results/{year}/districts/{district}
*/
package router
