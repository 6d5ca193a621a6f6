// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Admin Routes

Mutating routes require an admin key issued by POST /login:

	mux.HandleFunc("POST /districts", middleware.WithLogging(
		middleware.RequireAdmin(cfg, h.CreateDistrict)))

The key is read from X-Admin-Key. X-Admin-User names its owner and
defaults to the configured admin username.

# CORS

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigins, mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization, X-Admin-Key, X-Admin-User.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

ParseJSONBody rejects unknown fields:

	var req models.CalculationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
