// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/seatcalc/allocation"
	"github.com/danielhkuo/seatcalc/auth"
	"github.com/danielhkuo/seatcalc/cliparse"
	"github.com/danielhkuo/seatcalc/db"
)

// TestAdminUser and TestAdminPassword are seeded by SetupTestDB
const (
	TestAdminUser     = "admin"
	TestAdminPassword = "admin123"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(cliparse.DatabaseSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	if err := db.SeedAdmin(context.Background(), conn, TestAdminUser, TestAdminPassword); err != nil {
		t.Fatalf("Failed to seed admin: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   ":memory:",
		DatabaseType:  cliparse.DatabaseSQLite,
		AdminKeySalt:  "test-admin-salt",
		AdminUsername: TestAdminUser,
		LogLevel:      "info",
	}
}

// AdminHeaders returns the headers an authenticated admin request carries
func AdminHeaders(cfg cliparse.Config) map[string]string {
	return map[string]string{
		"X-Admin-User": cfg.AdminUsername,
		"X-Admin-Key":  auth.GenerateAdminKey(cfg.AdminUsername, cfg.AdminKeySalt),
	}
}

// CreateTestProvince inserts a province and returns its ID
func CreateTestProvince(t *testing.T, conn *sql.DB, name string) string {
	t.Helper()

	id := auth.GenerateID()
	_, err := conn.Exec(`INSERT INTO province (id, name) VALUES ($1, $2)`, id, name)
	if err != nil {
		t.Fatalf("Failed to create test province: %v", err)
	}
	return id
}

// CreateTestDistrict inserts a district and returns its ID
func CreateTestDistrict(t *testing.T, conn *sql.DB, provinceID, name string, seats int) string {
	t.Helper()

	id := auth.GenerateID()
	_, err := conn.Exec(`
		INSERT INTO district (id, province_id, name, seat_count)
		VALUES ($1, $2, $3, $4)
	`, id, provinceID, name, seats)
	if err != nil {
		t.Fatalf("Failed to create test district: %v", err)
	}
	return id
}

// CreateTestParty inserts a party and returns its ID
func CreateTestParty(t *testing.T, conn *sql.DB, name string) string {
	t.Helper()

	id := auth.GenerateID()
	_, err := conn.Exec(`INSERT INTO party (id, name) VALUES ($1, $2)`, id, name)
	if err != nil {
		t.Fatalf("Failed to create test party: %v", err)
	}
	return id
}

// SaveTestResult allocates in and stores it for district/year
func SaveTestResult(t *testing.T, conn *sql.DB, district string, year int, in allocation.Input) string {
	t.Helper()

	res, err := allocation.Allocate(in)
	if err != nil {
		t.Fatalf("Failed to allocate test result: %v", err)
	}

	id, err := db.SaveAllocation(context.Background(), conn, db.Run{District: district, Year: year, Result: res})
	if err != nil {
		t.Fatalf("Failed to save test result: %v", err)
	}
	return id
}

// SampleInput is the five seat district used across tests:
// A=3, B=1, C=1, D=0 seats
func SampleInput() allocation.Input {
	return allocation.Input{
		TotalSeats:      5,
		TotalValidVotes: 1000,
		Ballots: []allocation.PartyBallot{
			{Name: "A", ValidVotes: 500},
			{Name: "B", ValidVotes: 300},
			{Name: "C", ValidVotes: 150},
			{Name: "D", ValidVotes: 50},
		},
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
