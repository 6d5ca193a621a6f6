// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/seatcalc/models"
	"github.com/danielhkuo/seatcalc/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "seatcalc API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	// 400, 401, 404 are all valid responses depending on handler logic
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"POST", "/login"},

		{"GET", "/provinces"},
		{"GET", "/provinces/test-id"},
		{"GET", "/provinces/test-id/districts"},
		{"GET", "/provinces/test-id/seats"},
		{"POST", "/provinces"},
		{"PUT", "/provinces/test-id"},
		{"DELETE", "/provinces/test-id"},

		{"GET", "/districts"},
		{"GET", "/districts/test-id"},
		{"POST", "/districts"},
		{"PUT", "/districts/test-id"},
		{"DELETE", "/districts/test-id"},

		{"GET", "/parties"},
		{"GET", "/parties/test-id"},
		{"GET", "/parties/year/2020"},
		{"GET", "/parties/below-threshold/2020"},
		{"POST", "/parties"},
		{"PUT", "/parties/test-id"},
		{"DELETE", "/parties/test-id"},

		{"GET", "/elections"},
		{"GET", "/elections/2020"},
		{"POST", "/elections"},
		{"DELETE", "/elections/2020"},

		{"POST", "/calculations/preview"},
		{"POST", "/calculations"},

		{"GET", "/results/2020"},
		{"GET", "/results/2020/districts/Colombo"},
		{"GET", "/results/national/2020"},
		{"GET", "/results/parties/A"},
		{"GET", "/results/parties/A/total/2020"},
		{"PUT", "/results/allocations/test-id"},
		{"DELETE", "/results/2020/districts/Colombo"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"PUT", "/elections/2020"},
		{"POST", "/results/2020"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestAdminRoutesRequireKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	body := models.ProvinceRequest{Name: "Uva"}

	t.Run("without key", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/provinces", body, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("with key", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/provinces", body, testutil.AdminHeaders(cfg))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)
	})

	t.Run("public read", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/provinces", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var provinces []models.Province
		testutil.AssertJSON(t, w, &provinces)
		if len(provinces) != 1 {
			t.Errorf("Expected 1 province, got %d", len(provinces))
		}
	})
}

func TestLoginThenCalculate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	province := testutil.CreateTestProvince(t, db, "Western")
	testutil.CreateTestDistrict(t, db, province, "Colombo", 5)

	login := models.LoginRequest{Username: testutil.TestAdminUser, Password: testutil.TestAdminPassword}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/login", login, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var loginResp models.LoginResponse
	if err := json.NewDecoder(w.Body).Decode(&loginResp); err != nil {
		t.Fatalf("Failed to decode login: %v", err)
	}

	in := testutil.SampleInput()
	calc := models.CalculationRequest{
		District:        "Colombo",
		Year:            2020,
		TotalValidVotes: in.TotalValidVotes,
		Ballots:         in.Ballots,
	}
	headers := map[string]string{
		"X-Admin-User": loginResp.Username,
		"X-Admin-Key":  loginResp.AdminKey,
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/calculations", calc, headers))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/results/parties/A/total/2020", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var total models.PartyTotalResponse
	testutil.AssertJSON(t, w, &total)
	if total.TotalSeats != 3 {
		t.Errorf("Expected 3 seats for A, got %d", total.TotalSeats)
	}
}
