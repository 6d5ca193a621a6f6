// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/seatcalc/allocation"
	"github.com/danielhkuo/seatcalc/models"
	"github.com/danielhkuo/seatcalc/testutil"
)

// TestFullElectionWorkflow tests the complete end-to-end workflow:
// 1. Admin logs in
// 2. Create province and district
// 3. Preview the allocation
// 4. Store the allocation
// 5. Read the district result back
// 6. Check the national totals
// 7. Delete the result and store it again
func TestFullElectionWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	authHandler := NewAuthHandler(db, cfg)
	provinceHandler := NewProvinceHandler(db, cfg)
	districtHandler := NewDistrictHandler(db, cfg)
	calcHandler := NewCalculationHandler(db, cfg)
	resultsHandler := NewResultsHandler(db, cfg)

	// Step 1: Log in
	loginReq := models.LoginRequest{Username: testutil.TestAdminUser, Password: testutil.TestAdminPassword}
	body, _ := json.Marshal(loginReq)
	req := httptest.NewRequest("POST", "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	authHandler.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 1 - Login failed: %d - %s", w.Code, w.Body.String())
	}
	var loginResp models.LoginResponse
	json.NewDecoder(w.Body).Decode(&loginResp)
	if loginResp.AdminKey == "" {
		t.Fatal("Step 1 - Missing admin_key")
	}

	// Step 2: Province and district
	body, _ = json.Marshal(models.ProvinceRequest{Name: "Southern"})
	req = httptest.NewRequest("POST", "/provinces", bytes.NewReader(body))
	w = httptest.NewRecorder()
	provinceHandler.CreateProvince(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 2 - Create province failed: %d - %s", w.Code, w.Body.String())
	}
	var province models.CreatedResponse
	json.NewDecoder(w.Body).Decode(&province)

	body, _ = json.Marshal(models.DistrictRequest{Name: "Galle", ProvinceID: province.ID, SeatCount: 9})
	req = httptest.NewRequest("POST", "/districts", bytes.NewReader(body))
	w = httptest.NewRecorder()
	districtHandler.CreateDistrict(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 2 - Create district failed: %d - %s", w.Code, w.Body.String())
	}
	t.Logf("Step 2 - Created district in province %s", province.ID)

	// Step 3: Preview
	// threshold 3000 disqualifies S, quota 57100/9 = 6344, bonus to P
	// first round P=3 Q=2 R=1, remaining 2 go to T and R by remainder
	calc := models.CalculationRequest{
		District:        "Galle",
		Year:            2022,
		TotalValidVotes: 60000,
		Ballots: []allocation.PartyBallot{
			{Name: "P", ValidVotes: 23000},
			{Name: "Q", ValidVotes: 17000},
			{Name: "R", ValidVotes: 11500},
			{Name: "S", ValidVotes: 2900},
			{Name: "T", ValidVotes: 5600},
		},
	}
	body, _ = json.Marshal(calc)
	req = httptest.NewRequest("POST", "/calculations/preview", bytes.NewReader(body))
	w = httptest.NewRecorder()
	calcHandler.Preview(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Preview failed: %d - %s", w.Code, w.Body.String())
	}
	var preview models.CalculationResponse
	json.NewDecoder(w.Body).Decode(&preview)

	if preview.Result.Threshold != 3000 || preview.Result.DisqualifiedParties != 1 {
		t.Errorf("Step 3 - Unexpected threshold stage: %+v", preview.Result)
	}
	if preview.Result.VotesPerSeat != 6344 {
		t.Errorf("Step 3 - Expected 6344 votes per seat, got %d", preview.Result.VotesPerSeat)
	}
	if got := preview.Result.SeatsAwarded(); got != 9 {
		t.Errorf("Step 3 - Expected 9 seats awarded, got %d", got)
	}

	// Step 4: Store
	req = httptest.NewRequest("POST", "/calculations", bytes.NewReader(body))
	w = httptest.NewRecorder()
	calcHandler.Calculate(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 4 - Calculate failed: %d - %s", w.Code, w.Body.String())
	}
	var saved models.CalculationResponse
	json.NewDecoder(w.Body).Decode(&saved)

	for i, p := range saved.Result.Parties {
		if p.FinalSeats != preview.Result.Parties[i].FinalSeats {
			t.Errorf("Step 4 - %s: stored %d seats, preview had %d", p.Name, p.FinalSeats, preview.Result.Parties[i].FinalSeats)
		}
	}

	// Step 5: Read back
	req = httptest.NewRequest("GET", "/results/2022/districts/Galle", nil)
	req.SetPathValue("year", "2022")
	req.SetPathValue("district", "Galle")
	w = httptest.NewRecorder()
	resultsHandler.GetDistrictResult(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 5 - Get result failed: %d - %s", w.Code, w.Body.String())
	}
	var stored models.DistrictResult
	json.NewDecoder(w.Body).Decode(&stored)

	if stored.ID != saved.DistrictElectionID {
		t.Errorf("Step 5 - Expected id %s, got %s", saved.DistrictElectionID, stored.ID)
	}
	for i, a := range stored.Allocations {
		want := saved.Result.Parties[i]
		if a.Party != want.Name || a.FinalSeats != want.FinalSeats || a.Disqualified != want.Disqualified {
			t.Errorf("Step 5 - Row %d: expected %+v, got %+v", i, want, a)
		}
	}

	// Step 6: National totals
	req = httptest.NewRequest("GET", "/results/national/2022", nil)
	req.SetPathValue("year", "2022")
	w = httptest.NewRecorder()
	resultsHandler.GetNationalResult(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - National result failed: %d - %s", w.Code, w.Body.String())
	}
	var national models.NationalResult
	json.NewDecoder(w.Body).Decode(&national)
	if national.TotalSeats != 9 {
		t.Errorf("Step 6 - Expected 9 seats, got %d", national.TotalSeats)
	}
	if national.Parties[0].Party != "P" {
		t.Errorf("Step 6 - Expected P to lead, got %s", national.Parties[0].Party)
	}

	// Step 7: Delete and recalculate
	req = httptest.NewRequest("DELETE", "/results/2022/districts/Galle", nil)
	req.SetPathValue("year", "2022")
	req.SetPathValue("district", "Galle")
	w = httptest.NewRecorder()
	resultsHandler.DeleteDistrictResult(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Step 7 - Delete failed: %d - %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest("POST", "/calculations", bytes.NewReader(body))
	w = httptest.NewRecorder()
	calcHandler.Calculate(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 7 - Recalculate failed: %d - %s", w.Code, w.Body.String())
	}
}
