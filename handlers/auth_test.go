// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/seatcalc/auth"
	"github.com/danielhkuo/seatcalc/models"
	"github.com/danielhkuo/seatcalc/testutil"
)

func TestLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(db, cfg)

	testCases := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "valid credentials",
			body:           models.LoginRequest{Username: testutil.TestAdminUser, Password: testutil.TestAdminPassword},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			body:           models.LoginRequest{Username: testutil.TestAdminUser, Password: "wrong"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown user",
			body:           models.LoginRequest{Username: "nobody", Password: "secret"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing password",
			body:           models.LoginRequest{Username: testutil.TestAdminUser},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown field",
			body:           map[string]string{"user": "admin", "password": "admin123"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/login", tc.body, nil)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)

			if tc.expectedStatus == http.StatusOK {
				var resp models.LoginResponse
				testutil.AssertJSON(t, w, &resp)

				if resp.Username != testutil.TestAdminUser {
					t.Errorf("Expected username %q, got %q", testutil.TestAdminUser, resp.Username)
				}
				if err := auth.ValidateAdminKey(resp.Username, resp.AdminKey, cfg.AdminKeySalt); err != nil {
					t.Errorf("Returned admin key does not validate: %v", err)
				}
			}
		})
	}
}
