// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/seatcalc/allocation"
	"github.com/danielhkuo/seatcalc/auth"
	"github.com/danielhkuo/seatcalc/db"
	"github.com/danielhkuo/seatcalc/testutil"
)

func TestCreateSchema_Idempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	require.NoError(t, db.CreateSchema(conn))
	require.NoError(t, db.CreateSchema(conn))
}

func TestOpen_UnknownType(t *testing.T) {
	_, err := db.Open("oracle", "whatever")
	assert.Error(t, err)
}

func TestSaveAllocation(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	ctx := context.Background()

	provinceID := testutil.CreateTestProvince(t, conn, "Western")
	testutil.CreateTestDistrict(t, conn, provinceID, "Colombo", 5)
	// Existing party rows are reused, case-insensitively
	existingB := testutil.CreateTestParty(t, conn, "b")

	res, err := allocation.Allocate(testutil.SampleInput())
	require.NoError(t, err)

	id, err := db.SaveAllocation(ctx, conn, db.Run{District: "colombo", Year: 2024, Result: res})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var threshold, qualified, quota, seats int
	err = conn.QueryRow(`
		SELECT threshold, qualified_votes, votes_per_seat, seat_count
		FROM district_election WHERE id = $1
	`, id).Scan(&threshold, &qualified, &quota, &seats)
	require.NoError(t, err)
	assert.Equal(t, 50, threshold)
	assert.Equal(t, 1000, qualified)
	assert.Equal(t, 200, quota)
	assert.Equal(t, 5, seats)

	rows, err := conn.Query(`
		SELECT p.id, p.name, sa.bonus_seat, sa.first_round, sa.second_round, sa.final_seats, sa.disqualified
		FROM seat_allocation sa
		JOIN party p ON sa.party_id = p.id
		WHERE sa.district_election_id = $1
		ORDER BY sa.ballot_order
	`, id)
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		partyID, name                    string
		bonus, first, second, finalSeats int
		disqualified                     bool
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.partyID, &r.name, &r.bonus, &r.first, &r.second, &r.finalSeats, &r.disqualified))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, 4)

	assert.Equal(t, "A", got[0].name)
	assert.Equal(t, []int{1, 2, 0, 3}, []int{got[0].bonus, got[0].first, got[0].second, got[0].finalSeats})
	assert.Equal(t, existingB, got[1].partyID)
	assert.Equal(t, 1, got[2].second)
	assert.Equal(t, 0, got[3].finalSeats)
	assert.False(t, got[3].disqualified)
}

func TestSaveAllocation_TrimsPartyNames(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	provinceID := testutil.CreateTestProvince(t, conn, "Western")
	testutil.CreateTestDistrict(t, conn, provinceID, "Colombo", 5)
	unp := testutil.CreateTestParty(t, conn, "UNP")

	res, err := allocation.Allocate(allocation.Input{
		TotalSeats:      5,
		TotalValidVotes: 1000,
		Ballots: []allocation.PartyBallot{
			{Name: "UNP ", ValidVotes: 600},
			{Name: " SLPP", ValidVotes: 400},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "UNP", res.Parties[0].Name)

	_, err = db.SaveAllocation(context.Background(), conn, db.Run{District: "Colombo", Year: 2024, Result: res})
	require.NoError(t, err)

	rows, err := conn.Query(`SELECT id, name FROM party ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()

	var ids, names []string
	for rows.Next() {
		var id, name string
		require.NoError(t, rows.Scan(&id, &name))
		ids = append(ids, id)
		names = append(names, name)
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, []string{"SLPP", "UNP"}, names)
	assert.Equal(t, unp, ids[1])
}

func TestSaveAllocation_RejectsDuplicateRun(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	ctx := context.Background()

	provinceID := testutil.CreateTestProvince(t, conn, "Western")
	testutil.CreateTestDistrict(t, conn, provinceID, "Colombo", 5)
	testutil.SaveTestResult(t, conn, "Colombo", 2024, testutil.SampleInput())

	exists, err := db.ResultExists(ctx, conn, "COLOMBO", 2024)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.ResultExists(ctx, conn, "Colombo", 2020)
	require.NoError(t, err)
	assert.False(t, exists)

	res, err := allocation.Allocate(testutil.SampleInput())
	require.NoError(t, err)
	_, err = db.SaveAllocation(ctx, conn, db.Run{District: "Colombo", Year: 2024, Result: res})
	assert.True(t, errors.Is(err, db.ErrResultExists))
}

func TestSaveAllocation_UnknownDistrictWritesNothing(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	res, err := allocation.Allocate(testutil.SampleInput())
	require.NoError(t, err)

	_, err = db.SaveAllocation(context.Background(), conn, db.Run{District: "Nowhere", Year: 2024, Result: res})
	require.True(t, errors.Is(err, db.ErrDistrictNotFound), "got %v", err)

	// The election row created earlier in the transaction is rolled back
	var elections, parties int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM election`).Scan(&elections))
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM party`).Scan(&parties))
	assert.Zero(t, elections)
	assert.Zero(t, parties)
}

func TestLoadProvinceDistricts(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	west := testutil.CreateTestProvince(t, conn, "Western")
	central := testutil.CreateTestProvince(t, conn, "Central")
	testutil.CreateTestProvince(t, conn, "Empty")
	testutil.CreateTestDistrict(t, conn, west, "Gampaha", 18)
	testutil.CreateTestDistrict(t, conn, west, "Colombo", 19)
	testutil.CreateTestDistrict(t, conn, central, "Kandy", 12)

	groups, err := db.LoadProvinceDistricts(context.Background(), conn)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "Central", groups[0].Province.Name)
	assert.Equal(t, "Western", groups[1].Province.Name)
	require.Len(t, groups[1].Districts, 2)
	assert.Equal(t, "Colombo", groups[1].Districts[0].Name)
	assert.Equal(t, 19, groups[1].Districts[0].SeatCount)
}

func TestSeedAdmin(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	ctx := context.Background()

	require.NoError(t, db.SeedAdmin(ctx, conn, "admin", "new-password"))
	// Empty password keeps the stored hash
	require.NoError(t, db.SeedAdmin(ctx, conn, "admin", ""))

	var hash string
	require.NoError(t, conn.QueryRow(`SELECT password_hash FROM app_user WHERE username = $1`, "admin").Scan(&hash))
	assert.NoError(t, auth.CheckPassword(hash, "new-password"))
	assert.Error(t, auth.CheckPassword(hash, testutil.TestAdminPassword))
}
