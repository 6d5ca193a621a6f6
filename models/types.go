// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "github.com/danielhkuo/seatcalc/allocation"

// User roles
const (
	RoleAdmin = "admin"
)

// Request types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ProvinceRequest struct {
	Name string `json:"name"`
}

type DistrictRequest struct {
	Name       string `json:"name"`
	ProvinceID string `json:"province_id"`
	SeatCount  int    `json:"seat_count"`
}

type PartyRequest struct {
	Name string `json:"name"`
}

type ElectionRequest struct {
	Year int `json:"year"`
}

// CalculationRequest carries one district/year run.
// TotalSeats is optional; the district's seat count is used when it is zero.
type CalculationRequest struct {
	District        string                   `json:"district"`
	Year            int                      `json:"year"`
	TotalSeats      int                      `json:"total_seats,omitempty"`
	TotalValidVotes int                      `json:"total_valid_votes"`
	Ballots         []allocation.PartyBallot `json:"ballots"`
}

// UpdateAllocationRequest is a manual correction of one party's seat row
type UpdateAllocationRequest struct {
	BonusSeat   int `json:"bonus_seat"`
	FirstRound  int `json:"first_round"`
	SecondRound int `json:"second_round"`
	FinalSeats  int `json:"final_seats"`
}

// Response types

type LoginResponse struct {
	Username string `json:"username"`
	AdminKey string `json:"admin_key"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type CalculationResponse struct {
	DistrictElectionID string            `json:"district_election_id,omitempty"`
	District           string            `json:"district"`
	Year               int               `json:"year"`
	Saved              bool              `json:"saved"`
	Result             allocation.Result `json:"result"`
}

type ProvinceSeatsResponse struct {
	ProvinceID string `json:"province_id"`
	Name       string `json:"name"`
	TotalSeats int    `json:"total_seats"`
}

type PartyTotalResponse struct {
	Party      string `json:"party"`
	Year       int    `json:"year"`
	TotalSeats int    `json:"total_seats"`
}

// Domain types

type Province struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type District struct {
	ID         string `json:"id"`
	ProvinceID string `json:"province_id"`
	Name       string `json:"name"`
	SeatCount  int    `json:"seat_count"`
}

type Election struct {
	ID   string `json:"id"`
	Year int    `json:"year"`
}

type Party struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DistrictElection is the stored summary of one allocation run
type DistrictElection struct {
	ID                     string `json:"id"`
	District               string `json:"district"`
	Year                   int    `json:"year"`
	SeatCount              int    `json:"seat_count"`
	TotalValidVotes        int    `json:"total_valid_votes"`
	Threshold              int    `json:"threshold"`
	DisqualifiedVotes      int    `json:"disqualified_votes"`
	DisqualifiedPartyCount int    `json:"disqualified_party_count"`
	QualifiedVotes         int    `json:"qualified_votes"`
	VotesPerSeat           int    `json:"votes_per_seat"`
}

// SeatAllocation is one party's stored seat record
type SeatAllocation struct {
	ID           string `json:"id"`
	Party        string `json:"party"`
	Votes        int    `json:"votes"`
	Disqualified bool   `json:"disqualified"`
	BonusSeat    int    `json:"bonus_seat"`
	FirstRound   int    `json:"first_round"`
	SecondRound  int    `json:"second_round"`
	FinalSeats   int    `json:"final_seats"`
}

type DistrictResult struct {
	DistrictElection
	Allocations []SeatAllocation `json:"allocations"`
}

// PartySeatRecord is a party's allocation in one district and year
type PartySeatRecord struct {
	Year        int    `json:"year"`
	District    string `json:"district"`
	BonusSeat   int    `json:"bonus_seat"`
	FirstRound  int    `json:"first_round"`
	SecondRound int    `json:"second_round"`
	FinalSeats  int    `json:"final_seats"`
}

type PartySeatTotal struct {
	Party      string `json:"party"`
	Votes      int    `json:"votes"`
	TotalSeats int    `json:"total_seats"`
}

type NationalResult struct {
	Year       int              `json:"year"`
	TotalSeats int              `json:"total_seats"`
	Parties    []PartySeatTotal `json:"parties"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
