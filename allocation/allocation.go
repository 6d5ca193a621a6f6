// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package allocation

import (
	"fmt"
	"strings"
)

// PartyBallot is one contesting party and its valid votes in the district
type PartyBallot struct {
	Name       string `json:"name" yaml:"name"`
	ValidVotes int    `json:"valid_votes" yaml:"valid_votes"`
}

// Input is everything a single district/year run needs.
// Ballot order is significant: it decides every tie.
type Input struct {
	TotalSeats      int           `json:"total_seats" yaml:"total_seats"`
	TotalValidVotes int           `json:"total_valid_votes" yaml:"total_valid_votes"`
	Ballots         []PartyBallot `json:"ballots" yaml:"ballots"`
}

// PartyResult is the outcome for the ballot at the same index
type PartyResult struct {
	Name             string `json:"name"`
	ValidVotes       int    `json:"valid_votes"`
	Disqualified     bool   `json:"disqualified"`
	BonusSeat        int    `json:"bonus_seat"`
	FirstRoundSeats  int    `json:"first_round_seats"`
	SecondRoundSeats int    `json:"second_round_seats"`
	FinalSeats       int    `json:"final_seats"`
}

// Result is the full outcome of a run
type Result struct {
	TotalSeats          int           `json:"total_seats"`
	TotalValidVotes     int           `json:"total_valid_votes"`
	Threshold           int           `json:"threshold"`
	DisqualifiedVotes   int           `json:"disqualified_votes"`
	DisqualifiedParties int           `json:"disqualified_parties"`
	QualifiedVotes      int           `json:"qualified_votes"`
	VotesPerSeat        int           `json:"votes_per_seat"`
	RemainingSeats      int           `json:"remaining_seats"`
	BonusIndex          int           `json:"bonus_index"`
	Parties             []PartyResult `json:"parties"`
}

// SeatsAwarded sums the final seats of every party
func (r Result) SeatsAwarded() int {
	total := 0
	for _, p := range r.Parties {
		total += p.FinalSeats
	}
	return total
}

// Winner returns the party that received the bonus seat
func (r Result) Winner() PartyResult {
	return r.Parties[r.BonusIndex]
}

// Validate checks the input before any computation
func (in Input) Validate() error {
	if len(in.Ballots) == 0 {
		return &ValidationError{Field: "ballots", Reason: "at least one party is required"}
	}
	if in.TotalSeats <= 0 {
		return &ValidationError{Field: "total_seats", Reason: fmt.Sprintf("must be positive, got %d", in.TotalSeats)}
	}
	if in.TotalValidVotes < 0 {
		return &ValidationError{Field: "total_valid_votes", Reason: fmt.Sprintf("must not be negative, got %d", in.TotalValidVotes)}
	}

	seen := make(map[string]int, len(in.Ballots))
	for i, b := range in.Ballots {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			return &ValidationError{Field: fmt.Sprintf("ballots[%d].name", i), Reason: "must not be empty"}
		}
		key := strings.ToLower(name)
		if prev, ok := seen[key]; ok {
			return &ValidationError{
				Field:  fmt.Sprintf("ballots[%d].name", i),
				Reason: fmt.Sprintf("duplicates ballots[%d] (%q)", prev, in.Ballots[prev].Name),
			}
		}
		seen[key] = i

		if b.ValidVotes < 0 {
			return &ValidationError{Field: fmt.Sprintf("ballots[%d].valid_votes", i), Reason: fmt.Sprintf("must not be negative, got %d", b.ValidVotes)}
		}
	}

	return nil
}

// Allocate runs the full pipeline for one district.
// The only error it returns is a *ValidationError.
func Allocate(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	votes := make([]int, len(in.Ballots))
	for i, b := range in.Ballots {
		votes[i] = b.ValidVotes
	}

	dq := disqualify(in.TotalValidVotes, votes)

	q, err := quota(dq.qualifiedVotes, in.TotalSeats)
	if err != nil {
		// Validate already rejects non-positive seat counts
		return Result{}, &ValidationError{Field: "total_seats", Reason: err.Error()}
	}

	bonus := resolveBonus(votes)
	first := allocateFirstRound(votes, dq, q)
	second := allocateRemainders(votes, dq, q, first, in.TotalSeats)

	return aggregate(in, dq, q, bonus, first, second), nil
}
