// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package allocation

import (
	"sort"
	"strings"
)

// Each stage returns its own record; no stage writes into another's slices.

type disqualification struct {
	threshold      int
	disqualified   []bool
	votes          int // sum of disqualified votes
	parties        int // number of disqualified parties
	qualifiedVotes int
}

type firstRound struct {
	seats     []int
	allocated int
}

type secondRound struct {
	seats     []int
	remaining int
}

// threshold is 5% of total, rounded half up. Integer arithmetic keeps it
// exact for any vote count.
func threshold(total int) int {
	return (total*5 + 50) / 100
}

func disqualify(total int, votes []int) disqualification {
	dq := disqualification{
		threshold:    threshold(total),
		disqualified: make([]bool, len(votes)),
	}
	for i, v := range votes {
		if v < dq.threshold {
			dq.disqualified[i] = true
			dq.votes += v
			dq.parties++
		}
	}
	dq.qualifiedVotes = total - dq.votes
	return dq
}

// quota truncates. A zero or negative result means no party can fill a seat.
func quota(qualifiedVotes, seats int) (int, error) {
	if seats <= 0 {
		return 0, &DivisionError{Seats: seats}
	}
	return qualifiedVotes / seats, nil
}

// resolveBonus returns the first index holding the strictly greatest count.
// It ignores disqualification on purpose.
func resolveBonus(votes []int) int {
	best := 0
	for i := 1; i < len(votes); i++ {
		if votes[i] > votes[best] {
			best = i
		}
	}
	return best
}

func allocateFirstRound(votes []int, dq disqualification, votesPerSeat int) firstRound {
	fr := firstRound{seats: make([]int, len(votes))}
	if votesPerSeat <= 0 {
		return fr
	}
	for i, v := range votes {
		if dq.disqualified[i] {
			continue
		}
		fr.seats[i] = v / votesPerSeat
		fr.allocated += fr.seats[i]
	}
	return fr
}

// allocateRemainders hands out what is left after the first round and the
// bonus seat, at most one seat per party.
func allocateRemainders(votes []int, dq disqualification, votesPerSeat int, fr firstRound, totalSeats int) secondRound {
	sr := secondRound{
		seats:     make([]int, len(votes)),
		remaining: totalSeats - fr.allocated - 1,
	}
	if sr.remaining <= 0 || votesPerSeat <= 0 {
		return sr
	}

	ranked := make([]int, 0, len(votes))
	for i := range votes {
		if !dq.disqualified[i] {
			ranked = append(ranked, i)
		}
	}

	// Stable: equal remainders keep ballot order
	sort.SliceStable(ranked, func(a, b int) bool {
		return votes[ranked[a]]%votesPerSeat > votes[ranked[b]]%votesPerSeat
	})

	for n := 0; n < sr.remaining && n < len(ranked); n++ {
		sr.seats[ranked[n]] = 1
	}
	return sr
}

func aggregate(in Input, dq disqualification, votesPerSeat, bonus int, fr firstRound, sr secondRound) Result {
	res := Result{
		TotalSeats:          in.TotalSeats,
		TotalValidVotes:     in.TotalValidVotes,
		Threshold:           dq.threshold,
		DisqualifiedVotes:   dq.votes,
		DisqualifiedParties: dq.parties,
		QualifiedVotes:      dq.qualifiedVotes,
		VotesPerSeat:        votesPerSeat,
		RemainingSeats:      sr.remaining,
		BonusIndex:          bonus,
		Parties:             make([]PartyResult, len(in.Ballots)),
	}

	for i, b := range in.Ballots {
		p := PartyResult{
			Name:             strings.TrimSpace(b.Name),
			ValidVotes:       b.ValidVotes,
			Disqualified:     dq.disqualified[i],
			FirstRoundSeats:  fr.seats[i],
			SecondRoundSeats: sr.seats[i],
		}
		if i == bonus {
			p.BonusSeat = 1
		}
		p.FinalSeats = p.FirstRoundSeats + p.SecondRoundSeats + p.BonusSeat
		res.Parties[i] = p
	}

	return res
}
