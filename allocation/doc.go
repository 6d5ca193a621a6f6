// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package allocation distributes the seats of one electoral district among the
contesting parties.

# Rules

A run takes the district's seat count, the total valid votes and the ordered
list of party ballots, then applies a fixed pipeline:

	Validate → Disqualify → Quota → Bonus → FirstRound → Remainder → Aggregate

  - Threshold: 5% of the total valid votes, rounded half up. Parties below it
    are disqualified.
  - Quota: qualified votes divided by the seat count, truncated.
  - Bonus seat: the party with the most votes gets one extra seat. Ties go to
    the party listed first. Disqualification does not affect the bonus.
  - First round: each qualified party gets floor(votes / quota) seats.
  - Second round: seats left after the first round and the bonus go one each
    to the qualified parties with the largest remainders (votes mod quota).
    Equal remainders keep ballot order.

# Usage

	res, err := allocation.Allocate(allocation.Input{
		TotalSeats:      5,
		TotalValidVotes: 1000,
		Ballots: []allocation.PartyBallot{
			{Name: "A", ValidVotes: 500},
			{Name: "B", ValidVotes: 300},
		},
	})

Allocate is a pure function. It keeps no state between calls and is safe to
call from multiple goroutines.
*/
package allocation
