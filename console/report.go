// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package console

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/seatcalc/allocation"
)

// WriteReport prints every stage of a run in pipeline order
func WriteReport(w io.Writer, res allocation.Result) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("\nDisqualification Threshold: %s votes (5%% of total valid votes)\n", humanize.Comma(int64(res.Threshold)))
	for _, p := range res.Parties {
		if p.Disqualified {
			printf("%s is disqualified with %s votes.\n", p.Name, humanize.Comma(int64(p.ValidVotes)))
		}
	}
	printf("Disqualified Votes: %s (%d %s)\n",
		humanize.Comma(int64(res.DisqualifiedVotes)), res.DisqualifiedParties, plural(res.DisqualifiedParties, "party", "parties"))
	printf("Qualified Votes: %s\n", humanize.Comma(int64(res.QualifiedVotes)))
	printf("Total Votes per Seat: %s\n", humanize.Comma(int64(res.VotesPerSeat)))

	printf("\nBonus Seat Allocation:\n")
	printf("%s receives the bonus seat.\n", res.Winner().Name)

	printf("\nFirst Seat Allocation:\n")
	for _, p := range res.Parties {
		if !p.Disqualified {
			printf("%s => %d %s.\n", p.Name, p.FirstRoundSeats, plural(p.FirstRoundSeats, "seat", "seats"))
		}
	}

	printf("\nSecond Seat Allocation: %d remaining\n", res.RemainingSeats)
	for _, p := range res.Parties {
		if !p.Disqualified {
			printf("%s => %d %s.\n", p.Name, p.SecondRoundSeats, plural(p.SecondRoundSeats, "seat", "seats"))
		}
	}

	printf("\nFinal Seat Allocation:\n")
	for _, p := range res.Parties {
		printf("%s => %d total %s.\n", p.Name, p.FinalSeats, plural(p.FinalSeats, "seat", "seats"))
	}

	if awarded := res.SeatsAwarded(); awarded != res.TotalSeats {
		printf("\nNote: %d seats awarded for a %d seat district.\n", awarded, res.TotalSeats)
	}

	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
