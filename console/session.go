// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danielhkuo/seatcalc/allocation"
	"github.com/danielhkuo/seatcalc/db"
	"github.com/danielhkuo/seatcalc/models"
)

// ErrInputClosed is returned when input ends before a prompt is answered
var ErrInputClosed = errors.New("input closed")

// ErrNoDistricts is returned when there is nothing to pick from
var ErrNoDistricts = errors.New("no provinces with districts found")

// Session asks questions on out and reads one answer per line from in.
// Invalid answers are reported and the question is asked again.
type Session struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewSession(in io.Reader, out io.Writer) *Session {
	return &Session{in: bufio.NewScanner(in), out: out}
}

// Selection is a complete console run: where, when and the ballots
type Selection struct {
	Province models.Province
	District models.District
	Year     int
	Input    allocation.Input
}

// Prompt prints label and returns the trimmed answer
func (s *Session) Prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// PromptInt asks until the answer is an integer no smaller than min
func (s *Session) PromptInt(label string, min int) (int, error) {
	for {
		answer, err := s.Prompt(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= min {
			return n, nil
		}
		fmt.Fprintf(s.out, "Enter a whole number of at least %d.\n", min)
	}
}

// PromptName asks until the answer is not blank
func (s *Session) PromptName(label string) (string, error) {
	for {
		answer, err := s.Prompt(label)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		fmt.Fprintln(s.out, "A name is required.")
	}
}

// Choose lists options numbered from 1 and accepts either the number or
// the option text, ignoring case. Returns the zero-based index.
func (s *Session) Choose(label string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("nothing to choose from")
	}

	for i, opt := range options {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, opt)
	}

	for {
		answer, err := s.Prompt(label)
		if err != nil {
			return 0, err
		}
		if idx, ok := matchOption(answer, options); ok {
			return idx, nil
		}
		fmt.Fprintln(s.out, "Invalid input. Try again.")
	}
}

func matchOption(answer string, options []string) (int, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(options) {
			return n - 1, true
		}
		return 0, false
	}
	for i, opt := range options {
		if strings.EqualFold(answer, opt) {
			return i, true
		}
	}
	return 0, false
}

// Collect walks through province, district, year and ballots
func (s *Session) Collect(catalog []db.ProvinceDistricts) (Selection, error) {
	if len(catalog) == 0 {
		return Selection{}, ErrNoDistricts
	}

	fmt.Fprintln(s.out, "Available Provinces:")
	provinces := make([]string, len(catalog))
	for i, pd := range catalog {
		provinces[i] = pd.Province.Name
	}
	p, err := s.Choose("Select a province by name or number: ", provinces)
	if err != nil {
		return Selection{}, err
	}
	chosen := catalog[p]

	fmt.Fprintf(s.out, "\nDistricts in %s:\n", chosen.Province.Name)
	labels := make([]string, len(chosen.Districts))
	for i, d := range chosen.Districts {
		labels[i] = d.Name
	}
	d, err := s.chooseDistrict(chosen.Districts, labels)
	if err != nil {
		return Selection{}, err
	}
	district := chosen.Districts[d]

	year, err := s.PromptInt("Enter election year: ", 1)
	if err != nil {
		return Selection{}, err
	}

	in, err := s.ReadBallots(district.SeatCount)
	if err != nil {
		return Selection{}, err
	}

	return Selection{
		Province: chosen.Province,
		District: district,
		Year:     year,
		Input:    in,
	}, nil
}

// chooseDistrict is Choose with the seat count shown next to each name
func (s *Session) chooseDistrict(districts []models.District, labels []string) (int, error) {
	for i, d := range districts {
		fmt.Fprintf(s.out, "%d. %s (%d seats)\n", i+1, d.Name, d.SeatCount)
	}
	for {
		answer, err := s.Prompt("Select a district by name or number: ")
		if err != nil {
			return 0, err
		}
		if idx, ok := matchOption(answer, labels); ok {
			return idx, nil
		}
		fmt.Fprintln(s.out, "Invalid input. Try again.")
	}
}

// ReadBallots asks for the parties, the total valid votes and each party's
// votes. Party names must be unique ignoring case.
func (s *Session) ReadBallots(seats int) (allocation.Input, error) {
	count, err := s.PromptInt("Enter number of political parties: ", 1)
	if err != nil {
		return allocation.Input{}, err
	}

	ballots := make([]allocation.PartyBallot, 0, count)
	seen := make(map[string]bool, count)
	for len(ballots) < count {
		name, err := s.PromptName(fmt.Sprintf("Enter Party Name %d: ", len(ballots)+1))
		if err != nil {
			return allocation.Input{}, err
		}
		key := strings.ToLower(name)
		if seen[key] {
			fmt.Fprintf(s.out, "%s is already listed.\n", name)
			continue
		}
		seen[key] = true
		ballots = append(ballots, allocation.PartyBallot{Name: name})
	}

	total, err := s.PromptInt("Enter total valid votes: ", 0)
	if err != nil {
		return allocation.Input{}, err
	}

	for i := range ballots {
		votes, err := s.PromptInt(ballots[i].Name+" total valid votes: ", 0)
		if err != nil {
			return allocation.Input{}, err
		}
		ballots[i].ValidVotes = votes
	}

	return allocation.Input{
		TotalSeats:      seats,
		TotalValidVotes: total,
		Ballots:         ballots,
	}, nil
}
