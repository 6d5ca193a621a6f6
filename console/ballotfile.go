// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package console

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/seatcalc/allocation"
)

// BallotFile is the non-interactive form of a console run:
//
//	district: Colombo
//	year: 2020
//	total_seats: 19        # optional, defaults to the district's seat count
//	total_valid_votes: 1000
//	ballots:
//	  - name: A
//	    valid_votes: 500
type BallotFile struct {
	District        string                   `yaml:"district"`
	Year            int                      `yaml:"year"`
	TotalSeats      int                      `yaml:"total_seats"`
	TotalValidVotes int                      `yaml:"total_valid_votes"`
	Ballots         []allocation.PartyBallot `yaml:"ballots"`
}

// Input converts the file into engine input
func (f BallotFile) Input() allocation.Input {
	return allocation.Input{
		TotalSeats:      f.TotalSeats,
		TotalValidVotes: f.TotalValidVotes,
		Ballots:         f.Ballots,
	}
}

// LoadBallotFile reads and parses a YAML ballot file.
// Uses strict parsing: unrecognized keys are rejected.
func LoadBallotFile(path string) (BallotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BallotFile{}, fmt.Errorf("reading ballot file: %w", err)
	}

	var f BallotFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return BallotFile{}, fmt.Errorf("parsing ballot file: %w", err)
	}
	return f, nil
}
