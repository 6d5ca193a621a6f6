// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package console runs the interactive allocation flow: pick a province and
// district, enter the year and ballots, then print each allocation stage.
// LoadBallotFile reads the same answers from YAML.
package console
