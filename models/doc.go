// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - LoginRequest: username, password
  - ProvinceRequest, DistrictRequest, PartyRequest, ElectionRequest
  - CalculationRequest: district, year, total_valid_votes, ballots
  - UpdateAllocationRequest: manual correction of a stored seat row

# Response Types

  - LoginResponse: admin_key
  - CreatedResponse: id of a new row
  - CalculationResponse: the allocation result plus storage info
  - ErrorResponse: error, message

# Domain Types

Rows as stored in the database:

  - Province, District, Election, Party
  - DistrictElection: summary of one allocation run
  - SeatAllocation: one party's seats in a run
  - DistrictResult: DistrictElection with its SeatAllocation rows
  - NationalResult: seat totals per party for a year

The allocation engine's own types (allocation.PartyBallot,
allocation.Result) are embedded directly in the calculation payloads.
*/
package models
