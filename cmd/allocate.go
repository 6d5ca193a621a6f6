// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/seatcalc/allocation"
	"github.com/danielhkuo/seatcalc/cliparse"
	"github.com/danielhkuo/seatcalc/console"
	"github.com/danielhkuo/seatcalc/db"
	"github.com/danielhkuo/seatcalc/models"
)

type allocateOptions struct {
	file   string
	save   bool
	asJSON bool
}

func newAllocateCmd(cfg *cliparse.Config) *cobra.Command {
	var opts allocateOptions

	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Allocate one district's seats from prompts or a ballot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAllocate(cmd, *cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "YAML ballot file (skips the prompts)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Store the result in the database")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")

	return cmd
}

// run is one allocation request after input has been gathered
type run struct {
	district string
	year     int
	input    allocation.Input
}

func runAllocate(cmd *cobra.Command, cfg cliparse.Config, opts allocateOptions) error {
	ctx := cmd.Context()

	var conn *sql.DB
	openDB := func() (*sql.DB, error) {
		if conn != nil {
			return conn, nil
		}
		c, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.CreateSchema(c); err != nil {
			c.Close()
			return nil, err
		}
		conn = c
		return conn, nil
	}
	defer func() {
		if conn != nil {
			conn.Close()
		}
	}()

	var r run
	if opts.file != "" {
		f, err := console.LoadBallotFile(opts.file)
		if err != nil {
			return err
		}
		r = run{district: f.District, year: f.Year, input: f.Input()}

		if r.input.TotalSeats == 0 {
			c, err := openDB()
			if err != nil {
				return err
			}
			d, err := db.FindDistrict(ctx, c, f.District)
			if err != nil {
				return err
			}
			r.district = d.Name
			r.input.TotalSeats = d.SeatCount
		}
	} else {
		c, err := openDB()
		if err != nil {
			return err
		}
		catalog, err := db.LoadProvinceDistricts(ctx, c)
		if err != nil {
			return err
		}
		sel, err := console.NewSession(cmd.InOrStdin(), cmd.OutOrStdout()).Collect(catalog)
		if err != nil {
			return err
		}
		r = run{district: sel.District.Name, year: sel.Year, input: sel.Input}
	}

	res, err := allocation.Allocate(r.input)
	if err != nil {
		return err
	}
	if awarded := res.SeatsAwarded(); awarded != res.TotalSeats {
		slog.Warn("allocation does not fill the seat count",
			"district", r.district, "seats", res.TotalSeats, "awarded", awarded)
	}

	resp := models.CalculationResponse{District: r.district, Year: r.year, Result: res}

	if opts.save {
		c, err := openDB()
		if err != nil {
			return err
		}
		id, err := saveRun(cmd, c, r, res)
		if err != nil {
			return err
		}
		resp.DistrictElectionID = id
		resp.Saved = true
	}

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if err := console.WriteReport(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	if resp.Saved {
		fmt.Fprintln(cmd.OutOrStdout(), "\nElection results saved successfully.")
	}
	return nil
}

func saveRun(cmd *cobra.Command, conn *sql.DB, r run, res allocation.Result) (string, error) {
	if r.district == "" || r.year <= 0 {
		return "", errors.New("--save needs a district and a positive year")
	}

	exists, err := db.ResultExists(cmd.Context(), conn, r.district, r.year)
	if err != nil {
		return "", err
	}
	if exists {
		return "", db.ErrResultExists
	}

	id, err := db.SaveAllocation(cmd.Context(), conn, db.Run{District: r.district, Year: r.year, Result: res})
	if err != nil {
		return "", err
	}

	slog.Info("allocation saved", "district_election_id", id, "district", r.district, "year", r.year)
	return id, nil
}
