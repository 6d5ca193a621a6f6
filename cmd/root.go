// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/seatcalc/cliparse"
)

// NewRootCmd builds the seatcalc command tree. Each call returns fresh flag
// state.
func NewRootCmd() *cobra.Command {
	var cfg cliparse.Config

	root := &cobra.Command{
		Use:           "seatcalc",
		Short:         "Parliamentary seat allocation for electoral districts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cliparse.Resolve(&cfg); err != nil {
				return err
			}
			return setupLogging(cfg.LogLevel)
		},
	}

	cliparse.BindFlags(root.PersistentFlags(), &cfg)

	root.AddCommand(newServeCmd(&cfg))
	root.AddCommand(newAllocateCmd(&cfg))

	return root
}

// Execute runs the root command against os.Args
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}
