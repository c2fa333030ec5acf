package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Finish expired activities and repair the activity index once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd)
		},
	}
}

func runSweep(cmd *cobra.Command) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, configPath(cmd), appOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			slog.Warn("failed to close vector indexes", "err", err)
		}
	}()

	result, err := a.activities.Sweep(ctx, time.Now())
	fmt.Fprintf(cmd.OutOrStdout(), "Finished %d activities, reindexed %d\n", result.Finished, result.Reindexed)
	return err
}
