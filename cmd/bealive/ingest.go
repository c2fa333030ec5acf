package main

import (
	"bealive-agent-backend/service/knowledge-base/etl"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Index local company documents into the company information index",
		Long:  "Splits markdown, text and PDF files into chunks and upserts them into the company information index. Re-ingesting a file replaces its chunks.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args)
		},
	}
}

func runIngest(cmd *cobra.Command, files []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, configPath(cmd), appOptions{source: etl.LocalSource{}})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			slog.Warn("failed to close vector indexes", "err", err)
		}
	}()

	out := cmd.OutOrStdout()
	var errs []error
	for _, file := range files {
		chunks, err := a.pipeline.Ingest(ctx, file)
		if err != nil {
			fmt.Fprintf(out, "%s: failed: %v\n", file, err)
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}
		fmt.Fprintf(out, "%s: %d chunks\n", file, chunks)
	}
	return errors.Join(errs...)
}
