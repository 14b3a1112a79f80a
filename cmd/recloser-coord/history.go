package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sgostarter/librecloser/report"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [report-id]",
		Short: "Show stored reports",
		Long: `Without an argument, lists the reports kept in the configured store.
With a report id, prints that report's solutions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configFileFlag(cmd))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			logger, err := newLogger(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			storage, err := openStorage(ctx, cfg, logger)
			if err != nil {
				return err
			}

			if storage == nil {
				return fmt.Errorf("no report store configured, set --store")
			}

			if len(args) == 0 {
				return printHistory(cmd.OutOrStdout(), storage)
			}

			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad report id %q: %w", args[0], err)
			}

			r, err := storage.Get(id)
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), r)

			return nil
		},
	}

	cmd.Flags().String("store", storeFile, `report store ("file", "redis")`)

	return cmd
}

func printHistory(w io.Writer, storage report.Storage) error {
	rs, err := storage.List(0, 0)
	if err != nil {
		return err
	}

	printHeading(w, "Stored Reports:")

	if len(rs) == 0 {
		_, _ = fmt.Fprintln(w, "[no reports]")

		return nil
	}

	for _, r := range rs {
		_, _ = fmt.Fprintf(w, "%d  %s  down %s (%s)  up %s (%s)  %d range(s)\n", r.ID,
			time.Unix(r.CreatedAt, 0).Format(time.DateTime), r.Downstream.Selection, r.Downstream.Name,
			r.Upstream.Selection, r.Upstream.Name, len(r.Ranges))
	}

	return nil
}
