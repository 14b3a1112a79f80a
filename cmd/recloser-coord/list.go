package main

import (
	"fmt"
	"io"
	"time"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/librecloser/curve"
	"github.com/sgostarter/librecloser/library"
	"github.com/spf13/cobra"
)

const listColumns = 3

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the breaker, fuse and recloser curves of the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configFileFlag(cmd))
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			return printLibrary(cmd.OutOrStdout(), openLibrary(cfg, logger))
		},
	}
}

func openLibrary(cfg Config, logger l.Wrapper) *library.Library {
	return library.NewLibrary(cfg.Library, time.Duration(cfg.CacheMinutes)*time.Minute, logger)
}

// printLibrary lists every curve next to its selection code, three to a row.
func printLibrary(w io.Writer, lib *library.Library) error {
	sections := []struct {
		kind  curve.DeviceKind
		title string
	}{
		{curve.DeviceKindBreaker, "Available Breaker Curves:"},
		{curve.DeviceKindFuse, "Available Fuse Curves:"},
		{curve.DeviceKindRecloser, "Available Recloser Curves:"},
	}

	for _, section := range sections {
		entries, err := lib.Entries(section.kind)
		if err != nil {
			return err
		}

		printHeading(w, section.title)

		for idx, e := range entries {
			sep := " "
			if idx%listColumns == listColumns-1 || idx == len(entries)-1 {
				sep = "\n"
			}

			_, _ = fmt.Fprintf(w, "[%s] %-20s%s", e.Code(), e.Name, sep)
		}

		_, _ = fmt.Fprintln(w)
	}

	return nil
}
