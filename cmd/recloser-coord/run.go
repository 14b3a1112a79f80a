package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/pathutils"
	"github.com/sgostarter/librecloser/coordinator"
	"github.com/sgostarter/librecloser/library"
	"github.com/sgostarter/librecloser/report"
	"github.com/sgostarter/librecloser/report/impl/fmstorage"
	"github.com/sgostarter/librecloser/report/impl/redisimpls"
	"github.com/sgostarter/librecloser/resolver"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Search recloser settings that coordinate with the selected devices",
		Long: `Sweeps every recloser curve from pickup-min to pickup-max in 5 A steps and
reports the pickup ranges that keep at least min-time cycles of margin against
the downstream and upstream curves up to coord-max amperes.

With --interactive, missing selections and amperages are asked for, and
instrument ratios or recloser settings not found in the config are prompted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configFileFlag(cmd))
			if err != nil {
				return err
			}

			return runCoordination(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().String("downstream", "", "downstream curve selection, e.g. f14")
	cmd.Flags().String("upstream", "", "upstream curve selection, e.g. b00")
	cmd.Flags().Int("pickup-min", 0, "minimum pickup current for the new recloser in amperes")
	cmd.Flags().Int("pickup-max", 0, "maximum pickup current for the new recloser in amperes")
	cmd.Flags().Int("coord-max", 0, "maximum coordination current in amperes, typically max SC or feeder IOC current")
	cmd.Flags().Int("min-time", 0, "minimum coordination time in cycles")
	cmd.Flags().Bool("interactive", false, "prompt for anything not configured")
	cmd.Flags().String("output", "", "also write the solutions to this file")
	cmd.Flags().String("format", "text", `output file format ("text", "yaml")`)
	cmd.Flags().String("store", storeNone, `keep the report in a store ("none", "file", "redis")`)
	cmd.Flags().Int("workers", 1, "candidate curves searched in parallel")

	return cmd
}

func runCoordination(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := newLogger(cfg, out)
	if err != nil {
		return err
	}

	lib := openLibrary(cfg, logger)

	var res resolver.Resolver = resolver.NewStatic(cfg.Resolver)

	if cfg.Interactive {
		prompt := resolver.NewPrompt(in, out)

		if err := askMissing(out, prompt, lib, &cfg); err != nil {
			return err
		}

		res = resolver.Fallback{Primary: res, Secondary: prompt}
	}

	storage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}

	c := coordinator.NewCoordinator(lib,
		coordinator.WithLogger(logger),
		coordinator.WithRatioResolver(res),
		coordinator.WithChainResolver(res),
		coordinator.WithStorage(storage),
		coordinator.WithWorkers(cfg.Workers))

	r, err := c.Run(ctx, coordinator.Request{
		Downstream: cfg.Downstream,
		Upstream:   cfg.Upstream,
		Params:     cfg.Params,
	})
	if err != nil {
		return err
	}

	printReport(out, r)

	if storage != nil {
		printNotice(out, "report %d stored", r.ID)
	}

	if cfg.Output != "" {
		if err = writeReportFile(cfg.Output, cfg.Format, r); err != nil {
			return err
		}

		printNotice(out, "solutions written to %s", cfg.Output)
	}

	return nil
}

func printReport(out io.Writer, r *report.Report) {
	lines := report.Lines(r)

	printHeading(out, lines[1])

	for _, line := range lines[3:] {
		_, _ = fmt.Fprintln(out, line)
	}
}

func writeReportFile(path, format string, r *report.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	switch format {
	case "", "text":
		err = report.WriteText(f, r)
	case "yaml":
		err = report.WriteYAML(f, r)
	default:
		err = fmt.Errorf("unknown output format %q", format)
	}

	return err
}

func openStorage(ctx context.Context, cfg Config, logger l.Wrapper) (report.Storage, error) {
	switch cfg.Store {
	case "", storeNone:
		return nil, nil
	case storeFile:
		if err := pathutils.MustDirExists(cfg.Storage.Dir); err != nil {
			return nil, err
		}

		return fmstorage.NewFMStorageEx(cfg.Storage.Dir, nil, "reports.json", true), nil
	case storeRedis:
		opts, err := redis.ParseURL(cfg.Storage.RedisURL)
		if err != nil {
			return nil, err
		}

		redisCli := redis.NewClient(opts)

		if err = redisCli.Ping(ctx).Err(); err != nil {
			return nil, err
		}

		return redisimpls.NewRedisReportStorage(cfg.Storage.PreKey, redisCli, logger), nil
	}

	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// askMissing fills in selections and amperages the config left empty.
func askMissing(out io.Writer, prompt *resolver.Prompt, lib *library.Library, cfg *Config) (err error) {
	validSel := func(sel string) bool {
		_, e := lib.Select(sel)

		return e == nil
	}

	if cfg.Downstream == "" || cfg.Upstream == "" {
		if err = printLibrary(out, lib); err != nil {
			return
		}
	}

	if cfg.Downstream == "" {
		cfg.Downstream, err = prompt.Ask("Enter selection for downstream curve. Typically the largest fuse downstream\n"+
			"  or next downstream recloser", "Please enter a valid curve name, such as f14 or r02", validSel)
		if err != nil {
			return
		}
	}

	if cfg.Upstream == "" {
		cfg.Upstream, err = prompt.Ask("Enter selection for upstream curve. Typically the substation breaker\n"+
			"  or next upstream recloser", "Please enter a valid curve name, such as f14 or r02", validSel)
		if err != nil {
			return
		}
	}

	above := func(floor int) func(string) bool {
		return func(s string) bool {
			v, ok := resolver.ParseWholeNumber(s)

			return ok && v > floor
		}
	}

	if !cfg.provided(keyPickupMin, cfg.PickupMin) && !cfg.provided(keyPickupMax, cfg.PickupMax) {
		cfg.PickupMin, err = prompt.AskInt("Enter minimum pickup current for new recloser in Amps\n"+
			"Note: This script only accepts whole numbers", "Please enter a valid amperage")
		if err != nil {
			return
		}
	}

	if !cfg.provided(keyPickupMax, cfg.PickupMax) {
		if cfg.PickupMax, err = askIntAbove(prompt, "Enter maximum pickup current for new recloser in Amps",
			cfg.PickupMin, above); err != nil {
			return
		}
	}

	if !cfg.provided(keyCoordMax, cfg.CoordMaxAmps) {
		if cfg.CoordMaxAmps, err = askIntAbove(prompt, "Enter maximum coordination current in Amps\n"+
			"Typically max SC current or feeder IOC current", cfg.PickupMax, above); err != nil {
			return
		}
	}

	if !cfg.provided(keyMinTime, cfg.MinCoordTime) {
		cfg.MinCoordTime, err = prompt.AskInt("Enter minimum coordination time in cycles",
			"Please enter a valid coordination time")
	}

	return
}

func askIntAbove(prompt *resolver.Prompt, question string, floor int, above func(int) func(string) bool) (int, error) {
	s, err := prompt.Ask(question, fmt.Sprintf("Please enter a valid amperage greater than %dA", floor), above(floor))
	if err != nil {
		return 0, err
	}

	v, _ := resolver.ParseWholeNumber(s)

	return v, nil
}
