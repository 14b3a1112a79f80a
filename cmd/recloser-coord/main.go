// Command recloser-coord searches recloser curve and pickup settings that keep
// a coordination margin against a downstream and an upstream device.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recloser-coord",
		Short: "Find recloser settings that coordinate with neighboring devices.",
		Long: `recloser-coord sweeps every recloser curve in the curve library across a
range of pickup currents and reports the settings that keep the required
coordination time against a downstream device (typically the largest fuse or
the next recloser) and an upstream device (typically the substation breaker).

The curve library holds breakerCurves, fuseCurves and recloserCurves folders.
Curves are selected by code, e.g. b00, f14 or r02; see the list command.`,
		SilenceUsage: true,
	}

	cmd.Version = version

	cmd.PersistentFlags().String("config", "", "config file (default is recloser.yaml in the user config dir or .)")
	cmd.PersistentFlags().String("library", ".", "curve library root")
	cmd.PersistentFlags().Bool("trace", false, "log every computation step to the console")
	cmd.PersistentFlags().String("trace-file", "", "append every computation step to this file")

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newHistoryCmd())

	return cmd
}

func configFileFlag(cmd *cobra.Command) string {
	s, _ := cmd.Flags().GetString("config")

	return s
}
