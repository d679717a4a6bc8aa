package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"stcss/internal/prof"
	"stcss/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "stcss",
	Short:         "Scoped stylesheet compiler",
	Long:          `stcss compiles .st.css stylesheets into namespaced CSS and reports scoping problems`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := readProfileFlags(cmd)
		if err != nil || !opts.Enabled() {
			return err
		}
		profSession, err = prof.Start(opts)
		return err
	},
}

// profSession is stopped by main, so profiles are flushed even when the
// command fails.
var profSession *prof.Session

func readProfileFlags(cmd *cobra.Command) (prof.Options, error) {
	flags := cmd.Root().PersistentFlags()
	var (
		opts prof.Options
		err  error
	)
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return opts, err
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return opts, err
	}
	opts.Trace, err = flags.GetString("exec-trace")
	return opts, err
}

// main registers subcommands and persistent flags, then executes the root command.
// Any returned error exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(exportsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (none|error|warn|info|debug); overrides [log].level")
	rootCmd.PersistentFlags().Int("jobs", 0, "max parallel workers (0=auto)")

	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("exec-trace", "", "write a runtime execution trace to this file")

	err := rootCmd.Execute()
	if stopErr := profSession.Stop(); stopErr != nil {
		fmt.Fprintf(os.Stderr, "failed to write profiles: %v\n", stopErr)
	}
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
