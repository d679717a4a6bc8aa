package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"stcss/internal/diag"
	"stcss/internal/diagfmt"
	"stcss/internal/source"
	"stcss/internal/version"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] [file.st.css|directory]...",
	Short: "Report diagnostics for stylesheets",
	Long:  `Analyze and link stylesheets without writing output and print every diagnostic`,
	RunE:  runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
}

type diagOutputOpts struct {
	format    string
	withNotes bool
	pathMode  diagfmt.PathMode
	color     bool
	args      []string
}

// applyWarningPolicy drops or promotes warnings in place.
func applyWarningPolicy(bag *diag.Bag, noWarnings, warningsAsErrors bool) {
	switch {
	case noWarnings:
		bag.Filter(func(d *diag.Diagnostic) bool { return d.Severity != diag.SevWarning })
	case warningsAsErrors:
		bag.Transform(func(d *diag.Diagnostic) {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
		})
	}
}

func writeDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts diagOutputOpts) error {
	switch opts.format {
	case "pretty":
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     opts.color,
			Context:   1,
			PathMode:  opts.pathMode,
			ShowNotes: opts.withNotes,
		})
		return nil
	case "short":
		return diagfmt.Short(w, bag, fs, opts.withNotes)
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode,
			IncludeNotes:     opts.withNotes,
		})
	case "sarif":
		return diagfmt.Sarif(w, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "stcss",
			ToolVersion:    version.Version,
			InvocationArgs: opts.args,
			PathMode:       opts.pathMode,
		})
	}
	return fmt.Errorf("unknown format: %s", opts.format)
}

// runDiagnose compiles the targets without writing CSS and prints the
// diagnostics in the chosen format. Errors make the command fail without
// extra output.
func runDiagnose(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = env.log.Sync() }()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	warningsAsErrors = warningsAsErrors || (env.warningsAsErrors && !noWarnings)
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathModeStr)
	if !ok {
		return fmt.Errorf("unknown path mode: %s", pathModeStr)
	}

	paths, err := env.targets(args)
	if err != nil {
		return err
	}
	res, err := env.session(nil, nil, nil).Compile(cmd.Context(), paths)
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}

	applyWarningPolicy(res.Bag, noWarnings, warningsAsErrors)
	opts := diagOutputOpts{
		format:    format,
		withNotes: withNotes,
		pathMode:  pathMode,
		color:     env.color,
		args:      os.Args,
	}
	if err := writeDiagnostics(cmd.OutOrStdout(), res.Bag, res.FileSet, opts); err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}
	if env.timings {
		fmt.Fprint(cmd.ErrOrStderr(), formatTimings(res.Timings))
	}

	if res.Bag.HasErrors() {
		// диагностики уже напечатаны
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	return nil
}
