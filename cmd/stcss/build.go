// Package main implements the stcss CLI.
package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stcss/internal/buildpipeline"
	"stcss/internal/diag"
	"stcss/internal/diagfmt"
	"stcss/internal/driver"
	"stcss/internal/observ"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.st.css|directory]...",
	Short: "Compile stylesheets into scoped CSS",
	Long:  "Compile stylesheets and write <out>/<name>.css for each one. Without arguments the [project].src directory of stcss.toml is compiled.",
	RunE:  buildExecution,
}

func init() {
	buildCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	buildCmd.Flags().String("out", "", "output directory (overrides [project].out)")
	buildCmd.Flags().String("metrics-file", "", "write Prometheus metrics in text format to this file")
	buildCmd.Flags().Bool("disk-cache", false, "reuse compiled CSS from the user cache directory")
	buildCmd.Flags().Bool("warnings-as-errors", false, "fail the build on warnings")
}

func buildExecution(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = env.log.Sync() }()

	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	showUI, err := useProgressUI(uiValue, env.quiet)
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		env.outDir = out
	}
	metricsFile, err := cmd.Flags().GetString("metrics-file")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("disk-cache") {
		if env.diskCache, err = cmd.Flags().GetBool("disk-cache"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("warnings-as-errors") {
		if env.warningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
			return err
		}
	}

	paths, err := env.targets(args)
	if err != nil {
		return err
	}
	if outside := len(paths) - len(buildpipeline.FilterUnder(paths, env.srcDir)); outside > 0 {
		env.log.Warn("stylesheets outside the source directory are written by base name", zap.Int("count", outside))
	}

	metrics := observ.NewMetrics()
	var dc *driver.DiskCache
	if env.diskCache {
		dc = env.openDiskCache()
	}

	compile := func(progress buildpipeline.ProgressSink) (*driver.Result, error) {
		return env.session(metrics, dc, progress).Compile(cmd.Context(), paths)
	}
	var res *driver.Result
	if showUI {
		res, err = compileWithUI(cmd.Context(), "stcss build", buildpipeline.DisplayFiles(paths, env.root), compile)
	} else {
		res, err = compile(nil)
	}
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	applyWarningPolicy(res.Bag, false, env.warningsAsErrors)
	if res.Bag.Len() > 0 {
		diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     env.color,
			Context:   1,
			ShowNotes: true,
		})
	}

	failed := res.HasErrors()
	var written []string
	if !failed {
		start := time.Now()
		written, err = driver.WriteOutputs(res.Files, env.srcDir, env.outDir)
		dur := time.Since(start)
		res.Timings.Set(buildpipeline.StageEmit, dur)
		metrics.ObservePhase(string(buildpipeline.StageEmit), dur)
		if err != nil {
			return err
		}
	}

	if metricsFile != "" {
		if err := metrics.WriteTextfile(metricsFile); err != nil {
			env.log.Warn("failed to write metrics", zap.String("path", metricsFile), zap.Error(err))
		}
	}
	if env.timings {
		fmt.Fprint(cmd.ErrOrStderr(), formatTimings(res.Timings))
	}
	if failed {
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	if !env.quiet {
		fmt.Fprintln(cmd.OutOrStdout(), buildSummary(res, written, env))
	}
	return nil
}

func buildSummary(res *driver.Result, written []string, env *cliEnv) string {
	var size, cached int
	for _, fr := range res.Files {
		size += len(fr.CSS)
		if fr.DiskCached {
			cached++
		}
	}
	summary := fmt.Sprintf("built %d %s (%s) into %s in %.1f ms",
		len(written), plural(len(written), "stylesheet"), humanize.Bytes(uint64(size)),
		formatPathForOutput(env.root, env.outDir), res.Timing.TotalMS)
	if cached > 0 {
		summary += fmt.Sprintf(", %d from cache", cached)
	}
	if warnings := res.Bag.Count(diag.SevWarning); warnings > 0 {
		summary += fmt.Sprintf(", %s %s", humanize.Comma(int64(warnings)), plural(warnings, "warning"))
	}
	return summary
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
