package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stcss/internal/buildpipeline"
	"stcss/internal/driver"
	"stcss/internal/meta"
	"stcss/internal/observ"
	"stcss/internal/project"
)

const noManifestMessage = "no stcss.toml found\nplease pass the stylesheets explicitly, e.g.:\n  stcss build src/button.st.css"

// cliEnv is the manifest merged with command-line overrides.
type cliEnv struct {
	manifest      *project.Manifest
	manifestFound bool

	root   string
	srcDir string
	outDir string

	color            bool
	quiet            bool
	timings          bool
	maxDiagnostics   int
	jobs             int
	warningsAsErrors bool
	diskCache        bool

	log *zap.Logger
}

func loadEnv(cmd *cobra.Command) (*cliEnv, error) {
	flags := cmd.Root().PersistentFlags()

	manifest, found, err := project.LoadNearest(".")
	if err != nil {
		return nil, err
	}
	cfg := project.DefaultManifest()
	if found {
		cfg = *manifest
	}

	env := &cliEnv{
		manifest:         manifest,
		manifestFound:    found,
		maxDiagnostics:   cfg.Build.MaxDiagnostics,
		jobs:             cfg.Build.Jobs,
		warningsAsErrors: cfg.Build.WarningsAsErrors,
		diskCache:        cfg.Build.DiskCache,
	}
	if found {
		env.root = manifest.Root
		env.srcDir = manifest.SrcDir()
		env.outDir = manifest.OutDir()
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, wdErr
		}
		env.root = wd
		env.srcDir = wd
		env.outDir = filepath.Join(wd, cfg.Project.Out)
	}

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(colorFlag) {
	case "on":
		env.color = true
	case "off":
		env.color = false
	case "", "auto":
		env.color = isTerminal(os.Stdout)
	default:
		return nil, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
	color.NoColor = !env.color

	if env.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, err
	}
	if env.timings, err = flags.GetBool("timings"); err != nil {
		return nil, err
	}
	if flags.Changed("max-diagnostics") {
		if env.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("jobs") {
		if env.jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
	}

	level := cfg.Log.Level
	if flags.Changed("log-level") {
		if level, err = flags.GetString("log-level"); err != nil {
			return nil, err
		}
	}
	env.log, err = observ.NewLogger(level, os.Stderr, env.color)
	if err != nil {
		return nil, err
	}
	return env, nil
}

// targets expands args into stylesheet paths. Directories are scanned for
// .st.css files; no args means the manifest's source directory.
func (env *cliEnv) targets(args []string) ([]string, error) {
	if len(args) == 0 {
		if !env.manifestFound {
			return nil, errors.New(noManifestMessage)
		}
		args = []string{env.srcDir}
	}
	var out []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", arg, err)
		}
		if !st.IsDir() {
			if !strings.HasSuffix(arg, meta.Extension) {
				env.log.Warn("file without stylesheet extension", zap.String("path", arg))
			}
			out = append(out, arg)
			continue
		}
		found, err := driver.ListSheets(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no %s files found", meta.Extension)
	}
	return out, nil
}

func (env *cliEnv) session(metrics *observ.Metrics, dc *driver.DiskCache, progress buildpipeline.ProgressSink) *driver.Session {
	return driver.NewSession(driver.Options{
		BaseDir:        env.root,
		MaxDiagnostics: env.maxDiagnostics,
		Jobs:           env.jobs,
		Logger:         env.log,
		Metrics:        metrics,
		DiskCache:      dc,
		Progress:       progress,
	})
}

func (env *cliEnv) openDiskCache() *driver.DiskCache {
	dc, err := driver.OpenDiskCache("stcss")
	if err != nil {
		env.log.Warn("disk cache unavailable", zap.Error(err))
		return nil
	}
	return dc
}

func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	if strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
