package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stcss/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the stcss disk cache",
	Long:  "Remove the compiled-CSS disk cache. With --out the project's output directory is removed too.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().Bool("out", false, "also remove the output directory ([project].out)")
}

func runClean(cmd *cobra.Command, _ []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	removeOut, err := cmd.Flags().GetBool("out")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	dc, err := driver.OpenDiskCache("stcss")
	if err != nil {
		return fmt.Errorf("failed to open disk cache: %w", err)
	}
	if err := dc.DropAll(); err != nil {
		return fmt.Errorf("failed to clear %q: %w", dc.Dir(), err)
	}
	if !env.quiet {
		fmt.Fprintf(out, "cleared %s\n", dc.Dir())
	}

	if !removeOut {
		return nil
	}
	if !env.manifestFound {
		return errors.New(noManifestMessage)
	}
	info, err := os.Stat(env.outDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(out, "output directory not found")
			return nil
		}
		return fmt.Errorf("failed to stat %q: %w", env.outDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", env.outDir)
	}
	if err := os.RemoveAll(env.outDir); err != nil {
		return fmt.Errorf("failed to remove %q: %w", env.outDir, err)
	}
	if !env.quiet {
		fmt.Fprintf(out, "removed %s\n", formatPathForOutput(env.root, env.outDir))
	}
	return nil
}
