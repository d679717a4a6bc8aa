package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"stcss/internal/diagfmt"
)

var transformCmd = &cobra.Command{
	Use:   "transform [flags] <file.st.css>",
	Short: "Print the compiled CSS of one stylesheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runTransform,
}

func init() {
	transformCmd.Flags().Bool("diff", false, "print a line diff between the source and the compiled CSS")
}

func runTransform(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = env.log.Sync() }()

	showDiff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	res, err := env.session(nil, nil, nil).Compile(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("transform failed: %w", err)
	}
	if res.Bag.Len() > 0 {
		diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.FileSet, diagfmt.PrettyOpts{Color: env.color, Context: 1, ShowNotes: true})
	}
	fr := res.Files[0]
	if fr.Meta == nil {
		cmd.SilenceErrors = true
		return errDiagnostics
	}

	out := cmd.OutOrStdout()
	if showDiff {
		writeLineDiff(out, string(fr.Meta.Source.Content), fr.CSS)
	} else {
		_, err = io.WriteString(out, fr.CSS)
	}
	if err == nil && res.HasErrors() {
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	return err
}

// writeLineDiff prints before/after as a unified-style line diff: removed
// lines start with "-", added with "+", unchanged with a space.
func writeLineDiff(w io.Writer, before, after string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				removed.Fprintln(w, "-"+line)
			case diffmatchpatch.DiffInsert:
				added.Fprintln(w, "+"+line)
			case diffmatchpatch.DiffEqual:
				fmt.Fprintln(w, " "+line)
			}
		}
	}
}
