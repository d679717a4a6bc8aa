package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"stcss/internal/diagfmt"
	"stcss/internal/resolve"
)

var exportsCmd = &cobra.Command{
	Use:   "exports [flags] [file.st.css|directory]...",
	Short: "Print the class map of each stylesheet",
	Long:  "Print, per stylesheet, its namespace and the scoped token every class compiles to.",
	RunE:  runExports,
}

func init() {
	exportsCmd.Flags().String("format", "json", "output format (json|yaml)")
}

type sheetExports struct {
	Path      string           `json:"path" yaml:"path"`
	Namespace string           `json:"namespace" yaml:"namespace"`
	Classes   []resolve.Export `json:"classes" yaml:"classes"`
}

func runExports(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = env.log.Sync() }()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format: %s", format)
	}

	paths, err := env.targets(args)
	if err != nil {
		return err
	}
	res, err := env.session(nil, nil, nil).Compile(cmd.Context(), paths)
	if err != nil {
		return fmt.Errorf("exports failed: %w", err)
	}
	if res.HasErrors() {
		diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, res.FileSet, diagfmt.PrettyOpts{Color: env.color, Context: 1})
	}

	out := make([]sheetExports, 0, len(res.Files))
	for _, fr := range res.Files {
		if fr.Meta == nil {
			continue
		}
		out = append(out, sheetExports{
			Path:      fr.RelPath,
			Namespace: fr.Meta.Namespace,
			Classes:   res.Exports(fr),
		})
	}

	w := cmd.OutOrStdout()
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
