package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"stcss/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new stcss project",
	Long: `Initialize a new stcss project by creating a project manifest (stcss.toml)
and a starter stylesheet (src/main.st.css). If [path|name] is omitted, initializes
the current directory. A non-existing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	target := wd
	if len(args) > 0 && args[0] != "." {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(wd, target)
		}
	}
	created, err := initProject(target)
	if err != nil {
		return err
	}

	rel := formatPathForOutput(wd, target)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized stcss project in %s\n", rel)
	for _, f := range created {
		fmt.Fprintf(out, "  - %s\n", f)
	}
	return nil
}

// initProject writes the manifest and, unless it exists, the starter sheet.
// It refuses to touch a directory that already has a manifest.
func initProject(target string) ([]string, error) {
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "stcss-project"
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return nil, fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(project.Template(name)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	created := []string{project.ManifestName}

	mainPath := filepath.Join(target, "src", "main.st.css")
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(mainPath), 0o755); err != nil {
			return created, fmt.Errorf("failed to create src: %w", err)
		}
		if err := os.WriteFile(mainPath, []byte(defaultMainSheet), 0o600); err != nil {
			return created, fmt.Errorf("failed to write main.st.css: %w", err)
		}
		created = append(created, "src/main.st.css")
	} else {
		created = append(created, "src/main.st.css (existing)")
	}
	return created, nil
}

const defaultMainSheet = `/* every class compiles to <namespace>__<name> */
.root {
    display: flex;
}

.title {
    font-weight: bold;
}

/* type selectors need a scoped selector before them */
.root button {
    margin: 0;
}
`
