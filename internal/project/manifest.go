package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrProjectSectionMissing indicates that [project] is missing in stcss.toml.
	ErrProjectSectionMissing = errors.New("missing [project]")
	// ErrProjectNameMissing indicates that [project].name is missing or empty.
	ErrProjectNameMissing = errors.New("missing [project].name")
)

// Manifest is the decoded stcss.toml with defaults applied.
type Manifest struct {
	Path string `toml:"-"`
	Root string `toml:"-"`

	Project ProjectSection `toml:"project"`
	Build   BuildSection   `toml:"build"`
	Log     LogSection     `toml:"log"`
}

type ProjectSection struct {
	Name string `toml:"name"`
	Src  string `toml:"src"`
	Out  string `toml:"out"`
}

type BuildSection struct {
	Jobs             int  `toml:"jobs"`
	MaxDiagnostics   int  `toml:"max_diagnostics"`
	WarningsAsErrors bool `toml:"warnings_as_errors"`
	DiskCache        bool `toml:"disk_cache"`
}

type LogSection struct {
	Level string `toml:"level"`
}

// DefaultManifest returns the values used for keys the manifest leaves out.
func DefaultManifest() Manifest {
	return Manifest{
		Project: ProjectSection{Src: "src", Out: "dist"},
		Build:   BuildSection{MaxDiagnostics: 100},
		Log:     LogSection{Level: "warn"},
	}
}

// LoadManifest decodes stcss.toml at path.
func LoadManifest(path string) (*Manifest, error) {
	cfg := DefaultManifest()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !md.IsDefined("project") {
		return nil, fmt.Errorf("%s: %w", path, ErrProjectSectionMissing)
	}
	cfg.Project.Name = strings.TrimSpace(cfg.Project.Name)
	if cfg.Project.Name == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrProjectNameMissing)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Build.Jobs < 0 {
		return nil, fmt.Errorf("%s: [build].jobs must be >= 0", path)
	}
	if cfg.Project.Src == "" {
		cfg.Project.Src = "."
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	return &cfg, nil
}

// LoadNearest finds and loads the manifest above startDir. ok is false when
// there is none.
func LoadNearest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadManifest(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// SrcDir is the absolute source directory.
func (m *Manifest) SrcDir() string {
	return m.resolve(m.Project.Src)
}

// OutDir is the absolute output directory.
func (m *Manifest) OutDir() string {
	return m.resolve(m.Project.Out)
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}

// Template is written by `stcss init`.
func Template(name string) string {
	return fmt.Sprintf(`[project]
name = %q
src = "src"
out = "dist"

[build]
jobs = 0
max_diagnostics = 100
warnings_as_errors = false
disk_cache = false

[log]
level = "warn"
`, name)
}
