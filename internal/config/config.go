// Package config loads the qnxdriver manifest: the target description and
// the link steps of a project.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"qnxdriver/internal/driver"
	"qnxdriver/internal/fsutil"
	"qnxdriver/internal/options"
	"qnxdriver/internal/target"
)

// FileNames are the manifest names searched for, in order, in every
// directory from the start directory up to the filesystem root.
var FileNames = []string{"qnxdriver.toml", "qnxdriver.yaml", "qnxdriver.yml"}

// ErrNotFound is returned by Discover when no manifest exists.
var ErrNotFound = errors.New("no qnxdriver manifest found")

// Target describes the toolchain every link step is built against.
type Target struct {
	Triple       string   `toml:"triple" yaml:"triple"`
	SysRoot      string   `toml:"sysroot" yaml:"sysroot"`
	ResourceDir  string   `toml:"resource_dir" yaml:"resource_dir"`
	InstalledDir string   `toml:"installed_dir" yaml:"installed_dir"`
	Mode         string   `toml:"mode" yaml:"mode"`
	CIncludeDirs string   `toml:"c_include_dirs" yaml:"c_include_dirs"`
	ProgramPaths []string `toml:"program_paths" yaml:"program_paths"`
	GCCToolchain string   `toml:"gcc_toolchain" yaml:"gcc_toolchain"`
	GCCPrefixes  []string `toml:"gcc_prefixes" yaml:"gcc_prefixes"`
}

// Link is one [[link]] step.
type Link struct {
	Name     string   `toml:"name" yaml:"name"`
	Output   string   `toml:"output" yaml:"output"`
	NoOutput bool     `toml:"no_output" yaml:"no_output"`
	Inputs   []string `toml:"inputs" yaml:"inputs"`
	Args     []string `toml:"args" yaml:"args"`
	Mode     string   `toml:"mode" yaml:"mode"`
}

type file struct {
	Target *Target `toml:"target" yaml:"target"`
	Links  []Link  `toml:"link" yaml:"link"`
}

// Manifest is a loaded manifest.
type Manifest struct {
	Path   string
	Root   string
	Target Target
	Links  []Link
}

// Find walks upward from startDir and returns the first manifest path.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !fsutil.IsNotExist(err) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Discover finds and loads the manifest above startDir.
func Discover(startDir string) (*Manifest, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return Load(path)
}

// Load reads a TOML or YAML manifest, chosen by extension.
func Load(path string) (*Manifest, error) {
	var (
		f   file
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		f, err = decodeTOML(path)
	case ".yaml", ".yml":
		f, err = decodeYAML(path)
	default:
		return nil, fmt.Errorf("%s: unsupported manifest format %q (expected .toml, .yaml or .yml)", path, ext)
	}
	if err != nil {
		return nil, err
	}
	if err := validate(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Target: *f.Target,
		Links:  f.Links,
	}, nil
}

func decodeTOML(path string) (file, error) {
	var f file
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return file{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("target") || f.Target == nil {
		return file{}, fmt.Errorf("%s: missing [target]", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return file{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return f, nil
}

func decodeYAML(path string) (file, error) {
	fh, err := os.Open(path)
	if err != nil {
		return file{}, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer fh.Close()

	var f file
	dec := yaml.NewDecoder(fh)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return file{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	if f.Target == nil {
		return file{}, fmt.Errorf("%s: missing target", path)
	}
	return f, nil
}

func validate(f file) error {
	if f.Target.Triple != "" {
		if _, err := target.Parse(f.Target.Triple); err != nil {
			return fmt.Errorf("target.triple: %w", err)
		}
	}
	if _, err := driver.ParseMode(f.Target.Mode); err != nil {
		return fmt.Errorf("target.mode: %w", err)
	}
	seen := make(map[string]int, len(f.Links))
	for i, l := range f.Links {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			return fmt.Errorf("link[%d]: missing name", i)
		}
		if j, dup := seen[name]; dup {
			return fmt.Errorf("link[%d]: duplicate name %q (first defined at link[%d])", i, name, j)
		}
		seen[name] = i
		parsed, err := options.Parse(l.Args)
		if err != nil {
			return fmt.Errorf("link %q: args: %w", name, err)
		}
		switch {
		case parsed.HasOutput && parsed.Output == "":
			return fmt.Errorf("link %q: empty -o in args", name)
		case parsed.HasOutput && (l.Output != "" || l.NoOutput):
			return fmt.Errorf("link %q: -o in args conflicts with output/no_output", name)
		case l.Output != "" && l.NoOutput:
			return fmt.Errorf("link %q: output and no_output are exclusive", name)
		case l.Output == "" && !l.NoOutput && !parsed.HasOutput:
			return fmt.Errorf("link %q: missing output (set output, no_output = true, or -o in args)", name)
		}
		if _, err := driver.ParseMode(l.Mode); err != nil {
			return fmt.Errorf("link %q: %w", name, err)
		}
	}
	return nil
}
