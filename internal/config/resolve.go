package config

import (
	"fmt"
	"os"
	"path"

	"qnxdriver/internal/driver"
	"qnxdriver/internal/target"
)

// DefaultTriple is used when neither the manifest nor the command line
// names a target.
const DefaultTriple = "x86_64-pc-nto-qnx8.0.0"

// Environment variables set by the QNX SDP environment script.
const (
	EnvQNXTarget = "QNX_TARGET"
	EnvQNXHost   = "QNX_HOST"
)

// Overrides are command-line values that win over the manifest.
type Overrides struct {
	Triple  string
	SysRoot string
	Mode    string
}

// Resolved is a target ready for toolchain construction.
type Resolved struct {
	Triple target.Triple
	Driver driver.Context
}

// Resolve applies overrides, expands $VAR references with getenv and fills
// in QNX SDP defaults: the sysroot falls back to $QNX_TARGET and the GCC
// toolchain to $QNX_HOST/usr. A nil getenv means os.Getenv.
func (t Target) Resolve(ov Overrides, getenv func(string) string) (Resolved, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	expand := func(s string) string { return os.Expand(s, getenv) }

	tripleStr := firstNonEmpty(ov.Triple, t.Triple, DefaultTriple)
	triple, err := target.Parse(tripleStr)
	if err != nil {
		return Resolved{}, err
	}
	if !triple.IsQNX() {
		return Resolved{}, fmt.Errorf("target %q is not a QNX triple", tripleStr)
	}
	mode, err := driver.ParseMode(firstNonEmpty(ov.Mode, t.Mode))
	if err != nil {
		return Resolved{}, err
	}

	drv := driver.Context{
		SysRoot:      expand(firstNonEmpty(ov.SysRoot, t.SysRoot)),
		ResourceDir:  expand(t.ResourceDir),
		InstalledDir: expand(t.InstalledDir),
		Mode:         mode,
		CIncludeDirs: expand(t.CIncludeDirs),
		GCCToolchain: expand(t.GCCToolchain),
	}
	for _, p := range t.ProgramPaths {
		drv.ProgramPaths = append(drv.ProgramPaths, expand(p))
	}
	for _, p := range t.GCCPrefixes {
		drv.GCCPrefixes = append(drv.GCCPrefixes, expand(p))
	}
	if drv.SysRoot == "" {
		drv.SysRoot = getenv(EnvQNXTarget)
	}
	if drv.GCCToolchain == "" {
		if host := getenv(EnvQNXHost); host != "" {
			drv.GCCToolchain = path.Join(host, "usr")
		}
	}
	if host := getenv(EnvQNXHost); host != "" && len(drv.ProgramPaths) == 0 {
		drv.ProgramPaths = []string{path.Join(host, "usr", "bin")}
	}
	return Resolved{Triple: triple, Driver: drv}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
