// Package gccinstall locates a GCC runtime installation (crtbegin.o,
// libgcc) compatible with a target triple.
package gccinstall

import (
	"path"
	"strings"

	"golang.org/x/mod/semver"

	"qnxdriver/internal/fsutil"
	"qnxdriver/internal/target"
)

// libDirs are searched under every prefix, in order.
var libDirs = []string{"lib/gcc", "lib/gcc-cross", "lib64/gcc"}

// Installation describes a detected GCC runtime install.
type Installation struct {
	Triple        string // directory triple, may differ from the target spelling
	Version       string // e.g. "12.2.0"
	InstallPath   string // <prefix>/lib/gcc/<triple>/<version>
	ParentLibPath string // <prefix>/lib
}

// Valid reports whether an installation was found.
func (i Installation) Valid() bool { return i.InstallPath != "" }

// Request configures Detect.
type Request struct {
	Triple target.Triple
	// SysRoot is searched as <sysroot>/usr and <sysroot> when Toolchain is empty.
	SysRoot string
	// Toolchain is the --gcc-toolchain prefix.
	Toolchain string
	// InstallDir is an explicit --gcc-install-dir; it disables searching.
	InstallDir string
	// Prefixes are extra search prefixes tried after the defaults.
	Prefixes []string
}

// Detect finds the newest GCC installation for req.Triple. The second
// result is false when none qualifies; that is not an error.
func Detect(p fsutil.Prober, req Request) (Installation, bool) {
	if req.InstallDir != "" {
		dir := path.Clean(req.InstallDir)
		if !p.Exists(path.Join(dir, "crtbegin.o")) {
			return Installation{}, false
		}
		return Installation{
			Triple:        path.Base(path.Dir(dir)),
			Version:       path.Base(dir),
			InstallPath:   dir,
			ParentLibPath: path.Clean(path.Join(dir, "..", "..", "..")),
		}, true
	}

	var (
		best    Installation
		bestVer string
	)
	for _, prefix := range prefixes(req) {
		for _, libDir := range libDirs {
			for _, alias := range req.Triple.Aliases() {
				base := path.Join(prefix, libDir, alias)
				if !p.IsDir(base) {
					continue
				}
				versions, err := p.ReadDir(base)
				if err != nil {
					continue
				}
				for _, v := range versions {
					sv := canonical(v)
					if sv == "" {
						continue
					}
					dir := path.Join(base, v)
					if !p.Exists(path.Join(dir, "crtbegin.o")) {
						continue
					}
					if bestVer != "" && semver.Compare(sv, bestVer) <= 0 {
						continue
					}
					bestVer = sv
					best = Installation{
						Triple:        alias,
						Version:       v,
						InstallPath:   dir,
						ParentLibPath: path.Join(prefix, path.Dir(libDir)),
					}
				}
			}
		}
	}
	return best, best.Valid()
}

func prefixes(req Request) []string {
	var out []string
	if req.Toolchain != "" {
		out = append(out, req.Toolchain)
	} else {
		out = append(out, fsutil.Concat(req.SysRoot, "/usr"))
		if req.SysRoot != "" {
			out = append(out, req.SysRoot)
		}
	}
	return append(out, req.Prefixes...)
}

// canonical maps a GCC version directory name to a semver string, or ""
// when the name is not a version.
func canonical(v string) string {
	if v == "" || strings.HasPrefix(v, ".") {
		return ""
	}
	sv := "v" + strings.TrimPrefix(v, "v")
	if !semver.IsValid(sv) {
		return ""
	}
	return semver.Canonical(sv)
}
