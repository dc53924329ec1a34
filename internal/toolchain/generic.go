package toolchain

import (
	"path"
	"slices"
	"strings"

	"qnxdriver/internal/driver"
	"qnxdriver/internal/fsutil"
	"qnxdriver/internal/options"
	"qnxdriver/internal/sanitizer"
	"qnxdriver/internal/target"
)

// linkerNames are the linker executables indexed at construction.
var linkerNames = []string{"ld", "ld.lld", "lld", "ld.bfd", "ld.gold", "ld.mold"}

// GenericConfig configures NewGeneric.
type GenericConfig struct {
	Driver       driver.Context
	Triple       target.Triple
	FilePaths    []string
	ProgramPaths []string
	// Files are resolved against FilePaths once, at construction.
	Files []string
}

// Generic is the generic ELF toolchain base: library search paths, start
// file lookup and linker selection. It performs all filesystem probing in
// NewGeneric and is read-only afterwards.
type Generic struct {
	drv          driver.Context
	triple       target.Triple
	filePaths    []string
	programPaths []string
	files        map[string]string
	programs     map[string]string
}

// NewGeneric probes cfg.Files and the known linker names through p.
func NewGeneric(cfg GenericConfig, p fsutil.Prober) Generic {
	g := Generic{
		drv:          cfg.Driver,
		triple:       cfg.Triple,
		filePaths:    slices.Clone(cfg.FilePaths),
		programPaths: slices.Clone(cfg.ProgramPaths),
		files:        make(map[string]string, len(cfg.Files)),
		programs:     make(map[string]string),
	}
	for _, name := range cfg.Files {
		if found, ok := fsutil.FindFile(p, name, g.filePaths); ok {
			g.files[name] = found
		}
	}
	for _, name := range linkerNames {
		for _, candidate := range []string{cfg.Triple.String() + "-" + name, name} {
			if found, ok := fsutil.FindFile(p, candidate, g.programPaths); ok {
				if _, seen := g.programs[name]; !seen {
					g.programs[name] = found
				}
			}
		}
	}
	return g
}

// Driver returns the driver context the toolchain was built with.
func (g Generic) Driver() driver.Context { return g.drv }

// Triple returns the target triple.
func (g Generic) Triple() target.Triple { return g.triple }

// FilePaths returns the library search directories in priority order.
func (g Generic) FilePaths() []string { return slices.Clone(g.filePaths) }

// ProgramPaths returns the executable search directories.
func (g Generic) ProgramPaths() []string { return slices.Clone(g.programPaths) }

// WithMode returns a copy whose driver context runs in mode m.
func (g Generic) WithMode(m driver.Mode) Generic {
	out := g
	out.drv.Mode = m
	return out
}

// GetFilePath returns the resolved location of name, or name itself when
// it was not found under the file paths.
func (g Generic) GetFilePath(name string) string {
	if found, ok := g.files[name]; ok {
		return found
	}
	return name
}

// FilePathLibArgs renders one -L per file path.
func (g Generic) FilePathLibArgs() []string {
	out := make([]string, 0, len(g.filePaths))
	for _, p := range g.filePaths {
		if p != "" {
			out = append(out, "-L"+p)
		}
	}
	return out
}

// LinkerPath resolves -fuse-ld against defaultLinker and reports whether
// the result is lld.
func (g Generic) LinkerPath(args options.Accessor, defaultLinker string) (string, bool) {
	use := options.LastValue(args, options.OptFuseLd)
	if fsutil.IsAbs(use) {
		return use, isLLD(use)
	}
	var name string
	switch use {
	case "", "ld":
		name = defaultLinker
	default:
		name = "ld." + use
	}
	if found, ok := g.programs[name]; ok {
		return found, isLLD(name)
	}
	return name, isLLD(name)
}

func isLLD(p string) bool {
	base := path.Base(p)
	return base == "ld.lld" || base == "lld" || strings.HasSuffix(base, "-ld.lld")
}

// BaseSanitizers returns the sanitizers every target supports.
func (g Generic) BaseSanitizers() sanitizer.Set {
	s := sanitizer.Of(
		sanitizer.FloatDivideByZero,
		sanitizer.UnsignedIntegerOverflow,
		sanitizer.UnsignedShiftBase,
		sanitizer.ImplicitConversion,
		sanitizer.Nullability,
		sanitizer.LocalBounds,
		sanitizer.CFICastStrict,
		sanitizer.KCFI,
	)
	if g.triple.Arch == target.ArchX86_64 || g.triple.Arch == target.ArchAArch64 {
		s = s.Union(sanitizer.Of(sanitizer.Function))
	}
	return s
}

// CXXStdlibType honours -stdlib=, falling back to def.
func (g Generic) CXXStdlibType(args options.Accessor, def CXXStdlib) CXXStdlib {
	switch options.LastValue(args, options.OptStdlibEQ) {
	case "libc++":
		return CXXLibcxx
	case "libstdc++":
		return CXXLibstdcxx
	default:
		return def
	}
}

// UnwindLibType honours --unwindlib=, falling back to def.
func (g Generic) UnwindLibType(args options.Accessor, def UnwindLib) UnwindLib {
	switch options.LastValue(args, options.OptUnwindLibEQ) {
	case "none":
		return UnwindNone
	case "libunwind":
		return UnwindCompilerRT
	case "libgcc":
		return UnwindLibgcc
	default:
		return def
	}
}

// ShouldLinkCXXStdlib reports whether the C++ standard library is linked.
func (g Generic) ShouldLinkCXXStdlib(args options.Accessor) bool {
	return !args.Has(options.OptNoStdlib, options.OptR, options.OptNoDefaultLibs) &&
		!args.Has(options.OptNoStdlibxx)
}

// CXXStdlibLibArgs returns the link arguments for the selected C++
// standard library.
func (g Generic) CXXStdlibLibArgs(args options.Accessor, def CXXStdlib) []string {
	switch g.CXXStdlibType(args, def) {
	case CXXLibstdcxx:
		return []string{"-lstdc++"}
	default:
		out := []string{"-lc++"}
		if args.Has(options.OptExperimentalLibrary) {
			out = append(out, "-lc++experimental")
		}
		return out
	}
}

// CompilerRT returns the path of a per-target compiler-rt static runtime.
func (g Generic) CompilerRT(component string) string {
	return path.Join(g.drv.ResourceDir, "lib", g.triple.String(), "libclang_rt."+component+".a")
}

// ProfileRTLibArgs adds the profile runtime when instrumentation is on.
func (g Generic) ProfileRTLibArgs(args options.Accessor) []string {
	if !args.Has(options.ProfileGroup...) {
		return nil
	}
	return []string{g.CompilerRT("profile")}
}

// FortranRuntimeLibraryPathArgs adds the flang runtime directory, which
// sits in lib/ next to the driver's bin/.
func (g Generic) FortranRuntimeLibraryPathArgs() []string {
	if g.drv.InstalledDir == "" {
		return nil
	}
	return []string{"-L" + path.Join(path.Dir(g.drv.InstalledDir), "lib")}
}

// FortranRuntimeLibArgs returns the flang runtime libraries.
func FortranRuntimeLibArgs() []string {
	return []string{"-lflang_rt.runtime"}
}
