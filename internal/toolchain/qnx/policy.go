// Package qnx implements the QNX Neutrino toolchain: target defaults,
// system include resolution and the linker invocation.
package qnx

import (
	"path"
	"strings"

	"qnxdriver/internal/command"
	"qnxdriver/internal/driver"
	"qnxdriver/internal/fsutil"
	"qnxdriver/internal/gccinstall"
	"qnxdriver/internal/options"
	"qnxdriver/internal/sanitizer"
	"qnxdriver/internal/target"
	"qnxdriver/internal/toolchain"
)

// DefaultOSVersion is the QNX SDP version used by the arch constructors.
const DefaultOSVersion = "8.0.0"

// startFiles are resolved once when the policy is built.
var startFiles = []string{"crt1.o", "mcrt1.o", "crti.o", "crtbegin.o", "crtend.o", "crtn.o"}

// Policy is the QNX toolchain. It is immutable after New and safe for
// concurrent use by many link steps.
type Policy struct {
	toolchain.Generic
	gcc gccinstall.Installation
}

var (
	_ toolchain.DefaultProvider = (*Policy)(nil)
	_ toolchain.IncludeResolver = (*Policy)(nil)
	_ toolchain.LinkerBuilder   = (*Policy)(nil)
)

// New builds the QNX toolchain for triple. <sysroot>/usr/lib is searched
// first, then the GCC installation's library directory if one was found.
// A missing GCC installation leaves a sysroot-only toolchain.
func New(drv driver.Context, triple target.Triple, args options.Accessor, p fsutil.Prober) *Policy {
	gcc, found := gccinstall.Detect(p, gccinstall.Request{
		Triple:     triple,
		SysRoot:    drv.SysRoot,
		Toolchain:  drv.GCCToolchain,
		InstallDir: options.LastValue(args, options.OptGCCInstallDir),
		Prefixes:   drv.GCCPrefixes,
	})

	filePaths := []string{fsutil.Concat(drv.SysRoot, "/usr/lib")}
	if found {
		filePaths = append(filePaths, gcc.InstallPath)
	}

	programPaths := append([]string(nil), drv.ProgramPaths...)
	if drv.InstalledDir != "" {
		programPaths = append(programPaths, drv.InstalledDir)
	}

	return &Policy{
		Generic: toolchain.NewGeneric(toolchain.GenericConfig{
			Driver:       drv,
			Triple:       triple,
			FilePaths:    filePaths,
			ProgramPaths: programPaths,
			Files:        startFiles,
		}, p),
		gcc: gcc,
	}
}

// X86_64 builds the policy for x86_64-pc-nto-qnx<DefaultOSVersion>.
func X86_64(drv driver.Context, args options.Accessor, p fsutil.Prober) *Policy {
	return New(drv, target.QNX(target.ArchX86_64, DefaultOSVersion), args, p)
}

// AArch64 builds the policy for aarch64-unknown-nto-qnx<DefaultOSVersion>.
func AArch64(drv driver.Context, args options.Accessor, p fsutil.Prober) *Policy {
	return New(drv, target.QNX(target.ArchAArch64, DefaultOSVersion), args, p)
}

// WithMode returns a copy of the policy whose driver runs in mode m.
func (tc *Policy) WithMode(m driver.Mode) *Policy {
	out := *tc
	out.Generic = tc.Generic.WithMode(m)
	return &out
}

// GCCInstallation returns the detected GCC installation, if any.
func (tc *Policy) GCCInstallation() (gccinstall.Installation, bool) {
	return tc.gcc, tc.gcc.Valid()
}

func (tc *Policy) IsMathErrnoDefault() bool                { return false }
func (tc *Policy) IsPICDefault() bool                      { return true }
func (tc *Policy) IsPIEDefault(args options.Accessor) bool { return true }
func (tc *Policy) HasNativeLLVMSupport() bool              { return true }
func (tc *Policy) DefaultLinker() string                   { return "ld" }

// DefaultCXXStdlib is libc++, the library shipped in the SDP.
func (tc *Policy) DefaultCXXStdlib() toolchain.CXXStdlib { return toolchain.CXXLibcxx }

// DefaultUnwindLib is libgcc's unwinder.
func (tc *Policy) DefaultUnwindLib() toolchain.UnwindLib { return toolchain.UnwindLibgcc }

// CXXStdlib returns the C++ library selected by args.
func (tc *Policy) CXXStdlib(args options.Accessor) toolchain.CXXStdlib {
	return tc.CXXStdlibType(args, tc.DefaultCXXStdlib())
}

// UnwindLib returns the unwinder selected by args.
func (tc *Policy) UnwindLib(args options.Accessor) toolchain.UnwindLib {
	return tc.UnwindLibType(args, tc.DefaultUnwindLib())
}

// SupportedSanitizers extends the generic set with the QNX runtimes.
// Upstream clang builds this union and then returns an empty set; the union
// is returned here.
func (tc *Policy) SupportedSanitizers() sanitizer.Set {
	return tc.BaseSanitizers().Union(sanitizer.Of(
		sanitizer.Address,
		sanitizer.PointerCompare,
		sanitizer.PointerSubtract,
		sanitizer.Memory,
		sanitizer.Leak,
		sanitizer.Thread,
	))
}

// SystemIncludeDirs returns the system include search list in order.
func (tc *Policy) SystemIncludeDirs(args options.Accessor) []toolchain.IncludeDir {
	if args.Has(options.OptNoStdInc) {
		return nil
	}
	drv := tc.Driver()

	var dirs []toolchain.IncludeDir
	if !args.Has(options.OptNoBuiltinInc) && drv.ResourceDir != "" {
		dirs = append(dirs, toolchain.IncludeDir{Path: path.Join(drv.ResourceDir, "include")})
	}
	if args.Has(options.OptNoStdlibInc) {
		return dirs
	}

	if drv.CIncludeDirs != "" {
		for _, dir := range strings.Split(drv.CIncludeDirs, ":") {
			if dir == "" {
				continue
			}
			if !fsutil.IsAbs(dir) && drv.SysRoot != "" {
				dir = fsutil.Concat(drv.SysRoot, dir)
			}
			dirs = append(dirs, toolchain.IncludeDir{Path: dir, ExternC: true})
		}
		return dirs
	}

	// shims must precede usr/include so they can override standard headers
	return append(dirs,
		toolchain.IncludeDir{Path: fsutil.Concat(drv.SysRoot, "/usr/include/shims")},
		toolchain.IncludeDir{Path: fsutil.Concat(drv.SysRoot, "/usr/include")},
	)
}

// CXXIncludePath returns the libc++ header directory.
func (tc *Policy) CXXIncludePath() string {
	return fsutil.Concat(tc.Driver().SysRoot, "/usr/include/c++/v1")
}

// BuildLink assembles the linker invocation; see BuildLinkCommand.
func (tc *Policy) BuildLink(args options.Accessor, inputs []options.Input, out toolchain.Output) command.Command {
	return BuildLinkCommand(tc, args, inputs, out)
}
