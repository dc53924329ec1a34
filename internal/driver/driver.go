// Package driver carries the explicit driver context that toolchains read:
// sysroot, resource directory, language mode and LTO mode.
package driver

import (
	"fmt"
	"strings"

	"qnxdriver/internal/options"
)

// Mode is the driver's language mode, chosen by how it was invoked.
type Mode uint8

const (
	ModeC Mode = iota
	ModeCXX
	ModeFlang
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeC:
		return "c"
	case ModeCXX:
		return "c++"
	case ModeFlang:
		return "flang"
	default:
		return "unknown"
	}
}

// ParseMode reads a mode name or a driver program name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "c", "cc", "clang", "qcc":
		return ModeC, nil
	case "c++", "cxx", "clang++", "q++":
		return ModeCXX, nil
	case "flang", "fortran", "flang-new":
		return ModeFlang, nil
	default:
		return ModeC, fmt.Errorf("invalid driver mode %q (expected c|c++|flang)", s)
	}
}

// LTOMode selects link-time optimization.
type LTOMode uint8

const (
	LTONone LTOMode = iota
	LTOFull
	LTOThin
)

// String returns the mode name.
func (m LTOMode) String() string {
	switch m {
	case LTONone:
		return "none"
	case LTOFull:
		return "full"
	case LTOThin:
		return "thin"
	default:
		return "unknown"
	}
}

// LTOFromArgs resolves -flto[=mode] against -fno-lto; the last one wins.
func LTOFromArgs(a options.Accessor) LTOMode {
	last, ok := a.Last(options.OptFLTO, options.OptFNoLTO)
	if !ok || last.ID == options.OptFNoLTO {
		return LTONone
	}
	if last.Value == "thin" {
		return LTOThin
	}
	return LTOFull
}

// Context is the driver state a toolchain depends on. It is passed
// explicitly to every policy and builder operation.
type Context struct {
	SysRoot      string
	ResourceDir  string // clang resource dir; builtin headers live in <dir>/include
	InstalledDir string // directory holding the driver executable
	Mode         Mode
	LTO          LTOMode
	// CIncludeDirs is the configure-time ':'-separated C include list.
	CIncludeDirs string
	ProgramPaths []string
	GCCToolchain string
	GCCPrefixes  []string
}

// IsCXX reports whether the driver runs in C++ mode.
func (c Context) IsCXX() bool { return c.Mode == ModeCXX }

// IsFlang reports whether the driver runs in Fortran mode.
func (c Context) IsFlang() bool { return c.Mode == ModeFlang }

// WithArgs applies the command-line overrides carried by a: --sysroot,
// --gcc-toolchain and -flto/-fno-lto.
func (c Context) WithArgs(a options.Accessor) Context {
	out := c
	out.ProgramPaths = append([]string(nil), c.ProgramPaths...)
	out.GCCPrefixes = append([]string(nil), c.GCCPrefixes...)
	if v, ok := a.Last(options.OptSysroot); ok {
		out.SysRoot = v.Value
	}
	if v, ok := a.Last(options.OptGCCToolchain); ok {
		out.GCCToolchain = v.Value
	}
	if a.Has(options.OptFLTO, options.OptFNoLTO) {
		out.LTO = LTOFromArgs(a)
	}
	return out
}
