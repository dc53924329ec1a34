// Package toolchain defines what a target toolchain provides to the driver
// and the generic ELF behaviour target toolchains build on.
package toolchain

import (
	"qnxdriver/internal/command"
	"qnxdriver/internal/options"
	"qnxdriver/internal/sanitizer"
)

// CXXStdlib selects the C++ standard library.
type CXXStdlib uint8

const (
	CXXLibcxx CXXStdlib = iota + 1
	CXXLibstdcxx
)

// String returns the -stdlib= spelling.
func (s CXXStdlib) String() string {
	switch s {
	case CXXLibcxx:
		return "libc++"
	case CXXLibstdcxx:
		return "libstdc++"
	default:
		return "unknown"
	}
}

// UnwindLib selects the unwinder runtime.
type UnwindLib uint8

const (
	UnwindNone UnwindLib = iota + 1
	UnwindCompilerRT
	UnwindLibgcc
)

// String returns the --unwindlib= spelling.
func (u UnwindLib) String() string {
	switch u {
	case UnwindNone:
		return "none"
	case UnwindCompilerRT:
		return "libunwind"
	case UnwindLibgcc:
		return "libgcc"
	default:
		return "unknown"
	}
}

// DefaultProvider answers target default-policy queries.
type DefaultProvider interface {
	IsMathErrnoDefault() bool
	IsPICDefault() bool
	IsPIEDefault(args options.Accessor) bool
	HasNativeLLVMSupport() bool
	DefaultLinker() string
	DefaultCXXStdlib() CXXStdlib
	DefaultUnwindLib() UnwindLib
	SupportedSanitizers() sanitizer.Set
}

// IncludeResolver resolves system header search directories.
type IncludeResolver interface {
	SystemIncludeDirs(args options.Accessor) []IncludeDir
	CXXIncludePath() string
}

// LinkerBuilder assembles linker invocations.
type LinkerBuilder interface {
	BuildLink(args options.Accessor, inputs []options.Input, out Output) command.Command
}

// IncludeDir is one system include directory.
type IncludeDir struct {
	Path string
	// ExternC marks C headers that must be treated as extern "C" when
	// included from C++.
	ExternC bool
}

// Args renders the directory as frontend arguments.
func (d IncludeDir) Args() []string {
	if d.ExternC {
		return []string{"-internal-externc-isystem", d.Path}
	}
	return []string{"-internal-isystem", d.Path}
}

type outputKind uint8

const (
	outputInvalid outputKind = iota
	outputNothing
	outputFilename
)

// Output is a link job's output: a filename or nothing. The zero value is
// invalid and rejected by builders.
type Output struct {
	kind outputKind
	path string
}

// Filename returns an output naming path.
func Filename(path string) Output { return Output{kind: outputFilename, path: path} }

// Nothing returns an output that emits no -o.
func Nothing() Output { return Output{kind: outputNothing} }

// Filename returns the output path when the output is a filename.
func (o Output) Filename() (string, bool) { return o.path, o.kind == outputFilename }

// Valid reports whether o is a filename or nothing.
func (o Output) Valid() bool {
	return o.kind == outputNothing || (o.kind == outputFilename && o.path != "")
}

// MustBeValid panics on an invalid output. A bad output is a driver bug,
// not a runtime condition.
func (o Output) MustBeValid() {
	if !o.Valid() {
		panic("toolchain: invalid link output (want a filename or nothing)")
	}
}
