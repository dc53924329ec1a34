// Package options holds the driver's build options as an immutable, ordered
// snapshot that toolchains query but never mutate.
package options

import "slices"

// ID identifies a driver option independently of its spelling.
type ID uint16

const (
	OptInvalid ID = iota

	// link mode
	OptStatic
	OptShared
	OptPIE
	OptNoPIE
	OptR
	OptPG

	// default libraries and start files
	OptNoStdlib
	OptNoDefaultLibs
	OptNoStartFiles
	OptNoStdlibxx
	OptStdlibEQ
	OptUnwindLibEQ
	OptExperimentalLibrary

	// include paths
	OptNoBuiltinInc
	OptNoStdInc
	OptNoStdlibInc

	// environment
	OptSysroot
	OptGCCToolchain
	OptGCCInstallDir

	// linker passthrough
	OptL
	OptT
	OptTbss
	OptTdata
	OptTtext
	OptS
	OptLowerT

	// threading and OpenMP
	OptPthread
	OptPthreads
	OptFOpenMP
	OptFNoOpenMP
	OptStaticOpenMP

	// linker selection and LTO
	OptFuseLd
	OptFLTO
	OptFNoLTO
	OptFLTOJobs
	OptO

	// debug info
	OptG
	OptGz

	// accepted at link time, never echoed
	OptEmitLLVM
	OptW
	OptSharedLibgcc

	// profiling instrumentation
	OptProfileInstrGenerate
	OptProfileGenerate
	OptProfileArcs
	OptCoverage
	OptCSProfileGenerate

	optLast
)

// TGroup is the linker-script group: -T, -Tbss, -Tdata and -Ttext.
var TGroup = []ID{OptT, OptTbss, OptTdata, OptTtext}

// ProfileGroup lists every option that requests profile instrumentation.
var ProfileGroup = []ID{
	OptProfileInstrGenerate,
	OptProfileGenerate,
	OptProfileArcs,
	OptCoverage,
	OptCSProfileGenerate,
}

// Arg is a single parsed option occurrence.
type Arg struct {
	ID    ID
	Value string
}

// Flag returns a valueless Arg for id.
func Flag(id ID) Arg { return Arg{ID: id} }

// Value returns an Arg carrying value.
func Value(id ID, value string) Arg { return Arg{ID: id, Value: value} }

// Render returns the command-line form of the argument using its
// canonical spelling.
func (a Arg) Render() []string {
	info, ok := infoByID[a.ID]
	if !ok {
		return nil
	}
	switch info.kind {
	case kindFlag:
		return []string{info.spelling}
	case kindSeparate:
		return []string{info.spelling, a.Value}
	default:
		return []string{info.spelling + a.Value}
	}
}

// Accessor is the read-only query surface toolchains consume.
type Accessor interface {
	// Has reports whether any of ids occurs.
	Has(ids ...ID) bool
	// Last returns the last occurrence of any of ids.
	Last(ids ...ID) (Arg, bool)
	// All returns every occurrence of any of ids in command-line order.
	All(ids ...ID) []Arg
}

// Options is an immutable ordered snapshot of driver options.
type Options struct {
	args []Arg
}

// New builds an Options snapshot from args, preserving their order.
func New(args ...Arg) Options {
	return Options{args: slices.Clone(args)}
}

// Has reports whether any of ids occurs.
func (o Options) Has(ids ...ID) bool {
	for _, a := range o.args {
		if slices.Contains(ids, a.ID) {
			return true
		}
	}
	return false
}

// Last returns the last occurrence of any of ids.
func (o Options) Last(ids ...ID) (Arg, bool) {
	for i := len(o.args) - 1; i >= 0; i-- {
		if slices.Contains(ids, o.args[i].ID) {
			return o.args[i], true
		}
	}
	return Arg{}, false
}

// All returns every occurrence of any of ids in command-line order.
func (o Options) All(ids ...ID) []Arg {
	var out []Arg
	for _, a := range o.args {
		if slices.Contains(ids, a.ID) {
			out = append(out, a)
		}
	}
	return out
}

// Args returns a copy of all arguments.
func (o Options) Args() []Arg { return slices.Clone(o.args) }

// Len returns the number of arguments.
func (o Options) Len() int { return len(o.args) }

// HasFlag resolves a positive/negative option pair: the last of pos or neg
// wins, def applies when neither occurs.
func HasFlag(a Accessor, pos, neg ID, def bool) bool {
	last, ok := a.Last(pos, neg)
	if !ok {
		return def
	}
	return last.ID == pos
}

// LastValue returns the value of the last occurrence of id, or "".
func LastValue(a Accessor, id ID) string {
	if last, ok := a.Last(id); ok {
		return last.Value
	}
	return ""
}
