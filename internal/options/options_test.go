package options

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSplitsInputsAndOptions(t *testing.T) {
	p, err := Parse([]string{
		"-static", "crt.o", "-L/lib", "-L", "/lib2", "-lfoo", "-l", "bar",
		"-Wl,--gc-sections,,-Map,out.map", "-Xlinker", "-z", "-o", "app",
		"-Tdata", "0x1000", "-Tlink.ld", "-O2", "-flto=thin", "-fuse-ld=lld",
		"--sysroot", "/sdp", "main.o",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	wantInputs := []Input{
		File("crt.o"), Library("foo"), Library("bar"),
		LinkerArg("--gc-sections"), LinkerArg("-Map"), LinkerArg("out.map"),
		LinkerArg("-z"), File("main.o"),
	}
	if diff := cmp.Diff(wantInputs, p.Inputs); diff != "" {
		t.Fatalf("inputs (-want +got):\n%s", diff)
	}
	if !p.HasOutput || p.Output != "app" {
		t.Fatalf("output = %q, %v", p.Output, p.HasOutput)
	}
	wantArgs := []Arg{
		Flag(OptStatic),
		Value(OptL, "/lib"),
		Value(OptL, "/lib2"),
		Value(OptTdata, "0x1000"),
		Value(OptT, "link.ld"),
		Value(OptO, "2"),
		Value(OptFLTO, "thin"),
		Value(OptFuseLd, "lld"),
		Value(OptSysroot, "/sdp"),
	}
	if diff := cmp.Diff(wantArgs, p.Options.Args()); diff != "" {
		t.Fatalf("args (-want +got):\n%s", diff)
	}
}

func TestParseSpellings(t *testing.T) {
	tests := []struct {
		arg  string
		want Arg
	}{
		{"--shared", Flag(OptShared)},
		{"-nopie", Flag(OptNoPIE)},
		{"-g", Flag(OptG)},
		{"-g3", Value(OptG, "3")},
		{"-gz", Flag(OptGz)},
		{"-gz=zstd", Value(OptGz, "zstd")},
		{"-O", Flag(OptO)},
		{"-Ofast", Value(OptO, "fast")},
		{"-fopenmp", Flag(OptFOpenMP)},
		{"-fopenmp=libgomp", Value(OptFOpenMP, "libgomp")},
		{"-flto", Flag(OptFLTO)},
		{"-flto-jobs=4", Value(OptFLTOJobs, "4")},
		{"-stdlib=libstdc++", Value(OptStdlibEQ, "libstdc++")},
		{"--sysroot=/x", Value(OptSysroot, "/x")},
		{"-static-openmp", Flag(OptStaticOpenMP)},
		{"-shared-libgcc", Flag(OptSharedLibgcc)},
		{"--coverage", Flag(OptCoverage)},
		{"-fprofile-instr-generate=x.profraw", Value(OptProfileInstrGenerate, "x.profraw")},
		{"-Tbssfoo", Value(OptTbss, "foo")},
	}
	for _, tt := range tests {
		p, err := Parse([]string{tt.arg})
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.arg, err)
		}
		got := p.Options.Args()
		if len(got) != 1 || got[0] != tt.want {
			t.Fatalf("Parse(%q) = %+v, want %+v", tt.arg, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		argv    []string
		wantErr string
	}{
		{[]string{"-o"}, `argument to "-o" is missing`},
		{[]string{"-T"}, `argument to "-T" is missing`},
		{[]string{"-Xlinker"}, `argument to "-Xlinker" is missing`},
		{[]string{"-frobnicate"}, `unknown argument: "-frobnicate"`},
	}
	for _, tt := range tests {
		_, err := Parse(tt.argv)
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Fatalf("Parse(%q) err = %v, want %q", tt.argv, err, tt.wantErr)
		}
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		arg  Arg
		want []string
	}{
		{Value(OptL, "/x"), []string{"-L/x"}},
		{Value(OptT, "a.ld"), []string{"-T", "a.ld"}},
		{Value(OptTtext, "0x0"), []string{"-Ttext", "0x0"}},
		{Flag(OptS), []string{"-s"}},
		{Flag(OptLowerT), []string{"-t"}},
		{Value(OptSysroot, "/y"), []string{"--sysroot=/y"}},
		{Flag(OptInvalid), nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, tt.arg.Render()); diff != "" {
			t.Fatalf("%+v.Render() (-want +got):\n%s", tt.arg, diff)
		}
	}
}

func TestAccessor(t *testing.T) {
	o := New(Flag(OptFOpenMP), Value(OptL, "/a"), Flag(OptFNoOpenMP), Value(OptL, "/b"), Value(OptFuseLd, "lld"))
	if !o.Has(OptL) || o.Has(OptStatic) {
		t.Fatal("Has mismatch")
	}
	if last, ok := o.Last(OptL); !ok || last.Value != "/b" {
		t.Fatalf("Last = %+v, %v", last, ok)
	}
	if got := len(o.All(OptL, OptFuseLd)); got != 3 {
		t.Fatalf("All = %d, want 3", got)
	}
	if HasFlag(o, OptFOpenMP, OptFNoOpenMP, true) {
		t.Fatal("HasFlag: later negative should win")
	}
	if !HasFlag(New(), OptFOpenMP, OptFNoOpenMP, true) {
		t.Fatal("HasFlag default")
	}
	if LastValue(o, OptFuseLd) != "lld" || LastValue(o, OptStdlibEQ) != "" {
		t.Fatal("LastValue mismatch")
	}
}

func TestInputRender(t *testing.T) {
	tests := []struct {
		in   Input
		want string
		file bool
	}{
		{File("a.o"), "a.o", true},
		{Library("m"), "-lm", false},
		{LinkerArg("--as-needed"), "--as-needed", false},
	}
	for _, tt := range tests {
		if got := tt.in.Render(); got != tt.want {
			t.Fatalf("%+v.Render() = %q, want %q", tt.in, got, tt.want)
		}
		if _, ok := tt.in.Filename(); ok != tt.file {
			t.Fatalf("%+v.Filename() ok = %v", tt.in, ok)
		}
	}
	if InputLinkerArg.String() != "linker-arg" {
		t.Fatalf("kind string = %q", InputLinkerArg.String())
	}
}
