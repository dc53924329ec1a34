package toolchain

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"qnxdriver/internal/driver"
	"qnxdriver/internal/fsutil"
	"qnxdriver/internal/options"
	"qnxdriver/internal/sanitizer"
	"qnxdriver/internal/target"
)

var x86 = target.QNX(target.ArchX86_64, "8.0.0")

func newGeneric(drv driver.Context, files ...string) Generic {
	return NewGeneric(GenericConfig{
		Driver:       drv,
		Triple:       x86,
		FilePaths:    []string{"/sdp/usr/lib", "", "/gcc"},
		ProgramPaths: []string{"/host/bin"},
		Files:        []string{"crt1.o", "crti.o"},
	}, fsutil.NewMap(files...))
}

func TestGetFilePath(t *testing.T) {
	g := newGeneric(driver.Context{}, "/gcc/crt1.o", "/sdp/usr/lib/crti.o", "/gcc/crti.o")
	if got := g.GetFilePath("crti.o"); got != "/sdp/usr/lib/crti.o" {
		t.Fatalf("crti.o = %q, want the first search path", got)
	}
	if got := g.GetFilePath("crt1.o"); got != "/gcc/crt1.o" {
		t.Fatalf("crt1.o = %q", got)
	}
	if got := g.GetFilePath("crtn.o"); got != "crtn.o" {
		t.Fatalf("unresolved crtn.o = %q, want bare name", got)
	}
	if diff := cmp.Diff([]string{"-L/sdp/usr/lib", "-L/gcc"}, g.FilePathLibArgs()); diff != "" {
		t.Fatalf("FilePathLibArgs (-want +got):\n%s", diff)
	}
}

func TestLinkerPath(t *testing.T) {
	g := newGeneric(driver.Context{},
		"/host/bin/x86_64-pc-nto-qnx8.0.0-ld",
		"/host/bin/ld",
		"/host/bin/ld.lld",
	)
	tests := []struct {
		args    []options.Arg
		want    string
		wantLLD bool
	}{
		{nil, "/host/bin/x86_64-pc-nto-qnx8.0.0-ld", false},
		{[]options.Arg{options.Value(options.OptFuseLd, "ld")}, "/host/bin/x86_64-pc-nto-qnx8.0.0-ld", false},
		{[]options.Arg{options.Value(options.OptFuseLd, "lld")}, "/host/bin/ld.lld", true},
		{[]options.Arg{options.Value(options.OptFuseLd, "gold")}, "ld.gold", false},
		{[]options.Arg{options.Value(options.OptFuseLd, "/opt/bin/ld.lld")}, "/opt/bin/ld.lld", true},
	}
	for _, tt := range tests {
		got, lld := g.LinkerPath(options.New(tt.args...), "ld")
		if got != tt.want || lld != tt.wantLLD {
			t.Fatalf("LinkerPath(%v) = %q, %v; want %q, %v", tt.args, got, lld, tt.want, tt.wantLLD)
		}
	}
}

func TestWithModeCopies(t *testing.T) {
	g := newGeneric(driver.Context{Mode: driver.ModeC})
	cxx := g.WithMode(driver.ModeCXX)
	if g.Driver().IsCXX() || !cxx.Driver().IsCXX() {
		t.Fatal("WithMode must return a modified copy")
	}
}

func TestBaseSanitizers(t *testing.T) {
	g := newGeneric(driver.Context{})
	s := g.BaseSanitizers()
	if !s.Has(sanitizer.Function) || !s.Has(sanitizer.KCFI) || s.Has(sanitizer.Address) {
		t.Fatalf("BaseSanitizers = %s", s)
	}
	arm := NewGeneric(GenericConfig{Triple: target.QNX(target.ArchARM, "7.1.0")}, fsutil.NewMap())
	if arm.BaseSanitizers().Has(sanitizer.Function) {
		t.Fatal("function sanitizer is 64-bit only")
	}
}

func TestCXXStdlib(t *testing.T) {
	g := newGeneric(driver.Context{})
	tests := []struct {
		args []options.Arg
		want []string
	}{
		{nil, []string{"-lc++"}},
		{[]options.Arg{options.Flag(options.OptExperimentalLibrary)}, []string{"-lc++", "-lc++experimental"}},
		{[]options.Arg{options.Value(options.OptStdlibEQ, "libstdc++")}, []string{"-lstdc++"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, g.CXXStdlibLibArgs(options.New(tt.args...), CXXLibcxx)); diff != "" {
			t.Fatalf("CXXStdlibLibArgs(%v) (-want +got):\n%s", tt.args, diff)
		}
	}
	if g.ShouldLinkCXXStdlib(options.New(options.Flag(options.OptNoStdlibxx))) {
		t.Fatal("-nostdlib++ must suppress the C++ library")
	}
	if got := g.UnwindLibType(options.New(options.Value(options.OptUnwindLibEQ, "libunwind")), UnwindLibgcc); got != UnwindCompilerRT {
		t.Fatalf("UnwindLibType = %v", got)
	}
}

func TestProfileAndFortranRuntime(t *testing.T) {
	g := newGeneric(driver.Context{ResourceDir: "/llvm/lib/clang/19", InstalledDir: "/llvm/bin"})
	if got := g.ProfileRTLibArgs(options.New()); got != nil {
		t.Fatalf("profile rt without instrumentation = %v", got)
	}
	want := []string{"/llvm/lib/clang/19/lib/x86_64-pc-nto-qnx8.0.0/libclang_rt.profile.a"}
	if diff := cmp.Diff(want, g.ProfileRTLibArgs(options.New(options.Flag(options.OptCoverage)))); diff != "" {
		t.Fatalf("ProfileRTLibArgs (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"-L/llvm/lib"}, g.FortranRuntimeLibraryPathArgs()); diff != "" {
		t.Fatalf("FortranRuntimeLibraryPathArgs (-want +got):\n%s", diff)
	}
}

func TestOpenMPRuntimeArgs(t *testing.T) {
	tests := []struct {
		args   []options.Arg
		static bool
		want   []string
	}{
		{nil, false, nil},
		{[]options.Arg{options.Flag(options.OptFOpenMP)}, false, []string{"-lomp"}},
		{[]options.Arg{options.Value(options.OptFOpenMP, "libgomp")}, true, []string{"-Bstatic", "-lgomp", "-Bdynamic"}},
		{[]options.Arg{options.Flag(options.OptFOpenMP), options.Flag(options.OptFNoOpenMP)}, false, nil},
		{[]options.Arg{options.Value(options.OptFOpenMP, "libfoo")}, false, nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, OpenMPRuntimeArgs(options.New(tt.args...), tt.static)); diff != "" {
			t.Fatalf("OpenMPRuntimeArgs(%v, %v) (-want +got):\n%s", tt.args, tt.static, diff)
		}
	}
}

func TestLTOArgs(t *testing.T) {
	tests := []struct {
		args []options.Arg
		thin bool
		want []string
	}{
		{nil, false, nil},
		{[]options.Arg{options.Value(options.OptO, "2")}, false, []string{"-plugin-opt=O2"}},
		{[]options.Arg{options.Flag(options.OptO)}, false, []string{"-plugin-opt=O1"}},
		{[]options.Arg{options.Value(options.OptO, "z")}, false, []string{"-plugin-opt=O2"}},
		{[]options.Arg{options.Value(options.OptO, "fast")}, true, []string{"-plugin-opt=O3", "-plugin-opt=thinlto"}},
		{[]options.Arg{options.Value(options.OptFLTOJobs, "8")}, true, []string{"-plugin-opt=thinlto", "-plugin-opt=jobs=8"}},
		{[]options.Arg{options.Value(options.OptFLTOJobs, "99999999999")}, true, []string{"-plugin-opt=thinlto"}},
		{[]options.Arg{options.Value(options.OptFLTOJobs, "x")}, true, []string{"-plugin-opt=thinlto"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, LTOArgs(options.New(tt.args...), tt.thin)); diff != "" {
			t.Fatalf("LTOArgs(%v, %v) (-want +got):\n%s", tt.args, tt.thin, diff)
		}
	}
}

func TestCompressDebugSectionsArgs(t *testing.T) {
	tests := []struct {
		args []options.Arg
		want []string
	}{
		{nil, nil},
		{[]options.Arg{options.Flag(options.OptGz)}, []string{"--compress-debug-sections=zlib"}},
		{[]options.Arg{options.Value(options.OptGz, "zstd")}, []string{"--compress-debug-sections=zstd"}},
		{[]options.Arg{options.Value(options.OptGz, "lz4")}, nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, CompressDebugSectionsArgs(options.New(tt.args...))); diff != "" {
			t.Fatalf("CompressDebugSectionsArgs(%v) (-want +got):\n%s", tt.args, diff)
		}
	}
}

func TestOutput(t *testing.T) {
	if !Filename("a.out").Valid() || !Nothing().Valid() || (Output{}).Valid() || Filename("").Valid() {
		t.Fatal("Valid mismatch")
	}
	if p, ok := Filename("a.out").Filename(); !ok || p != "a.out" {
		t.Fatalf("Filename = %q, %v", p, ok)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("MustBeValid did not panic on the zero Output")
		}
	}()
	Output{}.MustBeValid()
}

func TestIncludeDirArgs(t *testing.T) {
	if diff := cmp.Diff([]string{"-internal-externc-isystem", "/a"}, IncludeDir{Path: "/a", ExternC: true}.Args()); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]string{"-internal-isystem", "/b"}, IncludeDir{Path: "/b"}.Args()); diff != "" {
		t.Fatal(diff)
	}
}
