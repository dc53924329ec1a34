package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"qnxdriver/internal/config"
	"qnxdriver/internal/driver"
	"qnxdriver/internal/fsutil"
	"qnxdriver/internal/options"
	"qnxdriver/internal/target"
	"qnxdriver/internal/testkit"
	"qnxdriver/internal/trace"
)

func resolved() config.Resolved {
	return config.Resolved{
		Triple: target.QNX(target.ArchX86_64, "8.0.0"),
		Driver: driver.Context{SysRoot: "/opt/qnx"},
	}
}

func tracedContext(t *testing.T) (context.Context, *trace.RingTracer) {
	t.Helper()
	ring := trace.NewRingTracer(256, trace.LevelDebug)
	return trace.WithTracer(context.Background(), ring), ring
}

func TestLink(t *testing.T) {
	ctx, ring := tracedContext(t)
	cmd, err := Link(ctx, resolved(), []string{"-pie", "a.o", "-lsocket", "-o", "a.out"}, testkit.SDP())
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if cmd.Args[0] != "--sysroot=/opt/qnx" || cmd.Output != "a.out" {
		t.Fatalf("unexpected command %v", cmd.Args)
	}
	i := slices.Index(cmd.Args, "a.o")
	if i < 0 || cmd.Args[i+1] != "-lsocket" {
		t.Fatalf("inputs out of order: %v", cmd.Args)
	}

	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind != trace.KindSpanEnd {
			continue
		}
		names = append(names, ev.Name)
		if ev.Name == "link" && ev.Extra["options"] != "-pie" {
			t.Fatalf("link span options = %q, want -pie", ev.Extra["options"])
		}
	}
	if diff := cmp.Diff([]string{"policy", "link"}, names); diff != "" {
		t.Fatalf("spans (-want +got):\n%s", diff)
	}
}

func TestLinkSysrootOverride(t *testing.T) {
	cmd, err := Link(context.Background(), resolved(), []string{"--sysroot=/other", "a.o"}, fsutil.NewMap())
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if cmd.Args[0] != "--sysroot=/other" {
		t.Fatalf("first arg = %q", cmd.Args[0])
	}
	if slices.Contains(cmd.Args, "-o") {
		t.Fatalf("-o without an output: %v", cmd.Args)
	}
}

func TestLinkErrors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want string
	}{
		{"unknown option", []string{"-frobnicate", "a.o"}, "-frobnicate"},
		{"dangling -o", []string{"a.o", "-o"}, "missing"},
		{"empty output", []string{"a.o", "-o", ""}, "empty output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Link(context.Background(), resolved(), tt.argv, testkit.SDP())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Link err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestBuildOneOutput(t *testing.T) {
	tc := NewPolicy(context.Background(), resolved(), options.New(), testkit.SDP())
	tests := []struct {
		name    string
		step    Step
		wantOut string
		wantErr string
	}{
		{name: "step output", step: Step{Name: "a", Inputs: []string{"a.o"}, Output: "app"}, wantOut: "app"},
		{name: "args output", step: Step{Name: "b", Args: []string{"b.o", "-o", "bin"}}, wantOut: "bin"},
		{name: "no output", step: Step{Name: "c", Args: []string{"-r", "c.o"}, NoOutput: true}},
		{name: "conflict", step: Step{Name: "d", Output: "x", Args: []string{"-o", "y"}}, wantErr: "output given twice"},
		{name: "empty -o with no_output", step: Step{Name: "h", NoOutput: true, Args: []string{"h.o", "-o", ""}}, wantErr: "empty output path"},
		{name: "-o with no_output", step: Step{Name: "i", NoOutput: true, Args: []string{"-o", "i"}}, wantErr: "output given twice"},
		{name: "missing", step: Step{Name: "e", Inputs: []string{"e.o"}}, wantErr: "missing output"},
		{name: "per-step sysroot", step: Step{Name: "f", Output: "f", Args: []string{"--sysroot=/x"}}, wantErr: "--sysroot="},
		{name: "per-step gcc", step: Step{Name: "g", Output: "g", Args: []string{"--gcc-install-dir=/gcc"}}, wantErr: "must be set on the target"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := BuildOne(context.Background(), tc, tt.step)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				if !strings.Contains(err.Error(), fmt.Sprintf("step %q", tt.step.Name)) {
					t.Fatalf("err %q does not name the step", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildOne: %v", err)
			}
			if res.Command.Output != tt.wantOut {
				t.Fatalf("Output = %q, want %q", res.Command.Output, tt.wantOut)
			}
			if hasO := slices.Contains(res.Command.Args, "-o"); hasO != (tt.wantOut != "") {
				t.Fatalf("-o present = %v: %v", hasO, res.Command.Args)
			}
		})
	}
}

func TestBuildOneInputOrder(t *testing.T) {
	tc := NewPolicy(context.Background(), resolved(), options.New(), testkit.SDP())
	res, err := BuildOne(context.Background(), tc, Step{
		Name:   "app",
		Inputs: []string{"main.o", "util.o"},
		Args:   []string{"extra.o", "-lsocket", "-Wl,--as-needed"},
		Output: "app",
	})
	if err != nil {
		t.Fatal(err)
	}
	i := slices.Index(res.Command.Args, "main.o")
	want := []string{"main.o", "util.o", "extra.o", "-lsocket", "--as-needed"}
	if diff := cmp.Diff(want, res.Command.Args[i:i+len(want)]); diff != "" {
		t.Fatalf("inputs (-want +got):\n%s", diff)
	}
}

func TestBuildOneModeOverride(t *testing.T) {
	tc := NewPolicy(context.Background(), resolved(), options.New(), testkit.SDP())
	cxx := driver.ModeCXX

	res, err := BuildOne(context.Background(), tc, Step{Name: "cxx", Mode: &cxx, Inputs: []string{"a.o"}, Output: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(res.Command.Args, "-lc++") {
		t.Fatalf("C++ step did not link libc++: %v", res.Command.Args)
	}
	if tc.Driver().Mode != driver.ModeC {
		t.Fatalf("shared policy mode changed to %v", tc.Driver().Mode)
	}

	res, err = BuildOne(context.Background(), tc, Step{Name: "c", Inputs: []string{"a.o"}, Output: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(res.Command.Args, "-lc++") {
		t.Fatalf("C step linked libc++: %v", res.Command.Args)
	}
}

func TestBuildAllKeepsStepOrder(t *testing.T) {
	tc := NewPolicy(context.Background(), resolved(), options.New(), testkit.SDP())
	var steps []Step
	for i := range 32 {
		name := fmt.Sprintf("app%02d", i)
		steps = append(steps, Step{Name: name, Inputs: []string{name + ".o"}, Output: name})
	}
	results, err := BuildAll(context.Background(), tc, steps, 8)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(results) != len(steps) {
		t.Fatalf("got %d results, want %d", len(results), len(steps))
	}
	for i, r := range results {
		if r.Name != steps[i].Name || r.Command.Output != steps[i].Output {
			t.Fatalf("results[%d] = %s/%s, want %s", i, r.Name, r.Command.Output, steps[i].Name)
		}
		serial, err := BuildOne(context.Background(), tc, steps[i])
		if err != nil {
			t.Fatal(err)
		}
		if !serial.Command.Equal(r.Command) {
			t.Fatalf("parallel and serial builds differ for %s", r.Name)
		}
	}
}

func TestBuildAllError(t *testing.T) {
	tc := NewPolicy(context.Background(), resolved(), options.New(), testkit.SDP())
	steps := []Step{
		{Name: "ok", Inputs: []string{"a.o"}, Output: "a"},
		{Name: "bad", Inputs: []string{"b.o"}},
	}
	if _, err := BuildAll(context.Background(), tc, steps, 0); err == nil || !strings.Contains(err.Error(), `"bad"`) {
		t.Fatalf("BuildAll err = %v", err)
	}
	if res, err := BuildAll(context.Background(), tc, nil, 4); err != nil || res != nil {
		t.Fatalf("empty plan = %v, %v", res, err)
	}
}

func TestStepsFromManifest(t *testing.T) {
	links := []config.Link{
		{Name: "app", Output: "app", Inputs: []string{"main.o"}, Args: []string{"-lm"}},
		{Name: "lib", NoOutput: true, Mode: "c++"},
	}
	steps, err := StepsFromManifest("", links)
	if err != nil {
		t.Fatal(err)
	}
	cxx := driver.ModeCXX
	want := []Step{
		{Name: "app", Output: "app", Inputs: []string{"main.o"}, Args: []string{"-lm"}},
		{Name: "lib", NoOutput: true, Mode: &cxx},
	}
	if diff := cmp.Diff(want, steps); diff != "" {
		t.Fatalf("steps (-want +got):\n%s", diff)
	}

	if _, err := StepsFromManifest("", []config.Link{{Name: "x", Mode: "cobol"}}); err == nil {
		t.Fatal("invalid mode accepted")
	}
}

func TestStepsFromManifestResolvesAgainstRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	abs := filepath.Join(t.TempDir(), "prebuilt.o")
	links := []config.Link{{
		Name:   "app",
		Output: "build/app",
		Inputs: []string{"build/main.o", abs},
		Args:   []string{"obj/extra.o", "-o", "ignored"},
	}}
	steps, err := StepsFromManifest(root, links)
	if err != nil {
		t.Fatal(err)
	}
	want := Step{
		Name:   "app",
		Output: filepath.Join(root, "build/app"),
		Inputs: []string{filepath.Join(root, "build/main.o"), abs},
		Args:   []string{"obj/extra.o", "-o", "ignored"},
	}
	if diff := cmp.Diff(want, steps[0]); diff != "" {
		t.Fatalf("step (-want +got):\n%s", diff)
	}
}
