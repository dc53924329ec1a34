// Package pipeline turns driver arguments and manifest link steps into
// linker commands. It owns everything around the pure builder: parsing,
// toolchain construction, tracing and parallel planning.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"qnxdriver/internal/command"
	"qnxdriver/internal/config"
	"qnxdriver/internal/driver"
	"qnxdriver/internal/fsutil"
	"qnxdriver/internal/options"
	"qnxdriver/internal/toolchain"
	"qnxdriver/internal/toolchain/qnx"
	"qnxdriver/internal/trace"
)

// Step is one link job.
type Step struct {
	Name string
	// Mode overrides the toolchain's language mode when set.
	Mode *driver.Mode
	// Inputs are object files linked ahead of any input found in Args.
	Inputs []string
	// Args are driver arguments; they may carry -l, -Wl, and further inputs.
	Args     []string
	Output   string
	NoOutput bool
}

// StepResult is a built step.
type StepResult struct {
	Name    string
	Command command.Command
	Elapsed time.Duration
}

// toolchainFlags select the toolchain itself and cannot vary per step
// once the policy is built.
var toolchainFlags = []options.ID{options.OptSysroot, options.OptGCCToolchain, options.OptGCCInstallDir}

// NewPolicy builds the QNX policy for res. args may carry --sysroot,
// --gcc-toolchain and --gcc-install-dir. All filesystem probing happens
// here, through p.
func NewPolicy(ctx context.Context, res config.Resolved, args options.Accessor, p fsutil.Prober) *qnx.Policy {
	_, span := trace.Start(ctx, trace.ScopeToolchain, "policy")
	drv := res.Driver.WithArgs(args)
	tc := qnx.New(drv, res.Triple, args, p)

	span.WithExtra("triple", res.Triple.String())
	if drv.SysRoot != "" {
		span.WithExtra("sysroot", drv.SysRoot)
	}
	detail := "no gcc installation"
	if gcc, ok := tc.GCCInstallation(); ok {
		detail = "gcc " + gcc.Version + " at " + gcc.InstallPath
	}
	span.End(detail)
	return tc
}

// Link builds the command for a single driver invocation: argv is parsed
// as a link line and -o names the output.
func Link(ctx context.Context, res config.Resolved, argv []string, p fsutil.Prober) (command.Command, error) {
	parsed, err := options.Parse(argv)
	if err != nil {
		return command.Command{}, err
	}
	tc := NewPolicy(ctx, res, parsed.Options, p)

	out := toolchain.Nothing()
	if parsed.HasOutput {
		if parsed.Output == "" {
			return command.Command{}, fmt.Errorf("empty output path")
		}
		out = toolchain.Filename(parsed.Output)
	}

	_, span := trace.Start(ctx, trace.ScopeStep, "link")
	cmd := tc.BuildLink(parsed.Options, parsed.Inputs, out)
	span.WithExtra("fingerprint", cmd.Fingerprint()[:12]).
		WithExtra("options", renderOptions(parsed.Options)).
		End("")
	return cmd, nil
}

func renderOptions(o options.Options) string {
	parts := make([]string, 0, o.Len())
	for _, a := range o.Args() {
		parts = append(parts, a.Render()...)
	}
	return strings.Join(parts, " ")
}

// BuildOne builds a single step against tc.
func BuildOne(ctx context.Context, tc *qnx.Policy, step Step) (StepResult, error) {
	start := time.Now()
	_, span := trace.Start(ctx, trace.ScopeStep, "link:"+step.Name)

	parsed, err := options.Parse(step.Args)
	if err != nil {
		span.End("error")
		return StepResult{}, fmt.Errorf("step %q: %w", step.Name, err)
	}
	if last, ok := parsed.Options.Last(toolchainFlags...); ok {
		span.End("error")
		return StepResult{}, fmt.Errorf("step %q: %s selects the toolchain and must be set on the target", step.Name, last.Render()[0])
	}

	out, err := stepOutput(step, parsed)
	if err != nil {
		span.End("error")
		return StepResult{}, fmt.Errorf("step %q: %w", step.Name, err)
	}

	inputs := make([]options.Input, 0, len(step.Inputs)+len(parsed.Inputs))
	for _, in := range step.Inputs {
		inputs = append(inputs, options.File(in))
	}
	inputs = append(inputs, parsed.Inputs...)

	if step.Mode != nil {
		tc = tc.WithMode(*step.Mode)
	}
	cmd := tc.BuildLink(parsed.Options, inputs, out)

	span.WithExtra("mode", tc.Driver().Mode.String()).
		WithExtra("options", renderOptions(parsed.Options)).
		WithExtra("args", fmt.Sprint(len(cmd.Args))).
		End("")
	return StepResult{Name: step.Name, Command: cmd, Elapsed: time.Since(start)}, nil
}

func stepOutput(step Step, parsed options.Parsed) (toolchain.Output, error) {
	switch {
	case parsed.HasOutput && parsed.Output == "":
		return toolchain.Output{}, fmt.Errorf("empty output path")
	case parsed.HasOutput && (step.Output != "" || step.NoOutput):
		return toolchain.Output{}, fmt.Errorf("output given twice (-o %q in args and in the step)", parsed.Output)
	case parsed.HasOutput:
		return toolchain.Filename(parsed.Output), nil
	case step.Output != "":
		return toolchain.Filename(step.Output), nil
	case step.NoOutput:
		return toolchain.Nothing(), nil
	default:
		return toolchain.Output{}, fmt.Errorf("missing output")
	}
}

// BuildAll builds steps in parallel against one policy. Results are in
// step order regardless of completion order. The first error cancels the
// remaining steps. jobs <= 0 means GOMAXPROCS.
func BuildAll(ctx context.Context, tc *qnx.Policy, steps []Step, jobs int) ([]StepResult, error) {
	if len(steps) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "plan")
	defer span.End("")

	// each goroutine owns results[i]
	results := make([]StepResult, len(steps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(steps)))
	for i, step := range steps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := BuildOne(gctx, tc, step)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	span.WithExtra("steps", fmt.Sprint(len(steps)))
	return results, nil
}

// StepsFromManifest converts manifest link entries to steps. Relative
// inputs and outputs are taken relative to root, the manifest directory;
// args are passed through as written.
func StepsFromManifest(root string, links []config.Link) ([]Step, error) {
	steps := make([]Step, 0, len(links))
	for _, l := range links {
		s := Step{
			Name:     l.Name,
			Args:     l.Args,
			Output:   underRoot(root, l.Output),
			NoOutput: l.NoOutput,
		}
		for _, in := range l.Inputs {
			s.Inputs = append(s.Inputs, underRoot(root, in))
		}
		if l.Mode != "" {
			m, err := driver.ParseMode(l.Mode)
			if err != nil {
				return nil, fmt.Errorf("link %q: %w", l.Name, err)
			}
			s.Mode = &m
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func underRoot(root, p string) string {
	if root == "" || p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
