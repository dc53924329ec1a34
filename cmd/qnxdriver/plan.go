package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"qnxdriver/internal/command"
	"qnxdriver/internal/fsutil"
	"qnxdriver/internal/observ"
	"qnxdriver/internal/options"
	"qnxdriver/internal/pipeline"
)

func newPlanCmd() *cobra.Command {
	var (
		format string
		jobs   int
		only   []string
	)
	cmd := &cobra.Command{
		Use:   "plan [manifest]",
		Short: "Print the ld invocation of every [[link]] step in the manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cmd.Root().PersistentFlags().Set("config", args[0]); err != nil {
					return err
				}
			}
			format = strings.ToLower(format)
			if err := checkCommandFormat(format, cmd.OutOrStdout()); err != nil {
				return err
			}

			res, m, err := loadTarget(cmd)
			if err != nil {
				return err
			}
			if m == nil {
				return errors.New("no qnxdriver.toml or qnxdriver.yaml found\nplease pass a manifest, e.g.:\n  qnxdriver plan path/to/qnxdriver.toml")
			}
			steps, err := pipeline.StepsFromManifest(m.Root, m.Links)
			if err != nil {
				return fmt.Errorf("%s: %w", m.Path, err)
			}
			steps, err = selectSteps(steps, only)
			if err != nil {
				return err
			}

			timer := observ.NewTimer()
			idx := timer.Begin("policy")
			tc := pipeline.NewPolicy(cmd.Context(), res, options.New(), fsutil.OS{})
			timer.End(idx, res.Triple.String())

			results, err := pipeline.BuildAll(cmd.Context(), tc, steps, jobs)
			if err != nil {
				return fmt.Errorf("%s: %w", m.Path, err)
			}

			out := cmd.OutOrStdout()
			cmds := make([]command.Command, 0, len(results))
			for _, r := range results {
				timer.Record("link:"+r.Name, r.Elapsed, "")
				cmds = append(cmds, r.Command)
			}
			if format != "shell" {
				if err := writeCommands(out, format, cmds...); err != nil {
					return err
				}
				printTimings(cmd, timer)
				return nil
			}
			for i, r := range results {
				if !quiet(cmd) {
					fmt.Fprintln(out, color.New(color.Faint).Sprintf("# %s", r.Name))
				}
				if err := writeCommands(out, format, cmds[i]); err != nil {
					return err
				}
			}
			printTimings(cmd, timer)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "shell", "output format (shell|json|msgpack)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "steps built in parallel (0 = GOMAXPROCS)")
	cmd.Flags().StringSliceVar(&only, "only", nil, "plan only the named steps")
	return cmd
}

// selectSteps keeps the named steps in manifest order.
func selectSteps(steps []pipeline.Step, names []string) ([]pipeline.Step, error) {
	if len(names) == 0 {
		return steps, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = false
	}
	var out []pipeline.Step
	for _, s := range steps {
		if _, ok := want[s.Name]; ok {
			want[s.Name] = true
			out = append(out, s)
		}
	}
	for _, n := range names {
		if !want[n] {
			return nil, fmt.Errorf("unknown link step %q", n)
		}
	}
	return out, nil
}
