package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"qnxdriver/internal/version"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "qnxdriver",
		Short:         "QNX Neutrino link-line and include-path planner",
		Long:          `qnxdriver turns driver flags into the exact ld invocation and system include list a QNX SDP toolchain uses.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupColor(cmd); err != nil {
				return err
			}
			if err := setupProfiling(cmd); err != nil {
				return err
			}
			return setupTracing(cmd)
		},
	}

	root.AddCommand(newLinkCmd())
	root.AddCommand(newIncludesCmd())
	root.AddCommand(newPolicyCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.String("config", "", "manifest path (default: search upward for qnxdriver.toml/.yaml)")
	pf.String("triple", "", "target triple (default from manifest, else "+defaultTripleHelp+")")
	pf.String("sysroot", "", "target sysroot (default from manifest, else $QNX_TARGET)")
	pf.String("mode", "", "driver mode (c|c++|flang)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Uint("trace-ring-size", 1024, "events kept by the ring tracer")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
	return root
}

func main() {
	err := rootCmd.Execute()
	traceCleanup()
	profileCleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color %q (expected auto|on|off)", mode)
	}
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
