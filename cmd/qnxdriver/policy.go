package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"qnxdriver/internal/fsutil"
	"qnxdriver/internal/options"
	"qnxdriver/internal/pipeline"
	"qnxdriver/internal/sanitizer"
	"qnxdriver/internal/toolchain/qnx"
)

func newPolicyCmd() *cobra.Command {
	var sanitize string
	cmd := &cobra.Command{
		Use:   "policy [--sanitize list] [-- <driver args>]",
		Short: "Show the target defaults, search paths and sanitizers",
		RunE: func(cmd *cobra.Command, args []string) error {
			argv, err := driverArgs(cmd, args)
			if err != nil {
				return err
			}
			parsed, err := options.Parse(argv)
			if err != nil {
				return err
			}
			res, _, err := loadTarget(cmd)
			if err != nil {
				return err
			}
			tc := pipeline.NewPolicy(cmd.Context(), res, parsed.Options, fsutil.OS{})
			if sanitize != "" {
				return checkSanitizers(cmd.OutOrStdout(), tc, sanitize)
			}
			renderPolicy(cmd.OutOrStdout(), tc, parsed.Options)
			return nil
		},
	}
	cmd.Flags().StringVar(&sanitize, "sanitize", "", "check a -fsanitize= list against the target instead of printing the table")
	return cmd
}

// checkSanitizers fails when list names a sanitizer the target lacks.
func checkSanitizers(out io.Writer, tc *qnx.Policy, list string) error {
	want, err := sanitizer.Parse(list)
	if err != nil {
		return err
	}
	if missing := want &^ tc.SupportedSanitizers(); !missing.Empty() {
		return fmt.Errorf("%s does not support -fsanitize=%s", tc.Triple(), missing)
	}
	fmt.Fprintf(out, "%s: -fsanitize=%s supported\n", tc.Triple(), want)
	return nil
}

type policyRow struct {
	key    string
	values []string
}

func policyRows(tc *qnx.Policy, args options.Accessor) []policyRow {
	drv := tc.Driver()
	linker, isLLD := tc.LinkerPath(args, tc.DefaultLinker())
	if isLLD {
		linker += " (lld)"
	}
	gcc, gccLib := "none", "none"
	if inst, ok := tc.GCCInstallation(); ok {
		gcc = inst.Version + " " + inst.InstallPath
		gccLib = inst.ParentLibPath
	}
	return []policyRow{
		{"target", []string{tc.Triple().String()}},
		{"sysroot", []string{orNone(drv.SysRoot)}},
		{"mode", []string{drv.Mode.String()}},
		{"pointer size", []string{strconv.Itoa(tc.Triple().PtrSize())}},
		{"linker", []string{linker}},
		{"pic default", []string{strconv.FormatBool(tc.IsPICDefault())}},
		{"pie default", []string{strconv.FormatBool(tc.IsPIEDefault(args))}},
		{"math-errno", []string{strconv.FormatBool(tc.IsMathErrnoDefault())}},
		{"native llvm", []string{strconv.FormatBool(tc.HasNativeLLVMSupport())}},
		{"c++ stdlib", []string{tc.CXXStdlib(args).String()}},
		{"unwindlib", []string{tc.UnwindLib(args).String()}},
		{"lto", []string{drv.LTO.String()}},
		{"gcc", []string{gcc}},
		{"gcc lib dir", []string{gccLib}},
		{"library paths", tc.FilePaths()},
		{"program paths", tc.ProgramPaths()},
		{"c++ headers", []string{tc.CXXIncludePath()}},
		{"sanitizers", strings.Split(tc.SupportedSanitizers().String(), ",")},
	}
}

func renderPolicy(out io.Writer, tc *qnx.Policy, args options.Accessor) {
	rows := policyRows(tc, args)
	width := 0
	for _, r := range rows {
		width = max(width, runewidth.StringWidth(r.key))
	}
	key := color.New(color.FgCyan)
	for _, r := range rows {
		values := r.values
		if len(values) == 0 {
			values = []string{"none"}
		}
		for i, v := range values {
			label := ""
			if i == 0 {
				label = r.key
			}
			fmt.Fprintf(out, "%s  %s\n", key.Sprint(runewidth.FillRight(label, width)), v)
		}
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
