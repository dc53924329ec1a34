package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"qnxdriver/internal/fsutil"
	"qnxdriver/internal/options"
	"qnxdriver/internal/pipeline"
	"qnxdriver/internal/toolchain"
)

func newIncludesCmd() *cobra.Command {
	var (
		format string
		cxx    bool
	)
	cmd := &cobra.Command{
		Use:   "includes [--format list|args] [--cxx] [-- <driver args>]",
		Short: "Print the system include search list",
		RunE: func(cmd *cobra.Command, args []string) error {
			argv, err := driverArgs(cmd, args)
			if err != nil {
				return err
			}
			format = strings.ToLower(format)
			if format != "list" && format != "args" {
				return fmt.Errorf("unsupported format %q (must be list or args)", format)
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

			var dirs []toolchain.IncludeDir
			if cxx && !parsed.Options.Has(options.OptNoStdInc, options.OptNoStdlibInc) {
				dirs = append(dirs, toolchain.IncludeDir{Path: tc.CXXIncludePath()})
			}
			dirs = append(dirs, tc.SystemIncludeDirs(parsed.Options)...)

			out := cmd.OutOrStdout()
			for _, d := range dirs {
				if format == "args" {
					fmt.Fprintln(out, strings.Join(d.Args(), " "))
					continue
				}
				fmt.Fprintln(out, d.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "list", "output format (list|args)")
	cmd.Flags().BoolVar(&cxx, "cxx", false, "prepend the libc++ header directory")
	return cmd
}
