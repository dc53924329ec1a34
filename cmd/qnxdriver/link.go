package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"qnxdriver/internal/command"
	"qnxdriver/internal/fsutil"
	"qnxdriver/internal/observ"
	"qnxdriver/internal/pipeline"
)

func newLinkCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "link [--format shell|json|msgpack] -- <driver args>",
		Short: "Print the ld invocation for a link line",
		Example: `  qnxdriver link -- main.o -lsocket -o app
  qnxdriver --sysroot=$QNX_TARGET link --format json -- -shared foo.o -o libfoo.so`,
		RunE: func(cmd *cobra.Command, args []string) error {
			argv, err := driverArgs(cmd, args)
			if err != nil {
				return err
			}
			format = strings.ToLower(format)
			if err := checkCommandFormat(format, cmd.OutOrStdout()); err != nil {
				return err
			}

			timer := observ.NewTimer()
			idx := timer.Begin("target")
			res, _, err := loadTarget(cmd)
			timer.End(idx, res.Triple.String())
			if err != nil {
				return err
			}

			start := time.Now()
			c, err := pipeline.Link(cmd.Context(), res, argv, fsutil.OS{})
			if err != nil {
				return err
			}
			timer.Record("link", time.Since(start), fmt.Sprintf("%d args", len(c.Args)))

			if err := writeCommands(cmd.OutOrStdout(), format, c); err != nil {
				return err
			}
			printTimings(cmd, timer)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "shell", "output format (shell|json|msgpack)")
	return cmd
}

func checkCommandFormat(format string, out io.Writer) error {
	switch format {
	case "shell", "json":
		return nil
	case "msgpack":
		if f, ok := out.(*os.File); ok && isTerminal(f) {
			return fmt.Errorf("refusing to write msgpack to a terminal; redirect stdout")
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be shell, json or msgpack)", format)
	}
}

func writeCommands(out io.Writer, format string, cmds ...command.Command) error {
	switch format {
	case "json":
		return command.EncodeJSON(out, cmds...)
	case "msgpack":
		return command.EncodeMsgpack(out, cmds...)
	default:
		for _, c := range cmds {
			if _, err := fmt.Fprintln(out, c.String()); err != nil {
				return err
			}
		}
		return nil
	}
}

func printTimings(cmd *cobra.Command, timer *observ.Timer) {
	on, _ := cmd.Root().PersistentFlags().GetBool("timings")
	if !on || quiet(cmd) {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
}
