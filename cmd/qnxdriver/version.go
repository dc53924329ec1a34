package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"qnxdriver/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	SDP       string `json:"sdp"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	var (
		format string
		full   bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show qnxdriver build metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format = strings.ToLower(format); format {
			case "pretty", "json":
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
			p := collectVersion()
			if format == "json" {
				return renderVersionJSON(cmd.OutOrStdout(), p, full)
			}
			renderVersionPretty(cmd.OutOrStdout(), p, full)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVar(&full, "full", false, "include commit and build date")
	return cmd
}

func collectVersion() versionPayload {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "dev"
	}
	return versionPayload{
		Tool:      "qnxdriver",
		Version:   v,
		SDP:       version.SDP,
		GitCommit: strings.TrimSpace(version.GitCommit),
		BuildDate: strings.TrimSpace(version.BuildDate),
	}
}

func renderVersionPretty(out io.Writer, p versionPayload, full bool) {
	fmt.Fprintf(out, "qnxdriver %s (QNX SDP %s)\n", version.Pretty(p.Version), p.SDP)
	if full {
		fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(p.GitCommit))
		fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(p.BuildDate))
	}
}

func renderVersionJSON(out io.Writer, p versionPayload, full bool) error {
	if full {
		p.GitCommit = valueOrUnknown(p.GitCommit)
		p.BuildDate = valueOrUnknown(p.BuildDate)
	} else {
		p.GitCommit, p.BuildDate = "", ""
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
