package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"qnxdriver/internal/config"
)

const defaultTripleHelp = config.DefaultTriple

// loadTarget resolves the target from the manifest (explicit --config or
// discovered upward from the working directory) and the persistent flags.
// A missing manifest is fine: flags and $QNX_TARGET/$QNX_HOST still apply.
func loadTarget(cmd *cobra.Command) (config.Resolved, *config.Manifest, error) {
	pf := cmd.Root().PersistentFlags()
	path, err := pf.GetString("config")
	if err != nil {
		return config.Resolved{}, nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	var m *config.Manifest
	if path != "" {
		m, err = config.Load(path)
	} else {
		m, err = config.Discover(".")
		if errors.Is(err, config.ErrNotFound) {
			err = nil
		}
	}
	if err != nil {
		return config.Resolved{}, nil, err
	}

	var ov config.Overrides
	for name, dst := range map[string]*string{"triple": &ov.Triple, "sysroot": &ov.SysRoot, "mode": &ov.Mode} {
		v, err := pf.GetString(name)
		if err != nil {
			return config.Resolved{}, nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}

	var tgt config.Target
	if m != nil {
		tgt = m.Target
	}
	res, err := tgt.Resolve(ov, nil)
	if err != nil {
		if m != nil {
			return config.Resolved{}, nil, fmt.Errorf("%s: %w", m.Path, err)
		}
		return config.Resolved{}, nil, err
	}
	return res, m, nil
}

// driverArgs returns the arguments after "--". Anything before it is a
// usage error.
func driverArgs(cmd *cobra.Command, args []string) ([]string, error) {
	dash := cmd.ArgsLenAtDash()
	switch {
	case dash < 0 && len(args) > 0:
		return nil, fmt.Errorf("driver arguments must follow --, e.g. %s -- main.o -o app", cmd.CommandPath())
	case dash > 0:
		return nil, fmt.Errorf("unexpected arguments before --: %q", args[:dash])
	case dash < 0:
		return nil, nil
	}
	return args[dash:], nil
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return q
}
