package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qnxdriver/internal/prof"
)

// profileCleanup stops the profilers started by setupProfiling.
var profileCleanup = func() {}

// setupProfiling starts the profilers named by the persistent flags.
func setupProfiling(cmd *cobra.Command) error {
	pf := cmd.Root().PersistentFlags()
	var opts prof.Options
	for name, dst := range map[string]*string{"cpu-profile": &opts.CPU, "mem-profile": &opts.Mem, "runtime-trace": &opts.Trace} {
		v, err := pf.GetString(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}
	if !opts.Enabled() {
		return nil
	}

	session, err := prof.Start(opts)
	if err != nil {
		return err
	}
	profileCleanup = func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}
	return nil
}
