package testkit

import (
	"fmt"
	"slices"
	"strings"

	"qnxdriver/internal/command"
	"qnxdriver/internal/options"
)

var runtimeLibs = []string{"-lc", "-lm", "-lregex", "-lgcc", "-lgcc_s", "-lgcc_eh"}

// CheckLinkInvariants checks the properties every QNX link line holds for
// args, whatever else it contains:
//  1. "-z stack-size=8388608" is present
//  2. a sysroot is passed first
//  3. static and relocatable links have no -dynamic-linker
//  4. shared links carry -shared and no crt1.o/mcrt1.o
//  5. -nostdlib, -nodefaultlibs and -r drop the C runtime libraries
//  6. the Fortran runtime, when linked, precedes -lc
func CheckLinkInvariants(cmd command.Command, args options.Accessor, sysroot string) error {
	a := cmd.Args

	// 1) stack size
	i := slices.Index(a, "stack-size=8388608")
	if i < 1 || a[i-1] != "-z" {
		return fmt.Errorf("missing -z stack-size=8388608")
	}

	// 2) sysroot first
	if sysroot != "" && (len(a) == 0 || a[0] != "--sysroot="+sysroot) {
		return fmt.Errorf("first argument is not --sysroot=%s", sysroot)
	}

	// 3) no loader for static or relocatable output
	if args.Has(options.OptStatic, options.OptR) && slices.Contains(a, "-dynamic-linker") {
		return fmt.Errorf("-dynamic-linker in a static or relocatable link")
	}

	// 4) shared objects
	if args.Has(options.OptShared) {
		if !args.Has(options.OptStatic) && !slices.Contains(a, "-shared") {
			return fmt.Errorf("shared link without -shared")
		}
		for _, arg := range a {
			if strings.HasSuffix(arg, "/crt1.o") || strings.HasSuffix(arg, "/mcrt1.o") || arg == "crt1.o" || arg == "mcrt1.o" {
				return fmt.Errorf("shared link carries %s", arg)
			}
		}
	}

	// 5) runtime libraries
	if args.Has(options.OptNoStdlib, options.OptNoDefaultLibs, options.OptR) {
		for _, lib := range runtimeLibs {
			if slices.Contains(a, lib) {
				return fmt.Errorf("%s linked despite -nostdlib/-nodefaultlibs/-r", lib)
			}
		}
	}

	// 6) Fortran ahead of libc
	if f := slices.Index(a, "-lflang_rt.runtime"); f >= 0 {
		if c := slices.Index(a, "-lc"); c >= 0 && c < f {
			return fmt.Errorf("Fortran runtime after -lc")
		}
	}
	return nil
}
