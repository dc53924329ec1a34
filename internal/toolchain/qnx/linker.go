package qnx

import (
	"strconv"

	"qnxdriver/internal/command"
	"qnxdriver/internal/driver"
	"qnxdriver/internal/options"
	"qnxdriver/internal/toolchain"
)

const (
	// DynamicLinker is the QNX 64-bit runtime loader.
	DynamicLinker = "/usr/lib/ldqnx-64.so.2"

	// StackSize overrides the QNX default main-thread stack (256K/512K).
	StackSize = 8 << 20
)

// passthrough options are copied to the linker verbatim, in order.
var passthrough = append([]options.ID{options.OptL, options.OptS, options.OptLowerT}, options.TGroup...)

// BuildLinkCommand assembles the ld invocation for one link step. It is a
// pure function of its inputs: identical arguments produce identical
// commands. An invalid out panics.
//
// Flags that only matter before the link step (-g, -emit-llvm, -w,
// -shared-libgcc, -pie, -stdlib=, -pthread) are read where needed and never
// echoed.
func BuildLinkCommand(tc *Policy, args options.Accessor, inputs []options.Input, out toolchain.Output) command.Command {
	out.MustBeValid()

	drv := tc.Driver()
	shared := args.Has(options.OptShared)
	static := args.Has(options.OptStatic)
	relocatable := args.Has(options.OptR)
	isPIE := !shared && (args.Has(options.OptPIE) || tc.IsPIEDefault(args))
	linker, isLLD := tc.LinkerPath(args, tc.DefaultLinker())

	var cmd []string
	if drv.SysRoot != "" {
		cmd = append(cmd, "--sysroot="+drv.SysRoot)
	}
	if isPIE {
		cmd = append(cmd, "-pie")
	}

	cmd = append(cmd,
		"--warn-shared-textrel",
		"-zrelro",
		"-znow",
		"--eh-frame-hdr",
		"-z", "stack-size="+strconv.Itoa(StackSize),
	)

	switch {
	case static:
		cmd = append(cmd, "-Bstatic")
	case shared:
		cmd = append(cmd, "-shared")
	case !relocatable:
		cmd = append(cmd, "-dynamic-linker", DynamicLinker)
	}

	outPath, hasOut := out.Filename()
	if hasOut {
		cmd = append(cmd, "-o", outPath)
	}

	startFiles := !args.Has(options.OptNoStdlib, options.OptNoStartFiles, options.OptR)
	if startFiles {
		crt1 := "crt1.o"
		if args.Has(options.OptPG) {
			crt1 = "mcrt1.o"
		}
		if !shared {
			cmd = append(cmd, tc.GetFilePath(crt1))
		}
		cmd = append(cmd, tc.GetFilePath("crti.o"), tc.GetFilePath("crtbegin.o"))
	}

	for _, a := range args.All(passthrough...) {
		cmd = append(cmd, a.Render()...)
	}
	cmd = append(cmd, tc.FilePathLibArgs()...)

	if lto := ltoMode(drv, args); lto != driver.LTONone && isLLD {
		cmd = append(cmd, toolchain.LTOArgs(args, lto == driver.LTOThin)...)
	}
	cmd = append(cmd, toolchain.CompressDebugSectionsArgs(args)...)

	var declared []string
	for _, in := range inputs {
		cmd = append(cmd, in.Render())
		if name, ok := in.Filename(); ok {
			declared = append(declared, name)
		}
	}

	if !args.Has(options.OptNoStdlib, options.OptNoDefaultLibs, options.OptR) {
		// the Fortran runtime needs libc, so it goes ahead of the C runtime
		if drv.IsFlang() {
			cmd = append(cmd, tc.FortranRuntimeLibraryPathArgs()...)
			cmd = append(cmd, toolchain.FortranRuntimeLibArgs()...)
		}

		cmd = append(cmd, "-lc", "-lm", "-lregex")
		if static {
			cmd = append(cmd, "-lgcc")
		} else {
			cmd = append(cmd, "-lgcc_s")
		}

		staticOpenMP := args.Has(options.OptStaticOpenMP) && !static
		cmd = append(cmd, toolchain.OpenMPRuntimeArgs(args, staticOpenMP)...)

		if drv.IsCXX() && tc.ShouldLinkCXXStdlib(args) {
			cmd = append(cmd, tc.CXXStdlibLibArgs(args, tc.DefaultCXXStdlib())...)
			if static {
				cmd = append(cmd, "-llocale", "-lcatalog")
			}
		}

		cmd = append(cmd, "-lgcc_eh")
	}

	if startFiles {
		cmd = append(cmd, tc.GetFilePath("crtend.o"), tc.GetFilePath("crtn.o"))
	}

	cmd = append(cmd, tc.ProfileRTLibArgs(args)...)

	return command.Command{
		Executable:   linker,
		Args:         cmd,
		Inputs:       declared,
		Output:       outPath,
		ResponseFile: command.ResponseFileAtCurCP,
	}
}

// ltoMode prefers an explicit -flto/-fno-lto in args over the driver
// context's mode.
func ltoMode(drv driver.Context, args options.Accessor) driver.LTOMode {
	if args.Has(options.OptFLTO, options.OptFNoLTO) {
		return driver.LTOFromArgs(args)
	}
	return drv.LTO
}
