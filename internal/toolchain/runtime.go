package toolchain

import (
	"strconv"

	"fortio.org/safecast"

	"qnxdriver/internal/options"
)

// OpenMPRuntime names an OpenMP runtime library.
type OpenMPRuntime string

const (
	OpenMPUnknown OpenMPRuntime = ""
	OpenMPLibomp  OpenMPRuntime = "libomp"
	OpenMPLibgomp OpenMPRuntime = "libgomp"
	OpenMPIOMP5   OpenMPRuntime = "libiomp5"
)

// OpenMPRuntimeKind returns the runtime selected by -fopenmp[=rt], or
// OpenMPUnknown when OpenMP is off or the runtime name is not recognised.
func OpenMPRuntimeKind(args options.Accessor) OpenMPRuntime {
	if !options.HasFlag(args, options.OptFOpenMP, options.OptFNoOpenMP, false) {
		return OpenMPUnknown
	}
	switch rt := OpenMPRuntime(options.LastValue(args, options.OptFOpenMP)); rt {
	case "":
		return OpenMPLibomp
	case OpenMPLibomp, OpenMPLibgomp, OpenMPIOMP5:
		return rt
	default:
		return OpenMPUnknown
	}
}

// OpenMPRuntimeArgs returns the OpenMP runtime link arguments. With
// forceStatic the runtime is bracketed by -Bstatic/-Bdynamic.
func OpenMPRuntimeArgs(args options.Accessor, forceStatic bool) []string {
	var lib string
	switch OpenMPRuntimeKind(args) {
	case OpenMPLibomp:
		lib = "-lomp"
	case OpenMPLibgomp:
		lib = "-lgomp"
	case OpenMPIOMP5:
		lib = "-liomp5"
	default:
		return nil
	}
	if forceStatic {
		return []string{"-Bstatic", lib, "-Bdynamic"}
	}
	return []string{lib}
}

// LTOArgs returns the linker plugin options for LTO.
func LTOArgs(args options.Accessor, thin bool) []string {
	var out []string
	if level, ok := ltoOptLevel(args); ok {
		out = append(out, "-plugin-opt=O"+level)
	}
	if thin {
		out = append(out, "-plugin-opt=thinlto")
		if jobs, ok := ltoJobs(args); ok {
			out = append(out, "-plugin-opt=jobs="+strconv.FormatUint(uint64(jobs), 10))
		}
	}
	return out
}

func ltoOptLevel(args options.Accessor) (string, bool) {
	last, ok := args.Last(options.OptO)
	if !ok {
		return "", false
	}
	switch last.Value {
	case "":
		return "1", true
	case "g":
		return "1", true
	case "s", "z":
		return "2", true
	case "fast", "4":
		return "3", true
	case "0", "1", "2", "3":
		return last.Value, true
	default:
		return "", false
	}
}

func ltoJobs(args options.Accessor) (uint32, bool) {
	v := options.LastValue(args, options.OptFLTOJobs)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	jobs, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0, false
	}
	return jobs, true
}

// CompressDebugSectionsArgs maps -gz[=kind] to the linker option.
func CompressDebugSectionsArgs(args options.Accessor) []string {
	last, ok := args.Last(options.OptGz)
	if !ok {
		return nil
	}
	v := last.Value
	if v == "" {
		v = "zlib"
	}
	switch v {
	case "none", "zlib", "zstd":
		return []string{"--compress-debug-sections=" + v}
	default:
		return nil
	}
}
