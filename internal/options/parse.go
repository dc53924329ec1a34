package options

import (
	"fmt"
	"sort"
	"strings"
)

type kind uint8

const (
	kindFlag             kind = iota // -static
	kindJoined                       // -O2, --sysroot=/x
	kindSeparate                     // -T script (-Tscript is accepted too)
	kindJoinedOrSeparate             // -L/x or -L /x, rendered joined
)

type info struct {
	spelling string
	id       ID
	kind     kind
}

var table = []info{
	{"-static", OptStatic, kindFlag},
	{"-shared", OptShared, kindFlag},
	{"--shared", OptShared, kindFlag},
	{"-pie", OptPIE, kindFlag},
	{"-no-pie", OptNoPIE, kindFlag},
	{"-nopie", OptNoPIE, kindFlag},
	{"-r", OptR, kindFlag},
	{"-pg", OptPG, kindFlag},

	{"-nostdlib", OptNoStdlib, kindFlag},
	{"-nodefaultlibs", OptNoDefaultLibs, kindFlag},
	{"-nostartfiles", OptNoStartFiles, kindFlag},
	{"-nostdlib++", OptNoStdlibxx, kindFlag},
	{"-stdlib=", OptStdlibEQ, kindJoined},
	{"--unwindlib=", OptUnwindLibEQ, kindJoined},
	{"-unwindlib=", OptUnwindLibEQ, kindJoined},
	{"-fexperimental-library", OptExperimentalLibrary, kindFlag},

	{"-nobuiltininc", OptNoBuiltinInc, kindFlag},
	{"-nostdinc", OptNoStdInc, kindFlag},
	{"--no-standard-includes", OptNoStdInc, kindFlag},
	{"-nostdlibinc", OptNoStdlibInc, kindFlag},

	{"--sysroot=", OptSysroot, kindJoined},
	{"--sysroot", OptSysroot, kindSeparate},
	{"--gcc-toolchain=", OptGCCToolchain, kindJoined},
	{"--gcc-install-dir=", OptGCCInstallDir, kindJoined},

	{"-L", OptL, kindJoinedOrSeparate},
	{"-T", OptT, kindSeparate},
	{"-Tbss", OptTbss, kindSeparate},
	{"-Tdata", OptTdata, kindSeparate},
	{"-Ttext", OptTtext, kindSeparate},
	{"-s", OptS, kindFlag},
	{"-t", OptLowerT, kindFlag},

	{"-pthread", OptPthread, kindFlag},
	{"-pthreads", OptPthreads, kindFlag},
	{"-fopenmp", OptFOpenMP, kindFlag},
	{"-fopenmp=", OptFOpenMP, kindJoined},
	{"-fno-openmp", OptFNoOpenMP, kindFlag},
	{"-static-openmp", OptStaticOpenMP, kindFlag},

	{"-fuse-ld=", OptFuseLd, kindJoined},
	{"-flto", OptFLTO, kindFlag},
	{"-flto=", OptFLTO, kindJoined},
	{"-fno-lto", OptFNoLTO, kindFlag},
	{"-flto-jobs=", OptFLTOJobs, kindJoined},
	{"-O", OptO, kindJoined},

	{"-g", OptG, kindJoined},
	{"-gz", OptGz, kindFlag},
	{"-gz=", OptGz, kindJoined},

	{"-emit-llvm", OptEmitLLVM, kindFlag},
	{"-w", OptW, kindFlag},
	{"-shared-libgcc", OptSharedLibgcc, kindFlag},

	{"-fprofile-instr-generate", OptProfileInstrGenerate, kindFlag},
	{"-fprofile-instr-generate=", OptProfileInstrGenerate, kindJoined},
	{"-fprofile-generate", OptProfileGenerate, kindFlag},
	{"-fprofile-generate=", OptProfileGenerate, kindJoined},
	{"-fprofile-arcs", OptProfileArcs, kindFlag},
	{"--coverage", OptCoverage, kindFlag},
	{"-coverage", OptCoverage, kindFlag},
	{"-fcs-profile-generate", OptCSProfileGenerate, kindFlag},
	{"-fcs-profile-generate=", OptCSProfileGenerate, kindJoined},
}

var (
	exact    = map[string]info{}
	prefixed []info
	// infoByID holds the canonical spelling used by Arg.Render: valued
	// spellings win over bare flags.
	infoByID = map[ID]info{}
)

func init() {
	for _, in := range table {
		exact[in.spelling] = in
		if in.kind != kindFlag {
			prefixed = append(prefixed, in)
		}
		cur, seen := infoByID[in.id]
		if !seen || (cur.kind == kindFlag && in.kind != kindFlag) {
			infoByID[in.id] = in
		}
	}
	// longest spelling first so -Tbss beats -T and -gz= beats -g
	sort.SliceStable(prefixed, func(i, j int) bool {
		return len(prefixed[i].spelling) > len(prefixed[j].spelling)
	})
}

// Parsed is the result of splitting a driver argument vector.
type Parsed struct {
	Options   Options
	Inputs    []Input
	Output    string
	HasOutput bool
}

// Parse splits argv into options, link inputs and the -o output. Unknown
// dash arguments are rejected.
func Parse(argv []string) (Parsed, error) {
	var (
		res  Parsed
		args []Arg
	)
	next := func(i *int, name string) (string, error) {
		if *i+1 >= len(argv) {
			return "", fmt.Errorf("argument to %q is missing (expected 1 value)", name)
		}
		*i++
		return argv[*i], nil
	}

	for i := 0; i < len(argv); i++ {
		a := argv[i]
		switch {
		case a == "-" || !strings.HasPrefix(a, "-"):
			res.Inputs = append(res.Inputs, File(a))

		case a == "-o":
			v, err := next(&i, a)
			if err != nil {
				return Parsed{}, err
			}
			res.Output, res.HasOutput = v, true
		case strings.HasPrefix(a, "-o") && !isKnown(a):
			res.Output, res.HasOutput = a[2:], true

		case a == "-l":
			v, err := next(&i, a)
			if err != nil {
				return Parsed{}, err
			}
			res.Inputs = append(res.Inputs, Library(v))
		case strings.HasPrefix(a, "-l"):
			res.Inputs = append(res.Inputs, Library(a[2:]))

		case strings.HasPrefix(a, "-Wl,"):
			for _, part := range strings.Split(a[len("-Wl,"):], ",") {
				if part != "" {
					res.Inputs = append(res.Inputs, LinkerArg(part))
				}
			}
		case a == "-Xlinker":
			v, err := next(&i, a)
			if err != nil {
				return Parsed{}, err
			}
			res.Inputs = append(res.Inputs, LinkerArg(v))

		default:
			arg, err := lookup(argv, &i)
			if err != nil {
				return Parsed{}, err
			}
			args = append(args, arg)
		}
	}
	res.Options = Options{args: args}
	return res, nil
}

func isKnown(a string) bool {
	if _, ok := exact[a]; ok {
		return true
	}
	for _, in := range prefixed {
		if strings.HasPrefix(a, in.spelling) {
			return true
		}
	}
	return false
}

func lookup(argv []string, i *int) (Arg, error) {
	a := argv[*i]
	if in, ok := exact[a]; ok {
		switch in.kind {
		case kindFlag, kindJoined:
			return Arg{ID: in.id}, nil
		default:
			if *i+1 >= len(argv) {
				return Arg{}, fmt.Errorf("argument to %q is missing (expected 1 value)", a)
			}
			*i++
			return Arg{ID: in.id, Value: argv[*i]}, nil
		}
	}
	for _, in := range prefixed {
		if strings.HasPrefix(a, in.spelling) {
			return Arg{ID: in.id, Value: a[len(in.spelling):]}, nil
		}
	}
	return Arg{}, fmt.Errorf("unknown argument: %q", a)
}
