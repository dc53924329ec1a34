// Package target describes resolved target triples.
package target

import (
	"fmt"
	"strings"
)

// Arch is the triple's architecture component.
type Arch string

const (
	ArchX86_64  Arch = "x86_64"
	ArchAArch64 Arch = "aarch64"
	ArchARM     Arch = "arm"
	ArchX86     Arch = "i386"
)

// Triple is an already-resolved <arch>-<vendor>-<os> target identity.
// The OS component keeps its version suffix, e.g. "nto-qnx8.0.0".
type Triple struct {
	Arch   Arch
	Vendor string
	OS     string
}

// Parse splits a triple string. A two-component triple gets an "unknown"
// vendor; QNX triples carry a two-part OS ("nto-qnxX.Y.Z").
func Parse(s string) (Triple, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")
	switch {
	case len(parts) < 2 || parts[0] == "":
		return Triple{}, fmt.Errorf("invalid target triple %q", s)
	case len(parts) == 2:
		return Triple{Arch: normalizeArch(parts[0]), Vendor: "unknown", OS: parts[1]}, nil
	case parts[1] == "nto":
		// vendor omitted: x86_64-nto-qnx8.0.0
		return Triple{Arch: normalizeArch(parts[0]), Vendor: "unknown", OS: strings.Join(parts[1:], "-")}, nil
	default:
		return Triple{Arch: normalizeArch(parts[0]), Vendor: parts[1], OS: strings.Join(parts[2:], "-")}, nil
	}
}

func normalizeArch(a string) Arch {
	switch a {
	case "amd64", "x86-64":
		return ArchX86_64
	case "arm64", "aarch64le":
		return ArchAArch64
	case "i486", "i586", "i686", "x86":
		return ArchX86
	case "armv7", "armv7le", "armle":
		return ArchARM
	default:
		return Arch(a)
	}
}

// String renders the triple.
func (t Triple) String() string {
	return string(t.Arch) + "-" + t.Vendor + "-" + t.OS
}

// IsQNX reports whether the OS component names QNX Neutrino.
func (t Triple) IsQNX() bool {
	return strings.HasPrefix(t.OS, "nto-qnx") || strings.HasPrefix(t.OS, "qnx")
}

// OSVersion returns the version suffix of a QNX OS component, e.g. "8.0.0".
func (t Triple) OSVersion() string {
	os := strings.TrimPrefix(t.OS, "nto-")
	return strings.TrimPrefix(os, "qnx")
}

// Is64Bit reports whether pointers are 8 bytes wide.
func (t Triple) Is64Bit() bool {
	return t.Arch == ArchX86_64 || t.Arch == ArchAArch64
}

// PtrSize returns the pointer width in bytes.
func (t Triple) PtrSize() int {
	if t.Is64Bit() {
		return 8
	}
	return 4
}

// Aliases returns the triple spellings under which host-compiler runtime
// installs for this target are commonly found, most specific first.
func (t Triple) Aliases() []string {
	out := []string{t.String()}
	add := func(s string) {
		for _, have := range out {
			if have == s {
				return
			}
		}
		out = append(out, s)
	}
	add(string(t.Arch) + "-" + t.OS)
	if t.IsQNX() {
		add(string(t.Arch) + "-pc-nto-qnx" + t.OSVersion())
		add(string(t.Arch) + "-unknown-nto-qnx" + t.OSVersion())
	}
	return out
}

// QNX returns a QNX Neutrino triple for arch and OS version.
func QNX(arch Arch, version string) Triple {
	vendor := "unknown"
	if arch == ArchX86_64 || arch == ArchX86 {
		vendor = "pc"
	}
	return Triple{Arch: arch, Vendor: vendor, OS: "nto-qnx" + version}
}
