// Package testkit holds test fixtures and property checks shared by the
// toolchain, pipeline and CLI tests.
package testkit

import "qnxdriver/internal/fsutil"

// Fixture layout: an SDP target tree under SysRoot and host tools under
// HostBin.
const (
	SysRoot = "/opt/qnx"
	HostBin = "/host/usr/bin"
	GCCDir  = SysRoot + "/usr/lib/gcc/x86_64-pc-nto-qnx8.0.0/12.2.0"
)

// SDP returns an in-memory QNX SDP: start files under <SysRoot>/usr/lib, a
// GCC 12.2.0 runtime directory and the host linkers.
func SDP() *fsutil.Map {
	return fsutil.NewMap(
		SysRoot+"/usr/lib/crt1.o",
		SysRoot+"/usr/lib/mcrt1.o",
		SysRoot+"/usr/lib/crti.o",
		SysRoot+"/usr/lib/crtn.o",
		GCCDir+"/crtbegin.o",
		GCCDir+"/crtend.o",
		HostBin+"/x86_64-pc-nto-qnx8.0.0-ld",
		HostBin+"/ld.lld",
	)
}
