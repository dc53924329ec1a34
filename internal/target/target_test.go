package target

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Triple
	}{
		{"x86_64-pc-nto-qnx8.0.0", Triple{ArchX86_64, "pc", "nto-qnx8.0.0"}},
		{"aarch64-unknown-nto-qnx7.1.0", Triple{ArchAArch64, "unknown", "nto-qnx7.1.0"}},
		{"aarch64le-nto-qnx8.0.0", Triple{ArchAArch64, "unknown", "nto-qnx8.0.0"}},
		{"amd64-qnx", Triple{ArchX86_64, "unknown", "qnx"}},
		{"armv7-unknown-nto-qnx7.1.0", Triple{ArchARM, "unknown", "nto-qnx7.1.0"}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "x86_64", "-pc-linux"} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("Parse(%q) accepted", bad)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"x86_64-pc-nto-qnx8.0.0", "aarch64-unknown-nto-qnx8.0.0", "x86_64-pc-linux-gnu"} {
		got, err := Parse(s)
		if err != nil || got.String() != s {
			t.Fatalf("String(Parse(%q)) = %q", s, got)
		}
	}
}

func TestQNX(t *testing.T) {
	x := QNX(ArchX86_64, "8.0.0")
	if x.String() != "x86_64-pc-nto-qnx8.0.0" || !x.IsQNX() || x.OSVersion() != "8.0.0" || x.PtrSize() != 8 {
		t.Fatalf("QNX x86_64 = %+v", x)
	}
	a := QNX(ArchAArch64, "8.0.0")
	if a.String() != "aarch64-unknown-nto-qnx8.0.0" {
		t.Fatalf("QNX aarch64 = %s", a)
	}
	if linux, _ := Parse("x86_64-pc-linux-gnu"); linux.IsQNX() {
		t.Fatal("linux is not QNX")
	}
	if QNX(ArchARM, "7.1.0").Is64Bit() {
		t.Fatal("arm is 32-bit")
	}
}

func TestAliases(t *testing.T) {
	want := []string{
		"x86_64-pc-nto-qnx8.0.0",
		"x86_64-nto-qnx8.0.0",
		"x86_64-unknown-nto-qnx8.0.0",
	}
	if diff := cmp.Diff(want, QNX(ArchX86_64, "8.0.0").Aliases()); diff != "" {
		t.Fatalf("Aliases (-want +got):\n%s", diff)
	}
}
