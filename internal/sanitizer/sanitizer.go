// Package sanitizer models sets of runtime instrumentation capabilities.
package sanitizer

import (
	"fmt"
	"math/bits"
	"strings"
)

// Kind is a single sanitizer capability bit.
type Kind uint64

const (
	Address Kind = 1 << iota
	PointerCompare
	PointerSubtract
	Memory
	Leak
	Thread
	Function
	FloatDivideByZero
	UnsignedIntegerOverflow
	UnsignedShiftBase
	ImplicitConversion
	Nullability
	LocalBounds
	CFICastStrict
	KCFI

	kindEnd
)

var names = map[Kind]string{
	Address:                 "address",
	PointerCompare:          "pointer-compare",
	PointerSubtract:         "pointer-subtract",
	Memory:                  "memory",
	Leak:                    "leak",
	Thread:                  "thread",
	Function:                "function",
	FloatDivideByZero:       "float-divide-by-zero",
	UnsignedIntegerOverflow: "unsigned-integer-overflow",
	UnsignedShiftBase:       "unsigned-shift-base",
	ImplicitConversion:      "implicit-conversion",
	Nullability:             "nullability",
	LocalBounds:             "local-bounds",
	CFICastStrict:           "cfi-cast-strict",
	KCFI:                    "kcfi",
}

// String returns the -fsanitize= spelling of a single kind.
func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("sanitizer(%#x)", uint64(k))
}

// Set is a set of sanitizer kinds.
type Set uint64

// Of builds a set from kinds.
func Of(kinds ...Kind) Set {
	var s Set
	for _, k := range kinds {
		s |= Set(k)
	}
	return s
}

// Has reports whether every kind in k is in the set.
func (s Set) Has(k Kind) bool { return s&Set(k) == Set(k) }

// Union returns s ∪ o.
func (s Set) Union(o Set) Set { return s | o }

// Empty reports whether the set has no members.
func (s Set) Empty() bool { return s == 0 }

// Len returns the number of members.
func (s Set) Len() int { return bits.OnesCount64(uint64(s)) }

// Kinds returns the members in bit order.
func (s Set) Kinds() []Kind {
	out := make([]Kind, 0, s.Len())
	for k := Kind(1); k < kindEnd; k <<= 1 {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// String renders members comma-separated in bit order.
func (s Set) String() string {
	kinds := s.Kinds()
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = k.String()
	}
	return strings.Join(parts, ",")
}

// Parse reads a comma-separated -fsanitize= value.
func Parse(s string) (Set, error) {
	var out Set
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, ok := lookup(part)
		if !ok {
			return 0, fmt.Errorf("unsupported sanitizer %q", part)
		}
		out |= Set(k)
	}
	return out, nil
}

func lookup(name string) (Kind, bool) {
	for k, n := range names {
		if n == name {
			return k, true
		}
	}
	return 0, false
}
