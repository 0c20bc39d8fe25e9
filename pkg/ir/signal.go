// SPDX-License-Identifier: Apache-2.0
package ir

import "math"

// ByteOrder is the bit-numbering convention a Signal's bits are packed
// under. See pkg/layout for how each value is turned into an ordered bit
// sequence.
type ByteOrder string

// Recognised ByteOrder values. Unknown is rejected at ingest time rather
// than tolerated through to codegen.
const (
	LittleEndian ByteOrder = "little_endian"
	BigEndian    ByteOrder = "big_endian"
	Unknown      ByteOrder = "unknown"
)

// IsValid reports whether o is one of the three recognised tags. Note this
// accepts Unknown as a *recognised* tag; rejecting it as an ingest policy
// happens one level up, in pkg/irschema, so that the distinction between
// "malformed" and "disallowed by policy" stays visible in diagnostics.
func (o ByteOrder) IsValid() bool {
	switch o {
	case LittleEndian, BigEndian, Unknown:
		return true
	}
	return false
}

// EnumEntry names one legal raw value of a Signal.
type EnumEntry struct {
	Name        string
	Value       int64
	Description string
	HasDesc     bool
}

// Signal is a contiguous bit-field inside a message payload.
type Signal struct {
	Name      string
	StartBit  uint
	BitLength uint
	ByteOrder ByteOrder
	Signed    bool
	Scale     float64
	Offset    float64

	HasMin bool
	Min    float64
	HasDefault bool
	Default    float64
	HasMax     bool
	Max        float64

	Unit string

	Enum []EnumEntry
}

// NewSignal constructs a Signal, validating only the shape-level
// constraints the IR Model owns: a non-empty name, bit_length > 0, and a
// recognised byte order. Value-range invariants (scale, min/max/default
// interplay, enum representability) and anything requiring other signals
// or the owning message (payload bounds, overlap) are the semantic
// validator's job (pkg/semantic).
func NewSignal(path string, s Signal) (Signal, Diagnostics) {
	var diags Diagnostics

	if s.Name == "" {
		diags = append(diags, SchemaError(path+".name", "must not be empty"))
	}

	if s.BitLength == 0 {
		diags = append(diags, SchemaError(path+".bit_length", "must be strictly positive"))
	}

	if !s.ByteOrder.IsValid() {
		diags = append(diags, SchemaError(path+".byte_order", "unrecognised byte order %q", s.ByteOrder))
	}

	return s, diags
}

// RawRange returns the inclusive [min, max] range of raw integer values this
// signal's encoding can represent, clamped at 64-bit machine
// limits when BitLength >= 64.
func (s Signal) RawRange() (lo, hi int64) {
	n := s.BitLength
	if n > 64 {
		n = 64
	}

	if !s.Signed {
		if n >= 64 {
			return 0, math.MaxInt64 // true max is MaxUint64; see RawRangeUnsigned
		}
		return 0, int64(uint64(1)<<n - 1)
	}

	if n >= 64 {
		return math.MinInt64, math.MaxInt64
	}

	return -(int64(1) << (n - 1)), int64(1)<<(n-1) - 1
}

// RawRangeUnsigned mirrors RawRange but returns the true unsigned bounds,
// needed because an unsigned 64-bit signal's maximum (2^64 - 1) does not
// fit in an int64.
func (s Signal) RawRangeUnsigned() (lo, hi uint64) {
	if s.Signed {
		l, h := s.RawRange()
		return uint64(l), uint64(h)
	}

	n := s.BitLength
	if n >= 64 {
		return 0, math.MaxUint64
	}
	return 0, uint64(1)<<n - 1
}
