// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"testing"

	"github.com/specgo-dev/specgo/internal/assert"
)

func validSignal() Signal {
	return Signal{
		Name:      "speed",
		StartBit:  0,
		BitLength: 8,
		ByteOrder: LittleEndian,
		Scale:     1.0,
	}
}

func TestNewSignalAcceptsValidInput(t *testing.T) {
	sig, diags := NewSignal("signal", validSignal())
	assert.True(t, diags.Ok(), "unexpected diagnostics: %v", diags.Strings())
	assert.Equal(t, "speed", sig.Name)
}

func TestNewSignalRejectsZeroBitLength(t *testing.T) {
	s := validSignal()
	s.BitLength = 0
	_, diags := NewSignal("signal", s)
	assert.True(t, !diags.Ok(), "expected a diagnostic for bit_length=0")
}

// Value-range problems (zero scale, inverted bounds, out-of-range
// defaults and enum values) are deliberately not this constructor's
// business: they must flow through so the semantic validator can report
// them all in one pass with full message context.
func TestNewSignalLeavesRangeInvariantsToSemanticLayer(t *testing.T) {
	s := validSignal()
	s.Scale = 0
	s.HasMin, s.Min = true, 10
	s.HasMax, s.Max = true, 10
	s.Enum = []EnumEntry{{Name: "TOO_BIG", Value: 100000}}
	_, diags := NewSignal("signal", s)
	assert.True(t, diags.Ok(), "unexpected diagnostics: %v", diags.Strings())
}

func TestRawRangeUnsigned(t *testing.T) {
	s := validSignal()
	s.BitLength = 4
	lo, hi := s.RawRange()
	assert.Equal(t, int64(0), lo)
	assert.Equal(t, int64(15), hi)
}

func TestRawRangeSigned(t *testing.T) {
	s := validSignal()
	s.BitLength = 8
	s.Signed = true
	lo, hi := s.RawRange()
	assert.Equal(t, int64(-128), lo)
	assert.Equal(t, int64(127), hi)
}

func TestRawRangeUnsigned64Bit(t *testing.T) {
	s := validSignal()
	s.BitLength = 64
	lo, hi := s.RawRangeUnsigned()
	assert.Equal(t, uint64(0), lo)
	assert.Equal(t, uint64(1<<64-1), hi)
}

func TestRawRangeSigned64Bit(t *testing.T) {
	s := validSignal()
	s.BitLength = 64
	s.Signed = true
	lo, hi := s.RawRange()
	assert.True(t, lo < 0 && hi > 0, "expected a full signed 64-bit span")
}
