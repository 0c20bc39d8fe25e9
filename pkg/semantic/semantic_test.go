// SPDX-License-Identifier: Apache-2.0
package semantic

import (
	"strings"
	"testing"

	"github.com/specgo-dev/specgo/internal/assert"
	"github.com/specgo-dev/specgo/pkg/ir"
)

func specWithMessage(msg ir.Message) ir.SpecIR {
	return ir.SpecIR{
		IRVersion: "0.1",
		Meta:      ir.Meta{Name: "p", Format: ir.FormatText},
		BusType:   ir.BusType{Kind: ir.BusCAN},
		Messages:  []ir.Message{msg},
	}
}

func TestValidateAcceptsNonOverlappingSignals(t *testing.T) {
	msg := ir.Message{
		ID: 1, Name: "M", DLC: 1,
		Signals: []ir.Signal{
			{Name: "a", StartBit: 0, BitLength: 4, ByteOrder: ir.LittleEndian, Scale: 1},
			{Name: "b", StartBit: 4, BitLength: 4, ByteOrder: ir.LittleEndian, Scale: 1},
		},
	}
	diags := Validate(specWithMessage(msg))
	assert.True(t, diags.Ok(), "unexpected diagnostics: %v", diags.Strings())
}

// An overlap yields a single diagnostic naming both conflicting signals.
func TestValidateRejectsOverlappingSignalsWithOneDiagnostic(t *testing.T) {
	msg := ir.Message{
		ID: 7, Name: "Conflicting", DLC: 2,
		Signals: []ir.Signal{
			{Name: "first", StartBit: 0, BitLength: 8, ByteOrder: ir.LittleEndian, Scale: 1},
			{Name: "second", StartBit: 0, BitLength: 8, ByteOrder: ir.LittleEndian, Scale: 1},
		},
	}
	diags := Validate(specWithMessage(msg))

	var overlaps int
	for _, d := range diags {
		if d.Layer == "semantic" {
			overlaps++
		}
	}
	assert.Equal(t, 1, overlaps)

	s := diags[0].String()
	assert.True(t, strings.Contains(s, "first") && strings.Contains(s, "second"), "diagnostic %q must name both signals", s)
}

func TestValidateRejectsSignalExceedingDLC(t *testing.T) {
	msg := ir.Message{
		ID: 1, Name: "M", DLC: 1,
		Signals: []ir.Signal{
			{Name: "a", StartBit: 4, BitLength: 8, ByteOrder: ir.LittleEndian, Scale: 1},
		},
	}
	diags := Validate(specWithMessage(msg))
	assert.True(t, !diags.Ok(), "expected a diagnostic for a signal exceeding the message DLC")
}

// Collects every violation in one pass rather than stopping at the
// first: three independent violations must produce three diagnostics.
func TestValidateCollectsAllViolationsInOnePass(t *testing.T) {
	msg := ir.Message{
		ID: 1, Name: "M", DLC: 1,
		Signals: []ir.Signal{
			{
				Name: "bad", StartBit: 0, BitLength: 8, ByteOrder: ir.LittleEndian,
				Scale: 0, // zero scale
				HasMin: true, Min: 10, HasMax: true, Max: 5, // inverted bounds
				Enum: []ir.EnumEntry{{Name: "TOO_BIG", Value: 999}}, // unrepresentable enum value
			},
		},
	}
	diags := Validate(specWithMessage(msg))
	assert.Equal(t, 3, len(diags))
}

func TestValidateRejectsEnumValueOutsideSignalRange(t *testing.T) {
	msg := ir.Message{
		ID: 1, Name: "M", DLC: 1,
		Signals: []ir.Signal{
			{
				Name: "mode", StartBit: 0, BitLength: 2, ByteOrder: ir.LittleEndian, Scale: 1,
				Enum: []ir.EnumEntry{{Name: "TOO_BIG", Value: 99}},
			},
		},
	}
	diags := Validate(specWithMessage(msg))
	assert.True(t, !diags.Ok(), "expected a diagnostic for an out-of-range enum value")
}
