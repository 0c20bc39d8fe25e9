// SPDX-License-Identifier: Apache-2.0
package codegen

import (
	"strings"
	"testing"

	"github.com/specgo-dev/specgo/internal/assert"
	"github.com/specgo-dev/specgo/pkg/ir"
)

func twoMessageSpec() ir.SpecIR {
	return ir.SpecIR{
		IRVersion: "0.1",
		Meta:      ir.Meta{Name: "fleet", Format: ir.FormatDBC},
		BusType:   ir.BusType{Kind: ir.BusCAN},
		Messages: []ir.Message{
			{
				ID: 50, Name: "Wheel", DLC: 2,
				Signals: []ir.Signal{
					{Name: "speed", StartBit: 0, BitLength: 16, ByteOrder: ir.LittleEndian, Scale: 1},
				},
			},
			{
				ID: 10, Name: "Engine", DLC: 1,
				Signals: []ir.Signal{
					{Name: "b", StartBit: 4, BitLength: 4, ByteOrder: ir.LittleEndian, Scale: 1},
					{Name: "a", StartBit: 0, BitLength: 4, ByteOrder: ir.LittleEndian, Scale: 1, Signed: true},
				},
			},
		},
	}
}

func TestGenerateRejectsUnsupportedLanguage(t *testing.T) {
	_, err := Generate(twoMessageSpec(), "rust")
	assert.True(t, err != nil, "expected an error for an unsupported language")
}

func TestGenerateRejectsSignalWiderThan64Bits(t *testing.T) {
	spec := ir.SpecIR{
		Meta: ir.Meta{Name: "p"},
		Messages: []ir.Message{
			{ID: 1, Name: "M", DLC: 16, Signals: []ir.Signal{
				{Name: "huge", StartBit: 0, BitLength: 65, ByteOrder: ir.LittleEndian, Scale: 1},
			}},
		},
	}
	_, err := Generate(spec, "c")
	assert.True(t, err != nil, "expected an error for a signal wider than 64 bits")
}

// Messages are emitted in ascending (id, name) order, regardless of input
// order (Wheel id=50 appears before Engine id=10 in the input order here).
func TestGenerateOrdersMessagesByIDThenName(t *testing.T) {
	art, err := Generate(twoMessageSpec(), "c")
	assert.True(t, err == nil, "unexpected error: %v", err)

	header := string(art.HeaderBytes)
	engineIdx := strings.Index(header, "fleet_Engine_t")
	wheelIdx := strings.Index(header, "fleet_Wheel_t")
	assert.True(t, engineIdx >= 0 && wheelIdx >= 0, "expected both structs in header")
	assert.True(t, engineIdx < wheelIdx, "expected Engine (id=10) before Wheel (id=50)")
}

// Signals within a message are emitted in ascending (start_bit, name) order.
func TestGenerateOrdersSignalsByStartBitThenName(t *testing.T) {
	art, err := Generate(twoMessageSpec(), "c")
	assert.True(t, err == nil, "unexpected error: %v", err)

	header := string(art.HeaderBytes)
	aIdx := strings.Index(header, "int64_t a;")
	bIdx := strings.Index(header, "uint64_t b;")
	assert.True(t, aIdx >= 0 && bIdx >= 0, "expected both signal fields in header")
	assert.True(t, aIdx < bIdx, "expected 'a' (start_bit=0) before 'b' (start_bit=4)")
}

func TestGenerateSignedVsUnsignedFieldTypes(t *testing.T) {
	art, err := Generate(twoMessageSpec(), "c")
	assert.True(t, err == nil, "unexpected error: %v", err)
	header := string(art.HeaderBytes)
	assert.True(t, strings.Contains(header, "int64_t a;"), "signed signal must use int64_t")
	assert.True(t, strings.Contains(header, "uint64_t b;"), "unsigned signal must use uint64_t")
}

// Determinism, restated at the renderer level.
func TestGenerateIsDeterministic(t *testing.T) {
	spec := twoMessageSpec()
	a, err := Generate(spec, "c")
	assert.True(t, err == nil, "unexpected error: %v", err)
	b, err := Generate(spec, "c")
	assert.True(t, err == nil, "unexpected error: %v", err)

	assert.Equal(t, string(a.HeaderBytes), string(b.HeaderBytes))
	assert.Equal(t, string(a.SourceBytes), string(b.SourceBytes))
}

// The source must textually include its own header.
func TestGenerateSourceIncludesHeader(t *testing.T) {
	art, err := Generate(twoMessageSpec(), "c")
	assert.True(t, err == nil, "unexpected error: %v", err)
	want := `#include "` + art.HeaderFilename + `"`
	assert.True(t, strings.Contains(string(art.SourceBytes), want), "source must include its own header")
}

func TestGenerateFilenamesAndGuard(t *testing.T) {
	art, err := Generate(twoMessageSpec(), "c")
	assert.True(t, err == nil, "unexpected error: %v", err)
	assert.Equal(t, "fleet_protocol.h", art.HeaderFilename)
	assert.Equal(t, "fleet_protocol.c", art.SourceFilename)
	assert.True(t, strings.Contains(string(art.HeaderBytes), "SPECGO_FLEET_PROTOCOL_H"), "expected header guard")
}

func TestGenerateEmitsOneTrailingNewline(t *testing.T) {
	art, err := Generate(twoMessageSpec(), "c")
	assert.True(t, err == nil, "unexpected error: %v", err)
	for _, b := range [][]byte{art.HeaderBytes, art.SourceBytes} {
		assert.True(t, strings.HasSuffix(string(b), "\n") && !strings.HasSuffix(string(b), "\n\n"), "expected exactly one trailing newline")
	}
}
