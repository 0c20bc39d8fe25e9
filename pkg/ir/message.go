// SPDX-License-Identifier: Apache-2.0
package ir

import "fmt"

// Direction tags which side(s) of the bus a Message is expected on.
type Direction string

// Recognised Direction values.
const (
	DirTX      Direction = "tx"
	DirRX      Direction = "rx"
	DirTXRX    Direction = "tx/rx"
	DirUnknown Direction = "unknown"
	DirNone    Direction = ""
)

// IsValid reports whether d is recognised (or absent).
func (d Direction) IsValid() bool {
	switch d {
	case DirTX, DirRX, DirTXRX, DirUnknown, DirNone:
		return true
	}
	return false
}

// Message is a framed payload: an id, a fixed byte length (dlc), and an
// ordered collection of Signals packed into it.
type Message struct {
	ID          uint
	Name        string
	DLC         uint
	IsExtended  bool
	IsFD        bool
	HasBusType  bool
	BusType     BusType
	Description string
	Direction   Direction
	Signals     []Signal
}

// NewMessage constructs a Message, validating the field-level constraints
// the IR Model owns (dlc >= 0 is implicit in the unsigned type; id >= 0
// likewise). Bit-layout cross-checks (payload bounds, signal overlap)
// belong to pkg/semantic, which needs the bit-layout engine and therefore
// cannot live in this package without an import cycle.
func NewMessage(path string, m Message) (Message, Diagnostics) {
	var diags Diagnostics

	if m.Name == "" {
		diags = append(diags, SchemaError(path+".name", "must not be empty"))
	}

	if !m.Direction.IsValid() {
		diags = append(diags, SchemaError(path+".direction", "unrecognised direction %q", m.Direction))
	}

	names := make(map[string]int, len(m.Signals))
	for i, sig := range m.Signals {
		if other, dup := names[sig.Name]; dup {
			diags = append(diags, SchemaError(
				fmt.Sprintf("%s.signals[%d]", path, i),
				"duplicate signal name %q (also at index %d)", sig.Name, other,
			))
		} else {
			names[sig.Name] = i
		}
	}

	return m, diags
}
