// SPDX-License-Identifier: Apache-2.0
package ir

import "fmt"

// CurrentIRVersion is the ir_version stamped onto specs this repo builds
// from scratch (e.g. in tests). Specs ingested from files carry their own.
const CurrentIRVersion = "0.1"

// SpecIR is the root container for one ingested spec file: a version tag,
// a Meta header, a default BusType, and the ordered Messages it defines.
//
// SpecIR instances are produced once (by an external ingester, or by the
// schema validator acting on a parsed YAML mapping), validated, and then
// treated as immutable inputs to every downstream component. Nothing in
// this repo mutates a SpecIR after construction.
type SpecIR struct {
	IRVersion string
	Meta      Meta
	BusType   BusType
	Messages  []Message
}

// NewSpecIR constructs a SpecIR, validating that message IDs and names are
// each unique (a structural concern the IR Model owns) and delegating
// field-level validation of Meta, BusType and each Message to their own
// constructors' results, which the caller is expected to have already
// accumulated. This constructor only adds spec-level cross-message checks;
// it does not re-run field-level checks on entities already constructed.
func NewSpecIR(irVersion string, meta Meta, bus BusType, messages []Message) (SpecIR, Diagnostics) {
	var diags Diagnostics

	if irVersion == "" {
		irVersion = CurrentIRVersion
	}

	ids := make(map[uint]int, len(messages))
	names := make(map[string]int, len(messages))

	for i, msg := range messages {
		if other, dup := ids[msg.ID]; dup {
			diags = append(diags, SchemaError(
				fmt.Sprintf("messages[%d].id", i),
				"duplicate message id %d (also at index %d)", msg.ID, other,
			))
		} else {
			ids[msg.ID] = i
		}

		if other, dup := names[msg.Name]; dup {
			diags = append(diags, SchemaError(
				fmt.Sprintf("messages[%d].name", i),
				"duplicate message name %q (also at index %d)", msg.Name, other,
			))
		} else {
			names[msg.Name] = i
		}
	}

	return SpecIR{IRVersion: irVersion, Meta: meta, BusType: bus, Messages: messages}, diags
}

// EffectiveBusType returns the Message's own bus-type override if present,
// otherwise the SpecIR's default bus type.
func (s SpecIR) EffectiveBusType(m Message) BusType {
	if m.HasBusType {
		return m.BusType
	}
	return s.BusType
}
