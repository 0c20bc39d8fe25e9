// SPDX-License-Identifier: Apache-2.0

// Package semantic is the second validation layer: cross-field invariants
// (bit layout within the payload, signal overlap, min/max/default ranges,
// scale, enum representability) over a structurally-valid ir.SpecIR.
// Diagnostics are prefixed "[semantic]" (via ir.SemanticError) and name the
// message, message id, signal and offending value(s). Every violation is
// collected in one pass; nothing here short-circuits on the first problem.
package semantic

import (
	"fmt"

	"github.com/specgo-dev/specgo/pkg/ir"
	"github.com/specgo-dev/specgo/pkg/layout"
)

// Validate runs every cross-field invariant over spec and returns every
// diagnostic found. An empty (nil) result means spec is semantically valid.
func Validate(spec ir.SpecIR) ir.Diagnostics {
	var diags ir.Diagnostics

	for mi, msg := range spec.Messages {
		diags = append(diags, validateMessage(mi, msg)...)
	}

	return diags
}

func intersect(a, b []uint) []uint {
	set := make(map[uint]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	var out []uint
	for _, v := range b {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

func validateMessage(mi int, msg ir.Message) ir.Diagnostics {
	var diags ir.Diagnostics

	path := fmt.Sprintf("messages[%d] (id=%d, name=%q)", mi, msg.ID, msg.Name)
	totalBits := 8 * msg.DLC

	// Every signal's bit positions must lie within [0, 8*dlc), and no two
	// signals' bit-position sets may intersect. Out-of-range bits are
	// reported once per offending signal, overlaps once per offending pair
	// (a single diagnostic naming both signals and every shared bit).
	positionsOf := make([][]uint, len(msg.Signals))
	for si, sig := range msg.Signals {
		sigPath := fmt.Sprintf("%s.signals[%d] (name=%q)", path, si, sig.Name)

		positions, err := layout.SignalBitPositions(sig)
		if err != nil {
			diags = append(diags, ir.SemanticError(sigPath, "cannot compute bit layout: %v", err))
			continue
		}
		positionsOf[si] = positions

		var outOfRange []uint
		for _, pos := range positions {
			if pos >= totalBits {
				outOfRange = append(outOfRange, pos)
			}
		}
		if len(outOfRange) > 0 {
			diags = append(diags, ir.SemanticError(
				sigPath,
				"bit positions %v are outside the message payload [0, %d) (dlc=%d)",
				outOfRange, totalBits, msg.DLC,
			))
		}
	}

	for i := 0; i < len(msg.Signals); i++ {
		for j := i + 1; j < len(msg.Signals); j++ {
			overlap := intersect(positionsOf[i], positionsOf[j])
			if len(overlap) == 0 {
				continue
			}
			diags = append(diags, ir.SemanticError(
				path,
				"signal %q overlaps signal %q at bit positions %v",
				msg.Signals[i].Name, msg.Signals[j].Name, overlap,
			))
		}
	}

	for si, sig := range msg.Signals {
		sigPath := fmt.Sprintf("%s.signals[%d] (name=%q)", path, si, sig.Name)

		// min < max when both are set.
		if sig.HasMin && sig.HasMax && !(sig.Min < sig.Max) {
			diags = append(diags, ir.SemanticError(sigPath, "min (%v) must be less than max (%v)", sig.Min, sig.Max))
		}

		// min <= default <= max, where those bounds exist.
		if sig.HasDefault {
			if sig.HasMin && sig.Default < sig.Min {
				diags = append(diags, ir.SemanticError(sigPath, "default (%v) is below min (%v)", sig.Default, sig.Min))
			}
			if sig.HasMax && sig.Default > sig.Max {
				diags = append(diags, ir.SemanticError(sigPath, "default (%v) is above max (%v)", sig.Default, sig.Max))
			}
		}

		// scale must be nonzero.
		if sig.Scale == 0 {
			diags = append(diags, ir.SemanticError(sigPath, "scale must be nonzero"))
		}

		// every enum entry's value must be representable in (bit_length, signed).
		lo, hi := sig.RawRange()
		for ei, entry := range sig.Enum {
			if entry.Value < lo || entry.Value > hi {
				diags = append(diags, ir.SemanticError(
					fmt.Sprintf("%s.enum[%d] (name=%q)", sigPath, ei, entry.Name),
					"value %d is outside the signal's (bit_length=%d, signed=%v) range [%d, %d]",
					entry.Value, sig.BitLength, sig.Signed, lo, hi,
				))
			}
		}
	}

	return diags
}
