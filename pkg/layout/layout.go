// SPDX-License-Identifier: Apache-2.0

// Package layout is the bit-layout engine: the single source of truth
// mapping (start_bit, bit_length, byte_order) to the ordered sequence of
// absolute payload bit positions a signal occupies, LSB-of-value first.
// Both the semantic validator (overlap/DLC checks) and the codegen
// renderer (packing order) consume this package; neither
// branches on byte order itself.
package layout

import (
	"fmt"

	"github.com/specgo-dev/specgo/internal/bitset"
	"github.com/specgo-dev/specgo/pkg/ir"
)

// BitPositions returns the absolute payload bit positions a signal with the
// given (startBit, bitLength, byteOrder) occupies, ordered from LSB-of-value
// to MSB-of-value.
//
// little_endian ("Intel"): start_bit is the value's LSB; positions are the
// contiguous range [start_bit, start_bit+bit_length).
//
// big_endian ("Motorola", DBC bit numbering): start_bit is the value's MSB,
// counted in CAN-DBC order (within a byte, bit indices run 7..0; byte 0
// precedes byte 1). The MSB-to-LSB walk is:
//
//	repeat bit_length times, starting at bit = start_bit:
//	  emit bit
//	  if bit mod 8 == 0: bit <- bit + 15
//	  else:              bit <- bit - 1
//
// and the resulting MSB-first sequence is reversed to produce the
// LSB-first ordering this function returns.
//
// Any other byte_order is a hard error, Unknown included: unknown is
// rejected earlier, at ingest, so it never reaches this function from a
// validated SpecIR, but this function is also called directly by tests.
func BitPositions(startBit, bitLength uint, order ir.ByteOrder) ([]uint, error) {
	switch order {
	case ir.LittleEndian:
		positions := make([]uint, bitLength)
		for i := uint(0); i < bitLength; i++ {
			positions[i] = startBit + i
		}
		return positions, nil

	case ir.BigEndian:
		msbFirst := make([]uint, bitLength)
		bit := startBit
		for i := uint(0); i < bitLength; i++ {
			msbFirst[i] = bit
			if bit%8 == 0 {
				bit += 15
			} else {
				bit--
			}
		}
		// Reverse in place to go from MSB-first to LSB-first.
		lsbFirst := make([]uint, bitLength)
		for i, v := range msbFirst {
			lsbFirst[bitLength-1-uint(i)] = v
		}
		return lsbFirst, nil

	default:
		return nil, fmt.Errorf("unsupported byte_order %q", order)
	}
}

// SignalBitPositions is a convenience wrapper over BitPositions for an
// ir.Signal.
func SignalBitPositions(sig ir.Signal) ([]uint, error) {
	return BitPositions(sig.StartBit, sig.BitLength, sig.ByteOrder)
}

// OccupiedSet returns the union of occupied bit positions over every signal
// in msg, as a bitset.Set. Signals with an unsupported byte_order are
// skipped (the schema layer has already raised a diagnostic for such a
// signal, so a validated spec contains none).
func OccupiedSet(msg ir.Message) *bitset.Set {
	occupied := bitset.New()
	for _, sig := range msg.Signals {
		positions, err := SignalBitPositions(sig)
		if err != nil {
			continue
		}
		occupied.InsertAll(positions...)
	}
	return occupied
}

// Occupied returns the union of occupied bit positions over every signal in
// msg as a plain Go set, for callers that prefer not to depend on the
// bitset package directly. The property suite uses OccupiedSet instead.
func Occupied(msg ir.Message) map[uint]struct{} {
	out := make(map[uint]struct{})
	for _, sig := range msg.Signals {
		positions, err := SignalBitPositions(sig)
		if err != nil {
			continue
		}
		for _, p := range positions {
			out[p] = struct{}{}
		}
	}
	return out
}
