// SPDX-License-Identifier: Apache-2.0

package roundtrip

import (
	"math/rand/v2"
	"sort"

	"github.com/specgo-dev/specgo/pkg/ir"
)

// rawRange returns the signed int64 bounds of sig's raw encoding, matching
// pkg/ir.Signal.RawRange's (int64, int64) clamp at the 64-bit boundary.
func rawRange(sig ir.Signal) (int64, int64) {
	return sig.RawRange()
}

// RandomRawValue draws a seeded raw value for sig: half the time one of a
// small set of boundary values (lo, hi, 0, and +/-1 when in range), half
// the time uniform across the full range.
func RandomRawValue(sig ir.Signal, rng *rand.Rand) int64 {
	lo, hi := rawRange(sig)

	candidates := map[int64]struct{}{lo: {}, hi: {}, 0: {}}
	if lo <= 1 && 1 <= hi {
		candidates[1] = struct{}{}
	}
	if lo <= -1 && -1 <= hi {
		candidates[-1] = struct{}{}
	}

	if rng.Float64() < 0.5 {
		sorted := make([]int64, 0, len(candidates))
		for v := range candidates {
			sorted = append(sorted, v)
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		return sorted[rng.IntN(len(sorted))]
	}

	return uniformInRange(lo, hi, rng)
}

// uniformInRange draws uniformly from [lo, hi] inclusive, using an unsigned
// span to avoid overflow when lo/hi straddle zero or approach the int64
// extremes (e.g. a full-width signed 64-bit signal's [-2^63, 2^63-1]).
func uniformInRange(lo, hi int64, rng *rand.Rand) int64 {
	if lo == hi {
		return lo
	}
	span := uint64(hi-lo) + 1 // hi-lo wraps in int64 but its uint64 reinterpretation is the exact distance; only the +1 can wrap
	if span == 0 {
		// hi-lo+1 wrapped to exactly 0 only when the full uint64 range is
		// spanned (lo=-2^63, hi=2^63-1): any uint64 is a valid offset.
		return lo + int64(rng.Uint64())
	}
	return lo + int64(rng.Uint64N(span))
}

// RandomBytes fills a DLC-sized payload with uniformly random bytes, used
// by the masked roundtrip property to probe every bit position regardless
// of whether the IR occupies it.
func RandomBytes(n int, rng *rand.Rand) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(rng.UintN(256))
	}
	return out
}

// Bit reads bit bitIndex (0 = LSB of byte 0) out of payload.
func Bit(payload []byte, bitIndex int) int {
	byteIndex := bitIndex / 8
	bitInByte := uint(bitIndex % 8)
	return int((payload[byteIndex] >> bitInByte) & 0x1)
}
