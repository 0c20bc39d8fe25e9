// SPDX-License-Identifier: Apache-2.0
package roundtrip

import (
	"math/rand/v2"
	"testing"

	"github.com/specgo-dev/specgo/internal/assert"
	"github.com/specgo-dev/specgo/pkg/ir"
)

func eightBitUnsigned() ir.Signal {
	return ir.Signal{Name: "v", StartBit: 0, BitLength: 8, ByteOrder: ir.LittleEndian, Scale: 1}
}

func fourBitSigned() ir.Signal {
	return ir.Signal{Name: "v", StartBit: 0, BitLength: 4, ByteOrder: ir.LittleEndian, Scale: 1, Signed: true}
}

func TestRandomRawValueStaysWithinRange(t *testing.T) {
	sig := eightBitUnsigned()
	lo, hi := sig.RawRange()
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 500; i++ {
		v := RandomRawValue(sig, rng)
		assert.True(t, v >= lo && v <= hi, "value %d out of range [%d, %d]", v, lo, hi)
	}
}

func TestRandomRawValueIsReproducibleForAFixedSeed(t *testing.T) {
	sig := eightBitUnsigned()
	a := rand.New(rand.NewPCG(7, 9))
	b := rand.New(rand.NewPCG(7, 9))

	for i := 0; i < 20; i++ {
		va := RandomRawValue(sig, a)
		vb := RandomRawValue(sig, b)
		assert.Equal(t, va, vb)
	}
}

func TestRandomRawValueCanProduceBoundaries(t *testing.T) {
	sig := fourBitSigned()
	lo, hi := sig.RawRange()
	rng := rand.New(rand.NewPCG(3, 4))

	sawLo, sawHi := false, false
	for i := 0; i < 2000 && !(sawLo && sawHi); i++ {
		v := RandomRawValue(sig, rng)
		if v == lo {
			sawLo = true
		}
		if v == hi {
			sawHi = true
		}
	}
	assert.True(t, sawLo, "expected to eventually sample the low boundary %d", lo)
	assert.True(t, sawHi, "expected to eventually sample the high boundary %d", hi)
}

func TestRandomBytesLengthMatchesN(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	b := RandomBytes(4, rng)
	assert.Equal(t, 4, len(b))
}

func TestBitReadsLSBFirstWithinByte(t *testing.T) {
	payload := []byte{0b0000_0010, 0b0000_0001}
	assert.Equal(t, 0, Bit(payload, 0))
	assert.Equal(t, 1, Bit(payload, 1))
	assert.Equal(t, 1, Bit(payload, 8))
	assert.Equal(t, 0, Bit(payload, 9))
}
