// SPDX-License-Identifier: Apache-2.0

// Package seed implements the campaign seed planner: resolution of a
// master seed, consumption of explicit per-loop seeds, and generation of
// the remaining loop seeds from a deterministic PRNG stream, plus the
// per-message seed formula the roundtrip property suite derives from each
// loop seed.
package seed

import (
	cryptorand "crypto/rand"
	"fmt"
	"math/big"
	"math/rand/v2"
)

// maxMasterSeed is the exclusive upper bound for an auto-resolved master
// seed: [0, 2^63).
var maxMasterSeed = new(big.Int).Lsh(big.NewInt(1), 63)

// MaxLoopSeed is the exclusive upper bound for a PRNG-derived loop seed:
// [0, 2^31).
const MaxLoopSeed = 1 << 31

// Plan is the fully resolved seed schedule for one roundtrip campaign.
type Plan struct {
	// MasterSeed is the seed used to resolve the PRNG stream for any loop
	// not covered by an explicit seed.
	MasterSeed int64
	// ExplicitSeeds are seeds supplied by the caller, consumed in order
	// for the first len(ExplicitSeeds) loops.
	ExplicitSeeds []int64
	// LoopSeeds has exactly `loops` entries: explicit seeds first, then
	// PRNG-derived seeds for the remainder.
	LoopSeeds []int64
}

// ResolveMasterSeed returns explicit if non-nil, otherwise a
// cryptographically random value in [0, 2^63).
func ResolveMasterSeed(explicit *int64) (int64, error) {
	if explicit != nil {
		return *explicit, nil
	}

	n, err := cryptorand.Int(cryptorand.Reader, maxMasterSeed)
	if err != nil {
		return 0, fmt.Errorf("seed: generating master seed: %w", err)
	}
	return n.Int64(), nil
}

// BuildPlan builds the full loop-seed schedule for a campaign of the given size:
// explicit seeds are consumed first (one per loop, in order), and any
// remaining loops draw from a PRNG stream seeded by masterSeed.
func BuildPlan(loops int, masterSeed int64, explicitSeeds []int64) Plan {
	p := Plan{
		MasterSeed:    masterSeed,
		ExplicitSeeds: append([]int64(nil), explicitSeeds...),
		LoopSeeds:     make([]int64, loops),
	}

	rng := rand.New(rand.NewPCG(uint64(masterSeed), uint64(masterSeed>>32)|1))

	for i := 0; i < loops; i++ {
		if i < len(explicitSeeds) {
			p.LoopSeeds[i] = explicitSeeds[i]
			continue
		}
		p.LoopSeeds[i] = rng.Int64N(MaxLoopSeed)
	}

	return p
}

// MessageSeed derives the per-(spec, message) seed a loop uses to drive its
// property suite: (loopSeed << 20) XOR (specIndex << 10) XOR msgIndex XOR
// msg.id. This must reproduce bit-exactly across runs given the same
// loopSeed/specIndex/msgIndex/id, since it is the only thing that makes a
// reported failure replayable from a report's recorded seed.
func MessageSeed(loopSeed int64, specIndex, msgIndex int, messageID uint) int64 {
	return (loopSeed << 20) ^ (int64(specIndex) << 10) ^ int64(msgIndex) ^ int64(messageID)
}

// NewMessageRand returns a PRNG seeded from MessageSeed, ready to drive one
// message's share of a loop's property suite.
func NewMessageRand(loopSeed int64, specIndex, msgIndex int, messageID uint) *rand.Rand {
	s := uint64(MessageSeed(loopSeed, specIndex, msgIndex, messageID))
	return rand.New(rand.NewPCG(s, s>>1|1))
}
