// SPDX-License-Identifier: Apache-2.0

package roundtrip

import (
	"fmt"
	"math/rand/v2"

	"github.com/specgo-dev/specgo/pkg/ir"
	"github.com/specgo-dev/specgo/pkg/seed"
)

// Failure records one property violation or coverage gap, carrying every
// field a raw_error_report entry needs to replay it.
type Failure struct {
	TimestampUTC string
	LoopIndex    int
	Seed         int64
	ProjectName  string
	IRPath       string
	IRVersion    string
	MessageName  string
	EncodeFn     string
	DecodeFn     string
	Property     string
	CaseIndex    *int
	Detail       string
}

func intPtr(v int) *int { return &v }

func newFailure(loopIndex int, loopSeed int64, sb *SpecBinding, messageName, encodeFn, decodeFn, property string, caseIndex *int, detail string) Failure {
	return Failure{
		LoopIndex:   loopIndex,
		Seed:        loopSeed,
		ProjectName: sb.ProjectName,
		IRPath:      sb.IRPath,
		IRVersion:   sb.Spec.IRVersion,
		MessageName: messageName,
		EncodeFn:    encodeFn,
		DecodeFn:    decodeFn,
		Property:    property,
		CaseIndex:   caseIndex,
		Detail:      detail,
	}
}

// LoopResult is one loop's worth of campaign activity.
type LoopResult struct {
	LoopIndex int
	Seed      int64
	Failures  []Failure
	CasesRun  int
}

// RunLoop drives raw_encode_decode_roundtrip,
// raw_decode_encode_masked_roundtrip, and the per-message function
// coverage check across every bound spec, for one loop seed. casesPerSeed
// is the number of cases each property runs per message.
func RunLoop(loopIndex int, loopSeed int64, casesPerSeed int, bindings []*SpecBinding) LoopResult {
	result := LoopResult{LoopIndex: loopIndex, Seed: loopSeed}

	for specIndex, sb := range bindings {
		touchedEncode := map[string]bool{}
		touchedDecode := map[string]bool{}

		for msgIndex, mb := range sb.Messages {
			rng := seed.NewMessageRand(loopSeed, specIndex, msgIndex, mb.Message.ID)

			runP1(&result, loopIndex, loopSeed, sb, mb, rng, casesPerSeed)
			touchedEncode[mb.EncodeName] = true
			touchedDecode[mb.DecodeName] = true

			runP2(&result, loopIndex, loopSeed, sb, mb, rng, casesPerSeed)
			touchedEncode[mb.EncodeName] = true
			touchedDecode[mb.DecodeName] = true
		}

		checkCoverage(&result, loopIndex, loopSeed, sb, touchedEncode, touchedDecode)
	}

	return result
}

func runP1(result *LoopResult, loopIndex int, loopSeed int64, sb *SpecBinding, mb *MessageBinding, rng *rand.Rand, cases int) {
	for c := 0; c < cases; c++ {
		result.CasesRun++
		idx := c

		original := mb.NewStruct()
		for fi, f := range mb.Fields {
			sig := findSignal(mb, f.name)
			mb.SetField(original, fi, RandomRawValue(sig, rng))
		}

		payload := make([]byte, mb.Message.DLC)
		if status := mb.Encode(payload, original); status != 0 {
			result.Failures = append(result.Failures, newFailure(
				loopIndex, loopSeed, sb, mb.Message.Name, mb.EncodeName, mb.DecodeName,
				"raw_encode_decode_roundtrip", intPtr(idx), fmt.Sprintf("encode status=%d", status),
			))
			continue
		}

		decoded := mb.NewStruct()
		if status := mb.Decode(payload, decoded); status != 0 {
			result.Failures = append(result.Failures, newFailure(
				loopIndex, loopSeed, sb, mb.Message.Name, mb.EncodeName, mb.DecodeName,
				"raw_encode_decode_roundtrip", intPtr(idx), fmt.Sprintf("decode status=%d", status),
			))
			continue
		}

		for fi, f := range mb.Fields {
			want := mb.GetField(original, fi)
			got := mb.GetField(decoded, fi)
			if want != got {
				result.Failures = append(result.Failures, newFailure(
					loopIndex, loopSeed, sb, mb.Message.Name, mb.EncodeName, mb.DecodeName,
					"raw_encode_decode_roundtrip", intPtr(idx),
					fmt.Sprintf("field mismatch: %s expected=%d got=%d", f.name, want, got),
				))
			}
		}
	}
}

func runP2(result *LoopResult, loopIndex int, loopSeed int64, sb *SpecBinding, mb *MessageBinding, rng *rand.Rand, cases int) {
	for c := 0; c < cases; c++ {
		result.CasesRun++
		idx := c

		payloadIn := RandomBytes(int(mb.Message.DLC), rng)

		decoded := mb.NewStruct()
		if status := mb.Decode(payloadIn, decoded); status != 0 {
			result.Failures = append(result.Failures, newFailure(
				loopIndex, loopSeed, sb, mb.Message.Name, mb.EncodeName, mb.DecodeName,
				"raw_decode_encode_masked_roundtrip", intPtr(idx), fmt.Sprintf("decode status=%d", status),
			))
			continue
		}

		payloadOut := make([]byte, mb.Message.DLC)
		if status := mb.Encode(payloadOut, decoded); status != 0 {
			result.Failures = append(result.Failures, newFailure(
				loopIndex, loopSeed, sb, mb.Message.Name, mb.EncodeName, mb.DecodeName,
				"raw_decode_encode_masked_roundtrip", intPtr(idx), fmt.Sprintf("encode status=%d", status),
			))
			continue
		}

		for bit := 0; bit < int(mb.Message.DLC)*8; bit++ {
			got := Bit(payloadOut, bit)
			expected := 0
			if mb.Occupied.Contains(uint(bit)) {
				expected = Bit(payloadIn, bit)
			}
			if got != expected {
				result.Failures = append(result.Failures, newFailure(
					loopIndex, loopSeed, sb, mb.Message.Name, mb.EncodeName, mb.DecodeName,
					"raw_decode_encode_masked_roundtrip", intPtr(idx),
					fmt.Sprintf("bit mismatch at bit=%d: expected=%d, got=%d", bit, expected, got),
				))
				break
			}
		}
	}
}

func checkCoverage(result *LoopResult, loopIndex int, loopSeed int64, sb *SpecBinding, touchedEncode, touchedDecode map[string]bool) {
	var missingEncode, missingDecode []string
	for _, mb := range sb.Messages {
		if !touchedEncode[mb.EncodeName] {
			missingEncode = append(missingEncode, mb.EncodeName)
		}
		if !touchedDecode[mb.DecodeName] {
			missingDecode = append(missingDecode, mb.DecodeName)
		}
	}

	if len(missingEncode) > 0 {
		result.Failures = append(result.Failures, newFailure(
			loopIndex, loopSeed, sb, "*", "*", "*", "raw_function_coverage", nil,
			fmt.Sprintf("encode functions never invoked: %v", missingEncode),
		))
	}
	if len(missingDecode) > 0 {
		result.Failures = append(result.Failures, newFailure(
			loopIndex, loopSeed, sb, "*", "*", "*", "raw_function_coverage", nil,
			fmt.Sprintf("decode functions never invoked: %v", missingDecode),
		))
	}
}

func findSignal(mb *MessageBinding, name string) ir.Signal {
	for _, sig := range mb.Message.Signals {
		if sig.Name == name {
			return sig
		}
	}
	panic("roundtrip: field " + name + " not found on message " + mb.Message.Name)
}
