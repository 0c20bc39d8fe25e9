// SPDX-License-Identifier: Apache-2.0

// Package bitset provides a thin, domain-shaped wrapper around
// github.com/bits-and-blooms/bitset: a set of unsigned integers with
// Insert, InsertAll, Union and Contains, used for tracking a message's
// occupied payload bit positions (built by pkg/layout, read by the masked
// roundtrip property in pkg/roundtrip).
package bitset

import "github.com/bits-and-blooms/bitset"

// Set is a straightforward bitset: a set of (unsigned) integer values.
type Set struct {
	bits *bitset.BitSet
}

// New constructs an empty Set.
func New() *Set {
	return &Set{bits: bitset.New(0)}
}

// Clone creates a true copy of this bitset, avoiding any aliasing between
// this set and the result.
func (s *Set) Clone() *Set {
	return &Set{bits: s.bits.Clone()}
}

// Insert adds a single value to this set.
func (s *Set) Insert(val uint) {
	s.bits.Set(val)
}

// InsertAll adds zero or more values to this set.
func (s *Set) InsertAll(vals ...uint) {
	for _, v := range vals {
		s.Insert(v)
	}
}

// Contains reports whether val is a member of this set.
func (s *Set) Contains(val uint) bool {
	return s.bits.Test(val)
}

// Union inserts every element of other into this set.
func (s *Set) Union(other *Set) {
	s.bits.InPlaceUnion(other.bits)
}

// Len returns the number of elements currently in this set.
func (s *Set) Len() uint {
	return uint(s.bits.Count())
}

// Equal reports whether this set contains exactly the same values as other.
func (s *Set) Equal(other *Set) bool {
	return s.bits.Equal(other.bits)
}
