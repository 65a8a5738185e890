// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import "unsafe"

// fingerprint returns a 64-bit digest of the dictionary's shape: the
// backing-array address, capacity, and used count of each subtable, six
// integers in all. It deliberately incorporates the addresses (not just
// the sizes) so that any reallocation — not only a change in entry count
// — is detectable; this is what lets an unsafe iterator's Release assert
// that nothing mutated the dictionary during its traversal.
//
// The six values are folded in with a running avalanche mix rather than a
// plain XOR, so permuting them changes the result: order carries
// information (which subtable is which) that a commutative combine would
// discard.
func (d *Dict) fingerprint() uint64 {
	values := [6]uint64{
		backingAddress(d.table[0].buckets),
		d.table[0].capacity,
		d.table[0].used,
		backingAddress(d.table[1].buckets),
		d.table[1].capacity,
		d.table[1].used,
	}

	var acc, hash uint64
	for _, v := range values {
		hash = avalanche(hash + v)
		acc ^= hash
	}
	return acc
}

// backingAddress returns the address of a slice's backing array as a
// plain integer, or 0 for a nil/empty slice. It exists purely to observe
// identity (has this subtable been reallocated?), never to access memory
// through it.
func backingAddress(s []*entry) uint64 {
	if len(s) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&s[0])))
}

// avalanche is a Thomas-Wang-style 64-bit integer mix: full avalanche
// (every input bit influences every output bit) with no multiplication,
// matching the bit-shuffle style the rest of this package's fingerprint
// and bucket math favors.
func avalanche(h uint64) uint64 {
	h = ^h + (h << 21)
	h ^= h >> 24
	h = (h + (h << 3)) + (h << 8)
	h ^= h >> 14
	h = (h + (h << 2)) + (h << 4)
	h ^= h >> 28
	h += h << 31
	return h
}
