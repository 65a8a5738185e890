// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dict implements a general-purpose in-memory associative
// container built around three mechanisms: incremental rehashing that
// amortizes resize cost across many operations while the table stays
// fully queryable, a stateless reverse-binary cursor scan that visits
// every live entry under a stable size and degrades gracefully across
// concurrent resizes, and sampling primitives that return uniformly (or
// near-uniformly) random entries from the chained hash structure.
//
// Dict is single-threaded: callers needing concurrent access must
// synchronize externally. The specific hash primitive, memory allocation,
// and any surrounding application are deliberately out of this package's
// scope; see package hash for the bundled default hash policy.
package dict

import "math/bits"

const (
	// initialCapacity is the primary subtable's size on first insertion.
	initialCapacity = 4

	// forceResizeRatio is the load factor above which growth proceeds
	// even with resizing administratively disabled.
	forceResizeRatio = 5
)

// resizeEnabled is the process-wide flag gating ordinary (non-forced)
// growth. It starts enabled, matching the spec's default. It is not
// locked; callers are expected to flip it only at startup or quiescence.
var resizeEnabled = true

// EnableResize turns on ordinary load-factor-triggered growth.
func EnableResize() { resizeEnabled = true }

// DisableResize turns off ordinary growth; expansion then only occurs
// once the load factor exceeds forceResizeRatio.
func DisableResize() { resizeEnabled = false }

// ResizeEnabled reports the current value of the process-wide resize flag.
func ResizeEnabled() bool { return resizeEnabled }

// Dict is a chained hash table with two backing subtables (primary and
// secondary) so that growth and shrink can be migrated incrementally
// instead of all at once. See the package doc for the rationale.
type Dict struct {
	table [2]subtable

	// rehashIndex is the next primary bucket awaiting migration, or -1
	// when no rehash is in progress.
	rehashIndex int64

	// iteratorsActive counts live safe iterators. While positive, neither
	// passive nor bulk rehashing may advance.
	iteratorsActive int

	policy      *Policy
	privateData any

	rng uint64 // xorshift state for sampling, seeded per-Dict
}

// New creates an empty dictionary governed by policy. privateData is
// passed back to every policy callback as their first argument. policy
// must be non-nil and must set Hash; the other callbacks are optional.
func New(policy *Policy, privateData any) *Dict {
	if policy == nil || policy.Hash == nil {
		panic("dict: Policy with a non-nil Hash func is required")
	}
	return &Dict{
		rehashIndex: -1,
		policy:      policy,
		privateData: privateData,
		rng:         defaultSeed(),
	}
}

// Release destroys both subtables (running key/value destructors on every
// live entry) and leaves d empty. d may be reused afterward as if freshly
// constructed, but calling Release again is also safe.
func (d *Dict) Release() {
	d.table[0].clear(d.policy, d.privateData, nil)
	d.table[1].clear(d.policy, d.privateData, nil)
	d.rehashIndex = -1
}

// Empty removes every entry the same way Release does, but invokes
// progress (if non-nil) as a coarse hook for very large tables while both
// the primary and the secondary subtables are cleared.
func (d *Dict) Empty(progress func(private any)) {
	d.table[0].clear(d.policy, d.privateData, progress)
	d.table[1].clear(d.policy, d.privateData, progress)
	d.rehashIndex = -1
}

// Len returns the total number of live entries across both subtables.
func (d *Dict) Len() int {
	return int(d.table[0].used + d.table[1].used)
}

// isRehashing reports whether a rehash is currently in progress.
func (d *Dict) isRehashing() bool {
	return d.rehashIndex != -1
}

// insertionTable returns the subtable new entries should land in: the
// secondary while rehashing (the primary is being drained, not grown),
// otherwise the primary.
func (d *Dict) insertionTable() int {
	if d.isRehashing() {
		return 1
	}
	return 0
}

// nextPowerOfTwo returns the smallest power of two >= n, with a floor of 1.
func nextPowerOfTwo(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return uint64(1) << bits.Len64(n-1)
}

// maybeExpand runs the growth decision of spec §4.4 ahead of an insertion.
// It never blocks: if a rehash is already in progress growth is simply
// deferred to when that rehash completes.
func (d *Dict) maybeExpand() {
	if d.isRehashing() {
		return
	}
	if d.table[0].capacity == 0 {
		_ = d.Expand(initialCapacity)
		return
	}
	if d.table[0].used < d.table[0].capacity {
		return
	}
	ratio := d.table[0].used / d.table[0].capacity
	if resizeEnabled || ratio > forceResizeRatio {
		_ = d.Expand(nextPowerOfTwo(d.table[0].used * 2))
	}
}

// Expand grows (or, on first use, allocates) the dictionary toward
// capacity, which is rounded up to the next power of two. On first
// allocation (primary uninitialized) capacity becomes the primary
// directly, without starting a rehash. Otherwise capacity always targets
// the secondary table and begins an incremental rehash from it.
//
// Expand refuses with ErrBusy if a rehash is already in progress, and with
// ErrInvariant if the requested capacity (after rounding) equals the
// current primary capacity or is smaller than the number of live entries.
// A capacity smaller than the primary's (but not below the entry count) is
// accepted and migrates into a smaller secondary; ResizeToFit shrinks this
// way.
func (d *Dict) Expand(capacity uint64) error {
	if d.isRehashing() {
		return ErrBusy
	}

	size := nextPowerOfTwo(capacity)
	if size < uint64(initialCapacity) {
		size = initialCapacity
	}
	if size < d.table[0].used {
		return ErrInvariant
	}

	if d.table[0].capacity == 0 {
		d.table[0].allocate(size)
		return nil
	}

	if size == d.table[0].capacity {
		return ErrInvariant
	}

	d.table[1].allocate(size)
	d.rehashIndex = 0
	return nil
}

// ResizeToFit expands (if resizing is enabled and no rehash is in
// progress) to the smallest power of two accommodating the current entry
// count at a load factor near 1. It is the caller-invoked shrink path:
// growth never happens on its own when used/capacity falls.
func (d *Dict) ResizeToFit() error {
	if !resizeEnabled {
		return ErrBusy
	}
	if d.isRehashing() {
		return ErrBusy
	}
	target := nextPowerOfTwo(d.table[0].used)
	if target < initialCapacity {
		target = initialCapacity
	}
	return d.Expand(target)
}
