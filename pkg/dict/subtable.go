// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

// entry is one key/value pair, individually allocated and owned by the
// exactly one bucket chain that contains it. Its address is stable from
// insertion to deletion, including across rehash migrations, where it is
// moved by pointer rather than copied.
type entry struct {
	key   any
	value Value
	next  *entry
}

// Entry is the external name for an entry, letting callers outside this
// package spell the type of a *entry they receive from Scan, an Iterator,
// Unlink, or AddOrFind — the struct itself stays unexported so that only
// EntryKey, EntryValue, and SetEntryValue can reach into it.
type Entry = entry

// clearProgressInterval is how many buckets a subtable.clear walks between
// invocations of the caller's progress callback.
const clearProgressInterval = 65536

// subtable is a fixed-capacity open array of bucket heads, each the head of
// a singly-linked chain of entries. capacity is always zero or a power of
// two; mask is capacity-1 and coincides with "mod capacity" for indexing.
type subtable struct {
	buckets  []*entry
	capacity uint64
	mask     uint64
	used     uint64
}

// allocate zero-initializes capacity bucket heads. capacity must already be
// a power of two.
func (t *subtable) allocate(capacity uint64) {
	t.buckets = make([]*entry, capacity)
	t.capacity = capacity
	t.mask = capacity - 1
	t.used = 0
}

// reset zeroes all fields without running destructors; clear calls it once
// every entry has been destroyed.
func (t *subtable) reset() {
	t.buckets = nil
	t.capacity = 0
	t.mask = 0
	t.used = 0
}

// clear walks every bucket, invoking the policy's destructors on each
// entry before dropping it, then resets the subtable to empty. If progress
// is non-nil it is invoked once per clearProgressInterval buckets visited,
// a coarse hook for callers clearing very large tables.
func (t *subtable) clear(policy *Policy, private any, progress func(any)) {
	for i, head := range t.buckets {
		for e := head; e != nil; {
			next := e.next
			policy.destroyValue(private, e.value)
			policy.destroyKey(private, e.key)
			e = next
		}
		t.buckets[i] = nil

		if progress != nil && (i+1)%clearProgressInterval == 0 {
			progress(private)
		}
	}
	t.reset()
}

// index returns the bucket index for a precomputed hash.
func (t *subtable) index(hash uint64) uint64 {
	return hash & t.mask
}
