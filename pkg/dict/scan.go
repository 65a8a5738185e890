// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import "math/bits"

// Scan visits a slice of the dictionary's buckets in one call using a
// stateless reverse-binary cursor: no iterator state is kept between
// calls beyond the cursor value itself, so a scan survives arbitrary
// mutation between calls, including growth or shrink, at the cost of
// occasionally revisiting an entry more than once. A cursor of 0 both
// starts and completes a cycle; callers loop "pass cursor = Scan(cursor,
// ...)" until it comes back to 0.
//
// For each bucket visited, onBucket (if non-nil) is called once with the
// chain head, then onEntry (if non-nil) is called once per entry in that
// chain. private is passed through to both callbacks unchanged; it need
// not be the same value the Dict's own policy uses.
//
// Every entry present in the dictionary continuously throughout the scan
// is returned at least once; entries may be returned more than once;
// return order is unspecified beyond "one bucket's chain emitted
// atomically per call."
func (d *Dict) Scan(cursor uint64, private any, onBucket func(private any, bucketHead *entry), onEntry func(private any, e *entry)) uint64 {
	if d.table[0].capacity == 0 {
		return 0
	}

	d.iteratorsActive++
	defer func() { d.iteratorsActive-- }()

	emit := func(t *subtable, idx uint64) {
		head := t.buckets[idx]
		if onBucket != nil {
			onBucket(private, head)
		}
		for e := head; e != nil; e = e.next {
			if onEntry != nil {
				onEntry(private, e)
			}
		}
	}

	if !d.isRehashing() {
		m := d.table[0].mask
		emit(&d.table[0], cursor&m)
		return reverseBinaryIncrement(cursor, m)
	}

	small, large := &d.table[0], &d.table[1]
	if small.capacity > large.capacity {
		small, large = large, small
	}
	mS, mL := small.mask, large.mask

	v := cursor
	emit(small, v&mS)

	for {
		emit(large, v&mL)
		v = reverseBinaryIncrement(v, mL)
		if v&(mS^mL) == 0 {
			break
		}
	}

	// The large-mask loop above has already advanced v by exactly one
	// reverse-binary step under the small mask (that's what the
	// v&(mS^mL)==0 exit condition detects): an additional small-mask
	// increment here would advance the cursor twice per call, skipping
	// half the small-table buckets over a full cycle.
	return v
}

// reverseBinaryIncrement implements "increment from the high bit down"
// under the given mask: set every bit above the mask to one, bit-reverse,
// add one, bit-reverse again. Counting this way makes the cursor traverse
// bucket indices in a prefix-free pattern, so that when a table of this
// mask's size doubles, every index the cursor already visited maps to an
// index range the doubled table's cursor walk will not revisit — and the
// same reasoning run backward handles a table shrinking.
func reverseBinaryIncrement(v, mask uint64) uint64 {
	v |= ^mask
	v = bits.Reverse64(v)
	v++
	v = bits.Reverse64(v)
	return v
}
