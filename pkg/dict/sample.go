// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import "time"

// defaultSeed produces a non-zero xorshift seed from the wall clock. Each
// Dict gets its own seed and its own rng state (a plain field, not an
// atomically-shared one: the package is single-threaded by spec, so there
// is no contention to design around the way the teacher's shared,
// atomically-swapped fastrandn had to).
func defaultSeed() uint64 {
	s := uint64(time.Now().UnixNano())
	s = avalanche(s)
	if s == 0 {
		s = 0x9e3779b97f4a7c15
	}
	return s
}

// nextRand advances d's xorshift64 generator and returns the new state.
func (d *Dict) nextRand() uint64 {
	x := d.rng
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	d.rng = x
	return x
}

// randUint64n returns a uniformly distributed value in [0, n). n must be
// positive.
func (d *Dict) randUint64n(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	return d.nextRand() % n
}

// randomBucketTries bounds the rejection-sampling loop RandomEntry uses to
// find a populated bucket, matching the teacher's own fixed retry budget
// before it falls back to a guaranteed-to-terminate linear scan.
const randomBucketTries = 1000

// RandomEntry returns a uniformly random non-empty bucket's chain, and
// within it a uniformly random entry. While a rehash is in progress, the
// populated index range considered is [rehashIndex, primary.capacity +
// secondary.capacity), mapped piecewise across the two subtables; this
// biases selection toward whichever subtable is larger. That bias is a
// known, deliberately preserved property (see DESIGN.md) rather than an
// oversight — weighting by each subtable's used count instead is a
// possible future refinement.
func (d *Dict) RandomEntry() (*entry, bool) {
	if d.Len() == 0 {
		return nil, false
	}

	for try := 0; try < randomBucketTries; try++ {
		if head := d.randomPopulatedBucketHead(); head != nil {
			return d.randomEntryInChain(head), true
		}
	}

	// Extremely sparse table: guarantee termination with a linear scan.
	if e := d.firstEntryLinear(); e != nil {
		return e, true
	}
	return nil, false
}

func (d *Dict) randomPopulatedBucketHead() *entry {
	if !d.isRehashing() {
		if d.table[0].capacity == 0 {
			return nil
		}
		return d.table[0].buckets[d.randUint64n(d.table[0].capacity)]
	}

	total := d.table[0].capacity + d.table[1].capacity
	span := total - uint64(d.rehashIndex)
	if span == 0 {
		return nil
	}
	i := uint64(d.rehashIndex) + d.randUint64n(span)
	if i < d.table[0].capacity {
		return d.table[0].buckets[i]
	}
	return d.table[1].buckets[i-d.table[0].capacity]
}

func (d *Dict) randomEntryInChain(head *entry) *entry {
	length := uint64(0)
	for e := head; e != nil; e = e.next {
		length++
	}
	pick := d.randUint64n(length)
	e := head
	for i := uint64(0); i < pick; i++ {
		e = e.next
	}
	return e
}

func (d *Dict) firstEntryLinear() *entry {
	for i := range d.table {
		for _, head := range d.table[i].buckets {
			if head != nil {
				return head
			}
		}
	}
	return nil
}

// SampleK tries to collect count entries by scanning forward from a
// random starting index, wrapping modulo the larger subtable's mask and
// skipping buckets that are not currently "visible" (primary buckets
// already drained below rehashIndex, or indices past the smaller
// subtable's capacity). A run of 5 or more consecutive empty buckets,
// once at least count of them have been seen empty, re-seeds the scan
// position rather than plodding through a long empty stretch. The scan
// gives up after count*10 total step attempts even if fewer than count
// entries were found. Duplicates across calls are possible and uniformity
// is not guaranteed — this is a sampling primitive for things like
// eviction-candidate selection, not a statistical tool.
//
// Up to count passive rehash steps are spent first, so that repeated
// sampling during a long rehash still makes migration progress.
func (d *Dict) SampleK(count int) []*entry {
	if count <= 0 || d.Len() == 0 {
		return nil
	}
	if size := d.Len(); size < count {
		count = size
	}

	for i := 0; i < count; i++ {
		d.passiveRehash()
	}

	tables := 1
	if d.isRehashing() {
		tables = 2
	}

	maxMask := d.table[0].mask
	if tables > 1 && d.table[1].mask > maxMask {
		maxMask = d.table[1].mask
	}

	out := make([]*entry, 0, count)
	i := d.randUint64n(maxMask + 1)
	emptyRun := 0
	steps := count * 10

	for len(out) < count && steps > 0 {
		steps--
		for j := 0; j < tables; j++ {
			if tables == 2 && j == 0 && d.rehashIndex >= 0 && i < uint64(d.rehashIndex) {
				continue
			}
			if i >= d.table[j].capacity {
				continue
			}

			head := d.table[j].buckets[i]
			if head == nil {
				emptyRun++
				if emptyRun >= 5 && emptyRun >= count {
					i = d.randUint64n(maxMask + 1)
					emptyRun = 0
				}
				continue
			}

			emptyRun = 0
			for e := head; e != nil; e = e.next {
				out = append(out, e)
				if len(out) == count {
					return out
				}
			}
		}
		i = (i + 1) & maxMask
	}
	return out
}

// fairSampleSize is how many candidates FairRandomEntry draws via SampleK
// before picking uniformly among them.
const fairSampleSize = 15

// FairRandomEntry collects up to fairSampleSize candidate entries via
// SampleK and returns a uniformly random one among them, which evens out
// SampleK's bias toward long chains and densely populated regions. If
// SampleK collected nothing (e.g. an extremely sparse table), it falls
// back to RandomEntry.
func (d *Dict) FairRandomEntry() (*entry, bool) {
	candidates := d.SampleK(fairSampleSize)
	if len(candidates) == 0 {
		return d.RandomEntry()
	}
	return candidates[d.randUint64n(uint64(len(candidates)))], true
}
