// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import "time"

// bulkRehashStep is the step size used by RehashMilliseconds between
// elapsed-time checks.
const bulkRehashStep = 100

// step migrates up to n non-empty primary buckets into the secondary
// table. It also carries an implicit empty-bucket skip budget of 10*n: each
// empty primary bucket visited while searching for the next non-empty one
// consumes one unit of that budget. If the budget runs out before n
// buckets have been migrated, step returns true (more work pending) even
// though fewer than n buckets moved. It returns false if called while not
// rehashing, since no work is pending.
func (d *Dict) step(n int) bool {
	if !d.isRehashing() {
		return false
	}

	emptyBudget := 10 * n
	migrated := 0

	for migrated < n {
		if d.table[0].used == 0 {
			d.finishRehash()
			return false
		}

		for uint64(d.rehashIndex) < d.table[0].capacity && d.table[0].buckets[d.rehashIndex] == nil {
			d.rehashIndex++
			emptyBudget--
			if emptyBudget <= 0 {
				return true
			}
		}
		if uint64(d.rehashIndex) >= d.table[0].capacity {
			// used > 0 but we scanned past the end: nothing left to find.
			return d.table[0].used != 0
		}

		d.migrateBucket(uint64(d.rehashIndex))
		d.rehashIndex++
		migrated++
	}

	return d.isRehashing()
}

// migrateBucket moves every entry in primary bucket idx into the
// secondary, recomputing each entry's hash and prepending it to the
// target chain. Entries are moved by pointer; only next links and bucket
// heads are rewritten.
func (d *Dict) migrateBucket(idx uint64) {
	e := d.table[0].buckets[idx]
	for e != nil {
		next := e.next

		target := d.table[1].index(d.policy.hash(d.privateData, e.key))
		e.next = d.table[1].buckets[target]
		d.table[1].buckets[target] = e
		d.table[1].used++
		d.table[0].used--

		e = next
	}
	d.table[0].buckets[idx] = nil
}

// finishRehash promotes the secondary table into the primary once the
// primary is fully drained, and returns the dictionary to rest.
func (d *Dict) finishRehash() {
	d.table[0] = d.table[1]
	d.table[1] = subtable{}
	d.rehashIndex = -1
}

// passiveRehash performs a single migration step if a rehash is in
// progress and no iterator is currently active. It is called at the start
// of every mutation, lookup, and delete.
func (d *Dict) passiveRehash() {
	if d.iteratorsActive == 0 && d.isRehashing() {
		d.step(1)
	}
}

// Rehash performs up to steps migration steps (each step moving one
// non-empty bucket, per the budget described on step). It returns done =
// true once no rehash work remains (including if none was in progress to
// begin with), and an error only if an active iterator forbids progress.
func (d *Dict) Rehash(steps int) (done bool, err error) {
	if d.iteratorsActive > 0 {
		return false, ErrBusy
	}
	if !d.isRehashing() {
		return true, nil
	}
	more := d.step(steps)
	return !more, nil
}

// RehashMilliseconds repeatedly issues steps of size bulkRehashStep until
// either no work remains or the elapsed time exceeds ms (checked between
// batches, so actual elapsed time may slightly overrun the budget). It
// refuses with ErrBusy if any iterator is active. It returns the number of
// batches performed.
func (d *Dict) RehashMilliseconds(ms int64) (batches int, err error) {
	if d.iteratorsActive > 0 {
		return 0, ErrBusy
	}
	if !d.isRehashing() {
		return 0, nil
	}

	deadline := time.Now().Add(time.Duration(ms) * time.Millisecond)
	for d.isRehashing() {
		d.step(bulkRehashStep)
		batches++
		if time.Now().After(deadline) {
			break
		}
	}
	return batches, nil
}
