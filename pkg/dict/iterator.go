// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

// Iterator walks every entry in a Dict exactly once, across both
// subtables if a rehash happens to be in progress. There are two
// disciplines, chosen at construction:
//
//   - unsafe (Dict.Iterator): the caller may only advance it. Any
//     mutation of the dictionary during the iterator's lifetime voids
//     correctness, and Release will panic with ErrIteratorMisuse if it
//     detects one (by comparing a fingerprint of the dictionary's shape
//     taken at the start and end of iteration).
//   - safe (Dict.SafeIterator): the caller may freely mutate the
//     dictionary — including deleting the entry just returned — during
//     traversal. While any safe iterator is outstanding, incremental
//     rehashing does not advance (growth can still happen; migration
//     steps do not).
type Iterator struct {
	dict *Dict
	safe bool

	table    int
	index    int64
	started  bool
	released bool

	entry *entry
	next  *entry

	fingerprint uint64
}

// Iterator returns an unsafe iterator over d.
func (d *Dict) Iterator() *Iterator {
	return &Iterator{dict: d, index: -1, table: 0}
}

// SafeIterator returns a safe iterator over d, registering it with the
// dictionary immediately so that Release always has a registration to
// undo — even if Next is never called, or the dict is empty and Next
// returns false on the very first call.
func (d *Dict) SafeIterator() *Iterator {
	d.iteratorsActive++
	return &Iterator{dict: d, index: -1, table: 0, safe: true}
}

// Next advances the iterator and returns false once every bucket in both
// (live) subtables has been visited. The entry it most recently returned
// remains valid until the next call to Next, even if the caller deletes
// it in between — Next already saved the following entry in the chain
// before returning.
func (it *Iterator) Next() bool {
	for {
		if it.entry == nil {
			table := &it.dict.table[it.table]

			if it.index == -1 && it.table == 0 && !it.safe {
				it.fingerprint = it.dict.fingerprint()
			}

			it.index++
			if uint64(it.index) >= table.capacity {
				if it.dict.isRehashing() && it.table == 0 {
					it.table = 1
					it.index = 0
					table = &it.dict.table[1]
				} else {
					return false
				}
			}
			if table.capacity == 0 {
				return false
			}
			it.entry = table.buckets[it.index]
		} else {
			it.entry = it.next
		}

		if it.entry != nil {
			it.next = it.entry.next
			it.started = true
			return true
		}
	}
}

// Key returns the current entry's key. Valid only after Next returns true.
func (it *Iterator) Key() any { return it.entry.key }

// Value returns the current entry's value. Valid only after Next returns
// true.
func (it *Iterator) Value() Value { return it.entry.value }

// Entry returns the current raw entry, for callers that need to pass it
// to another Dict method (e.g. FreeUnlinked).
func (it *Iterator) Entry() *entry { return it.entry }

// Release ends the iteration. For a safe iterator it decrements the
// dictionary's active-iterator count, re-enabling rehash progress once no
// other iterator remains — this undoes SafeIterator's registration even
// if Next was never called or returned false immediately, so an iterator
// over an empty (or already-exhausted) dict can never leak the count. For
// an unsafe iterator it re-captures the dictionary's fingerprint and
// panics with ErrIteratorMisuse if it changed, since that means the
// dictionary was mutated mid-traversal in a way the unsafe discipline
// forbids; that check only applies once iteration actually started.
// Release is idempotent: calling it more than once has no further effect.
func (it *Iterator) Release() {
	if it.released {
		return
	}
	it.released = true

	if it.safe {
		it.dict.iteratorsActive--
		return
	}
	if it.started && it.fingerprint != it.dict.fingerprint() {
		panic(ErrIteratorMisuse)
	}
}
