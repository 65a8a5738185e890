// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

// findIndexOrExisting runs the growth decision, then searches for key. If
// found, it returns the existing entry. Otherwise it returns the bucket
// index, in whichever subtable new entries currently land in (the
// secondary while rehashing, else the primary), where a new entry for key
// should be prepended.
func (d *Dict) findIndexOrExisting(key any) (insTable int, bucket uint64, existing *entry) {
	d.maybeExpand()

	hash := d.policy.hash(d.privateData, key)
	if e, _, _ := d.findEntryWithHash(key, hash); e != nil {
		return 0, 0, e
	}

	insTable = d.insertionTable()
	return insTable, d.table[insTable].index(hash), nil
}

// AddRaw inserts key with an uninitialized value slot and returns the new
// entry, or returns the existing entry and false if key is already
// present. Newly inserted entries are prepended to their bucket chain
// (most-recently-added first), on the bet that recently added keys are
// also recently accessed.
func (d *Dict) AddRaw(key any) (e *entry, inserted bool) {
	d.passiveRehash()

	insTable, bucket, existing := d.findIndexOrExisting(key)
	if existing != nil {
		return existing, false
	}

	e = &entry{
		key:  d.policy.dupKey(d.privateData, key),
		next: d.table[insTable].buckets[bucket],
	}
	d.table[insTable].buckets[bucket] = e
	d.table[insTable].used++
	return e, true
}

// Add inserts key with value v. It returns false without modifying
// anything if key already exists.
func (d *Dict) Add(key any, v Value) bool {
	e, inserted := d.AddRaw(key)
	if !inserted {
		return false
	}
	e.value = d.policy.dupValue(d.privateData, v)
	return true
}

// AddOrFind inserts key with an uninitialized value if absent, and in
// either case returns the entry for key.
func (d *Dict) AddOrFind(key any) *entry {
	e, _ := d.AddRaw(key)
	return e
}

// Replace inserts key with value v if absent (returning inserted = true),
// or overwrites the existing entry's value (returning inserted = false).
// On overwrite the order is load-bearing: the new value is duplicated and
// installed *before* the old value is destroyed, so that a destructor
// dropping a reference count does not free a value that aliases the new
// one.
func (d *Dict) Replace(key any, v Value) (inserted bool) {
	e, isNew := d.AddRaw(key)
	if isNew {
		e.value = d.policy.dupValue(d.privateData, v)
		return true
	}

	old := e.value
	e.value = d.policy.dupValue(d.privateData, v)
	d.policy.destroyValue(d.privateData, old)
	return false
}

// delete is the shared implementation of Delete and Unlink.
func (d *Dict) delete(key any, free bool) (*entry, bool) {
	d.passiveRehash()

	if d.Len() == 0 {
		return nil, false
	}
	hash := d.policy.hash(d.privateData, key)

	limit := 1
	if d.isRehashing() {
		limit = 2
	}
	for i := 0; i < limit; i++ {
		if d.table[i].capacity == 0 {
			continue
		}
		idx := d.table[i].index(hash)

		var prev *entry
		for e := d.table[i].buckets[idx]; e != nil; e = e.next {
			if d.policy.equalKeys(d.privateData, e.key, key) {
				if prev == nil {
					d.table[i].buckets[idx] = e.next
				} else {
					prev.next = e.next
				}
				d.table[i].used--
				e.next = nil

				if free {
					d.policy.destroyValue(d.privateData, e.value)
					d.policy.destroyKey(d.privateData, e.key)
				}
				return e, true
			}
			prev = e
		}
	}
	return nil, false
}

// Delete removes key, running its destructors, and reports whether it was
// present.
func (d *Dict) Delete(key any) bool {
	_, ok := d.delete(key, true)
	return ok
}

// Unlink removes key from its chain without running destructors or
// freeing the entry, returning it to the caller for inspection or value
// transfer. The caller must eventually call FreeUnlinked on it (or
// otherwise account for its resources) since no destructor ran.
func (d *Dict) Unlink(key any) (*entry, bool) {
	return d.delete(key, false)
}

// FreeUnlinked runs destructors on an entry previously returned by Unlink.
// Calling it on any other entry is undefined.
func (d *Dict) FreeUnlinked(e *entry) {
	if e == nil {
		return
	}
	d.policy.destroyValue(d.privateData, e.value)
	d.policy.destroyKey(d.privateData, e.key)
}
