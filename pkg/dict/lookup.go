// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

// GetHash returns the 64-bit digest the policy computes for key, without
// performing a lookup.
func (d *Dict) GetHash(key any) uint64 {
	return d.policy.hash(d.privateData, key)
}

// findEntry searches the primary table, then the secondary if a rehash is
// in progress, for an entry matching key. It returns the entry, the index
// of the subtable it was found in, and the bucket index within that
// subtable (useful to callers that want to splice without re-hashing).
func (d *Dict) findEntry(key any) (e *entry, tableIdx int, bucket uint64) {
	if d.Len() == 0 {
		return nil, -1, 0
	}
	return d.findEntryWithHash(key, d.policy.hash(d.privateData, key))
}

// findEntryWithHash is findEntry with the hash already computed, so
// callers that need the hash for another purpose (growth decisions,
// insertion) do not pay for it twice.
func (d *Dict) findEntryWithHash(key any, hash uint64) (e *entry, tableIdx int, bucket uint64) {
	limit := 1
	if d.isRehashing() {
		limit = 2
	}
	for i := 0; i < limit; i++ {
		if d.table[i].capacity == 0 {
			continue
		}
		idx := d.table[i].index(hash)
		for e := d.table[i].buckets[idx]; e != nil; e = e.next {
			if d.policy.equalKeys(d.privateData, e.key, key) {
				return e, i, idx
			}
		}
	}
	return nil, -1, 0
}

// Find returns the entry for key, if present. A passive single-step
// rehash is attempted first.
func (d *Dict) Find(key any) (*entry, bool) {
	d.passiveRehash()
	e, _, _ := d.findEntry(key)
	return e, e != nil
}

// FetchValue returns the value stored for key, if present.
func (d *Dict) FetchValue(key any) (Value, bool) {
	e, ok := d.Find(key)
	if !ok {
		return Value{}, false
	}
	return e.value, true
}

// FindRefByIdentityAndHash searches for an entry whose key is identical
// (Go ==) to rawKey, using a precomputed hash rather than recomputing one
// via the policy. It is meant for callers that already know the hash and
// hold a formerly-live key value. It returns the entry itself, not a
// reference to the chain link that holds it, so it does not by itself let
// the caller splice the entry out of its chain; removal still goes through
// Delete or Unlink, which hash the key again. No passive rehash step is
// taken, since the caller supplies the hash for exactly one subtable layout
// snapshot.
func (d *Dict) FindRefByIdentityAndHash(rawKey any, hash uint64) (*entry, bool) {
	limit := 1
	if d.isRehashing() {
		limit = 2
	}
	for i := 0; i < limit; i++ {
		if d.table[i].capacity == 0 {
			continue
		}
		idx := d.table[i].index(hash)
		for e := d.table[i].buckets[idx]; e != nil; e = e.next {
			if e.key == rawKey {
				return e, true
			}
		}
	}
	return nil, false
}

// Entry accessors. Entry itself is unexported so that callers can only
// reach it through Dict's API (mirroring the spec's "entry identity is
// stable but entries are owned by the subtable" rule); these let a caller
// read what Find/AddRaw/AddOrFind handed back.

// EntryKey returns e's key.
func EntryKey(e *entry) any { return e.key }

// EntryValue returns e's value.
func EntryValue(e *entry) Value { return e.value }

// SetEntryValue overwrites e's value slot directly, bypassing ValueDup.
// Used by callers implementing their own accessors (e.g. increment
// commands) once they already hold the entry from Find/AddOrFind.
func SetEntryValue(e *entry, v Value) { e.value = v }
