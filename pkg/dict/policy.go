// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

// Policy is the user-supplied capability bundle that tells a Dict how to
// hash, compare, duplicate and destroy the keys and values it stores. Hash
// is required (New panics without it); every other field is optional and,
// when nil, falls back to identity semantics (pointer/interface equality,
// no duplication, no destructor calls). The
// core never deep-inspects a key or value itself — all such handling is
// routed through these callbacks.
type Policy struct {
	// Hash returns a 64-bit digest of key. It must be pure and
	// deterministic for a fixed process-wide hash seed; two equal keys
	// (per KeyEqual) must hash identically. Required.
	Hash func(private any, key any) uint64

	// KeyDup returns a copy of key to store in a new entry. If nil, the
	// raw key is stored as given.
	KeyDup func(private any, key any) any

	// ValueDup returns a copy of v to store in a new or replaced entry.
	// If nil, the raw value is stored as given.
	ValueDup func(private any, v Value) Value

	// KeyEqual reports whether a and b denote the same key. If nil,
	// interface identity (==) is used.
	KeyEqual func(private any, a, b any) bool

	// KeyDestroy is called when an entry holding key is freed, after any
	// corresponding ValueDestroy call. May be nil.
	KeyDestroy func(private any, key any)

	// ValueDestroy is called when an entry's value is discarded: on
	// delete, on clear, and on replace's old value (see Replace).
	// May be nil.
	ValueDestroy func(private any, v Value)
}

func (p *Policy) hash(private any, key any) uint64 {
	return p.Hash(private, key)
}

func (p *Policy) dupKey(private any, key any) any {
	if p.KeyDup == nil {
		return key
	}
	return p.KeyDup(private, key)
}

func (p *Policy) dupValue(private any, v Value) Value {
	if p.ValueDup == nil {
		return v
	}
	return p.ValueDup(private, v)
}

func (p *Policy) equalKeys(private any, a, b any) bool {
	if p.KeyEqual == nil {
		return a == b
	}
	return p.KeyEqual(private, a, b)
}

func (p *Policy) destroyKey(private any, key any) {
	if p.KeyDestroy != nil {
		p.KeyDestroy(private, key)
	}
}

func (p *Policy) destroyValue(private any, v Value) {
	if p.ValueDestroy != nil {
		p.ValueDestroy(private, v)
	}
}
