// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStringDict() *Dict {
	return New(StringPolicy(), nil)
}

func mustInt(t *testing.T, v Value) int64 {
	t.Helper()
	n, ok := v.Int64()
	require.True(t, ok, "expected an int64 value")
	return n
}

// Scenario 1: empty dict.
func TestEmptyDict(t *testing.T) {
	d := newStringDict()

	_, ok := d.Find("x")
	assert.False(t, ok)
	assert.Equal(t, 0, d.Len())
}

// Scenario 2 & 3: add, duplicate add fails, replace.
func TestAddFindReplace(t *testing.T) {
	d := newStringDict()

	require.True(t, d.Add("a", Int64Value(1)))
	require.True(t, d.Add("b", Int64Value(2)))
	require.False(t, d.Add("a", Int64Value(3)), "second add of an existing key must fail")

	v, ok := d.FetchValue("a")
	require.True(t, ok)
	assert.EqualValues(t, 1, mustInt(t, v))

	inserted := d.Replace("a", Int64Value(99))
	assert.False(t, inserted, "replace of an existing key reports overwritten")

	v, ok = d.FetchValue("a")
	require.True(t, ok)
	assert.EqualValues(t, 99, mustInt(t, v))
}

func TestReplaceIsIdempotentInValue(t *testing.T) {
	d := newStringDict()

	d.Replace("k", Int64Value(7))
	d.Replace("k", Int64Value(7))

	assert.Equal(t, 1, d.Len())
	v, ok := d.FetchValue("k")
	require.True(t, ok)
	assert.EqualValues(t, 7, mustInt(t, v))
}

func TestReplaceOrderOfOperations(t *testing.T) {
	// The order matters when values alias reference-counted state: the new
	// value must be installed before the old one is destroyed, so that a
	// destructor cannot free something the new value still points to.
	// The pointed-to int is a reference count: ValueDup takes a reference,
	// ValueDestroy drops one and marks the value freed when none remain.
	var destroyedCount int
	var lastDestroyed *int
	freed := false

	policy := &Policy{
		Hash: func(_ any, key any) uint64 { return uint64(key.(int)) },
		ValueDup: func(_ any, v Value) Value {
			p, ok := v.Pointer()
			require.True(t, ok)
			*p.(*int)++
			return v
		},
		ValueDestroy: func(_ any, v Value) {
			p, ok := v.Pointer()
			require.True(t, ok)
			ptr := p.(*int)
			destroyedCount++
			lastDestroyed = ptr
			*ptr--
			if *ptr == 0 {
				freed = true
			}
		},
	}
	d := New(policy, nil)

	shared := new(int)

	d.Add(1, PointerValue(shared))     // count 1
	d.Replace(1, PointerValue(shared)) // new value aliases the old one: count 2, then 1

	assert.Equal(t, 1, destroyedCount, "destructor runs exactly once, on the old value")
	assert.Same(t, shared, lastDestroyed)
	assert.False(t, freed, "old value was destroyed before the aliasing new value was installed")
	assert.Equal(t, 1, *shared)
}

func TestDeleteThenFindNotFound(t *testing.T) {
	d := newStringDict()
	d.Add("a", Int64Value(1))

	assert.True(t, d.Delete("a"))
	_, ok := d.Find("a")
	assert.False(t, ok)
	assert.False(t, d.Delete("a"), "deleting an absent key reports false")
}

func TestUnlinkDoesNotRunDestructorsUntilFreed(t *testing.T) {
	var destroyed bool
	policy := &Policy{
		Hash:         func(_ any, key any) uint64 { return uint64(key.(int)) },
		ValueDestroy: func(_ any, v Value) { destroyed = true },
	}
	d := New(policy, nil)
	d.Add(1, Int64Value(5))

	e, ok := d.Unlink(1)
	require.True(t, ok)
	assert.False(t, destroyed, "unlink must not destroy before FreeUnlinked")
	assert.Equal(t, 0, d.Len())

	d.FreeUnlinked(e)
	assert.True(t, destroyed)
}

func TestXXHashStringPolicy(t *testing.T) {
	d := New(XXHashStringPolicy(), nil)
	require.True(t, d.Add("a", Int64Value(1)))
	require.True(t, d.Add("b", Int64Value(2)))

	v, ok := d.FetchValue("a")
	require.True(t, ok)
	assert.EqualValues(t, 1, mustInt(t, v))
	assert.Equal(t, 2, d.Len())
}

func TestXXHashBytesPolicy(t *testing.T) {
	d := New(XXHashBytesPolicy(), nil)
	key := []byte("shared")
	require.True(t, d.Add(key, Int64Value(7)))

	// Mutating the caller's slice after insertion must not affect the
	// stored key, since BytesPolicy-style policies defensively copy it.
	key[0] = 'S'

	v, ok := d.FetchValue([]byte("shared"))
	require.True(t, ok)
	assert.EqualValues(t, 7, mustInt(t, v))
}

func TestAddOrFindReturnsExistingEntry(t *testing.T) {
	d := newStringDict()
	d.Add("a", Int64Value(1))

	e := d.AddOrFind("a")
	assert.EqualValues(t, 1, mustInt(t, EntryValue(e)))

	e2 := d.AddOrFind("b")
	assert.Equal(t, KindNone, EntryValue(e2).Kind()) // uninitialized value slot's zero value
	assert.Equal(t, 2, d.Len())
}

// Invariant: both capacities are zero or a power of two, and secondary has
// capacity iff a rehash is in progress.
func TestCapacityInvariants(t *testing.T) {
	d := newStringDict()
	for i := 0; i < 200; i++ {
		d.Add(string(rune('a'+i%26))+string(rune('A'+(i/26)%26)), Int64Value(int64(i)))

		assert.True(t, isPowerOfTwoOrZero(d.table[0].capacity))
		assert.True(t, isPowerOfTwoOrZero(d.table[1].capacity))
		assert.Equal(t, d.table[1].capacity > 0, d.isRehashing())
	}
}

func isPowerOfTwoOrZero(n uint64) bool {
	return n == 0 || n&(n-1) == 0
}
