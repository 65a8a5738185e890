// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialCapacityIsFour(t *testing.T) {
	d := newStringDict()
	d.Add("a", Int64Value(1))

	assert.EqualValues(t, 4, d.table[0].capacity)
}

// Scenario 4: the 5th insertion into a fresh dict should have triggered
// growth (used == capacity at the 4th), so by the time it lands the
// secondary is 8 and a rehash is in progress (or has already finished, if
// the single insertion's passive step happened to complete it — which it
// cannot here, since finishing requires draining all of bucket 0..3).
func TestFifthInsertionTriggersGrowth(t *testing.T) {
	d := newStringDict()
	for i, k := range []string{"a", "b", "c", "d", "e"} {
		d.Add(k, Int64Value(int64(i)))
	}

	assert.EqualValues(t, 4, d.table[0].capacity)
	require.True(t, d.isRehashing())
	assert.EqualValues(t, 8, d.table[1].capacity)
}

func TestGrowthSuppressedUntilForceRatioWhenResizeDisabled(t *testing.T) {
	DisableResize()
	defer EnableResize()

	d := newStringDict()
	d.Add("seed", Int64Value(0)) // allocates the primary at initialCapacity (4)
	capacity := d.table[0].capacity
	require.EqualValues(t, initialCapacity, capacity)

	// Filling up to the load factor (one entry per bucket) must not grow
	// the table while resizing is administratively disabled.
	for i := 1; uint64(i) < capacity; i++ {
		d.Add(keyFor(i), Int64Value(int64(i)))
	}
	assert.False(t, d.isRehashing(), "ordinary growth must be suppressed while disabled")
	assert.Equal(t, capacity, d.table[0].capacity)

	// Past forceResizeRatio the load factor is intolerable even with
	// resizing disabled, so growth proceeds anyway.
	for i := int(capacity); uint64(i) <= capacity*(forceResizeRatio+1); i++ {
		d.Add(keyFor(i), Int64Value(int64(i)))
	}
	assert.True(t, d.isRehashing(), "growth must still occur once the load factor exceeds forceResizeRatio")
}

func TestIncrementalRehashMigratesAllEntries(t *testing.T) {
	d := newStringDict()
	const n = 2000
	for i := 0; i < n; i++ {
		d.Add(keyFor(i), Int64Value(int64(i)))
	}

	// Drive any outstanding rehash to completion via the bulk API.
	_, err := d.RehashMilliseconds(1000)
	require.NoError(t, err)
	require.False(t, d.isRehashing())

	assert.Equal(t, n, d.Len())
	for i := 0; i < n; i++ {
		v, ok := d.FetchValue(keyFor(i))
		require.True(t, ok)
		assert.EqualValues(t, i, mustInt(t, v))
	}
}

func TestRehashRefusesWhileIteratorActive(t *testing.T) {
	d := newStringDict()
	for i := 0; i < 100; i++ {
		d.Add(keyFor(i), Int64Value(int64(i)))
	}
	require.True(t, d.isRehashing())

	it := d.SafeIterator()
	it.Next() // the iterator is already registered by SafeIterator

	_, err := d.Rehash(1000)
	assert.ErrorIs(t, err, ErrBusy)

	_, err = d.RehashMilliseconds(10)
	assert.ErrorIs(t, err, ErrBusy)

	it.Release()
}

func TestExpandRejectsSameSizeAndMidRehash(t *testing.T) {
	d := newStringDict()
	d.Add("a", Int64Value(1))

	err := d.Expand(4)
	assert.ErrorIs(t, err, ErrInvariant, "expanding to the current capacity is rejected")

	require.NoError(t, d.Expand(64))
	require.True(t, d.isRehashing())

	err = d.Expand(128)
	assert.ErrorIs(t, err, ErrBusy, "cannot expand again while already rehashing")
}

func keyFor(i int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	buf := make([]byte, 0, 8)
	for n := i + 1; n > 0; n /= len(alphabet) {
		buf = append(buf, alphabet[n%len(alphabet)])
	}
	return string(buf)
}
