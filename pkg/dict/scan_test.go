// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 5: scanning a full cycle (cursor back to 0) must visit every
// key present throughout. Growth between scan calls is covered by
// TestScanSurvivesGrowthBetweenCalls.
func TestScanFullCycleVisitsEveryKey(t *testing.T) {
	d := newStringDict()
	const n = 1000
	for i := 0; i < n; i++ {
		d.Add(keyFor(i), Int64Value(int64(i)))
	}

	seen := make(map[string]bool, n)
	var cursor uint64
	iterations := 0
	for {
		cursor = d.Scan(cursor, nil, nil, func(_ any, e *entry) {
			seen[e.key.(string)] = true
		})
		iterations++
		if cursor == 0 {
			break
		}
		if iterations > n*10 {
			t.Fatal("scan did not converge back to cursor 0")
		}
	}

	for i := 0; i < n; i++ {
		assert.True(t, seen[keyFor(i)], "key %q was never visited by the scan", keyFor(i))
	}
}

func TestScanEmptyDictReturnsZero(t *testing.T) {
	d := newStringDict()
	assert.EqualValues(t, 0, d.Scan(0, nil, nil, nil))
	assert.EqualValues(t, 0, d.Scan(5, nil, nil, nil))
}

func TestScanSurvivesGrowthBetweenCalls(t *testing.T) {
	// Keys present before the scan starts must all be visited; keys added
	// mid-scan carry no such guarantee, so only the first ones are checked.
	const present = 200
	d := newStringDict()
	for i := 0; i < present; i++ {
		d.Add(keyFor(i), Int64Value(int64(i)))
	}

	seen := make(map[string]bool)
	var cursor uint64
	cursor = d.Scan(cursor, nil, nil, func(_ any, e *entry) {
		seen[e.key.(string)] = true
	})

	// Force growth mid-scan.
	for i := present; i < 300; i++ {
		d.Add(keyFor(i), Int64Value(int64(i)))
	}
	require.True(t, d.isRehashing())

	iterations := 0
	for {
		cursor = d.Scan(cursor, nil, nil, func(_ any, e *entry) {
			seen[e.key.(string)] = true
		})
		iterations++
		if cursor == 0 || iterations > 3000 {
			break
		}
	}

	for i := 0; i < present; i++ {
		assert.True(t, seen[keyFor(i)], "key %q missing after growth mid-scan", keyFor(i))
	}
}

func TestScanOnBucketCalledOncePerBucket(t *testing.T) {
	d := newStringDict()
	for i := 0; i < 50; i++ {
		d.Add(keyFor(i), Int64Value(int64(i)))
	}

	bucketCalls := 0
	entryCalls := 0
	var cursor uint64
	for {
		cursor = d.Scan(cursor,
			nil,
			func(_ any, _ *entry) { bucketCalls++ },
			func(_ any, _ *entry) { entryCalls++ },
		)
		if cursor == 0 {
			break
		}
	}

	assert.GreaterOrEqual(t, entryCalls, 50)
	// Nothing mutates d between calls, so a full cycle visits every bucket
	// of both subtables exactly once.
	assert.EqualValues(t, d.table[0].capacity+d.table[1].capacity, bucketCalls)
}
