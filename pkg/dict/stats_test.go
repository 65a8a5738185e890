// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsOnEmptyDict(t *testing.T) {
	d := newStringDict()
	s := d.PrimaryStats()
	assert.Zero(t, s.Capacity)
	assert.Zero(t, s.Used)
	assert.NotPanics(t, func() { d.Stats() })
}

func TestPrimaryStatsReflectsLoad(t *testing.T) {
	d := newStringDict()
	for i := 0; i < 3; i++ {
		d.Add(keyFor(i), Int64Value(int64(i)))
	}

	s := d.PrimaryStats()
	assert.EqualValues(t, 3, s.Used)
	assert.Greater(t, s.Capacity, uint64(0))
	assert.GreaterOrEqual(t, s.MaxChainLength, 1)
}

func TestStatsRenderingMentionsRehashWhenInProgress(t *testing.T) {
	d := newStringDict()
	for i := 0; i < 200; i++ {
		d.Add(keyFor(i), Int64Value(int64(i)))
	}

	out := d.Stats()
	assert.Contains(t, out, "rehashing")
	assert.Contains(t, out, "primary")
	assert.Contains(t, out, "secondary")
	assert.True(t, strings.Contains(out, "capacity="))
}
