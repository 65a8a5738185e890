// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import (
	"fmt"
	"strings"
)

// histogramCap is the chain length at which the histogram stops tracking
// lengths individually: chains of this length or longer are all folded
// into the final slot.
const histogramCap = 50

// SubtableStats is a diagnostic snapshot of one subtable's chain-length
// distribution.
type SubtableStats struct {
	Capacity        uint64
	Used            uint64
	NonEmptyBuckets uint64
	MaxChainLength  int

	// MeanChainPerBucket is Used / NonEmptyBuckets (how long a chain is,
	// on average, given that you landed in an occupied one).
	MeanChainPerBucket float64

	// MeanChainPerEntry is the average, over every live entry, of the
	// length of the chain it sits in — i.e. the chain length weighted by
	// how many entries experience it, which is what actually determines
	// typical lookup cost.
	MeanChainPerEntry float64

	// Histogram[i] counts buckets with chain length i for i <
	// histogramCap; Histogram[histogramCap] counts buckets with chain
	// length >= histogramCap.
	Histogram [histogramCap + 1]uint64
}

func (t *subtable) stats() SubtableStats {
	s := SubtableStats{Capacity: t.capacity, Used: t.used}
	if t.capacity == 0 {
		return s
	}

	var sumOfSquares uint64
	for _, head := range t.buckets {
		length := 0
		for e := head; e != nil; e = e.next {
			length++
		}
		if length == 0 {
			s.Histogram[0]++
			continue
		}

		s.NonEmptyBuckets++
		if length > s.MaxChainLength {
			s.MaxChainLength = length
		}
		sumOfSquares += uint64(length) * uint64(length)

		idx := length
		if idx > histogramCap {
			idx = histogramCap
		}
		s.Histogram[idx]++
	}

	if s.NonEmptyBuckets > 0 {
		s.MeanChainPerBucket = float64(s.Used) / float64(s.NonEmptyBuckets)
	}
	if s.Used > 0 {
		s.MeanChainPerEntry = float64(sumOfSquares) / float64(s.Used)
	}
	return s
}

// PrimaryStats returns a diagnostic snapshot of the primary subtable.
func (d *Dict) PrimaryStats() SubtableStats { return d.table[0].stats() }

// SecondaryStats returns a diagnostic snapshot of the secondary subtable
// (zero-valued when no rehash is in progress).
func (d *Dict) SecondaryStats() SubtableStats { return d.table[1].stats() }

// Stats renders a human-readable multi-line summary of both subtables,
// suitable for a diagnostics command or a debug log line.
func (d *Dict) Stats() string {
	var b strings.Builder
	writeSubtableStats(&b, "primary", d.PrimaryStats())
	if d.isRehashing() {
		writeSubtableStats(&b, "secondary", d.SecondaryStats())
		fmt.Fprintf(&b, "rehashing: next bucket %d of %d\n", d.rehashIndex, d.table[0].capacity)
	}
	return b.String()
}

func writeSubtableStats(b *strings.Builder, name string, s SubtableStats) {
	fmt.Fprintf(b, "%s: capacity=%d used=%d non-empty-buckets=%d max-chain=%d mean-chain/bucket=%.2f mean-chain/entry=%.2f\n",
		name, s.Capacity, s.Used, s.NonEmptyBuckets, s.MaxChainLength, s.MeanChainPerBucket, s.MeanChainPerEntry)

	for length, count := range s.Histogram {
		if count == 0 {
			continue
		}
		if length == histogramCap {
			fmt.Fprintf(b, "  %d+: %d\n", length, count)
		} else {
			fmt.Fprintf(b, "  %d: %d\n", length, count)
		}
	}
}
