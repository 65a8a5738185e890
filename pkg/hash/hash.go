// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hash provides the default hash primitives rdict's core
// dictionary treats as an external collaborator: a 128-bit-seeded keyed
// hash over byte strings (SipHash, the same family Redis's own dict.c
// uses for exactly this reason — resistance to hash-flooding on
// attacker-chosen keys), and a faster unseeded hash for callers that do
// not need that property.
package hash

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/dchest/siphash"
)

// Seed is the process-wide 128-bit keyed-hash seed.
type Seed [16]byte

// seed is the current process-wide hash seed. It is a plain variable, not
// behind a mutex: like the dictionary's resize_enabled flag, it is meant
// to be set once at startup or at quiescence, never concurrently with
// hashing.
var seed Seed

// SetSeed installs a new process-wide hash seed. Changing it invalidates
// any previously computed hash for comparison purposes — callers must not
// do so while a dictionary built on Hash is in use.
func SetSeed(s Seed) { seed = s }

// GetSeed returns the current process-wide hash seed.
func GetSeed() Seed { return seed }

func seedHalves() (k0, k1 uint64) {
	return binary.LittleEndian.Uint64(seed[0:8]), binary.LittleEndian.Uint64(seed[8:16])
}

// Hash returns the SipHash-2-4 digest of key under the current seed.
func Hash(key []byte) uint64 {
	k0, k1 := seedHalves()
	return siphash.Hash(k0, k1, key)
}

// CaseInsensitiveHash returns the same digest Hash would for the
// lower-cased form of key, without mutating key itself.
func CaseInsensitiveHash(key []byte) uint64 {
	lower := bytes.ToLower(key)
	return Hash(lower)
}

// XXHash64 returns the unseeded xxhash64 digest of key. It is faster than
// Hash but offers no resistance to adversarially chosen keys; use it only
// when every key originates from a trusted source.
func XXHash64(key []byte) uint64 {
	return xxhash.Sum64(key)
}
