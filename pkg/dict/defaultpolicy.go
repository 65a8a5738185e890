// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import (
	"bytes"

	"github.com/zyhnesmr/rdict/pkg/hash"
)

// StringPolicy returns a Policy for string keys hashed with the package
// hash default (SipHash under the process-wide seed). Strings are
// immutable in Go, so no key duplication callback is needed; equality is
// plain ==.
func StringPolicy() *Policy {
	return &Policy{
		Hash: func(_ any, key any) uint64 {
			return hash.Hash([]byte(key.(string)))
		},
	}
}

// BytesPolicy returns a Policy for []byte keys. Unlike strings, byte
// slices are mutable, so keys are defensively copied on insertion and
// compared by content rather than identity.
func BytesPolicy() *Policy {
	return &Policy{
		Hash: func(_ any, key any) uint64 {
			return hash.Hash(key.([]byte))
		},
		KeyDup: func(_ any, key any) any {
			b := key.([]byte)
			cp := make([]byte, len(b))
			copy(cp, b)
			return cp
		},
		KeyEqual: func(_ any, a, b any) bool {
			return bytes.Equal(a.([]byte), b.([]byte))
		},
	}
}

// XXHashStringPolicy returns a Policy for string keys hashed with the
// faster, unseeded xxhash64 instead of the default SipHash. Use it only
// when every key originates from a trusted source, since it offers no
// resistance to adversarially chosen keys designed to collide.
func XXHashStringPolicy() *Policy {
	return &Policy{
		Hash: func(_ any, key any) uint64 {
			return hash.XXHash64([]byte(key.(string)))
		},
	}
}

// XXHashBytesPolicy is XXHashStringPolicy's []byte counterpart, with the
// same defensive key copy and content equality BytesPolicy uses.
func XXHashBytesPolicy() *Policy {
	return &Policy{
		Hash: func(_ any, key any) uint64 {
			return hash.XXHash64(key.([]byte))
		},
		KeyDup: func(_ any, key any) any {
			b := key.([]byte)
			cp := make([]byte, len(b))
			copy(cp, b)
			return cp
		},
		KeyEqual: func(_ any, a, b any) bool {
			return bytes.Equal(a.([]byte), b.([]byte))
		},
	}
}
