// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import "errors"

// ErrBusy is returned when an operation is refused because of the
// dictionary's current state: expanding a dictionary that is mid-rehash,
// calling Rehash or RehashMilliseconds while an iterator is active, or
// calling ResizeToFit while resizing is disabled or a rehash is in
// progress. Rehashing a dictionary that has no rehash in progress is not an
// error; it simply reports that no work remains.
var ErrBusy = errors.New("dict: busy")

// ErrInvariant is returned when a request would violate a structural
// invariant: expanding to a capacity smaller than the current entry count,
// or expanding to the table's current capacity.
var ErrInvariant = errors.New("dict: invariant violation")

// ErrNotFound names the "key is absent" outcome. It is an ordinary result,
// not an exceptional condition; Find, FetchValue, Delete and Unlink report
// it with a false boolean and do not return this error themselves.
var ErrNotFound = errors.New("dict: not found")

// ErrIteratorMisuse is reported by an unsafe iterator's Release when the
// dictionary's fingerprint changed during iteration. Unlike the other
// errors here this represents programmer error in the caller, not a
// legitimate runtime outcome; callers should treat it as fatal.
var ErrIteratorMisuse = errors.New("dict: unsafe iterator invalidated by concurrent mutation")
