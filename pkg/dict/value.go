// Copyright 2024 The Rdict Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dict

import "math"

// Kind identifies which arm of a Value's tagged union is populated.
type Kind uint8

const (
	// KindNone marks a Value with no payload, used only for an entry whose
	// value has not been set yet (see AddRaw).
	KindNone Kind = iota
	KindPointer
	KindUint64
	KindInt64
	KindFloat64
)

// Value is the dictionary's tagged value slot: a pointer, an unsigned
// 64-bit integer, a signed 64-bit integer, or a double, chosen by the
// caller at construction time. The core never interprets the payload; it
// is opaque cargo that rides along with a key.
type Value struct {
	kind Kind
	ptr  any
	bits uint64
}

// PointerValue wraps an arbitrary value behind the pointer arm.
func PointerValue(v any) Value { return Value{kind: KindPointer, ptr: v} }

// Uint64Value constructs a Value holding an unsigned 64-bit integer.
func Uint64Value(v uint64) Value { return Value{kind: KindUint64, bits: v} }

// Int64Value constructs a Value holding a signed 64-bit integer.
func Int64Value(v int64) Value { return Value{kind: KindInt64, bits: uint64(v)} }

// Float64Value constructs a Value holding a double.
func Float64Value(v float64) Value { return Value{kind: KindFloat64, bits: math.Float64bits(v)} }

// Kind reports which accessor is valid for this Value.
func (v Value) Kind() Kind { return v.kind }

// Pointer returns the pointer payload and true, or nil and false if this
// Value does not hold the pointer arm.
func (v Value) Pointer() (any, bool) {
	if v.kind != KindPointer {
		return nil, false
	}
	return v.ptr, true
}

// Uint64 returns the unsigned integer payload and true, or 0 and false.
func (v Value) Uint64() (uint64, bool) {
	if v.kind != KindUint64 {
		return 0, false
	}
	return v.bits, true
}

// Int64 returns the signed integer payload and true, or 0 and false.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindInt64 {
		return 0, false
	}
	return int64(v.bits), true
}

// Float64 returns the double payload and true, or 0 and false.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindFloat64 {
		return 0, false
	}
	return math.Float64frombits(v.bits), true
}
