// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import (
	"encoding/json"
)

// Kind tags the variant a Value currently holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindArray
	KindRecord
)

// Value is the generic, recursive tagged union produced by the typed
// deserializer: null, bool, signed/unsigned integers, a 32-bit float,
// strings, ordered sequences (arrays and inline arrays), and ordered
// field-name -> Value mappings (records). Records preserve declaration
// order on iteration, which is why Record is an insertion-ordered
// RecordValue rather than a plain map.
type Value struct {
	Kind   Kind
	Bool   bool
	Int    int64
	Uint   uint64
	Float  float32
	String string
	Array  []Value
	Record *RecordValue
}

// RecordValue is an ordered field-name -> Value mapping. Iteration order
// matches the declared field order (inherited fields first).
type RecordValue struct {
	names  []string
	values []Value
	index  map[string]int
}

// NewRecordValue returns an empty, ready-to-fill record.
func NewRecordValue() *RecordValue {
	return &RecordValue{index: make(map[string]int)}
}

// Set assigns or overwrites the value for a field name, preserving the
// position of the first assignment on repeat calls.
func (r *RecordValue) Set(name string, v Value) {
	if i, ok := r.index[name]; ok {
		r.values[i] = v
		return
	}
	r.index[name] = len(r.names)
	r.names = append(r.names, name)
	r.values = append(r.values, v)
}

// Get returns the value stored for name and whether it was present.
func (r *RecordValue) Get(name string) (Value, bool) {
	i, ok := r.index[name]
	if !ok {
		return Value{}, false
	}
	return r.values[i], true
}

// Len returns the number of fields set on the record.
func (r *RecordValue) Len() int {
	return len(r.names)
}

// Range calls fn for each field in declaration order.
func (r *RecordValue) Range(fn func(name string, v Value)) {
	for i, name := range r.names {
		fn(name, r.values[i])
	}
}

// MarshalJSON renders the record as a JSON object with fields in
// declaration order.
func (r *RecordValue) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, name := range r.names {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf = append(buf, val...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// Null is the shared null value.
var Null = Value{Kind: KindNull}

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IntValue wraps a signed integer.
func IntValue(v int64) Value { return Value{Kind: KindInt, Int: v} }

// UintValue wraps an unsigned integer.
func UintValue(v uint64) Value { return Value{Kind: KindUint, Uint: v} }

// FloatValue wraps a 32-bit float.
func FloatValue(v float32) Value { return Value{Kind: KindFloat, Float: v} }

// StringValue wraps a decoded string.
func StringValue(s string) Value { return Value{Kind: KindString, String: s} }

// ArrayValue wraps an ordered sequence.
func ArrayValue(items []Value) Value { return Value{Kind: KindArray, Array: items} }

// RecordValueOf wraps an ordered record mapping.
func RecordValueOf(r *RecordValue) Value { return Value{Kind: KindRecord, Record: r} }

// MarshalJSON renders the value as JSON: null, bool, number, string, array,
// or object according to Kind.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.Bool)
	case KindInt:
		return json.Marshal(v.Int)
	case KindUint:
		return json.Marshal(v.Uint)
	case KindFloat:
		return json.Marshal(v.Float)
	case KindString:
		return json.Marshal(v.String)
	case KindArray:
		return json.Marshal(v.Array)
	case KindRecord:
		return json.Marshal(v.Record)
	default:
		return []byte("null"), nil
	}
}
