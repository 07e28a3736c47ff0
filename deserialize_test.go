// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDeserializeObjectCachedAlignsAndPads exercises scenario S5: a record
// of size 16, align 8, two u32 fields at offsets 0 and 4. Decoding starting
// at byte offset 3 must align the cursor up to 8 before reading fields, and
// must leave the cursor at 8+16=24 afterward regardless of how much of the
// declared size the fields actually occupy.
func TestDeserializeObjectCachedAlignsAndPads(t *testing.T) {
	dict := &Dictionary{Types: []Type{
		{}, // 0: sentinel
		{Name: "u32", HasFormat: true, Format: FormatInt | FormatFlagInt32}, // 1
		{
			Name: "T", HasFormat: true, Format: FormatRecord,
			HasSizeAlign: true, Size: 16, Align: 8,
			Fields: []Field{{Name: "a", Offset: 0, Type: 1}, {Name: "b", Offset: 4, Type: 1}},
		}, // 2
	}}
	items := &ItemTable{Items: make([]Item, 1)}

	data := make([]byte, 24)
	data[8] = 1  // a = 1, little-endian, at aligned offset 8
	data[12] = 2 // b = 2, little-endian, at aligned offset 12

	d := NewDeserializer(NewBufferReader(data), dict, items, true, nil)

	r := NewBufferReader(data)
	r.Seek(3)

	val, err := d.deserializeObjectCached(r, 2, nil)
	require.NoError(t, err)
	require.Equal(t, KindRecord, val.Kind)

	a, ok := val.Record.Get("a")
	require.True(t, ok)
	require.EqualValues(t, 1, a.Uint)

	b, ok := val.Record.Get("b")
	require.True(t, ok)
	require.EqualValues(t, 2, b.Uint)

	require.Equal(t, 24, r.Tell())
}

// TestDeserializeItemPointerCycle exercises scenario S6: two record items
// that each point at the other resolve to the same two node identities
// with no infinite recursion.
func TestDeserializeItemPointerCycle(t *testing.T) {
	dict := &Dictionary{Types: []Type{
		{}, // 0: sentinel
		{
			Name: "Node", HasFormat: true, Format: FormatRecord,
			HasSizeAlign: true, Size: 8, Align: 8,
			Fields: []Field{{Name: "next", Offset: 0, Type: 2}},
		}, // 1
		{Name: "Node*", HasFormat: true, Format: FormatPointer, HasSubtype: true, Subtype: 1}, // 2
	}}

	data := make([]byte, 16)
	data[0] = 2 // item #1's "next" points at item #2
	data[8] = 1 // item #2's "next" points at item #1

	items := &ItemTable{Items: []Item{
		{}, // 0: sentinel
		{Type: 1, Offset: 0},
		{Type: 1, Offset: 8},
	}}

	d := NewDeserializer(NewBufferReader(data), dict, items, true, nil)

	item1, _ := items.ItemAt(1)
	v1, err := d.DeserializeItem(item1)
	require.NoError(t, err)

	next1, ok := v1.Record.Get("next")
	if !ok || next1.Kind != KindRecord {
		t.Fatalf("item1.next = (%v, %v), want a record", next1, ok)
	}
	next2, ok := next1.Record.Get("next")
	if !ok || next2.Kind != KindRecord {
		t.Fatalf("item2.next = (%v, %v), want a record", next2, ok)
	}
	if next2.Record != v1.Record {
		t.Fatalf("cycle did not resolve to the same node identity")
	}

	// Revisiting item1 must return the exact same cached value.
	v1Again, err := d.DeserializeItem(item1)
	if err != nil {
		t.Fatalf("DeserializeItem (cached): %v", err)
	}
	if v1Again.Record != v1.Record {
		t.Fatalf("cached revisit returned a different node identity")
	}
}

// TestDecodeRecordWrapsUnresolvedFieldType exercises a record field whose
// declared type ordinal is out of range: decodeRecord must surface
// ErrUnresolvedFieldType rather than a bare ErrBadTypeIndex.
func TestDecodeRecordWrapsUnresolvedFieldType(t *testing.T) {
	dict := &Dictionary{Types: []Type{
		{}, // 0: sentinel
		{
			Name: "T", HasFormat: true, Format: FormatRecord,
			HasSizeAlign: true, Size: 4, Align: 4,
			Fields: []Field{{Name: "bad", Offset: 0, Type: 99}}, // out of range
		}, // 1
	}}
	items := &ItemTable{Items: make([]Item, 1)}
	data := make([]byte, 4)

	d := NewDeserializer(NewBufferReader(data), dict, items, true, nil)
	_, err := d.deserializeObjectCached(NewBufferReader(data), 1, nil)
	require.ErrorIs(t, err, ErrUnresolvedFieldType)
}

func TestDeserializeItemNullPointer(t *testing.T) {
	dict := &Dictionary{Types: []Type{
		{},
		{Name: "Node", HasFormat: true, Format: FormatRecord, HasSizeAlign: true, Size: 8, Align: 8,
			Fields: []Field{{Name: "next", Offset: 0, Type: 2}}},
		{Name: "Node*", HasFormat: true, Format: FormatPointer, HasSubtype: true, Subtype: 1},
	}}
	data := make([]byte, 8) // next = ordinal 0 (null)
	items := &ItemTable{Items: []Item{{}, {Type: 1, Offset: 0}}}

	d := NewDeserializer(NewBufferReader(data), dict, items, true, nil)
	item1, _ := items.ItemAt(1)
	v, err := d.DeserializeItem(item1)
	if err != nil {
		t.Fatalf("DeserializeItem: %v", err)
	}
	next, ok := v.Record.Get("next")
	if !ok || next.Kind != KindNull {
		t.Fatalf("next = (%v, %v), want (Null, true)", next, ok)
	}
}
