// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import "testing"

func TestParseItemTable(t *testing.T) {
	// Two records, both little-endian: wire index 0 is the conventional
	// null item (type_id == 0), wire index 1 is a real array item.
	data := []byte{
		0x00, 0x00, 0x00, 0x00, // type_and_flags: type=0, flags=0
		0x00, 0x00, 0x00, 0x00, // offset
		0x00, 0x00, 0x00, 0x00, // count

		0x05, 0x00, 0x00, 0x20, // type_and_flags: type=5, flags=0x20 (array)
		0x10, 0x00, 0x00, 0x00, // offset
		0x03, 0x00, 0x00, 0x00, // count
	}
	table, err := parseItemTable(NewBufferReader(data))
	if err != nil {
		t.Fatalf("parseItemTable: %v", err)
	}
	if len(table.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2 (ordinal == wire index, no prepend)", len(table.Items))
	}

	null, err := table.ItemAt(0)
	if err != nil {
		t.Fatalf("ItemAt(0): %v", err)
	}
	if null.Type != 0 {
		t.Fatalf("ItemAt(0).Type = %d, want 0", null.Type)
	}

	item, err := table.ItemAt(1)
	if err != nil {
		t.Fatalf("ItemAt(1): %v", err)
	}
	if item.Type != 5 || item.Flags != 0x20 || item.Offset != 0x10 || item.Count != 3 {
		t.Fatalf("ItemAt(1) = %+v, want type=5 flags=0x20 offset=0x10 count=3", item)
	}
}

func TestItemAtSentinel(t *testing.T) {
	table := &ItemTable{Items: make([]Item, 1)}
	item, err := table.ItemAt(0)
	if err != nil {
		t.Fatalf("ItemAt(0): %v", err)
	}
	if item.Type != 0 {
		t.Fatalf("sentinel item.Type = %d, want 0", item.Type)
	}
}

func TestItemAtOutOfRange(t *testing.T) {
	table := &ItemTable{Items: make([]Item, 1)}
	if _, err := table.ItemAt(5); err == nil {
		t.Fatalf("expected ErrBadItemIndex")
	}
}
