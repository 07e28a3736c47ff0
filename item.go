// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import (
	"encoding/binary"
	"fmt"
)

// Item flag bits.
const (
	ItemFlagPointer = 0x10
	ItemFlagArray   = 0x20
)

// itemRecordSize is the fixed little-endian, 12-byte on-disk width of a
// single ITEM record: type_and_flags, offset, count.
const itemRecordSize = 12

// Item names a region of the DATA payload: its reconstructed type, flag
// bits, byte offset, and element count. A record with Type == 0 is the
// conventional null item placeholder; it decodes to Null regardless of
// its ordinal. Value caches the item's decoded value the first time
// DeserializeItem visits it; every subsequent visit returns the same
// cached value, which is what makes pointer cycles resolve to a single
// node identity instead of recursing forever.
type Item struct {
	Type   int32
	Flags  uint8
	Offset uint32
	Count  uint32

	valueSet bool
	value    Value
}

// ItemTable is the full, immutable-after-construction vector of Item
// records built from a file's INDX/ITEM section.
type ItemTable struct {
	Items []Item
}

// ItemAt returns the item at ordinal idx, or an error if idx is out of
// range. Ordinal 0 is a valid lookup, conventionally the null item.
func (t *ItemTable) ItemAt(idx uint64) (*Item, error) {
	if idx >= uint64(len(t.Items)) {
		return nil, fmt.Errorf("%w: %d", ErrBadItemIndex, idx)
	}
	return &t.Items[idx], nil
}

// parseItemTable decodes the INDX/ITEM payload: n*12 bytes of little-endian
// records, n determined by the section size. Ordinal 0 is serialized on the
// wire like any other record and conventionally carries type_id == 0; it is
// read in place rather than synthesized, so that ordinal == wire index.
func parseItemTable(payload *BufferReader) (*ItemTable, error) {
	n := (payload.Len() - payload.Tell()) / itemRecordSize

	table := &ItemTable{Items: make([]Item, 0, n)}

	for i := 0; i < n; i++ {
		typeAndFlags := payload.ReadUint32(binary.LittleEndian, false, 0)
		offset := payload.ReadUint32(binary.LittleEndian, false, 0)
		count := payload.ReadUint32(binary.LittleEndian, false, 0)

		table.Items = append(table.Items, Item{
			Type:   int32(typeAndFlags & 0x00FFFFFF),
			Flags:  uint8(typeAndFlags >> 24),
			Offset: offset,
			Count:  count,
		})
	}

	return table, nil
}
