// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import (
	"encoding/binary"
	"errors"
	"fmt"

	hkxlog "github.com/gohkx/hkx/internal/log"
)

// Deserializer interprets the DATA payload under the guidance of a
// reconstructed type Dictionary and ItemTable, producing the generic value
// tree. It is strictly single-threaded: the only mutable state it touches
// is each Item's value cache, and it touches each Item's cache at most
// once per entry (subsequent visits are served from the cache).
type Deserializer struct {
	data   *BufferReader
	dict   *Dictionary
	items  *ItemTable
	strict bool
	logger *hkxlog.Helper
}

// NewDeserializer builds a Deserializer over the DATA payload reader, the
// already-built type Dictionary, and ItemTable. strict selects the default
// §4.8 pointer-type validation (subtype-or-OPAQUE); when false, a type
// mismatch is logged and tolerated instead of rejected, per the relaxation
// suggested in the format's open questions.
func NewDeserializer(data *BufferReader, dict *Dictionary, items *ItemTable, strict bool, logger *hkxlog.Helper) *Deserializer {
	return &Deserializer{data: data, dict: dict, items: items, strict: strict, logger: logger}
}

// DeserializeItemOrdinal resolves an item-table ordinal (as stored in a
// pointer slot) to its decoded value, memoizing the result on the Item.
// Ordinal 0 is the null sentinel and always decodes to Null.
func (d *Deserializer) DeserializeItemOrdinal(ordinal uint64) (Value, error) {
	item, err := d.items.ItemAt(ordinal)
	if err != nil {
		return Value{}, err
	}
	if ordinal == 0 {
		return Null, nil
	}
	return d.DeserializeItem(item)
}

// DeserializeItem decodes item's region of the DATA payload on first visit
// and returns the cached value on every subsequent visit, which is what
// lets pointer cycles resolve to a single shared node instead of
// recursing forever.
func (d *Deserializer) DeserializeItem(item *Item) (Value, error) {
	if item.valueSet {
		return item.value, nil
	}

	if item.Type == 0 {
		item.value = Null
		item.valueSet = true
		return Null, nil
	}

	t, err := d.dict.TypeAt(item.Type)
	if err != nil {
		return Value{}, err
	}
	resolved, err := d.dict.Resolve(t)
	if err != nil {
		return Value{}, err
	}

	r := d.data.Clone(int(item.Offset))

	if item.Flags&ItemFlagArray != 0 {
		arr := make([]Value, item.Count)
		item.value = ArrayValue(arr)
		item.valueSet = true
		for i := range arr {
			v, err := d.deserializeObjectCached(r, item.Type, nil)
			if err != nil {
				return Value{}, err
			}
			arr[i] = v
		}
		// Array is backed by the same slice already installed in the
		// cache, but re-assign defensively in case append ever grows it.
		item.value = ArrayValue(arr)
		return item.value, nil
	}

	if formatTypeOf(resolved.Format) == FormatRecord {
		rv := NewRecordValue()
		item.value = RecordValueOf(rv)
		item.valueSet = true
		if _, err := d.deserializeObjectCached(r, item.Type, rv); err != nil {
			return Value{}, err
		}
		return item.value, nil
	}

	val, err := d.deserializeObjectCached(r, item.Type, nil)
	if err != nil {
		return Value{}, err
	}
	item.value = val
	item.valueSet = true
	return val, nil
}

// deserializeObjectCached is the §4.8 "object decode" procedure: resolve
// the type, align the cursor if the type advertises one, dispatch on
// format, then pad the cursor to start+size so siblings land on the
// expected stride regardless of inner layout. preset, when non-nil, is an
// already cache-installed RecordValue to fill in place (used by
// DeserializeItem so the cache slot for a record item is claimed before
// its fields are decoded, breaking pointer cycles).
func (d *Deserializer) deserializeObjectCached(r *BufferReader, typeIdx int32, preset *RecordValue) (Value, error) {
	t, err := d.dict.TypeAt(typeIdx)
	if err != nil {
		return Value{}, err
	}
	resolved, err := d.dict.Resolve(t)
	if err != nil {
		return Value{}, err
	}

	start := r.Tell()
	if resolved.HasSizeAlign {
		start = alignUp(start, resolved.Align)
		r.Seek(start)
	}

	val, err := d.dispatch(r, t, resolved, start, preset)
	if err != nil {
		return Value{}, err
	}

	if resolved.HasSizeAlign {
		r.Seek(start + int(resolved.Size))
	}
	return val, nil
}

func (d *Deserializer) dispatch(r *BufferReader, t, resolved *Type, start int, preset *RecordValue) (Value, error) {
	switch formatTypeOf(resolved.Format) {
	case FormatBool:
		return BoolValue(r.ReadUint8(false, 0) != 0), nil

	case FormatString:
		return d.decodeStringPointer(r)

	case FormatInt:
		return d.decodeInt(r, resolved)

	case FormatFloat:
		return FloatValue(r.ReadFloat32(binary.LittleEndian, false, 0)), nil

	case FormatArray:
		if resolved.Format&FormatFlagInlineArray != 0 {
			return d.decodeInlineArray(r, resolved, start)
		}
		return d.decodePointerTarget(r, resolved.Subtype)

	case FormatPointer:
		return d.decodePointerTarget(r, resolved.Subtype)

	case FormatRecord:
		return d.decodeRecord(r, t, start, preset)

	default:
		return Value{}, fmt.Errorf("%w: %d", ErrUnknownFormatType, formatTypeOf(resolved.Format))
	}
}

// decodeInt picks the integer width from the first set bit among
// INT8/INT16/INT32/INT64 and its signedness from the SIGNED flag, all
// little-endian.
func (d *Deserializer) decodeInt(r *BufferReader, resolved *Type) (Value, error) {
	format := resolved.Format
	signed := format&FormatFlagSigned != 0

	switch {
	case format&FormatFlagInt8 != 0:
		v := r.ReadUint8(false, 0)
		if signed {
			return IntValue(int64(int8(v))), nil
		}
		return UintValue(uint64(v)), nil

	case format&FormatFlagInt16 != 0:
		v := r.ReadUint16(binary.LittleEndian, false, 0)
		if signed {
			return IntValue(int64(int16(v))), nil
		}
		return UintValue(uint64(v)), nil

	case format&FormatFlagInt32 != 0:
		v := r.ReadUint32(binary.LittleEndian, false, 0)
		if signed {
			return IntValue(int64(int32(v))), nil
		}
		return UintValue(uint64(v)), nil

	case format&FormatFlagInt64 != 0:
		v := r.ReadUint64(binary.LittleEndian, false, 0)
		if signed {
			return IntValue(int64(v)), nil
		}
		return UintValue(v), nil

	default:
		return Value{}, ErrUnreachableIntWidth
	}
}

// decodeStringPointer reads a pointer (item ordinal), dereferences it to
// an array-flagged item, and decodes count-1 bytes (the NUL terminator is
// excluded) as the string. A null pointer decodes to Null.
func (d *Deserializer) decodeStringPointer(r *BufferReader) (Value, error) {
	ordinal := r.ReadUint64(binary.LittleEndian, false, 0)
	if ordinal == 0 {
		return Null, nil
	}

	item, err := d.items.ItemAt(ordinal)
	if err != nil {
		return Value{}, err
	}
	if item.Flags&ItemFlagArray == 0 {
		return Value{}, fmt.Errorf("%w: item %d", ErrNotArrayItem, ordinal)
	}
	if item.Count == 0 {
		return StringValue(""), nil
	}

	bytes := d.data.Clone(int(item.Offset)).Read(int(item.Count)-1, false, 0)
	return StringValue(string(bytes)), nil
}

// decodePointerTarget reads a pointer (item ordinal), validates the target
// item's type against the expected element type, and delegates to
// DeserializeItem. A null pointer decodes to Null.
func (d *Deserializer) decodePointerTarget(r *BufferReader, elementTypeIdx int32) (Value, error) {
	ordinal := r.ReadUint64(binary.LittleEndian, false, 0)
	if ordinal == 0 {
		return Null, nil
	}

	item, err := d.items.ItemAt(ordinal)
	if err != nil {
		return Value{}, err
	}

	if err := d.checkPointerType(ordinal, item, elementTypeIdx); err != nil {
		return Value{}, err
	}

	return d.DeserializeItem(item)
}

func (d *Deserializer) checkPointerType(ordinal uint64, item *Item, elementTypeIdx int32) error {
	elemType, err := d.dict.TypeAt(elementTypeIdx)
	if err != nil {
		return err
	}
	resolvedElem, err := d.dict.Resolve(elemType)
	if err != nil {
		return err
	}
	if formatTypeOf(resolvedElem.Format) == FormatOpaque {
		return nil
	}

	itemType, err := d.dict.TypeAt(item.Type)
	if err != nil {
		return err
	}
	if d.dict.IsSubtype(itemType, elementTypeIdx) {
		return nil
	}

	if !d.strict {
		if d.logger != nil {
			d.logger.Warnf("pointer type mismatch tolerated: item %d type %q expected subtype of %q",
				ordinal, itemType.Name, elemType.Name)
		}
		return nil
	}
	return fmt.Errorf("%w: item %d type %q not a subtype of %q", ErrPointerTypeMismatch, ordinal, itemType.Name, elemType.Name)
}

// decodeInlineArray repeatedly decodes elements of the array's subtype
// starting at start until the cursor reaches start+size.
func (d *Deserializer) decodeInlineArray(r *BufferReader, resolved *Type, start int) (Value, error) {
	if !resolved.HasSizeAlign {
		return Value{}, fmt.Errorf("hkx: inline array type has no declared size")
	}
	end := start + int(resolved.Size)

	var items []Value
	for r.Tell() < end {
		val, err := d.deserializeObjectCached(r, resolved.Subtype, nil)
		if err != nil {
			return Value{}, err
		}
		items = append(items, val)
	}
	return ArrayValue(items), nil
}

// decodeRecord decodes all effective fields of t (inherited first) at
// their declared offsets relative to start. preset, when non-nil, is the
// cache-installed RecordValue to fill instead of allocating a fresh one
// (see deserializeObjectCached).
func (d *Deserializer) decodeRecord(r *BufferReader, t *Type, start int, preset *RecordValue) (Value, error) {
	fields, err := d.dict.AllFields(t)
	if err != nil {
		return Value{}, err
	}

	rv := preset
	if rv == nil {
		rv = NewRecordValue()
	}

	for _, f := range fields {
		if f.Name == "" && f.Type == 0 {
			// Placeholder field slot: kept only to preserve positional
			// count, never decoded (spec open question).
			continue
		}

		fr := r.Clone(start + int(f.Offset))
		val, err := d.deserializeObjectCached(fr, f.Type, nil)
		if errors.Is(err, ErrBadTypeIndex) || errors.Is(err, ErrUnresolvedType) {
			return Value{}, fmt.Errorf("field %q: %w: %v", f.Name, ErrUnresolvedFieldType, err)
		}
		if err != nil {
			return Value{}, fmt.Errorf("field %q: %w", f.Name, err)
		}
		rv.Set(f.Name, val)
	}

	return RecordValueOf(rv), nil
}
