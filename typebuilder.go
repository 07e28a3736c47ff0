// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import "fmt"

// dictionaryBuilder accumulates the TSTR/TNA1/FSTR/TBDY sections nested
// under a file's TYPE section into a Dictionary. TSTR, TNA1 and FSTR must
// each appear at most once; TNA1 depends on TSTR already being populated
// (type and template parameter names), and TBDY depends on TNA1 (the
// allocated type slots) and FSTR (field/interface names) already being
// populated. The framer's document-order walk of TYPE's children is what
// the spec relies on to guarantee this; dictionaryBuilder itself refuses
// duplicates of those three and reports an error when a section arrives
// before one it depends on.
type dictionaryBuilder struct {
	tstr     *StringTable
	fstr     *StringTable
	dict     *Dictionary
	maxTypes uint32 // 0 means unbounded
}

func newDictionaryBuilder(maxTypes uint32) *dictionaryBuilder {
	return &dictionaryBuilder{dict: &Dictionary{}, maxTypes: maxTypes}
}

// handlers returns the TSTR/TNA1/FSTR/TBDY handler set to register with
// ReadSections for the enclosing TYPE section.
func (b *dictionaryBuilder) handlers() map[string]SectionHandler {
	return map[string]SectionHandler{
		"TSTR": b.readTSTR,
		"TNA1": b.readTNA1,
		"FSTR": b.readFSTR,
		"TBDY": b.readTBDY,
	}
}

func (b *dictionaryBuilder) readTSTR(payload *BufferReader) error {
	if b.tstr != nil {
		return fmt.Errorf("%w: TSTR", ErrDuplicateSection)
	}
	table, err := decodeStringTable(payload)
	if err != nil {
		return err
	}
	b.tstr = table
	return nil
}

func (b *dictionaryBuilder) readFSTR(payload *BufferReader) error {
	if b.fstr != nil {
		return fmt.Errorf("%w: FSTR", ErrDuplicateSection)
	}
	table, err := decodeStringTable(payload)
	if err != nil {
		return err
	}
	b.fstr = table
	return nil
}

// readTNA1 builds type identities: a count N, then N-1 records assigning
// name and template parameters to slots 1..N-1. Slot 0 stays the null
// sentinel. The vector is pre-allocated up front so that template
// parameters and (in readTBDY) parent/subtype/field references may point
// at forward slots.
func (b *dictionaryBuilder) readTNA1(payload *BufferReader) error {
	if b.dict.Types != nil {
		return fmt.Errorf("%w: TNA1", ErrDuplicateSection)
	}
	if b.tstr == nil {
		return fmt.Errorf("hkx: TNA1 read before TSTR")
	}

	n, err := ReadVarintU32(payload)
	if err != nil {
		return err
	}
	if b.maxTypes != 0 && n > b.maxTypes {
		return fmt.Errorf("%w: %d", ErrTooManyTypes, n)
	}
	b.dict.Types = make([]Type, n) // Types[0]: null sentinel

	for i := uint32(1); i < n; i++ {
		nameIdx, err := ReadVarintU32(payload)
		if err != nil {
			return err
		}
		arity, err := ReadVarintU32(payload)
		if err != nil {
			return err
		}

		t := Type{Name: b.tstr.At(int(nameIdx))}
		for p := uint32(0); p < arity; p++ {
			paramNameIdx, err := ReadVarintU32(payload)
			if err != nil {
				return err
			}
			paramName := b.tstr.At(int(paramNameIdx))

			if len(paramName) > 0 && paramName[0] == 't' {
				ref, err := ReadVarintS32(payload)
				if err != nil {
					return err
				}
				t.Template = append(t.Template, TemplateParam{Name: paramName, IsType: true, TypeRef: ref})
			} else {
				val, err := ReadVarintS32(payload)
				if err != nil {
					return err
				}
				t.Template = append(t.Template, TemplateParam{Name: paramName, IsType: false, IntValue: val})
			}
		}

		b.dict.Types[i] = t
	}
	return nil
}

// readTBDY fills in the body (parent, format, size/align, fields,
// interfaces, attribute) of each type identity already allocated by
// readTNA1. Records repeat until the section is exhausted; a type ordinal
// of 0 is a terminator sentinel rather than a real body.
func (b *dictionaryBuilder) readTBDY(payload *BufferReader) error {
	if b.dict.Types == nil {
		return fmt.Errorf("hkx: TBDY read before TNA1")
	}
	if b.fstr == nil {
		return fmt.Errorf("hkx: TBDY read before FSTR")
	}

	for !payload.EOF() {
		ordinal, err := ReadVarintS32(payload)
		if err != nil {
			return err
		}
		if ordinal == 0 {
			break
		}
		if ordinal < 0 || int(ordinal) >= len(b.dict.Types) {
			return fmt.Errorf("%w: %d", ErrBadTypeIndex, ordinal)
		}

		if err := b.readTypeBody(payload, &b.dict.Types[ordinal]); err != nil {
			return fmt.Errorf("type %d: %w", ordinal, err)
		}
	}
	return nil
}

func (b *dictionaryBuilder) readTypeBody(payload *BufferReader, t *Type) error {
	parent, err := ReadVarintS32(payload)
	if err != nil {
		return err
	}
	t.Parent = parent

	rawOpts, err := ReadVarintU32(payload)
	if err != nil {
		return err
	}
	t.Opts = remapOpts(rawOpts)

	if t.Opts&OptFormat != 0 {
		format, err := ReadVarintU32(payload)
		if err != nil {
			return err
		}
		t.HasFormat = true
		t.Format = format
	}

	if t.Opts&OptSubtype != 0 {
		if !t.HasFormat || t.Format == 0 {
			return ErrMissingFormat
		}
		subtype, err := ReadVarintS32(payload)
		if err != nil {
			return err
		}
		t.HasSubtype = true
		t.Subtype = subtype
	}

	if t.Opts&OptVersion != 0 {
		version, err := ReadVarintS32(payload)
		if err != nil {
			return err
		}
		t.HasVersion = true
		t.Version = version
	}

	if t.Opts&OptSizeAlign != 0 {
		size, err := ReadVarintU32(payload)
		if err != nil {
			return err
		}
		align, err := ReadVarintU32(payload)
		if err != nil {
			return err
		}
		t.HasSizeAlign = true
		t.Size = size
		t.Align = align
	}

	if t.Opts&OptFlags != 0 {
		flags, err := ReadVarintU16(payload)
		if err != nil {
			return err
		}
		t.HasFlags = true
		t.Flags = flags
	}

	if t.Opts&OptFields != 0 {
		if err := b.readFields(payload, t); err != nil {
			return err
		}
	}

	if t.Opts&OptInterfaces != 0 {
		if err := b.readInterfaces(payload, t); err != nil {
			return err
		}
	}

	if t.Opts&OptAttribute != 0 {
		attribute, err := ReadVarintS32(payload)
		if err != nil {
			return err
		}
		t.HasAttribute = true
		t.Attribute = attribute
	}

	return nil
}

func (b *dictionaryBuilder) readFields(payload *BufferReader, t *Type) error {
	pair, err := ReadVarintS32(payload)
	if err != nil {
		return err
	}
	fieldCount := uint32(pair) & 0xFFFF
	placeholderCount := (uint32(pair) >> 16) & 0xFFFF

	for i := uint32(0); i < fieldCount; i++ {
		nameIdx, err := ReadVarintU16(payload)
		if err != nil {
			return err
		}
		flags, err := ReadVarintU16(payload)
		if err != nil {
			return err
		}
		offset, err := ReadVarintU16(payload)
		if err != nil {
			return err
		}
		fieldType, err := ReadVarintS32(payload)
		if err != nil {
			return err
		}

		t.Fields = append(t.Fields, Field{
			Name:   b.fstr.At(int(nameIdx)),
			Flags:  flags,
			Offset: offset,
			Type:   fieldType,
		})
	}

	// Placeholder entries are not read from the stream; they are kept only
	// to preserve positional count for downstream consumers, per spec.
	for i := uint32(0); i < placeholderCount; i++ {
		t.Fields = append(t.Fields, Field{})
	}

	return nil
}

func (b *dictionaryBuilder) readInterfaces(payload *BufferReader, t *Type) error {
	count, err := ReadVarintS32(payload)
	if err != nil {
		return err
	}

	for i := int32(0); i < count; i++ {
		typeOrdinal, err := ReadVarintS32(payload)
		if err != nil {
			return err
		}
		nameIdx, err := ReadVarintS32(payload)
		if err != nil {
			return err
		}
		t.Interfaces = append(t.Interfaces, Interface{
			Type: typeOrdinal,
			Name: b.fstr.At(int(nameIdx)),
		})
	}
	return nil
}
