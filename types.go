// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import "fmt"

// Format-type tags: the low 5 bits of a Type's Format word select the
// deserialization strategy.
const (
	FormatVoid = iota
	FormatOpaque
	FormatBool
	FormatString
	FormatInt
	FormatFloat
	FormatPointer
	FormatRecord
	FormatArray
)

// Format flag bits above the 5-bit format-type tag.
const (
	FormatFlagInlineArray = 0x20
	FormatFlagSigned      = 0x200
	FormatFlagInt8        = 0x2000
	FormatFlagInt16       = 0x4000
	FormatFlagInt32       = 0x8000
	FormatFlagInt64       = 0x10000
)

// formatTypeOf returns the low-5-bit format-type tag of a Format word.
func formatTypeOf(format uint32) uint32 {
	return format & 0x1F
}

// TemplateParam is one (name, value) slot of a Type's template argument
// list. Names beginning with 't' carry a Type reference (TypeRef);
// others carry a signed integer (IntValue).
type TemplateParam struct {
	Name     string
	IsType   bool
	TypeRef  int32
	IntValue int32
}

// Field is one member of a record type: its declared name, bit flags, the
// byte offset within the owning record, and its type.
type Field struct {
	Name   string
	Flags  uint16
	Offset uint16
	Type   int32 // index into Dictionary.Types; 0 means unresolved/placeholder
}

// Interface is one (type, name) entry of a Type's interfaces list.
type Interface struct {
	Type int32
	Name string
}

// Opt bits control which optional payloads a TBDY body record carries.
// The bit-position -> mask remap table from spec.md's TBDY grammar.
const (
	OptFormat     = 0x1
	OptSubtype    = 0x2
	OptVersion    = 0x10
	OptSizeAlign  = 0x800000
	OptFlags      = 0x1000000
	OptFields     = 0x4000000
	OptInterfaces = 0x20000
	OptAttribute  = 0x10000000
)

// optBitToMask maps the bit index read from the TBDY opts varint (bit i) to
// the Opt mask it sets. The ordering is part of the wire format.
var optBitToMask = [8]uint32{
	OptFormat, OptSubtype, OptVersion, OptSizeAlign,
	OptFlags, OptFields, OptInterfaces, OptAttribute,
}

// remapOpts expands the raw opts varint into the fixed bit layout above.
func remapOpts(raw uint32) uint32 {
	var opts uint32
	for i, mask := range optBitToMask {
		if raw&(1<<uint(i)) != 0 {
			opts |= mask
		}
	}
	return opts
}

// Type is one record of the reconstructed type dictionary. All fields
// besides Name and Template are optional; Opts records which of the
// body-payload slots were actually present on the wire.
type Type struct {
	Name     string
	Template []TemplateParam

	Parent int32 // index into Dictionary.Types; 0 means no parent
	Opts   uint32

	HasFormat bool
	Format    uint32

	HasSubtype bool
	Subtype    int32

	HasVersion bool
	Version    int32

	HasSizeAlign bool
	Size         uint32
	Align        uint32

	HasFlags bool
	Flags    uint16

	Fields     []Field
	Interfaces []Interface

	HasAttribute bool
	Attribute    int32
}

// Dictionary is the full, immutable-after-construction vector of Type
// records built from a file's TYPE section. Index 0 is always the reserved
// null slot; valid references are >= 1.
type Dictionary struct {
	Types []Type // Types[0] is the null sentinel
}

// TypeAt returns the type at index idx, or an error if idx is out of
// range. idx == 0 is a valid lookup of the null sentinel.
func (d *Dictionary) TypeAt(idx int32) (*Type, error) {
	if idx < 0 || int(idx) >= len(d.Types) {
		return nil, fmt.Errorf("%w: %d", ErrBadTypeIndex, idx)
	}
	return &d.Types[idx], nil
}

// Resolve walks t's parent chain until a Type with a Format is found
// (including t itself) and returns that ancestor. Typedef-style aliases
// (e.g. hkInt32) are expressed as a chain whose tail carries the real
// Format; Resolve is what exposes that real format-type to the
// deserializer.
func (d *Dictionary) Resolve(t *Type) (*Type, error) {
	cur := t
	for {
		if cur.HasFormat {
			return cur, nil
		}
		if cur.Parent == 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnresolvedType, t.Name)
		}
		parent, err := d.TypeAt(cur.Parent)
		if err != nil {
			return nil, err
		}
		cur = parent
	}
}

// AllFields returns the effective field list of t: the concatenation of
// its ancestors' fields, from the topmost ancestor down, followed by t's
// own fields. Field offsets are left untouched; the format never relocates
// inherited fields.
func (d *Dictionary) AllFields(t *Type) ([]Field, error) {
	var chain []*Type
	for cur := t; ; {
		chain = append(chain, cur)
		if cur.Parent == 0 {
			break
		}
		parent, err := d.TypeAt(cur.Parent)
		if err != nil {
			return nil, err
		}
		cur = parent
	}

	var fields []Field
	for i := len(chain) - 1; i >= 0; i-- {
		fields = append(fields, chain[i].Fields...)
	}
	return fields, nil
}

// IsSubtype reports whether t is equal to, or a transitive subclass (via
// Parent) of, ancestor.
func (d *Dictionary) IsSubtype(t *Type, ancestorIdx int32) bool {
	for cur := t; ; {
		idx := d.indexOf(cur)
		if idx == ancestorIdx {
			return true
		}
		if cur.Parent == 0 {
			return false
		}
		parent, err := d.TypeAt(cur.Parent)
		if err != nil {
			return false
		}
		cur = parent
	}
}

// indexOf returns the index of t within d.Types by pointer identity.
func (d *Dictionary) indexOf(t *Type) int32 {
	for i := range d.Types {
		if &d.Types[i] == t {
			return int32(i)
		}
	}
	return -1
}

// RenderName is a diagnostic helper rendering a Type's full templated name:
// "T*" -> "<elem>*", "T[N]" -> "<elem>[N]", otherwise
// "name<p1, p2, ...>" with each parameter rendered as its referenced type's
// name or its integer value.
func (d *Dictionary) RenderName(t *Type) string {
	switch t.Name {
	case "T*":
		if len(t.Template) == 1 && t.Template[0].IsType {
			return d.renderParamType(t.Template[0]) + "*"
		}
	case "T[N]":
		if len(t.Template) == 2 && t.Template[0].IsType && !t.Template[1].IsType {
			return fmt.Sprintf("%s[%d]", d.renderParamType(t.Template[0]), t.Template[1].IntValue)
		}
	}

	if len(t.Template) == 0 {
		return t.Name
	}

	out := t.Name + "<"
	for i, p := range t.Template {
		if i > 0 {
			out += ", "
		}
		if p.IsType {
			out += d.renderParamType(p)
		} else {
			out += fmt.Sprintf("%d", p.IntValue)
		}
	}
	return out + ">"
}

func (d *Dictionary) renderParamType(p TemplateParam) string {
	referenced, err := d.TypeAt(p.TypeRef)
	if err != nil {
		return fmt.Sprintf("?%d", p.TypeRef)
	}
	return d.RenderName(referenced)
}
