// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import "errors"

// Errors returned by the parser. All of them are fatal for the whole parse;
// there is no local recovery or retry, and partial results are never
// returned.
var (
	// ErrFileTooSmall is returned when the input is too short to possibly
	// contain a single section header. It is also returned when the input
	// holds no TAG0 section.
	ErrFileTooSmall = errors.New("hkx: input smaller than a section header")

	// ErrSectionTruncated is returned when a section's declared size runs
	// past the end of its enclosing buffer.
	ErrSectionTruncated = errors.New("hkx: section data runs past end of buffer")

	// ErrBadVarintMode is returned when a varint's mode byte has
	// mode == 31 and the low three bits are neither 0 nor 1.
	ErrBadVarintMode = errors.New("hkx: bad varint encoding mode")

	// ErrVarintOverflow is returned when a decoded varint has set bits
	// beyond the caller-declared width guard.
	ErrVarintOverflow = errors.New("hkx: varint value exceeds declared width")

	// ErrDuplicateSection is returned when TSTR, TNA1, or FSTR appears
	// twice within the same file.
	ErrDuplicateSection = errors.New("hkx: duplicate required section")

	// ErrMissingFormat is returned when a type body sets the SUBTYPE
	// optional flag without FORMAT present and non-zero.
	ErrMissingFormat = errors.New("hkx: SUBTYPE set without a non-zero FORMAT")

	// ErrUnresolvedType is returned when Resolve walks a type's parent
	// chain to its end without finding a non-null format.
	ErrUnresolvedType = errors.New("hkx: type has no resolvable format")

	// ErrUnknownFormatType is returned when the deserializer encounters a
	// format-type nibble it does not know how to decode (including VOID
	// and OPAQUE, which are never directly instantiable).
	ErrUnknownFormatType = errors.New("hkx: unknown or non-decodable format type")

	// ErrUnresolvedFieldType is returned when a record field's declared
	// type ordinal is out of range or has no resolvable format. The
	// underlying ErrBadTypeIndex or ErrUnresolvedType appears in the error
	// message but is not wrapped: errors.Is matches only this sentinel.
	ErrUnresolvedFieldType = errors.New("hkx: record field has unresolved type")

	// ErrPointerTypeMismatch is returned when a pointer or array item's
	// type is neither the expected element type, a subtype of it, nor
	// OPAQUE-compatible.
	ErrPointerTypeMismatch = errors.New("hkx: pointer target type mismatch")

	// ErrBadTypeIndex is returned when a type-ordinal reference (template
	// parameter, parent, subtype, field type) is out of range.
	ErrBadTypeIndex = errors.New("hkx: type index out of range")

	// ErrBadItemIndex is returned when an item ordinal referenced by a
	// pointer is out of range.
	ErrBadItemIndex = errors.New("hkx: item index out of range")

	// ErrUnreachableIntWidth is returned when an INT-format type sets none
	// of the INT8/INT16/INT32/INT64 flag bits.
	ErrUnreachableIntWidth = errors.New("hkx: integer type has no width flag set")

	// ErrNotArrayItem is returned when a STRING-format pointer resolves to
	// an item that is not flagged as an array (strings are stored as byte
	// arrays in the item table).
	ErrNotArrayItem = errors.New("hkx: string pointer target is not an array item")

	// ErrTooManyTypes is returned when a TNA1 section declares a type
	// count beyond Options.MaxTypes.
	ErrTooManyTypes = errors.New("hkx: TNA1 type count exceeds configured limit")

	// ErrTooManyItems is returned when an INDX/ITEM section holds more
	// records than Options.MaxItems.
	ErrTooManyItems = errors.New("hkx: item table size exceeds configured limit")
)

// alignUp rounds offset up to the next multiple of align. align must be a
// power of two; align == 0 is treated as "no alignment" and returns offset
// unchanged.
func alignUp(offset int, align uint32) int {
	if align == 0 {
		return offset
	}
	a := int(align)
	return (offset + a - 1) &^ (a - 1)
}
