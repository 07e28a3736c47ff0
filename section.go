// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import (
	"encoding/binary"
	"fmt"
)

// sectionHeaderSize is the fixed width of a section header: a 4-byte
// big-endian size-and-flags word followed by a 4-byte ASCII tag.
const sectionHeaderSize = 8

// Section is a decoded `[size|flags|tag]` framing header. flags occupy the
// top 2 bits of the big-endian size word and are preserved but never
// interpreted, per the format's own design.
type Section struct {
	Tag      string
	Flags    uint8
	Size     uint32
	DataSize uint32
}

// ReadSection decodes the next section header from r without interpreting
// its payload.
func ReadSection(r *BufferReader) (Section, error) {
	if r.Tell()+sectionHeaderSize > r.Len() {
		return Section{}, ErrSectionTruncated
	}

	sizeAndFlags := r.ReadUint32(binary.BigEndian, false, 0)
	tag := r.Read(4, false, 0)

	flags := uint8(sizeAndFlags >> 30)
	size := sizeAndFlags & ((1 << 30) - 1)
	if size < sectionHeaderSize {
		return Section{}, fmt.Errorf("%w: section %q declares size %d smaller than header",
			ErrSectionTruncated, tag, size)
	}

	return Section{
		Tag:      string(tag),
		Flags:    flags,
		Size:     size,
		DataSize: size - sectionHeaderSize,
	}, nil
}

// SectionHandler processes one section's payload, given a reader bounded to
// exactly that section's data_size. Handlers that contain nested sections
// are responsible for recursing via ReadSections themselves.
type SectionHandler func(payload *BufferReader) error

// ReadSections repeatedly reads a section header from r and either
// dispatches to the handler registered for its tag (passing a sub-reader
// limited to the section's data_size) or skips the payload. No particular
// tag ordering is assumed; callers that require it (the TYPE section's
// TSTR -> TNA1 -> FSTR -> TBDY nesting) enforce it in their own handlers.
func ReadSections(r *BufferReader, handlers map[string]SectionHandler) error {
	for !r.EOF() {
		header, err := ReadSection(r)
		if err != nil {
			return err
		}

		start := r.Tell()
		if start+int(header.DataSize) > r.Len() {
			return fmt.Errorf("%w: section %q payload runs past buffer end",
				ErrSectionTruncated, header.Tag)
		}

		payload := NewBufferReader(r.Read(int(header.DataSize), false, 0))

		if handler, ok := handlers[header.Tag]; ok {
			if err := handler(payload); err != nil {
				return fmt.Errorf("section %q: %w", header.Tag, err)
			}
		}
	}
	return nil
}
