// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import (
	"bytes"
	"encoding/binary"
	"math"
)

// BufferReader is a positioned, random-access cursor over an immutable byte
// slice. Reads that run past the end of the slice are tolerated: the
// decoded region is zero-padded rather than rejected. This is a documented
// property of the reader (not a workaround) and is required by the varint
// decoder, which always requests eight bytes but may legally consume only
// one near the end of a section.
type BufferReader struct {
	data   []byte
	offset int
}

// NewBufferReader wraps data for positioned reads starting at offset 0.
func NewBufferReader(data []byte) *BufferReader {
	return &BufferReader{data: data}
}

// EOF reports whether the cursor has reached or passed the end of data.
func (r *BufferReader) EOF() bool {
	return r.offset >= len(r.data)
}

// Tell returns the current absolute cursor position.
func (r *BufferReader) Tell() int {
	return r.offset
}

// Len returns the total length of the underlying buffer.
func (r *BufferReader) Len() int {
	return len(r.data)
}

// Seek repositions the cursor to an absolute offset.
func (r *BufferReader) Seek(absolute int) {
	r.offset = absolute
}

// Skip advances the cursor by n bytes.
func (r *BufferReader) Skip(n int) {
	r.offset += n
}

// Clone returns a new BufferReader over the same backing data, positioned
// at the given absolute offset. The clone shares no mutable state with r.
func (r *BufferReader) Clone(offset int) *BufferReader {
	return &BufferReader{data: r.data, offset: offset}
}

// Read returns count bytes starting at the cursor plus offset. peek leaves
// the cursor untouched; otherwise the cursor advances to the end of the
// read region (count bytes plus the offset displacement). Bytes beyond the
// end of the buffer are zero-filled rather than causing an error.
func (r *BufferReader) Read(count int, peek bool, offset int) []byte {
	start := r.offset + offset
	out := make([]byte, count)

	// Nothing in range: stays fully zeroed.
	if start < len(r.data) && start+count > 0 {
		lo, hi := start, start+count
		dstLo := 0
		if lo < 0 {
			dstLo = -lo
			lo = 0
		}
		if hi > len(r.data) {
			hi = len(r.data)
		}
		if hi > lo {
			copy(out[dstLo:], r.data[lo:hi])
		}
	}

	if !peek {
		r.offset = start + count
	}
	return out
}

// Unpack decodes a fixed-width struct at the given endianness from the
// current cursor position (displaced by offset), the way the reference
// implementation's Unpack(format, peek, offset) does over a Python struct
// format string. v must be a pointer to a fixed-size value (uintN, or a
// struct of such fields).
func (r *BufferReader) Unpack(v any, order binary.ByteOrder, peek bool, offset int) error {
	size := binary.Size(v)
	buf := r.Read(size, peek, offset)
	return binary.Read(bytes.NewReader(buf), order, v)
}

// ReadUint8 reads a single byte at the cursor plus offset.
func (r *BufferReader) ReadUint8(peek bool, offset int) uint8 {
	return r.Read(1, peek, offset)[0]
}

// ReadUint16 reads a 2-byte unsigned integer in the given byte order.
func (r *BufferReader) ReadUint16(order binary.ByteOrder, peek bool, offset int) uint16 {
	return order.Uint16(r.Read(2, peek, offset))
}

// ReadUint32 reads a 4-byte unsigned integer in the given byte order.
func (r *BufferReader) ReadUint32(order binary.ByteOrder, peek bool, offset int) uint32 {
	return order.Uint32(r.Read(4, peek, offset))
}

// ReadUint64 reads an 8-byte unsigned integer in the given byte order.
func (r *BufferReader) ReadUint64(order binary.ByteOrder, peek bool, offset int) uint64 {
	return order.Uint64(r.Read(8, peek, offset))
}

// ReadFloat32 reads a 4-byte IEEE-754 float in the given byte order.
func (r *BufferReader) ReadFloat32(order binary.ByteOrder, peek bool, offset int) float32 {
	bits := r.ReadUint32(order, peek, offset)
	return math.Float32frombits(bits)
}
