// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import (
	"encoding/binary"
	"fmt"
)

// DecodeVarint peeks the varint at the reader's current position and
// returns its encoded byte length and decoded value, without advancing the
// cursor. The encoding is big-endian framed, nine bytes at most, with all
// value bit-ranges given in PowerPC (MSB = bit 0) numbering over the same
// eight-byte window. The top five bits of the first byte select the mode.
func DecodeVarint(r *BufferReader) (size int, value uint64, err error) {
	window := r.ReadUint64(binary.BigEndian, true, 0)
	msb := ReverseExtract64(window, 0, 7)
	mode := msb >> 3

	switch {
	case mode <= 15:
		return 1, msb, nil
	case mode <= 23:
		return 2, ReverseExtract64(window, 2, 15), nil
	case mode <= 27:
		return 3, ReverseExtract64(window, 3, 23), nil
	case mode == 28:
		return 4, ReverseExtract64(window, 5, 31), nil
	case mode == 29:
		return 5, ReverseExtract64(window, 5, 39), nil
	case mode == 30:
		return 8, ReverseExtract64(window, 5, 63), nil
	case mode == 31 && msb&7 == 0:
		return 6, ReverseExtract64(window, 8, 47), nil
	case mode == 31 && msb&7 == 1:
		return 9, r.ReadUint64(binary.BigEndian, true, 1), nil
	}

	return 0, 0, fmt.Errorf("%w: mode byte %#02x", ErrBadVarintMode, msb)
}

// ReadVarint decodes the varint at the cursor, advances past it, and
// returns its value. If maxBits is non-negative, any set bit at or above
// that width is a hard error (used to tag varints as u16, s32, or u32).
func ReadVarint(r *BufferReader, maxBits int) (uint64, error) {
	size, value, err := DecodeVarint(r)
	if err != nil {
		return 0, err
	}
	r.Skip(size)

	if maxBits >= 0 && value>>uint(maxBits) != 0 {
		return 0, fmt.Errorf("%w: value %#x exceeds %d bits", ErrVarintOverflow, value, maxBits)
	}
	return value, nil
}

// ReadVarintU16 reads a varint guarded to 16 bits.
func ReadVarintU16(r *BufferReader) (uint16, error) {
	v, err := ReadVarint(r, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

// ReadVarintS32 reads a varint guarded to 31 value bits, returned as a
// signed 32-bit integer (the sign bit itself is carried inside those 31
// bits by the encoder, matching the reference implementation).
func ReadVarintS32(r *BufferReader) (int32, error) {
	v, err := ReadVarint(r, 31)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// ReadVarintU32 reads a varint guarded to 32 bits.
func ReadVarintU32(r *BufferReader) (uint32, error) {
	v, err := ReadVarint(r, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
