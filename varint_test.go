// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import "testing"

func TestDecodeVarintSingleByte(t *testing.T) {
	cases := []struct {
		b    byte
		want uint64
	}{
		{0x42, 0x42},
		{0x00, 0x00},
		{0x7F, 0x7F},
	}
	for _, c := range cases {
		r := NewBufferReader([]byte{c.b})
		size, value, err := DecodeVarint(r)
		if err != nil {
			t.Fatalf("DecodeVarint(%#02x): %v", c.b, err)
		}
		if size != 1 || value != c.want {
			t.Fatalf("DecodeVarint(%#02x) = (%d, %#x), want (1, %#x)", c.b, size, value, c.want)
		}
	}
}

func TestDecodeVarintTwoByte(t *testing.T) {
	r := NewBufferReader([]byte{0x80, 0x01})
	size, value, err := DecodeVarint(r)
	if err != nil {
		t.Fatalf("DecodeVarint: %v", err)
	}
	if size != 2 || value != 0x0001 {
		t.Fatalf("DecodeVarint(0x80 0x01) = (%d, %#x), want (2, 0x0001)", size, value)
	}
}

func TestReadVarintAdvancesCursor(t *testing.T) {
	r := NewBufferReader([]byte{0x42, 0xFF})
	v, err := ReadVarint(r, -1)
	if err != nil {
		t.Fatalf("ReadVarint: %v", err)
	}
	if v != 0x42 {
		t.Fatalf("ReadVarint = %#x, want 0x42", v)
	}
	if r.Tell() != 1 {
		t.Fatalf("Tell() = %d, want 1", r.Tell())
	}
}

func TestReadVarintOverflow(t *testing.T) {
	// mode 30 (8-byte) with bits above the low 4 set overflows a 4-bit guard.
	r := NewBufferReader([]byte{0xF7, 0, 0, 0, 0, 0, 0, 0xFF})
	if _, err := ReadVarint(r, 4); err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestRemapOptsS4(t *testing.T) {
	if got := remapOpts(0b00000111); got != OptFormat|OptSubtype|OptVersion {
		t.Fatalf("remapOpts(7) = %#x, want %#x", got, OptFormat|OptSubtype|OptVersion)
	}
}
