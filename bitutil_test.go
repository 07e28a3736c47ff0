// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import "testing"

func TestMaskExtract(t *testing.T) {
	v := uint64(0xFF)
	if got := Mask(v, 0, 3); got != 0x0F {
		t.Fatalf("Mask(0xFF, 0, 3) = %#x, want 0x0F", got)
	}
	if got := Extract(v, 4, 7); got != 0x0F {
		t.Fatalf("Extract(0xFF, 4, 7) = %#x, want 0x0F", got)
	}
}

func TestReverseExtract64(t *testing.T) {
	// S3: msb=0x8001_0000_0000_0000, reverse_extract64(_, 2, 15) = 0x0001.
	v := uint64(0x8001000000000000)
	if got := ReverseExtract64(v, 2, 15); got != 0x0001 {
		t.Fatalf("ReverseExtract64 = %#x, want 0x0001", got)
	}
}

func TestReverseMask64RoundTrip(t *testing.T) {
	v := uint64(0xABCD000000000000)
	masked := ReverseMask64(v, 0, 15)
	if ReverseExtract64(masked, 0, 15) != ReverseExtract64(v, 0, 15) {
		t.Fatalf("ReverseMask64/ReverseExtract64 round trip mismatch")
	}
}
