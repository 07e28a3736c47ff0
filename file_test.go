// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import (
	"errors"
	"testing"
)

// buildMinimalTag0 assembles a complete TAG0 container declaring one empty
// record type ("Foo", size 0, align 1) and two items: wire index 0 is the
// conventional null item (type_id == 0), wire index 1 is item #1, the
// documented root, of type "Foo".
func buildMinimalTag0() []byte {
	tstr := []byte("Foo\x00")
	tna1 := []byte{0x02, 0x00, 0x00}
	fstr := []byte{}
	tbdy := []byte{0x01, 0x00, 0x09, 0x07, 0x00, 0x01, 0x00}

	var typeSec []byte
	typeSec = append(typeSec, section("TSTR", tstr)...)
	typeSec = append(typeSec, section("TNA1", tna1)...)
	typeSec = append(typeSec, section("FSTR", fstr)...)
	typeSec = append(typeSec, section("TBDY", tbdy)...)

	item := []byte{
		0x00, 0x00, 0x00, 0x00, // type=0, flags=0 (null item, wire index 0)
		0x00, 0x00, 0x00, 0x00, // offset=0
		0x00, 0x00, 0x00, 0x00, // count=0

		0x01, 0x00, 0x00, 0x00, // type=1, flags=0 (wire index 1, item #1)
		0x00, 0x00, 0x00, 0x00, // offset=0
		0x00, 0x00, 0x00, 0x00, // count=0
	}
	indx := section("ITEM", item)

	sdkv := []byte("20160100")

	var tag0Payload []byte
	tag0Payload = append(tag0Payload, section("SDKV", sdkv)...)
	tag0Payload = append(tag0Payload, section("INDX", indx)...)
	tag0Payload = append(tag0Payload, section("TYPE", typeSec)...)
	tag0Payload = append(tag0Payload, section("DATA", nil)...)

	return section("TAG0", tag0Payload)
}

func TestNewBytesParsesMinimalFile(t *testing.T) {
	f, err := NewBytes(buildMinimalTag0(), nil)
	if err != nil {
		t.Fatalf("NewBytes: %v", err)
	}
	if f.Version != "20160100" {
		t.Fatalf("Version = %q, want 20160100", f.Version)
	}
	if len(f.Dictionary.Types) != 2 {
		t.Fatalf("len(Types) = %d, want 2", len(f.Dictionary.Types))
	}
	if len(f.Items.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(f.Items.Items))
	}

	v, err := f.Deserialize(1)
	if err != nil {
		t.Fatalf("Deserialize(1): %v", err)
	}
	if v.Kind != KindRecord || v.Record.Len() != 0 {
		t.Fatalf("Deserialize(1) = %+v, want empty record", v)
	}
}

func TestNewBytesRejectsTooSmall(t *testing.T) {
	if _, err := NewBytes([]byte{0, 1}, nil); err == nil {
		t.Fatalf("expected ErrFileTooSmall")
	}
}

func TestNewBytesRejectsTooManyItems(t *testing.T) {
	_, err := NewBytes(buildMinimalTag0(), &Options{MaxItems: 1})
	if !errors.Is(err, ErrTooManyItems) {
		t.Fatalf("NewBytes error = %v, want ErrTooManyItems", err)
	}
}

func TestNewBytesRejectsTooManyTypes(t *testing.T) {
	_, err := NewBytes(buildMinimalTag0(), &Options{MaxTypes: 1})
	if !errors.Is(err, ErrTooManyTypes) {
		t.Fatalf("NewBytes error = %v, want ErrTooManyTypes", err)
	}
}

func TestFileDigestIsStable(t *testing.T) {
	data := buildMinimalTag0()
	f, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes: %v", err)
	}
	if f.Digest() != f.Digest() {
		t.Fatalf("Digest() not stable across calls")
	}
}
