// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// StringTable is a pool of NUL-terminated strings read linearly from a
// section, indexed by order of appearance. TSTR (type and template-parameter
// names) and FSTR (field and interface names) are each one independent
// instance of this pool.
type StringTable struct {
	entries []string
}

// decodeStringTable reads payload to exhaustion as a concatenation of
// NUL-terminated byte strings. Each string is decoded as UTF-8 when valid;
// the format allows "implementation-defined 8-bit" encodings for payloads
// that predate UTF-8 tooling, so a string that fails UTF-8 validation is
// recovered via Latin-1 rather than rejected.
func decodeStringTable(payload *BufferReader) (*StringTable, error) {
	data := payload.Read(payload.Len()-payload.Tell(), false, 0)

	table := &StringTable{}
	start := 0
	for start < len(data) {
		end := bytes.IndexByte(data[start:], 0)
		if end < 0 {
			end = len(data) - start
		}
		table.entries = append(table.entries, decodeStringBytes(data[start:start+end]))
		start += end + 1
	}
	return table, nil
}

// decodeStringBytes decodes raw bytes as UTF-8 if valid, else as Latin-1.
func decodeStringBytes(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}

// At returns the string at the given index, or "" if out of range.
func (t *StringTable) At(index int) string {
	if index < 0 || index >= len(t.entries) {
		return ""
	}
	return t.entries[index]
}

// Len returns the number of strings in the table.
func (t *StringTable) Len() int {
	return len(t.entries)
}
