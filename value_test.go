// Copyright 2026 The hkx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license
// license that can be found in the LICENSE file.

package hkx

import (
	"encoding/json"
	"testing"
)

func TestRecordValuePreservesDeclarationOrder(t *testing.T) {
	rv := NewRecordValue()
	rv.Set("z", IntValue(1))
	rv.Set("a", IntValue(2))
	rv.Set("m", IntValue(3))

	var gotOrder []string
	rv.Range(func(name string, v Value) { gotOrder = append(gotOrder, name) })

	want := []string{"z", "a", "m"}
	for i, name := range want {
		if gotOrder[i] != name {
			t.Fatalf("Range order = %v, want %v", gotOrder, want)
		}
	}
}

func TestRecordValueSetOverwritesInPlace(t *testing.T) {
	rv := NewRecordValue()
	rv.Set("a", IntValue(1))
	rv.Set("a", IntValue(2))
	if rv.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", rv.Len())
	}
	v, ok := rv.Get("a")
	if !ok || v.Int != 2 {
		t.Fatalf("Get(a) = (%v, %v), want (2, true)", v, ok)
	}
}

func TestRecordValueMarshalJSONPreservesOrder(t *testing.T) {
	rv := NewRecordValue()
	rv.Set("b", IntValue(1))
	rv.Set("a", IntValue(2))

	buf, err := json.Marshal(rv)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(buf) != `{"b":1,"a":2}` {
		t.Fatalf("Marshal = %s, want {\"b\":1,\"a\":2}", buf)
	}
}

func TestValueMarshalJSONKinds(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null, "null"},
		{BoolValue(true), "true"},
		{IntValue(-5), "-5"},
		{UintValue(5), "5"},
		{StringValue("hi"), `"hi"`},
		{ArrayValue([]Value{IntValue(1), IntValue(2)}), "[1,2]"},
	}
	for _, c := range cases {
		got, err := json.Marshal(c.v)
		if err != nil {
			t.Fatalf("Marshal(%+v): %v", c.v, err)
		}
		if string(got) != c.want {
			t.Fatalf("Marshal(%+v) = %s, want %s", c.v, got, c.want)
		}
	}
}
