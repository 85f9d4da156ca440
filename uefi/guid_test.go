// Copyright (c) The go-efi authors. All Rights Reserved.
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package uefi

import (
	"bytes"
	"testing"
)

func TestParseGUID(t *testing.T) {
	g, err := ParseGUID("8be4df61-93ca-11d2-aa0d-00e098032b8c")

	if err != nil {
		t.Fatal(err)
	}

	// first three fields little-endian, the rest verbatim
	expected := []byte{
		0x61, 0xdf, 0xe4, 0x8b,
		0xca, 0x93,
		0xd2, 0x11,
		0xaa, 0x0d, 0x00, 0xe0, 0x98, 0x03, 0x2b, 0x8c,
	}

	if !bytes.Equal(g[:], expected) {
		t.Errorf("unexpected byte layout %x", g[:])
	}
}

func TestGUIDRoundTrip(t *testing.T) {
	s := "9042a9de-23dc-4a38-96fb-7aded080516a"

	g, err := ParseGUID(s)

	if err != nil {
		t.Fatal(err)
	}

	if out := g.String(); out != s {
		t.Errorf("expected %q, got %q", s, out)
	}
}

func TestGUIDEquality(t *testing.T) {
	a := MustParseGUID("eb9d2d30-2d88-11d3-9a16-0090273fc14d")
	b := MustParseGUID("eb9d2d30-2d88-11d3-9a16-0090273fc14d")
	c := MustParseGUID("eb9d2d31-2d88-11d3-9a16-0090273fc14d")

	if a != b {
		t.Errorf("identical GUIDs must compare equal")
	}

	if a == c {
		t.Errorf("distinct GUIDs must not compare equal")
	}
}

func TestParseGUIDInvalid(t *testing.T) {
	for _, s := range []string{
		"",
		"8be4df61",
		"8be4df61-93ca-11d2-aa0d-00e098032b8",
		"8be4df61-93ca-11d2-aa0d-00e098032b8cc",
		"8be4df61_93ca_11d2_aa0d_00e098032b8c",
		"zze4df61-93ca-11d2-aa0d-00e098032b8c",
	} {
		if _, err := ParseGUID(s); err == nil {
			t.Errorf("%q must not parse", s)
		}
	}
}
