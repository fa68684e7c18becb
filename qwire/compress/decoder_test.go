// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package compress

import (
	"bytes"
	"testing"
)

// allLiterals builds a compressed stream that is nothing but literal
// bytes: every control byte has all bits clear.
func allLiterals(data []byte) []byte {
	var out []byte
	for len(data) > 0 {
		n := 8
		if len(data) < n {
			n = len(data)
		}
		out = append(out, 0) // control byte: 8 literal ops
		out = append(out, data[:n]...)
		data = data[n:]
	}
	return out
}

func TestDecompressLiteralsOnly(t *testing.T) {
	want := []byte("the quick brown fox jumps over the lazy dog")
	src := allLiterals(want)
	got, err := Decompress(src, len(want))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecompressBackreference(t *testing.T) {
	// A single control byte governs 8 ops: the first two bits select
	// literal 'a','b', the third selects a back-reference that copies
	// those two bytes again (length byte n=0 means n+2 = 2 bytes
	// copied). Decompress stops as soon as it has produced `want`
	// bytes, so the remaining five (unused) op bits in the control byte
	// are never consumed.
	var src []byte
	src = append(src, 0b100, 'a', 'b') // bits: literal, literal, backref
	h := hashPair('a', 'b')
	src = append(src, h, 0)
	got, err := Decompress(src, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte("abab")
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecompressOverlappingBackreference(t *testing.T) {
	// "aa" followed by a back-reference to itself: classic
	// run-length-via-LZ encoding of "aaaaaa", all within one control
	// byte's worth of ops.
	var src []byte
	src = append(src, 0b100, 'a', 'a') // bits: literal, literal, backref
	h := hashPair('a', 'a')
	src = append(src, h, 2) // n=2 -> copy 4 bytes starting at the hashed position
	got, err := Decompress(src, 6)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte("aaaaaa")
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecompressShortInput(t *testing.T) {
	_, err := Decompress([]byte{0, 'a'}, 4)
	if err == nil {
		t.Fatal("expected an error decompressing a truncated stream")
	}
	var cerr *Error
	if e, ok := err.(*Error); !ok || e.Code != errShortInput {
		t.Fatalf("expected errShortInput, got %v (%T)", err, cerr)
	}
}

func TestDecompressBadBackref(t *testing.T) {
	src := []byte{1, 0, 0} // back-reference before any hash entry is set
	_, err := Decompress(src, 2)
	if err == nil {
		t.Fatal("expected an error for an unset hash bucket")
	}
}
