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

package qwire

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
)

func TestReadHeaderMalformedEndian(t *testing.T) {
	b := []byte{2, 0, 0, 0, 8, 0, 0, 0}
	_, err := ReadHeader(NewSliceSource(b))
	if _, ok := err.(*MalformedHeaderError); !ok {
		t.Fatalf("got %v (%T), want *MalformedHeaderError", err, err)
	}
}

func TestReadHeaderTooSmall(t *testing.T) {
	b := []byte{1, 1, 0, 0, 4, 0, 0, 0}
	_, err := ReadHeader(NewSliceSource(b))
	if _, ok := err.(*MalformedHeaderError); !ok {
		t.Fatalf("got %v (%T), want *MalformedHeaderError", err, err)
	}
}

// compressLiterals packs data into a compressed body using only literal
// control bits (every byte emitted verbatim), which any conformant
// decompressor must expand back to data regardless of its back-reference
// handling.
func compressLiterals(data []byte) []byte {
	var out []byte
	for len(data) > 0 {
		n := 8
		if len(data) < n {
			n = len(data)
		}
		out = append(out, 0)
		out = append(out, data[:n]...)
		data = data[n:]
	}
	return out
}

func TestReadCompressedSymbolVectorMatchesBuffered(t *testing.T) {
	var uncompressed frameBuilder
	uncompressed.i8(int8(SymbolType))
	uncompressed.u8(byte(AttrNone))
	uncompressed.i32(1000)
	for i := 0; i < 1000; i++ {
		uncompressed.cstring("q")
	}
	body := uncompressed.buf.Bytes()
	compressedBody := compressLiterals(body)

	var out bytes.Buffer
	out.WriteByte(1) // little-endian
	out.WriteByte(byte(Sync))
	out.WriteByte(1) // compressed
	out.WriteByte(0)
	totalSize := uint32(8 + 4 + len(compressedBody))
	binary.Write(&out, binary.LittleEndian, totalSize)
	binary.Write(&out, binary.LittleEndian, uint32(8+len(body))) // uncompressed length
	out.Write(compressedBody)
	frame := out.Bytes()

	bufMsg, err := Read(NewSliceSource(frame), ReadOptions{})
	if err != nil {
		t.Fatalf("buffer source: %v", err)
	}
	streamMsg, err := Read(NewStreamSource(bytes.NewReader(frame)), ReadOptions{})
	if err != nil {
		t.Fatalf("stream source: %v", err)
	}

	bufSyms := bufMsg.Data.Symbols()
	streamSyms := streamMsg.Data.Symbols()
	if len(bufSyms) != 1000 || len(streamSyms) != 1000 {
		t.Fatalf("len = %d / %d", len(bufSyms), len(streamSyms))
	}
	for i := 0; i < 1000; i++ {
		if bufSyms[i] != "q" || streamSyms[i] != "q" {
			t.Fatalf("symbol[%d] = %q / %q", i, bufSyms[i], streamSyms[i])
		}
	}
}

// TestReadHeaderCleanEOF checks that exhausting a source exactly at a
// frame boundary is reported as io.EOF, not wrapped into a
// *TruncatedPayloadError, so callers reading a sequence of frames can
// tell a normal end of stream from a corrupt one.
func TestReadHeaderCleanEOF(t *testing.T) {
	_, err := ReadHeader(NewSliceSource(nil))
	if err != io.EOF {
		t.Fatalf("got %v, want io.EOF", err)
	}
}

// TestReadHeaderTruncatedMidHeader checks that a source exhausted partway
// through the header (not at a clean boundary) is still reported as a
// truncated payload rather than io.EOF.
func TestReadHeaderTruncatedMidHeader(t *testing.T) {
	_, err := ReadHeader(NewSliceSource([]byte{1, 0, 0}))
	if _, ok := err.(*TruncatedPayloadError); !ok {
		t.Fatalf("got %v (%T), want *TruncatedPayloadError", err, err)
	}
}

// TestReaderStopsCleanlyAtEndOfStream exercises the same sequential-read
// pattern cmd/qdump uses: read frames until the source is exhausted, and
// confirm the terminating error is exactly io.EOF.
func TestReaderStopsCleanlyAtEndOfStream(t *testing.T) {
	var f frameBuilder
	f.i8(-7)
	f.i64(42)
	frame := f.frame(Sync)

	r := NewReader(NewStreamSource(bytes.NewReader(frame)), ReadOptions{})
	if _, err := r.Read(); err != nil {
		t.Fatalf("first frame: %v", err)
	}
	if _, err := r.Read(); err != io.EOF {
		t.Fatalf("got %v, want io.EOF at end of stream", err)
	}
}

func TestReadRawOptionSkipsDecoding(t *testing.T) {
	var f frameBuilder
	f.i8(-7)
	f.i64(42)
	msg := mustRead(t, f.frame(Sync), ReadOptions{Raw: true})
	if len(msg.Raw) != 9 {
		t.Fatalf("raw len = %d", len(msg.Raw))
	}
}
