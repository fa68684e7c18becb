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
	"encoding/binary"
	"io"

	"github.com/kdbipc/qwire/qwire/compress"
)

// Kind identifies the message kind declared in byte 1 of an IPC header.
type Kind byte

const (
	Async    Kind = 0
	Sync     Kind = 1
	Response Kind = 2
)

// Header is the 8-byte IPC frame header: endianness, message kind, the
// compression flag, and the total frame size (including the header
// itself), all interpreted per the header's own declared byte order.
type Header struct {
	Order      binary.ByteOrder
	Kind       Kind
	Compressed bool
	TotalSize  uint32
}

// BodyLength returns the number of bytes following the 8-byte header.
func (h Header) BodyLength() int { return int(h.TotalSize) - 8 }

// Message is a fully decoded IPC frame: its kind plus either its decoded
// value tree (Data) or, if the read was performed with ReadOptions.Raw,
// the undecoded body bytes (Raw).
type Message struct {
	Kind Kind
	Data Value
	Raw  []byte
}

// ReadHeader reads and validates the 8-byte IPC frame header from src. If
// src is cleanly exhausted at the frame boundary (no bytes of the header
// were available), ReadHeader returns io.EOF unwrapped so callers reading
// a sequence of frames can distinguish a normal end of stream from a
// truncated one.
func ReadHeader(src Source) (Header, error) {
	b, err := src.Fill(8)
	if err != nil {
		if err == io.EOF {
			return Header{}, io.EOF
		}
		return Header{}, wrapFillErr(err)
	}
	var order binary.ByteOrder
	switch b[0] {
	case 0:
		order = binary.BigEndian
	case 1:
		order = binary.LittleEndian
	default:
		return Header{}, badHeader("invalid endianness byte %d", b[0])
	}
	if b[1] > 2 {
		return Header{}, badHeader("invalid message kind %d", b[1])
	}
	if b[2] > 1 {
		return Header{}, badHeader("invalid compression flag %d", b[2])
	}
	size := order.Uint32(b[4:8])
	if size < 8 {
		return Header{}, badHeader("total size %d smaller than header", size)
	}
	return Header{
		Order:      order,
		Kind:       Kind(b[1]),
		Compressed: b[2] == 1,
		TotalSize:  size,
	}, nil
}

func wrapFillErr(err error) error {
	if _, ok := err.(*SourceError); ok {
		return err
	}
	return toosmall("%s", err.Error())
}

// ReadData reads the frame body following a header already produced by
// ReadHeader, decompressing it first if hdr.Compressed is set, and either
// returns the raw body bytes (opts.Raw) or decodes a full value tree.
func ReadData(src Source, hdr Header, opts ReadOptions) (Message, error) {
	body, err := src.Fill(hdr.BodyLength())
	if err != nil {
		return Message{}, wrapFillErr(err)
	}

	if hdr.Compressed {
		if len(body) < 4 {
			return Message{}, toosmall("compressed body missing uncompressed-length prefix")
		}
		uncompressedLen := int(hdr.Order.Uint32(body[:4]))
		want := uncompressedLen - 8
		if want < 0 {
			return Message{}, badCompress("advertised uncompressed length %d smaller than header", uncompressedLen)
		}
		body, err = compress.Decompress(body[4:], want)
		if err != nil {
			return Message{}, badCompress("%s", err.Error())
		}
	}

	if opts.Raw {
		raw := make([]byte, len(body))
		copy(raw, body)
		return Message{Kind: hdr.Kind, Raw: raw}, nil
	}

	c := newCursor(body, hdr.Order)
	dec := &valueDecoder{c: c, opts: opts}
	val, err := dec.decodeValue()
	if err != nil {
		return Message{}, err
	}
	return Message{Kind: hdr.Kind, Data: val}, nil
}

// Read reads one complete IPC frame from src: its header followed by its
// body, decompressing and decoding as ReadData does.
func Read(src Source, opts ReadOptions) (Message, error) {
	hdr, err := ReadHeader(src)
	if err != nil {
		return Message{}, err
	}
	return ReadData(src, hdr, opts)
}

// Reader decodes a sequence of IPC frames off a single Source, applying
// the same ReadOptions to each. Unlike the stateless Read/ReadHeader
// functions, a Reader is meant to be held for the lifetime of a
// connection and called once per incoming frame.
type Reader struct {
	src  Source
	opts ReadOptions
}

// NewReader returns a Reader that decodes frames from src using opts.
func NewReader(src Source, opts ReadOptions) *Reader {
	return &Reader{src: src, opts: opts}
}

// Read decodes the next frame from the underlying Source.
func (r *Reader) Read() (Message, error) {
	return Read(r.src, r.opts)
}
