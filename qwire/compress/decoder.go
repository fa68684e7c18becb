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

// Package compress implements the q/kdb+ IPC wire compression scheme: a
// byte-literal / back-reference LZ variant with a one-byte control word
// every eight operations and a 256-entry direct-mapped hash table of
// prior output positions.
package compress

import "fmt"

// errorCode enumerates the ways a compressed stream can fail to produce
// its advertised uncompressed length.
type errorCode int

const (
	errNone errorCode = iota
	errShortInput
	errBadBackref
	errLengthMismatch
)

func (e errorCode) String() string {
	switch e {
	case errShortInput:
		return "compressed stream ended before producing the expected output length"
	case errBadBackref:
		return "back-reference points outside the decompressed output so far"
	case errLengthMismatch:
		return "decompressed output length did not match the advertised length"
	default:
		return "no error"
	}
}

// Error wraps an errorCode with the byte offsets where it was detected.
type Error struct {
	Code   errorCode
	Offset int
}

func (e *Error) Error() string {
	return fmt.Sprintf("compress: %s (at output offset %d)", e.Code, e.Offset)
}

// Decoder holds the scratch state for one decompression: the hash table
// of prior output positions. It is not safe for concurrent use, and a
// single Decoder is meant to be acquired for the duration of one frame
// and reset before being reused for the next, avoiding a fresh 256-entry
// allocation per frame.
type Decoder struct {
	hash [256]int32
}

// NewDecoder returns a ready-to-use Decoder.
func NewDecoder() *Decoder {
	d := &Decoder{}
	d.reset()
	return d
}

func (d *Decoder) reset() {
	for i := range d.hash {
		d.hash[i] = -1
	}
}

// hashPair computes the reference implementation's 8-bit hash of two
// adjacent output bytes.
func hashPair(a, b byte) byte {
	return 0xFF & (a ^ (b << 1))
}

// Decompress expands src into exactly want bytes using a throwaway
// Decoder. It is a convenience wrapper around (*Decoder).Decompress for
// callers that don't need to amortize the hash table across frames.
func Decompress(src []byte, want int) ([]byte, error) {
	return NewDecoder().Decompress(src, want)
}

// Decompress expands src, a q IPC compressed byte stream, into exactly
// want bytes. It returns a *Error if the stream is exhausted early, a
// back-reference is out of range, or the produced length doesn't match
// want.
func (d *Decoder) Decompress(src []byte, want int) ([]byte, error) {
	d.reset()
	if want < 0 {
		return nil, &Error{Code: errLengthMismatch, Offset: 0}
	}
	out := make([]byte, 0, want)
	si := 0 // read cursor into src

	readByte := func() (byte, bool) {
		if si >= len(src) {
			return 0, false
		}
		b := src[si]
		si++
		return b, true
	}

	var ctrl byte
	var ctrlBits int // number of unconsumed bits left in ctrl

	for len(out) < want {
		if ctrlBits == 0 {
			b, ok := readByte()
			if !ok {
				return nil, &Error{Code: errShortInput, Offset: len(out)}
			}
			ctrl = b
			ctrlBits = 8
		}
		literal := ctrl&1 == 0
		ctrl >>= 1
		ctrlBits--

		if literal {
			b, ok := readByte()
			if !ok {
				return nil, &Error{Code: errShortInput, Offset: len(out)}
			}
			out = append(out, b)
		} else {
			r, ok := readByte()
			if !ok {
				return nil, &Error{Code: errShortInput, Offset: len(out)}
			}
			p := d.hash[r]
			n, ok := readByte()
			if !ok {
				return nil, &Error{Code: errShortInput, Offset: len(out)}
			}
			copyLen := int(n) + 2
			if p < 0 {
				return nil, &Error{Code: errBadBackref, Offset: len(out)}
			}
			// the back-reference may extend past the current end of
			// out, re-reading bytes the loop itself just appended, so
			// copy byte by byte rather than with copy().
			for k := 0; k < copyLen; k++ {
				idx := int(p) + k
				if idx >= len(out) {
					return nil, &Error{Code: errBadBackref, Offset: len(out)}
				}
				out = append(out, out[idx])
			}
		}

		if len(out) >= 2 {
			h := hashPair(out[len(out)-2], out[len(out)-1])
			d.hash[h] = int32(len(out) - 2)
		}
	}

	if len(out) != want {
		return nil, &Error{Code: errLengthMismatch, Offset: len(out)}
	}
	return out, nil
}
