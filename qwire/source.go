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
	"bufio"
	"io"
)

// Source is the byte-level abstraction a Reader pulls frames from. It is
// deliberately minimal: a single method that hands back the next n bytes
// and advances past them, whether those bytes were already resident in
// memory (SliceSource) or had to be read off a blocking stream
// (StreamSource). The decoder never needs to know which.
type Source interface {
	// Fill returns the next n bytes from the source and advances the
	// source's position past them. The returned slice is only valid
	// until the next call to Fill. Fill returns a *SourceError if the
	// underlying stream fails. If the source is exhausted before n
	// bytes are available, Fill returns io.EOF when zero bytes were
	// available at all (a clean boundary, e.g. between frames) or
	// io.ErrUnexpectedEOF when some but not all of the n bytes were
	// available (a truncated frame).
	Fill(n int) ([]byte, error)

	// Pos returns the number of bytes consumed so far.
	Pos() int64
}

// SliceSource is a Source backed by an in-memory buffer, for decoding a
// frame (or several) that has already been read into memory in full.
type SliceSource struct {
	buf []byte
	pos int
}

// NewSliceSource returns a Source that reads frames out of buf.
func NewSliceSource(buf []byte) *SliceSource {
	return &SliceSource{buf: buf}
}

func (s *SliceSource) Fill(n int) ([]byte, error) {
	if n < 0 {
		return nil, toosmall("negative read length %d", n)
	}
	if s.pos+n > len(s.buf) {
		if s.pos >= len(s.buf) {
			return nil, io.EOF
		}
		return nil, io.ErrUnexpectedEOF
	}
	out := s.buf[s.pos : s.pos+n]
	s.pos += n
	return out, nil
}

func (s *SliceSource) Pos() int64 { return int64(s.pos) }

// StreamSource is a Source backed by a blocking io.Reader, buffered
// through a *bufio.Reader. Fill blocks until n bytes are available or the
// stream errors out.
type StreamSource struct {
	r     *bufio.Reader
	pos   int64
	frame []byte // reused scratch buffer
}

// NewStreamSource returns a Source that reads frames incrementally from r.
func NewStreamSource(r io.Reader) *StreamSource {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &StreamSource{r: br}
}

func (s *StreamSource) Fill(n int) ([]byte, error) {
	if n < 0 {
		return nil, toosmall("negative read length %d", n)
	}
	if cap(s.frame) < n {
		s.frame = make([]byte, n)
	}
	buf := s.frame[:n]
	_, err := io.ReadFull(s.r, buf)
	if err != nil {
		// io.ReadFull already distinguishes a clean boundary (io.EOF,
		// nothing read yet) from a truncated read (io.ErrUnexpectedEOF,
		// some but not all of n available); preserve that distinction
		// rather than collapsing both into one sentinel.
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, err
		}
		return nil, sourceError(err)
	}
	s.pos += int64(n)
	return buf, nil
}

func (s *StreamSource) Pos() int64 { return s.pos }
