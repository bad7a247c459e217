// The MIT License (MIT)
//
// Copyright (c) 2013-2017 Oryx(ossrs)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package protocol

import (
	"io"
)

// the default size of read chunk from transport at a time.
const fastBufferGrowSize = 4 * 1024

// the ceiling of the fast buffer, a peer which forces the buffer over
// this is treated as an attack.
const fastBufferCeiling = 64 * 1024 * 1024

// FastBuffer is the grow-on-demand inbound byte buffer which serves the
// chunk decoder. It reads from the transport until the required bytes
// are buffered, then the decoder consumes them in place.
type FastBuffer struct {
	// the underlayer reader, the transport.
	in io.Reader
	// the bytes buffered, [0, pos) consumed, [pos, end) readable.
	b        []byte
	pos, end int
}

func NewFastBuffer(r io.Reader) *FastBuffer {
	return &FastBuffer{
		in: r,
		b:  make([]byte, fastBufferGrowSize),
	}
}

// Len returns the count of buffered readable bytes.
func (v *FastBuffer) Len() int {
	return v.end - v.pos
}

// Ensure reads from the transport until n bytes are buffered.
// @remark error ErrBufferOverflow when n exceeds the ceiling.
func (v *FastBuffer) Ensure(n int) (err error) {
	if n > fastBufferCeiling {
		return ErrBufferOverflow
	}

	if v.Len() >= n {
		return
	}

	// shift the consumed bytes out, then grow when still short.
	if v.pos > 0 {
		copy(v.b, v.b[v.pos:v.end])
		v.end -= v.pos
		v.pos = 0
	}
	if n > len(v.b) {
		nb := make([]byte, ((n/fastBufferGrowSize)+1)*fastBufferGrowSize)
		copy(nb, v.b[:v.end])
		v.b = nb
	}

	for v.Len() < n {
		var nn int
		if nn, err = v.in.Read(v.b[v.end:]); err != nil {
			return
		}
		v.end += nn
	}

	return
}

// Peek returns the first n buffered bytes without consuming,
// the caller must Ensure(n) first.
func (v *FastBuffer) Peek(n int) []byte {
	if v.Len() < n {
		panic("fast buffer underflow")
	}
	return v.b[v.pos : v.pos+n]
}

// Consume drops the first n buffered bytes.
func (v *FastBuffer) Consume(n int) {
	if v.Len() < n {
		panic("fast buffer underflow")
	}
	v.pos += n
}

// Read consumes the first n buffered bytes to the slice, implements the
// byte reader for the chunk payload. The caller must Ensure first.
func (v *FastBuffer) Read(p []byte) (n int, err error) {
	if v.Len() == 0 {
		return 0, io.EOF
	}

	n = copy(p, v.b[v.pos:v.end])
	v.pos += n

	return
}

// ReadByte consumes one buffered byte, the caller must Ensure(1) first.
func (v *FastBuffer) ReadByte() (c byte, err error) {
	if v.Len() == 0 {
		return 0, io.EOF
	}

	c = v.b[v.pos]
	v.pos++

	return
}
