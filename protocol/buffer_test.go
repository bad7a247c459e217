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
	"bytes"
	"io"
	"testing"
)

// the reader which returns one byte at a time, to drive the grow loop.
type oneByteReader struct {
	b []byte
}

func (v *oneByteReader) Read(p []byte) (n int, err error) {
	if len(v.b) == 0 {
		return 0, io.EOF
	}
	p[0] = v.b[0]
	v.b = v.b[1:]
	return 1, nil
}

func TestFastBufferEnsure(t *testing.T) {
	b := NewFastBuffer(bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04}))

	if err := b.Ensure(2); err != nil {
		t.Error(err)
	}
	if b.Len() < 2 {
		t.Error("should buffer 2 bytes")
	}

	p := b.Peek(2)
	if p[0] != 0x01 || p[1] != 0x02 {
		t.Error("invalid peek", p)
	}

	// peek never consumes.
	if p := b.Peek(2); p[0] != 0x01 {
		t.Error("peek should not consume")
	}

	b.Consume(2)
	if err := b.Ensure(2); err != nil {
		t.Error(err)
	}
	if p := b.Peek(2); p[0] != 0x03 || p[1] != 0x04 {
		t.Error("invalid peek", p)
	}
}

func TestFastBufferEOF(t *testing.T) {
	b := NewFastBuffer(bytes.NewReader([]byte{0x01}))

	if err := b.Ensure(2); err == nil {
		t.Error("should fail for EOF")
	}
}

func TestFastBufferGrow(t *testing.T) {
	d := make([]byte, 2*fastBufferGrowSize)
	for i := range d {
		d[i] = byte(i)
	}

	b := NewFastBuffer(&oneByteReader{b: d})
	if err := b.Ensure(len(d)); err != nil {
		t.Error(err)
	}

	p := b.Peek(len(d))
	if !bytes.Equal(p, d) {
		t.Error("invalid grown buffer")
	}
}

func TestFastBufferOverflow(t *testing.T) {
	b := NewFastBuffer(bytes.NewReader(nil))

	if err := b.Ensure(fastBufferCeiling + 1); err != ErrBufferOverflow {
		t.Error("should overflow, err is", err)
	}
}

func TestFastBufferReadByte(t *testing.T) {
	b := NewFastBuffer(bytes.NewReader([]byte{0x0f, 0xf0}))

	if err := b.Ensure(2); err != nil {
		t.Error(err)
	}
	if c, err := b.ReadByte(); err != nil || c != 0x0f {
		t.Error("invalid byte", c)
	}
	if c, err := b.ReadByte(); err != nil || c != 0xf0 {
		t.Error("invalid byte", c)
	}
}
