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
	"net"
	"time"
)

// ReadWriter is the transport of the protocol stack, a byte stream
// endpoint which provides timed read/write and the byte counters.
// The protocol stack requires nothing else of the transport.
type ReadWriter interface {
	io.Reader
	io.Writer

	// WriteVectors gathers the byte slices to the transport in order,
	// the writev to decrease the syscalls for multiple chunks.
	WriteVectors(iovs ...[]byte) (n int64, err error)

	// set the timeout of io, 0 to never timeout.
	// if timeout, read/write returns an error for which
	// core.IsTimeout is true.
	SetRecvTimeout(tm time.Duration)
	SetSendTimeout(tm time.Duration)
	RecvTimeout() time.Duration
	SendTimeout() time.Duration

	// the total bytes received from and sent to the transport.
	RecvBytes() int64
	SendBytes() int64
}

// the ReadWriter over a net connection.
type netReadWriter struct {
	c net.Conn
	// the timeout of each read/write, 0 to never timeout.
	recvTimeout time.Duration
	sendTimeout time.Duration
	// the byte counters.
	recvBytes int64
	sendBytes int64
	// the buffers cache for writev.
	nb net.Buffers
}

// NewReadWriter creates the transport over the connection c.
func NewReadWriter(c net.Conn) ReadWriter {
	return &netReadWriter{c: c}
}

func (v *netReadWriter) Read(p []byte) (n int, err error) {
	if v.recvTimeout > 0 {
		if err = v.c.SetReadDeadline(time.Now().Add(v.recvTimeout)); err != nil {
			return
		}
	}

	n, err = v.c.Read(p)
	v.recvBytes += int64(n)

	return
}

func (v *netReadWriter) Write(p []byte) (n int, err error) {
	if v.sendTimeout > 0 {
		if err = v.c.SetWriteDeadline(time.Now().Add(v.sendTimeout)); err != nil {
			return
		}
	}

	n, err = v.c.Write(p)
	v.sendBytes += int64(n)

	return
}

func (v *netReadWriter) WriteVectors(iovs ...[]byte) (n int64, err error) {
	if v.sendTimeout > 0 {
		if err = v.c.SetWriteDeadline(time.Now().Add(v.sendTimeout)); err != nil {
			return
		}
	}

	// net.Buffers consumes the slice, reuse the cache.
	v.nb = append(v.nb[:0], iovs...)

	n, err = v.nb.WriteTo(v.c)
	v.sendBytes += n

	return
}

func (v *netReadWriter) SetRecvTimeout(tm time.Duration) {
	v.recvTimeout = tm
}

func (v *netReadWriter) SetSendTimeout(tm time.Duration) {
	v.sendTimeout = tm
}

func (v *netReadWriter) RecvTimeout() time.Duration {
	return v.recvTimeout
}

func (v *netReadWriter) SendTimeout() time.Duration {
	return v.sendTimeout
}

func (v *netReadWriter) RecvBytes() int64 {
	return v.recvBytes
}

func (v *netReadWriter) SendBytes() int64 {
	return v.sendBytes
}
