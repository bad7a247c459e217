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

package core

import (
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
)

// ErrQuit used for goroutine to return.
var ErrQuit = errors.New("system quit")

// ErrOverflow when channel or cache overflow.
var ErrOverflow = errors.New("system overflow")

// ErrTimeout when io timeout to wait.
var ErrTimeout = errors.New("io timeout")

// ErrClose is a system control signal: the peer requested to close the
// stream, for instance by closeStream. It is not a failure, the caller
// should close the stream and keep the connection.
var ErrClose = errors.New("control: connection close")

// ErrRepublish is a system control signal: the FMLE encoder stopped then
// restarted publishing. The caller restarts the publishing pipeline
// without tearing down the connection.
var ErrRepublish = errors.New("control: republish stream")

// IsNormalQuit whether the object in recover or returned error can ignore,
// for instance, the error is a Quit error.
func IsNormalQuit(err interface{}) bool {
	if err == nil {
		return true
	}

	if err, ok := err.(error); ok {
		// client EOF.
		if err == io.EOF {
			return true
		}

		// manual quit or read timeout.
		if err == ErrQuit || err == ErrTimeout {
			return true
		}

		// network timeout.
		if err, ok := err.(net.Error); ok && err.Timeout() {
			return true
		}
	}

	return false
}

// IsSystemControl whether the error is a system control signal,
// which must be handled by the caller, never log as error.
func IsSystemControl(err error) bool {
	return err == ErrClose || err == ErrRepublish
}

// IsClientGracefullyClose whether the error is an intentional disconnect
// of the peer, the caller can demote the log level.
func IsClientGracefullyClose(err error) bool {
	if err == nil {
		return false
	}

	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}

	// the net package wraps the close of a used connection
	// without a dedicated error value.
	return strings.Contains(err.Error(), "use of closed network connection")
}

// IsTimeout whether the error is an io timeout, of this stack or of the
// underlayer net connection.
func IsTimeout(err error) bool {
	if err == ErrTimeout {
		return true
	}

	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
