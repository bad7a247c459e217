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

import "errors"

// ErrChunkStart occurs when a fresh chunk stream starts with fmt!=0.
var ErrChunkStart = errors.New("rtmp fresh chunk must start with fmt=0")

// ErrChunk occurs when the chunk header violates the previous
// header of the same chunk stream.
var ErrChunk = errors.New("rtmp chunk error")

// ErrChunkSize occurs when the peer sets a chunk size out of
// [128, 65536].
var ErrChunkSize = errors.New("rtmp chunk size out of range")

// ErrPacketSize occurs when the msg payload exceeds the maximum.
var ErrPacketSize = errors.New("rtmp msg payload too large")

// ErrMsgInvalidSize occurs when the payload length is zero
// while a packet is expected.
var ErrMsgInvalidSize = errors.New("rtmp msg payload empty")

// ErrBufferOverflow occurs when the read buffer exceeds the ceiling.
var ErrBufferOverflow = errors.New("rtmp reader buffer overflow")

// ErrAmf0 represents the amf0 codec error.
var ErrAmf0 = errors.New("amf0 error")

// ErrMessageDecode occurs when decoding a message to packet failed.
var ErrMessageDecode = errors.New("rtmp message decode error")

// ErrRequestURL represents the rtmp request url error.
var ErrRequestURL = errors.New("rtmp request url error")

// ErrConnectRequired occurs when the first command of a session
// is not connect.
var ErrConnectRequired = errors.New("rtmp connect required")

// ErrPlainRequired occurs when simple handshake got an encrypted peer.
var ErrPlainRequired = errors.New("rtmp plain handshake required")

// ErrHandshake represents the complex handshake verify error.
var ErrHandshake = errors.New("rtmp handshake error")

// ErrCreateStream occurs when nested createStream overflows.
var ErrCreateStream = errors.New("rtmp create stream error")

// ErrIdentify occurs when the server cannot identify the client after
// too many uninteresting packets.
var ErrIdentify = errors.New("rtmp identify client error")
