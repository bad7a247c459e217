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
	"fmt"
	"io"
	"sync/atomic"
)

// RtmpMessageType is the type of RTMP message.
type RtmpMessageType uint8

const (
	// 5. Protocol Control Messages
	// RTMP reserves message type IDs 1-7 for protocol control messages.
	RtmpMsgSetChunkSize               RtmpMessageType = 0x01
	RtmpMsgAbortMessage               RtmpMessageType = 0x02
	RtmpMsgAcknowledgement            RtmpMessageType = 0x03
	RtmpMsgUserControlMessage         RtmpMessageType = 0x04
	RtmpMsgWindowAcknowledgementSize  RtmpMessageType = 0x05
	RtmpMsgSetPeerBandwidth           RtmpMessageType = 0x06
	RtmpMsgEdgeAndOriginServerCommand RtmpMessageType = 0x07
	// 3.1. Command message
	// Command messages carry the AMF-encoded commands between the client
	// and the server, message type value of 20 for AMF0 encoding and
	// message type value of 17 for AMF3 encoding.
	RtmpMsgAMF3CommandMessage RtmpMessageType = 17 // 0x11
	RtmpMsgAMF0CommandMessage RtmpMessageType = 20 // 0x14
	// 3.2. Data message
	// The client or the server sends this message to send Metadata or
	// any user data to the peer, message type value of 18 for AMF0 and
	// message type value of 15 for AMF3.
	RtmpMsgAMF0DataMessage RtmpMessageType = 18 // 0x12
	RtmpMsgAMF3DataMessage RtmpMessageType = 15 // 0x0F
	// 3.3. Shared object message
	RtmpMsgAMF3SharedObject RtmpMessageType = 16 // 0x10
	RtmpMsgAMF0SharedObject RtmpMessageType = 19 // 0x13
	// 3.4. Audio message
	RtmpMsgAudioMessage RtmpMessageType = 8 // 0x08
	// 3.5. Video message
	RtmpMsgVideoMessage RtmpMessageType = 9 // 0x09
	// 3.6. Aggregate message
	RtmpMsgAggregateMessage RtmpMessageType = 22 // 0x16
)

func (v RtmpMessageType) String() string {
	switch v {
	case RtmpMsgSetChunkSize:
		return "SetChunkSize"
	case RtmpMsgAbortMessage:
		return "Abort"
	case RtmpMsgAcknowledgement:
		return "Acknowledgement"
	case RtmpMsgUserControlMessage:
		return "UserControl"
	case RtmpMsgWindowAcknowledgementSize:
		return "AcknowledgementSize"
	case RtmpMsgSetPeerBandwidth:
		return "SetPeerBandwidth"
	case RtmpMsgEdgeAndOriginServerCommand:
		return "EdgeOrigin"
	case RtmpMsgAMF3CommandMessage:
		return "Amf3Command"
	case RtmpMsgAMF0CommandMessage:
		return "Amf0Command"
	case RtmpMsgAMF0DataMessage:
		return "Amf0Data"
	case RtmpMsgAMF3DataMessage:
		return "Amf3Data"
	case RtmpMsgAMF3SharedObject:
		return "Amf3SharedObject"
	case RtmpMsgAMF0SharedObject:
		return "Amf0SharedObject"
	case RtmpMsgAudioMessage:
		return "Audio"
	case RtmpMsgVideoMessage:
		return "Video"
	case RtmpMsgAggregateMessage:
		return "Aggregate"
	default:
		return "unknown"
	}
}

func (v RtmpMessageType) isAudio() bool {
	return v == RtmpMsgAudioMessage
}

func (v RtmpMessageType) isVideo() bool {
	return v == RtmpMsgVideoMessage
}

func (v RtmpMessageType) isAmf0Command() bool {
	return v == RtmpMsgAMF0CommandMessage
}

func (v RtmpMessageType) isAmf0Data() bool {
	return v == RtmpMsgAMF0DataMessage
}

func (v RtmpMessageType) isAmf3Command() bool {
	return v == RtmpMsgAMF3CommandMessage
}

func (v RtmpMessageType) isAmf3Data() bool {
	return v == RtmpMsgAMF3DataMessage
}

func (v RtmpMessageType) isAmf0() bool {
	return v.isAmf0Command() || v.isAmf0Data()
}

func (v RtmpMessageType) isAmf3() bool {
	return v.isAmf3Command() || v.isAmf3Data()
}

// IsCommand whether the message is an amf0 or amf3 command.
func (v RtmpMessageType) IsCommand() bool {
	return v.isAmf0Command() || v.isAmf3Command()
}

// IsData whether the message is an amf0 or amf3 data.
func (v RtmpMessageType) IsData() bool {
	return v.isAmf0Data() || v.isAmf3Data()
}

// IsAV whether the message is audio or video.
func (v RtmpMessageType) IsAV() bool {
	return v.isAudio() || v.isVideo()
}

// RtmpMessage is the common message, the atomic unit above the chunk
// layer: the header plus the owned payload bytes.
type RtmpMessage struct {
	// 1byte. One byte field to represent the message type. A range of
	// type IDs (1-7) are reserved for protocol control messages.
	MessageType RtmpMessageType
	// 4bytes. Four-byte field that contains a timestamp of the message.
	// The 4 bytes are packed in the big-endian order.
	// @remark, we use 64bits for large time for jitter detect and for
	// the extended timestamp.
	Timestamp uint64
	// 4bytes. Four-byte field that identifies the stream of the message.
	// These bytes are set in little-endian format.
	StreamId uint32
	// the chunk stream id over which to transport this message.
	PreferCid uint32
	// the payload of message, the RtmpMessage never provides the
	// detail of the payload, use other packets to take its meaning.
	Payload []byte
}

func NewRtmpMessage() *RtmpMessage {
	return &RtmpMessage{}
}

func (v *RtmpMessage) String() string {
	return fmt.Sprintf("%v %vB %v", v.MessageType, len(v.Payload), v.Timestamp)
}

// SharedPtrMessage is the reference counted message for fan-out: the
// per-recipient header plus the shared payload slice. The payload bytes
// are immutable for the lifetime of any outstanding share, only the
// timestamp and stream-id header fields may be rewritten per-recipient.
type SharedPtrMessage struct {
	// the per-recipient header, free to rewrite.
	MessageType RtmpMessageType
	Timestamp   uint64
	StreamId    uint32
	PreferCid   uint32

	// the shared immutable payload.
	payload *sharedPayload
}

type sharedPayload struct {
	b []byte
	// the count of outstanding shares, the shares maybe freed by the
	// sessions they were fanned out to.
	refs int32
}

// NewSharedPtrMessage creates the first share of the message,
// the ownership of the payload transfers to the share.
func NewSharedPtrMessage(m *RtmpMessage) *SharedPtrMessage {
	return &SharedPtrMessage{
		MessageType: m.MessageType,
		Timestamp:   m.Timestamp,
		StreamId:    m.StreamId,
		PreferCid:   m.PreferCid,
		payload:     &sharedPayload{b: m.Payload, refs: 1},
	}
}

// Payload returns the shared bytes, the caller must never mutate them.
func (v *SharedPtrMessage) Payload() []byte {
	return v.payload.b
}

// Refs returns the count of outstanding shares.
func (v *SharedPtrMessage) Refs() int {
	return int(atomic.LoadInt32(&v.payload.refs))
}

// Copy creates a new share with its own header over the same payload.
func (v *SharedPtrMessage) Copy() *SharedPtrMessage {
	atomic.AddInt32(&v.payload.refs, 1)

	c := *v
	return &c
}

// Free releases this share. When the last share drops, the payload is
// detached so a stale share never reads reclaimed bytes.
func (v *SharedPtrMessage) Free() {
	if v.payload == nil {
		return
	}

	if atomic.AddInt32(&v.payload.refs, -1) <= 0 {
		v.payload.b = nil
	}
	v.payload = nil
}

// ToMessage converts the share to a common message for the stack to
// send, the payload stays shared.
func (v *SharedPtrMessage) ToMessage() *RtmpMessage {
	return &RtmpMessage{
		MessageType: v.MessageType,
		Timestamp:   v.Timestamp,
		StreamId:    v.StreamId,
		PreferCid:   v.PreferCid,
		Payload:     v.payload.b,
	}
}

// MessageArray is the preallocated batch of shared messages, for the
// caller which fans out one stream to many sessions.
type MessageArray struct {
	Msgs []*SharedPtrMessage
}

func NewMessageArray(capacity int) *MessageArray {
	return &MessageArray{
		Msgs: make([]*SharedPtrMessage, 0, capacity),
	}
}

// Append adds a share to the batch.
func (v *MessageArray) Append(m *SharedPtrMessage) {
	v.Msgs = append(v.Msgs, m)
}

// Free releases all shares and resets the batch for reuse.
func (v *MessageArray) Free() {
	for _, m := range v.Msgs {
		m.Free()
	}
	v.Msgs = v.Msgs[:0]
}

// the uint8 which supports marshal and unmarshal for packet fields.
type RtmpUint8 uint8

func (v *RtmpUint8) MarshalBinary() (data []byte, err error) {
	return []byte{byte(*v)}, nil
}

func (v *RtmpUint8) Size() int {
	return 1
}

func (v *RtmpUint8) UnmarshalBinary(data []byte) (err error) {
	if len(data) < 1 {
		return io.EOF
	}
	*v = RtmpUint8(data[0])
	return
}

// the big-endian uint16 which supports marshal and unmarshal.
type RtmpUint16 uint16

func (v *RtmpUint16) MarshalBinary() (data []byte, err error) {
	return []byte{byte(*v >> 8), byte(*v)}, nil
}

func (v *RtmpUint16) Size() int {
	return 2
}

func (v *RtmpUint16) UnmarshalBinary(data []byte) (err error) {
	if len(data) < 2 {
		return io.EOF
	}
	*v = RtmpUint16(uint16(data[1]) | uint16(data[0])<<8)
	return
}

// the big-endian uint32 which supports marshal and unmarshal.
type RtmpUint32 uint32

func (v *RtmpUint32) MarshalBinary() (data []byte, err error) {
	return []byte{byte(*v >> 24), byte(*v >> 16), byte(*v >> 8), byte(*v)}, nil
}

func (v *RtmpUint32) Size() int {
	return 4
}

func (v *RtmpUint32) UnmarshalBinary(data []byte) (err error) {
	if len(data) < 4 {
		return io.EOF
	}
	*v = RtmpUint32(uint32(data[3]) | uint32(data[2])<<8 | uint32(data[1])<<16 | uint32(data[0])<<24)
	return
}
