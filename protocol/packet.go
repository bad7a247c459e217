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
	"reflect"

	"github.com/winlinvip/go-srs-librtmp/core"
)

// RtmpPacket is a typed RTMP packet, which can be decoded from and
// encoded to the payload of a message. Each packet knows the chunk
// stream to prefer and the message type to use.
type RtmpPacket interface {
	core.Marshaler
	core.UnmarshalSizer

	// the cid(chunk id) specifies the chunk to send data over.
	// generally, each message prefer some cid, for example,
	// all protocol control messages prefer RtmpCidProtocolControl.
	PreferCid() uint32
	// subpacket must override to provide the right message type,
	// which is set in the message header.
	MessageType() RtmpMessageType
}

// sum the encoded size of fields, a nil field is an absent optional.
func packetSize(fields ...core.UnmarshalSizer) int {
	var size int
	for _, f := range fields {
		if f == nil || reflect.ValueOf(f).IsNil() {
			continue
		}
		size += f.Size()
	}
	return size
}

// 7.1. Set Chunk Size
// Protocol control message 1, Set Chunk Size, is used to notify the
// peer a new maximum chunk size to use.
type RtmpSetChunkSizePacket struct {
	// The maximum chunk size can be 65536 bytes. The chunk size is
	// maintained independently for server and client.
	ChunkSize RtmpUint32
}

func NewRtmpSetChunkSizePacket() RtmpPacket {
	return &RtmpSetChunkSizePacket{
		ChunkSize: RtmpUint32(RtmpProtocolChunkSize),
	}
}

func (v *RtmpSetChunkSizePacket) Size() int {
	return packetSize(&v.ChunkSize)
}

func (v *RtmpSetChunkSizePacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.ChunkSize)
}

func (v *RtmpSetChunkSizePacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.ChunkSize)
}

func (v *RtmpSetChunkSizePacket) PreferCid() uint32 {
	return RtmpCidProtocolControl
}

func (v *RtmpSetChunkSizePacket) MessageType() RtmpMessageType {
	return RtmpMsgSetChunkSize
}

// 7.2. Abort Message
// Protocol control message 2, Abort Message, is used to notify the peer
// if it is waiting for chunks to complete a message, then to discard
// the partially received message over a chunk stream.
type RtmpAbortPacket struct {
	// The stream ID of the chunk stream to be aborted.
	ChunkStreamId RtmpUint32
}

func NewRtmpAbortPacket() RtmpPacket {
	return &RtmpAbortPacket{}
}

func (v *RtmpAbortPacket) Size() int {
	return packetSize(&v.ChunkStreamId)
}

func (v *RtmpAbortPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.ChunkStreamId)
}

func (v *RtmpAbortPacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.ChunkStreamId)
}

func (v *RtmpAbortPacket) PreferCid() uint32 {
	return RtmpCidProtocolControl
}

func (v *RtmpAbortPacket) MessageType() RtmpMessageType {
	return RtmpMsgAbortMessage
}

// 7.3. Acknowledgement
// The client or the server sends the acknowledgment to the peer after
// receiving bytes equal to the window size.
type RtmpAcknowledgementPacket struct {
	// The sequence number, which is the number of the bytes received so far.
	SequenceNumber RtmpUint32
}

func NewRtmpAcknowledgementPacket() RtmpPacket {
	return &RtmpAcknowledgementPacket{}
}

func (v *RtmpAcknowledgementPacket) Size() int {
	return packetSize(&v.SequenceNumber)
}

func (v *RtmpAcknowledgementPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.SequenceNumber)
}

func (v *RtmpAcknowledgementPacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.SequenceNumber)
}

func (v *RtmpAcknowledgementPacket) PreferCid() uint32 {
	return RtmpCidProtocolControl
}

func (v *RtmpAcknowledgementPacket) MessageType() RtmpMessageType {
	return RtmpMsgAcknowledgement
}

// 7.4. Window Acknowledgement Size
// The client or the server sends this message to inform the peer which
// window size to use when sending acknowledgment.
type RtmpSetWindowAckSizePacket struct {
	Ack RtmpUint32
}

func NewRtmpSetWindowAckSizePacket() RtmpPacket {
	return &RtmpSetWindowAckSizePacket{}
}

func (v *RtmpSetWindowAckSizePacket) Size() int {
	return packetSize(&v.Ack)
}

func (v *RtmpSetWindowAckSizePacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Ack)
}

func (v *RtmpSetWindowAckSizePacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.Ack)
}

func (v *RtmpSetWindowAckSizePacket) PreferCid() uint32 {
	return RtmpCidProtocolControl
}

func (v *RtmpSetWindowAckSizePacket) MessageType() RtmpMessageType {
	return RtmpMsgWindowAcknowledgementSize
}

// the type of peer bandwidth limit.
type RtmpPeerBandwidthType uint8

const (
	Hard RtmpPeerBandwidthType = iota
	Soft
	Dynamic
)

// 7.5. Set Peer Bandwidth
// The sender can mark this message hard (0), soft (1), or dynamic (2)
// using the Limit type field.
type RtmpSetPeerBandwidthPacket struct {
	Bandwidth RtmpUint32
	Type      RtmpUint8
}

func NewRtmpSetPeerBandwidthPacket() RtmpPacket {
	return &RtmpSetPeerBandwidthPacket{
		Type: RtmpUint8(Dynamic),
	}
}

func (v *RtmpSetPeerBandwidthPacket) Size() int {
	return packetSize(&v.Bandwidth, &v.Type)
}

func (v *RtmpSetPeerBandwidthPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Bandwidth, &v.Type)
}

func (v *RtmpSetPeerBandwidthPacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.Bandwidth, &v.Type)
}

func (v *RtmpSetPeerBandwidthPacket) PreferCid() uint32 {
	return RtmpCidProtocolControl
}

func (v *RtmpSetPeerBandwidthPacket) MessageType() RtmpMessageType {
	return RtmpMsgSetPeerBandwidth
}

// RtmpPcucEventType is the event type of user control message.
type RtmpPcucEventType uint16

const (
	// The server sends this event to notify the client that a stream
	// has become functional. The event data is 4-byte and represents
	// the stream ID of the stream that became functional.
	RtmpPcucStreamBegin RtmpPcucEventType = 0x00

	// The server sends this event to notify the client that the
	// playback of data is over as requested on this stream.
	RtmpPcucStreamEOF RtmpPcucEventType = 0x01

	// The server sends this event to notify the client that there is
	// no more data on the stream.
	RtmpPcucStreamDry RtmpPcucEventType = 0x02

	// The client sends this event to inform the server of the buffer
	// size (in milliseconds) that is used to buffer any data coming
	// over a stream. The first 4 bytes of the event data represent the
	// stream ID and the next 4 bytes represent the buffer length, in
	// milliseconds.
	RtmpPcucSetBufferLength RtmpPcucEventType = 0x03 // 8bytes event-data

	// The server sends this event to notify the client that the stream
	// is a recorded stream.
	RtmpPcucStreamIsRecorded RtmpPcucEventType = 0x04

	// The server sends this event to test whether the client is
	// reachable. Event data is a 4-byte timestamp, representing the
	// local server time when the server dispatched the command.
	RtmpPcucPingRequest RtmpPcucEventType = 0x06

	// The client sends this event to the server in response to the
	// ping request. The event data is the 4-byte timestamp which was
	// received with the ping request.
	RtmpPcucPingResponse RtmpPcucEventType = 0x07

	// for PCUC size=3, the payload is "00 1A 01",
	// where we think the event is 0x001a, fms defined msg,
	// which has only 1bytes event data.
	RtmpPcucFmsEvent0 RtmpPcucEventType = 0x1a
)

// 5.4. User Control Message (4)
//
// for the EventData is 4bytes.
// Stream Begin(=0)              4-bytes stream ID
// Stream EOF(=1)                4-bytes stream ID
// StreamDry(=2)                 4-bytes stream ID
// SetBufferLength(=3)           8-bytes 4bytes stream ID, 4bytes buffer length.
// StreamIsRecorded(=4)          4-bytes stream ID
// PingRequest(=6)               4-bytes timestamp local server time
// PingResponse(=7)              4-bytes timestamp received ping request.
//
// 3.7. User Control message
// +------------------------------+-------------------------
// | Event Type ( 2- bytes ) | Event Data
// +------------------------------+-------------------------
// Figure 5 Pay load for the 'User Control Message'.
type RtmpUserControlPacket struct {
	// Event type is followed by Event data.
	// @see RtmpPcucEventType
	EventType RtmpUint16
	// the event data generally in 4bytes.
	// @remark for event type is 0x001a, only 1bytes.
	EventData RtmpUint32
	// 4bytes if event_type is RtmpPcucSetBufferLength; otherwise 0.
	ExtraData RtmpUint32
}

func NewRtmpUserControlPacket() RtmpPacket {
	return &RtmpUserControlPacket{
		EventType: RtmpUint16(RtmpPcucStreamBegin),
	}
}

func (v *RtmpUserControlPacket) Size() int {
	switch RtmpPcucEventType(v.EventType) {
	case RtmpPcucFmsEvent0:
		return 2 + 1
	case RtmpPcucSetBufferLength:
		return packetSize(&v.EventType, &v.EventData, &v.ExtraData)
	default:
		return packetSize(&v.EventType, &v.EventData)
	}
}

func (v *RtmpUserControlPacket) MarshalBinary() (data []byte, err error) {
	switch RtmpPcucEventType(v.EventType) {
	case RtmpPcucFmsEvent0:
		if data, err = core.Marshals(&v.EventType); err != nil {
			return
		}
		return append(data, byte(v.EventData)), nil
	case RtmpPcucSetBufferLength:
		return core.Marshals(&v.EventType, &v.EventData, &v.ExtraData)
	default:
		return core.Marshals(&v.EventType, &v.EventData)
	}
}

func (v *RtmpUserControlPacket) UnmarshalBinary(data []byte) (err error) {
	b := bytes.NewBuffer(data)
	if err = core.Unmarshals(b, &v.EventType); err != nil {
		return
	}

	if RtmpPcucEventType(v.EventType) == RtmpPcucFmsEvent0 {
		var ed RtmpUint8
		if err = core.Unmarshals(b, &ed); err != nil {
			return
		}
		v.EventData = RtmpUint32(ed)
		return
	}

	if err = core.Unmarshals(b, &v.EventData); err != nil {
		return
	}
	if RtmpPcucEventType(v.EventType) == RtmpPcucSetBufferLength {
		return core.Unmarshals(b, &v.ExtraData)
	}
	return
}

func (v *RtmpUserControlPacket) PreferCid() uint32 {
	return RtmpCidProtocolControl
}

func (v *RtmpUserControlPacket) MessageType() RtmpMessageType {
	return RtmpMsgUserControlMessage
}

// 4.1.1. connect
// The client sends the connect command to the server to request
// connection to a server application instance.
type RtmpConnectAppPacket struct {
	// Name of the command. Set to "connect".
	Name Amf0String
	// Always set to 1.
	TransactionId Amf0Number
	// Command information object which has the name-value pairs.
	// @remark: alloc in packet constructor, user can directly use it,
	//       user should never alloc it again which will cause memory leak.
	// @remark, never be NULL.
	CommandObject *Amf0Object
	// Any optional information
	// @remark, optional, init to and maybe NULL.
	Args *Amf0Object
}

func NewRtmpConnectAppPacket() RtmpPacket {
	return &RtmpConnectAppPacket{
		Name:          Amf0String(Amf0CommandConnect),
		TransactionId: Amf0Number(1.0),
		CommandObject: NewAmf0Object(),
	}
}

func (v *RtmpConnectAppPacket) Size() int {
	return packetSize(&v.Name, &v.TransactionId, v.CommandObject, v.Args)
}

func (v *RtmpConnectAppPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, &v.TransactionId, v.CommandObject, v.Args)
}

func (v *RtmpConnectAppPacket) UnmarshalBinary(data []byte) (err error) {
	b := bytes.NewBuffer(data)
	if err = core.Unmarshals(b, &v.Name, &v.TransactionId, v.CommandObject); err != nil {
		return
	}

	if b.Len() > 0 {
		v.Args = NewAmf0Object()
		return core.Unmarshals(b, v.Args)
	}

	return
}

func (v *RtmpConnectAppPacket) PreferCid() uint32 {
	return RtmpCidOverConnection
}

func (v *RtmpConnectAppPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0CommandMessage
}

// response for RtmpConnectAppPacket.
type RtmpConnectAppResPacket struct {
	// _result or _error; indicates whether the response is result or error.
	Name Amf0String
	// Transaction ID is 1 for call connect responses
	TransactionId Amf0Number
	// Name-value pairs that describe the properties(fmsver etc.) of the connection.
	// @remark, never be NULL.
	Props *Amf0Object
	// Name-value pairs that describe the response from the server. 'code',
	// 'level', 'description' are names of few among such information.
	// @remark, never be NULL.
	Info *Amf0Object
}

func NewRtmpConnectAppResPacket() RtmpPacket {
	return &RtmpConnectAppResPacket{
		Name:          Amf0String(Amf0CommandResult),
		TransactionId: Amf0Number(1.0),
		Props:         NewAmf0Object(),
		Info:          NewAmf0Object(),
	}
}

func (v *RtmpConnectAppResPacket) Size() int {
	return packetSize(&v.Name, &v.TransactionId, v.Props, v.Info)
}

func (v *RtmpConnectAppResPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, &v.TransactionId, v.Props, v.Info)
}

func (v *RtmpConnectAppResPacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.Name, &v.TransactionId, v.Props, v.Info)
}

func (v *RtmpConnectAppResPacket) PreferCid() uint32 {
	return RtmpCidOverConnection
}

func (v *RtmpConnectAppResPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0CommandMessage
}

// 4.1.2. Call
// The call method of the NetConnection object runs remote procedure
// calls (RPC) at the receiving end. The called RPC name is passed as a
// parameter to the call command.
type RtmpCallPacket struct {
	// Name of the remote procedure that is called.
	Name Amf0String
	// If a response is expected we give a transaction Id. Else we pass a value of 0
	TransactionId Amf0Number
	// If there exists any command info this is set, else this is set to
	// null type.
	// @remark, optional, init to and maybe NULL.
	Command Amf0Any
	// Any optional arguments to be provided
	// @remark, optional, init to and maybe NULL.
	Args Amf0Any
}

func NewRtmpCallPacket() RtmpPacket {
	return &RtmpCallPacket{}
}

func (v *RtmpCallPacket) Size() int {
	return packetSize(&v.Name, &v.TransactionId, v.Command, v.Args)
}

func (v *RtmpCallPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, &v.TransactionId, v.Command, v.Args)
}

func (v *RtmpCallPacket) UnmarshalBinary(data []byte) (err error) {
	b := bytes.NewBuffer(data)
	if err = core.Unmarshals(b, &v.Name, &v.TransactionId); err != nil {
		return
	}

	if b.Len() > 0 {
		if v.Command, err = Amf0Discovery(b.Bytes()); err != nil {
			return
		}
		if err = core.Unmarshals(b, v.Command); err != nil {
			return
		}
	}

	if b.Len() > 0 {
		if v.Args, err = Amf0Discovery(b.Bytes()); err != nil {
			return
		}
		if err = core.Unmarshals(b, v.Args); err != nil {
			return
		}
	}

	return
}

func (v *RtmpCallPacket) PreferCid() uint32 {
	return RtmpCidOverConnection
}

func (v *RtmpCallPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0CommandMessage
}

// response for RtmpCallPacket.
type RtmpCallResPacket struct {
	// Name of the command.
	Name Amf0String
	// ID of the command, to which the response belongs to
	TransactionId Amf0Number
	// If there exists any command info this is set, else this is set to
	// null type.
	// @remark, optional, init to and maybe NULL.
	Command Amf0Any
	// Any optional arguments to be provided
	// @remark, optional, init to and maybe NULL.
	Args Amf0Any
}

func NewRtmpCallResPacket() RtmpPacket {
	return &RtmpCallResPacket{
		Name: Amf0String(Amf0CommandResult),
	}
}

func (v *RtmpCallResPacket) Size() int {
	return packetSize(&v.Name, &v.TransactionId, v.Command, v.Args)
}

func (v *RtmpCallResPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, &v.TransactionId, v.Command, v.Args)
}

func (v *RtmpCallResPacket) UnmarshalBinary(data []byte) (err error) {
	b := bytes.NewBuffer(data)
	if err = core.Unmarshals(b, &v.Name, &v.TransactionId); err != nil {
		return
	}

	if b.Len() > 0 {
		if v.Command, err = Amf0Discovery(b.Bytes()); err != nil {
			return
		}
		if err = core.Unmarshals(b, v.Command); err != nil {
			return
		}
	}

	if b.Len() > 0 {
		if v.Args, err = Amf0Discovery(b.Bytes()); err != nil {
			return
		}
		if err = core.Unmarshals(b, v.Args); err != nil {
			return
		}
	}

	return
}

func (v *RtmpCallResPacket) PreferCid() uint32 {
	return RtmpCidOverConnection
}

func (v *RtmpCallResPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0CommandMessage
}

// 4.1.3. createStream
// The client sends this command to the server to create a logical
// channel for message communication The publishing of audio, video,
// and metadata is carried out over stream channel created using the
// createStream command.
type RtmpCreateStreamPacket struct {
	// Name of the command. Set to "createStream".
	Name Amf0String
	// Transaction ID of the command.
	TransactionId Amf0Number
	// If there exists any command info this is set, else this is set to null type.
	Command Amf0Null
}

func NewRtmpCreateStreamPacket() RtmpPacket {
	return &RtmpCreateStreamPacket{
		Name:          Amf0String(Amf0CommandCreateStream),
		TransactionId: Amf0Number(2.0),
	}
}

func (v *RtmpCreateStreamPacket) Size() int {
	return packetSize(&v.Name, &v.TransactionId, &v.Command)
}

func (v *RtmpCreateStreamPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, &v.TransactionId, &v.Command)
}

func (v *RtmpCreateStreamPacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.Name, &v.TransactionId, &v.Command)
}

func (v *RtmpCreateStreamPacket) PreferCid() uint32 {
	return RtmpCidOverConnection
}

func (v *RtmpCreateStreamPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0CommandMessage
}

// response for RtmpCreateStreamPacket.
type RtmpCreateStreamResPacket struct {
	// _result or _error; indicates whether the response is result or error.
	Name Amf0String
	// ID of the command that response belongs to.
	TransactionId Amf0Number
	// If there exists any command info this is set, else this is set to null type.
	Command Amf0Null
	// The return value is either a stream ID or an error information object.
	StreamId Amf0Number
}

func NewRtmpCreateStreamResPacket() RtmpPacket {
	return &RtmpCreateStreamResPacket{
		Name: Amf0String(Amf0CommandResult),
	}
}

func (v *RtmpCreateStreamResPacket) Size() int {
	return packetSize(&v.Name, &v.TransactionId, &v.Command, &v.StreamId)
}

func (v *RtmpCreateStreamResPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, &v.TransactionId, &v.Command, &v.StreamId)
}

func (v *RtmpCreateStreamResPacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.Name, &v.TransactionId, &v.Command, &v.StreamId)
}

func (v *RtmpCreateStreamResPacket) PreferCid() uint32 {
	return RtmpCidOverConnection
}

func (v *RtmpCreateStreamResPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0CommandMessage
}

// client close stream packet.
type RtmpCloseStreamPacket struct {
	// Name of the command, set to "closeStream".
	Name Amf0String
	// Transaction ID set to 0.
	TransactionId Amf0Number
	// Command information object does not exist. Set to null type.
	Command Amf0Null
}

func NewRtmpCloseStreamPacket() RtmpPacket {
	return &RtmpCloseStreamPacket{
		Name: Amf0String(Amf0CommandCloseStream),
	}
}

func (v *RtmpCloseStreamPacket) Size() int {
	return packetSize(&v.Name, &v.TransactionId, &v.Command)
}

func (v *RtmpCloseStreamPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, &v.TransactionId, &v.Command)
}

func (v *RtmpCloseStreamPacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.Name, &v.TransactionId, &v.Command)
}

func (v *RtmpCloseStreamPacket) PreferCid() uint32 {
	return RtmpCidOverConnection
}

func (v *RtmpCloseStreamPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0CommandMessage
}

// FMLE start publish: releaseStream/FCPublish/FCUnpublish
type RtmpFMLEStartPacket struct {
	// Name of the command
	Name Amf0String
	// the transaction ID to get the response.
	TransactionId Amf0Number
	// If there exists any command info this is set, else this is set to null type.
	Command Amf0Null
	// the stream name to start publish or release.
	Stream Amf0String
}

func NewRtmpFMLEStartPacket() RtmpPacket {
	return &RtmpFMLEStartPacket{
		Name: Amf0String(Amf0CommandReleaseStream),
	}
}

func (v *RtmpFMLEStartPacket) Size() int {
	return packetSize(&v.Name, &v.TransactionId, &v.Command, &v.Stream)
}

func (v *RtmpFMLEStartPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, &v.TransactionId, &v.Command, &v.Stream)
}

func (v *RtmpFMLEStartPacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.Name, &v.TransactionId, &v.Command, &v.Stream)
}

func (v *RtmpFMLEStartPacket) PreferCid() uint32 {
	return RtmpCidOverConnection
}

func (v *RtmpFMLEStartPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0CommandMessage
}

// response for RtmpFMLEStartPacket.
type RtmpFMLEStartResPacket struct {
	// Name of the command
	Name Amf0String
	// the transaction ID to get the response.
	TransactionId Amf0Number
	// If there exists any command info this is set, else this is set to null type.
	Command Amf0Null
	// the optional args, set to undefined.
	Args Amf0Undefined
}

func NewRtmpFMLEStartResPacket() RtmpPacket {
	return &RtmpFMLEStartResPacket{
		Name: Amf0String(Amf0CommandResult),
	}
}

func (v *RtmpFMLEStartResPacket) Size() int {
	return packetSize(&v.Name, &v.TransactionId, &v.Command, &v.Args)
}

func (v *RtmpFMLEStartResPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, &v.TransactionId, &v.Command, &v.Args)
}

func (v *RtmpFMLEStartResPacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.Name, &v.TransactionId, &v.Command, &v.Args)
}

func (v *RtmpFMLEStartResPacket) PreferCid() uint32 {
	return RtmpCidOverConnection
}

func (v *RtmpFMLEStartResPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0CommandMessage
}

// 4.2.1. play
// The client sends this command to the server to play a stream.
type RtmpPlayPacket struct {
	// Name of the command. Set to "play".
	Name Amf0String
	// Transaction ID set to 0.
	TransactionId Amf0Number
	// Command information does not exist. Set to null type.
	Command Amf0Null
	// Name of the stream to play.
	// To play video (FLV) files, specify the name of the stream without
	// a file extension (for example, "sample").
	// To play H.264/AAC files, you must precede the stream name with
	// mp4: and specify the file extension, for example, "mp4:sample.m4v".
	Stream Amf0String
	// An optional parameter that specifies the start time in seconds.
	// The default value is -2, which means the subscriber first tries
	// to play the live stream specified in the Stream Name field.
	// @remark, optional, init to and maybe NULL.
	Start *Amf0Number
	// An optional parameter that specifies the duration of playback in
	// seconds. The default value is -1. The -1 value means a live
	// stream is played until it is no longer available or a recorded
	// stream is played until it ends.
	// @remark, optional, init to and maybe NULL.
	Duration *Amf0Number
	// An optional Boolean value or number that specifies whether to
	// flush any previous playlist.
	// @remark, optional, init to and maybe NULL.
	Reset *Amf0Boolean
}

func NewRtmpPlayPacket() RtmpPacket {
	return &RtmpPlayPacket{
		Name: Amf0String(Amf0CommandPlay),
	}
}

func (v *RtmpPlayPacket) Size() int {
	return packetSize(&v.Name, &v.TransactionId, &v.Command, &v.Stream, v.Start, v.Duration, v.Reset)
}

func (v *RtmpPlayPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, &v.TransactionId, &v.Command, &v.Stream, v.Start, v.Duration, v.Reset)
}

func (v *RtmpPlayPacket) UnmarshalBinary(data []byte) (err error) {
	b := bytes.NewBuffer(data)
	if err = core.Unmarshals(b, &v.Name, &v.TransactionId, &v.Command, &v.Stream); err != nil {
		return
	}

	if b.Len() > 0 {
		v.Start = NewAmf0Number(0)
		if err = core.Unmarshals(b, v.Start); err != nil {
			return
		}
	}
	if b.Len() > 0 {
		v.Duration = NewAmf0Number(0)
		if err = core.Unmarshals(b, v.Duration); err != nil {
			return
		}
	}
	if b.Len() > 0 {
		v.Reset = NewAmf0Bool(false)
		if err = core.Unmarshals(b, v.Reset); err != nil {
			return
		}
	}

	return
}

func (v *RtmpPlayPacket) PreferCid() uint32 {
	return RtmpCidOverStream
}

func (v *RtmpPlayPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0CommandMessage
}

// response for RtmpPlayPacket.
// @remark, user must set the stream_id in header.
type RtmpPlayResPacket struct {
	// Name of the command. If the play command is successful, the
	// command name is set to onStatus.
	Name Amf0String
	// Transaction ID set to 0.
	TransactionId Amf0Number
	// Command information does not exist. Set to null type.
	Command Amf0Null
	// If the play command is successful, the client receives OnStatus
	// message from server which is NetStream.Play.Start.
	Desc *Amf0Object
}

func NewRtmpPlayResPacket() RtmpPacket {
	return &RtmpPlayResPacket{
		Name: Amf0String(Amf0CommandResult),
		Desc: NewAmf0Object(),
	}
}

func (v *RtmpPlayResPacket) Size() int {
	return packetSize(&v.Name, &v.TransactionId, &v.Command, v.Desc)
}

func (v *RtmpPlayResPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, &v.TransactionId, &v.Command, v.Desc)
}

func (v *RtmpPlayResPacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.Name, &v.TransactionId, &v.Command, v.Desc)
}

func (v *RtmpPlayResPacket) PreferCid() uint32 {
	return RtmpCidOverStream
}

func (v *RtmpPlayResPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0CommandMessage
}

// 4.2.8. pause
// The client sends the pause command to tell the server to pause or
// start playing.
type RtmpPausePacket struct {
	// Name of the command, set to "pause".
	Name Amf0String
	// There is no transaction ID for this command. Set to 0.
	TransactionId Amf0Number
	// Command information object does not exist. Set to null type.
	Command Amf0Null
	// true or false, to indicate pausing or resuming play
	IsPause Amf0Boolean
	// Number of milliseconds at which the the stream is paused or play resumed.
	// This is the current stream time at the Client when stream was paused. When the
	// playback is resumed, the server will only send messages with timestamps
	// greater than this value.
	TimeMs Amf0Number
}

func NewRtmpPausePacket() RtmpPacket {
	return &RtmpPausePacket{
		Name: Amf0String(Amf0CommandPause),
	}
}

func (v *RtmpPausePacket) Size() int {
	return packetSize(&v.Name, &v.TransactionId, &v.Command, &v.IsPause, &v.TimeMs)
}

func (v *RtmpPausePacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, &v.TransactionId, &v.Command, &v.IsPause, &v.TimeMs)
}

func (v *RtmpPausePacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.Name, &v.TransactionId, &v.Command, &v.IsPause, &v.TimeMs)
}

func (v *RtmpPausePacket) PreferCid() uint32 {
	return RtmpCidOverStream
}

func (v *RtmpPausePacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0CommandMessage
}

// FMLE/flash publish
// 4.2.6. Publish
// The client sends the publish command to publish a named stream to the
// server. Using this name, any client can play this stream and receive
// the published audio, video, and data messages.
type RtmpPublishPacket struct {
	// Name of the command, set to "publish".
	Name Amf0String
	// Transaction ID set to 0.
	TransactionId Amf0Number
	// Command information object does not exist. Set to null type.
	Command Amf0Null
	// Name with which the stream is published.
	Stream Amf0String
	// Type of publishing. Set to "live", "record", or "append".
	//   record: The stream is published and the data is recorded to a new file.
	//   append: The stream is published and the data is appended to a file.
	//   live: Live data is published without recording it in a file.
	// @remark, optional, default to live.
	Type *Amf0String
}

func NewRtmpPublishPacket() RtmpPacket {
	return &RtmpPublishPacket{
		Name: Amf0String(Amf0CommandPublish),
	}
}

func (v *RtmpPublishPacket) Size() int {
	return packetSize(&v.Name, &v.TransactionId, &v.Command, &v.Stream, v.Type)
}

func (v *RtmpPublishPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, &v.TransactionId, &v.Command, &v.Stream, v.Type)
}

func (v *RtmpPublishPacket) UnmarshalBinary(data []byte) (err error) {
	b := bytes.NewBuffer(data)
	if err = core.Unmarshals(b, &v.Name, &v.TransactionId, &v.Command, &v.Stream); err != nil {
		return
	}
	if b.Len() > 0 {
		v.Type = NewAmf0String("")
		return core.Unmarshals(b, v.Type)
	}
	return
}

func (v *RtmpPublishPacket) PreferCid() uint32 {
	return RtmpCidOverStream
}

func (v *RtmpPublishPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0CommandMessage
}

// onStatus command, AMF0 Call
// @remark, user must set the stream_id in header.
type RtmpOnStatusCallPacket struct {
	// Name of command. Set to "onStatus"
	Name Amf0String
	// Transaction ID set to 0.
	TransactionId Amf0Number
	// Command information does not exist. Set to null type.
	Args Amf0Null
	// Name-value pairs that describe the response from the server.
	// 'code','level', 'description' are names of few among such information.
	Data *Amf0Object
}

func NewRtmpOnStatusCallPacket() RtmpPacket {
	return &RtmpOnStatusCallPacket{
		Name: Amf0String(Amf0CommandOnStatus),
		Data: NewAmf0Object(),
	}
}

func (v *RtmpOnStatusCallPacket) Size() int {
	return packetSize(&v.Name, &v.TransactionId, &v.Args, v.Data)
}

func (v *RtmpOnStatusCallPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, &v.TransactionId, &v.Args, v.Data)
}

func (v *RtmpOnStatusCallPacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.Name, &v.TransactionId, &v.Args, v.Data)
}

func (v *RtmpOnStatusCallPacket) PreferCid() uint32 {
	return RtmpCidOverStream
}

func (v *RtmpOnStatusCallPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0CommandMessage
}

// onStatus data, AMF0 Data
// @remark, user must set the stream_id in header.
type RtmpOnStatusDataPacket struct {
	// Name of command. Set to "onStatus"
	Name Amf0String
	// Name-value pairs that describe the response from the server.
	// 'code', are names of few among such information.
	Data *Amf0Object
}

func NewRtmpOnStatusDataPacket() RtmpPacket {
	return &RtmpOnStatusDataPacket{
		Name: Amf0String(Amf0CommandOnStatus),
		Data: NewAmf0Object(),
	}
}

func (v *RtmpOnStatusDataPacket) Size() int {
	return packetSize(&v.Name, v.Data)
}

func (v *RtmpOnStatusDataPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, v.Data)
}

func (v *RtmpOnStatusDataPacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.Name, v.Data)
}

func (v *RtmpOnStatusDataPacket) PreferCid() uint32 {
	return RtmpCidOverStream
}

func (v *RtmpOnStatusDataPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0DataMessage
}

// AMF0Data RtmpSampleAccess
// @remark, user must set the stream_id in header.
type RtmpSampleAccessPacket struct {
	// Name of command. Set to "|RtmpSampleAccess".
	Name Amf0String
	// whether allow access the sample of video.
	// @see: https://github.com/ossrs/srs/issues/49
	VideoSampleAccess Amf0Boolean
	// whether allow access the sample of audio.
	// @see: https://github.com/ossrs/srs/issues/49
	AudioSampleAccess Amf0Boolean
}

func NewRtmpSampleAccessPacket() RtmpPacket {
	return &RtmpSampleAccessPacket{
		Name: Amf0String(Amf0DataSampleAccess),
	}
}

func (v *RtmpSampleAccessPacket) Size() int {
	return packetSize(&v.Name, &v.VideoSampleAccess, &v.AudioSampleAccess)
}

func (v *RtmpSampleAccessPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, &v.VideoSampleAccess, &v.AudioSampleAccess)
}

func (v *RtmpSampleAccessPacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.Name, &v.VideoSampleAccess, &v.AudioSampleAccess)
}

func (v *RtmpSampleAccessPacket) PreferCid() uint32 {
	return RtmpCidOverStream
}

func (v *RtmpSampleAccessPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0DataMessage
}

// the stream metadata.
// FMLE: @setDataFrame
// others: onMetaData
type RtmpOnMetaDataPacket struct {
	// Name of metadata. Set to "onMetaData"
	Name Amf0String
	// Metadata of stream, an object or an ecma-array.
	Metadata Amf0Any
}

func NewRtmpOnMetaDataPacket() RtmpPacket {
	return &RtmpOnMetaDataPacket{
		Name:     Amf0String(Amf0DataOnMetaData),
		Metadata: NewAmf0EcmaArray(),
	}
}

func (v *RtmpOnMetaDataPacket) Size() int {
	return packetSize(&v.Name, v.Metadata)
}

func (v *RtmpOnMetaDataPacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, v.Metadata)
}

func (v *RtmpOnMetaDataPacket) UnmarshalBinary(data []byte) (err error) {
	b := bytes.NewBuffer(data)
	if err = core.Unmarshals(b, &v.Name); err != nil {
		return
	}

	// ignore the @setDataFrame wrapper of FMLE.
	if string(v.Name) == Amf0DataSetDataFrame {
		if err = core.Unmarshals(b, &v.Name); err != nil {
			return
		}
	}

	// the metadata maybe object or ecma array.
	if v.Metadata, err = Amf0Discovery(b.Bytes()); err != nil {
		return
	}
	return core.Unmarshals(b, v.Metadata)
}

func (v *RtmpOnMetaDataPacket) PreferCid() uint32 {
	return RtmpCidOverConnection2
}

func (v *RtmpOnMetaDataPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0DataMessage
}

// onBWDone, server response the bandwidth test is done to client.
type RtmpOnBwDonePacket struct {
	// Name of command. Set to "onBWDone"
	Name Amf0String
	// Transaction ID set to 0.
	TransactionId Amf0Number
	// Command information does not exist. Set to null type.
	Args Amf0Null
}

func NewRtmpOnBwDonePacket() RtmpPacket {
	return &RtmpOnBwDonePacket{
		Name: Amf0String(Amf0CommandOnBwDone),
	}
}

func (v *RtmpOnBwDonePacket) Size() int {
	return packetSize(&v.Name, &v.TransactionId, &v.Args)
}

func (v *RtmpOnBwDonePacket) MarshalBinary() (data []byte, err error) {
	return core.Marshals(&v.Name, &v.TransactionId, &v.Args)
}

func (v *RtmpOnBwDonePacket) UnmarshalBinary(data []byte) (err error) {
	return core.Unmarshals(bytes.NewBuffer(data), &v.Name, &v.TransactionId, &v.Args)
}

func (v *RtmpOnBwDonePacket) PreferCid() uint32 {
	return RtmpCidOverConnection
}

func (v *RtmpOnBwDonePacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0CommandMessage
}

// the empty packet, for the decoded and ignored message, for example,
// the _result without a matched transaction.
type RtmpEmptyPacket struct {
	Id Amf0Number
}

func NewRtmpEmptyPacket() RtmpPacket {
	return &RtmpEmptyPacket{}
}

func (v *RtmpEmptyPacket) Size() int {
	return 0
}

func (v *RtmpEmptyPacket) MarshalBinary() (data []byte, err error) {
	return
}

func (v *RtmpEmptyPacket) UnmarshalBinary(data []byte) (err error) {
	return
}

func (v *RtmpEmptyPacket) PreferCid() uint32 {
	return RtmpCidOverConnection
}

func (v *RtmpEmptyPacket) MessageType() RtmpMessageType {
	return RtmpMsgAMF0CommandMessage
}
