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

import "time"

const (
	// timeout for rtmp.
	HandshakeTimeout   = 2100 * time.Millisecond
	ConnectAppTimeout  = 5000 * time.Millisecond
	IdentifyTimeout    = ConnectAppTimeout
	FmlePublishTimeout = IdentifyTimeout
	PublishRecvTimeout = 30 * time.Second
)

// 6.1.2. Chunk Message Header
// There are four different formats for the chunk message header,
// selected by the "fmt" field in the chunk basic header.
const (
	// 6.1.2.1. Type 0
	// Chunks of Type 0 are 11 bytes long. This type MUST be used at the
	// start of a chunk stream, and whenever the stream timestamp goes
	// backward (e.g., because of a backward seek).
	RtmpFmtType0 = iota
	// 6.1.2.2. Type 1
	// Chunks of Type 1 are 7 bytes long. The message stream ID is not
	// included; this chunk takes the same stream ID as the preceding chunk.
	RtmpFmtType1
	// 6.1.2.3. Type 2
	// Chunks of Type 2 are 3 bytes long. Neither the stream ID nor the
	// message length is included; this chunk has the same stream ID and
	// message length as the preceding chunk.
	RtmpFmtType2
	// 6.1.2.4. Type 3
	// Chunks of Type 3 have no header. Stream ID, message length and
	// timestamp delta are not present; chunks of this type take values
	// from the preceding chunk. When a single message is split into
	// chunks, all chunks of a message except the first one SHOULD use
	// this type.
	RtmpFmtType3
)

const (
	// the chunk stream id used for some under-layer message,
	// for example, the PC(protocol control) message.
	RtmpCidProtocolControl = 0x02 + iota
	// the AMF0/AMF3 command message, invoke method and return the result,
	// over NetConnection. generally use 0x03.
	RtmpCidOverConnection
	// the AMF0/AMF3 command message, invoke method and return the result,
	// over NetConnection, the midst state(we guess).
	// rarely used, e.g. onStatus(NetStream.Play.Reset).
	RtmpCidOverConnection2
	// the stream message(amf0/amf3), over NetStream.
	// generally use 0x05.
	RtmpCidOverStream
	// the stream message(audio), over NetStream.
	// generally use 0x06.
	RtmpCidAudio
	// the stream message(video), over NetStream
	// generally use 0x07.
	RtmpCidVideo
	// the stream message(amf0/amf3), over NetStream, the midst state(we guess).
	// rarely used, e.g. play("mp4:mystram.f4v")
	RtmpCidOverStream2
)

// 6.1. Chunk Format
// Extended timestamp: 0 or 4 bytes
// This field MUST be sent when the normal timsestamp is set to
// 0xffffff, it MUST NOT be sent if the normal timestamp is set to
// anything else.
const RtmpExtendedTimestamp = 0xFFFFFF

// the default chunk size for system.
const RtmpServerChunkSize = 60000

// 6. Chunking, RTMP protocol default chunk size.
const RtmpProtocolChunkSize = 128

// 6. Chunking
// The chunk size is configurable. It can be set using a control
// message(Set Chunk Size) as described in section 7.1. The maximum
// chunk size can be 65536 bytes and minimum 128 bytes. Chunk size is
// maintained independently for each direction.
const RtmpMinChunkSize = 128
const RtmpMaxChunkSize = 65536

// max rtmp header size:
//
//	1bytes basic header,
//	11bytes message header,
//	4bytes timestamp header.
const RtmpMaxChunkHeader = 16

// the default maximum payload size of a message, the packet
// bigger than this is treated as an attack.
const RtmpMaxPayloadSize = 32 * 1024 * 1024

// the default window ack size, the peer acknowledges each time
// this many bytes arrived.
const RtmpDefaultAckWindow = 2500000

// the preloaded group messages.
const RtmpDefaultMwMessages = 25

// the number of chunk header caches for the vectored writes,
// each message consumes one for c0 and one for each c3, plus one for
// the extended timestamp of each chunk when present.
const RtmpC0C3HeaderCaches = 128

const (
	// amf0 command message, command name macros
	Amf0CommandConnect       = "connect"
	Amf0CommandCreateStream  = "createStream"
	Amf0CommandCloseStream   = "closeStream"
	Amf0CommandPlay          = "play"
	Amf0CommandPause         = "pause"
	Amf0CommandOnBwDone      = "onBWDone"
	Amf0CommandOnStatus      = "onStatus"
	Amf0CommandResult        = "_result"
	Amf0CommandError         = "_error"
	Amf0CommandReleaseStream = "releaseStream"
	Amf0CommandFcPublish     = "FCPublish"
	Amf0CommandUnpublish     = "FCUnpublish"
	Amf0CommandPublish       = "publish"
	Amf0DataSampleAccess     = "|RtmpSampleAccess"
	Amf0DataSetDataFrame     = "@setDataFrame"
	Amf0DataOnMetaData       = "onMetaData"

	// FMLE
	Amf0CommandOnFcPublish   = "onFCPublish"
	Amf0CommandOnFcUnpublish = "onFCUnpublish"

	// the signature for packets to client.
	RtmpSigFmsVer   = "3,5,3,888"
	RtmpSigAmf0Ver  = 0
	RtmpSigClientId = "ASAICiss"

	// onStatus consts.
	StatusLevel       = "level"
	StatusCode        = "code"
	StatusDescription = "description"
	StatusDetails     = "details"
	StatusClientId    = "clientid"
	// status value
	StatusLevelStatus = "status"
	// status error
	StatusLevelError = "error"
	// code value
	StatusCodeConnectSuccess   = "NetConnection.Connect.Success"
	StatusCodeConnectRejected  = "NetConnection.Connect.Rejected"
	StatusCodeStreamReset      = "NetStream.Play.Reset"
	StatusCodeStreamStart      = "NetStream.Play.Start"
	StatusCodeStreamPause      = "NetStream.Pause.Notify"
	StatusCodeStreamUnpause    = "NetStream.Unpause.Notify"
	StatusCodePublishStart     = "NetStream.Publish.Start"
	StatusCodeDataStart        = "NetStream.Data.Start"
	StatusCodeUnpublishSuccess = "NetStream.Unpublish.Success"
)

// the rtmp default vhost and app.
const RtmpDefaultVhost = "__defaultVhost__"
const RtmpDefaultApp = "__defaultApp__"

// the rtmp default port.
const RtmpDefaultPort = 1935
