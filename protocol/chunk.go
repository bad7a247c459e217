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
	"github.com/winlinvip/go-srs-librtmp/core"
)

// RtmpChunk is the decode state of one incoming chunk stream: the last
// full header snapshot, the extended timestamp discipline and the
// partial payload accumulator.
// Incoming chunk streams maybe interlaced, the protocol holds one
// RtmpChunk per cid to reassemble the messages.
type RtmpChunk struct {
	// the fmt of the last basic header.
	fmt uint8
	// the cid of basic header.
	cid uint32

	// the last full message header snapshot.
	// 3bytes. Three-byte field that contains a timestamp delta of the
	// message, set in big-endian, only for decoding.
	timestampDelta uint32
	// 3bytes. Three-byte field that represents the size of the payload
	// in bytes, set in big-endian format.
	payloadLength uint32
	// 1byte. One byte field to represent the message type.
	messageType uint8
	// 4bytes. Four-byte field that identifies the stream of the message,
	// set in little-endian format.
	streamId uint32

	// the calculated timestamp of the current message.
	timestamp uint64
	// whether this chunk stream carries the extended timestamp.
	hasExtendedTimestamp bool

	// the partially read message, nil when no message in flight.
	partial *RtmpMessage
	// the count of decoded messages, zero means fresh chunk stream.
	msgCount int64
}

func NewRtmpChunk(cid uint32) *RtmpChunk {
	return &RtmpChunk{cid: cid}
}

// whether no message of this chunk stream completed yet and none
// is in flight.
func (v *RtmpChunk) isFresh() bool {
	return v.msgCount == 0 && v.partial == nil
}

// 6.1.1. Chunk Basic Header
// The Chunk Basic Header encodes the chunk stream ID and the chunk
// type(represented by fmt field). Chunk Basic Header field may be
// 1, 2, or 3 bytes, depending on the chunk stream ID.
//
// Chunk stream IDs 2-63 can be encoded in the 1-byte version:
//
//	 0 1 2 3 4 5 6 7
//	+-+-+-+-+-+-+-+-+
//	|fmt|   cs id   |
//	+-+-+-+-+-+-+-+-+
//
// Chunk stream IDs 64-319 can be encoded in the 2-byte version,
// ID is computed as (the second byte + 64).
// Chunk stream IDs 64-65599 can be encoded in the 3-byte version,
// ID is computed as ((the third byte)*256 + the second byte + 64).
// @remark cid 0 and 1 are the reserved encodings above.
func rtmpReadBasicHeader(in *FastBuffer) (format uint8, cid uint32, err error) {
	if err = in.Ensure(1); err != nil {
		return
	}

	var vb byte
	if vb, err = in.ReadByte(); err != nil {
		return
	}

	format = (vb >> 6) & 0x03
	cid = uint32(vb & 0x3f)

	// 2-63, 1B chunk header
	if cid >= 2 {
		return
	}

	// 64-319, 2B chunk header
	if cid == 0 {
		if err = in.Ensure(1); err != nil {
			return
		}
		if vb, err = in.ReadByte(); err != nil {
			return
		}

		return format, uint32(vb) + 64, nil
	}

	// 64-65599, 3B chunk header, cid is 1,
	// the id is the little-endian 2bytes plus 64.
	if err = in.Ensure(2); err != nil {
		return
	}

	p := in.Peek(2)
	cid = uint32(p[0]) + uint32(p[1])*256 + 64
	in.Consume(2)

	return
}

// parse the chunk message header.
//
//	3bytes: timestamp delta,    fmt=0,1,2
//	3bytes: payload length,     fmt=0,1
//	1bytes: message type,       fmt=0,1
//	4bytes: stream id,          fmt=0
//
// where:
//
//	fmt=0, 0x0X
//	fmt=1, 0x4X
//	fmt=2, 0x8X
//	fmt=3, 0xCX
func rtmpReadMessageHeader(ctx core.Context, in *FastBuffer, format uint8, chunk *RtmpChunk) (err error) {
	// we should not assert anything about fmt, for the first packet.
	// the fmt maybe 0/1/2/3, the FMLE will send a 0xC4 for some audio packet.
	// the previous packet is:
	//     04                // fmt=0, cid=4
	//     00 00 1a          // timestamp=26
	//     00 00 9d          // payload_length=157
	//     08                // message_type=8(audio)
	//     01 00 00 00       // stream_id=1
	// the current packet maybe:
	//     c4                // fmt=3, cid=4
	// and must be parsed as timestamp=26+26=52 with the previous header,
	// so we must apply the delta even for fmt=3 of a new message.
	isFirstChunkOfMsg := chunk.partial == nil

	// but, we can ensure that when a chunk stream is fresh,
	// the fmt must be 0, a new stream.
	if chunk.isFresh() && format != RtmpFmtType0 {
		// for librtmp, if ping, it will send a fresh stream with fmt=1,
		// 0x42             where: fmt=1, cid=2, protocol control user-control message
		// 0x00 0x00 0x00   where: timestamp=0
		// 0x00 0x00 0x06   where: payload_length=6
		// 0x04             where: message_type=4(protocol control user-control message)
		// 0x00 0x06            where: event Ping(0x06)
		// 0x00 0x00 0x0d 0x0f  where: event data 4bytes ping timestamp.
		// @see: https://github.com/ossrs/srs/issues/98
		if chunk.cid == RtmpCidProtocolControl && format == RtmpFmtType1 {
			core.Warn.Println(ctx, "accept cid=2,fmt=1 to make librtmp happy.")
		} else {
			core.Error.Println(ctx, "fresh chunk fmt must be 0, actual is", format)
			return ErrChunkStart
		}
	}

	// when a partial message exists, the fmt must not be type0
	// which means a new message.
	if !isFirstChunkOfMsg && format == RtmpFmtType0 {
		core.Error.Println(ctx, "chunk partial msg, fmt must not be 0")
		return ErrChunk
	}

	if chunk.partial == nil {
		chunk.partial = NewRtmpMessage()
	}

	// read the variable length message header by fmt.
	nbhs := [4]int{11, 7, 3, 0}
	nbh := nbhs[format]

	var bh []byte
	if nbh > 0 {
		if err = in.Ensure(nbh); err != nil {
			return
		}
		bh = in.Peek(nbh)
	}

	if format <= RtmpFmtType2 {
		delta := uint32(bh[2]) | uint32(bh[1])<<8 | uint32(bh[0])<<16

		// fmt: 0
		// timestamp: 3 bytes. If the timestamp is greater than or equal
		// to 16777215 (hexadecimal 0xffffff), this value MUST be
		// 16777215, and the 'extended timestamp header' MUST be present.
		//
		// fmt: 1 or 2
		// timestamp delta: 3 bytes, the same saturation discipline.
		if chunk.hasExtendedTimestamp = delta >= RtmpExtendedTimestamp; !chunk.hasExtendedTimestamp {
			// for a message, the delta must not change between chunks.
			if !isFirstChunkOfMsg && chunk.timestampDelta != delta {
				core.Error.Println(ctx, "chunk partial msg, should not change the delta.")
				return ErrChunk
			}

			chunk.timestampDelta = delta

			if format == RtmpFmtType0 {
				// 6.1.2.1. Type 0
				// For a type-0 chunk, the absolute timestamp of the
				// message is sent here.
				chunk.timestamp = uint64(delta)
			} else if isFirstChunkOfMsg {
				// 6.1.2.2/6.1.2.3. Type 1/2
				// the difference between the previous chunk's timestamp
				// and the current chunk's timestamp is sent here.
				// @remark for continuous chunks of one message, the
				// timestamp never changes.
				chunk.timestamp += uint64(delta)
			}
		}

		if format <= RtmpFmtType1 {
			payloadLength := uint32(bh[5]) | uint32(bh[4])<<8 | uint32(bh[3])<<16
			if payloadLength > RtmpMaxPayloadSize {
				core.Error.Println(ctx, "chunk payload size", payloadLength, "exceeds", RtmpMaxPayloadSize)
				return ErrPacketSize
			}

			mtype := bh[6]

			// for a message, the size and type must not change between chunks.
			if !isFirstChunkOfMsg && chunk.payloadLength != payloadLength {
				core.Error.Println(ctx, "chunk partial msg, payload length should not be changed.")
				return ErrChunk
			}
			if !isFirstChunkOfMsg && chunk.messageType != mtype {
				core.Error.Println(ctx, "chunk partial msg, type should not be changed.")
				return ErrChunk
			}
			chunk.payloadLength = payloadLength
			chunk.messageType = mtype

			if format == RtmpFmtType0 {
				// little-endian
				chunk.streamId = uint32(bh[7]) | uint32(bh[8])<<8 | uint32(bh[9])<<16 | uint32(bh[10])<<24
			}
		}

		in.Consume(nbh)
	} else {
		// fmt=3: reuse the whole last header, apply the delta when this
		// chunk opens a new message without extended timestamp.
		if isFirstChunkOfMsg && !chunk.hasExtendedTimestamp {
			chunk.timestamp += uint64(chunk.timestampDelta)
		}
	}

	// read extended-timestamp.
	if chunk.hasExtendedTimestamp {
		if err = in.Ensure(4); err != nil {
			return
		}

		p := in.Peek(4)
		timestamp := uint32(p[3]) | uint32(p[2])<<8 | uint32(p[1])<<16 | uint32(p[0])<<24
		// always use 31bits timestamp, for some server may use 32bits
		// extended timestamp. @see https://github.com/ossrs/srs/issues/111
		timestamp &= 0x7fffffff

		// RTMP specification and ffmpeg/librtmp is false, but, adobe
		// changed the specification, so flash/FMLE/FMS always true:
		// a type-3 continuation carries the extended timestamp again.
		// ffmpeg/librtmp may donot send this field, so for a
		// continuation chunk we sniff the 4 bytes ahead and only
		// consume them when they equal the recorded extended timestamp;
		// otherwise they are the payload of a non-conformant peer.
		// @see also: http://blog.csdn.net/win_lin/article/details/13363699
		ctimestamp := uint32(chunk.timestamp) & 0x7fffffff

		// if ctimestamp<=0, the chunk previous packet has no extended-timestamp,
		// always use the extended timestamp.
		// @remark for the first chunk of message, always use the extended timestamp.
		if isFirstChunkOfMsg || ctimestamp <= 0 || ctimestamp == timestamp {
			chunk.timestamp = uint64(timestamp)
			in.Consume(4)
		}
	}

	// the extended-timestamp must be unsigned-int,
	// and in a word, 31bits timestamp is ok.
	chunk.timestamp &= 0x7fffffff

	// copy header to msg
	chunk.partial.MessageType = RtmpMessageType(chunk.messageType)
	chunk.partial.Timestamp = chunk.timestamp
	chunk.partial.PreferCid = chunk.cid
	chunk.partial.StreamId = chunk.streamId

	chunk.fmt = format

	return
}

// read the payload of the partial message, at most one chunk size at a
// time. Returns the completed message, or nil when more chunks of this
// message are required.
func rtmpReadMessagePayload(chunkSize uint32, in *FastBuffer, chunk *RtmpChunk) (m *RtmpMessage, err error) {
	if chunk.partial == nil {
		panic("chunk partial message should never be nil")
	}

	// empty message of zero length, drop it.
	if chunk.payloadLength == 0 {
		chunk.partial = nil
		return nil, nil
	}

	if chunk.partial.Payload == nil {
		chunk.partial.Payload = make([]byte, 0, chunk.payloadLength)
	}

	// the chunk payload to read this time.
	left := int(chunk.payloadLength) - len(chunk.partial.Payload)
	if int(chunkSize) < left {
		left = int(chunkSize)
	}

	if err = in.Ensure(left); err != nil {
		return
	}
	chunk.partial.Payload = append(chunk.partial.Payload, in.Peek(left)...)
	in.Consume(left)

	// got entire RTMP message?
	if int(chunk.payloadLength) == len(chunk.partial.Payload) {
		m = chunk.partial
		chunk.partial = nil
		chunk.msgCount++
		return
	}

	// partial message.
	return nil, nil
}
