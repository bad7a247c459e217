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
	"time"

	"github.com/winlinvip/go-srs-librtmp/core"
)

// the ack window: when the received bytes pass the acked bytes over the
// window, an Acknowledgement is emitted and the acked bytes catch up.
type ackWindow struct {
	window     uint32
	ackedBytes int64
}

// the cap of the transaction table, to prevent malicious growth,
// entries are evicted on response receipt.
const rtmpMaxTransactions = 1024

// RtmpStack is the RTMP protocol stack over a transport: it decodes
// incoming chunks to whole messages and typed packets, encodes outgoing
// messages as one-or-more chunks with per-cid header compression, and
// transparently answers the protocol control dialogue.
type RtmpStack struct {
	ctx core.Context

	// the transport and the inbound fast buffer.
	io ReadWriter
	in *FastBuffer

	// the chunk decode states, the array cache for small cids
	// plus the map for the long tail.
	// @see https://github.com/ossrs/srs/issues/249
	csCache [64]*RtmpChunk
	chunks  map[uint32]*RtmpChunk

	// input chunk size, default to 128, set by peer packet.
	inChunkSize uint32
	// output chunk size, default to 128, set by config or api.
	outChunkSize uint32

	// the input and output ack windows.
	inAckSize  ackWindow
	outAckSize ackWindow

	// requests sent out, used to build the response,
	// key: transactionId, value: the request command name.
	requests map[float64]string
	// the transaction id for the next request.
	nextTransactionId float64

	// whether auto response when recv messages:
	// acknowledgement to the window crossing, pong to the ping.
	// default to true.
	// @see: https://github.com/ossrs/srs/issues/217
	autoResponse bool
	// when not auto response, the responses are queued here,
	// flushed by ManualResponseFlush.
	manualQueue []RtmpPacket

	// the chunk header c0, c3 and extended-timestamp caches for the
	// vectored writes; fixed size, fallback to flush when dry.
	c0c3Cache [][]byte
	// whether warned user that the c0c3 cache is dry.
	warnedC0C3CacheDry bool
	// the cache for the iovs.
	iovsCache [][]byte
}

func NewRtmpStack(ctx core.Context, io ReadWriter) *RtmpStack {
	v := &RtmpStack{
		ctx:               ctx,
		io:                io,
		in:                NewFastBuffer(io),
		chunks:            make(map[uint32]*RtmpChunk),
		inChunkSize:       RtmpProtocolChunkSize,
		outChunkSize:      RtmpProtocolChunkSize,
		requests:          make(map[float64]string),
		nextTransactionId: 2.0,
		autoResponse:      true,
	}

	v.c0c3Cache = make([][]byte, RtmpC0C3HeaderCaches)
	for i := 0; i < len(v.c0c3Cache); i++ {
		v.c0c3Cache[i] = make([]byte, RtmpMaxChunkHeader)
	}
	v.iovsCache = make([][]byte, 0, RtmpDefaultMwMessages*4)

	return v
}

// SetAutoResponse sets whether auto respond the ack and ping when recv.
// When disabled, replies are queued until ManualResponseFlush.
func (v *RtmpStack) SetAutoResponse(auto bool) {
	v.autoResponse = auto
}

// ManualResponseFlush sends out all queued responses in order.
func (v *RtmpStack) ManualResponseFlush() (err error) {
	for len(v.manualQueue) > 0 {
		p := v.manualQueue[0]
		v.manualQueue = v.manualQueue[1:]

		if err = v.SendPacket(p, 0); err != nil {
			return
		}
	}
	return
}

// InChunkSize returns the chunk size for decoding.
func (v *RtmpStack) InChunkSize() uint32 {
	return v.inChunkSize
}

// OutChunkSize returns the chunk size for encoding.
func (v *RtmpStack) OutChunkSize() uint32 {
	return v.outChunkSize
}

// SetRecvTimeout proxies the transport recv timeout.
func (v *RtmpStack) SetRecvTimeout(tm time.Duration) {
	v.io.SetRecvTimeout(tm)
}

// SetSendTimeout proxies the transport send timeout.
func (v *RtmpStack) SetSendTimeout(tm time.Duration) {
	v.io.SetSendTimeout(tm)
}

// RecvBytes returns the total bytes received from the transport.
func (v *RtmpStack) RecvBytes() int64 {
	return v.io.RecvBytes()
}

// SendBytes returns the total bytes sent to the transport.
func (v *RtmpStack) SendBytes() int64 {
	return v.io.SendBytes()
}

// fetch or create the chunk decode state of cid.
func (v *RtmpStack) chunkOf(cid uint32) *RtmpChunk {
	if cid < uint32(len(v.csCache)) {
		if c := v.csCache[cid]; c != nil {
			return c
		}

		c := NewRtmpChunk(cid)
		v.csCache[cid] = c
		return c
	}

	if c, ok := v.chunks[cid]; ok {
		return c
	}

	c := NewRtmpChunk(cid)
	v.chunks[cid] = c
	return c
}

// ReadMessage reads a whole message from the chunk stream, reassembling
// the interlaced chunks by cid. The empty messages are dropped.
func (v *RtmpStack) ReadMessage() (m *RtmpMessage, err error) {
	for m == nil {
		var format uint8
		var cid uint32
		if format, cid, err = rtmpReadBasicHeader(v.in); err != nil {
			if !core.IsNormalQuit(err) {
				core.Warn.Println(v.ctx, "read basic header failed. err is", err)
			}
			return
		}

		chunk := v.chunkOf(cid)

		if err = rtmpReadMessageHeader(v.ctx, v.in, format, chunk); err != nil {
			return
		}

		if m, err = rtmpReadMessagePayload(v.inChunkSize, v.in, chunk); err != nil {
			return
		}
	}

	if err = v.onRecvMessage(m); err != nil {
		return nil, err
	}

	return
}

// when recv message, update the context and answer the control dialogue.
func (v *RtmpStack) onRecvMessage(m *RtmpMessage) (err error) {
	ctx := v.ctx

	// acknowledgement, the predicate of the ack window.
	if v.inAckSize.window > 0 && v.io.RecvBytes()-v.inAckSize.ackedBytes >= int64(v.inAckSize.window) {
		v.inAckSize.ackedBytes = v.io.RecvBytes()

		p := NewRtmpAcknowledgementPacket().(*RtmpAcknowledgementPacket)
		p.SequenceNumber = RtmpUint32(uint32(v.inAckSize.ackedBytes))

		if err = v.response(p); err != nil {
			return
		}
	}

	switch m.MessageType {
	case RtmpMsgSetChunkSize, RtmpMsgUserControlMessage, RtmpMsgWindowAcknowledgementSize, RtmpMsgAbortMessage:
		// we will handle these packets.
	default:
		return
	}

	var p RtmpPacket
	if p, err = v.DecodeMessage(m); err != nil {
		return
	}

	switch p := p.(type) {
	case *RtmpSetChunkSizePacket:
		// a peer out of the chunk size range corrupts the whole stream,
		// refuse it. @see https://github.com/ossrs/srs/issues/160
		if p.ChunkSize < RtmpMinChunkSize || p.ChunkSize > RtmpMaxChunkSize {
			core.Error.Println(ctx, "invalid chunk size", p.ChunkSize)
			return ErrChunkSize
		}

		v.inChunkSize = uint32(p.ChunkSize)
		core.Trace.Println(ctx, "input chunk size to", v.inChunkSize)
	case *RtmpSetWindowAckSizePacket:
		if p.Ack > 0 {
			v.inAckSize.window = uint32(p.Ack)
		}
	case *RtmpUserControlPacket:
		if RtmpPcucEventType(p.EventType) == RtmpPcucPingRequest {
			res := NewRtmpUserControlPacket().(*RtmpUserControlPacket)
			res.EventType = RtmpUint16(RtmpPcucPingResponse)
			res.EventData = p.EventData

			if err = v.response(res); err != nil {
				return
			}
		}
	case *RtmpAbortPacket:
		// discard the partially received message of the chunk stream.
		c := v.chunkOf(uint32(p.ChunkStreamId))
		c.partial = nil
	}

	return
}

// answer the control dialogue, directly when auto response or queue
// for the manual flush.
func (v *RtmpStack) response(p RtmpPacket) (err error) {
	if !v.autoResponse {
		v.manualQueue = append(v.manualQueue, p)
		return
	}

	return v.SendPacket(p, 0)
}

// when sent a packet, update the context.
func (v *RtmpStack) onSendPacket(p RtmpPacket) (err error) {
	switch p := p.(type) {
	case *RtmpSetChunkSizePacket:
		if p.ChunkSize < RtmpMinChunkSize || p.ChunkSize > RtmpMaxChunkSize {
			return ErrChunkSize
		}
		v.outChunkSize = uint32(p.ChunkSize)
		core.Trace.Println(v.ctx, "output chunk size to", v.outChunkSize)
	case *RtmpSetWindowAckSizePacket:
		v.outAckSize.window = uint32(p.Ack)
	case *RtmpConnectAppPacket:
		v.recordRequest(float64(p.TransactionId), string(p.Name))
	case *RtmpCreateStreamPacket:
		v.recordRequest(float64(p.TransactionId), string(p.Name))
	case *RtmpFMLEStartPacket:
		v.recordRequest(float64(p.TransactionId), string(p.Name))
	}

	return
}

// record the request for the response dispatch by transaction id.
func (v *RtmpStack) recordRequest(transactionId float64, name string) {
	if len(v.requests) >= rtmpMaxTransactions {
		core.Warn.Println(v.ctx, "transaction table full, drop request", name)
		return
	}
	v.requests[transactionId] = name
}

// NextTransactionId allocates a transaction id, unique in this session.
// The transaction 1 is reserved for the connect request.
func (v *RtmpStack) NextTransactionId() float64 {
	id := v.nextTransactionId
	v.nextTransactionId++
	return id
}

// DecodeMessage decodes the bytes oriented message to a typed packet.
// @remark, nil packet and nil error for the unknown message to ignore.
func (v *RtmpStack) DecodeMessage(m *RtmpMessage) (p RtmpPacket, err error) {
	ctx := v.ctx

	if len(m.Payload) == 0 {
		return nil, ErrMsgInvalidSize
	}

	b := bytes.NewBuffer(m.Payload)

	if m.MessageType.isAmf0() || m.MessageType.isAmf3() {
		// skip 1bytes to decode the amf3 command.
		if m.MessageType.isAmf3() && b.Len() > 0 {
			b.ReadByte()
		}

		// amf0 command message, read the command name.
		var c Amf0String
		if err = c.UnmarshalBinary(b.Bytes()); err != nil {
			return
		}

		// the _result/_error packet has no name of the request, consult
		// the transaction table to recover it.
		if c == Amf0CommandResult || c == Amf0CommandError {
			var tid Amf0Number
			if err = tid.UnmarshalBinary(b.Bytes()[c.Size():]); err != nil {
				return
			}

			request, ok := v.requests[float64(tid)]
			if !ok {
				core.Warn.Println(ctx, "drop response of unknown transaction", float64(tid))
				p = NewRtmpEmptyPacket()
				return
			}
			delete(v.requests, float64(tid))

			switch request {
			case Amf0CommandConnect:
				p = NewRtmpConnectAppResPacket()
			case Amf0CommandCreateStream:
				p = NewRtmpCreateStreamResPacket()
			case Amf0CommandReleaseStream, Amf0CommandFcPublish, Amf0CommandUnpublish:
				p = NewRtmpFMLEStartResPacket()
			default:
				core.Warn.Println(ctx, "drop response of request", request)
				p = NewRtmpEmptyPacket()
				return
			}
		} else {
			switch c {
			case Amf0CommandConnect:
				p = NewRtmpConnectAppPacket()
			case Amf0CommandCreateStream:
				p = NewRtmpCreateStreamPacket()
			case Amf0CommandCloseStream:
				p = NewRtmpCloseStreamPacket()
			case Amf0CommandPlay:
				p = NewRtmpPlayPacket()
			case Amf0CommandPause:
				p = NewRtmpPausePacket()
			case Amf0CommandReleaseStream, Amf0CommandFcPublish, Amf0CommandUnpublish:
				p = NewRtmpFMLEStartPacket()
			case Amf0CommandPublish:
				p = NewRtmpPublishPacket()
			case Amf0CommandOnFcPublish, Amf0CommandOnFcUnpublish, "_checkbw":
				p = NewRtmpOnStatusCallPacket()
			case Amf0CommandOnStatus:
				if m.MessageType.IsData() {
					p = NewRtmpOnStatusDataPacket()
				} else {
					p = NewRtmpOnStatusCallPacket()
				}
			case Amf0CommandOnBwDone:
				p = NewRtmpOnBwDonePacket()
			case Amf0DataSetDataFrame, Amf0DataOnMetaData:
				p = NewRtmpOnMetaDataPacket()
			case Amf0DataSampleAccess:
				p = NewRtmpSampleAccessPacket()
			default:
				core.Trace.Println(ctx, "drop command message, name is", c)
				return
			}
		}
	} else if m.MessageType == RtmpMsgUserControlMessage {
		p = NewRtmpUserControlPacket()
	} else if m.MessageType == RtmpMsgWindowAcknowledgementSize {
		p = NewRtmpSetWindowAckSizePacket()
	} else if m.MessageType == RtmpMsgSetChunkSize {
		p = NewRtmpSetChunkSizePacket()
	} else if m.MessageType == RtmpMsgAcknowledgement {
		p = NewRtmpAcknowledgementPacket()
	} else if m.MessageType == RtmpMsgAbortMessage {
		p = NewRtmpAbortPacket()
	} else if m.MessageType == RtmpMsgSetPeerBandwidth {
		p = NewRtmpSetPeerBandwidthPacket()
	} else {
		core.Trace.Println(ctx, "drop unknown message, type is", m.MessageType)
		return
	}

	if p != nil {
		if err = p.UnmarshalBinary(b.Bytes()); err != nil {
			return nil, err
		}
	}

	return
}

// SendPacket marshals the packet to a message then sends it out over
// the stream sid.
func (v *RtmpStack) SendPacket(p RtmpPacket, sid uint32) (err error) {
	m := NewRtmpMessage()

	if m.Payload, err = p.MarshalBinary(); err != nil {
		return
	}

	m.MessageType = p.MessageType()
	m.PreferCid = p.PreferCid()
	m.StreamId = sid

	if err = v.SendMessages(m); err != nil {
		return
	}

	return v.onSendPacket(p)
}

// SendFreeMessage sends the shared message and always releases the
// share, whatever the result. The caller must never use the msg after
// this method.
func (v *RtmpStack) SendFreeMessage(m *SharedPtrMessage) (err error) {
	defer m.Free()
	return v.SendMessages(m.ToMessage())
}

// SendFreeMessages sends the batch of shared messages over the stream,
// always releasing all shares.
func (v *RtmpStack) SendFreeMessages(msgs ...*SharedPtrMessage) (err error) {
	defer func() {
		for _, m := range msgs {
			m.Free()
		}
	}()

	ms := make([]*RtmpMessage, 0, len(msgs))
	for _, m := range msgs {
		ms = append(ms, m.ToMessage())
	}

	return v.SendMessages(ms...)
}

// fetch a header cache for the c0 or c3 header; when the fixed cache is
// dry, flush the pending iovs first then restart from the head.
func (v *RtmpStack) fetchC0C3Cache(index int, iovs [][]byte) (nextIndex int, iov []byte, niovs [][]byte, err error) {
	if index < len(v.c0c3Cache) {
		return index + 1, v.c0c3Cache[index], iovs, nil
	}

	// the cache is dry, rollback to serial writes.
	if !v.warnedC0C3CacheDry {
		v.warnedC0C3CacheDry = true
		core.Warn.Println(v.ctx, "c0c3 cache dry, fallback to serial writes.")
	}

	if _, err = v.io.WriteVectors(iovs...); err != nil {
		return
	}

	return 1, v.c0c3Cache[0], v.iovsCache[0:0], nil
}

// SendMessages sends out all messages, in order, each chunked
// atomically: the chunks of different messages never interleave on
// the wire from this side. Batching is a performance optimisation,
// correctness equals sequential per-message sends.
func (v *RtmpStack) SendMessages(msgs ...*RtmpMessage) (err error) {
	// cache the messages to send to decrease the syscall.
	iovs := v.iovsCache[0:0]

	var iovIndex int
	var iov []byte

	for _, m := range msgs {
		if len(m.Payload) == 0 {
			continue
		}

		for written := uint32(0); written < uint32(len(m.Payload)); {
			if firstChunk := written == 0; firstChunk {
				// the fmt0 is 12bytes header.
				if iovIndex, iov, iovs, err = v.fetchC0C3Cache(iovIndex, iovs); err != nil {
					return
				}
				iovs = append(iovs, iov[0:12])

				// write new chunk stream header, fmt is 0
				iov[0] = byte(m.PreferCid) & 0x3f

				// chunk message header, 11 bytes
				// timestamp, 3bytes, big-endian
				if m.Timestamp < RtmpExtendedTimestamp {
					iov[1] = byte(m.Timestamp >> 16)
					iov[2] = byte(m.Timestamp >> 8)
					iov[3] = byte(m.Timestamp)
				} else {
					iov[1] = 0xff
					iov[2] = 0xff
					iov[3] = 0xff
				}

				// message_length, 3bytes, big-endian
				iov[4] = byte(len(m.Payload) >> 16)
				iov[5] = byte(len(m.Payload) >> 8)
				iov[6] = byte(len(m.Payload))

				// message_type, 1bytes
				iov[7] = byte(m.MessageType)

				// stream_id, 4bytes, little-endian
				iov[8] = byte(m.StreamId)
				iov[9] = byte(m.StreamId >> 8)
				iov[10] = byte(m.StreamId >> 16)
				iov[11] = byte(m.StreamId >> 24)
			} else {
				// the fmt3 is 1bytes header,
				// @remark, if perfer_cid > 0x3F, that is, use 2B/3B chunk header,
				// we rollback to 1B chunk header.
				if iovIndex, iov, iovs, err = v.fetchC0C3Cache(iovIndex, iovs); err != nil {
					return
				}
				iovs = append(iovs, iov[0:1])

				iov[0] = 0xC0 | (byte(m.PreferCid) & 0x3f)
			}

			// chunk extended timestamp header, 0 or 4 bytes, big-endian
			//
			// 6.1.3. Extended Timestamp
			// This field is transmitted only when the normal time stamp in the
			// chunk message header is set to 0x00ffffff. Type 3 chunks MUST NOT
			// have this field per specification, however adobe changed it:
			//        FMLE always sendout the extended-timestamp,
			//        must send the extended-timestamp to FMS,
			//        must send the extended-timestamp to flash-player.
			// @see: ngx_rtmp_prepare_message
			// @see: http://blog.csdn.net/win_lin/article/details/13363699
			if m.Timestamp >= RtmpExtendedTimestamp {
				if iovIndex, iov, iovs, err = v.fetchC0C3Cache(iovIndex, iovs); err != nil {
					return
				}
				iovs = append(iovs, iov[0:4])

				// big-endian.
				iov[0] = byte(m.Timestamp >> 24)
				iov[1] = byte(m.Timestamp >> 16)
				iov[2] = byte(m.Timestamp >> 8)
				iov[3] = byte(m.Timestamp)
			}

			// write chunk payload
			size := uint32(len(m.Payload)) - written
			if size > v.outChunkSize {
				size = v.outChunkSize
			}
			iovs = append(iovs, m.Payload[written:written+size])

			written += size
		}
	}

	if _, err = v.io.WriteVectors(iovs...); err != nil {
		return
	}

	return
}

// ExpectMessage reads messages until a packet of type T is got, the
// uninteresting packets are dropped silently. On timeout or close of
// the transport, the error surfaces unchanged.
func ExpectMessage[T RtmpPacket](v *RtmpStack) (m *RtmpMessage, pkt T, err error) {
	for {
		if m, err = v.ReadMessage(); err != nil {
			return
		}

		var p RtmpPacket
		if p, err = v.DecodeMessage(m); err != nil {
			// skip the messages we cannot decode to packet.
			if err == ErrMsgInvalidSize {
				err = nil
				continue
			}
			return
		}
		if p == nil {
			continue
		}

		if t, ok := p.(T); ok {
			pkt = t
			return
		}
	}
}
