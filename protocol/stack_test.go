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
	"time"

	"github.com/winlinvip/go-srs-librtmp/core"
)

// the in-memory transport for tests.
type mockIO struct {
	in  bytes.Buffer
	out bytes.Buffer

	recvBytes int64
	sendBytes int64

	recvTimeout time.Duration
	sendTimeout time.Duration
}

func (v *mockIO) Read(p []byte) (n int, err error) {
	n, err = v.in.Read(p)
	v.recvBytes += int64(n)
	return
}

func (v *mockIO) Write(p []byte) (n int, err error) {
	n, err = v.out.Write(p)
	v.sendBytes += int64(n)
	return
}

func (v *mockIO) WriteVectors(iovs ...[]byte) (n int64, err error) {
	for _, iov := range iovs {
		var nn int
		if nn, err = v.out.Write(iov); err != nil {
			return
		}
		n += int64(nn)
	}
	v.sendBytes += n
	return
}

func (v *mockIO) SetRecvTimeout(tm time.Duration) { v.recvTimeout = tm }
func (v *mockIO) SetSendTimeout(tm time.Duration) { v.sendTimeout = tm }
func (v *mockIO) RecvTimeout() time.Duration      { return v.recvTimeout }
func (v *mockIO) SendTimeout() time.Duration      { return v.sendTimeout }
func (v *mockIO) RecvBytes() int64                { return v.recvBytes }
func (v *mockIO) SendBytes() int64                { return v.sendBytes }

var _ ReadWriter = (*mockIO)(nil)

// build the video message for tests.
func testVideoMessage(size int, timestamp uint64, sid uint32) *RtmpMessage {
	m := NewRtmpMessage()
	m.MessageType = RtmpMsgVideoMessage
	m.Timestamp = timestamp
	m.StreamId = sid
	m.PreferCid = RtmpCidVideo

	m.Payload = make([]byte, size)
	for i := range m.Payload {
		m.Payload[i] = byte(i)
	}
	return m
}

// encode the packet to the wire bytes of a whole message, by a
// scratch sender stack.
func encodePacket(t *testing.T, p RtmpPacket, sid uint32) []byte {
	io := &mockIO{}
	s := NewRtmpStack(core.NewContext(), io)
	if err := s.SendPacket(p, sid); err != nil {
		t.Fatal("encode packet failed, err is", err)
	}
	return io.out.Bytes()
}

// scenario: in_chunk_size=128, a 300-byte audio payload on cid 6 at
// timestamp 1000 is chunked as fmt0(12B) + 128B + fmt3(1B) + 128B +
// fmt3(1B) + 44B.
func TestSendMessageChunkLayout(t *testing.T) {
	io := &mockIO{}
	s := NewRtmpStack(core.NewContext(), io)

	m := NewRtmpMessage()
	m.MessageType = RtmpMsgAudioMessage
	m.Timestamp = 1000
	m.StreamId = 1
	m.PreferCid = RtmpCidAudio
	m.Payload = make([]byte, 300)

	if err := s.SendMessages(m); err != nil {
		t.Fatal(err)
	}

	b := io.out.Bytes()
	if len(b) != 12+128+1+128+1+44 {
		t.Fatal("invalid length", len(b))
	}

	// fmt0, cid6.
	if b[0] != 0x06 {
		t.Error("invalid basic header", b[0])
	}
	// timestamp 1000 = 0x0003e8.
	if b[1] != 0x00 || b[2] != 0x03 || b[3] != 0xe8 {
		t.Error("invalid timestamp", b[1:4])
	}
	// payload length 300 = 0x00012c.
	if b[4] != 0x00 || b[5] != 0x01 || b[6] != 0x2c {
		t.Error("invalid payload length", b[4:7])
	}
	// message type audio.
	if b[7] != 0x08 {
		t.Error("invalid message type", b[7])
	}
	// stream id 1, little-endian.
	if b[8] != 0x01 || b[9] != 0x00 || b[10] != 0x00 || b[11] != 0x00 {
		t.Error("invalid stream id", b[8:12])
	}

	// the fmt3 continuations.
	if b[12+128] != 0xc6 {
		t.Error("invalid continuation", b[12+128])
	}
	if b[12+128+1+128] != 0xc6 {
		t.Error("invalid continuation", b[12+128+1+128])
	}
}

// scenario: timestamp >= 0xFFFFFF is sent as the 0xFFFFFF marker plus
// the 4-byte extended timestamp on fmt0 and every fmt3 continuation.
func TestSendMessageExtendedTimestamp(t *testing.T) {
	io := &mockIO{}
	s := NewRtmpStack(core.NewContext(), io)

	m := testVideoMessage(300, 0x01000000, 1)
	m.PreferCid = 7

	if err := s.SendMessages(m); err != nil {
		t.Fatal(err)
	}

	b := io.out.Bytes()
	if len(b) != 12+4+128+1+4+128+1+4+44 {
		t.Fatal("invalid length", len(b))
	}

	// the timestamp field is saturated.
	if b[1] != 0xff || b[2] != 0xff || b[3] != 0xff {
		t.Error("invalid timestamp field", b[1:4])
	}

	ext := []byte{0x01, 0x00, 0x00, 0x00}

	// fmt0 carries the extended timestamp.
	if !bytes.Equal(b[12:16], ext) {
		t.Error("invalid extended timestamp", b[12:16])
	}

	// every fmt3 continuation carries it too.
	p := 12 + 4 + 128
	if b[p] != 0xc7 || !bytes.Equal(b[p+1:p+5], ext) {
		t.Error("invalid continuation", b[p:p+5])
	}
	p += 1 + 4 + 128
	if b[p] != 0xc7 || !bytes.Equal(b[p+1:p+5], ext) {
		t.Error("invalid continuation", b[p:p+5])
	}
}

// every round-tripped message through encode-decode with any valid
// chunk size recovers the header and payload byte-for-byte.
func TestMessageRoundTripChunkSizes(t *testing.T) {
	for _, chunkSize := range []int{128, 256, 1024, 4096, 65536} {
		sio := &mockIO{}
		sender := NewRtmpStack(core.NewContext(), sio)

		if cs, ok := NewRtmpSetChunkSizePacket().(*RtmpSetChunkSizePacket); ok {
			cs.ChunkSize = RtmpUint32(chunkSize)
			if err := sender.SendPacket(cs, 0); err != nil {
				t.Fatal(err)
			}
		}

		m := testVideoMessage(10000, 90017, 7)
		if err := sender.SendMessages(m); err != nil {
			t.Fatal(err)
		}

		rio := &mockIO{}
		rio.in.Write(sio.out.Bytes())
		receiver := NewRtmpStack(core.NewContext(), rio)

		// the first is the set-chunk-size control message.
		if cm, err := receiver.ReadMessage(); err != nil {
			t.Fatal(err)
		} else if cm.MessageType != RtmpMsgSetChunkSize {
			t.Fatal("invalid control message", cm.MessageType)
		}
		if receiver.InChunkSize() != uint32(chunkSize) {
			t.Fatal("chunk size not applied", receiver.InChunkSize())
		}

		d, err := receiver.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}

		if d.MessageType != m.MessageType || d.Timestamp != m.Timestamp || d.StreamId != m.StreamId {
			t.Error("chunk size", chunkSize, "header mismatch", d)
		}
		if !bytes.Equal(d.Payload, m.Payload) {
			t.Error("chunk size", chunkSize, "payload mismatch")
		}
	}
}

// the extended timestamp round trips through decode.
func TestMessageRoundTripExtendedTimestamp(t *testing.T) {
	sio := &mockIO{}
	sender := NewRtmpStack(core.NewContext(), sio)

	m := testVideoMessage(300, 0x01000000, 1)
	if err := sender.SendMessages(m); err != nil {
		t.Fatal(err)
	}

	rio := &mockIO{}
	rio.in.Write(sio.out.Bytes())
	receiver := NewRtmpStack(core.NewContext(), rio)

	d, err := receiver.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if d.Timestamp != 0x01000000 {
		t.Error("invalid timestamp", d.Timestamp)
	}
	if !bytes.Equal(d.Payload, m.Payload) {
		t.Error("payload mismatch")
	}
}

// scenario: with window=10000, after ingesting 25000+ bytes the peer
// received exactly two acknowledgements.
func TestAckWindowAutoResponse(t *testing.T) {
	var wire bytes.Buffer

	if p, ok := NewRtmpSetWindowAckSizePacket().(*RtmpSetWindowAckSizePacket); ok {
		p.Ack = 10000
		wire.Write(encodePacket(t, p, 0))
	}

	// 5 messages of 5000B payload each.
	sio := &mockIO{}
	sender := NewRtmpStack(core.NewContext(), sio)
	for i := 0; i < 5; i++ {
		if err := sender.SendMessages(testVideoMessage(5000, uint64(i), 1)); err != nil {
			t.Fatal(err)
		}
	}
	wire.Write(sio.out.Bytes())

	rio := &mockIO{}
	rio.in.Write(wire.Bytes())
	receiver := NewRtmpStack(core.NewContext(), rio)

	for {
		if _, err := receiver.ReadMessage(); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			t.Fatal(err)
		}
	}

	// decode the out of receiver, count the acknowledgements.
	aio := &mockIO{}
	aio.in.Write(rio.out.Bytes())
	decoder := NewRtmpStack(core.NewContext(), aio)

	var acks []uint32
	for {
		m, err := decoder.ReadMessage()
		if err != nil {
			break
		}
		if m.MessageType != RtmpMsgAcknowledgement {
			continue
		}

		p, err := decoder.DecodeMessage(m)
		if err != nil {
			t.Fatal(err)
		}
		acks = append(acks, uint32(p.(*RtmpAcknowledgementPacket).SequenceNumber))
	}

	if len(acks) != 2 {
		t.Fatal("invalid ack count", len(acks), acks)
	}
	if acks[0] < 10000 || acks[0] >= 20000 {
		t.Error("invalid first ack", acks[0])
	}
	if acks[1] < 20000 || acks[1] >= 30000 {
		t.Error("invalid second ack", acks[1])
	}
}

// scenario: the ping request is transparently echoed as ping response
// with the same timestamp.
func TestPingAutoResponse(t *testing.T) {
	ping := NewRtmpUserControlPacket().(*RtmpUserControlPacket)
	ping.EventType = RtmpUint16(RtmpPcucPingRequest)
	ping.EventData = RtmpUint32(0xDEADBEEF)

	rio := &mockIO{}
	rio.in.Write(encodePacket(t, ping, 0))
	receiver := NewRtmpStack(core.NewContext(), rio)

	if _, err := receiver.ReadMessage(); err != nil {
		t.Fatal(err)
	}

	aio := &mockIO{}
	aio.in.Write(rio.out.Bytes())
	decoder := NewRtmpStack(core.NewContext(), aio)

	m, err := decoder.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}

	p, err := decoder.DecodeMessage(m)
	if err != nil {
		t.Fatal(err)
	}

	pong, ok := p.(*RtmpUserControlPacket)
	if !ok {
		t.Fatal("invalid response", p)
	}
	if RtmpPcucEventType(pong.EventType) != RtmpPcucPingResponse {
		t.Error("invalid event type", pong.EventType)
	}
	if pong.EventData != RtmpUint32(0xDEADBEEF) {
		t.Error("invalid event data", pong.EventData)
	}
}

// when auto response disabled, the replies are queued until the
// manual flush.
func TestManualResponseQueue(t *testing.T) {
	ping := NewRtmpUserControlPacket().(*RtmpUserControlPacket)
	ping.EventType = RtmpUint16(RtmpPcucPingRequest)
	ping.EventData = RtmpUint32(0x0d0f)

	rio := &mockIO{}
	rio.in.Write(encodePacket(t, ping, 0))
	receiver := NewRtmpStack(core.NewContext(), rio)
	receiver.SetAutoResponse(false)

	if _, err := receiver.ReadMessage(); err != nil {
		t.Fatal(err)
	}
	if rio.out.Len() != 0 {
		t.Fatal("should not response yet")
	}

	if err := receiver.ManualResponseFlush(); err != nil {
		t.Fatal(err)
	}
	if rio.out.Len() == 0 {
		t.Fatal("should response after flush")
	}
}

// the peer which sets a chunk size out of range corrupts the stream,
// fatal to the session.
func TestSetChunkSizeOutOfRange(t *testing.T) {
	for _, cs := range []int{0, 1, 127, 65537, 1024 * 1024} {
		p := NewRtmpSetChunkSizePacket().(*RtmpSetChunkSizePacket)
		p.ChunkSize = RtmpUint32(cs)

		// encode by hand, SendPacket refuses invalid sizes too.
		b, _ := p.MarshalBinary()
		m := NewRtmpMessage()
		m.MessageType = p.MessageType()
		m.PreferCid = p.PreferCid()
		m.Payload = b

		sio := &mockIO{}
		sender := NewRtmpStack(core.NewContext(), sio)
		if err := sender.SendMessages(m); err != nil {
			t.Fatal(err)
		}

		rio := &mockIO{}
		rio.in.Write(sio.out.Bytes())
		receiver := NewRtmpStack(core.NewContext(), rio)

		if _, err := receiver.ReadMessage(); err != ErrChunkSize {
			t.Error("chunk size", cs, "should be fatal, err is", err)
		}
	}
}

// the response without name is dispatched by the transaction table.
func TestTransactionDispatch(t *testing.T) {
	cio := &mockIO{}
	client := NewRtmpStack(core.NewContext(), cio)

	// the connect request records transaction 1.
	if err := client.SendPacket(NewRtmpConnectAppPacket(), 0); err != nil {
		t.Fatal(err)
	}

	res := NewRtmpConnectAppResPacket().(*RtmpConnectAppResPacket)
	res.Info.Set(StatusCode, NewAmf0String(StatusCodeConnectSuccess))
	b, _ := res.MarshalBinary()

	m := NewRtmpMessage()
	m.MessageType = RtmpMsgAMF0CommandMessage
	m.Payload = b

	p, err := client.DecodeMessage(m)
	if err != nil {
		t.Fatal(err)
	}

	cres, ok := p.(*RtmpConnectAppResPacket)
	if !ok {
		t.Fatal("invalid response type", p)
	}
	if s, ok := cres.Info.Get(StatusCode).(*Amf0String); !ok || *s != StatusCodeConnectSuccess {
		t.Error("invalid code")
	}

	// the transaction is evicted on response receipt, the replay is
	// an unknown transaction.
	if p, err = client.DecodeMessage(m); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*RtmpEmptyPacket); !ok {
		t.Error("replayed response should be empty packet", p)
	}
}

// the createStream response is decoded by the recorded request name.
func TestTransactionCreateStream(t *testing.T) {
	cio := &mockIO{}
	client := NewRtmpStack(core.NewContext(), cio)

	cs := NewRtmpCreateStreamPacket().(*RtmpCreateStreamPacket)
	cs.TransactionId = Amf0Number(client.NextTransactionId())
	if err := client.SendPacket(cs, 0); err != nil {
		t.Fatal(err)
	}

	res := NewRtmpCreateStreamResPacket().(*RtmpCreateStreamResPacket)
	res.TransactionId = cs.TransactionId
	res.StreamId = 1
	b, _ := res.MarshalBinary()

	m := NewRtmpMessage()
	m.MessageType = RtmpMsgAMF0CommandMessage
	m.Payload = b

	p, err := client.DecodeMessage(m)
	if err != nil {
		t.Fatal(err)
	}
	if r, ok := p.(*RtmpCreateStreamResPacket); !ok || r.StreamId != 1 {
		t.Error("invalid createStream response", p)
	}
}

// for the first packet of a fresh chunk stream with fmt=3, the delta
// is applied over the fmt0 header, like the FMLE audio packets.
func TestFmt3AppliesDelta(t *testing.T) {
	var wire bytes.Buffer

	// fmt0, cid4, timestamp=26, 4B audio, sid=1.
	wire.Write([]byte{
		0x04,
		0x00, 0x00, 0x1a,
		0x00, 0x00, 0x04,
		0x08,
		0x01, 0x00, 0x00, 0x00,
	})
	wire.Write([]byte{0x01, 0x02, 0x03, 0x04})

	// fmt3, cid4: a new message with the same header, the timestamp
	// advances by the previous delta.
	wire.Write([]byte{0xc4})
	wire.Write([]byte{0x05, 0x06, 0x07, 0x08})

	rio := &mockIO{}
	rio.in.Write(wire.Bytes())
	receiver := NewRtmpStack(core.NewContext(), rio)

	m0, err := receiver.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if m0.Timestamp != 26 {
		t.Error("invalid timestamp", m0.Timestamp)
	}

	m1, err := receiver.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if m1.Timestamp != 52 {
		t.Error("invalid timestamp", m1.Timestamp)
	}
	if !bytes.Equal(m1.Payload, []byte{0x05, 0x06, 0x07, 0x08}) {
		t.Error("invalid payload", m1.Payload)
	}
}

// a fresh chunk stream must start with fmt=0.
func TestFreshChunkRequiresFmt0(t *testing.T) {
	rio := &mockIO{}
	// fmt1, cid4.
	rio.in.Write([]byte{0x44, 0x00, 0x00, 0x1a, 0x00, 0x00, 0x04, 0x08})
	rio.in.Write(make([]byte, 16))

	receiver := NewRtmpStack(core.NewContext(), rio)
	if _, err := receiver.ReadMessage(); err != ErrChunkStart {
		t.Error("should fail with chunk start, err is", err)
	}
}

// but cid2 fmt1 is accepted for librtmp.
// @see: https://github.com/ossrs/srs/issues/98
func TestFreshChunkCid2Fmt1(t *testing.T) {
	rio := &mockIO{}
	rio.in.Write([]byte{
		0x42,
		0x00, 0x00, 0x00,
		0x00, 0x00, 0x06,
		0x04,
	})
	rio.in.Write([]byte{0x00, 0x06, 0x00, 0x00, 0x0d, 0x0f})

	receiver := NewRtmpStack(core.NewContext(), rio)
	m, err := receiver.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if m.MessageType != RtmpMsgUserControlMessage || len(m.Payload) != 6 {
		t.Error("invalid message", m)
	}
}

// the chunks of two message streams maybe interlaced on cid boundary.
func TestInterleavedChunkStreams(t *testing.T) {
	var wire bytes.Buffer

	// cid3: fmt0, 200B message, first chunk of 128B.
	wire.Write([]byte{
		0x03,
		0x00, 0x00, 0x10,
		0x00, 0x00, 0xc8,
		0x09,
		0x01, 0x00, 0x00, 0x00,
	})
	first := make([]byte, 128)
	for i := range first {
		first[i] = byte(i)
	}
	wire.Write(first)

	// cid4: fmt0, a complete 2B message.
	wire.Write([]byte{
		0x04,
		0x00, 0x00, 0x20,
		0x00, 0x00, 0x02,
		0x08,
		0x01, 0x00, 0x00, 0x00,
	})
	wire.Write([]byte{0xaa, 0xbb})

	// cid3: fmt3 continuation, the left 72B.
	wire.Write([]byte{0xc3})
	second := make([]byte, 72)
	for i := range second {
		second[i] = byte(128 + i)
	}
	wire.Write(second)

	rio := &mockIO{}
	rio.in.Write(wire.Bytes())
	receiver := NewRtmpStack(core.NewContext(), rio)

	// the cid4 message completes first.
	m0, err := receiver.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if m0.MessageType != RtmpMsgAudioMessage || !bytes.Equal(m0.Payload, []byte{0xaa, 0xbb}) {
		t.Error("invalid first message", m0)
	}

	// then the cid3 message.
	m1, err := receiver.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if m1.MessageType != RtmpMsgVideoMessage || len(m1.Payload) != 200 {
		t.Fatal("invalid second message", m1)
	}
	if !bytes.Equal(m1.Payload[:128], first) || !bytes.Equal(m1.Payload[128:], second) {
		t.Error("invalid payload")
	}
}

// message emission order equals call order for batched sends.
func TestSendMessagesPreservesOrder(t *testing.T) {
	sio := &mockIO{}
	sender := NewRtmpStack(core.NewContext(), sio)

	var batch []*RtmpMessage
	for i := 0; i < 10; i++ {
		m := testVideoMessage(100, uint64(i), 1)
		m.Payload[0] = byte(i)
		batch = append(batch, m)
	}
	if err := sender.SendMessages(batch...); err != nil {
		t.Fatal(err)
	}

	rio := &mockIO{}
	rio.in.Write(sio.out.Bytes())
	receiver := NewRtmpStack(core.NewContext(), rio)

	for i := 0; i < 10; i++ {
		m, err := receiver.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}
		if m.Timestamp != uint64(i) || m.Payload[0] != byte(i) {
			t.Error("out of order at", i, m.Timestamp)
		}
	}
}

// the 2B and 3B basic headers address the large cids.
func TestLargeCidRoundTrip(t *testing.T) {
	var wire bytes.Buffer

	// 2B basic header: fmt0, cid = 100 (0x24 + 64).
	wire.Write([]byte{0x00, 100 - 64})
	wire.Write([]byte{
		0x00, 0x00, 0x01,
		0x00, 0x00, 0x01,
		0x08,
		0x01, 0x00, 0x00, 0x00,
	})
	wire.Write([]byte{0xaa})

	// 3B basic header: fmt0, cid = 1000 = 64 + 168 + 3*256.
	wire.Write([]byte{0x01, 168, 3})
	wire.Write([]byte{
		0x00, 0x00, 0x01,
		0x00, 0x00, 0x01,
		0x08,
		0x01, 0x00, 0x00, 0x00,
	})
	wire.Write([]byte{0xbb})

	rio := &mockIO{}
	rio.in.Write(wire.Bytes())
	receiver := NewRtmpStack(core.NewContext(), rio)

	m0, err := receiver.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if m0.PreferCid != 100 || m0.Payload[0] != 0xaa {
		t.Error("invalid 2B cid message", m0.PreferCid)
	}

	m1, err := receiver.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if m1.PreferCid != 1000 || m1.Payload[0] != 0xbb {
		t.Error("invalid 3B cid message", m1.PreferCid)
	}
}

// ExpectMessage drains the uninteresting messages.
func TestExpectMessage(t *testing.T) {
	var wire bytes.Buffer

	wire.Write(encodePacket(t, NewRtmpOnBwDonePacket(), 0))

	cs := NewRtmpCreateStreamPacket().(*RtmpCreateStreamPacket)
	cs.TransactionId = 4
	wire.Write(encodePacket(t, cs, 0))

	rio := &mockIO{}
	rio.in.Write(wire.Bytes())
	receiver := NewRtmpStack(core.NewContext(), rio)

	_, p, err := ExpectMessage[*RtmpCreateStreamPacket](receiver)
	if err != nil {
		t.Fatal(err)
	}
	if p.TransactionId != 4 {
		t.Error("invalid transaction", p.TransactionId)
	}
}
