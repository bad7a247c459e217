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
	"testing"
)

// marshal the packet, check the size, unmarshal to a fresh packet of
// the same kind, then marshal again and compare bytes.
func testPacketRoundTrip(t *testing.T, name string, p RtmpPacket, fresh RtmpPacket) {
	var b []byte
	var err error
	if b, err = p.MarshalBinary(); err != nil {
		t.Error(name, "marshal failed, err is", err)
		return
	}

	if len(b) != p.Size() {
		t.Error(name, "size mismatch, bytes is", len(b), "size is", p.Size())
	}

	if err = fresh.UnmarshalBinary(b); err != nil {
		t.Error(name, "unmarshal failed, err is", err)
		return
	}

	var b2 []byte
	if b2, err = fresh.MarshalBinary(); err != nil {
		t.Error(name, "remarshal failed, err is", err)
		return
	}

	if !bytes.Equal(b, b2) {
		t.Error(name, "round trip mismatch,", b, "to", b2)
	}

	if fresh.Size() != p.Size() {
		t.Error(name, "decoded size mismatch", fresh.Size(), p.Size())
	}
}

func TestRtmpControlPackets(t *testing.T) {
	if p, ok := NewRtmpSetChunkSizePacket().(*RtmpSetChunkSizePacket); ok {
		p.ChunkSize = 4096
		testPacketRoundTrip(t, "SetChunkSize", p, NewRtmpSetChunkSizePacket())
	}

	if p, ok := NewRtmpAbortPacket().(*RtmpAbortPacket); ok {
		p.ChunkStreamId = 6
		testPacketRoundTrip(t, "Abort", p, NewRtmpAbortPacket())
	}

	if p, ok := NewRtmpAcknowledgementPacket().(*RtmpAcknowledgementPacket); ok {
		p.SequenceNumber = 2500000
		testPacketRoundTrip(t, "Acknowledgement", p, NewRtmpAcknowledgementPacket())
	}

	if p, ok := NewRtmpSetWindowAckSizePacket().(*RtmpSetWindowAckSizePacket); ok {
		p.Ack = 2500000
		testPacketRoundTrip(t, "WindowAckSize", p, NewRtmpSetWindowAckSizePacket())
	}

	if p, ok := NewRtmpSetPeerBandwidthPacket().(*RtmpSetPeerBandwidthPacket); ok {
		p.Bandwidth = 2500000
		p.Type = RtmpUint8(Soft)
		testPacketRoundTrip(t, "SetPeerBandwidth", p, NewRtmpSetPeerBandwidthPacket())
	}
}

func TestRtmpUserControlPacket(t *testing.T) {
	if p, ok := NewRtmpUserControlPacket().(*RtmpUserControlPacket); ok {
		p.EventType = RtmpUint16(RtmpPcucStreamBegin)
		p.EventData = 1
		testPacketRoundTrip(t, "UserControl", p, NewRtmpUserControlPacket())
		if p.Size() != 6 {
			t.Error("invalid size", p.Size())
		}
	}

	// SetBufferLength carries 4 extra bytes.
	if p, ok := NewRtmpUserControlPacket().(*RtmpUserControlPacket); ok {
		p.EventType = RtmpUint16(RtmpPcucSetBufferLength)
		p.EventData = 1
		p.ExtraData = 3000
		testPacketRoundTrip(t, "UserControlSetBufferLength", p, NewRtmpUserControlPacket())
		if p.Size() != 10 {
			t.Error("invalid size", p.Size())
		}
	}

	// the fms event 0x1a carries 1 data byte.
	if p, ok := NewRtmpUserControlPacket().(*RtmpUserControlPacket); ok {
		p.EventType = RtmpUint16(RtmpPcucFmsEvent0)
		p.EventData = 1
		testPacketRoundTrip(t, "UserControlFmsEvent0", p, NewRtmpUserControlPacket())
		if p.Size() != 3 {
			t.Error("invalid size", p.Size())
		}
	}
}

func TestRtmpConnectAppPacket(t *testing.T) {
	p := NewRtmpConnectAppPacket().(*RtmpConnectAppPacket)
	p.CommandObject.Set("app", NewAmf0String("live"))
	p.CommandObject.Set("tcUrl", NewAmf0String("rtmp://127.0.0.1/live"))
	p.CommandObject.Set("objectEncoding", NewAmf0Number(0))
	testPacketRoundTrip(t, "ConnectApp", p, NewRtmpConnectAppPacket())

	// with optional args.
	p.Args = NewAmf0Object()
	p.Args.Set("token", NewAmf0String("secret"))
	testPacketRoundTrip(t, "ConnectAppArgs", p, NewRtmpConnectAppPacket())
}

func TestRtmpConnectAppResPacket(t *testing.T) {
	p := NewRtmpConnectAppResPacket().(*RtmpConnectAppResPacket)
	p.Props.Set("fmsVer", NewAmf0String("FMS/"+RtmpSigFmsVer))
	p.Info.Set(StatusCode, NewAmf0String(StatusCodeConnectSuccess))
	testPacketRoundTrip(t, "ConnectAppRes", p, NewRtmpConnectAppResPacket())
}

func TestRtmpCreateStreamPackets(t *testing.T) {
	p := NewRtmpCreateStreamPacket().(*RtmpCreateStreamPacket)
	p.TransactionId = 4
	testPacketRoundTrip(t, "CreateStream", p, NewRtmpCreateStreamPacket())

	r := NewRtmpCreateStreamResPacket().(*RtmpCreateStreamResPacket)
	r.TransactionId = 4
	r.StreamId = 1
	testPacketRoundTrip(t, "CreateStreamRes", r, NewRtmpCreateStreamResPacket())
}

func TestRtmpCallPackets(t *testing.T) {
	p := NewRtmpCallPacket().(*RtmpCallPacket)
	p.Name = "getStreamLength"
	p.TransactionId = 3
	p.Command = &Amf0Null{}
	p.Args = NewAmf0String("livestream")
	testPacketRoundTrip(t, "Call", p, NewRtmpCallPacket())

	r := NewRtmpCallResPacket().(*RtmpCallResPacket)
	r.TransactionId = 3
	r.Command = &Amf0Null{}
	testPacketRoundTrip(t, "CallRes", r, NewRtmpCallResPacket())
}

func TestRtmpPlayPackets(t *testing.T) {
	p := NewRtmpPlayPacket().(*RtmpPlayPacket)
	p.Stream = "livestream"
	testPacketRoundTrip(t, "Play", p, NewRtmpPlayPacket())

	// with the optional start/duration/reset.
	p.Start = NewAmf0Number(-2)
	p.Duration = NewAmf0Number(-1)
	p.Reset = NewAmf0Bool(true)
	testPacketRoundTrip(t, "PlayFull", p, NewRtmpPlayPacket())

	r := NewRtmpPlayResPacket().(*RtmpPlayResPacket)
	r.Desc.Set(StatusCode, NewAmf0String(StatusCodeStreamStart))
	testPacketRoundTrip(t, "PlayRes", r, NewRtmpPlayResPacket())
}

func TestRtmpPausePacket(t *testing.T) {
	p := NewRtmpPausePacket().(*RtmpPausePacket)
	p.IsPause = true
	p.TimeMs = 5000
	testPacketRoundTrip(t, "Pause", p, NewRtmpPausePacket())
}

func TestRtmpPublishPackets(t *testing.T) {
	p := NewRtmpPublishPacket().(*RtmpPublishPacket)
	p.Stream = "livestream"
	p.Type = NewAmf0String("live")
	testPacketRoundTrip(t, "Publish", p, NewRtmpPublishPacket())

	c := NewRtmpCloseStreamPacket().(*RtmpCloseStreamPacket)
	testPacketRoundTrip(t, "CloseStream", c, NewRtmpCloseStreamPacket())
}

func TestRtmpFMLEStartPackets(t *testing.T) {
	p := NewRtmpFMLEStartPacket().(*RtmpFMLEStartPacket)
	p.TransactionId = 2
	p.Stream = "livestream"
	testPacketRoundTrip(t, "FMLEStart", p, NewRtmpFMLEStartPacket())

	r := NewRtmpFMLEStartResPacket().(*RtmpFMLEStartResPacket)
	r.TransactionId = 2
	testPacketRoundTrip(t, "FMLEStartRes", r, NewRtmpFMLEStartResPacket())
}

func TestRtmpOnStatusPackets(t *testing.T) {
	p := NewRtmpOnStatusCallPacket().(*RtmpOnStatusCallPacket)
	p.Data.Set(StatusLevel, NewAmf0String(StatusLevelStatus))
	p.Data.Set(StatusCode, NewAmf0String(StatusCodePublishStart))
	testPacketRoundTrip(t, "OnStatusCall", p, NewRtmpOnStatusCallPacket())

	d := NewRtmpOnStatusDataPacket().(*RtmpOnStatusDataPacket)
	d.Data.Set(StatusCode, NewAmf0String(StatusCodeDataStart))
	testPacketRoundTrip(t, "OnStatusData", d, NewRtmpOnStatusDataPacket())

	s := NewRtmpSampleAccessPacket().(*RtmpSampleAccessPacket)
	testPacketRoundTrip(t, "SampleAccess", s, NewRtmpSampleAccessPacket())
}

func TestRtmpOnMetaDataPacket(t *testing.T) {
	p := NewRtmpOnMetaDataPacket().(*RtmpOnMetaDataPacket)
	md := p.Metadata.(*Amf0EcmaArray)
	md.Set("width", NewAmf0Number(1920))
	md.Set("height", NewAmf0Number(1080))
	testPacketRoundTrip(t, "OnMetaData", p, NewRtmpOnMetaDataPacket())

	// decode the @setDataFrame wrapper of FMLE.
	w := NewAmf0String(Amf0DataSetDataFrame)
	wb, _ := w.MarshalBinary()
	pb, _ := p.MarshalBinary()

	d := NewRtmpOnMetaDataPacket().(*RtmpOnMetaDataPacket)
	if err := d.UnmarshalBinary(append(wb, pb...)); err != nil {
		t.Error(err)
	}
	if string(d.Name) != Amf0DataOnMetaData {
		t.Error("invalid name", d.Name)
	}
	if md, ok := d.Metadata.(*Amf0EcmaArray); !ok {
		t.Error("invalid metadata")
	} else if n, ok := md.Get("width").(*Amf0Number); !ok || *n != 1920 {
		t.Error("invalid width")
	}

	// the metadata maybe an object.
	o := NewRtmpOnMetaDataPacket().(*RtmpOnMetaDataPacket)
	o.Metadata = NewAmf0Object().Set("server", NewAmf0String("srs"))
	testPacketRoundTrip(t, "OnMetaDataObject", o, NewRtmpOnMetaDataPacket())
}

func TestRtmpOnBwDonePacket(t *testing.T) {
	p := NewRtmpOnBwDonePacket().(*RtmpOnBwDonePacket)
	testPacketRoundTrip(t, "OnBwDone", p, NewRtmpOnBwDonePacket())
}
