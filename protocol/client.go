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
	"time"

	"github.com/winlinvip/go-srs-librtmp/core"
)

// the cid the client sends the play/publish stream commands over.
const rtmpClientStreamCid = 8

// ServerInfo is the debug info of the media server, extracted from the
// data ecma-array of the connect response when present.
type ServerInfo struct {
	Ip      string
	Sig     string
	Primary string
	Authors string
	Version string
	Id      int
	Pid     int
}

// RtmpClient implements the client role protocol: handshake,
// connectApp, createStream, then play or publish.
type RtmpClient struct {
	ctx core.Context

	io    ReadWriter
	hs    *HsBytes
	stack *RtmpStack
}

func NewRtmpClient(ctx core.Context, io ReadWriter) *RtmpClient {
	return &RtmpClient{
		ctx:   ctx,
		io:    io,
		hs:    NewHsBytes(),
		stack: NewRtmpStack(ctx, io),
	}
}

// Stack exposes the underlayer protocol stack.
func (v *RtmpClient) Stack() *RtmpStack {
	return v.stack
}

// SetRecvTimeout sets the recv timeout,
// if timeout, recv message returns a timeout error.
func (v *RtmpClient) SetRecvTimeout(tm time.Duration) {
	v.io.SetRecvTimeout(tm)
}

// SetSendTimeout sets the send timeout,
// if timeout, send message returns a timeout error.
func (v *RtmpClient) SetSendTimeout(tm time.Duration) {
	v.io.SetSendTimeout(tm)
}

// RecvBytes returns the total bytes received.
func (v *RtmpClient) RecvBytes() int64 {
	return v.io.RecvBytes()
}

// SendBytes returns the total bytes sent.
func (v *RtmpClient) SendBytes() int64 {
	return v.io.SendBytes()
}

// RecvMessage receives a message from the peer.
func (v *RtmpClient) RecvMessage() (*RtmpMessage, error) {
	return v.stack.ReadMessage()
}

// DecodeMessage decodes the message to a typed packet.
func (v *RtmpClient) DecodeMessage(m *RtmpMessage) (RtmpPacket, error) {
	return v.stack.DecodeMessage(m)
}

// SendPacket sends the packet over the stream sid.
func (v *RtmpClient) SendPacket(p RtmpPacket, sid uint32) error {
	return v.stack.SendPacket(p, sid)
}

// SendMessage sends the shared message and always releases the share.
func (v *RtmpClient) SendMessage(m *SharedPtrMessage) error {
	return v.stack.SendFreeMessage(m)
}

// Handshake with the server, a digest-signed c0c1 which degrades to the
// simple handshake when the server answers plain.
func (v *RtmpClient) Handshake() (err error) {
	v.io.SetRecvTimeout(HandshakeTimeout)
	v.io.SetSendTimeout(HandshakeTimeout)
	defer func() {
		v.io.SetRecvTimeout(0)
		v.io.SetSendTimeout(0)
	}()

	return clientHandshake(v.ctx, v.io, v.hs)
}

// ConnectApp connects to the server app, the req carries the optional
// pageUrl/swfUrl and args for edge traverse.
func (v *RtmpClient) ConnectApp(app, tcUrl string, req *RtmpRequest, debugUpnode bool) (err error) {
	_, err = v.connectApp(app, tcUrl, req, debugUpnode)
	return
}

// ConnectApp2 connects to the server app and extracts the debug info
// of the server.
func (v *RtmpClient) ConnectApp2(app, tcUrl string, req *RtmpRequest, debugUpnode bool) (si *ServerInfo, err error) {
	return v.connectApp(app, tcUrl, req, debugUpnode)
}

func (v *RtmpClient) connectApp(app, tcUrl string, req *RtmpRequest, debugUpnode bool) (si *ServerInfo, err error) {
	ctx := v.ctx

	// notify the server the window ack size to use.
	if ack, ok := NewRtmpSetWindowAckSizePacket().(*RtmpSetWindowAckSizePacket); ok {
		ack.Ack = RtmpUint32(RtmpDefaultAckWindow)
		if err = v.stack.SendPacket(ack, 0); err != nil {
			return
		}
	}

	p := NewRtmpConnectAppPacket().(*RtmpConnectAppPacket)

	p.CommandObject.Set("app", NewAmf0String(app))
	p.CommandObject.Set("flashVer", NewAmf0String("WIN 15,0,0,239"))
	if req != nil {
		p.CommandObject.Set("swfUrl", NewAmf0String(req.SwfUrl))
	} else {
		p.CommandObject.Set("swfUrl", NewAmf0String(""))
	}
	p.CommandObject.Set("tcUrl", NewAmf0String(tcUrl))
	p.CommandObject.Set("fpad", NewAmf0Bool(false))
	p.CommandObject.Set("capabilities", NewAmf0Number(15))
	p.CommandObject.Set("audioCodecs", NewAmf0Number(3575))
	p.CommandObject.Set("videoCodecs", NewAmf0Number(252))
	p.CommandObject.Set("videoFunction", NewAmf0Number(1))
	if req != nil {
		p.CommandObject.Set("pageUrl", NewAmf0String(req.PageUrl))
		p.CommandObject.Set("objectEncoding", NewAmf0Number(req.ObjectEncoding))
	} else {
		p.CommandObject.Set("pageUrl", NewAmf0String(""))
		p.CommandObject.Set("objectEncoding", NewAmf0Number(0))
	}

	if req != nil && req.Args != nil {
		p.Args = req.Args
	}

	if err = v.stack.SendPacket(p, 0); err != nil {
		return
	}

	var res *RtmpConnectAppResPacket
	if _, res, err = ExpectMessage[*RtmpConnectAppResPacket](v.stack); err != nil {
		return
	}

	// extract the server info from the data of response.
	si = &ServerInfo{}
	if data, ok := res.Info.Get("data").(*Amf0EcmaArray); ok && data != nil {
		if p, ok := data.Get("srs_server_ip").(*Amf0String); ok {
			si.Ip = string(*p)
		}
		if p, ok := data.Get("srs_server").(*Amf0String); ok {
			si.Sig = string(*p)
		}
		if p, ok := data.Get("srs_primary").(*Amf0String); ok {
			si.Primary = string(*p)
		}
		if p, ok := data.Get("srs_authors").(*Amf0String); ok {
			si.Authors = string(*p)
		}
		if p, ok := data.Get("srs_version").(*Amf0String); ok {
			si.Version = string(*p)
		}
		if p, ok := data.Get("srs_id").(*Amf0Number); ok {
			si.Id = int(*p)
		}
		if p, ok := data.Get("srs_pid").(*Amf0Number); ok {
			si.Pid = int(*p)
		}
	}

	if debugUpnode && si.Ip != "" {
		core.Trace.Println(ctx, "connected at server", si.Sig, si.Version, "ip", si.Ip, "pid", si.Pid, "id", si.Id)
	}

	return
}

// CreateStream creates a stream to play or publish over.
func (v *RtmpClient) CreateStream() (sid uint32, err error) {
	p := NewRtmpCreateStreamPacket().(*RtmpCreateStreamPacket)
	p.TransactionId = Amf0Number(v.stack.NextTransactionId())

	if err = v.stack.SendPacket(p, 0); err != nil {
		return
	}

	var res *RtmpCreateStreamResPacket
	if _, res, err = ExpectMessage[*RtmpCreateStreamResPacket](v.stack); err != nil {
		return
	}

	sid = uint32(res.StreamId)
	return
}

// Play starts to play the stream over the stream sid.
func (v *RtmpClient) Play(stream string, sid uint32) (err error) {
	// the client buffer length, in ms.
	if p, ok := NewRtmpUserControlPacket().(*RtmpUserControlPacket); ok {
		p.EventType = RtmpUint16(RtmpPcucSetBufferLength)
		p.EventData = RtmpUint32(sid)
		p.ExtraData = RtmpUint32(3000)
		if err = v.stack.SendPacket(p, 0); err != nil {
			return
		}
	}

	p := NewRtmpPlayPacket().(*RtmpPlayPacket)
	p.Stream = Amf0String(stream)

	return v.sendStreamPacket(p, sid)
}

// Publish starts to publish the stream over the stream sid, the flash
// publish workflow: connect-app => create-stream => publish.
func (v *RtmpClient) Publish(stream string, sid uint32) (err error) {
	p := NewRtmpPublishPacket().(*RtmpPublishPacket)
	p.Stream = Amf0String(stream)

	return v.sendStreamPacket(p, sid)
}

// FmlePublish starts to publish the stream, the FMLE publish workflow:
// connect-app => releaseStream => FCPublish => createStream => publish,
// returns the stream id of the created stream.
func (v *RtmpClient) FmlePublish(stream string) (sid uint32, err error) {
	// releaseStream(stream)
	p := NewRtmpFMLEStartPacket().(*RtmpFMLEStartPacket)
	p.Name = Amf0String(Amf0CommandReleaseStream)
	p.TransactionId = Amf0Number(v.stack.NextTransactionId())
	p.Stream = Amf0String(stream)

	if err = v.stack.SendPacket(p, 0); err != nil {
		return
	}
	if _, _, err = ExpectMessage[*RtmpFMLEStartResPacket](v.stack); err != nil {
		return
	}

	// FCPublish(stream)
	p = NewRtmpFMLEStartPacket().(*RtmpFMLEStartPacket)
	p.Name = Amf0String(Amf0CommandFcPublish)
	p.TransactionId = Amf0Number(v.stack.NextTransactionId())
	p.Stream = Amf0String(stream)

	if err = v.stack.SendPacket(p, 0); err != nil {
		return
	}
	if _, _, err = ExpectMessage[*RtmpFMLEStartResPacket](v.stack); err != nil {
		return
	}

	// createStream
	cs := NewRtmpCreateStreamPacket().(*RtmpCreateStreamPacket)
	cs.TransactionId = Amf0Number(v.stack.NextTransactionId())

	if err = v.stack.SendPacket(cs, 0); err != nil {
		return
	}

	var res *RtmpCreateStreamResPacket
	if _, res, err = ExpectMessage[*RtmpCreateStreamResPacket](v.stack); err != nil {
		return
	}
	sid = uint32(res.StreamId)

	// publish(stream)
	pp := NewRtmpPublishPacket().(*RtmpPublishPacket)
	pp.Stream = Amf0String(stream)

	if err = v.sendStreamPacket(pp, sid); err != nil {
		return
	}

	return
}

// CloseStream closes the stream created by CreateStream.
func (v *RtmpClient) CloseStream(sid uint32) (err error) {
	p := NewRtmpCloseStreamPacket().(*RtmpCloseStreamPacket)
	return v.stack.SendPacket(p, sid)
}

// send the play/publish commands, which go over the dedicated client
// stream chunk, not the prefer cid of the packet.
func (v *RtmpClient) sendStreamPacket(p RtmpPacket, sid uint32) (err error) {
	m := NewRtmpMessage()

	if m.Payload, err = p.MarshalBinary(); err != nil {
		return
	}

	m.MessageType = p.MessageType()
	m.PreferCid = rtmpClientStreamCid
	m.StreamId = sid

	return v.stack.SendMessages(m)
}
