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
	"os"
	"time"

	"github.com/winlinvip/go-srs-librtmp/core"
)

// the count of uninteresting packets the identify drops before it
// gives up on the client.
const identifyMaxDropPackets = 128

// the pid of server, for the client to discovery in the log.
var pid = os.Getpid()

// RtmpServer provides the rtmp-command-protocol services of the server
// role: handshake with client, connect to app, identify the client to
// play or publish, then start the media stream dialogue.
type RtmpServer struct {
	ctx core.Context

	io    ReadWriter
	hs    *HsBytes
	stack *RtmpStack
}

func NewRtmpServer(ctx core.Context, io ReadWriter) *RtmpServer {
	return &RtmpServer{
		ctx:   ctx,
		io:    io,
		hs:    NewHsBytes(),
		stack: NewRtmpStack(ctx, io),
	}
}

// Stack exposes the underlayer protocol stack.
func (v *RtmpServer) Stack() *RtmpStack {
	return v.stack
}

// SetAutoResponse sets whether auto respond the ack and ping when recv.
// @see: https://github.com/ossrs/srs/issues/217
func (v *RtmpServer) SetAutoResponse(auto bool) {
	v.stack.SetAutoResponse(auto)
}

// ManualResponseFlush flushes the queued responses when the auto
// response is disabled.
func (v *RtmpServer) ManualResponseFlush() error {
	return v.stack.ManualResponseFlush()
}

// SetRecvTimeout sets the recv timeout of the transport.
func (v *RtmpServer) SetRecvTimeout(tm time.Duration) {
	v.io.SetRecvTimeout(tm)
}

// SetSendTimeout sets the send timeout of the transport.
func (v *RtmpServer) SetSendTimeout(tm time.Duration) {
	v.io.SetSendTimeout(tm)
}

// RecvBytes returns the total bytes received.
func (v *RtmpServer) RecvBytes() int64 {
	return v.io.RecvBytes()
}

// SendBytes returns the total bytes sent.
func (v *RtmpServer) SendBytes() int64 {
	return v.io.SendBytes()
}

// RecvMessage receives a message from the peer.
func (v *RtmpServer) RecvMessage() (*RtmpMessage, error) {
	return v.stack.ReadMessage()
}

// DecodeMessage decodes the message to a typed packet.
func (v *RtmpServer) DecodeMessage(m *RtmpMessage) (RtmpPacket, error) {
	return v.stack.DecodeMessage(m)
}

// SendPacket sends the packet over the stream sid.
func (v *RtmpServer) SendPacket(p RtmpPacket, sid uint32) error {
	return v.stack.SendPacket(p, sid)
}

// SendMessage sends the shared message and always releases the share.
func (v *RtmpServer) SendMessage(m *SharedPtrMessage) error {
	return v.stack.SendFreeMessage(m)
}

// SendMessages sends the batch of shared messages, always releasing
// all shares.
func (v *RtmpServer) SendMessages(msgs ...*SharedPtrMessage) error {
	return v.stack.SendFreeMessages(msgs...)
}

// Handshake with the client, try complex then simple.
func (v *RtmpServer) Handshake() (err error) {
	v.io.SetRecvTimeout(HandshakeTimeout)
	v.io.SetSendTimeout(HandshakeTimeout)
	defer func() {
		v.io.SetRecvTimeout(0)
		v.io.SetSendTimeout(0)
	}()

	return serverHandshake(v.ctx, v.io, v.hs)
}

// ConnectApp expects the connect command of client, to discovery the
// tcUrl and fill the request.
func (v *RtmpServer) ConnectApp(req *RtmpRequest) (err error) {
	ctx := v.ctx

	var p *RtmpConnectAppPacket
	if _, p, err = ExpectMessage[*RtmpConnectAppPacket](v.stack); err != nil {
		return
	}

	if s, ok := p.CommandObject.Get("tcUrl").(*Amf0String); ok {
		req.TcUrl = string(*s)
	}
	if s, ok := p.CommandObject.Get("pageUrl").(*Amf0String); ok {
		req.PageUrl = string(*s)
	}
	if s, ok := p.CommandObject.Get("swfUrl").(*Amf0String); ok {
		req.SwfUrl = string(*s)
	}
	if n, ok := p.CommandObject.Get("objectEncoding").(*Amf0Number); ok {
		req.ObjectEncoding = float64(*n)
	}
	req.Args = p.Args

	if req.TcUrl == "" {
		core.Error.Println(ctx, "no tcUrl in connect app.")
		return ErrConnectRequired
	}

	if err = req.Reparse(); err != nil {
		return
	}

	objectEncoding := fmt.Sprintf("AMF%v", int(req.ObjectEncoding))
	core.Trace.Println(ctx, "connect at", req.TcUrl, objectEncoding)

	return
}

// SetWindowAckSize sets the ack size to client, the client will send
// an acknowledgement for each window of received bytes.
func (v *RtmpServer) SetWindowAckSize(ack uint32) (err error) {
	p := NewRtmpSetWindowAckSizePacket().(*RtmpSetWindowAckSizePacket)
	p.Ack = RtmpUint32(ack)

	return v.stack.SendPacket(p, 0)
}

// SetPeerBandwidth limits the bandwidth of peer.
// @param t, the sender can mark this message hard (0), soft (1),
// or dynamic (2) using the Limit type field.
func (v *RtmpServer) SetPeerBandwidth(bw uint32, t RtmpPeerBandwidthType) (err error) {
	p := NewRtmpSetPeerBandwidthPacket().(*RtmpSetPeerBandwidthPacket)
	p.Bandwidth = RtmpUint32(bw)
	p.Type = RtmpUint8(t)

	return v.stack.SendPacket(p, 0)
}

// SetChunkSize sets the output chunk size when client identified.
func (v *RtmpServer) SetChunkSize(n uint32) (err error) {
	p := NewRtmpSetChunkSizePacket().(*RtmpSetChunkSizePacket)
	p.ChunkSize = RtmpUint32(n)

	return v.stack.SendPacket(p, 0)
}

// ResponseConnectApp responses the connect app request of the client,
// the serverIp is optional for the client to discovery this edge.
func (v *RtmpServer) ResponseConnectApp(req *RtmpRequest, serverIp string) (err error) {
	p := NewRtmpConnectAppResPacket().(*RtmpConnectAppResPacket)

	p.Props.Set("fmsVer", NewAmf0String(fmt.Sprintf("FMS/%v", RtmpSigFmsVer)))
	p.Props.Set("capabilities", NewAmf0Number(127))
	p.Props.Set("mode", NewAmf0Number(1))

	p.Info.Set(StatusLevel, NewAmf0String(StatusLevelStatus))
	p.Info.Set(StatusCode, NewAmf0String(StatusCodeConnectSuccess))
	p.Info.Set(StatusDescription, NewAmf0String("Connection succeeded"))
	p.Info.Set("objectEncoding", NewAmf0Number(req.ObjectEncoding))

	d := NewAmf0EcmaArray()
	p.Info.Set("data", d)

	d.Set("version", NewAmf0String(RtmpSigFmsVer))
	d.Set("srs_sig", NewAmf0String(core.SigKey))
	d.Set("srs_server", NewAmf0String(core.SigServer()))
	d.Set("srs_role", NewAmf0String(core.SigRole))
	d.Set("srs_url", NewAmf0String(core.SigURL))
	d.Set("srs_version", NewAmf0String(core.Version()))
	d.Set("srs_site", NewAmf0String(core.SigWeb))
	d.Set("srs_authors", NewAmf0String(core.SigAuthors))
	d.Set("srs_primary", NewAmf0String(core.SigPrimary()))

	// for edge to directly get the id of client.
	if serverIp != "" {
		d.Set("srs_server_ip", NewAmf0String(serverIp))
	}
	d.Set("srs_pid", NewAmf0Number(float64(pid)))
	d.Set("srs_id", NewAmf0Number(float64(v.ctx.Cid())))

	return v.stack.SendPacket(p, 0)
}

// ResponseConnectReject rejects the connect app request of the client.
func (v *RtmpServer) ResponseConnectReject(req *RtmpRequest, desc string) (err error) {
	p := NewRtmpOnStatusCallPacket().(*RtmpOnStatusCallPacket)
	p.Name = Amf0String(Amf0CommandError)

	p.Data.Set(StatusLevel, NewAmf0String(StatusLevelError))
	p.Data.Set(StatusCode, NewAmf0String(StatusCodeConnectRejected))
	p.Data.Set(StatusDescription, NewAmf0String(desc))

	return v.stack.SendPacket(p, 0)
}

// OnBwDone responses the onBWDone message to client, the bandwidth
// test round is done.
func (v *RtmpServer) OnBwDone() (err error) {
	p := NewRtmpOnBwDonePacket().(*RtmpOnBwDonePacket)

	return v.stack.SendPacket(p, 0)
}

// IdentifyClient receives messages util it identifies the client to
// play or publish.
// @sid, the stream id to response the createStream request.
// @connType, output the client type.
// @streamName, output the client publish/play stream name.
// @duration, output the play client duration.
func (v *RtmpServer) IdentifyClient(sid uint32) (connType RtmpConnType, streamName string, duration float64, err error) {
	ctx := v.ctx

	for dropped := 0; dropped < identifyMaxDropPackets; dropped++ {
		var m *RtmpMessage
		if m, err = v.stack.ReadMessage(); err != nil {
			return
		}

		var p RtmpPacket
		if p, err = v.stack.DecodeMessage(m); err != nil {
			if err == ErrMsgInvalidSize {
				err = nil
				continue
			}
			return
		}
		if p == nil || !m.MessageType.IsCommand() {
			continue
		}

		switch p := p.(type) {
		case *RtmpCreateStreamPacket:
			core.Info.Println(ctx, "identify createStream")
			return v.identifyCreateStream(p, nil, sid)
		case *RtmpFMLEStartPacket:
			core.Info.Println(ctx, "identify fmlePublish")
			connType, streamName, err = v.identifyFmlePublish(p)
			return
		case *RtmpPlayPacket:
			core.Info.Println(ctx, "identify play")
			connType, streamName, duration, err = v.identifyPlay(p)
			return
		case *RtmpPublishPacket:
			core.Info.Println(ctx, "identify flashPublish")
			connType, streamName, err = v.identifyFlashPublish(p)
			return
		case *RtmpCallPacket:
			// for other call msgs, support response null first.
			// @see https://github.com/ossrs/srs/issues/106
			res := NewRtmpCallResPacket().(*RtmpCallResPacket)
			res.TransactionId = p.TransactionId
			if err = v.stack.SendPacket(res, 0); err != nil {
				core.Error.Println(ctx, "response call failed. err is", err)
				return
			}
		default:
			core.Trace.Println(ctx, "drop identify command", m.MessageType)
		}
	}

	return connType, streamName, duration, ErrIdentify
}

// the client createStream, response then recurse into a sub-identify
// expecting play or publish on the created stream.
func (v *RtmpServer) identifyCreateStream(current, previous *RtmpCreateStreamPacket, sid uint32) (connType RtmpConnType, streamName string, duration float64, err error) {
	ctx := v.ctx

	res := NewRtmpCreateStreamResPacket().(*RtmpCreateStreamResPacket)
	res.TransactionId = current.TransactionId
	res.StreamId = Amf0Number(float64(sid))
	if err = v.stack.SendPacket(res, 0); err != nil {
		core.Error.Println(ctx, "response createStream failed. err is", err)
		return
	}

	for dropped := 0; dropped < identifyMaxDropPackets; dropped++ {
		var m *RtmpMessage
		if m, err = v.stack.ReadMessage(); err != nil {
			return
		}

		var p RtmpPacket
		if p, err = v.stack.DecodeMessage(m); err != nil {
			if err == ErrMsgInvalidSize {
				err = nil
				continue
			}
			return
		}
		if p == nil || !m.MessageType.IsCommand() {
			continue
		}

		switch p := p.(type) {
		case *RtmpPlayPacket:
			connType, streamName, duration, err = v.identifyPlay(p)
			return
		case *RtmpPublishPacket:
			connType, streamName, err = v.identifyFlashPublish(p)
			return
		case *RtmpCreateStreamPacket:
			// to avoid stack overflow attack, only support two
			// createStream packets.
			if previous != nil {
				core.Error.Println(ctx, "only support two createStream packet.")
				return connType, streamName, duration, ErrCreateStream
			}

			return v.identifyCreateStream(p, current, sid)
		}
	}

	return connType, streamName, duration, ErrIdentify
}

func (v *RtmpServer) identifyFmlePublish(p *RtmpFMLEStartPacket) (connType RtmpConnType, streamName string, err error) {
	ctx := v.ctx

	connType = RtmpFmlePublish
	streamName = string(p.Stream)

	res := NewRtmpFMLEStartResPacket().(*RtmpFMLEStartResPacket)
	res.TransactionId = p.TransactionId

	if err = v.stack.SendPacket(res, 0); err != nil {
		core.Error.Println(ctx, "response identify fmle failed. err is", err)
		return
	}

	return
}

func (v *RtmpServer) identifyFlashPublish(p *RtmpPublishPacket) (connType RtmpConnType, streamName string, err error) {
	return RtmpFlashPublish, string(p.Stream), nil
}

func (v *RtmpServer) identifyPlay(p *RtmpPlayPacket) (connType RtmpConnType, streamName string, duration float64, err error) {
	connType = RtmpPlay
	streamName = string(p.Stream)
	if p.Duration != nil {
		duration = float64(*p.Duration)
	}

	return
}

// StartPlay responses the client to start the play stream:
//
//	StreamBegin,
//	onStatus(NetStream.Play.Reset), onStatus(NetStream.Play.Start),
//	|RtmpSampleAccess(false, false),
//	onStatus(NetStream.Data.Start).
func (v *RtmpServer) StartPlay(sid uint32) (err error) {
	// StreamBegin
	if p, ok := NewRtmpUserControlPacket().(*RtmpUserControlPacket); ok {
		p.EventType = RtmpUint16(RtmpPcucStreamBegin)
		p.EventData = RtmpUint32(sid)
		if err = v.stack.SendPacket(p, 0); err != nil {
			return
		}
	}

	// onStatus(NetStream.Play.Reset)
	if p, ok := NewRtmpOnStatusCallPacket().(*RtmpOnStatusCallPacket); ok {
		p.Data.Set(StatusLevel, NewAmf0String(StatusLevelStatus))
		p.Data.Set(StatusCode, NewAmf0String(StatusCodeStreamReset))
		p.Data.Set(StatusDescription, NewAmf0String("Playing and resetting stream."))
		p.Data.Set(StatusDetails, NewAmf0String("stream"))
		p.Data.Set(StatusClientId, NewAmf0String(RtmpSigClientId))
		if err = v.stack.SendPacket(p, sid); err != nil {
			return
		}
	}

	// onStatus(NetStream.Play.Start)
	if p, ok := NewRtmpOnStatusCallPacket().(*RtmpOnStatusCallPacket); ok {
		p.Data.Set(StatusLevel, NewAmf0String(StatusLevelStatus))
		p.Data.Set(StatusCode, NewAmf0String(StatusCodeStreamStart))
		p.Data.Set(StatusDescription, NewAmf0String("Started playing stream."))
		p.Data.Set(StatusDetails, NewAmf0String("stream"))
		p.Data.Set(StatusClientId, NewAmf0String(RtmpSigClientId))
		if err = v.stack.SendPacket(p, sid); err != nil {
			return
		}
	}

	// |RtmpSampleAccess(false, false)
	if p, ok := NewRtmpSampleAccessPacket().(*RtmpSampleAccessPacket); ok {
		if err = v.stack.SendPacket(p, sid); err != nil {
			return
		}
	}

	// onStatus(NetStream.Data.Start)
	if p, ok := NewRtmpOnStatusDataPacket().(*RtmpOnStatusDataPacket); ok {
		p.Data.Set(StatusCode, NewAmf0String(StatusCodeDataStart))
		if err = v.stack.SendPacket(p, sid); err != nil {
			return
		}
	}

	return
}

// OnPlayClientPause handles the pause message of the play client:
// when pause, onStatus(NetStream.Pause.Notify) and StreamEOF;
// when resume, onStatus(NetStream.Unpause.Notify) and StreamBegin.
func (v *RtmpServer) OnPlayClientPause(sid uint32, isPause bool) (err error) {
	if isPause {
		// onStatus(NetStream.Pause.Notify)
		if p, ok := NewRtmpOnStatusCallPacket().(*RtmpOnStatusCallPacket); ok {
			p.Data.Set(StatusLevel, NewAmf0String(StatusLevelStatus))
			p.Data.Set(StatusCode, NewAmf0String(StatusCodeStreamPause))
			p.Data.Set(StatusDescription, NewAmf0String("Paused stream."))
			if err = v.stack.SendPacket(p, sid); err != nil {
				return
			}
		}

		// StreamEOF
		if p, ok := NewRtmpUserControlPacket().(*RtmpUserControlPacket); ok {
			p.EventType = RtmpUint16(RtmpPcucStreamEOF)
			p.EventData = RtmpUint32(sid)
			if err = v.stack.SendPacket(p, 0); err != nil {
				return
			}
		}

		return
	}

	// onStatus(NetStream.Unpause.Notify)
	if p, ok := NewRtmpOnStatusCallPacket().(*RtmpOnStatusCallPacket); ok {
		p.Data.Set(StatusLevel, NewAmf0String(StatusLevelStatus))
		p.Data.Set(StatusCode, NewAmf0String(StatusCodeStreamUnpause))
		p.Data.Set(StatusDescription, NewAmf0String("Unpaused stream."))
		if err = v.stack.SendPacket(p, sid); err != nil {
			return
		}
	}

	// StreamBegin
	if p, ok := NewRtmpUserControlPacket().(*RtmpUserControlPacket); ok {
		p.EventType = RtmpUint16(RtmpPcucStreamBegin)
		p.EventData = RtmpUint32(sid)
		if err = v.stack.SendPacket(p, 0); err != nil {
			return
		}
	}

	return
}

// StartFmlePublish responses the FMLE encoder to start the publish
// stream:
//
//	FCPublish response,
//	createStream response,
//	onFCPublish(NetStream.Publish.Start),
//	onStatus(NetStream.Publish.Start).
func (v *RtmpServer) StartFmlePublish(sid uint32) (err error) {
	ctx := v.ctx

	for {
		var m *RtmpMessage
		if m, err = v.stack.ReadMessage(); err != nil {
			return
		}

		var p RtmpPacket
		if p, err = v.stack.DecodeMessage(m); err != nil {
			if err == ErrMsgInvalidSize {
				err = nil
				continue
			}
			return
		}

		switch p := p.(type) {
		case *RtmpFMLEStartPacket:
			res := NewRtmpFMLEStartResPacket().(*RtmpFMLEStartResPacket)
			res.TransactionId = p.TransactionId
			if err = v.stack.SendPacket(res, 0); err != nil {
				return
			}
		case *RtmpCreateStreamPacket:
			res := NewRtmpCreateStreamResPacket().(*RtmpCreateStreamResPacket)
			res.TransactionId = p.TransactionId
			res.StreamId = Amf0Number(float64(sid))
			if err = v.stack.SendPacket(res, 0); err != nil {
				return
			}
		case *RtmpPublishPacket:
			// onFCPublish(NetStream.Publish.Start)
			res := NewRtmpOnStatusCallPacket().(*RtmpOnStatusCallPacket)
			res.Name = Amf0String(Amf0CommandOnFcPublish)
			res.Data.Set(StatusCode, NewAmf0String(StatusCodePublishStart))
			res.Data.Set(StatusDescription, NewAmf0String("Started publishing stream."))
			if err = v.stack.SendPacket(res, sid); err != nil {
				return
			}

			// onStatus(NetStream.Publish.Start)
			res = NewRtmpOnStatusCallPacket().(*RtmpOnStatusCallPacket)
			res.Data.Set(StatusLevel, NewAmf0String(StatusLevelStatus))
			res.Data.Set(StatusCode, NewAmf0String(StatusCodePublishStart))
			res.Data.Set(StatusDescription, NewAmf0String("Started publishing stream."))
			res.Data.Set(StatusClientId, NewAmf0String(RtmpSigClientId))
			if err = v.stack.SendPacket(res, sid); err != nil {
				return
			}

			core.Trace.Println(ctx, "FMLE start publish ok.")
			return
		default:
			// drop the uninteresting packets.
		}
	}
}

// StartFlashPublish responses the Flash encoder to start the publish
// stream: onStatus(NetStream.Publish.Start).
func (v *RtmpServer) StartFlashPublish(sid uint32) (err error) {
	ctx := v.ctx

	res := NewRtmpOnStatusCallPacket().(*RtmpOnStatusCallPacket)
	res.Data.Set(StatusLevel, NewAmf0String(StatusLevelStatus))
	res.Data.Set(StatusCode, NewAmf0String(StatusCodePublishStart))
	res.Data.Set(StatusDescription, NewAmf0String("Started publishing stream."))
	res.Data.Set(StatusClientId, NewAmf0String(RtmpSigClientId))
	if err = v.stack.SendPacket(res, sid); err != nil {
		return
	}

	core.Trace.Println(ctx, "Flash start publish ok.")
	return
}

// FmleUnpublish processes the FMLE unpublish event:
//
//	onFCUnpublish(NetStream.unpublish.Success),
//	FCUnpublish response,
//	onStatus(NetStream.Unpublish.Success).
//
// @unpublishTid the transaction id of the FCUnpublish request.
func (v *RtmpServer) FmleUnpublish(sid uint32, unpublishTid float64) (err error) {
	// publish response onFCUnpublish(NetStream.unpublish.Success)
	if res, ok := NewRtmpOnStatusCallPacket().(*RtmpOnStatusCallPacket); ok {
		res.Name = Amf0String(Amf0CommandOnFcUnpublish)
		res.Data.Set(StatusCode, NewAmf0String(StatusCodeUnpublishSuccess))
		res.Data.Set(StatusDescription, NewAmf0String("Stop publishing stream."))
		if err = v.stack.SendPacket(res, sid); err != nil {
			return
		}
	}

	// FCUnpublish response
	if res, ok := NewRtmpFMLEStartResPacket().(*RtmpFMLEStartResPacket); ok {
		res.TransactionId = Amf0Number(unpublishTid)
		if err = v.stack.SendPacket(res, sid); err != nil {
			return
		}
	}

	// publish response onStatus(NetStream.Unpublish.Success)
	if res, ok := NewRtmpOnStatusCallPacket().(*RtmpOnStatusCallPacket); ok {
		res.Data.Set(StatusLevel, NewAmf0String(StatusLevelStatus))
		res.Data.Set(StatusCode, NewAmf0String(StatusCodeUnpublishSuccess))
		res.Data.Set(StatusDescription, NewAmf0String("Stream is now unpublished"))
		res.Data.Set(StatusClientId, NewAmf0String(RtmpSigClientId))
		if err = v.stack.SendPacket(res, sid); err != nil {
			return
		}
	}

	return
}

// ProcessPublishMessage handles the command messages of the publish
// cycle; audio/video/data messages are left to the caller.
// @remark error core.ErrClose when the client closes the stream,
// error core.ErrRepublish when the FMLE encoder unpublishes by FCUnpublish,
// after the unpublish responses are sent.
func (v *RtmpServer) ProcessPublishMessage(sid uint32, m *RtmpMessage) (err error) {
	ctx := v.ctx

	if !m.MessageType.IsCommand() {
		return
	}

	var p RtmpPacket
	if p, err = v.stack.DecodeMessage(m); err != nil {
		return
	}

	switch p := p.(type) {
	case *RtmpCloseStreamPacket:
		core.Trace.Println(ctx, "close stream by client.")
		return core.ErrClose
	case *RtmpFMLEStartPacket:
		if string(p.Name) == Amf0CommandUnpublish {
			if err = v.FmleUnpublish(sid, float64(p.TransactionId)); err != nil {
				return
			}
			core.Trace.Println(ctx, "FMLE unpublish, please republish.")
			return core.ErrRepublish
		}
	}

	return
}

// ProcessPlayMessage handles the command messages of the play cycle,
// for instance the pause/resume of the client.
func (v *RtmpServer) ProcessPlayMessage(sid uint32, m *RtmpMessage) (err error) {
	if !m.MessageType.IsCommand() {
		return
	}

	var p RtmpPacket
	if p, err = v.stack.DecodeMessage(m); err != nil {
		return
	}

	switch p := p.(type) {
	case *RtmpCloseStreamPacket:
		return core.ErrClose
	case *RtmpPausePacket:
		return v.OnPlayClientPause(sid, bool(p.IsPause))
	}

	return
}
