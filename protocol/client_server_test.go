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
	"net"
	"testing"

	"github.com/winlinvip/go-srs-librtmp/core"
)

// create the connected tcp pair for the dialogue tests, the tcp
// buffers decouple the two sides.
func tcpPair(t *testing.T) (cc, sc net.Conn) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	done := make(chan net.Conn, 1)
	go func() {
		c, _ := l.Accept()
		done <- c
	}()

	if cc, err = net.Dial("tcp", l.Addr().String()); err != nil {
		t.Fatal(err)
	}

	sc = <-done
	if sc == nil {
		t.Fatal("accept failed")
	}

	return
}

// scenario: the client connects then plays, the server identifies the
// play client and starts the play dialogue; then the client pauses.
func TestClientServerPlayDialogue(t *testing.T) {
	cc, sc := tcpPair(t)
	defer cc.Close()
	defer sc.Close()

	type identity struct {
		connType RtmpConnType
		stream   string
		duration float64
	}
	ids := make(chan identity, 1)
	errs := make(chan error, 1)

	go func() {
		errs <- func() (err error) {
			rtmp := NewRtmpServer(core.NewContext(), NewReadWriter(sc))

			if err = rtmp.Handshake(); err != nil {
				return
			}

			req := NewRtmpRequest(core.NewContext())
			if err = rtmp.ConnectApp(req); err != nil {
				return
			}
			if req.TcUrl != "rtmp://127.0.0.1/live" || req.App != "live" {
				t.Error("invalid request", req.TcUrl, req.App)
			}

			if err = rtmp.SetWindowAckSize(RtmpDefaultAckWindow); err != nil {
				return
			}
			if err = rtmp.SetPeerBandwidth(RtmpDefaultAckWindow, Dynamic); err != nil {
				return
			}
			if err = rtmp.ResponseConnectApp(req, "127.0.0.1"); err != nil {
				return
			}
			if err = rtmp.OnBwDone(); err != nil {
				return
			}

			var id identity
			if id.connType, id.stream, id.duration, err = rtmp.IdentifyClient(1); err != nil {
				return
			}
			ids <- id

			if err = rtmp.SetChunkSize(4096); err != nil {
				return
			}
			if err = rtmp.StartPlay(1); err != nil {
				return
			}

			// the pause dialogue.
			var m *RtmpMessage
			for {
				if m, err = rtmp.RecvMessage(); err != nil {
					return
				}
				if m.MessageType.IsCommand() {
					return rtmp.ProcessPlayMessage(1, m)
				}
			}
		}()
	}()

	rtmp := NewRtmpClient(core.NewContext(), NewReadWriter(cc))

	if err := rtmp.Handshake(); err != nil {
		t.Fatal(err)
	}

	si, err := rtmp.ConnectApp2("live", "rtmp://127.0.0.1/live", nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if si.Ip != "127.0.0.1" {
		t.Error("invalid server ip", si.Ip)
	}
	if si.Sig == "" || si.Version == "" {
		t.Error("invalid server info", si)
	}

	sid, err := rtmp.CreateStream()
	if err != nil {
		t.Fatal(err)
	}
	if sid != 1 {
		t.Error("invalid stream id", sid)
	}

	if err = rtmp.Play("livestream", sid); err != nil {
		t.Fatal(err)
	}

	// drain the play start dialogue util the data start.
	if _, p, err := ExpectMessage[*RtmpOnStatusDataPacket](rtmp.Stack()); err != nil {
		t.Fatal(err)
	} else if s, ok := p.Data.Get(StatusCode).(*Amf0String); !ok || *s != StatusCodeDataStart {
		t.Error("invalid data start", p.Data)
	}

	id := <-ids
	if !id.connType.IsPlay() || id.stream != "livestream" {
		t.Error("invalid identity", id.connType, id.stream)
	}

	// pause the stream, expect the pause notify.
	pp := NewRtmpPausePacket().(*RtmpPausePacket)
	pp.IsPause = true
	pp.TimeMs = 1000
	if err = rtmp.SendPacket(pp, sid); err != nil {
		t.Fatal(err)
	}

	if _, p, err := ExpectMessage[*RtmpOnStatusCallPacket](rtmp.Stack()); err != nil {
		t.Fatal(err)
	} else if s, ok := p.Data.Get(StatusCode).(*Amf0String); !ok || *s != StatusCodeStreamPause {
		t.Error("invalid pause notify", p.Data)
	}

	if err = <-errs; err != nil {
		t.Fatal(err)
	}
}

// scenario: the FMLE encoder publishes: releaseStream(2), FCPublish(3),
// createStream(4), publish(0); the server responses _result(2),
// _result(3), _result(4, sid=1), onStatus(NetStream.Publish.Start);
// then the encoder unpublishes and the control signal surfaces.
func TestClientServerFmlePublishDialogue(t *testing.T) {
	cc, sc := tcpPair(t)
	defer cc.Close()
	defer sc.Close()

	errs := make(chan error, 1)
	payloads := make(chan []byte, 1)

	go func() {
		errs <- func() (err error) {
			rtmp := NewRtmpServer(core.NewContext(), NewReadWriter(sc))

			if err = rtmp.Handshake(); err != nil {
				return
			}

			req := NewRtmpRequest(core.NewContext())
			if err = rtmp.ConnectApp(req); err != nil {
				return
			}
			if err = rtmp.ResponseConnectApp(req, ""); err != nil {
				return
			}

			var connType RtmpConnType
			var stream string
			if connType, stream, _, err = rtmp.IdentifyClient(1); err != nil {
				return
			}
			if connType != RtmpFmlePublish || stream != "livestream" {
				t.Error("invalid identity", connType, stream)
			}

			if err = rtmp.StartFmlePublish(1); err != nil {
				return
			}

			// the publish cycle: the av payload then the unpublish.
			for {
				var m *RtmpMessage
				if m, err = rtmp.RecvMessage(); err != nil {
					return
				}

				if m.MessageType.IsAV() {
					payloads <- m.Payload
					continue
				}

				if err = rtmp.ProcessPublishMessage(1, m); err != nil {
					if err == core.ErrRepublish {
						return nil
					}
					return
				}
			}
		}()
	}()

	rtmp := NewRtmpClient(core.NewContext(), NewReadWriter(cc))

	if err := rtmp.Handshake(); err != nil {
		t.Fatal(err)
	}
	if err := rtmp.ConnectApp("live", "rtmp://127.0.0.1/live", nil, false); err != nil {
		t.Fatal(err)
	}

	sid, err := rtmp.FmlePublish("livestream")
	if err != nil {
		t.Fatal(err)
	}
	if sid != 1 {
		t.Error("invalid stream id", sid)
	}

	// publish an audio message.
	m := NewRtmpMessage()
	m.MessageType = RtmpMsgAudioMessage
	m.Timestamp = 100
	m.StreamId = sid
	m.PreferCid = RtmpCidAudio
	m.Payload = []byte{0xaf, 0x01, 0x0c}

	if err = rtmp.Stack().SendMessages(m); err != nil {
		t.Fatal(err)
	}

	if p := <-payloads; !bytes.Equal(p, m.Payload) {
		t.Error("invalid published payload", p)
	}

	// unpublish, the server surfaces the republish control signal.
	up := NewRtmpFMLEStartPacket().(*RtmpFMLEStartPacket)
	up.Name = Amf0String(Amf0CommandUnpublish)
	up.TransactionId = Amf0Number(rtmp.Stack().NextTransactionId())
	up.Stream = "livestream"
	if err = rtmp.SendPacket(up, sid); err != nil {
		t.Fatal(err)
	}

	if err = <-errs; err != nil {
		t.Fatal(err)
	}
}
