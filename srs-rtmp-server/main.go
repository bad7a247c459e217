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

/*
This the main entrance of srs-rtmp-server, the demo rtmp origin which
accepts publishers and fans the live stream out to players.
*/
package main

import (
	"fmt"
	"net"
	"syscall"

	oa "github.com/ossrs/go-oryx-lib/asprocess"
	ol "github.com/ossrs/go-oryx-lib/logger"
	oo "github.com/ossrs/go-oryx-lib/options"

	"github.com/winlinvip/go-srs-librtmp/core"
	"github.com/winlinvip/go-srs-librtmp/kernel"
	"github.com/winlinvip/go-srs-librtmp/protocol"
)

var signature = fmt.Sprintf("SRS-RTMP-SERVER/%v", kernel.Version())

// The config object for the rtmp server module.
type ServerConfig struct {
	kernel.Config `yaml:",inline"`
	Rtmp          struct {
		Listens   []string `json:"listens" yaml:"listens"`
		ChunkSize uint32   `json:"chunk_size" yaml:"chunk_size"`
		AckWindow uint32   `json:"ack_window" yaml:"ack_window"`
	} `json:"rtmp" yaml:"rtmp"`
}

func (v *ServerConfig) String() string {
	r := &v.Rtmp
	return fmt.Sprintf("%v, rtmp(listens=%v,chunk=%v,ack=%v)", &v.Config, r.Listens, r.ChunkSize, r.AckWindow)
}

func (v *ServerConfig) Loads(c string) (err error) {
	if err = kernel.LoadConfig(c, v); err != nil {
		return
	}

	if err = v.Config.OpenLogger(); err != nil {
		ol.E(nil, "Open logger failed, err is", err)
		return
	}

	if r := &v.Rtmp; len(r.Listens) == 0 {
		return fmt.Errorf("no rtmp listens")
	}
	if v.Rtmp.ChunkSize == 0 {
		v.Rtmp.ChunkSize = protocol.RtmpServerChunkSize
	}
	if v.Rtmp.AckWindow == 0 {
		v.Rtmp.AckWindow = protocol.RtmpDefaultAckWindow
	}

	return
}

func main() {
	var err error
	confFile := oo.ParseArgv("../conf/srs-rtmp-server.json", kernel.Version(), signature)
	fmt.Println("SRS-RTMP-SERVER is the demo rtmp origin, config is", confFile)

	conf := &ServerConfig{}
	if err = conf.Loads(confFile); err != nil {
		ol.E(nil, "Loads config failed, err is", err)
		return
	}
	defer conf.Close()

	ctx := &kernel.Context{}
	ol.T(ctx, fmt.Sprintf("Config ok, %v", conf))

	// the server is an asprocess of the shell.
	asq := make(chan bool, 1)
	oa.WatchNoExit(ctx, oa.Interval, asq)

	var listener *kernel.TcpListeners
	if listener, err = kernel.NewTcpListeners(conf.Rtmp.Listens); err != nil {
		ol.E(ctx, "create listener failed, err is", err)
		return
	}
	defer listener.Close()

	if err = listener.ListenTCP(); err != nil {
		ol.E(ctx, "listen tcp failed, err is", err)
		return
	}

	sources := NewSourcePool()

	wg := kernel.NewWorkerGroup()
	defer wg.Close()

	wg.QuitForChan(asq)
	wg.QuitForSignals(ctx, syscall.SIGINT, syscall.SIGTERM)

	wg.ForkGoroutine(func() {
		ol.T(ctx, "rtmp accepter ready")

		for {
			var c *net.TCPConn
			if c, err = listener.AcceptTCP(); err != nil {
				if err != kernel.ListenerDisposed {
					ol.E(ctx, "accept failed, err is", err)
				}
				break
			}

			go core.Recover("rtmp session", func() error {
				return serve(c, conf, sources)
			})
		}
	}, func() {
		_ = listener.Close()
	})

	wg.Wait()
	ol.T(ctx, "server ok")
}

// serve the rtmp session: handshake, connect, identify, then the play
// or publish cycle.
func serve(c *net.TCPConn, conf *ServerConfig, sources *SourcePool) (err error) {
	defer c.Close()

	ctx := core.NewContext()
	core.Trace.Println(ctx, "serve", c.RemoteAddr())

	rw := protocol.NewReadWriter(c)
	rtmp := protocol.NewRtmpServer(ctx, rw)

	if err = rtmp.Handshake(); err != nil {
		if !core.IsClientGracefullyClose(err) {
			core.Error.Println(ctx, "handshake failed. err is", err)
		}
		return
	}

	req := protocol.NewRtmpRequest(ctx)
	req.Ip = c.RemoteAddr().String()

	rtmp.SetRecvTimeout(protocol.ConnectAppTimeout)
	if err = rtmp.ConnectApp(req); err != nil {
		core.Error.Println(ctx, "connect app failed. err is", err)
		return
	}

	if err = rtmp.SetWindowAckSize(conf.Rtmp.AckWindow); err != nil {
		return
	}
	if err = rtmp.SetPeerBandwidth(conf.Rtmp.AckWindow, protocol.Dynamic); err != nil {
		return
	}
	if err = rtmp.ResponseConnectApp(req, ""); err != nil {
		return
	}
	if err = rtmp.OnBwDone(); err != nil {
		return
	}

	var sid uint32 = 1
	var duration float64
	rtmp.SetRecvTimeout(protocol.IdentifyTimeout)
	if req.Type, req.Stream, duration, err = rtmp.IdentifyClient(sid); err != nil {
		core.Error.Println(ctx, "identify client failed. err is", err)
		return
	}
	req.Duration = duration

	if err = rtmp.SetChunkSize(conf.Rtmp.ChunkSize); err != nil {
		return
	}

	core.Trace.Println(ctx, "client identified as", req.Type, "stream is", req.StreamUrl())

	switch req.Type {
	case protocol.RtmpPlay:
		return servePlay(ctx, rtmp, req, sources, sid)
	case protocol.RtmpFmlePublish:
		if err = rtmp.StartFmlePublish(sid); err != nil {
			return
		}
		return servePublish(ctx, rtmp, req, sources, sid)
	case protocol.RtmpFlashPublish:
		if err = rtmp.StartFlashPublish(sid); err != nil {
			return
		}
		return servePublish(ctx, rtmp, req, sources, sid)
	default:
		core.Warn.Println(ctx, "close unknown client type")
		return
	}
}

func servePlay(ctx core.Context, rtmp *protocol.RtmpServer, req *protocol.RtmpRequest, sources *SourcePool, sid uint32) (err error) {
	if err = rtmp.StartPlay(sid); err != nil {
		return
	}

	consumer := sources.SourceOf(req.StreamUrl()).Subscribe()
	defer consumer.Close()

	for {
		var m *protocol.SharedPtrMessage
		if m, err = consumer.Recv(); err != nil {
			return
		}

		// rewrite the per-recipient header only, the payload is shared.
		m.StreamId = sid
		if err = rtmp.SendMessage(m); err != nil {
			return
		}
	}
}

func servePublish(ctx core.Context, rtmp *protocol.RtmpServer, req *protocol.RtmpRequest, sources *SourcePool, sid uint32) (err error) {
	source := sources.SourceOf(req.StreamUrl())

	rtmp.SetRecvTimeout(protocol.PublishRecvTimeout)

	for {
		var m *protocol.RtmpMessage
		if m, err = rtmp.RecvMessage(); err != nil {
			if core.IsClientGracefullyClose(err) {
				core.Warn.Println(ctx, "publisher gracefully close.")
				err = nil
			}
			return
		}

		if m.MessageType.IsAV() || m.MessageType.IsData() {
			source.Publish(protocol.NewSharedPtrMessage(m))
			continue
		}

		if err = rtmp.ProcessPublishMessage(sid, m); err != nil {
			if core.IsSystemControl(err) {
				core.Trace.Println(ctx, "publish cycle done for control", err)
				err = nil
			}
			return
		}
	}
}
