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
This is srs-play, sucks an rtmp stream like rtmpdump.
*/
package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/winlinvip/go-srs-librtmp/core"
	"github.com/winlinvip/go-srs-librtmp/protocol"
)

func main() {
	app := &cli.App{
		Name:  "srs-play",
		Usage: "suck rtmp stream like rtmpdump",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "url",
				Aliases:  []string{"r"},
				Usage:    "the rtmp stream url to play, like rtmp://127.0.0.1:1935/live/livestream",
				Required: true,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "the recv timeout of stream",
				Value: 30 * time.Second,
			},
		},
		Action: func(c *cli.Context) error {
			return play(c.String("url"), c.Duration("timeout"))
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}

func play(rawUrl string, timeout time.Duration) (err error) {
	ctx := core.NewContext()
	core.Trace.Println(ctx, "play", rawUrl)

	req := protocol.NewRtmpRequest(ctx)
	req.TcUrl, req.Stream = splitStream(rawUrl)
	if err = req.Reparse(); err != nil {
		return
	}

	var c net.Conn
	addr := fmt.Sprintf("%v:%v", req.Host, req.Port)
	if c, err = net.DialTimeout("tcp", addr, protocol.ConnectAppTimeout); err != nil {
		return
	}
	defer c.Close()

	rtmp := protocol.NewRtmpClient(ctx, protocol.NewReadWriter(c))

	if err = rtmp.Handshake(); err != nil {
		return
	}
	core.Trace.Println(ctx, "handshake success")

	var si *protocol.ServerInfo
	if si, err = rtmp.ConnectApp2(req.App, req.TcUrl, req, true); err != nil {
		return
	}
	core.Trace.Println(ctx, "connect vhost/app success, server is", si.Sig, si.Version)

	var sid uint32
	if sid, err = rtmp.CreateStream(); err != nil {
		return
	}

	if err = rtmp.Play(req.Stream, sid); err != nil {
		return
	}
	core.Trace.Println(ctx, "play stream success")

	rtmp.SetRecvTimeout(timeout)

	for {
		var m *protocol.RtmpMessage
		if m, err = rtmp.RecvMessage(); err != nil {
			if core.IsClientGracefullyClose(err) {
				core.Warn.Println(ctx, "server gracefully close.")
				err = nil
			}
			return
		}

		if m.MessageType.IsAV() || m.MessageType.IsData() {
			core.Trace.Println(ctx, fmt.Sprintf("got packet: type=%v, time=%v, size=%v",
				m.MessageType, m.Timestamp, len(m.Payload)))
		}
	}
}

// split the raw url rtmp://host:port/app/stream to the tcUrl and the
// stream name.
func splitStream(rawUrl string) (tcUrl, stream string) {
	tcUrl, stream = rawUrl, ""

	for i := len(rawUrl) - 1; i > 0; i-- {
		if rawUrl[i] == '/' {
			tcUrl, stream = rawUrl[:i], rawUrl[i+1:]
			break
		}
	}

	// never split the schema://host.
	if len(tcUrl) > 0 && tcUrl[len(tcUrl)-1] == '/' {
		tcUrl, stream = rawUrl, ""
	}

	return
}
