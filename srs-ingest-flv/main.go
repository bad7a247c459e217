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
This is srs-ingest-flv, ingest an flv file and publish to the rtmp
server, like FMLE.
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	flv "github.com/yapingcat/gomedia/go-flv"

	"github.com/winlinvip/go-srs-librtmp/core"
	"github.com/winlinvip/go-srs-librtmp/protocol"
)

func main() {
	app := &cli.App{
		Name:  "srs-ingest-flv",
		Usage: "ingest flv file and publish to RTMP server like FMLE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "in",
				Aliases:  []string{"i"},
				Usage:    "the input flv file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "url",
				Aliases:  []string{"y"},
				Usage:    "the rtmp url to publish, like rtmp://127.0.0.1:1935/live/livestream",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			return ingest(c.String("in"), c.String("url"))
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}

func ingest(inFlvFile, rawUrl string) (err error) {
	ctx := core.NewContext()
	core.Trace.Println(ctx, "ingest", inFlvFile, "to", rawUrl)

	req := protocol.NewRtmpRequest(ctx)
	req.TcUrl, req.Stream = splitStream(rawUrl)
	if err = req.Reparse(); err != nil {
		return
	}

	var f *os.File
	if f, err = os.Open(inFlvFile); err != nil {
		return
	}
	defer f.Close()

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
	if err = rtmp.ConnectApp(req.App, req.TcUrl, req, true); err != nil {
		return
	}

	var sid uint32
	if sid, err = rtmp.FmlePublish(req.Stream); err != nil {
		return
	}
	core.Trace.Println(ctx, "publish stream success, sid is", sid)

	return proxyTags(ctx, rtmp, bufio.NewReader(f), sid)
}

// read the flv tags and write each as an rtmp message, paced by the
// tag timestamps.
func proxyTags(ctx core.Context, rtmp *protocol.RtmpClient, r io.Reader, sid uint32) (err error) {
	// the flv header, 9 bytes, plus the first previous-tag-size.
	h := make([]byte, 13)
	if _, err = io.ReadFull(r, h); err != nil {
		return
	}
	if h[0] != 'F' || h[1] != 'L' || h[2] != 'V' {
		return fmt.Errorf("invalid flv header %v", h[0:3])
	}

	var startTime int64 = -1
	begin := time.Now()

	th := make([]byte, 11)
	for {
		// the flv tag header: type(1B), size(3B), timestamp(3B+1B),
		// stream id(3B).
		if _, err = io.ReadFull(r, th); err != nil {
			if err == io.EOF {
				core.Trace.Println(ctx, "ingest flv completed.")
				return nil
			}
			return
		}

		tagType := flv.TagType(th[0])
		size := flv.GetUint24(th[1:4])
		timestamp := uint64(flv.GetUint24(th[4:7])) | uint64(th[7])<<24

		m := protocol.NewRtmpMessage()
		m.Timestamp = timestamp
		m.StreamId = sid
		m.Payload = make([]byte, size)

		switch tagType {
		case flv.AUDIO_TAG:
			m.MessageType = protocol.RtmpMsgAudioMessage
			m.PreferCid = protocol.RtmpCidAudio
		case flv.VIDEO_TAG:
			m.MessageType = protocol.RtmpMsgVideoMessage
			m.PreferCid = protocol.RtmpCidVideo
		case flv.SCRIPT_TAG:
			m.MessageType = protocol.RtmpMsgAMF0DataMessage
			m.PreferCid = protocol.RtmpCidOverConnection2
		default:
			return fmt.Errorf("invalid flv tag type %v", th[0])
		}

		if _, err = io.ReadFull(r, m.Payload); err != nil {
			return
		}

		// the previous tag size.
		if _, err = io.ReadFull(r, th[0:4]); err != nil {
			return
		}

		core.Info.Println(ctx, fmt.Sprintf("flv tag: type=%v, time=%v, size=%v", m.MessageType, m.Timestamp, size))
		if err = rtmp.Stack().SendMessages(m); err != nil {
			return
		}

		// pace the send by the tag timestamps.
		if startTime < 0 {
			startTime = int64(timestamp)
		}
		elapsed := time.Since(begin)
		diff := time.Duration(int64(timestamp)-startTime)*time.Millisecond - elapsed
		if diff > time.Duration(0) {
			time.Sleep(diff)
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

	if len(tcUrl) > 0 && tcUrl[len(tcUrl)-1] == '/' {
		tcUrl, stream = rawUrl, ""
	}

	return
}
