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
	"testing"

	"github.com/winlinvip/go-srs-librtmp/core"
)

func TestRequestReparse(t *testing.T) {
	r := NewRtmpRequest(core.NewContext())
	r.TcUrl = "rtmp://127.0.0.1:1935/live"
	r.Stream = "livestream"

	if err := r.Reparse(); err != nil {
		t.Fatal(err)
	}

	if r.Schema != "rtmp" {
		t.Error("invalid schema", r.Schema)
	}
	if r.Host != "127.0.0.1" || r.Vhost != "127.0.0.1" {
		t.Error("invalid host", r.Host, r.Vhost)
	}
	if r.Port != 1935 {
		t.Error("invalid port", r.Port)
	}
	if r.App != "live" || r.Stream != "livestream" {
		t.Error("invalid app or stream", r.App, r.Stream)
	}
}

func TestRequestDefaultPort(t *testing.T) {
	r := NewRtmpRequest(core.NewContext())
	r.TcUrl = "rtmp://ossrs.net/live"
	r.Stream = "livestream"

	if err := r.Reparse(); err != nil {
		t.Fatal(err)
	}
	if r.Port != RtmpDefaultPort {
		t.Error("invalid port", r.Port)
	}
	if r.Vhost != "ossrs.net" {
		t.Error("invalid vhost", r.Vhost)
	}
}

func TestRequestVhostInQuery(t *testing.T) {
	r := NewRtmpRequest(core.NewContext())
	r.TcUrl = "rtmp://127.0.0.1:1935/live?vhost=demo.srs.com"
	r.Stream = "livestream"

	if err := r.Reparse(); err != nil {
		t.Fatal(err)
	}
	if r.Vhost != "demo.srs.com" {
		t.Error("invalid vhost", r.Vhost)
	}
	if r.Host != "127.0.0.1" {
		t.Error("invalid host", r.Host)
	}
}

func TestRequestVhostInStream(t *testing.T) {
	r := NewRtmpRequest(core.NewContext())
	r.TcUrl = "rtmp://127.0.0.1:1935/live"
	r.Stream = "livestream?vhost=demo.srs.com"

	if err := r.Reparse(); err != nil {
		t.Fatal(err)
	}
	if r.Vhost != "demo.srs.com" {
		t.Error("invalid vhost", r.Vhost)
	}
	if r.Stream != "livestream" {
		t.Error("invalid stream", r.Stream)
	}
}

func TestRequestEllipsisParams(t *testing.T) {
	// the adobe tools escape the query to ...vhost...value.
	r := NewRtmpRequest(core.NewContext())
	r.TcUrl = "rtmp://127.0.0.1:1935/live...vhost...demo.srs.com"
	r.Stream = "livestream"

	if err := r.Reparse(); err != nil {
		t.Fatal(err)
	}
	if r.Vhost != "demo.srs.com" {
		t.Error("invalid vhost", r.Vhost)
	}
	if r.App != "live" {
		t.Error("invalid app", r.App)
	}
}

func TestRequestDomainParam(t *testing.T) {
	r := NewRtmpRequest(core.NewContext())
	r.TcUrl = "rtmp://127.0.0.1:1935/live?domain=demo.srs.com"
	r.Stream = "livestream"

	if err := r.Reparse(); err != nil {
		t.Fatal(err)
	}
	if r.Vhost != "demo.srs.com" {
		t.Error("invalid vhost", r.Vhost)
	}
}

func TestRequestStreamUrl(t *testing.T) {
	r := NewRtmpRequest(core.NewContext())
	r.TcUrl = "rtmp://127.0.0.1:1935/live"
	r.Stream = "livestream"

	if err := r.Reparse(); err != nil {
		t.Fatal(err)
	}
	if r.StreamUrl() != "127.0.0.1/live/livestream" {
		t.Error("invalid stream url", r.StreamUrl())
	}

	// the default vhost is elided.
	r.Vhost = RtmpDefaultVhost
	if r.StreamUrl() != "/live/livestream" {
		t.Error("invalid stream url", r.StreamUrl())
	}
}

func TestRequestInvalid(t *testing.T) {
	r := NewRtmpRequest(core.NewContext())
	r.TcUrl = "rtmp://"
	r.Stream = ""

	if err := r.Reparse(); err == nil {
		t.Error("should fail for empty vhost")
	}
}
