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
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/winlinvip/go-srs-librtmp/core"
)

// RtmpRequest is the original request from client.
type RtmpRequest struct {
	ctx core.Context

	// the client ip.
	Ip string

	// tcUrl: rtmp://request_vhost:port/app/stream
	// support pass vhost in query string, such as:
	//    rtmp://ip:port/app?vhost=request_vhost/stream
	//    rtmp://ip:port/app...vhost...request_vhost/stream
	TcUrl   string
	PageUrl string
	SwfUrl  string
	// the required object encoding.
	ObjectEncoding float64

	// the schema in tcUrl.
	Schema string
	// the vhost discoveried from tcUrl or query.
	Vhost string
	// the host in tcUrl.
	Host string
	// the port in tcUrl, default to 1935.
	Port int
	// the app in tcUrl, without param.
	App string
	// the param in tcUrl(app).
	Param string
	// the stream in play/publish.
	Stream string
	// for play live stream, used to specified the stop when exceed the
	// duration, in ms. @see https://github.com/ossrs/srs/issues/45
	Duration float64
	// the token in the connect request, used for edge traverse to
	// origin authentication. @see https://github.com/ossrs/srs/issues/104
	Args *Amf0Object

	// the type of connection, publish or play.
	Type RtmpConnType

	// the url, parsed from tcUrl/stream?params.
	Url *url.URL
}

func NewRtmpRequest(ctx core.Context) *RtmpRequest {
	return &RtmpRequest{
		ctx:  ctx,
		Type: RtmpUnknown,
		Port: RtmpDefaultPort,
		Url:  &url.URL{},
	}
}

// Copy the request, for the source to hold a stable request while the
// connection reuses and mutates its own.
func (v *RtmpRequest) Copy() *RtmpRequest {
	c := *v
	return &c
}

// StreamUrl returns the identity of the stream, vhost/app/stream.
func (v *RtmpRequest) StreamUrl() string {
	uri := ""
	if v.Vhost != RtmpDefaultVhost {
		uri += v.Vhost
	}

	uri += "/" + v.App
	uri += "/" + v.Stream

	return uri
}

// the host connected at, the ip or domain name(vhost).
func (v *RtmpRequest) hostOf(u *url.URL) string {
	if !strings.Contains(u.Host, ":") {
		return u.Host
	}

	if h, _, err := net.SplitHostPort(u.Host); err == nil {
		return h
	}
	return ""
}

func (v *RtmpRequest) portOf(u *url.URL) int {
	if _, p, err := net.SplitHostPort(u.Host); err != nil {
		return RtmpDefaultPort
	} else if p, err := strconv.ParseInt(p, 10, 32); err != nil {
		return RtmpDefaultPort
	} else if p <= 0 {
		return RtmpDefaultPort
	} else {
		return int(p)
	}
}

// Reparse parses the rtmp request object from tcUrl/stream?params
// to discovery the schema, vhost, app, stream and the query.
func (v *RtmpRequest) Reparse() (err error) {
	ctx := v.ctx

	// convert app...pn0...pv0...pn1...pv1...pnn...pvn
	// to (without space):
	// 		app ? pn0=pv0 && pn1=pv1 && pnn=pvn
	// where ... can replaced by ___ or ? or && or &
	mfn := func(s string) string {
		r := s
		matchs := []string{"...", "___", "?", "&&", "&"}
		for _, m := range matchs {
			r = strings.Replace(r, m, "...", -1)
		}
		return r
	}
	ffn := func(s string) string {
		r := mfn(s)
		for first := true; ; first = false {
			if !strings.Contains(r, "...") {
				break
			}
			if first {
				r = strings.Replace(r, "...", "?", 1)
			} else {
				r = strings.Replace(r, "...", "&&", 1)
			}

			if !strings.Contains(r, "...") {
				break
			}
			r = strings.Replace(r, "...", "=", 1)
		}
		return r
	}

	// format the app and stream.
	v.TcUrl = ffn(v.TcUrl)
	v.Stream = ffn(v.Stream)

	// format the tcUrl and stream.
	var params string
	if ss := strings.SplitN(v.TcUrl, "?", 2); len(ss) == 2 {
		v.TcUrl = ss[0]
		params = ss[1]
	}
	if ss := strings.SplitN(v.Stream, "?", 2); len(ss) == 2 {
		v.Stream = ss[0]
		params += "&&" + ss[1]
	}
	params = strings.TrimLeft(params, "&&")

	// the standard rtmp uri is:
	//		rtmp://ip:port/app?params
	// where the simple url is:
	//		rtmp://vhost/app/stream
	// and the standard adobe url to support param is:
	//		rtmp://ip/app?params/stream
	// some client use stream to pass the params:
	//		rtmp://ip/app/stream?params
	// we will parse all uri to the standard rtmp uri.
	u := fmt.Sprintf("%v?%v", v.TcUrl, params)
	if v.Url, err = url.Parse(u); err != nil {
		return
	}
	q := v.Url.Query()

	// parse result.
	v.Schema = v.Url.Scheme
	v.Host = v.hostOf(v.Url)
	v.Port = v.portOf(v.Url)
	v.Param = v.Url.RawQuery

	v.Vhost = v.Host
	if p := q.Get("vhost"); p != "" {
		v.Vhost = p
	} else if p := q.Get("domain"); p != "" {
		v.Vhost = p
	}

	if v.App = strings.TrimLeft(v.Url.Path, "/"); v.App == "" {
		v.App = RtmpDefaultApp
	}
	v.Stream = strings.Trim(v.Stream, "/")

	// check.
	if v.Vhost == "" {
		core.Error.Println(ctx, "vhost must not be empty")
		return ErrRequestURL
	}
	if v.App == "" && v.Stream == "" {
		core.Error.Println(ctx, "both app and stream must not be empty")
		return ErrRequestURL
	}
	if p := v.Port; p <= 0 {
		core.Error.Println(ctx, "port must be positive, actual is", p)
		return ErrRequestURL
	}

	return
}

// RtmpConnType is the type of the rtmp client.
type RtmpConnType uint8

const (
	RtmpUnknown RtmpConnType = iota
	RtmpPlay
	RtmpFmlePublish
	RtmpFlashPublish
)

func (v RtmpConnType) String() string {
	switch v {
	case RtmpPlay:
		return "play"
	case RtmpFmlePublish:
		return "fmle-publish"
	case RtmpFlashPublish:
		return "flash-publish"
	default:
		return "unknown"
	}
}

// IsPlay whether connection is player
func (v RtmpConnType) IsPlay() bool {
	return v == RtmpPlay
}

// IsPublish whether connection is flash or fmle publisher.
func (v RtmpConnType) IsPublish() bool {
	return v == RtmpFlashPublish || v == RtmpFmlePublish
}

// RtmpResponse is the response to the client.
type RtmpResponse struct {
	// the stream id to response the client createStream.
	StreamId uint32
}

func NewRtmpResponse() *RtmpResponse {
	return &RtmpResponse{}
}
