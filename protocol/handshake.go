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
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"time"

	"github.com/winlinvip/go-srs-librtmp/core"
)

// HsBytes stores the handshake bytes, three fixed-size blobs, for the
// smart switch between complex and simple handshake.
type HsBytes struct {
	// whether the blobs are read or created.
	c0c1Ok   bool
	s0s1s2Ok bool
	c2Ok     bool

	// 1 + 1536 + 1536 = 3073
	c0c1c2 []byte
	// 1 + 1536 + 1536 = 3073
	s0s1s2 []byte
}

func NewHsBytes() *HsBytes {
	return &HsBytes{
		c0c1c2: make([]byte, 3073),
		s0s1s2: make([]byte, 3073),
	}
}

func (v *HsBytes) C0() []byte {
	return v.c0c1c2[:1]
}

func (v *HsBytes) C1() []byte {
	return v.c0c1c2[1:1537]
}

func (v *HsBytes) C0C1() []byte {
	return v.c0c1c2[:1537]
}

func (v *HsBytes) C2() []byte {
	return v.c0c1c2[1537:]
}

func (v *HsBytes) S0() []byte {
	return v.s0s1s2[:1]
}

func (v *HsBytes) S1() []byte {
	return v.s0s1s2[1:1537]
}

func (v *HsBytes) S2() []byte {
	return v.s0s1s2[1537:]
}

func (v *HsBytes) S0S1S2() []byte {
	return v.s0s1s2[:]
}

func (v *HsBytes) ClientPlaintext() bool {
	return v.C0()[0] == 0x03
}

func (v *HsBytes) ServerPlaintext() bool {
	return v.S0()[0] == 0x03
}

func (v *HsBytes) readC0C1(r io.Reader) (err error) {
	if v.c0c1Ok {
		return
	}

	if _, err = io.ReadFull(r, v.C0C1()); err != nil {
		return
	}

	v.c0c1Ok = true
	return
}

func (v *HsBytes) readS0S1S2(r io.Reader) (err error) {
	if v.s0s1s2Ok {
		return
	}

	if _, err = io.ReadFull(r, v.S0S1S2()); err != nil {
		return
	}

	v.s0s1s2Ok = true
	return
}

func (v *HsBytes) readC2(r io.Reader) (err error) {
	if v.c2Ok {
		return
	}

	if _, err = io.ReadFull(r, v.C2()); err != nil {
		return
	}

	v.c2Ok = true
	return
}

func (v *HsBytes) writeC0C1(w io.Writer) (err error) {
	_, err = io.Copy(w, bytes.NewReader(v.C0C1()))
	return
}

func (v *HsBytes) writeS0S1S2(w io.Writer) (err error) {
	_, err = io.Copy(w, bytes.NewReader(v.S0S1S2()))
	return
}

func (v *HsBytes) writeC2(w io.Writer) (err error) {
	_, err = io.Copy(w, bytes.NewReader(v.C2()))
	return
}

func (v *HsBytes) s1Time1() []byte {
	return v.S1()[0:4]
}

func (v *HsBytes) s1Time2() []byte {
	return v.S1()[4:8]
}

func (v *HsBytes) c1Time() []byte {
	return v.C1()[0:4]
}

// create the plain c0c1 of the simple handshake.
func (v *HsBytes) createC0C1() {
	if v.c0c1Ok {
		return
	}

	core.RandomFill(v.C0C1())

	// c0, plain text.
	v.C0()[0] = 0x03

	// c1 time
	binary.BigEndian.PutUint32(v.c1Time(), uint32(time.Now().Unix()))
	// c1 version, zero for simple handshake.
	copy(v.C1()[4:8], []byte{0, 0, 0, 0})

	v.c0c1Ok = true
}

// create the s0s1s2 of the simple handshake from c1.
func (v *HsBytes) createS0S1S2() {
	if v.s0s1s2Ok {
		return
	}

	core.RandomFill(v.S0S1S2())

	// s0
	v.S0()[0] = 0x03

	// s1 time1
	binary.BigEndian.PutUint32(v.s1Time1(), uint32(time.Now().Unix()))

	// s1 time2 copy from c1
	if v.c0c1Ok {
		_ = copy(v.s1Time2(), v.c1Time())
	}

	// if c1 specified, copy c1 to s2.
	// @see: https://github.com/ossrs/srs/issues/46
	_ = copy(v.S2(), v.C1())

	v.s0s1s2Ok = true
}

// create the c2 of the simple handshake, the echo of s1.
func (v *HsBytes) createC2() {
	if v.c2Ok {
		return
	}

	_ = copy(v.C2(), v.S1())

	v.c2Ok = true
}

// 68bytes FMS key which is used to sign the sever packet.
var RtmpGenuineFMSKey = []byte{
	0x47, 0x65, 0x6e, 0x75, 0x69, 0x6e, 0x65, 0x20,
	0x41, 0x64, 0x6f, 0x62, 0x65, 0x20, 0x46, 0x6c,
	0x61, 0x73, 0x68, 0x20, 0x4d, 0x65, 0x64, 0x69,
	0x61, 0x20, 0x53, 0x65, 0x72, 0x76, 0x65, 0x72,
	0x20, 0x30, 0x30, 0x31, // Genuine Adobe Flash Media Server 001
	0xf0, 0xee, 0xc2, 0x4a, 0x80, 0x68, 0xbe, 0xe8,
	0x2e, 0x00, 0xd0, 0xd1, 0x02, 0x9e, 0x7e, 0x57,
	0x6e, 0xec, 0x5d, 0x2d, 0x29, 0x80, 0x6f, 0xab,
	0x93, 0xb8, 0xe6, 0x36, 0xcf, 0xeb, 0x31, 0xae,
} // 68

// 62bytes FP key which is used to sign the client packet.
var RtmpGenuineFPKey = []byte{
	0x47, 0x65, 0x6E, 0x75, 0x69, 0x6E, 0x65, 0x20,
	0x41, 0x64, 0x6F, 0x62, 0x65, 0x20, 0x46, 0x6C,
	0x61, 0x73, 0x68, 0x20, 0x50, 0x6C, 0x61, 0x79,
	0x65, 0x72, 0x20, 0x30, 0x30, 0x31, // Genuine Adobe Flash Player 001
	0xF0, 0xEE, 0xC2, 0x4A, 0x80, 0x68, 0xBE, 0xE8,
	0x2E, 0x00, 0xD0, 0xD1, 0x02, 0x9E, 0x7E, 0x57,
	0x6E, 0xEC, 0x5D, 0x2D, 0x29, 0x80, 0x6F, 0xAB,
	0x93, 0xB8, 0xE6, 0x36, 0xCF, 0xEB, 0x31, 0xAE,
} // 62

// sha256 digest algorithm.
// @param key the sha256 key, nil to use the plain digest.
func opensslHmacSha256(key []byte, data []byte) (digest []byte, err error) {
	if key == nil {
		d := sha256.Sum256(data)
		return d[:], nil
	}

	h := hmac.New(sha256.New, key)
	if _, err = h.Write(data); err != nil {
		return
	}
	return h.Sum(nil), nil
}

// the schema type for complex handshake.
type chsSchema uint8

func (v chsSchema) Schema0() bool {
	return v == Schema0
}

func (v chsSchema) Schema1() bool {
	return v == Schema1
}

const (
	// c1s1 schema0
	//     key: 764bytes
	//     digest: 764bytes
	Schema0 chsSchema = iota
	// c1s1 schema1
	//     digest: 764bytes
	//     key: 764bytes
	// @remark FMS only support schema1, please read
	// 		http://blog.csdn.net/win_lin/article/details/13006803
	Schema1
)

// 764bytes key structure
//
//	random-data: (offset)bytes
//	key-data: 128bytes
//	random-data: (764-offset-128-4)bytes
//	offset: 4bytes
//
// @see also: http://blog.csdn.net/win_lin/article/details/13006803
type chsKey []byte

func (v chsKey) Key() []byte {
	return v[v.Offset() : v.Offset()+128]
}

func (v chsKey) Offset() uint32 {
	max := uint32(764 - 128 - 4)
	b := v[764-4 : 764]

	var offset uint32
	offset += uint32(b[0])
	offset += uint32(b[1])
	offset += uint32(b[2])
	offset += uint32(b[3])

	return offset % max
}

// 764bytes digest structure
//
//	offset: 4bytes
//	random-data: (offset)bytes
//	digest-data: 32bytes
//	random-data: (764-4-offset-32)bytes
//
// @see also: http://blog.csdn.net/win_lin/article/details/13006803
type chsDigest []byte

func (v chsDigest) Digest() []byte {
	return v[4+v.Offset() : 4+v.Offset()+32]
}

func (v chsDigest) Offset() uint32 {
	max := uint32(764 - 32 - 4)
	b := v[0:4]

	var offset uint32
	offset += uint32(b[0])
	offset += uint32(b[1])
	offset += uint32(b[2])
	offset += uint32(b[3])

	return offset % max
}

// c1s1 schema0
//
//	time: 4bytes
//	version: 4bytes
//	key: 764bytes
//	digest: 764bytes
//
// c1s1 schema1
//
//	time: 4bytes
//	version: 4bytes
//	digest: 764bytes
//	key: 764bytes
//
// @see also: http://blog.csdn.net/win_lin/article/details/13006803
type chsC1S1 struct {
	time    uint32
	version uint32

	// schema 0 or schema 1
	schema chsSchema
	c1s1   []byte

	key    chsKey
	digest chsDigest
}

func (v *chsC1S1) Parse(c1s1 []byte, schema chsSchema) (err error) {
	if v.c1s1 = c1s1; len(c1s1) != 1536 {
		return ErrHandshake
	}

	v.time = binary.BigEndian.Uint32(c1s1[0:4])
	v.version = binary.BigEndian.Uint32(c1s1[4:8])

	p := c1s1[8:]
	if v.schema = schema; v.schema.Schema0() {
		v.key = chsKey(p[:764])
		v.digest = chsDigest(p[764:])
	} else {
		v.digest = chsDigest(p[:764])
		v.key = chsKey(p[764:])
	}
	return
}

// C1Create creates the client c1 over the bytes c1, with the digest of
// the FP key, for the complex handshake.
func (v *chsC1S1) C1Create(c1 []byte, time, version uint32, schema chsSchema) (err error) {
	if err = v.Parse(c1, schema); err != nil {
		return
	}

	v.time = time
	v.version = version
	binary.BigEndian.PutUint32(c1[0:4], time)
	binary.BigEndian.PutUint32(c1[4:8], version)

	// digest c1.
	var checksum []byte
	if checksum, err = v.digestC1(); err != nil {
		return
	}
	_ = copy(v.digest.Digest(), checksum[0:32])

	return
}

// S1Create creates the server s1 over the bytes s1, the same schema as
// the client c1, with the digest of the FMS key.
func (v *chsC1S1) S1Create(s1 []byte, time, version uint32, c1 *chsC1S1) (err error) {
	if err = v.Parse(s1, c1.schema); err != nil {
		return
	}

	v.time = time
	v.version = version
	binary.BigEndian.PutUint32(s1[0:4], time)
	binary.BigEndian.PutUint32(s1[4:8], version)

	// use openssl DH to
	// 		1. generate public and private key, save to s1 object.
	// 		2. compute the shared key, copy to s1.key.
	//		3. client use shared key to communicate.
	// where the shared key is computed by client and server public key.
	// for currently we don't use the shared key,
	// so we just use any random number.

	// digest s1.
	var checksum []byte
	if checksum, err = v.digestS1(); err != nil {
		return
	}
	_ = copy(v.digest.Digest(), checksum[0:32])

	return
}

// ValidateC1 validates the digest of client c1.
func (v *chsC1S1) ValidateC1() (ok bool, err error) {
	var checksum []byte
	if checksum, err = v.digestC1(); err != nil {
		return
	}

	ok = bytes.Equal(checksum[0:32], v.digest.Digest())
	return
}

// ValidateS1 validates the digest of server s1.
func (v *chsC1S1) ValidateS1() (ok bool, err error) {
	var checksum []byte
	if checksum, err = v.digestS1(); err != nil {
		return
	}

	ok = bytes.Equal(checksum[0:32], v.digest.Digest())
	return
}

func (v *chsC1S1) digestOffset() int {
	if v.schema.Schema0() {
		return 8 + 764 + 4 + int(v.digest.Offset())
	}
	return 8 + 4 + int(v.digest.Offset())
}

// c1s1 is splited by digest:
//
//	c1s1-part1: n bytes (time, version, key and digest-part1).
//	digest-data: 32bytes
//	c1s1-part2: (1536-n-32)bytes (digest-part2)
func (v *chsC1S1) join() []byte {
	j := append([]byte{}, v.c1s1[0:v.digestOffset()]...)
	return append(j, v.c1s1[v.digestOffset()+32:]...)
}

func (v *chsC1S1) digestC1() ([]byte, error) {
	return opensslHmacSha256(RtmpGenuineFPKey[0:30], v.join())
}

func (v *chsC1S1) digestS1() ([]byte, error) {
	return opensslHmacSha256(RtmpGenuineFMSKey[0:36], v.join())
}

// the c2s2 complex handshake structure.
// random-data: 1504bytes
// digest-data: 32bytes
// @see also: http://blog.csdn.net/win_lin/article/details/13006803
type chsC2S2 struct {
	c2s2 []byte
}

func (v *chsC2S2) Random() []byte {
	return v.c2s2[0:1504]
}

func (v *chsC2S2) Digest() []byte {
	return v.c2s2[1504:1536]
}

// C2Create creates the client c2 over the bytes c2, the signature of
// the server s1 digest with the FP key.
func (v *chsC2S2) C2Create(c2 []byte, s1 *chsC1S1) (err error) {
	v.c2s2 = c2

	var tempKey []byte
	if tempKey, err = opensslHmacSha256(RtmpGenuineFPKey[0:62], s1.digest.Digest()); err != nil {
		return
	}

	var digest []byte
	if digest, err = opensslHmacSha256(tempKey[0:32], v.Random()); err != nil {
		return
	}

	_ = copy(v.Digest(), digest[0:32])

	return
}

// S2Create creates the server s2 over the bytes s2, the signature of
// the client c1 digest with the FMS key.
func (v *chsC2S2) S2Create(s2 []byte, c1 *chsC1S1) (err error) {
	v.c2s2 = s2

	var tempKey []byte
	if tempKey, err = opensslHmacSha256(RtmpGenuineFMSKey[0:68], c1.digest.Digest()); err != nil {
		return
	}

	var digest []byte
	if digest, err = opensslHmacSha256(tempKey[0:32], v.Random()); err != nil {
		return
	}

	_ = copy(v.Digest(), digest[0:32])

	return
}

// the s1 version created by this server.
const rtmpServerHandshakeVersion = 0x01000504

// the c1 version created by this client, the same as the flash player
// to make FMS happy.
const rtmpClientHandshakeVersion = 0x80000702

// serverHandshake handshakes with the client over the transport, try
// complex then rollback to simple.
func serverHandshake(ctx core.Context, io ReadWriter, hs *HsBytes) (err error) {
	if err = hs.readC0C1(io); err != nil {
		return
	}

	// create s0s1s2 from c1, rewritten below for complex.
	hs.createS0S1S2()

	// complex handshake.
	chs := func() (completed bool, err error) {
		c1 := &chsC1S1{}

		// try schema0.
		// @remark, use schema0 to make flash player happy.
		if err = c1.Parse(hs.C1(), Schema0); err != nil {
			return
		}
		if completed, err = c1.ValidateC1(); err != nil {
			return
		}

		// try schema1
		if !completed {
			if err = c1.Parse(hs.C1(), Schema1); err != nil {
				return
			}
			if completed, err = c1.ValidateC1(); err != nil {
				return
			}
		}
		if !completed {
			return
		}

		// encode s1
		s1 := &chsC1S1{}
		if err = s1.S1Create(hs.S1(), uint32(time.Now().Unix()), rtmpServerHandshakeVersion, c1); err != nil {
			return
		}

		// encode s2
		s2 := &chsC2S2{}
		if err = s2.S2Create(hs.S2(), c1); err != nil {
			return
		}
		return
	}

	// simple handshake, plain text required.
	shs := func() (err error) {
		if !hs.ClientPlaintext() {
			return ErrPlainRequired
		}

		return
	}

	// try complex, then simple handshake.
	var completed bool
	if completed, err = chs(); err != nil {
		return
	}
	if !completed {
		core.Trace.Println(ctx, "rollback to simple handshake.")
		if err = shs(); err != nil {
			return
		}
	} else {
		core.Trace.Println(ctx, "complex handshake ok.")
	}

	if err = hs.writeS0S1S2(io); err != nil {
		return
	}

	return hs.readC2(io)
}

// clientHandshake handshakes with the server over the transport: send
// a digest-signed c0c1, then accept either a complex or a plain server.
func clientHandshake(ctx core.Context, io ReadWriter, hs *HsBytes) (err error) {
	// create the c0c1 with the digest of complex handshake,
	// a simple server treats it as random bytes.
	hs.createC0C1()

	c1 := &chsC1S1{}
	if err = c1.C1Create(hs.C1(), uint32(time.Now().Unix()), rtmpClientHandshakeVersion, Schema1); err != nil {
		return
	}

	if err = hs.writeC0C1(io); err != nil {
		return
	}

	if err = hs.readS0S1S2(io); err != nil {
		return
	}

	if !hs.ServerPlaintext() {
		return ErrPlainRequired
	}

	// complex when the s1 digest validates, then c2 is the signature
	// of s1; otherwise simple, c2 echoes s1.
	s1 := &chsC1S1{}
	if err = s1.Parse(hs.S1(), Schema1); err != nil {
		return
	}

	var completed bool
	if completed, err = s1.ValidateS1(); err != nil {
		return
	}

	if completed {
		c2 := &chsC2S2{}
		if err = c2.C2Create(hs.C2(), s1); err != nil {
			return
		}
		hs.c2Ok = true
		core.Trace.Println(ctx, "complex handshake ok.")
	} else {
		hs.createC2()
		core.Trace.Println(ctx, "rollback to simple handshake.")
	}

	return hs.writeC2(io)
}
