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

package core

import (
	"bytes"
	"encoding"
	"math/rand"
	"reflect"
	"runtime/debug"
	"time"
)

// the random object to fill bytes.
var random *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

// RandomFill fills the bytes with random values.
func RandomFill(b []byte) {
	for i := 0; i < len(b); i++ {
		// the common value in [0x0f, 0xf0]
		b[i] = byte(0x0f + (random.Int() % (256 - 0x0f - 0x0f)))
	}
}

// Recover invokes the f with recover,
// the name of goroutine, use empty to ignore.
func Recover(name string, f func() error) {
	defer func() {
		if r := recover(); r != nil {
			if name != "" {
				Warn.Println(nil, name, "abort with", r)
			} else {
				Warn.Println(nil, "goroutine abort with", r)
			}

			Error.Println(nil, string(debug.Stack()))
		}
	}()

	if err := f(); err != nil && !IsNormalQuit(err) {
		if name != "" {
			Warn.Println(nil, name, "terminated with", err)
		} else {
			Warn.Println(nil, "terminated abort with", err)
		}
	}
}

// Marshaler is the binary marshaler.
type Marshaler interface {
	encoding.BinaryMarshaler
}

// UnmarshalSizer is the unmarshaler with size,
// the Size is the count of bytes consumed by UnmarshalBinary.
type UnmarshalSizer interface {
	encoding.BinaryUnmarshaler

	// the total size of bytes for this instance.
	Size() int
}

// Marshal the object o to b.
func Marshal(o Marshaler, b *bytes.Buffer) (err error) {
	if b == nil || o == nil {
		panic("should not be nil.")
	}

	var vb []byte
	if vb, err = o.MarshalBinary(); err != nil {
		return
	}
	if _, err = b.Write(vb); err != nil {
		return
	}

	return
}

// Marshals marshals all objects to a byte slice,
// a nil object is ignored, for optional fields.
func Marshals(os ...Marshaler) (data []byte, err error) {
	var b bytes.Buffer

	for _, o := range os {
		if o == nil || reflect.ValueOf(o).IsNil() {
			continue
		}

		if err = Marshal(o, &b); err != nil {
			return
		}
	}

	return b.Bytes(), nil
}

// Unmarshal the object from b, consume the bytes of the object.
func Unmarshal(o UnmarshalSizer, b *bytes.Buffer) (err error) {
	if b == nil || o == nil {
		panic("should not be nil")
	}

	if err = o.UnmarshalBinary(b.Bytes()); err != nil {
		return
	}
	b.Next(o.Size())

	return
}

// Unmarshals unmarshals all objects from b in order.
func Unmarshals(b *bytes.Buffer, os ...UnmarshalSizer) (err error) {
	for _, o := range os {
		if o == nil || reflect.ValueOf(o).IsNil() {
			continue
		}

		if err = Unmarshal(o, b); err != nil {
			return
		}
	}

	return
}
