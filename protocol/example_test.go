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

package protocol_test

import (
	"fmt"

	"github.com/winlinvip/go-srs-librtmp/protocol"
)

func ExampleAmf0Discovery() {
	b := []byte{0x02} // read from network

	for len(b) > 0 { // parse all amf0 instances in b.
		var err error
		var a protocol.Amf0Any

		if a, err = protocol.Amf0Discovery(b); err != nil {
			return
		}
		if err = a.UnmarshalBinary(b); err != nil {
			return
		}

		b = b[a.Size():] // consume the bytes for a.

		switch a := a.(type) {
		case *protocol.Amf0String:
			_ = *a // use the *string.
		case *protocol.Amf0Boolean:
			_ = *a // use the *bool.
		case *protocol.Amf0Number:
			_ = *a // use the *float64
		case *protocol.Amf0Null:
			_ = *a // use the null.
		case *protocol.Amf0Undefined:
			_ = *a // use the undefined.
		case *protocol.Amf0Object:
			_ = *a // use the *object
		case *protocol.Amf0EcmaArray:
			_ = *a // use the *ecma-array
		case *protocol.Amf0StrictArray:
			_ = *a // use the *strict-array
		default:
			return // invalid type.
		}
	}
}

func ExampleAmf0String_MarshalBinary() {
	s := protocol.Amf0String("srs0")

	var b []byte
	var err error
	if b, err = s.MarshalBinary(); err != nil {
		return
	}

	fmt.Println(len(b))
	fmt.Println(b)

	// Output:
	// 7
	// [2 0 4 115 114 115 48]
}

func ExampleAmf0String_UnmarshalBinary() {
	b := []byte{0x02, 0x00, 0x04, 's', 'r', 's', '0'} // read from network

	var s protocol.Amf0String
	if err := s.UnmarshalBinary(b); err != nil {
		return
	}

	fmt.Println(s)

	// Output:
	// srs0
}

func ExampleAmf0Object() {
	o := protocol.NewAmf0Object()
	o.Set("code", protocol.NewAmf0Number(400))
	o.Set("desc", protocol.NewAmf0String("error"))

	fmt.Println(o.Size())

	// Output:
	// 33
}
