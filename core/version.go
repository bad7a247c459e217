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

import "fmt"

const major = 0
const minor = 1
const revision = 0

// Version returns the version string of this library.
func Version() string {
	return fmt.Sprintf("%v.%v.%v", major, minor, revision)
}

// SigKey specifies the project key
const SigKey = "SRS"

// SigServer specifies the server signature.
func SigServer() string {
	return fmt.Sprintf("%v/%v", SigKey, Version())
}

// SigRole specifies the project role
const SigRole = "librtmp"

// SigURL specifies the full project URL
const SigURL = "https://github.com/winlinvip/go-srs-librtmp"

// SigWeb specifies the project website
const SigWeb = "http://ossrs.net"

// SigAuthors specifies the project authors
const SigAuthors = "winlin"

// SigPrimary specifies the primary authors
func SigPrimary() string {
	return "SRS"
}
