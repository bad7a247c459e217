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
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/winlinvip/go-srs-librtmp/core"
)

// AMF0 marker
const (
	markerAmf0Number      = 0x00
	markerAmf0Boolean     = 0x01
	markerAmf0String      = 0x02
	markerAmf0Object      = 0x03
	markerAmf0MovieClip   = 0x04 // reserved, not supported
	markerAmf0Null        = 0x05
	markerAmf0Undefined   = 0x06
	markerAmf0Reference   = 0x07
	markerAmf0EcmaArray   = 0x08
	markerAmf0ObjectEnd   = 0x09
	markerAmf0StrictArray = 0x0A
	markerAmf0Date        = 0x0B
	markerAmf0LongString  = 0x0C
	markerAmf0UnSupported = 0x0D
	markerAmf0RecordSet   = 0x0E // reserved, not supported
	markerAmf0XmlDocument = 0x0F
	markerAmf0TypedObject = 0x10
	// AVM+ object is the AMF3 object.
	markerAmf0AVMplusObject = 0x11

	// User defined
	markerAmf0Invalid = 0x3F
)

// Amf0Any is any amf0 instance, for example, string or number or object.
// All amf0 instances marshal to bytes and unmarshal from bytes, where the
// Size is the count of bytes consumed by the last unmarshal or produced
// by the next marshal.
type Amf0Any interface {
	core.Marshaler
	core.UnmarshalSizer
}

// Amf0Discovery discoveries the amf0 instance by the marker ahead of data.
func Amf0Discovery(data []byte) (a Amf0Any, err error) {
	if len(data) == 0 {
		return nil, ErrAmf0
	}

	switch data[0] {
	case markerAmf0Number:
		return NewAmf0Number(0), nil
	case markerAmf0Boolean:
		return NewAmf0Bool(false), nil
	case markerAmf0String, markerAmf0LongString:
		return NewAmf0String(""), nil
	case markerAmf0Object:
		return NewAmf0Object(), nil
	case markerAmf0Null:
		return &Amf0Null{}, nil
	case markerAmf0Undefined:
		return &Amf0Undefined{}, nil
	case markerAmf0EcmaArray:
		return NewAmf0EcmaArray(), nil
	case markerAmf0ObjectEnd:
		return &amf0ObjectEOF{}, nil
	case markerAmf0StrictArray:
		return NewAmf0StrictArray(), nil
	case markerAmf0Date:
		return &Amf0Date{}, nil
	default:
		return nil, ErrAmf0
	}
}

// 2.2 Number Type
// number-type = number-marker DOUBLE
type Amf0Number float64

func NewAmf0Number(v float64) *Amf0Number {
	n := Amf0Number(v)
	return &n
}

func (v Amf0Number) String() string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

func (v *Amf0Number) Size() int {
	return 1 + 8
}

func (v *Amf0Number) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 9)
	data[0] = markerAmf0Number
	binary.BigEndian.PutUint64(data[1:], math.Float64bits(float64(*v)))
	return
}

func (v *Amf0Number) UnmarshalBinary(data []byte) (err error) {
	if len(data) < 9 || data[0] != markerAmf0Number {
		return ErrAmf0
	}
	*v = Amf0Number(math.Float64frombits(binary.BigEndian.Uint64(data[1:])))
	return
}

// 2.3 Boolean Type
// boolean-type = boolean-marker U8
//
//	0 is false, <> 0 is true
type Amf0Boolean bool

func NewAmf0Bool(v bool) *Amf0Boolean {
	b := Amf0Boolean(v)
	return &b
}

func (v Amf0Boolean) String() string {
	if v {
		return "true"
	}
	return "false"
}

func (v *Amf0Boolean) Size() int {
	return 1 + 1
}

func (v *Amf0Boolean) MarshalBinary() (data []byte, err error) {
	data = []byte{markerAmf0Boolean, 0}
	if *v {
		data[1] = 1
	}
	return
}

func (v *Amf0Boolean) UnmarshalBinary(data []byte) (err error) {
	if len(data) < 2 || data[0] != markerAmf0Boolean {
		return ErrAmf0
	}
	*v = Amf0Boolean(data[1] != 0)
	return
}

// 2.4 String Type
// string-type = string-marker UTF-8
// @remark unmarshal also accepts the long-string 2.14; marshal and Size
// use the string type up to 0xffff bytes and the long-string type with
// a 4-byte length above that.
type Amf0String string

func NewAmf0String(v string) *Amf0String {
	s := Amf0String(v)
	return &s
}

func (v Amf0String) String() string {
	return string(v)
}

func (v *Amf0String) Size() int {
	if len(*v) > 0xffff {
		return 1 + 4 + len(*v)
	}
	return 1 + 2 + len(*v)
}

func (v *Amf0String) MarshalBinary() (data []byte, err error) {
	var b bytes.Buffer

	if len(*v) > 0xffff {
		b.WriteByte(markerAmf0LongString)
		binary.Write(&b, binary.BigEndian, uint32(len(*v)))
	} else {
		b.WriteByte(markerAmf0String)
		binary.Write(&b, binary.BigEndian, uint16(len(*v)))
	}

	if _, err = b.WriteString(string(*v)); err != nil {
		return
	}

	return b.Bytes(), nil
}

func (v *Amf0String) UnmarshalBinary(data []byte) (err error) {
	if len(data) == 0 {
		return ErrAmf0
	}

	var nb int
	var p []byte
	switch data[0] {
	case markerAmf0String:
		if len(data) < 3 {
			return ErrAmf0
		}
		nb, p = int(binary.BigEndian.Uint16(data[1:])), data[3:]
	case markerAmf0LongString:
		if len(data) < 5 {
			return ErrAmf0
		}
		nb, p = int(binary.BigEndian.Uint32(data[1:])), data[5:]
	default:
		return ErrAmf0
	}

	if len(p) < nb {
		return ErrAmf0
	}
	*v = Amf0String(string(p[:nb]))

	return
}

// 2.7 null Type
// null-type = null-marker
type Amf0Null struct{}

func (v Amf0Null) String() string {
	return "null"
}

func (v *Amf0Null) Size() int {
	return 1
}

func (v *Amf0Null) MarshalBinary() (data []byte, err error) {
	return []byte{markerAmf0Null}, nil
}

func (v *Amf0Null) UnmarshalBinary(data []byte) (err error) {
	if len(data) == 0 || data[0] != markerAmf0Null {
		return ErrAmf0
	}
	return
}

// 2.8 undefined Type
// undefined-type = undefined-marker
type Amf0Undefined struct{}

func (v Amf0Undefined) String() string {
	return "undefined"
}

func (v *Amf0Undefined) Size() int {
	return 1
}

func (v *Amf0Undefined) MarshalBinary() (data []byte, err error) {
	return []byte{markerAmf0Undefined}, nil
}

func (v *Amf0Undefined) UnmarshalBinary(data []byte) (err error) {
	if len(data) == 0 || data[0] != markerAmf0Undefined {
		return ErrAmf0
	}
	return
}

// 2.13 Date Type
// time-zone = S16 ; reserved, not supported should be set to 0x0000
// date-type = date-marker DOUBLE time-zone
type Amf0Date struct {
	// An ActionScript Date is serialized as the number of milliseconds
	// elapsed since the epoch of midnight on 1st Jan 1970 in the UTC
	// time zone.
	Date uint64
	// While the design of this type reserves room for time zone offset
	// information, it should not be filled in.
	Zone uint16
}

func (v *Amf0Date) From(t time.Time) {
	v.Date = uint64(t.UnixNano() / int64(time.Millisecond))

	_, vz := t.Zone()
	v.Zone = uint16(vz)
}

func (v Amf0Date) String() string {
	return fmt.Sprintf("%v since 1970, zone is %v", v.Date, v.Zone)
}

func (v *Amf0Date) Size() int {
	return 1 + 8 + 2
}

func (v *Amf0Date) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 11)
	data[0] = markerAmf0Date
	binary.BigEndian.PutUint64(data[1:], v.Date)
	binary.BigEndian.PutUint16(data[9:], v.Zone)
	return
}

func (v *Amf0Date) UnmarshalBinary(data []byte) (err error) {
	if len(data) < 11 || data[0] != markerAmf0Date {
		return ErrAmf0
	}
	v.Date = binary.BigEndian.Uint64(data[1:])
	v.Zone = binary.BigEndian.Uint16(data[9:])
	return
}

// 2.11 Object End Type
// object-end-type = UTF-8-empty object-end-marker
// 0x00 0x00 0x09
// @remark we only use the 0x09 as object EOF, the 0x00 0x00 is
// the empty key ahead, consumed by the properties unmarshal.
type amf0ObjectEOF struct{}

func (v *amf0ObjectEOF) Size() int {
	return 1
}

func (v *amf0ObjectEOF) MarshalBinary() (data []byte, err error) {
	return []byte{markerAmf0ObjectEnd}, nil
}

func (v *amf0ObjectEOF) UnmarshalBinary(data []byte) (err error) {
	if len(data) == 0 || data[0] != markerAmf0ObjectEnd {
		return ErrAmf0
	}
	return
}

// amf0 utf8 string, the raw string without marker.
// 1.3.1 Strings and UTF-8
// UTF-8 = U16 *(UTF8-char)
type amf0Utf8 string

func (s *amf0Utf8) Size() int {
	return 2 + len(*s)
}

func (s *amf0Utf8) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 2+len(*s))
	binary.BigEndian.PutUint16(data, uint16(len(*s)))
	copy(data[2:], *s)
	return
}

func (s *amf0Utf8) UnmarshalBinary(data []byte) (err error) {
	if len(data) < 2 {
		return ErrAmf0
	}

	nb := int(binary.BigEndian.Uint16(data))
	if len(data) < 2+nb {
		return ErrAmf0
	}
	*s = amf0Utf8(string(data[2 : 2+nb]))

	return
}

// the amf0 property for object and array,
// to ensure the marshal in inserted order.
// for the FMLE will crash when AMF0Object is not ordered by inserted,
// if ordered in map, the string compare order, the FMLE will crash when
// got the response of connect app.
type amf0Property struct {
	key   amf0Utf8
	value Amf0Any
}

type amf0Properties struct {
	properties []*amf0Property
	eof        amf0ObjectEOF
}

func newAmf0Properties() *amf0Properties {
	return &amf0Properties{
		properties: make([]*amf0Property, 0),
	}
}

func (v *amf0Properties) Set(name string, value Amf0Any) {
	for _, e := range v.properties {
		if string(e.key) == name {
			e.value = value
			return
		}
	}

	v.properties = append(v.properties, &amf0Property{
		key:   amf0Utf8(name),
		value: value,
	})
}

func (v *amf0Properties) Get(name string) (value Amf0Any) {
	for _, e := range v.properties {
		if string(e.key) == name {
			return e.value
		}
	}
	return
}

func (v *amf0Properties) Count() int {
	return len(v.properties)
}

// KeyAt returns the key of the indexed property.
func (v *amf0Properties) KeyAt(index int) string {
	if index >= len(v.properties) {
		panic("amf0 properties overflow")
	}
	return string(v.properties[index].key)
}

// ValueAt returns the value of the indexed property.
func (v *amf0Properties) ValueAt(index int) Amf0Any {
	if index >= len(v.properties) {
		panic("amf0 properties overflow")
	}
	return v.properties[index].value
}

func (v *amf0Properties) Size() int {
	size := 2 + v.eof.Size()
	for _, e := range v.properties {
		size += e.key.Size() + e.value.Size()
	}
	return size
}

func (v *amf0Properties) MarshalBinary() (data []byte, err error) {
	var b bytes.Buffer

	for _, e := range v.properties {
		if err = core.Marshal(&e.key, &b); err != nil {
			return
		}
		if err = core.Marshal(e.value, &b); err != nil {
			return
		}
	}

	// the EOF with the empty key ahead.
	if _, err = b.Write([]byte{0, 0}); err != nil {
		return
	}
	if err = core.Marshal(&v.eof, &b); err != nil {
		return
	}

	return b.Bytes(), nil
}

func (v *amf0Properties) UnmarshalBinary(data []byte) (err error) {
	b := bytes.NewBuffer(data)

	for b.Len() > 0 {
		var key amf0Utf8
		if err = core.Unmarshal(&key, b); err != nil {
			return
		}

		var value Amf0Any
		if value, err = Amf0Discovery(b.Bytes()); err != nil {
			return
		}
		if err = core.Unmarshal(value, b); err != nil {
			return
		}

		// EOF.
		if _, ok := value.(*amf0ObjectEOF); ok && len(key) == 0 {
			return
		}

		v.Set(string(key), value)
	}

	return ErrAmf0
}

// 2.5 Object Type
// anonymous-object-type = object-marker *(object-property)
// object-property = (UTF-8 value-type) | (UTF-8-empty object-end-marker)
type Amf0Object struct {
	properties *amf0Properties
}

func NewAmf0Object() *Amf0Object {
	return &Amf0Object{
		properties: newAmf0Properties(),
	}
}

func (v Amf0Object) String() string {
	return fmt.Sprintf("object(%v)", v.properties.Count())
}

func (v *Amf0Object) Set(name string, value Amf0Any) *Amf0Object {
	v.properties.Set(name, value)
	return v
}

func (v *Amf0Object) Get(name string) (value Amf0Any) {
	return v.properties.Get(name)
}

func (v *Amf0Object) Count() int {
	return v.properties.Count()
}

func (v *Amf0Object) KeyAt(index int) string {
	return v.properties.KeyAt(index)
}

func (v *Amf0Object) ValueAt(index int) Amf0Any {
	return v.properties.ValueAt(index)
}

func (v *Amf0Object) Size() int {
	return 1 + v.properties.Size()
}

func (v *Amf0Object) MarshalBinary() (data []byte, err error) {
	var b bytes.Buffer

	if err = b.WriteByte(markerAmf0Object); err != nil {
		return
	}
	if err = core.Marshal(v.properties, &b); err != nil {
		return
	}

	return b.Bytes(), nil
}

func (v *Amf0Object) UnmarshalBinary(data []byte) (err error) {
	if len(data) == 0 || data[0] != markerAmf0Object {
		return ErrAmf0
	}
	return v.properties.UnmarshalBinary(data[1:])
}

// 2.10 ECMA Array Type
// ecma-array-type = associative-count *(object-property)
// associative-count = U32
// object-property = (UTF-8 value-type) | (UTF-8-empty object-end-marker)
type Amf0EcmaArray struct {
	properties *amf0Properties
}

func NewAmf0EcmaArray() *Amf0EcmaArray {
	return &Amf0EcmaArray{
		properties: newAmf0Properties(),
	}
}

func (v Amf0EcmaArray) String() string {
	return fmt.Sprintf("ecma-array(%v)", v.properties.Count())
}

func (v *Amf0EcmaArray) Set(name string, value Amf0Any) *Amf0EcmaArray {
	v.properties.Set(name, value)
	return v
}

func (v *Amf0EcmaArray) Get(name string) (value Amf0Any) {
	return v.properties.Get(name)
}

func (v *Amf0EcmaArray) Count() int {
	return v.properties.Count()
}

func (v *Amf0EcmaArray) KeyAt(index int) string {
	return v.properties.KeyAt(index)
}

func (v *Amf0EcmaArray) ValueAt(index int) Amf0Any {
	return v.properties.ValueAt(index)
}

func (v *Amf0EcmaArray) Size() int {
	return 1 + 4 + v.properties.Size()
}

func (v *Amf0EcmaArray) MarshalBinary() (data []byte, err error) {
	var b bytes.Buffer

	if err = b.WriteByte(markerAmf0EcmaArray); err != nil {
		return
	}
	if err = binary.Write(&b, binary.BigEndian, uint32(v.properties.Count())); err != nil {
		return
	}
	if err = core.Marshal(v.properties, &b); err != nil {
		return
	}

	return b.Bytes(), nil
}

func (v *Amf0EcmaArray) UnmarshalBinary(data []byte) (err error) {
	if len(data) < 5 || data[0] != markerAmf0EcmaArray {
		return ErrAmf0
	}

	// the associative-count is not reliable, some encoder writes zero,
	// always parse util the object EOF.
	return v.properties.UnmarshalBinary(data[5:])
}

// 2.12 Strict Array Type
// array-count = U32
// strict-array-type = array-count *(value-type)
type Amf0StrictArray struct {
	properties []Amf0Any
}

func NewAmf0StrictArray() *Amf0StrictArray {
	return &Amf0StrictArray{
		properties: make([]Amf0Any, 0),
	}
}

func (v Amf0StrictArray) String() string {
	return fmt.Sprintf("strict-array(%v)", len(v.properties))
}

func (v *Amf0StrictArray) Count() int {
	return len(v.properties)
}

func (v *Amf0StrictArray) Get(index int) Amf0Any {
	if index >= len(v.properties) {
		panic("amf0 strict array overflow")
	}
	return v.properties[index]
}

func (v *Amf0StrictArray) Add(e Amf0Any) *Amf0StrictArray {
	v.properties = append(v.properties, e)
	return v
}

func (v *Amf0StrictArray) Size() int {
	size := 1 + 4
	for _, e := range v.properties {
		size += e.Size()
	}
	return size
}

func (v *Amf0StrictArray) MarshalBinary() (data []byte, err error) {
	var b bytes.Buffer

	if err = b.WriteByte(markerAmf0StrictArray); err != nil {
		return
	}
	if err = binary.Write(&b, binary.BigEndian, uint32(len(v.properties))); err != nil {
		return
	}

	for _, e := range v.properties {
		if err = core.Marshal(e, &b); err != nil {
			return
		}
	}

	return b.Bytes(), nil
}

func (v *Amf0StrictArray) UnmarshalBinary(data []byte) (err error) {
	if len(data) < 5 || data[0] != markerAmf0StrictArray {
		return ErrAmf0
	}

	count := int(binary.BigEndian.Uint32(data[1:]))

	b := bytes.NewBuffer(data[5:])
	for i := 0; i < count; i++ {
		var e Amf0Any
		if e, err = Amf0Discovery(b.Bytes()); err != nil {
			return
		}
		if err = core.Unmarshal(e, b); err != nil {
			return
		}
		v.Add(e)
	}

	return
}
