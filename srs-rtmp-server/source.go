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
This is the live source which fans the published stream out to the
consumers, one shared payload for all of them.
*/
package main

import (
	"errors"
	"sync"

	"github.com/winlinvip/go-srs-librtmp/protocol"
)

// the recv queue size of each consumer, a slow consumer whose queue is
// full drops the newly delivered message.
const consumerQueueSize = 512

// ErrConsumerClosed returns when recv from a closed consumer.
var ErrConsumerClosed = errors.New("consumer closed")

// The pool of live sources, key is the stream url.
type SourcePool struct {
	lock    sync.Mutex
	sources map[string]*Source
}

func NewSourcePool() *SourcePool {
	return &SourcePool{
		sources: make(map[string]*Source),
	}
}

// SourceOf fetches or creates the source of the stream url.
func (v *SourcePool) SourceOf(url string) *Source {
	v.lock.Lock()
	defer v.lock.Unlock()

	if s, ok := v.sources[url]; ok {
		return s
	}

	s := NewSource(url)
	v.sources[url] = s
	return s
}

// The live source, the publisher writes shared messages, the consumers
// read their own shares.
type Source struct {
	url string

	lock      sync.Mutex
	consumers []*Consumer
	// the last data message (metadata) to start a late consumer; the
	// audio/video sequence headers are not cached.
	metadata *protocol.SharedPtrMessage
}

func NewSource(url string) *Source {
	return &Source{url: url}
}

// Subscribe creates a consumer of this source.
func (v *Source) Subscribe() *Consumer {
	v.lock.Lock()
	defer v.lock.Unlock()

	c := &Consumer{
		source: v,
		msgs:   make(chan *protocol.SharedPtrMessage, consumerQueueSize),
	}
	v.consumers = append(v.consumers, c)

	if v.metadata != nil {
		c.deliver(v.metadata.Copy())
	}

	return c
}

// Publish fans the shared message out to all consumers, then drops the
// publisher share.
func (v *Source) Publish(m *protocol.SharedPtrMessage) {
	v.lock.Lock()
	defer v.lock.Unlock()

	// cache the metadata for the late consumers.
	if m.MessageType.IsData() {
		if v.metadata != nil {
			v.metadata.Free()
		}
		v.metadata = m.Copy()
	}

	for _, c := range v.consumers {
		c.deliver(m.Copy())
	}

	m.Free()
}

func (v *Source) unsubscribe(c *Consumer) {
	v.lock.Lock()
	defer v.lock.Unlock()

	for i, e := range v.consumers {
		if e == c {
			v.consumers = append(v.consumers[:i], v.consumers[i+1:]...)
			break
		}
	}
}

// The consumer of a live source.
type Consumer struct {
	source *Source
	msgs   chan *protocol.SharedPtrMessage
	closed bool
	lock   sync.Mutex
}

// deliver the share to the consumer, drop it when the queue is full.
func (v *Consumer) deliver(m *protocol.SharedPtrMessage) {
	v.lock.Lock()
	defer v.lock.Unlock()

	if v.closed {
		m.Free()
		return
	}

	select {
	case v.msgs <- m:
	default:
		m.Free()
	}
}

// Recv waits for the next shared message.
func (v *Consumer) Recv() (m *protocol.SharedPtrMessage, err error) {
	m, ok := <-v.msgs
	if !ok {
		return nil, ErrConsumerClosed
	}
	return
}

// Close unsubscribes from the source and releases the queued shares.
func (v *Consumer) Close() error {
	v.source.unsubscribe(v)

	v.lock.Lock()
	if v.closed {
		v.lock.Unlock()
		return nil
	}
	v.closed = true
	close(v.msgs)
	v.lock.Unlock()

	for m := range v.msgs {
		m.Free()
	}

	return nil
}
