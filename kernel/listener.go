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
This is the tcp listeners for the rtmp server.
*/
package kernel

import (
	"fmt"
	"net"
	"strings"
	"sync"

	ol "github.com/ossrs/go-oryx-lib/logger"
)

// ListenerDisposed returns when the user reuses a disposed listener.
var ListenerDisposed = fmt.Errorf("listener disposed")

// The tcp listeners over multiple addresses, the accepted connections
// and errors are aggregated to channels.
// @remark listener returns error ListenerDisposed when reused after
// disposed.
type TcpListeners struct {
	// The config and listener objects.
	addrs     []string
	listeners []*net.TCPListener
	// Used to get the connection or error for accept.
	conns chan *net.TCPConn
	errs  chan error
	// Used to ensure all goroutine quit.
	wait *sync.WaitGroup
	// Used to notify all goroutines to quit.
	closing chan bool
	// Used to prevent reuse of this object.
	disposed  bool
	reuseLock *sync.Mutex
}

// NewTcpListeners creates the listeners for addrs, each of the format
// tcp://host:port.
func NewTcpListeners(addrs []string) (v *TcpListeners, err error) {
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no listens")
	}

	for _, addr := range addrs {
		if !strings.HasPrefix(addr, "tcp://") && !strings.HasPrefix(addr, "tcp4://") && !strings.HasPrefix(addr, "tcp6://") {
			return nil, fmt.Errorf("%v should prefix with tcp://, tcp4:// or tcp6://", addr)
		}
		if n := strings.Count(addr, "://"); n != 1 {
			return nil, fmt.Errorf("%v contains %d network identify", addr, n)
		}
	}

	v = &TcpListeners{
		addrs:     addrs,
		conns:     make(chan *net.TCPConn),
		errs:      make(chan error),
		wait:      &sync.WaitGroup{},
		closing:   make(chan bool, 1),
		reuseLock: &sync.Mutex{},
	}

	return
}

// ListenTCP starts all listeners.
// @remark error ListenerDisposed when listener is disposed.
func (v *TcpListeners) ListenTCP() (err error) {
	if err = func() error {
		v.reuseLock.Lock()
		defer v.reuseLock.Unlock()

		// user should never listen on a disposed listener
		if v.disposed {
			return ListenerDisposed
		}
		return nil
	}(); err != nil {
		return
	}

	for _, addr := range v.addrs {
		var network, laddr string
		if vs := strings.SplitN(addr, "://", 2); true {
			network, laddr = vs[0], vs[1]
		}

		var l net.Listener
		if l, err = net.Listen(network, laddr); err != nil {
			return
		} else if l, ok := l.(*net.TCPListener); !ok {
			panic("listener: must be *net.TCPListener")
		} else {
			v.listeners = append(v.listeners, l)
		}
	}

	v.wait.Add(len(v.listeners))

	for i, l := range v.listeners {
		addr := v.addrs[i]

		go func(l *net.TCPListener, addr string) {
			defer v.wait.Done()

			v.acceptFrom(l, addr)
		}(l, addr)
	}

	return
}

func (v *TcpListeners) acceptFrom(l *net.TCPListener, addr string) {
	ctx := &Context{}

	for {
		if err := v.doAcceptFrom(l); err != nil {
			if err != ListenerDisposed {
				ol.W(ctx, "listener", addr, "quit, err is", err)
			}
			return
		}
	}
}

func (v *TcpListeners) doAcceptFrom(l *net.TCPListener) (err error) {
	defer func() {
		if err != nil {
			select {
			case v.errs <- err:
			case <-v.closing:
				v.closing <- true
				err = ListenerDisposed
			}
		}
	}()

	var conn *net.TCPConn
	if conn, err = l.AcceptTCP(); err != nil {
		return
	}

	select {
	case v.conns <- conn:
	case <-v.closing:
		v.closing <- true

		_ = conn.Close()
		return ListenerDisposed
	}

	return
}

// AcceptTCP accepts a connection from any of the listeners.
// @remark error ListenerDisposed when listener is disposed.
func (v *TcpListeners) AcceptTCP() (c *net.TCPConn, err error) {
	var ok bool
	select {
	case c, ok = <-v.conns:
	case err, ok = <-v.errs:
	case <-v.closing:
		v.closing <- true
		return nil, ListenerDisposed
	}

	if !ok {
		return nil, ListenerDisposed
	}

	return
}

// Close disposes the listeners, the object can never be reused.
// @remark implements io.Closer.
func (v *TcpListeners) Close() (err error) {
	v.reuseLock.Lock()
	defer v.reuseLock.Unlock()

	if v.disposed {
		return
	}

	v.disposed = true

	select {
	case v.closing <- true:
	default:
	}

	for _, l := range v.listeners {
		if r := l.Close(); r != nil {
			err = r
		}
	}
	v.listeners = nil

	v.wait.Wait()

	return
}
