// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package netio

import "errors"

// errNoSuchSocket is returned by Accept, Addr, SetBlock, Recv and Send
// given a socket ID the registry has never allocated or has already
// released. Shutdown ignores such an ID instead.
var errNoSuchSocket = errors.New("netio: no such socket")

// errNotListening is returned by Accept when bindFd names a connected
// socket rather than one opened with ModeBind (spec §4.6 ACCEPT:
// "bind_fd must name a listening socket").
var errNotListening = errors.New("netio: socket is not listening")

// errNotConnected is returned by Send when fd names a bound, unconnected
// listening socket rather than a connected one (spec §4.6 SEND:
// "fd must name a connected socket").
var errNotConnected = errors.New("netio: socket is not connected")

// errRecvTimeout is returned by Recv when its overall deadline elapses
// with no data ready (spec §4.6 RECV: "timeout elapses without data
// arriving").
var errRecvTimeout = errors.New("netio: recv timed out")
