// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"time"

	"code.hybscloud.com/hostbridge/internal/netio"
	"code.hybscloud.com/hostbridge/internal/wire"
)

// handleSocket implements SOCKET: bind or connect a TCP or UDP socket
// (spec §4.6 SOCKET: "High bit of proto_mode selects BIND vs CONNECT;
// remaining bits select transport. Requires null-terminated host and
// port").
func handleSocket(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	host, ok := wire.CString(inputs[0])
	if !ok {
		return nil, wire.StatusBadInput
	}
	port, ok := wire.CString(inputs[1])
	if !ok {
		return nil, wire.StatusBadInput
	}
	protoMode, err := wire.U16(inputs[2])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	fd, err := ctx.Net.Socket(host, port, protoMode)
	if err != nil {
		return nil, wire.StatusBadInput
	}
	out, err := ctx.Alloc(2)
	if err != nil {
		return nil, wire.StatusAllocFailed
	}
	copy(out, wire.PutU16(fd))
	return [][]byte{out}, wire.StatusOK
}

// handleAccept implements ACCEPT: accept one pending connection, whose
// bind_fd may change for UDP (spec §4.6 ACCEPT).
func handleAccept(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	bindFd, err := wire.U16(inputs[0])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	bufSize, err := wire.U32(inputs[1])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	newBindFd, clientFd, remoteAddr, err := ctx.Net.Accept(bindFd, bufSize)
	if err != nil {
		return nil, wire.StatusBadInput
	}

	bindOut, err := ctx.Alloc(2)
	if err != nil {
		return nil, wire.StatusAllocFailed
	}
	copy(bindOut, wire.PutU16(newBindFd))

	clientOut, err := ctx.Alloc(2)
	if err != nil {
		return nil, wire.StatusAllocFailed
	}
	copy(clientOut, wire.PutU16(clientFd))

	ipOut, err := ctx.Alloc(len(remoteAddr))
	if err != nil {
		return nil, wire.StatusAllocFailed
	}
	copy(ipOut, remoteAddr)

	return [][]byte{bindOut, clientOut, ipOut}, wire.StatusOK
}

// handleSetBlock implements SET_BLOCK: mode 0 is blocking, mode 1 is
// non-blocking; any other value fails BAD_INPUT (spec §4.6 SET_BLOCK).
func handleSetBlock(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	fd, err := wire.U16(inputs[0])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	mode, err := wire.U16(inputs[1])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	var nonblock bool
	switch mode {
	case 0:
		nonblock = false
	case 1:
		nonblock = true
	default:
		return nil, wire.StatusBadInput
	}
	if err := ctx.Net.SetBlock(fd, nonblock); err != nil {
		return nil, wire.StatusBadInput
	}
	return nil, wire.StatusOK
}

// handleRecv implements RECV: timeout = TimeoutInfinite selects the
// blocking variant; otherwise timeout is microseconds against a
// deadline (spec §4.6 RECV).
func handleRecv(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	fd, err := wire.U16(inputs[0])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	n, err := wire.U32(inputs[1])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	timeout, err := wire.U32(inputs[2])
	if err != nil {
		return nil, wire.StatusBadInput
	}

	d := time.Duration(timeout) * time.Microsecond
	if timeout == netio.TimeoutInfinite {
		d = -1
	}

	data, err := ctx.Net.Recv(fd, int(n), d)
	if err != nil {
		return nil, wire.StatusBadInput
	}
	out, err := ctx.Alloc(len(data))
	if err != nil {
		return nil, wire.StatusAllocFailed
	}
	copy(out, data)
	return [][]byte{out}, wire.StatusOK
}

// handleSend implements SEND.
func handleSend(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	fd, err := wire.U16(inputs[0])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	n, err := ctx.Net.Send(fd, inputs[1])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	out, err := ctx.Alloc(4)
	if err != nil {
		return nil, wire.StatusAllocFailed
	}
	copy(out, wire.PutU32(uint32(n)))
	return [][]byte{out}, wire.StatusOK
}

// handleShutdown implements SHUTDOWN: always succeeds (spec §4.6
// SHUTDOWN: "Release socket; always succeeds").
func handleShutdown(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	fd, err := wire.U16(inputs[0])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	ctx.Net.Shutdown(fd)
	return nil, wire.StatusOK
}
