// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/hostbridge/internal/dispatch"
	"code.hybscloud.com/hostbridge/internal/hostlog"
	"code.hybscloud.com/hostbridge/internal/netio"
	"code.hybscloud.com/hostbridge/internal/serialport"
	"code.hybscloud.com/hostbridge/internal/session"
	"code.hybscloud.com/hostbridge/internal/wire"
)

func TestParsePipePort(t *testing.T) {
	r, w, ok := parsePipePort("pipe:3,4")
	require.True(t, ok)
	assert.Equal(t, 3, r)
	assert.Equal(t, 4, w)

	_, _, ok = parsePipePort("/dev/ttyUSB0")
	assert.False(t, ok)

	_, _, ok = parsePipePort("pipe:notanumber,4")
	assert.False(t, ok)
}

// TestPipeTransportEndToEnd exercises the pipe alternate transport
// (spec §9 open question 4) end to end: a target-side writer sends the
// "{{" resync sentinel, one PUSH and an EXIT through a real OS pipe, and
// the frontend's session machinery returns the requested exit code.
func TestPipeTransportEndToEnd(t *testing.T) {
	hostR, targetW, err := os.Pipe()
	require.NoError(t, err)
	targetR, hostW, err := os.Pipe()
	require.NoError(t, err)

	port := serialport.OpenPipe(hostR, hostW)
	defer port.Close()

	log := hostlog.Nop
	ch := session.NewChannel(port, port, log)
	ctx := dispatch.NewContext(&netio.Registry{}, wire.DefaultAllocator, log)
	sess := session.New(ch, ctx, log)

	go func() {
		defer targetW.Close()
		_, _ = targetW.WriteString("{{")
		pushHdr := wire.EncodeHeader(wire.Frame{Type: wire.FramePush, Length: 4})
		_, _ = targetW.Write(pushHdr[:])
		_, _ = targetW.Write(wire.PutU32(7))
		execHdr := wire.EncodeHeader(wire.Frame{Type: wire.FrameExecute, Opcode: dispatch.OpExit})
		_, _ = targetW.Write(execHdr[:])
	}()

	code, err := sess.Run()
	require.NoError(t, err)
	assert.Equal(t, int32(7), code)

	_ = targetR.Close()
}
