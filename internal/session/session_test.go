// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package session_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/hostbridge/internal/dispatch"
	"code.hybscloud.com/hostbridge/internal/hostlog"
	"code.hybscloud.com/hostbridge/internal/netio"
	"code.hybscloud.com/hostbridge/internal/session"
	"code.hybscloud.com/hostbridge/internal/wire"
)

func readFrame(t *testing.T, out *bytes.Buffer) (wire.Frame, []byte) {
	t.Helper()
	var hdr [wire.HeaderLen]byte
	copy(hdr[:], out.Next(wire.HeaderLen))
	f, err := wire.DecodeHeader(hdr)
	require.NoError(t, err)
	if f.Length == 0 {
		return f, nil
	}
	return f, out.Next(int(f.Length))
}

func newSession(in, out *bytes.Buffer, alloc wire.Allocator) *session.Session {
	ch := session.NewChannel(in, out, hostlog.Nop)
	ctx := dispatch.NewContext(&netio.Registry{}, alloc, hostlog.Nop)
	return session.New(ch, ctx, hostlog.Nop)
}

func TestEchoScenario(t *testing.T) {
	in := new(bytes.Buffer)
	in.WriteString("{{")
	pushHdr := wire.EncodeHeader(wire.Frame{Type: wire.FramePush, Length: 5})
	in.Write(pushHdr[:])
	in.WriteString("Hello")
	execHdr := wire.EncodeHeader(wire.Frame{Type: wire.FrameExecute, Opcode: dispatch.OpEcho})
	in.Write(execHdr[:])

	out := new(bytes.Buffer)
	sess := newSession(in, out, wire.DefaultAllocator)
	_, err := sess.Run()
	require.Error(t, err) // channel hits EOF after the one exchange

	statusFrame, statusPayload := readFrame(t, out)
	assert.Equal(t, wire.FrameResult, statusFrame.Type)
	status, err := wire.U32(statusPayload)
	require.NoError(t, err)
	assert.Equal(t, uint32(wire.StatusOK), status)

	dataFrame, dataPayload := readFrame(t, out)
	assert.Equal(t, wire.FrameResult, dataFrame.Type)
	assert.Equal(t, "Hello", string(dataPayload))
}

func TestExitScenario(t *testing.T) {
	in := new(bytes.Buffer)
	in.WriteString("{{")
	pushHdr := wire.EncodeHeader(wire.Frame{Type: wire.FramePush, Length: 4})
	in.Write(pushHdr[:])
	in.Write(wire.PutU32(42))
	execHdr := wire.EncodeHeader(wire.Frame{Type: wire.FrameExecute, Opcode: dispatch.OpExit})
	in.Write(execHdr[:])

	out := new(bytes.Buffer)
	sess := newSession(in, out, wire.DefaultAllocator)
	code, err := sess.Run()
	require.NoError(t, err)
	assert.Equal(t, int32(42), code)
	assert.Equal(t, session.StateExited, sess.State())
	assert.Equal(t, 0, out.Len(), "EXIT emits no reply")
}

func TestBadArityScenario(t *testing.T) {
	in := new(bytes.Buffer)
	in.WriteString("{{")
	execHdr := wire.EncodeHeader(wire.Frame{Type: wire.FrameExecute, Opcode: dispatch.OpEcho})
	in.Write(execHdr[:])

	out := new(bytes.Buffer)
	sess := newSession(in, out, wire.DefaultAllocator)
	_, _ = sess.Run()

	statusFrame, statusPayload := readFrame(t, out)
	assert.Equal(t, wire.FrameResult, statusFrame.Type)
	status, err := wire.U32(statusPayload)
	require.NoError(t, err)
	assert.Equal(t, uint32(wire.StatusBadInput), status)
	assert.Equal(t, 0, out.Len(), "failure emits only the status frame")
}

func TestOutOfMemoryPushRecovery(t *testing.T) {
	calls := 0
	failOnce := func(n int) ([]byte, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("simulated alloc failure")
		}
		return make([]byte, n), nil
	}

	in := new(bytes.Buffer)
	in.WriteString("{{")
	pushHdr := wire.EncodeHeader(wire.Frame{Type: wire.FramePush, Length: 16})
	in.Write(pushHdr[:])
	in.Write(make([]byte, 16))
	execHdr := wire.EncodeHeader(wire.Frame{Type: wire.FrameExecute, Opcode: dispatch.OpEcho})
	in.Write(execHdr[:])
	// A second, normal round proves the session recovered back to OK.
	pushHdr2 := wire.EncodeHeader(wire.Frame{Type: wire.FramePush, Length: 2})
	in.Write(pushHdr2[:])
	in.WriteString("hi")
	in.Write(execHdr[:])

	out := new(bytes.Buffer)
	ch := session.NewChannel(in, out, hostlog.Nop)
	ctx := dispatch.NewContext(&netio.Registry{}, failOnce, hostlog.Nop)
	sess := session.New(ch, ctx, hostlog.Nop)
	_, _ = sess.Run()

	firstFrame, firstPayload := readFrame(t, out)
	assert.Equal(t, wire.FrameResult, firstFrame.Type)
	status, err := wire.U32(firstPayload)
	require.NoError(t, err)
	assert.Equal(t, uint32(wire.StatusAllocFailed), status)

	secondFrame, secondPayload := readFrame(t, out)
	assert.Equal(t, wire.FrameResult, secondFrame.Type)
	status, err = wire.U32(secondPayload)
	require.NoError(t, err)
	assert.Equal(t, uint32(wire.StatusOK), status)

	thirdFrame, thirdPayload := readFrame(t, out)
	assert.Equal(t, wire.FrameResult, thirdFrame.Type)
	assert.Equal(t, "hi", string(thirdPayload))
}

func TestChannelDeathOnShortRead(t *testing.T) {
	in := bytes.NewBufferString("{{")
	out := new(bytes.Buffer)
	sess := newSession(in, out, wire.DefaultAllocator)
	_, err := sess.Run()
	assert.Error(t, err)
	assert.Equal(t, session.StateDead, sess.State())
}
