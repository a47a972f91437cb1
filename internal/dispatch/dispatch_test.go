// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/hostbridge/internal/dispatch"
	"code.hybscloud.com/hostbridge/internal/hostlog"
	"code.hybscloud.com/hostbridge/internal/netio"
	"code.hybscloud.com/hostbridge/internal/wire"
)

func newCtx() *dispatch.Context {
	return dispatch.NewContext(&netio.Registry{}, wire.DefaultAllocator, hostlog.Nop)
}

func TestUnknownOpcodeFailsBadInput(t *testing.T) {
	ctx := newCtx()
	_, status := dispatch.Dispatch(ctx, 0xffffff, nil)
	assert.Equal(t, wire.StatusBadInput, status)
}

func TestArityMismatchFailsBadInput(t *testing.T) {
	ctx := newCtx()
	require.Equal(t, 1, dispatch.MinArity(dispatch.OpEcho))
	_, status := dispatch.Dispatch(ctx, dispatch.OpEcho, nil)
	assert.Equal(t, wire.StatusBadInput, status)
}

func TestExitRecordsCodeAndDoesNotAllocateOutput(t *testing.T) {
	ctx := newCtx()
	outputs, status := dispatch.Dispatch(ctx, dispatch.OpExit, [][]byte{wire.PutU32(42)})
	require.Equal(t, wire.StatusOK, status)
	assert.Nil(t, outputs)
	assert.True(t, ctx.Exited)
	assert.Equal(t, int32(42), ctx.ExitCode)
}

func TestUsleepAcceptsZeroDuration(t *testing.T) {
	ctx := newCtx()
	_, status := dispatch.Dispatch(ctx, dispatch.OpUsleep, [][]byte{wire.PutU32(0)})
	assert.Equal(t, wire.StatusOK, status)
}
