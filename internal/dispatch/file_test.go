// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dispatch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/hostbridge/internal/dispatch"
	"code.hybscloud.com/hostbridge/internal/wire"
)

func cstr(s string) []byte {
	return append([]byte(s), 0)
}

func TestFileRoundTrip(t *testing.T) {
	ctx := newCtx()
	path := filepath.Join(t.TempDir(), "x")

	outputs, status := dispatch.Dispatch(ctx, dispatch.OpFopen, [][]byte{cstr("w"), cstr(path)})
	require.Equal(t, wire.StatusOK, status)
	require.Len(t, outputs, 1)
	writeID := outputs[0]

	outputs, status = dispatch.Dispatch(ctx, dispatch.OpFwrite, [][]byte{[]byte("abc"), writeID})
	require.Equal(t, wire.StatusOK, status)
	written, err := wire.U32(outputs[0])
	require.NoError(t, err)
	assert.Equal(t, uint32(3), written)

	_, status = dispatch.Dispatch(ctx, dispatch.OpFclose, [][]byte{writeID})
	require.Equal(t, wire.StatusOK, status)

	outputs, status = dispatch.Dispatch(ctx, dispatch.OpFopen, [][]byte{cstr("r"), cstr(path)})
	require.Equal(t, wire.StatusOK, status)
	readID := outputs[0]

	outputs, status = dispatch.Dispatch(ctx, dispatch.OpFread, [][]byte{wire.PutU32(8), readID})
	require.Equal(t, wire.StatusOK, status)
	assert.Equal(t, "abc", string(outputs[0]))

	_, status = dispatch.Dispatch(ctx, dispatch.OpFclose, [][]byte{readID})
	require.Equal(t, wire.StatusOK, status)
}

func TestHandleExhaustionFailsBadOutput(t *testing.T) {
	ctx := newCtx()
	path := filepath.Join(t.TempDir(), "f")

	for i := 0; i < 100; i++ {
		_, status := dispatch.Dispatch(ctx, dispatch.OpFopen, [][]byte{cstr("w"), cstr(path)})
		require.Equal(t, wire.StatusOK, status, "fopen #%d", i)
	}

	_, status := dispatch.Dispatch(ctx, dispatch.OpFopen, [][]byte{cstr("w"), cstr(path)})
	assert.Equal(t, wire.StatusBadOutput, status)
}

func TestFcloseUnknownHandleFailsBadInput(t *testing.T) {
	ctx := newCtx()
	_, status := dispatch.Dispatch(ctx, dispatch.OpFclose, [][]byte{wire.PutU32(99)})
	assert.Equal(t, wire.StatusBadInput, status)
}

func TestFseekInvalidWhenceFailsBadOutput(t *testing.T) {
	ctx := newCtx()
	path := filepath.Join(t.TempDir(), "s")

	outputs, status := dispatch.Dispatch(ctx, dispatch.OpFopen, [][]byte{cstr("w"), cstr(path)})
	require.Equal(t, wire.StatusOK, status)
	fileID := outputs[0]

	_, status = dispatch.Dispatch(ctx, dispatch.OpFseek, [][]byte{wire.PutI32(0), wire.PutU32(99), fileID})
	assert.Equal(t, wire.StatusBadOutput, status)
}

func TestDirRoundTrip(t *testing.T) {
	ctx := newCtx()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), nil, 0o644))

	outputs, status := dispatch.Dispatch(ctx, dispatch.OpDopen, [][]byte{cstr(dir)})
	require.Equal(t, wire.StatusOK, status)
	dirID := outputs[0]

	outputs, status = dispatch.Dispatch(ctx, dispatch.OpDread, [][]byte{wire.PutU32(64), dirID})
	require.Equal(t, wire.StatusOK, status)
	assert.Equal(t, "a\x00", string(outputs[0]))

	outputs, status = dispatch.Dispatch(ctx, dispatch.OpDread, [][]byte{wire.PutU32(64), dirID})
	require.Equal(t, wire.StatusOK, status)
	assert.Equal(t, "\x00", string(outputs[0]))

	_, status = dispatch.Dispatch(ctx, dispatch.OpDclose, [][]byte{dirID})
	assert.Equal(t, wire.StatusOK, status)
}

func TestStatKinds(t *testing.T) {
	ctx := newCtx()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f"), nil, 0o644))

	outputs, status := dispatch.Dispatch(ctx, dispatch.OpStat, [][]byte{cstr(dir)})
	require.Equal(t, wire.StatusOK, status)
	kind, err := wire.U16(outputs[0])
	require.NoError(t, err)
	assert.EqualValues(t, 2, kind)
}
