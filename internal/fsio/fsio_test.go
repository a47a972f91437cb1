// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fsio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/hostbridge/internal/fsio"
)

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x")

	w, err := fsio.Open("w", path)
	require.NoError(t, err)
	n, err := w.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, w.Close())

	r, err := fsio.Open("r", path)
	require.NoError(t, err)
	buf := make([]byte, 8)
	got, err := r.ReadInto(buf)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf[:got]))
	require.NoError(t, r.Close())
}

func TestReadLineIncludesTerminatorAndNUL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines")
	require.NoError(t, os.WriteFile(path, []byte("hello\nworld"), 0o644))

	f, err := fsio.Open("r", path)
	require.NoError(t, err)
	defer f.Close()

	line, err := f.ReadLine(64)
	require.NoError(t, err)
	assert.Equal(t, "hello\n\x00", string(line))
}

func TestSeekTellWhence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seek")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	f, err := fsio.Open("r", path)
	require.NoError(t, err)
	defer f.Close()

	whence, ok := fsio.Whence(fsio.SeekEnd)
	require.True(t, ok)
	pos, err := f.Seek(-2, whence)
	require.NoError(t, err)
	assert.Equal(t, int64(8), pos)

	tell, err := f.Tell()
	require.NoError(t, err)
	assert.Equal(t, int64(8), tell)

	_, ok = fsio.Whence(99)
	assert.False(t, ok)
}

func TestFerrorLatchesOnFailedWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro")
	require.NoError(t, os.WriteFile(path, nil, 0o444))

	f, err := fsio.Open("r", path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, uint32(0), f.LastErrno())
	_, err = f.Write([]byte("x"))
	assert.Error(t, err)
	assert.NotZero(t, f.LastErrno())
}

func TestDirRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b"), nil, 0o644))

	d, err := fsio.OpenDir(dir)
	require.NoError(t, err)
	defer d.Close()

	seen := map[string]bool{}
	for {
		name, err := d.ReadName()
		require.NoError(t, err)
		if name == "" {
			break
		}
		seen[name] = true
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true}, seen)
}

func TestStatKinds(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	kind, err := fsio.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, fsio.KindDir, kind)

	kind, err = fsio.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, fsio.KindFile, kind)

	_, err = fsio.Stat(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
