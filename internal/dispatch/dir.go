// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"code.hybscloud.com/hostbridge/internal/fsio"
	"code.hybscloud.com/hostbridge/internal/wire"
)

// handleDopen implements DOPEN: mirrors FOPEN's reserve-then-open
// sequence (spec §4.6 DOPEN: "Mirrors FOPEN").
func handleDopen(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	path, ok := wire.CString(inputs[0])
	if !ok {
		return nil, wire.StatusBadInput
	}

	id := ctx.Dirs.Alloc(nil)
	if id < 0 {
		return nil, wire.StatusBadOutput
	}
	d, err := fsio.OpenDir(path)
	if err != nil {
		_ = ctx.Dirs.Release(id)
		return nil, wire.StatusBadInput
	}
	_ = ctx.Dirs.Replace(id, d)

	out, err := ctx.Alloc(4)
	if err != nil {
		_ = ctx.Dirs.Release(id)
		_ = d.Close()
		return nil, wire.StatusAllocFailed
	}
	copy(out, wire.PutU32(uint32(id)))
	return [][]byte{out}, wire.StatusOK
}

// handleDread implements DREAD: an empty name marks end-of-directory,
// still reported with status 0 (spec §4.6 DREAD: "Returns empty string
// at end-of-directory (status 0)"). A non-zero size bounds the returned
// name the way FGETS bounds a line: names longer than size-1 are
// truncated. A size of 0 leaves the name untruncated.
func handleDread(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	size, err := wire.U32(inputs[0])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	dirID, err := wire.U32(inputs[1])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	d, ok := ctx.Dirs.Lookup(int32(dirID))
	if !ok {
		return nil, wire.StatusBadInput
	}

	name, err := d.ReadName()
	if err != nil {
		return nil, wire.StatusBadInput
	}
	if size > 0 && len(name) > int(size)-1 {
		name = name[:int(size)-1]
	}
	out, err := ctx.Alloc(len(name) + 1)
	if err != nil {
		return nil, wire.StatusAllocFailed
	}
	copy(out, name)
	out[len(name)] = 0
	return [][]byte{out}, wire.StatusOK
}

// handleDclose implements DCLOSE: mirrors FCLOSE (spec §4.6 DCLOSE).
func handleDclose(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	dirID, err := wire.U32(inputs[0])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	d, ok := ctx.Dirs.Lookup(int32(dirID))
	if !ok {
		return nil, wire.StatusBadInput
	}
	_ = d.Close()
	if err := ctx.Dirs.Release(int32(dirID)); err != nil {
		return nil, wire.StatusBadInput
	}
	return nil, wire.StatusOK
}

// handleStat implements STAT.
func handleStat(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	path, ok := wire.CString(inputs[0])
	if !ok {
		return nil, wire.StatusBadInput
	}
	kind, err := fsio.Stat(path)
	if err != nil {
		return nil, wire.StatusBadInput
	}
	out, err := ctx.Alloc(2)
	if err != nil {
		return nil, wire.StatusAllocFailed
	}
	copy(out, wire.PutU16(kind))
	return [][]byte{out}, wire.StatusOK
}
