// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"code.hybscloud.com/hostbridge/internal/fsio"
	"code.hybscloud.com/hostbridge/internal/wire"
)

// handleFopen implements FOPEN: the handle is reserved before the
// underlying open so a full table fails BAD_OUTPUT without touching the
// filesystem, and is released again if the open itself fails (spec
// §4.6 FOPEN: "Allocates handle before opening; releases handle on
// failure").
func handleFopen(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	mode, ok := wire.CString(inputs[0])
	if !ok {
		return nil, wire.StatusBadInput
	}
	path, ok := wire.CString(inputs[1])
	if !ok {
		return nil, wire.StatusBadInput
	}

	id := ctx.Files.Alloc(nil)
	if id < 0 {
		return nil, wire.StatusBadOutput
	}
	f, err := fsio.Open(mode, path)
	if err != nil {
		_ = ctx.Files.Release(id)
		return nil, wire.StatusBadInput
	}
	_ = ctx.Files.Replace(id, f)

	out, err := ctx.Alloc(4)
	if err != nil {
		_ = ctx.Files.Release(id)
		_ = f.Close()
		return nil, wire.StatusAllocFailed
	}
	copy(out, wire.PutU32(uint32(id)))
	return [][]byte{out}, wire.StatusOK
}

// handleFread implements FREAD: resize the output to the number of
// bytes actually read (spec §4.6 FREAD).
func handleFread(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	size, err := wire.U32(inputs[0])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	fileID, err := wire.U32(inputs[1])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	f, ok := ctx.Files.Lookup(int32(fileID))
	if !ok {
		return nil, wire.StatusBadInput
	}

	buf, err := ctx.Alloc(int(size))
	if err != nil {
		return nil, wire.StatusAllocFailed
	}
	n, err := f.ReadInto(buf)
	if err != nil {
		return nil, wire.StatusBadInput
	}
	return [][]byte{buf[:n]}, wire.StatusOK
}

// handleFgets implements FGETS: resize the output to strlen+1 (spec
// §4.6 FGETS).
func handleFgets(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	size, err := wire.U32(inputs[0])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	fileID, err := wire.U32(inputs[1])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	f, ok := ctx.Files.Lookup(int32(fileID))
	if !ok {
		return nil, wire.StatusBadInput
	}

	line, err := f.ReadLine(int(size))
	if err != nil {
		return nil, wire.StatusBadInput
	}
	out, err := ctx.Alloc(len(line))
	if err != nil {
		return nil, wire.StatusAllocFailed
	}
	copy(out, line)
	return [][]byte{out}, wire.StatusOK
}

// handleFwrite implements FWRITE.
func handleFwrite(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	fileID, err := wire.U32(inputs[1])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	f, ok := ctx.Files.Lookup(int32(fileID))
	if !ok {
		return nil, wire.StatusBadInput
	}
	n, err := f.Write(inputs[0])
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

// handleFclose implements FCLOSE: close the underlying file then
// release the handle (spec §4.6 FCLOSE).
func handleFclose(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	fileID, err := wire.U32(inputs[0])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	f, ok := ctx.Files.Lookup(int32(fileID))
	if !ok {
		return nil, wire.StatusBadInput
	}
	_ = f.Close()
	if err := ctx.Files.Release(int32(fileID)); err != nil {
		return nil, wire.StatusBadInput
	}
	return nil, wire.StatusOK
}

// handleFseek implements FSEEK: whence is mapped from the protocol's
// {SET,CUR,END} constants to the host's; any other value fails
// BAD_OUTPUT (spec §4.6 FSEEK).
func handleFseek(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	offset, err := wire.I32(inputs[0])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	whenceProto, err := wire.U32(inputs[1])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	fileID, err := wire.U32(inputs[2])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	f, ok := ctx.Files.Lookup(int32(fileID))
	if !ok {
		return nil, wire.StatusBadInput
	}
	whence, ok := fsio.Whence(whenceProto)
	if !ok {
		return nil, wire.StatusBadOutput
	}
	if _, err := f.Seek(int64(offset), whence); err != nil {
		return nil, wire.StatusBadInput
	}
	return nil, wire.StatusOK
}

// handleFtell implements FTELL.
func handleFtell(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	fileID, err := wire.U32(inputs[0])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	f, ok := ctx.Files.Lookup(int32(fileID))
	if !ok {
		return nil, wire.StatusBadInput
	}
	pos, err := f.Tell()
	if err != nil {
		return nil, wire.StatusBadInput
	}
	out, err := ctx.Alloc(4)
	if err != nil {
		return nil, wire.StatusAllocFailed
	}
	copy(out, wire.PutU32(uint32(pos)))
	return [][]byte{out}, wire.StatusOK
}

// handleFerror implements FERROR: the host's sticky error condition is
// returned as the status word itself, not as a protocol status (spec
// §4.6 FERROR: "Returns host ferror as the status word").
func handleFerror(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	fileID, err := wire.U32(inputs[0])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	f, ok := ctx.Files.Lookup(int32(fileID))
	if !ok {
		return nil, wire.StatusBadInput
	}
	return nil, wire.Status(f.LastErrno())
}
