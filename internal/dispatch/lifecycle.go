// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"time"

	"code.hybscloud.com/hostbridge/internal/wire"
)

// handleExit implements EXIT: record the exit code and mark the
// session for termination. The session loop checks ctx.Exited after
// every dispatch and, when set, suppresses the reply entirely (spec
// §4.6 EXIT: "transition to EXITED without emitting a reply").
func handleExit(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	code, err := wire.U32(inputs[0])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	ctx.Exited = true
	ctx.ExitCode = int32(code)
	return nil, wire.StatusOK
}

// handleEcho implements ECHO: reply with an exact copy of the pushed
// blob (spec §8: "ECHO(b) -> reply status 0 with output b").
func handleEcho(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	out, err := ctx.Alloc(len(inputs[0]))
	if err != nil {
		return nil, wire.StatusAllocFailed
	}
	copy(out, inputs[0])
	return [][]byte{out}, wire.StatusOK
}

// handleUsleep implements USLEEP: block the session thread for the
// given number of microseconds (spec §5: "Collaborator calls... sleep
// block[s]").
func handleUsleep(ctx *Context, inputs [][]byte) ([][]byte, wire.Status) {
	usec, err := wire.U32(inputs[0])
	if err != nil {
		return nil, wire.StatusBadInput
	}
	time.Sleep(time.Duration(usec) * time.Microsecond)
	return nil, wire.StatusOK
}
