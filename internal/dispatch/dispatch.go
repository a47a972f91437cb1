// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dispatch

import "code.hybscloud.com/hostbridge/internal/wire"

// Handler implements one opcode's collaborator call. inputs is exactly
// arity long and in top-first order, matching the stack's own
// convention (spec §4.4, §4.6). outputs holds every result item after
// the status word; a handler that produces none returns a nil slice.
type Handler func(ctx *Context, inputs [][]byte) (outputs [][]byte, status wire.Status)

// entry pairs a handler with the arity the table considers authoritative.
// The opcode's arity nibble is only a cross-check against this value
// (spec §9 "Tagged dispatch... the arity nibble in the opcode is a
// cross-check, not the source of truth").
type entry struct {
	arity   int
	handler Handler
}

var table = map[uint32]entry{
	OpExit:   {1, handleExit},
	OpEcho:   {1, handleEcho},
	OpUsleep: {1, handleUsleep},

	OpSocket:   {3, handleSocket},
	OpAccept:   {2, handleAccept},
	OpSetBlock: {2, handleSetBlock},
	OpRecv:     {3, handleRecv},
	OpSend:     {2, handleSend},
	OpShutdown: {1, handleShutdown},

	OpFopen:  {2, handleFopen},
	OpFread:  {2, handleFread},
	OpFgets:  {2, handleFgets},
	OpFwrite: {2, handleFwrite},
	OpFclose: {1, handleFclose},
	OpFseek:  {3, handleFseek},
	OpFtell:  {1, handleFtell},
	OpFerror: {1, handleFerror},

	OpDopen:  {1, handleDopen},
	OpDread:  {2, handleDread},
	OpDclose: {1, handleDclose},
	OpStat:   {1, handleStat},
}

// Dispatch looks up opcode, cross-checks its declared arity nibble
// against the table's arity for that opcode, and invokes the handler
// with exactly that many top-first inputs. An unknown opcode, an arity
// mismatch, or too few inputs on the stack all fail BAD_INPUT (spec
// §4.6: "Unknown opcode: fails BAD_INPUT"; "Asserts arity >= min_arity
// (fails BAD_INPUT)").
func Dispatch(ctx *Context, opcode uint32, inputs [][]byte) (outputs [][]byte, status wire.Status) {
	e, ok := table[opcode]
	if !ok {
		return nil, wire.StatusBadInput
	}
	if wire.Arity(opcode) != e.arity {
		return nil, wire.StatusBadInput
	}
	if len(inputs) < e.arity {
		return nil, wire.StatusBadInput
	}
	return e.handler(ctx, inputs[:e.arity])
}

// MinArity returns the arity dispatch requires for opcode, or -1 if the
// opcode is unknown. The session loop does not call it: it sizes its
// stack read from the opcode's arity nibble (wire.Arity), and Dispatch
// then rejects a nibble that disagrees with this table arity.
func MinArity(opcode uint32) int {
	e, ok := table[opcode]
	if !ok {
		return -1
	}
	return e.arity
}
