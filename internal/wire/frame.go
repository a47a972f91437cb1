// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"errors"
	"fmt"
)

// FrameType distinguishes PUSH, EXECUTE, and RESULT frames (spec §4.2).
type FrameType byte

const (
	// FramePush extends the argument stack with one item.
	FramePush FrameType = 0x70
	// FrameExecute dispatches the opcode carried in the header.
	FrameExecute FrameType = 0x78
	// FrameResult carries one output item back to the target.
	FrameResult FrameType = 0x72
)

func (t FrameType) String() string {
	switch t {
	case FramePush:
		return "PUSH"
	case FrameExecute:
		return "EXECUTE"
	case FrameResult:
		return "RESULT"
	default:
		return fmt.Sprintf("FrameType(0x%02x)", byte(t))
	}
}

// frameHeaderLen is the fixed 4-byte header: {type, b1, b2, b3} (spec §3).
const frameHeaderLen = 4

// ErrUnknownFrameType is returned when a header's first byte does not
// match any of PUSH, EXECUTE, or RESULT.
var ErrUnknownFrameType = errors.New("wire: unknown frame type")

// Frame is a decoded 4-byte frame header. For PUSH and RESULT, Length is
// the 24-bit big-endian payload length that follows on the channel. For
// EXECUTE, Opcode is the 24-bit big-endian opcode and no body follows.
type Frame struct {
	Type   FrameType
	Length uint32 // PUSH, RESULT
	Opcode uint32 // EXECUTE
}

// put24 writes the low 24 bits of v into b[0:3], big-endian.
func put24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func get24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// EncodeHeader renders f as the 4-byte wire header.
func EncodeHeader(f Frame) [frameHeaderLen]byte {
	var hdr [frameHeaderLen]byte
	hdr[0] = byte(f.Type)
	switch f.Type {
	case FrameExecute:
		put24(hdr[1:], f.Opcode)
	default:
		put24(hdr[1:], f.Length)
	}
	return hdr
}

// DecodeHeader parses a 4-byte wire header. The caller is responsible for
// having read exactly frameHeaderLen bytes (see Channel.ReadHeader).
func DecodeHeader(hdr [frameHeaderLen]byte) (Frame, error) {
	t := FrameType(hdr[0])
	switch t {
	case FramePush, FrameResult:
		return Frame{Type: t, Length: get24(hdr[1:])}, nil
	case FrameExecute:
		return Frame{Type: t, Opcode: get24(hdr[1:])}, nil
	default:
		return Frame{}, fmt.Errorf("%w: 0x%02x", ErrUnknownFrameType, hdr[0])
	}
}

// Arity returns the declared input count carried in the opcode's middle
// nibble (spec §4.6: "(op >> 4) & 0x0f").
func Arity(opcode uint32) int {
	return int((opcode >> 4) & 0x0f)
}

// HeaderLen is exported for callers (Channel) that need to size reads
// without importing the unexported constant directly.
const HeaderLen = frameHeaderLen
