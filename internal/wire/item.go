// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wire implements the push/execute/result framing protocol (spec
// §4.2) and the item accessors (spec §4.3) that sit underneath the
// dispatcher. Items are plain []byte: the protocol's "variable-length
// byte container" maps directly onto a Go slice, so there is no separate
// item type to allocate and free by hand the way the C original does.
package wire

import (
	"encoding/binary"
	"errors"
)

// MaxItemLength is the largest payload a single PUSH or RESULT frame may
// carry (spec §4.2: "Maximum per-item payload: MAX_STRING_LENGTH
// (implementation-defined, >= 64 KiB)"). Chosen well above the floor to
// comfortably hold directory names, file chunks, and socket reads.
const MaxItemLength = 256 * 1024

// ErrItemTooShort is returned by the accessors below when the item does
// not carry enough bytes for the requested integer width.
var ErrItemTooShort = errors.New("wire: item too short")

// U16 interprets the first 2 bytes of b as a big-endian uint16.
func U16(b []byte) (uint16, error) {
	if len(b) < 2 {
		return 0, ErrItemTooShort
	}
	return binary.BigEndian.Uint16(b), nil
}

// U32 interprets the first 4 bytes of b as a big-endian uint32.
func U32(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, ErrItemTooShort
	}
	return binary.BigEndian.Uint32(b), nil
}

// I32 interprets the first 4 bytes of b as a big-endian signed int32,
// used by FSEEK's offset argument.
func I32(b []byte) (int32, error) {
	u, err := U32(b)
	if err != nil {
		return 0, err
	}
	return int32(u), nil
}

// PutU16 returns a 2-byte big-endian encoding of v.
func PutU16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

// PutU32 returns a 4-byte big-endian encoding of v.
func PutU32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

// PutI32 returns a 4-byte big-endian encoding of v.
func PutI32(v int32) []byte {
	return PutU32(uint32(v))
}

// CString extracts a null-terminated string from a declared-length item.
// Per spec §4.6 edge cases, a string argument must be null-terminated
// within its declared length, else the caller must fail BAD_INPUT.
func CString(b []byte) (string, bool) {
	for i, c := range b {
		if c == 0 {
			return string(b[:i]), true
		}
	}
	return "", false
}
