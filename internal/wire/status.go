// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import "fmt"

// Status is the 32-bit status word returned as output index 0 of every
// execute reply except EXIT. Zero means success; the remaining values are
// the wire-visible, opaque-to-the-target error constants from spec §6.
type Status uint32

const (
	// StatusOK reports a successful dispatch.
	StatusOK Status = 0

	// StatusBadInput reports a protocol error in the inputs: wrong arity,
	// an integer argument shorter than its declared width, or a string
	// argument that is not null-terminated within its declared length.
	StatusBadInput Status = 1

	// StatusBadOutput reports a protocol error discovered while producing
	// outputs: an out-of-range enum (e.g. FSEEK whence) or a handle table
	// that is full.
	StatusBadOutput Status = 2

	// StatusAllocFailed reports an allocation shortage, scoped to one call.
	StatusAllocFailed Status = 3

	// StatusSend reports a channel write failure. Fatal: the session
	// transitions to DEAD.
	StatusSend Status = 4

	// StatusReceive reports a channel read failure. Fatal: the session
	// transitions to DEAD.
	StatusReceive Status = 5

	// StatusUnsupportedOutput reports a result payload larger than
	// MaxItemLength.
	StatusUnsupportedOutput Status = 6
)

func (s Status) Error() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBadInput:
		return "bad input"
	case StatusBadOutput:
		return "bad output"
	case StatusAllocFailed:
		return "alloc failed"
	case StatusSend:
		return "send"
	case StatusReceive:
		return "receive"
	case StatusUnsupportedOutput:
		return "unsupported output"
	default:
		return fmt.Sprintf("status(%d)", uint32(s))
	}
}

// Fatal reports whether s must transition the owning session to DEAD.
func (s Status) Fatal() bool {
	return s == StatusSend || s == StatusReceive
}
