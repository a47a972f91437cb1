// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import "errors"

// ErrAllocFailed is an error an Allocator may return when it cannot
// satisfy a request. Callers treat any non-nil error from an Allocator
// as failure, so its identity is not checked. The default allocator
// never fails; tests inject a failing Allocator to exercise the
// OUT_OF_MEMORY path (spec §4.7, §8 "Out-of-memory push recovery")
// without needing a true OS-level OOM.
var ErrAllocFailed = errors.New("wire: alloc failed")

// Allocator produces an n-byte buffer or reports failure. Both the
// session's PUSH path and dispatch handlers that size an output buffer
// (FREAD, RECV, DREAD, ...) share one Allocator so a single injected
// failure mode exercises ALLOC_FAILED uniformly (spec §4.3: "Allocation
// failure is surfaced as a distinct condition, not aliased with
// protocol errors").
type Allocator func(n int) ([]byte, error)

// DefaultAllocator always succeeds, backed by make().
func DefaultAllocator(n int) ([]byte, error) {
	return make([]byte, n), nil
}
