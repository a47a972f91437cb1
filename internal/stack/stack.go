// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package stack implements the dispatcher's argument stack (spec §4.4).
//
// The C original links items through a hand-rolled singly-linked list so
// that push is O(1) and ownership transfers cleanly on free. In Go an
// ordered growable slice captures the same LIFO semantics without the
// ownership bookkeeping: ownership of a []byte is just "who still holds
// a reference to it", and the garbage collector frees on the last one
// going away (spec §9 "Cyclic ownership / linked stack").
package stack

// Stack is a last-in-first-out list of items, bounded only by memory
// (spec §3). The zero value is an empty, ready-to-use stack.
type Stack struct {
	items [][]byte // items[len-1] is the top (most recently pushed)
}

// Push places item at the top of the stack.
func (s *Stack) Push(item []byte) {
	s.items = append(s.items, item)
}

// Len returns the number of items currently on the stack.
func (s *Stack) Len() int {
	return len(s.items)
}

// Inputs returns the top n items in top-first order: Inputs(n)[0] is the
// most recently pushed item, matching the dispatcher's inputs[0] == top
// convention (spec §3, §4.4). It reports false if fewer than n items are
// available.
func (s *Stack) Inputs(n int) ([][]byte, bool) {
	if n > len(s.items) {
		return nil, false
	}
	out := make([][]byte, n)
	for i := 0; i < n; i++ {
		out[i] = s.items[len(s.items)-1-i]
	}
	return out, true
}

// DiscardAll empties the stack. Every execute, successful or not, ends by
// calling this (spec §4.4 invariant).
func (s *Stack) DiscardAll() {
	s.items = s.items[:0]
}
