// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package handle implements the fixed-capacity resource-handle tables
// that alias opaque host objects (open files, open directories) with
// small integer IDs (spec §4.5).
//
// Slots are modeled as a sum type over {free, occupied(object)} (spec §9
// "Resource tables"), expressed here as a fixed-size array of slot
// structs, each an in-use flag plus the object. The table is generic
// over the object type, so one implementation serves both the file and
// directory tables instead of duplicating it per resource type.
package handle

import "errors"

// Capacity is the fixed size of every handle table (spec §3: "capacity
// 100"). IDs are 1-based; zero is reserved as "none".
const Capacity = 100

// ErrOutOfRange reports that an ID is outside [1, Capacity] or — for
// Release — that the slot it names is already free.
var ErrOutOfRange = errors.New("handle: id out of range or already free")

type slot[T any] struct {
	inUse  bool
	object T
}

// Table maps 1-based handle IDs to host objects of type T. The zero
// value is an empty table ready to use.
type Table[T any] struct {
	slots [Capacity]slot[T]
}

// Alloc scans for the first free slot, stores obj there, and returns its
// 1-based ID. It returns -1 when the table is full (spec §4.5, §8
// "handle exhaustion").
func (t *Table[T]) Alloc(obj T) int32 {
	for i := range t.slots {
		if !t.slots[i].inUse {
			t.slots[i] = slot[T]{inUse: true, object: obj}
			return int32(i + 1)
		}
	}
	return -1
}

// Lookup returns the object stored at id and whether it is present. A
// released or never-allocated ID reports ok=false (spec §3 invariant:
// "releasing an already-free handle is an error").
func (t *Table[T]) Lookup(id int32) (obj T, ok bool) {
	i := id - 1
	if i < 0 || int(i) >= len(t.slots) || !t.slots[i].inUse {
		var zero T
		return zero, false
	}
	return t.slots[i].object, true
}

// Replace overwrites the object stored at an already-occupied id, used by
// callers that reserve a handle before the object it will hold is fully
// constructed (spec §4.6 FOPEN: "Allocates handle before opening;
// releases handle on failure"). It reports ErrOutOfRange if id is not
// currently occupied.
func (t *Table[T]) Replace(id int32, obj T) error {
	i := id - 1
	if i < 0 || int(i) >= len(t.slots) || !t.slots[i].inUse {
		return ErrOutOfRange
	}
	t.slots[i].object = obj
	return nil
}

// Release clears the slot at id. It reports ErrOutOfRange if id is
// outside [1, Capacity] or already free.
func (t *Table[T]) Release(id int32) error {
	i := id - 1
	if i < 0 || int(i) >= len(t.slots) || !t.slots[i].inUse {
		return ErrOutOfRange
	}
	var zero T
	t.slots[i] = slot[T]{inUse: false, object: zero}
	return nil
}
