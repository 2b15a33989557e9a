// This file is part of eosd.
//
// eosd is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// eosd is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with eosd.  If not, see <https://www.gnu.org/licenses/>.

// Package slab implements a generational-index arena: the idiomatic Go
// stand-in for the reference interpreter's Rc<RefCell<_>> cyclic ownership
// (Game <-> Enemy, Sprite <-> AnmRunner). A Handle stays valid to detect
// use-after-free even after its slot is reused by a later Insert.
package slab

// Handle references a single slot in an Arena. The zero Handle never
// resolves to a live value.
type Handle struct {
	index      uint32
	generation uint32
}

// Index returns the handle's slot index, stable for as long as the handle
// itself resolves. Useful as a correlation id for callers (e.g. logging, or
// reporting a spawned enemy's id back to a caller) that don't need the full
// Arena to dereference it.
func (h Handle) Index() uint32 {
	return h.index
}

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Arena is a generational slab allocator over values of type T.
type Arena[T any] struct {
	slots   []slot[T]
	freeIdx []uint32
}

// Insert stores v and returns a Handle to it.
func (a *Arena[T]) Insert(v T) Handle {
	if n := len(a.freeIdx); n > 0 {
		idx := a.freeIdx[n-1]
		a.freeIdx = a.freeIdx[:n-1]
		s := &a.slots[idx]
		s.value = v
		s.occupied = true
		return Handle{index: idx, generation: s.generation}
	}
	// Generations start at 1 so the zero Handle never matches a slot.
	a.slots = append(a.slots, slot[T]{value: v, generation: 1, occupied: true})
	return Handle{index: uint32(len(a.slots) - 1), generation: 1}
}

// Get returns the value behind h, or false if h is stale or was removed.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	if int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.index]
	if !s.occupied || s.generation != h.generation {
		return nil, false
	}
	return &s.value, true
}

// Remove invalidates h and frees its slot for reuse with a bumped
// generation, so any handle still pointing at it will fail Get.
func (a *Arena[T]) Remove(h Handle) {
	if int(h.index) >= len(a.slots) {
		return
	}
	s := &a.slots[h.index]
	if !s.occupied || s.generation != h.generation {
		return
	}
	var zero T
	s.value = zero
	s.occupied = false
	s.generation++
	a.freeIdx = append(a.freeIdx, h.index)
}

// Each calls fn for every occupied slot, in index order. fn may Insert: a
// slot appended during the pass is not visited, but a freed slot that Insert
// reuses may be. fn must not remove from the arena.
func (a *Arena[T]) Each(fn func(Handle, *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.occupied {
			fn(Handle{index: uint32(i), generation: s.generation}, &s.value)
		}
	}
}

// Len returns the number of occupied slots.
func (a *Arena[T]) Len() int {
	n := 0
	for i := range a.slots {
		if a.slots[i].occupied {
			n++
		}
	}
	return n
}
