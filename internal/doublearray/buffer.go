// Copyright 2026 The darts Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package doublearray

import (
	"fmt"

	"github.com/bpowers/darts/internal/bitset"
	"github.com/bpowers/darts/internal/unit"
)

const (
	// MaxUnits is the largest array we can address with 31-bit offsets.
	MaxUnits = 1 << 31

	blockSize = 256
	// free slots further than this behind the end of the array are no
	// longer offered as candidates, which bounds the cost of findBase.
	numExtraUnits = 16 * blockSize

	noSlot = -1
)

// Buffer is the owning, growable unit array used during construction.  Free
// slots are threaded into an ascending doubly-linked list through next/prev,
// indexed by slot.
//
// Two nodes may share a base: check holds the full parent id, so their
// children never alias as long as they land on distinct slots.
type Buffer struct {
	units    []unit.Unit
	next     []int32
	prev     []int32
	head     int32
	tail     int32
	expanded *bitset.Bitset // nodes whose children have been placed
	maxUnits int
	frozen   bool
}

// NewBuffer returns a Buffer holding only the root node.  maxUnits <= 0 means
// MaxUnits.
func NewBuffer(maxUnits int) (*Buffer, error) {
	if maxUnits <= 0 || maxUnits > MaxUnits {
		maxUnits = MaxUnits
	}
	b := &Buffer{
		head:     noSlot,
		tail:     noSlot,
		expanded: bitset.New(0),
		maxUnits: maxUnits,
	}
	if err := b.grow(1); err != nil {
		return nil, err
	}
	b.take(0)
	b.units[0] = unit.New(0, 0)
	return b, nil
}

// Len returns the current number of units, used or free.
func (b *Buffer) Len() int {
	return len(b.units)
}

// grow extends the array in whole blocks until it holds at least need units.
func (b *Buffer) grow(need int) error {
	if need <= len(b.units) {
		return nil
	}
	if need > b.maxUnits {
		return fmt.Errorf("%w: need %d units, limit is %d", ErrArrayOverflow, need, b.maxUnits)
	}
	newLen := (need + blockSize - 1) / blockSize * blockSize
	if newLen > b.maxUnits {
		newLen = b.maxUnits
	}

	for i := len(b.units); i < newLen; i++ {
		b.units = append(b.units, unit.Empty)
		b.next = append(b.next, noSlot)
		b.prev = append(b.prev, b.tail)
		if b.tail == noSlot {
			b.head = int32(i)
		} else {
			b.next[b.tail] = int32(i)
		}
		b.tail = int32(i)
	}
	b.expanded.Grow(newLen)

	// retire stale free slots at the front of the list
	for b.head != noSlot && int(b.head) < newLen-numExtraUnits {
		b.unlink(b.head)
	}
	return nil
}

func (b *Buffer) unlink(slot int32) {
	prev, next := b.prev[slot], b.next[slot]
	if prev == noSlot {
		b.head = next
	} else {
		b.next[prev] = next
	}
	if next == noSlot {
		b.tail = prev
	} else {
		b.prev[next] = prev
	}
	b.next[slot] = noSlot
	b.prev[slot] = noSlot
}

// take marks slot as used, removing it from the free-list if it is still on it.
func (b *Buffer) take(slot int) {
	s := int32(slot)
	if b.head == s || b.prev[s] != noSlot {
		b.unlink(s)
	}
}

func (b *Buffer) isFree(slot int) bool {
	return slot >= len(b.units) || !b.units[slot].IsUsed()
}

func (b *Buffer) fits(base int, labels []uint16) bool {
	for _, label := range labels {
		if !b.isFree(base + int(label)) {
			return false
		}
	}
	return true
}

// findBase returns the first offset at which every label in labels (sorted
// ascending, non-empty) lands on a free slot.  Candidates are taken from the
// free-list in slot order; if none fits, the children go past the end of the
// array.
func (b *Buffer) findBase(labels []uint16) int {
	first := int(labels[0])
	for slot := b.head; slot != noSlot; slot = b.next[slot] {
		base := int(slot) - first
		if base < 1 {
			continue
		}
		if b.fits(base, labels) {
			return base
		}
	}

	base := len(b.units) - first
	if base < 1 {
		base = 1
	}
	return base
}

// place assigns children for labels to node parent, and returns the base
// they were placed at.  A node's children are placed exactly once.
func (b *Buffer) place(parent uint32, labels []uint16) (uint32, error) {
	if b.expanded.IsSet(int(parent)) {
		panic(fmt.Errorf("invariant broken: node %d expanded twice", parent))
	}
	base := b.findBase(labels)
	if base > unit.MaxBase {
		return 0, fmt.Errorf("%w: base %d", ErrArrayOverflow, base)
	}
	if err := b.grow(base + int(labels[len(labels)-1]) + 1); err != nil {
		return 0, err
	}

	b.expanded.Set(int(parent))
	b.units[parent] = unit.New(uint32(base), b.units[parent].Check())
	for _, label := range labels {
		slot := base + int(label)
		b.take(slot)
		b.units[slot] = unit.New(0, parent)
	}
	return uint32(base), nil
}

// setLeaf turns a placed child into a leaf carrying value.
func (b *Buffer) setLeaf(id uint32, value int32) {
	b.units[id] = unit.NewLeaf(value, b.units[id].Check())
}

// setBase is used for nodes without children (only an empty root) so that
// every internal node has a non-zero base.
func (b *Buffer) setBase(id uint32, base uint32) {
	b.units[id] = unit.New(base, b.units[id].Check())
}

// Freeze encodes the used prefix of the array into a new byte slice and
// returns a read-only View of it.  The Buffer must not be used afterwards.
func (b *Buffer) Freeze() View {
	if b.frozen {
		panic("invariant broken: Buffer frozen twice")
	}
	b.frozen = true

	n := len(b.units)
	for n > 1 && !b.units[n-1].IsUsed() {
		n--
	}
	out := make([]byte, n*unit.Width)
	for i, u := range b.units[:n] {
		u.Put(out[i*unit.Width:])
	}

	// drop the build state so it can be GC'd early
	b.units, b.next, b.prev, b.expanded = nil, nil, nil, nil

	return View{units: out}
}
