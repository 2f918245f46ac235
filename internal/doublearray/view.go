// Copyright 2026 The darts Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package doublearray holds the base/check arrays of a double-array trie.
//
// A View is the frozen, read-only form used for queries; it is a thin layer
// over a []byte holding little-endian units, so the same bytes work whether
// they came from Freeze, a file read into memory or an mmap'd region.  A
// Buffer is the owning, mutable form that only exists while building.
package doublearray

import (
	"fmt"

	"github.com/bpowers/darts/internal/bitset"
	"github.com/bpowers/darts/internal/unit"
)

const (
	// Terminator is the label appended to every key.
	Terminator = 0
	// NumLabels is the size of the label alphabet: the terminator plus 256 bytes.
	NumLabels = 257
)

// ByteLabel returns the transition label for an input byte.
func ByteLabel(b byte) uint32 {
	return uint32(b) + 1
}

// View is a read-only view into a byte array as if it was []unit.Unit.
type View struct {
	units []byte
}

// NewView wraps b without copying it.  The caller must not modify b for as
// long as the View is in use.
func NewView(b []byte) (View, error) {
	if len(b) == 0 || len(b)%unit.Width != 0 {
		return View{}, fmt.Errorf("%w: %d bytes", ErrInvalidBufferSize, len(b))
	}
	if len(b)/unit.Width > MaxUnits {
		return View{}, fmt.Errorf("%w: %d units", ErrInvalidBufferSize, len(b)/unit.Width)
	}
	return View{units: b}, nil
}

// Root returns the id of the root node.
func (v View) Root() uint32 {
	return 0
}

// Len returns the number of units in the array.
func (v View) Len() int {
	return len(v.units) / unit.Width
}

// ByteSize returns Len() * unit.Width.
func (v View) ByteSize() int {
	return len(v.units)
}

// Bytes returns the backing buffer.  It must be treated as read-only.
func (v View) Bytes() []byte {
	return v.units
}

// At returns the unit stored at id, or unit.Empty if id is out of range.
func (v View) At(id uint32) unit.Unit {
	off := uint64(id) * unit.Width
	if off+unit.Width > uint64(len(v.units)) {
		return unit.Empty
	}
	return unit.Get(v.units[off : off+unit.Width])
}

// Transition follows label out of node id, returning the child if one exists.
func (v View) Transition(id uint32, label uint32) (uint32, bool) {
	u := v.At(id)
	if u.IsLeaf() || !u.IsUsed() {
		return 0, false
	}
	// internal nodes always have base >= 1, so a child can never be the root
	child := uint64(u.Base()) + uint64(label)
	if child == 0 || child >= uint64(v.Len()) {
		return 0, false
	}
	if v.At(uint32(child)).Check() != id {
		return 0, false
	}
	return uint32(child), true
}

// IsLeaf reports whether id terminates a stored key.
func (v View) IsLeaf(id uint32) bool {
	u := v.At(id)
	return u.IsUsed() && u.IsLeaf()
}

// LeafValue returns the payload of a leaf node.  The result is meaningless
// unless IsLeaf(id).
func (v View) LeafValue(id uint32) int32 {
	return v.At(id).Value()
}

// UsedLen returns the number of slots holding a node.
func (v View) UsedLen() int {
	n := 0
	for i := 0; i < v.Len(); i++ {
		if v.At(uint32(i)).IsUsed() {
			n++
		}
	}
	return n
}

// LeafLen returns the number of stored keys.
func (v View) LeafLen() int {
	n := 0
	for i := 0; i < v.Len(); i++ {
		if u := v.At(uint32(i)); u.IsUsed() && u.IsLeaf() {
			n++
		}
	}
	return n
}

// Verify checks every used slot's back-reference, that leaves only appear
// behind the terminator label, that internal nodes have children, and that
// every node is reachable from the root.  It is O(Len()).
func (v View) Verify() error {
	n := v.Len()
	root := v.At(0)
	if root.Check() != 0 || root.IsLeaf() || root.Base() == 0 {
		return fmt.Errorf("%w: bad root unit %#x", ErrCorruptStructure, uint64(root))
	}

	hasChildren := bitset.New(n)
	for i := 1; i < n; i++ {
		u := v.At(uint32(i))
		if !u.IsUsed() {
			if u != unit.Empty {
				return fmt.Errorf("%w: unused slot %d has non-empty unit %#x", ErrCorruptStructure, i, uint64(u))
			}
			continue
		}
		parentID := u.Check()
		if int(parentID) >= n || int(parentID) == i {
			return fmt.Errorf("%w: slot %d has bad parent %d", ErrCorruptStructure, i, parentID)
		}
		parent := v.At(parentID)
		if !parent.IsUsed() || parent.IsLeaf() {
			return fmt.Errorf("%w: slot %d refers to parent %d, which can't have children", ErrCorruptStructure, i, parentID)
		}
		base := parent.Base()
		if base == 0 || uint32(i) < base || uint32(i)-base >= NumLabels {
			return fmt.Errorf("%w: slot %d not addressable from parent %d (base %d)", ErrCorruptStructure, i, parentID, base)
		}
		if isTerminator := uint32(i) == base; isTerminator != u.IsLeaf() {
			return fmt.Errorf("%w: slot %d leaf flag doesn't match its label", ErrCorruptStructure, i)
		}
		hasChildren.Set(int(parentID))
	}

	for i := 1; i < n; i++ {
		if u := v.At(uint32(i)); u.IsUsed() && !u.IsLeaf() && !hasChildren.IsSet(i) {
			return fmt.Errorf("%w: internal node %d has no children", ErrCorruptStructure, i)
		}
	}

	return v.verifyReachable()
}

// verifyReachable follows each node's parent chain until it hits the root or
// a node already known to be reachable, rejecting cycles.
func (v View) verifyReachable() error {
	n := v.Len()
	reachable := bitset.New(n)
	onPath := bitset.New(n)
	reachable.Set(0)

	var path []uint32
	for i := 1; i < n; i++ {
		if !v.At(uint32(i)).IsUsed() || reachable.IsSet(i) {
			continue
		}
		path = path[:0]
		id := uint32(i)
		for !reachable.IsSet(int(id)) {
			if onPath.IsSet(int(id)) {
				return fmt.Errorf("%w: parent cycle through slot %d", ErrCorruptStructure, id)
			}
			onPath.Set(int(id))
			path = append(path, id)
			id = v.At(id).Check()
		}
		for _, id := range path {
			onPath.Clear(int(id))
			reachable.Set(int(id))
		}
	}
	return nil
}
