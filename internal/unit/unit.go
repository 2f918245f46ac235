// Copyright 2026 The darts Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package unit defines the packed per-node record of a double array.
//
// A Unit is 64 bits wide and is always stored little-endian:
//
//	 63                    32 31 30                    0
//	+------------------------+--+-----------------------+
//	| check (parent node id) |L | base offset or value  |
//	+------------------------+--+-----------------------+
//
// When L (the leaf bit) is set the low 31 bits hold the payload value of a
// stored key, otherwise they hold the offset children are placed at.  An
// unused slot has a check of Unused.
package unit

import "encoding/binary"

const (
	// Width is the size in bytes of a serialized Unit.
	Width = 8

	// Unused is the check value of a slot that was never assigned to a node.
	Unused = ^uint32(0)

	// MaxValue is the largest payload a leaf can hold.
	MaxValue = (1 << 31) - 1
	// MaxBase is the largest child offset an internal node can hold.
	MaxBase = (1 << 31) - 1

	leafBit  = uint32(1) << 31
	baseMask = leafBit - 1
)

// Unit packs base, check and the leaf flag of a single node.
type Unit uint64

// Empty is the Unit of a slot that holds no node.
const Empty = Unit(uint64(Unused) << 32)

// New returns an internal node with the given child offset and parent.
func New(base, check uint32) Unit {
	return Unit(uint64(check)<<32 | uint64(base&baseMask))
}

// NewLeaf returns a leaf node carrying value, reached from parent.
func NewLeaf(value int32, parent uint32) Unit {
	return Unit(uint64(parent)<<32 | uint64(leafBit|(uint32(value)&baseMask)))
}

// Check returns the parent back-reference (or Unused).
func (u Unit) Check() uint32 {
	return uint32(u >> 32)
}

// IsUsed reports whether the slot holds a node.
func (u Unit) IsUsed() bool {
	return u.Check() != Unused
}

// IsLeaf reports whether the node terminates a stored key.
func (u Unit) IsLeaf() bool {
	return uint32(u)&leafBit != 0
}

// Base returns the child offset of an internal node.
func (u Unit) Base() uint32 {
	return uint32(u) & baseMask
}

// Value returns the payload of a leaf node.
func (u Unit) Value() int32 {
	return int32(uint32(u) & baseMask)
}

// Put stores u into b, which must be at least Width bytes long.
func (u Unit) Put(b []byte) {
	binary.LittleEndian.PutUint64(b, uint64(u))
}

// Get reads the Unit stored at the start of b.
func Get(b []byte) Unit {
	return Unit(binary.LittleEndian.Uint64(b))
}
