// Copyright 2021 The darts Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package darts implements a static dictionary on top of a double-array
// trie.  A Dict maps byte-string keys to non-negative int32 values and
// answers exact-match and common-prefix queries in time proportional to the
// length of the query, independent of the number of keys.
//
// Dicts are built once from sorted keys with a Builder (or Build), and are
// immutable afterwards: any number of goroutines may query one concurrently.
// The serialized form is the raw unit array, so Load and Open reuse the
// bytes they're given without decoding them.
package darts

import (
	"github.com/dgryski/go-farm"

	"github.com/bpowers/darts/internal/doublearray"
	"github.com/bpowers/darts/internal/mmap"
	"github.com/bpowers/darts/internal/unit"
)

// UnitSize is the size in bytes of each element of the double array.
const UnitSize = unit.Width

// NodeID identifies a node of the trie for step-wise traversal.
type NodeID uint32

// Dict is an immutable dictionary backed by a double array.
type Dict struct {
	da doublearray.View
	mm *mmap.ReaderAt // set when the units live in a mapped file
}

func newDict(da doublearray.View, mm *mmap.ReaderAt) *Dict {
	return &Dict{
		da: da,
		mm: mm,
	}
}

// UnitCount returns the number of units in the double array.
func (d *Dict) UnitCount() int {
	return d.da.Len()
}

// ByteSize returns UnitCount() * UnitSize, the size of the serialized form.
func (d *Dict) ByteSize() int {
	return d.da.ByteSize()
}

// UsedUnits returns the number of units holding a node.  This scans the
// whole array.
func (d *Dict) UsedUnits() int {
	return d.da.UsedLen()
}

// Len returns the number of stored keys.  This scans the whole array.
func (d *Dict) Len() int {
	return d.da.LeafLen()
}

// Fingerprint returns a 64-bit hash of the serialized array.  Building the
// same keys and values always produces the same fingerprint.
func (d *Dict) Fingerprint() uint64 {
	return farm.Fingerprint64(d.da.Bytes())
}

// Close releases the file mapping of a Dict returned by Open.  It is a no-op
// for other Dicts.  The Dict must not be used after Close.
func (d *Dict) Close() error {
	if d.mm == nil {
		return nil
	}
	err := d.mm.Close()
	d.mm = nil
	d.da = doublearray.View{}
	return err
}
