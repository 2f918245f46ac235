// Copyright 2026 The darts Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package darts

import (
	"errors"

	"github.com/bpowers/darts/internal/doublearray"
)

// Errors returned while building.  They are wrapped with context, so test
// for them with errors.Is.
var (
	ErrUnsortedKeys     = doublearray.ErrUnsortedKeys
	ErrDuplicateKey     = doublearray.ErrDuplicateKey
	ErrValueOutOfRange  = doublearray.ErrValueOutOfRange
	ErrArrayOverflow    = doublearray.ErrArrayOverflow
	ErrBuilderFinalized = errors.New("builder already finalized")
)

// Errors returned by Load and Open.
var (
	ErrInvalidBufferSize = doublearray.ErrInvalidBufferSize
	ErrCorruptStructure  = doublearray.ErrCorruptStructure
)
