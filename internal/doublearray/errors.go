// Copyright 2026 The darts Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package doublearray

import "errors"

// Build errors.
var (
	ErrUnsortedKeys    = errors.New("keys must be sorted in ascending byte order")
	ErrDuplicateKey    = errors.New("duplicate keys aren't supported")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrArrayOverflow   = errors.New("double array exceeds the maximum number of units")
)

// Load errors.
var (
	ErrInvalidBufferSize = errors.New("buffer length is not a multiple of the unit width")
	ErrCorruptStructure  = errors.New("double array is corrupt")
)
