// Copyright 2026 The darts Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package mmap maps files read-only into memory.
package mmap

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

var errClosed = errors.New("mmap: closed")

// ReaderAt is a read-only memory mapping of a whole file.
type ReaderAt struct {
	mu   sync.Mutex
	data []byte
}

// Open maps the file at path.  The mapping stays valid after the file
// descriptor is closed, until Close is called.
func Open(path string) (*ReaderAt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("f.Stat: %w", err)
	}
	size := fi.Size()
	if size == 0 {
		return &ReaderAt{data: []byte{}}, nil
	}
	if size < 0 || size != int64(int(size)) {
		return nil, fmt.Errorf("mmap: file %q has bad size %d", path, size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("unix.Mmap: %w", err)
	}
	// lookups jump around the array; readahead mostly wastes page cache
	if err := unix.Madvise(data, unix.MADV_RANDOM); err != nil {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("madvise: %w", err)
	}

	return &ReaderAt{data: data}, nil
}

// Data returns the mapped bytes.  Writing to them faults.
func (r *ReaderAt) Data() []byte {
	return r.data
}

// Len returns the length of the mapping.
func (r *ReaderAt) Len() int {
	return len(r.data)
}

// Close unmaps the file.  Slices returned by Data must not be used afterwards.
func (r *ReaderAt) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.data == nil {
		return errClosed
	}
	data := r.data
	r.data = nil
	if len(data) == 0 {
		return nil
	}
	return unix.Munmap(data)
}
