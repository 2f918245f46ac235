// Copyright 2026 The darts Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package darts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bpowers/darts/internal/doublearray"
	"github.com/bpowers/darts/internal/mmap"
)

// LoadOption configures Load and Open.
type LoadOption func(*loadOptions)

type loadOptions struct {
	verify bool
}

// WithVerify checks every unit's parent back-reference while loading, so a
// corrupted buffer is rejected with ErrCorruptStructure instead of producing
// wrong answers.  It costs a pass over the whole array.
func WithVerify() LoadOption {
	return func(opts *loadOptions) {
		opts.verify = true
	}
}

// Save returns a copy of the serialized double array: UnitCount() units of
// UnitSize bytes each, little-endian, with no header.
func Save(d *Dict) []byte {
	return append([]byte(nil), d.da.Bytes()...)
}

// Load returns a Dict that uses buf as its double array without copying it.
// buf must not be modified while the Dict is in use.
func Load(buf []byte, opts ...LoadOption) (*Dict, error) {
	var options loadOptions
	for _, opt := range opts {
		opt(&options)
	}

	da, err := doublearray.NewView(buf)
	if err != nil {
		return nil, err
	}
	if options.verify {
		if err := da.Verify(); err != nil {
			return nil, err
		}
	}
	return newDict(da, nil), nil
}

// WriteTo writes the serialized double array to w.
func (d *Dict) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.da.Bytes())
	if err == nil && n != d.da.ByteSize() {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

// WriteFile saves d to path.  The file is written under a temporary name,
// made read-only and renamed into place, so readers never see a partial file.
func WriteFile(d *Dict, path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("filepath.Abs: %w", err)
	}
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "darts.*.dic")
	if err != nil {
		return fmt.Errorf("CreateTemp failed (may need permissions for dir %q): %w", dir, err)
	}
	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}

	if _, err := d.WriteTo(f); err != nil {
		cleanup()
		return fmt.Errorf("d.WriteTo: %w", err)
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("f.Sync: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("f.Close: %w", err)
	}

	// make the file read-only
	if err := os.Chmod(f.Name(), 0444); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("os.Chmod(0444): %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("os.Rename: %w", err)
	}
	return nil
}

// Open maps the dictionary file at path into memory read-only and returns a
// Dict over it.  Call Close when done to release the mapping.
func Open(path string, opts ...LoadOption) (*Dict, error) {
	mm, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmap.Open(%s): %w", path, err)
	}

	d, err := Load(mm.Data(), opts...)
	if err != nil {
		_ = mm.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	d.mm = mm
	return d, nil
}
