// Copyright 2021 The darts Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package darts

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/bpowers/darts/internal/doublearray"
	"github.com/bpowers/darts/internal/unsafestring"
)

// DuplicatePolicy decides what Put does with a key equal to the previous one.
type DuplicatePolicy int

const (
	// DuplicateReject fails with ErrDuplicateKey.
	DuplicateReject DuplicatePolicy = iota
	// DuplicateKeepFirst ignores later values for the same key.
	DuplicateKeepFirst
	// DuplicateKeepLast overwrites the value with the latest one.
	DuplicateKeepLast
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateReject:
		return "reject"
	case DuplicateKeepFirst:
		return "keep-first"
	case DuplicateKeepLast:
		return "keep-last"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// BuilderOption configures the Builder.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	logger     *slog.Logger
	duplicates DuplicatePolicy
	maxUnits   int
}

// WithBuilderLogger sets an optional logger for the builder to use for progress updates.
// If not provided, no logging output will be produced.
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(opts *builderOptions) {
		opts.logger = logger
	}
}

// WithDuplicatePolicy chooses how repeated keys are handled.  Without it,
// repeated keys are an error.
func WithDuplicatePolicy(policy DuplicatePolicy) BuilderOption {
	return func(opts *builderOptions) {
		opts.duplicates = policy
	}
}

// withMaxUnits caps the size of the double array; used to exercise overflow.
func withMaxUnits(n int) BuilderOption {
	return func(opts *builderOptions) {
		opts.maxUnits = n
	}
}

// Builder is used to construct an immutable Dict from sorted key/value pairs.
// A Builder is not safe for concurrent use.
type Builder struct {
	// keys are copied into a single arena; keyEnds[i] is the end of key i
	keyData   []byte
	keyEnds   []int
	values    []int32
	opts      builderOptions
	finalized bool
}

// NewBuilder creates a Builder that can be used to construct a Dict.  Building should happen
// once: after Finalize the Builder can't be reused.
func NewBuilder(opts ...BuilderOption) *Builder {
	var options builderOptions
	options.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, opt := range opts {
		opt(&options)
	}
	return &Builder{
		opts: options,
	}
}

// Len returns the number of distinct keys added so far.
func (b *Builder) Len() int {
	return len(b.keyEnds)
}

func (b *Builder) key(i int) []byte {
	start := 0
	if i > 0 {
		start = b.keyEnds[i-1]
	}
	return b.keyData[start:b.keyEnds[i]:b.keyEnds[i]]
}

// Put adds a key/value pair.  Keys must arrive in ascending byte order and
// values must be non-negative.  The key is copied, so the caller may reuse it.
func (b *Builder) Put(k []byte, v int32) error {
	if b.finalized {
		return ErrBuilderFinalized
	}
	if v < 0 {
		return fmt.Errorf("%w: key %q has value %d", ErrValueOutOfRange, k, v)
	}

	if n := len(b.keyEnds); n > 0 {
		switch cmp := bytes.Compare(b.key(n-1), k); {
		case cmp > 0:
			return fmt.Errorf("%w: %q after %q", ErrUnsortedKeys, k, b.key(n-1))
		case cmp == 0:
			switch b.opts.duplicates {
			case DuplicateKeepFirst:
				return nil
			case DuplicateKeepLast:
				b.values[n-1] = v
				return nil
			default:
				return fmt.Errorf("%w: %q", ErrDuplicateKey, k)
			}
		}
	}

	b.keyData = append(b.keyData, k...)
	b.keyEnds = append(b.keyEnds, len(b.keyData))
	b.values = append(b.values, v)
	return nil
}

// PutString is Put for string keys.
func (b *Builder) PutString(k string, v int32) error {
	return b.Put(unsafestring.ToBytes(k), v)
}

// Finalize builds the double array from everything added so far.  On error
// no Dict is returned; either way the Builder can't be used again.
func (b *Builder) Finalize() (*Dict, error) {
	if b.finalized {
		return nil, ErrBuilderFinalized
	}
	b.finalized = true

	keys := make([][]byte, len(b.keyEnds))
	for i := range keys {
		keys[i] = b.key(i)
	}

	da, err := doublearray.Build(keys, b.values, doublearray.BuildConfig{
		Logger:   b.opts.logger,
		MaxUnits: b.opts.maxUnits,
	})
	// we're done with these -- nil them so they can be GC'd earlier
	b.keyData, b.keyEnds, b.values = nil, nil, nil
	if err != nil {
		return nil, fmt.Errorf("doublearray.Build: %w", err)
	}

	return newDict(da, nil), nil
}

// Build constructs a Dict from keys sorted in ascending byte order.  If
// values is nil, each key's value is its index in keys.
func Build(keys [][]byte, values []int32, opts ...BuilderOption) (*Dict, error) {
	if values != nil && len(values) != len(keys) {
		return nil, fmt.Errorf("have %d keys but %d values", len(keys), len(values))
	}
	b := NewBuilder(opts...)
	for i, k := range keys {
		if err := b.Put(k, valueAt(values, i)); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

// BuildStrings is Build for string keys.
func BuildStrings(keys []string, values []int32, opts ...BuilderOption) (*Dict, error) {
	if values != nil && len(values) != len(keys) {
		return nil, fmt.Errorf("have %d keys but %d values", len(keys), len(values))
	}
	b := NewBuilder(opts...)
	for i, k := range keys {
		if err := b.PutString(k, valueAt(values, i)); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

func valueAt(values []int32, i int) int32 {
	if values == nil {
		return int32(i)
	}
	return values[i]
}
