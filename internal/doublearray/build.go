// Copyright 2026 The darts Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package doublearray

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bpowers/darts/internal/unit"
)

// BuildConfig configures Build.
type BuildConfig struct {
	// Logger receives progress updates; nil discards them.
	Logger *slog.Logger
	// MaxUnits caps the array size; 0 means MaxUnits.
	MaxUnits int
}

// pendingNode is a node whose children still need to be placed: every key in
// keys[lo:hi] shares the first depth bytes, which lead to node id.
type pendingNode struct {
	id     uint32
	lo, hi int
	depth  int
}

func labelAt(key []byte, depth int) uint16 {
	if depth == len(key) {
		return Terminator
	}
	return uint16(key[depth]) + 1
}

// Build constructs a double array from keys, which must be sorted in
// ascending byte order and distinct, with the matching non-negative values.
//
// Nodes are expanded from an explicit work-list rather than by recursion, so
// long shared prefixes don't grow the goroutine stack.  Because the input is
// sorted, all children of a node are known when it is expanded and are placed
// together; an offset that was handed out is never moved.
func Build(keys [][]byte, values []int32, cfg BuildConfig) (View, error) {
	if len(keys) != len(values) {
		return View{}, fmt.Errorf("have %d keys but %d values", len(keys), len(values))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	start := time.Now()

	b, err := NewBuffer(cfg.MaxUnits)
	if err != nil {
		return View{}, err
	}

	logger.Info("building double array", "keys", len(keys))

	if len(keys) == 0 {
		b.setBase(0, 1)
		v := b.Freeze()
		logger.Info("built double array", "units", v.Len(), "duration", time.Since(start))
		return v, nil
	}

	var (
		stack    = []pendingNode{{id: 0, lo: 0, hi: len(keys), depth: 0}}
		labels   = make([]uint16, 0, NumLabels)
		children = make([]pendingNode, 0, NumLabels)
		expanded int
	)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		labels = labels[:0]
		children = children[:0]
		for i := n.lo; i < n.hi; {
			label := labelAt(keys[i], n.depth)
			j := i + 1
			for j < n.hi && labelAt(keys[j], n.depth) == label {
				j++
			}
			if label == Terminator && j-i > 1 {
				return View{}, fmt.Errorf("%w: key %d (%q)", ErrDuplicateKey, i+1, keys[i+1])
			}
			if len(labels) > 0 && label <= labels[len(labels)-1] {
				return View{}, fmt.Errorf("%w: key %d (%q)", ErrUnsortedKeys, i, keys[i])
			}
			labels = append(labels, label)
			children = append(children, pendingNode{lo: i, hi: j, depth: n.depth + 1})
			i = j
		}

		base, err := b.place(n.id, labels)
		if err != nil {
			return View{}, err
		}

		// push in reverse so children are expanded in label order
		for k := len(children) - 1; k >= 0; k-- {
			child := children[k]
			child.id = base + uint32(labels[k])
			if labels[k] != Terminator {
				stack = append(stack, child)
				continue
			}
			value := values[child.lo]
			if value < 0 || value > unit.MaxValue {
				return View{}, fmt.Errorf("%w: key %d (%q) has value %d", ErrValueOutOfRange, child.lo, keys[child.lo], value)
			}
			b.setLeaf(child.id, value)
		}

		expanded++
		if expanded%(1<<20) == 0 {
			logger.Debug("expanding nodes", "expanded", expanded, "units", b.Len())
		}
	}

	v := b.Freeze()
	logger.Info("built double array",
		"keys", len(keys),
		"units", v.Len(),
		"bytes", v.ByteSize(),
		"duration", time.Since(start))
	return v, nil
}
