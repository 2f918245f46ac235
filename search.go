// Copyright 2026 The darts Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package darts

import (
	"iter"

	"github.com/bpowers/darts/internal/doublearray"
	"github.com/bpowers/darts/internal/unsafestring"
)

// Match is a key found by a common-prefix search: Length bytes of the query
// text form a stored key whose value is Value.
type Match struct {
	Value  int32
	Length int
}

// Entry is a stored key and its value.
type Entry struct {
	Key   []byte
	Value int32
}

// ExactMatchSearch returns the value stored for key.
func (d *Dict) ExactMatchSearch(key []byte) (value int32, ok bool) {
	id, consumed, _ := d.TraverseKey(d.Root(), key)
	if consumed != len(key) {
		return 0, false
	}
	return d.Terminal(id)
}

// ExactMatchSearchString searches for key in d.
func (d *Dict) ExactMatchSearchString(key string) (value int32, ok bool) {
	return d.ExactMatchSearch(unsafestring.ToBytes(key))
}

// CommonPrefixSeq yields every stored key that is a prefix of text, shortest
// first.  The sequence can be ranged over any number of times.
func (d *Dict) CommonPrefixSeq(text []byte) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		id := d.Root()
		if value, ok := d.Terminal(id); ok {
			if !yield(Match{Value: value, Length: 0}) {
				return
			}
		}
		for i, c := range text {
			var ok bool
			if id, ok = d.Traverse(id, c); !ok {
				return
			}
			if value, ok := d.Terminal(id); ok {
				if !yield(Match{Value: value, Length: i + 1}) {
					return
				}
			}
		}
	}
}

// CommonPrefixSearch returns the stored keys that are prefixes of text in
// ascending length.  At most maxResults matches are returned when
// maxResults > 0; the walk stops as soon as that many are found.
func (d *Dict) CommonPrefixSearch(text []byte, maxResults int) []Match {
	var matches []Match
	for m := range d.CommonPrefixSeq(text) {
		matches = append(matches, m)
		if maxResults > 0 && len(matches) >= maxResults {
			break
		}
	}
	return matches
}

// CommonPrefixSearchString is CommonPrefixSearch for string text.
func (d *Dict) CommonPrefixSearchString(text string, maxResults int) []Match {
	return d.CommonPrefixSearch(unsafestring.ToBytes(text), maxResults)
}

// Root returns the node traversal starts from.
func (d *Dict) Root() NodeID {
	return NodeID(d.da.Root())
}

// Traverse follows the byte c out of node id.  Callers can hold on to the
// returned node and continue from it later, e.g. when text arrives in pieces.
func (d *Dict) Traverse(id NodeID, c byte) (NodeID, bool) {
	child, ok := d.da.Transition(uint32(id), doublearray.ByteLabel(c))
	return NodeID(child), ok
}

// Terminal returns the value of the key spelled by the path to id, if that
// path is a stored key.
func (d *Dict) Terminal(id NodeID) (value int32, ok bool) {
	leaf, ok := d.da.Transition(uint32(id), doublearray.Terminator)
	if !ok || !d.da.IsLeaf(leaf) {
		return 0, false
	}
	return d.da.LeafValue(leaf), true
}

// TraverseKey follows key from node id as far as the trie allows.  It
// returns the last node reached, how many bytes of key were consumed, and
// whether all of key was.
func (d *Dict) TraverseKey(id NodeID, key []byte) (NodeID, int, bool) {
	for i, c := range key {
		next, ok := d.Traverse(id, c)
		if !ok {
			return id, i, false
		}
		id = next
	}
	return id, len(key), true
}

// PredictiveSeq yields every stored key starting with prefix, with its value,
// in ascending byte order.  The yielded key is only valid until the next
// iteration; copy it to keep it.
func (d *Dict) PredictiveSeq(prefix []byte) iter.Seq2[[]byte, int32] {
	return func(yield func([]byte, int32) bool) {
		start, _, ok := d.TraverseKey(d.Root(), prefix)
		if !ok {
			return
		}

		type frame struct {
			id    uint32
			label uint32 // next label to try
		}
		key := append([]byte(nil), prefix...)
		stack := []frame{{id: uint32(start)}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.label >= doublearray.NumLabels {
				stack = stack[:len(stack)-1]
				if len(stack) > 0 {
					key = key[:len(key)-1]
				}
				continue
			}
			label := top.label
			top.label++

			child, ok := d.da.Transition(top.id, label)
			if !ok {
				continue
			}
			if label == doublearray.Terminator {
				if d.da.IsLeaf(child) && !yield(key, d.da.LeafValue(child)) {
					return
				}
				continue
			}
			key = append(key, byte(label-1))
			stack = append(stack, frame{id: child})
		}
	}
}

// PredictiveSearch returns the stored keys starting with prefix in ascending
// byte order, at most maxResults of them when maxResults > 0.
func (d *Dict) PredictiveSearch(prefix []byte, maxResults int) []Entry {
	var entries []Entry
	for k, v := range d.PredictiveSeq(prefix) {
		entries = append(entries, Entry{Key: append([]byte(nil), k...), Value: v})
		if maxResults > 0 && len(entries) >= maxResults {
			break
		}
	}
	return entries
}

// All yields every stored key and value in ascending byte order.
func (d *Dict) All() iter.Seq2[[]byte, int32] {
	return d.PredictiveSeq(nil)
}
