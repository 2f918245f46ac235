// Copyright 2026 The darts Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package doublearray

import (
	"bytes"
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/darts/internal/unit"
)

func toKeys(ss ...string) [][]byte {
	keys := make([][]byte, len(ss))
	for i, s := range ss {
		keys[i] = []byte(s)
	}
	return keys
}

func indexValues(n int) []int32 {
	values := make([]int32, n)
	for i := range values {
		values[i] = int32(i)
	}
	return values
}

// lookup walks key plus the terminator from the root.
func lookup(v View, key []byte) (int32, bool) {
	id := v.Root()
	for _, c := range key {
		var ok bool
		if id, ok = v.Transition(id, ByteLabel(c)); !ok {
			return 0, false
		}
	}
	id, ok := v.Transition(id, Terminator)
	if !ok || !v.IsLeaf(id) {
		return 0, false
	}
	return v.LeafValue(id), true
}

func TestBuild_empty(t *testing.T) {
	v, err := Build(nil, nil, BuildConfig{})
	require.NoError(t, err)
	require.Equal(t, 1, v.Len())
	require.Equal(t, unit.Width, v.ByteSize())
	require.NoError(t, v.Verify())

	for _, label := range []uint32{Terminator, ByteLabel(0), ByteLabel('a'), ByteLabel(255)} {
		_, ok := v.Transition(v.Root(), label)
		require.False(t, ok)
	}
}

func TestBuild_simple(t *testing.T) {
	keys := toKeys("a", "ab", "abc", "b", "bcd")
	v, err := Build(keys, []int32{1, 2, 3, 4, 5}, BuildConfig{})
	require.NoError(t, err)
	require.NoError(t, v.Verify())
	require.Equal(t, 5, v.LeafLen())

	for i, key := range keys {
		value, ok := lookup(v, key)
		require.True(t, ok, "key %q", key)
		require.Equal(t, int32(i+1), value)
	}
	for _, negative := range []string{"", "abd", "bc", "c", "abcd"} {
		_, ok := lookup(v, []byte(negative))
		require.False(t, ok, "key %q", negative)
	}

	// "a" and "ab" share the node for "a"; the terminator leads somewhere else
	a, ok := v.Transition(v.Root(), ByteLabel('a'))
	require.True(t, ok)
	require.False(t, v.IsLeaf(a))
	leaf, ok := v.Transition(a, Terminator)
	require.True(t, ok)
	require.True(t, v.IsLeaf(leaf))
	ab, ok := v.Transition(a, ByteLabel('b'))
	require.True(t, ok)
	require.NotEqual(t, leaf, ab)

	// leaves have no children
	_, ok = v.Transition(leaf, ByteLabel('b'))
	require.False(t, ok)
	_, ok = v.Transition(leaf, Terminator)
	require.False(t, ok)
}

func TestBuild_zeroBytesAndEmptyKey(t *testing.T) {
	keys := toKeys("", "\x00", "\x00\x00", "\xff", "\xff\x00")
	v, err := Build(keys, indexValues(len(keys)), BuildConfig{})
	require.NoError(t, err)
	require.NoError(t, v.Verify())
	for i, key := range keys {
		value, ok := lookup(v, key)
		require.True(t, ok, "key %q", key)
		require.Equal(t, int32(i), value)
	}
	_, ok := lookup(v, []byte("\x00\x00\x00"))
	require.False(t, ok)
}

func TestBuild_errors(t *testing.T) {
	for _, tc := range []struct {
		name     string
		keys     []string
		values   []int32
		expected error
	}{
		{"unsorted", []string{"b", "a"}, []int32{0, 1}, ErrUnsortedKeys},
		{"unsorted prefix", []string{"ab", "a"}, []int32{0, 1}, ErrUnsortedKeys},
		{"unsorted later", []string{"a", "b", "a"}, []int32{0, 1, 2}, ErrUnsortedKeys},
		{"duplicate", []string{"a", "a"}, []int32{0, 1}, ErrDuplicateKey},
		{"duplicate empty", []string{"", ""}, []int32{0, 1}, ErrDuplicateKey},
		{"negative value", []string{"a"}, []int32{-1}, ErrValueOutOfRange},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(toKeys(tc.keys...), tc.values, BuildConfig{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.expected), "got %v", err)
		})
	}

	_, err := Build(toKeys("a", "b"), []int32{1}, BuildConfig{})
	require.Error(t, err)
}

func TestBuild_overflow(t *testing.T) {
	// 'z'+1 can't be addressed in an array of 64 units
	_, err := Build(toKeys("z"), []int32{1}, BuildConfig{MaxUnits: 64})
	require.ErrorIs(t, err, ErrArrayOverflow)

	// but small labels fit
	v, err := Build(toKeys("\x01", "\x02"), []int32{1, 2}, BuildConfig{MaxUnits: 64})
	require.NoError(t, err)
	require.LessOrEqual(t, v.Len(), 64)
	require.NoError(t, v.Verify())
}

func randomKeys(rng *rand.Rand, n int, alphabet string) [][]byte {
	seen := make(map[string]struct{}, n)
	keys := make([][]byte, 0, n)
	for len(keys) < n {
		k := make([]byte, 1+rng.Intn(12))
		for i := range k {
			k[i] = alphabet[rng.Intn(len(alphabet))]
		}
		if _, ok := seen[string(k)]; ok {
			continue
		}
		seen[string(k)] = struct{}{}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })
	return keys
}

func TestBuild_random(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, alphabet := range []string{"ab", "abcdefghijklmnopqrstuvwxyz", "\x00\x01\x7f\x80\xfe\xff"} {
		keys := randomKeys(rng, 5000, alphabet)
		values := indexValues(len(keys))
		v, err := Build(keys, values, BuildConfig{})
		require.NoError(t, err)
		require.NoError(t, v.Verify())
		require.Equal(t, len(keys), v.LeafLen())
		for i, key := range keys {
			value, ok := lookup(v, key)
			require.True(t, ok, "key %q", key)
			require.Equal(t, values[i], value)
		}

		// a second build is byte-for-byte identical
		again, err := Build(keys, values, BuildConfig{})
		require.NoError(t, err)
		require.Equal(t, v.Bytes(), again.Bytes())
	}
}

func TestBuild_longSharedPrefix(t *testing.T) {
	// deep chains are expanded iteratively
	prefix := bytes.Repeat([]byte("x"), 100000)
	keys := [][]byte{
		append(append([]byte{}, prefix...), 'a'),
		append(append([]byte{}, prefix...), 'b'),
	}
	v, err := Build(keys, []int32{7, 8}, BuildConfig{})
	require.NoError(t, err)
	require.NoError(t, v.Verify())
	value, ok := lookup(v, keys[1])
	require.True(t, ok)
	require.Equal(t, int32(8), value)
	_, ok = lookup(v, prefix)
	require.False(t, ok)
}
