// Copyright 2026 The darts Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units")
	contents := []byte("0123456789abcdef")
	require.NoError(t, os.WriteFile(path, contents, 0644))

	m, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, len(contents), m.Len())
	require.Equal(t, contents, m.Data())

	require.NoError(t, m.Close())
	require.Nil(t, m.Data())
	require.Error(t, m.Close())
}

func TestOpen_empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	m, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 0, m.Len())
	require.NoError(t, m.Close())
}

func TestOpen_missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	require.True(t, os.IsNotExist(err))
}
