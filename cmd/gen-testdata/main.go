// Copyright 2021 The darts Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// gen-testdata writes sorted, distinct random keys with values to stdout, one
// "key<TAB>value" pair per line, ready for `darts build`.
package main

import (
	"bufio"
	crand "crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz"
)

var (
	nKeys  = flag.Int("n", 1000000, "number of keys to generate")
	minLen = flag.Int("min", 1, "minimum key length")
	maxLen = flag.Int("max", 16, "maximum key length")
	seed   = flag.Int64("seed", 0, "random seed (0 picks one)")
)

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		var seedBytes [8]byte
		if _, err := crand.Read(seedBytes[:]); err != nil {
			panic(err)
		}
		seed = int64(binary.LittleEndian.Uint64(seedBytes[:]))
	}
	return rand.New(rand.NewSource(seed))
}

func main() {
	flag.Parse()
	if *minLen < 1 || *maxLen < *minLen {
		fmt.Fprintf(os.Stderr, "bad key length range [%d, %d]\n", *minLen, *maxLen)
		os.Exit(2)
	}

	rng := newRand(*seed)
	seen := make(map[string]struct{}, *nKeys)
	keys := make([]string, 0, *nKeys)
	buf := make([]byte, *maxLen)
	for len(keys) < *nKeys {
		l := *minLen + rng.Intn(*maxLen-*minLen+1)
		for i := 0; i < l; i++ {
			buf[i] = alphabet[rng.Intn(len(alphabet))]
		}
		key := string(buf[:l])
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	w := bufio.NewWriterSize(os.Stdout, 4*1024*1024)
	for _, key := range keys {
		fmt.Fprintf(w, "%s\t%d\n", key, rng.Int31())
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "flush: %s\n", err)
		os.Exit(1)
	}
}
