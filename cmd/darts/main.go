// Copyright 2026 The darts Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// darts builds and queries double-array dictionary files.
//
//	darts build -o words.dic [-sep '\t'] [-sort] [-dups reject|keep-first|keep-last] [-v] [input]
//	darts lookup -d words.dic key...
//	darts prefix -d words.dic [-max n] text...
//	darts predict -d words.dic [-max n] prefix...
//	darts stat -d words.dic
//
// Input lines are either "key" (the value is the line number) or
// "key<sep>value".
package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/bpowers/darts"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: darts <build|lookup|prefix|predict|stat> [flags] [args]\n")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "build":
		err = build(args)
	case "lookup":
		err = lookup(args)
	case "prefix":
		err = prefix(args)
	case "predict":
		err = predict(args)
	case "stat":
		err = stat(args)
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "darts: %s\n", err)
		os.Exit(1)
	}
}

func parseDuplicatePolicy(s string) (darts.DuplicatePolicy, error) {
	for _, p := range []darts.DuplicatePolicy{darts.DuplicateReject, darts.DuplicateKeepFirst, darts.DuplicateKeepLast} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown duplicate policy %q", s)
}

type kv struct {
	key   []byte
	value int32
}

func readEntries(r io.Reader, sep []byte) ([]kv, error) {
	var entries []kv
	s := bufio.NewScanner(bufio.NewReaderSize(r, 16*1024))
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for line := 1; s.Scan(); line++ {
		k, v, found := bytes.Cut(s.Bytes(), sep)
		value := int32(line - 1)
		if found {
			n, err := strconv.ParseInt(string(v), 10, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad value %q: %w", line, v, err)
			}
			value = int32(n)
		}
		entries = append(entries, kv{key: append([]byte(nil), k...), value: value})
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return entries, nil
}

func build(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	out := fs.String("o", "", "output dictionary path (required)")
	sep := fs.String("sep", "\t", "separator between key and value")
	sortInput := fs.Bool("sort", false, "sort input keys before building")
	dups := fs.String("dups", darts.DuplicateReject.String(), "duplicate key policy: reject, keep-first or keep-last")
	verbose := fs.Bool("v", false, "log build progress to stderr")
	_ = fs.Parse(args)

	if *out == "" {
		return errors.New("build: -o is required")
	}
	policy, err := parseDuplicatePolicy(*dups)
	if err != nil {
		return err
	}

	in := io.Reader(os.Stdin)
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return err
		}
		defer func() {
			_ = f.Close()
		}()
		in = f
	}

	entries, err := readEntries(in, []byte(*sep))
	if err != nil {
		return err
	}
	if *sortInput {
		sort.SliceStable(entries, func(i, j int) bool {
			return bytes.Compare(entries[i].key, entries[j].key) < 0
		})
	}

	opts := []darts.BuilderOption{darts.WithDuplicatePolicy(policy)}
	if *verbose {
		opts = append(opts, darts.WithBuilderLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	}
	b := darts.NewBuilder(opts...)
	for _, e := range entries {
		if err := b.Put(e.key, e.value); err != nil {
			return fmt.Errorf("put %q: %w", e.key, err)
		}
	}
	nKeys := b.Len()
	d, err := b.Finalize()
	if err != nil {
		return err
	}
	if err := darts.WriteFile(d, *out); err != nil {
		return err
	}
	fmt.Printf("%s: %d keys, %d units, %d bytes, fingerprint %016x\n", *out, nKeys, d.UnitCount(), d.ByteSize(), d.Fingerprint())
	return nil
}

// openDict parses the common -d flag and opens the dictionary.
func openDict(fs *flag.FlagSet, args []string) (*darts.Dict, error) {
	path := fs.String("d", "", "dictionary path (required)")
	verify := fs.Bool("verify", false, "check the dictionary structure on open")
	_ = fs.Parse(args)
	if *path == "" {
		return nil, fmt.Errorf("%s: -d is required", fs.Name())
	}
	var opts []darts.LoadOption
	if *verify {
		opts = append(opts, darts.WithVerify())
	}
	return darts.Open(*path, opts...)
}

func lookup(args []string) error {
	fs := flag.NewFlagSet("lookup", flag.ExitOnError)
	d, err := openDict(fs, args)
	if err != nil {
		return err
	}
	defer func() {
		_ = d.Close()
	}()

	for _, key := range fs.Args() {
		if v, ok := d.ExactMatchSearchString(key); ok {
			fmt.Printf("%s\t%d\n", key, v)
		} else {
			fmt.Printf("%s\tnot found\n", key)
		}
	}
	return nil
}

func prefix(args []string) error {
	fs := flag.NewFlagSet("prefix", flag.ExitOnError)
	maxResults := fs.Int("max", 0, "maximum matches per text (0 is unlimited)")
	d, err := openDict(fs, args)
	if err != nil {
		return err
	}
	defer func() {
		_ = d.Close()
	}()

	for _, text := range fs.Args() {
		for _, m := range d.CommonPrefixSearchString(text, *maxResults) {
			fmt.Printf("%s\t%d\n", text[:m.Length], m.Value)
		}
	}
	return nil
}

func predict(args []string) error {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	maxResults := fs.Int("max", 0, "maximum keys per prefix (0 is unlimited)")
	d, err := openDict(fs, args)
	if err != nil {
		return err
	}
	defer func() {
		_ = d.Close()
	}()

	for _, p := range fs.Args() {
		for _, e := range d.PredictiveSearch([]byte(p), *maxResults) {
			fmt.Printf("%s\t%d\n", e.Key, e.Value)
		}
	}
	return nil
}

func stat(args []string) error {
	fs := flag.NewFlagSet("stat", flag.ExitOnError)
	d, err := openDict(fs, args)
	if err != nil {
		return err
	}
	defer func() {
		_ = d.Close()
	}()

	units, used := d.UnitCount(), d.UsedUnits()
	fmt.Printf("keys:        %d\n", d.Len())
	fmt.Printf("units:       %d\n", units)
	fmt.Printf("used units:  %d (%.1f%%)\n", used, 100*float64(used)/float64(units))
	fmt.Printf("bytes:       %d\n", d.ByteSize())
	fmt.Printf("fingerprint: %016x\n", d.Fingerprint())
	return nil
}
