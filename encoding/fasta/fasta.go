// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package fasta reads reference sequences from FASTA data.  A FASTA file is a
// list of named sequences, each of which may be split over several lines:
//
// >chr7
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// The sequence name is the text after '>' up to the first space, so
// '>chr1 A viral sequence' names 'chr1'.
package fasta

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// maxLineSize bounds a single FASTA line.  Unwrapped chromosome-sized lines
// exist in the wild.
const maxLineSize = 1 << 28

// Fasta is a set of named sequences.
type Fasta interface {
	// Get returns the bases of seqName in the 0-based half-open range
	// [start, end).  Get is thread-safe.
	Get(seqName string, start, end uint64) (string, error)
	// Len returns the length of seqName.
	Len(seqName string) (uint64, error)
	// SeqNames returns the sequence names in file order.
	SeqNames() []string
}

type fasta struct {
	seqs  map[string][]byte
	names []string
}

// New reads all of r into memory.
func New(r io.Reader) (Fasta, error) {
	f := &fasta{seqs: make(map[string][]byte)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxLineSize)
	var (
		name string
		seq  []byte
		open bool
	)
	flush := func() {
		if open {
			f.seqs[name] = seq
			f.names = append(f.names, name)
		}
	}
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] != '>' {
			if !open {
				return nil, errors.Errorf("malformed FASTA file: sequence data before the first header")
			}
			seq = append(seq, line...)
			continue
		}
		flush()
		header := line[1:]
		if i := bytes.IndexByte(header, ' '); i >= 0 {
			header = header[:i]
		}
		if len(header) == 0 {
			return nil, errors.Errorf("malformed FASTA file: empty sequence name")
		}
		name, seq, open = string(header), nil, true
		if _, ok := f.seqs[name]; ok {
			return nil, errors.Errorf("malformed FASTA file: duplicate sequence %s", name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "couldn't read FASTA data")
	}
	flush()
	return f, nil
}

// Get implements Fasta.Get().
func (f *fasta) Get(seqName string, start, end uint64) (string, error) {
	seq, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("sequence not found: %s", seqName)
	}
	if end <= start {
		return "", errors.Errorf("start must be less than end")
	}
	if end > uint64(len(seq)) {
		return "", errors.Errorf("invalid query range %d - %d for sequence %s with length %d",
			start, end, seqName, len(seq))
	}
	return string(seq[start:end]), nil
}

// Len implements Fasta.Len().
func (f *fasta) Len(seqName string) (uint64, error) {
	seq, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("sequence not found: %s", seqName)
	}
	return uint64(len(seq)), nil
}

// SeqNames implements Fasta.SeqNames().
func (f *fasta) SeqNames() []string {
	return f.names
}
