// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cram

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/cram/encoding/fasta"
)

// RefWindow is a contiguous, read-only piece of a reference sequence.  The
// 1-based alignment position p is stored at Seq[p-Offset-1].  A window may be
// shorter than the records restored against it; positions it does not cover
// read as 'N'.
type RefWindow struct {
	Seq []byte
	// Offset is the 0-based reference position of Seq[0].
	Offset int
}

// index translates a 1-based alignment position into an index in w.Seq.
func (w RefWindow) index(pos int32) int {
	return int(pos) - w.Offset - 1
}

// at returns the reference byte at index i of w.Seq, or 'N' outside of it.
func (w RefWindow) at(i int) byte {
	if i < 0 || i >= len(w.Seq) {
		return 'N'
	}
	return w.Seq[i]
}

// ReferenceSource produces RefWindows from FASTA sequences, keyed by CRAM
// reference id.
type ReferenceSource struct {
	fa    fasta.Fasta
	names []string
}

// NewReferenceSource creates a ReferenceSource.  names[i] is the FASTA
// sequence name of reference id i.  If names is nil, the sequence order of
// the FASTA file is used.
func NewReferenceSource(fa fasta.Fasta, names []string) *ReferenceSource {
	if names == nil {
		names = fa.SeqNames()
	}
	return &ReferenceSource{fa: fa, names: names}
}

// Window returns the reference bases of refID in the 0-based half-open range
// [start, end).  The window is truncated at the end of the sequence, so it
// may be shorter than requested or empty.
func (s *ReferenceSource) Window(refID int32, start, end int) (RefWindow, error) {
	if refID < 0 || int(refID) >= len(s.names) {
		return RefWindow{}, errors.E(errors.NotExist, fmt.Sprintf("cram: no reference sequence for id %d", refID))
	}
	if start < 0 || end < start {
		return RefWindow{}, errors.E(errors.Invalid, fmt.Sprintf("cram: invalid reference range [%d, %d)", start, end))
	}
	name := s.names[refID]
	n, err := s.fa.Len(name)
	if err != nil {
		return RefWindow{}, errors.E(err, "cram: reference", name)
	}
	if uint64(end) > n {
		end = int(n)
	}
	w := RefWindow{Offset: start}
	if end <= start {
		return w, nil
	}
	seq, err := s.fa.Get(name, uint64(start), uint64(end))
	if err != nil {
		return RefWindow{}, errors.E(err, "cram: reference", name)
	}
	w.Seq = []byte(seq)
	return w, nil
}
