// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cram

import (
	"github.com/grailbio/hts/sam"
)

// Cigar returns the alignment of r implied by its read features.  Read
// positions not covered by an insertion or a soft clip are matches;
// substitutions and ReadBase features do not break a match run.  An unmapped
// record has no CIGAR.
func (r *Record) Cigar() sam.Cigar {
	if r.Has(Unmapped) {
		return nil
	}
	var c sam.Cigar
	add := func(t sam.CigarOpType, n int) {
		if n <= 0 {
			return
		}
		if last := len(c) - 1; last >= 0 && c[last].Type() == t {
			c[last] = sam.NewCigarOp(t, c[last].Len()+n)
			return
		}
		c = append(c, sam.NewCigarOp(t, n))
	}
	pos := 1 // first read position not yet in c.
	for i := range r.Features {
		f := &r.Features[i]
		switch f.Op {
		case Insertion, InsertBase, SoftClip, Deletion, RefSkip:
		default:
			continue
		}
		if f.Pos > pos {
			add(sam.CigarMatch, f.Pos-pos)
			pos = f.Pos
		}
		switch f.Op {
		case Insertion:
			add(sam.CigarInsertion, len(f.Seq))
		case InsertBase:
			add(sam.CigarInsertion, 1)
		case SoftClip:
			add(sam.CigarSoftClipped, len(f.Seq))
		case Deletion:
			add(sam.CigarDeletion, f.Len)
		case RefSkip:
			add(sam.CigarSkipped, f.Len)
		}
		pos += f.readLen()
	}
	add(sam.CigarMatch, r.ReadLength-pos+1)
	return c
}

// AlignmentEnd returns the 1-based position of the last reference base
// covered by r.  Unmapped records and records without features are assumed
// to cover ReadLength reference bases.
func (r *Record) AlignmentEnd() int32 {
	if r.Has(Unmapped) || len(r.Features) == 0 {
		return r.AlignmentStart + int32(r.ReadLength) - 1
	}
	refLen, _ := r.Cigar().Lengths()
	return r.AlignmentStart + int32(refLen) - 1
}
