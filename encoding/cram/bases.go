// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cram

import (
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/simd"
)

// SubstitutionMatrix maps a normalized reference base and a substitution code
// to the read base.  It is built from the compression header by the caller.
type SubstitutionMatrix interface {
	Base(refBase, code byte) byte
}

// SubstitutionFunc adapts a function to the SubstitutionMatrix interface.
type SubstitutionFunc func(refBase, code byte) byte

// Base implements SubstitutionMatrix.
func (f SubstitutionFunc) Base(refBase, code byte) byte { return f(refBase, code) }

// normalizeTable capitalizes a/c/g/t and maps everything else to 'N'.
var normalizeTable [256]byte

func init() {
	for i := range normalizeTable {
		normalizeTable[i] = 'N'
	}
	for _, b := range []byte("ACGT") {
		normalizeTable[b] = b
		normalizeTable[b+'a'-'A'] = b
	}
}

// NormalizeBases capitalizes 'a'/'c'/'g'/'t' in seq, and replaces everything
// non-ACGT with 'N'.
func NormalizeBases(seq []byte) {
	for i, b := range seq {
		seq[i] = normalizeTable[b]
	}
}

// RestoreBases sets r.Bases to the read sequence described by r's features
// against ref.  r.Bases is reused when it has enough capacity.  A record
// flagged UnknownBases, or with zero length, gets nil bases.
//
// Substitution features are updated in place: their Base and RefBase fields
// are set to the restored read base and the normalized reference base.
func RestoreBases(r *Record, ref RefWindow, m SubstitutionMatrix) error {
	if r.Has(UnknownBases) || r.ReadLength == 0 {
		r.Bases = nil
		return nil
	}
	if cap(r.Bases) >= r.ReadLength {
		r.Bases = r.Bases[:r.ReadLength]
	} else {
		r.Bases = make([]byte, r.ReadLength)
	}
	if err := RestoreBasesInto(r.Bases, r.AlignmentStart, r.Features, ref, m); err != nil {
		r.Bases = nil
		return errors.E(err, r.String())
	}
	return nil
}

// RestoreBasesInto fills dst, whose length is the read length, with the bases
// of a read aligned at the 1-based position start.  Two cursors walk the read
// and ref; read positions between features are copied from ref, and
// positions that ref does not cover become 'N'.  ReadBase features are
// applied last, over whatever the other features produced.  The result is
// normalized to A/C/G/T/N.
//
// Features must be sorted by position, and must not overlap except for
// ReadBase and BaseQualityScore.  Otherwise RestoreBasesInto returns an
// errors.Integrity error.
func RestoreBasesInto(dst []byte, start int32, features []Feature, ref RefWindow, m SubstitutionMatrix) error {
	simd.Memset8(dst, 'N')
	refIdx := ref.index(start)
	if len(features) == 0 {
		copyRefBases(dst, ref, refIdx)
		NormalizeBases(dst)
		return nil
	}

	readLen := len(dst)
	readIdx, lastPos := 0, 0
	for i := range features {
		f := &features[i]
		if !f.Op.Known() {
			return unsupportedError(f)
		}
		if f.Pos < lastPos {
			return inconsistentError("read feature %v at position %d follows position %d", f.Op, f.Pos, lastPos)
		}
		lastPos = f.Pos
		maxPos := readLen
		if f.Op == Deletion || f.Op == RefSkip {
			// A deletion may trail the last read base.
			maxPos++
		}
		if f.Pos < 1 || f.Pos > maxPos {
			return inconsistentError("read feature %v at position %d outside of read length %d", f.Op, f.Pos, readLen)
		}
		if f.Pos-1 < readIdx && f.Op != ReadBase && f.Op != BaseQualityScore {
			return inconsistentError("read feature %v at position %d overlaps the previous feature ending at %d", f.Op, f.Pos, readIdx)
		}
		for ; readIdx < f.Pos-1; readIdx, refIdx = readIdx+1, refIdx+1 {
			dst[readIdx] = ref.at(refIdx)
		}
		n := f.readLen()
		if readIdx+n > readLen {
			return inconsistentError("read feature %v at position %d extends %d bases past read length %d", f.Op, f.Pos, readIdx+n-readLen, readLen)
		}
		switch f.Op {
		case Substitution:
			if m == nil {
				return errors.E(errors.Precondition, "cram: substitution feature without a substitution matrix")
			}
			refBase := normalizeTable[ref.at(refIdx)]
			f.RefBase = refBase
			f.Base = m.Base(refBase, f.Code)
			dst[readIdx] = f.Base
		case Insertion, SoftClip:
			copy(dst[readIdx:], f.Seq)
		case InsertBase:
			dst[readIdx] = f.Base
		}
		readIdx += n
		refIdx += f.refLen()
	}

	// Trailing matches.  Positions past the end of ref keep their 'N' fill.
	for ; readIdx < readLen && refIdx < len(ref.Seq); readIdx, refIdx = readIdx+1, refIdx+1 {
		dst[readIdx] = ref.at(refIdx)
	}

	for i := range features {
		if f := &features[i]; f.Op == ReadBase {
			dst[f.Pos-1] = f.Base
		}
	}
	NormalizeBases(dst)
	return nil
}

// copyRefBases copies ref.Seq[refIdx:] into dst, leaving positions outside of
// ref untouched.
func copyRefBases(dst []byte, ref RefWindow, refIdx int) {
	if refIdx < 0 {
		if -refIdx >= len(dst) {
			return
		}
		dst = dst[-refIdx:]
		refIdx = 0
	}
	if refIdx < len(ref.Seq) {
		copy(dst, ref.Seq[refIdx:])
	}
}
