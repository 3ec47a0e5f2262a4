// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cram

import (
	"github.com/grailbio/base/simd"
)

const (
	// MissingScore marks a quality score that was not stored.
	MissingScore = byte(0xff)
	// DefaultQualityScore replaces missing scores unless a QualityRestorer
	// says otherwise.
	DefaultQualityScore = byte('?')
)

// QualityRestorer restores quality scores, filling positions that have no
// stored score with DefaultScore.
type QualityRestorer struct {
	DefaultScore byte
}

var defaultQualityRestorer = QualityRestorer{DefaultScore: DefaultQualityScore}

// RestoreQualities is QualityRestorer{DefaultQualityScore}.Restore(r).
func RestoreQualities(r *Record) error {
	return defaultQualityRestorer.Restore(r)
}

// HasQualityFeatures reports whether features contain a ReadBase or a
// BaseQualityScore.  A nil list has none.
func HasQualityFeatures(features []Feature) bool {
	for i := range features {
		switch features[i].Op {
		case ReadBase, BaseQualityScore:
			return true
		}
	}
	return false
}

// Restore sets r.Quals to the final quality scores of r, or to nil when r has
// no usable scores.
//
// If r is flagged ForcePreserveQuality, r.Quals must hold at least
// r.ReadLength scores; MissingScore entries are replaced with q.DefaultScore,
// and a read whose scores are all missing gets nil.  Otherwise the scores
// come only from ReadBase and BaseQualityScore features over a
// q.DefaultScore background; a read with no such features gets nil.  When
// two features share a position, the later one wins.
func (q QualityRestorer) Restore(r *Record) error {
	forced := r.Has(ForcePreserveQuality)
	if !forced && !HasQualityFeatures(r.Features) {
		r.Quals = nil
		return nil
	}

	if forced {
		if len(r.Quals) < r.ReadLength {
			return sizeMismatchError(r, len(r.Quals))
		}
		quals := r.Quals[:r.ReadLength]
		nMissing := 0
		for i, s := range quals {
			if s == MissingScore {
				quals[i] = q.DefaultScore
				nMissing++
			}
		}
		if nMissing == r.ReadLength {
			r.Quals = nil
			return nil
		}
		r.Quals = quals
		return nil
	}

	if r.Quals == nil {
		r.Quals = make([]byte, r.ReadLength)
	} else if len(r.Quals) < r.ReadLength {
		return sizeMismatchError(r, len(r.Quals))
	}
	quals := r.Quals[:r.ReadLength]
	simd.Memset8(quals, q.DefaultScore)
	for i := range r.Features {
		f := &r.Features[i]
		if f.Op != ReadBase && f.Op != BaseQualityScore {
			continue
		}
		if f.Pos < 1 || f.Pos > r.ReadLength {
			return inconsistentError("read feature %v at position %d outside of read length %d: %v", f.Op, f.Pos, r.ReadLength, r)
		}
		quals[f.Pos-1] = f.Qual
	}
	r.Quals = quals
	return nil
}
