// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cram

import (
	"fmt"
)

const (
	// UnmappedRefID is the reference id of a record (or mate) that is not
	// aligned to any reference.
	UnmappedRefID = int32(-1)
	// MultiRefID is the reference id of a slice that holds records from
	// more than one reference.
	MultiRefID = int32(-2)
	// UnmappedStart is the alignment start of an unmapped record.
	UnmappedStart = int32(0)

	// NoLink is returned by Record.Next and Record.Prev for a record with no
	// linked fragment.
	NoLink = -1
	// NoNextFragment is the RecordsToNextFragment value of a record that has
	// no downstream fragment in its batch.
	NoNextFragment = -1
)

// Flags holds the CRAM compression-level and SAM-level bits of a record that
// the restore functions read or write.
type Flags uint16

const (
	// MultiFragment is set when the template has more than one fragment.
	MultiFragment Flags = 1 << iota
	// Detached is set when the mate fields were stored verbatim rather than
	// as a pointer to the next fragment.
	Detached
	// HasMateDownstream is set when RecordsToNextFragment points at the next
	// fragment of the template.
	HasMateDownstream
	// Unmapped is set when this segment is unmapped.
	Unmapped
	// Reverse is set when this segment is on the negative strand.
	Reverse
	// MateUnmapped is set when the next segment is unmapped.
	MateUnmapped
	// MateReverse is set when the next segment is on the negative strand.
	MateReverse
	// ForcePreserveQuality is set when the quality scores were stored as an
	// array rather than as read features.
	ForcePreserveQuality
	// UnknownBases is set when the record has no stored sequence.
	UnknownBases
)

// FeatureOp identifies the kind of a read feature.  The values are the
// operator bytes used by the CRAM specification.
type FeatureOp byte

const (
	// Substitution replaces one reference base, using a substitution code.
	Substitution FeatureOp = 'X'
	// Insertion inserts Seq into the read.
	Insertion FeatureOp = 'I'
	// InsertBase inserts the single base Base into the read.
	InsertBase FeatureOp = 'i'
	// SoftClip stores the clipped bases Seq.
	SoftClip FeatureOp = 'S'
	// Deletion skips Len reference bases.
	Deletion FeatureOp = 'D'
	// RefSkip skips Len reference bases (an intron, typically).
	RefSkip FeatureOp = 'N'
	// ReadBase overwrites one read base and its quality score.
	ReadBase FeatureOp = 'B'
	// BaseQualityScore sets the quality score at one read position.
	BaseQualityScore FeatureOp = 'Q'
)

// Known reports whether op is one of the feature kinds this package restores.
func (op FeatureOp) Known() bool {
	switch op {
	case Substitution, Insertion, InsertBase, SoftClip, Deletion, RefSkip, ReadBase, BaseQualityScore:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (op FeatureOp) String() string {
	if op.Known() {
		return string(rune(op))
	}
	return fmt.Sprintf("FeatureOp(%#x)", byte(op))
}

// readLen returns the number of read positions the feature occupies in the
// main pass.  ReadBase and BaseQualityScore are overlays and occupy none.
func (f *Feature) readLen() int {
	switch f.Op {
	case Substitution, InsertBase:
		return 1
	case Insertion, SoftClip:
		return len(f.Seq)
	}
	return 0
}

// refLen returns the number of reference positions the feature consumes.
func (f *Feature) refLen() int {
	switch f.Op {
	case Substitution:
		return 1
	case Deletion, RefSkip:
		return f.Len
	}
	return 0
}

// Feature is one entry of a record's read-feature list.  Which fields are
// meaningful depends on Op:
//
//   Op                 fields
//   Substitution       Code; Base and RefBase are filled by RestoreBases
//   Insertion/SoftClip Seq
//   InsertBase         Base
//   Deletion/RefSkip   Len
//   ReadBase           Base, Qual
//   BaseQualityScore   Qual
type Feature struct {
	Op FeatureOp
	// Pos is the 1-based read position of the feature.
	Pos int

	Code    byte
	Seq     []byte
	Base    byte
	RefBase byte
	Qual    byte
	Len     int
}

// Record is a decoded CRAM record.  Records of one batch are kept in a slice
// in on-disk order; template links are indices into that slice.
type Record struct {
	Name  string
	Flags Flags

	RefID int32
	// AlignmentStart is 1-based.  It is UnmappedStart for unmapped records.
	AlignmentStart int32
	ReadLength     int

	// Bases is nil when the sequence is unknown.  Quals is nil when the
	// record has no quality scores.
	Bases    []byte
	Quals    []byte
	Features []Feature

	// RecordsToNextFragment is the distance, in records, from this record to
	// the next fragment of its template.
	RecordsToNextFragment int

	MateRefID          int32
	MateAlignmentStart int32
	TemplateSize       int32

	// next and prev store batch index+1 so that the zero value means "no
	// link".
	next, prev int
}

// Has reports whether all the bits in f are set.
func (r *Record) Has(f Flags) bool { return r.Flags&f == f }

// SetFlag sets or clears the bits in f.
func (r *Record) SetFlag(f Flags, on bool) {
	if on {
		r.Flags |= f
	} else {
		r.Flags &^= f
	}
}

// Next returns the batch index of the next fragment of r's template, or
// NoLink.  After RestoreTemplates, the last fragment links back to the first.
func (r *Record) Next() int { return r.next - 1 }

// Prev returns the batch index of the previous fragment of r's template, or
// NoLink.  The first fragment of a template has no previous fragment.
func (r *Record) Prev() int { return r.prev - 1 }

func (r *Record) setNext(i int) { r.next = i + 1 }
func (r *Record) setPrev(i int) { r.prev = i + 1 }

func (r *Record) resetLinks() {
	r.RecordsToNextFragment = NoNextFragment
	r.next, r.prev = 0, 0
}

// String implements fmt.Stringer.
func (r *Record) String() string {
	return fmt.Sprintf("%s ref:%d start:%d len:%d flags:%#x", r.Name, r.RefID, r.AlignmentStart, r.ReadLength, uint16(r.Flags))
}
