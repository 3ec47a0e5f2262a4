// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package span aggregates the alignment spans of CRAM records and slices per
// reference sequence, as needed to index CRAM containers.
package span

import (
	"fmt"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/cram/encoding/cram"
)

// Span summarizes the records aligned to one reference.
type Span struct {
	// Start is the smallest 1-based alignment start seen.
	Start int32
	// Span is the length, from Start, of the union of the footprints seen.
	Span int32
	// Count is the number of records.
	Count int
	// Bases is the total read length of the records.
	Bases int64
}

// Unmapped returns the span of count unmapped records holding bases bases.
func Unmapped(count int, bases int64) Span {
	return Span{Start: cram.UnmappedStart, Count: count, Bases: bases}
}

// Add merges s2 into s.  Add is commutative and associative.
func (s *Span) Add(s2 Span) {
	end := s.Start + s.Span
	if end2 := s2.Start + s2.Span; end2 > end {
		end = end2
	}
	switch {
	case s2.Start < s.Start:
		s.Start = s2.Start
		s.Span = end - s2.Start
	case s2.Start > s.Start:
		s.Span = end - s.Start
	default:
		if s2.Span > s.Span {
			s.Span = s2.Span
		}
	}
	s.Count += s2.Count
	s.Bases += s2.Bases
}

// String implements fmt.Stringer.
func (s Span) String() string {
	return fmt.Sprintf("{start:%d span:%d count:%d bases:%d}", s.Start, s.Span, s.Count, s.Bases)
}

// Map holds one Span per reference id.  cram.UnmappedRefID keys the unmapped
// bucket.
type Map map[int32]*Span

// Add merges s into the span of refID, creating it if needed.
func (m Map) Add(refID int32, s Span) {
	if cur, ok := m[refID]; ok {
		cur.Add(s)
		return
	}
	m[refID] = &s
}

// Merge adds every span of m2 to m.
func (m Map) Merge(m2 Map) {
	for refID, s := range m2 {
		m.Add(refID, *s)
	}
}

type entry struct {
	refID int32
	span  *Span
}

// Compare implements llrb.Comparable.  The unmapped bucket sorts last.
func (e entry) Compare(c llrb.Comparable) int {
	e2 := c.(entry)
	a, b := sortableRefID(e.refID), sortableRefID(e2.refID)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func sortableRefID(id int32) int64 {
	if id == cram.UnmappedRefID {
		return 1 << 32
	}
	return int64(id)
}

// Each calls fn for every span in ascending reference id order, with the
// unmapped bucket last.  It stops when fn returns false.
func (m Map) Each(fn func(refID int32, s Span) bool) {
	var tree llrb.Tree
	for refID, s := range m {
		tree.Insert(entry{refID, s})
	}
	tree.Do(func(c llrb.Comparable) bool {
		e := c.(entry)
		return !fn(e.refID, *e.span)
	})
}
