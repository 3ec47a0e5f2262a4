// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cram

import (
	"strconv"

	"github.com/grailbio/base/log"
)

// RestoreTemplates links the fragments of each template in records, which
// must be one decoded batch in on-disk order, and fills in the mate fields,
// template lengths and missing read names.
//
// A record that is MultiFragment, not Detached, and HasMateDownstream is
// linked to records[i+RecordsToNextFragment].  Then, for the first record of
// each template, the mate fields of every fragment are copied from the
// following fragment, the last fragment's mate is the first one, and the read
// name of the first fragment is propagated to the rest.  A nameless first
// fragment at batch index i is named namePrefix+(readCounter+i).  The last
// fragment's Next is set to the first, closing the template into a cycle.
//
// readCounter is the number of records in the batches restored before this
// one.  RestoreTemplates returns the counter to pass with the next batch.
func RestoreTemplates(records []Record, readCounter int64, namePrefix string) (int64, error) {
	for i := range records {
		records[i].next, records[i].prev = 0, 0
	}
	nDetached := 0
	for i := range records {
		r := &records[i]
		if !r.Has(MultiFragment) || r.Has(Detached) {
			r.resetLinks()
			if r.Has(Detached) {
				nDetached++
			}
			continue
		}
		if !r.Has(HasMateDownstream) {
			// Linked, if at all, by an upstream fragment.
			continue
		}
		j := i + r.RecordsToNextFragment
		if r.RecordsToNextFragment < 1 || j >= len(records) {
			return readCounter, inconsistentError("record %d of %d points %d records ahead to its next fragment: %v",
				i, len(records), r.RecordsToNextFragment, r)
		}
		r.setNext(j)
		records[j].setPrev(i)
	}

	nTemplates := 0
	for i := range records {
		first := &records[i]
		if first.next == 0 || first.prev != 0 {
			continue
		}
		nTemplates++
		if first.Name == "" {
			first.Name = namePrefix + strconv.FormatInt(readCounter+int64(i), 10)
		}
		cur := i
		for {
			n := records[cur].Next()
			if n == NoLink || n == i {
				break
			}
			connectMate(&records[cur], &records[n])
			cur = n
		}
		last := &records[cur]
		connectMate(last, first)
		last.setNext(i)

		tlen := TemplateLength(first, last)
		first.TemplateSize = tlen
		last.TemplateSize = -tlen
	}
	log.Debug.Printf("cram: restored %d templates from %d records (%d detached), read counter %d",
		nTemplates, len(records), nDetached, readCounter)
	return readCounter + int64(len(records)), nil
}

// connectMate sets the mate fields of r from mate, and gives mate r's name.
func connectMate(r, mate *Record) {
	r.MateAlignmentStart = mate.AlignmentStart
	r.SetFlag(MateUnmapped, mate.Has(Unmapped))
	r.SetFlag(MateReverse, mate.Has(Reverse))
	r.MateRefID = mate.RefID
	if r.MateRefID == UnmappedRefID {
		r.MateAlignmentStart = UnmappedStart
	}
	mate.Name = r.Name
}

// TemplateLength computes the signed observed template length between the
// 5' ends of first and second.  It is zero if either end is unmapped or the
// ends are on different references.  The length counts both 5' positions, so
// it is never zero for mapped ends on the same reference.
func TemplateLength(first, second *Record) int32 {
	if first.Has(Unmapped) || second.Has(Unmapped) {
		return 0
	}
	if first.RefID != second.RefID {
		return 0
	}
	first5 := fivePrimePosition(first)
	second5 := fivePrimePosition(second)
	if second5 >= first5 {
		return second5 - first5 + 1
	}
	return second5 - first5 - 1
}

func fivePrimePosition(r *Record) int32 {
	if r.Has(Reverse) {
		return r.AlignmentEnd()
	}
	return r.AlignmentStart
}
