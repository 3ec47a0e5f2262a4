// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package span

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/cram/encoding/cram"
)

// Slice is the alignment summary stored in a slice header.
type Slice struct {
	// RefID is a reference id, cram.UnmappedRefID, or cram.MultiRefID.
	RefID          int32
	AlignmentStart int32
	AlignmentSpan  int32
	NumRecords     int
	Bases          int64
}

// RecordRef is the placement of one record of a multi-reference slice.
type RecordRef struct {
	RefID          int32
	AlignmentStart int32
	// Span is the number of reference bases covered by the record.
	Span       int32
	ReadLength int
}

// RecordRefReader decodes, in order, the placement of each record of a
// multi-reference slice.  It is implemented by the slice decoder.
type RecordRefReader interface {
	ReadRecordRef() (RecordRef, error)
}

// FromSlice returns the spans of the records in slice s.  Single-reference
// and unmapped slices are summarized from the header alone.  A
// multi-reference slice is replayed through refs, which is read exactly
// s.NumRecords times; refs may be nil for other slices.
func FromSlice(s Slice, refs RecordRefReader) (Map, error) {
	m := Map{}
	switch s.RefID {
	case cram.UnmappedRefID:
		m.Add(cram.UnmappedRefID, Unmapped(s.NumRecords, s.Bases))
	case cram.MultiRefID:
		if refs == nil {
			return nil, errors.E(errors.Precondition, "span: multi-reference slice without a reference id decoder")
		}
		for i := 0; i < s.NumRecords; i++ {
			ref, err := refs.ReadRecordRef()
			if err != nil {
				return nil, errors.E(err, fmt.Sprintf("span: decoding record %d of %d of a multi-reference slice", i, s.NumRecords))
			}
			if ref.RefID == cram.UnmappedRefID {
				m.Add(cram.UnmappedRefID, Unmapped(1, int64(ref.ReadLength)))
				continue
			}
			m.Add(ref.RefID, Span{Start: ref.AlignmentStart, Span: ref.Span, Count: 1, Bases: int64(ref.ReadLength)})
		}
	default:
		m.Add(s.RefID, Span{Start: s.AlignmentStart, Span: s.AlignmentSpan, Count: s.NumRecords, Bases: s.Bases})
	}
	return m, nil
}

// FromRecords returns the spans of the mapped records in a decoded batch.
// Records at cram.UnmappedStart are skipped; a batch has no separate
// unmapped bucket to feed.
func FromRecords(records []cram.Record) Map {
	m := Map{}
	for i := range records {
		r := &records[i]
		if r.AlignmentStart <= cram.UnmappedStart {
			continue
		}
		m.Add(r.RefID, Span{
			Start: r.AlignmentStart,
			Span:  r.AlignmentEnd() - r.AlignmentStart + 1,
			Count: 1,
			Bases: int64(r.ReadLength),
		})
	}
	return m
}

// Opts controls FromContainer.
type Opts struct {
	// Parallelism is the number of slices aggregated concurrently.  If zero,
	// runtime.NumCPU() is used.
	Parallelism int
}

// FromContainer aggregates the spans of all slices of a container.  Slices
// are processed concurrently; newReader(i) is called only for the
// multi-reference slices, and must return a fresh decoder for slices[i].
func FromContainer(slices []Slice, newReader func(i int) (RecordRefReader, error), opts Opts) (Map, error) {
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	var (
		mu     sync.Mutex
		result = Map{}
	)
	err := traverse.Limit(parallelism).Each(len(slices), func(i int) error {
		var refs RecordRefReader
		if slices[i].RefID == cram.MultiRefID {
			if newReader == nil {
				return errors.E(errors.Precondition, fmt.Sprintf("span: slice %d is multi-reference but no decoder was given", i))
			}
			var err error
			if refs, err = newReader(i); err != nil {
				return errors.E(err, fmt.Sprintf("span: slice %d", i))
			}
		}
		m, err := FromSlice(slices[i], refs)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Merge(m)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debug.Printf("span: aggregated %d slices into %d references", len(slices), len(result))
	return result, nil
}
