package span

import (
	"fmt"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/cram/encoding/cram"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRefReader replays refs, and fails once they run out.
type fakeRefReader struct {
	refs  []RecordRef
	nRead int
}

func (r *fakeRefReader) ReadRecordRef() (RecordRef, error) {
	if r.nRead >= len(r.refs) {
		return RecordRef{}, fmt.Errorf("read past the end of the slice")
	}
	r.nRead++
	return r.refs[r.nRead-1], nil
}

func TestFromSlice(t *testing.T) {
	m, err := FromSlice(Slice{RefID: 2, AlignmentStart: 100, AlignmentSpan: 50, NumRecords: 7, Bases: 700}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, len(m))
	assert.Equal(t, Span{100, 50, 7, 700}, *m[2])

	m, err = FromSlice(Slice{RefID: cram.UnmappedRefID, AlignmentStart: 123, AlignmentSpan: 9, NumRecords: 4, Bases: 40}, nil)
	require.NoError(t, err)
	assert.Equal(t, Unmapped(4, 40), *m[cram.UnmappedRefID])
	assert.Equal(t, cram.UnmappedStart, m[cram.UnmappedRefID].Start)
	assert.Equal(t, int32(0), m[cram.UnmappedRefID].Span)
}

func TestFromMultiRefSlice(t *testing.T) {
	reader := &fakeRefReader{refs: []RecordRef{
		{RefID: 0, AlignmentStart: 10, Span: 5, ReadLength: 5},
		{RefID: 1, AlignmentStart: 500, Span: 10, ReadLength: 10},
		{RefID: 0, AlignmentStart: 8, Span: 4, ReadLength: 4},
		{RefID: cram.UnmappedRefID, ReadLength: 7},
		// Not part of the slice; must not be read.
		{RefID: 5, AlignmentStart: 1, Span: 1, ReadLength: 1},
	}}
	m, err := FromSlice(Slice{RefID: cram.MultiRefID, NumRecords: 4}, reader)
	require.NoError(t, err)
	assert.Equal(t, 4, reader.nRead)
	assert.Equal(t, 3, len(m))
	assert.Equal(t, Span{8, 7, 2, 9}, *m[0])
	assert.Equal(t, Span{500, 10, 1, 10}, *m[1])
	assert.Equal(t, Unmapped(1, 7), *m[cram.UnmappedRefID])

	_, err = FromSlice(Slice{RefID: cram.MultiRefID, NumRecords: 4}, &fakeRefReader{refs: reader.refs[:2]})
	assert.Error(t, err)

	_, err = FromSlice(Slice{RefID: cram.MultiRefID, NumRecords: 1}, nil)
	assert.True(t, errors.Is(errors.Precondition, err), "%v", err)
}

func TestFromRecords(t *testing.T) {
	records := []cram.Record{
		{RefID: 0, AlignmentStart: 10, ReadLength: 5},
		{RefID: 0, AlignmentStart: 8, ReadLength: 4},
		{RefID: 1, AlignmentStart: 20, ReadLength: 4, Features: []cram.Feature{{Op: cram.Deletion, Pos: 3, Len: 6}}},
		{RefID: cram.UnmappedRefID, AlignmentStart: cram.UnmappedStart, ReadLength: 100, Flags: cram.Unmapped},
	}
	m := FromRecords(records)
	expect.EQ(t, len(m), 2)
	expect.EQ(t, *m[0], Span{8, 7, 2, 9})
	expect.EQ(t, *m[1], Span{20, 10, 1, 4})
	_, ok := m[cram.UnmappedRefID]
	expect.False(t, ok)
}

func TestFromContainer(t *testing.T) {
	slices := []Slice{
		{RefID: 0, AlignmentStart: 100, AlignmentSpan: 50, NumRecords: 3, Bases: 300},
		{RefID: cram.MultiRefID, NumRecords: 2},
		{RefID: 0, AlignmentStart: 140, AlignmentSpan: 60, NumRecords: 2, Bases: 200},
		{RefID: cram.UnmappedRefID, NumRecords: 5, Bases: 500},
		{RefID: cram.MultiRefID, NumRecords: 1},
	}
	multi := map[int][]RecordRef{
		1: {
			{RefID: 0, AlignmentStart: 90, Span: 20, ReadLength: 20},
			{RefID: 3, AlignmentStart: 1, Span: 10, ReadLength: 10},
		},
		4: {{RefID: cram.UnmappedRefID, ReadLength: 8}},
	}
	newReader := func(i int) (RecordRefReader, error) {
		refs, ok := multi[i]
		if !ok {
			return nil, fmt.Errorf("slice %d is not multi-reference", i)
		}
		return &fakeRefReader{refs: refs}, nil
	}
	for _, parallelism := range []int{0, 1, 3} {
		m, err := FromContainer(slices, newReader, Opts{Parallelism: parallelism})
		require.NoError(t, err)
		assert.Equal(t, 3, len(m))
		assert.Equal(t, Span{90, 110, 6, 520}, *m[0])
		assert.Equal(t, Span{1, 10, 1, 10}, *m[3])
		assert.Equal(t, Unmapped(6, 508), *m[cram.UnmappedRefID])
	}

	_, err := FromContainer(slices, nil, Opts{})
	assert.True(t, errors.Is(errors.Precondition, err), "%v", err)

	m, err := FromContainer(nil, nil, Opts{})
	require.NoError(t, err)
	assert.Equal(t, 0, len(m))
}
