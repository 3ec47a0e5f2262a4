package cram

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestCigar(t *testing.T) {
	tests := []struct {
		readLen  int
		features []Feature
		want     string
		refLen   int32
	}{
		{10, nil, "10M", 10},
		{10, []Feature{{Op: Substitution, Pos: 3}, {Op: ReadBase, Pos: 4}}, "10M", 10},
		{10, []Feature{{Op: SoftClip, Pos: 1, Seq: []byte("AC")}}, "2S8M", 8},
		{10, []Feature{{Op: SoftClip, Pos: 9, Seq: []byte("AC")}}, "8M2S", 8},
		{10, []Feature{{Op: Insertion, Pos: 4, Seq: []byte("AC")}, {Op: InsertBase, Pos: 6, Base: 'G'}}, "3M3I4M", 7},
		{10, []Feature{{Op: Deletion, Pos: 5, Len: 3}, {Op: RefSkip, Pos: 8, Len: 100}}, "4M3D3M100N3M", 113},
		{5, []Feature{{Op: Deletion, Pos: 6, Len: 2}}, "5M2D", 7},
	}
	for _, tt := range tests {
		r := Record{AlignmentStart: 11, ReadLength: tt.readLen, Features: tt.features}
		expect.EQ(t, r.Cigar().String(), tt.want)
		expect.EQ(t, r.AlignmentEnd(), 11+tt.refLen-1, tt.want)
	}

	r := Record{Flags: Unmapped, AlignmentStart: 11, ReadLength: 4, Features: []Feature{{Op: Deletion, Pos: 2, Len: 5}}}
	expect.True(t, r.Cigar() == nil)
	expect.EQ(t, r.AlignmentEnd(), int32(14))
}

func TestFeatureOp(t *testing.T) {
	expect.True(t, Substitution.Known())
	expect.True(t, BaseQualityScore.Known())
	expect.False(t, FeatureOp('H').Known())
	expect.EQ(t, InsertBase.String(), "i")
	expect.EQ(t, FeatureOp(1).String(), "FeatureOp(0x1)")
}

func TestFlags(t *testing.T) {
	var r Record
	r.SetFlag(Reverse|Detached, true)
	expect.True(t, r.Has(Reverse))
	expect.True(t, r.Has(Reverse|Detached))
	expect.False(t, r.Has(Reverse|Unmapped))
	r.SetFlag(Reverse, false)
	expect.False(t, r.Has(Reverse))
	expect.True(t, r.Has(Detached))
	expect.EQ(t, r.Next(), NoLink)
	expect.EQ(t, r.Prev(), NoLink)
}
