package cram

import (
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/cram/encoding/fasta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceSource(t *testing.T) {
	fa, err := fasta.New(strings.NewReader(">chr1\nACGTA\nCGTAC\n>chr2\nggcc\n"))
	require.NoError(t, err)
	src := NewReferenceSource(fa, nil)

	w, err := src.Window(0, 2, 6)
	require.NoError(t, err)
	assert.Equal(t, "GTAC", string(w.Seq))
	assert.Equal(t, 2, w.Offset)

	// Truncated at the end of chr2.
	w, err = src.Window(1, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, "gcc", string(w.Seq))

	w, err = src.Window(1, 50, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, len(w.Seq))
	assert.Equal(t, 50, w.Offset)

	_, err = src.Window(2, 0, 1)
	assert.True(t, errors.Is(errors.NotExist, err), "%v", err)
	_, err = src.Window(0, 5, 1)
	assert.True(t, errors.Is(errors.Invalid, err), "%v", err)

	// Restoring against a window reaching past the sequence end pads with N.
	w, err = src.Window(1, 0, 10)
	require.NoError(t, err)
	r := Record{RefID: 1, AlignmentStart: 2, ReadLength: 5}
	require.NoError(t, RestoreBases(&r, w, testMatrix))
	assert.Equal(t, "GCCNN", string(r.Bases))
}

func TestReferenceSourceNames(t *testing.T) {
	fa, err := fasta.New(strings.NewReader(">chr1\nAAAA\n>chr2\nCCCC\n"))
	require.NoError(t, err)
	src := NewReferenceSource(fa, []string{"chr2", "chr1", "chrX"})
	w, err := src.Window(0, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, "CC", string(w.Seq))
	_, err = src.Window(2, 0, 2)
	assert.Error(t, err)
}
