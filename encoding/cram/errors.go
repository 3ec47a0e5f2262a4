// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cram

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Error kinds raised by this package:
//
//   errors.Invalid       a preserved quality array is shorter than the read.
//   errors.Integrity     read features or fragment pointers disagree with the
//                        record or batch they belong to.
//   errors.NotSupported  a read feature with an unknown operator.

func sizeMismatchError(r *Record, got int) error {
	return errors.E(errors.Invalid,
		fmt.Sprintf("cram: expecting a quality score array of size %d, got %d: %v", r.ReadLength, got, r))
}

func inconsistentError(format string, args ...interface{}) error {
	return errors.E(errors.Integrity, "cram: "+fmt.Sprintf(format, args...))
}

func unsupportedError(f *Feature) error {
	return errors.E(errors.NotSupported, fmt.Sprintf("cram: unsupported read feature %v at position %d", f.Op, f.Pos))
}

// IsSizeMismatch reports whether err was raised because a quality array was
// shorter than its read.
func IsSizeMismatch(err error) bool { return errors.Is(errors.Invalid, err) }

// IsDecodingConsistency reports whether err was raised because the decoded
// features or fragment pointers are inconsistent.
func IsDecodingConsistency(err error) bool { return errors.Is(errors.Integrity, err) }

// IsUnsupported reports whether err was raised for an unknown read feature.
func IsUnsupported(err error) bool { return errors.Is(errors.NotSupported, err) }
