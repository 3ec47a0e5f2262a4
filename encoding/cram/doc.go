// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package cram restores full alignment records from the reference-relative
  encoding used by CRAM slices.  A decoded CRAM record carries only the
  differences between the read and the reference (its read features), a
  relative pointer to the next fragment of its template, and a subset of
  quality scores.  This package turns those back into what a consumer of
  the record expects:

    RestoreBases      read bases from a RefWindow and the read features.
    RestoreQualities  quality scores from the read features and the
                      preserve-quality policy.
    RestoreTemplates  mate fields, template lengths and read names across a
                      decoded batch.

  Per-reference alignment spans, used when indexing containers, live in
  package span.

  Decoding the CRAM bitstream itself is not part of this package; the caller
  supplies []Record in on-disk order with the features already decoded.
  All functions are synchronous.  RestoreBases and RestoreQualities touch only
  the record they are given, so records may be restored concurrently against
  a shared RefWindow.  RestoreTemplates needs exclusive access to its batch.
*/
package cram
