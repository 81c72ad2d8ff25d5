//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package cmapper

import (
	"fmt"

	"github.com/biogo/store/interval"
)

// Exon is an anchored transcript interval [Start,End) whose Start maps to
// the genomic coordinate Anchor.
type Exon struct {
	Start, End int
	Anchor     int
	UID        uintptr
}

func (e Exon) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return e.End > b.Start && e.Start < b.End
}

func (e Exon) ID() uintptr {
	return e.UID
}

func (e Exon) Range() interval.IntRange {
	return interval.IntRange{Start: e.Start, End: e.End}
}

func (e Exon) String() string {
	return fmt.Sprintf("[%d,%d)->%d#%d", e.Start, e.End, e.Anchor, e.UID)
}

// point is a single transcript position used to query the tree.
type point int

func (p point) Overlap(b interval.IntRange) bool {
	return int(p) >= b.Start && int(p) < b.End
}
