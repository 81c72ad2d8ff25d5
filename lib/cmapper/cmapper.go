//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//

package cmapper

import (
	"errors"
	"fmt"

	"github.com/biogo/hts/sam"
	"github.com/biogo/store/interval"

	"git.sr.ht/~vejnar/TxMapper/lib/cigar"
)

var (
	ErrEmptyMapping       = errors.New("No anchored interval")
	ErrOutOfRange         = errors.New("Coordinate out of range")
	ErrNoMappingForOffset = errors.New("No genomic coordinate for transcript offset")
)

// CoordMapper maps transcript coordinates to genomic coordinates on the
// positive strand. It is never modified after New returns and is safe for
// concurrent use.
type CoordMapper struct {
	CoordsTranscript, CoordsGenome [][]int
	// Length is the anchored length (M, = and X operations).
	Length int
	// Span is the full transcript length, including I and S operations.
	Span int
	tree interval.IntTree
}

// New builds the mapper of an alignment starting at genomicStart.
func New(c sam.Cigar, genomicStart int) (*CoordMapper, error) {
	if genomicStart < 0 {
		return nil, fmt.Errorf("%w: negative genomic start %d", ErrOutOfRange, genomicStart)
	}
	cm := &CoordMapper{}
	var exons []Exon
	var con sam.Consume
	tcoord, gcoord := 0, genomicStart
	for _, co := range c {
		con = co.Type().Consumes()
		length := co.Len()
		if con.Reference < 0 {
			return nil, fmt.Errorf("%w: unsupported operation %s", cigar.ErrMalformedCigar, co.Type())
		}
		if con.Query == 1 && con.Reference == 1 {
			n := len(exons)
			if n > 0 && exons[n-1].End == tcoord && exons[n-1].Anchor+(exons[n-1].End-exons[n-1].Start) == gcoord {
				// Contiguous on both axes (e.g. 5=1X4=)
				exons[n-1].End += length
			} else {
				exons = append(exons, Exon{Start: tcoord, End: tcoord + length, Anchor: gcoord, UID: uintptr(n)})
			}
			cm.Length += length
		}
		tcoord += length * con.Query
		gcoord += length * con.Reference
	}
	if len(exons) == 0 {
		return nil, ErrEmptyMapping
	}
	cm.Span = tcoord
	// Index
	for _, e := range exons {
		cm.CoordsTranscript = append(cm.CoordsTranscript, []int{e.Start, e.End})
		cm.CoordsGenome = append(cm.CoordsGenome, []int{e.Anchor, e.Anchor + (e.End - e.Start)})
		if err := cm.tree.Insert(e, true); err != nil {
			return nil, err
		}
	}
	cm.tree.AdjustRanges()
	return cm, nil
}

// Transcript2Genome translates a coordinate from the transcript to the genome system.
func (cm *CoordMapper) Transcript2Genome(tcoord int) (int, error) {
	if tcoord < 0 || tcoord >= cm.Span {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, tcoord, cm.Span)
	}
	ivs := cm.tree.Get(point(tcoord))
	if len(ivs) == 0 {
		return 0, fmt.Errorf("%w: %d is not aligned to the genome", ErrNoMappingForOffset, tcoord)
	}
	e := ivs[0].(Exon)
	return e.Anchor + (tcoord - e.Start), nil
}

// Exons returns the anchored intervals sorted by transcript start.
func (cm *CoordMapper) Exons() []Exon {
	exons := make([]Exon, len(cm.CoordsTranscript))
	for i := range cm.CoordsTranscript {
		exons[i] = Exon{Start: cm.CoordsTranscript[i][0], End: cm.CoordsTranscript[i][1], Anchor: cm.CoordsGenome[i][0], UID: uintptr(i)}
	}
	return exons
}
