//
// Copyright © 2015 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"git.sr.ht/~vejnar/TxMapper/lib/cigar"
	"git.sr.ht/~vejnar/TxMapper/lib/feature"
)

// ErrUnsupportedStrand is returned for transcripts aligned on the reverse strand.
var ErrUnsupportedStrand = errors.New("Reverse strand alignment")

// PathSAM stores Path to SAM (Binary=false) or BAM (Binary=true) file.
type PathSAM struct {
	Path   string
	Binary bool
}

// OpenSAM opens a SAM or BAM file. nWorker is the number of BAM decompression workers.
func OpenSAM(pathSAM PathSAM, nWorker int) (f *os.File, rr sam.RecordReader, err error) {
	f, err = os.Open(pathSAM.Path)
	if err != nil {
		return f, rr, err
	}
	if pathSAM.Binary {
		rr, err = bam.NewReader(f, nWorker)
	} else {
		rr, err = sam.NewReader(f)
	}
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%s: %w", pathSAM.Path, err)
	}
	return f, rr, nil
}

// IsPrimary reports whether the alignment is mapped, neither secondary nor supplementary.
func IsPrimary(r *sam.Record) bool {
	return r.Flags&(sam.Unmapped|sam.Secondary|sam.Supplementary) == 0
}

// ToRecord converts the alignment of a transcript to a transcript record.
func ToRecord(r *sam.Record, line int) (feature.Record, error) {
	rec := feature.Record{Name: r.Name, Start: r.Pos, Cigar: cigar.Format(r.Cigar), Line: line}
	if r.Ref != nil {
		rec.Chrom = r.Ref.Name()
	}
	if r.Strand() == -1 {
		return rec, fmt.Errorf("%w: %s", ErrUnsupportedStrand, r.Name)
	}
	return rec, nil
}

// ReadRecords reads the primary alignments of rr. Reverse strand alignments
// are passed to onError: the alignment is skipped if it returns nil,
// otherwise reading stops with the returned error.
func ReadRecords(rr sam.RecordReader, onError func(feature.Record, error) error) ([]feature.Record, error) {
	var records []feature.Record
	var n int
	for {
		r, err := rr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return records, err
		}
		n++
		if !IsPrimary(r) {
			continue
		}
		rec, err := ToRecord(r, n)
		if err != nil {
			if onError == nil {
				return records, err
			}
			if err = onError(rec, err); err != nil {
				return records, err
			}
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// OpenRecords reads the transcript records of a SAM or BAM file (see ReadRecords).
func OpenRecords(pathSAM PathSAM, nWorker int, onError func(feature.Record, error) error) ([]feature.Record, error) {
	f, rr, err := OpenSAM(pathSAM, nWorker)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := ReadRecords(rr, onError)
	if err != nil {
		return records, fmt.Errorf("%s: %w", pathSAM.Path, err)
	}
	return records, nil
}
