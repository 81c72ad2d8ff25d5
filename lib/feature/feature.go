//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package feature

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/hts/sam"

	"git.sr.ht/~vejnar/TxMapper/lib/cfile"
	"git.sr.ht/~vejnar/TxMapper/lib/cigar"
	"git.sr.ht/~vejnar/TxMapper/lib/cmapper"
)

var (
	ErrInvalidRecord       = errors.New("Invalid transcript record")
	ErrDuplicateTranscript = errors.New("Duplicate transcript")
)

// Transcript is a transcript aligned on the positive strand of a chromosome.
// It is immutable once created.
type Transcript struct {
	Name        string
	Chrom       string
	Start       int
	Cigar       sam.Cigar
	CoordMapper *cmapper.CoordMapper
}

// NewTranscript validates a transcript record and builds its coordinate mapper.
func NewTranscript(name, chrom string, start int, rawCigar string) (*Transcript, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidRecord)
	}
	if chrom == "" {
		return nil, fmt.Errorf("%w: empty chromosome for %s", ErrInvalidRecord, name)
	}
	if start < 0 {
		return nil, fmt.Errorf("%w: negative genomic start %d for %s", ErrInvalidRecord, start, name)
	}
	c, err := cigar.Parse(rawCigar)
	if err != nil {
		return nil, fmt.Errorf("Transcript %s: %w", name, err)
	}
	cm, err := cmapper.New(c, start)
	if err != nil {
		return nil, fmt.Errorf("Transcript %s: %w", name, err)
	}
	return &Transcript{Name: name, Chrom: chrom, Start: start, Cigar: c, CoordMapper: cm}, nil
}

// Length returns the transcript length including unaligned positions.
func (tx *Transcript) Length() int {
	return tx.CoordMapper.Span
}

// Genomic returns the genomic coordinate of the transcript coordinate tcoord.
func (tx *Transcript) Genomic(tcoord int) (int, error) {
	return tx.CoordMapper.Transcript2Genome(tcoord)
}

// Record is a raw transcript record as read from input.
type Record struct {
	Name  string
	Chrom string
	Start int
	Cigar string
	// Line or record number in input, starting at 1
	Line int
}

func (r Record) String() string {
	return fmt.Sprintf("%s\t%s\t%d\t%s", r.Name, r.Chrom, r.Start, r.Cigar)
}

// splitLine returns the tab-separated fields of line, or nil for blank and comment lines.
func splitLine(line string) []string {
	line = strings.TrimRight(line, "\r")
	if len(strings.TrimSpace(line)) == 0 || strings.HasPrefix(line, "#") {
		return nil
	}
	return strings.Split(line, "\t")
}

// ReadTAB parses a four column tabulated input (name, chromosome, genomic start and CIGAR).
func ReadTAB(r io.Reader) ([]Record, error) {
	var records []Record
	var iline int
	tscanner := bufio.NewScanner(r)
	for tscanner.Scan() {
		iline++
		fields := splitLine(tscanner.Text())
		if fields == nil {
			continue
		}
		if len(fields) != 4 {
			return records, fmt.Errorf("Line %d: expected 4 columns, found %d", iline, len(fields))
		}
		start, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return records, fmt.Errorf("Line %d: wrong genomic start %q", iline, fields[2])
		}
		records = append(records, Record{Name: strings.TrimSpace(fields[0]), Chrom: strings.TrimSpace(fields[1]), Start: start, Cigar: fields[3], Line: iline})
	}
	if err := tscanner.Err(); err != nil {
		return records, err
	}
	return records, nil
}

// OpenTAB opens a tabulated transcript file (see ReadTAB).
func OpenTAB(tpath string) ([]Record, error) {
	tfos, err := cfile.Open(tpath)
	if err != nil {
		return nil, err
	}
	defer tfos.Close()
	records, err := ReadTAB(tfos)
	if err != nil {
		return records, fmt.Errorf("%s: %w", tpath, err)
	}
	return records, nil
}

// Index stores transcripts by name.
type Index map[string]*Transcript

// BuildIndex creates the transcripts of records. Invalid or duplicated records
// are passed to onError: the record is skipped if it returns nil, otherwise
// building stops with the returned error. A nil onError stops at the first error.
func BuildIndex(records []Record, onError func(Record, error) error) (Index, error) {
	index := make(Index, len(records))
	for _, rec := range records {
		var tx *Transcript
		var err error
		if _, ok := index[rec.Name]; ok {
			err = fmt.Errorf("%w: %s", ErrDuplicateTranscript, rec.Name)
		} else {
			tx, err = NewTranscript(rec.Name, rec.Chrom, rec.Start, rec.Cigar)
		}
		if err != nil {
			if onError == nil {
				return index, fmt.Errorf("Record %d: %w", rec.Line, err)
			}
			if err = onError(rec, err); err != nil {
				return index, err
			}
			continue
		}
		index[tx.Name] = tx
	}
	return index, nil
}
