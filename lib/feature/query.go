//
// Copyright (C) 2022 Charles E. Vejnar
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
)

// ErrTranscriptNotFound is returned when a query names an unknown transcript.
var ErrTranscriptNotFound = errors.New("Transcript not found")

// Query is a position on a transcript.
type Query struct {
	Name  string
	Start int
	Line  int
}

// Result is a query resolved to the genome.
type Result struct {
	Query
	Chrom string
	Coord int
	Err   error
}

// QueryReader reads two column (name and transcript start) tabulated queries.
type QueryReader struct {
	scanner *bufio.Scanner
	line    int
}

func NewQueryReader(r io.Reader) *QueryReader {
	return &QueryReader{scanner: bufio.NewScanner(r)}
}

// Read returns the next query, or io.EOF at the end of input.
func (qr *QueryReader) Read() (Query, error) {
	for qr.scanner.Scan() {
		qr.line++
		fields := splitLine(qr.scanner.Text())
		if fields == nil {
			continue
		}
		if len(fields) != 2 {
			return Query{}, fmt.Errorf("Line %d: expected 2 columns, found %d", qr.line, len(fields))
		}
		start, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return Query{}, fmt.Errorf("Line %d: wrong transcript start %q", qr.line, fields[1])
		}
		return Query{Name: strings.TrimSpace(fields[0]), Start: start, Line: qr.line}, nil
	}
	if err := qr.scanner.Err(); err != nil {
		return Query{}, err
	}
	return Query{}, io.EOF
}

// Resolve maps q to the genome using the transcripts of index.
func (index Index) Resolve(q Query) Result {
	res := Result{Query: q}
	tx, ok := index[q.Name]
	if !ok {
		res.Err = fmt.Errorf("%w: %s", ErrTranscriptNotFound, q.Name)
		return res
	}
	res.Chrom = tx.Chrom
	res.Coord, res.Err = tx.Genomic(q.Start)
	return res
}

// WriteResult writes a resolved query as a tabulated line.
func WriteResult(w io.Writer, res Result, chromMapping map[string]string) error {
	chrom := res.Chrom
	if len(chromMapping) > 0 {
		chrom = MapName(chrom, chromMapping)
	}
	_, err := fmt.Fprintf(w, "%s\t%d\t%s\t%d\n", res.Name, res.Start, chrom, res.Coord)
	return err
}
