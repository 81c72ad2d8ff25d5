//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package cigar parses and validates CIGAR strings describing the alignment
// of a transcript to the genome.
package cigar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/biogo/hts/sam"
)

// ErrMalformedCigar is returned for any CIGAR string that cannot be parsed
// into a non-empty list of valid operations.
var ErrMalformedCigar = errors.New("Malformed CIGAR")

// MaxOpLength is the largest length a single operation can hold (28 bits).
const MaxOpLength = 1<<28 - 1

// Recognized operations. The SAM "B" (skip backwards) operation is not.
var opTypes = map[byte]sam.CigarOpType{
	'M': sam.CigarMatch,
	'I': sam.CigarInsertion,
	'D': sam.CigarDeletion,
	'N': sam.CigarSkipped,
	'S': sam.CigarSoftClipped,
	'H': sam.CigarHardClipped,
	'P': sam.CigarPadded,
	'=': sam.CigarEqual,
	'X': sam.CigarMismatch,
}

// Parse parses raw into CIGAR operations. Surrounding whitespace is ignored.
func Parse(raw string) (sam.Cigar, error) {
	s := strings.TrimSpace(raw)
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: empty string", ErrMalformedCigar)
	}
	var c sam.Cigar
	i := 0
	for i < len(s) {
		// Length
		j := i
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j == i {
			return nil, fmt.Errorf("%w: missing length at position %d in %q", ErrMalformedCigar, i, s)
		}
		if j == len(s) {
			return nil, fmt.Errorf("%w: missing operation after %q", ErrMalformedCigar, s[i:j])
		}
		n, err := strconv.Atoi(s[i:j])
		if err != nil || n > MaxOpLength {
			return nil, fmt.Errorf("%w: length %s too large in %q", ErrMalformedCigar, s[i:j], s)
		}
		if n <= 0 {
			return nil, fmt.Errorf("%w: non-positive length %s in %q", ErrMalformedCigar, s[i:j], s)
		}
		// Operation
		t, ok := opTypes[s[j]]
		if !ok {
			return nil, fmt.Errorf("%w: unknown operation %q in %q", ErrMalformedCigar, s[j], s)
		}
		c = append(c, sam.NewCigarOp(t, n))
		i = j + 1
	}
	if len(c) == 0 {
		return nil, fmt.Errorf("%w: no operation", ErrMalformedCigar)
	}
	if err := checkRoundTrip(c, s); err != nil {
		return nil, err
	}
	return c, nil
}

// checkRoundTrip ensures every character of s was consumed by an operation:
// the serialized operations must reproduce s exactly.
func checkRoundTrip(c sam.Cigar, s string) error {
	if f := Format(c); f != s {
		return fmt.Errorf("%w: %q is read as %q", ErrMalformedCigar, s, f)
	}
	return nil
}

// Format serializes CIGAR operations. Unlike sam.Cigar.String, an empty
// CIGAR gives an empty string.
func Format(c sam.Cigar) string {
	var b strings.Builder
	for _, co := range c {
		b.WriteString(strconv.Itoa(co.Len()))
		b.WriteString(co.Type().String())
	}
	return b.String()
}

// IsAnchored reports whether the operation type consumes both the
// transcript and the genome (M, = and X).
func IsAnchored(t sam.CigarOpType) bool {
	con := t.Consumes()
	return con.Query == 1 && con.Reference == 1
}

// Lengths returns the anchored length (M, = and X), the transcript span
// (anchored, I and S) and the genomic extent (anchored, D and N) of c.
func Lengths(c sam.Cigar) (anchored, span, genome int) {
	var con sam.Consume
	for _, co := range c {
		con = co.Type().Consumes()
		if con.Query == 1 && con.Reference == 1 {
			anchored += co.Len()
		}
		span += co.Len() * con.Query
		if con.Reference > 0 {
			genome += co.Len() * con.Reference
		}
	}
	return
}
