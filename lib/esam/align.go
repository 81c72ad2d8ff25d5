//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"bytes"
	"fmt"

	"github.com/biogo/hts/sam"
)

// MaxSkipWidth is the maximum width used to draw a skipped region (intron).
const MaxSkipWidth = 10

// GetAln draws the alignment described by the CIGAR: the genome line, a
// symbol line and the transcript line. Aligned positions are 'N' in both
// sequences, '|' for match and 'X' for mismatch. Long skipped regions are
// shortened to MaxSkipWidth positions drawn with '>'.
func GetAln(c sam.Cigar) (ref, read, symbol []byte) {
	var length int
	var co sam.CigarOp
	var con sam.Consume
	for i := 0; i < len(c); i++ {
		co = c[i]
		con = co.Type().Consumes()
		length = co.Len()
		if con.Query == 1 && con.Reference == 1 {
			ref = append(ref, bytes.Repeat([]byte("N"), length)...)
			read = append(read, bytes.Repeat([]byte("N"), length)...)
			if co.Type() == sam.CigarMismatch {
				symbol = append(symbol, bytes.Repeat([]byte("X"), length)...)
			} else {
				symbol = append(symbol, bytes.Repeat([]byte("|"), length)...)
			}
		} else if con.Query == 0 && con.Reference == 1 {
			if co.Type() == sam.CigarSkipped {
				if length > MaxSkipWidth {
					length = MaxSkipWidth
				}
				ref = append(ref, bytes.Repeat([]byte(">"), length)...)
			} else {
				ref = append(ref, bytes.Repeat([]byte("N"), length)...)
			}
			read = append(read, bytes.Repeat([]byte("-"), length)...)
			symbol = append(symbol, bytes.Repeat([]byte("."), length)...)
		} else if con.Query == 1 && con.Reference == 0 {
			if co.Type() == sam.CigarInsertion {
				ref = append(ref, bytes.Repeat([]byte("-"), length)...)
				symbol = append(symbol, bytes.Repeat([]byte("."), length)...)
			} else {
				ref = append(ref, bytes.Repeat([]byte(" "), length)...)
				symbol = append(symbol, bytes.Repeat([]byte(" "), length)...)
			}
			read = append(read, bytes.Repeat([]byte("N"), length)...)
		}
	}
	return
}

// FormatAln returns the three lines of GetAln, each prefixed with its label.
func FormatAln(c sam.Cigar) string {
	ref, read, symbol := GetAln(c)
	return fmt.Sprintf("Genome     %s\n           %s\nTranscript %s\n", ref, symbol, read)
}
