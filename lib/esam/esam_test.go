//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/sam"
	qt "github.com/frankban/quicktest"

	"git.sr.ht/~vejnar/TxMapper/lib/cigar"
	"git.sr.ht/~vejnar/TxMapper/lib/feature"
)

const testSAM = `@HD	VN:1.6
@SQ	SN:chr1	LN:100000
@SQ	SN:chr2	LN:100000
tx1	0	chr1	4	60	8M7D6M2I2M11D7M	*	0	0	*	*
tx2	0	chr2	11	60	20M	*	0	0	*	*
tx3	16	chr1	100	60	10M	*	0	0	*	*
tx4	4	*	0	0	*	*	0	0	*	*
tx5	256	chr1	50	0	5M	*	0	0	*	*
tx6	2048	chr1	70	0	5M	*	0	0	*	*
`

func TestReadRecords(t *testing.T) {
	c := qt.New(t)
	rr, err := sam.NewReader(strings.NewReader(testSAM))
	c.Assert(err, qt.IsNil)
	var skipped []string
	records, err := ReadRecords(rr, func(rec feature.Record, err error) error {
		c.Assert(err, qt.ErrorIs, ErrUnsupportedStrand)
		skipped = append(skipped, rec.Name)
		return nil
	})
	c.Assert(err, qt.IsNil)
	c.Assert(skipped, qt.DeepEquals, []string{"tx3"})
	c.Assert(records, qt.DeepEquals, []feature.Record{
		{Name: "tx1", Chrom: "chr1", Start: 3, Cigar: "8M7D6M2I2M11D7M", Line: 1},
		{Name: "tx2", Chrom: "chr2", Start: 10, Cigar: "20M", Line: 2},
	})

	// Records give the same mapping as the tabulated input
	index, err := feature.BuildIndex(records, nil)
	c.Assert(err, qt.IsNil)
	g, err := index["tx1"].Genomic(4)
	c.Assert(err, qt.IsNil)
	c.Assert(g, qt.Equals, 7)
	g, err = index["tx2"].Genomic(19)
	c.Assert(err, qt.IsNil)
	c.Assert(g, qt.Equals, 29)
}

func TestReadRecordsStop(t *testing.T) {
	c := qt.New(t)
	rr, err := sam.NewReader(strings.NewReader(testSAM))
	c.Assert(err, qt.IsNil)
	_, err = ReadRecords(rr, nil)
	c.Assert(err, qt.ErrorIs, ErrUnsupportedStrand)

	rr, err = sam.NewReader(strings.NewReader(testSAM))
	c.Assert(err, qt.IsNil)
	stop := errors.New("stop")
	_, err = ReadRecords(rr, func(feature.Record, error) error { return stop })
	c.Assert(err, qt.Equals, stop)
}

func TestOpenRecords(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "tx.sam")
	c.Assert(os.WriteFile(path, []byte(testSAM), 0666), qt.IsNil)
	records, err := OpenRecords(PathSAM{Path: path}, 1, func(feature.Record, error) error { return nil })
	c.Assert(err, qt.IsNil)
	c.Assert(records, qt.HasLen, 2)

	_, err = OpenRecords(PathSAM{Path: filepath.Join(t.TempDir(), "missing.sam")}, 1, nil)
	c.Assert(os.IsNotExist(err), qt.IsTrue)
}

func TestGetAln(t *testing.T) {
	c := qt.New(t)
	ops, err := cigar.Parse("2S3M2D1X2I2M15N1M")
	c.Assert(err, qt.IsNil)
	ref, read, symbol := GetAln(ops)
	c.Assert(string(ref), qt.Equals, "  NNNNNN--NN>>>>>>>>>>N")
	c.Assert(string(symbol), qt.Equals, "  |||..X..||..........|")
	c.Assert(string(read), qt.Equals, "NNNNN--NNNNN----------N")
}

func TestFormatAln(t *testing.T) {
	ops, err := cigar.Parse("2M1I1M")
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, FormatAln(ops), qt.Equals, "Genome     NN-N\n           ||.|\nTranscript NNNN\n")
}
