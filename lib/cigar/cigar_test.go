//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package cigar

import (
	"strings"
	"testing"

	"github.com/biogo/hts/sam"
	qt "github.com/frankban/quicktest"
)

func TestParse(t *testing.T) {
	c := qt.New(t)
	ops, err := Parse("8M7D6M2I2M11D7M")
	c.Assert(err, qt.IsNil)
	c.Assert(ops, qt.DeepEquals, sam.Cigar{
		sam.NewCigarOp(sam.CigarMatch, 8),
		sam.NewCigarOp(sam.CigarDeletion, 7),
		sam.NewCigarOp(sam.CigarMatch, 6),
		sam.NewCigarOp(sam.CigarInsertion, 2),
		sam.NewCigarOp(sam.CigarMatch, 2),
		sam.NewCigarOp(sam.CigarDeletion, 11),
		sam.NewCigarOp(sam.CigarMatch, 7),
	})
}

func TestParseAllOperations(t *testing.T) {
	c := qt.New(t)
	ops, err := Parse("2H3S4M5I6D7N8P9=10X")
	c.Assert(err, qt.IsNil)
	want := []sam.CigarOpType{
		sam.CigarHardClipped, sam.CigarSoftClipped, sam.CigarMatch, sam.CigarInsertion,
		sam.CigarDeletion, sam.CigarSkipped, sam.CigarPadded, sam.CigarEqual, sam.CigarMismatch,
	}
	c.Assert(ops, qt.HasLen, len(want))
	for i, co := range ops {
		c.Assert(co.Type(), qt.Equals, want[i])
		c.Assert(co.Len(), qt.Equals, i+2)
	}
}

func TestParseRoundTrip(t *testing.T) {
	c := qt.New(t)
	for _, raw := range []string{"20M", "8M7D6M2I2M11D7M", "  5S10M3I1000N7M2H\n", "3=1X3=", "1M"} {
		ops, err := Parse(raw)
		c.Assert(err, qt.IsNil, qt.Commentf("%q", raw))
		c.Assert(Format(ops), qt.Equals, strings.TrimSpace(raw))
	}
}

func TestParseMalformed(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"blank", "  \t"},
		{"no length", "M"},
		{"unknown operation", "8Y7D"},
		{"zero length", "0M"},
		{"trailing length", "8M7"},
		{"stray character", "8M-7D"},
		{"inner space", "8M 7D"},
		{"lowercase", "8m"},
		{"skip backwards", "5M2B5M"},
		{"leading zero", "08M"},
		{"signed length", "+8M"},
		{"too long", "268435456M"},
		{"overflow", "99999999999999999999999M"},
		{"star", "*"},
	}
	for _, test := range tests {
		c.Run(test.name, func(c *qt.C) {
			ops, err := Parse(test.raw)
			c.Assert(err, qt.ErrorIs, ErrMalformedCigar)
			c.Assert(ops, qt.IsNil)
		})
	}
}

func TestParseMaxLength(t *testing.T) {
	c := qt.New(t)
	ops, err := Parse("268435455M")
	c.Assert(err, qt.IsNil)
	c.Assert(ops[0].Len(), qt.Equals, MaxOpLength)
}

func TestFormatEmpty(t *testing.T) {
	qt.Assert(t, Format(nil), qt.Equals, "")
}

func TestLengths(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		raw                    string
		anchored, span, genome int
	}{
		{"20M", 20, 20, 20},
		{"8M7D6M2I2M11D7M", 23, 25, 41},
		{"5S10M3I1000N7M2H", 17, 25, 1017},
		{"3=1X3=2P", 7, 7, 7},
	}
	for _, test := range tests {
		ops, err := Parse(test.raw)
		c.Assert(err, qt.IsNil)
		anchored, span, genome := Lengths(ops)
		c.Assert(anchored, qt.Equals, test.anchored, qt.Commentf("%s", test.raw))
		c.Assert(span, qt.Equals, test.span, qt.Commentf("%s", test.raw))
		c.Assert(genome, qt.Equals, test.genome, qt.Commentf("%s", test.raw))
	}
}

func TestIsAnchored(t *testing.T) {
	c := qt.New(t)
	for _, ct := range []sam.CigarOpType{sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch} {
		c.Assert(IsAnchored(ct), qt.IsTrue)
	}
	for _, ct := range []sam.CigarOpType{sam.CigarInsertion, sam.CigarDeletion, sam.CigarSkipped, sam.CigarSoftClipped, sam.CigarHardClipped, sam.CigarPadded} {
		c.Assert(IsAnchored(ct), qt.IsFalse)
	}
}
