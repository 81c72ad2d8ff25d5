//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package cfile

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

const content = "tx1\t4\tchr1\t7\ntx2\t0\tchr2\t10\n"

func TestCreateOpen(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		name, compression string
	}{
		{"out.tsv", CompressionNone},
		{"out.tsv.gz", CompressionGzip},
		{"out.tsv.zst", CompressionZstd},
		{"out.tsv.lz4", CompressionLZ4},
		{"out.hc.tsv.lz4", CompressionLZ4HC},
	}
	dir := t.TempDir()
	for _, test := range tests {
		c.Run(test.name, func(c *qt.C) {
			path := filepath.Join(dir, test.name)
			w, err := Create(path, test.compression, false)
			c.Assert(err, qt.IsNil)
			_, err = io.WriteString(w, content)
			c.Assert(err, qt.IsNil)
			c.Assert(w.Close(), qt.IsNil)

			r, err := Open(path)
			c.Assert(err, qt.IsNil)
			b, err := io.ReadAll(r)
			c.Assert(err, qt.IsNil)
			c.Assert(r.Close(), qt.IsNil)
			c.Assert(string(b), qt.Equals, content)
		})
	}
}

func TestCreateAppend(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "out.tsv")
	for i := 0; i < 2; i++ {
		w, err := Create(path, CompressionNone, i > 0)
		c.Assert(err, qt.IsNil)
		_, err = io.WriteString(w, content)
		c.Assert(err, qt.IsNil)
		c.Assert(w.Close(), qt.IsNil)
	}
	b, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(string(b), qt.Equals, strings.Repeat(content, 2))
}

func TestCreateUnknownCompression(t *testing.T) {
	c := qt.New(t)
	_, err := Create(filepath.Join(t.TempDir(), "out.tsv"), "bz2", false)
	c.Assert(err, qt.ErrorMatches, "Unknown compression bz2")
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.tsv"))
	qt.Assert(t, os.IsNotExist(err), qt.IsTrue)
}

func TestSplitFormat(t *testing.T) {
	c := qt.New(t)
	format, compression := SplitFormat("tsv+lz4hc")
	c.Assert(format, qt.Equals, "tsv")
	c.Assert(compression, qt.Equals, CompressionLZ4HC)
	format, compression = SplitFormat("tsv")
	c.Assert(format, qt.Equals, "tsv")
	c.Assert(compression, qt.Equals, CompressionNone)
}

func TestCloseTwice(t *testing.T) {
	c := qt.New(t)
	w, err := Create(filepath.Join(t.TempDir(), "out.tsv.lz4"), CompressionLZ4, false)
	c.Assert(err, qt.IsNil)
	c.Assert(w.Close(), qt.IsNil)
	c.Assert(w.Close(), qt.IsNil)
}
