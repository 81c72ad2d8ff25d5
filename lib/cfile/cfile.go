//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package cfile opens plain or compressed files for reading and writing.
package cfile

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

const (
	CompressionNone = ""
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
	CompressionLZ4  = "lz4"
	// LZ4 high compression
	CompressionLZ4HC = "lz4hc"
)

type GenericWriter interface {
	Write(buf []byte) (n int, err error)
	Close() error
}

// multiCloser reads or writes through a codec and closes the codec and the
// underlying file together.
type multiCloser struct {
	io.Reader
	io.Writer
	closers []io.Closer
	closed  bool
}

// Close closes the codec first, then the file. Only the first call has an effect.
func (m *multiCloser) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	var first error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Compression returns the compression implied by the path extension.
func Compression(path string) string {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return CompressionGzip
	case strings.HasSuffix(path, ".zst"):
		return CompressionZstd
	case strings.HasSuffix(path, ".lz4"):
		return CompressionLZ4
	}
	return CompressionNone
}

// Open opens path for reading ("-" for stdin), decompressing according to
// the path extension.
func Open(path string) (io.ReadCloser, error) {
	var f io.Reader
	var fc io.Closer
	if path == "-" {
		f, fc = os.Stdin, nopCloser{}
	} else {
		fos, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		f, fc = fos, fos
	}
	switch Compression(path) {
	case CompressionGzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			fc.Close()
			return nil, fmt.Errorf("Error while opening gzip file %s: %w", path, err)
		}
		return &multiCloser{Reader: zr, closers: []io.Closer{zr, fc}}, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			fc.Close()
			return nil, fmt.Errorf("Error while opening zstd file %s: %w", path, err)
		}
		rc := zr.IOReadCloser()
		return &multiCloser{Reader: rc, closers: []io.Closer{rc, fc}}, nil
	case CompressionLZ4:
		return &multiCloser{Reader: lz4.NewReader(f), closers: []io.Closer{fc}}, nil
	}
	return &multiCloser{Reader: f, closers: []io.Closer{fc}}, nil
}

// SplitFormat splits a "format+compression" string such as "tsv+lz4".
func SplitFormat(format string) (string, string) {
	if strings.Contains(format, "+") {
		doubleFormat := strings.SplitN(format, "+", 2)
		return doubleFormat[0], doubleFormat[1]
	}
	return format, CompressionNone
}

// Create opens path for writing ("-" for stdout) with the given compression.
// Closing the returned writer flushes the codec and closes the file.
func Create(path string, compression string, appendOutput bool) (GenericWriter, error) {
	var f io.Writer
	var fc io.Closer
	if path == "-" {
		f, fc = os.Stdout, nopCloser{}
	} else {
		// Append or Create flag
		var fg int
		if appendOutput {
			fg = os.O_APPEND | os.O_CREATE | os.O_WRONLY
		} else {
			fg = os.O_RDWR | os.O_CREATE | os.O_TRUNC
		}
		fos, err := os.OpenFile(path, fg, 0666)
		if err != nil {
			return nil, err
		}
		f, fc = fos, fos
	}
	var writer io.WriteCloser
	switch compression {
	case CompressionNone:
		return &multiCloser{Writer: f, closers: []io.Closer{fc}}, nil
	case CompressionGzip:
		writer = gzip.NewWriter(f)
	case CompressionZstd:
		zw, err := zstd.NewWriter(f)
		if err != nil {
			fc.Close()
			return nil, err
		}
		writer = zw
	case CompressionLZ4:
		writer = lz4.NewWriter(f)
	case CompressionLZ4HC:
		lzWriter := lz4.NewWriter(f)
		lzWriter.Header = lz4.Header{CompressionLevel: 9}
		writer = lzWriter
	default:
		fc.Close()
		return nil, fmt.Errorf("Unknown compression %s", compression)
	}
	return &multiCloser{Writer: writer, closers: []io.Closer{writer, fc}}, nil
}
