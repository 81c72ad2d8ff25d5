//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"gopkg.in/fatih/set.v0"

	"git.sr.ht/~vejnar/TxMapper/lib/cfile"
	"git.sr.ht/~vejnar/TxMapper/lib/cmapper"
	"git.sr.ht/~vejnar/TxMapper/lib/feature"
)

const batchLength = 1000

type Batch struct {
	Index   int
	Results []feature.Result
}

type Stats struct {
	Total      uint64
	Mapped     uint64
	NotFound   uint64
	OutOfRange uint64
	NoMapping  uint64
	// Names of transcripts missing from the index
	Missing set.Interface
}

// AddCommas adds commas after every 3 characters.
func AddCommas(s string) string {
	if len(s) <= 3 {
		return s
	} else {
		return AddCommas(s[0:len(s)-3]) + "," + s[len(s)-3:]
	}
}

func Max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

func (s *Stats) Add(res feature.Result) {
	s.Total++
	switch {
	case res.Err == nil:
		s.Mapped++
	case errors.Is(res.Err, feature.ErrTranscriptNotFound):
		s.NotFound++
	case errors.Is(res.Err, cmapper.ErrOutOfRange):
		s.OutOfRange++
	case errors.Is(res.Err, cmapper.ErrNoMappingForOffset):
		s.NoMapping++
	}
}

// MapQueries maps the queries of pathQueries to the genome and writes the
// results, in query order, to pathOutput.
func MapQueries(pathQueries string, index feature.Index, chromMapping map[string]string, pathOutput string, outputFormat string, appendOutput bool, strict bool, nWorker int, timeStart time.Time, verboseLevel int) (*Stats, error) {
	stats := &Stats{Missing: set.New(set.ThreadSafe)}
	nWorker = Max(1, nWorker)

	// Output
	format, compression := cfile.SplitFormat(outputFormat)
	if format != "tsv" {
		return stats, fmt.Errorf("Unknown output format %s", format)
	}
	fout, err := cfile.Create(pathOutput, compression, appendOutput)
	if err != nil {
		return stats, err
	}
	defer fout.Close()
	writer := bufio.NewWriter(fout)

	// Input
	fin, err := cfile.Open(pathQueries)
	if err != nil {
		return stats, err
	}
	defer fin.Close()
	qr := feature.NewQueryReader(fin)

	// Start sync errgroup
	g, gctx := errgroup.WithContext(context.Background())

	// Start query channel
	chQuery := make(chan *Batch, nWorker*10)
	// Start receiving channel
	chFinal := make(chan *Batch, nWorker*10)

	g.Go(func() error {
		defer close(chQuery)
		var nQuery uint64
		timeLog := time.Now()
		batch := &Batch{Results: make([]feature.Result, 0, batchLength)}
		for {
			q, err := qr.Read()
			if err == io.EOF {
				break
			} else if err != nil {
				return fmt.Errorf("%s: %w", pathQueries, err)
			}
			batch.Results = append(batch.Results, feature.Result{Query: q})
			if len(batch.Results) == batchLength {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case chQuery <- batch:
				}
				batch = &Batch{Index: batch.Index + 1, Results: make([]feature.Result, 0, batchLength)}
			}
			nQuery++

			if verboseLevel > 0 {
				timeNow := time.Now()
				if timeNow.Sub(timeLog).Minutes() > 1. {
					fmt.Printf("%.1fmin - %s queries\n", timeNow.Sub(timeStart).Minutes(), AddCommas(strconv.FormatUint(nQuery, 10)))
					timeLog = timeNow
				}
			}
		}
		// Send last batch
		if len(batch.Results) > 0 {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case chQuery <- batch:
			}
		}
		return nil
	})

	// Spawn worker goroutine(s)
	g.Go(func() error {
		defer close(chFinal)
		wg, wgctx := errgroup.WithContext(gctx)
		for i := 0; i < nWorker; i++ {
			wg.Go(func() error {
				for batch := range chQuery {
					if wgctx.Err() != nil {
						return wgctx.Err()
					}
					for i := range batch.Results {
						res := index.Resolve(batch.Results[i].Query)
						if res.Err != nil {
							if errors.Is(res.Err, feature.ErrTranscriptNotFound) {
								stats.Missing.Add(res.Name)
							}
							if strict {
								return fmt.Errorf("Query line %d: %w", res.Line, res.Err)
							}
						}
						batch.Results[i] = res
					}
					select {
					case <-wgctx.Done():
						return wgctx.Err()
					case chFinal <- batch:
					}
				}
				return nil
			})
		}
		// Wait for the workers to finish
		return wg.Wait()
	})

	// Write batches in input order
	var werr error
	pending := make(map[int]*Batch)
	next := 0
	for batch := range chFinal {
		pending[batch.Index] = batch
		for {
			b, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			for _, res := range b.Results {
				stats.Add(res)
				if res.Err != nil {
					if verboseLevel > 0 {
						fmt.Printf("Error: query line %d: %v\n", res.Line, res.Err)
					}
					continue
				}
				if werr == nil {
					werr = feature.WriteResult(writer, res, chromMapping)
				}
			}
		}
	}

	if err = g.Wait(); err != nil {
		return stats, err
	}
	if werr != nil {
		return stats, werr
	}
	if err = writer.Flush(); err != nil {
		return stats, err
	}
	if err = fout.Close(); err != nil {
		return stats, err
	}
	return stats, nil
}
