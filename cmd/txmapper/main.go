//
// Copyright © 2015 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"git.sr.ht/~vejnar/TxMapper/lib/cigar"
	"git.sr.ht/~vejnar/TxMapper/lib/esam"
	"git.sr.ht/~vejnar/TxMapper/lib/feature"
)

var version = "DEV"

// LoadTranscripts reads transcript records from a tabulated file and/or
// SAM/BAM files and builds the transcript index. Invalid records are
// skipped unless strict is set.
func LoadTranscripts(pathTranscripts string, pathSAMs []esam.PathSAM, strict bool, nWorker int, timeStart time.Time, verboseLevel int) (feature.Index, int, error) {
	var nInvalid int
	onError := func(rec feature.Record, err error) error {
		if strict {
			return fmt.Errorf("Record %d: %w", rec.Line, err)
		}
		nInvalid++
		if verboseLevel > 0 {
			fmt.Printf("Warning: record %d skipped: %v\n", rec.Line, err)
		}
		return nil
	}

	var records []feature.Record
	if pathTranscripts != "" {
		if verboseLevel > 0 {
			timeNow := time.Now()
			fmt.Printf("%.1fmin - Opening %s\n", timeNow.Sub(timeStart).Minutes(), pathTranscripts)
		}
		recs, err := feature.OpenTAB(pathTranscripts)
		if err != nil {
			return nil, nInvalid, err
		}
		records = append(records, recs...)
	}
	for _, pathSAM := range pathSAMs {
		if verboseLevel > 0 {
			timeNow := time.Now()
			fmt.Printf("%.1fmin - Opening %s\n", timeNow.Sub(timeStart).Minutes(), pathSAM.Path)
		}
		recs, err := esam.OpenRecords(pathSAM, nWorker, onError)
		if err != nil {
			return nil, nInvalid, err
		}
		records = append(records, recs...)
	}

	index, err := feature.BuildIndex(records, onError)
	if err != nil {
		return nil, nInvalid, err
	}

	if verboseLevel > 1 {
		drawn := make(map[string]bool)
		for _, rec := range records {
			if tx, ok := index[rec.Name]; ok && !drawn[tx.Name] {
				drawn[tx.Name] = true
				fmt.Printf("Transcript : %s\nCIGAR : %s\n%s", tx.Name, cigar.Format(tx.Cigar), esam.FormatAln(tx.Cigar))
			}
		}
	}
	if verboseLevel > 0 {
		timeNow := time.Now()
		fmt.Printf("%.1fmin - Loaded %d transcript(s), %d invalid\n", timeNow.Sub(timeStart).Minutes(), len(index), nInvalid)
	}
	return index, nInvalid, nil
}

func parsePathSAMs(raw string, binary bool) (pathSAMs []esam.PathSAM) {
	if len(raw) == 0 {
		return
	}
	for _, p := range strings.Split(raw, ",") {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			log.Fatalln(p, "not found")
		}
		pathSAMs = append(pathSAMs, esam.PathSAM{Path: p, Binary: binary})
	}
	return
}

func main() {
	// Arguments: General
	var pathReport string
	var nWorker, verboseLevel int
	var appendOutput, strict, verbose, printVersion bool
	flag.StringVar(&pathReport, "path_report", "", "Write report to path (stdout with -)")
	flag.IntVar(&nWorker, "num_worker", 1, "Number of worker(s)")
	flag.IntVar(&verboseLevel, "verbose_level", 0, "Verbose level (2 to draw each transcript alignment)")
	flag.BoolVar(&appendOutput, "append", false, "Append to output (default create)")
	flag.BoolVar(&strict, "strict", false, "Stop at the first invalid transcript or unmapped query (default skip)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose")
	flag.BoolVar(&printVersion, "version", false, "Print version and quit")
	// Arguments: Input
	var pathTranscripts, pathSAMsRaw, pathBAMsRaw, pathQueries string
	flag.StringVar(&pathTranscripts, "path_transcripts", "", "Path to transcripts tabulated file (name, chromosome, genomic start, CIGAR)")
	flag.StringVar(&pathSAMsRaw, "path_sam", "", "Path to SAM file(s) of transcript alignments (comma separated)")
	flag.StringVar(&pathBAMsRaw, "path_bam", "", "Path to BAM file(s) of transcript alignments (comma separated)")
	flag.StringVar(&pathQueries, "path_queries", "", "Path to queries tabulated file (transcript name, transcript start)")
	// Arguments: Output
	var pathOutput, outputFormat, pathMapping string
	flag.StringVar(&pathOutput, "path_output", "output.tsv", "Path to output (stdout with -)")
	flag.StringVar(&outputFormat, "output_format", "tsv", "Output format: 'tsv', 'tsv+gzip', 'tsv+zstd', 'tsv+lz4' or 'tsv+lz4hc'")
	flag.StringVar(&pathMapping, "path_mapping", "", "Path to chromosome name(s) mapping (tabulated file)")
	// Arguments: Parse
	flag.Parse()

	// Version
	if printVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Verbose
	if verbose && verboseLevel == 0 {
		verboseLevel = 1
	}

	// Max CPU
	runtime.GOMAXPROCS(nWorker * 2)

	// Time start
	timeStart := time.Now()

	// Check arguments
	if len(pathTranscripts) == 0 && len(pathSAMsRaw) == 0 && len(pathBAMsRaw) == 0 {
		log.Fatal("No transcript input")
	} else if len(pathTranscripts) > 0 && pathTranscripts != "-" {
		if _, err := os.Stat(pathTranscripts); os.IsNotExist(err) {
			log.Fatalln(pathTranscripts, "not found")
		}
	}
	if len(pathQueries) == 0 {
		log.Fatal("No query input")
	} else if pathQueries != "-" {
		if _, err := os.Stat(pathQueries); os.IsNotExist(err) {
			log.Fatalln(pathQueries, "not found")
		}
	}
	if pathTranscripts == "-" && pathQueries == "-" {
		log.Fatal("Transcripts and queries cannot both be read from stdin")
	}
	pathSAMs := append(parsePathSAMs(pathSAMsRaw, false), parsePathSAMs(pathBAMsRaw, true)...)

	// Open chromosome mapping
	var chromMapping map[string]string
	if pathMapping != "" {
		var err error
		chromMapping, err = feature.OpenMapping(pathMapping)
		if err != nil {
			log.Fatal(err)
		}
	}

	// Load transcripts
	index, nInvalid, err := LoadTranscripts(pathTranscripts, pathSAMs, strict, nWorker, timeStart, verboseLevel)
	if err != nil {
		log.Fatal(err)
	}

	// Map queries
	stats, err := MapQueries(pathQueries, index, chromMapping, pathOutput, outputFormat, appendOutput, strict, nWorker, timeStart, verboseLevel)
	if err != nil {
		log.Fatal(err)
	}

	// Output: Report
	if pathReport != "" {
		if err = WriteReport(pathReport, len(index), nInvalid, stats); err != nil {
			log.Fatal(err)
		}
	}

	// Verbose
	if verboseLevel > 0 {
		timeEnd := time.Now()
		fmt.Printf("%.1fmin - Done %s queries, %s mapped\n", timeEnd.Sub(timeStart).Minutes(), AddCommas(fmt.Sprint(stats.Total)), AddCommas(fmt.Sprint(stats.Mapped)))
	}
}
