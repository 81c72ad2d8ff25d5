//
// Copyright (C) 2015-2021 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"encoding/json"
	"fmt"
	"os"
)

func WriteReport(pathReport string, nTranscript int, nTranscriptInvalid int, stats *Stats) (err error) {
	countReport := make(map[string]uint64)
	countReport["transcript_loaded"] = uint64(nTranscript)
	countReport["transcript_invalid"] = uint64(nTranscriptInvalid)
	countReport["query_total"] = stats.Total
	countReport["query_mapped"] = stats.Mapped
	countReport["query_not_found"] = stats.NotFound
	countReport["query_out_of_range"] = stats.OutOfRange
	countReport["query_no_mapping"] = stats.NoMapping
	countReport["transcript_missing"] = uint64(stats.Missing.Size())
	report, _ := json.MarshalIndent(countReport, "", "  ")
	if pathReport != "-" {
		if f, err := os.Create(pathReport); err != nil {
			return err
		} else {
			f.Write(report)
			return f.Close()
		}
	} else {
		fmt.Println(string(report))
	}
	return nil
}
