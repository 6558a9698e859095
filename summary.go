// Copyright (C) The degmeta Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package degmeta

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/montanaflynn/stats"
)

type statscmd struct{}

func (cmd *statscmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	inputFilename := flags.String("i", "-", "input results `file`")
	outputFilename := flags.String("o", "-", "output `file`")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}

	var input io.ReadCloser
	if *inputFilename == "-" {
		input = io.NopCloser(stdin)
	} else {
		input, err = os.Open(*inputFilename)
		if err != nil {
			return 1
		}
		defer input.Close()
	}
	rdr := io.Reader(input)
	if strings.HasSuffix(*inputFilename, ".gz") {
		gz, gzerr := pgzip.NewReader(input)
		if gzerr != nil {
			err = gzerr
			return 1
		}
		defer gz.Close()
		rdr = gz
	}

	var output io.WriteCloser
	if *outputFilename == "-" {
		output = nopCloser{stdout}
	} else {
		output, err = os.OpenFile(*outputFilename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
		if err != nil {
			return 1
		}
		defer output.Close()
	}

	err = cmd.doStats(rdr, output)
	if err != nil {
		return 1
	}
	err = output.Close()
	if err != nil {
		return 1
	}
	return 0
}

// doStats summarizes a meta_results table as JSON: row counts plus
// descriptive statistics of the defined combined p-values and mean fold
// changes.
func (cmd *statscmd) doStats(input io.Reader, output io.Writer) error {
	var ret struct {
		Genes            int
		Significant      int
		UndefinedPvalues int
		CombinedPvalue   statsSummary
		MeanLog2FC       statsSummary
	}

	csvr := csv.NewReader(input)
	recs, err := csvr.ReadAll()
	if err != nil {
		return fmt.Errorf("parsing results table: %w", err)
	}
	if len(recs) == 0 {
		return fmt.Errorf("results table is empty")
	}
	col := map[string]int{}
	for i, name := range recs[0] {
		col[name] = i
	}
	for _, name := range resultHeader {
		if _, ok := col[name]; !ok {
			return fmt.Errorf("results table is missing column %s", name)
		}
	}

	var pvalues, lfcs []float64
	for _, rec := range recs[1:] {
		ret.Genes++
		if rec[col["Significance"]] == "Significant" {
			ret.Significant++
		}
		if pv := rec[col["Combined_Pvalue"]]; pv == naValue {
			ret.UndefinedPvalues++
		} else {
			x, err := strconv.ParseFloat(pv, 64)
			if err != nil {
				return fmt.Errorf("bad Combined_Pvalue %q: %w", pv, err)
			}
			pvalues = append(pvalues, x)
		}
		if lfc := rec[col["Mean_Log2FC"]]; lfc != naValue {
			x, err := strconv.ParseFloat(lfc, 64)
			if err != nil {
				return fmt.Errorf("bad Mean_Log2FC %q: %w", lfc, err)
			}
			lfcs = append(lfcs, x)
		}
	}
	ret.CombinedPvalue = summarize(pvalues)
	ret.MeanLog2FC = summarize(lfcs)

	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")
	return enc.Encode(ret)
}

type statsSummary struct {
	N      int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
}

func summarize(data []float64) statsSummary {
	if len(data) == 0 {
		return statsSummary{}
	}
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	return statsSummary{N: len(data), Mean: mean, Median: median, Min: min, Max: max}
}
