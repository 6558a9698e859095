// Copyright (C) The degmeta Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package degmeta

import (
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/klauspost/pgzip"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

const naValue = "NA"

var resultHeader = []string{"Gene", "Combined_Pvalue", "Mean_Log2FC", "Significance"}

func formatStat(x float64) string {
	if math.IsNaN(x) {
		return naValue
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

func resultRow(r GeneResult) []string {
	sig := "NotSignificant"
	if r.Significant {
		sig = "Significant"
	}
	return []string{r.Gene, formatStat(r.CombinedPvalue), formatStat(r.MeanLog2FC), sig}
}

// writeResults writes the full result table, the significant-only table,
// and the gene list. The full table is fingerprinted so identical inputs
// can be verified to produce byte-identical results across runs.
func writeResults(outdir string, gzipped bool, results []GeneResult) error {
	full := [][]string{resultHeader}
	sig := [][]string{resultHeader}
	genes := [][]string{{"Gene"}}
	for _, r := range results {
		row := resultRow(r)
		full = append(full, row)
		if r.Significant {
			sig = append(sig, row)
		}
		genes = append(genes, []string{r.Gene})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.WriteAll(full)
	if err := w.Error(); err != nil {
		return err
	}
	log.Infof("results fingerprint %x", blake2b.Sum256(buf.Bytes()))

	err := writeOutputFile(outdir+"/meta_results.csv", gzipped, buf.Bytes())
	if err != nil {
		return err
	}
	err = writeOutputRecords(outdir+"/meta_significant.csv", gzipped, sig)
	if err != nil {
		return err
	}
	return writeOutputRecords(outdir+"/gene_list.csv", gzipped, genes)
}

func writeOutputRecords(path string, gzipped bool, records [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.WriteAll(records)
	if err := w.Error(); err != nil {
		return err
	}
	return writeOutputFile(path, gzipped, buf.Bytes())
}

func writeOutputFile(path string, gzipped bool, data []byte) error {
	if gzipped {
		path += ".gz"
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	defer f.Close()
	var out io.Writer = f
	var gzw *pgzip.Writer
	if gzipped {
		gzw = pgzip.NewWriter(f)
		out = gzw
	}
	_, err = out.Write(data)
	if err != nil {
		return err
	}
	if gzw != nil {
		err = gzw.Close()
		if err != nil {
			return err
		}
	}
	return f.Close()
}
