// Copyright (C) The degmeta Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package degmeta

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// StudyRecord is one gene's observation within one study.
type StudyRecord struct {
	Gene           string
	PValue         float64
	Log2FoldChange float64
}

// StudyTable is the usable record set of one input study.
type StudyTable struct {
	Source  string
	Records []StudyRecord
}

// tableColumns names the required columns of an input table. Defaults match
// DESeq2 result tables.
type tableColumns struct {
	Gene       string
	FoldChange string
	PValue     string
}

func (tc *tableColumns) Flags(flags *flag.FlagSet) {
	flags.StringVar(&tc.Gene, "gene-col", "Geneid", "`name` of the gene identifier column")
	flags.StringVar(&tc.FoldChange, "lfc-col", "log2FoldChange", "`name` of the log2 fold change column")
	flags.StringVar(&tc.PValue, "pval-col", "padj", "`name` of the adjusted p-value column")
}

// validateTable checks a raw table against the required column set and
// normalizes its rows into a StudyTable. A missing required column is
// reported as an error so the caller can skip the study and continue;
// individual rows with a missing/unparseable value are dropped silently.
func validateTable(raw rawTable, cols tableColumns) (StudyTable, error) {
	idx := map[string]int{}
	for i, name := range raw.header {
		idx[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range []string{cols.Gene, cols.FoldChange, cols.PValue} {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return StudyTable{}, fmt.Errorf("%s: missing required column(s) %s", raw.path, strings.Join(missing, ", "))
	}
	gi, fi, pi := idx[cols.Gene], idx[cols.FoldChange], idx[cols.PValue]
	st := StudyTable{Source: raw.path}
	for _, row := range raw.rows {
		if len(row) <= gi || len(row) <= fi || len(row) <= pi {
			continue
		}
		gene := strings.TrimSpace(row[gi])
		if gene == "" {
			continue
		}
		lfc, err := strconv.ParseFloat(strings.TrimSpace(row[fi]), 64)
		if err != nil {
			continue
		}
		pv, err := strconv.ParseFloat(strings.TrimSpace(row[pi]), 64)
		if err != nil {
			continue
		}
		st.Records = append(st.Records, StudyRecord{Gene: gene, PValue: pv, Log2FoldChange: lfc})
	}
	return st, nil
}
