// Copyright (C) The degmeta Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package degmeta

import (
	"errors"
	"fmt"
	"sort"
)

var (
	errNoStudies      = errors.New("no studies survived validation")
	errNoCommonGenes  = errors.New("no genes are common to all studies")
	errDupKeepUnknown = errors.New("duplicate keep rule must be \"first\" or \"last\"")
)

// intersectGenes returns the set of gene identifiers present in every
// table, sorted lexicographically. The sort order is the canonical row
// order used by everything downstream.
func intersectGenes(tables []StudyTable) []string {
	count := map[string]int{}
	for _, t := range tables {
		seen := map[string]bool{}
		for _, rec := range t.Records {
			if !seen[rec.Gene] {
				seen[rec.Gene] = true
				count[rec.Gene]++
			}
		}
	}
	var genes []string
	for gene, n := range count {
		if n == len(tables) {
			genes = append(genes, gene)
		}
	}
	sort.Strings(genes)
	return genes
}

// alignTables computes the cross-study gene set and rewrites every table to
// contain exactly one record per gene, in canonical order. Duplicate
// records for the same gene within one study are a data-quality condition,
// not an error; dupKeep selects which occurrence survives.
func alignTables(tables []StudyTable, dupKeep string) ([]StudyTable, []string, error) {
	if dupKeep != "first" && dupKeep != "last" {
		return nil, nil, fmt.Errorf("%w: %q", errDupKeepUnknown, dupKeep)
	}
	if len(tables) == 0 {
		return nil, nil, errNoStudies
	}
	genes := intersectGenes(tables)
	if len(genes) == 0 {
		return nil, nil, errNoCommonGenes
	}
	inSet := map[string]bool{}
	for _, gene := range genes {
		inSet[gene] = true
	}
	aligned := make([]StudyTable, len(tables))
	for i, t := range tables {
		byGene := map[string]StudyRecord{}
		for _, rec := range t.Records {
			if !inSet[rec.Gene] {
				continue
			}
			if _, dup := byGene[rec.Gene]; dup && dupKeep == "first" {
				continue
			}
			byGene[rec.Gene] = rec
		}
		recs := make([]StudyRecord, len(genes))
		for j, gene := range genes {
			recs[j] = byGene[gene]
		}
		aligned[i] = StudyTable{Source: t.Source, Records: recs}
	}
	return aligned, genes, nil
}
