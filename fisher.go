// Copyright (C) The degmeta Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package degmeta

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// GeneResult is one row of final output.
type GeneResult struct {
	Gene           string
	CombinedPvalue float64
	MeanLog2FC     float64
	Significant    bool
}

// fisherCombined combines one gene's p-values across studies using
// Fisher's method. Values outside (0,1] (including NaN) are invalid for
// the log transform and are excluded, not errors. With no valid values the
// combined p-value is undefined (NaN); with exactly one there is nothing
// to combine and that value passes through unchanged.
func fisherCombined(pvalues []float64) float64 {
	var sum, last float64
	n := 0
	for _, p := range pvalues {
		if math.IsNaN(p) || p <= 0 || p > 1 {
			continue
		}
		sum += math.Log(p)
		last = p
		n++
	}
	switch n {
	case 0:
		return math.NaN()
	case 1:
		return last
	}
	// -2·Σ ln p ~ χ² with 2n degrees of freedom under the null.
	return distuv.ChiSquared{K: float64(2 * n)}.Survival(-2 * sum)
}

// meanFoldChange is the arithmetic mean of one gene's fold changes,
// ignoring missing entries; NaN only if every entry is missing.
func meanFoldChange(log2fc []float64) float64 {
	valid := make([]float64, 0, len(log2fc))
	for _, x := range log2fc {
		if !math.IsNaN(x) {
			valid = append(valid, x)
		}
	}
	if len(valid) == 0 {
		return math.NaN()
	}
	return stat.Mean(valid, nil)
}

// analyze runs the per-gene combination over every row of the aligned
// matrix. Rows are independent, so they are sharded across GOMAXPROCS
// workers with read-only access to the matrix.
func analyze(am *alignedMatrix) []GeneResult {
	results := make([]GeneResult, len(am.genes))
	nworkers := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	for w := 0; w < nworkers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := w; i < len(am.genes); i += nworkers {
				results[i] = GeneResult{
					Gene:           am.genes[i],
					CombinedPvalue: fisherCombined(am.pvalues.RawRowView(i)),
					MeanLog2FC:     meanFoldChange(am.log2fc.RawRowView(i)),
				}
			}
		}()
	}
	wg.Wait()
	return results
}
