// Copyright (C) The degmeta Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package degmeta

import (
	"flag"
	"math"
)

// sigPolicy is the significance classification policy: a gene is
// significant iff its combined p-value is defined and strictly below
// MaxPvalue, and its mean fold change is defined and strictly beyond
// MinAbsLog2FC in the configured direction. The defaults (p < 0.05, log2FC
// < -2, downregulated only) match the reference deployment.
type sigPolicy struct {
	MaxPvalue    float64
	MinAbsLog2FC float64
	Direction    string
}

func (sp *sigPolicy) Flags(flags *flag.FlagSet) {
	flags.Float64Var(&sp.MaxPvalue, "max-pvalue", 0.05, "combined p-value must be < `P`")
	flags.Float64Var(&sp.MinAbsLog2FC, "min-abs-log2fc", 2, "mean log2 fold change magnitude must be > `F`")
	flags.StringVar(&sp.Direction, "direction", "down", "fold change `direction` to call significant (down, up, or both)")
}

func (sp *sigPolicy) Significant(pvalue, log2fc float64) bool {
	if math.IsNaN(pvalue) || pvalue >= sp.MaxPvalue {
		return false
	}
	if math.IsNaN(log2fc) {
		return false
	}
	switch sp.Direction {
	case "up":
		return log2fc > sp.MinAbsLog2FC
	case "both":
		return math.Abs(log2fc) > sp.MinAbsLog2FC
	default:
		return log2fc < -sp.MinAbsLog2FC
	}
}

func (sp *sigPolicy) Apply(results []GeneResult) {
	for i := range results {
		results[i].Significant = sp.Significant(results[i].CombinedPvalue, results[i].MeanLog2FC)
	}
}
