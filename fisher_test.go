// Copyright (C) The degmeta Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package degmeta

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/check.v1"
)

type fisherSuite struct{}

var _ = check.Suite(&fisherSuite{})

func (s *fisherSuite) TestCombined(c *check.C) {
	// -2*(ln 0.01 + ln 0.02 + ln 0.5) = 18.4207, 6 df.
	// Survival in closed form for 6 df: exp(-x/2)*(1 + x/2 + (x/2)²/2)
	// = 1e-4 * 52.62553 = 0.00526255.
	c.Check(fmt.Sprintf("%.7f", fisherCombined([]float64{0.01, 0.02, 0.5})), check.Equals, "0.0052626")
	// -2*(ln 0.05 + ln 0.1) = 10.5966, 4 df: 0.005*(1+5.29832) = 0.03149159.
	c.Check(fmt.Sprintf("%.7f", fisherCombined([]float64{0.05, 0.1})), check.Equals, "0.0314916")
	// p=1 is inside the domain.
	c.Check(fisherCombined([]float64{1, 1}), check.Equals, 1.0)
}

func (s *fisherSuite) TestDeterminism(c *check.C) {
	pv := []float64{0.003, 0.7, 0.0412}
	c.Check(fisherCombined(pv), check.Equals, fisherCombined(pv))
}

func (s *fisherSuite) TestSingleValidPassthrough(c *check.C) {
	c.Check(fisherCombined([]float64{math.NaN(), 0.03}), check.Equals, 0.03)
	c.Check(fisherCombined([]float64{0, 1.5, -1, 0.03}), check.Equals, 0.03)
}

func (s *fisherSuite) TestNoValidValues(c *check.C) {
	c.Check(math.IsNaN(fisherCombined(nil)), check.Equals, true)
	c.Check(math.IsNaN(fisherCombined([]float64{math.NaN(), math.NaN()})), check.Equals, true)
	c.Check(math.IsNaN(fisherCombined([]float64{0, -0.5, 1.01})), check.Equals, true)
}

func (s *fisherSuite) TestMeanFoldChange(c *check.C) {
	c.Check(meanFoldChange([]float64{1, 2, math.NaN()}), check.Equals, 1.5)
	c.Check(meanFoldChange([]float64{-4}), check.Equals, -4.0)
	c.Check(math.IsNaN(meanFoldChange([]float64{math.NaN()})), check.Equals, true)
}

func (s *fisherSuite) TestAnalyze(c *check.C) {
	am := &alignedMatrix{
		genes:   []string{"geneA", "geneB"},
		studies: []string{"s1", "s2"},
		pvalues: mat.NewDense(2, 2, []float64{0.05, 0.1, math.NaN(), 0.2}),
		log2fc:  mat.NewDense(2, 2, []float64{-3, -1, math.NaN(), 4}),
	}
	results := analyze(am)
	c.Assert(results, check.HasLen, 2)
	c.Check(results[0].Gene, check.Equals, "geneA")
	c.Check(fmt.Sprintf("%.7f", results[0].CombinedPvalue), check.Equals, "0.0314916")
	c.Check(results[0].MeanLog2FC, check.Equals, -2.0)
	c.Check(results[1].CombinedPvalue, check.Equals, 0.2)
	c.Check(results[1].MeanLog2FC, check.Equals, 4.0)
}
