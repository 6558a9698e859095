// Copyright (C) The degmeta Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package degmeta

import (
	"math"

	"gopkg.in/check.v1"
)

type classifySuite struct{}

var _ = check.Suite(&classifySuite{})

func (s *classifySuite) TestDefaultPolicy(c *check.C) {
	sp := sigPolicy{MaxPvalue: 0.05, MinAbsLog2FC: 2, Direction: "down"}
	c.Check(sp.Significant(0.01, -2.5), check.Equals, true)
	// Both thresholds are strict.
	c.Check(sp.Significant(0.05, -2.5), check.Equals, false)
	c.Check(sp.Significant(0.01, -2.0), check.Equals, false)
	// Downregulation only by default.
	c.Check(sp.Significant(0.01, 2.5), check.Equals, false)
	// Undefined values never classify as significant.
	c.Check(sp.Significant(math.NaN(), -2.5), check.Equals, false)
	c.Check(sp.Significant(0.01, math.NaN()), check.Equals, false)
}

func (s *classifySuite) TestDirection(c *check.C) {
	up := sigPolicy{MaxPvalue: 0.05, MinAbsLog2FC: 2, Direction: "up"}
	c.Check(up.Significant(0.01, 2.5), check.Equals, true)
	c.Check(up.Significant(0.01, -2.5), check.Equals, false)

	both := sigPolicy{MaxPvalue: 0.05, MinAbsLog2FC: 2, Direction: "both"}
	c.Check(both.Significant(0.01, 2.5), check.Equals, true)
	c.Check(both.Significant(0.01, -2.5), check.Equals, true)
	c.Check(both.Significant(0.01, 1.5), check.Equals, false)
}

func (s *classifySuite) TestApply(c *check.C) {
	sp := sigPolicy{MaxPvalue: 0.05, MinAbsLog2FC: 2, Direction: "down"}
	results := []GeneResult{
		{Gene: "a", CombinedPvalue: 0.001, MeanLog2FC: -3},
		{Gene: "b", CombinedPvalue: math.NaN(), MeanLog2FC: -3},
	}
	sp.Apply(results)
	c.Check(results[0].Significant, check.Equals, true)
	c.Check(results[1].Significant, check.Equals, false)
}
