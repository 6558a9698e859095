// Copyright (C) The degmeta Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package degmeta

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/check.v1"
)

type summarySuite struct{}

var _ = check.Suite(&summarySuite{})

func (s *summarySuite) TestDoStats(c *check.C) {
	input := strings.NewReader(`Gene,Combined_Pvalue,Mean_Log2FC,Significance
geneA,0.001,-3,Significant
geneB,0.5,1,NotSignificant
geneC,NA,NA,NotSignificant
`)
	var output bytes.Buffer
	err := (&statscmd{}).doStats(input, &output)
	c.Assert(err, check.IsNil)

	var ret struct {
		Genes            int
		Significant      int
		UndefinedPvalues int
		CombinedPvalue   statsSummary
		MeanLog2FC       statsSummary
	}
	c.Assert(json.Unmarshal(output.Bytes(), &ret), check.IsNil)
	c.Check(ret.Genes, check.Equals, 3)
	c.Check(ret.Significant, check.Equals, 1)
	c.Check(ret.UndefinedPvalues, check.Equals, 1)
	c.Check(ret.CombinedPvalue.N, check.Equals, 2)
	c.Check(ret.CombinedPvalue.Min, check.Equals, 0.001)
	c.Check(ret.CombinedPvalue.Max, check.Equals, 0.5)
	c.Check(ret.MeanLog2FC.N, check.Equals, 2)
	c.Check(ret.MeanLog2FC.Mean, check.Equals, -1.0)
}

func (s *summarySuite) TestMissingColumn(c *check.C) {
	input := strings.NewReader("Gene,Combined_Pvalue\ngeneA,0.1\n")
	err := (&statscmd{}).doStats(input, &bytes.Buffer{})
	c.Check(err, check.ErrorMatches, `results table is missing column Mean_Log2FC`)
}
