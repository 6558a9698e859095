// Copyright (C) The degmeta Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package degmeta

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// writeVolcano renders the volcano plot: x = mean log2 fold change, y =
// -log10 combined p-value, significant genes in red with text labels.
// Genes with an undefined combined p-value have no y coordinate and are
// omitted.
func writeVolcano(path string, results []GeneResult) error {
	var sigXYs, otherXYs plotter.XYs
	var sigLabels []string
	for _, r := range results {
		if math.IsNaN(r.CombinedPvalue) || math.IsNaN(r.MeanLog2FC) {
			continue
		}
		y := -math.Log10(r.CombinedPvalue)
		if math.IsInf(y, 1) {
			// p-value underflowed to 0; pin to the top of the float64 range
			// rather than dropping the gene.
			y = -math.Log10(math.SmallestNonzeroFloat64)
		}
		xy := plotter.XY{X: r.MeanLog2FC, Y: y}
		if r.Significant {
			sigXYs = append(sigXYs, xy)
			sigLabels = append(sigLabels, r.Gene)
		} else {
			otherXYs = append(otherXYs, xy)
		}
	}

	p := plot.New()
	p.Title.Text = "Combined differential expression"
	p.X.Label.Text = "mean log2 fold change"
	p.Y.Label.Text = "-log10 combined p-value"

	other, err := plotter.NewScatter(otherXYs)
	if err != nil {
		return err
	}
	other.GlyphStyle.Color = color.Gray{Y: 128}
	other.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(other)

	sig, err := plotter.NewScatter(sigXYs)
	if err != nil {
		return err
	}
	sig.GlyphStyle.Color = color.RGBA{R: 200, A: 255}
	sig.GlyphStyle.Radius = vg.Points(2)
	p.Add(sig)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: sigXYs, Labels: sigLabels})
	if err != nil {
		return err
	}
	p.Add(labels)

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}
