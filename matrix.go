// Copyright (C) The degmeta Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package degmeta

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kshedden/gonpy"
	"gonum.org/v1/gonum/mat"
)

// alignedMatrix holds the gene × study p-value and log2 fold change
// matrices. Row i of both matrices corresponds to genes[i]; column j to
// studies[j].
type alignedMatrix struct {
	genes   []string
	studies []string
	pvalues *mat.Dense
	log2fc  *mat.Dense
}

// buildMatrix assembles the aligned tables into the two matrices. The
// column length check re-verifies the aligner's guarantee; a mismatch here
// means a bug upstream and is fatal.
func buildMatrix(tables []StudyTable, genes []string) (*alignedMatrix, error) {
	am := &alignedMatrix{
		genes:   genes,
		pvalues: mat.NewDense(len(genes), len(tables), nil),
		log2fc:  mat.NewDense(len(genes), len(tables), nil),
	}
	for j, t := range tables {
		if len(t.Records) != len(genes) {
			return nil, fmt.Errorf("matrix misaligned: study %s has %d records, gene set has %d", t.Source, len(t.Records), len(genes))
		}
		am.studies = append(am.studies, t.Source)
		for i, rec := range t.Records {
			am.pvalues.Set(i, j, rec.PValue)
			am.log2fc.Set(i, j, rec.Log2FoldChange)
		}
	}
	return am, nil
}

// WriteNpy dumps both matrices as .npy files, with gene and study order as
// CSV sidecars, so downstream numpy/pandas tooling can load a run's
// intermediate state.
func (am *alignedMatrix) WriteNpy(dir string) error {
	for name, m := range map[string]*mat.Dense{
		"pvalues.npy": am.pvalues,
		"log2fc.npy":  am.log2fc,
	} {
		err := writeNpyMatrix(filepath.Join(dir, name), m)
		if err != nil {
			return err
		}
	}
	err := writeCSVColumn(filepath.Join(dir, "matrix_genes.csv"), "Gene", am.genes)
	if err != nil {
		return err
	}
	return writeCSVColumn(filepath.Join(dir, "matrix_studies.csv"), "Study", am.studies)
}

func writeNpyMatrix(path string, m *mat.Dense) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	defer f.Close()
	bufw := bufio.NewWriter(f)
	npw, err := gonpy.NewWriter(nopCloser{bufw})
	if err != nil {
		return err
	}
	rows, cols := m.Dims()
	npw.Shape = []int{rows, cols}
	out := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		out = append(out, m.RawRowView(i)...)
	}
	err = npw.WriteFloat64(out)
	if err != nil {
		return err
	}
	err = bufw.Flush()
	if err != nil {
		return err
	}
	return f.Close()
}

func writeCSVColumn(path, header string, values []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write([]string{header})
	for _, v := range values {
		w.Write([]string{v})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
