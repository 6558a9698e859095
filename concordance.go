// Copyright (C) The degmeta Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package degmeta

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/james-bowman/nlp"
	"github.com/kshedden/gonpy"
	log "github.com/sirupsen/logrus"
)

// pcacmd projects each study's fold-change column onto its principal
// components, as a concordance check across studies: studies measuring the
// same biology should cluster, an outlier column usually means a swapped
// contrast or batch problem.
type pcacmd struct {
	inputDir string
	cols     tableColumns
	dupKeep  string
}

func (cmd *pcacmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	loglevel := flags.String("loglevel", "info", "logging threshold (trace, debug, info, warn, error, fatal, or panic)")
	flags.StringVar(&cmd.inputDir, "input-dir", "", "input `directory` of study tables")
	outputFilename := flags.String("o", "pca.npy", "output `file` (.npy)")
	csvFilename := flags.String("components-csv", "", "also write components with study names to CSV `file`")
	components := flags.Int("components", 2, "number of components")
	flags.StringVar(&cmd.dupKeep, "dup", "first", "duplicate gene keep `rule` (first or last)")
	cmd.cols.Flags(flags)
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	} else if cmd.inputDir == "" {
		fmt.Fprintln(stderr, "cannot run without -input-dir argument")
		return 2
	}

	lvl, err := log.ParseLevel(*loglevel)
	if err != nil {
		return 2
	}
	log.SetLevel(lvl)

	raws, err := loadStudies(cmd.inputDir)
	if err != nil {
		return 1
	}
	var studies []StudyTable
	for _, raw := range raws {
		st, verr := validateTable(raw, cmd.cols)
		if verr != nil {
			log.Warnf("skipping study: %s", verr)
			continue
		}
		studies = append(studies, st)
	}
	aligned, genes, err := alignTables(studies, cmd.dupKeep)
	if err != nil {
		return 1
	}
	am, err := buildMatrix(aligned, genes)
	if err != nil {
		return 1
	}
	if *components > len(am.studies) {
		*components = len(am.studies)
	}

	log.Infof("fitting %d components over %d genes x %d studies", *components, len(am.genes), len(am.studies))
	transformer := nlp.NewPCA(*components)
	transformer.Fit(am.log2fc)
	mtx, err := transformer.Transform(am.log2fc)
	if err != nil {
		return 1
	}
	// One row per study, one column per component.
	mtx = mtx.T()
	rows, cols := mtx.Dims()

	out := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out = append(out, mtx.At(i, j))
		}
	}

	outfile, err := os.OpenFile(*outputFilename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
	if err != nil {
		return 1
	}
	defer outfile.Close()
	bufw := bufio.NewWriter(outfile)
	npw, err := gonpy.NewWriter(nopCloser{bufw})
	if err != nil {
		return 1
	}
	npw.Shape = []int{rows, cols}
	err = npw.WriteFloat64(out)
	if err != nil {
		return 1
	}
	err = bufw.Flush()
	if err != nil {
		return 1
	}
	err = outfile.Close()
	if err != nil {
		return 1
	}

	if *csvFilename != "" {
		err = cmd.writeComponentsCSV(*csvFilename, am.studies, out, cols)
		if err != nil {
			return 1
		}
	}
	for i, study := range am.studies {
		log.Infof("row %d: %s", i, study)
	}
	return 0
}

func (cmd *pcacmd) writeComponentsCSV(path string, studies []string, data []float64, cols int) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	header := []string{"Study"}
	for j := 0; j < cols; j++ {
		header = append(header, fmt.Sprintf("PC%d", j+1))
	}
	w.Write(header)
	for i, study := range studies {
		row := []string{study}
		for j := 0; j < cols; j++ {
			row = append(row, formatStat(data[i*cols+j]))
		}
		w.Write(row)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
