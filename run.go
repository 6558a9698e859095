// Copyright (C) The degmeta Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package degmeta

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"

	log "github.com/sirupsen/logrus"
)

type runcmd struct {
	inputDir     string
	outputDir    string
	cols         tableColumns
	policy       sigPolicy
	dupKeep      string
	saveMatrices bool
	gzipOutput   bool
	plotFilename string
}

func (cmd *runcmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	pprof := flags.String("pprof", "", "serve Go profile data at http://`[addr]:port`")
	loglevel := flags.String("loglevel", "info", "logging threshold (trace, debug, info, warn, error, fatal, or panic)")
	flags.StringVar(&cmd.inputDir, "input-dir", "", "input `directory` of study tables")
	flags.StringVar(&cmd.outputDir, "output-dir", ".", "output `directory`")
	flags.StringVar(&cmd.dupKeep, "dup", "first", "duplicate gene keep `rule` (first or last)")
	flags.BoolVar(&cmd.saveMatrices, "save-matrices", false, "also write aligned p-value/fold-change matrices as .npy")
	flags.BoolVar(&cmd.gzipOutput, "gzip-output", false, "gzip the output tables")
	flags.StringVar(&cmd.plotFilename, "plot", "volcano.png", "volcano plot `filename` (empty to skip plotting)")
	cmd.cols.Flags(flags)
	cmd.policy.Flags(flags)
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
	switch cmd.policy.Direction {
	case "down", "up", "both":
	default:
		fmt.Fprintf(stderr, "invalid -direction %q\n", cmd.policy.Direction)
		return 2
	}

	if *pprof != "" {
		go func() {
			log.Println(http.ListenAndServe(*pprof, nil))
		}()
	}

	lvl, err := log.ParseLevel(*loglevel)
	if err != nil {
		return 2
	}
	log.SetLevel(lvl)

	results, err := cmd.pipeline()
	if err != nil {
		return 1
	}

	err = os.MkdirAll(cmd.outputDir, 0777)
	if err != nil {
		return 1
	}
	err = writeResults(cmd.outputDir, cmd.gzipOutput, results)
	if err != nil {
		return 1
	}
	if cmd.plotFilename != "" {
		err = writeVolcano(cmd.outputDir+"/"+cmd.plotFilename, results)
		if err != nil {
			return 1
		}
	}
	log.Info("done")
	return 0
}

// pipeline runs ingest → validate → align → matrix → combine → classify
// and returns the classified result set, one entry per gene in the
// cross-study intersection, in canonical order. No output files are
// written here, so a fatal condition leaves no partial output.
func (cmd *runcmd) pipeline() ([]GeneResult, error) {
	raws, err := loadStudies(cmd.inputDir)
	if err != nil {
		return nil, err
	}
	log.Infof("read %d tables from %s", len(raws), cmd.inputDir)

	var studies []StudyTable
	for _, raw := range raws {
		st, err := validateTable(raw, cmd.cols)
		if err != nil {
			log.Warnf("skipping study: %s", err)
			continue
		}
		log.Infof("%s: %d usable records", st.Source, len(st.Records))
		studies = append(studies, st)
	}

	aligned, genes, err := alignTables(studies, cmd.dupKeep)
	if err != nil {
		return nil, err
	}
	log.Infof("aligned %d genes across %d studies", len(genes), len(aligned))

	am, err := buildMatrix(aligned, genes)
	if err != nil {
		return nil, err
	}
	if cmd.saveMatrices {
		err = os.MkdirAll(cmd.outputDir, 0777)
		if err != nil {
			return nil, err
		}
		err = am.WriteNpy(cmd.outputDir)
		if err != nil {
			return nil, err
		}
	}

	results := analyze(am)
	cmd.policy.Apply(results)
	nsig := 0
	for _, r := range results {
		if r.Significant {
			nsig++
		}
	}
	log.Infof("%d of %d genes significant", nsig, len(results))
	return results, nil
}
