// Copyright (C) The degmeta Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package degmeta

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/pgzip"
	log "github.com/sirupsen/logrus"
)

// rawTable is one input study table as read from disk, before any
// validation: a header plus string-valued rows.
type rawTable struct {
	path   string
	header []string
	rows   [][]string
}

// listInputFiles returns the study table files in dir, sorted by name so
// column-to-study assignment is stable within a run.
func listInputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input dir: %w", err)
	}
	var paths []string
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		name := ent.Name()
		switch {
		case strings.HasSuffix(name, ".csv"),
			strings.HasSuffix(name, ".tsv"),
			strings.HasSuffix(name, ".csv.gz"),
			strings.HasSuffix(name, ".tsv.gz"),
			strings.HasSuffix(name, ".xlsx"):
			paths = append(paths, filepath.Join(dir, name))
		default:
			log.Warnf("ignoring %s: unrecognized file type", name)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func readTable(path string) (rawTable, error) {
	if strings.HasSuffix(path, ".xlsx") {
		return readExcelTable(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return rawTable{}, err
	}
	defer f.Close()
	var rdr io.Reader = f
	name := path
	if strings.HasSuffix(name, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return rawTable{}, fmt.Errorf("%s: %w", path, err)
		}
		defer gz.Close()
		rdr = gz
		name = strings.TrimSuffix(name, ".gz")
	}
	csvr := csv.NewReader(rdr)
	if strings.HasSuffix(name, ".tsv") {
		csvr.Comma = '\t'
	}
	csvr.FieldsPerRecord = -1
	recs, err := csvr.ReadAll()
	if err != nil {
		return rawTable{}, fmt.Errorf("%s: %w", path, err)
	}
	if len(recs) == 0 {
		return rawTable{path: path}, nil
	}
	return rawTable{path: path, header: recs[0], rows: recs[1:]}, nil
}

// loadStudies reads every study table in dir. Loads are independent of each
// other and run concurrently, bounded by GOMAXPROCS. An I/O or parse error
// on any file fails the whole load.
func loadStudies(dir string) ([]rawTable, error) {
	paths, err := listInputFiles(dir)
	if err != nil {
		return nil, err
	}
	tables := make([]rawTable, len(paths))
	errs := make([]error, len(paths))
	sem := make(chan bool, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for i, path := range paths {
		i, path := i, path
		wg.Add(1)
		sem <- true
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			log.Debugf("reading %s", path)
			tables[i], errs[i] = readTable(path)
		}()
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return tables, nil
}
