// Copyright (C) The degmeta Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package degmeta

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readExcelTable reads the first sheet of an .xlsx workbook as a study
// table. Trailing cells excelize leaves off short rows are tolerated; the
// validator drops rows with missing fields.
func readExcelTable(path string) (rawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return rawTable{}, fmt.Errorf("%s: %w", path, err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return rawTable{}, fmt.Errorf("%s: workbook has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return rawTable{}, fmt.Errorf("%s: reading sheet %q: %w", path, sheets[0], err)
	}
	if len(rows) == 0 {
		return rawTable{path: path}, nil
	}
	return rawTable{path: path, header: rows[0], rows: rows[1:]}, nil
}
