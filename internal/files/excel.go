package files

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
)

// ReadExcel loads one sheet of an Excel workbook into a dataset. An empty
// sheet name selects the workbook's first sheet. The first row is the
// header; cells are inferred into typed scalars like CSV cells.
func ReadExcel(path, sheet string) (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%s: workbook has no sheets", path)
		}
		sheet = sheets[0]
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("sheet %q: no header row", sheet)
	}

	return fromRecords(records)
}

// WriteExcel writes a dataset to a single-sheet Excel workbook. Typed cells
// keep their types: numbers are written as numbers, booleans as booleans,
// nulls as empty cells.
func WriteExcel(path, sheet string, d *dataset.Dataset) error {
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
	}

	columns := d.Columns()
	for j, col := range columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("failed to write header %q: %w", col, err)
		}
	}

	for i := 0; i < d.NumRows(); i++ {
		row := d.Row(i)
		for j, col := range columns {
			v := row[col]
			if v.IsNull() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v.Native()); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
