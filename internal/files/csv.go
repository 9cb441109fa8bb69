package files

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
)

// ReadCSV loads a CSV file into a dataset. The first record is the header;
// cell values are inferred into typed scalars (empty cells become null).
func ReadCSV(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: no header record", path)
	}

	return fromRecords(records)
}

// WriteCSV writes a dataset to a CSV file, creating parent directories as
// needed. Null cells are written as empty fields.
func WriteCSV(path string, d *dataset.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	return writeRecords(f, d, true)
}

// AppendCSV appends a dataset's rows to a CSV file, writing the header only
// when the file is new or empty. The dataset's columns must match the
// existing header for the rows to line up; callers own that guarantee.
func AppendCSV(path string, d *dataset.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return writeRecords(f, d, info.Size() == 0)
}

// ReadCSVDir loads every .csv file directly under dir concurrently and
// returns the datasets keyed by base filename. A single failing file fails
// the whole load.
func ReadCSVDir(dir string) (map[string]*dataset.Dataset, error) {
	found, err := NewDiscovery("").FindCSVFiles(dir)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*dataset.Dataset, len(found))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(4)
	for _, file := range found {
		file := file
		g.Go(func() error {
			d, err := ReadCSV(file.Path)
			if err != nil {
				return err
			}
			mu.Lock()
			out[file.Name] = d
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// fromRecords converts raw header+data records into a typed dataset.
func fromRecords(records [][]string) (*dataset.Dataset, error) {
	header := records[0]
	rows := make([]dataset.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(dataset.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = dataset.Parse(record[i])
			} else {
				row[col] = dataset.Null()
			}
		}
		rows = append(rows, row)
	}
	return dataset.New(header, rows)
}

func writeRecords(f *os.File, d *dataset.Dataset, header bool) error {
	w := csv.NewWriter(f)
	columns := d.Columns()

	if header {
		if err := w.Write(columns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	record := make([]string, len(columns))
	for i := 0; i < d.NumRows(); i++ {
		row := d.Row(i)
		for j, col := range columns {
			record[j] = row[col].String()
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	w.Flush()
	return w.Error()
}
