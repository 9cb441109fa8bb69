package cleaning

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
)

// MissingStrategy selects how HandleMissing treats null cells.
type MissingStrategy string

const (
	// MissingDrop removes every row containing at least one null cell.
	MissingDrop MissingStrategy = "drop"
	// MissingFill replaces null cells with a fill value.
	MissingFill MissingStrategy = "fill"
)

// TextOptions configures CleanText. Operations apply in field order to each
// string cell of the selected columns.
type TextOptions struct {
	// TrimChars removes the listed leading/trailing characters.
	TrimChars string
	// KeepAlphanumeric drops every character outside [a-zA-Z0-9].
	KeepAlphanumeric bool
	// Stringify converts non-string, non-null cells to their string form.
	Stringify bool
}

// Cleaner bundles the row-level cleaning routines. Every method follows the
// toolkit's handle discipline: the input dataset is never modified, a new
// handle is returned.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a cleaner. A nil logger falls back to slog.Default.
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// RemoveDuplicates drops rows whose cells repeat an earlier row exactly.
// With a non-empty subset, only the listed columns participate in the
// identity check. The first occurrence is kept.
func (c *Cleaner) RemoveDuplicates(d *dataset.Dataset, subset []string) (*dataset.Dataset, error) {
	cols := subset
	if len(cols) == 0 {
		cols = d.Columns()
	}
	for _, col := range cols {
		if !d.HasColumn(col) {
			return nil, fmt.Errorf("unknown column %q", col)
		}
	}

	seen := make(map[string]struct{}, d.NumRows())
	kept := make([]dataset.Row, 0, d.NumRows())
	for i := 0; i < d.NumRows(); i++ {
		row := d.Row(i)
		parts := make([]string, len(cols))
		for j, col := range cols {
			parts[j] = row[col].Key()
		}
		key := strings.Join(parts, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}

	c.logger.Info("removed duplicate rows",
		slog.Int("before", d.NumRows()),
		slog.Int("after", len(kept)))
	return d.WithRows(kept)
}

// DropColumns removes the listed columns. Names the dataset does not declare
// are ignored, matching the lenient drop behavior analysts expect from
// cleanup passes.
func (c *Cleaner) DropColumns(d *dataset.Dataset, columns []string) (*dataset.Dataset, error) {
	drop := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		drop[col] = struct{}{}
	}

	keep := make([]string, 0, d.NumColumns())
	for _, col := range d.Columns() {
		if _, gone := drop[col]; !gone {
			keep = append(keep, col)
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("cannot drop every column")
	}

	rows := make([]dataset.Row, d.NumRows())
	for i := 0; i < d.NumRows(); i++ {
		src := d.Row(i)
		row := make(dataset.Row, len(keep))
		for _, col := range keep {
			row[col] = src[col]
		}
		rows[i] = row
	}

	c.logger.Info("dropped columns", slog.Any("columns", columns))
	return d.WithColumns(keep, rows)
}

// HandleMissing applies the chosen null-handling strategy to every column.
func (c *Cleaner) HandleMissing(d *dataset.Dataset, strategy MissingStrategy, fill dataset.Value) (*dataset.Dataset, error) {
	switch strategy {
	case MissingDrop:
		kept := make([]dataset.Row, 0, d.NumRows())
		for i := 0; i < d.NumRows(); i++ {
			row := d.Row(i)
			complete := true
			for _, col := range d.Columns() {
				if row[col].IsNull() {
					complete = false
					break
				}
			}
			if complete {
				kept = append(kept, row)
			}
		}
		c.logger.Info("dropped rows with missing values",
			slog.Int("before", d.NumRows()),
			slog.Int("after", len(kept)))
		return d.WithRows(kept)

	case MissingFill:
		rows := make([]dataset.Row, d.NumRows())
		filled := 0
		for i := 0; i < d.NumRows(); i++ {
			row := d.Row(i)
			for _, col := range d.Columns() {
				if row[col].IsNull() {
					row[col] = fill
					filled++
				}
			}
			rows[i] = row
		}
		c.logger.Info("filled missing values", slog.Int("cells", filled))
		return d.WithRows(rows)

	default:
		return nil, fmt.Errorf("unknown missing-value strategy %q", strategy)
	}
}

// CleanText normalizes string cells in the given columns. Unknown columns
// are skipped with a warning rather than failing the whole pass.
func (c *Cleaner) CleanText(d *dataset.Dataset, columns []string, opts TextOptions) (*dataset.Dataset, error) {
	targets := make([]string, 0, len(columns))
	for _, col := range columns {
		if !d.HasColumn(col) {
			c.logger.Warn("column not found, skipping", slog.String("column", col))
			continue
		}
		targets = append(targets, col)
	}

	rows := make([]dataset.Row, d.NumRows())
	for i := 0; i < d.NumRows(); i++ {
		row := d.Row(i)
		for _, col := range targets {
			row[col] = cleanCell(row[col], opts)
		}
		rows[i] = row
	}

	c.logger.Info("cleaned text columns", slog.Any("columns", targets))
	return d.WithRows(rows)
}

func cleanCell(v dataset.Value, opts TextOptions) dataset.Value {
	s, isString := v.AsString()
	if !isString {
		if !opts.Stringify || v.IsNull() {
			return v
		}
		s = v.String()
	}
	if opts.TrimChars != "" {
		s = strings.Trim(s, opts.TrimChars)
	}
	if opts.KeepAlphanumeric {
		var b strings.Builder
		for _, r := range s {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
		s = b.String()
	}
	return dataset.Str(s)
}

// StandardizeValues rewrites string cells of a column through a mapping,
// leaving unmapped and non-string cells untouched.
func (c *Cleaner) StandardizeValues(d *dataset.Dataset, column string, mapping map[string]string) (*dataset.Dataset, error) {
	if !d.HasColumn(column) {
		return nil, fmt.Errorf("unknown column %q", column)
	}

	rows := make([]dataset.Row, d.NumRows())
	for i := 0; i < d.NumRows(); i++ {
		row := d.Row(i)
		if s, ok := row[column].AsString(); ok {
			if replacement, mapped := mapping[s]; mapped {
				row[column] = dataset.Str(replacement)
			}
		}
		rows[i] = row
	}

	c.logger.Info("standardized values", slog.String("column", column))
	return d.WithRows(rows)
}

// SplitColumn splits a string column on a separator into new columns
// appended after the existing ones. Rows with fewer parts than target
// columns get nulls for the remainder.
func (c *Cleaner) SplitColumn(d *dataset.Dataset, column, sep string, into []string) (*dataset.Dataset, error) {
	if !d.HasColumn(column) {
		return nil, fmt.Errorf("unknown column %q", column)
	}
	if len(into) == 0 {
		return nil, fmt.Errorf("no target columns given")
	}
	for _, col := range into {
		if d.HasColumn(col) {
			return nil, fmt.Errorf("target column %q already exists", col)
		}
	}

	columns := append(d.Columns(), into...)
	rows := make([]dataset.Row, d.NumRows())
	for i := 0; i < d.NumRows(); i++ {
		row := d.Row(i)
		var parts []string
		if s, ok := row[column].AsString(); ok {
			parts = strings.Split(s, sep)
		}
		for j, col := range into {
			if j < len(parts) {
				row[col] = dataset.Str(strings.TrimSpace(parts[j]))
			} else {
				row[col] = dataset.Null()
			}
		}
		rows[i] = row
	}

	c.logger.Info("split column",
		slog.String("column", column),
		slog.Any("into", into))
	return d.WithColumns(columns, rows)
}
