package dataset

import (
	"fmt"

	"github.com/google/uuid"
)

// Row maps column names to cell values.
type Row map[string]Value

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dataset is an immutable-by-convention two-dimensional labeled table.
// Transformations never mutate an existing handle; they construct a new one
// through New, WithRows or WithColumns, so any retained handle stays a stable
// snapshot. Each handle carries provenance: a unique ID and the name of the
// last operation that produced it.
type Dataset struct {
	id      string
	columns []string
	rows    []Row
	lastOp  string
}

// New constructs a dataset from column names and rows. Column names must be
// unique and non-empty. Rows may omit columns (missing cells become null) but
// must not carry keys outside the declared columns.
func New(columns []string, rows []Row) (*Dataset, error) {
	cols := make([]string, len(columns))
	copy(cols, columns)

	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		if c == "" {
			return nil, fmt.Errorf("column name cannot be empty")
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		seen[c] = struct{}{}
	}

	normalized := make([]Row, len(rows))
	for i, r := range rows {
		for k := range r {
			if _, ok := seen[k]; !ok {
				return nil, fmt.Errorf("row %d has undeclared column %q", i, k)
			}
		}
		nr := make(Row, len(cols))
		for _, c := range cols {
			if v, ok := r[c]; ok {
				nr[c] = v
			} else {
				nr[c] = Null()
			}
		}
		normalized[i] = nr
	}

	return &Dataset{
		id:      uuid.NewString(),
		columns: cols,
		rows:    normalized,
	}, nil
}

// MustNew is New for statically known-good inputs, mainly tests and examples.
func MustNew(columns []string, rows []Row) *Dataset {
	d, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return d
}

// ID returns the unique handle identifier.
func (d *Dataset) ID() string { return d.id }

// Columns returns the ordered column names.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// HasColumn reports whether the named column is declared.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.columns {
		if c == name {
			return true
		}
	}
	return false
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int { return len(d.rows) }

// NumColumns returns the number of columns.
func (d *Dataset) NumColumns() int { return len(d.columns) }

// Row returns a copy of the i-th row.
func (d *Dataset) Row(i int) Row { return d.rows[i].Clone() }

// Rows returns a deep copy of all rows.
func (d *Dataset) Rows() []Row {
	out := make([]Row, len(d.rows))
	for i, r := range d.rows {
		out[i] = r.Clone()
	}
	return out
}

// At returns the cell at row i, column name. The second return is false when
// the column is not declared.
func (d *Dataset) At(i int, column string) (Value, bool) {
	if !d.HasColumn(column) {
		return Null(), false
	}
	return d.rows[i][column], true
}

// WithRows returns a new handle with the same columns and the given rows.
// The receiver is left untouched.
func (d *Dataset) WithRows(rows []Row) (*Dataset, error) {
	return New(d.columns, rows)
}

// WithColumns returns a new handle with different columns and rows.
// The receiver is left untouched.
func (d *Dataset) WithColumns(columns []string, rows []Row) (*Dataset, error) {
	return New(columns, rows)
}

// LastOperation returns the name of the operation that produced this handle,
// or the empty string for externally constructed data.
func (d *Dataset) LastOperation() string { return d.lastOp }

// MarkOperation records the operation name on the handle's provenance
// metadata. Rows and columns are unaffected.
func (d *Dataset) MarkOperation(name string) { d.lastOp = name }
