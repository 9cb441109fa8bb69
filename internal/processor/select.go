package processor

import (
	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
)

// Registry names of the projection operations.
const (
	OpSelect = "select"
	OpLimit  = "limit"
)

// selectOperation projects a subset of columns in the requested order, with
// optional renaming. It is the columnar counterpart of the original index
// strategy: reshaping which labels a downstream consumer sees.
type selectOperation struct{}

func (s selectOperation) Name() string { return OpSelect }

func (s selectOperation) Parameters() []ParameterDefinition {
	return []ParameterDefinition{
		{Name: "columns", Type: ParamTypeStringList, Required: true},
		{Name: "rename", Type: ParamTypeStringMap, Required: false},
	}
}

func (s selectOperation) Apply(d *dataset.Dataset, params Params) (*dataset.Dataset, error) {
	columns := params.StringList("columns")
	rename := params.StringMap("rename")

	if len(columns) == 0 {
		return nil, NewParameterValidationError(OpSelect, `parameter "columns" cannot be empty`)
	}
	for _, col := range columns {
		if !d.HasColumn(col) {
			return nil, NewUnknownColumnError(OpSelect, col)
		}
	}
	for col := range rename {
		if !d.HasColumn(col) {
			return nil, NewUnknownColumnError(OpSelect, col)
		}
	}

	outCols := make([]string, len(columns))
	for i, col := range columns {
		if to, ok := rename[col]; ok {
			outCols[i] = to
		} else {
			outCols[i] = col
		}
	}

	rows := make([]dataset.Row, d.NumRows())
	for i := 0; i < d.NumRows(); i++ {
		src := d.Row(i)
		row := make(dataset.Row, len(columns))
		for j, col := range columns {
			row[outCols[j]] = src[col]
		}
		rows[i] = row
	}

	return d.WithColumns(outCols, rows)
}

// limitOperation keeps the first n rows.
type limitOperation struct{}

func (l limitOperation) Name() string { return OpLimit }

func (l limitOperation) Parameters() []ParameterDefinition {
	return []ParameterDefinition{
		{Name: "n", Type: ParamTypeInt, Required: true},
	}
}

func (l limitOperation) Apply(d *dataset.Dataset, params Params) (*dataset.Dataset, error) {
	n := params.Int("n")
	if n < 0 {
		return nil, NewParameterValidationError(OpLimit, `parameter "n" must be non-negative`)
	}

	rows := d.Rows()
	if int64(len(rows)) > n {
		rows = rows[:n]
	}
	return d.WithRows(rows)
}
