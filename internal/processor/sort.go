package processor

import (
	"fmt"
	"sort"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
)

// OpSort is the registry name of the built-in sort operation.
const OpSort = "sort"

// sortOperation orders rows lexicographically by one or more sort keys.
// Ties keep their original relative order (stable sort).
//
// Parameters mirror the by/ascending shape of the common dataframe sort API:
// "by" lists the key columns in priority order; "order" optionally gives
// "asc" or "desc" per key, defaulting to ascending, with a single entry
// broadcast across all keys.
type sortOperation struct{}

func (s sortOperation) Name() string { return OpSort }

func (s sortOperation) Parameters() []ParameterDefinition {
	return []ParameterDefinition{
		{Name: "by", Type: ParamTypeStringList, Required: true},
		{Name: "order", Type: ParamTypeStringList, Required: false},
	}
}

func (s sortOperation) Apply(d *dataset.Dataset, params Params) (*dataset.Dataset, error) {
	by := params.StringList("by")
	if len(by) == 0 {
		return nil, NewParameterValidationError(OpSort, `parameter "by" cannot be empty`)
	}
	for _, col := range by {
		if !d.HasColumn(col) {
			return nil, NewUnknownColumnError(OpSort, col)
		}
	}

	descending, err := sortDirections(by, params.StringList("order"))
	if err != nil {
		return nil, err
	}

	rows := d.Rows()
	sort.SliceStable(rows, func(i, j int) bool {
		for k, col := range by {
			cmp := rows[i][col].Compare(rows[j][col])
			if cmp == 0 {
				continue
			}
			if descending[k] {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})

	return d.WithRows(rows)
}

// sortDirections resolves the optional "order" parameter into a per-key
// descending flag.
func sortDirections(by, order []string) ([]bool, error) {
	descending := make([]bool, len(by))
	if len(order) == 0 {
		return descending, nil
	}
	if len(order) == 1 && len(by) > 1 {
		expanded := make([]string, len(by))
		for i := range expanded {
			expanded[i] = order[0]
		}
		order = expanded
	}
	if len(order) != len(by) {
		return nil, NewParameterValidationError(OpSort,
			fmt.Sprintf(`parameter "order" has %d entries for %d sort keys`, len(order), len(by)))
	}
	for i, dir := range order {
		switch dir {
		case "asc":
		case "desc":
			descending[i] = true
		default:
			return nil, NewParameterValidationError(OpSort,
				fmt.Sprintf(`sort direction must be "asc" or "desc", got %q`, dir))
		}
	}
	return descending, nil
}
