package processor

import (
	"fmt"
	"strings"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
)

// OpMerge is the registry name of the built-in merge operation.
const OpMerge = "merge"

// Join kinds accepted by the merge operation.
const (
	JoinInner = "inner"
	JoinLeft  = "left"
	JoinRight = "right"
	JoinOuter = "outer"
)

// mergeOperation joins the current dataset (left side) with a second dataset
// supplied as a parameter (right side). Rows match on exact equality of the
// key columns; every pairing of matching rows is emitted, the dataframe-merge
// convention. Unmatched rows surviving a left/right/outer join carry null for
// the columns contributed by the other side.
//
// Output columns are the left columns followed by the right non-key columns;
// a right column whose name collides with a left column is suffixed "_right".
type mergeOperation struct{}

func (m mergeOperation) Name() string { return OpMerge }

func (m mergeOperation) Parameters() []ParameterDefinition {
	return []ParameterDefinition{
		{Name: "right", Type: ParamTypeDataset, Required: true},
		{Name: "on", Type: ParamTypeStringList, Required: true},
		{Name: "how", Type: ParamTypeString, Required: false, Default: JoinInner},
	}
}

func (m mergeOperation) Apply(d *dataset.Dataset, params Params) (*dataset.Dataset, error) {
	right := params.Dataset("right")
	on := params.StringList("on")
	how := params.String("how")

	switch how {
	case JoinInner, JoinLeft, JoinRight, JoinOuter:
	default:
		return nil, NewParameterValidationError(OpMerge,
			fmt.Sprintf("join kind must be one of inner, left, right, outer; got %q", how))
	}
	if len(on) == 0 {
		return nil, NewParameterValidationError(OpMerge, `parameter "on" cannot be empty`)
	}
	for _, col := range on {
		if !d.HasColumn(col) {
			return nil, NewJoinKeyMismatchError(OpMerge, "left", col)
		}
		if !right.HasColumn(col) {
			return nil, NewJoinKeyMismatchError(OpMerge, "right", col)
		}
	}

	keys := make(map[string]struct{}, len(on))
	for _, col := range on {
		keys[col] = struct{}{}
	}

	leftCols := d.Columns()
	outCols := make([]string, 0, len(leftCols)+right.NumColumns())
	outCols = append(outCols, leftCols...)

	taken := make(map[string]struct{}, len(outCols))
	for _, col := range outCols {
		taken[col] = struct{}{}
	}

	// rightOut maps each contributing right column to its output name.
	rightCols := make([]string, 0, right.NumColumns())
	rightOut := make(map[string]string)
	for _, col := range right.Columns() {
		if _, isKey := keys[col]; isKey {
			continue
		}
		name := col
		for {
			if _, clash := taken[name]; !clash {
				break
			}
			name += "_right"
		}
		taken[name] = struct{}{}
		rightCols = append(rightCols, col)
		rightOut[col] = name
		outCols = append(outCols, name)
	}

	rowKey := func(row dataset.Row) string {
		parts := make([]string, len(on))
		for i, col := range on {
			parts[i] = row[col].Key()
		}
		return strings.Join(parts, "\x1f")
	}

	leftRows := d.Rows()
	rightRows := right.Rows()

	rightIndex := make(map[string][]int, len(rightRows))
	for i, row := range rightRows {
		k := rowKey(row)
		rightIndex[k] = append(rightIndex[k], i)
	}
	leftIndex := make(map[string][]int, len(leftRows))
	for i, row := range leftRows {
		k := rowKey(row)
		leftIndex[k] = append(leftIndex[k], i)
	}

	combine := func(left, rightRow dataset.Row) dataset.Row {
		out := make(dataset.Row, len(outCols))
		if left != nil {
			for _, col := range leftCols {
				out[col] = left[col]
			}
		} else {
			for _, col := range leftCols {
				out[col] = dataset.Null()
			}
			// Key values come from the surviving side.
			for _, col := range on {
				out[col] = rightRow[col]
			}
		}
		for _, col := range rightCols {
			if rightRow != nil {
				out[rightOut[col]] = rightRow[col]
			} else {
				out[rightOut[col]] = dataset.Null()
			}
		}
		return out
	}

	var rows []dataset.Row

	switch how {
	case JoinRight:
		for _, rrow := range rightRows {
			matches := leftIndex[rowKey(rrow)]
			if len(matches) == 0 {
				rows = append(rows, combine(nil, rrow))
				continue
			}
			for _, li := range matches {
				rows = append(rows, combine(leftRows[li], rrow))
			}
		}
	default:
		matchedRight := make(map[int]struct{})
		for _, lrow := range leftRows {
			matches := rightIndex[rowKey(lrow)]
			if len(matches) == 0 {
				if how == JoinLeft || how == JoinOuter {
					rows = append(rows, combine(lrow, nil))
				}
				continue
			}
			for _, ri := range matches {
				matchedRight[ri] = struct{}{}
				rows = append(rows, combine(lrow, rightRows[ri]))
			}
		}
		if how == JoinOuter {
			for i, rrow := range rightRows {
				if _, ok := matchedRight[i]; !ok {
					rows = append(rows, combine(nil, rrow))
				}
			}
		}
	}

	return d.WithColumns(outCols, rows)
}
