package processor

import (
	"fmt"
	"strings"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
)

// OpGroupAggregate is the registry name of the built-in grouping operation.
const OpGroupAggregate = "group_aggregate"

// Supported aggregate function names.
const (
	AggSum   = "sum"
	AggMean  = "mean"
	AggCount = "count"
	AggMin   = "min"
	AggMax   = "max"
)

// groupAggregateOperation produces one row per distinct combination of the
// grouping columns, in first-seen order, applying an aggregate function to
// each listed value column. Null cells are ignored by every function except
// count, which counts non-null occurrences.
type groupAggregateOperation struct{}

func (g groupAggregateOperation) Name() string { return OpGroupAggregate }

func (g groupAggregateOperation) Parameters() []ParameterDefinition {
	return []ParameterDefinition{
		{Name: "group_by", Type: ParamTypeStringList, Required: true},
		{Name: "agg", Type: ParamTypeStringMap, Required: true},
	}
}

func (g groupAggregateOperation) Apply(d *dataset.Dataset, params Params) (*dataset.Dataset, error) {
	groupBy := params.StringList("group_by")
	agg := params.StringMap("agg")

	if len(groupBy) == 0 {
		return nil, NewParameterValidationError(OpGroupAggregate, `parameter "group_by" cannot be empty`)
	}
	grouped := make(map[string]struct{}, len(groupBy))
	for _, col := range groupBy {
		if !d.HasColumn(col) {
			return nil, NewUnknownColumnError(OpGroupAggregate, col)
		}
		grouped[col] = struct{}{}
	}
	for col, fn := range agg {
		if !d.HasColumn(col) {
			return nil, NewUnknownColumnError(OpGroupAggregate, col)
		}
		if _, isKey := grouped[col]; isKey {
			return nil, NewParameterValidationError(OpGroupAggregate,
				fmt.Sprintf("column %q cannot be both grouped and aggregated", col))
		}
		switch fn {
		case AggSum, AggMean, AggCount, AggMin, AggMax:
		default:
			return nil, NewUnsupportedAggregateError(OpGroupAggregate, fn)
		}
	}

	// Aggregated columns keep the input dataset's column order so the output
	// schema is deterministic.
	aggCols := make([]string, 0, len(agg))
	for _, col := range d.Columns() {
		if _, ok := agg[col]; ok {
			aggCols = append(aggCols, col)
		}
	}

	type bucket struct {
		keyValues map[string]dataset.Value
		accs      map[string]*aggregator
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for i := 0; i < d.NumRows(); i++ {
		row := d.Row(i)

		keyParts := make([]string, len(groupBy))
		for k, col := range groupBy {
			keyParts[k] = row[col].Key()
		}
		key := strings.Join(keyParts, "\x1f")

		b, exists := buckets[key]
		if !exists {
			b = &bucket{
				keyValues: make(map[string]dataset.Value, len(groupBy)),
				accs:      make(map[string]*aggregator, len(aggCols)),
			}
			for _, col := range groupBy {
				b.keyValues[col] = row[col]
			}
			for _, col := range aggCols {
				b.accs[col] = &aggregator{fn: agg[col]}
			}
			buckets[key] = b
			order = append(order, key)
		}

		for _, col := range aggCols {
			if err := b.accs[col].add(row[col]); err != nil {
				return nil, NewExecutionError(OpGroupAggregate,
					fmt.Errorf("column %q: %w", col, err))
			}
		}
	}

	columns := make([]string, 0, len(groupBy)+len(aggCols))
	columns = append(columns, groupBy...)
	columns = append(columns, aggCols...)

	rows := make([]dataset.Row, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		row := make(dataset.Row, len(columns))
		for _, col := range groupBy {
			row[col] = b.keyValues[col]
		}
		for _, col := range aggCols {
			row[col] = b.accs[col].result()
		}
		rows = append(rows, row)
	}

	return d.WithColumns(columns, rows)
}

// aggregator accumulates one column of one group. Null inputs are skipped;
// count counts the non-null inputs it saw.
type aggregator struct {
	fn      string
	count   int64
	sumInt  int64
	sumF    float64
	allInt  bool
	started bool
	min     dataset.Value
	max     dataset.Value
}

func (a *aggregator) add(v dataset.Value) error {
	if v.IsNull() {
		return nil
	}

	if !a.started {
		a.started = true
		a.allInt = true
		a.min = v
		a.max = v
	} else {
		if v.Compare(a.min) < 0 {
			a.min = v
		}
		if v.Compare(a.max) > 0 {
			a.max = v
		}
	}

	a.count++

	if a.fn == AggSum || a.fn == AggMean {
		f, ok := v.AsFloat()
		if !ok {
			return fmt.Errorf("%s requires numeric values, got %s", a.fn, v.Kind())
		}
		a.sumF += f
		if v.Kind() == dataset.KindInt {
			i, _ := v.AsInt()
			a.sumInt += i
		} else {
			a.allInt = false
		}
	}
	return nil
}

// result returns the aggregate. With no non-null inputs, count is zero and
// every other function is null.
func (a *aggregator) result() dataset.Value {
	if a.fn == AggCount {
		return dataset.Int(a.count)
	}
	if a.count == 0 {
		return dataset.Null()
	}
	switch a.fn {
	case AggSum:
		if a.allInt {
			return dataset.Int(a.sumInt)
		}
		return dataset.Float(a.sumF)
	case AggMean:
		return dataset.Float(a.sumF / float64(a.count))
	case AggMin:
		return a.min
	case AggMax:
		return a.max
	}
	return dataset.Null()
}
