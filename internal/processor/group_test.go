package processor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
	"github.com/FiloHany/DataAnalysis-Toolkit/internal/processor"
)

func TestGroupAggregateSum(t *testing.T) {
	proc := processor.Default(nil)
	proc.SetData(idValDataset(t))

	result, err := proc.Apply("group_aggregate", processor.Params{
		"group_by": []string{"id"},
		"agg":      map[string]string{"val": "sum"},
	})
	require.NoError(t, err)

	// Output groups appear in first-seen order of the grouping key.
	assert.Equal(t, []string{"id", "val"}, result.Columns())
	require.Equal(t, 2, result.NumRows())

	id, _ := result.At(0, "id")
	val, _ := result.At(0, "val")
	assert.True(t, id.Equal(dataset.Int(1)))
	assert.True(t, val.Equal(dataset.Int(15)))

	id, _ = result.At(1, "id")
	val, _ = result.At(1, "val")
	assert.True(t, id.Equal(dataset.Int(2)))
	assert.True(t, val.Equal(dataset.Int(20)))
}

func TestGroupAggregateRowCountEqualsDistinctKeys(t *testing.T) {
	d := dataset.MustNew([]string{"a", "b", "v"}, []dataset.Row{
		{"a": dataset.Int(1), "b": dataset.Str("x"), "v": dataset.Int(1)},
		{"a": dataset.Int(1), "b": dataset.Str("y"), "v": dataset.Int(2)},
		{"a": dataset.Int(1), "b": dataset.Str("x"), "v": dataset.Int(3)},
		{"a": dataset.Int(2), "b": dataset.Str("x"), "v": dataset.Int(4)},
	})

	proc := processor.Default(nil)
	proc.SetData(d)

	result, err := proc.Apply("group_aggregate", processor.Params{
		"group_by": []string{"a", "b"},
		"agg":      map[string]string{"v": "count"},
	})
	require.NoError(t, err)

	// Three distinct (a, b) tuples.
	assert.Equal(t, 3, result.NumRows())
}

func TestGroupAggregateFunctions(t *testing.T) {
	d := dataset.MustNew([]string{"g", "v"}, []dataset.Row{
		{"g": dataset.Str("x"), "v": dataset.Int(4)},
		{"g": dataset.Str("x"), "v": dataset.Null()},
		{"g": dataset.Str("x"), "v": dataset.Int(2)},
		{"g": dataset.Str("y"), "v": dataset.Null()},
	})

	tests := []struct {
		fn    string
		wantX dataset.Value
		wantY dataset.Value
	}{
		{"sum", dataset.Int(6), dataset.Null()},
		{"mean", dataset.Float(3), dataset.Null()},
		{"count", dataset.Int(2), dataset.Int(0)},
		{"min", dataset.Int(2), dataset.Null()},
		{"max", dataset.Int(4), dataset.Null()},
	}

	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			proc := processor.Default(nil)
			proc.SetData(d)

			result, err := proc.Apply("group_aggregate", processor.Params{
				"group_by": []string{"g"},
				"agg":      map[string]string{"v": tt.fn},
			})
			require.NoError(t, err)
			require.Equal(t, 2, result.NumRows())

			// Nulls are ignored by every function except count, which counts
			// non-null occurrences.
			x, _ := result.At(0, "v")
			y, _ := result.At(1, "v")
			assert.True(t, x.Equal(tt.wantX), "x: got %v want %v", x, tt.wantX)
			assert.True(t, y.Equal(tt.wantY), "y: got %v want %v", y, tt.wantY)
		})
	}
}

func TestGroupAggregateMeanOfFloats(t *testing.T) {
	d := dataset.MustNew([]string{"g", "v"}, []dataset.Row{
		{"g": dataset.Str("x"), "v": dataset.Float(1.5)},
		{"g": dataset.Str("x"), "v": dataset.Int(2)},
	})

	proc := processor.Default(nil)
	proc.SetData(d)

	result, err := proc.Apply("group_aggregate", processor.Params{
		"group_by": []string{"g"},
		"agg":      map[string]string{"v": "sum"},
	})
	require.NoError(t, err)

	// Mixed int and float inputs produce a float sum.
	v, _ := result.At(0, "v")
	assert.Equal(t, dataset.KindFloat, v.Kind())
	f, _ := v.AsFloat()
	assert.Equal(t, 3.5, f)
}

func TestGroupAggregateMinMaxStrings(t *testing.T) {
	d := dataset.MustNew([]string{"g", "sym"}, []dataset.Row{
		{"g": dataset.Int(1), "sym": dataset.Str("ETH")},
		{"g": dataset.Int(1), "sym": dataset.Str("BTC")},
	})

	proc := processor.Default(nil)
	proc.SetData(d)

	result, err := proc.Apply("group_aggregate", processor.Params{
		"group_by": []string{"g"},
		"agg":      map[string]string{"sym": "min"},
	})
	require.NoError(t, err)

	v, _ := result.At(0, "sym")
	s, _ := v.AsString()
	assert.Equal(t, "BTC", s)
}

func TestGroupAggregateErrors(t *testing.T) {
	tests := []struct {
		name     string
		params   processor.Params
		wantType processor.ErrType
	}{
		{
			name: "unsupported function",
			params: processor.Params{
				"group_by": []string{"id"},
				"agg":      map[string]string{"val": "median"},
			},
			wantType: processor.ErrTypeUnsupportedAggregate,
		},
		{
			name: "unknown group column",
			params: processor.Params{
				"group_by": []string{"ghost"},
				"agg":      map[string]string{"val": "sum"},
			},
			wantType: processor.ErrTypeUnknownColumn,
		},
		{
			name: "unknown aggregate column",
			params: processor.Params{
				"group_by": []string{"id"},
				"agg":      map[string]string{"ghost": "sum"},
			},
			wantType: processor.ErrTypeUnknownColumn,
		},
		{
			name: "column both grouped and aggregated",
			params: processor.Params{
				"group_by": []string{"id"},
				"agg":      map[string]string{"id": "sum"},
			},
			wantType: processor.ErrTypeParameterValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := processor.Default(nil)
			proc.SetData(idValDataset(t))

			_, err := proc.Apply("group_aggregate", tt.params)
			require.Error(t, err)
			assert.True(t, processor.IsType(err, tt.wantType), "got %q", processor.TypeOf(err))
		})
	}
}

func TestGroupAggregateSumOfStringsFails(t *testing.T) {
	d := dataset.MustNew([]string{"g", "sym"}, []dataset.Row{
		{"g": dataset.Int(1), "sym": dataset.Str("BTC")},
	})

	proc := processor.Default(nil)
	proc.SetData(d)

	_, err := proc.Apply("group_aggregate", processor.Params{
		"group_by": []string{"g"},
		"agg":      map[string]string{"sym": "sum"},
	})
	require.Error(t, err)
	assert.True(t, processor.IsType(err, processor.ErrTypeExecution))
}
