package processor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
	"github.com/FiloHany/DataAnalysis-Toolkit/internal/processor"
)

func mergeFixtures(t *testing.T) (*dataset.Dataset, *dataset.Dataset) {
	t.Helper()
	left := dataset.MustNew([]string{"id", "val"}, []dataset.Row{
		{"id": dataset.Int(1), "val": dataset.Int(10)},
		{"id": dataset.Int(2), "val": dataset.Int(20)},
		{"id": dataset.Int(3), "val": dataset.Int(30)},
	})
	right := dataset.MustNew([]string{"id", "name"}, []dataset.Row{
		{"id": dataset.Int(2), "name": dataset.Str("two")},
		{"id": dataset.Int(3), "name": dataset.Str("three")},
		{"id": dataset.Int(4), "name": dataset.Str("four")},
	})
	return left, right
}

func TestMergeInner(t *testing.T) {
	left, right := mergeFixtures(t)

	proc := processor.Default(nil)
	proc.SetData(left)

	result, err := proc.Apply("merge", processor.Params{
		"right": right,
		"on":    []string{"id"},
		"how":   "inner",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "val", "name"}, result.Columns())
	require.Equal(t, 2, result.NumRows())

	// With unique keys, inner row count never exceeds either side.
	assert.LessOrEqual(t, result.NumRows(), left.NumRows())
	assert.LessOrEqual(t, result.NumRows(), right.NumRows())

	// Every output row's key matched exactly on both sides.
	id, _ := result.At(0, "id")
	name, _ := result.At(0, "name")
	assert.True(t, id.Equal(dataset.Int(2)))
	s, _ := name.AsString()
	assert.Equal(t, "two", s)
}

func TestMergeLeft(t *testing.T) {
	left, right := mergeFixtures(t)

	proc := processor.Default(nil)
	proc.SetData(left)

	result, err := proc.Apply("merge", processor.Params{
		"right": right,
		"on":    []string{"id"},
		"how":   "left",
	})
	require.NoError(t, err)

	require.Equal(t, 3, result.NumRows())

	// id=1 has no right match; its right-contributed column is null.
	name, _ := result.At(0, "name")
	assert.True(t, name.IsNull())
	val, _ := result.At(0, "val")
	assert.True(t, val.Equal(dataset.Int(10)))
}

func TestMergeRight(t *testing.T) {
	left, right := mergeFixtures(t)

	proc := processor.Default(nil)
	proc.SetData(left)

	result, err := proc.Apply("merge", processor.Params{
		"right": right,
		"on":    []string{"id"},
		"how":   "right",
	})
	require.NoError(t, err)

	require.Equal(t, 3, result.NumRows())

	// Rows follow right-side order; id=4 has no left match.
	id, _ := result.At(2, "id")
	assert.True(t, id.Equal(dataset.Int(4)))
	val, _ := result.At(2, "val")
	assert.True(t, val.IsNull())
	name, _ := result.At(2, "name")
	s, _ := name.AsString()
	assert.Equal(t, "four", s)
}

func TestMergeOuter(t *testing.T) {
	left, right := mergeFixtures(t)

	proc := processor.Default(nil)
	proc.SetData(left)

	result, err := proc.Apply("merge", processor.Params{
		"right": right,
		"on":    []string{"id"},
		"how":   "outer",
	})
	require.NoError(t, err)

	// 2 matched + 1 left-only + 1 right-only.
	require.Equal(t, 4, result.NumRows())

	// Left-only row first (left order preserved), right-only appended last.
	id, _ := result.At(0, "id")
	assert.True(t, id.Equal(dataset.Int(1)))
	id, _ = result.At(3, "id")
	assert.True(t, id.Equal(dataset.Int(4)))
	val, _ := result.At(3, "val")
	assert.True(t, val.IsNull())
}

func TestMergeDuplicateKeysMatchPairwise(t *testing.T) {
	left := dataset.MustNew([]string{"k", "l"}, []dataset.Row{
		{"k": dataset.Int(1), "l": dataset.Str("a")},
		{"k": dataset.Int(1), "l": dataset.Str("b")},
	})
	right := dataset.MustNew([]string{"k", "r"}, []dataset.Row{
		{"k": dataset.Int(1), "r": dataset.Str("x")},
		{"k": dataset.Int(1), "r": dataset.Str("y")},
	})

	proc := processor.Default(nil)
	proc.SetData(left)

	result, err := proc.Apply("merge", processor.Params{
		"right": right,
		"on":    []string{"k"},
	})
	require.NoError(t, err)

	// Every pairing of matching rows is emitted (dataframe-merge convention).
	assert.Equal(t, 4, result.NumRows())
}

func TestMergeColumnCollisionSuffix(t *testing.T) {
	left := dataset.MustNew([]string{"id", "price"}, []dataset.Row{
		{"id": dataset.Int(1), "price": dataset.Float(9.5)},
	})
	right := dataset.MustNew([]string{"id", "price"}, []dataset.Row{
		{"id": dataset.Int(1), "price": dataset.Float(10.5)},
	})

	proc := processor.Default(nil)
	proc.SetData(left)

	result, err := proc.Apply("merge", processor.Params{
		"right": right,
		"on":    []string{"id"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "price", "price_right"}, result.Columns())
	v, _ := result.At(0, "price_right")
	f, _ := v.AsFloat()
	assert.Equal(t, 10.5, f)
}

func TestMergeMultiColumnKey(t *testing.T) {
	left := dataset.MustNew([]string{"a", "b", "l"}, []dataset.Row{
		{"a": dataset.Int(1), "b": dataset.Str("x"), "l": dataset.Int(1)},
		{"a": dataset.Int(1), "b": dataset.Str("y"), "l": dataset.Int(2)},
	})
	right := dataset.MustNew([]string{"a", "b", "r"}, []dataset.Row{
		{"a": dataset.Int(1), "b": dataset.Str("y"), "r": dataset.Int(9)},
	})

	proc := processor.Default(nil)
	proc.SetData(left)

	result, err := proc.Apply("merge", processor.Params{
		"right": right,
		"on":    []string{"a", "b"},
	})
	require.NoError(t, err)

	require.Equal(t, 1, result.NumRows())
	b, _ := result.At(0, "b")
	s, _ := b.AsString()
	assert.Equal(t, "y", s)
}

func TestMergeErrors(t *testing.T) {
	left, right := mergeFixtures(t)

	tests := []struct {
		name     string
		params   processor.Params
		wantType processor.ErrType
	}{
		{
			name:     "key missing from right",
			params:   processor.Params{"right": right, "on": []string{"val"}},
			wantType: processor.ErrTypeJoinKeyMismatch,
		},
		{
			name:     "key missing from left",
			params:   processor.Params{"right": right, "on": []string{"name"}},
			wantType: processor.ErrTypeJoinKeyMismatch,
		},
		{
			name:     "bad join kind",
			params:   processor.Params{"right": right, "on": []string{"id"}, "how": "cross"},
			wantType: processor.ErrTypeParameterValidation,
		},
		{
			name:     "missing right dataset",
			params:   processor.Params{"on": []string{"id"}},
			wantType: processor.ErrTypeParameterValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc := processor.Default(nil)
			proc.SetData(left)

			_, err := proc.Apply("merge", tt.params)
			require.Error(t, err)
			assert.True(t, processor.IsType(err, tt.wantType), "got %q", processor.TypeOf(err))
		})
	}
}
