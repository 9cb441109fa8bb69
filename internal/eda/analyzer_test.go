package eda_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
	"github.com/FiloHany/DataAnalysis-Toolkit/internal/eda"
	"github.com/FiloHany/DataAnalysis-Toolkit/internal/processor"
)

func priceDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	return dataset.MustNew([]string{"sym", "price", "volume"}, []dataset.Row{
		{"sym": dataset.Str("BTC"), "price": dataset.Float(2), "volume": dataset.Int(10)},
		{"sym": dataset.Str("ETH"), "price": dataset.Float(4), "volume": dataset.Int(20)},
		{"sym": dataset.Str("XRP"), "price": dataset.Float(6), "volume": dataset.Int(30)},
		{"sym": dataset.Str("DOT"), "price": dataset.Float(8), "volume": dataset.Null()},
	})
}

func floatAt(t *testing.T, d *dataset.Dataset, row int, col string) float64 {
	t.Helper()
	v, ok := d.At(row, col)
	require.True(t, ok, "column %q", col)
	f, ok := v.AsFloat()
	require.True(t, ok, "value at %d/%s is %v", row, col, v)
	return f
}

func TestDescribe(t *testing.T) {
	a := eda.NewAnalyzer(nil)

	out, err := a.Describe(priceDataset(t))
	require.NoError(t, err)

	// Non-numeric "sym" is excluded.
	assert.Equal(t, []string{"statistic", "price", "volume"}, out.Columns())
	require.Equal(t, 5, out.NumRows())

	// Rows: count, mean, std, min, max.
	assert.Equal(t, 4.0, floatAt(t, out, 0, "price"))
	assert.Equal(t, 5.0, floatAt(t, out, 1, "price"))
	assert.InDelta(t, 2.5820, floatAt(t, out, 2, "price"), 1e-3)
	assert.Equal(t, 2.0, floatAt(t, out, 3, "price"))
	assert.Equal(t, 8.0, floatAt(t, out, 4, "price"))

	// Nulls are excluded from volume's statistics.
	assert.Equal(t, 3.0, floatAt(t, out, 0, "volume"))
	assert.Equal(t, 20.0, floatAt(t, out, 1, "volume"))
}

func TestDescribeNoNumericColumns(t *testing.T) {
	d := dataset.MustNew([]string{"name"}, []dataset.Row{
		{"name": dataset.Str("x")},
	})

	_, err := eda.NewAnalyzer(nil).Describe(d)
	assert.Error(t, err)
}

func TestCorrelationsPearson(t *testing.T) {
	a := eda.NewAnalyzer(nil)

	out, err := a.Correlations(priceDataset(t), eda.Pearson)
	require.NoError(t, err)

	assert.Equal(t, []string{"column", "price", "volume"}, out.Columns())
	require.Equal(t, 2, out.NumRows())

	// Diagonal is exactly 1, and price/volume are perfectly correlated on
	// their shared non-null rows.
	assert.InDelta(t, 1.0, floatAt(t, out, 0, "price"), 1e-9)
	assert.InDelta(t, 1.0, floatAt(t, out, 1, "volume"), 1e-9)
	assert.InDelta(t, 1.0, floatAt(t, out, 0, "volume"), 1e-9)
}

func TestCorrelationsSpearman(t *testing.T) {
	// Monotonic but non-linear: Spearman sees a perfect relationship.
	d := dataset.MustNew([]string{"x", "y"}, []dataset.Row{
		{"x": dataset.Float(1), "y": dataset.Float(1)},
		{"x": dataset.Float(2), "y": dataset.Float(8)},
		{"x": dataset.Float(3), "y": dataset.Float(27)},
		{"x": dataset.Float(4), "y": dataset.Float(1000)},
	})

	out, err := eda.NewAnalyzer(nil).Correlations(d, eda.Spearman)
	require.NoError(t, err)

	spearman := floatAt(t, out, 0, "y")
	assert.InDelta(t, 1.0, spearman, 1e-9)

	pearsonOut, err := eda.NewAnalyzer(nil).Correlations(d, eda.Pearson)
	require.NoError(t, err)
	pearson := floatAt(t, pearsonOut, 0, "y")
	assert.Less(t, pearson, 1.0)
}

func TestCorrelationsErrors(t *testing.T) {
	d := priceDataset(t)
	a := eda.NewAnalyzer(nil)

	_, err := a.Correlations(d, "kendall")
	assert.Error(t, err)

	single := dataset.MustNew([]string{"x"}, []dataset.Row{{"x": dataset.Int(1)}})
	_, err = a.Correlations(single, eda.Pearson)
	assert.Error(t, err)
}

func TestCorrelationsConstantColumnIsNull(t *testing.T) {
	d := dataset.MustNew([]string{"x", "c"}, []dataset.Row{
		{"x": dataset.Float(1), "c": dataset.Float(5)},
		{"x": dataset.Float(2), "c": dataset.Float(5)},
		{"x": dataset.Float(3), "c": dataset.Float(5)},
	})

	out, err := eda.NewAnalyzer(nil).Correlations(d, eda.Pearson)
	require.NoError(t, err)

	// Zero variance has no defined correlation.
	v, _ := out.At(0, "c")
	assert.True(t, v.IsNull())
}

func TestGroupAnalysis(t *testing.T) {
	d := dataset.MustNew([]string{"grp", "v"}, []dataset.Row{
		{"grp": dataset.Str("a"), "v": dataset.Int(1)},
		{"grp": dataset.Str("a"), "v": dataset.Int(3)},
		{"grp": dataset.Str("b"), "v": dataset.Int(10)},
	})

	proc := processor.Default(nil)
	out, err := eda.NewAnalyzer(nil).GroupAnalysis(proc, d, []string{"grp"}, "mean")
	require.NoError(t, err)

	require.Equal(t, 2, out.NumRows())
	assert.Equal(t, 2.0, floatAt(t, out, 0, "v"))
	assert.Equal(t, 10.0, floatAt(t, out, 1, "v"))
	assert.Equal(t, "group_aggregate", out.LastOperation())
}

func TestGroupAnalysisUnsupportedFunction(t *testing.T) {
	d := dataset.MustNew([]string{"grp", "v"}, []dataset.Row{
		{"grp": dataset.Str("a"), "v": dataset.Int(1)},
	})

	proc := processor.Default(nil)
	_, err := eda.NewAnalyzer(nil).GroupAnalysis(proc, d, []string{"grp"}, "median")
	require.Error(t, err)
	assert.True(t, processor.IsType(err, processor.ErrTypeUnsupportedAggregate))
}
