package eda

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
	"github.com/FiloHany/DataAnalysis-Toolkit/internal/processor"
)

// CorrelationMethod selects the correlation coefficient computed by
// Correlations.
type CorrelationMethod string

const (
	Pearson  CorrelationMethod = "pearson"
	Spearman CorrelationMethod = "spearman"
)

// Analyzer produces exploratory summaries over a dataset. Results are
// themselves datasets, so they flow into the same pipelines as source data.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil logger falls back to slog.Default.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Describe returns summary statistics for every numeric column: one row per
// statistic (count, mean, std, min, max), one column per numeric input
// column, plus a leading "statistic" label column. Null cells are excluded.
func (a *Analyzer) Describe(d *dataset.Dataset) (*dataset.Dataset, error) {
	numeric := numericColumns(d)
	if len(numeric) == 0 {
		return nil, fmt.Errorf("no numeric columns to describe")
	}

	stats := []string{"count", "mean", "std", "min", "max"}
	columns := append([]string{"statistic"}, numeric...)

	rows := make([]dataset.Row, len(stats))
	for i, stat := range stats {
		rows[i] = dataset.Row{"statistic": dataset.Str(stat)}
	}

	for _, col := range numeric {
		values := columnFloats(d, col)
		n := len(values)

		rows[0][col] = dataset.Int(int64(n))
		if n == 0 {
			for i := 1; i < len(stats); i++ {
				rows[i][col] = dataset.Null()
			}
			continue
		}

		mean := meanOf(values)
		rows[1][col] = dataset.Float(mean)
		rows[2][col] = stdOf(values, mean)
		min, max := values[0], values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		rows[3][col] = dataset.Float(min)
		rows[4][col] = dataset.Float(max)
	}

	a.logger.Info("generated summary statistics", slog.Int("columns", len(numeric)))
	return dataset.New(columns, rows)
}

// Correlations returns the pairwise correlation matrix of the numeric
// columns: a "column" label column plus one column per numeric input.
// Rows where either side is null are excluded pairwise.
func (a *Analyzer) Correlations(d *dataset.Dataset, method CorrelationMethod) (*dataset.Dataset, error) {
	switch method {
	case Pearson, Spearman:
	default:
		return nil, fmt.Errorf("unknown correlation method %q", method)
	}

	numeric := numericColumns(d)
	if len(numeric) < 2 {
		return nil, fmt.Errorf("correlation requires at least two numeric columns")
	}

	columns := append([]string{"column"}, numeric...)
	rows := make([]dataset.Row, len(numeric))
	for i, rowCol := range numeric {
		row := dataset.Row{"column": dataset.Str(rowCol)}
		for _, colCol := range numeric {
			xs, ys := pairedFloats(d, rowCol, colCol)
			if method == Spearman {
				xs, ys = ranksOf(xs), ranksOf(ys)
			}
			if r, ok := pearsonOf(xs, ys); ok {
				row[colCol] = dataset.Float(r)
			} else {
				row[colCol] = dataset.Null()
			}
		}
		rows[i] = row
	}

	a.logger.Info("computed correlation matrix",
		slog.String("method", string(method)),
		slog.Int("columns", len(numeric)))
	return dataset.New(columns, rows)
}

// GroupAnalysis aggregates every numeric non-grouping column with the same
// function, routed through the engine's group_aggregate operation so the
// result carries regular operation provenance.
func (a *Analyzer) GroupAnalysis(proc *processor.Processor, d *dataset.Dataset, groupBy []string, fn string) (*dataset.Dataset, error) {
	grouped := make(map[string]struct{}, len(groupBy))
	for _, col := range groupBy {
		grouped[col] = struct{}{}
	}

	agg := make(map[string]string)
	for _, col := range numericColumns(d) {
		if _, isKey := grouped[col]; !isKey {
			agg[col] = fn
		}
	}
	if len(agg) == 0 {
		return nil, fmt.Errorf("no numeric columns to aggregate")
	}

	proc.SetData(d)
	return proc.Apply(processor.OpGroupAggregate, processor.Params{
		"group_by": groupBy,
		"agg":      agg,
	})
}

// numericColumns lists columns whose non-null cells are all numeric and which
// contain at least one numeric cell.
func numericColumns(d *dataset.Dataset) []string {
	var out []string
	for _, col := range d.Columns() {
		any := false
		ok := true
		for i := 0; i < d.NumRows(); i++ {
			v, _ := d.At(i, col)
			if v.IsNull() {
				continue
			}
			if !v.IsNumeric() {
				ok = false
				break
			}
			any = true
		}
		if ok && any {
			out = append(out, col)
		}
	}
	return out
}

func columnFloats(d *dataset.Dataset, col string) []float64 {
	var out []float64
	for i := 0; i < d.NumRows(); i++ {
		v, _ := d.At(i, col)
		if f, ok := v.AsFloat(); ok {
			out = append(out, f)
		}
	}
	return out
}

// pairedFloats collects rows where both columns are numeric, keeping the
// pairing aligned.
func pairedFloats(d *dataset.Dataset, a, b string) ([]float64, []float64) {
	var xs, ys []float64
	for i := 0; i < d.NumRows(); i++ {
		va, _ := d.At(i, a)
		vb, _ := d.At(i, b)
		fa, okA := va.AsFloat()
		fb, okB := vb.AsFloat()
		if okA && okB {
			xs = append(xs, fa)
			ys = append(ys, fb)
		}
	}
	return xs, ys
}

func meanOf(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdOf is the sample standard deviation. A single observation has no
// spread to estimate and yields null.
func stdOf(xs []float64, mean float64) dataset.Value {
	if len(xs) < 2 {
		return dataset.Null()
	}
	ss := 0.0
	for _, x := range xs {
		diff := x - mean
		ss += diff * diff
	}
	return dataset.Float(math.Sqrt(ss / float64(len(xs)-1)))
}

func pearsonOf(xs, ys []float64) (float64, bool) {
	if len(xs) < 2 {
		return 0, false
	}
	mx, my := meanOf(xs), meanOf(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	return sxy / math.Sqrt(sxx*syy), true
}

// ranksOf converts values to fractional ranks, averaging ties, the standard
// preparation for a Spearman coefficient.
func ranksOf(xs []float64) []float64 {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	ranks := make([]float64, len(xs))
	for i := 0; i < len(idx); {
		j := i
		for j < len(idx) && xs[idx[j]] == xs[idx[i]] {
			j++
		}
		// Average rank across the tie run; ranks are 1-based.
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		i = j
	}
	return ranks
}
