package cleaning

import (
	"log/slog"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
	"github.com/FiloHany/DataAnalysis-Toolkit/internal/processor"
)

// Operation names contributed by this package.
const (
	OpDropDuplicates = "drop_duplicates"
	OpDropColumns    = "drop_columns"
	OpDropMissing    = "drop_missing"
	OpFillMissing    = "fill_missing"
	OpCleanText      = "clean_text"
)

// RegisterOperations wires the cleaning routines into a processor registry.
// The engine gains these capabilities purely by registration; nothing in the
// engine special-cases them.
func RegisterOperations(r *processor.Registry, logger *slog.Logger) error {
	c := NewCleaner(logger)
	ops := []processor.Operation{
		dropDuplicatesOp{c},
		dropColumnsOp{c},
		dropMissingOp{c},
		fillMissingOp{c},
		cleanTextOp{c},
	}
	for _, op := range ops {
		if err := r.Register(op); err != nil {
			return err
		}
	}
	return nil
}

type dropDuplicatesOp struct{ c *Cleaner }

func (o dropDuplicatesOp) Name() string { return OpDropDuplicates }

func (o dropDuplicatesOp) Parameters() []processor.ParameterDefinition {
	return []processor.ParameterDefinition{
		{Name: "subset", Type: processor.ParamTypeStringList, Required: false},
	}
}

func (o dropDuplicatesOp) Apply(d *dataset.Dataset, params processor.Params) (*dataset.Dataset, error) {
	out, err := o.c.RemoveDuplicates(d, params.StringList("subset"))
	if err != nil {
		return nil, processor.NewExecutionError(OpDropDuplicates, err)
	}
	return out, nil
}

type dropColumnsOp struct{ c *Cleaner }

func (o dropColumnsOp) Name() string { return OpDropColumns }

func (o dropColumnsOp) Parameters() []processor.ParameterDefinition {
	return []processor.ParameterDefinition{
		{Name: "columns", Type: processor.ParamTypeStringList, Required: true},
	}
}

func (o dropColumnsOp) Apply(d *dataset.Dataset, params processor.Params) (*dataset.Dataset, error) {
	out, err := o.c.DropColumns(d, params.StringList("columns"))
	if err != nil {
		return nil, processor.NewExecutionError(OpDropColumns, err)
	}
	return out, nil
}

type dropMissingOp struct{ c *Cleaner }

func (o dropMissingOp) Name() string { return OpDropMissing }

func (o dropMissingOp) Parameters() []processor.ParameterDefinition { return nil }

func (o dropMissingOp) Apply(d *dataset.Dataset, _ processor.Params) (*dataset.Dataset, error) {
	out, err := o.c.HandleMissing(d, MissingDrop, dataset.Null())
	if err != nil {
		return nil, processor.NewExecutionError(OpDropMissing, err)
	}
	return out, nil
}

type fillMissingOp struct{ c *Cleaner }

func (o fillMissingOp) Name() string { return OpFillMissing }

func (o fillMissingOp) Parameters() []processor.ParameterDefinition {
	return []processor.ParameterDefinition{
		// The fill value arrives as text and is parsed into a typed scalar,
		// so "0" fills with an integer and "n/a" with a string.
		{Name: "value", Type: processor.ParamTypeString, Required: true},
	}
}

func (o fillMissingOp) Apply(d *dataset.Dataset, params processor.Params) (*dataset.Dataset, error) {
	fill := dataset.Parse(params.String("value"))
	out, err := o.c.HandleMissing(d, MissingFill, fill)
	if err != nil {
		return nil, processor.NewExecutionError(OpFillMissing, err)
	}
	return out, nil
}

type cleanTextOp struct{ c *Cleaner }

func (o cleanTextOp) Name() string { return OpCleanText }

func (o cleanTextOp) Parameters() []processor.ParameterDefinition {
	return []processor.ParameterDefinition{
		{Name: "columns", Type: processor.ParamTypeStringList, Required: true},
		{Name: "trim_chars", Type: processor.ParamTypeString, Required: false},
		{Name: "alphanumeric", Type: processor.ParamTypeBool, Required: false, Default: false},
		{Name: "stringify", Type: processor.ParamTypeBool, Required: false, Default: false},
	}
}

func (o cleanTextOp) Apply(d *dataset.Dataset, params processor.Params) (*dataset.Dataset, error) {
	out, err := o.c.CleanText(d, params.StringList("columns"), TextOptions{
		TrimChars:        params.String("trim_chars"),
		KeepAlphanumeric: params.Bool("alphanumeric"),
		Stringify:        params.Bool("stringify"),
	})
	if err != nil {
		return nil, processor.NewExecutionError(OpCleanText, err)
	}
	return out, nil
}
