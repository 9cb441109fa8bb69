package processor

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
)

// OpFilter is the registry name of the built-in filter operation.
const OpFilter = "filter"

// filterOperation retains rows for which a predicate expression evaluates
// true. Column names are free variables of the expression; comparison,
// boolean and arithmetic operators follow expr-lang semantics. Row order is
// preserved.
//
// Compiled programs are cached per expression, the same scheme
// repeated-evaluation expression engines use.
type filterOperation struct {
	mu    sync.RWMutex
	cache map[string]*vm.Program
}

func newFilterOperation() *filterOperation {
	return &filterOperation{cache: make(map[string]*vm.Program)}
}

func (f *filterOperation) Name() string { return OpFilter }

func (f *filterOperation) Parameters() []ParameterDefinition {
	return []ParameterDefinition{
		{Name: "expr", Type: ParamTypeString, Required: true},
	}
}

func (f *filterOperation) Apply(d *dataset.Dataset, params Params) (*dataset.Dataset, error) {
	src := params.String("expr")

	if err := checkReferencedColumns(src, d); err != nil {
		return nil, err
	}

	program, err := f.compile(src)
	if err != nil {
		return nil, NewInvalidExpressionError(OpFilter, "malformed filter expression", err)
	}

	rows := d.Rows()
	kept := make([]dataset.Row, 0, len(rows))
	env := make(map[string]any, d.NumColumns())

	for i, row := range rows {
		for _, col := range d.Columns() {
			env[col] = row[col].Native()
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return nil, NewInvalidExpressionError(OpFilter,
				fmt.Sprintf("evaluation failed on row %d", i), err)
		}
		keep, ok := out.(bool)
		if !ok {
			return nil, NewInvalidExpressionError(OpFilter,
				fmt.Sprintf("expression must evaluate to a boolean, got %T", out), nil)
		}
		if keep {
			kept = append(kept, row)
		}
	}

	return d.WithRows(kept)
}

func (f *filterOperation) compile(src string) (*vm.Program, error) {
	f.mu.RLock()
	if program, ok := f.cache[src]; ok {
		f.mu.RUnlock()
		return program, nil
	}
	f.mu.RUnlock()

	program, err := expr.Compile(src, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.cache[src] = program
	f.mu.Unlock()
	return program, nil
}

// columnCollector gathers free identifiers from an expression AST.
type columnCollector struct {
	names map[string]struct{}
}

func (c *columnCollector) Visit(node *ast.Node) {
	if id, ok := (*node).(*ast.IdentifierNode); ok {
		c.names[id.Value] = struct{}{}
	}
}

// checkReferencedColumns parses the expression and rejects it when it is
// syntactically malformed or references a name outside the dataset's columns.
func checkReferencedColumns(src string, d *dataset.Dataset) error {
	tree, err := parser.Parse(src)
	if err != nil {
		return NewInvalidExpressionError(OpFilter, "malformed filter expression", err)
	}

	collector := &columnCollector{names: make(map[string]struct{})}
	ast.Walk(&tree.Node, collector)

	for name := range collector.names {
		if !d.HasColumn(name) {
			return NewInvalidExpressionError(OpFilter,
				fmt.Sprintf("expression references unknown column %q", name), nil)
		}
	}
	return nil
}
