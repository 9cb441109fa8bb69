package processor

import (
	"log/slog"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
)

// Processor orchestrates operation execution over a current dataset handle.
// It resolves operation names through its registry, validates parameters
// against the operation's schema, and replaces the current handle only when
// execution fully succeeds. A failed Apply leaves the current handle exactly
// as it was.
//
// The engine knows nothing about concrete operation logic; the registry
// contract is its whole view of the world.
type Processor struct {
	registry *Registry
	logger   *slog.Logger
	current  *dataset.Dataset
}

// New creates a processor backed by the given registry. A nil registry gets a
// fresh empty one; a nil logger falls back to slog.Default.
func New(registry *Registry, logger *slog.Logger) *Processor {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		registry: registry,
		logger:   logger,
	}
}

// Default creates a processor with all built-in operations registered:
// filter, sort, group_aggregate, merge, select and limit.
func Default(logger *slog.Logger) *Processor {
	registry := NewRegistry()
	if err := RegisterBuiltins(registry); err != nil {
		// Built-in names are unique constants; a conflict here is a
		// programming error.
		panic(err)
	}
	return New(registry, logger)
}

// Registry returns the processor's registry for external registration.
func (p *Processor) Registry() *Registry { return p.registry }

// SetData unconditionally replaces the current handle. No history beyond the
// last result is retained; the previous handle stays valid for any caller
// that kept a reference.
func (p *Processor) SetData(d *dataset.Dataset) *Processor {
	p.current = d
	if d != nil {
		p.logger.Debug("data set",
			slog.String("handle", d.ID()),
			slog.Int("rows", d.NumRows()),
			slog.Int("columns", d.NumColumns()))
	}
	return p
}

// Data returns the current dataset handle, or nil when none has been set.
// Consumers must treat the handle as read-only; further transformation goes
// back through Apply.
func (p *Processor) Data() *dataset.Dataset { return p.current }

// Apply resolves the named operation, validates params against its schema,
// executes it against the current handle and records the result as the new
// current handle. Apply is all-or-nothing: on any failure the current handle
// is unchanged and the error is returned as an *OperationError.
func (p *Processor) Apply(name string, params Params) (*dataset.Dataset, error) {
	if p.current == nil {
		return nil, NewExecutionError(name, errNoData)
	}

	op, err := p.registry.Resolve(name)
	if err != nil {
		return nil, err
	}

	normalized, err := validateParams(op, params)
	if err != nil {
		return nil, err
	}

	result, err := op.Apply(p.current, normalized)
	if err != nil {
		p.logger.Debug("operation failed",
			slog.String("operation", name),
			slog.String("error", err.Error()))
		return nil, err
	}
	if result == nil {
		return nil, NewExecutionError(name, errNilResult)
	}

	result.MarkOperation(name)
	p.logger.Info("operation applied",
		slog.String("operation", name),
		slog.Int("rows_in", p.current.NumRows()),
		slog.Int("rows_out", result.NumRows()))

	p.current = result
	return result, nil
}

// Chain starts a fluent operation chain over this processor. Each chained
// Apply is skipped after the first failure, so a pipeline reads top to bottom
// with a single error check at the end.
func (p *Processor) Chain() *Chain {
	return &Chain{p: p}
}

// Chain is the fluent companion to Processor.Apply.
type Chain struct {
	p   *Processor
	err error
}

// Apply applies the named operation unless an earlier step already failed.
func (c *Chain) Apply(name string, params Params) *Chain {
	if c.err != nil {
		return c
	}
	_, c.err = c.p.Apply(name, params)
	return c
}

// Err returns the first error encountered by the chain, if any.
func (c *Chain) Err() error { return c.err }

// Result returns the processor's current handle and the first chain error.
// The handle reflects the last successful step.
func (c *Chain) Result() (*dataset.Dataset, error) {
	return c.p.Data(), c.err
}
