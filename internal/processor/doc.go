// Package processor provides the pluggable tabular-operation engine: named,
// parameterized transformations applied to an in-memory dataset through a
// uniform operation interface.
//
// Core components:
//
// Operation: the transformation contract. One Apply method mapping a dataset
// handle plus a validated parameter set to a new handle. Implementations are
// stateless with respect to the engine.
//
// Registry: a name-to-operation lookup table and the engine's sole extension
// point. New transformations are added purely by registration; neither the
// engine nor existing client code changes.
//
// Processor: the orchestrator. It owns the current dataset handle, resolves
// operation names through the registry, validates parameters against the
// operation's schema, and replaces the handle only on full success. A failed
// Apply leaves engine state untouched.
//
// Built-in operations cover filtering by predicate expression, stable
// multi-key sorting, group-and-aggregate, joins (inner/left/right/outer),
// column projection and row limiting.
//
// Example:
//
//	proc := processor.Default(logger)
//	proc.SetData(ds)
//	result, err := proc.Chain().
//		Apply("filter", processor.Params{"expr": "volume > 0"}).
//		Apply("sort", processor.Params{"by": []string{"price"}, "order": []string{"desc"}}).
//		Apply("limit", processor.Params{"n": 10}).
//		Result()
//
// Custom operations implement the Operation interface and register under a
// fresh name:
//
//	if err := proc.Registry().Register(myResampleOp{}); err != nil { ... }
//	proc.Apply("resample", processor.Params{"every": "1d"})
package processor
