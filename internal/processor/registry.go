package processor

import (
	"fmt"
	"sync"
)

// Registry maps operation names to implementations. It is the only extension
// point of the engine: new transformations become available by registration,
// never by editing engine code.
//
// Registration should be confined to application startup when a registry is
// shared across goroutines; lookups are guarded by a read lock.
type Registry struct {
	mu    sync.RWMutex
	ops   map[string]Operation
	order []string // registration order
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ops:   make(map[string]Operation),
		order: make([]string, 0),
	}
}

// Register adds an operation under its name. Registering a name twice fails
// with a duplicate_operation error; overriding requires an explicit Replace
// call.
func (r *Registry) Register(op Operation) error {
	if op == nil {
		return fmt.Errorf("cannot register nil operation")
	}
	name := op.Name()
	if name == "" {
		return fmt.Errorf("operation name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[name]; exists {
		return NewDuplicateOperationError(name)
	}

	r.ops[name] = op
	r.order = append(r.order, name)
	return nil
}

// Replace registers an operation, deterministically overriding any existing
// registration under the same name. The original registration position is
// kept for an overridden name.
func (r *Registry) Replace(op Operation) error {
	if op == nil {
		return fmt.Errorf("cannot register nil operation")
	}
	name := op.Name()
	if name == "" {
		return fmt.Errorf("operation name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[name]; !exists {
		r.order = append(r.order, name)
	}
	r.ops[name] = op
	return nil
}

// Resolve retrieves an operation by name, failing with an unknown_operation
// error when no operation is registered under it.
func (r *Registry) Resolve(name string) (Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, exists := r.ops[name]
	if !exists {
		return nil, NewUnknownOperationError(name)
	}
	return op, nil
}

// Has reports whether an operation is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.ops[name]
	return exists
}

// Names returns all registered operation names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Count returns the number of registered operations.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.ops)
}
