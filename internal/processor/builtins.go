package processor

// RegisterBuiltins registers the built-in operation set on a registry:
// filter, sort, group_aggregate, merge, select and limit. It fails with a
// duplicate_operation error if any of these names is already taken.
func RegisterBuiltins(r *Registry) error {
	ops := []Operation{
		newFilterOperation(),
		sortOperation{},
		groupAggregateOperation{},
		mergeOperation{},
		selectOperation{},
		limitOperation{},
	}
	for _, op := range ops {
		if err := r.Register(op); err != nil {
			return err
		}
	}
	return nil
}
