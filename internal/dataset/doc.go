// Package dataset defines the in-memory tabular value type shared by every
// toolkit component: an ordered set of named columns over rows of tagged
// scalar values (integer, float, string, boolean, null).
//
// Handles are immutable by convention. Operations read a handle and build a
// new one via New, WithRows or WithColumns; they never modify rows or columns
// in place. Code holding an older handle therefore always observes a stable
// snapshot, regardless of what later pipeline steps do.
package dataset
