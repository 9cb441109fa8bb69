package processor

import (
	"errors"
	"fmt"
)

// ErrType classifies operation errors. Every failure surfaced by the engine
// carries exactly one of these; callers branch on the type, never on message
// text.
type ErrType string

const (
	ErrTypeUnknownOperation     ErrType = "unknown_operation"
	ErrTypeDuplicateOperation   ErrType = "duplicate_operation"
	ErrTypeParameterValidation  ErrType = "parameter_validation"
	ErrTypeInvalidExpression    ErrType = "invalid_expression"
	ErrTypeUnknownColumn        ErrType = "unknown_column"
	ErrTypeUnsupportedAggregate ErrType = "unsupported_aggregate"
	ErrTypeJoinKeyMismatch      ErrType = "join_key_mismatch"
	ErrTypeExecution            ErrType = "execution"
)

// OperationError is the error type returned by the registry and the engine.
// All of these are operation-input errors: they are reported to the caller
// immediately and never silently corrected.
type OperationError struct {
	Type      ErrType `json:"type"`
	Operation string  `json:"operation,omitempty"`
	Message   string  `json:"message"`
	Cause     error   `json:"-"`
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	if e == nil {
		return "unknown operation error"
	}
	if e.Operation != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Operation, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewUnknownOperationError reports a name with no registered operation.
func NewUnknownOperationError(name string) *OperationError {
	return &OperationError{
		Type:      ErrTypeUnknownOperation,
		Operation: name,
		Message:   "no operation registered under this name",
	}
}

// NewDuplicateOperationError reports a registration conflict.
func NewDuplicateOperationError(name string) *OperationError {
	return &OperationError{
		Type:      ErrTypeDuplicateOperation,
		Operation: name,
		Message:   "operation already registered; use Replace to override",
	}
}

// NewParameterValidationError reports a missing or mis-typed parameter.
func NewParameterValidationError(operation, message string) *OperationError {
	return &OperationError{
		Type:      ErrTypeParameterValidation,
		Operation: operation,
		Message:   message,
	}
}

// NewInvalidExpressionError reports a malformed predicate expression or one
// referencing an unknown column.
func NewInvalidExpressionError(operation, message string, cause error) *OperationError {
	return &OperationError{
		Type:      ErrTypeInvalidExpression,
		Operation: operation,
		Message:   message,
		Cause:     cause,
	}
}

// NewUnknownColumnError reports a reference to a column the dataset does not
// declare.
func NewUnknownColumnError(operation, column string) *OperationError {
	return &OperationError{
		Type:      ErrTypeUnknownColumn,
		Operation: operation,
		Message:   fmt.Sprintf("unknown column %q", column),
	}
}

// NewUnsupportedAggregateError reports an unrecognized aggregate function name.
func NewUnsupportedAggregateError(operation, fn string) *OperationError {
	return &OperationError{
		Type:      ErrTypeUnsupportedAggregate,
		Operation: operation,
		Message:   fmt.Sprintf("unsupported aggregate function %q", fn),
	}
}

// NewJoinKeyMismatchError reports join-key columns absent from one side of a
// merge.
func NewJoinKeyMismatchError(operation, side, column string) *OperationError {
	return &OperationError{
		Type:      ErrTypeJoinKeyMismatch,
		Operation: operation,
		Message:   fmt.Sprintf("join key %q missing from %s dataset", column, side),
	}
}

// NewExecutionError wraps an operation runtime failure.
func NewExecutionError(operation string, cause error) *OperationError {
	return &OperationError{
		Type:      ErrTypeExecution,
		Operation: operation,
		Message:   "operation execution failed",
		Cause:     cause,
	}
}

var (
	errNoData    = errors.New("no data set; call SetData first")
	errNilResult = errors.New("operation returned a nil dataset")
)

// TypeOf returns the classification of err, or the empty string when err is
// not an OperationError.
func TypeOf(err error) ErrType {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Type
	}
	return ""
}

// IsType reports whether err is an OperationError of the given type.
func IsType(err error, t ErrType) bool {
	return TypeOf(err) == t
}
