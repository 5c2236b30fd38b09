// Package errs holds the error kinds raised while turning a layout tree into
// a sheet. Configuration and position errors abort the sheet being generated;
// binding and resource errors are recovered where they occur.
package errs

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ConfigurationError reports a markup or caller mistake, such as two mutually
// exclusive options being set on the same element.
type ConfigurationError struct {
	Element string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Element == "" {
		return "configuration: " + e.Reason
	}
	return fmt.Sprintf("configuration: %s: %s", e.Element, e.Reason)
}

// UnresolvedPositionError means a coordinate node never received a valid
// local position. It always points at a defect in tree building.
type UnresolvedPositionError struct {
	Node   int
	Row    int
	Column int
}

func (e *UnresolvedPositionError) Error() string {
	return fmt.Sprintf("unresolved position: node %d at local (%d,%d)", e.Node, e.Row, e.Column)
}

// InvalidStateError reports misuse of a container's cursor, such as placing a
// child at an unset position or moving the cursor backwards.
type InvalidStateError struct {
	Op     string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state: %s: %s", e.Op, e.Reason)
}

// BindingEvaluationError wraps a failure to evaluate a binding expression
// against a data context.
type BindingEvaluationError struct {
	Expr string
	Err  error
}

func (e *BindingEvaluationError) Error() string {
	return fmt.Sprintf("binding %q: %v", e.Expr, e.Err)
}

func (e *BindingEvaluationError) Unwrap() error { return e.Err }

// ResourceNotFoundError reports a missing key in the resource store.
type ResourceNotFoundError struct {
	Key  string
	Kind string
}

func (e *ResourceNotFoundError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("resource %q not found", e.Key)
	}
	return fmt.Sprintf("%s resource %q not found", e.Kind, e.Key)
}

// Configuration returns a ConfigurationError carrying a stack trace.
func Configuration(element, format string, args ...interface{}) error {
	return pkgerrors.WithStack(&ConfigurationError{Element: element, Reason: fmt.Sprintf(format, args...)})
}

// UnresolvedPosition returns an UnresolvedPositionError carrying a stack trace.
func UnresolvedPosition(node, row, col int) error {
	return pkgerrors.WithStack(&UnresolvedPositionError{Node: node, Row: row, Column: col})
}

// InvalidState returns an InvalidStateError carrying a stack trace.
func InvalidState(op, format string, args ...interface{}) error {
	return pkgerrors.WithStack(&InvalidStateError{Op: op, Reason: fmt.Sprintf(format, args...)})
}

// Binding wraps err as a BindingEvaluationError for expr.
func Binding(expr string, err error) error {
	return &BindingEvaluationError{Expr: expr, Err: err}
}

// ResourceNotFound returns a ResourceNotFoundError for key.
func ResourceNotFound(kind, key string) error {
	return &ResourceNotFoundError{Key: key, Kind: kind}
}

func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

func IsUnresolvedPosition(err error) bool {
	var target *UnresolvedPositionError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}

func IsBinding(err error) bool {
	var target *BindingEvaluationError
	return errors.As(err, &target)
}

func IsResourceNotFound(err error) bool {
	var target *ResourceNotFoundError
	return errors.As(err, &target)
}
