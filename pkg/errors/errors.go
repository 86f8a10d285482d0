// Package errors provides the structured error types used across bpstudy.
// All constructors attach stack traces via cockroachdb/errors, and the
// structured types implement zerolog's ObjectMarshaler so error details land
// in the run log as fields rather than flattened strings.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// NotFittedError is returned when Predict, Transform or Score is called on an
// estimator before Fit.
type NotFittedError struct {
	EstimatorName string
	Method        string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("bpstudy: %s: this estimator is not fitted yet. Call Fit() before using %s()", e.EstimatorName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("estimator", e.EstimatorName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(estimator, method string) error {
	err := &NotFittedError{EstimatorName: estimator, Method: method}
	return errors.WithStack(err)
}

// DimensionError reports a shape mismatch between related inputs.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("bpstudy: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is invalid for the operation.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("bpstudy: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ValidationError reports a configuration parameter that failed validation.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bpstudy: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ModelError is a general error raised while fitting or applying a model.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bpstudy: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("bpstudy: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// MissingFileError reports an input table that could not be opened.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("bpstudy: input file %q cannot be read: %v", e.Path, e.Err)
}

func (e *MissingFileError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *MissingFileError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Str("type", "MissingFileError")
}

// NewMissingFileError creates a MissingFileError with a stack trace.
func NewMissingFileError(path string, err error) error {
	fileErr := &MissingFileError{Path: path, Err: err}
	return errors.WithStack(fileErr)
}

// SchemaMismatchError reports a table whose columns do not match what an
// operation expects: an unknown column name, a non-numeric column, or a
// header/row width disagreement.
type SchemaMismatchError struct {
	Op     string
	Column string
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("bpstudy: %s: schema mismatch on column %q: %s", e.Op, e.Column, e.Reason)
	}
	return fmt.Sprintf("bpstudy: %s: schema mismatch: %s", e.Op, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *SchemaMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("reason", e.Reason).
		Str("type", "SchemaMismatchError")
}

// NewSchemaMismatchError creates a SchemaMismatchError with a stack trace.
func NewSchemaMismatchError(op, column, reason string) error {
	err := &SchemaMismatchError{Op: op, Column: column, Reason: reason}
	return errors.WithStack(err)
}

// DegenerateColumnError reports a column whose variance is (numerically)
// zero, which makes z-scoring undefined.
type DegenerateColumnError struct {
	Op     string
	Column string
}

func (e *DegenerateColumnError) Error() string {
	return fmt.Sprintf("bpstudy: %s: column %q has zero variance, z-score is undefined", e.Op, e.Column)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DegenerateColumnError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("type", "DegenerateColumnError")
}

// NewDegenerateColumnError creates a DegenerateColumnError with a stack trace.
func NewDegenerateColumnError(op, column string) error {
	err := &DegenerateColumnError{Op: op, Column: column}
	return errors.WithStack(err)
}

// EmptyPartitionError reports a train or test partition that ended up with no
// rows after splitting or filtering.
type EmptyPartitionError struct {
	Op        string
	Partition string // "train" or "test"
	TotalRows int
}

func (e *EmptyPartitionError) Error() string {
	return fmt.Sprintf("bpstudy: %s: %s partition is empty (table has %d rows)", e.Op, e.Partition, e.TotalRows)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *EmptyPartitionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("partition", e.Partition).
		Int("total_rows", e.TotalRows).
		Str("type", "EmptyPartitionError")
}

// NewEmptyPartitionError creates an EmptyPartitionError with a stack trace.
func NewEmptyPartitionError(op, partition string, totalRows int) error {
	err := &EmptyPartitionError{Op: op, Partition: partition, TotalRows: totalRows}
	return errors.WithStack(err)
}

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

var (
	// ErrEmptyData is returned when an operation receives a table or matrix
	// with no rows or no columns.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when the normal equations cannot be
	// solved because X^T X is singular.
	ErrSingularMatrix = New("singular matrix")
)
