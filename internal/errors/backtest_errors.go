package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCategory represents the part of the pipeline an error came from
type ErrorCategory string

const (
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"
	ErrorCategoryData          ErrorCategory = "DATA"
	ErrorCategoryExchange      ErrorCategory = "EXCHANGE"
	ErrorCategoryValidation    ErrorCategory = "VALIDATION"
	ErrorCategoryReport        ErrorCategory = "REPORT"
)

// BacktestError represents a categorized error with context
type BacktestError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *BacktestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%v", k, e.Context[k])
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(pairs, ", "))
	}

	if e.Underlying != nil {
		fmt.Fprintf(&b, ": %v", e.Underlying)
	}
	return b.String()
}

// Unwrap returns the underlying error for error unwrapping
func (e *BacktestError) Unwrap() error {
	return e.Underlying
}

// New creates a new categorized error
func New(category ErrorCategory, component, operation, message string) *BacktestError {
	return &BacktestError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with category context. Callers must pass a
// non-nil error.
func Wrap(err error, category ErrorCategory, component, operation string) *BacktestError {
	return &BacktestError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *BacktestError) WithContext(key string, value interface{}) *BacktestError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithMessage replaces the default message
func (e *BacktestError) WithMessage(message string) *BacktestError {
	e.Message = message
	return e
}

// CategoryOf returns the category of the outermost BacktestError in err's chain
func CategoryOf(err error) (ErrorCategory, bool) {
	var btErr *BacktestError
	if stderrors.As(err, &btErr) {
		return btErr.Category, true
	}
	return "", false
}

// IsCategory reports whether err carries the given category
func IsCategory(err error, category ErrorCategory) bool {
	c, ok := CategoryOf(err)
	return ok && c == category
}

// IsFatal returns whether the CLI should stop rather than skip the failing step
func (e *BacktestError) IsFatal() bool {
	return e.Category == ErrorCategoryConfiguration || e.Category == ErrorCategoryValidation
}

// CategorizeError attempts to categorize a generic error
func CategorizeError(err error, component, operation string) *BacktestError {
	if err == nil {
		return nil
	}

	var btErr *BacktestError
	if stderrors.As(err, &btErr) {
		return btErr
	}

	errMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "context deadline exceeded"),
		strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "dial"),
		strings.Contains(errMsg, "rate limit") || strings.Contains(errMsg, "bybit"):
		return Wrap(err, ErrorCategoryExchange, component, operation)
	case strings.Contains(errMsg, "yaml") || strings.Contains(errMsg, "config"):
		return Wrap(err, ErrorCategoryConfiguration, component, operation)
	case strings.Contains(errMsg, "invalid") || strings.Contains(errMsg, "must be"):
		return Wrap(err, ErrorCategoryValidation, component, operation)
	default:
		return Wrap(err, ErrorCategoryData, component, operation)
	}
}

// Common error constructors
func NewConfigurationError(component, operation, message string) *BacktestError {
	return New(ErrorCategoryConfiguration, component, operation, message)
}

func NewValidationError(component, operation, message string) *BacktestError {
	return New(ErrorCategoryValidation, component, operation, message)
}

func NewDataError(component, operation string, err error) *BacktestError {
	return Wrap(err, ErrorCategoryData, component, operation)
}

func NewExchangeError(component, operation string, err error) *BacktestError {
	return Wrap(err, ErrorCategoryExchange, component, operation)
}

func NewReportError(component, operation string, err error) *BacktestError {
	return Wrap(err, ErrorCategoryReport, component, operation)
}
