package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of the cause
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode replaces the code of an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost coded error in the chain,
// "INTERNAL_ERROR" for foreign errors and "" for nil.
func GetCode(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	var distErr *DistributionError
	if stderrors.As(err, &distErr) {
		return CodeInvalidDistribution
	}
	var groupErr *EmptyGroupError
	if stderrors.As(err, &groupErr) {
		return CodeEmptyGroup
	}
	return CodeInternalError
}

// Predefined error codes
const (
	CodeConfigInvalid       = "CONFIG_INVALID"
	CodeValidationError     = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInvalidDistribution = "INVALID_DISTRIBUTION"
	CodeEmptyGroup          = "EMPTY_GROUP"
)

// Sentinels for errors.Is checks against the typed sampling errors.
var (
	ErrInvalidDistribution = stderrors.New("invalid distribution")
	ErrEmptyGroup          = stderrors.New("empty group")
)

// DistributionError reports weights that do not form a probability
// distribution. Sum is the computed total of all weights.
type DistributionError struct {
	Sum     float64
	Epsilon float64
	Reason  string
}

func (e *DistributionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid distribution: %s (sum of weights %v)", e.Reason, e.Sum)
	}
	return fmt.Sprintf("invalid distribution: sum of weights %v is not within %g of 1.0", e.Sum, e.Epsilon)
}

func (e *DistributionError) Is(target error) bool {
	return target == ErrInvalidDistribution
}

// EmptyGroupError reports a group with no members.
type EmptyGroupError struct {
	Index int
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("group %d has no members", e.Index)
}

func (e *EmptyGroupError) Is(target error) bool {
	return target == ErrEmptyGroup
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func InvalidDistribution(sum, epsilon float64) *DistributionError {
	return &DistributionError{Sum: sum, Epsilon: epsilon}
}

func EmptyGroup(index int) *EmptyGroupError {
	return &EmptyGroupError{Index: index}
}
