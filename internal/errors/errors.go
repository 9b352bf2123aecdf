package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrPathNotFound    = errors.New("path does not resolve to a value")
	ErrCyclicValue     = errors.New("value contains a reference cycle")
	ErrUnsupportedType = errors.New("value has a type that cannot be encoded as JSON")
	ErrUnknownFormat   = errors.New("unknown report format")
	ErrRemoteFailure   = errors.New("comparison service reported a failure")
	ErrAliasExpansion  = errors.New("aliases expand to too many nodes")
	ErrComplexKey      = errors.New("mapping key is not a scalar")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput         ErrorType = "input"
	ErrorTypeParsing       ErrorType = "parsing"
	ErrorTypePath          ErrorType = "path"
	ErrorTypeSerialization ErrorType = "serialization"
	ErrorTypeCompare       ErrorType = "compare"
	ErrorTypeReport        ErrorType = "report"
	ErrorTypeOutput        ErrorType = "output"
	ErrorTypeConfig        ErrorType = "config"
	ErrorTypeUnknown       ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	// Check if target is also an *AppError and if the types match
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newError(t ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: message,
		Err:     err,
	}
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return newError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return newError(ErrorTypeParsing, message, err)
}

// NewPathError creates a new error for a path that does not address a value
func NewPathError(message string, err error) *AppError {
	return newError(ErrorTypePath, message, err)
}

// NewSerializationError creates a new error for a value that cannot be encoded
func NewSerializationError(message string, err error) *AppError {
	return newError(ErrorTypeSerialization, message, err)
}

// NewCompareError creates a new error raised while computing a diff
func NewCompareError(message string, err error) *AppError {
	return newError(ErrorTypeCompare, message, err)
}

// NewReportError creates a new error related to report generation
func NewReportError(message string, err error) *AppError {
	return newError(ErrorTypeReport, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newError(ErrorTypeOutput, message, err)
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return newError(ErrorTypeConfig, message, err)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypePath:
			return fmt.Sprintf("Path error: %s", appErr.Message)
		case ErrorTypeSerialization:
			return fmt.Sprintf("Serialization error: %s", appErr.Message)
		case ErrorTypeCompare:
			return fmt.Sprintf("Comparison error: %s", appErr.Message)
		case ErrorTypeReport:
			return fmt.Sprintf("Report error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single JSON document."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrUnknownFormat) {
		return "Error: Unknown report format. Use markdown, json, csv or html."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
