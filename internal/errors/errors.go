package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput       = errors.New("input is empty or contains only whitespace")
	ErrTrailingData     = errors.New("unexpected data after the top-level value")
	ErrDepthExceeded    = errors.New("maximum nesting depth exceeded")
	ErrTypeMismatch     = errors.New("json node does not represent the requested type")
	ErrPropertyNotFound = errors.New("json node has no such property")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrFileNotFound     = errors.New("file not found")
	ErrFileEmpty        = fmt.Errorf("file is empty: %w", ErrEmptyInput)
	ErrNoInput          = errors.New("no input provided: please specify a file or pipe JSON data to stdin")
	ErrInvalidFilePath  = errors.New("invalid file path")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput    ErrorType = "input"
	ErrorTypeParsing  ErrorType = "parsing"
	ErrorTypeType     ErrorType = "type"
	ErrorTypeProperty ErrorType = "property"
	ErrorTypeArgument ErrorType = "argument"
	ErrorTypeOutput   ErrorType = "output"
	ErrorTypeUnknown  ErrorType = "unknown"
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
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ParseError reports a grammar violation or an IO failure at a source position.
// Line and Column are 1-based.
type ParseError struct {
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("at line %d, column %d. %s", e.Line, e.Column, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a ParseError at the given position
func NewParseError(line, column int, message string, err error) *ParseError {
	return &ParseError{
		Line:    line,
		Column:  column,
		Message: message,
		Err:     err,
	}
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewTypeMismatchError reports a strict accessor used on a node of another kind
func NewTypeMismatchError(want, got string) *AppError {
	return &AppError{
		Type:    ErrorTypeType,
		Message: fmt.Sprintf("json node does not represent %s value (found %s)", want, got),
		Err:     ErrTypeMismatch,
	}
}

// NewPropertyNotFoundError reports a strict property lookup miss
func NewPropertyNotFoundError(name string) *AppError {
	return &AppError{
		Type:    ErrorTypeProperty,
		Message: fmt.Sprintf("json node has not property %q", name),
		Err:     ErrPropertyNotFound,
	}
}

// NewArgumentError creates a new error for a disallowed construction input
func NewArgumentError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeArgument,
		Message: message,
		Err:     ErrInvalidArgument,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		// A parsing AppError around the position names the source
		prefix := "JSON parsing error"
		if errors.As(err, &appErr) && appErr.Type == ErrorTypeParsing {
			prefix += " in " + appErr.Message
		}
		switch {
		case errors.Is(parseErr, ErrEmptyInput):
			return "Error: The input is empty. Please provide JSON data."
		case errors.Is(parseErr, ErrDepthExceeded):
			return fmt.Sprintf("%s: nesting too deep at line %d, column %d", prefix, parseErr.Line, parseErr.Column)
		default:
			return fmt.Sprintf("%s: %s", prefix, parseErr.Error())
		}
	}

	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeType:
			return fmt.Sprintf("Type error: %s", appErr.Message)
		case ErrorTypeProperty:
			return fmt.Sprintf("Property error: %s", appErr.Message)
		case ErrorTypeArgument:
			return fmt.Sprintf("Invalid argument: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// ErrFileEmpty wraps ErrEmptyInput, so it is checked first
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with JSON content."
	}
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide JSON data."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	return fmt.Sprintf("Error: %v", err)
}
