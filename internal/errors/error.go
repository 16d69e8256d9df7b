package errors

import (
	"bufio"
	"fmt"
	"os"
)

// Category represents the type of error.
type Category string

const (
	CategoryFrame    Category = "frame"
	CategoryTree     Category = "tree"
	CategoryStyle    Category = "style"
	CategoryProtocol Category = "protocol"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// Location represents a position in a configuration or stylesheet file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// SceneError is a structured error with a code, optional file location and
// a fix suggestion.
type SceneError struct {
	// Code is a unique error identifier (e.g., "E020").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the file position the error refers to, if any.
	Location *Location

	// Context contains the lines around Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *SceneError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *SceneError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds a file position and reads the surrounding lines.
func (e *SceneError) WithLocation(file string, line, column int) *SceneError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *SceneError) WithSuggestion(s string) *SceneError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *SceneError) WithDetail(d string) *SceneError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *SceneError) Wrap(err error) *SceneError {
	e.Wrapped = err
	return e
}

// readContextLines reads up to contextSize lines centered on targetLine.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	start := targetLine - contextSize/2
	end := targetLine + contextSize/2

	var lines []string
	scanner := bufio.NewScanner(file)
	for n := 1; scanner.Scan() && n <= end; n++ {
		if n >= start {
			lines = append(lines, scanner.Text())
		}
	}
	return lines
}

// New creates a SceneError from a registered error code.
func New(code string) *SceneError {
	template, ok := registry[code]
	if !ok {
		return &SceneError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &SceneError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a SceneError with a formatted message and no code.
func Newf(category Category, format string, args ...any) *SceneError {
	return &SceneError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError converts err into a SceneError. Errors that already are one are
// returned as is; known sentinel errors map to their registered code, and
// everything else gets fallback.
func FromError(err error, fallback string) *SceneError {
	if err == nil {
		return nil
	}
	var se *SceneError
	if As(err, &se) {
		return se
	}
	code := Classify(err)
	if code == "" {
		code = fallback
	}
	return New(code).Wrap(err)
}
