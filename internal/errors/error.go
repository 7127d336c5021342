package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig Category = "config"
	CategoryPage   Category = "page"
	CategoryBuild  Category = "build"
	CategoryDev    Category = "dev"
	CategoryCLI    Category = "cli"
)

// Location represents a source location.
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

// JmlError is a structured error with source location and suggestions.
type JmlError struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the source location where the error occurred.
	Location *Location

	// Context contains surrounding source lines.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows the correct approach.
	Example string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *JmlError) Error() string {
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
func (e *JmlError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds source location to the error.
func (e *JmlError) WithLocation(file string, line, column int) *JmlError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// locationPattern matches "file:line:col" and the HCL "file:line,col-col" form.
var locationPattern = regexp.MustCompile(`^([^:\s]+):(\d+)[:,](\d+)`)

// WithLocationFromError extracts a location from an error message that
// starts with one.
func (e *JmlError) WithLocationFromError(err error) *JmlError {
	if err == nil {
		return e
	}
	m := locationPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return e
	}
	line, _ := strconv.Atoi(m[2])
	col, _ := strconv.Atoi(m[3])
	if line > 0 {
		e.WithLocation(m[1], line, col)
	}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *JmlError) WithSuggestion(s string) *JmlError {
	e.Suggestion = s
	return e
}

// WithExample adds an example to the error.
func (e *JmlError) WithExample(ex string) *JmlError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *JmlError) WithDetail(d string) *JmlError {
	e.Detail = d
	return e
}

// WithContext adds custom context lines to the error.
func (e *JmlError) WithContext(lines []string) *JmlError {
	e.Context = lines
	return e
}

// Wrap wraps another error.
func (e *JmlError) Wrap(err error) *JmlError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}
	return lines
}

// New creates a JmlError from a registered error code.
func New(code string) *JmlError {
	template, ok := registry[code]
	if !ok {
		return &JmlError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &JmlError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new JmlError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *JmlError {
	return &JmlError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a JmlError. An error that already
// is, or wraps, a JmlError is returned unchanged.
func FromError(err error, code string) *JmlError {
	if err == nil {
		return nil
	}
	var je *JmlError
	if stderrors.As(err, &je) {
		return je
	}
	return New(code).Wrap(err).WithLocationFromError(err)
}
