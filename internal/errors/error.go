package errors

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Category represents the kind of diagnostic.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryParams   Category = "params"
	CategoryRedirect Category = "redirect"
	CategorySource   Category = "source"
	CategoryProtocol Category = "protocol"
	CategoryCLI      Category = "cli"
)

// Severity controls how a diagnostic is logged and rendered.
type Severity string

const (
	SeverityWarning Severity = "warn"
	SeverityError   Severity = "error"
)

// Location is a position in a route configuration file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// RouteError is a coded diagnostic with optional route and file context.
type RouteError struct {
	// Code is a unique identifier (e.g., "R002").
	Code string

	Category Category
	Severity Severity

	// Message is a short description.
	Message string

	// Detail is a longer explanation.
	Detail string

	// RoutePath and RouteName identify the route the diagnostic concerns.
	RoutePath string
	RouteName string

	// Location points into a route configuration file, if known.
	Location *Location

	// Context holds the file lines around Location.
	Context []string

	// Suggestion is a hint on how to fix the problem.
	Suggestion string

	// DocURL links to documentation about this code.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.RoutePath != "" {
		msg += " (" + e.RoutePath + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RouteError) Unwrap() error {
	return e.Wrapped
}

// WithRoute attaches the route the diagnostic concerns.
func (e *RouteError) WithRoute(path, name string) *RouteError {
	e.RoutePath = path
	e.RouteName = name
	return e
}

// WithLocation attaches a file position and reads the surrounding lines.
func (e *RouteError) WithLocation(file string, line, column int) *RouteError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion.
func (e *RouteError) WithSuggestion(s string) *RouteError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered explanation.
func (e *RouteError) WithDetail(d string) *RouteError {
	e.Detail = d
	return e
}

// Wrap records the underlying cause.
func (e *RouteError) Wrap(err error) *RouteError {
	e.Wrapped = err
	return e
}

// Attrs returns the structured logging attributes of the diagnostic.
func (e *RouteError) Attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("code", e.Code),
		slog.String("category", string(e.Category)),
	}
	if e.RoutePath != "" {
		attrs = append(attrs, slog.String("path", e.RoutePath))
	}
	if e.RouteName != "" {
		attrs = append(attrs, slog.String("name", e.RouteName))
	}
	if e.Location != nil {
		attrs = append(attrs, slog.String("location", e.Location.String()))
	}
	if e.Wrapped != nil {
		attrs = append(attrs, slog.String("error", e.Wrapped.Error()))
	}
	return attrs
}

// Log writes the diagnostic through logger at its severity. A nil logger
// uses slog.Default().
func (e *RouteError) Log(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelWarn
	if e.Severity == SeverityError {
		level = slog.LevelError
	}
	logger.LogAttrs(context.Background(), level, e.Message, e.Attrs()...)
}

// readContextLines reads lines around targetLine from filename.
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

// New creates a RouteError from a registered code.
func New(code string) *RouteError {
	template, ok := registry[code]
	if !ok {
		return &RouteError{
			Code:     code,
			Severity: SeverityWarning,
			Message:  "Unknown diagnostic",
		}
	}
	return &RouteError{
		Code:     code,
		Category: template.Category,
		Severity: template.Severity,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates an uncoded RouteError with a formatted message.
func Newf(category Category, format string, args ...any) *RouteError {
	return &RouteError{
		Category: category,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err in a RouteError with the given code. A RouteError is
// returned as is.
func FromError(err error, code string) *RouteError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RouteError); ok {
		return re
	}
	return New(code).Wrap(err)
}
