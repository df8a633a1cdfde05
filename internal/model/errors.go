package model

import (
	"errors"
	"fmt"
)

// ErrNotFound marks an input file that does not exist.
var ErrNotFound = errors.New("input not found")

// ParseError describes a malformed row, column or feature in an input file.
// Row is 1-based and counts the header; zero means the error is not tied to a row.
type ParseError struct {
	Path   string
	Row    int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "parse " + e.Path
	if e.Row > 0 {
		msg += fmt.Sprintf(" row %d", e.Row)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" column %q", e.Column)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError builds a ParseError from a message.
func NewParseError(path string, row int, column, msg string) *ParseError {
	return &ParseError{Path: path, Row: row, Column: column, Err: errors.New(msg)}
}

// IsNotFound returns true if err (or any error in its chain) is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsParse returns true if err (or any error in its chain) is a ParseError.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
