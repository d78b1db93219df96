package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrIO indicates an input file that could not be opened or read.
	ErrIO = errors.New("loader: cannot read input")

	// ErrParse indicates a malformed line in an input file.
	ErrParse = errors.New("loader: malformed input")
)

// ParseError describes the offending line of an input file.
type ParseError struct {
	Source string
	Line   int
	Token  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: bad token %q: %v", e.Source, e.Line, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
