package core

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("parse error")
	// ErrIndex is matched by every *IndexError.
	ErrIndex = errors.New("index out of range")
	// ErrInvalidConfig is returned when a configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ParseError reports a record that could not be decoded.
type ParseError struct {
	// Line is the 1-based line number of the record, 0 when unknown.
	Line int
	// Record is the leading token of the offending record ("v", "f", ...),
	// empty when the line could not be read at all.
	Record string
	Reason string
	// Err is the underlying strconv error, if any.
	Err error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	if e.Record != "" {
		msg = fmt.Sprintf("line %d: malformed %q record: %s", e.Line, e.Record, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// IndexError reports a reference to an attribute that does not exist.
type IndexError struct {
	Line int
	// Attribute names the pool: "position", "normal" or "texcoord".
	Attribute string
	// Index is 0-based.
	Index int
	// Len is the size of the pool at the time of the lookup.
	Len int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("line %d: %s index %d out of range (pool has %d entries)", e.Line, e.Attribute, e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndex
}
