// Package fatal defines the error kinds that abort a run. Library code
// returns them as values; only the command line decides to exit.
package fatal

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an Error.
type Kind int

const (
	Other Kind = iota
	FileOpen
	IndexCreate
	IndexLocate
	MateInconsistent
	UnknownReference
	UnknownCigar
	PositionNotFound
	IndexRange
	Inconsistent
	Config
)

var kindNames = map[Kind]string{
	Other:            "error",
	FileOpen:         "file open",
	IndexCreate:      "index creation",
	IndexLocate:      "index location",
	MateInconsistent: "inconsistent mate pair",
	UnknownReference: "unknown reference",
	UnknownCigar:     "unknown cigar operation",
	PositionNotFound: "position not found",
	IndexRange:       "read index out of range",
	Inconsistent:     "inconsistent alignment",
	Config:           "configuration",
}

// String returns the string representation of a Kind
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error is an error carrying a Kind and the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Cause returns the underlying error. It makes Error work with errors.Cause.
func (e *Error) Cause() error {
	return e.Err
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E returns a new Error of kind k for operation op with a formatted message.
func E(k Kind, op string, format string, args ...interface{}) error {
	return &Error{Kind: k, Op: op, Err: errors.Errorf(format, args...)}
}

// Wrap returns a new Error of kind k wrapping err. It returns nil if err is nil.
func Wrap(k Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: k, Op: op, Err: errors.WithStack(err)}
}

// KindOf returns the Kind of the first Error found in the chain of err,
// or Other if there is none.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		c, ok := err.(interface{ Cause() error })
		if !ok {
			break
		}
		next := c.Cause()
		if next == err {
			break
		}
		err = next
	}
	return Other
}

// Is reports whether err has kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
