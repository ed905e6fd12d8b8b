// The errors package provides additional error primitives, and the error kinds
// shared by the trfile codecs.
package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

func New(text string) error {
	return errors.New(text)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message. Returns nil if err is nil.
func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return pkgerrors.Wrapf(err, format, args...)
}

////////////////////////////////////////////////////////////////

var (
	// Indicates a read past the end of the input.
	ErrTruncatedInput = errors.New("truncated input")
	// Indicates a generation tag that has no layout for a record.
	ErrUnsupportedGeneration = errors.New("unsupported generation")
	// Indicates a record whose content contradicts its layout, such as a
	// mismatched marker.
	ErrCorruptRecord = errors.New("corrupt record")
	// Indicates a string table offset outside of its slab.
	ErrCorruptStringTable = errors.New("corrupt string table")
	// Indicates a container whose compressed stream fails to decompress.
	ErrDecompressionFailure = errors.New("decompression failure")
)

// DataError wraps an error that occurred while encoding or decoding byte data.
type DataError struct {
	// Offset is the byte offset where the error occurred. A negative offset
	// indicates that the location is unknown.
	Offset int64

	Cause error
}

func (err DataError) Error() string {
	var s strings.Builder
	s.WriteString("data error")
	if err.Offset >= 0 {
		s.WriteString(" at ")
		s.Write(strconv.AppendInt(nil, err.Offset, 10))
	}
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err DataError) Unwrap() error {
	return err.Cause
}

// GenerationError indicates that a record has no layout for a generation.
type GenerationError struct {
	// Record names the record type being dispatched.
	Record string
	// Generation is the offending tag.
	Generation fmt.Stringer
}

func (err GenerationError) Error() string {
	if err.Record == "" {
		return fmt.Sprintf("unsupported generation %s", err.Generation)
	}
	return fmt.Sprintf("%s: unsupported generation %s", err.Record, err.Generation)
}

func (err GenerationError) Unwrap() error {
	return ErrUnsupportedGeneration
}

////////////////////////////////////////////////////////////////

// Errors is a list of errors.
type Errors []error

// Errors formats the list by separating each message with a newline. Each
// produced line, including lines within messages, is prefixed with a tab.
func (errs Errors) Error() string {
	switch len(errs) {
	case 0:
		return "no errors"
	case 1:
		return errs[0].Error()
	default:
		var buf strings.Builder
		buf.WriteString("multiple errors:")
		for _, err := range errs {
			buf.WriteString("\n\t")
			msg := err.Error()
			msg = strings.ReplaceAll(msg, "\n", "\n\t")
			buf.WriteString(msg)
		}
		return buf.String()
	}
}

// Unwrap returns the errors in the list, so that Is and As match against each
// of them.
func (errs Errors) Unwrap() []error {
	return errs
}

// Append returns errs with each err appended to it. Arguments that are nil are
// skipped.
func (errs Errors) Append(err ...error) Errors {
	for _, err := range err {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Return prepares errs to be returned by a function by returning nil if errs is
// empty.
func (errs Errors) Return() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Union receives a number of errors and combines them into one Errors. Any errs
// that are Errors are concatenated directly. Returns nil if all errs are nil or
// empty.
func Union(errs ...error) error {
	var e Errors
	for _, err := range errs {
		switch err := err.(type) {
		case nil:
			continue
		case Errors:
			for _, err := range err {
				if err != nil {
					e = append(e, err)
				}
			}
		default:
			e = append(e, err)
		}
	}
	return e.Return()
}
