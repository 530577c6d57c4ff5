package scrobble

import (
	"errors"
	"fmt"
)

var (
	ErrTruncatedRecord      = errors.New("truncated record")
	ErrInvalidTrackPosition = errors.New("invalid track position")
	ErrInvalidDuration      = errors.New("invalid duration")
	ErrInvalidRating        = errors.New("invalid rating")
	ErrInvalidTimestamp     = errors.New("invalid timestamp")
)

// ParseError describes why a line could not be decoded into a Record.
type ParseError struct {
	// Kind is one of the Err* sentinels of this package.
	Kind error

	// Field is the offending raw field text. For truncated records it is the
	// input left over after the last complete field.
	Field string

	// Err is the underlying conversion error, if any.
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v %q: %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("%v %q", e.Kind, e.Field)
}

// Unwrap exposes both the sentinel kind and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func parseError(kind error, field string, cause error) *ParseError {
	return &ParseError{Kind: kind, Field: field, Err: cause}
}
