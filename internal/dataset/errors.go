// SPDX-License-Identifier: MIT
package dataset

import (
	"errors"
	"fmt"
)

// ErrorKind names one category of ingestion failure.
type ErrorKind string

const (
	KindMissingChannels ErrorKind = "MissingChannels"
	KindEmptyChannel    ErrorKind = "EmptyChannel"
	KindEmptyInput      ErrorKind = "EmptyInput"
	KindNoNumericValues ErrorKind = "NoNumericValues"
	KindInvalidJSON     ErrorKind = "InvalidJSON"
)

// ValidationError reports input that cannot be turned into a Dataset. It is
// always a problem with the supplied file, never a transient fault, so callers
// should surface it unmodified.
type ValidationError struct {
	Kind ErrorKind
	Msg  string
	Err  error // Underlying cause, if any (e.g. a JSON syntax error).
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is matches any ValidationError of the same Kind, so the sentinels below can
// be used with errors.Is regardless of the message detail.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrMissingChannels = &ValidationError{Kind: KindMissingChannels, Msg: "dataset must include at least one channel"}
	ErrEmptyChannel    = &ValidationError{Kind: KindEmptyChannel, Msg: "channel contains no numeric samples"}
	ErrEmptyInput      = &ValidationError{Kind: KindEmptyInput, Msg: "delimited input is empty"}
	ErrNoNumericValues = &ValidationError{Kind: KindNoNumericValues, Msg: "no numeric values parsed from delimited input"}
	ErrInvalidJSON     = &ValidationError{Kind: KindInvalidJSON, Msg: "dataset is not valid JSON"}
)

// IsValidationError reports whether err (or anything it wraps) is an
// ingestion failure as opposed to a processing defect.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// KindOf returns the Kind of the ValidationError in err's chain, or "" if
// there is none.
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}
