package services

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindConfiguration ErrorKind = iota + 1
	KindUpstreamParse
	KindUpstreamContent
	KindNotFound
	KindInvalidInput
)

// Error is a failure the HTTP layer knows how to present. Message is safe
// to show to the client; Err keeps the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ConfigurationError reports a missing credential or setting.
func ConfigurationError(msg string) error {
	return &Error{Kind: KindConfiguration, Message: msg}
}

// ParseError reports model output that could not be decoded.
func ParseError(msg string, err error) error {
	return &Error{Kind: KindUpstreamParse, Message: msg, Err: err}
}

// ContentError reports that the model refused or could not see the subject.
func ContentError(msg string) error {
	return &Error{Kind: KindUpstreamContent, Message: msg}
}

func NotFoundError(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func InvalidInputError(msg string) error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
