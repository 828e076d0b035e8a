// Package apperr defines the error kinds reported to callers of the template
// store and the dispatch service.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation          Kind = "Validation"
	KindConfiguration       Kind = "Configuration"
	KindStorage             Kind = "Storage"
	KindTemplateUnavailable Kind = "TemplateUnavailable"
	KindDelivery            Kind = "Delivery"
)

// Error carries a human-readable message for the caller and the underlying
// cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Details returns the cause message, or an empty string when there is none.
// A nested *Error contributes its own details.
func (e *Error) Details() string {
	if e.Err == nil {
		return ""
	}
	var inner *Error
	if errors.As(e.Err, &inner) && inner.Err != nil {
		return inner.Details()
	}
	return e.Err.Error()
}

// Validation reports bad or missing caller input.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Configuration reports required send-time configuration that is absent.
func Configuration(msg string, err error) error {
	return &Error{Kind: KindConfiguration, Message: msg, Err: err}
}

// Storage reports a template read/write I/O failure.
func Storage(msg string, err error) error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

// TemplateUnavailable reports that the stored template could not be loaded
// as the body of a send.
func TemplateUnavailable(msg string, err error) error {
	return &Error{Kind: KindTemplateUnavailable, Message: msg, Err: err}
}

// Delivery reports that the transport rejected or failed to send a message.
func Delivery(msg string, err error) error {
	return &Error{Kind: KindDelivery, Message: msg, Err: err}
}

// As extracts an *Error from the chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or an empty Kind for foreign errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}

// IsKind checks whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
