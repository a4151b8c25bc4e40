// Package apierror defines the tagged error returned across the service
// boundary and rendered on the wire as
//
//	{"error":{"code":"validation_error","message":"Validation failed","details":{...}}}
//
// Callers switch on Kind; every value of Kind maps to exactly one code and
// HTTP status.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/catalog/pkg/validate"
)

// Kind enumerates the failure classes a caller must handle.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
)

const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
	CodeInternal   = "internal_error"

	MessageValidation = "Validation failed"
	MessageInternal   = "Something went wrong"
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Status is the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is the boundary error. Details is only set for KindValidation.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details validate.Errors

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Status is the HTTP status code the error is rendered with.
func (e *Error) Status() int { return e.Kind.Status() }

// Validation builds a KindValidation error carrying per-field messages.
func Validation(details validate.Errors) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: MessageValidation, Details: details}
}

// NotFound builds a KindNotFound error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: message}
}

// Unknown hides cause behind the generic message. The cause stays reachable
// through errors.Unwrap for logging.
func Unknown(cause error) *Error {
	return &Error{Kind: KindUnknown, Code: CodeInternal, Message: MessageInternal, cause: cause}
}

// From returns err as an *Error, classifying anything else as KindUnknown.
// A nil err returns nil.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Unknown(err)
}

// Is reports whether err is an *Error of kind k.
func Is(err error, k Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == k
}

// ─── Wire format ─────────────────────────────────────────────────────────────

// Body is the inner object of the error envelope.
type Body struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details validate.Errors `json:"details,omitempty"`
}

// Envelope is the top-level JSON object for every error response.
type Envelope struct {
	Error Body `json:"error"`
}

// Envelope renders e for the wire.
func (e *Error) Envelope() Envelope {
	body := Body{Code: e.Code, Message: e.Message}
	if e.Kind == KindValidation {
		body.Details = e.Details
	}
	return Envelope{Error: body}
}

// Decode turns an HTTP error response back into an *Error. Anything that is
// not a recognised validation or not-found envelope becomes KindUnknown.
func Decode(status int, raw []byte) *Error {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error.Code == "" {
		return Unknown(fmt.Errorf("unexpected response: status %d", status))
	}

	switch {
	case env.Error.Code == CodeValidation || status == http.StatusUnprocessableEntity:
		details := env.Error.Details
		if details == nil {
			details = validate.Errors{}
		}
		e := Validation(details)
		if env.Error.Message != "" {
			e.Message = env.Error.Message
		}
		return e
	case env.Error.Code == CodeNotFound || status == http.StatusNotFound:
		return NotFound(env.Error.Message)
	default:
		return Unknown(fmt.Errorf("%s (status %d): %s", env.Error.Code, status, env.Error.Message))
	}
}
