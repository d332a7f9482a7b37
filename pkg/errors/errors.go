// Package errors defines the closed set of error kinds the dispatcher can
// ever return, and the HTTP status / AWS error-type mapping for each one.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind is one of the fixed error categories the emulator can produce. The
// set is intentionally closed: every code path that can fail maps into one
// of these, and the dispatcher relies on that closure to never guess a
// status code.
type Kind string

const (
	KindInvalidOperation   Kind = "InvalidOperation"
	KindSerializationError Kind = "SerializationError"
	KindResourceNotFound   Kind = "ResourceNotFound"
	KindMissingPartitionKey Kind = "MissingPartitionKey"
	KindInvalidPartitionKey Kind = "InvalidPartitionKey"
	KindNoAttributeName    Kind = "NoAttributeName"
	KindNoAttributeValue   Kind = "NoAttributeValue"
	KindParseError         Kind = "ParseError"
	KindUnimplemented      Kind = "Unimplemented"
	KindInternalError      Kind = "InternalError"
)

// awsType is the value DynamoDB puts in the "__type" field of an error
// envelope for each kind. Kinds with no AWS analogue (InvalidOperation,
// ParseError, MissingPartitionKey, InvalidPartitionKey, NoAttributeName,
// NoAttributeValue, Unimplemented) use a generic coral service type, since
// this emulator never claims to reproduce AWS's exact internal exception
// catalogue for conditions AWS itself would validate before parsing ever
// begins.
var awsType = map[Kind]string{
	KindInvalidOperation:    "com.amazon.coral.service#UnknownOperationException",
	KindSerializationError:  "com.amazon.coral.service#SerializationException",
	KindResourceNotFound:    "com.amazonaws.dynamodb.v20120810#ResourceNotFoundException",
	KindMissingPartitionKey: "com.amazon.coral.validate#ValidationException",
	KindInvalidPartitionKey: "com.amazon.coral.validate#ValidationException",
	KindNoAttributeName:     "com.amazon.coral.validate#ValidationException",
	KindNoAttributeValue:    "com.amazon.coral.validate#ValidationException",
	KindParseError:          "com.amazon.coral.validate#ValidationException",
	KindUnimplemented:       "com.amazon.coral.service#UnknownOperationException",
	KindInternalError:       "com.amazon.coral.service#InternalFailure",
}

var httpStatus = map[Kind]int{
	KindInvalidOperation:    http.StatusBadRequest,
	KindSerializationError:  http.StatusBadRequest,
	KindResourceNotFound:    http.StatusBadRequest,
	KindMissingPartitionKey: http.StatusBadRequest,
	KindInvalidPartitionKey: http.StatusBadRequest,
	KindNoAttributeName:     http.StatusBadRequest,
	KindNoAttributeValue:    http.StatusBadRequest,
	KindParseError:          http.StatusBadRequest,
	KindUnimplemented:       http.StatusNotImplemented,
	KindInternalError:       http.StatusInternalServerError,
}

// AWSType returns the "__type" value the dispatcher should put in the error
// envelope for this kind.
func (k Kind) AWSType() string {
	if t, ok := awsType[k]; ok {
		return t
	}
	return awsType[KindInternalError]
}

// HTTPStatus returns the HTTP status code the dispatcher should respond
// with for this kind.
func (k Kind) HTTPStatus() int {
	if s, ok := httpStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is the application error type: a fixed Kind plus a human-readable
// message and, optionally, the underlying cause.
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

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error of the given kind.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an Error of the given kind around an underlying cause.
func Wrap(kind Kind, err error, message string) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// As returns err as an *Error if it (or something it wraps) is one, and
// otherwise wraps it in a new *Error of KindInternalError. Callers use this at the
// dispatcher boundary to decide the HTTP response for an arbitrary error.
func As(err error) *Error {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: KindInternalError, Message: err.Error(), Err: err}
}
