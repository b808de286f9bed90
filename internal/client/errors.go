// ABOUTME: Typed error taxonomy for backend gateway failures
// ABOUTME: Distinguishes transport, protocol, application, timeout, and malformed-response errors

package client

import (
	"errors"
	"fmt"
)

// Application error codes defined by the backend envelope contract.
const (
	CodeSuccess          = 0
	CodeParamError       = 10001
	CodeUserExists       = 20001
	CodePasswordError    = 20002
	CodeUserNotFound     = 20003
	CodeTokenInvalid     = 20004
	CodeTokenExpired     = 20005
	CodePasswordWeak     = 20006
	CodeAccountBanned    = 20007
	CodeUnauthorized     = 20008
	CodeForbidden        = 20009
	CodeMultiVersionsOff = 40300
)

// errorMessages maps known backend codes to fallback messages, used when the
// server omits a message in the envelope.
var errorMessages = map[int]string{
	CodeParamError:       "invalid request parameters",
	CodeUserExists:       "user already exists, try another username or email",
	CodePasswordError:    "incorrect password",
	CodeUserNotFound:     "user not found",
	CodeTokenInvalid:     "token is invalid, please log in again",
	CodeTokenExpired:     "token has expired, please log in again",
	CodePasswordWeak:     "password too weak: at least 8 characters with letters and digits",
	CodeAccountBanned:    "account is banned, contact an administrator",
	CodeUnauthorized:     "unauthorized, please log in first",
	CodeForbidden:        "insufficient permissions",
	CodeMultiVersionsOff: "multi-version polishing is not enabled for this account",
}

// MessageForCode returns a human-readable message for a backend error code.
func MessageForCode(code int) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "request failed"
}

// TransportError means the network call itself could not complete.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cannot connect to backend at %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolKind classifies a ProtocolError by its HTTP status.
type ProtocolKind string

const (
	KindUnauthorized ProtocolKind = "unauthorized"
	KindForbidden    ProtocolKind = "forbidden"
	KindNotFound     ProtocolKind = "not found"
	KindServerError  ProtocolKind = "server error"
	KindNotJSON      ProtocolKind = "non-JSON response"
	KindOther        ProtocolKind = "request failed"
)

// protocolKind derives the error sub-kind from an HTTP status code.
func protocolKind(status int) ProtocolKind {
	switch {
	case status == 401:
		return KindUnauthorized
	case status == 403:
		return KindForbidden
	case status == 404:
		return KindNotFound
	case status >= 500:
		return KindServerError
	default:
		return KindOther
	}
}

// ProtocolError means the HTTP exchange completed but the response was not a
// usable envelope: an error status, or a body that is not JSON.
type ProtocolError struct {
	Status int
	Kind   ProtocolKind
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Kind)
}

// ApplicationError is a well-formed envelope with a non-zero code.
type ApplicationError struct {
	Code    int
	Message string
	TraceID string
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("backend error %d: %s", e.Code, e.Message)
}

// RequestTimeoutError means a client-enforced deadline elapsed before the
// backend answered.
type RequestTimeoutError struct {
	Err error
}

func (e *RequestTimeoutError) Error() string { return "request timed out" }

func (e *RequestTimeoutError) Unwrap() error { return e.Err }

// MalformedResponseError is a success envelope missing a field the endpoint
// contract requires.
type MalformedResponseError struct {
	Field string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: missing %s", e.Field)
}

// InvalidatesSession reports whether err is an application error whose code
// means the stored credentials are no longer valid. The gateway itself never
// clears session state; callers use this to decide.
func InvalidatesSession(err error) bool {
	var ae *ApplicationError
	if !errors.As(err, &ae) {
		return false
	}
	return ae.Code == CodeTokenInvalid || ae.Code == CodeUnauthorized
}
