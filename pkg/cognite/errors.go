package cognite

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind classifies every error the client can return, per the error
// taxonomy: API errors selected by HTTP status, plus a fixed set of
// non-API failure kinds.
type ErrorKind int

const (
	KindBadRequest ErrorKind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUnprocessableEntity
	KindOtherAPI
	KindHTTP
	KindEnvMissing
	KindAuthenticatorFailure
	KindInvalidHeader
	KindIO
	KindStreamCollection
	KindMiddlewareFailure
	KindBadConfig
	KindJSONDecode
	KindProtobufDecode
	KindTransportFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "BadRequest"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindUnprocessableEntity:
		return "UnprocessableEntity"
	case KindOtherAPI:
		return "OtherApi"
	case KindHTTP:
		return "Http"
	case KindEnvMissing:
		return "EnvMissing"
	case KindAuthenticatorFailure:
		return "AuthenticatorFailure"
	case KindInvalidHeader:
		return "InvalidHeader"
	case KindIO:
		return "IO"
	case KindStreamCollection:
		return "StreamCollection"
	case KindMiddlewareFailure:
		return "MiddlewareFailure"
	case KindBadConfig:
		return "BadConfig"
	case KindJSONDecode:
		return "JsonDecode"
	case KindProtobufDecode:
		return "ProtobufDecode"
	case KindTransportFailure:
		return "TransportFailure"
	default:
		return "Unknown"
	}
}

// DetailItem is one element of a missing/duplicated detail list: a map of
// field name to an integer, string, or nested object.
type DetailItem map[string]interface{}

// Error is the single structured error type returned throughout the
// client. Kind selects which fields are meaningful; API-kind errors carry
// Code/Message/RequestID and optional detail lists.
type Error struct {
	Kind ErrorKind

	// API error fields.
	Code      int
	Message   string
	Missing   []DetailItem
	Duplicated []DetailItem
	RequestID string

	// Non-API kinds carry a plain message in Message and, optionally, the
	// underlying cause.
	Cause error
}

func (e *Error) Error() string {
	if isAPIKind(e.Kind) {
		if e.RequestID != "" {
			return fmt.Sprintf("%d: %s. RequestId: %s", e.Code, e.Message, e.RequestID)
		}

		return fmt.Sprintf("%d: %s", e.Code, e.Message)
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Cause.Error())
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports equality by Kind, matching the spec's "errors implement
// equality against their kind category" requirement — callers write
// errors.Is(err, &cognite.Error{Kind: cognite.KindNotFound}) to test the
// category without caring about the message or code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Kind == t.Kind
}

func isAPIKind(k ErrorKind) bool {
	switch k {
	case KindBadRequest, KindUnauthorized, KindForbidden, KindNotFound, KindConflict, KindUnprocessableEntity, KindOtherAPI:
		return true
	default:
		return false
	}
}

// apiErrorBody is the wire shape of a CDF error response:
// {"error": {"code": ..., "message": ..., "missing": [...], "duplicated": [...]}}.
type apiErrorBody struct {
	Error struct {
		Code       int          `json:"code"`
		Message    string       `json:"message"`
		Missing    []DetailItem `json:"missing,omitempty"`
		Duplicated []DetailItem `json:"duplicated,omitempty"`
	} `json:"error"`
}

// kindForStatus maps an HTTP status code to its ErrorKind per §4.3.
func kindForStatus(status int) ErrorKind {
	switch status {
	case 400:
		return KindBadRequest
	case 401:
		return KindUnauthorized
	case 403:
		return KindForbidden
	case 404:
		return KindNotFound
	case 409:
		return KindConflict
	case 422:
		return KindUnprocessableEntity
	default:
		return KindOtherAPI
	}
}

// newAPIError builds a typed API error from a non-2xx response body. If
// the body does not decode as the expected envelope, it falls back to
// OtherApi carrying the raw text and the decode error.
func newAPIError(status int, requestID string, body []byte) *Error {
	var parsed apiErrorBody

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	if err := dec.Decode(&parsed); err != nil {
		return &Error{
			Kind:      KindOtherAPI,
			Code:      status,
			Message:   fmt.Sprintf("%s (undecodable error body: %s)", string(body), err.Error()),
			RequestID: requestID,
		}
	}

	code := parsed.Error.Code
	if code == 0 {
		code = status
	}

	return &Error{
		Kind:       kindForStatus(status),
		Code:       code,
		Message:    parsed.Error.Message,
		Missing:    parsed.Error.Missing,
		Duplicated: parsed.Error.Duplicated,
		RequestID:  requestID,
	}
}

// newPlainError builds a non-API error carrying a free-text message and
// optional cause.
func newPlainError(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsNotFound reports whether err is (or wraps) a NotFound API error.
func IsNotFound(err error) bool { return hasKind(err, KindNotFound) }

// IsUnauthorized reports whether err is (or wraps) an Unauthorized API error.
func IsUnauthorized(err error) bool { return hasKind(err, KindUnauthorized) }

// IsForbidden reports whether err is (or wraps) a Forbidden API error.
func IsForbidden(err error) bool { return hasKind(err, KindForbidden) }

// IsConflict reports whether err is (or wraps) a Conflict API error.
func IsConflict(err error) bool { return hasKind(err, KindConflict) }

func hasKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}

	return false
}

// GetMissingFromResult returns the Identities named in err's "missing"
// detail list, or nil if err is not a missing-id API error. This is the
// hook that drives the "insert, auto-create missing, re-insert" pattern
// described in §4.6.
func GetMissingFromResult(err error) []Identity {
	var e *Error
	if !errors.As(err, &e) || len(e.Missing) == 0 {
		return nil
	}

	return ExtractIdentities(e.Missing)
}

// GetDuplicatedFromResult returns the Identities named in err's
// "duplicated" detail list, or nil if none are present.
func GetDuplicatedFromResult(err error) []Identity {
	var e *Error
	if !errors.As(err, &e) || len(e.Duplicated) == 0 {
		return nil
	}

	return ExtractIdentities(e.Duplicated)
}
