// Package apperr defines the error taxonomy surfaced to API callers.
// Every failure a handler can return maps to exactly one kind; anything
// unclassified becomes a generic internal error at the HTTP boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindPermission
	KindNotFound
	KindConflict
	KindInsufficientFunds
	KindFeatureDisabled
	KindExternal
)

type Error struct {
	Kind Kind
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Code: "validation_error", Msg: msg}
}

func Permission(msg string) *Error {
	return &Error{Kind: KindPermission, Code: "permission_denied", Msg: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Code: "not_found", Msg: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Code: "conflict", Msg: msg}
}

func InsufficientFunds(msg string) *Error {
	return &Error{Kind: KindInsufficientFunds, Code: "insufficient_funds", Msg: msg}
}

func FeatureDisabled(feature string) *Error {
	return &Error{Kind: KindFeatureDisabled, Code: "feature_disabled",
		Msg: feature + " is currently disabled by the administrator"}
}

func External(msg string, err error) *Error {
	return &Error{Kind: KindExternal, Code: "external_service_failure", Msg: msg, Err: err}
}

// From returns the typed error inside err, or nil if there is none.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

func HTTPStatus(err error) int {
	e := From(err)
	if e == nil {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindPermission, KindFeatureDisabled:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInsufficientFunds:
		return http.StatusPaymentRequired
	case KindExternal:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
