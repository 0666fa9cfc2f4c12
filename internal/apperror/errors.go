// Package apperror defines the error kinds shared by use cases and handlers.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBusinessRule
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBusinessRule:
		return "business_rule"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error carries a kind, a stable code and a client-facing message.
type Error struct {
	Kind    Kind
	Code    string
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

// Is matches on Code so wrapped copies of a sentinel still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

var (
	ErrInsufficientInventory = &Error{Kind: KindBusinessRule, Code: "INSUFFICIENT_INVENTORY", Message: "Insufficient inventory"}
	ErrNegativeStock         = &Error{Kind: KindBusinessRule, Code: "NEGATIVE_STOCK", Message: "Stock cannot go negative"}
	ErrDuplicateOrder        = &Error{Kind: KindBusinessRule, Code: "DUPLICATE_ORDER", Message: "This order already exists."}
	ErrInsufficientQuantity  = &Error{Kind: KindBusinessRule, Code: "INSUFFICIENT_QUANTITY", Message: "Insufficient raw material quantity"}
	ErrPriceNotFound         = &Error{Kind: KindBusinessRule, Code: "PRICE_NOT_FOUND", Message: "Price not found for this product"}
	ErrInUse                 = &Error{Kind: KindConflict, Code: "IN_USE", Message: "Resource is still in use"}
	ErrAlreadyExists         = &Error{Kind: KindConflict, Code: "ALREADY_EXISTS", Message: "Resource already exists"}
	ErrInvalidCredentials    = &Error{Kind: KindUnauthorized, Code: "INVALID_CREDENTIALS", Message: "Invalid credentials"}
	ErrInactiveAccount       = &Error{Kind: KindForbidden, Code: "ACCOUNT_INACTIVE", Message: "Account is inactive"}
	ErrUnauthorized          = &Error{Kind: KindUnauthorized, Code: "UNAUTHORIZED", Message: "Unauthorized"}
	ErrForbidden             = &Error{Kind: KindForbidden, Code: "FORBIDDEN", Message: "Forbidden"}
)

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION", Message: msg}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: what + " not found"}
}

// InUse returns ErrInUse with a resource-specific message.
func InUse(msg string) *Error {
	return &Error{Kind: KindConflict, Code: ErrInUse.Code, Message: msg}
}

// AlreadyExists returns ErrAlreadyExists with a resource-specific message.
func AlreadyExists(msg string) *Error {
	return &Error{Kind: KindConflict, Code: ErrAlreadyExists.Code, Message: msg}
}

// Wrap attaches a cause to a sentinel while keeping it comparable with errors.Is.
func Wrap(sentinel *Error, err error) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL", Message: "Internal server error", Err: err}
}

// KindOf reports the kind of err, KindInternal for anything untyped.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
