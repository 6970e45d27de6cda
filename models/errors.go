package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a business-rule failure so the API boundary can map it
// to an HTTP status without inspecting error strings.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInvalidState
	KindTimeout
)

// DomainError carries a client-safe message, its kind, and, for validation
// failures, the full list of violations rather than just the first.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Errors  []string
}

func (e *DomainError) Error() string {
	if len(e.Errors) > 0 {
		return e.Message + ": " + strings.Join(e.Errors, "; ")
	}
	return e.Message
}

// NotFoundError builds a KindNotFound error for the named entity.
func NotFoundError(entity string) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: entity + " not found"}
}

// ConflictError builds a KindConflict error.
func ConflictError(format string, args ...any) *DomainError {
	return &DomainError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// InvalidStateError builds a KindInvalidState error.
func InvalidStateError(format string, args ...any) *DomainError {
	return &DomainError{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// ValidationError builds a KindValidation error listing every violation.
func ValidationError(violations []string) *DomainError {
	return &DomainError{Kind: KindValidation, Message: "validation failed", Errors: violations}
}

// UnauthorizedError builds a KindUnauthorized error.
func UnauthorizedError(message string) *DomainError {
	return &DomainError{Kind: KindUnauthorized, Message: message}
}

// ForbiddenError builds a KindForbidden error.
func ForbiddenError(message string) *DomainError {
	return &DomainError{Kind: KindForbidden, Message: message}
}

// TimeoutError builds a KindTimeout error.
func TimeoutError() *DomainError {
	return &DomainError{Kind: KindTimeout, Message: "request timed out"}
}

// KindOf extracts the kind from err, unwrapping as needed.
// Unknown errors report KindInternal.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
