// Package errors defines the closed set of failure kinds shared by the
// repository and service layers.
//
// Every failure is a *DomainError carrying one of the kind sentinels below.
// Callers match narrowly with errors.Is(err, ErrValidation) or broadly with
// errors.As against *DomainError.
package errors

import "fmt"

var (
	ErrValidation      = fmt.Errorf("validation error")
	ErrEntityNotFound  = fmt.Errorf("entity not found")
	ErrPermission      = fmt.Errorf("permission denied")
	ErrBusinessRule    = fmt.Errorf("business rule violation")
	ErrRepository      = fmt.Errorf("repository failure")
	ErrEventPublishing = fmt.Errorf("event publishing failure")
)

// DomainError couples a kind sentinel with a human readable message and,
// for infrastructure kinds, the causing failure.
type DomainError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

// Is makes errors.Is(err, kind) match the kind sentinel.
func (e *DomainError) Is(target error) bool {
	return target == e.Kind
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

func Validation(format string, args ...any) error {
	return &DomainError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &DomainError{Kind: ErrEntityNotFound, Message: fmt.Sprintf(format, args...)}
}

func Permission(format string, args ...any) error {
	return &DomainError{Kind: ErrPermission, Message: fmt.Sprintf(format, args...)}
}

func BusinessRule(format string, args ...any) error {
	return &DomainError{Kind: ErrBusinessRule, Message: fmt.Sprintf(format, args...)}
}

// Repository wraps a persistence failure. The cause is always kept.
func Repository(cause error, format string, args ...any) error {
	return &DomainError{Kind: ErrRepository, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// EventPublishing wraps a downstream emission failure. The cause is always kept.
func EventPublishing(cause error, format string, args ...any) error {
	return &DomainError{Kind: ErrEventPublishing, Message: fmt.Sprintf(format, args...), Cause: cause}
}
