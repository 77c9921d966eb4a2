package loom

import (
	"fmt"

	"github.com/danpasecinic/loom/internal/container"
)

// Error is the structured error type used across the container and the
// pipeline.
type Error = container.Error

type ErrorCode = container.ErrorCode

const (
	ErrCodeUnknown            = container.ErrCodeUnknown
	ErrCodeDuplicateToken     = container.ErrCodeDuplicateToken
	ErrCodeTokenNotFound      = container.ErrCodeTokenNotFound
	ErrCodeCircularDependency = container.ErrCodeCircularDependency
	ErrCodeModuleCycle        = container.ErrCodeModuleCycle
	ErrCodeInvalidDefinition  = container.ErrCodeInvalidDefinition
	ErrCodeProviderFailed     = container.ErrCodeProviderFailed
	ErrCodeResolutionFailed   = container.ErrCodeResolutionFailed
	ErrCodeDecoratorFailed    = container.ErrCodeDecoratorFailed
	ErrCodeStartupFailed      = container.ErrCodeStartupFailed
	ErrCodeShutdownFailed     = container.ErrCodeShutdownFailed
	ErrCodeHealthCheckFailed  = container.ErrCodeHealthCheckFailed
	ErrCodeContainerState     = container.ErrCodeContainerState
	ErrCodeAccessDenied       = container.ErrCodeAccessDenied
	ErrCodeValidation         = container.ErrCodeValidation
	ErrCodeTimeout            = container.ErrCodeTimeout
	ErrCodeCancelled          = container.ErrCodeCancelled
	ErrCodeUnhandled          = container.ErrCodeUnhandled
)

// NewError builds a structured error. Stage authors use this (or the
// shorthand constructors below) so exception filters can match on code.
func NewError(code ErrorCode, message string, cause error) *Error {
	return container.NewError(code, message, cause)
}

// ErrAccessDenied is the guard-rejection error.
func ErrAccessDenied(message string) *Error {
	if message == "" {
		message = "access denied"
	}
	return container.NewError(ErrCodeAccessDenied, message, nil)
}

// ErrValidation is the pipe-rejection error.
func ErrValidation(message string, cause error) *Error {
	return container.NewError(ErrCodeValidation, message, cause)
}

func ErrTimeout(message string) *Error {
	if message == "" {
		message = "operation timed out"
	}
	return container.NewError(ErrCodeTimeout, message, nil)
}

func ErrCancelled(message string) *Error {
	if message == "" {
		message = "request cancelled"
	}
	return container.NewError(ErrCodeCancelled, message, nil)
}

func errHealthCheckFailed(token string, cause error) *Error {
	return container.NewError(
		ErrCodeHealthCheckFailed,
		fmt.Sprintf("health check failed for %s", token),
		cause,
	).WithToken(token)
}

// HasCode reports whether any structured error in the unwrap chain carries
// the given code.
func HasCode(err error, code ErrorCode) bool {
	return container.HasCode(err, code)
}

func IsDuplicateToken(err error) bool {
	return container.HasCode(err, ErrCodeDuplicateToken)
}

func IsTokenNotFound(err error) bool {
	return container.HasCode(err, ErrCodeTokenNotFound)
}

func IsCircularDependency(err error) bool {
	return container.HasCode(err, ErrCodeCircularDependency)
}

func IsModuleCycle(err error) bool {
	return container.HasCode(err, ErrCodeModuleCycle)
}

func IsProviderFailed(err error) bool {
	return container.HasCode(err, ErrCodeProviderFailed)
}

func IsResolutionFailed(err error) bool {
	return container.HasCode(err, ErrCodeResolutionFailed)
}

func IsAccessDenied(err error) bool {
	return container.HasCode(err, ErrCodeAccessDenied)
}

func IsValidation(err error) bool {
	return container.HasCode(err, ErrCodeValidation)
}

func IsTimeout(err error) bool {
	return container.HasCode(err, ErrCodeTimeout)
}

func IsCancelled(err error) bool {
	return container.HasCode(err, ErrCodeCancelled)
}

func IsUnhandled(err error) bool {
	return container.HasCode(err, ErrCodeUnhandled)
}

func IsHealthCheckFailed(err error) bool {
	return container.HasCode(err, ErrCodeHealthCheckFailed)
}

func IsStartupFailed(err error) bool {
	return container.HasCode(err, ErrCodeStartupFailed)
}

func IsShutdownFailed(err error) bool {
	return container.HasCode(err, ErrCodeShutdownFailed)
}
