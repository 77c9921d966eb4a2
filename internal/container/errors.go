package container

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeDuplicateToken
	ErrCodeTokenNotFound
	ErrCodeCircularDependency
	ErrCodeModuleCycle
	ErrCodeInvalidDefinition
	ErrCodeProviderFailed
	ErrCodeResolutionFailed
	ErrCodeDecoratorFailed
	ErrCodeStartupFailed
	ErrCodeShutdownFailed
	ErrCodeHealthCheckFailed
	ErrCodeContainerState
	ErrCodeAccessDenied
	ErrCodeValidation
	ErrCodeTimeout
	ErrCodeCancelled
	ErrCodeUnhandled
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:            "UNKNOWN",
	ErrCodeDuplicateToken:     "DUPLICATE_TOKEN",
	ErrCodeTokenNotFound:      "TOKEN_NOT_FOUND",
	ErrCodeCircularDependency: "CIRCULAR_DEPENDENCY",
	ErrCodeModuleCycle:        "MODULE_CYCLE",
	ErrCodeInvalidDefinition:  "INVALID_DEFINITION",
	ErrCodeProviderFailed:     "PROVIDER_FAILED",
	ErrCodeResolutionFailed:   "RESOLUTION_FAILED",
	ErrCodeDecoratorFailed:    "DECORATOR_FAILED",
	ErrCodeStartupFailed:      "STARTUP_FAILED",
	ErrCodeShutdownFailed:     "SHUTDOWN_FAILED",
	ErrCodeHealthCheckFailed:  "HEALTH_CHECK_FAILED",
	ErrCodeContainerState:     "CONTAINER_STATE",
	ErrCodeAccessDenied:       "ACCESS_DENIED",
	ErrCodeValidation:         "VALIDATION",
	ErrCodeTimeout:            "TIMEOUT",
	ErrCodeCancelled:          "CANCELLED",
	ErrCodeUnhandled:          "UNHANDLED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint16(c))
}

// Error is the single structured error type shared by the container and the
// pipeline. Token names the provider involved (when there is one) and Cycle
// carries the full dependency or import cycle for cycle errors.
type Error struct {
	Code    ErrorCode
	Message string
	Token   string
	Cause   error
	Cycle   []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Token != "" {
		b.WriteString(fmt.Sprintf(" token=%q:", e.Token))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

func (e *Error) WithCycle(cycle []string) *Error {
	e.Cycle = cycle
	return e
}

func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode walks the unwrap chain and reports whether any *Error carries the
// given code. Wrapping a typed error in another typed error therefore does
// not hide it from the Is* predicates.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Unwrap()
	}
	return false
}

func errDuplicateToken(token string) *Error {
	return NewError(
		ErrCodeDuplicateToken,
		fmt.Sprintf("provider already registered for token %s", token),
		nil,
	).WithToken(token)
}

func errTokenNotFound(token, module string) *Error {
	msg := fmt.Sprintf("no provider visible for token %s", token)
	if module != "" {
		msg = fmt.Sprintf("no provider visible for token %s from module %s", token, module)
	}
	return NewError(ErrCodeTokenNotFound, msg, nil).WithToken(token)
}

func errCircularDependency(cycle []string) *Error {
	return NewError(
		ErrCodeCircularDependency,
		fmt.Sprintf("circular dependency detected: %s", strings.Join(cycle, " -> ")),
		nil,
	).WithCycle(cycle)
}

func errModuleCycle(cycle []string) *Error {
	return NewError(
		ErrCodeModuleCycle,
		fmt.Sprintf("module import cycle detected: %s", strings.Join(cycle, " -> ")),
		nil,
	).WithCycle(cycle)
}

func errInvalidDefinition(token, reason string) *Error {
	return NewError(
		ErrCodeInvalidDefinition,
		reason,
		nil,
	).WithToken(token)
}

func errProviderFailed(token string, cause error) *Error {
	return NewError(
		ErrCodeProviderFailed,
		fmt.Sprintf("provider for %s returned error", token),
		cause,
	).WithToken(token)
}

func errResolutionFailed(token string, cause error) *Error {
	return NewError(
		ErrCodeResolutionFailed,
		fmt.Sprintf("failed to resolve %s", token),
		cause,
	).WithToken(token)
}

func errDecoratorFailed(token string, cause error) *Error {
	return NewError(
		ErrCodeDecoratorFailed,
		fmt.Sprintf("decorator failed for %s", token),
		cause,
	).WithToken(token)
}
