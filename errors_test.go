package loom_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/danpasecinic/loom"
)

func TestErrorMessageFormat(t *testing.T) {
	t.Parallel()

	err := loom.NewError(loom.ErrCodeTokenNotFound, "no provider visible for token X", nil)
	msg := err.Error()

	if msg != `[TOKEN_NOT_FOUND] no provider visible for token X` {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("root cause")
	err := loom.NewError(loom.ErrCodeProviderFailed, "provider blew up", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to see the cause")
	}
}

func TestHasCodeThroughWrapping(t *testing.T) {
	t.Parallel()

	inner := loom.NewError(loom.ErrCodeTokenNotFound, "missing", nil)
	outer := loom.NewError(loom.ErrCodeResolutionFailed, "failed to resolve X", inner)

	if !loom.HasCode(outer, loom.ErrCodeResolutionFailed) {
		t.Error("expected outer code to match")
	}
	if !loom.HasCode(outer, loom.ErrCodeTokenNotFound) {
		t.Error("wrapping must not hide the inner code")
	}
	if loom.HasCode(outer, loom.ErrCodeTimeout) {
		t.Error("unrelated code should not match")
	}
}

func TestHasCodeThroughFmtWrap(t *testing.T) {
	t.Parallel()

	typed := loom.ErrValidation("bad input", nil)
	wrapped := fmt.Errorf("handling request: %w", typed)

	if !loom.HasCode(wrapped, loom.ErrCodeValidation) {
		t.Error("expected code match through fmt.Errorf wrapping")
	}
	if !loom.IsValidation(wrapped) {
		t.Error("expected predicate match through fmt.Errorf wrapping")
	}
}

func TestErrorIsByCode(t *testing.T) {
	t.Parallel()

	a := loom.NewError(loom.ErrCodeTimeout, "first", nil)
	b := loom.NewError(loom.ErrCodeTimeout, "second", nil)

	if !errors.Is(a, b) {
		t.Error("errors with the same code should match errors.Is")
	}
}

func TestShorthandConstructorsDefaults(t *testing.T) {
	t.Parallel()

	if msg := loom.ErrAccessDenied("").Message; msg != "access denied" {
		t.Errorf("unexpected default: %q", msg)
	}
	if msg := loom.ErrTimeout("").Message; msg != "operation timed out" {
		t.Errorf("unexpected default: %q", msg)
	}
	if msg := loom.ErrCancelled("").Message; msg != "request cancelled" {
		t.Errorf("unexpected default: %q", msg)
	}
}

func TestErrorCycleField(t *testing.T) {
	t.Parallel()

	c := loom.New()

	_ = c.Register(loom.Class("A", func(deps ...any) (any, error) { return nil, nil }, "B"))
	err := c.Register(loom.Class("B", func(deps ...any) (any, error) { return nil, nil }, "A"))

	var typed *loom.Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected typed error, got %v", err)
	}
	if len(typed.Cycle) < 3 {
		t.Errorf("expected full cycle path, got %v", typed.Cycle)
	}
}
