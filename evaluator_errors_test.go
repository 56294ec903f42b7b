package presentation

import (
	"errors"
	"testing"
)

func TestWrapEvaluationErrorCreatesMetadata(t *testing.T) {
	base := errors.New("boom")
	err := wrapEvaluationError("expr", "len(event.newColumnOrder) > 1", base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != "expr" || evalErr.Expr != "len(event.newColumnOrder) > 1" {
		t.Fatalf("unexpected metadata %+v", evalErr)
	}
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error should unwrap to base error")
	}
}

func TestWrapEvaluationErrorAugmentsExisting(t *testing.T) {
	base := errors.New("compile failure")
	existing := &EvaluationError{Engine: "expr", Err: base}

	err := wrapEvaluationError("cel", "rule", existing)
	if err != existing {
		t.Fatalf("existing error should not be nested")
	}
	if existing.Engine != "expr" {
		t.Fatalf("existing engine should not be overwritten, got %q", existing.Engine)
	}
	if existing.Expr != "rule" {
		t.Fatalf("expression should be filled, got %q", existing.Expr)
	}
}

func TestEvaluationErrorMessage(t *testing.T) {
	err := &EvaluationError{Engine: "cel", Err: errors.New("bad")}
	if got := err.Error(); got != "presentation: cel evaluator expr=<empty>: bad" {
		t.Fatalf("unexpected message %q", got)
	}
	if wrapEvaluationError("expr", "x", nil) != nil {
		t.Fatalf("nil error should stay nil")
	}
	var nilErr *EvaluationError
	if nilErr.Unwrap() != nil {
		t.Fatalf("nil receiver should unwrap to nil")
	}
}
