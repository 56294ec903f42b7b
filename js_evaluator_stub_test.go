//go:build !js_eval

package presentation

import (
	"errors"
	"testing"
)

func TestJSEvaluatorUnavailableWithoutTag(t *testing.T) {
	if JSEvaluatorAvailable() {
		t.Fatalf("js evaluator should be unavailable without js_eval")
	}
	_, err := Guard(NewJSEvaluator(), `true`, ListenerFunc(func(ColumnOrderEvent) error { return nil }))
	if !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator, got %v", err)
	}
}
