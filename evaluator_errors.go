package presentation

import (
	"errors"
	"fmt"
)

// EvaluationError wraps a rule failure with the engine and expression.
type EvaluationError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	expr := "expr=<empty>"
	if e.Expr != "" {
		expr = fmt.Sprintf("expr=%q", e.Expr)
	}
	return fmt.Sprintf("presentation: %s evaluator %s: %v", e.Engine, expr, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// wrapEvaluationError attaches engine and expression metadata, filling gaps
// on an existing EvaluationError instead of nesting a second one.
func wrapEvaluationError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		return err
	}
	return &EvaluationError{Engine: engine, Expr: expr, Err: err}
}
