package presentation

import (
	"fmt"
	"time"
)

// GuardOption configures a guarded listener.
type GuardOption func(*guardConfig)

type guardConfig struct {
	compile  []CompileOption
	logger   EvaluatorLogger
	args     map[string]any
	metadata map[string]any
	now      func() time.Time
}

// WithGuardLogger records every evaluation of the guard expression.
func WithGuardLogger(logger EvaluatorLogger) GuardOption {
	return func(cfg *guardConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithGuardCompileOptions forwards opts to Evaluator.Compile.
func WithGuardCompileOptions(opts ...CompileOption) GuardOption {
	return func(cfg *guardConfig) {
		cfg.compile = append(cfg.compile, opts...)
	}
}

// WithGuardArgs exposes args to the expression.
func WithGuardArgs(args map[string]any) GuardOption {
	return func(cfg *guardConfig) {
		cfg.args = args
	}
}

// WithGuardMetadata exposes metadata to the expression.
func WithGuardMetadata(metadata map[string]any) GuardOption {
	return func(cfg *guardConfig) {
		cfg.metadata = metadata
	}
}

// WithGuardClock overrides the clock bound to now.
func WithGuardClock(now func() time.Time) GuardOption {
	return func(cfg *guardConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}

type guardedListener struct {
	engine     string
	expression string
	rule       CompiledRule
	next       Listener
	cfg        guardConfig
}

// Guard wraps listener so it only runs when expression evaluates to true for
// the event. The expression is compiled immediately. At emission a non-bool
// result or an evaluation failure is returned as *EvaluationError.
func Guard(evaluator Evaluator, expression string, listener Listener, opts ...GuardOption) (Listener, error) {
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	if listener == nil {
		return nil, ErrNilListener
	}
	cfg := guardConfig{logger: noopEvaluatorLogger{}, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	engine := evaluatorEngineName(evaluator)
	rule, err := evaluator.Compile(expression, cfg.compile...)
	if err != nil {
		return nil, wrapEvaluationError(engine, expression, err)
	}
	return &guardedListener{
		engine:     engine,
		expression: expression,
		rule:       rule,
		next:       listener,
		cfg:        cfg,
	}, nil
}

func (g *guardedListener) Notify(event ColumnOrderEvent) error {
	now := g.cfg.now()
	ctx := RuleContext{
		Event:    EventBinding(event),
		Now:      &now,
		Args:     g.cfg.args,
		Metadata: g.cfg.metadata,
	}

	start := time.Now()
	passed, err := g.evaluate(ctx)
	g.cfg.logger.LogEvaluation(EvaluatorLogEvent{
		Engine:   g.engine,
		Expr:     g.expression,
		Event:    event.Type,
		Passed:   passed,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return err
	}
	if !passed {
		return nil
	}
	return g.next.Notify(event)
}

func (g *guardedListener) evaluate(ctx RuleContext) (bool, error) {
	result, err := g.rule.Evaluate(ctx)
	if err != nil {
		return false, wrapEvaluationError(g.engine, g.expression, err)
	}
	passed, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Engine: g.engine,
			Expr:   g.expression,
			Err:    fmt.Errorf("expected bool result, got %T", result),
		}
	}
	return passed, nil
}
