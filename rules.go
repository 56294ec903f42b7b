package presentation

import (
	"errors"
	"time"
)

// ErrNoEvaluator is returned when a rule is built without an evaluator, for
// example NewJSEvaluator in a build without the js_eval tag.
var ErrNoEvaluator = errors.New("presentation: evaluator not configured")

// RuleContext carries the inputs of a rule evaluation.
type RuleContext struct {
	Event    map[string]any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	if ctx.Event == nil {
		ctx.Event = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	if ctx.Now == nil {
		return time.Now()
	}
	return *ctx.Now
}

// EventBinding exposes a column order event to rule expressions:
//
//	type               string
//	oldColumnOrder     list of strings, empty when no order was set
//	newColumnOrder     list of strings
//	hasOldColumnOrder  bool
//	detail             the event detail, or null
func EventBinding(event ColumnOrderEvent) map[string]any {
	oldOrder := event.OldColumnOrder
	if oldOrder == nil {
		oldOrder = []string{}
	}
	newOrder := event.NewColumnOrder
	if newOrder == nil {
		newOrder = []string{}
	}
	return map[string]any{
		"type":              string(event.Type),
		"oldColumnOrder":    append([]string{}, oldOrder...),
		"newColumnOrder":    append([]string{}, newOrder...),
		"hasOldColumnOrder": event.OldColumnOrder != nil,
		"detail":            event.Detail,
	}
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule is a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures compilation.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct {
	bypassCache bool
}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// CompileWithoutCache compiles a fresh program even when the evaluator has a
// ProgramCache, and leaves the cache untouched.
func CompileWithoutCache() CompileOption {
	return compileOptionFunc(func(cfg *compileConfig) {
		cfg.bypassCache = true
	})
}

func applyCompileOptions(opts []CompileOption) compileConfig {
	cfg := compileConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt.applyCompileOption(&cfg)
		}
	}
	return cfg
}

type namedEngine interface {
	engineName() string
}

func evaluatorEngineName(e Evaluator) string {
	if named, ok := e.(namedEngine); ok {
		return named.engineName()
	}
	if e == nil {
		return "unknown"
	}
	return "custom"
}
