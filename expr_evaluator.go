package presentation

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

const engineExpr = "expr"

// ExprEvaluatorOption configures an expr evaluator instance.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithProgramCache wires a ProgramCache into the expr evaluator.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry exposes registry helpers as named functions and
// through call(name, args...).
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type exprEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprEvaluator constructs an Evaluator backed by expr-lang/expr.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *exprEvaluator) engineName() string { return engineExpr }

func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	program, err := e.loadOrCompile(expression, compileConfig{})
	if err != nil {
		return nil, err
	}
	return e.run(program, expression, ctx)
}

func (e *exprEvaluator) Compile(expression string, opts ...CompileOption) (CompiledRule, error) {
	program, err := e.loadOrCompile(expression, applyCompileOptions(opts))
	if err != nil {
		return nil, err
	}
	return &exprCompiledRule{evaluator: e, program: program, expression: expression}, nil
}

func (e *exprEvaluator) loadOrCompile(expression string, cfg compileConfig) (*exprvm.Program, error) {
	if expression == "" {
		return nil, wrapEvaluationError(engineExpr, expression, fmt.Errorf("expression must not be empty"))
	}
	key := cacheKey(engineExpr, expression)
	cache := e.cache
	if cfg.bypassCache {
		cache = nil
	}
	if cache != nil {
		if cached, ok := cache.Get(key); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	if e.registry != nil {
		options = append(options, exprlang.Function("call", e.callFunction))
		for _, name := range e.registry.Names() {
			options = append(options, exprlang.Function(name, e.namedFunction(name)))
		}
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, wrapEvaluationError(engineExpr, expression, err)
	}
	if cache != nil {
		cache.Set(key, program)
	}
	return program, nil
}

func (e *exprEvaluator) run(program *exprvm.Program, expression string, ctx RuleContext) (any, error) {
	ctx = ctx.withDefaults()
	env := map[string]any{
		"event":    ctx.Event,
		"now":      ctx.timestamp(),
		"args":     ctx.Args,
		"metadata": ctx.Metadata,
	}
	result, err := exprlang.Run(program, env)
	if err != nil {
		return nil, wrapEvaluationError(engineExpr, expression, err)
	}
	return result, nil
}

func (e *exprEvaluator) callFunction(params ...any) (any, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("call requires a function name")
	}
	name, ok := params[0].(string)
	if !ok {
		return nil, fmt.Errorf("call name must be a string, got %T", params[0])
	}
	return e.registry.Call(name, params[1:]...)
}

func (e *exprEvaluator) namedFunction(name string) func(...any) (any, error) {
	return func(params ...any) (any, error) {
		return e.registry.Call(name, params...)
	}
}

type exprCompiledRule struct {
	evaluator  *exprEvaluator
	program    *exprvm.Program
	expression string
}

func (r *exprCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	return r.evaluator.run(r.program, r.expression, ctx)
}
