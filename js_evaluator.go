//go:build js_eval

package presentation

import (
	"fmt"

	"github.com/dop251/goja"
)

const engineJS = "js"

type jsEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewJSEvaluator constructs an Evaluator backed by goja. Each evaluation runs
// in a fresh runtime.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	cfg := applyJSEvaluatorOptions(opts)
	return &jsEvaluator{
		cache:    cfg.cache,
		registry: cfg.registry,
	}
}

// JSEvaluatorAvailable reports whether the binary was built with js_eval.
func JSEvaluatorAvailable() bool {
	return true
}

func (e *jsEvaluator) engineName() string { return engineJS }

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	program, err := e.loadOrCompile(expression, compileConfig{})
	if err != nil {
		return nil, err
	}
	return e.run(program, expression, ctx)
}

func (e *jsEvaluator) Compile(expression string, opts ...CompileOption) (CompiledRule, error) {
	program, err := e.loadOrCompile(expression, applyCompileOptions(opts))
	if err != nil {
		return nil, err
	}
	return &jsCompiledRule{evaluator: e, expression: expression, program: program}, nil
}

func (e *jsEvaluator) loadOrCompile(expression string, cfg compileConfig) (*goja.Program, error) {
	if expression == "" {
		return nil, wrapEvaluationError(engineJS, expression, fmt.Errorf("expression must not be empty"))
	}
	key := cacheKey(engineJS, expression)
	cache := e.cache
	if cfg.bypassCache {
		cache = nil
	}
	if cache != nil {
		if cached, ok := cache.Get(key); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("rule", fmt.Sprintf("(function(){ return (%s); })()", expression), true)
	if err != nil {
		return nil, wrapEvaluationError(engineJS, expression, err)
	}
	if cache != nil {
		cache.Set(key, program)
	}
	return program, nil
}

func (e *jsEvaluator) run(program *goja.Program, expression string, ctx RuleContext) (any, error) {
	ctx = ctx.withDefaults()
	vm := goja.New()
	vm.Set("event", ctx.Event)
	vm.Set("now", ctx.timestamp())
	vm.Set("args", ctx.Args)
	vm.Set("metadata", ctx.Metadata)
	if e.registry != nil {
		vm.Set("call", func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		})
		for _, name := range e.registry.Names() {
			fn := name
			vm.Set(fn, func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			})
		}
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, wrapEvaluationError(engineJS, expression, err)
	}
	return value.Export(), nil
}

type jsCompiledRule struct {
	evaluator  *jsEvaluator
	expression string
	program    *goja.Program
}

func (r *jsCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	return r.evaluator.run(r.program, r.expression, ctx)
}
