//go:build !js_eval

package presentation

// NewJSEvaluator is unavailable without the js_eval build tag and returns nil;
// Guard reports ErrNoEvaluator for it.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = applyJSEvaluatorOptions(opts)
	return nil
}

// JSEvaluatorAvailable reports whether the binary was built with js_eval.
func JSEvaluatorAvailable() bool {
	return false
}
