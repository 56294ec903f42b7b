package presentation

import "time"

// EvaluatorLogEvent describes one guarded rule evaluation.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Event    EventType
	Passed   bool
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records rule evaluations.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}
