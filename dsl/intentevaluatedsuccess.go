package dsl

import (
	"context"
	"fmt"
)

// IntentEvaluatedSuccess replaces an Intent in the tree once the evaluator
// has successfully invoked its tool. It carries the already-computed
// result so a later evaluation pass — for example, after the host fixes up
// a sibling intent that failed and re-runs Evaluate — skips straight past
// it instead of invoking the tool a second time.
type IntentEvaluatedSuccess struct {
	leaf
	OriginalIntent *Intent
	Value          any
}

// NewIntentEvaluatedSuccess wraps the result of successfully evaluating intent.
func NewIntentEvaluatedSuccess(intent *Intent, value any) *IntentEvaluatedSuccess {
	return &IntentEvaluatedSuccess{OriginalIntent: intent, Value: value}
}

func (e *IntentEvaluatedSuccess) Render() string { return e.OriginalIntent.Render() }

func (*IntentEvaluatedSuccess) IsResolved() bool { return true }
func (*IntentEvaluatedSuccess) ValueKind() bool  { return true }

func (e *IntentEvaluatedSuccess) Equal(other Node) bool {
	o, ok := other.(*IntentEvaluatedSuccess)
	return ok && o.OriginalIntent.Equal(e.OriginalIntent) && fmt.Sprint(o.Value) == fmt.Sprint(e.Value)
}

// Eval returns the cached result without re-invoking the wrapped intent's
// tool.
func (e *IntentEvaluatedSuccess) Eval(context.Context, Runtime) (any, error) {
	return e.Value, nil
}
