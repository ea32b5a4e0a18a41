package dsl

import (
	"context"
	"fmt"
)

// IntentRuntimeErrorResolver replaces an Intent in the tree when the
// evaluator classifies its tool failure as recoverable. It follows the same
// protocol as Ask: first it surfaces the failure to the user as a question,
// then — once the user responds — it hands the original intent, the
// failure message, and the user's answer to the oracle's error-resolver
// phase, which decides how to proceed: retry with corrected arguments,
// substitute a different intent entirely, or give up.
type IntentRuntimeErrorResolver struct {
	leaf
	OriginalIntent *Intent
	ErrorMessage   string
}

// NewIntentRuntimeErrorResolver wraps a failed intent and its error for
// resolution by the oracle's error-resolver phase.
func NewIntentRuntimeErrorResolver(intent *Intent, errorMessage string) *IntentRuntimeErrorResolver {
	return &IntentRuntimeErrorResolver{OriginalIntent: intent, ErrorMessage: errorMessage}
}

func (e *IntentRuntimeErrorResolver) Render() string { return e.OriginalIntent.Render() }

func (*IntentRuntimeErrorResolver) IsResolved() bool { return false }
func (*IntentRuntimeErrorResolver) ValueKind() bool  { return false }

func (e *IntentRuntimeErrorResolver) Equal(other Node) bool {
	o, ok := other.(*IntentRuntimeErrorResolver)
	return ok && o.OriginalIntent.Equal(e.OriginalIntent) && o.ErrorMessage == e.ErrorMessage
}

func (e *IntentRuntimeErrorResolver) DoResolution(ctx context.Context, rt Runtime, rs ResolutionState, interaction *Interaction) (ResolutionOutcome, error) {
	if interaction == nil {
		return InteractionRequested(e.ErrorMessage, e), nil
	}
	rs.RecordQA(QAEntry{Requester: e, Question: e.ErrorMessage, Answer: interaction.Answer})
	prompt := fmt.Sprintf("The intent %s failed with error: %s\nAnswer: %s", e.OriginalIntent.Render(), e.ErrorMessage, interaction.Answer)
	return resolveViaOracle(ctx, rt, rs, PhaseErrorResolver, prompt, true)
}

func (e *IntentRuntimeErrorResolver) Eval(context.Context, Runtime) (any, error) {
	panic("dsl: IntentRuntimeErrorResolver must be resolved before evaluation")
}
