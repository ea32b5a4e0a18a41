package dsl

import (
	"context"
	"fmt"
)

// Ask poses a literal, already-fully-formed question directly to the user,
// then hands the raw answer to the slot-resolver oracle to interpret into a
// structured DSL value (a number, a fuzzy quantity, a list, ...) — the same
// interpretation step QueryUser uses on its own follow-up answer. It is the
// right placeholder when the oracle already knows exactly what to ask but
// the answer still needs interpreting, rather than being usable verbatim.
type Ask struct {
	leaf
	Question string
}

// NewAsk constructs an Ask for question.
func NewAsk(question string) *Ask { return &Ask{Question: question} }

func (a *Ask) Render() string { return "ASK(" + QuoteAndEscape(a.Question) + ")" }

func (a *Ask) IsResolved() bool { return false }
func (a *Ask) ValueKind() bool  { return true }

func (a *Ask) Equal(other Node) bool {
	o, ok := other.(*Ask)
	return ok && o.Question == a.Question
}

func (a *Ask) DoResolution(ctx context.Context, rt Runtime, rs ResolutionState, interaction *Interaction) (ResolutionOutcome, error) {
	if interaction == nil {
		return InteractionRequested(a.Question, a), nil
	}
	rs.RecordQA(QAEntry{Requester: a, Question: a.Question, Answer: interaction.Answer})
	prompt := fmt.Sprintf("Question: %s\nAnswer: %s", a.Question, interaction.Answer)
	return resolveViaOracle(ctx, rt, rs, PhaseSlotResolver, prompt, true)
}

func (a *Ask) Eval(context.Context, Runtime) (any, error) {
	panic("dsl: Ask must be resolved before evaluation")
}
