package dsl

import (
	"context"
	"fmt"
)

// QueryUser poses a question to the user that the oracle itself phrases:
// on first entry it asks the query-user oracle for a dynamic prompt, then
// surfaces that text as the interaction message. Once the user answers, the
// raw answer is handed to the slot-resolver oracle (inside an intent+slot
// context) or the intent-sequencer oracle (otherwise) to interpret it into
// a structured DSL value, rather than taking it literally.
type QueryUser struct {
	leaf
	Question string
}

// NewQueryUser constructs a QueryUser for question.
func NewQueryUser(question string) *QueryUser { return &QueryUser{Question: question} }

func (q *QueryUser) Render() string { return "QUERY_USER(" + QuoteAndEscape(q.Question) + ")" }

func (q *QueryUser) IsResolved() bool { return false }
func (q *QueryUser) ValueKind() bool  { return true }

func (q *QueryUser) Equal(other Node) bool {
	o, ok := other.(*QueryUser)
	return ok && o.Question == q.Question
}

func (q *QueryUser) DoResolution(ctx context.Context, rt Runtime, rs ResolutionState, interaction *Interaction) (ResolutionOutcome, error) {
	if interaction == nil {
		systemPrompt := rt.SystemPrompt(PhaseQueryUser)
		userPrompt := rt.BuildSlotPrompt(rs, q.Question)
		reply, err := rt.CallOracle(ctx, PhaseQueryUser, systemPrompt, userPrompt)
		if err != nil {
			return ResolutionOutcome{}, err
		}
		return InteractionRequested(userFriendlyAnswer(reply), q), nil
	}

	rs.RecordQA(QAEntry{Requester: q, Question: q.Question, Answer: interaction.Answer})
	prompt := fmt.Sprintf("Question: %s\nAnswer: %s", q.Question, interaction.Answer)

	phase := PhaseIntentSequencer
	_, hasIntent := rs.CurrentIntentName()
	_, hasSlot := rs.CurrentSlotName()
	if hasIntent && hasSlot {
		phase = PhaseSlotResolver
	}
	return resolveViaOracle(ctx, rt, rs, phase, prompt, true)
}

func (q *QueryUser) Eval(context.Context, Runtime) (any, error) {
	panic("dsl: QueryUser must be resolved before evaluation")
}
