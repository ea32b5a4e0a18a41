package dsl

import "context"

// QueryFill resolves a value entirely through the oracle, without ever
// contacting the user: the oracle is asked to fill in question using
// whatever context the runtime already has (tool descriptions, other
// slots, registered query sources). A reply beginning with "abort:" lets
// the oracle give up on the slot instead of filling it.
type QueryFill struct {
	leaf
	Question string
}

// NewQueryFill constructs a QueryFill for question.
func NewQueryFill(question string) *QueryFill { return &QueryFill{Question: question} }

func (q *QueryFill) Render() string { return "QUERY_FILL(" + QuoteAndEscape(q.Question) + ")" }

func (q *QueryFill) IsResolved() bool { return false }
func (q *QueryFill) ValueKind() bool  { return true }

func (q *QueryFill) Equal(other Node) bool {
	o, ok := other.(*QueryFill)
	return ok && o.Question == q.Question
}

func (q *QueryFill) DoResolution(ctx context.Context, rt Runtime, rs ResolutionState, _ *Interaction) (ResolutionOutcome, error) {
	return resolveViaOracle(ctx, rt, rs, PhaseQueryFill, q.Question, true)
}

func (q *QueryFill) Eval(context.Context, Runtime) (any, error) {
	panic("dsl: QueryFill must be resolved before evaluation")
}
