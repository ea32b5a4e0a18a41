package dsl

import "context"

// QueryGather is like QueryFill — entirely oracle-driven, no user contact —
// but its prompt phase instructs the oracle to opportunistically answer
// other open slots it can infer along the way. It carries both the name of
// the intent it is gathering context for (OriginalIntent) and the specific
// question (Query); the gathered free-text answer is handed to the
// intent-sequencer oracle, and its reply becomes the replacement DSL.
type QueryGather struct {
	leaf
	OriginalIntent string
	Query          string
}

// NewQueryGather constructs a QueryGather for originalIntent and query.
func NewQueryGather(originalIntent, query string) *QueryGather {
	return &QueryGather{OriginalIntent: originalIntent, Query: query}
}

func (q *QueryGather) Render() string {
	return "QUERY_GATHER(" + QuoteAndEscape(q.OriginalIntent) + ", " + QuoteAndEscape(q.Query) + ")"
}

func (q *QueryGather) IsResolved() bool { return false }
func (q *QueryGather) ValueKind() bool  { return true }

func (q *QueryGather) Equal(other Node) bool {
	o, ok := other.(*QueryGather)
	return ok && o.OriginalIntent == q.OriginalIntent && o.Query == q.Query
}

// DoResolution calls the query-gather oracle, extracts its "user friendly
// answer:" section, and hands that gathered text to the intent-sequencer
// oracle; the sequencer's reply is parsed and returned as the replacement
// DSL for this node.
func (q *QueryGather) DoResolution(ctx context.Context, rt Runtime, rs ResolutionState, _ *Interaction) (ResolutionOutcome, error) {
	gatherSystemPrompt := rt.SystemPrompt(PhaseQueryGather)
	gatherUserPrompt := rt.BuildSlotPrompt(rs, q.Query)
	reply, err := rt.CallOracle(ctx, PhaseQueryGather, gatherSystemPrompt, gatherUserPrompt)
	if err != nil {
		return ResolutionOutcome{}, err
	}
	gathered := userFriendlyAnswer(reply)

	sequencerSystemPrompt := rt.SystemPrompt(PhaseIntentSequencer)
	sequencerReply, err := rt.CallOracle(ctx, PhaseIntentSequencer, sequencerSystemPrompt, gathered)
	if err != nil {
		return ResolutionOutcome{}, err
	}
	nodes, err := Parse(sequencerReply)
	if err != nil {
		return ResolutionOutcome{}, err
	}
	return NewNodesOutcome(nodes.Children()...), nil
}

func (q *QueryGather) Eval(context.Context, Runtime) (any, error) {
	panic("dsl: QueryGather must be resolved before evaluation")
}
