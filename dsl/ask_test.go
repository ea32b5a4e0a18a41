package dsl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalon-ai/intentkit/dsl"
)

func TestAsk_FirstCallRequestsInteraction(t *testing.T) {
	a := dsl.NewAsk("what city?")
	rs := newFakeResolutionState()
	outcome, err := a.DoResolution(context.Background(), nil, rs, nil)
	require.NoError(t, err)
	assert.Equal(t, dsl.OutcomeInteractionRequested, outcome.Kind)
	assert.Equal(t, "what city?", outcome.Interaction.Question)
	assert.Same(t, a, outcome.Interaction.Requester)
}

func TestAsk_ResumeWithAnswerRoutesThroughSlotResolverOracle(t *testing.T) {
	rt := newFakeRuntime()
	rt.oracleReplies[dsl.PhaseSlotResolver] = `12`
	a := dsl.NewAsk("what length?")
	rs := newFakeResolutionState()
	outcome, err := a.DoResolution(context.Background(), rt, rs, &dsl.Interaction{Answer: "12mm"})
	require.NoError(t, err)
	require.Equal(t, dsl.OutcomeNewNodes, outcome.Kind)
	require.Len(t, outcome.Nodes, 1)
	v, ok := outcome.Nodes[0].(*dsl.Value)
	require.True(t, ok)
	assert.Equal(t, "12", v.Raw)

	require.Len(t, rs.QAHistory(), 1)
	assert.Equal(t, "12mm", rs.QAHistory()[0].Answer)
}

func TestAsk_EvalPanics(t *testing.T) {
	a := dsl.NewAsk("q")
	assert.Panics(t, func() { _, _ = a.Eval(context.Background(), nil) })
}

func TestQueryFill_ResolvesPlainValue(t *testing.T) {
	rt := newFakeRuntime()
	rt.oracleReplies[dsl.PhaseQueryFill] = `5`
	q := dsl.NewQueryFill("how many?")
	rs := newFakeResolutionState()
	outcome, err := q.DoResolution(context.Background(), rt, rs, nil)
	require.NoError(t, err)
	require.Len(t, outcome.Nodes, 1)
	v, ok := outcome.Nodes[0].(*dsl.Value)
	require.True(t, ok, "expected *dsl.Value, got %T", outcome.Nodes[0])
	assert.Equal(t, "5", v.Raw)
}

func TestQueryFill_AbortPrefixStripped(t *testing.T) {
	rt := newFakeRuntime()
	rt.oracleReplies[dsl.PhaseQueryFill] = "abort:ABORT()"
	q := dsl.NewQueryFill("how many?")
	rs := newFakeResolutionState()
	outcome, err := q.DoResolution(context.Background(), rt, rs, nil)
	require.NoError(t, err)
	require.Len(t, outcome.Nodes, 1)
	_, ok := outcome.Nodes[0].(*dsl.Abort)
	assert.True(t, ok)
}

func TestQueryFill_EvalPanics(t *testing.T) {
	q := dsl.NewQueryFill("q")
	assert.Panics(t, func() { _, _ = q.Eval(context.Background(), nil) })
}

func TestQueryUser_FirstCallRequestsInteraction(t *testing.T) {
	rt := newFakeRuntime()
	rt.oracleReplies[dsl.PhaseQueryUser] = "reasoning: count is missing\nuser friendly answer: How many do you need?"
	q := dsl.NewQueryUser("how many?")
	rs := newFakeResolutionState()
	outcome, err := q.DoResolution(context.Background(), rt, rs, nil)
	require.NoError(t, err)
	assert.Equal(t, dsl.OutcomeInteractionRequested, outcome.Kind)
}

func TestQueryUser_ResumeCallsOracleWithAnswer(t *testing.T) {
	rt := newFakeRuntime()
	rt.oracleReplies[dsl.PhaseSlotResolver] = `3`
	q := dsl.NewQueryUser("how many?")
	rs := newFakeResolutionState()
	rs.PushFrame("count", map[string]dsl.Node{})
	rs.SetCurrentSlot("n")
	outcome, err := q.DoResolution(context.Background(), rt, rs, &dsl.Interaction{Answer: "three"})
	require.NoError(t, err)
	require.Len(t, outcome.Nodes, 1)
	v, ok := outcome.Nodes[0].(*dsl.Value)
	require.True(t, ok)
	assert.Equal(t, "3", v.Raw)
	require.Len(t, rs.QAHistory(), 1)
	assert.Equal(t, "three", rs.QAHistory()[0].Answer)
}

func TestQueryGather_ResolvesViaOracleAndCanCarryPropagateSlots(t *testing.T) {
	rt := newFakeRuntime()
	rt.oracleReplies[dsl.PhaseQueryGather] = "reasoning: inferred from context\nuser friendly answer: 12 rooms, city Paris"
	rt.oracleReplies[dsl.PhaseIntentSequencer] = `5, PROPAGATE_SLOT(city="Paris")`
	q := dsl.NewQueryGather("book_hotel", "how many rooms?")
	rs := newFakeResolutionState()
	outcome, err := q.DoResolution(context.Background(), rt, rs, nil)
	require.NoError(t, err)
	require.Len(t, outcome.Nodes, 2)
	_, ok := outcome.Nodes[1].(*dsl.PropagateSlots)
	assert.True(t, ok)
}

func TestSameAsPreviousIntent_IsResolvedButUnevaluable(t *testing.T) {
	n := dsl.NewSameAsPreviousIntent()
	assert.True(t, n.IsResolved())
	_, err := n.Eval(context.Background(), nil)
	assert.ErrorIs(t, err, dsl.ErrSameAsPreviousIntentUnsupported)
}

func TestAbort_Eval(t *testing.T) {
	a := dsl.NewAbort()
	assert.Equal(t, "ABORT()", a.Render())
	_, err := a.Eval(context.Background(), nil)
	assert.ErrorIs(t, err, dsl.ErrControlOnlyNode)
}

func TestAbortWithNewDsl_RenderAndEval(t *testing.T) {
	retry := dsl.NewIntent("retry")
	a := dsl.NewAbortWithNewDsl(dsl.NewNodeList(retry))
	assert.Equal(t, `ABORT_WITH_NEW_INTENTS([retry()])`, a.Render())
	_, err := a.Eval(context.Background(), nil)
	assert.ErrorIs(t, err, dsl.ErrControlOnlyNode)
}

func TestPropagateSlots_BindingsAndRender(t *testing.T) {
	city, err := dsl.NewSlot("city", dsl.NewValue("Paris"))
	require.NoError(t, err)
	p := dsl.NewPropagateSlots(city)
	bindings := p.Bindings()
	require.Len(t, bindings, 1)
	assert.Equal(t, "city", bindings[0].Name)
	assert.Equal(t, `PROPAGATE_SLOT(city="Paris")`, p.Render())
}

func TestPropagateSlots_EvalFails(t *testing.T) {
	p := dsl.NewPropagateSlots()
	_, err := p.Eval(context.Background(), nil)
	assert.Error(t, err)
}
