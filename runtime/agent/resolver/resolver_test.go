package resolver_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalon-ai/intentkit/dsl"
	"github.com/avalon-ai/intentkit/runtime/agent/resolver"
)

type fakeRuntime struct {
	oracleReplies map[dsl.OraclePhase]string
	tools         map[string]dsl.ToolInvoker
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{oracleReplies: make(map[dsl.OraclePhase]string), tools: make(map[string]dsl.ToolInvoker)}
}

func (f *fakeRuntime) LookupTool(name string) (dsl.ToolInvoker, bool) {
	t, ok := f.tools[name]
	return t, ok
}

func (f *fakeRuntime) CallOracle(_ context.Context, phase dsl.OraclePhase, _, _ string) (string, error) {
	reply, ok := f.oracleReplies[phase]
	if !ok {
		return "", fmt.Errorf("fakeRuntime: no reply for phase %q", phase)
	}
	return reply, nil
}

func (f *fakeRuntime) SystemPrompt(dsl.OraclePhase) string { return "system" }

func (f *fakeRuntime) BuildSlotPrompt(_ dsl.ResolutionState, question string) string { return question }

func mustSlot(t *testing.T, name string, value dsl.Node) *dsl.Slot {
	t.Helper()
	s, err := dsl.NewSlot(name, value)
	require.NoError(t, err)
	return s
}

func TestResolver_AlreadyResolvedTreeIsImmediatelyDone(t *testing.T) {
	tree := dsl.NewNodeList(dsl.NewIntent("add", mustSlot(t, "a", dsl.NewValue("1"))))
	r := resolver.NewFromTree(newFakeRuntime(), tree)

	out, err := r.Step(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, out.Done)
	assert.Nil(t, out.Interaction)

	// Tree must still be retrievable after Done — regression check for the
	// resolver losing the root frame once it finishes.
	assert.NotNil(t, r.Tree())
	assert.True(t, r.Tree().IsResolved())
}

func TestResolver_AskPausesThenResumes(t *testing.T) {
	rt := newFakeRuntime()
	rt.oracleReplies[dsl.PhaseSlotResolver] = `Ada`
	tree := dsl.NewNodeList(dsl.NewIntent("greet", mustSlot(t, "name", dsl.NewAsk("what is your name?"))))
	r := resolver.NewFromTree(rt, tree)

	out, err := r.Step(context.Background(), "")
	require.NoError(t, err)
	require.False(t, out.Done)
	require.NotNil(t, out.Interaction)
	assert.Equal(t, "what is your name?", out.Interaction.Question)

	out, err = r.Step(context.Background(), "Ada")
	require.NoError(t, err)
	assert.True(t, out.Done)

	intent := r.Tree().Children()[0].(*dsl.Intent)
	nameSlot, ok := intent.Slot("name")
	require.True(t, ok)
	v, ok := nameSlot.Value().(*dsl.Value)
	require.True(t, ok)
	assert.Equal(t, "Ada", v.Raw)
}

func TestResolver_QueryFillResolvesViaOracleWithoutPausing(t *testing.T) {
	rt := newFakeRuntime()
	rt.oracleReplies[dsl.PhaseQueryFill] = `5`
	tree := dsl.NewNodeList(dsl.NewIntent("count", mustSlot(t, "n", dsl.NewQueryFill("how many?"))))
	r := resolver.NewFromTree(rt, tree)

	out, err := r.Step(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, out.Done)

	intent := r.Tree().Children()[0].(*dsl.Intent)
	n, _ := intent.Slot("n")
	v := n.Value().(*dsl.Value)
	assert.Equal(t, "5", v.Raw)
}

func TestResolver_AbortRemovesIntentFromRootList(t *testing.T) {
	rt := newFakeRuntime()
	rt.oracleReplies[dsl.PhaseQueryFill] = `ABORT()`

	keep := dsl.NewIntent("keep", mustSlot(t, "a", dsl.NewValue("1")))
	drop := dsl.NewIntent("drop", mustSlot(t, "n", dsl.NewQueryFill("how many?")))
	tree := dsl.NewNodeList(keep, drop)
	r := resolver.NewFromTree(rt, tree)

	out, err := r.Step(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, out.Done)

	children := r.Tree().Children()
	require.Len(t, children, 1)
	assert.Equal(t, "keep", children[0].(*dsl.Intent).Name)
}

func TestResolver_AbortWithNewDslSplicesReplacement(t *testing.T) {
	rt := newFakeRuntime()
	rt.oracleReplies[dsl.PhaseQueryFill] = `ABORT_WITH_NEW_INTENTS([replacement(x=9)])`

	drop := dsl.NewIntent("drop", mustSlot(t, "n", dsl.NewQueryFill("how many?")))
	tree := dsl.NewNodeList(drop)
	r := resolver.NewFromTree(rt, tree)

	out, err := r.Step(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, out.Done)

	children := r.Tree().Children()
	require.Len(t, children, 1)
	intent := children[0].(*dsl.Intent)
	assert.Equal(t, "replacement", intent.Name)
	x, ok := intent.Slot("x")
	require.True(t, ok)
	assert.Equal(t, "9", x.Value().(*dsl.Value).Raw)
}

func TestResolver_QueryGatherPropagateSlotsIsConsumedNotSpliced(t *testing.T) {
	rt := newFakeRuntime()
	rt.oracleReplies[dsl.PhaseQueryGather] = "reasoning: context has both\nuser friendly answer: 5 items, city Paris"
	rt.oracleReplies[dsl.PhaseIntentSequencer] = `5, PROPAGATE_SLOT(city="Paris")`

	tree := dsl.NewNodeList(dsl.NewIntent("count", mustSlot(t, "n", dsl.NewQueryGather("count", "how many?"))))
	r := resolver.NewFromTree(rt, tree)

	out, err := r.Step(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, out.Done)

	intent := r.Tree().Children()[0].(*dsl.Intent)
	assert.Len(t, intent.Slots(), 2)
	n, _ := intent.Slot("n")
	assert.Equal(t, "5", n.Value().(*dsl.Value).Raw)
}

func TestNewFromPrompt_ParsesIntentSequencerReply(t *testing.T) {
	rt := newFakeRuntime()
	rt.oracleReplies[dsl.PhaseIntentSequencer] = `add(a=1, b=2)`

	r, err := resolver.NewFromPrompt(context.Background(), rt, "add one and two")
	require.NoError(t, err)

	out, err := r.Step(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, out.Done)
	assert.Equal(t, "add", r.Tree().Children()[0].(*dsl.Intent).Name)
}

func TestNewFromPrompt_PropagatesOracleError(t *testing.T) {
	rt := newFakeRuntime()
	_, err := resolver.NewFromPrompt(context.Background(), rt, "whatever")
	assert.Error(t, err)
}
