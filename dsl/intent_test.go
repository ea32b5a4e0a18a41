package dsl_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalon-ai/intentkit/dsl"
)

func mustSlot(t *testing.T, name string, value dsl.Node) *dsl.Slot {
	t.Helper()
	s, err := dsl.NewSlot(name, value)
	require.NoError(t, err)
	return s
}

func TestSlot_RejectsNonValueKindChild(t *testing.T) {
	_, err := dsl.NewSlot("x", dsl.NewIntent("foo"))
	assert.Error(t, err)
}

func TestSlot_RenderAndEval(t *testing.T) {
	s := mustSlot(t, "a", dsl.NewValue("1"))
	assert.Equal(t, "a=1", s.Render())
	out, err := s.Eval(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out)
}

func TestSlot_PreResolutionSetsCurrentSlot(t *testing.T) {
	s := mustSlot(t, "a", dsl.NewValue("1"))
	rs := newFakeResolutionState()
	s.PreResolution(context.Background(), nil, rs)
	name, ok := rs.CurrentSlotName()
	require.True(t, ok)
	assert.Equal(t, "a", name)
	s.PostResolution(context.Background(), nil, rs)
	_, ok = rs.CurrentSlotName()
	assert.False(t, ok)
}

func TestIntent_SlotLookupAndRender(t *testing.T) {
	intent := dsl.NewIntent("add", mustSlot(t, "a", dsl.NewValue("1")), mustSlot(t, "b", dsl.NewValue("2")))
	assert.Equal(t, "add(a=1, b=2)", intent.Render())

	a, ok := intent.Slot("a")
	require.True(t, ok)
	assert.Equal(t, "a", a.Name)

	_, ok = intent.Slot("z")
	assert.False(t, ok)
}

func TestIntent_EvalInvokesTool(t *testing.T) {
	tool := &fakeTool{name: "add", result: 3}
	rt := newFakeRuntime()
	rt.tools["add"] = tool

	intent := dsl.NewIntent("add", mustSlot(t, "a", dsl.NewValue("1")), mustSlot(t, "b", dsl.NewValue("2")))
	out, err := intent.Eval(context.Background(), rt)
	require.NoError(t, err)
	assert.Equal(t, 3, out)
	assert.Equal(t, int64(1), tool.lastArgs["a"])
	assert.Equal(t, int64(2), tool.lastArgs["b"])
}

func TestIntent_EvalMissingToolErrors(t *testing.T) {
	rt := newFakeRuntime()
	intent := dsl.NewIntent("missing")
	_, err := intent.Eval(context.Background(), rt)
	assert.Error(t, err)
}

func TestIntent_EvalPropagatesToolError(t *testing.T) {
	tool := &fakeTool{name: "add", err: errors.New("boom")}
	rt := newFakeRuntime()
	rt.tools["add"] = tool
	intent := dsl.NewIntent("add", mustSlot(t, "a", dsl.NewValue("1")))
	_, err := intent.Eval(context.Background(), rt)
	assert.ErrorContains(t, err, "boom")
}

func TestIntent_PreResolutionPushesFrameWithSlotSnapshot(t *testing.T) {
	intent := dsl.NewIntent("add", mustSlot(t, "a", dsl.NewValue("1")))
	rs := newFakeResolutionState()
	intent.PreResolution(context.Background(), nil, rs)
	name, ok := rs.CurrentIntentName()
	require.True(t, ok)
	assert.Equal(t, "add", name)
	assert.Contains(t, rs.OtherSlots(), "a")
}

func TestIntent_IsResolvedReflectsChildren(t *testing.T) {
	resolved := dsl.NewIntent("add", mustSlot(t, "a", dsl.NewValue("1")))
	assert.True(t, resolved.IsResolved())

	unresolved := dsl.NewIntent("add", mustSlot(t, "a", dsl.NewQueryFill("q")))
	assert.False(t, unresolved.IsResolved())
}

func TestIntentEvaluatedSuccess_EvalReturnsCachedValue(t *testing.T) {
	intent := dsl.NewIntent("add")
	success := dsl.NewIntentEvaluatedSuccess(intent, 42)
	out, err := success.Eval(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 42, out)
	assert.Equal(t, intent.Render(), success.Render())
	assert.True(t, success.IsResolved())
}

func TestIntentRuntimeErrorResolver_DoResolutionAsksOracle(t *testing.T) {
	intent := dsl.NewIntent("add", mustSlot(t, "a", dsl.NewValue("1")))
	rt := newFakeRuntime()
	rt.oracleReplies[dsl.PhaseErrorResolver] = `2`
	resolver := dsl.NewIntentRuntimeErrorResolver(intent, "tool exploded")
	rs := newFakeResolutionState()
	outcome, err := resolver.DoResolution(context.Background(), rt, rs, &dsl.Interaction{Answer: "use 2 instead"})
	require.NoError(t, err)
	require.Len(t, outcome.Nodes, 1)
	v, ok := outcome.Nodes[0].(*dsl.Value)
	require.True(t, ok)
	assert.Equal(t, "2", v.Raw)
}

func TestIntentRuntimeErrorResolver_EvalPanics(t *testing.T) {
	intent := dsl.NewIntent("add")
	resolver := dsl.NewIntentRuntimeErrorResolver(intent, "boom")
	assert.False(t, resolver.IsResolved())
	assert.Panics(t, func() { _, _ = resolver.Eval(context.Background(), nil) })
}

func TestReturnValue_RenderDelegatesToIntent(t *testing.T) {
	intent := dsl.NewIntent("sum", mustSlot(t, "a", dsl.NewValue("1")))
	rv := dsl.NewReturnValue(intent)
	assert.Equal(t, intent.Render(), rv.Render())
	assert.True(t, rv.ValueKind())
}

func TestReturnValue_EvalInvokesWrappedIntent(t *testing.T) {
	tool := &fakeTool{name: "sum", result: 7}
	rt := newFakeRuntime()
	rt.tools["sum"] = tool
	intent := dsl.NewIntent("sum", mustSlot(t, "a", dsl.NewValue("1")))
	rv := dsl.NewReturnValue(intent)
	out, err := rv.Eval(context.Background(), rt)
	require.NoError(t, err)
	assert.Equal(t, 7, out)
}

func TestReturnValue_UpdateChildRejectsNonIntent(t *testing.T) {
	intent := dsl.NewIntent("sum")
	rv := dsl.NewReturnValue(intent)
	err := rv.UpdateChild(0, dsl.NewValue("x"))
	assert.Error(t, err)
}
