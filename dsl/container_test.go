package dsl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalon-ai/intentkit/dsl"
)

func TestNodeList_AcceptsAnyChildKind(t *testing.T) {
	nl := dsl.NewNodeList(dsl.NewIntent("foo"), dsl.NewValue("1"))
	assert.Len(t, nl.Children(), 2)
	assert.Equal(t, "foo(), 1", nl.Render())
}

func TestNodeList_EvalEvaluatesEveryChild(t *testing.T) {
	nl := dsl.NewNodeList(dsl.NewValue("1"), dsl.NewValue("2"))
	out, err := nl.Eval(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2)}, out)
}

func TestNodeList_UpdateChildAcceptsAnything(t *testing.T) {
	nl := dsl.NewNodeList(dsl.NewValue("1"))
	err := nl.UpdateChild(0, dsl.NewIntent("foo"))
	assert.NoError(t, err)
}

func TestListValue_RejectsNonValueKindElement(t *testing.T) {
	_, err := dsl.NewListValue(dsl.NewIntent("foo"))
	assert.Error(t, err)
}

func TestListValue_RenderAndEval(t *testing.T) {
	lv, err := dsl.NewListValue(dsl.NewValue("1"), dsl.NewValue("2"))
	require.NoError(t, err)
	assert.Equal(t, "[1, 2]", lv.Render())

	out, err := lv.Eval(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2)}, out)
}

func TestListValue_UpdateChildRejectsNonValueKind(t *testing.T) {
	lv, err := dsl.NewListValue(dsl.NewValue("1"))
	require.NoError(t, err)
	err = lv.UpdateChild(0, dsl.NewIntent("foo"))
	assert.Error(t, err)
}

func TestListValue_IsResolved(t *testing.T) {
	resolved, err := dsl.NewListValue(dsl.NewValue("1"))
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved())

	unresolved, err := dsl.NewListValue(dsl.NewQueryFill("q"))
	require.NoError(t, err)
	assert.False(t, unresolved.IsResolved())
}

func TestNodeList_Equal(t *testing.T) {
	a := dsl.NewNodeList(dsl.NewValue("1"), dsl.NewValue("2"))
	b := dsl.NewNodeList(dsl.NewValue("1"), dsl.NewValue("2"))
	c := dsl.NewNodeList(dsl.NewValue("1"))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
