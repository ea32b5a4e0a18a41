package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalon-ai/intentkit/dsl"
)

func TestParse_SimpleIntent(t *testing.T) {
	tree, err := dsl.Parse(`add(a=2, b=3)`)
	require.NoError(t, err)
	children := tree.Children()
	require.Len(t, children, 1)

	intent, ok := children[0].(*dsl.Intent)
	require.True(t, ok)
	assert.Equal(t, "add", intent.Name)

	a, ok := intent.Slot("a")
	require.True(t, ok)
	v, ok := a.Value().(*dsl.Value)
	require.True(t, ok)
	assert.Equal(t, "2", v.Raw)
}

func TestParse_MultipleTopLevelIntents(t *testing.T) {
	tree, err := dsl.Parse(`add(a=1, b=2), sub(a=3, b=4)`)
	require.NoError(t, err)
	assert.Len(t, tree.Children(), 2)
}

func TestParse_NestedCallAsSlotValueWrapsInReturnValue(t *testing.T) {
	tree, err := dsl.Parse(`total(x=sum(a=1, b=2))`)
	require.NoError(t, err)
	intent := tree.Children()[0].(*dsl.Intent)
	x, ok := intent.Slot("x")
	require.True(t, ok)
	rv, ok := x.Value().(*dsl.ReturnValue)
	require.True(t, ok)
	assert.Equal(t, "sum", rv.Intent().Name)
}

func TestParse_QuotedStringValue(t *testing.T) {
	tree, err := dsl.Parse(`greet(name="Ada")`)
	require.NoError(t, err)
	intent := tree.Children()[0].(*dsl.Intent)
	name, _ := intent.Slot("name")
	v := name.Value().(*dsl.Value)
	assert.Equal(t, "Ada", v.Raw)
}

func TestParse_ListValue(t *testing.T) {
	tree, err := dsl.Parse(`pick(items=[1, 2, 3])`)
	require.NoError(t, err)
	intent := tree.Children()[0].(*dsl.Intent)
	items, _ := intent.Slot("items")
	lv, ok := items.Value().(*dsl.ListValue)
	require.True(t, ok)
	assert.Len(t, lv.Children(), 3)
}

func TestParse_EmptyListValue(t *testing.T) {
	tree, err := dsl.Parse(`pick(items=[])`)
	require.NoError(t, err)
	intent := tree.Children()[0].(*dsl.Intent)
	items, _ := intent.Slot("items")
	lv, ok := items.Value().(*dsl.ListValue)
	require.True(t, ok)
	assert.Empty(t, lv.Children())
}

func TestParse_FuzzyValue(t *testing.T) {
	node, err := dsl.ParseValue(`F('a couple')`)
	require.NoError(t, err)
	fv, ok := node.(*dsl.FuzzyValue)
	require.True(t, ok)
	assert.Equal(t, "a couple", fv.Text)
}

func TestParse_Ask(t *testing.T) {
	node, err := dsl.ParseValue(`ASK('what city?')`)
	require.NoError(t, err)
	a, ok := node.(*dsl.Ask)
	require.True(t, ok)
	assert.Equal(t, "what city?", a.Question)
}

func TestParse_QueryForms(t *testing.T) {
	cases := map[string]func(dsl.Node) bool{
		`QUERY_FILL('q')`:           func(n dsl.Node) bool { _, ok := n.(*dsl.QueryFill); return ok },
		`QUERY_USER('q')`:           func(n dsl.Node) bool { _, ok := n.(*dsl.QueryUser); return ok },
		`QUERY_GATHER('book', 'q')`: func(n dsl.Node) bool { _, ok := n.(*dsl.QueryGather); return ok },
	}
	for src, check := range cases {
		node, err := dsl.ParseValue(src)
		require.NoError(t, err, src)
		assert.True(t, check(node), src)
	}
}

func TestParse_SameAsPreviousIntent(t *testing.T) {
	node, err := dsl.ParseValue(`SAME_AS_PREVIOUS_INTENT()`)
	require.NoError(t, err)
	_, ok := node.(*dsl.SameAsPreviousIntent)
	assert.True(t, ok)
}

func TestParse_SameAsPreviousIntentRejectsArgs(t *testing.T) {
	_, err := dsl.ParseValue(`SAME_AS_PREVIOUS_INTENT(x=1)`)
	assert.Error(t, err)
}

func TestParseReplacement_Abort(t *testing.T) {
	tree, err := dsl.ParseReplacement(`ABORT()`)
	require.NoError(t, err)
	_, ok := tree.Children()[0].(*dsl.Abort)
	assert.True(t, ok)
}

func TestParseReplacement_AbortRejectsArgs(t *testing.T) {
	_, err := dsl.ParseReplacement(`ABORT(x=1)`)
	assert.Error(t, err)
}

func TestParseReplacement_AbortWithNewDsl(t *testing.T) {
	tree, err := dsl.ParseReplacement(`ABORT_WITH_NEW_INTENTS([retry(a=1)])`)
	require.NoError(t, err)
	a, ok := tree.Children()[0].(*dsl.AbortWithNewDsl)
	require.True(t, ok)
	require.Len(t, a.NewDsl.Children(), 1)
	intent, ok := a.NewDsl.Children()[0].(*dsl.Intent)
	require.True(t, ok)
	assert.Equal(t, "retry", intent.Name)
}

func TestParseReplacement_PropagateSlots(t *testing.T) {
	tree, err := dsl.ParseReplacement(`PROPAGATE_SLOT(city="Paris", count=2)`)
	require.NoError(t, err)
	p, ok := tree.Children()[0].(*dsl.PropagateSlots)
	require.True(t, ok)
	bindings := p.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, "city", bindings[0].Name)
}

func TestParseValue_BareWordIsValue(t *testing.T) {
	node, err := dsl.ParseValue("true")
	require.NoError(t, err)
	v, ok := node.(*dsl.Value)
	require.True(t, ok)
	assert.Equal(t, "true", v.Raw)
}

func TestParseValue_RejectsMalformedList(t *testing.T) {
	_, err := dsl.ParseValue("[1, 2")
	assert.Error(t, err)
}

func TestParseSlotArgs_InvalidSlotName(t *testing.T) {
	_, err := dsl.Parse(`add(1a=2)`)
	assert.Error(t, err)
}

func TestParse_RenderRoundTrip(t *testing.T) {
	src := `add(a=2, b="x", c=[1, 2], d=F('a couple'))`
	tree, err := dsl.Parse(src)
	require.NoError(t, err)
	reparsed, err := dsl.Parse(tree.Render())
	require.NoError(t, err)
	assert.True(t, tree.Equal(reparsed))
}
