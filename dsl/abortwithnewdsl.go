package dsl

import "context"

// AbortWithNewDsl is a control directive carrying a replacement subtree:
// when the resolver finds one among a DoResolution call's replacement
// nodes, it unwinds to the nearest enclosing list element and replaces that
// element with NewDsl (with its only child when NewDsl holds exactly one,
// otherwise with the NodeList itself) instead of removing it outright. One
// parsed directly into the tree is unresolved and resolves to itself, so it
// takes the same path. It renders as the reserved head ABORT_WITH_NEW_INTENTS.
type AbortWithNewDsl struct {
	leaf
	NewDsl *NodeList
}

// NewAbortWithNewDsl constructs an AbortWithNewDsl directive carrying the
// already-parsed replacement subtree.
func NewAbortWithNewDsl(newDsl *NodeList) *AbortWithNewDsl {
	return &AbortWithNewDsl{NewDsl: newDsl}
}

func (a *AbortWithNewDsl) Render() string {
	return "ABORT_WITH_NEW_INTENTS([" + a.NewDsl.Render() + "])"
}

func (*AbortWithNewDsl) IsResolved() bool { return false }
func (*AbortWithNewDsl) ValueKind() bool  { return false }

func (a *AbortWithNewDsl) Equal(other Node) bool {
	o, ok := other.(*AbortWithNewDsl)
	return ok && o.NewDsl.Equal(a.NewDsl)
}

// DoResolution returns the directive itself as the replacement, which hands
// it to the resolver's abort-unwind.
func (a *AbortWithNewDsl) DoResolution(context.Context, Runtime, ResolutionState, *Interaction) (ResolutionOutcome, error) {
	return NewNodesOutcome(a), nil
}

func (a *AbortWithNewDsl) Eval(context.Context, Runtime) (any, error) {
	return nil, ErrControlOnlyNode
}
