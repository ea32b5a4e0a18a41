package dsl

import (
	"context"
	"errors"
)

// ErrControlOnlyNode is returned by Eval on nodes that exist only to direct
// the resolver and never carry an evaluable value.
var ErrControlOnlyNode = errors.New("dsl: control-only node cannot be evaluated")

// Abort is a control directive that is never left in a finished tree: when
// the resolver finds one among a DoResolution call's replacement nodes, it
// unwinds to the nearest enclosing list element and removes it instead of
// substituting it in place. An Abort parsed directly into the tree is
// unresolved and resolves to itself, so it takes the same path.
type Abort struct {
	leaf
}

// NewAbort constructs an Abort directive.
func NewAbort() *Abort { return &Abort{} }

func (*Abort) Render() string { return "ABORT()" }

func (*Abort) IsResolved() bool { return false }
func (*Abort) ValueKind() bool  { return false }

func (*Abort) Equal(other Node) bool {
	_, ok := other.(*Abort)
	return ok
}

// DoResolution returns the Abort itself as the replacement, which hands it to
// the resolver's abort-unwind.
func (a *Abort) DoResolution(context.Context, Runtime, ResolutionState, *Interaction) (ResolutionOutcome, error) {
	return NewNodesOutcome(a), nil
}

func (*Abort) Eval(context.Context, Runtime) (any, error) {
	return nil, ErrControlOnlyNode
}
