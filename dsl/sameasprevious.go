package dsl

import (
	"context"
	"errors"
)

// ErrSameAsPreviousIntentUnsupported is returned by SameAsPreviousIntent.Eval.
// The node exists in the grammar so the oracle can reference "whatever value
// a prior similar intent used for this slot" without re-stating it, but
// resolving that reference requires tracking intent history this engine
// does not keep; evaluating one is a deliberate dead end rather than a
// best-effort guess.
var ErrSameAsPreviousIntentUnsupported = errors.New("dsl: SameAsPreviousIntent cannot be evaluated")

// SameAsPreviousIntent is a value-kind placeholder with no payload: "use
// whatever value the previous similar intent used here". It carries no
// further information to resolve against, so it is considered resolved on
// sight; evaluating it always fails.
type SameAsPreviousIntent struct {
	leaf
}

// NewSameAsPreviousIntent constructs a SameAsPreviousIntent node.
func NewSameAsPreviousIntent() *SameAsPreviousIntent { return &SameAsPreviousIntent{} }

func (*SameAsPreviousIntent) Render() string { return "SAME_AS_PREVIOUS_INTENT()" }

func (*SameAsPreviousIntent) IsResolved() bool { return true }
func (*SameAsPreviousIntent) ValueKind() bool  { return true }

func (*SameAsPreviousIntent) Equal(other Node) bool {
	_, ok := other.(*SameAsPreviousIntent)
	return ok
}

func (*SameAsPreviousIntent) Eval(context.Context, Runtime) (any, error) {
	return nil, ErrSameAsPreviousIntentUnsupported
}
