package dsl

import (
	"context"
	"fmt"
)

// ReturnValue wraps an Intent so it can appear anywhere a value is expected,
// e.g. as the right-hand side of a Slot: `total=sum(a=2, b=x())`. Rendering
// is transparent — a ReturnValue renders identically to its wrapped Intent —
// the wrapper only exists so the type system can tell "a call used as a
// value" apart from "a call used as a top-level statement".
type ReturnValue struct {
	intent *Intent
}

// NewReturnValue wraps an Intent as a value expression.
func NewReturnValue(intent *Intent) *ReturnValue { return &ReturnValue{intent: intent} }

// Intent returns the wrapped call.
func (r *ReturnValue) Intent() *Intent { return r.intent }

func (r *ReturnValue) Render() string { return r.intent.Render() }

func (r *ReturnValue) Children() []Node { return []Node{r.intent} }

func (r *ReturnValue) UpdateChild(i int, n Node) error {
	if i != 0 {
		return errChildIndex
	}
	in, ok := n.(*Intent)
	if !ok {
		return fmt.Errorf("dsl: ReturnValue child must be an Intent, got %T", n)
	}
	r.intent = in
	return nil
}

func (r *ReturnValue) InsertChild(int, Node) error { return errNoChildren }
func (r *ReturnValue) RemoveChild(int) error       { return errNoChildren }

func (r *ReturnValue) IsResolved() bool { return r.intent.IsResolved() }
func (r *ReturnValue) ValueKind() bool  { return true }

func (r *ReturnValue) Equal(other Node) bool {
	o, ok := other.(*ReturnValue)
	return ok && o.intent.Equal(r.intent)
}

func (r *ReturnValue) PreResolution(ctx context.Context, rt Runtime, rs ResolutionState) {
	r.intent.PreResolution(ctx, rt, rs)
}
func (r *ReturnValue) PostResolution(ctx context.Context, rt Runtime, rs ResolutionState) {
	r.intent.PostResolution(ctx, rt, rs)
}
func (r *ReturnValue) OnReentryResolution(ctx context.Context, rt Runtime, rs ResolutionState, child Node) {
	r.intent.OnReentryResolution(ctx, rt, rs, child)
}

func (r *ReturnValue) DoResolution(context.Context, Runtime, ResolutionState, *Interaction) (ResolutionOutcome, error) {
	return Unchanged(), nil
}

// Eval evaluates the wrapped intent, invoking its tool.
func (r *ReturnValue) Eval(ctx context.Context, rt Runtime) (any, error) {
	return r.intent.Eval(ctx, rt)
}
