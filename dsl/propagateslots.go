package dsl

import (
	"context"
	"fmt"
)

// PropagateSlots is a control directive produced by the oracle, never a
// value in its own right: it carries a set of (name, value) bindings that
// the resolver lifts out of the NEW_DSL_NODES replacement list and queues
// for delivery to the nearest enclosing Intent, which overwrites a slot of
// the same name or appends a new slot, rather than splicing a
// PropagateSlots node into the tree itself.
type PropagateSlots struct {
	container
}

func propagateSlotChildKind(n Node) error {
	if _, ok := n.(*Slot); !ok {
		return fmt.Errorf("dsl: propagate_slots entries must be slots, got %T", n)
	}
	return nil
}

// NewPropagateSlots constructs a PropagateSlots node from name=value
// bindings.
func NewPropagateSlots(bindings ...*Slot) *PropagateSlots {
	kids := make([]Node, len(bindings))
	for i, b := range bindings {
		kids[i] = b
	}
	c, _ := newContainer(propagateSlotChildKind, kids...)
	return &PropagateSlots{container: c}
}

// Bindings returns the name=value pairs this node carries.
func (p *PropagateSlots) Bindings() []PropagatedSlot {
	out := make([]PropagatedSlot, len(p.kids))
	for i, k := range p.kids {
		s := k.(*Slot)
		out[i] = PropagatedSlot{Name: s.Name, Value: s.value}
	}
	return out
}

func (p *PropagateSlots) Render() string {
	s := "PROPAGATE_SLOT("
	for i, k := range p.kids {
		if i > 0 {
			s += ", "
		}
		s += k.Render()
	}
	return s + ")"
}

func (p *PropagateSlots) IsResolved() bool { return p.isResolved() }
func (p *PropagateSlots) ValueKind() bool  { return false }

func (p *PropagateSlots) Equal(other Node) bool {
	o, ok := other.(*PropagateSlots)
	return ok && equalChildren(p.kids, o.kids)
}

func (p *PropagateSlots) PreResolution(context.Context, Runtime, ResolutionState)  {}
func (p *PropagateSlots) PostResolution(context.Context, Runtime, ResolutionState) {}
func (p *PropagateSlots) OnReentryResolution(context.Context, Runtime, ResolutionState, Node) {}

func (p *PropagateSlots) DoResolution(context.Context, Runtime, ResolutionState, *Interaction) (ResolutionOutcome, error) {
	return Unchanged(), nil
}

// Eval is never reached: the resolver consumes PropagateSlots nodes out of
// the tree before evaluation begins.
func (p *PropagateSlots) Eval(context.Context, Runtime) (any, error) {
	return nil, fmt.Errorf("dsl: PropagateSlots cannot be evaluated, it must be consumed during resolution")
}
