package dsl

import (
	"context"
	"fmt"
)

// Intent is a call-like node: a tool name together with its named argument
// bindings, e.g. `add(a=2, b=3)`. Its children are always *Slot. Resolving
// an Intent resolves each of its slots; evaluating it invokes the
// correspondingly named tool.
type Intent struct {
	container
	Name string
}

func intentChildKind(n Node) error {
	if _, ok := n.(*Slot); !ok {
		return fmt.Errorf("dsl: intent children must be slots, got %T", n)
	}
	return nil
}

// NewIntent constructs an Intent named name bound to slots.
func NewIntent(name string, slots ...*Slot) *Intent {
	kids := make([]Node, len(slots))
	for i, s := range slots {
		kids[i] = s
	}
	c, _ := newContainer(intentChildKind, kids...)
	return &Intent{container: c, Name: name}
}

// Slots returns the intent's argument bindings in declaration order.
func (n *Intent) Slots() []*Slot {
	out := make([]*Slot, len(n.kids))
	for i, k := range n.kids {
		out[i] = k.(*Slot)
	}
	return out
}

// Slot returns the named slot, if bound.
func (n *Intent) Slot(name string) (*Slot, bool) {
	for _, k := range n.kids {
		s := k.(*Slot)
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

func (n *Intent) Render() string {
	s := n.Name + "("
	for i, k := range n.kids {
		if i > 0 {
			s += ", "
		}
		s += k.Render()
	}
	return s + ")"
}

func (n *Intent) IsResolved() bool { return n.isResolved() }
func (n *Intent) ValueKind() bool  { return false }

func (n *Intent) Equal(other Node) bool {
	o, ok := other.(*Intent)
	return ok && o.Name == n.Name && equalChildren(n.kids, o.kids)
}

// PreResolution pushes an intent frame so sibling slots can render an
// "other slots" block in their own oracle prompts.
func (n *Intent) PreResolution(_ context.Context, _ Runtime, rs ResolutionState) {
	slots := make(map[string]Node, len(n.kids))
	for _, k := range n.kids {
		s := k.(*Slot)
		slots[s.Name] = s.value
	}
	rs.PushFrame(n.Name, slots)
}

// PostResolution pops the frame pushed by PreResolution.
func (n *Intent) PostResolution(_ context.Context, _ Runtime, rs ResolutionState) {
	rs.PopFrame()
}

// OnReentryResolution first merges any queued slot propagations into this
// intent (overwriting a slot of the same name, appending a new slot
// otherwise), then refreshes the frame's slot snapshot after a child slot
// substitutes its value, so later siblings see the updated binding.
func (n *Intent) OnReentryResolution(_ context.Context, _ Runtime, rs ResolutionState, _ Node) {
	for _, p := range rs.DrainPropagations() {
		if s, ok := n.Slot(p.Name); ok {
			_ = s.UpdateChild(0, p.Value)
			continue
		}
		if s, err := NewSlot(p.Name, p.Value); err == nil {
			_ = n.InsertChild(len(n.kids), s)
		}
	}
	slots := make(map[string]Node, len(n.kids))
	for _, k := range n.kids {
		s := k.(*Slot)
		slots[s.Name] = s.value
	}
	rs.PushFrame(n.Name, slots)
}

func (n *Intent) DoResolution(context.Context, Runtime, ResolutionState, *Interaction) (ResolutionOutcome, error) {
	return Unchanged(), nil
}

// Eval looks up the tool named Name, casts each resolved slot value to the
// tool's declared argument type, invokes it, and casts the result.
func (n *Intent) Eval(ctx context.Context, rt Runtime) (any, error) {
	tool, ok := rt.LookupTool(n.Name)
	if !ok {
		return nil, fmt.Errorf("dsl: no tool registered for intent %q", n.Name)
	}

	args := make(map[string]any, len(n.kids))
	for _, k := range n.kids {
		s := k.(*Slot)
		v, err := s.value.Eval(ctx, rt)
		if err != nil {
			return nil, fmt.Errorf("dsl: evaluating slot %q of %q: %w", s.Name, n.Name, err)
		}
		cast, err := tool.CastArg(s.Name, v, true)
		if err != nil {
			return nil, fmt.Errorf("dsl: casting slot %q of %q: %w", s.Name, n.Name, err)
		}
		args[s.Name] = cast
	}

	result, err := tool.Invoke(ctx, args)
	if err != nil {
		return nil, err
	}
	return tool.CastResult(result)
}
