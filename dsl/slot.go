package dsl

import "context"

// Slot binds a name to a value-kind child inside an Intent's argument list
// (`name=value`). It carries no meaning of its own beyond that binding; the
// oracle interaction, if any, happens on its value child (typically a
// QueryFill or Ask placeholder) while the Slot's own hooks only track which
// slot is "current" for the duration, so the value's prompt can describe the
// intent's other slots.
type Slot struct {
	Name  string
	value Node
}

// NewSlot constructs a Slot bound to a value-kind child.
func NewSlot(name string, value Node) (*Slot, error) {
	if !value.ValueKind() {
		return nil, errNotValueKind
	}
	return &Slot{Name: name, value: value}, nil
}

// Value returns the slot's bound child.
func (s *Slot) Value() Node { return s.value }

func (s *Slot) Render() string {
	return s.Name + "=" + s.value.Render()
}

func (s *Slot) Children() []Node { return []Node{s.value} }

func (s *Slot) UpdateChild(i int, n Node) error {
	if i != 0 {
		return errChildIndex
	}
	if !n.ValueKind() {
		return errNotValueKind
	}
	s.value = n
	return nil
}

func (s *Slot) InsertChild(int, Node) error { return errNoChildren }
func (s *Slot) RemoveChild(int) error       { return errNoChildren }

func (s *Slot) IsResolved() bool { return s.value.IsResolved() }
func (s *Slot) ValueKind() bool  { return false }

func (s *Slot) Equal(other Node) bool {
	o, ok := other.(*Slot)
	return ok && o.Name == s.Name && o.value.Equal(s.value)
}

// PreResolution marks this slot as the "current slot" so the oracle prompt
// built while resolving its value can describe the intent's other slots.
func (s *Slot) PreResolution(_ context.Context, _ Runtime, rs ResolutionState) {
	rs.SetCurrentSlot(s.Name)
}

// PostResolution clears the current-slot marker set by PreResolution.
func (s *Slot) PostResolution(_ context.Context, _ Runtime, rs ResolutionState) {
	rs.ClearCurrentSlot()
}

func (s *Slot) OnReentryResolution(context.Context, Runtime, ResolutionState, Node) {}

func (s *Slot) DoResolution(context.Context, Runtime, ResolutionState, *Interaction) (ResolutionOutcome, error) {
	return Unchanged(), nil
}

// Eval returns the evaluated value; callers look up the Slot's Name
// separately to build an Intent's argument map.
func (s *Slot) Eval(ctx context.Context, rt Runtime) (any, error) {
	return s.value.Eval(ctx, rt)
}
