package dsl

import "context"

// ListValue is an ordered sequence of value-kind elements: `[a, b, c]`.
// Unlike NodeList, every element must satisfy ValueKind — a ListValue can
// hold Values, FuzzyValues, nested ListValues, ReturnValues, and the
// placeholder nodes (Ask, QueryFill, QueryUser, QueryGather) that still
// await resolution, but never a bare Intent or a control directive.
type ListValue struct {
	container
}

// NewListValue constructs a ListValue from elements, all of which must be
// value-kind.
func NewListValue(elements ...Node) (*ListValue, error) {
	c, err := newContainer(valueKind, elements...)
	if err != nil {
		return nil, err
	}
	return &ListValue{container: c}, nil
}

func (l *ListValue) Render() string {
	s := "["
	for i, k := range l.kids {
		if i > 0 {
			s += ", "
		}
		s += k.Render()
	}
	return s + "]"
}

func (l *ListValue) IsResolved() bool { return l.isResolved() }
func (l *ListValue) ValueKind() bool  { return true }

func (l *ListValue) Equal(other Node) bool {
	o, ok := other.(*ListValue)
	return ok && equalChildren(l.kids, o.kids)
}

func (l *ListValue) PreResolution(context.Context, Runtime, ResolutionState)  {}
func (l *ListValue) PostResolution(context.Context, Runtime, ResolutionState) {}
func (l *ListValue) OnReentryResolution(context.Context, Runtime, ResolutionState, Node) {}

func (l *ListValue) DoResolution(context.Context, Runtime, ResolutionState, *Interaction) (ResolutionOutcome, error) {
	return Unchanged(), nil
}

func (l *ListValue) Eval(ctx context.Context, rt Runtime) (any, error) {
	out := make([]any, len(l.kids))
	for i, k := range l.kids {
		v, err := k.Eval(ctx, rt)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
