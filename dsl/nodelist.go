package dsl

import "context"

// NodeList is an ordered, heterogeneous sequence of nodes: the root of a
// parsed request, and the replacement subtree carried by an
// AbortWithNewDsl. Unlike ListValue it imposes no restriction on child kind.
type NodeList struct {
	container
}

// NewNodeList constructs a NodeList from any mix of nodes.
func NewNodeList(nodes ...Node) *NodeList {
	c, _ := newContainer(anyKind, nodes...)
	return &NodeList{container: c}
}

func (n *NodeList) Render() string {
	s := ""
	for i, k := range n.kids {
		if i > 0 {
			s += ", "
		}
		s += k.Render()
	}
	return s
}

func (n *NodeList) IsResolved() bool { return n.isResolved() }
func (n *NodeList) ValueKind() bool  { return false }

func (n *NodeList) Equal(other Node) bool {
	o, ok := other.(*NodeList)
	return ok && equalChildren(n.kids, o.kids)
}

func (n *NodeList) PreResolution(context.Context, Runtime, ResolutionState)  {}
func (n *NodeList) PostResolution(context.Context, Runtime, ResolutionState) {}

// OnReentryResolution re-validates nothing; NodeList accepts any child kind,
// so a substitution never needs correcting here.
func (n *NodeList) OnReentryResolution(context.Context, Runtime, ResolutionState, Node) {}

func (n *NodeList) DoResolution(context.Context, Runtime, ResolutionState, *Interaction) (ResolutionOutcome, error) {
	return Unchanged(), nil
}

// Eval evaluates every child in order and returns their values as a slice.
func (n *NodeList) Eval(ctx context.Context, rt Runtime) (any, error) {
	out := make([]any, len(n.kids))
	for i, k := range n.kids {
		v, err := k.Eval(ctx, rt)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
