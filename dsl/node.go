package dsl

import (
	"context"
	"errors"
)

// errChildIndex is returned by container child-mutation methods when the
// index is out of range.
var errChildIndex = errors.New("dsl: child index out of range")

// errNoChildren is returned by leaf nodes, which never have children.
var errNoChildren = errors.New("dsl: node has no children")

// Node is the uniform interface every DSL tree element implements, whether
// it is a leaf value, a container, or a control directive produced only
// during resolution.
type Node interface {
	// Render produces the canonical surface-string form of the node. For any
	// tree built entirely from nodes the renderer can quote, Parse(Render(n))
	// reconstructs a structurally equal tree.
	Render() string

	// Children returns a defensive copy of the node's immediate children, in
	// order. Leaves return nil.
	Children() []Node
	// UpdateChild replaces the child at i. It returns an error if i is out
	// of range or n does not satisfy the container's expected child kind.
	UpdateChild(i int, n Node) error
	// InsertChild inserts n at position i, shifting later children right.
	InsertChild(i int, n Node) error
	// RemoveChild removes the child at i, shifting later children left.
	RemoveChild(i int) error

	// IsResolved reports whether this node (and, for containers, all of its
	// children) requires no further resolution.
	IsResolved() bool
	// ValueKind reports whether this node may appear anywhere a value
	// expression is expected (as a ListValue element or the right-hand side
	// of a Slot binding).
	ValueKind() bool
	// Equal reports structural equality with other.
	Equal(other Node) bool

	// PreResolution runs once, immediately before this node is pushed onto
	// the resolver's traversal stack.
	PreResolution(ctx context.Context, rt Runtime, rs ResolutionState)
	// DoResolution runs once a node's children have all been visited (or
	// immediately, for a leaf). interaction is non-nil only when resuming a
	// node whose previous DoResolution call returned an
	// InteractionRequested outcome.
	DoResolution(ctx context.Context, rt Runtime, rs ResolutionState, interaction *Interaction) (ResolutionOutcome, error)
	// PostResolution runs once, after DoResolution has produced a final
	// (non-pausing) outcome for this node.
	PostResolution(ctx context.Context, rt Runtime, rs ResolutionState)
	// OnReentryResolution notifies a container that one of its children was
	// just substituted or resolved, before the traversal continues to the
	// next sibling.
	OnReentryResolution(ctx context.Context, rt Runtime, rs ResolutionState, child Node)

	// Eval evaluates a fully resolved node to a plain Go value (for Value,
	// FuzzyValue, ListValue, ReturnValue, ...) or executes it (for Intent).
	// It must not be called on a node for which IsResolved is false.
	Eval(ctx context.Context, rt Runtime) (any, error)
}

// OraclePhase names one of the five prompt phases the oracle is invoked
// with, plus the evaluator's error-resolver phase.
type OraclePhase string

const (
	PhaseQueryFill       OraclePhase = "query_fill"
	PhaseQueryUser       OraclePhase = "query_user"
	PhaseQueryGather     OraclePhase = "query_gather"
	PhaseIntentSequencer OraclePhase = "intent_sequencer"
	PhaseSlotResolver    OraclePhase = "slot_resolver"
	PhaseErrorResolver   OraclePhase = "error_resolver"
)

// ToolInvoker is the view of a registered tool that an Intent node needs in
// order to evaluate itself: cast its arguments, run, and cast the result.
type ToolInvoker interface {
	Name() string
	Invoke(ctx context.Context, args map[string]any) (any, error)
	CastArg(name string, value any, allowScalarToList bool) (any, error)
	CastResult(value any) (any, error)
}

// Runtime is the subset of the host-side runtime context that DSL nodes need
// during resolution and evaluation: tool lookup and the oracle boundary.
// RuntimeContext implements this interface structurally.
type Runtime interface {
	// LookupTool returns the tool registered under name, if any.
	LookupTool(name string) (ToolInvoker, bool)
	// CallOracle issues one oracle call for the given phase and returns its
	// raw text reply.
	CallOracle(ctx context.Context, phase OraclePhase, systemPrompt, userPrompt string) (string, error)
	// SystemPrompt returns the precompiled system prompt for phase.
	SystemPrompt(phase OraclePhase) string
	// BuildSlotPrompt renders the per-slot user prompt for question, given
	// the other-slots context carried in rs.
	BuildSlotPrompt(rs ResolutionState, question string) string
}

// QAEntry records one answered question, kept so later prompts can remind
// the oracle what has already been asked and answered.
type QAEntry struct {
	Requester Node
	Question  string
	Answer    string
}

// PropagatedSlot is a (name, value) pair queued by a PropagateSlots node for
// delivery to the nearest enclosing Intent, which overwrites its slot of that
// name or appends a new slot when it has none.
type PropagatedSlot struct {
	Name  string
	Value Node
}

// ResolutionState is the subset of the resolver's bookkeeping that DSL node
// hooks are allowed to read and mutate: the intent/slot frame stack, the
// question-and-answer history, and the pending slot-propagation queue. The
// resolver package's Context implements this interface.
type ResolutionState interface {
	// PushFrame records that resolution has descended into the named
	// intent, snapshotting its slot bindings so sibling slots can render an
	// "other slots" block in their own prompts.
	PushFrame(intentName string, slots map[string]Node)
	// PopFrame undoes the most recent PushFrame.
	PopFrame()
	// CurrentIntentName returns the nearest enclosing intent's name, if any.
	CurrentIntentName() (string, bool)

	// SetCurrentSlot records which slot is currently being resolved.
	SetCurrentSlot(name string)
	// ClearCurrentSlot clears the current-slot marker set by SetCurrentSlot.
	ClearCurrentSlot()
	// CurrentSlotName returns the slot set by SetCurrentSlot, if any.
	CurrentSlotName() (string, bool)
	// OtherSlots returns the sibling slots of the current intent, other than
	// the one named by CurrentSlotName, keyed by slot name.
	OtherSlots() map[string]Node

	// RecordQA appends an answered question to the history.
	RecordQA(entry QAEntry)
	// QAHistory returns every question answered so far, in order.
	QAHistory() []QAEntry

	// QueuePropagation enqueues a slot value for delivery to an ancestor
	// intent once resolution returns to it.
	QueuePropagation(p PropagatedSlot)
	// DrainPropagations removes and returns every propagation queued so far.
	DrainPropagations() []PropagatedSlot
}

// InteractionRequest describes a question posed to the user or another
// external party, along with the node that asked it.
type InteractionRequest struct {
	Question  string
	Requester Node
}

// Interaction is a question together with the answer it eventually
// received, passed back into DoResolution to resume a paused node.
type Interaction struct {
	Request InteractionRequest
	Answer  string
}

// ResolutionOutcomeKind distinguishes the three shapes a DoResolution call
// can return.
type ResolutionOutcomeKind int

const (
	// OutcomeUnchanged means the node needed no action this visit; the
	// resolver leaves it in place and continues.
	OutcomeUnchanged ResolutionOutcomeKind = iota
	// OutcomeNewNodes means the node is to be substituted by Nodes. A
	// single replacement node substitutes directly; more than one is
	// wrapped in a NodeList. Abort, AbortWithNewDsl, and PropagateSlots
	// nodes found among Nodes are peeled out by the resolver for special
	// handling rather than spliced into the tree verbatim.
	OutcomeNewNodes
	// OutcomeInteractionRequested means resolution must pause and surface
	// Interaction to the host; the same node is resumed later via Step.
	OutcomeInteractionRequested
)

// ResolutionOutcome is the result of one DoResolution call.
type ResolutionOutcome struct {
	Kind        ResolutionOutcomeKind
	Nodes       []Node
	Interaction *InteractionRequest
}

// Unchanged builds an OutcomeUnchanged outcome.
func Unchanged() ResolutionOutcome {
	return ResolutionOutcome{Kind: OutcomeUnchanged}
}

// NewNodesOutcome builds an OutcomeNewNodes outcome from a replacement list.
func NewNodesOutcome(nodes ...Node) ResolutionOutcome {
	return ResolutionOutcome{Kind: OutcomeNewNodes, Nodes: nodes}
}

// InteractionRequested builds an OutcomeInteractionRequested outcome.
func InteractionRequested(question string, requester Node) ResolutionOutcome {
	return ResolutionOutcome{
		Kind: OutcomeInteractionRequested,
		Interaction: &InteractionRequest{
			Question:  question,
			Requester: requester,
		},
	}
}

// leaf is embedded by node types that never have children and never pause
// or substitute themselves during resolution, supplying the uniform no-op
// implementations so each leaf file only has to write what makes it unique.
type leaf struct{}

func (leaf) Children() []Node                    { return nil }
func (leaf) UpdateChild(int, Node) error          { return errNoChildren }
func (leaf) InsertChild(int, Node) error          { return errNoChildren }
func (leaf) RemoveChild(int) error                { return errNoChildren }
func (leaf) ValueKind() bool                      { return false }
func (leaf) PreResolution(context.Context, Runtime, ResolutionState)  {}
func (leaf) PostResolution(context.Context, Runtime, ResolutionState) {}
func (leaf) OnReentryResolution(context.Context, Runtime, ResolutionState, Node) {}
func (leaf) DoResolution(context.Context, Runtime, ResolutionState, *Interaction) (ResolutionOutcome, error) {
	return Unchanged(), nil
}
