package resolver

import (
	"context"
	"fmt"

	"github.com/avalon-ai/intentkit/dsl"
	"github.com/avalon-ai/intentkit/resolveerr"
	"github.com/avalon-ai/intentkit/runtime/agent/telemetry"
)

// StepOutcome is returned by every call that advances resolution: either
// the tree is now fully resolved, or resolution paused on a question that
// needs an answer before it can continue.
type StepOutcome struct {
	Done        bool
	Interaction *dsl.InteractionRequest
}

type stackFrame struct {
	node          dsl.Node
	nextChild     int
	indexInParent int
	frameDepth    int // len(Context.frames) at the moment this frame was pushed
}

// Resolver drives one request's resolution from initial prompt (or a tree
// restored from a prior pause) through to a fully resolved tree, pausing
// at each user-facing question via Step.
type Resolver struct {
	rt      dsl.Runtime
	state   *Context
	stack   []stackFrame
	waiting dsl.Node

	logger telemetry.Logger
	tracer telemetry.Tracer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for per-step debug/warn/error records.
func WithLogger(l telemetry.Logger) Option { return func(r *Resolver) { r.logger = l } }

// WithTracer sets the tracer used to span each DoResolution call.
func WithTracer(t telemetry.Tracer) Option { return func(r *Resolver) { r.tracer = t } }

func newResolver(rt dsl.Runtime, root *dsl.NodeList, opts ...Option) *Resolver {
	r := &Resolver{
		rt:     rt,
		state:  NewContext(),
		logger: telemetry.NewNoopLogger(),
		tracer: telemetry.NewNoopTracer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.stack = []stackFrame{{node: root, indexInParent: -1}}
	return r
}

// NewFromPrompt sends prompt through the oracle's intent-sequencer phase,
// parses the reply into a request tree, and returns a Resolver positioned
// at the start of resolving it.
func NewFromPrompt(ctx context.Context, rt dsl.Runtime, prompt string, opts ...Option) (*Resolver, error) {
	systemPrompt := rt.SystemPrompt(dsl.PhaseIntentSequencer)
	reply, err := rt.CallOracle(ctx, dsl.PhaseIntentSequencer, systemPrompt, prompt)
	if err != nil {
		return nil, resolveerr.Wrap("intent-sequencer oracle call failed", err)
	}
	tree, err := dsl.Parse(reply)
	if err != nil {
		return nil, resolveerr.Wrap("parsing intent-sequencer reply", err)
	}
	return newResolver(rt, tree, opts...), nil
}

// NewFromTree resumes resolution of an already-parsed (possibly partially
// resolved) tree, such as one returned by Tree after a prior pause.
func NewFromTree(rt dsl.Runtime, tree dsl.Node, opts ...Option) *Resolver {
	root, ok := tree.(*dsl.NodeList)
	if !ok {
		root = dsl.NewNodeList(tree)
	}
	return newResolver(rt, root, opts...)
}

// Tree returns the root of the tree in its current state of resolution.
func (r *Resolver) Tree() dsl.Node {
	return r.stack[0].node
}

// Step advances resolution. On the very first call, interaction must be
// empty; on every subsequent call it must be the answer to the question
// the previous call's StepOutcome.Interaction posed.
func (r *Resolver) Step(ctx context.Context, answer string) (*StepOutcome, error) {
	var interaction *dsl.Interaction
	if r.waiting != nil {
		interaction = &dsl.Interaction{Answer: answer}
	}
	return r.run(ctx, interaction)
}

func (r *Resolver) run(ctx context.Context, interaction *dsl.Interaction) (*StepOutcome, error) {
	for len(r.stack) > 0 {
		top := &r.stack[len(r.stack)-1]
		children := top.node.Children()

		if top.nextChild < len(children) {
			child := children[top.nextChild]
			idx := top.nextChild
			top.nextChild++
			if child.IsResolved() {
				continue
			}
			depth := len(r.state.frames)
			child.PreResolution(ctx, r.rt, r.state)
			r.stack = append(r.stack, stackFrame{
				node:          child,
				indexInParent: idx,
				frameDepth:    depth,
			})
			continue
		}

		node := top.node
		var in *dsl.Interaction
		if node == r.waiting {
			in = interaction
			r.waiting = nil
		}

		spanCtx, span := r.tracer.Start(ctx, "resolver.step")
		outcome, err := node.DoResolution(spanCtx, r.rt, r.state, in)
		span.End()
		if err != nil {
			r.logger.Error(ctx, "resolution failed", "error", err.Error())
			return nil, resolveerr.Wrap("do_resolution failed", err)
		}

		switch outcome.Kind {
		case dsl.OutcomeUnchanged:
			node.PostResolution(ctx, r.rt, r.state)
			frameDepth := top.frameDepth
			if len(r.stack) == 1 {
				// This is the root frame: leave it in place rather than popping
				// the stack empty, so Tree() keeps returning the resolved root
				// after Step reports Done.
				r.state.unwindTo(frameDepth)
				return &StepOutcome{Done: true}, nil
			}
			r.stack = r.stack[:len(r.stack)-1]
			r.state.unwindTo(frameDepth)
			if len(r.stack) > 0 {
				r.stack[len(r.stack)-1].node.OnReentryResolution(ctx, r.rt, r.state, node)
			}

		case dsl.OutcomeInteractionRequested:
			r.waiting = node
			return &StepOutcome{Interaction: outcome.Interaction}, nil

		case dsl.OutcomeNewNodes:
			if err := r.substitute(ctx, top, node, outcome.Nodes); err != nil {
				return nil, err
			}
		}
	}
	return &StepOutcome{Done: true}, nil
}

// substitute implements the resolver's substitution and abort-unwind
// subroutines: it splits a NEW_DSL_NODES replacement list into
// PropagateSlots bindings (queued, never spliced into the tree),
// Abort/AbortWithNewDsl directives (triggering an unwind to the nearest
// enclosing list), and the remaining "core" nodes, which replace the
// resolved node in its parent directly.
func (r *Resolver) substitute(ctx context.Context, top *stackFrame, node dsl.Node, nodes []dsl.Node) error {
	var core []dsl.Node
	var abortNode dsl.Node

	for _, n := range nodes {
		switch v := n.(type) {
		case *dsl.PropagateSlots:
			for _, b := range v.Bindings() {
				r.state.QueuePropagation(b)
			}
		case *dsl.Abort, *dsl.AbortWithNewDsl:
			abortNode = v
		default:
			core = append(core, n)
		}
	}

	frameDepth := top.frameDepth
	idxInParent := top.indexInParent
	r.stack = r.stack[:len(r.stack)-1]
	r.state.unwindTo(frameDepth)

	if abortNode != nil {
		return r.unwindAbort(ctx, abortNode)
	}

	if len(core) == 0 {
		return fmt.Errorf("dsl: NEW_DSL_NODES substitution for %q produced no replacement node", node.Render())
	}

	var replacement dsl.Node
	if len(core) == 1 {
		replacement = core[0]
	} else {
		replacement = dsl.NewNodeList(core...)
	}

	if len(r.stack) == 0 {
		return fmt.Errorf("dsl: cannot substitute the root node")
	}
	parent := r.stack[len(r.stack)-1].node
	if err := parent.UpdateChild(idxInParent, replacement); err != nil {
		return fmt.Errorf("dsl: substituting resolved node into parent: %w", err)
	}
	parent.OnReentryResolution(ctx, r.rt, r.state, replacement)

	if !replacement.IsResolved() {
		depth := len(r.state.frames)
		replacement.PreResolution(ctx, r.rt, r.state)
		r.stack = append(r.stack, stackFrame{
			node:          replacement,
			indexInParent: idxInParent,
			frameDepth:    depth,
		})
	}
	return nil
}

// unwindAbort pops the stack until it reaches the nearest enclosing
// dsl.NodeList, then either removes the aborted element (plain Abort) or
// splices in AbortWithNewDsl's already-parsed replacement subtree.
func (r *Resolver) unwindAbort(ctx context.Context, abortNode dsl.Node) error {
	for len(r.stack) > 0 {
		top := r.stack[len(r.stack)-1]
		list, ok := top.node.(*dsl.NodeList)
		if !ok {
			r.state.unwindTo(top.frameDepth)
			r.stack = r.stack[:len(r.stack)-1]
			continue
		}

		target := -1
		// The child index to remove/replace is carried by the frame we
		// most recently popped on the way down to this list; since that
		// frame is gone, recompute it from the next-to-process pointer:
		// nextChild was already advanced past it when it was pushed.
		target = top.nextChild - 1
		if target < 0 {
			return fmt.Errorf("dsl: abort-unwind found no element to remove in enclosing list")
		}

		r.state.ClearQAHistory()
		r.state.ResetFrames()

		switch v := abortNode.(type) {
		case *dsl.AbortWithNewDsl:
			replacementList := v.NewDsl
			var replacement dsl.Node = replacementList
			if len(replacementList.Children()) == 1 {
				replacement = replacementList.Children()[0]
			}
			if err := list.UpdateChild(target, replacement); err != nil {
				return fmt.Errorf("dsl: splicing abort replacement: %w", err)
			}
			list.OnReentryResolution(ctx, r.rt, r.state, replacement)
			if !replacement.IsResolved() {
				depth := len(r.state.frames)
				replacement.PreResolution(ctx, r.rt, r.state)
				r.stack = append(r.stack, stackFrame{
					node:          replacement,
					indexInParent: target,
					frameDepth:    depth,
				})
			}
		default:
			if err := list.RemoveChild(target); err != nil {
				return fmt.Errorf("dsl: removing aborted element: %w", err)
			}
			if top.nextChild > target {
				r.stack[len(r.stack)-1].nextChild--
			}
		}
		return nil
	}
	return fmt.Errorf("dsl: abort-unwind found no enclosing list")
}
