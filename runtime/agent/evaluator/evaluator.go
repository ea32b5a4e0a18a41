// Package evaluator implements the explicit stack machine that walks a
// fully resolved request tree and invokes the tools named by each Intent,
// wrapping every successful call as an IntentEvaluatedSuccess so a later
// retry of Evaluate never re-invokes a tool that already ran.
package evaluator

import (
	"context"
	"errors"
	"fmt"

	"github.com/avalon-ai/intentkit/dsl"
	"github.com/avalon-ai/intentkit/runtime/agent/telemetry"
	"github.com/avalon-ai/intentkit/runtime/agent/toolerrors"
)

// Outcome classifies how one Evaluate call ended.
type Outcome int

const (
	// Success means every intent in the tree evaluated without error.
	Success Outcome = iota
	// AbortedRecoverable means a tool call failed recoverably; the failing
	// Intent has been replaced in the tree with an IntentRuntimeErrorResolver,
	// and resolving the tree again (via resolver.Resolver) will ask the
	// oracle's error-resolver phase how to proceed.
	AbortedRecoverable
	// AbortedUnrecoverable means a tool call failed in a way the error
	// taxonomy does not consider recoverable, or the tree contained a node
	// the evaluator does not know how to evaluate. Evaluation stops; the
	// caller should surface Err to the user.
	AbortedUnrecoverable
)

// Result is returned by Evaluate.
type Result struct {
	Outcome Outcome
	Err     error
}

// Evaluator walks a resolved tree and evaluates each Intent it finds,
// stopping at the first unrecoverable failure.
type Evaluator struct {
	rt   dsl.Runtime
	root dsl.Node

	logger telemetry.Logger
	tracer telemetry.Tracer
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for per-step debug/warn/error records.
func WithLogger(l telemetry.Logger) Option { return func(e *Evaluator) { e.logger = l } }

// WithTracer sets the tracer used to span each Eval call.
func WithTracer(t telemetry.Tracer) Option { return func(e *Evaluator) { e.tracer = t } }

// New constructs an Evaluator over root, a tree resolver.Resolver has
// already reported fully resolved.
func New(rt dsl.Runtime, root dsl.Node, opts ...Option) *Evaluator {
	e := &Evaluator{
		rt:     rt,
		root:   root,
		logger: telemetry.NewNoopLogger(),
		tracer: telemetry.NewNoopTracer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tree returns the root in its current state: every Intent that evaluated
// successfully before a stop has been replaced with an
// IntentEvaluatedSuccess, and — on AbortedRecoverable — the failing Intent
// has been replaced with an IntentRuntimeErrorResolver.
func (e *Evaluator) Tree() dsl.Node { return e.root }

type evalFrame struct {
	node          dsl.Node
	nextChild     int
	indexInParent int
}

// intentLike reports whether n is an Intent or a ReturnValue directly
// wrapping one: both invoke a tool as a single unit when evaluated, and
// neither should be walked child-by-child by the stack machine below —
// Intent.Eval (and, through it, ReturnValue.Eval) already evaluates its own
// slots with a plain recursive call, not the replay-safe stack machine. Only
// a node's direct tool-call result gets wrapped in IntentEvaluatedSuccess;
// an Intent used as a nested slot value is evaluated every retry, same as
// any other value expression's plain recursive Eval chain.
func intentLike(n dsl.Node) (*dsl.Intent, bool) {
	switch v := n.(type) {
	case *dsl.Intent:
		return v, true
	case *dsl.ReturnValue:
		return v.Intent(), true
	default:
		return nil, false
	}
}

// Evaluate runs the stack machine to completion or to the first
// unrecoverable failure. Nodes already wrapped as IntentEvaluatedSuccess
// from a prior call are skipped rather than re-invoked.
func (e *Evaluator) Evaluate(ctx context.Context) Result {
	stack := []evalFrame{{node: e.root, indexInParent: -1}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		_, isIntentLike := intentLike(top.node)
		children := top.node.Children()

		if !isIntentLike && top.nextChild < len(children) {
			child := children[top.nextChild]
			idx := top.nextChild
			top.nextChild++
			if _, already := child.(*dsl.IntentEvaluatedSuccess); already {
				continue
			}
			stack = append(stack, evalFrame{node: child, indexInParent: idx})
			continue
		}

		node := top.node
		frame := *top
		stack = stack[:len(stack)-1]

		if intent, ok := intentLike(node); ok {
			spanCtx, span := e.tracer.Start(ctx, "evaluator.step")
			value, err := intent.Eval(spanCtx, e.rt)
			span.End()
			if err == nil {
				success := dsl.NewIntentEvaluatedSuccess(intent, value)
				if len(stack) == 0 {
					e.root = success
					return Result{Outcome: Success}
				}
				parent := stack[len(stack)-1].node
				if uerr := parent.UpdateChild(frame.indexInParent, success); uerr != nil {
					return Result{Outcome: AbortedUnrecoverable, Err: uerr}
				}
				continue
			}

			var recoverable *toolerrors.ApiErrorAbortAndResolve
			if errors.As(err, &recoverable) {
				e.logger.Warn(ctx, "intent evaluation failed recoverably", "intent", intent.Name, "error", err.Error())
				resolver := dsl.NewIntentRuntimeErrorResolver(intent, err.Error())
				if len(stack) == 0 {
					e.root = resolver
					return Result{Outcome: AbortedRecoverable, Err: err}
				}
				parent := stack[len(stack)-1].node
				if uerr := parent.UpdateChild(frame.indexInParent, resolver); uerr != nil {
					return Result{Outcome: AbortedUnrecoverable, Err: uerr}
				}
				return Result{Outcome: AbortedRecoverable, Err: err}
			}

			e.logger.Error(ctx, "intent evaluation failed", "intent", intent.Name, "error", err.Error())
			return Result{Outcome: AbortedUnrecoverable, Err: err}
		}

		switch node.(type) {
		case *dsl.IntentEvaluatedSuccess:
			// Already evaluated in a prior pass; nothing to do.

		case *dsl.NodeList, *dsl.ListValue, *dsl.Slot:
			// Pure containers: descending into their children (already
			// done above) is sufficient; nothing to evaluate at this level.

		default:
			return Result{Outcome: AbortedUnrecoverable, Err: fmt.Errorf("dsl: evaluator does not know how to evaluate %T", node)}
		}
	}

	return Result{Outcome: Success}
}
