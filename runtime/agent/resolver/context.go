// Package resolver implements the explicit, resumable depth-first stack
// machine that drives resolution of a parsed request tree: filling in
// placeholders (Ask, QueryFill, QueryUser, QueryGather,
// IntentRuntimeErrorResolver) by pausing for user interaction, calling the
// oracle, or both, until every node in the tree reports itself resolved.
package resolver

import (
	"github.com/avalon-ai/intentkit/dsl"
)

type frame struct {
	intentName string
	slots      map[string]dsl.Node
}

// Context is the resolver's bookkeeping: the stack of intent frames a Slot
// can use to describe "other slots" in its prompt, the question-and-answer
// history, and slot values queued by PropagateSlots for delivery to an
// ancestor intent. It implements dsl.ResolutionState.
type Context struct {
	frames      []frame
	currentSlot string
	hasSlot     bool
	qa          []dsl.QAEntry
	pending     []dsl.PropagatedSlot
}

// NewContext constructs an empty resolution context.
func NewContext() *Context {
	return &Context{}
}

func (c *Context) PushFrame(intentName string, slots map[string]dsl.Node) {
	c.frames = append(c.frames, frame{intentName: intentName, slots: slots})
}

func (c *Context) PopFrame() {
	if len(c.frames) == 0 {
		return
	}
	c.frames = c.frames[:len(c.frames)-1]
}

func (c *Context) CurrentIntentName() (string, bool) {
	if len(c.frames) == 0 {
		return "", false
	}
	return c.frames[len(c.frames)-1].intentName, true
}

func (c *Context) SetCurrentSlot(name string) {
	c.currentSlot = name
	c.hasSlot = true
}

func (c *Context) ClearCurrentSlot() {
	c.currentSlot = ""
	c.hasSlot = false
}

func (c *Context) CurrentSlotName() (string, bool) {
	return c.currentSlot, c.hasSlot
}

func (c *Context) OtherSlots() map[string]dsl.Node {
	if len(c.frames) == 0 {
		return nil
	}
	top := c.frames[len(c.frames)-1]
	out := make(map[string]dsl.Node, len(top.slots))
	for name, n := range top.slots {
		if c.hasSlot && name == c.currentSlot {
			continue
		}
		out[name] = n
	}
	return out
}

func (c *Context) RecordQA(entry dsl.QAEntry) {
	c.qa = append(c.qa, entry)
}

func (c *Context) QAHistory() []dsl.QAEntry {
	out := make([]dsl.QAEntry, len(c.qa))
	copy(out, c.qa)
	return out
}

// ClearQAHistory discards the accumulated Q&A history, as required on
// abort-unwind.
func (c *Context) ClearQAHistory() {
	c.qa = nil
}

// ResetFrames drops every intent/slot frame, as required on abort-unwind:
// the aborted branch's intent/slot/other-slots context no longer applies.
func (c *Context) ResetFrames() {
	c.frames = nil
	c.ClearCurrentSlot()
}

func (c *Context) QueuePropagation(p dsl.PropagatedSlot) {
	c.pending = append(c.pending, p)
}

func (c *Context) DrainPropagations() []dsl.PropagatedSlot {
	out := c.pending
	c.pending = nil
	return out
}

// unwindTo truncates frames/currentSlot state back to a shallower depth,
// used when the abort-unwind subroutine pops several stack levels at once
// and the per-node Post/PreResolution hooks that would normally balance
// PushFrame/SetCurrentSlot calls never get to run.
func (c *Context) unwindTo(frameDepth int) {
	if frameDepth < len(c.frames) {
		c.frames = c.frames[:frameDepth]
	}
	c.ClearCurrentSlot()
}
