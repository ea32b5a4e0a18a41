package dsl_test

import (
	"context"
	"fmt"

	"github.com/avalon-ai/intentkit/dsl"
)

// fakeRuntime is a minimal dsl.Runtime double for node tests: it answers
// CallOracle from a table keyed by phase and looks up tools from a map.
type fakeRuntime struct {
	oracleReplies map[dsl.OraclePhase]string
	tools         map[string]dsl.ToolInvoker
	oracleCalls   int
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		oracleReplies: make(map[dsl.OraclePhase]string),
		tools:         make(map[string]dsl.ToolInvoker),
	}
}

func (f *fakeRuntime) LookupTool(name string) (dsl.ToolInvoker, bool) {
	t, ok := f.tools[name]
	return t, ok
}

func (f *fakeRuntime) CallOracle(_ context.Context, phase dsl.OraclePhase, _, _ string) (string, error) {
	f.oracleCalls++
	reply, ok := f.oracleReplies[phase]
	if !ok {
		return "", fmt.Errorf("fakeRuntime: no reply configured for phase %q", phase)
	}
	return reply, nil
}

func (f *fakeRuntime) SystemPrompt(dsl.OraclePhase) string { return "system" }

func (f *fakeRuntime) BuildSlotPrompt(_ dsl.ResolutionState, question string) string { return question }

// fakeTool is a minimal dsl.ToolInvoker double.
type fakeTool struct {
	name      string
	result    any
	err       error
	lastArgs  map[string]any
	castErr   error
	resultErr error
}

func (t *fakeTool) Name() string { return t.name }

func (t *fakeTool) Invoke(_ context.Context, args map[string]any) (any, error) {
	t.lastArgs = args
	if t.err != nil {
		return nil, t.err
	}
	return t.result, nil
}

func (t *fakeTool) CastArg(_ string, value any, _ bool) (any, error) {
	if t.castErr != nil {
		return nil, t.castErr
	}
	return value, nil
}

func (t *fakeTool) CastResult(value any) (any, error) {
	if t.resultErr != nil {
		return nil, t.resultErr
	}
	return value, nil
}

// fakeResolutionState is a minimal dsl.ResolutionState double.
type fakeResolutionState struct {
	intentName  string
	hasIntent   bool
	otherSlots  map[string]dsl.Node
	currentSlot string
	hasSlot     bool
	qa          []dsl.QAEntry
	pending     []dsl.PropagatedSlot
}

func newFakeResolutionState() *fakeResolutionState {
	return &fakeResolutionState{otherSlots: make(map[string]dsl.Node)}
}

func (s *fakeResolutionState) PushFrame(intentName string, slots map[string]dsl.Node) {
	s.intentName = intentName
	s.hasIntent = true
	s.otherSlots = slots
}

func (s *fakeResolutionState) PopFrame() { s.hasIntent = false }

func (s *fakeResolutionState) CurrentIntentName() (string, bool) { return s.intentName, s.hasIntent }

func (s *fakeResolutionState) SetCurrentSlot(name string) {
	s.currentSlot = name
	s.hasSlot = true
}

func (s *fakeResolutionState) ClearCurrentSlot() {
	s.currentSlot = ""
	s.hasSlot = false
}

func (s *fakeResolutionState) CurrentSlotName() (string, bool) { return s.currentSlot, s.hasSlot }

func (s *fakeResolutionState) OtherSlots() map[string]dsl.Node { return s.otherSlots }

func (s *fakeResolutionState) RecordQA(entry dsl.QAEntry) { s.qa = append(s.qa, entry) }

func (s *fakeResolutionState) QAHistory() []dsl.QAEntry { return s.qa }

func (s *fakeResolutionState) QueuePropagation(p dsl.PropagatedSlot) {
	s.pending = append(s.pending, p)
}

func (s *fakeResolutionState) DrainPropagations() []dsl.PropagatedSlot {
	out := s.pending
	s.pending = nil
	return out
}
