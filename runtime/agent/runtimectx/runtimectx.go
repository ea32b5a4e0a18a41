// Package runtimectx implements dsl.Runtime: the tool registry, the oracle
// boundary, and the prompt text fed to each OraclePhase. dsl nodes only ever
// see RuntimeContext through the dsl.Runtime interface, so nothing in dsl
// imports this package — it depends on dsl, never the reverse.
package runtimectx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/avalon-ai/intentkit/dsl"
	"github.com/avalon-ai/intentkit/runtime/agent/oracle"
	"github.com/avalon-ai/intentkit/runtime/agent/telemetry"
	"github.com/avalon-ai/intentkit/runtime/agent/tools"
)

// QuerySource supplies additional free-text context an oracle prompt can
// draw on — a user profile, a document excerpt, a prior transcript — beyond
// the slot bindings and question history the resolver already tracks.
type QuerySource func(ctx context.Context) (string, error)

type registeredTool struct {
	spec    tools.ToolSpec
	schemas map[string]*jsonschema.Schema
}

func (t *registeredTool) Name() string { return string(t.spec.Name) }

func (t *registeredTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return t.spec.Invoke(ctx, args)
}

func (t *registeredTool) CastArg(name string, value any, allowScalarToList bool) (any, error) {
	ts, ok := t.spec.Args[name]
	if !ok {
		return nil, fmt.Errorf("runtimectx: tool %q has no argument %q", t.spec.Name, name)
	}
	if ts.Cast == nil {
		return value, nil
	}
	return ts.Cast(value, allowScalarToList)
}

func (t *registeredTool) CastResult(value any) (any, error) {
	if t.spec.Result.Cast == nil {
		return value, nil
	}
	return t.spec.Result.Cast(value, false)
}

// RuntimeContext is the concrete dsl.Runtime: it owns the tool registry,
// the oracle, the precompiled system prompts for each dsl.OraclePhase, and
// the query sources blended into every per-slot user prompt.
type RuntimeContext struct {
	oracle  oracle.Oracle
	tools   map[string]*registeredTool
	sources []QuerySource

	systemPrompts map[dsl.OraclePhase]string

	adapter, host, container, model string

	logger  telemetry.Logger
	tracer  telemetry.Tracer
	metrics telemetry.Metrics
}

// Option configures a RuntimeContext.
type Option func(*RuntimeContext) error

// New constructs a RuntimeContext from functional options. WithOracle is
// required; every other option has a usable default.
func New(opts ...Option) (*RuntimeContext, error) {
	rc := &RuntimeContext{
		tools:         make(map[string]*registeredTool),
		systemPrompts: defaultSystemPrompts(),
		logger:        telemetry.NewNoopLogger(),
		tracer:        telemetry.NewNoopTracer(),
		metrics:       telemetry.NewNoopMetrics(),
	}
	for _, opt := range opts {
		if err := opt(rc); err != nil {
			return nil, err
		}
	}
	if rc.oracle == nil {
		return nil, fmt.Errorf("runtimectx: WithOracle is required")
	}
	return rc, nil
}

// WithOracle sets the oracle consulted by CallOracle.
func WithOracle(o oracle.Oracle) Option {
	return func(rc *RuntimeContext) error {
		rc.oracle = o
		return nil
	}
}

// WithLogger sets the structured logger used for registration and oracle
// call diagnostics.
func WithLogger(l telemetry.Logger) Option {
	return func(rc *RuntimeContext) error {
		rc.logger = l
		return nil
	}
}

// WithTracer sets the tracer spans are started on.
func WithTracer(t telemetry.Tracer) Option {
	return func(rc *RuntimeContext) error {
		rc.tracer = t
		return nil
	}
}

// WithMetrics sets the metrics recorder for oracle call counters/timers.
func WithMetrics(m telemetry.Metrics) Option {
	return func(rc *RuntimeContext) error {
		rc.metrics = m
		return nil
	}
}

// WithSystemPrompt overrides the precompiled system prompt for phase.
func WithSystemPrompt(phase dsl.OraclePhase, prompt string) Option {
	return func(rc *RuntimeContext) error {
		rc.systemPrompts[phase] = prompt
		return nil
	}
}

// WithTransportParams sets the default adapter/host/container/model
// identifiers attached to every oracle.Request this RuntimeContext issues.
// These are opaque pass-through values: the core never interprets them, but
// an Oracle fronting multiple backends (a gateway, a multi-region deploy)
// can route on them.
func WithTransportParams(container, adapter, host, model string) Option {
	return func(rc *RuntimeContext) error {
		rc.container, rc.adapter, rc.host, rc.model = container, adapter, host, model
		return nil
	}
}

// WithQuerySource adds a source of free-text context rendered into every
// per-slot oracle prompt, in the order added.
func WithQuerySource(s QuerySource) Option {
	return func(rc *RuntimeContext) error {
		rc.sources = append(rc.sources, s)
		return nil
	}
}

// WithTool registers spec at construction time by calling RegisterTool.
func WithTool(spec tools.ToolSpec) Option {
	return func(rc *RuntimeContext) error {
		return rc.RegisterTool(spec)
	}
}

// RegisterTool adds spec to the tool registry. Every TypeSpec.Schema
// (argument and result) is compiled at registration time as a sanity
// check: a tool with a malformed schema fails fast here rather than the
// first time the oracle returns a value for it.
func (rc *RuntimeContext) RegisterTool(spec tools.ToolSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("runtimectx: tool registered with empty name")
	}
	name := string(spec.Name)
	if _, exists := rc.tools[name]; exists {
		return fmt.Errorf("runtimectx: tool %q already registered", name)
	}
	schemas := make(map[string]*jsonschema.Schema, len(spec.Args)+1)
	for argName, ts := range spec.Args {
		sch, err := compileSchema(name+"#/args/"+argName, ts.Schema)
		if err != nil {
			return err
		}
		if sch != nil {
			schemas[argName] = sch
		}
	}
	if sch, err := compileSchema(name+"#/result", spec.Result.Schema); err != nil {
		return err
	} else if sch != nil {
		schemas["$result"] = sch
	}
	rc.tools[name] = &registeredTool{spec: spec, schemas: schemas}
	return nil
}

func compileSchema(id string, raw []byte) (*jsonschema.Schema, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(id, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("runtimectx: registering schema %s: %w", id, err)
	}
	sch, err := c.Compile(id)
	if err != nil {
		return nil, fmt.Errorf("runtimectx: compiling schema %s: %w", id, err)
	}
	return sch, nil
}

// LookupTool implements dsl.Runtime.
func (rc *RuntimeContext) LookupTool(name string) (dsl.ToolInvoker, bool) {
	t, ok := rc.tools[name]
	if !ok {
		return nil, false
	}
	return t, true
}

// CallOracle implements dsl.Runtime.
func (rc *RuntimeContext) CallOracle(ctx context.Context, phase dsl.OraclePhase, systemPrompt, userPrompt string) (string, error) {
	ctx, span := rc.tracer.Start(ctx, "runtimectx.call_oracle")
	defer span.End()

	callID := generateCallID(phase)
	rc.logger.Debug(ctx, "calling oracle", "phase", string(phase), "call_id", callID)
	reply, err := rc.oracle.Call(ctx, oracle.Request{
		CallID:       callID,
		Phase:        phase,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		Model:        rc.model,
		Adapter:      rc.adapter,
		Host:         rc.host,
		Container:    rc.container,
	})
	rc.metrics.IncCounter("runtimectx.oracle_calls", 1, "phase", string(phase))
	if err != nil {
		rc.logger.Error(ctx, "oracle call failed", "phase", string(phase), "call_id", callID, "error", err.Error())
		return "", err
	}
	return reply, nil
}

// SystemPrompt implements dsl.Runtime.
func (rc *RuntimeContext) SystemPrompt(phase dsl.OraclePhase) string {
	return rc.systemPrompts[phase]
}

// slotPromptView is the YAML-rendered shape of the "other slots" context
// block included in every per-slot oracle prompt.
type slotPromptView struct {
	Question   string            `yaml:"question"`
	Intent     string            `yaml:"intent,omitempty"`
	OtherSlots map[string]string `yaml:"other_slots,omitempty"`
	History    []qaView          `yaml:"history,omitempty"`
	Context    []string          `yaml:"context,omitempty"`
}

type qaView struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// BuildSlotPrompt implements dsl.Runtime. It renders question together with
// the enclosing intent's other slot bindings, the question/answer history
// accumulated so far, and any configured QuerySource context, as a single
// YAML document so the oracle sees a structured, consistently-shaped input
// for every phase that resolves a slot.
func (rc *RuntimeContext) BuildSlotPrompt(rs dsl.ResolutionState, question string) string {
	view := slotPromptView{Question: question}

	if name, ok := rs.CurrentIntentName(); ok {
		view.Intent = name
	}

	other := rs.OtherSlots()
	if len(other) > 0 {
		view.OtherSlots = make(map[string]string, len(other))
		for name, node := range other {
			view.OtherSlots[name] = node.Render()
		}
	}

	for _, qa := range rs.QAHistory() {
		view.History = append(view.History, qaView{Question: qa.Question, Answer: qa.Answer})
	}

	for _, src := range rc.sources {
		text, err := src(context.Background())
		if err != nil {
			rc.logger.Warn(context.Background(), "query source failed", "error", err.Error())
			continue
		}
		if text != "" {
			view.Context = append(view.Context, text)
		}
	}

	out, err := yaml.Marshal(view)
	if err != nil {
		// Marshaling a value built entirely from strings/maps/slices cannot
		// fail; fall back to the bare question only in case it somehow does.
		return question
	}
	return string(out)
}

func defaultSystemPrompts() map[dsl.OraclePhase]string {
	return map[dsl.OraclePhase]string{
		dsl.PhaseIntentSequencer: "You turn a user request into one or more intent calls in the request DSL. " +
			"Respond with DSL source only: Intent(name=value, ...) statements separated by commas, " +
			"or QUERY_FILL/QUERY_USER/QUERY_GATHER/ASK placeholders for anything you cannot fill in yet.",
		dsl.PhaseQueryFill: "Fill in a single slot value from context already available to you. " +
			"Respond with a single DSL value expression, or \"abort:\" followed by an ABORT()/ABORT_WITH_NEW_INTENTS(...) " +
			"directive if the slot cannot be filled.",
		dsl.PhaseQueryUser: "Phrase a question for the user that asks for the slot value described below. " +
			"Respond with two lines: \"reasoning:\" followed by your reasoning, then \"user friendly answer:\" " +
			"followed by the question to show the user.",
		dsl.PhaseQueryGather: "Gather from the context available to you what answers the question below, and also " +
			"anything that fills other slots of the enclosing intent. Respond with two lines: \"reasoning:\" " +
			"followed by your reasoning, then \"user friendly answer:\" followed by the gathered information as plain text.",
		dsl.PhaseSlotResolver: "Interpret a free-text answer as a single DSL value expression.",
		dsl.PhaseErrorResolver: "A tool call failed. Decide how resolution should proceed: respond with a " +
			"corrected DSL value, or \"abort:\" followed by an ABORT()/ABORT_WITH_NEW_INTENTS(...) directive.",
	}
}
