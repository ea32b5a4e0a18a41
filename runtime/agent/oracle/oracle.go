// Package oracle adapts the generic model.Client chat interface to the
// narrow, single-turn text exchange the resolution engine needs: a system
// prompt and a user prompt in, a raw text reply out, once per OraclePhase.
package oracle

import (
	"context"
	"errors"
	"fmt"

	"github.com/avalon-ai/intentkit/dsl"
	"github.com/avalon-ai/intentkit/runtime/agent/model"
	"github.com/avalon-ai/intentkit/runtime/agent/model/anthropic"
	"github.com/avalon-ai/intentkit/runtime/agent/model/openai"
)

// Oracle is the single-turn text consultation boundary: the same shape
// dsl.Runtime.CallOracle needs, kept as its own interface so it can be
// decorated (rate limiting, logging) independently of dsl.Runtime.
type Oracle interface {
	Call(ctx context.Context, req Request) (string, error)
}

// Request describes one oracle consultation.
type Request struct {
	// CallID uniquely identifies this consultation for log/trace
	// correlation. Opaque to every Oracle implementation; callers that don't
	// need correlation can leave it empty.
	CallID string
	// Phase names which part of resolution is asking.
	Phase dsl.OraclePhase
	// SystemPrompt is the precompiled instructions for Phase.
	SystemPrompt string
	// UserPrompt is the per-call question, including any "other slots"
	// or question-history context the caller has already rendered.
	UserPrompt string
	// Model overrides the adapter's default model identifier, if set.
	Model string
	// Adapter names which provider adapter should serve this call (e.g.
	// "anthropic", "openai"), for Oracle implementations that route across
	// more than one backend. Opaque to modelOracle, which only ever talks
	// to the single model.Client it was constructed with.
	Adapter string
	// Host optionally overrides the default transport endpoint, for Oracle
	// implementations that front more than one deployment of the same
	// provider (e.g. a regional gateway).
	Host string
	// Container optionally names the deployment/tenant container a hosted
	// model call should run against.
	Container string
}

// modelOracle adapts any model.Client into an Oracle by wrapping the
// request as a single system message plus a single user message and
// extracting the first text part of the reply.
type modelOracle struct {
	client model.Client
}

// New wraps a model.Client — such as an anthropic.Client or openai.Client —
// as an Oracle. Any provider implementing model.Client works here: the
// provider-specific adapter lives at the model.Client boundary, not here.
func New(client model.Client) Oracle {
	return &modelOracle{client: client}
}

// NewAnthropicAdapter wraps an Anthropic Messages client as an Oracle.
func NewAnthropicAdapter(client *anthropic.Client) Oracle {
	return New(client)
}

// NewOpenAIAdapter wraps an OpenAI Chat Completions client as an Oracle.
func NewOpenAIAdapter(client *openai.Client) Oracle {
	return New(client)
}

func (o *modelOracle) Call(ctx context.Context, req Request) (string, error) {
	if req.SystemPrompt == "" {
		return "", errors.New("oracle: system prompt is required")
	}
	if req.UserPrompt == "" {
		return "", errors.New("oracle: user prompt is required")
	}
	resp, err := o.client.Complete(ctx, &model.Request{
		Model: req.Model,
		Messages: []*model.Message{
			{
				Role:  model.ConversationRoleSystem,
				Parts: []model.Part{model.TextPart{Text: req.SystemPrompt}},
			},
			{
				Role:  model.ConversationRoleUser,
				Parts: []model.Part{model.TextPart{Text: req.UserPrompt}},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("oracle: phase %q: %w", req.Phase, err)
	}
	return firstText(resp)
}

func firstText(resp *model.Response) (string, error) {
	for _, msg := range resp.Content {
		for _, p := range msg.Parts {
			if t, ok := p.(model.TextPart); ok && t.Text != "" {
				return t.Text, nil
			}
		}
	}
	return "", errors.New("oracle: reply contained no text content")
}
