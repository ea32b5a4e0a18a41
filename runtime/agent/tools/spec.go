// Package tools exposes the typed tool registry surface consumed by the
// resolution and evaluation engines: a tool's name, its named argument types,
// and the cast functions used to coerce oracle- or user-supplied values into
// the shapes a tool implementation expects.
package tools

import "context"

type (
	// ToolSpec describes one callable tool: its named arguments, its result
	// type, and the function that actually runs it. Tools are looked up by
	// Name when an Intent node is evaluated.
	ToolSpec struct {
		// Name is the globally unique tool identifier.
		Name Ident
		// Description provides human-readable context about the tool. The
		// RuntimeContext system prompts do not include it; nothing in this
		// module reads it.
		Description string
		// Args maps each named argument to its type descriptor. An Intent
		// call supplies a subset of these names; missing ones must already
		// have been resolved to a default or filled via a Slot before Invoke
		// is reached.
		Args map[string]TypeSpec
		// Result describes the shape of the value Invoke returns.
		Result TypeSpec
		// Invoke runs the tool against already-cast argument values.
		Invoke func(ctx context.Context, args map[string]any) (any, error)
	}

	// TypeSpec describes the shape of a single argument or result value and
	// how to coerce a raw value (typically a string, number, bool, or list
	// produced by evaluating DSL nodes) into that shape.
	TypeSpec struct {
		// Name is a human-readable type name, used in error messages.
		Name string
		// Schema optionally contains a JSON Schema document, compiled once at
		// registration time as a sanity check. It is not consulted again
		// during Cast.
		Schema []byte
		// Cast converts value into this type. When allowScalarToList is true
		// and Name describes a list type, a bare scalar is wrapped into a
		// single-element list rather than rejected.
		Cast func(value any, allowScalarToList bool) (any, error)
	}
)
