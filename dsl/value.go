package dsl

import (
	"context"
	"strconv"
)

// Value is a literal scalar: a bare number/boolean token or a quoted string,
// always carried internally as its raw text. Render decides whether to quote
// it; Eval decides its dynamic type.
type Value struct {
	leaf
	Raw string
}

// NewValue constructs a Value from its raw textual payload.
func NewValue(raw string) *Value { return &Value{Raw: raw} }

func (v *Value) Render() string {
	if isNumeric(v.Raw) {
		return v.Raw
	}
	switch v.Raw {
	case "true", "false":
		return v.Raw
	}
	return QuoteAndEscape(v.Raw)
}

func (v *Value) IsResolved() bool { return true }
func (v *Value) ValueKind() bool  { return true }

func (v *Value) Equal(other Node) bool {
	o, ok := other.(*Value)
	return ok && o.Raw == v.Raw
}

// Eval returns the Value's dynamic payload: an int64 or float64 when Raw
// parses as a number, a bool when Raw is exactly "true"/"false", otherwise
// the raw string.
func (v *Value) Eval(context.Context, Runtime) (any, error) {
	if n, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(v.Raw, 64); err == nil {
		return f, nil
	}
	switch v.Raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return v.Raw, nil
}
