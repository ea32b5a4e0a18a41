package dsl

import (
	"context"
	"strings"

	"github.com/avalon-ai/intentkit/dslerr"
)

// FuzzyQuantity is the dynamic value a FuzzyValue evaluates to: an imprecise
// textual quantity (e.g. "a couple", "a handful") that a tool's Cast
// function may map to a concrete number using its own table, distinct from
// a Value's plain string so downstream code can tell the two apart.
type FuzzyQuantity string

// FuzzyValue carries a textual quantity the oracle was not able (or asked
// not) to pin down to an exact number, such as "a couple" or "around a
// dozen". Unlike Value, its content may never itself contain a quote
// character. F(...) renders its text with QuoteAndEscape.
type FuzzyValue struct {
	leaf
	Text string
}

// NewFuzzyValue constructs a FuzzyValue, rejecting text that contains a
// single or double quote character.
func NewFuzzyValue(text string) (*FuzzyValue, error) {
	if strings.ContainsAny(text, `"'`) {
		return nil, dslerr.New("fuzzy value text must not contain a quote character")
	}
	return &FuzzyValue{Text: text}, nil
}

func (f *FuzzyValue) Render() string {
	return `F(` + QuoteAndEscape(f.Text) + `)`
}

func (f *FuzzyValue) IsResolved() bool { return true }
func (f *FuzzyValue) ValueKind() bool  { return true }

func (f *FuzzyValue) Equal(other Node) bool {
	o, ok := other.(*FuzzyValue)
	return ok && o.Text == f.Text
}

func (f *FuzzyValue) Eval(context.Context, Runtime) (any, error) {
	return FuzzyQuantity(f.Text), nil
}
