package dsl

import (
	"strings"

	"github.com/avalon-ai/intentkit/dslerr"
)

// Parse parses source — a comma-separated sequence of elements at the top
// level — into a NodeList. Top-level calls parse as bare Intent statements;
// calls appearing inside a list or as a slot's value parse as value
// expressions (wrapping a generic call in ReturnValue).
func Parse(source string) (*NodeList, error) {
	return parseNodeList(source, false)
}

// ParseReplacement parses source the way an oracle-driven resolution
// substitution is parsed: every element is in value position (so a bare
// call wraps in ReturnValue) except the special control forms (ABORT,
// ABORT_WITH_NEW_INTENTS, PROPAGATE_SLOT), which parse the same regardless of
// position.
func ParseReplacement(source string) (*NodeList, error) {
	return parseNodeList(source, true)
}

func parseNodeList(source string, valuePosition bool) (*NodeList, error) {
	parts, err := SplitTopLevel(source)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, len(parts))
	for i, p := range parts {
		n, err := parseElement(p, valuePosition)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return NewNodeList(nodes...), nil
}

// ParseValue parses a single value expression, the form used for a Slot's
// right-hand side or a ListValue element.
func ParseValue(source string) (Node, error) {
	return parseElement(strings.TrimSpace(source), true)
}

func parseElement(raw string, valuePosition bool) (Node, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, dslerr.New("empty element")
	}

	if q := s[0]; q == '\'' || q == '"' {
		interior, err := StripQuotes(s)
		if err != nil {
			return nil, err
		}
		return NewValue(interior), nil
	}

	if s[0] == '[' {
		if s[len(s)-1] != ']' {
			return nil, dslerr.New("list literal missing closing ']'")
		}
		interior := s[1 : len(s)-1]
		parts, err := SplitTopLevel(interior)
		if err != nil {
			return nil, err
		}
		elems := make([]Node, len(parts))
		for i, p := range parts {
			n, err := parseElement(p, true)
			if err != nil {
				return nil, err
			}
			elems[i] = n
		}
		return NewListValue(elems...)
	}

	if name, argsSrc, ok := splitCall(s); ok {
		return parseCall(name, argsSrc, valuePosition)
	}

	return NewValue(s), nil
}

// splitCall recognizes IDENT(...) spanning the whole of s.
func splitCall(s string) (name string, argsSrc string, ok bool) {
	if s[len(s)-1] != ')' {
		return "", "", false
	}
	idx := strings.IndexByte(s, '(')
	if idx <= 0 {
		return "", "", false
	}
	candidate := s[:idx]
	if !isIdent(candidate) {
		return "", "", false
	}
	return candidate, s[idx+1 : len(s)-1], true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func parseCall(name, argsSrc string, valuePosition bool) (Node, error) {
	switch name {
	case "F":
		text, err := singleQuotedArg(argsSrc)
		if err != nil {
			return nil, err
		}
		return NewFuzzyValue(text)
	case "ASK":
		text, err := singleQuotedArg(argsSrc)
		if err != nil {
			return nil, err
		}
		return NewAsk(text), nil
	case "QUERY_FILL":
		text, err := singleQuotedArg(argsSrc)
		if err != nil {
			return nil, err
		}
		return NewQueryFill(text), nil
	case "QUERY_USER":
		text, err := singleQuotedArg(argsSrc)
		if err != nil {
			return nil, err
		}
		return NewQueryUser(text), nil
	case "QUERY_GATHER":
		originalIntent, query, err := twoQuotedArgs(argsSrc)
		if err != nil {
			return nil, err
		}
		return NewQueryGather(originalIntent, query), nil
	case "ABORT_WITH_NEW_INTENTS":
		newDsl, err := bracketedNodeListArg(argsSrc)
		if err != nil {
			return nil, err
		}
		return NewAbortWithNewDsl(newDsl), nil
	case "SAME_AS_PREVIOUS_INTENT":
		if strings.TrimSpace(argsSrc) != "" {
			return nil, dslerr.New("SAME_AS_PREVIOUS_INTENT takes no arguments")
		}
		return NewSameAsPreviousIntent(), nil
	case "ABORT":
		if strings.TrimSpace(argsSrc) != "" {
			return nil, dslerr.New("ABORT takes no arguments")
		}
		return NewAbort(), nil
	case "PROPAGATE_SLOT":
		slots, err := parseSlotArgs(argsSrc)
		if err != nil {
			return nil, err
		}
		return NewPropagateSlots(slots...), nil
	default:
		slots, err := parseSlotArgs(argsSrc)
		if err != nil {
			return nil, err
		}
		intent := NewIntent(name, slots...)
		if valuePosition {
			return NewReturnValue(intent), nil
		}
		return intent, nil
	}
}

// singleQuotedArg parses argsSrc as exactly one quoted-string argument, as
// required by F(...), ASK(...), QUERY_FILL(...), and QUERY_USER(...).
func singleQuotedArg(argsSrc string) (string, error) {
	parts, err := SplitTopLevel(argsSrc)
	if err != nil {
		return "", err
	}
	if len(parts) != 1 {
		return "", dslerr.New("expected exactly one quoted string argument")
	}
	return StripQuotes(strings.TrimSpace(parts[0]))
}

// twoQuotedArgs parses argsSrc as exactly two quoted-string arguments, as
// required by QUERY_GATHER(original_intent, query).
func twoQuotedArgs(argsSrc string) (first, second string, err error) {
	parts, err := SplitTopLevel(argsSrc)
	if err != nil {
		return "", "", err
	}
	if len(parts) != 2 {
		return "", "", dslerr.New("expected exactly two quoted string arguments")
	}
	first, err = StripQuotes(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", "", err
	}
	second, err = StripQuotes(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", "", err
	}
	return first, second, nil
}

// bracketedNodeListArg parses argsSrc as a single "[...]" list literal, as
// required by ABORT_WITH_NEW_INTENTS([...]). Its elements parse the same way
// root-list elements do: a bare call is a tool Intent, not a ReturnValue.
func bracketedNodeListArg(argsSrc string) (*NodeList, error) {
	s := strings.TrimSpace(argsSrc)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, dslerr.New("ABORT_WITH_NEW_INTENTS expects a single list literal argument")
	}
	interior := s[1 : len(s)-1]
	parts, err := SplitTopLevel(interior)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, len(parts))
	for i, p := range parts {
		n, err := parseElement(p, false)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return NewNodeList(nodes...), nil
}

// parseSlotArgs parses argsSrc as zero or more "name=value" bindings, as
// required by an Intent's or PROPAGATE_SLOT's argument list.
func parseSlotArgs(argsSrc string) ([]*Slot, error) {
	parts, err := SplitTopLevel(argsSrc)
	if err != nil {
		return nil, err
	}
	slots := make([]*Slot, len(parts))
	for i, p := range parts {
		name, valueSrc, err := splitAssignment(p)
		if err != nil {
			return nil, err
		}
		value, err := parseElement(valueSrc, true)
		if err != nil {
			return nil, err
		}
		slot, err := NewSlot(name, value)
		if err != nil {
			return nil, err
		}
		slots[i] = slot
	}
	return slots, nil
}

// splitAssignment finds the first top-level '=' in s (outside quotes and
// bracket nesting) and splits name=value around it.
func splitAssignment(s string) (name string, value string, err error) {
	var stack []byte
	var quote byte
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch {
		case c == '\'' || c == '"':
			quote = c
		case c == '(' || c == '[' || c == '{':
			stack = append(stack, c)
		case c == ')' || c == ']' || c == '}':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case c == '=' && len(stack) == 0:
			name = strings.TrimSpace(s[:i])
			if !isIdent(name) {
				return "", "", dslerr.Atf(0, "invalid slot name %q", name)
			}
			return name, strings.TrimSpace(s[i+1:]), nil
		}
	}
	return "", "", dslerr.New("expected name=value binding, found no '='")
}
