package dsl

import (
	"context"
	"strings"
)

const abortPrefix = "abort:"

// resolveViaOracle sends question through rt's prompt builder for phase,
// parses the reply as a DSL fragment, and returns it as a substitution.
// When allowAbortPrefix is true, a reply beginning with "abort:" has that
// prefix stripped before parsing, matching the convention that lets an
// oracle-driven phase abandon the slot instead of filling it (the parsed
// result typically contains an Abort or AbortWithNewDsl node, which the
// resolver's substitution subroutine gives special handling).
func resolveViaOracle(ctx context.Context, rt Runtime, rs ResolutionState, phase OraclePhase, question string, allowAbortPrefix bool) (ResolutionOutcome, error) {
	systemPrompt := rt.SystemPrompt(phase)
	userPrompt := rt.BuildSlotPrompt(rs, question)

	reply, err := rt.CallOracle(ctx, phase, systemPrompt, userPrompt)
	if err != nil {
		return ResolutionOutcome{}, err
	}

	if allowAbortPrefix {
		if trimmed, ok := strings.CutPrefix(reply, abortPrefix); ok {
			reply = trimmed
		}
	}

	nodes, err := ParseReplacement(reply)
	if err != nil {
		return ResolutionOutcome{}, err
	}
	return NewNodesOutcome(nodes.Children()...), nil
}

// userFriendlyAnswer extracts the text following a "user friendly answer:"
// line from a reply structured as "reasoning: ...\nuser friendly answer:
// ...", as returned by the query-user and query-gather oracle phases. It
// falls back to "unknown" when the section is absent.
func userFriendlyAnswer(reply string) string {
	const marker = "user friendly answer:"
	for _, line := range strings.Split(reply, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) >= len(marker) && strings.EqualFold(trimmed[:len(marker)], marker) {
			return strings.TrimSpace(trimmed[len(marker):])
		}
	}
	return "unknown"
}
