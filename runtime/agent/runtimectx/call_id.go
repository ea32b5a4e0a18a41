package runtimectx

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/avalon-ai/intentkit/dsl"
)

// generateCallID returns a globally unique identifier for one oracle
// consultation, prefixed with the normalized phase name to improve
// observability in logs and traces without sacrificing uniqueness.
func generateCallID(phase dsl.OraclePhase) string {
	prefix := strings.ReplaceAll(string(phase), "_", "-")
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}
