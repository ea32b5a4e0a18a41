package oracle

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// rateLimited decorates an Oracle with a token-bucket limiter, blocking each
// Call until the limiter admits it rather than rejecting outright. This is
// a process-local limiter; it has no cluster coordination, which is fine
// for a single resolution worker talking to one provider account.
type rateLimited struct {
	next    Oracle
	limiter *rate.Limiter
}

// WithRateLimit wraps next so every Call first waits on limiter. Use this
// to keep a provider's requests-per-minute quota from being exceeded when
// many resolutions run concurrently.
func WithRateLimit(next Oracle, limiter *rate.Limiter) Oracle {
	return &rateLimited{next: next, limiter: limiter}
}

func (o *rateLimited) Call(ctx context.Context, req Request) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("oracle: rate limit wait: %w", err)
	}
	return o.next.Call(ctx, req)
}
