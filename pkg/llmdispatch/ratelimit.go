package llmdispatch

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Provider with a per-provider token bucket so a single
// runaway caller cannot exhaust a provider's own rate limit across the
// dispatcher's candidate chain.
type RateLimited struct {
	Provider
	limiter *rate.Limiter
}

// NewRateLimited wraps p with a limiter allowing rps requests per second
// and a burst of burst requests.
func NewRateLimited(p Provider, rps float64, burst int) *RateLimited {
	return &RateLimited{Provider: p, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (r *RateLimited) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return GenerateResult{}, err
	}
	return r.Provider.Generate(ctx, req)
}

var _ Provider = (*RateLimited)(nil)
