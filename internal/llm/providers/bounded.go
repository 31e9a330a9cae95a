package providers

import (
	"context"

	"golang.org/x/time/rate"
)

// Bounded wraps an LLMProvider with a rate limiter so a burst of planning
// calls can't overwhelm the oracle's own rate limits. It limits how often
// calls start, not how many are in flight at once. The
// teacher's providers never bounded concurrent calls; Planning calls are
// per-worker and independent, so this is the one seam that needs it.
type Bounded struct {
	LLMProvider
	limiter *rate.Limiter
}

// NewBounded wraps provider with a token-bucket limiter that lets up to
// burst calls start at once and refills at ratePerSec calls/second.
func NewBounded(provider LLMProvider, ratePerSec float64, burst int) *Bounded {
	return &Bounded{
		LLMProvider: provider,
		limiter:     rate.NewLimiter(rate.Limit(ratePerSec), burst),
	}
}

func (b *Bounded) GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return b.LLMProvider.GenerateResponse(ctx, req)
}
