package llmplanner

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/exotic-travel-booking/itinerary-engine/internal/llm/providers"
	"github.com/exotic-travel-booking/itinerary-engine/internal/models"
	"github.com/exotic-travel-booking/itinerary-engine/internal/selector"
)

// Adapter is the LLM Planner Adapter (C6). It is stateless across calls
// and deterministic given (prompt, oracle output) — the only
// non-determinism lives in the oracle itself.
type Adapter struct {
	provider providers.LLMProvider
	model    string
	tracer   trace.Tracer
}

// NewAdapter builds a C6 adapter around provider, using model as the
// default model id for every generation request.
func NewAdapter(provider providers.LLMProvider, model string) *Adapter {
	return &Adapter{
		provider: provider,
		model:    model,
		tracer:   otel.Tracer("llmplanner.adapter"),
	}
}

// Plan builds the prompt, invokes the oracle once, and returns a parsed
// or fallback Draft. It never returns an error: an oracle failure or a
// malformed response both degrade to a deterministic fallback draft
// per the §4.6 contract.
func (a *Adapter) Plan(ctx context.Context, destination string, req *models.TourRequest, prefs models.Preferences, pools selector.Pools) *Draft {
	ctx, span := a.tracer.Start(ctx, "llmplanner.plan")
	defer span.End()

	span.SetAttributes(
		attribute.String("llmplanner.destination", destination),
		attribute.String("llmplanner.model", a.model),
	)

	durationDays, guests, budget := requestNumerics(req)

	genReq := &providers.GenerateRequest{
		Model:        a.model,
		SystemPrompt: SystemPrompt(),
		Messages: []providers.Message{
			{Role: "user", Content: BuildPrompt(destination, req, prefs, pools)},
		},
		Temperature: 0.2,
	}

	resp, err := a.provider.GenerateResponse(ctx, genReq)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("llmplanner.fallback", true))
		return ErrorFallback(destination, guests, durationDays, budget, prefs, err)
	}

	if len(resp.Choices) == 0 {
		span.SetAttributes(attribute.Bool("llmplanner.fallback", true))
		return ErrorFallback(destination, guests, durationDays, budget, prefs, errEmptyChoices)
	}

	draft, ok := Parse(resp.Choices[0].Message.Content)
	if !ok {
		span.SetAttributes(attribute.Bool("llmplanner.fallback", true))
		return ErrorFallback(destination, guests, durationDays, budget, prefs, errMalformedResponse)
	}

	return draft
}

func requestNumerics(req *models.TourRequest) (durationDays, guests int, budget float64) {
	durationDays, guests = 1, 1
	if req.DurationDays != nil {
		durationDays = *req.DurationDays
	}
	if req.GuestCount != nil {
		guests = *req.GuestCount
	}
	if req.TargetBudget != nil {
		budget = *req.TargetBudget
	}
	return durationDays, guests, budget
}
