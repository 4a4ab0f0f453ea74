// Package advisor asks a generative model for sustainability tips and footprint
// advice. Its output is informational only and never feeds back into calculations.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrUnavailable is returned when the model could not produce text.
var ErrUnavailable = errors.New("advice unavailable")

// DefaultTipPrompt is used when the caller supplies no prompt.
const DefaultTipPrompt = "Give me one detailed, everyday sustainability tip that is practical and easy to follow. " +
	"The tip should not be concise. Explain the reasoning behind it, how it positively impacts the environment, " +
	"and offer actionable steps to implement it in daily life. Keep the response clear, educational, and under 100 words. " +
	"Avoid technical jargon. This is meant for a general audience trying to adopt eco-friendly habits."

// FallbackTip is returned when the model answers with empty text.
const FallbackTip = "Try carrying a reusable water bottle instead of buying plastic ones."

const adviceTemplate = `You are EcoSangam, an AI-powered sustainability assistant helping users reduce and neutralize their carbon emissions.

The user has emitted approximately **%s tons of CO₂ per year** from household activities.

Give a set of **personalized, actionable suggestions** to neutralize or reduce this carbon footprint. Start your suggestions with:
"**EcoSangam suggests you to...**"

Instructions:
- Create a short response but not too short.
- Make your tone friendly and motivational.
- Use both **technical** and **layman terms** (e.g., "install solar panels" and then explain in plain terms why and how it helps).
- Give 4-6 suggestions, ordered by impact.
- Quantify impact where possible (e.g., "can reduce 1.5 tons/year").
- Include tips for **daily behavior**, **lifestyle changes**, and **offsetting options** (like tree planting or clean energy contributions).
- End with a short note like: "Every small step helps the planet breathe better."`

// Advisor wraps a Generator with prompt construction and an optional cache.
type Advisor struct {
	gen    Generator
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// Option customises an Advisor.
type Option func(*Advisor)

// WithCache caches footprint advice for ttl.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(a *Advisor) {
		a.cache = cache
		a.ttl = ttl
	}
}

// WithLogger sets the advisor logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Advisor) { a.logger = logger }
}

// New constructs an Advisor. gen may be nil, in which case every request returns
// ErrUnavailable.
func New(gen Generator, opts ...Option) *Advisor {
	a := &Advisor{gen: gen, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Tip returns a sustainability tip for prompt, or for DefaultTipPrompt when prompt is
// blank.
func (a *Advisor) Tip(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		prompt = DefaultTipPrompt
	}
	text, err := a.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if text == "" {
		return FallbackTip, nil
	}
	return text, nil
}

// Advice returns suggestions for reducing an annual footprint of tons.
func (a *Advisor) Advice(ctx context.Context, tons float64) (string, error) {
	if tons < 0 {
		tons = 0
	}
	// Prompt and cache key quote the same value, rounded to 4 decimals.
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(tons, 'f', 4, 64), 64)
	formatted := strconv.FormatFloat(rounded, 'f', -1, 64)
	key := "advice:" + formatted

	if a.cache != nil {
		cached, ok, err := a.cache.Get(ctx, key)
		switch {
		case err != nil:
			a.logger.Warn().Err(err).Msg("advice cache read failed")
		case ok:
			cacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			cacheLookups.WithLabelValues("miss").Inc()
		}
	}

	text, err := a.generate(ctx, fmt.Sprintf(adviceTemplate, formatted))
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	if a.cache != nil {
		if err := a.cache.Set(ctx, key, text, a.ttl); err != nil {
			a.logger.Warn().Err(err).Msg("advice cache write failed")
		}
	}
	return text, nil
}

func (a *Advisor) generate(ctx context.Context, prompt string) (string, error) {
	if a.gen == nil {
		return "", fmt.Errorf("%w: no model configured", ErrUnavailable)
	}
	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		a.logger.Error().Err(err).Msg("model request failed")
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return strings.TrimSpace(text), nil
}
