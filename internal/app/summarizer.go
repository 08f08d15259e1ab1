package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"eco_hotels/internal/adapters/observability"
	"eco_hotels/internal/domain"
)

const persona = "You are an eco-tourism expert. Provide a 2-3 sentence summary of the hotel emphasizing sustainable features."

const DefaultMaxTokens = 150

// Summarizer turns a raw hotel into a short enrichment text.
type Summarizer struct {
	gen       domain.TextGenerator
	maxTokens int
}

// NewSummarizer accepts a nil generator; every summary then falls back to the description.
func NewSummarizer(gen domain.TextGenerator, maxTokens int) *Summarizer {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Summarizer{gen: gen, maxTokens: maxTokens}
}

// Summarize makes one generation attempt and returns the record's description on any failure.
// The second return value reports whether the generated text was used.
func (s *Summarizer) Summarize(ctx context.Context, r domain.RawRecord) (string, bool) {
	if s.gen == nil {
		observability.ObserveRecord("summarize", "fallback")
		return r.Description, false
	}

	out, err := s.gen.Generate(ctx, persona, userPrompt(r), s.maxTokens)
	if err == nil && strings.TrimSpace(out) == "" {
		err = fmt.Errorf("empty completion")
	}
	if err != nil {
		log.Error().Err(err).Str("hotel", r.Name).Msg("summarize failed, using description")
		observability.ObserveRecord("summarize", "fallback")
		return r.Description, false
	}
	observability.ObserveRecord("summarize", "ok")
	return strings.TrimSpace(out), true
}

func userPrompt(r domain.RawRecord) string {
	rating := ""
	if r.Rating != nil {
		rating = strconv.FormatFloat(*r.Rating, 'f', -1, 64)
	}
	return "Hotel: " + r.Name + "\nDescription: " + r.Description + "\nRating: " + rating
}
