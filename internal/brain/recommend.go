package brain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abelbrown/hogwash/internal/logging"
	"github.com/abelbrown/hogwash/internal/model"
)

const (
	// SeedSize is how many recent history entries seed a request.
	SeedSize = 20
	// MaxSuggestions caps the kept entries of a response.
	MaxSuggestions = 10
)

var (
	ErrNoProvider        = errors.New("no AI provider configured")
	ErrNoRecommendations = errors.New("provider returned no recommendations")
	ErrMalformed         = errors.New("malformed recommendation response")
)

const recommendSystemPrompt = `You are a viral video recommendation expert for an app called OINK. ` +
	`Respond with JSON only, shaped as {"recommendations":[{"title":"","author":"","platform":"","reason":""}]}. ` +
	`platform must be one of youtube, tiktok or x.`

// Recommender asks an LLM for new videos based on a watch history.
type Recommender struct {
	providers *ProviderManager
}

// NewRecommender creates a recommender over the given providers.
func NewRecommender(pm *ProviderManager) *Recommender {
	return &Recommender{providers: pm}
}

// Available reports whether any provider can serve a request.
func (r *Recommender) Available() bool {
	return r != nil && r.providers != nil && r.providers.Pick() != nil
}

// Recommend sends one request seeded with the first SeedSize entries of
// history (most recent first) and returns at most MaxSuggestions entries.
func (r *Recommender) Recommend(ctx context.Context, history []model.Video) ([]model.Suggestion, error) {
	if !r.Available() {
		return nil, ErrNoProvider
	}
	p := r.providers.Pick()

	resp, err := p.Generate(ctx, Request{
		SystemPrompt: recommendSystemPrompt,
		UserPrompt:   BuildPrompt(history),
		MaxTokens:    2048,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}

	suggestions, err := ParseSuggestions(resp.Content)
	if err != nil {
		logging.Warn("Unusable recommendation response", "provider", p.Name(), "error", err)
		logging.Debug("Raw recommendation response", "provider", p.Name(), "body", resp.Raw)
		return nil, err
	}
	logging.Info("Recommendations received", "provider", p.Name(), "model", resp.Model, "count", len(suggestions))
	return suggestions, nil
}

// BuildPrompt renders the user prompt for a history seed.
func BuildPrompt(history []model.Video) string {
	if len(history) > SeedSize {
		history = history[:SeedSize]
	}
	seen := make([]string, 0, len(history))
	for _, v := range history {
		seen = append(seen, fmt.Sprintf("'%s' by %s on %s", v.Title, v.Author, v.Platform))
	}
	return "Based on this user's watch history, suggest 10 new, engaging video titles they would love. " +
		"Provide a diverse mix of platforms (youtube, tiktok, x). " +
		"For each, give a short, compelling reason why the user would like it. " +
		"User history: " + strings.Join(seen, ", ")
}

type suggestionJSON struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Platform string `json:"platform"`
	Reason   string `json:"reason"`
}

// ParseSuggestions decodes a provider reply. Code fences and prose around
// the JSON object are tolerated; an invalid entry rejects the whole reply.
func ParseSuggestions(content string) ([]model.Suggestion, error) {
	raw := extractJSON(content)
	if raw == "" {
		return nil, fmt.Errorf("%w: no JSON object", ErrMalformed)
	}

	var body struct {
		Recommendations []suggestionJSON `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(body.Recommendations) == 0 {
		return nil, ErrNoRecommendations
	}

	entries := body.Recommendations
	if len(entries) > MaxSuggestions {
		entries = entries[:MaxSuggestions]
	}

	out := make([]model.Suggestion, 0, len(entries))
	for i, e := range entries {
		platform := strings.ToLower(strings.TrimSpace(e.Platform))
		if !model.IsRecommendable(platform) {
			return nil, fmt.Errorf("%w: entry %d has platform %q", ErrMalformed, i, e.Platform)
		}
		if strings.TrimSpace(e.Title) == "" {
			return nil, fmt.Errorf("%w: entry %d has no title", ErrMalformed, i)
		}
		out = append(out, model.Suggestion{
			Title:    strings.TrimSpace(e.Title),
			Author:   strings.TrimSpace(e.Author),
			Platform: platform,
			Reason:   strings.TrimSpace(e.Reason),
		})
	}
	return out, nil
}

// extractJSON strips markdown fences and returns the outermost object.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}
