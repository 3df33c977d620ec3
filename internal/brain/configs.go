package brain

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/abelbrown/hogwash/internal/config"
)

// Provider configurations

func ClaudeConfig(s config.ModelSettings) *ProviderConfig {
	return &ProviderConfig{
		Name:       "claude",
		Endpoint:   endpointOr(s.Endpoint, "https://api.anthropic.com/v1/messages"),
		APIKey:     s.APIKey,
		Model:      modelOr(s.Model, "claude-sonnet-4-5-20250929"),
		AuthHeader: "x-api-key",
		ExtraHeaders: map[string]string{
			"anthropic-version": "2023-06-01",
		},
		BuildBody:     buildClaudeBody,
		ParseResponse: parseClaudeResponse,
	}
}

func OpenAIConfig(s config.ModelSettings) *ProviderConfig {
	return &ProviderConfig{
		Name:          "openai",
		Endpoint:      endpointOr(s.Endpoint, "https://api.openai.com/v1/chat/completions"),
		APIKey:        s.APIKey,
		Model:         modelOr(s.Model, "gpt-4o"),
		AuthHeader:    "Authorization",
		AuthPrefix:    "Bearer ",
		BuildBody:     buildOpenAIBody,
		ParseResponse: parseOpenAIResponse,
	}
}

func GeminiConfig(s config.ModelSettings) *ProviderConfig {
	model := modelOr(s.Model, "gemini-2.5-flash")
	return &ProviderConfig{
		Name:          "gemini",
		Endpoint:      endpointOr(s.Endpoint, "https://generativelanguage.googleapis.com/v1beta/models/"+model+":generateContent"),
		APIKey:        s.APIKey,
		Model:         model,
		AuthHeader:    "x-goog-api-key",
		BuildBody:     buildGeminiBody,
		ParseResponse: parseGeminiResponse,
	}
}

func GrokConfig(s config.ModelSettings) *ProviderConfig {
	return &ProviderConfig{
		Name:          "grok",
		Endpoint:      endpointOr(s.Endpoint, "https://api.x.ai/v1/chat/completions"),
		APIKey:        s.APIKey,
		Model:         modelOr(s.Model, "grok-3-fast"),
		AuthHeader:    "Authorization",
		AuthPrefix:    "Bearer ",
		BuildBody:     buildOpenAIBody, // OpenAI-compatible
		ParseResponse: parseOpenAIResponse,
	}
}

// OllamaConfig points at a local Ollama server. With no model configured
// the server is asked for one; an unreachable server leaves the provider
// unavailable.
func OllamaConfig(ctx context.Context, s config.ModelSettings) *ProviderConfig {
	host := strings.TrimRight(endpointOr(s.Endpoint, "http://localhost:11434"), "/")
	model := s.Model
	if model == "" {
		model = detectOllamaModel(ctx, host)
	}
	return &ProviderConfig{
		Name:          "ollama",
		Endpoint:      host + "/api/generate",
		Model:         model,
		NoAuth:        true,
		BuildBody:     buildOllamaBody,
		ParseResponse: parseOllamaResponse,
	}
}

// detectOllamaModel queries Ollama for available models and picks one
func detectOllamaModel(ctx context.Context, host string) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+"/api/tags", nil)
	if err != nil {
		return ""
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return ""
	}
	if len(tags.Models) == 0 {
		return ""
	}

	// Prefer instruct models for structured output
	for _, m := range tags.Models {
		if strings.Contains(strings.ToLower(m.Name), "instruct") {
			return m.Name
		}
	}
	return tags.Models[0].Name
}

// Body builders

func buildClaudeBody(cfg *ProviderConfig, req Request) map[string]any {
	body := map[string]any{
		"model":      cfg.Model,
		"max_tokens": maxTokensOr(req.MaxTokens, 2048),
		"messages":   []map[string]string{{"role": "user", "content": req.UserPrompt}},
	}
	if req.SystemPrompt != "" {
		body["system"] = req.SystemPrompt
	}
	return body
}

func buildOpenAIBody(cfg *ProviderConfig, req Request) map[string]any {
	messages := []map[string]string{}
	if req.SystemPrompt != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.SystemPrompt})
	}
	messages = append(messages, map[string]string{"role": "user", "content": req.UserPrompt})

	return map[string]any{
		"model":                 cfg.Model,
		"max_completion_tokens": maxTokensOr(req.MaxTokens, 2048),
		"messages":              messages,
		"response_format":       map[string]string{"type": "json_object"},
	}
}

func buildGeminiBody(cfg *ProviderConfig, req Request) map[string]any {
	body := map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]string{{"text": req.UserPrompt}}},
		},
		"generationConfig": map[string]any{
			"maxOutputTokens":  maxTokensOr(req.MaxTokens, 2048),
			"responseMimeType": "application/json",
		},
	}
	if req.SystemPrompt != "" {
		body["systemInstruction"] = map[string]any{
			"parts": []map[string]string{{"text": req.SystemPrompt}},
		}
	}
	return body
}

func buildOllamaBody(cfg *ProviderConfig, req Request) map[string]any {
	prompt := req.UserPrompt
	if req.SystemPrompt != "" {
		prompt = req.SystemPrompt + "\n\n" + req.UserPrompt
	}
	return map[string]any{
		"model":  cfg.Model,
		"prompt": prompt,
		"format": "json",
		"stream": false,
	}
}

// Response parsers

func parseClaudeResponse(body []byte) (string, string, error) {
	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Model string `json:"model"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", err
	}
	var texts []string
	for _, c := range resp.Content {
		if c.Type == "text" {
			texts = append(texts, c.Text)
		}
	}
	return strings.Join(texts, "\n\n"), resp.Model, nil
}

func parseOpenAIResponse(body []byte) (string, string, error) {
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Model string `json:"model"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", err
	}
	if len(resp.Choices) > 0 {
		return resp.Choices[0].Message.Content, resp.Model, nil
	}
	return "", resp.Model, nil
}

func parseGeminiResponse(body []byte) (string, string, error) {
	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		ModelVersion string `json:"modelVersion"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", err
	}
	if len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 {
		return resp.Candidates[0].Content.Parts[0].Text, resp.ModelVersion, nil
	}
	return "", resp.ModelVersion, nil
}

func parseOllamaResponse(body []byte) (string, string, error) {
	var resp struct {
		Response string `json:"response"`
		Model    string `json:"model"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", "", err
	}
	return resp.Response, resp.Model, nil
}

// Helpers

func endpointOr(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func modelOr(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func maxTokensOr(v, defaultVal int) int {
	if v > 0 {
		return v
	}
	return defaultVal
}

// NewManager builds a provider manager from the AI config. Unavailable
// providers are logged through log and skipped.
func NewManager(ctx context.Context, cfg config.AIConfig, log func(msg string, args ...any)) *ProviderManager {
	configs := []*ProviderConfig{
		ClaudeConfig(cfg.Models.Claude),
		OpenAIConfig(cfg.Models.OpenAI),
		GeminiConfig(cfg.Models.Gemini),
		GrokConfig(cfg.Models.Grok),
		OllamaConfig(ctx, cfg.Models.Ollama),
	}

	pm := NewProviderManager()
	pm.SetPreferred(cfg.Preferred)
	for _, c := range configs {
		p := NewHTTPProvider(c)
		if !p.Available() {
			if log != nil {
				// Only log whether a key exists, never the key
				log("Provider skipped - not available", "name", c.Name, "has_api_key", c.APIKey != "")
			}
			continue
		}
		pm.AddProvider(p)
		if log != nil {
			log("Provider created", "name", c.Name, "model", c.Model)
		}
	}
	return pm
}
