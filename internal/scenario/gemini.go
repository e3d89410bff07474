package scenario

import (
	"context"
	"fmt"
	"log"
	"strings"

	"designrage/internal/game"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

const generatePrompt = `Generate %d short, absurd but realistic requests a client might make to a graphic designer.
Reply with YAML only: a list of items with the keys "quote" (what the client says) and "context" (the project, a few words).`

// Gemini asks a Gemini model for fresh client quotes. Responses are still
// generated locally so impacts stay within the usual ranges.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	Count  int
	Picker game.Picker
}

// NewGemini creates a Gemini-backed fetcher.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{
		client: client,
		model:  client.GenerativeModel(model),
		Count:  len(FallbackPrompts),
		Picker: game.CryptoPicker{},
	}, nil
}

func (g *Gemini) Close() error { return g.client.Close() }

// Fetch generates Count scenarios.
func (g *Gemini) Fetch(ctx context.Context) ([]game.Scenario, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(generatePrompt, g.Count)))
	if err != nil {
		return nil, fmt.Errorf("generate scenarios: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response type from Gemini")
	}
	prompts, err := ParsePrompts(string(text))
	if err != nil {
		return nil, err
	}
	return FromPrompts(prompts, g.Picker), nil
}

// ParsePrompts reads a YAML prompt list, tolerating a fenced code block.
func ParsePrompts(raw string) ([]Prompt, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```yaml")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	var prompts []Prompt
	if err := yaml.Unmarshal([]byte(clean), &prompts); err != nil {
		return nil, fmt.Errorf("parse generated scenarios: %w", err)
	}
	out := prompts[:0]
	for _, p := range prompts {
		p.Quote = strings.TrimSpace(p.Quote)
		p.Context = strings.TrimSpace(p.Context)
		if p.Quote != "" && p.Context != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("parse generated scenarios: no usable items")
	}
	return out, nil
}

// WithFallback tries primary and serves secondary when it fails.
func WithFallback(primary, secondary Fetcher) Fetcher {
	return FetcherFunc(func(ctx context.Context) ([]game.Scenario, error) {
		scs, err := primary.Fetch(ctx)
		if err == nil && len(scs) > 0 {
			return scs, nil
		}
		log.Printf("scenario generator unavailable, using fallback: %v", err)
		return secondary.Fetch(ctx)
	})
}
