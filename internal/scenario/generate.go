package scenario

import (
	"context"
	"fmt"

	"designrage/internal/game"
)

// Prompt is a client quote without responses; responses are generated.
type Prompt struct {
	Quote   string `yaml:"quote"`
	Context string `yaml:"context"`
}

// FallbackPrompts are used when no generator is available.
var FallbackPrompts = []Prompt{
	{"Can you make the logo bigger? And add some pop to it!", "Logo redesign feedback"},
	{"I want it to be modern, but also classic, and innovative, but familiar.", "Brand identity project"},
	{"Can we make it more... you know... better?", "Website revision meeting"},
	{"This looks too professional. Can you make it more fun?", "Corporate website design"},
	{"I don't like this blue. Can you try a different blue? Not that blue. The other blue.", "Color palette selection"},
	{"We need it to go viral. Make it more viral-worthy!", "Social media campaign"},
	{"It needs to be simple, but also complex and eye-catching.", "Marketing material design"},
	{"My nephew could do this in Paint. Why am I paying you?", "Client presentation"},
	{"Can we make the design pop more? You know, jazz it up a bit!", "Brochure design"},
	{"I sent you an inspiration at 3 AM. Did you see it? Can you make it exactly like that?", "Project revision"},
}

// responseOrder is the fixed layout of generated answers.
var responseOrder = []game.ResponseType{game.Professional, game.Sarcastic, game.Witty, game.Sarcastic}

// FromPrompts numbers prompts from 1 and gives each four generated responses.
func FromPrompts(prompts []Prompt, p game.Picker) []game.Scenario {
	out := make([]game.Scenario, 0, len(prompts))
	for i, pr := range prompts {
		out = append(out, game.Scenario{
			ID:          i + 1,
			ClientQuote: pr.Quote,
			Context:     pr.Context,
			Responses:   GenerateResponses(pr.Context, p),
		})
	}
	return out
}

// GenerateResponses builds one response per slot in responseOrder with
// impacts drawn from the type's range.
func GenerateResponses(context string, p game.Picker) []game.Response {
	out := make([]game.Response, 0, len(responseOrder))
	for _, t := range responseOrder {
		out = append(out, game.Response{
			Text:             responseText(context, t),
			Type:             t,
			StressImpact:     stressImpact(t, p),
			ReputationImpact: reputationImpact(t, p),
			Emoji:            emoji(t, p),
		})
	}
	return out
}

func responseText(context string, t game.ResponseType) string {
	switch t {
	case game.Professional:
		return fmt.Sprintf("Let's discuss how we can optimize the %s while maintaining professional standards.", context)
	case game.Sarcastic:
		return fmt.Sprintf("Oh sure, because that's exactly how %s should work! 🙄", context)
	case game.Witty:
		return fmt.Sprintf("Who knew %s could be such an adventure?", context)
	default:
		return "Let me think about that..."
	}
}

func stressImpact(t game.ResponseType, p game.Picker) int {
	switch t {
	case game.Professional:
		return p.Intn(5) + 5 // 5..9
	case game.Sarcastic:
		return -(p.Intn(8) + 3) // -3..-10
	case game.Witty:
		return -(p.Intn(3) + 1) // -1..-3
	}
	return 0
}

func reputationImpact(t game.ResponseType, p game.Picker) int {
	switch t {
	case game.Professional:
		return p.Intn(10) + 10 // 10..19
	case game.Sarcastic:
		return -(p.Intn(15) + 5) // -5..-19
	case game.Witty:
		return p.Intn(8) - 3 // -3..4
	}
	return 0
}

func emoji(t game.ResponseType, p game.Picker) string {
	switch t {
	case game.Professional:
		return "😊"
	case game.Sarcastic:
		return []string{"😈", "💀"}[p.Intn(2)]
	case game.Witty:
		return "🤖"
	}
	return ""
}

// Generated builds scenarios from FallbackPrompts on every fetch, so impacts
// are re-rolled for each new game.
func Generated(p game.Picker) Fetcher {
	return FetcherFunc(func(context.Context) ([]game.Scenario, error) {
		return FromPrompts(FallbackPrompts, p), nil
	})
}
