// Package scenario supplies the client requests and chaos events a session
// plays through.
package scenario

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"designrage/internal/game"

	"gopkg.in/yaml.v3"
)

//go:embed data/pack.yaml
var defaultPack []byte

// Pack is a scenario pool plus the chaos events that can interrupt it.
type Pack struct {
	Scenarios []game.Scenario   `yaml:"scenarios"`
	Chaos     []game.ChaosEvent `yaml:"chaos"`
}

// LoadPack loads a pack from a YAML file.
func LoadPack(path string) (*Pack, error) {
	cleanPath := filepath.Clean(path)
	b, err := os.ReadFile(cleanPath) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, err
	}
	return ParsePack(b)
}

// ParsePack decodes and validates a YAML pack.
func ParsePack(b []byte) (*Pack, error) {
	var p Pack
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Default returns the built-in pack.
func Default() *Pack {
	p, err := ParsePack(defaultPack)
	if err != nil {
		panic(fmt.Sprintf("built-in scenario pack: %v", err))
	}
	return p
}

// Validate checks ids are unique and positive and every scenario has 3 or 4
// well-typed responses.
func (p *Pack) Validate() error {
	if len(p.Scenarios) == 0 {
		return fmt.Errorf("pack has no scenarios")
	}
	seen := map[int]bool{}
	for _, sc := range p.Scenarios {
		if err := validateScenario(sc); err != nil {
			return err
		}
		if seen[sc.ID] {
			return fmt.Errorf("duplicate scenario id %d", sc.ID)
		}
		seen[sc.ID] = true
	}
	for _, ev := range p.Chaos {
		if ev.Title == "" {
			return fmt.Errorf("chaos event %d has no title", ev.ID)
		}
	}
	return nil
}

func validateScenario(sc game.Scenario) error {
	if sc.ID <= 0 {
		return fmt.Errorf("scenario id must be positive, got %d", sc.ID)
	}
	if n := len(sc.Responses); n < 3 || n > 4 {
		return fmt.Errorf("scenario %d: want 3 or 4 responses, got %d", sc.ID, n)
	}
	for i, r := range sc.Responses {
		switch r.Type {
		case game.Professional, game.Witty, game.Sarcastic:
		default:
			return fmt.Errorf("scenario %d response %d: unknown type %q", sc.ID, i, r.Type)
		}
	}
	return nil
}
