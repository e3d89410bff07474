// Package profile aggregates finished games into a player's stats and
// achievements.
package profile

import (
	"context"
	"fmt"
	"math"
	"time"

	"designrage/internal/game"
)

// Achievement ids.
const (
	FirstGame         = "first_game"
	LowStress         = "low_stress"
	PerfectReputation = "perfect_reputation"
	ChaosSurvivor     = "chaos_survivor"
	HighScore         = "high_score"
	FrequentPlayer    = "frequent_player"
	BalancedDesigner  = "balanced_designer"
	ZenMaster         = "zen_master"
)

type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Unlocked    bool       `json:"unlocked"`
	Date        *time.Time `json:"date,omitempty"`
}

type Stats struct {
	GamesPlayed       int           `json:"gamesPlayed"`
	BestScore         int           `json:"bestScore"`
	BestTitle         string        `json:"bestTitle"`
	AverageReputation int           `json:"averageReputation"`
	AverageStress     int           `json:"averageStress"`
	GameHistory       []game.Result `json:"gameHistory"`
}

type Profile struct {
	Username     string        `json:"username"`
	Stats        Stats         `json:"stats"`
	Achievements []Achievement `json:"achievements"`
	LastLogin    time.Time     `json:"lastLogin"`
}

// Store persists profiles keyed by an opaque user id.
type Store interface {
	SaveProfile(ctx context.Context, userID string, p Profile) error
	LoadProfile(ctx context.Context, userID string) (Profile, bool, error)
}

type unlockRule struct {
	id    string
	match func(r game.Result, gamesPlayed int) bool
}

var unlockRules = []unlockRule{
	{FirstGame, func(_ game.Result, n int) bool { return n == 1 }},
	{LowStress, func(r game.Result, _ int) bool { return r.FinalStress < 10 }},
	{PerfectReputation, func(r game.Result, _ int) bool { return r.FinalReputation >= 100 }},
	{ChaosSurvivor, func(r game.Result, _ int) bool { return r.ChaosEventsCount >= 3 }},
	{HighScore, func(r game.Result, _ int) bool { return r.TotalScore > 90 }},
	{FrequentPlayer, func(_ game.Result, n int) bool { return n >= 10 }},
	{BalancedDesigner, func(r game.Result, _ int) bool { return r.FinalStress > 70 && r.FinalReputation > 70 }},
	{ZenMaster, func(r game.Result, _ int) bool { return r.FinalStress < 20 && r.FinalReputation > 90 }},
}

// DefaultAchievements returns every achievement, all locked.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: FirstGame, Title: "First Survival", Description: "Completed your first game"},
		{ID: LowStress, Title: "Stress Master", Description: "Finished a game with less than 10% stress"},
		{ID: PerfectReputation, Title: "Perfect Reputation", Description: "Maintained 100% client reputation"},
		{ID: ChaosSurvivor, Title: "Chaos Survivor", Description: "Survived 3 chaos events in one game"},
		{ID: HighScore, Title: "Design Superstar", Description: "Scored over 90 points in a single game"},
		{ID: FrequentPlayer, Title: "Dedicated Designer", Description: "Played 10 or more games"},
		{ID: BalancedDesigner, Title: "Balanced Designer", Description: "Finished a game with both stress and reputation above 70%"},
		{ID: ZenMaster, Title: "Zen Master", Description: "Finished a game with less than 20% stress and over 90% reputation"},
	}
}

// New returns an empty profile.
func New(username string, now time.Time) Profile {
	return Profile{
		Username:     username,
		Stats:        Stats{GameHistory: []game.Result{}},
		Achievements: DefaultAchievements(),
		LastLogin:    now.UTC(),
	}
}

// AddResult appends r to the history, recomputes the aggregates and unlocks
// achievements. It returns the updated profile and the achievements unlocked
// by this result; p itself is not modified.
func (p Profile) AddResult(r game.Result, now time.Time) (Profile, []Achievement) {
	out := p
	history := make([]game.Result, 0, len(p.Stats.GameHistory)+1)
	history = append(history, p.Stats.GameHistory...)
	history = append(history, r)

	var totalRep, totalStress int
	for _, g := range history {
		totalRep += g.FinalReputation
		totalStress += g.FinalStress
	}
	n := len(history)
	out.Stats = Stats{
		GamesPlayed:       n,
		BestScore:         max(p.Stats.BestScore, r.TotalScore),
		BestTitle:         p.Stats.BestTitle,
		AverageReputation: int(math.Round(float64(totalRep) / float64(n))),
		AverageStress:     int(math.Round(float64(totalStress) / float64(n))),
		GameHistory:       history,
	}
	if r.TotalScore > p.Stats.BestScore || p.Stats.BestTitle == "" {
		out.Stats.BestTitle = r.Title
	}

	achievements := p.Achievements
	if len(achievements) == 0 {
		achievements = DefaultAchievements()
	}
	out.Achievements = make([]Achievement, len(achievements))
	copy(out.Achievements, achievements)

	var unlocked []Achievement
	at := now.UTC()
	for i, a := range out.Achievements {
		if a.Unlocked {
			continue
		}
		for _, rule := range unlockRules {
			if rule.id == a.ID && rule.match(r, n) {
				a.Unlocked = true
				a.Date = &at
				out.Achievements[i] = a
				unlocked = append(unlocked, a)
				break
			}
		}
	}
	out.LastLogin = at
	return out, unlocked
}

// Unlocked counts unlocked achievements.
func (p Profile) Unlocked() int {
	n := 0
	for _, a := range p.Achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}

// Record adds r to the stored profile for userID, creating it if needed.
func Record(ctx context.Context, store Store, userID, username string, r game.Result, now time.Time) (Profile, []Achievement, error) {
	p, ok, err := store.LoadProfile(ctx, userID)
	if err != nil {
		return Profile{}, nil, fmt.Errorf("load profile: %w", err)
	}
	if !ok {
		p = New(username, now)
	}
	updated, unlocked := p.AddResult(r, now)
	if err := store.SaveProfile(ctx, userID, updated); err != nil {
		return p, nil, fmt.Errorf("save profile: %w", err)
	}
	return updated, unlocked, nil
}
