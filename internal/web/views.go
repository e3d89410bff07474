package web

import (
	"designrage/internal/game"
	"designrage/internal/profile"
)

// ScreenView is everything the #screen fragment needs for one phase.
type ScreenView struct {
	Phase     game.Phase
	State     game.GameState
	MaxRounds int
	Message   string

	Scenario *game.Scenario
	Chaos    *game.ChaosEvent
	Loading  bool // playing but the pool is still empty

	Tutorial []TutorialStep

	Result   *game.Result
	Verdict  game.Verdict
	Unlocked []profile.Achievement
}

// FeedbackView shows the outcome of a response before the next scenario.
type FeedbackView struct {
	Step       game.Step
	Stress     int
	Reputation int
	DelayMS    int64
}

type ProfileView struct {
	Profile profile.Profile
	Saved   bool
	Recent  []game.Result
}

type ShareView struct {
	Text string
	Card string
}

type TutorialStep struct {
	Emoji   string
	Title   string
	Content string
}

func tutorialSteps(maxRounds int) []TutorialStep {
	last := TutorialStep{
		Emoji:   "🏆",
		Title:   "Survive the Day 🚀",
		Content: "Keep going as long as you can survive! Use the 'End Game' button whenever you want to see your final results and designer title.",
	}
	if maxRounds > 0 {
		last.Content = "Make it through the client queue to see your final results and designer title, or hit 'End Game' to bail out early."
	}
	return []TutorialStep{
		{"🎯", "Welcome to Design Rage! 🎮", "You're a designer navigating the chaotic world of client feedback. Your goal? Survive as long as you can without losing your sanity or reputation!"},
		{"⚖️", "Meet Your Meters 📊", "Watch your Stress (🔥) and Reputation (⭐) levels. High stress is bad for your health, low reputation is bad for business. Balance is key!"},
		{"🎭", "Choose Your Response Style 💬", "Each client comment has response options: Professional (😊), Witty (🤖), or Sarcastic (😈). Each affects your meters differently!"},
		{"🌪️", "Beware of Chaos Events! ⚡", "Every 3 rounds, random chaos strikes! Budget cuts, deadline changes, or new stakeholders can shake things up dramatically."},
		last,
	}
}

func (s *Server) screenView(p *Play, msg string) ScreenView {
	st := p.M.State()
	vm := ScreenView{
		Phase:     st.Phase,
		State:     st,
		MaxRounds: p.M.MaxRounds,
		Message:   msg,
	}
	switch st.Phase {
	case game.PhaseTutorial:
		vm.Tutorial = tutorialSteps(p.M.MaxRounds)
	case game.PhasePlaying:
		if ev, ok := p.M.PendingChaos(); ok {
			vm.Chaos = &ev
		} else if sc, ok := p.M.CurrentScenario(); ok {
			vm.Scenario = &sc
		} else {
			vm.Loading = true
		}
	case game.PhaseResults:
		if r, ok := p.M.Result(); ok {
			vm.Result = &r
			vm.Verdict = game.VerdictFor(r)
		}
		vm.Unlocked = p.Unlocked
	}
	return vm
}
