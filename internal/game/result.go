package game

import "time"

// TitleRule assigns Title when Match holds for the final meters and score.
type TitleRule struct {
	Title string
	Match func(stress, reputation, score int) bool
}

// TitleRules is evaluated top to bottom; the first match wins.
var TitleRules = []TitleRule{
	{"Burnt Out Genius", func(s, r, sc int) bool { return s > 90 }},
	{"Client Whisperer", func(s, r, sc int) bool { return r > 90 }},
	{"Design Diplomat", func(s, r, sc int) bool { return sc > 80 }},
	{"Zen Master Designer", func(s, r, sc int) bool { return s < 20 && r > 70 }},
	{"Freelance Survivor", func(s, r, sc int) bool { return r < 30 }},
	{"Caffeinated Professional", func(s, r, sc int) bool { return s > 70 && r > 60 }},
}

// FallbackTitle is used when no rule matches.
const FallbackTitle = "Average Designer"

// Title derives the designer title from rules.
func Title(rules []TitleRule, stress, reputation, score int) string {
	for _, rule := range rules {
		if rule.Match(stress, reputation, score) {
			return rule.Title
		}
	}
	return FallbackTitle
}

// Compile packages a terminal state into a Result stamped with at.
func Compile(st GameState, at time.Time) Result {
	return Result{
		FinalStress:      st.Stress,
		FinalReputation:  st.Reputation,
		TotalScore:       st.Score,
		Title:            Title(TitleRules, st.Stress, st.Reputation, st.Score),
		ChaosEventsCount: st.ChaosEventsCount,
		RoundsCompleted:  st.CurrentRound - 1,
		CompletedAt:      at.UTC(),
	}
}

// Verdict is the flavour shown next to a result.
type Verdict struct {
	Emoji   string
	Message string
}

type verdictRule struct {
	match   func(Result) bool
	message string
}

var emojiRules = []struct {
	match func(Result) bool
	emoji string
}{
	{func(r Result) bool { return r.FinalStress > 80 }, "💀"},
	{func(r Result) bool { return r.FinalReputation > 80 }, "🌟"},
	{func(r Result) bool { return r.FinalStress < 30 && r.FinalReputation > 60 }, "😎"},
	{func(r Result) bool { return r.FinalReputation < 30 }, "😵"},
}

var messageRules = []verdictRule{
	{func(r Result) bool { return r.FinalStress > 90 }, "You survived, but at what cost? Consider therapy... or a vacation."},
	{func(r Result) bool { return r.FinalReputation > 90 }, "Clients love you! You're the designer everyone wants to hire."},
	{func(r Result) bool { return r.TotalScore > 80 }, "Masterful balance! You've cracked the code of client relations."},
	{func(r Result) bool { return r.FinalStress < 20 && r.FinalReputation > 70 }, "Impossibly calm under pressure. Teach us your ways!"},
	{func(r Result) bool { return r.FinalReputation < 30 }, "Well... you're honest. Maybe too honest. RIP your Yelp reviews."},
}

// VerdictFor picks the emoji and message for a result.
func VerdictFor(r Result) Verdict {
	v := Verdict{Emoji: "😐", Message: "You made it through another day in design hell. That's something!"}
	for _, e := range emojiRules {
		if e.match(r) {
			v.Emoji = e.emoji
			break
		}
	}
	for _, m := range messageRules {
		if m.match(r) {
			v.Message = m.message
			break
		}
	}
	return v
}
