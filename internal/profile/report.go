package profile

import (
	"fmt"
	"strings"
)

// Markdown renders p as a short report.
func Markdown(p Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Username)
	s := p.Stats
	fmt.Fprintf(&b, "| Games | Best score | Best title | Avg stress | Avg reputation |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|\n")
	best := s.BestTitle
	if best == "" {
		best = "-"
	}
	fmt.Fprintf(&b, "| %d | %d | %s | %d%% | %d%% |\n\n", s.GamesPlayed, s.BestScore, best, s.AverageStress, s.AverageReputation)

	fmt.Fprintf(&b, "## Achievements (%d/%d)\n\n", p.Unlocked(), len(p.Achievements))
	for _, a := range p.Achievements {
		mark := "[ ]"
		if a.Unlocked {
			mark = "[x]"
		}
		fmt.Fprintf(&b, "- %s **%s**: %s", mark, a.Title, a.Description)
		if a.Date != nil {
			fmt.Fprintf(&b, " _(%s)_", a.Date.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}

	if n := len(s.GameHistory); n > 0 {
		b.WriteString("\n## History\n\n")
		for i := n - 1; i >= 0; i-- {
			r := s.GameHistory[i]
			fmt.Fprintf(&b, "%d. **%s**: score %d, stress %d%%, reputation %d%% (%s)\n",
				n-i, r.Title, r.TotalScore, r.FinalStress, r.FinalReputation, r.CompletedAt.Format("2006-01-02 15:04"))
		}
	}
	return b.String()
}
