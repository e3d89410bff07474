// Package share formats a finished session for posting elsewhere.
package share

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"designrage/internal/game"
)

const cardWidth = 35

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(1, 2).
			Width(cardWidth)
	headStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Align(lipgloss.Center).Width(cardWidth - 4)
	mutedText = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Text is the short message posted alongside a result.
func Text(r game.Result) string {
	return fmt.Sprintf(`🎮 Just survived Design Rage!
Stress: %d%%
Reputation: %d%%
Score: %d
Think you can handle the client chaos better? Try Design Rage!
#DesignRage #DesignLife #GameDev`, r.FinalStress, r.FinalReputation, r.TotalScore)
}

// Card renders a boxed survival report.
func Card(r game.Result) string {
	var b strings.Builder
	b.WriteString(headStyle.Render("DESIGN RAGE\nSURVIVAL REPORT"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "🏆 %s\n\n", r.Title)
	b.WriteString("📊 FINAL STATS:\n")
	fmt.Fprintf(&b, "• Stress: %d%%\n", r.FinalStress)
	fmt.Fprintf(&b, "• Reputation: %d%%\n", r.FinalReputation)
	fmt.Fprintf(&b, "• Score: %d\n\n", r.TotalScore)
	b.WriteString(mutedText.Render("📅 " + r.CompletedAt.Format("2006-01-02 15:04")))
	return cardStyle.Render(b.String())
}
