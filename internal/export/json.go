package export

import (
	"encoding/json"
	"time"

	"designrage/internal/game"
)

// Report is the JSON export of a finished session.
type Report struct {
	Result             game.Result `json:"result"`
	Emoji              string      `json:"emoji"`
	Verdict            string      `json:"verdict"`
	CompletedScenarios []int       `json:"completedScenarios"`
	Rounds             []Round     `json:"rounds"`
	ExportedAt         time.Time   `json:"exportedAt"`
}

// NewReport assembles the export for r and the state that produced it.
func NewReport(r game.Result, st game.GameState, at time.Time) Report {
	v := game.VerdictFor(r)
	done := append([]int{}, st.CompletedScenarios...)
	return Report{
		Result:             r,
		Emoji:              v.Emoji,
		Verdict:            v.Message,
		CompletedScenarios: done,
		Rounds:             Rounds(st),
		ExportedAt:         at.UTC(),
	}
}

// JSON encodes the report indented for download.
func JSON(rep Report) ([]byte, error) {
	return json.MarshalIndent(rep, "", "  ")
}
