package game

import "time"

// Phase is the screen the session is on.
type Phase string

const (
	PhaseSplash   Phase = "splash"
	PhaseTutorial Phase = "tutorial"
	PhasePlaying  Phase = "playing"
	PhaseResults  Phase = "results"
)

// ResponseType classifies how the designer answers a client.
type ResponseType string

const (
	Professional ResponseType = "professional"
	Witty        ResponseType = "witty"
	Sarcastic    ResponseType = "sarcastic"
)

// Response is one answer the player can give to a scenario.
type Response struct {
	Text             string       `yaml:"text" json:"text"`
	Type             ResponseType `yaml:"type" json:"type"`
	StressImpact     int          `yaml:"stressImpact" json:"stressImpact"`
	ReputationImpact int          `yaml:"reputationImpact" json:"reputationImpact"`
	Emoji            string       `yaml:"emoji" json:"emoji"` // display only
}

// Scenario is a client request with 3 or 4 possible responses.
type Scenario struct {
	ID          int        `yaml:"id" json:"id"`
	ClientQuote string     `yaml:"clientQuote" json:"clientQuote"`
	Context     string     `yaml:"context" json:"context"`
	Responses   []Response `yaml:"responses" json:"responses"`
}

// ChaosEvent perturbs the meters regardless of what the player chose.
type ChaosEvent struct {
	ID               int    `yaml:"id" json:"id"`
	Title            string `yaml:"title" json:"title"`
	Description      string `yaml:"description" json:"description"`
	StressImpact     int    `yaml:"stressImpact" json:"stressImpact"`
	ReputationImpact int    `yaml:"reputationImpact" json:"reputationImpact"`
	Emoji            string `yaml:"emoji" json:"emoji"`
}

// GameState is the authoritative state of one play session. FinalResult is
// filled exactly once, when the session enters the results phase.
type GameState struct {
	CurrentRound        int         `json:"currentRound"`
	Stress              int         `json:"stress"`
	Reputation          int         `json:"reputation"`
	Score               int         `json:"score"`
	Phase               Phase       `json:"gamePhase"`
	CompletedScenarios  []int       `json:"completedScenarios"`
	ChaosEventTriggered bool        `json:"chaosEventTriggered"`
	ChaosEventsCount    int         `json:"chaosEventsCount"`
	AvailableScenarios  []Scenario  `json:"availableScenarios"`
	ScenariosLoading    bool        `json:"scenariosLoading"`
	ActiveChaos         *ChaosEvent `json:"activeChaos,omitempty"`
	FinalResult         *Result     `json:"result,omitempty"`
}

// Result summarizes a finished session. It is built once by Compile and
// passed by value.
type Result struct {
	FinalStress      int       `json:"finalStress"`
	FinalReputation  int       `json:"finalReputation"`
	TotalScore       int       `json:"totalScore"`
	Title            string    `json:"title"`
	ChaosEventsCount int       `json:"chaosEventsCount"`
	RoundsCompleted  int       `json:"roundsCompleted"`
	CompletedAt      time.Time `json:"completionTime"`
}

const (
	InitialStress     = 20
	InitialReputation = 50
	DefaultMaxRounds  = 10
)

// NewState returns the state every session starts from.
func NewState() GameState {
	return GameState{
		CurrentRound:       1,
		Stress:             InitialStress,
		Reputation:         InitialReputation,
		Phase:              PhaseSplash,
		CompletedScenarios: []int{},
	}
}
