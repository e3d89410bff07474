package game

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidPhase = errors.New("action not allowed in this phase")
	ErrNoScenario   = errors.New("no scenario available")
	ErrChaosPending = errors.New("a chaos event must be closed first")
	ErrNoChaos      = errors.New("no chaos event to close")
	ErrBadResponse  = errors.New("that response doesn't exist")
)

// ScenarioSource supplies the scenario pool for one session. Load must be
// idempotent while cached; Reset drops the cache so the next Load is fresh.
type ScenarioSource interface {
	Load(ctx context.Context) ([]Scenario, error)
	Reset()
	Chaos() []ChaosEvent
}

// StateStore persists the serialized session blob.
type StateStore interface {
	SaveState(ctx context.Context, key string, blob []byte) error
	LoadState(ctx context.Context, key string) ([]byte, bool, error)
	DeleteState(ctx context.Context, key string) error
}

// Machine owns the state of a single play session. It is not safe for
// concurrent use; callers confine each Machine to one writer.
type Machine struct {
	Key       string // StateStore key for this session
	Source    ScenarioSource
	Store     StateStore
	Picker    Picker
	Now       func() time.Time
	MaxRounds int // 0 means only EndGame terminates

	st     GameState
	result *Result
}

// Step reports what a submitted response did.
type Step struct {
	Response    Response
	ScenarioID  int
	ScoreGained int
	Finished    bool
}

// NewMachine returns a machine on the splash screen.
func NewMachine(key string, src ScenarioSource, store StateStore) *Machine {
	return &Machine{
		Key:       key,
		Source:    src,
		Store:     store,
		Picker:    CryptoPicker{},
		Now:       time.Now,
		MaxRounds: DefaultMaxRounds,
		st:        NewState(),
	}
}

// State returns a copy of the current state.
func (m *Machine) State() GameState { return cloneState(m.st) }

// Result returns the compiled result once the session reached results.
func (m *Machine) Result() (Result, bool) {
	if m.result == nil {
		return Result{}, false
	}
	return *m.result, true
}

// CurrentScenario returns the scenario the player is answering.
func (m *Machine) CurrentScenario() (Scenario, bool) { return CurrentScenario(m.st) }

// PendingChaos returns the chaos event waiting to be closed, if any.
func (m *Machine) PendingChaos() (ChaosEvent, bool) {
	if m.st.ActiveChaos == nil {
		return ChaosEvent{}, false
	}
	return *m.st.ActiveChaos, true
}

func (m *Machine) reset(phase Phase) {
	m.st = NewState()
	m.st.Phase = phase
	m.result = nil
	if m.Source != nil {
		m.Source.Reset()
	}
}

// StartNewGame resets every counter and opens the tutorial.
func (m *Machine) StartNewGame() {
	m.reset(PhaseTutorial)
}

// SkipTutorial starts play from a fresh state.
func (m *Machine) SkipTutorial() error {
	if m.st.Phase != PhaseSplash && m.st.Phase != PhaseTutorial {
		return ErrInvalidPhase
	}
	m.reset(PhasePlaying)
	return nil
}

// CompleteTutorial moves from the tutorial into play, keeping state.
func (m *Machine) CompleteTutorial() error {
	if m.st.Phase != PhaseTutorial {
		return ErrInvalidPhase
	}
	m.st.Phase = PhasePlaying
	m.maybeDrawChaos()
	return nil
}

// LoadScenarios fills the scenario pool. It does nothing while a load is in
// flight or when scenarios are already present. A failed load leaves the pool
// empty; retrying is up to the caller.
func (m *Machine) LoadScenarios(ctx context.Context) error {
	if m.st.ScenariosLoading || len(m.st.AvailableScenarios) > 0 {
		return nil
	}
	if m.Source == nil {
		return ErrNoScenario
	}
	m.st.ScenariosLoading = true
	scs, err := m.Source.Load(ctx)
	m.st.ScenariosLoading = false
	if err != nil {
		m.st.AvailableScenarios = nil
		return fmt.Errorf("load scenarios: %w", err)
	}
	if len(scs) == 0 {
		return ErrNoScenario
	}
	m.st.AvailableScenarios = scs
	m.maybeDrawChaos()
	return nil
}

// SubmitResponse answers the current scenario with the response at index and
// commits the round: meters, score, history and the round advance together.
func (m *Machine) SubmitResponse(index int) (Step, error) {
	if m.st.Phase != PhasePlaying {
		return Step{}, ErrInvalidPhase
	}
	if m.st.ActiveChaos != nil {
		return Step{}, ErrChaosPending
	}
	sc, ok := m.CurrentScenario()
	if !ok {
		return Step{}, ErrNoScenario
	}
	if index < 0 || index >= len(sc.Responses) {
		return Step{}, ErrBadResponse
	}
	resp := sc.Responses[index]

	gained := ScoreDelta(resp.ReputationImpact, resp.StressImpact)
	m.st.Stress, m.st.Reputation = ApplyImpact(m.st.Stress, m.st.Reputation, resp.StressImpact, resp.ReputationImpact)
	m.st.Score += gained
	m.st.CompletedScenarios = append(m.st.CompletedScenarios, sc.ID)
	m.st.CurrentRound++
	m.st.ChaosEventTriggered = false

	step := Step{Response: resp, ScenarioID: sc.ID, ScoreGained: gained}
	if m.MaxRounds > 0 && m.st.CurrentRound > m.MaxRounds {
		m.finish()
		step.Finished = true
		return step, nil
	}
	m.maybeDrawChaos()
	return step, nil
}

// CloseChaosEvent applies the pending chaos event to the current meters. The
// round does not advance.
func (m *Machine) CloseChaosEvent() (ChaosEvent, error) {
	if m.st.Phase != PhasePlaying {
		return ChaosEvent{}, ErrInvalidPhase
	}
	if m.st.ActiveChaos == nil {
		return ChaosEvent{}, ErrNoChaos
	}
	ev := *m.st.ActiveChaos
	m.st.Stress, m.st.Reputation = ApplyImpact(m.st.Stress, m.st.Reputation, ev.StressImpact, ev.ReputationImpact)
	m.st.ChaosEventTriggered = true
	m.st.ChaosEventsCount++
	m.st.ActiveChaos = nil
	return ev, nil
}

// EndGame stops a game in progress and compiles its result.
func (m *Machine) EndGame() (Result, error) {
	if m.st.Phase != PhasePlaying {
		return Result{}, ErrInvalidPhase
	}
	m.finish()
	return *m.result, nil
}

// ResetGame returns to the splash screen and drops the persisted blob. The
// in-memory reset happens even if the store fails.
func (m *Machine) ResetGame(ctx context.Context) error {
	m.reset(PhaseSplash)
	if m.Store == nil {
		return nil
	}
	if err := m.Store.DeleteState(ctx, m.Key); err != nil {
		return fmt.Errorf("delete saved game: %w", err)
	}
	return nil
}

// SaveGame writes the current state to the store. A failure leaves the
// session untouched.
func (m *Machine) SaveGame(ctx context.Context) error {
	if m.Store == nil {
		return errors.New("no state store configured")
	}
	blob, err := MarshalState(m.st)
	if err != nil {
		return err
	}
	if err := m.Store.SaveState(ctx, m.Key, blob); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

// Resume replaces the session with the saved blob, if there is one.
func (m *Machine) Resume(ctx context.Context) (bool, error) {
	if m.Store == nil {
		return false, nil
	}
	blob, ok, err := m.Store.LoadState(ctx, m.Key)
	if err != nil {
		return false, fmt.Errorf("load saved game: %w", err)
	}
	if !ok {
		return false, nil
	}
	st, err := UnmarshalState(blob)
	if err != nil {
		return false, err
	}
	m.st = st
	m.result = nil
	if st.Phase == PhaseResults {
		if st.FinalResult == nil {
			// blobs written before the result was persisted
			r := Compile(st, m.Now())
			m.st.FinalResult = &r
		}
		r := *m.st.FinalResult
		m.result = &r
	}
	return true, nil
}

func (m *Machine) finish() {
	m.st.Phase = PhaseResults
	m.st.ActiveChaos = nil
	r := Compile(m.st, m.Now())
	m.st.FinalResult = &r
	res := r
	m.result = &res
}

func (m *Machine) maybeDrawChaos() {
	if m.st.Phase != PhasePlaying || m.st.ActiveChaos != nil || m.Source == nil {
		return
	}
	if !ShouldTriggerChaos(m.st.CurrentRound, m.st.ChaosEventTriggered) {
		return
	}
	ev, ok := DrawChaos(m.Source.Chaos(), m.Picker)
	if !ok {
		return
	}
	m.st.ActiveChaos = &ev
}
