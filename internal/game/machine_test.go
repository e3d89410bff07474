package game

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

type fakeSource struct {
	scenarios []Scenario
	chaos     []ChaosEvent
	err       error
	loads     int
	resets    int
}

func (f *fakeSource) Load(context.Context) ([]Scenario, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	return f.scenarios, nil
}

func (f *fakeSource) Reset()              { f.resets++ }
func (f *fakeSource) Chaos() []ChaosEvent { return f.chaos }

type fakeStore struct {
	blobs map[string][]byte
	err   error
}

func newFakeStore() *fakeStore { return &fakeStore{blobs: map[string][]byte{}} }

func (s *fakeStore) SaveState(_ context.Context, key string, blob []byte) error {
	if s.err != nil {
		return s.err
	}
	s.blobs[key] = blob
	return nil
}

func (s *fakeStore) LoadState(_ context.Context, key string) ([]byte, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	b, ok := s.blobs[key]
	return b, ok, nil
}

func (s *fakeStore) DeleteState(_ context.Context, key string) error {
	if s.err != nil {
		return s.err
	}
	delete(s.blobs, key)
	return nil
}

func testScenarios(n int) []Scenario {
	out := make([]Scenario, n)
	for i := range out {
		out[i] = Scenario{
			ID:          i + 1,
			ClientQuote: "Make the logo bigger.",
			Context:     "Logo review",
			Responses: []Response{
				{Text: "Sure.", Type: Professional, StressImpact: 5, ReputationImpact: 15},
				{Text: "No.", Type: Sarcastic, StressImpact: -5, ReputationImpact: -10},
				{Text: "Heh.", Type: Witty, StressImpact: -2, ReputationImpact: 5},
			},
		}
	}
	return out
}

var testChaos = []ChaosEvent{
	{ID: 1, Title: "Budget Cut Surprise!", StressImpact: 25, ReputationImpact: -5},
	{ID: 2, Title: "Deadline Tornado!", StressImpact: 30},
}

var testNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func newTestMachine(t *testing.T) (*Machine, *fakeSource, *fakeStore) {
	t.Helper()
	src := &fakeSource{scenarios: testScenarios(4), chaos: testChaos}
	store := newFakeStore()
	m := NewMachine("sess", src, store)
	m.Picker = fixedPicker(0)
	m.Now = func() time.Time { return testNow }
	return m, src, store
}

func playing(t *testing.T) (*Machine, *fakeSource, *fakeStore) {
	t.Helper()
	m, src, store := newTestMachine(t)
	m.StartNewGame()
	if err := m.CompleteTutorial(); err != nil {
		t.Fatalf("CompleteTutorial: %v", err)
	}
	if err := m.LoadScenarios(context.Background()); err != nil {
		t.Fatalf("LoadScenarios: %v", err)
	}
	return m, src, store
}

func TestNewMachine_Splash(t *testing.T) {
	m, _, _ := newTestMachine(t)
	st := m.State()
	if st.Phase != PhaseSplash {
		t.Errorf("Expected splash, got %s", st.Phase)
	}
	if st.Stress != 20 || st.Reputation != 50 || st.Score != 0 || st.CurrentRound != 1 {
		t.Errorf("Unexpected initial state: %+v", st)
	}
}

func TestStartNewGame_ResetsAndDropsCache(t *testing.T) {
	m, src, _ := playing(t)
	if _, err := m.SubmitResponse(0); err != nil {
		t.Fatalf("SubmitResponse: %v", err)
	}
	m.StartNewGame()
	st := m.State()
	if st.Phase != PhaseTutorial {
		t.Errorf("Expected tutorial, got %s", st.Phase)
	}
	if st.CurrentRound != 1 || st.Score != 0 || len(st.CompletedScenarios) != 0 {
		t.Errorf("Expected counters reset, got %+v", st)
	}
	if len(st.AvailableScenarios) != 0 {
		t.Error("Expected scenarios dropped for the new session")
	}
	if src.resets < 2 {
		t.Errorf("Expected the scenario cache to be reset, got %d resets", src.resets)
	}
}

func TestSkipTutorial_ResetsState(t *testing.T) {
	m, _, _ := newTestMachine(t)
	m.StartNewGame()
	m.st.Stress = 80
	m.st.CurrentRound = 6
	if err := m.SkipTutorial(); err != nil {
		t.Fatalf("SkipTutorial: %v", err)
	}
	st := m.State()
	if st.Phase != PhasePlaying || st.Stress != 20 || st.CurrentRound != 1 {
		t.Errorf("Expected fresh playing state, got %+v", st)
	}
}

func TestCompleteTutorial_OnlyFromTutorial(t *testing.T) {
	m, _, _ := newTestMachine(t)
	if err := m.CompleteTutorial(); !errors.Is(err, ErrInvalidPhase) {
		t.Errorf("Expected ErrInvalidPhase from splash, got %v", err)
	}
}

func TestSubmitResponse_EndToEnd(t *testing.T) {
	m, _, _ := playing(t)
	step, err := m.SubmitResponse(0)
	if err != nil {
		t.Fatalf("SubmitResponse: %v", err)
	}
	st := m.State()
	if st.Stress != 25 || st.Reputation != 65 {
		t.Errorf("Expected meters 25/65, got %d/%d", st.Stress, st.Reputation)
	}
	if st.Score != 10 || step.ScoreGained != 10 {
		t.Errorf("Expected score 10, got %d (step %d)", st.Score, step.ScoreGained)
	}
	if st.CurrentRound != 2 {
		t.Errorf("Expected round 2, got %d", st.CurrentRound)
	}
	if !reflect.DeepEqual(st.CompletedScenarios, []int{1}) {
		t.Errorf("Expected history [1], got %v", st.CompletedScenarios)
	}
}

func TestSubmitResponse_Guards(t *testing.T) {
	m, _, _ := newTestMachine(t)
	if _, err := m.SubmitResponse(0); !errors.Is(err, ErrInvalidPhase) {
		t.Errorf("Expected ErrInvalidPhase on splash, got %v", err)
	}

	m.StartNewGame()
	_ = m.CompleteTutorial()
	before := m.State()
	if _, err := m.SubmitResponse(0); !errors.Is(err, ErrNoScenario) {
		t.Errorf("Expected ErrNoScenario before load, got %v", err)
	}
	if !reflect.DeepEqual(before, m.State()) {
		t.Error("Expected state untouched by a guarded submit")
	}

	_ = m.LoadScenarios(context.Background())
	if _, err := m.SubmitResponse(7); !errors.Is(err, ErrBadResponse) {
		t.Errorf("Expected ErrBadResponse, got %v", err)
	}
}

func TestScoreNeverDecreases(t *testing.T) {
	m, _, _ := playing(t)
	m.MaxRounds = 0
	prev := 0
	for i := 0; i < 30; i++ {
		if _, ok := m.PendingChaos(); ok {
			if _, err := m.CloseChaosEvent(); err != nil {
				t.Fatalf("CloseChaosEvent: %v", err)
			}
		}
		if _, err := m.SubmitResponse(i % 3); err != nil {
			t.Fatalf("SubmitResponse: %v", err)
		}
		st := m.State()
		if st.Score < prev {
			t.Fatalf("score decreased from %d to %d", prev, st.Score)
		}
		if st.Stress < 0 || st.Stress > 100 || st.Reputation < 0 || st.Reputation > 100 {
			t.Fatalf("meters out of range: %+v", st)
		}
		prev = st.Score
	}
}

func TestChaos_FiresOnThirdRound(t *testing.T) {
	m, _, _ := playing(t)
	for i := 0; i < 2; i++ {
		if _, ok := m.PendingChaos(); ok {
			t.Fatalf("unexpected chaos in round %d", m.State().CurrentRound)
		}
		if _, err := m.SubmitResponse(2); err != nil {
			t.Fatalf("SubmitResponse: %v", err)
		}
	}
	ev, ok := m.PendingChaos()
	if !ok {
		t.Fatal("Expected chaos event pending in round 3")
	}
	if ev.ID != testChaos[0].ID {
		t.Errorf("Expected drawn event %d, got %d", testChaos[0].ID, ev.ID)
	}
	if _, err := m.SubmitResponse(0); !errors.Is(err, ErrChaosPending) {
		t.Errorf("Expected ErrChaosPending, got %v", err)
	}

	before := m.State()
	if _, err := m.CloseChaosEvent(); err != nil {
		t.Fatalf("CloseChaosEvent: %v", err)
	}
	st := m.State()
	if st.Stress != Clamp(before.Stress+25) || st.Reputation != Clamp(before.Reputation-5) {
		t.Errorf("Expected chaos impacts applied, got %d/%d", st.Stress, st.Reputation)
	}
	if !st.ChaosEventTriggered || st.ChaosEventsCount != 1 {
		t.Errorf("Expected flag set and count 1, got %v/%d", st.ChaosEventTriggered, st.ChaosEventsCount)
	}
	if st.CurrentRound != 3 {
		t.Errorf("Expected chaos not to advance the round, got %d", st.CurrentRound)
	}
	if _, ok := m.PendingChaos(); ok {
		t.Error("Expected no second chaos event in the same round")
	}
	if _, err := m.CloseChaosEvent(); !errors.Is(err, ErrNoChaos) {
		t.Errorf("Expected ErrNoChaos, got %v", err)
	}

	if _, err := m.SubmitResponse(0); err != nil {
		t.Fatalf("SubmitResponse: %v", err)
	}
	if m.State().ChaosEventTriggered {
		t.Error("Expected flag cleared at round advance")
	}
}

func TestSubmitResponse_FinishesAfterMaxRounds(t *testing.T) {
	m, _, _ := playing(t)
	m.MaxRounds = 3
	for i := 0; i < 3; i++ {
		if _, ok := m.PendingChaos(); ok {
			_, _ = m.CloseChaosEvent()
		}
		step, err := m.SubmitResponse(0)
		if err != nil {
			t.Fatalf("SubmitResponse: %v", err)
		}
		if step.Finished != (i == 2) {
			t.Errorf("round %d: finished=%v", i+1, step.Finished)
		}
	}
	st := m.State()
	if st.Phase != PhaseResults {
		t.Fatalf("Expected results, got %s", st.Phase)
	}
	r, ok := m.Result()
	if !ok {
		t.Fatal("Expected a compiled result")
	}
	if r.RoundsCompleted != 3 || r.ChaosEventsCount != 1 {
		t.Errorf("Unexpected result: %+v", r)
	}
	if !r.CompletedAt.Equal(testNow) {
		t.Errorf("Expected timestamp from the machine clock, got %v", r.CompletedAt)
	}
}

func TestEndGame(t *testing.T) {
	m, _, _ := newTestMachine(t)
	if _, err := m.EndGame(); !errors.Is(err, ErrInvalidPhase) {
		t.Errorf("Expected ErrInvalidPhase from splash, got %v", err)
	}
	m, _, _ = playing(t)
	_, _ = m.SubmitResponse(0)
	r, err := m.EndGame()
	if err != nil {
		t.Fatalf("EndGame: %v", err)
	}
	if m.State().Phase != PhaseResults {
		t.Error("Expected results phase")
	}
	if r.RoundsCompleted != 1 || r.TotalScore != 10 {
		t.Errorf("Unexpected result: %+v", r)
	}
	if _, err := m.EndGame(); !errors.Is(err, ErrInvalidPhase) {
		t.Errorf("Expected a second EndGame to be rejected, got %v", err)
	}
}

func TestResetGame(t *testing.T) {
	m, _, store := playing(t)
	_, _ = m.SubmitResponse(0)
	if err := m.SaveGame(context.Background()); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if err := m.ResetGame(context.Background()); err != nil {
		t.Fatalf("ResetGame: %v", err)
	}
	want := NewState()
	if !reflect.DeepEqual(m.State(), want) {
		t.Errorf("Expected %+v, got %+v", want, m.State())
	}
	if _, ok := store.blobs["sess"]; ok {
		t.Error("Expected the saved blob to be removed")
	}
	if _, ok := m.Result(); ok {
		t.Error("Expected no result after reset")
	}
}

func TestSaveResume_RoundTrip(t *testing.T) {
	m, src, store := playing(t)
	_, _ = m.SubmitResponse(0)
	_, _ = m.SubmitResponse(1)
	saved := m.State()
	if err := m.SaveGame(context.Background()); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	m2 := NewMachine("sess", src, store)
	ok, err := m2.Resume(context.Background())
	if err != nil || !ok {
		t.Fatalf("Resume: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(saved, m2.State()) {
		t.Errorf("Round trip mismatch:\nsaved %+v\nloaded %+v", saved, m2.State())
	}
}

func TestSaveResume_ResultsKeepCompletionTime(t *testing.T) {
	m, src, store := playing(t)
	_, _ = m.SubmitResponse(0)
	want, err := m.EndGame()
	if err != nil {
		t.Fatalf("EndGame: %v", err)
	}
	if err := m.SaveGame(context.Background()); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	m2 := NewMachine("sess", src, store)
	m2.Now = func() time.Time { return testNow.Add(48 * time.Hour) }
	ok, err := m2.Resume(context.Background())
	if err != nil || !ok {
		t.Fatalf("Resume: ok=%v err=%v", ok, err)
	}
	got, ok := m2.Result()
	if !ok {
		t.Fatal("Expected a result after resuming a finished game")
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
	if !got.CompletedAt.Equal(testNow) {
		t.Errorf("Expected completion time %v, got %v", testNow, got.CompletedAt)
	}
}

func TestResume_LegacyResultsBlob(t *testing.T) {
	src := &fakeSource{scenarios: testScenarios(4), chaos: testChaos}
	store := newFakeStore()
	st := NewState()
	st.Phase = PhaseResults
	st.CurrentRound = 3
	st.Score = 20
	blob, err := MarshalState(st)
	if err != nil {
		t.Fatalf("MarshalState: %v", err)
	}
	store.blobs["sess"] = blob

	m := NewMachine("sess", src, store)
	m.Now = func() time.Time { return testNow }
	if ok, err := m.Resume(context.Background()); err != nil || !ok {
		t.Fatalf("Resume: ok=%v err=%v", ok, err)
	}
	r, ok := m.Result()
	if !ok || !r.CompletedAt.Equal(testNow) {
		t.Errorf("Expected a result compiled at resume time, got %+v ok=%v", r, ok)
	}
	if m.State().FinalResult == nil {
		t.Error("Expected the compiled result to be kept in the state")
	}
}

func TestSaveGame_FailureKeepsState(t *testing.T) {
	m, _, store := playing(t)
	_, _ = m.SubmitResponse(0)
	before := m.State()
	store.err = errors.New("disk full")
	if err := m.SaveGame(context.Background()); err == nil {
		t.Error("Expected save failure")
	}
	if !reflect.DeepEqual(before, m.State()) {
		t.Error("Expected in-memory state unchanged after a failed save")
	}
	if ok, err := m.Resume(context.Background()); err == nil || ok {
		t.Errorf("Expected resume failure, got ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(before, m.State()) {
		t.Error("Expected in-memory state unchanged after a failed load")
	}
}

func TestLoadScenarios_FailureAndIdempotence(t *testing.T) {
	m, src, _ := newTestMachine(t)
	m.StartNewGame()
	_ = m.CompleteTutorial()

	src.err = errors.New("offline")
	if err := m.LoadScenarios(context.Background()); err == nil {
		t.Fatal("Expected load error")
	}
	st := m.State()
	if st.ScenariosLoading || len(st.AvailableScenarios) != 0 {
		t.Errorf("Expected empty, not loading state after failure: %+v", st)
	}
	if _, ok := m.CurrentScenario(); ok {
		t.Error("Expected no current scenario after failure")
	}

	src.err = nil
	if err := m.LoadScenarios(context.Background()); err != nil {
		t.Fatalf("retry LoadScenarios: %v", err)
	}
	if err := m.LoadScenarios(context.Background()); err != nil {
		t.Fatalf("second LoadScenarios: %v", err)
	}
	if src.loads != 2 {
		t.Errorf("Expected 2 source loads (fail + retry), got %d", src.loads)
	}
}

func TestCurrentScenario_Cycles(t *testing.T) {
	m, _, _ := playing(t)
	m.MaxRounds = 0
	var ids []int
	for i := 0; i < 6; i++ {
		if _, ok := m.PendingChaos(); ok {
			_, _ = m.CloseChaosEvent()
		}
		sc, ok := m.CurrentScenario()
		if !ok {
			t.Fatal("Expected a scenario")
		}
		ids = append(ids, sc.ID)
		_, _ = m.SubmitResponse(2)
	}
	if !reflect.DeepEqual(ids, []int{1, 2, 3, 4, 1, 2}) {
		t.Errorf("Expected cyclic scenario order, got %v", ids)
	}
}
