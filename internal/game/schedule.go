package game

// ChaosEvery is the round period at which chaos events fire.
const ChaosEvery = 3

// ScenarioIndex maps a 1-based round onto a pool of n scenarios. The pool is
// reused cyclically once exhausted. It returns -1 when the pool is empty.
func ScenarioIndex(round, n int) int {
	if n <= 0 || round < 1 {
		return -1
	}
	return (round - 1) % n
}

// ShouldTriggerChaos reports whether a chaos event fires in this round. The
// flag suppresses a second event within the same round only.
func ShouldTriggerChaos(round int, triggered bool) bool {
	return round%ChaosEvery == 0 && round > 0 && !triggered
}

// DrawChaos picks one event uniformly from pool. Events are not removed, so
// repeats are allowed. ok is false for an empty pool.
func DrawChaos(pool []ChaosEvent, p Picker) (ChaosEvent, bool) {
	if len(pool) == 0 {
		return ChaosEvent{}, false
	}
	return pool[p.Intn(len(pool))], true
}

// CurrentScenario returns the scenario for the state's round, if any.
func CurrentScenario(st GameState) (Scenario, bool) {
	i := ScenarioIndex(st.CurrentRound, len(st.AvailableScenarios))
	if i < 0 {
		return Scenario{}, false
	}
	return st.AvailableScenarios[i], true
}
