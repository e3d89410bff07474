package game

import (
	"encoding/json"
	"fmt"
)

// MarshalState encodes a state snapshot for the StateStore.
func MarshalState(st GameState) ([]byte, error) {
	b, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode game state: %w", err)
	}
	return b, nil
}

// UnmarshalState decodes a snapshot written by MarshalState.
func UnmarshalState(b []byte) (GameState, error) {
	var st GameState
	if err := json.Unmarshal(b, &st); err != nil {
		return GameState{}, fmt.Errorf("decode game state: %w", err)
	}
	if st.CompletedScenarios == nil {
		st.CompletedScenarios = []int{}
	}
	if st.CurrentRound < 1 {
		return GameState{}, fmt.Errorf("decode game state: invalid round %d", st.CurrentRound)
	}
	st.Stress = Clamp(st.Stress)
	st.Reputation = Clamp(st.Reputation)
	// a load cannot be in flight in a freshly decoded session
	st.ScenariosLoading = false
	return st, nil
}

func cloneState(st GameState) GameState {
	out := st
	out.CompletedScenarios = append([]int{}, st.CompletedScenarios...)
	if st.AvailableScenarios != nil {
		out.AvailableScenarios = make([]Scenario, len(st.AvailableScenarios))
		for i, sc := range st.AvailableScenarios {
			sc.Responses = append([]Response(nil), sc.Responses...)
			out.AvailableScenarios[i] = sc
		}
	}
	if st.ActiveChaos != nil {
		ev := *st.ActiveChaos
		out.ActiveChaos = &ev
	}
	if st.FinalResult != nil {
		r := *st.FinalResult
		out.FinalResult = &r
	}
	return out
}
