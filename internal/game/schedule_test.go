package game

import "testing"

type fixedPicker int

func (p fixedPicker) Intn(n int) int { return int(p) % n }

func TestScenarioIndex_Cyclic(t *testing.T) {
	n := 4
	for r := 1; r <= 12; r++ {
		if ScenarioIndex(r, n) != ScenarioIndex(r+n, n) {
			t.Errorf("round %d and %d select different scenarios", r, r+n)
		}
	}
	if got := ScenarioIndex(1, n); got != 0 {
		t.Errorf("Expected round 1 to map to index 0, got %d", got)
	}
	if got := ScenarioIndex(5, n); got != 0 {
		t.Errorf("Expected round 5 to wrap to index 0, got %d", got)
	}
	if got := ScenarioIndex(3, 0); got != -1 {
		t.Errorf("Expected -1 for an empty pool, got %d", got)
	}
}

func TestShouldTriggerChaos(t *testing.T) {
	for r := 1; r <= 12; r++ {
		want := r%3 == 0
		if got := ShouldTriggerChaos(r, false); got != want {
			t.Errorf("round %d: got %v, want %v", r, got, want)
		}
		if ShouldTriggerChaos(r, true) {
			t.Errorf("round %d: fired although already triggered", r)
		}
	}
	if ShouldTriggerChaos(0, false) {
		t.Error("round 0 must never fire")
	}
}

func TestDrawChaos(t *testing.T) {
	pool := []ChaosEvent{{ID: 1}, {ID: 2}, {ID: 3}}
	ev, ok := DrawChaos(pool, fixedPicker(1))
	if !ok || ev.ID != 2 {
		t.Errorf("Expected event 2, got %+v (ok=%v)", ev, ok)
	}
	// draws do not consume the pool
	ev, _ = DrawChaos(pool, fixedPicker(1))
	if ev.ID != 2 || len(pool) != 3 {
		t.Error("Expected repeat draw from an unchanged pool")
	}
	if _, ok := DrawChaos(nil, fixedPicker(0)); ok {
		t.Error("Expected no draw from an empty pool")
	}
}

func TestCryptoPicker_Range(t *testing.T) {
	p := CryptoPicker{}
	for i := 0; i < 200; i++ {
		if v := p.Intn(6); v < 0 || v >= 6 {
			t.Fatalf("Intn(6) out of range: %d", v)
		}
	}
	if p.Intn(0) != 0 {
		t.Error("Expected 0 for n <= 0")
	}
}
