package game

const (
	MeterMin = 0
	MeterMax = 100
)

// Clamp bounds a meter value to [MeterMin, MeterMax].
func Clamp(v int) int {
	if v < MeterMin {
		return MeterMin
	}
	if v > MeterMax {
		return MeterMax
	}
	return v
}

// ApplyImpact returns both meters after adding the deltas, each clamped.
func ApplyImpact(stress, reputation, stressDelta, reputationDelta int) (int, int) {
	return Clamp(stress + stressDelta), Clamp(reputation + reputationDelta)
}

// ScoreDelta rewards reputation gained net of the stress it cost. Never negative.
func ScoreDelta(reputationDelta, stressDelta int) int {
	if stressDelta < 0 {
		stressDelta = -stressDelta
	}
	return max(0, reputationDelta-stressDelta)
}
