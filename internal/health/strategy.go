package health

import "strings"

// Strategy folds one outcome into a success rate in [0, 100].
type Strategy interface {
	Update(current float64, success bool) float64
}

// EWMAStrategy smooths the rate, suited to busy hosts.
type EWMAStrategy struct {
	Alpha float64 // e.g. 0.1
}

func (e EWMAStrategy) Update(current float64, success bool) float64 {
	var value float64
	if success {
		value = 100
	}
	return e.Alpha*value + (1-e.Alpha)*current
}

// DecayStrategy only lowers the rate, by Factor per failure.
type DecayStrategy struct {
	Factor float64 // e.g. 0.95
}

func (d DecayStrategy) Update(current float64, success bool) float64 {
	if success {
		return current
	}
	return clamp(current * d.Factor)
}

// SlidingStrategy moves the rate by fixed steps.
type SlidingStrategy struct {
	StepUp   float64
	StepDown float64
}

func (s SlidingStrategy) Update(current float64, success bool) float64 {
	if success {
		return clamp(current + s.StepUp)
	}
	return clamp(current - s.StepDown)
}

// StrategyByName maps notify.healthStrategy to a Strategy; unknown names get EWMA.
func StrategyByName(name string) Strategy {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "decay":
		return DecayStrategy{Factor: 0.95}
	case "sliding":
		return SlidingStrategy{StepUp: 1, StepDown: 10}
	default:
		return EWMAStrategy{Alpha: 0.1}
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
