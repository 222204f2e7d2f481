package hypo

import (
	"math/rand"

	"github.com/gonum/matrix/mat64"
)

// Scenario is a synthetic experiment: receivers on the surface, a true
// model drawn inside the feasible box, and noisy observed arrival
// times. For a fixed random source the scenario is deterministic; the
// draw order (per event x, z, t0, then per-observation noise) is part
// of that contract.
type Scenario struct {
	MTrue      []float64
	Obs        *mat64.Dense
	Unc        []float64
	StationX   []float64
	StationZ   []float64
	DepthLimit float64
}

// NewScenario generates nEvents hypocenters observed by nReceivers
// surface receivers spaced evenly across the horizontal box. Arrival
// times are perturbed by Gaussian noise with standard deviation noise,
// which also becomes the per-receiver uncertainty.
func NewScenario(nEvents, nReceivers int, depthLimit, noise float64, rng *rand.Rand) *Scenario {
	if nEvents < 1 {
		panic("hypo: scenario needs at least one event")
	}
	if nReceivers < 2 {
		panic("hypo: scenario needs at least two receivers")
	}
	if noise <= 0 {
		panic("hypo: observation noise must be positive")
	}

	stx := make([]float64, nReceivers)
	stz := make([]float64, nReceivers)
	for j := range stx {
		stx[j] = XMin + float64(j)*(XMax-XMin)/float64(nReceivers-1)
	}

	m := make([]float64, 3*nEvents+1)
	for i := 0; i < nEvents; i++ {
		m[3*i] = XMin + (XMax-XMin)*rng.Float64()
		m[3*i+1] = depthLimit * rng.Float64()
		m[3*i+2] = 60 * rng.Float64()
	}
	m[len(m)-1] = 5

	obs := Forward(m, stx, stz, nil)
	ne, nr := obs.Dims()
	for i := 0; i < ne; i++ {
		for j := 0; j < nr; j++ {
			obs.Set(i, j, obs.At(i, j)+noise*rng.NormFloat64())
		}
	}

	unc := make([]float64, nReceivers)
	for j := range unc {
		unc[j] = noise
	}

	return &Scenario{
		MTrue:      m,
		Obs:        obs,
		Unc:        unc,
		StationX:   stx,
		StationZ:   stz,
		DepthLimit: depthLimit,
	}
}

// PerturbedStart returns the true model perturbed by isotropic
// Gaussian noise, a typical chain starting point. Event coordinates
// are clamped into the feasible box so the chain never starts on an
// infinite misfit.
func (s *Scenario) PerturbedStart(scale float64, rng *rand.Rand) []float64 {
	start := make([]float64, len(s.MTrue))
	for i, v := range s.MTrue {
		start[i] = v + scale*rng.NormFloat64()
	}
	ne := eventCount(start)
	for i := 0; i < ne; i++ {
		start[3*i] = clamp(start[3*i], XMin, XMax)
		start[3*i+1] = clamp(start[3*i+1], 0, s.DepthLimit)
	}
	return start
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
