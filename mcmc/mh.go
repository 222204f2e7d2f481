package mcmc

import (
	"math"
	"math/rand"
	"time"
)

// MH is a gradient-free random-walk Metropolis-Hastings sampler.
// Candidates are the current model perturbed by an isotropic Gaussian
// scaled by Epsilon; the identity proposal covariance matches the HMC
// default mass matrix so the two samplers are comparable under equal
// budgets.
type MH struct {
	baseSampler
	Epsilon float64
	scale   []float64
}

// NewMH creates a new MH sampler with the given step size and seed.
func NewMH(epsilon float64, seed int64) *MH {
	if epsilon <= 0 {
		panic("mcmc: epsilon must be positive")
	}
	return &MH{
		baseSampler: baseSampler{
			name:      "mh",
			rng:       rand.New(rand.NewSource(seed)),
			repPeriod: 10,
			accPeriod: 200,
		},
		Epsilon: epsilon,
	}
}

// SetProposalSD sets a per-parameter scale applied on top of Epsilon,
// turning the isotropic proposal into a diagonal one. The default is
// the identity.
func (m *MH) SetProposalSD(sd []float64) {
	for _, s := range sd {
		if s <= 0 {
			panic("mcmc: proposal scales must be positive")
		}
	}
	m.scale = append([]float64(nil), sd...)
}

// Run samples until maxSamples samples were generated or maxTime
// elapsed, whichever comes first, and returns the chain. The starting
// state is the first sample; rejected steps repeat the current state.
// A truncated chain is the designed outcome under a time budget, not
// an error.
func (m *MH) Run(maxSamples int, maxTime time.Duration) *Chain {
	if m.target == nil {
		panic("mcmc: target is not set")
	}
	if m.scale != nil && len(m.scale) != m.target.Dim() {
		panic("mcmc: proposal scale length does not match target dimension")
	}
	b := newBudget(maxSamples, maxTime)
	chain := NewChain(m.target.Dim())
	chain.Append(m.cur)
	m.printHeader()
	m.printLine()

	cand := make([]float64, m.target.Dim())
	for !b.exhausted(chain.Len()) {
		m.i++
		m.logAcceptance()

		for k := range cand {
			step := m.rng.NormFloat64() * m.Epsilon
			if m.scale != nil {
				step *= m.scale[k]
			}
			cand[k] = m.cur[k] + step
		}
		newMisfit := m.target.Misfit(cand)
		m.misfitCalls++

		// An infinite misfit is always rejected; comparing first keeps
		// Inf out of the exp below.
		if !math.IsInf(newMisfit, 1) &&
			(newMisfit <= m.curMisfit || m.rng.Float64() < math.Exp(m.curMisfit-newMisfit)) {
			copy(m.cur, cand)
			m.curMisfit = newMisfit
			m.accepted++
			m.accWindow++
		}
		chain.Append(m.cur)
		m.printLine()
		m.saveCheckpoint(false)
	}

	m.finish(chain, b)
	return chain
}

// SampleMH runs a Metropolis-Hastings chain from start and returns the
// generated samples.
func SampleMH(target Target, start []float64, epsilon float64, maxSamples int, maxTime time.Duration, seed int64) *Chain {
	m := NewMH(epsilon, seed)
	m.Quiet = true
	m.SetTarget(target, start)
	return m.Run(maxSamples, maxTime)
}
