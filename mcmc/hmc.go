package mcmc

import (
	"math"
	"math/rand"
	"time"

	"github.com/gonum/floats"
)

// HMC is a Hamiltonian Monte Carlo sampler. Each step draws a momentum
// from the mass matrix, integrates Hamiltonian dynamics with the
// leapfrog scheme and applies a Metropolis accept/reject on the total
// energy difference. The gradient information lets it take long,
// informed moves where MH diffuses.
type HMC struct {
	baseSampler
	Steps   int
	Epsilon float64
	mass    *MassMatrix
}

// NewHMC creates a new HMC sampler with the given number of leapfrog
// steps, step size, mass matrix and seed.
func NewHMC(steps int, epsilon float64, mass *MassMatrix, seed int64) *HMC {
	if steps < 1 {
		panic("mcmc: leapfrog step count must be positive")
	}
	if epsilon <= 0 {
		panic("mcmc: epsilon must be positive")
	}
	rng := rand.New(rand.NewSource(seed))
	return &HMC{
		baseSampler: baseSampler{
			name:      "hmc",
			rng:       rng,
			repPeriod: 10,
			accPeriod: 200,
		},
		Steps:   steps,
		Epsilon: epsilon,
		mass:    mass.bind(rng),
	}
}

// Run samples until maxSamples samples were generated or maxTime
// elapsed, whichever comes first, and returns the chain. Termination
// policy and rejected-step duplication are identical to MH.
func (h *HMC) Run(maxSamples int, maxTime time.Duration) *Chain {
	if h.target == nil {
		panic("mcmc: target is not set")
	}
	dim := h.target.Dim()
	if h.mass.Dim() != dim {
		panic("mcmc: mass matrix dimension does not match target")
	}
	b := newBudget(maxSamples, maxTime)
	chain := NewChain(dim)
	chain.Append(h.cur)
	h.printHeader()
	h.printLine()

	q := make([]float64, dim)
	p := make([]float64, dim)
	grad := make([]float64, dim)
	vel := make([]float64, dim)

	for !b.exhausted(chain.Len()) {
		h.i++
		h.logAcceptance()

		h.mass.sample(p, h.rng)
		curH := h.curMisfit + h.mass.kinetic(p, vel)

		copy(q, h.cur)
		h.leapfrog(q, p, grad, vel)
		newMisfit := h.target.Misfit(q)
		h.misfitCalls++
		newH := newMisfit + h.mass.kinetic(p, vel)

		// A trajectory ending in the hard rejection region has
		// infinite energy and is never accepted; the explicit check
		// keeps Inf-Inf out of the comparison when the current state
		// is itself infeasible.
		if !math.IsInf(newH, 1) &&
			(newH <= curH || h.rng.Float64() < math.Exp(curH-newH)) {
			copy(h.cur, q)
			h.curMisfit = newMisfit
			h.accepted++
			h.accWindow++
		}
		chain.Append(h.cur)
		h.printLine()
		h.saveCheckpoint(false)
	}

	h.finish(chain, b)
	return chain
}

// leapfrog advances (q, p) by Steps steps of size Epsilon: half-step
// momentum, alternating full position and momentum steps, final
// half-step momentum. Positions move along M^-1 p, momenta along
// -grad.
func (h *HMC) leapfrog(q, p, grad, vel []float64) {
	h.target.Grad(q, grad)
	h.gradCalls++
	floats.AddScaled(p, -h.Epsilon/2, grad)
	for s := 0; s < h.Steps; s++ {
		h.mass.velocity(vel, p)
		floats.AddScaled(q, h.Epsilon, vel)
		h.target.Grad(q, grad)
		h.gradCalls++
		if s != h.Steps-1 {
			floats.AddScaled(p, -h.Epsilon, grad)
		}
	}
	floats.AddScaled(p, -h.Epsilon/2, grad)
}

// SampleHMC runs a Hamiltonian Monte Carlo chain from start and
// returns the generated samples. The mass matrix defaults to the
// identity when nil.
func SampleHMC(target Target, start []float64, steps int, epsilon float64, maxSamples int, mass *MassMatrix, maxTime time.Duration, seed int64) *Chain {
	if mass == nil {
		mass = NewIdentityMass(target.Dim())
	}
	h := NewHMC(steps, epsilon, mass, seed)
	h.Quiet = true
	h.SetTarget(target, start)
	return h.Run(maxSamples, maxTime)
}
