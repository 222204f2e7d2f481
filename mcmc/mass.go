package mcmc

import (
	"math"
	"math/rand"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat/distmv"
)

// MassMatrix is the momentum covariance used by HMC. The diagonal form
// is a fast path: momenta are drawn componentwise scaled by the square
// root of the diagonal and the inverse is an elementwise reciprocal,
// so no linear algebra happens inside the leapfrog loop. The general
// form draws momenta through a multivariate normal (Cholesky inside)
// and applies a precomputed inverse.
type MassMatrix struct {
	dim int

	// diagonal fast path
	diag []float64
	sqrt []float64
	inv  []float64

	// general form
	full    *mat64.SymDense
	fullInv *mat64.Dense
	normal  *distmv.Normal
}

// NewIdentityMass returns the unit mass matrix, the default
// preconditioning.
func NewIdentityMass(dim int) *MassMatrix {
	d := make([]float64, dim)
	for i := range d {
		d[i] = 1
	}
	return NewDiagonalMass(d)
}

// NewDiagonalMass returns a diagonal mass matrix. All entries must be
// positive.
func NewDiagonalMass(diag []float64) *MassMatrix {
	m := &MassMatrix{
		dim:  len(diag),
		diag: append([]float64(nil), diag...),
		sqrt: make([]float64, len(diag)),
		inv:  make([]float64, len(diag)),
	}
	for i, d := range diag {
		if d <= 0 {
			panic("mcmc: mass matrix diagonal entries must be positive")
		}
		m.sqrt[i] = math.Sqrt(d)
		m.inv[i] = 1 / d
	}
	return m
}

// NewFullMass returns a dense symmetric mass matrix. The inverse is
// computed once here, outside the sampling loop.
func NewFullMass(full *mat64.SymDense) *MassMatrix {
	n := full.Symmetric()
	inv := mat64.NewDense(n, n, nil)
	if err := inv.Inverse(full); err != nil {
		panic("mcmc: mass matrix is not invertible")
	}
	return &MassMatrix{dim: n, full: full, fullInv: inv}
}

// Dim returns the matrix dimension.
func (m *MassMatrix) Dim() int { return m.dim }

// bind returns the matrix bound to the sampler's random source. The
// general form carries a momentum distribution tied to that source, so
// binding copies the matrix and a MassMatrix shared between samplers
// keeps every chain on its own stream. The diagonal form is stateless
// and is returned as is.
func (m *MassMatrix) bind(rng *rand.Rand) *MassMatrix {
	if m.full == nil {
		return m
	}
	normal, ok := distmv.NewNormal(make([]float64, m.dim), m.full, rng)
	if !ok {
		panic("mcmc: mass matrix is not positive definite")
	}
	bound := *m
	bound.normal = normal
	return &bound
}

// sample draws a momentum vector from N(0, M).
func (m *MassMatrix) sample(dst []float64, rng *rand.Rand) []float64 {
	if dst == nil {
		dst = make([]float64, m.dim)
	}
	if m.diag != nil {
		for i := range dst {
			dst[i] = rng.NormFloat64() * m.sqrt[i]
		}
		return dst
	}
	return m.normal.Rand(dst)
}

// velocity computes dst = M^-1 p.
func (m *MassMatrix) velocity(dst, p []float64) []float64 {
	if dst == nil {
		dst = make([]float64, m.dim)
	}
	if m.diag != nil {
		for i := range dst {
			dst[i] = p[i] * m.inv[i]
		}
		return dst
	}
	for i := 0; i < m.dim; i++ {
		var s float64
		for j := 0; j < m.dim; j++ {
			s += m.fullInv.At(i, j) * p[j]
		}
		dst[i] = s
	}
	return dst
}

// kinetic computes the kinetic energy 0.5 * p' M^-1 p, using scratch
// for the intermediate velocity.
func (m *MassMatrix) kinetic(p, scratch []float64) float64 {
	v := m.velocity(scratch, p)
	return 0.5 * floats.Dot(p, v)
}
