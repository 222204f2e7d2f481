package mcmc

import (
	"math"
	"math/rand"
	"testing"

	"github.com/gonum/matrix/mat64"
)

func TestDiagonalMassKinetic(tst *testing.T) {
	m := NewDiagonalMass([]float64{1, 4, 9})
	p := []float64{2, 2, 3}

	// 0.5 * (4/1 + 4/4 + 9/9) = 3
	got := m.kinetic(p, nil)
	if math.Abs(got-3) > 1e-12 {
		tst.Errorf("Wrong kinetic energy: %v", got)
	}

	vel := m.velocity(nil, p)
	want := []float64{2, 0.5, 1.0 / 3}
	for i := range want {
		if math.Abs(vel[i]-want[i]) > 1e-12 {
			tst.Errorf("Wrong velocity component %d: %v", i, vel[i])
		}
	}
}

func TestIdentityMassVelocity(tst *testing.T) {
	m := NewIdentityMass(4)
	p := []float64{1, -2, 3, -4}
	vel := m.velocity(nil, p)
	for i := range p {
		if vel[i] != p[i] {
			tst.Error("Identity mass must leave the momentum unchanged")
		}
	}
}

func TestFullMassMatchesDiagonal(tst *testing.T) {
	diag := []float64{1, 4, 9}
	sym := mat64.NewSymDense(3, nil)
	for i, d := range diag {
		sym.SetSym(i, i, d)
	}
	full := NewFullMass(sym)
	fast := NewDiagonalMass(diag)

	p := []float64{0.5, -1, 2}
	kf := full.kinetic(p, nil)
	kd := fast.kinetic(p, nil)
	if math.Abs(kf-kd) > 1e-10 {
		tst.Errorf("Full and diagonal kinetic energies differ: %v != %v", kf, kd)
	}

	vf := full.velocity(nil, p)
	vd := fast.velocity(nil, p)
	for i := range p {
		if math.Abs(vf[i]-vd[i]) > 1e-10 {
			tst.Errorf("Velocity component %d differs: %v != %v", i, vf[i], vd[i])
		}
	}
}

func TestFullMassSampling(tst *testing.T) {
	sym := mat64.NewSymDense(2, []float64{2, 0.5, 0.5, 1})
	a := NewFullMass(sym).bind(rand.New(rand.NewSource(9)))
	b := NewFullMass(sym).bind(rand.New(rand.NewSource(9)))

	pa := a.sample(nil, nil)
	pb := b.sample(nil, nil)
	for i := range pa {
		if pa[i] != pb[i] {
			tst.Error("Full mass sampling not reproducible for the same seed")
		}
	}
}

func TestDiagonalMassSamplingReproducible(tst *testing.T) {
	m := NewDiagonalMass([]float64{1, 2})
	pa := m.sample(nil, rand.New(rand.NewSource(3)))
	pb := m.sample(nil, rand.New(rand.NewSource(3)))
	for i := range pa {
		if pa[i] != pb[i] {
			tst.Error("Diagonal mass sampling not reproducible for the same seed")
		}
	}
}

func TestBadMassMatrix(tst *testing.T) {
	defer func() {
		if recover() == nil {
			tst.Error("Expected panic for a non-positive diagonal entry")
		}
	}()
	NewDiagonalMass([]float64{1, 0, 2})
}
