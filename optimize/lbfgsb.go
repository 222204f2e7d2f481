// Package optimize provides maximum a posteriori estimation for the
// sampling targets, reusing the analytic gradient to find the misfit
// minimum before a chain is started.
package optimize

import (
	"math"

	lbfgsb "github.com/idavydov/go-lbfgsb"
	"github.com/op/go-logging"

	"github.com/seislab/hypomc/mcmc"
)

// log is the global logging variable.
var log = logging.MustGetLogger("optimize")

// Bounder is an optional mcmc.Target extension exposing per-parameter
// box bounds; unbounded parameters use infinities.
type Bounder interface {
	Bounds() (lo, hi []float64)
}

// LBFGSB minimizes the target misfit with the bound-constrained
// L-BFGS-B method. The result is the posterior mode, a good chain
// starting point.
type LBFGSB struct {
	target      mcmc.Target
	grad        []float64
	misfitCalls int
	gradCalls   int
	minMisfit   float64
	minX        []float64
	Quiet       bool
}

// NewLBFGSB creates a new MAP estimator for the target.
func NewLBFGSB(t mcmc.Target) *LBFGSB {
	return &LBFGSB{
		target:    t,
		minMisfit: math.Inf(1),
	}
}

// EvaluateFunction implements the go-lbfgsb objective.
func (l *LBFGSB) EvaluateFunction(x []float64) float64 {
	f := l.target.Misfit(x)
	l.misfitCalls++
	if f < l.minMisfit {
		l.minMisfit = f
		l.minX = append(l.minX[:0], x...)
	}
	return f
}

// EvaluateGradient implements the go-lbfgsb objective gradient using
// the target's analytic gradient.
func (l *LBFGSB) EvaluateGradient(x []float64) []float64 {
	l.grad = l.target.Grad(x, l.grad)
	l.gradCalls++
	return l.grad
}

// Logger reports optimizer progress.
func (l *LBFGSB) Logger(info *lbfgsb.OptimizationIterationInformation) {
	log.Debugf("%d: f=%f", info.Iteration, info.F)
}

// Run minimizes the misfit starting from start and returns the best
// point found.
func (l *LBFGSB) Run(start []float64) []float64 {
	dim := l.target.Dim()
	if len(start) != dim {
		panic("optimize: start model length does not match target dimension")
	}

	bounds := make([][2]float64, dim)
	lo := make([]float64, dim)
	hi := make([]float64, dim)
	for i := range lo {
		lo[i] = math.Inf(-1)
		hi[i] = math.Inf(1)
	}
	if b, ok := l.target.(Bounder); ok {
		lo, hi = b.Bounds()
	}
	for i := range bounds {
		// Stay strictly inside finite bounds; the misfit is infinite
		// on the boundary complement and L-BFGS-B dislikes evaluating
		// there.
		bounds[i][0] = lo[i]
		bounds[i][1] = hi[i]
		if !math.IsInf(lo[i], -1) {
			bounds[i][0] += 1e-5
		}
		if !math.IsInf(hi[i], 1) {
			bounds[i][1] -= 1e-5
		}
	}

	opt := new(lbfgsb.Lbfgsb)
	opt.SetApproximationSize(10)
	opt.SetFTolerance(1e-9)
	opt.SetGTolerance(1e-9)
	opt.SetBounds(bounds)
	opt.SetLogger(l.Logger)

	minimum, exitStatus := opt.Minimize(l, start)
	log.Debug("Exit status: ", exitStatus)

	if minimum.F < l.minMisfit {
		l.minMisfit = minimum.F
		l.minX = append(l.minX[:0], minimum.X...)
	}
	if !l.Quiet {
		log.Noticef("MAP misfit: %g (%d misfit calls, %d gradient calls)",
			l.minMisfit, l.misfitCalls, l.gradCalls)
	}
	return append([]float64(nil), l.minX...)
}
