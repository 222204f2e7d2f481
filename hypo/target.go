// Package hypo implements the hypocenter location posterior: a travel
// time forward model for events in a 2D medium with constant velocity,
// and the misfit (negative log-posterior) with its analytic gradient.
package hypo

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gonum/matrix/mat64"
	"github.com/op/go-logging"
)

// log is the global logging variable.
var log = logging.MustGetLogger("hypo")

// Horizontal extent of the model box in km. Events proposed outside
// are rejected through an infinite misfit.
const (
	XMin = 0
	XMax = 30
)

// Target is the posterior over N hypocenters (x, z, t0) and one shared
// medium velocity, given arrival time observations at fixed receivers.
// It is immutable after construction; Misfit and Grad never modify the
// model vector.
type Target struct {
	obs    *mat64.Dense
	sigma2 *mat64.Dense
	stx    []float64
	stz    []float64

	vMean      float64
	vVar       float64
	depthLimit float64

	nEvents int
	labels  []string
	units   []string
}

// NewTarget creates a posterior from an observation grid (one row per
// event, one column per receiver), a receiver-indexed uncertainty
// vector, receiver coordinates, a Gaussian prior on velocity and a
// hard depth limit. Geometry is fixed for the lifetime of a run, so
// any inconsistency is a configuration error.
func NewTarget(obs *mat64.Dense, unc, stx, stz []float64, vMean, vSD, depthLimit float64) (*Target, error) {
	nr := len(stx)
	if len(stz) != nr {
		return nil, fmt.Errorf("station_x and station_z lengths differ (%d != %d)", nr, len(stz))
	}
	if len(unc) != nr {
		return nil, fmt.Errorf("uncertainty vector length %d does not match %d receivers", len(unc), nr)
	}
	ne, c := obs.Dims()
	if c != nr {
		return nil, fmt.Errorf("observation grid has %d columns for %d receivers", c, nr)
	}
	if vSD <= 0 {
		return nil, fmt.Errorf("velocity prior standard deviation must be positive, got %v", vSD)
	}
	if depthLimit <= 0 {
		return nil, fmt.Errorf("depth limit must be positive, got %v", depthLimit)
	}

	// Tile the receiver uncertainties over events, squared once here
	// so the misfit loop only divides.
	sigma2 := mat64.NewDense(ne, nr, nil)
	for j, s := range unc {
		if s <= 0 {
			return nil, fmt.Errorf("uncertainty for receiver %d must be positive, got %v", j, s)
		}
		for i := 0; i < ne; i++ {
			sigma2.Set(i, j, s*s)
		}
	}

	t := &Target{
		obs:        obs,
		sigma2:     sigma2,
		stx:        append([]float64(nil), stx...),
		stz:        append([]float64(nil), stz...),
		vMean:      vMean,
		vVar:       vSD * vSD,
		depthLimit: depthLimit,
		nEvents:    ne,
	}
	t.labels, t.units = makeLabels(ne)
	log.Debugf("New target: %d events, %d receivers, %d parameters", ne, nr, t.Dim())
	return t, nil
}

func makeLabels(ne int) (labels, units []string) {
	labels = make([]string, 0, 3*ne+1)
	units = make([]string, 0, 3*ne+1)
	for i := 0; i < ne; i++ {
		n := strconv.Itoa(i)
		labels = append(labels, "x"+n, "z"+n, "t"+n)
		units = append(units, "km", "km", "s")
	}
	labels = append(labels, "v")
	units = append(units, "km/s")
	return labels, units
}

// Dim returns the model vector length, 3*N+1.
func (t *Target) Dim() int { return 3*t.nEvents + 1 }

// NEvents returns the number of events.
func (t *Target) NEvents() int { return t.nEvents }

// Labels returns human-readable per-parameter names.
func (t *Target) Labels() []string { return append([]string(nil), t.labels...) }

// Units returns per-parameter physical units.
func (t *Target) Units() []string { return append([]string(nil), t.units...) }

// Bounds returns the feasible box per parameter. Origin times and the
// velocity are unbounded.
func (t *Target) Bounds() (lo, hi []float64) {
	d := t.Dim()
	lo = make([]float64, d)
	hi = make([]float64, d)
	for i := 0; i < t.nEvents; i++ {
		lo[3*i], hi[3*i] = XMin, XMax
		lo[3*i+1], hi[3*i+1] = 0, t.depthLimit
		lo[3*i+2], hi[3*i+2] = math.Inf(-1), math.Inf(1)
	}
	lo[d-1], hi[d-1] = math.Inf(-1), math.Inf(1)
	return lo, hi
}

// Forward computes predicted arrival times for the target's receiver
// geometry.
func (t *Target) Forward(m []float64, dst *mat64.Dense) *mat64.Dense {
	return Forward(m, t.stx, t.stz, dst)
}

// inBox reports whether all event positions are inside the hard
// constraint region.
func (t *Target) inBox(m []float64) bool {
	for i := 0; i < t.nEvents; i++ {
		x := m[3*i]
		z := m[3*i+1]
		if x < XMin || x > XMax || z < 0 || z > t.depthLimit {
			return false
		}
	}
	return true
}

// Misfit computes the negative log-posterior up to an additive
// constant: squared normalized residuals over all event/receiver
// pairs plus the Gaussian velocity prior. Models outside the hard box
// get +Inf. The box is checked before any residual is accumulated so
// an infinite penalty is never combined with further terms.
func (t *Target) Misfit(m []float64) float64 {
	if eventCount(m) != t.nEvents {
		panic("hypo: model does not match the number of events")
	}
	if !t.inBox(m) {
		return math.Inf(1)
	}
	v := m[len(m)-1]
	var res float64
	for i := 0; i < t.nEvents; i++ {
		x := m[3*i]
		z := m[3*i+1]
		t0 := m[3*i+2]
		for j := range t.stx {
			d := math.Hypot(x-t.stx[j], z-t.stz[j])
			r := t0 + d/v - t.obs.At(i, j)
			res += r * r / (2 * t.sigma2.At(i, j))
		}
	}
	dv := v - t.vMean
	return res + dv*dv/(2*t.vVar)
}

// Grad computes the analytic gradient of Misfit with respect to every
// parameter, in the same layout as the model vector. The hard box
// indicator is not differentiable and contributes nothing inside the
// feasible region. If grad is nil a new slice is allocated.
//
// An event exactly coincident with a receiver makes the distance zero
// and the directional terms divide by zero; the resulting NaN is
// propagated rather than masked, since it flags a degenerate sample.
func (t *Target) Grad(m, grad []float64) []float64 {
	if eventCount(m) != t.nEvents {
		panic("hypo: model does not match the number of events")
	}
	if grad == nil {
		grad = make([]float64, len(m))
	} else if len(grad) != len(m) {
		panic("hypo: gradient vector has wrong length")
	}
	v := m[len(m)-1]
	gv := (v - t.vMean) / t.vVar
	for i := 0; i < t.nEvents; i++ {
		x := m[3*i]
		z := m[3*i+1]
		t0 := m[3*i+2]
		var gx, gz, gt float64
		for j := range t.stx {
			dx := x - t.stx[j]
			dz := z - t.stz[j]
			d := math.Hypot(dx, dz)
			r := (t0 + d/v - t.obs.At(i, j)) / t.sigma2.At(i, j)
			gx += r * dx / (d * v)
			gz += r * dz / (d * v)
			gt += r
			gv -= r * d / (v * v)
		}
		grad[3*i] = gx
		grad[3*i+1] = gz
		grad[3*i+2] = gt
	}
	grad[len(m)-1] = gv
	return grad
}
