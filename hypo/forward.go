package hypo

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// eventCount returns the number of events encoded in a model vector.
// A model is a sequence of (x, z, t0) triples followed by one shared
// velocity, so the length must be 3*N+1.
func eventCount(m []float64) int {
	if len(m) < 4 || (len(m)-1)%3 != 0 {
		panic("hypo: model vector length must be 3*N+1")
	}
	return (len(m) - 1) / 3
}

// Forward computes predicted arrival times for every event/receiver
// pair: t[i][j] = t0_i + |pos_i - station_j| / v. The result has one
// row per event and one column per receiver. If dst is nil a new
// matrix is allocated, otherwise it must have the right dimensions.
func Forward(m, stx, stz []float64, dst *mat64.Dense) *mat64.Dense {
	if len(stx) != len(stz) {
		panic("hypo: station coordinate arrays differ in length")
	}
	ne := eventCount(m)
	nr := len(stx)
	if dst == nil {
		dst = mat64.NewDense(ne, nr, nil)
	} else {
		r, c := dst.Dims()
		if r != ne || c != nr {
			panic("hypo: destination matrix has wrong dimensions")
		}
	}
	v := m[len(m)-1]
	for i := 0; i < ne; i++ {
		x := m[3*i]
		z := m[3*i+1]
		t0 := m[3*i+2]
		for j := 0; j < nr; j++ {
			d := math.Hypot(x-stx[j], z-stz[j])
			dst.Set(i, j, t0+d/v)
		}
	}
	return dst
}
