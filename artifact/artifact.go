// Package artifact reads and writes sample chains as NumPy .npy
// arrays, the interchange format consumed by the external diagnostics
// tooling. One file holds one (parameter_count, samples) float64 grid.
package artifact

import (
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/seislab/hypomc/mcmc"
)

// SaveChain writes the chain to path as a (dim, samples) array.
func SaveChain(path string, c *mcmc.Chain) error {
	dim := c.Dim()
	n := c.Len()
	data := make([]float64, dim*n)
	for j := 0; j < n; j++ {
		for i := 0; i < dim; i++ {
			data[i*n+j] = c.At(i, j)
		}
	}
	return SaveMatrix(path, mat.NewDense(dim, n, data))
}

// SaveMatrix writes a dense matrix to path in .npy format.
func SaveMatrix(path string, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := npyio.Write(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadMatrix reads a 2D float64 .npy file.
func LoadMatrix(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var m mat.Dense
	if err := npyio.Read(f, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
