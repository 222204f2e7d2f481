package artifact

import (
	"path/filepath"
	"testing"

	"github.com/seislab/hypomc/mcmc"
)

func TestChainRoundtrip(tst *testing.T) {
	c := mcmc.NewChain(3)
	c.Append([]float64{1, 2, 3})
	c.Append([]float64{4, 5, 6})
	c.Append([]float64{4, 5, 6})

	path := filepath.Join(tst.TempDir(), "chain.npy")
	if err := SaveChain(path, c); err != nil {
		tst.Fatal("Error saving chain: ", err)
	}

	m, err := LoadMatrix(path)
	if err != nil {
		tst.Fatal("Error loading chain: ", err)
	}
	r, cols := m.Dims()
	if r != 3 || cols != 3 {
		tst.Fatalf("Wrong loaded shape: %dx%d", r, cols)
	}
	for j := 0; j < cols; j++ {
		for i := 0; i < r; i++ {
			if m.At(i, j) != c.At(i, j) {
				tst.Errorf("Value mismatch at (%d, %d): %v != %v", i, j, m.At(i, j), c.At(i, j))
			}
		}
	}
}

func TestLoadMissingFile(tst *testing.T) {
	if _, err := LoadMatrix(filepath.Join(tst.TempDir(), "missing.npy")); err == nil {
		tst.Error("Expected error for a missing file")
	}
}
