package features

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// dctMatrix returns the first nOut rows of the orthonormal DCT-II basis for
// inputs of length n.
func dctMatrix(nOut, n int) *mat.Dense {
	m := mat.NewDense(nOut, n, nil)
	first := math.Sqrt(1 / float64(n))
	rest := math.Sqrt(2 / float64(n))
	for k := 0; k < nOut; k++ {
		scale := rest
		if k == 0 {
			scale = first
		}
		for i := 0; i < n; i++ {
			m.Set(k, i, scale*math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*float64(n))))
		}
	}
	return m
}
