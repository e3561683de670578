package features

import (
	"math"
)

// hannWindow returns a periodic Hann window of length n, the variant used
// for spectral analysis.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

// centerPad zero-pads the signal by half a frame on each side so frame t is
// centred on sample t*hop.
func centerPad(samples []float64, nFFT int) []float64 {
	pad := nFFT / 2
	out := make([]float64, len(samples)+2*pad)
	copy(out[pad:], samples)
	return out
}

func frameCount(n, nFFT, hop int) int {
	if n < nFFT {
		return 0
	}
	return 1 + (n-nFFT)/hop
}
