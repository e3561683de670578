package features

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Slaney mel scale: linear below 1 kHz, logarithmic above.
const (
	melLinearStep = 200.0 / 3
	melMinLogHz   = 1000.0
	melMinLogMel  = melMinLogHz / melLinearStep
)

var melLogStep = math.Log(6.4) / 27

func hzToMel(hz float64) float64 {
	if hz >= melMinLogHz {
		return melMinLogMel + math.Log(hz/melMinLogHz)/melLogStep
	}
	return hz / melLinearStep
}

func melToHz(mel float64) float64 {
	if mel >= melMinLogMel {
		return melMinLogHz * math.Exp(melLogStep*(mel-melMinLogMel))
	}
	return melLinearStep * mel
}

// linspace returns n evenly spaced values from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}

// melFilterbank builds an nMels x (nFFT/2+1) matrix of triangular filters
// spanning [0, sampleRate/2], each scaled to unit area.
func melFilterbank(sampleRate, nFFT, nMels int) *mat.Dense {
	nBins := nFFT/2 + 1
	nyquist := float64(sampleRate) / 2

	fftFreqs := linspace(0, nyquist, nBins)
	melPoints := linspace(hzToMel(0), hzToMel(nyquist), nMels+2)
	melFreqs := make([]float64, len(melPoints))
	for i, m := range melPoints {
		melFreqs[i] = melToHz(m)
	}

	bank := mat.NewDense(nMels, nBins, nil)
	for i := 0; i < nMels; i++ {
		lowWidth := melFreqs[i+1] - melFreqs[i]
		highWidth := melFreqs[i+2] - melFreqs[i+1]
		enorm := 2 / (melFreqs[i+2] - melFreqs[i])
		for j, f := range fftFreqs {
			lower := (f - melFreqs[i]) / lowWidth
			upper := (melFreqs[i+2] - f) / highWidth
			w := math.Max(0, math.Min(lower, upper))
			if w != 0 {
				bank.Set(i, j, w*enorm)
			}
		}
	}
	return bank
}
