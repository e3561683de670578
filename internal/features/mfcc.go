// Package features turns an audio clip into the fixed-width summary vector
// the classifier was trained on: the per-coefficient mean of 40 MFCCs.
package features

import (
	"context"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"

	"github.com/starford/swara/internal/apperr"
	"github.com/starford/swara/internal/audio"
	"github.com/starford/swara/internal/models"
)

const (
	nFFT      = 2048
	hopLength = 512
	nMels     = 128
	topDB     = 80.0
	amin      = 1e-10
)

// Extractor computes mean-MFCC vectors. Mel filterbanks are cached per
// sample rate. Safe for concurrent use.
type Extractor struct {
	window []float64
	dct    *mat.Dense

	mu    sync.Mutex
	banks map[int]*mat.Dense
}

// NewExtractor returns an Extractor producing models.FeatureDim coefficients.
func NewExtractor() *Extractor {
	return &Extractor{
		window: hannWindow(nFFT),
		dct:    dctMatrix(models.FeatureDim, nMels),
		banks:  make(map[int]*mat.Dense),
	}
}

// Extract decodes the clip at path and summarises it. Decoding failures wrap
// apperr.ErrDecode.
func (e *Extractor) Extract(ctx context.Context, path string) (models.FeatureVector, error) {
	sig, err := audio.Decode(path)
	if err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}
	return e.FromSignal(ctx, sig)
}

// FromSignal computes the mean MFCC of an already decoded signal.
func (e *Extractor) FromSignal(ctx context.Context, sig *audio.Signal) (models.FeatureVector, error) {
	if sig == nil || len(sig.Samples) == 0 || sig.SampleRate <= 0 {
		return nil, fmt.Errorf("features: empty signal: %w", apperr.ErrDecode)
	}

	logMel, err := e.logMelSpectrogram(ctx, sig)
	if err != nil {
		return nil, err
	}

	// The DCT is linear, so the mean of per-frame MFCCs equals the DCT of the
	// mean log-mel frame.
	nFrames, _ := logMel.Dims()
	mean := mat.NewVecDense(nMels, nil)
	for t := 0; t < nFrames; t++ {
		mean.AddVec(mean, logMel.RowView(t))
	}
	mean.ScaleVec(1/float64(nFrames), mean)

	var coeffs mat.VecDense
	coeffs.MulVec(e.dct, mean)

	out := make(models.FeatureVector, models.FeatureDim)
	for i := range out {
		out[i] = float32(coeffs.AtVec(i))
	}
	return out, nil
}

// logMelSpectrogram returns a frames x nMels matrix of power in decibels,
// floored at topDB below the loudest cell.
func (e *Extractor) logMelSpectrogram(ctx context.Context, sig *audio.Signal) (*mat.Dense, error) {
	padded := centerPad(sig.Samples, nFFT)
	nFrames := frameCount(len(padded), nFFT, hopLength)
	bank := e.filterbank(sig.SampleRate)

	fft := fourier.NewFFT(nFFT)
	frame := make([]float64, nFFT)
	var coeffs []complex128
	power := mat.NewVecDense(nFFT/2+1, nil)
	out := mat.NewDense(nFrames, nMels, nil)
	peak := math.Inf(-1)

	for t := 0; t < nFrames; t++ {
		if t%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("features: %w", err)
			}
		}
		start := t * hopLength
		for i := range frame {
			frame[i] = padded[start+i] * e.window[i]
		}
		coeffs = fft.Coefficients(coeffs, frame)
		for k, c := range coeffs {
			re, im := real(c), imag(c)
			power.SetVec(k, re*re+im*im)
		}

		row := out.RowView(t).(*mat.VecDense)
		row.MulVec(bank, power)
		for m := 0; m < nMels; m++ {
			db := 10 * math.Log10(math.Max(amin, row.AtVec(m)))
			row.SetVec(m, db)
			peak = math.Max(peak, db)
		}
	}

	floor := peak - topDB
	for t := 0; t < nFrames; t++ {
		for m := 0; m < nMels; m++ {
			if out.At(t, m) < floor {
				out.Set(t, m, floor)
			}
		}
	}
	return out, nil
}

func (e *Extractor) filterbank(sampleRate int) *mat.Dense {
	e.mu.Lock()
	defer e.mu.Unlock()
	bank, ok := e.banks[sampleRate]
	if !ok {
		bank = melFilterbank(sampleRate, nFFT, nMels)
		e.banks[sampleRate] = bank
	}
	return bank
}
