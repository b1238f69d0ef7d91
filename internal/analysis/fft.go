package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// Spectrum returns |X_k| for k = 0..n/2 of the mean-removed series.
func Spectrum(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}
	centered := make([]float64, n)
	copy(centered, data)
	floats.AddConst(-floats.Sum(data)/float64(n), centered)

	coeffs := fft.FFTReal(centered)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantPeriod returns the period of the strongest non-constant component
// of data sampled every dt, refined by parabolic interpolation around the
// peak bin. It reports false when the series is too short or flat.
func DominantPeriod(data []float64, dt float64) (float64, bool) {
	n := len(data)
	if n < 8 || dt <= 0 {
		return 0, false
	}
	ps := Spectrum(data)

	peak := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[peak] || peak == 0 {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0, false
	}

	k := float64(peak)
	if peak > 1 && peak < len(ps)-1 {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if d := a - 2*b + c; d != 0 {
			k += 0.5 * (a - c) / d
		}
	}
	return float64(n) * dt / k, true
}
