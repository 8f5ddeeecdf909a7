// SPDX-License-Identifier: MIT
package analysis

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// MaxSpectrumPoints caps the number of leading samples fed to the transform.
// The direct transform is O(n²), so the cap bounds compute cost.
const MaxSpectrumPoints = 4096

// SpectrumResult holds the one-sided magnitude spectrum. Freqs and
// Magnitudes always have the same length.
type SpectrumResult struct {
	Freqs      []float64 `json:"freqs"`
	Magnitudes []float64 `json:"magnitudes"`
}

// Peak returns the frequency and magnitude of the strongest bin, ignoring the
// DC bin when there is anything else to choose from.
func (s SpectrumResult) Peak() (freq, mag float64, ok bool) {
	if len(s.Magnitudes) == 0 {
		return 0, 0, false
	}
	start := 0
	if len(s.Magnitudes) > 1 {
		start = 1
	}
	best := start
	for k := start + 1; k < len(s.Magnitudes); k++ {
		if s.Magnitudes[k] > s.Magnitudes[best] {
			best = k
		}
	}
	return s.Freqs[best], s.Magnitudes[best], true
}

// SpectrumMethod selects how the transform is evaluated.
type SpectrumMethod int

const (
	// MethodDirect evaluates every bin by direct summation.
	MethodDirect SpectrumMethod = iota
	// MethodFFT uses gonum's real FFT. Magnitudes match MethodDirect to
	// within floating-point tolerance.
	MethodFFT
)

func (m SpectrumMethod) String() string {
	if m == MethodFFT {
		return "fft"
	}
	return "direct"
}

// ParseSpectrumMethod converts "direct" or "fft" (case-insensitive) to a
// SpectrumMethod, returning MethodDirect and an error for unknown names.
func ParseSpectrumMethod(name string) (SpectrumMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "direct", "dft":
		return MethodDirect, nil
	case "fft":
		return MethodFFT, nil
	default:
		return MethodDirect, fmt.Errorf("unknown spectrum method: '%s'", name)
	}
}

// WindowFunc defines the type for selecting a taper applied before the
// transform.
type WindowFunc int

// Enum for available window functions. NoWindow leaves samples untouched,
// which is the default and leaks energy between bins for non-periodic input.
const (
	NoWindow WindowFunc = iota
	BartlettHann
	Blackman
	BlackmanNuttall
	Hann
	Hamming
	Lanczos
	Nuttall
)

func (w WindowFunc) String() string {
	switch w {
	case NoWindow:
		return "none"
	case BartlettHann:
		return "bartletthann"
	case Blackman:
		return "blackman"
	case BlackmanNuttall:
		return "blackmannuttall"
	case Hann:
		return "hann"
	case Hamming:
		return "hamming"
	case Lanczos:
		return "lanczos"
	case Nuttall:
		return "nuttall"
	default:
		return fmt.Sprintf("WindowFunc(%d)", int(w))
	}
}

// ParseWindowFunc converts a string name (case-insensitive) to a WindowFunc
// enum, returns NoWindow and an error if the name is unknown.
func ParseWindowFunc(name string) (WindowFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "rectangular":
		return NoWindow, nil
	case "bartletthann":
		return BartlettHann, nil
	case "blackman":
		return Blackman, nil
	case "blackmannuttall":
		return BlackmanNuttall, nil
	case "hann", "hanning":
		return Hann, nil
	case "hamming":
		return Hamming, nil
	case "lanczos":
		return Lanczos, nil
	case "nuttall":
		return Nuttall, nil
	default:
		return NoWindow, fmt.Errorf("unknown window function name: '%s'", name)
	}
}

// applyWindow multiplies seq in place by the selected window.
func applyWindow(seq []float64, windowType WindowFunc) {
	switch windowType {
	case BartlettHann:
		window.BartlettHann(seq)
	case Blackman:
		window.Blackman(seq)
	case BlackmanNuttall:
		window.BlackmanNuttall(seq)
	case Hann:
		window.Hann(seq)
	case Hamming:
		window.Hamming(seq)
	case Lanczos:
		window.Lanczos(seq)
	case Nuttall:
		window.Nuttall(seq)
	}
}

// SpectrumAnalyzer computes magnitude spectra. The zero value is the plain
// direct transform over at most MaxSpectrumPoints samples with no window,
// evaluated on the calling goroutine.
type SpectrumAnalyzer struct {
	Method    SpectrumMethod
	Window    WindowFunc
	MaxPoints int // Window length cap; <= 0 means MaxSpectrumPoints.
	Workers   int // Goroutines for the direct transform; <= 1 runs serially.
}

// ComputeSpectrum returns the magnitude spectrum of the first
// min(len(data), MaxSpectrumPoints) samples using the direct transform.
func ComputeSpectrum(data []float64, samplingRate float64) SpectrumResult {
	return SpectrumAnalyzer{}.Compute(data, samplingRate)
}

// Compute is ComputeContext without cancellation. It never fails.
func (a SpectrumAnalyzer) Compute(data []float64, samplingRate float64) SpectrumResult {
	res, _ := a.ComputeContext(context.Background(), data, samplingRate)
	return res
}

// ComputeContext evaluates bins k in [0, n/2) where n is the capped window
// length: freq[k] = k*sr/n and magnitude[k] = |sum x[t]*e^(-2πikt/n)|. The
// only error is ctx's, when it is cancelled before every bin is done.
func (a SpectrumAnalyzer) ComputeContext(ctx context.Context, data []float64, samplingRate float64) (SpectrumResult, error) {
	if len(data) == 0 {
		return SpectrumResult{Freqs: []float64{}, Magnitudes: []float64{}}, nil
	}

	sr := resolveSamplingRate(samplingRate)
	maxPoints := a.MaxPoints
	if maxPoints <= 0 {
		maxPoints = MaxSpectrumPoints
	}
	n := min(len(data), maxPoints)
	half := n / 2

	seq := data[:n]
	if a.Window != NoWindow {
		seq = append([]float64(nil), seq...)
		applyWindow(seq, a.Window)
	}

	res := SpectrumResult{
		Freqs:      make([]float64, half),
		Magnitudes: make([]float64, half),
	}
	for k := range half {
		res.Freqs[k] = float64(k) * sr / float64(n)
	}
	if half == 0 {
		return res, nil
	}

	if a.Method == MethodFFT {
		coeffs := fourier.NewFFT(n).Coefficients(nil, seq)
		for k := range half {
			res.Magnitudes[k] = cmplx.Abs(coeffs[k])
		}
		return res, nil
	}

	if a.Workers <= 1 {
		if err := directBins(ctx, seq, res.Magnitudes, 0, half); err != nil {
			return SpectrumResult{}, err
		}
		return res, nil
	}

	// Each worker owns a disjoint range of bins, so writes never overlap.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Workers)
	chunk := (half + a.Workers - 1) / a.Workers
	for lo := 0; lo < half; lo += chunk {
		hi := min(lo+chunk, half)
		g.Go(func() error {
			return directBins(gctx, seq, res.Magnitudes, lo, hi)
		})
	}
	if err := g.Wait(); err != nil {
		return SpectrumResult{}, err
	}
	return res, nil
}

// directBins fills mags[lo:hi] by direct summation over seq.
func directBins(ctx context.Context, seq, mags []float64, lo, hi int) error {
	n := len(seq)
	twoPiOverN := 2 * math.Pi / float64(n)
	for k := lo; k < hi; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		var re, im float64
		for t, x := range seq {
			angle := twoPiOverN * float64(k) * float64(t)
			re += x * math.Cos(angle)
			im -= x * math.Sin(angle)
		}
		mags[k] = math.Sqrt(re*re + im*im)
	}
	return nil
}
