// SPDX-License-Identifier: MIT
package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// FilterType selects the filter applied to a channel before analysis.
type FilterType int

// Enum for available filter types.
const (
	FilterNone FilterType = iota
	FilterLowPass
	FilterHighPass
	FilterBandPass
)

// String returns the wire name of the filter type.
func (f FilterType) String() string {
	switch f {
	case FilterNone:
		return "none"
	case FilterLowPass:
		return "lowpass"
	case FilterHighPass:
		return "highpass"
	case FilterBandPass:
		return "bandpass"
	default:
		return fmt.Sprintf("FilterType(%d)", int(f))
	}
}

// ParseFilterType converts a name (case-insensitive) to a FilterType. Returns
// FilterNone and an error if the name is unknown.
func ParseFilterType(name string) (FilterType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return FilterNone, nil
	case "lowpass", "low-pass":
		return FilterLowPass, nil
	case "highpass", "high-pass":
		return FilterHighPass, nil
	case "bandpass", "band-pass":
		return FilterBandPass, nil
	default:
		return FilterNone, fmt.Errorf("unknown filter type: '%s'", name)
	}
}

// MarshalJSON encodes the filter type by name.
func (f FilterType) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON decodes a filter type name.
func (f *FilterType) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	parsed, err := ParseFilterType(name)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// FilterConfig describes the filter stage. Low-pass uses HighCutHz, high-pass
// uses LowCutHz, and band-pass cascades high-pass(LowCutHz) into
// low-pass(HighCutHz). The two cutoffs are not required to be ordered.
type FilterConfig struct {
	Type      FilterType `json:"type"`
	LowCutHz  Param      `json:"lowCutHz"`
	HighCutHz Param      `json:"highCutHz"`
}

// ApplyFilter runs data through the filter described by cfg and returns a
// sequence of the same length. FilterNone and empty input return data itself,
// so callers must not mutate the result expecting data to be unaffected. A
// cutoff that is unset, NaN, zero or negative turns its stage into a no-op.
// Cutoffs above Nyquist, including +Inf, run the recurrence as-is: an
// infinite cutoff makes low-pass a copy and high-pass all zeros.
func ApplyFilter(data []float64, samplingRate float64, cfg FilterConfig) []float64 {
	if len(data) == 0 || cfg.Type == FilterNone {
		return data
	}

	sr := resolveSamplingRate(samplingRate)

	switch cfg.Type {
	case FilterLowPass:
		return lowPass(data, sr, cfg.HighCutHz)
	case FilterHighPass:
		return highPass(data, sr, cfg.LowCutHz)
	case FilterBandPass:
		return lowPass(highPass(data, sr, cfg.LowCutHz), sr, cfg.HighCutHz)
	default:
		return data
	}
}

// cutoffOf returns the cutoff frequency and whether the stage should run.
func cutoffOf(p Param) (float64, bool) {
	c, ok := p.Get()
	if !ok || !(c > 0) {
		return 0, false
	}
	return c, true
}

// lowPass is a single-pole IIR smoother:
//
//	y[0] = x[0]
//	y[i] = y[i-1] + alpha*(x[i]-y[i-1]),  alpha = dt/(rc+dt)
func lowPass(data []float64, sr float64, cutoff Param) []float64 {
	fc, ok := cutoffOf(cutoff)
	if !ok {
		return data
	}

	dt := 1 / sr
	rc := 1 / (2 * math.Pi * fc)
	alpha := dt / (rc + dt)

	out := make([]float64, len(data))
	prev := data[0]
	out[0] = prev
	for i := 1; i < len(data); i++ {
		prev += alpha * (data[i] - prev)
		out[i] = prev
	}
	return out
}

// highPass is a single-pole IIR differentiator:
//
//	y[0] = 0
//	y[i] = alpha*(y[i-1] + x[i] - x[i-1]),  alpha = rc/(rc+dt)
func highPass(data []float64, sr float64, cutoff Param) []float64 {
	fc, ok := cutoffOf(cutoff)
	if !ok {
		return data
	}

	dt := 1 / sr
	rc := 1 / (2 * math.Pi * fc)
	alpha := rc / (rc + dt)

	out := make([]float64, len(data))
	prevY, prevX := 0.0, data[0]
	for i := 1; i < len(data); i++ {
		x := data[i]
		y := alpha * (prevY + x - prevX)
		out[i] = y
		prevY, prevX = y, x
	}
	return out
}
