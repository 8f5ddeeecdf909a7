// SPDX-License-Identifier: MIT
package analysis

// DefaultSamplingRate is substituted whenever a caller passes a sampling rate
// that is zero, negative or NaN.
const DefaultSamplingRate = 1000.0

// resolveSamplingRate returns sr, or DefaultSamplingRate if sr is unusable.
func resolveSamplingRate(sr float64) float64 {
	if !(sr > 0) {
		return DefaultSamplingRate
	}
	return sr
}

// BuildTimeAxis returns the time in seconds of each of length samples taken
// at samplingRate, i.e. element i is i/samplingRate.
func BuildTimeAxis(length int, samplingRate float64) []float64 {
	if length <= 0 {
		return []float64{}
	}
	dt := 1 / resolveSamplingRate(samplingRate)
	t := make([]float64, length)
	for i := range t {
		t[i] = float64(i) * dt
	}
	return t
}
