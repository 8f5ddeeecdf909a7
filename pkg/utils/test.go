// SPDX-License-Identifier: MIT
package utils

import (
	"math"
	"sync"
)

// MockTransport implements the Transport interface for testing.
type MockTransport struct {
	mu       sync.Mutex
	LastData any
	Count    int
	Closed   bool
	Err      error // Returned from every Send when set.
}

// Send stores the data for later inspection instead of transmitting.
func (m *MockTransport) Send(data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastData = data
	m.Count++
	return m.Err
}

// Close marks the transport closed.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Sent returns the last payload and the number of Send calls.
func (m *MockTransport) Sent() (any, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LastData, m.Count
}

// GenerateComplexWave returns an EMG-like mixture: 50 Hz fundamental plus
// 120 Hz and 200 Hz components, peak amplitude 1.
func GenerateComplexWave(size int, sampleRate float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		tm := float64(i) / sampleRate
		buffer[i] = math.Sin(2*math.Pi*50*tm)*0.5 +
			math.Sin(2*math.Pi*120*tm)*0.3 +
			math.Sin(2*math.Pi*200*tm)*0.2
	}
	return buffer
}

// GenerateSineWave returns size samples of a sine at frequency with the given
// peak amplitude.
func GenerateSineWave(size int, sampleRate, frequency, amplitude float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = amplitude * math.Sin(2*math.Pi*frequency*t)
	}
	return buffer
}

// GenerateConstant returns size copies of v.
func GenerateConstant(size int, v float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		buffer[i] = v
	}
	return buffer
}

// FindPeakBin returns the index of the largest magnitude in
// magnitudes[startBin:endBin+1], clamping the range to the slice.
func FindPeakBin(magnitudes []float64, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}

	if startBin < 0 {
		startBin = 0
	}

	if endBin >= len(magnitudes) {
		endBin = len(magnitudes) - 1
	}

	peakBin := startBin
	peakValue := magnitudes[startBin]

	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}

	return peakBin
}

// AlmostEqual reports whether a and b differ by at most tol.
func AlmostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
