// SPDX-License-Identifier: MIT
package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Activity labels produced by Classify.
const (
	LabelGrip   = "Grip"
	LabelRest   = "Rest"
	LabelNoData = "No data"
)

const (
	// DefaultThresholdRMS is the RMS level at or above which a window is
	// labelled LabelGrip.
	DefaultThresholdRMS = 0.2
	// DefaultAnalysisWindowSeconds is the length of the leading window that
	// Classify inspects.
	DefaultAnalysisWindowSeconds = 0.5
)

// ClassifyOptions tunes Classify. Unset fields take the package defaults.
type ClassifyOptions struct {
	ThresholdRMS          Param `json:"thresholdRms"`
	AnalysisWindowSeconds Param `json:"analysisWindowSeconds"`
}

// ClassificationResult is the activity decision for a channel.
type ClassificationResult struct {
	Label     string  `json:"label"`
	RMS       float64 `json:"rms"`
	Threshold float64 `json:"threshold"`
}

// ComputeRMS returns sqrt(sum(x²)/n), or 0 for an empty slice.
func ComputeRMS(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(data, data) / float64(len(data)))
}

// Classify labels data as LabelGrip or LabelRest by comparing the RMS of its
// leading window against the threshold. Only the first
// min(len(data), floor(window*sr)) samples are inspected. A window that
// rounds to zero samples yields RMS 0.
func Classify(data []float64, samplingRate float64, opts ClassifyOptions) ClassificationResult {
	if len(data) == 0 {
		return ClassificationResult{Label: LabelNoData}
	}

	threshold := opts.ThresholdRMS.Or(DefaultThresholdRMS)
	sr := resolveSamplingRate(samplingRate)
	win := opts.AnalysisWindowSeconds.Or(DefaultAnalysisWindowSeconds)

	size := len(data)
	if n := math.Floor(win * sr); n < float64(size) {
		size = max(0, int(n))
	}

	rms := ComputeRMS(data[:size])
	label := LabelRest
	if rms >= threshold {
		label = LabelGrip
	}

	return ClassificationResult{Label: label, RMS: rms, Threshold: threshold}
}
