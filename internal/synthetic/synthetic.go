// SPDX-License-Identifier: MIT

// Package synthetic generates the built-in demonstration datasets. Every
// generator owns its random source, so equal seeds give identical data.
package synthetic

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"signallab/internal/dataset"
)

// Dataset ids of the built-in samples.
const (
	EMGGripRestID = "emg_grip_rest"
	EEGAlphaID    = "eeg_alpha"
)

// DefaultSeed is used when no seed is configured.
const DefaultSeed uint64 = 42

// Generator produces synthetic recordings from a private random stream.
type Generator struct {
	rng    *rand.Rand
	normal distuv.Normal
}

// New returns a Generator whose output is fully determined by seed.
func New(seed uint64) *Generator {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return &Generator{
		rng:    rng,
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: rng},
	}
}

// randn draws from the standard normal distribution.
func (g *Generator) randn() float64 {
	return g.normal.Rand()
}

// Per-sample annotations carried in Dataset.Labels.
const (
	LabelGrip     = "grip"
	LabelRest     = "rest"
	LabelEEGAlpha = "eeg-alpha"
)

// EMGGripRest returns 3 s of single-channel forearm EMG at 1000 Hz: low-level
// noise throughout, with a 50 Hz grip burst between 1 s and 2 s. Each sample
// is labelled grip or rest.
func (g *Generator) EMGGripRest() *dataset.Dataset {
	const (
		sr       = 1000.0
		duration = 3.0
	)
	n := int(sr * duration)
	data := make([]float64, n)
	labels := make([]string, n)
	for i := range data {
		t := float64(i) / sr
		grip := t > 1 && t < 2
		v := 0.0
		if grip {
			v += math.Sin(2*math.Pi*50*t)*0.8 + g.randn()*0.1
		}
		v += g.randn() * 0.05
		data[i] = v
		labels[i] = LabelRest
		if grip {
			labels[i] = LabelGrip
		}
	}

	return &dataset.Dataset{
		ID:           EMGGripRestID,
		Name:         "Synthetic EMG: Grip vs Rest",
		Type:         "EMG",
		SamplingRate: sr,
		Channels:     []dataset.Channel{{ID: "ch1", Label: "EMG Channel 1", Data: data}},
		Labels:       labels,
		Meta: map[string]any{
			"description": "Simulated forearm EMG with a grip burst between 1 and 2 seconds.",
		},
	}
}

// EEGAlpha returns 4 s of single-channel EEG at 250 Hz dominated by a 10 Hz
// alpha rhythm over a slow 1 Hz drift.
func (g *Generator) EEGAlpha() *dataset.Dataset {
	const (
		sr       = 250.0
		duration = 4.0
	)
	n := int(sr * duration)
	data := make([]float64, n)
	labels := make([]string, n)
	for i := range data {
		t := float64(i) / sr
		labels[i] = LabelEEGAlpha
		data[i] = 0.5*math.Sin(2*math.Pi*10*t) +
			0.1*math.Sin(2*math.Pi*1*t) +
			g.randn()*0.05
	}

	return &dataset.Dataset{
		ID:           EEGAlphaID,
		Name:         "Synthetic EEG: Alpha Rhythm",
		Type:         "EEG",
		SamplingRate: sr,
		Channels:     []dataset.Channel{{ID: "ch1", Label: "EEG Channel (Occipital-like)", Data: data}},
		Labels:       labels,
		Meta: map[string]any{
			"description": "Simulated EEG with a dominant 10 Hz alpha component.",
		},
	}
}

// Datasets returns every built-in dataset in listing order.
func (g *Generator) Datasets() []*dataset.Dataset {
	return []*dataset.Dataset{g.EMGGripRest(), g.EEGAlpha()}
}

// ByID generates the dataset with the given id.
func (g *Generator) ByID(id string) (*dataset.Dataset, bool) {
	switch id {
	case EMGGripRestID:
		return g.EMGGripRest(), true
	case EEGAlphaID:
		return g.EEGAlpha(), true
	default:
		return nil, false
	}
}
