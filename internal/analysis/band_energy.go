// SPDX-License-Identifier: MIT
package analysis

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// FrequencyBand defines the name and frequency range [LowHz, HighHz) for an
// energy band.
type FrequencyBand struct {
	Name   string  `json:"name"`
	LowHz  float64 `json:"lowHz"`
	HighHz float64 `json:"highHz"`
}

// BandEnergy is the mean squared magnitude of the spectrum bins that fall
// inside a band. RMS is its square root.
type BandEnergy struct {
	FrequencyBand
	Energy float64 `json:"energy"`
	RMS    float64 `json:"rms"`
	Bins   int     `json:"bins"`
}

// EEGBands returns the classic EEG rhythm bands.
func EEGBands() []FrequencyBand {
	return []FrequencyBand{
		{Name: "delta", LowHz: 0.5, HighHz: 4},
		{Name: "theta", LowHz: 4, HighHz: 8},
		{Name: "alpha", LowHz: 8, HighHz: 13},
		{Name: "beta", LowHz: 13, HighHz: 30},
		{Name: "gamma", LowHz: 30, HighHz: 100},
	}
}

// EMGBands returns coarse bands over the surface EMG range.
func EMGBands() []FrequencyBand {
	return []FrequencyBand{
		{Name: "low", LowHz: 20, HighHz: 60},
		{Name: "mid", LowHz: 60, HighHz: 150},
		{Name: "high", LowHz: 150, HighHz: 450},
	}
}

// BandsFor picks a band set from a dataset type such as "EEG" or "EMG".
// Other types get no bands.
func BandsFor(datasetType string) []FrequencyBand {
	switch strings.ToUpper(strings.TrimSpace(datasetType)) {
	case "EEG":
		return EEGBands()
	case "EMG":
		return EMGBands()
	default:
		return nil
	}
}

// BandEnergies takes the mean squared magnitude of the bins in each band. A
// bin is assigned to the first band that contains it. Bands with no bins
// report zero energy.
func BandEnergies(sp SpectrumResult, bands []FrequencyBand) []BandEnergy {
	members := make([][]float64, len(bands))
	for k, freq := range sp.Freqs {
		for i, b := range bands {
			if freq >= b.LowHz && freq < b.HighHz {
				members[i] = append(members[i], sp.Magnitudes[k])
				break
			}
		}
	}

	out := make([]BandEnergy, len(bands))
	for i, b := range bands {
		out[i].FrequencyBand = b
		mags := members[i]
		if len(mags) == 0 {
			continue
		}
		out[i].Bins = len(mags)
		out[i].Energy = floats.Dot(mags, mags) / float64(len(mags))
		out[i].RMS = math.Sqrt(out[i].Energy)
	}
	return out
}

// Dominant returns the band with the highest energy, or false if none has
// any.
func Dominant(energies []BandEnergy) (BandEnergy, bool) {
	best := -1
	for i, e := range energies {
		if e.Bins == 0 || math.IsNaN(e.Energy) {
			continue
		}
		if best < 0 || e.Energy > energies[best].Energy {
			best = i
		}
	}
	if best < 0 {
		return BandEnergy{}, false
	}
	return energies[best], true
}
