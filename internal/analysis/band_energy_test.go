// SPDX-License-Identifier: MIT
package analysis

import (
	"testing"

	"signallab/pkg/utils"
)

func TestBandEnergies(t *testing.T) {
	sp := SpectrumResult{
		Freqs:      []float64{0, 5, 10, 15, 40},
		Magnitudes: []float64{1, 2, 3, 4, 9},
	}
	bands := []FrequencyBand{
		{Name: "a", LowHz: 0, HighHz: 10},
		{Name: "b", LowHz: 10, HighHz: 20},
		{Name: "c", LowHz: 20, HighHz: 30},
	}

	got := BandEnergies(sp, bands)
	want := []struct {
		energy float64
		bins   int
	}{{2.5, 2}, {12.5, 2}, {0, 0}}

	for i, w := range want {
		if got[i].Name != bands[i].Name {
			t.Errorf("band %d name = %q", i, got[i].Name)
		}
		if got[i].Energy != w.energy || got[i].Bins != w.bins {
			t.Errorf("band %s = (%v, %d), want (%v, %d)", got[i].Name, got[i].Energy, got[i].Bins, w.energy, w.bins)
		}
	}
	if !utils.AlmostEqual(got[0].RMS, 1.5811388300841898, 1e-12) {
		t.Errorf("band a RMS = %v", got[0].RMS)
	}

	dom, ok := Dominant(got)
	if !ok || dom.Name != "b" {
		t.Errorf("Dominant() = %+v, %v, want band b", dom, ok)
	}
	if _, ok := Dominant(BandEnergies(SpectrumResult{}, bands)); ok {
		t.Error("Dominant() of empty spectrum reported ok")
	}
}

func TestBandsFor(t *testing.T) {
	if len(BandsFor(" eeg ")) != len(EEGBands()) {
		t.Error("BandsFor(eeg) did not return EEG bands")
	}
	if len(BandsFor("EMG")) != len(EMGBands()) {
		t.Error("BandsFor(EMG) did not return EMG bands")
	}
	if BandsFor("Custom") != nil {
		t.Error("BandsFor(Custom) should return nil")
	}
}

func TestBandEnergies_AlphaDominatesEEG(t *testing.T) {
	data := utils.GenerateSineWave(1000, 250, 10, 0.5)
	sp := ComputeSpectrum(data, 250)
	dom, ok := Dominant(BandEnergies(sp, EEGBands()))
	if !ok || dom.Name != "alpha" {
		t.Errorf("Dominant() = %q, want alpha", dom.Name)
	}
}
