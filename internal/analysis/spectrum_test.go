// SPDX-License-Identifier: MIT
package analysis

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"signallab/pkg/utils"
)

func TestComputeSpectrum_Empty(t *testing.T) {
	res := ComputeSpectrum(nil, 1000)
	if res.Freqs == nil || res.Magnitudes == nil {
		t.Fatal("ComputeSpectrum(empty) returned nil slices, want empty")
	}
	if len(res.Freqs) != 0 || len(res.Magnitudes) != 0 {
		t.Errorf("ComputeSpectrum(empty) = %+v, want empty", res)
	}
}

func TestComputeSpectrum_Length(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"Single sample", 1, 0},
		{"Two samples", 2, 1},
		{"Odd", 11, 5},
		{"Even", 1000, 500},
		{"Capped", MaxSpectrumPoints + 904, MaxSpectrumPoints / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ComputeSpectrum(make([]float64, tt.n), 1000)
			if len(res.Freqs) != tt.want || len(res.Magnitudes) != tt.want {
				t.Errorf("len = (%d, %d), want %d", len(res.Freqs), len(res.Magnitudes), tt.want)
			}
		})
	}
}

func TestComputeSpectrum_BinFrequencies(t *testing.T) {
	res := ComputeSpectrum(make([]float64, 8), 250)
	want := []float64{0, 31.25, 62.5, 93.75}
	if !reflect.DeepEqual(res.Freqs, want) {
		t.Errorf("Freqs = %v, want %v", res.Freqs, want)
	}

	capped := ComputeSpectrum(make([]float64, MaxSpectrumPoints*2), 1000)
	if got := capped.Freqs[1]; got != 1000.0/MaxSpectrumPoints {
		t.Errorf("capped bin spacing = %v, want sr/%d", got, MaxSpectrumPoints)
	}
}

func TestComputeSpectrum_SinePeak(t *testing.T) {
	const sr, n = 1000.0, 1000
	data := utils.GenerateSineWave(n, sr, 50, 1)
	res := ComputeSpectrum(data, sr)

	peak := utils.FindPeakBin(res.Magnitudes, 0, len(res.Magnitudes)-1)
	if res.Freqs[peak] != 50 {
		t.Errorf("peak frequency = %v, want 50", res.Freqs[peak])
	}
	// A full-scale sine with an integer number of cycles puts n/2 in its bin.
	if !utils.AlmostEqual(res.Magnitudes[peak], n/2, 1e-6) {
		t.Errorf("peak magnitude = %v, want %v", res.Magnitudes[peak], n/2)
	}
}

func TestSpectrumResult_PeakSkipsDC(t *testing.T) {
	data := utils.GenerateSineWave(500, 250, 10, 0.5)
	for i := range data {
		data[i] += 5
	}
	freq, _, ok := ComputeSpectrum(data, 250).Peak()
	if !ok || freq != 10 {
		t.Errorf("Peak() = %v, %v, want 10 Hz", freq, ok)
	}
	if _, _, ok := (SpectrumResult{}).Peak(); ok {
		t.Error("Peak() of empty spectrum reported ok")
	}
}

func TestSpectrumAnalyzer_FFTMatchesDirect(t *testing.T) {
	data := utils.GenerateComplexWave(750, 1000)
	direct := SpectrumAnalyzer{Method: MethodDirect}.Compute(data, 1000)
	fft := SpectrumAnalyzer{Method: MethodFFT}.Compute(data, 1000)

	if !reflect.DeepEqual(direct.Freqs, fft.Freqs) {
		t.Fatal("fft and direct frequency axes differ")
	}
	for k := range direct.Magnitudes {
		if !utils.AlmostEqual(direct.Magnitudes[k], fft.Magnitudes[k], 1e-6) {
			t.Fatalf("bin %d: fft = %v, direct = %v", k, fft.Magnitudes[k], direct.Magnitudes[k])
		}
	}
}

func TestSpectrumAnalyzer_WorkersMatchSerial(t *testing.T) {
	data := utils.GenerateComplexWave(1001, 1000)
	serial := SpectrumAnalyzer{}.Compute(data, 1000)

	for _, workers := range []int{2, 3, 8, 1000} {
		parallel := SpectrumAnalyzer{Workers: workers}.Compute(data, 1000)
		if !reflect.DeepEqual(serial, parallel) {
			t.Errorf("Workers=%d result differs from serial", workers)
		}
	}
}

func TestSpectrumAnalyzer_MaxPoints(t *testing.T) {
	res := SpectrumAnalyzer{MaxPoints: 64}.Compute(make([]float64, 1000), 1000)
	if len(res.Magnitudes) != 32 {
		t.Errorf("len = %d, want 32", len(res.Magnitudes))
	}
}

func TestSpectrumAnalyzer_WindowLeavesInputAlone(t *testing.T) {
	data := utils.GenerateSineWave(256, 1000, 62.5, 1)
	orig := append([]float64(nil), data...)

	plain := SpectrumAnalyzer{}.Compute(data, 1000)
	hann := SpectrumAnalyzer{Window: Hann}.Compute(data, 1000)

	if !reflect.DeepEqual(data, orig) {
		t.Error("windowing mutated the input")
	}
	if len(hann.Magnitudes) != len(plain.Magnitudes) {
		t.Fatalf("len mismatch %d vs %d", len(hann.Magnitudes), len(plain.Magnitudes))
	}
	if reflect.DeepEqual(hann.Magnitudes, plain.Magnitudes) {
		t.Error("Hann window had no effect")
	}
}

func TestSpectrumAnalyzer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{0, 4} {
		_, err := SpectrumAnalyzer{Workers: workers}.ComputeContext(ctx, make([]float64, 128), 1000)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Workers=%d error = %v, want context.Canceled", workers, err)
		}
	}
}

func TestParseWindowFunc(t *testing.T) {
	tests := []struct {
		in      string
		want    WindowFunc
		wantErr bool
	}{
		{"", NoWindow, false},
		{"none", NoWindow, false},
		{"Hann", Hann, false},
		{"hanning", Hann, false},
		{"blackmannuttall", BlackmanNuttall, false},
		{"kaiser", NoWindow, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWindowFunc(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWindowFunc(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseWindowFunc(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSpectrumMethod(t *testing.T) {
	if m, err := ParseSpectrumMethod("FFT"); err != nil || m != MethodFFT {
		t.Errorf("ParseSpectrumMethod(FFT) = %v, %v", m, err)
	}
	if m, err := ParseSpectrumMethod(""); err != nil || m != MethodDirect {
		t.Errorf("ParseSpectrumMethod(\"\") = %v, %v", m, err)
	}
	if _, err := ParseSpectrumMethod("wavelet"); err == nil {
		t.Error("ParseSpectrumMethod(wavelet) expected error")
	}
	if MethodFFT.String() != "fft" || MethodDirect.String() != "direct" {
		t.Error("SpectrumMethod.String() mismatch")
	}
}

func TestComputeSpectrum_NonPositiveRate(t *testing.T) {
	res := ComputeSpectrum(make([]float64, 10), math.NaN())
	if res.Freqs[1] != DefaultSamplingRate/10 {
		t.Errorf("Freqs[1] = %v, want default-rate spacing", res.Freqs[1])
	}
}

func BenchmarkSpectrum(b *testing.B) {
	data := utils.GenerateComplexWave(MaxSpectrumPoints, 1000)
	benchmarks := []struct {
		name string
		a    SpectrumAnalyzer
	}{
		{"Direct", SpectrumAnalyzer{}},
		{"DirectWorkers4", SpectrumAnalyzer{Workers: 4}},
		{"FFT", SpectrumAnalyzer{Method: MethodFFT}},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				bm.a.Compute(data, 1000)
			}
		})
	}
}
