// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig("")
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig("nonexistent.yaml")
	if err == nil {
		t.Errorf("expected error for missing file, got nil")
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLoadConfig_UnmarshalError(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, ":\n:bad")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Error("expected unmarshal error, got nil or wrong error")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Addr != DefaultAddr || cfg.Pipeline.Filter.Type != "none" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Pipeline.Filter.LowCutHz != 20 || cfg.Pipeline.Filter.HighCutHz != 450 {
		t.Errorf("filter defaults = %+v", cfg.Pipeline.Filter)
	}
	if cfg.Pipeline.ThresholdRMS != 0.2 || cfg.Pipeline.AnalysisWindowSeconds != 0.5 {
		t.Errorf("classifier defaults = %v, %v", cfg.Pipeline.ThresholdRMS, cfg.Pipeline.AnalysisWindowSeconds)
	}
	if cfg.Pipeline.MaxSpectrumPoints != 4096 {
		t.Errorf("MaxSpectrumPoints = %d", cfg.Pipeline.MaxSpectrumPoints)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, `
log_level: debug
server:
  addr: "127.0.0.1:9000"
  allowed_origins: ["http://localhost:5173"]
pipeline:
  filter:
    type: bandpass
    low_cut_hz: 10
    high_cut_hz: 200
  spectrum_method: fft
  spectrum_window: hann
  workers: 4
  max_channel_length: 100000
synthetic:
  seed: 7
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.Server.Addr != "127.0.0.1:9000" || cfg.Synthetic.Seed != 7 {
		t.Errorf("loaded = %+v", cfg)
	}
	if len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	// Unset keys keep their defaults.
	if cfg.Pipeline.ThresholdRMS != 0.2 || cfg.Server.WSQueue != DefaultWSQueue {
		t.Errorf("defaults lost: %+v", cfg.Pipeline)
	}

	a := cfg.Pipeline.SpectrumAnalyzer()
	if a.Method.String() != "fft" || a.Window.String() != "hann" || a.Workers != 4 {
		t.Errorf("SpectrumAnalyzer() = %+v", a)
	}
	f := cfg.Pipeline.FilterConfig()
	if low, _ := f.LowCutHz.Get(); f.Type.String() != "bandpass" || low != 10 {
		t.Errorf("FilterConfig() = %+v", f)
	}
	if r := cfg.Pipeline.Runner(); r.MaxChannelLength != 100000 {
		t.Errorf("Runner().MaxChannelLength = %d", r.MaxChannelLength)
	}
	if v, ok := cfg.Pipeline.ClassifyOptions().ThresholdRMS.Get(); !ok || v != 0.2 {
		t.Errorf("ClassifyOptions().ThresholdRMS = %v, %v", v, ok)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"Bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"Empty addr", func(c *Config) { c.Server.Addr = " " }, "server.addr"},
		{"Bad upload size", func(c *Config) { c.Server.MaxUploadBytes = 0 }, "max_upload_bytes"},
		{"Bad filter", func(c *Config) { c.Pipeline.Filter.Type = "notch" }, "filter.type"},
		{"Negative threshold", func(c *Config) { c.Pipeline.ThresholdRMS = -1 }, "threshold_rms"},
		{"Zero window", func(c *Config) { c.Pipeline.AnalysisWindowSeconds = 0 }, "analysis_window_seconds"},
		{"Tiny spectrum", func(c *Config) { c.Pipeline.MaxSpectrumPoints = 1 }, "max_spectrum_points"},
		{"Negative channel limit", func(c *Config) { c.Pipeline.MaxChannelLength = -1 }, "max_channel_length"},
		{"Bad method", func(c *Config) { c.Pipeline.SpectrumMethod = "wavelet" }, "spectrum_method"},
		{"Bad window", func(c *Config) { c.Pipeline.SpectrumWindow = "kaiser" }, "spectrum_window"},
		{"Too many workers", func(c *Config) { c.Pipeline.Workers = MaxWorkers + 1 }, "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate(Default()) = %v", err)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ENV_SERVER_ADDR", ":8080")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("ENV_SYNTHETIC_SEED", "99")
	t.Setenv("ENV_WORKERS", "not-a-number")
	t.Setenv("ENV_SPECTRUM_METHOD", "fft")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Synthetic.Seed != 99 || cfg.Pipeline.SpectrumMethod != "fft" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Pipeline.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want unparseable override ignored", cfg.Pipeline.Workers)
	}
}

func TestLoadConfig_InvalidEnvOverride(t *testing.T) {
	t.Setenv("ENV_LOG_LEVEL", "chatty")
	_, err := LoadConfig("")
	if err == nil || !strings.Contains(err.Error(), "invalid default configuration") {
		t.Errorf("LoadConfig() error = %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("LoadEnvFile(missing) = %v, want nil", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SIGNALLAB_TEST_KEY=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SIGNALLAB_TEST_KEY", "")
	os.Unsetenv("SIGNALLAB_TEST_KEY")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("SIGNALLAB_TEST_KEY"); got != "from-file" {
		t.Errorf("SIGNALLAB_TEST_KEY = %q, want from-file", got)
	}
}

func TestSplitOrigins(t *testing.T) {
	t.Parallel()
	if got := SplitOrigins(""); len(got) != 0 {
		t.Errorf("SplitOrigins(\"\") = %v", got)
	}
	if got := SplitOrigins(" a ,b,, "); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("SplitOrigins() = %v", got)
	}
}
