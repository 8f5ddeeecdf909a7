// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"signallab/internal/analysis"
	"signallab/internal/log"
)

// Config represents the main application configuration structure, loaded from YAML.
type Config struct {
	LogLevel  string          `yaml:"log_level"` // Logging level (e.g., "debug", "info", "warn", "error").
	Server    ServerConfig    `yaml:"server"`    // HTTP service settings.
	Pipeline  PipelineConfig  `yaml:"pipeline"`  // Analysis defaults and limits.
	Synthetic SyntheticConfig `yaml:"synthetic"` // Built-in dataset generation.
}

// ServerConfig holds settings for the HTTP service.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`             // Listen address (e.g., ":4000").
	AllowedOrigins []string      `yaml:"allowed_origins"`  // CORS allow-list; empty allows every origin.
	ReadTimeout    time.Duration `yaml:"read_timeout"`     // Maximum duration for reading a request.
	WriteTimeout   time.Duration `yaml:"write_timeout"`    // Maximum duration before timing out a response.
	MaxUploadBytes int64         `yaml:"max_upload_bytes"` // Largest accepted upload body.
	WSQueue        int           `yaml:"ws_queue"`         // WebSocket broadcast queue length.
}

// FilterSettings is the default filter applied when a request names none.
type FilterSettings struct {
	Type      string  `yaml:"type"`        // none, lowpass, highpass or bandpass.
	LowCutHz  float64 `yaml:"low_cut_hz"`  // High-pass corner.
	HighCutHz float64 `yaml:"high_cut_hz"` // Low-pass corner.
}

// PipelineConfig holds analysis defaults and hardening limits.
type PipelineConfig struct {
	Filter                FilterSettings `yaml:"filter"`
	ThresholdRMS          float64        `yaml:"threshold_rms"`           // Grip/Rest decision level.
	AnalysisWindowSeconds float64        `yaml:"analysis_window_seconds"` // Leading window inspected by the classifier.
	MaxSpectrumPoints     int            `yaml:"max_spectrum_points"`     // Transform window cap.
	MaxChannelLength      int            `yaml:"max_channel_length"`      // Truncate longer channels (0 for unlimited).
	SpectrumMethod        string         `yaml:"spectrum_method"`         // direct or fft.
	SpectrumWindow        string         `yaml:"spectrum_window"`         // Taper applied before the transform (e.g., "none", "hann").
	Workers               int            `yaml:"workers"`                 // Goroutines for the direct transform (0 for serial).
}

// SyntheticConfig holds settings for the built-in datasets.
type SyntheticConfig struct {
	Seed uint64 `yaml:"seed"` // Random seed; equal seeds give identical datasets.
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: DefaultLogLevel,
		Server: ServerConfig{
			Addr:           DefaultAddr,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   60 * time.Second,
			MaxUploadBytes: DefaultMaxUploadBytes,
			WSQueue:        DefaultWSQueue,
		},
		Pipeline: PipelineConfig{
			Filter: FilterSettings{
				Type:      DefaultFilterType,
				LowCutHz:  DefaultLowCutHz,
				HighCutHz: DefaultHighCutHz,
			},
			ThresholdRMS:          analysis.DefaultThresholdRMS,
			AnalysisWindowSeconds: analysis.DefaultAnalysisWindowSeconds,
			MaxSpectrumPoints:     analysis.MaxSpectrumPoints,
			MaxChannelLength:      0,
			SpectrumMethod:        DefaultSpectrumMethod,
			SpectrumWindow:        DefaultSpectrumWindow,
			Workers:               DefaultWorkers,
		},
		Synthetic: SyntheticConfig{Seed: DefaultSeed},
	}
}

// LoadConfig loads configuration from a YAML file specified by path. If path
// is empty, it searches default locations ("config.yaml"). If no file is
// found, it uses built-in defaults. After loading defaults or from file, it
// applies environment variable overrides and validates the final
// configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		candidates := []string{"config.yaml", "signallab.yaml"}
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Apply environment variable overrides AFTER loading from file.
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		if path == "" {
			return nil, fmt.Errorf("invalid default configuration: %w", err)
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from a .env file into the process
// environment without overwriting variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}
	log.Debugf("configuration: Loaded environment from %s", path)
	return nil
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("log_level '%s' is not a known level", c.LogLevel)
	}

	// Server Validation
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr must be set")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	if c.Server.WSQueue <= 0 {
		return fmt.Errorf("server.ws_queue must be positive")
	}

	// Pipeline Validation
	p := c.Pipeline
	if _, err := analysis.ParseFilterType(p.Filter.Type); err != nil {
		return fmt.Errorf("pipeline.filter.type: %w", err)
	}
	if !finite(p.Filter.LowCutHz) || !finite(p.Filter.HighCutHz) {
		return fmt.Errorf("pipeline.filter cutoffs must be finite")
	}
	if !finite(p.ThresholdRMS) || p.ThresholdRMS < 0 {
		return fmt.Errorf("pipeline.threshold_rms must be a non-negative number")
	}
	if !finite(p.AnalysisWindowSeconds) || p.AnalysisWindowSeconds <= 0 {
		return fmt.Errorf("pipeline.analysis_window_seconds must be positive")
	}
	if p.MaxSpectrumPoints < MinSpectrumPoints {
		return fmt.Errorf("pipeline.max_spectrum_points must be at least %d", MinSpectrumPoints)
	}
	if p.MaxChannelLength < 0 {
		return fmt.Errorf("pipeline.max_channel_length must not be negative")
	}
	if _, err := analysis.ParseSpectrumMethod(p.SpectrumMethod); err != nil {
		return fmt.Errorf("pipeline.spectrum_method: %w", err)
	}
	if _, err := analysis.ParseWindowFunc(p.SpectrumWindow); err != nil {
		return fmt.Errorf("pipeline.spectrum_window: %w", err)
	}
	if p.Workers < 0 || p.Workers > MaxWorkers {
		return fmt.Errorf("pipeline.workers must be between 0 and %d", MaxWorkers)
	}

	return nil
}

// SpectrumAnalyzer builds the analyzer described by the pipeline settings.
// The settings must have passed Validate.
func (p PipelineConfig) SpectrumAnalyzer() analysis.SpectrumAnalyzer {
	method, _ := analysis.ParseSpectrumMethod(p.SpectrumMethod)
	win, _ := analysis.ParseWindowFunc(p.SpectrumWindow)
	return analysis.SpectrumAnalyzer{
		Method:    method,
		Window:    win,
		MaxPoints: p.MaxSpectrumPoints,
		Workers:   p.Workers,
	}
}

// FilterConfig returns the default filter stage.
func (p PipelineConfig) FilterConfig() analysis.FilterConfig {
	ft, _ := analysis.ParseFilterType(p.Filter.Type)
	return analysis.FilterConfig{
		Type:      ft,
		LowCutHz:  analysis.Value(p.Filter.LowCutHz),
		HighCutHz: analysis.Value(p.Filter.HighCutHz),
	}
}

// ClassifyOptions returns the default classifier settings.
func (p PipelineConfig) ClassifyOptions() analysis.ClassifyOptions {
	return analysis.ClassifyOptions{
		ThresholdRMS:          analysis.Value(p.ThresholdRMS),
		AnalysisWindowSeconds: analysis.Value(p.AnalysisWindowSeconds),
	}
}

// Runner builds the pipeline runner described by the settings.
func (p PipelineConfig) Runner() *analysis.Runner {
	return &analysis.Runner{
		Spectrum:         p.SpectrumAnalyzer(),
		MaxChannelLength: p.MaxChannelLength,
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// applyEnvOverrides replaces file values with ENV_* variables. Unparseable
// values are ignored with a warning.
func (cfg *Config) applyEnvOverrides() {
	// ENV_LOG_LEVEL
	if val, ok := os.LookupEnv("ENV_LOG_LEVEL"); ok {
		cfg.LogLevel = val
		log.Debugf("configuration: Overriding log_level from env: %s", val)
	}

	// ENV_SERVER_{...}
	// These are specific to the HTTP service.

	// ENV_SERVER_ADDR
	if val, ok := os.LookupEnv("ENV_SERVER_ADDR"); ok {
		cfg.Server.Addr = val
		log.Debugf("configuration: Overriding server.addr from env: %s", val)
	}
	// ALLOWED_ORIGINS is honoured for compatibility with existing deployments;
	// ENV_ALLOWED_ORIGINS wins when both are set.
	for _, key := range []string{"ALLOWED_ORIGINS", "ENV_ALLOWED_ORIGINS"} {
		if val, ok := os.LookupEnv(key); ok {
			cfg.Server.AllowedOrigins = SplitOrigins(val)
			log.Debugf("configuration: Overriding server.allowed_origins from %s: %v", key, cfg.Server.AllowedOrigins)
		}
	}

	// ENV_PIPELINE_{...}

	// ENV_SPECTRUM_METHOD
	if val, ok := os.LookupEnv("ENV_SPECTRUM_METHOD"); ok {
		cfg.Pipeline.SpectrumMethod = val
		log.Debugf("configuration: Overriding pipeline.spectrum_method from env: %s", val)
	}
	// ENV_MAX_CHANNEL_LENGTH
	if val, ok := os.LookupEnv("ENV_MAX_CHANNEL_LENGTH"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Pipeline.MaxChannelLength = n
			log.Debugf("configuration: Overriding pipeline.max_channel_length from env: %d", n)
		} else {
			log.Warnf("configuration: Ignoring ENV_MAX_CHANNEL_LENGTH=%q: %v", val, err)
		}
	}
	// ENV_WORKERS
	if val, ok := os.LookupEnv("ENV_WORKERS"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Pipeline.Workers = n
			log.Debugf("configuration: Overriding pipeline.workers from env: %d", n)
		} else {
			log.Warnf("configuration: Ignoring ENV_WORKERS=%q: %v", val, err)
		}
	}

	// ENV_SYNTHETIC_SEED
	if val, ok := os.LookupEnv("ENV_SYNTHETIC_SEED"); ok {
		if n, err := strconv.ParseUint(val, 10, 64); err == nil {
			cfg.Synthetic.Seed = n
			log.Debugf("configuration: Overriding synthetic.seed from env: %d", n)
		} else {
			log.Warnf("configuration: Ignoring ENV_SYNTHETIC_SEED=%q: %v", val, err)
		}
	}
}

// SplitOrigins parses a comma-separated origin list, trimming blanks.
func SplitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
