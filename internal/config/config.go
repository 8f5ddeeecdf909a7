// SPDX-License-Identifier: MIT
package config

import "signallab/internal/analysis"

// Core configuration constants that define the boundaries and defaults for
// the analysis service.
const (
	DefaultLogLevel       = "info"
	DefaultAddr           = ":4000"
	DefaultFilterType     = "none"
	DefaultLowCutHz       = 20.0
	DefaultHighCutHz      = 450.0
	DefaultSpectrumMethod = "direct"
	DefaultSpectrumWindow = "none"
	DefaultWorkers        = 0 // Serial direct transform.
	DefaultSeed           = 42
	DefaultVerbosity      = false

	DefaultMaxUploadBytes = 32 << 20
	DefaultWSQueue        = 256

	// Hardening limits.
	MinSpectrumPoints = 2
	MaxWorkers        = 256
)

// Commands understood by the CLI.
const (
	CommandServe    = "serve"
	CommandList     = "list"
	CommandAnalyze  = "analyze"
	CommandGenerate = "generate"
)

// Options holds the runtime options collected from command line flags. Values
// left unset fall back to the YAML configuration.
type Options struct {
	ConfigPath string // Path to the YAML config file
	EnvFile    string // Optional .env file loaded before overrides
	Verbose    bool   // Enable verbose logging
	Command    string // Subcommand to execute

	Seed    uint64 // Synthetic dataset seed
	SeedSet bool   // Seed was given on the command line

	Serve    ServeOptions
	Analyze  AnalyzeOptions
	Generate GenerateOptions
}

// ServeOptions configures the HTTP server command.
type ServeOptions struct {
	Addr string // Overrides server.addr when non-empty
}

// AnalyzeOptions configures a one-shot analysis run.
type AnalyzeOptions struct {
	Input     string // Dataset file (.json or delimited text)
	DatasetID string // Built-in dataset id, used when Input is empty
	ChannelID string // Channel to analyze; empty selects the first
	Filter    string // Filter type name; empty uses the configured one
	Method    string // Spectrum method; empty uses the configured one
	JSON      bool   // Emit the full result as JSON

	LowCutHz              analysis.Param
	HighCutHz             analysis.Param
	ThresholdRMS          analysis.Param
	AnalysisWindowSeconds analysis.Param
}

// GenerateOptions configures synthetic dataset export.
type GenerateOptions struct {
	DatasetID string // Empty exports every built-in dataset
	Output    string // Destination file; empty writes to stdout
}

// NewOptions creates an Options instance with default values.
func NewOptions() *Options {
	return &Options{
		Verbose: DefaultVerbosity,
		Seed:    DefaultSeed,
	}
}
