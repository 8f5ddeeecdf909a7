// SPDX-License-Identifier: MIT
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"signallab/internal/analysis"
	"signallab/internal/config"
	"signallab/pkg/build"
)

// ParseArgs parses os.Args into Options. It returns Options with an empty
// Command when cobra handled the invocation itself (help, version).
func ParseArgs() (*config.Options, error) {
	return parse(os.Args[1:])
}

func parse(args []string) (*config.Options, error) {
	buildInfo := build.GetBuildFlags()
	options := config.NewOptions()

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			options.SeedSet = cmd.Flags().Changed("seed")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetVersionTemplate(buildInfo.String() + "\n")

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Serve command
	serveCmd := &cobra.Command{
		Use:   config.CommandServe,
		Short: "Serve the dataset and analysis HTTP API",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = config.CommandServe
		},
	}
	serveCmd.Flags().StringVarP(&options.Serve.Addr, "addr", "a", "",
		"Listen address, overrides server.addr")
	rootCmd.AddCommand(serveCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   config.CommandList,
		Short: "List the built-in datasets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = config.CommandList
		},
	}
	rootCmd.AddCommand(listCmd)

	// Analyze command
	var lowCut, highCut, threshold, window float64
	analyzeCmd := &cobra.Command{
		Use:   config.CommandAnalyze,
		Short: "Filter, transform and classify one channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Analyze.Filter != "" {
				if _, err := analysis.ParseFilterType(options.Analyze.Filter); err != nil {
					return err
				}
			}
			if options.Analyze.Method != "" {
				if _, err := analysis.ParseSpectrumMethod(options.Analyze.Method); err != nil {
					return err
				}
			}
			flags := cmd.Flags()
			if flags.Changed("low-cut") {
				options.Analyze.LowCutHz = analysis.Value(lowCut)
			}
			if flags.Changed("high-cut") {
				options.Analyze.HighCutHz = analysis.Value(highCut)
			}
			if flags.Changed("threshold") {
				options.Analyze.ThresholdRMS = analysis.Value(threshold)
			}
			if flags.Changed("window") {
				options.Analyze.AnalysisWindowSeconds = analysis.Value(window)
			}
			options.Command = config.CommandAnalyze
			return nil
		},
	}
	af := analyzeCmd.Flags()
	af.StringVarP(&options.Analyze.Input, "input", "i", "",
		"Dataset file to analyze (.json or delimited text)")
	af.StringVarP(&options.Analyze.DatasetID, "dataset", "d", "",
		"Built-in dataset id, used when --input is not given")
	af.StringVar(&options.Analyze.ChannelID, "channel", "",
		"Channel id (default: first channel)")
	af.StringVarP(&options.Analyze.Filter, "filter", "f", "",
		"Filter type: none, lowpass, highpass or bandpass")
	af.Float64Var(&lowCut, "low-cut", config.DefaultLowCutHz, "High-pass corner in Hz")
	af.Float64Var(&highCut, "high-cut", config.DefaultHighCutHz, "Low-pass corner in Hz")
	af.Float64VarP(&threshold, "threshold", "t", analysis.DefaultThresholdRMS,
		"RMS level at or above which activity is labelled Grip")
	af.Float64VarP(&window, "window", "w", analysis.DefaultAnalysisWindowSeconds,
		"Classifier window in seconds")
	af.StringVarP(&options.Analyze.Method, "method", "m", "",
		"Spectrum method: direct or fft")
	af.BoolVar(&options.Analyze.JSON, "json", false, "Print the full result as JSON")
	analyzeCmd.MarkFlagsMutuallyExclusive("input", "dataset")
	rootCmd.AddCommand(analyzeCmd)

	// Generate command
	generateCmd := &cobra.Command{
		Use:   config.CommandGenerate,
		Short: "Write the built-in synthetic datasets as JSON",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = config.CommandGenerate
		},
	}
	generateCmd.Flags().StringVarP(&options.Generate.DatasetID, "dataset", "d", "",
		"Dataset id to export (default: all)")
	generateCmd.Flags().StringVarP(&options.Generate.Output, "output", "o", "",
		"Output file (default: stdout)")
	rootCmd.AddCommand(generateCmd)

	// Global Configuration
	rootCmd.PersistentFlags().StringVarP(&options.ConfigPath, "config", "c", "",
		"Path to a YAML config file (default: ./config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&options.EnvFile, "env-file", "",
		"Path to a .env file (default: ./.env if present)")
	rootCmd.PersistentFlags().Uint64Var(&options.Seed, "seed", config.DefaultSeed,
		"Seed for the synthetic datasets, overrides synthetic.seed")

	// Debug Configuration
	rootCmd.PersistentFlags().BoolVarP(&options.Verbose, "verbose", "v", config.DefaultVerbosity,
		"Show verbose output")

	// Execute the CLI
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	return options, nil
}
