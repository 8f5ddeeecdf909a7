// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"signallab/internal/analysis"
	"signallab/internal/catalog"
	"signallab/internal/config"
	"signallab/internal/dataset"
	"signallab/internal/server"
	"signallab/internal/synthetic"
	"signallab/internal/transport"
)

// executeCommand runs the subcommand selected on the command line.
func executeCommand(ctx context.Context, opts *config.Options, cfg *config.Config, out io.Writer) error {
	switch opts.Command {
	case config.CommandServe:
		return runServe(ctx, cfg)
	case config.CommandList:
		return runList(cfg, out)
	case config.CommandAnalyze:
		return runAnalyze(ctx, opts.Analyze, cfg, out)
	case config.CommandGenerate:
		return runGenerate(opts.Generate, cfg, out)
	default:
		return fmt.Errorf("unknown command: '%s'", opts.Command)
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	cat := catalog.NewSynthetic(cfg.Synthetic.Seed)
	srv := server.New(cfg, cat, transport.NewLoggingTransport())
	return srv.ListenAndServe(ctx)
}

func runList(cfg *config.Config, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tRATE (Hz)\tCHANNELS\tSAMPLES")
	for _, s := range catalog.NewSynthetic(cfg.Synthetic.Seed).List() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%d\t%d\n",
			s.ID, s.Name, s.Type, s.SamplingRate, s.ChannelCount, s.Length)
	}
	return tw.Flush()
}

// loadDataset reads the --input file, or generates the --dataset built-in
// (the EMG sample when neither is given).
func loadDataset(opts config.AnalyzeOptions, seed uint64) (*dataset.Dataset, error) {
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return dataset.Load(opts.Input, f)
	}

	id := opts.DatasetID
	if id == "" {
		id = synthetic.EMGGripRestID
	}
	return catalog.NewSynthetic(seed).Get(id)
}

func runAnalyze(ctx context.Context, opts config.AnalyzeOptions, cfg *config.Config, out io.Writer) error {
	ds, err := loadDataset(opts, cfg.Synthetic.Seed)
	if err != nil {
		return err
	}

	pipeline := cfg.Pipeline
	if opts.Method != "" {
		pipeline.SpectrumMethod = opts.Method
	}
	filter := pipeline.FilterConfig()
	if opts.Filter != "" {
		if filter.Type, err = analysis.ParseFilterType(opts.Filter); err != nil {
			return err
		}
	}
	if opts.LowCutHz.IsSet() {
		filter.LowCutHz = opts.LowCutHz
	}
	if opts.HighCutHz.IsSet() {
		filter.HighCutHz = opts.HighCutHz
	}
	classify := pipeline.ClassifyOptions()
	if opts.ThresholdRMS.IsSet() {
		classify.ThresholdRMS = opts.ThresholdRMS
	}
	if opts.AnalysisWindowSeconds.IsSet() {
		classify.AnalysisWindowSeconds = opts.AnalysisWindowSeconds
	}

	runner := pipeline.Runner()
	runner.Transport = transport.NewLoggingTransport()
	res, err := runner.Run(ctx, analysis.Request{
		Dataset:   ds,
		ChannelID: opts.ChannelID,
		Filter:    filter,
		Classify:  classify,
	})
	if err != nil {
		return err
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return printResult(out, ds, res)
}

func printResult(out io.Writer, ds *dataset.Dataset, res *analysis.Result) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "dataset:\t%s (%s)\n", ds.ID, ds.Name)
	fmt.Fprintf(tw, "channel:\t%s, %d samples at %g Hz\n", res.ChannelID, len(res.RawData), res.SamplingRate)
	if res.Truncated {
		fmt.Fprintf(tw, "\ttruncated to the configured channel limit\n")
	}

	low, _ := res.Filter.LowCutHz.Get()
	high, _ := res.Filter.HighCutHz.Get()
	switch res.Filter.Type {
	case analysis.FilterNone:
		fmt.Fprintf(tw, "filter:\tnone\n")
	case analysis.FilterLowPass:
		fmt.Fprintf(tw, "filter:\tlowpass %g Hz\n", high)
	case analysis.FilterHighPass:
		fmt.Fprintf(tw, "filter:\thighpass %g Hz\n", low)
	default:
		fmt.Fprintf(tw, "filter:\t%s %g-%g Hz\n", res.Filter.Type, low, high)
	}

	c := res.Classification
	fmt.Fprintf(tw, "activity:\t%s (rms %.4f, threshold %.4f)\n", c.Label, c.RMS, c.Threshold)
	if f, m, ok := res.Spectrum.Peak(); ok {
		fmt.Fprintf(tw, "peak:\t%.2f Hz (magnitude %.3f)\n", f, m)
	}
	for _, b := range res.Bands {
		fmt.Fprintf(tw, "band %s:\t%g-%g Hz, rms %.4f over %d bins\n", b.Name, b.LowHz, b.HighHz, b.RMS, b.Bins)
	}
	return tw.Flush()
}

func runGenerate(opts config.GenerateOptions, cfg *config.Config, out io.Writer) error {
	gen := synthetic.New(cfg.Synthetic.Seed)

	var payload any
	if opts.DatasetID == "" {
		payload = gen.Datasets()
	} else {
		ds, ok := gen.ByID(opts.DatasetID)
		if !ok {
			return fmt.Errorf("%w: %q", catalog.ErrNotFound, opts.DatasetID)
		}
		payload = ds
	}

	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to write datasets: %w", err)
	}
	return nil
}
