// SPDX-License-Identifier: MIT
package analysis

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"signallab/internal/dataset"
	"signallab/internal/log"
	"signallab/internal/transport"
)

var (
	// ErrNoDataset is returned when a Request carries no dataset.
	ErrNoDataset = errors.New("no dataset")
	// ErrUnknownChannel is returned when the requested channel id does not
	// exist in the dataset.
	ErrUnknownChannel = errors.New("unknown channel")
)

// Pipeline defines the standard interface for components that turn a dataset
// channel into an analysis Result. Implementations must be safe for
// concurrent use.
type Pipeline interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// Request selects a channel and the parameters used to analyze it. An empty
// ChannelID selects the first channel.
type Request struct {
	Dataset   *dataset.Dataset
	ChannelID string
	Filter    FilterConfig
	Classify  ClassifyOptions
}

// Result is the full view of one analyzed channel.
type Result struct {
	DatasetID      string               `json:"datasetId"`
	ChannelID      string               `json:"channelId"`
	SamplingRate   float64              `json:"samplingRate"`
	TimeAxis       []float64            `json:"timeAxis"`
	RawData        []float64            `json:"rawData"`
	FilteredData   []float64            `json:"filteredData"`
	Spectrum       SpectrumResult       `json:"spectrum"`
	Classification ClassificationResult `json:"classification"`
	Bands          []BandEnergy         `json:"bands,omitempty"`
	Filter         FilterConfig         `json:"filter"`
	Truncated      bool                 `json:"truncated,omitempty"`
}

// Digest summarizes the result in one line.
func (r *Result) Digest() string {
	s := fmt.Sprintf("dataset=%s channel=%s samples=%d label=%s rms=%.4f",
		r.DatasetID, r.ChannelID, len(r.RawData), r.Classification.Label, r.Classification.RMS)
	if f, _, ok := r.Spectrum.Peak(); ok {
		s += fmt.Sprintf(" peak=%.2fHz", f)
	}
	return s
}

// Runner is the default Pipeline. The zero value analyzes with the direct
// transform, keeps every sample and publishes nowhere.
type Runner struct {
	Spectrum SpectrumAnalyzer
	// MaxChannelLength truncates longer channels before analysis; <= 0
	// disables the limit.
	MaxChannelLength int
	// Transport, if set, receives every successful Result.
	Transport transport.Transport
}

// Run resolves the channel, filters it and then computes the spectrum and
// the classification of the filtered signal concurrently. The time axis is
// built from the raw length, which always equals the filtered length.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Dataset == nil {
		return nil, ErrNoDataset
	}

	ch, err := resolveChannel(req.Dataset, req.ChannelID)
	if err != nil {
		return nil, err
	}

	raw := ch.Data
	truncated := false
	if r.MaxChannelLength > 0 && len(raw) > r.MaxChannelLength {
		log.Warnf("Analysis: channel %q has %d samples, truncating to %d",
			ch.ID, len(raw), r.MaxChannelLength)
		raw = raw[:r.MaxChannelLength]
		truncated = true
	}

	sr := resolveSamplingRate(req.Dataset.SamplingRate)
	filtered := ApplyFilter(raw, sr, req.Filter)

	res := &Result{
		DatasetID:    req.Dataset.ID,
		ChannelID:    ch.ID,
		SamplingRate: sr,
		TimeAxis:     BuildTimeAxis(len(raw), sr),
		RawData:      raw,
		FilteredData: filtered,
		Filter:       req.Filter,
		Truncated:    truncated,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sp, err := r.Spectrum.ComputeContext(gctx, filtered, sr)
		if err != nil {
			return fmt.Errorf("spectrum: %w", err)
		}
		res.Spectrum = sp
		if bands := BandsFor(req.Dataset.Type); bands != nil {
			res.Bands = BandEnergies(sp, bands)
		}
		return nil
	})
	g.Go(func() error {
		res.Classification = Classify(filtered, sr, req.Classify)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debugf("Analysis: %s", res.Digest())

	if r.Transport != nil {
		if err := r.Transport.Send(res); err != nil {
			log.Warnf("Analysis: error publishing result: %v", err)
		}
	}
	return res, nil
}

func resolveChannel(ds *dataset.Dataset, id string) (dataset.Channel, error) {
	if id == "" {
		if len(ds.Channels) == 0 {
			return dataset.Channel{}, fmt.Errorf("%w: dataset %q has no channels", ErrUnknownChannel, ds.ID)
		}
		return ds.Channels[0], nil
	}
	ch, ok := ds.Channel(id)
	if !ok {
		return dataset.Channel{}, fmt.Errorf("%w: %q", ErrUnknownChannel, id)
	}
	return ch, nil
}

// Ensure Runner satisfies the interface at compile time.
var _ Pipeline = (*Runner)(nil)
