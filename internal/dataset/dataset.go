// SPDX-License-Identifier: MIT

// Package dataset defines the multi-channel Dataset model and turns raw JSON
// or comma-delimited text into well-formed datasets the analysis pipeline can
// consume. Parsing never touches the network or filesystem; callers supply
// the bytes.
package dataset

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Ingestion defaults.
const (
	DefaultSamplingRate = 1000.0 // Hz, used when input omits or garbles the rate
	TypeCustom          = "Custom"
	SchemaVersion       = 1

	defaultChannelID    = "ch1"
	defaultChannelLabel = "Channel 1"
	defaultJSONName     = "Uploaded dataset"
	defaultCSVName      = "Uploaded CSV"
	defaultDescription  = "User uploaded dataset"
	csvDescription      = "User uploaded CSV dataset. Parsed one numeric value per row or last column."
)

// Dataset is a set of equally sampled channels plus free-form metadata.
// Datasets are treated as immutable once built.
type Dataset struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	SamplingRate float64        `json:"samplingRate"`
	Channels     []Channel      `json:"channels"`
	Labels       []string       `json:"labels,omitempty"`
	Meta         map[string]any `json:"meta"`
}

// Channel is one scalar time series. Data never contains NaN or Inf.
type Channel struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// Summary is the lightweight listing form of a Dataset.
type Summary struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	SamplingRate float64        `json:"samplingRate"`
	ChannelCount int            `json:"channelCount"`
	Length       int            `json:"length"`
	Meta         map[string]any `json:"meta"`
}

// Format selects an ingestion parser.
type Format int

const (
	FormatDelimited Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "csv"
}

// newID generates dataset identifiers for uploads that do not carry one.
var newID = func() string {
	return "upload_" + uuid.NewString()
}

// Channel returns the channel with the given id.
func (d *Dataset) Channel(id string) (Channel, bool) {
	for _, ch := range d.Channels {
		if ch.ID == id {
			return ch, true
		}
	}
	return Channel{}, false
}

// Summary reports channel count and the length of the first channel.
func (d *Dataset) Summary() Summary {
	length := 0
	if len(d.Channels) > 0 {
		length = len(d.Channels[0].Data)
	}
	meta := d.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	return Summary{
		ID:           d.ID,
		Name:         d.Name,
		Type:         d.Type,
		SamplingRate: d.SamplingRate,
		ChannelCount: len(d.Channels),
		Length:       length,
		Meta:         meta,
	}
}

// CheckUniformLength returns an error naming the first channel whose sample
// count differs from the first channel's. Ingestion does not call this;
// ragged uploads are accepted and it is up to callers to decide.
func (d *Dataset) CheckUniformLength() error {
	if len(d.Channels) < 2 {
		return nil
	}
	want := len(d.Channels[0].Data)
	for _, ch := range d.Channels[1:] {
		if len(ch.Data) != want {
			return fmt.Errorf("channel %q has %d samples, channel %q has %d",
				ch.ID, len(ch.Data), d.Channels[0].ID, want)
		}
	}
	return nil
}

// DetectFormat picks a parser from a file name. Anything other than .json is
// treated as delimited text.
func DetectFormat(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return FormatJSON
	}
	return FormatDelimited
}

// Parse runs the parser for format over raw.
func Parse(format Format, raw []byte, sourceName string) (*Dataset, error) {
	if format == FormatJSON {
		return NormalizeJSON(raw, sourceName)
	}
	return ParseDelimitedText(string(raw), sourceName)
}

// Load reads r fully and parses it according to the extension of name.
func Load(name string, r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	source := ""
	if name != "" {
		source = filepath.Base(name)
	}
	return Parse(DetectFormat(name), raw, source)
}
