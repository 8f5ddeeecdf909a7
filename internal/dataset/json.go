// SPDX-License-Identifier: MIT
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NormalizeJSON validates and coerces a JSON document into a Dataset.
//
// The document is an object with optional id, name, type, samplingRate,
// description and labels, plus either a channels array of {id?, label?, data}
// or a root-level data array that becomes a single channel. Non-finite
// samples are dropped. sourceName is used as the dataset name when the
// document has none.
func NormalizeJSON(raw []byte, sourceName string) (*Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &ValidationError{Kind: KindInvalidJSON, Msg: ErrInvalidJSON.Msg, Err: err}
	}
	// Anything other than an object has no fields, which the channel
	// resolution below reports as missing channels.
	obj, _ := doc.(map[string]any)
	if obj == nil {
		obj = map[string]any{}
	}

	channels, err := resolveChannels(obj)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		ID:           stringOr(obj["id"], newID()),
		Name:         stringOr(obj["name"], stringOr(sourceName, defaultJSONName)),
		Type:         stringOr(obj["type"], TypeCustom),
		SamplingRate: resolveSamplingRate(obj["samplingRate"]),
		Channels:     channels,
		Meta: map[string]any{
			"description":   stringOr(obj["description"], defaultDescription),
			"schemaVersion": SchemaVersion,
		},
	}

	if labels, ok := obj["labels"].([]any); ok {
		ds.Labels = make([]string, len(labels))
		for i, l := range labels {
			ds.Labels[i] = stringify(l)
		}
	}

	return ds, nil
}

// resolveChannels returns the normalized channel list, synthesizing a single
// channel from a root data array when no channels are given.
func resolveChannels(obj map[string]any) ([]Channel, error) {
	rawChannels := obj["channels"]
	if !isTruthy(rawChannels) {
		if data, ok := obj["data"].([]any); ok {
			rawChannels = []any{map[string]any{
				"id":    defaultChannelID,
				"label": defaultChannelLabel,
				"data":  data,
			}}
		}
	}

	list, ok := rawChannels.([]any)
	if !ok || len(list) == 0 {
		return nil, ErrMissingChannels
	}

	channels := make([]Channel, len(list))
	for i, item := range list {
		ch, _ := item.(map[string]any)

		data, err := normalizeNumericArray(ch["data"], i)
		if err != nil {
			return nil, err
		}

		channels[i] = Channel{
			ID:    stringOr(ch["id"], fmt.Sprintf("ch%d", i+1)),
			Label: stringOr(ch["label"], fmt.Sprintf("Channel %d", i+1)),
			Data:  data,
		}
	}
	return channels, nil
}

// normalizeNumericArray coerces every element of v and keeps the finite ones.
func normalizeNumericArray(v any, index int) ([]float64, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, &ValidationError{
			Kind: KindEmptyChannel,
			Msg:  fmt.Sprintf("channel %d data must be an array of numbers", index+1),
		}
	}

	out := make([]float64, 0, len(items))
	for _, item := range items {
		f := toNumber(item)
		if !isFinite(f) {
			continue
		}
		out = append(out, f)
	}

	if len(out) == 0 {
		return nil, &ValidationError{
			Kind: KindEmptyChannel,
			Msg:  fmt.Sprintf("channel %d contains no numeric samples", index+1),
		}
	}
	return out, nil
}

func resolveSamplingRate(v any) float64 {
	sr := toNumber(v)
	if isFinite(sr) && sr > 0 {
		return sr
	}
	return DefaultSamplingRate
}

// stringOr returns v's text form when it is set, otherwise def.
func stringOr(v any, def string) string {
	if s, ok := truthyString(v); ok {
		return s
	}
	return def
}
