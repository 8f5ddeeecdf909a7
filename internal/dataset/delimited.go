// SPDX-License-Identifier: MIT
package dataset

import (
	"strings"
)

// ParseDelimitedText builds a single-channel Dataset from comma-delimited
// text. Each non-blank line contributes its last field as one sample, so both
// one-value-per-line files and multi-column files whose last column is the
// signal are accepted. Lines whose last field is not numeric are skipped.
func ParseDelimitedText(text string, sourceName string) (*Dataset, error) {
	lines := make([]string, 0, strings.Count(text, "\n")+1)
	for _, line := range strings.Split(text, "\n") {
		// TrimSpace also strips the '\r' of CRLF line endings.
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}

	values := make([]float64, 0, len(lines))
	for _, line := range lines {
		fields := strings.Split(line, ",")
		v := parseNumber(fields[len(fields)-1])
		if isFinite(v) {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, ErrNoNumericValues
	}

	return &Dataset{
		ID:           newID(),
		Name:         stringOr(sourceName, defaultCSVName),
		Type:         TypeCustom,
		SamplingRate: DefaultSamplingRate,
		Channels: []Channel{{
			ID:    defaultChannelID,
			Label: defaultChannelLabel,
			Data:  values,
		}},
		Meta: map[string]any{
			"description":   csvDescription,
			"schemaVersion": SchemaVersion,
		},
	}, nil
}
