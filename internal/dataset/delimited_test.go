// SPDX-License-Identifier: MIT
package dataset

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func TestParseDelimitedText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		text string
		want []float64
	}{
		{"Single column", "1\n2\n3\n", []float64{1, 2, 3}},
		{"Last column", "0,1\n1,2\n2,3\n", []float64{1, 2, 3}},
		{"Header skipped", "time,value\n0,0.5\n1,-0.5", []float64{0.5, -0.5}},
		{"CRLF and blanks", "1\r\n\r\n  \n2\r\n", []float64{1, 2}},
		{"Padded fields", " 0 , 4.25 \n", []float64{4.25}},
		{"Trailing comma reads as zero", "1,\n2", []float64{0, 2}},
		{"Non-finite skipped", "NaN\nInfinity\n7", []float64{7}},
		{"Scientific", "1e-3\n-2E2", []float64{0.001, -200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := ParseDelimitedText(tt.text, "upload.csv")
			if err != nil {
				t.Fatalf("ParseDelimitedText() unexpected error: %v", err)
			}
			if len(ds.Channels) != 1 {
				t.Fatalf("len(Channels) = %d, want 1", len(ds.Channels))
			}
			if !reflect.DeepEqual(ds.Channels[0].Data, tt.want) {
				t.Errorf("Data = %v, want %v", ds.Channels[0].Data, tt.want)
			}
			if ds.SamplingRate != DefaultSamplingRate {
				t.Errorf("SamplingRate = %v, want %v", ds.SamplingRate, DefaultSamplingRate)
			}
			if ds.Channels[0].ID != "ch1" || ds.Channels[0].Label != "Channel 1" {
				t.Errorf("channel = (%q, %q)", ds.Channels[0].ID, ds.Channels[0].Label)
			}
		})
	}
}

func TestParseDelimitedText_Defaults(t *testing.T) {
	t.Parallel()
	ds, err := ParseDelimitedText("1", "")
	if err != nil {
		t.Fatalf("ParseDelimitedText() unexpected error: %v", err)
	}
	if ds.Name != defaultCSVName || ds.Type != TypeCustom {
		t.Errorf("(Name, Type) = (%q, %q)", ds.Name, ds.Type)
	}
	if ds.Meta["description"] != csvDescription {
		t.Errorf("description = %v", ds.Meta["description"])
	}
}

func TestParseDelimitedText_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		text string
		want error
	}{
		{"Empty", "", ErrEmptyInput},
		{"Only whitespace", " \n\r\n\t\n", ErrEmptyInput},
		{"No numeric values", "a,b\nc,d\n", ErrNoNumericValues},
		{"Numbers only in first column", "1,a\n2,b", ErrNoNumericValues},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDelimitedText(tt.text, "x.csv")
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseDelimitedText() error = %v, want %v", err, tt.want)
			}
			if KindOf(err) != tt.want.(*ValidationError).Kind {
				t.Errorf("KindOf() = %q", KindOf(err))
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	ds, err := Load("dir/session.JSON", strings.NewReader(`{"data":[1,2]}`))
	if err != nil {
		t.Fatalf("Load(json) unexpected error: %v", err)
	}
	if ds.Name != "session.JSON" {
		t.Errorf("Name = %q, want base file name", ds.Name)
	}

	ds, err = Load("trace.csv", strings.NewReader("0,9\n1,8"))
	if err != nil {
		t.Fatalf("Load(csv) unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ds.Channels[0].Data, []float64{9, 8}) {
		t.Errorf("Data = %v", ds.Channels[0].Data)
	}

	_, err = Load("broken.csv", iotest.ErrReader(errors.New("disk gone")))
	if err == nil || IsValidationError(err) {
		t.Errorf("Load() read failure = %v, want non-validation error", err)
	}
}

func TestDatasetSummaryAndChannel(t *testing.T) {
	t.Parallel()
	ds := &Dataset{
		ID:           "d",
		SamplingRate: 250,
		Channels: []Channel{
			{ID: "a", Data: []float64{1, 2, 3}},
			{ID: "b", Data: []float64{4, 5, 6}},
		},
	}

	s := ds.Summary()
	if s.ChannelCount != 2 || s.Length != 3 || s.Meta == nil {
		t.Errorf("Summary() = %+v", s)
	}
	if (&Dataset{}).Summary().Length != 0 {
		t.Error("Summary() of empty dataset should report length 0")
	}

	if ch, ok := ds.Channel("b"); !ok || ch.Data[0] != 4 {
		t.Errorf("Channel(b) = %+v, %v", ch, ok)
	}
	if _, ok := ds.Channel("zzz"); ok {
		t.Error("Channel(zzz) found, want missing")
	}
	if err := ds.CheckUniformLength(); err != nil {
		t.Errorf("CheckUniformLength() = %v, want nil", err)
	}
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()
	if DetectFormat("a.json") != FormatJSON || DetectFormat("a.txt") != FormatDelimited || DetectFormat("") != FormatDelimited {
		t.Error("DetectFormat() picked the wrong parser")
	}
	if FormatJSON.String() != "json" || FormatDelimited.String() != "csv" {
		t.Error("Format.String() mismatch")
	}
}
