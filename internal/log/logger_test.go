// SPDX-License-Identifier: MIT
package log

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(zapcore.AddSync(&buf))
	prev := GetLevel()
	t.Cleanup(func() {
		SetLevel(prev)
		SetOutput(zapcore.Lock(os.Stderr))
	})
	return &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   LogLevel
		wantOK bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"Warning", LevelWarn, true},
		{"warn", LevelWarn, true},
		{" error ", LevelError, true},
		{"fatal", LevelFatal, true},
		{"verbose", LevelInfo, false},
		{"", LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseLevel(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if LevelWarn.String() != "WARN" {
		t.Errorf("LevelWarn.String() = %q, want WARN", LevelWarn.String())
	}
	if LogLevel(42).String() != "UNKNOWN" {
		t.Errorf("LogLevel(42).String() = %q, want UNKNOWN", LogLevel(42).String())
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureOutput(t)

	SetLevel(LevelWarn)
	if GetLevel() != LevelWarn {
		t.Fatalf("GetLevel() = %v, want %v", GetLevel(), LevelWarn)
	}

	Debugf("hidden %d", 1)
	Infof("hidden %d", 2)
	Warnf("shown %d", 3)
	Error("shown", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below WARN were written: %q", out)
	}
	if !strings.Contains(out, "shown 3") || !strings.Contains(out, "shown4") {
		t.Errorf("expected WARN and ERROR messages in output, got %q", out)
	}
	if !strings.Contains(out, "WARN") {
		t.Errorf("expected level name in output, got %q", out)
	}
}

func TestWithFields(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(LevelDebug)

	With("dataset", "emg_grip_rest").Debugw("pipeline run", "samples", 3000)

	out := buf.String()
	if !strings.Contains(out, "emg_grip_rest") || !strings.Contains(out, "3000") {
		t.Errorf("structured fields missing from output: %q", out)
	}
}
