package main

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func TestRootCmdModes(t *testing.T) {
	cmd := rootCmd()

	want := map[string]bool{
		"single":     false,
		"batch":      false,
		"continuous": false,
		"version":    false,
	}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing %s subcommand", name)
		}
	}
}

func TestParseIntervalSeconds(t *testing.T) {
	tests := []struct {
		arg     string
		want    time.Duration
		wantErr bool
	}{
		{arg: "60", want: time.Minute},
		{arg: "5", want: 5 * time.Second},
		{arg: "0", wantErr: true},
		{arg: "-10", wantErr: true},
		{arg: "soon", wantErr: true},
		{arg: "1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseIntervalSeconds(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseIntervalSeconds(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseIntervalSeconds(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level   string
		enabled slog.Level
	}{
		{level: "debug", enabled: slog.LevelDebug},
		{level: "info", enabled: slog.LevelInfo},
		{level: "WARN", enabled: slog.LevelWarn},
		{level: "error", enabled: slog.LevelError},
		{level: "bogus", enabled: slog.LevelInfo},
	}

	for _, tt := range tests {
		logger := newLogger(tt.level)
		if !logger.Enabled(context.Background(), tt.enabled) {
			t.Errorf("level %q should enable %v", tt.level, tt.enabled)
		}
	}
}
