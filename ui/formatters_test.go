package ui

import (
	"strings"
	"testing"

	"github.com/yhkl-dev/qqm/domain"
)

func TestCreateProgressBar(t *testing.T) {
	tests := []struct {
		progress float64
		filled   int
		suffix   string
	}{
		{0, 0, " 0.0%"},
		{0.5, 5, " 50.0%"},
		{1, 10, " 100.0%"},
		{1.7, 10, " 100.0%"},
		{-1, 0, " 0.0%"},
	}
	for _, tt := range tests {
		bar := CreateProgressBar(tt.progress, 10)
		if got := strings.Count(bar, "▓"); got != tt.filled {
			t.Errorf("progress %v: %d filled cells, want %d", tt.progress, got, tt.filled)
		}
		if got := strings.Count(bar, "▓") + strings.Count(bar, "░"); got != 10 {
			t.Errorf("progress %v: width %d", tt.progress, got)
		}
		if !strings.HasSuffix(bar, tt.suffix) {
			t.Errorf("progress %v: %q", tt.progress, bar)
		}
	}
}

func TestProgress(t *testing.T) {
	if got := Progress(domain.PlayerStatus{Position: 10}); got != 0 {
		t.Errorf("unknown duration = %v", got)
	}
	if got := Progress(domain.PlayerStatus{Position: 15, Duration: 60}); got != 0.25 {
		t.Errorf("Progress = %v", got)
	}
}

func TestFormatStatus(t *testing.T) {
	if got := FormatStatus(domain.PlayerStatus{}); !strings.Contains(got, "Nothing is playing") {
		t.Errorf("idle = %q", got)
	}
	got := FormatStatus(domain.PlayerStatus{Playing: true, Paused: true, Volume: 40, Loop: domain.LoopInfinite})
	for _, want := range []string{"Paused", "Unknown", "40%", "[lightgreen]on"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatStatus missing %q in %q", want, got)
		}
	}
}
