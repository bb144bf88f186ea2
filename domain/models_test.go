package domain

import "testing"

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{5.9, "0:05"},
		{61, "1:01"},
		{3600, "60:00"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatSeconds(tt.in); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := FormatDuration(269_000); got != "4:29" {
		t.Errorf("FormatDuration = %q, want 4:29", got)
	}
}

func TestParseQuality(t *testing.T) {
	for _, s := range []string{"standard", "HIGH", " sq ", "flac", "hires"} {
		if _, err := ParseQuality(s); err != nil {
			t.Errorf("ParseQuality(%q) unexpected error: %v", s, err)
		}
	}
	if _, err := ParseQuality("lossless"); err == nil {
		t.Errorf("expected error for unknown quality")
	}
}

func TestLoopModeRepeat(t *testing.T) {
	tests := map[LoopMode]bool{
		LoopOff:      false,
		"false":      false,
		"":           false,
		LoopInfinite: true,
		"force":      true,
	}
	for mode, want := range tests {
		if got := mode.Repeat(); got != want {
			t.Errorf("LoopMode(%q).Repeat() = %v, want %v", mode, got, want)
		}
	}
}

func TestTrackTitle(t *testing.T) {
	track := Track{Name: "晴天", Artists: []Artist{{Name: "周杰伦"}, {Name: "Guest"}}}
	if got := track.Title(); got != "晴天 - 周杰伦/Guest" {
		t.Errorf("Title() = %q", got)
	}
	if got := track.ArtistNames(", "); got != "周杰伦, Guest" {
		t.Errorf("ArtistNames() = %q", got)
	}
}
