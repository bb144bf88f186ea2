package domain

import (
	"strings"

	"github.com/pkg/errors"
)

// SearchType selects which entity a search returns
type SearchType string

const (
	SearchTrack    SearchType = "track"
	SearchArtist   SearchType = "artist"
	SearchAlbum    SearchType = "album"
	SearchPlaylist SearchType = "playlist"
)

// SearchTypes lists every supported search type in display order
var SearchTypes = []SearchType{SearchTrack, SearchAlbum, SearchPlaylist, SearchArtist}

// Quality is a stream quality level
type Quality string

const (
	QualityStandard Quality = "standard"
	QualityHigh     Quality = "high"
	QualitySQ       Quality = "sq"
	QualityFLAC     Quality = "flac"
	QualityHiRes    Quality = "hires"
)

// ParseQuality validates a user supplied quality name
func ParseQuality(s string) (Quality, error) {
	switch q := Quality(strings.ToLower(strings.TrimSpace(s))); q {
	case QualityStandard, QualityHigh, QualitySQ, QualityFLAC, QualityHiRes:
		return q, nil
	}
	return "", errors.Errorf("invalid quality %q (standard/high/sq/flac/hires)", s)
}

// LoopMode mirrors mpv's loop-file property
type LoopMode string

const (
	LoopOff      LoopMode = "no"
	LoopInfinite LoopMode = "inf"
)

// Repeat reports whether the current file repeats
func (m LoopMode) Repeat() bool {
	return m != "" && m != LoopOff && m != "false"
}
