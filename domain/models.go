package domain

import (
	"fmt"
	"strings"
)

// Artist is a performer credited on a track
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album is the release a track belongs to
type Album struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	PicURL string `json:"picUrl,omitempty"`
}

// Track represents a single song with its credits
type Track struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Artists  []Artist `json:"artists"`
	Album    Album    `json:"album"`
	Duration int64    `json:"duration"` // in milliseconds
	URI      string   `json:"uri"`
}

// ArtistNames joins the credited artists with sep
func (t Track) ArtistNames(sep string) string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, sep)
}

// Title is the "name - artists" form used for player window titles
func (t Track) Title() string {
	return fmt.Sprintf("%s - %s", t.Name, t.ArtistNames("/"))
}

// Creator is the owner of a playlist
type Creator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Playlist is a user-curated list of tracks
type Playlist struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	CoverURL    string   `json:"coverUrl,omitempty"`
	TrackCount  int      `json:"trackCount"`
	Creator     *Creator `json:"creator,omitempty"`
	Tracks      []Track  `json:"tracks,omitempty"`
}

// UserProfile is the logged-in account
type UserProfile struct {
	ID        string `json:"id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Lyric holds decoded LRC text and its optional translation
type Lyric struct {
	LRC         string `json:"lrc,omitempty"`
	Translation string `json:"tlyric,omitempty"`
}

// SearchResult is one page of results for a single SearchType
type SearchResult struct {
	Type      SearchType `json:"type"`
	Tracks    []Track    `json:"tracks,omitempty"`
	Albums    []Album    `json:"albums,omitempty"`
	Playlists []Playlist `json:"playlists,omitempty"`
	Artists   []Artist   `json:"artists,omitempty"`
	Total     int        `json:"total"`
	Offset    int        `json:"offset"`
	Limit     int        `json:"limit"`
}

// PlayerStatus is a snapshot of the media player
type PlayerStatus struct {
	Playing  bool
	Paused   bool
	Title    string
	Position float64 // seconds
	Duration float64 // seconds
	Volume   float64
	Loop     LoopMode
}
