package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yhkl-dev/qqm/auth"
	"github.com/yhkl-dev/qqm/domain"
	"github.com/yhkl-dev/qqm/history"
)

// Notice is a result that only carries a message
type Notice struct {
	Message string `json:"message"`
}

func (n Notice) Plain(w io.Writer) {
	fmt.Fprintln(w, n.Message)
}

func (n Notice) Human(p *Printer) {
	p.Linef("%s %s", p.Green("✓"), n.Message)
}

// Login reports a stored session
type Login struct {
	Notice
	Authenticated bool   `json:"authenticated"`
	Profile       string `json:"profile"`
	Source        string `json:"source"`
}

// Logout reports a cleared session
type Logout struct {
	Notice
	Authenticated bool   `json:"authenticated"`
	Profile       string `json:"profile"`
}

// AuthCheck is the outcome of validating the stored session
type AuthCheck struct {
	auth.CheckResult
	Profile string `json:"profile"`
	Message string `json:"message"`
}

func NewAuthCheck(profile string, r auth.CheckResult) *AuthCheck {
	msg := r.Error
	if r.Valid {
		msg = fmt.Sprintf("Logged in: %s (%s)", r.Nickname, r.UserID)
	} else if msg == "" {
		msg = "Not logged in"
	}
	return &AuthCheck{CheckResult: r, Profile: profile, Message: msg}
}

func (a *AuthCheck) Plain(w io.Writer) {
	plainRow(w, "valid", a.Valid)
	plainRow(w, "profile", a.Profile)
	if a.Valid {
		plainRow(w, "userId", a.UserID)
		plainRow(w, "nickname", a.Nickname)
	}
	plainRow(w, "qm_keyst", a.Credentials.SessionKey)
	plainRow(w, "uin", a.Credentials.UIN)
	if a.Error != "" {
		plainRow(w, "error", a.Error)
	}
}

func (a *AuthCheck) Human(p *Printer) {
	p.Linef("%s %s", p.Bold("Credential check"), p.Dim("(profile: "+a.Profile+")"))
	p.Line(p.Dim(strings.Repeat("─", 40)))
	found := func(name string, ok bool) {
		if ok {
			p.Linef("%s %s: %s", p.Green("✓"), p.Bold(name), p.Green("found"))
		} else {
			p.Linef("%s %s: %s", p.Red("✗"), p.Bold(name), p.Red("not found"))
		}
	}
	found("qm_keyst", a.Credentials.SessionKey)
	found("uin", a.Credentials.UIN)

	if a.Valid {
		p.Linef("%s %s: %s %s", p.Green("✓"), p.Bold("session"), p.Green("valid"), p.Dim("("+a.Nickname+")"))
	} else if a.Credentials.SessionKey {
		p.Linef("%s %s: %s", p.Red("✗"), p.Bold("session"), p.Red("expired or invalid"))
	}
	if len(a.Warnings) > 0 {
		p.Line("")
		p.Linef("%s %s", p.Yellow("⚠"), p.Bold("Warnings:"))
		for _, w := range a.Warnings {
			p.Linef("   %s %s", p.Dim("-"), w)
		}
	}
	if !a.Valid {
		p.Line("")
		p.Linef("%s Missing credentials. Options:", p.Red("✗"))
		p.Linef("   1. Login to %s and copy the Cookie header of any request", p.Cyan("y.qq.com"))
		p.Linef("   2. Run %s", p.Cyan("qqm auth login --cookie '<cookie>'"))
		p.Linef("   3. Or export cookies.txt and run %s", p.Cyan("qqm auth login --cookie-file cookies.txt"))
	}
}

// ProfileEntry is one stored profile
type ProfileEntry struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type ProfileList struct {
	Profiles []ProfileEntry `json:"profiles"`
	Current  string         `json:"current"`
}

func (l *ProfileList) Plain(w io.Writer) {
	for _, e := range l.Profiles {
		plainRow(w, e.Name, e.Active)
	}
}

func (l *ProfileList) Human(p *Printer) {
	if len(l.Profiles) == 0 {
		p.Line(p.Dim("No saved profiles"))
		return
	}
	for _, e := range l.Profiles {
		marker := " "
		name := e.Name
		if e.Active {
			marker = p.Green("*")
			name = p.Bold(name)
		}
		p.Linef("%s %s", marker, name)
	}
}

// TrackRow is the flattened track shape used by list results
type TrackRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration int64  `json:"duration,omitempty"`
	URI      string `json:"uri"`
}

func NewTrackRow(t domain.Track) TrackRow {
	return TrackRow{
		ID:       t.ID,
		Name:     t.Name,
		Artist:   t.ArtistNames(", "),
		Album:    t.Album.Name,
		Duration: t.Duration,
		URI:      t.URI,
	}
}

func NewTrackRows(tracks []domain.Track) []TrackRow {
	rows := make([]TrackRow, len(tracks))
	for i, t := range tracks {
		rows[i] = NewTrackRow(t)
	}
	return rows
}

// TrackList is a page of tracks. Showing is set when the list was cut short.
type TrackList struct {
	Tracks  []TrackRow `json:"tracks"`
	Total   int        `json:"total"`
	Showing int        `json:"showing,omitempty"`
}

func (l *TrackList) Plain(w io.Writer) {
	plainTracks(w, l.Tracks)
}

func (l *TrackList) Human(p *Printer) {
	humanTracks(p, l.Tracks, l.Total, l.Showing)
}

func plainTracks(w io.Writer, tracks []TrackRow) {
	for _, t := range tracks {
		plainRow(w, t.ID, t.Name, t.Artist, t.Album, t.URI)
	}
}

func humanTracks(p *Printer, tracks []TrackRow, total, showing int) {
	if len(tracks) == 0 {
		p.Line(p.Dim("No tracks"))
		return
	}
	for i, t := range tracks {
		dur := ""
		if t.Duration > 0 {
			dur = "  " + p.Dim(domain.FormatDuration(t.Duration))
		}
		p.Linef("  %s  %s %s %s%s",
			p.Dim(fmt.Sprintf("%2d", i+1)), p.Bold(Truncate(t.Name, 48)), p.Dim("-"), p.Cyan(Truncate(t.Artist, 32)), dur)
	}
	if showing == 0 {
		showing = len(tracks)
	}
	if total > showing {
		p.Line("")
		p.Line(p.Dim(fmt.Sprintf("  %d of %d tracks", showing, total)))
	}
}

// Search wraps one page of search results
type Search struct {
	*domain.SearchResult
}

func (s Search) Plain(w io.Writer) {
	switch s.Type {
	case domain.SearchTrack:
		plainTracks(w, NewTrackRows(s.Tracks))
	case domain.SearchAlbum:
		for _, a := range s.Albums {
			plainRow(w, a.ID, a.Name, a.PicURL)
		}
	case domain.SearchPlaylist:
		for _, pl := range s.Playlists {
			plainRow(w, pl.ID, pl.Name, pl.TrackCount, creatorName(pl.Creator))
		}
	case domain.SearchArtist:
		for _, a := range s.Artists {
			plainRow(w, a.ID, a.Name)
		}
	}
}

func (s Search) Human(p *Printer) {
	shown := 0
	switch s.Type {
	case domain.SearchTrack:
		humanTracks(p, NewTrackRows(s.Tracks), 0, 0)
		shown = len(s.Tracks)
	case domain.SearchAlbum:
		rows := make([][]string, len(s.Albums))
		for i, a := range s.Albums {
			rows[i] = []string{strconv.Itoa(i + 1), Truncate(a.Name, 48), a.ID}
		}
		p.Table([]string{"#", "Album", "ID"}, rows)
		shown = len(s.Albums)
	case domain.SearchPlaylist:
		humanPlaylists(p, s.Playlists)
		shown = len(s.Playlists)
	case domain.SearchArtist:
		rows := make([][]string, len(s.Artists))
		for i, a := range s.Artists {
			rows[i] = []string{strconv.Itoa(i + 1), a.Name, a.ID}
		}
		p.Table([]string{"#", "Artist", "ID"}, rows)
		shown = len(s.Artists)
	}
	if s.Total > shown && shown > 0 {
		p.Line("")
		p.Line(p.Dim(fmt.Sprintf("  %d-%d of %d results", s.Offset+1, s.Offset+shown, s.Total)))
	}
}

// TrackDetail is a single track with its formatted duration
type TrackDetail struct {
	domain.Track
	DurationFormatted string `json:"durationFormatted"`
}

func NewTrackDetail(t domain.Track) *TrackDetail {
	return &TrackDetail{Track: t, DurationFormatted: domain.FormatDuration(t.Duration)}
}

func (d *TrackDetail) Plain(w io.Writer) {
	plainRow(w, d.ID, d.Name, d.ArtistNames(", "), d.Album.Name, d.URI)
}

func (d *TrackDetail) Human(p *Printer) {
	p.Linef("  %s", p.Bold(d.Name))
	p.Linef("  %s  %s", p.Dim("Artist:"), p.Cyan(d.ArtistNames(", ")))
	p.Linef("  %s   %s", p.Dim("Album:"), d.Album.Name)
	p.Linef("  %s %s", p.Dim("Duration:"), d.DurationFormatted)
	if d.URI != "" {
		p.Linef("  %s      %s", p.Dim("URI:"), d.URI)
	}
}

type TrackURL struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Quality string `json:"quality"`
}

func (u *TrackURL) Plain(w io.Writer) {
	fmt.Fprintln(w, u.URL)
}

func (u *TrackURL) Human(p *Printer) {
	p.Linef("  %s %s", p.Dim("URL:"), u.URL)
	p.Linef("  %s %s", p.Dim("Quality:"), u.Quality)
}

type Lyric struct {
	ID             string `json:"id"`
	LRC            string `json:"lrc,omitempty"`
	Translation    string `json:"tlyric,omitempty"`
	HasLyric       bool   `json:"hasLyric"`
	HasTranslation bool   `json:"hasTranslation"`
}

func NewLyric(id string, l *domain.Lyric) *Lyric {
	return &Lyric{
		ID:             id,
		LRC:            l.LRC,
		Translation:    l.Translation,
		HasLyric:       l.LRC != "",
		HasTranslation: l.Translation != "",
	}
}

func (l *Lyric) Plain(w io.Writer) {
	if l.LRC != "" {
		fmt.Fprintln(w, l.LRC)
	}
}

func (l *Lyric) Human(p *Printer) {
	if l.LRC == "" {
		p.Line(p.Dim("No lyrics available"))
		return
	}
	p.Line(l.LRC)
	if l.Translation != "" {
		p.Line("")
		p.Line(p.Dim(l.Translation))
	}
}

type Download struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Quality  string `json:"quality"`
	Tagged   bool   `json:"tagged"`
	Duration string `json:"duration,omitempty"`
}

func (d *Download) Plain(w io.Writer) {
	fmt.Fprintln(w, d.Path)
}

func (d *Download) Human(p *Printer) {
	p.Linef("%s Saved %s %s", p.Green("✓"), p.Bold(d.Path), p.Dim(fmt.Sprintf("(%.1f MB, %s)", float64(d.Size)/1024/1024, d.Quality)))
	if d.Tagged {
		p.Linef("  %s ID3 tags written", p.Dim("·"))
	}
	if d.Duration != "" {
		p.Linef("  %s length %s", p.Dim("·"), d.Duration)
	}
}

// Play reports a track handed to the player
type Play struct {
	Notice
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []domain.Artist `json:"artists"`
	Quality string          `json:"quality"`
}

func NewPlay(t domain.Track, quality string) *Play {
	return &Play{
		Notice:  Notice{Message: "Now playing: " + t.Title()},
		ID:      t.ID,
		Name:    t.Name,
		Artists: t.Artists,
		Quality: quality,
	}
}

// PlaylistRow is the flattened playlist shape used by list results
type PlaylistRow struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TrackCount int    `json:"trackCount"`
	Creator    string `json:"creator,omitempty"`
}

type PlaylistList struct {
	Playlists []PlaylistRow `json:"playlists"`
	Total     int           `json:"total"`
}

func NewPlaylistList(playlists []domain.Playlist) *PlaylistList {
	rows := make([]PlaylistRow, len(playlists))
	for i, pl := range playlists {
		rows[i] = PlaylistRow{ID: pl.ID, Name: pl.Name, TrackCount: pl.TrackCount, Creator: creatorName(pl.Creator)}
	}
	return &PlaylistList{Playlists: rows, Total: len(rows)}
}

func (l *PlaylistList) Plain(w io.Writer) {
	for _, pl := range l.Playlists {
		plainRow(w, pl.ID, pl.Name, pl.TrackCount, pl.Creator)
	}
}

func (l *PlaylistList) Human(p *Printer) {
	if len(l.Playlists) == 0 {
		p.Line(p.Dim("No playlists"))
		return
	}
	for i, pl := range l.Playlists {
		p.Linef("  %s  %s %s", p.Dim(fmt.Sprintf("%2d", i+1)), p.Bold(pl.Name), p.Dim(fmt.Sprintf("(%d tracks)", pl.TrackCount)))
	}
}

func humanPlaylists(p *Printer, playlists []domain.Playlist) {
	NewPlaylistList(playlists).Human(p)
}

func creatorName(c *domain.Creator) string {
	if c == nil {
		return ""
	}
	return c.Name
}

type PlaylistDetail struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CoverURL    string          `json:"coverUrl,omitempty"`
	TrackCount  int             `json:"trackCount"`
	Creator     *domain.Creator `json:"creator,omitempty"`
	Tracks      []TrackRow      `json:"tracks"`
}

// NewPlaylistDetail keeps at most limit tracks; limit <= 0 keeps all
func NewPlaylistDetail(pl *domain.Playlist, limit int) *PlaylistDetail {
	tracks := pl.Tracks
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return &PlaylistDetail{
		ID:          pl.ID,
		Name:        pl.Name,
		Description: pl.Description,
		CoverURL:    pl.CoverURL,
		TrackCount:  pl.TrackCount,
		Creator:     pl.Creator,
		Tracks:      NewTrackRows(tracks),
	}
}

func (d *PlaylistDetail) Plain(w io.Writer) {
	plainTracks(w, d.Tracks)
}

func (d *PlaylistDetail) Human(p *Printer) {
	p.Linef("  %s %s", p.Bold(d.Name), p.Dim(fmt.Sprintf("(%d tracks)", d.TrackCount)))
	if d.Creator != nil {
		p.Linef("  %s %s", p.Dim("by"), p.Cyan(d.Creator.Name))
	}
	if d.Description != "" {
		p.Linef("  %s", p.Dim(Truncate(strings.ReplaceAll(d.Description, "\n", " "), 72)))
	}
	p.Line("")
	humanTracks(p, d.Tracks, d.TrackCount, len(d.Tracks))
}

// PlayerStatus renders a player snapshot. When nothing plays only Playing
// and Message are set.
type PlayerStatus struct {
	Playing           bool    `json:"playing"`
	Paused            bool    `json:"paused"`
	Title             string  `json:"title,omitempty"`
	Position          float64 `json:"position"`
	Duration          float64 `json:"duration"`
	PositionFormatted string  `json:"positionFormatted"`
	DurationFormatted string  `json:"durationFormatted"`
	Volume            int     `json:"volume"`
	Repeat            bool    `json:"repeat"`
	Message           string  `json:"message"`
}

func (s *PlayerStatus) MarshalJSON() ([]byte, error) {
	if !s.Playing {
		return json.Marshal(struct {
			Playing bool   `json:"playing"`
			Message string `json:"message"`
		}{false, s.Message})
	}
	type status PlayerStatus
	return json.Marshal((*status)(s))
}

func NewPlayerStatus(s domain.PlayerStatus) *PlayerStatus {
	if !s.Playing {
		return &PlayerStatus{Message: "Nothing is playing"}
	}
	icon := "▶"
	if s.Paused {
		icon = "⏸"
	}
	title := s.Title
	if title == "" {
		title = "Unknown"
	}
	volume := int(math.Round(s.Volume))
	repeat := s.Loop.Repeat()
	msg := fmt.Sprintf("%s %s %s/%s vol:%d%%", icon, title, domain.FormatSeconds(s.Position), domain.FormatSeconds(s.Duration), volume)
	if repeat {
		msg += " 🔁"
	}
	return &PlayerStatus{
		Playing:           true,
		Paused:            s.Paused,
		Title:             s.Title,
		Position:          s.Position,
		Duration:          s.Duration,
		PositionFormatted: domain.FormatSeconds(s.Position),
		DurationFormatted: domain.FormatSeconds(s.Duration),
		Volume:            volume,
		Repeat:            repeat,
		Message:           msg,
	}
}

func (s *PlayerStatus) Plain(w io.Writer) {
	if !s.Playing {
		fmt.Fprintln(w, s.Message)
		return
	}
	plainRow(w, "playing", s.Playing)
	plainRow(w, "paused", s.Paused)
	plainRow(w, "title", s.Title)
	plainRow(w, "position", s.PositionFormatted)
	plainRow(w, "duration", s.DurationFormatted)
	plainRow(w, "volume", s.Volume)
	plainRow(w, "repeat", s.Repeat)
}

func (s *PlayerStatus) Human(p *Printer) {
	if !s.Playing {
		p.Line(p.Dim(s.Message))
		return
	}
	p.Line(s.Message)
}

type Pause struct {
	Paused  bool   `json:"paused"`
	Message string `json:"message"`
}

func NewPause(paused bool) *Pause {
	msg := "Resumed"
	if paused {
		msg = "Paused"
	}
	return &Pause{Paused: paused, Message: msg}
}

func (r *Pause) Plain(w io.Writer) { fmt.Fprintln(w, r.Message) }
func (r *Pause) Human(p *Printer)  { Notice{r.Message}.Human(p) }

type Seek struct {
	Position          float64 `json:"position"`
	Duration          float64 `json:"duration"`
	PositionFormatted string  `json:"positionFormatted"`
	DurationFormatted string  `json:"durationFormatted"`
	Message           string  `json:"message"`
}

func NewSeek(s domain.PlayerStatus) *Seek {
	pos, dur := domain.FormatSeconds(s.Position), domain.FormatSeconds(s.Duration)
	return &Seek{
		Position:          s.Position,
		Duration:          s.Duration,
		PositionFormatted: pos,
		DurationFormatted: dur,
		Message:           fmt.Sprintf("Seeked to %s/%s", pos, dur),
	}
}

func (r *Seek) Plain(w io.Writer) { fmt.Fprintln(w, r.Message) }
func (r *Seek) Human(p *Printer)  { Notice{r.Message}.Human(p) }

type Volume struct {
	Volume  float64 `json:"volume"`
	Message string  `json:"message"`
}

func NewVolume(v float64) *Volume {
	return &Volume{Volume: v, Message: fmt.Sprintf("Volume: %d%%", int(math.Round(v)))}
}

func (r *Volume) Plain(w io.Writer) { fmt.Fprintln(w, r.Message) }
func (r *Volume) Human(p *Printer)  { Notice{r.Message}.Human(p) }

type Repeat struct {
	Repeat  bool   `json:"repeat"`
	Message string `json:"message"`
}

func NewRepeat(on bool) *Repeat {
	state := "off"
	if on {
		state = "on"
	}
	return &Repeat{Repeat: on, Message: "Repeat: " + state}
}

func (r *Repeat) Plain(w io.Writer) { fmt.Fprintln(w, r.Message) }
func (r *Repeat) Human(p *Printer)  { Notice{r.Message}.Human(p) }

// Like reports a liked or unliked track
type Like struct {
	Notice
	TrackID string `json:"trackId"`
}

// History lists local history entries, or the most played tracks when Top is set
type History struct {
	Entries []history.Entry    `json:"entries,omitempty"`
	Top     []history.TopEntry `json:"top,omitempty"`
	Total   int                `json:"total"`
}

func (h *History) Plain(w io.Writer) {
	for _, e := range h.Entries {
		plainRow(w, e.PlayedAt.Format(time.RFC3339), e.Action, e.TrackID, e.Name, e.Artist)
	}
	for _, e := range h.Top {
		plainRow(w, e.PlayCount, e.TrackID, e.Name, e.Artist)
	}
}

func (h *History) Human(p *Printer) {
	if h.Total == 0 {
		p.Line(p.Dim("No local history yet"))
		return
	}
	if len(h.Top) > 0 {
		rows := make([][]string, len(h.Top))
		for i, e := range h.Top {
			rows[i] = []string{strconv.Itoa(e.PlayCount), Truncate(e.Name, 40), Truncate(e.Artist, 24), e.LastPlayed.Format("2006-01-02 15:04")}
		}
		p.Table([]string{"Plays", "Track", "Artist", "Last played"}, rows)
		return
	}
	rows := make([][]string, len(h.Entries))
	for i, e := range h.Entries {
		rows[i] = []string{e.PlayedAt.Format("2006-01-02 15:04"), e.Action, Truncate(e.Name, 40), Truncate(e.Artist, 24), e.TrackID}
	}
	p.Table([]string{"When", "Action", "Track", "Artist", "ID"}, rows)
}

// Cover is ASCII art for a track's album cover
type Cover struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	Art string `json:"art"`
}

func (c *Cover) Plain(w io.Writer) {
	fmt.Fprintln(w, c.Art)
}

func (c *Cover) Human(p *Printer) {
	p.Line(c.Art)
	if c.URL != "" {
		p.Line(p.Dim(c.URL))
	}
}
