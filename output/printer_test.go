package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/yhkl-dev/qqm/domain"
)

var sampleTracks = []domain.Track{
	{
		ID:       "003abc",
		Name:     "晴天",
		Artists:  []domain.Artist{{ID: "s1", Name: "周杰伦"}},
		Album:    domain.Album{ID: "a1", Name: "叶惠美"},
		Duration: 269000,
		URI:      "qqmusic:track:003abc",
	},
}

func TestDefaultModeWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{})
	if p.Mode() != ModeJSON {
		t.Errorf("Mode = %v, want json for a non-terminal writer", p.Mode())
	}
	if p.Color() {
		t.Error("color enabled for a non-terminal writer")
	}
}

func TestPrintJSONEnvelope(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{Mode: "json"})
	if err := p.Print(&TrackList{Tracks: NewTrackRows(sampleTracks), Total: 1}); err != nil {
		t.Fatal(err)
	}

	var got struct {
		Success bool `json:"success"`
		Data    struct {
			Tracks []TrackRow `json:"tracks"`
			Total  int        `json:"total"`
		} `json:"data"`
		Error any `json:"error"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if !got.Success || got.Error != nil || got.Data.Total != 1 {
		t.Errorf("envelope = %+v", got)
	}
	if got.Data.Tracks[0].Artist != "周杰伦" {
		t.Errorf("artist = %q", got.Data.Tracks[0].Artist)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("compact JSON spans lines: %q", buf.String())
	}
}

func TestPrintPrettyJSON(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{Mode: "json", Pretty: true})
	p.Print(Notice{Message: "Stopped"})
	want := "{\n  \"success\": true,\n  \"data\": {\n    \"message\": \"Stopped\"\n  },\n  \"error\": null\n}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestErrorModes(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{"json", `{"success":false,"data":null,"error":{"code":"PLAYER_ERROR","message":"Nothing is playing"}}` + "\n"},
		{"plain", "error\tPLAYER_ERROR\tNothing is playing\n"},
		{"human", "✗ PLAYER_ERROR: Nothing is playing\n"},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			var buf bytes.Buffer
			p := New(&buf, Options{Mode: tt.mode})
			if err := p.Error("PLAYER_ERROR", "Nothing is playing"); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestQuiet(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{Mode: "json", Quiet: true})
	p.Print(Notice{Message: "x"})
	p.Error("CLI_ERROR", "y")
	if buf.Len() != 0 {
		t.Errorf("quiet printer wrote %q", buf.String())
	}
}

func TestPlainRenderers(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{"tracks", &TrackList{Tracks: NewTrackRows(sampleTracks)}, "003abc\t晴天\t周杰伦\t叶惠美\tqqmusic:track:003abc\n"},
		{"url", &TrackURL{ID: "003abc", URL: "https://dl/x.mp3", Quality: "high"}, "https://dl/x.mp3\n"},
		{"lyric", NewLyric("003abc", &domain.Lyric{LRC: "[00:01.00]a"}), "[00:01.00]a\n"},
		{"notice", Notice{Message: "Logged out"}, "Logged out\n"},
		{"playlists", NewPlaylistList([]domain.Playlist{{ID: "42", Name: "Mine", TrackCount: 3}}), "42\tMine\t3\t\n"},
		{"not playing", NewPlayerStatus(domain.PlayerStatus{}), "Nothing is playing\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(&buf, Options{Mode: "plain"}).Print(tt.result)
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestHumanTrackList(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{Mode: "human"})
	p.Print(&TrackList{Tracks: NewTrackRows(sampleTracks), Total: 120, Showing: 1})

	out := buf.String()
	if !strings.Contains(out, " 1  晴天 - 周杰伦  4:29") {
		t.Errorf("track line missing: %q", out)
	}
	if !strings.Contains(out, "1 of 120 tracks") {
		t.Errorf("summary missing: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("ANSI codes without a terminal: %q", out)
	}
}

func TestPlayerStatusJSON(t *testing.T) {
	b, err := json.Marshal(NewPlayerStatus(domain.PlayerStatus{}))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"playing":false,"message":"Nothing is playing"}` {
		t.Errorf("not playing = %s", b)
	}

	st := NewPlayerStatus(domain.PlayerStatus{
		Playing:  true,
		Paused:   true,
		Title:    "晴天 - 周杰伦",
		Position: 65,
		Duration: 269,
		Volume:   0,
		Loop:     domain.LoopInfinite,
	})
	if st.Message != "⏸ 晴天 - 周杰伦 1:05/4:29 vol:0% 🔁" {
		t.Errorf("message = %q", st.Message)
	}
	b, _ = json.Marshal(st)
	if !strings.Contains(string(b), `"volume":0`) || !strings.Contains(string(b), `"repeat":true`) {
		t.Errorf("playing = %s", b)
	}
}

func TestHumanTable(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{Mode: "human"})
	p.Print(Search{&domain.SearchResult{
		Type:    domain.SearchArtist,
		Artists: []domain.Artist{{ID: "0025NhlN2yWrP4", Name: "周杰伦"}},
		Total:   1,
	}})
	out := buf.String()
	if !strings.Contains(out, "Artist") || !strings.Contains(out, "0025NhlN2yWrP4") {
		t.Errorf("table output = %q", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("abcdefghij", 5); got != "abcd…" {
		t.Errorf("Truncate wide = %q", got)
	}
	if got := PadRight("ab", 4); got != "ab  " {
		t.Errorf("PadRight = %q", got)
	}
}
