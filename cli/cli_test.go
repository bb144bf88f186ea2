package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/yhkl-dev/qqm/domain"
	"github.com/yhkl-dev/qqm/player"
	"github.com/yhkl-dev/qqm/qqmusic"
)

type fakeLibrary struct {
	err    error
	liked  []string
	likes  map[string]bool
	search struct {
		query  string
		typ    domain.SearchType
		limit  int
		offset int
	}
}

func track(id string) domain.Track {
	return domain.Track{
		ID:       id,
		Name:     "Track " + id,
		Artists:  []domain.Artist{{ID: "s1", Name: "Singer"}},
		Album:    domain.Album{ID: "a1", Name: "Album"},
		Duration: 200000,
		URI:      "qqmusic:track:" + id,
	}
}

func (f *fakeLibrary) Track(ctx context.Context, id string) (*domain.Track, error) {
	if f.err != nil {
		return nil, f.err
	}
	t := track(id)
	return &t, nil
}

func (f *fakeLibrary) Tracks(ctx context.Context, ids []string) []domain.Track {
	out := make([]domain.Track, 0, len(ids))
	for _, id := range ids {
		out = append(out, track(id))
	}
	return out
}

func (f *fakeLibrary) TrackURL(ctx context.Context, id string, q domain.Quality) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("https://stream.example/%s.%s.mp3", id, q), nil
}

func (f *fakeLibrary) Lyric(ctx context.Context, id string) (*domain.Lyric, error) {
	return &domain.Lyric{LRC: "[00:01.00]hello"}, f.err
}

func (f *fakeLibrary) Search(ctx context.Context, query string, t domain.SearchType, limit, offset int) (*domain.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.search.query, f.search.typ, f.search.limit, f.search.offset = query, t, limit, offset
	return &domain.SearchResult{Type: t, Tracks: []domain.Track{track("m1")}, Total: 1, Limit: limit, Offset: offset}, nil
}

func (f *fakeLibrary) Profile(ctx context.Context) (*domain.UserProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.UserProfile{ID: "10001", Nickname: "listener"}, nil
}

func (f *fakeLibrary) LikedTrackIDs(ctx context.Context) ([]string, error) {
	return f.liked, f.err
}

func (f *fakeLibrary) Like(ctx context.Context, id string, like bool) error {
	if f.likes == nil {
		f.likes = map[string]bool{}
	}
	f.likes[id] = like
	return f.err
}

func (f *fakeLibrary) RecentTracks(ctx context.Context, limit int) ([]domain.Track, error) {
	return []domain.Track{track("r1")}, f.err
}

func (f *fakeLibrary) Playlist(ctx context.Context, id string) (*domain.Playlist, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Playlist{ID: id, Name: "Mix", TrackCount: 3, Tracks: []domain.Track{track("p1"), track("p2"), track("p3")}}, nil
}

func (f *fakeLibrary) Playlists(ctx context.Context) ([]domain.Playlist, error) {
	return []domain.Playlist{{ID: "42", Name: "Mix", TrackCount: 3}}, f.err
}

type fakePlayer struct {
	running bool
	played  []string
	volume  float64
	loop    domain.LoopMode
	paused  bool
	seeks   []string
}

func (f *fakePlayer) Play(ctx context.Context, url, title string) error {
	f.played = append(f.played, title+"|"+url)
	f.running = true
	return nil
}

func (f *fakePlayer) TogglePause(ctx context.Context) (bool, error) {
	f.paused = !f.paused
	return f.paused, nil
}

func (f *fakePlayer) Seek(ctx context.Context, secs float64, mode player.SeekMode) error {
	f.seeks = append(f.seeks, fmt.Sprintf("%g %s", secs, mode))
	return nil
}

func (f *fakePlayer) SetVolume(ctx context.Context, v float64) (float64, error) {
	f.volume = player.ClampVolume(v)
	return f.volume, nil
}

func (f *fakePlayer) Volume(ctx context.Context) float64 { return f.volume }

func (f *fakePlayer) SetLoop(ctx context.Context, mode domain.LoopMode) error {
	f.loop = mode
	return nil
}

func (f *fakePlayer) Loop(ctx context.Context) domain.LoopMode { return f.loop }

func (f *fakePlayer) Stop(ctx context.Context) error {
	f.running = false
	return nil
}

func (f *fakePlayer) Status(ctx context.Context) domain.PlayerStatus {
	return domain.PlayerStatus{Playing: f.running, Paused: f.paused, Title: "Track m1 - Singer", Position: 30, Duration: 200, Volume: f.volume, Loop: f.loop}
}

func (f *fakePlayer) IsRunning(ctx context.Context) bool { return f.running }
func (f *fakePlayer) State() player.State                { return player.StateReady }

type harness struct {
	lib    *fakeLibrary
	player *fakePlayer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("QQM_HOME", home)
	t.Setenv("QQM_COOKIE", "")
	t.Setenv("NO_COLOR", "1")
	return &harness{lib: &fakeLibrary{}, player: &fakePlayer{volume: 100, loop: domain.LoopOff}}
}

func (h *harness) run(args ...string) (string, int) {
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), Env{
		Args:    args,
		Stdout:  &stdout,
		Stderr:  &stderr,
		Library: h.lib,
		Player:  h.player,
	})
	return stdout.String(), code
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, out string) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	return env
}

func TestPlayerStatusNotRunning(t *testing.T) {
	h := newHarness(t)
	out, code := h.run("player", "status")
	if code != ExitOK {
		t.Fatalf("exit = %d, output %q", code, out)
	}
	env := decode(t, out)
	if string(env.Data) != `{"playing":false,"message":"Nothing is playing"}` {
		t.Errorf("data = %s", env.Data)
	}
}

func TestPlayerControlsRequireRunning(t *testing.T) {
	for _, args := range [][]string{
		{"player", "pause"},
		{"player", "seek", "10"},
		{"player", "volume", "50"},
		{"player", "repeat"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			h := newHarness(t)
			out, code := h.run(args...)
			if code != ExitGeneral {
				t.Errorf("exit = %d, want %d", code, ExitGeneral)
			}
			env := decode(t, out)
			if env.Success || env.Error == nil || env.Error.Code != PlayerError || env.Error.Message != "Nothing is playing" {
				t.Errorf("envelope = %s", out)
			}
		})
	}
}

func TestPlayerInvalidArguments(t *testing.T) {
	tests := []struct {
		args    []string
		running bool
		message string
	}{
		{[]string{"player", "seek", "abc"}, false, "Nothing is playing"},
		{[]string{"player", "volume", "loud"}, false, "Nothing is playing"},
		{[]string{"player", "seek", "abc"}, true, `invalid seconds "abc"`},
		{[]string{"player", "volume", "loud"}, true, `invalid volume "loud"`},
	}
	for _, tt := range tests {
		h := newHarness(t)
		h.player.running = tt.running
		out, code := h.run(tt.args...)
		if code != ExitGeneral {
			t.Errorf("%v: exit = %d, want %d", tt.args, code, ExitGeneral)
		}
		env := decode(t, out)
		if env.Error == nil || env.Error.Code != PlayerError || env.Error.Message != tt.message {
			t.Errorf("%v: envelope = %s", tt.args, out)
		}
	}
}

func TestPlayerControls(t *testing.T) {
	h := newHarness(t)
	h.player.running = true

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"player", "pause"}, "Paused\n"},
		{[]string{"player", "pause"}, "Resumed\n"},
		{[]string{"player", "volume"}, "Volume: 100%\n"},
		{[]string{"player", "volume", "200"}, "Volume: 150%\n"},
		{[]string{"player", "repeat"}, "Repeat: on\n"},
		{[]string{"player", "repeat", "off"}, "Repeat: off\n"},
		{[]string{"player", "seek", "--absolute", "30"}, "Seeked to 0:30/3:20\n"},
		{[]string{"player", "seek", "--", "-10"}, "Seeked to 0:30/3:20\n"},
		{[]string{"player", "stop"}, "Stopped\n"},
	}
	for _, tt := range tests {
		out, code := h.run(append([]string{"--plain"}, tt.args...)...)
		if code != ExitOK || out != tt.want {
			t.Errorf("%v: got %q (exit %d), want %q", tt.args, out, code, tt.want)
		}
	}
	if got := strings.Join(h.player.seeks, ","); got != "30 absolute,-10 relative" {
		t.Errorf("seeks = %s", got)
	}
	if h.player.running {
		t.Error("player still running after stop")
	}
}

func TestSearch(t *testing.T) {
	h := newHarness(t)
	out, code := h.run("--plain", "search", "track", "jay", "chou", "-l", "5", "-o", "10")
	if code != ExitOK {
		t.Fatalf("exit = %d", code)
	}
	if out != "m1\tTrack m1\tSinger\tAlbum\tqqmusic:track:m1\n" {
		t.Errorf("output = %q", out)
	}
	s := h.lib.search
	if s.query != "jay chou" || s.typ != domain.SearchTrack || s.limit != 5 || s.offset != 10 {
		t.Errorf("search = %+v", s)
	}
}

func TestErrorExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		args []string
		code string
		exit int
	}{
		{"auth kind", &qqmusic.Error{Kind: qqmusic.KindAuth, Message: "Authentication failed, please re-login"}, []string{"track", "detail", "m1"}, TrackError, ExitAuth},
		{"forbidden kind", &qqmusic.Error{Kind: qqmusic.KindForbidden, Message: "Access denied"}, []string{"playlist", "list"}, PlaylistError, ExitAuth},
		{"network", &qqmusic.Error{Kind: qqmusic.KindNetwork, Message: "Network connection failed"}, []string{"search", "album", "x"}, SearchError, ExitNetwork},
		{"play failure", &qqmusic.Error{Kind: qqmusic.KindUnavailable, Message: "Track unavailable"}, []string{"track", "play", "m1"}, PlayerError, ExitGeneral},
		{"plain error", errors.New("boom"), []string{"library", "liked"}, LibraryError, ExitNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.lib.err = tt.err
			out, code := h.run(tt.args...)
			if code != tt.exit {
				t.Errorf("exit = %d, want %d", code, tt.exit)
			}
			env := decode(t, out)
			if env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("envelope = %s", out)
			}
		})
	}
}

func TestUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"track", "detail"},
		{"track", "url", "m1", "-q", "lossless"},
		{"player", "repeat", "maybe"},
		{"nosuchcommand"},
	} {
		h := newHarness(t)
		out, code := h.run(args...)
		if code != ExitGeneral {
			t.Errorf("%v: exit = %d", args, code)
		}
		if env := decode(t, out); env.Error == nil || env.Error.Code != CLIError {
			t.Errorf("%v: envelope = %s", args, out)
		}
	}
}

func TestAuthLifecycle(t *testing.T) {
	h := newHarness(t)

	out, code := h.run("auth", "login")
	if code != ExitAuth {
		t.Errorf("login without cookies: exit %d, %s", code, out)
	}

	t.Setenv("QQM_COOKIE", "qm_keyst=Q_H_L_abc; uin=10001; pgv_pvid=1")
	out, code = h.run("auth", "login")
	if code != ExitOK {
		t.Fatalf("login: exit %d, %s", code, out)
	}
	var login struct {
		Authenticated bool   `json:"authenticated"`
		Profile       string `json:"profile"`
		Source        string `json:"source"`
	}
	json.Unmarshal(decode(t, out).Data, &login)
	if !login.Authenticated || login.Profile != "default" || login.Source != CookieEnv {
		t.Errorf("login = %+v", login)
	}

	out, code = h.run("auth", "check")
	if code != ExitOK || !strings.Contains(out, `"nickname":"listener"`) {
		t.Errorf("check: exit %d, %s", code, out)
	}

	out, _ = h.run("--plain", "auth", "profiles")
	if out != "default\ttrue\n" {
		t.Errorf("profiles = %q", out)
	}

	if _, code = h.run("auth", "logout"); code != ExitOK {
		t.Errorf("logout exit %d", code)
	}
	out, code = h.run("auth", "check")
	if code != ExitAuth || !strings.Contains(out, `"valid":false`) {
		t.Errorf("check after logout: exit %d, %s", code, out)
	}
}

func TestPlayRecordsHistory(t *testing.T) {
	h := newHarness(t)
	out, code := h.run("track", "play", "m1", "-q", "sq")
	if code != ExitOK {
		t.Fatalf("play: exit %d, %s", code, out)
	}
	if len(h.player.played) != 1 || h.player.played[0] != "Track m1 - Singer|https://stream.example/m1.sq.mp3" {
		t.Errorf("played = %v", h.player.played)
	}

	out, code = h.run("--plain", "library", "history", "--top")
	if code != ExitOK || out != "1\tm1\tTrack m1\tSinger\n" {
		t.Errorf("history --top: exit %d, %q", code, out)
	}
}

func TestLikedAndLike(t *testing.T) {
	h := newHarness(t)
	h.lib.liked = []string{"m1", "m2", "m3"}

	out, code := h.run("library", "liked", "-l", "2")
	if code != ExitOK {
		t.Fatalf("liked: exit %d", code)
	}
	var list struct {
		Tracks  []struct{ ID string } `json:"tracks"`
		Total   int                   `json:"total"`
		Showing int                   `json:"showing"`
	}
	json.Unmarshal(decode(t, out).Data, &list)
	if len(list.Tracks) != 2 || list.Total != 3 || list.Showing != 2 {
		t.Errorf("liked = %+v", list)
	}

	h.run("library", "unlike", "m9")
	if like, ok := h.lib.likes["m9"]; !ok || like {
		t.Errorf("likes = %v", h.lib.likes)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{errors.New("bad flag"), ExitGeneral},
		{withCode(AuthError, errors.New("x")), ExitAuth},
		{withCode(PlayerError, player.ErrNotRunning), ExitGeneral},
		{withCode(PlayerError, &qqmusic.Error{Kind: qqmusic.KindForbidden}), ExitGeneral},
		{withCode(TrackError, errors.Wrap(&qqmusic.Error{Kind: qqmusic.KindApplication}, "detail")), ExitNetwork},
		{&exitError{status: ExitAuth}, ExitAuth},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
