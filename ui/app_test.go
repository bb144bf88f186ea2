package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/yhkl-dev/qqm/domain"
	"github.com/yhkl-dev/qqm/player"
)

type fakePlayer struct {
	calls  []string
	volume float64
	loop   domain.LoopMode
	status domain.PlayerStatus
	err    error
}

func (f *fakePlayer) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakePlayer) Play(ctx context.Context, url, title string) error {
	f.record("play %s", url)
	return f.err
}

func (f *fakePlayer) TogglePause(ctx context.Context) (bool, error) {
	f.record("pause")
	return true, f.err
}

func (f *fakePlayer) Seek(ctx context.Context, seconds float64, mode player.SeekMode) error {
	f.record("seek %g %s", seconds, mode)
	return f.err
}

func (f *fakePlayer) SetVolume(ctx context.Context, v float64) (float64, error) {
	v = player.ClampVolume(v)
	f.record("volume %g", v)
	f.volume = v
	return v, f.err
}

func (f *fakePlayer) Volume(ctx context.Context) float64 { return f.volume }

func (f *fakePlayer) SetLoop(ctx context.Context, mode domain.LoopMode) error {
	f.record("loop %s", mode)
	f.loop = mode
	return f.err
}

func (f *fakePlayer) Loop(ctx context.Context) domain.LoopMode { return f.loop }

func (f *fakePlayer) Stop(ctx context.Context) error {
	f.record("stop")
	return nil
}

func (f *fakePlayer) Status(ctx context.Context) domain.PlayerStatus { return f.status }
func (f *fakePlayer) IsRunning(ctx context.Context) bool             { return f.status.Playing }
func (f *fakePlayer) State() player.State                            { return player.StateReady }

func newTestApp(p player.Player) *App {
	a := NewApp(p, Options{SeekStep: 10, VolumeStep: 5})
	a.dispatch = func(f func()) { f() }
	a.draw = func(f func()) { f() }
	return a
}

func TestWatchKeyActions(t *testing.T) {
	tests := []struct {
		name   string
		events []*tcell.EventKey
		want   []string
	}{
		{"space pauses", []*tcell.EventKey{runeEvent(' ')}, []string{"pause"}},
		{"l seeks forward", []*tcell.EventKey{runeEvent('l')}, []string{"seek 10 relative"}},
		{"left seeks back", []*tcell.EventKey{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone)}, []string{"seek -10 relative"}},
		{"gg restarts", []*tcell.EventKey{runeEvent('g'), runeEvent('g')}, []string{"seek 0 absolute"}},
		{"plus raises volume", []*tcell.EventKey{runeEvent('+')}, []string{"volume 105"}},
		{"minus lowers volume", []*tcell.EventKey{runeEvent('-')}, []string{"volume 95"}},
		{"r toggles repeat", []*tcell.EventKey{runeEvent('r'), runeEvent('r')}, []string{"loop inf", "loop no"}},
		{"s stops", []*tcell.EventKey{runeEvent('s')}, []string{"stop"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := &fakePlayer{volume: 100, loop: domain.LoopOff}
			a := newTestApp(fp)
			for _, ev := range tt.events {
				if !a.keys.HandleKey(ev) {
					t.Fatalf("key %v not handled", ev.Name())
				}
			}
			if strings.Join(fp.calls, ",") != strings.Join(tt.want, ",") {
				t.Errorf("calls = %v, want %v", fp.calls, tt.want)
			}
		})
	}
}

func TestWatchVolumeClamped(t *testing.T) {
	fp := &fakePlayer{volume: 148}
	a := newTestApp(fp)
	a.keys.HandleKey(runeEvent('+'))
	if fp.volume != player.MaxVolume {
		t.Errorf("volume = %v, want %v", fp.volume, player.MaxVolume)
	}
}

func TestWatchRefresh(t *testing.T) {
	fp := &fakePlayer{status: domain.PlayerStatus{
		Playing:  true,
		Title:    "晴天",
		Position: 30,
		Duration: 60,
		Volume:   80,
	}}
	a := newTestApp(fp)
	a.refresh()

	if a.Status().Title != "晴天" {
		t.Errorf("status = %+v", a.Status())
	}
	if text := a.statusView.GetText(true); !strings.Contains(text, "晴天") || !strings.Contains(text, "80%") {
		t.Errorf("status pane = %q", text)
	}
	if text := a.progressView.GetText(true); !strings.Contains(text, "0:30/1:00") || !strings.Contains(text, "50.0%") {
		t.Errorf("progress pane = %q", text)
	}
}

func TestWatchShowsErrors(t *testing.T) {
	fp := &fakePlayer{err: errors.New("mpv IPC timeout")}
	a := newTestApp(fp)
	a.keys.HandleKey(runeEvent(' '))
	if text := a.messageView.GetText(true); !strings.Contains(text, "pause failed: mpv IPC timeout") {
		t.Errorf("message = %q", text)
	}
}

func TestWatchCoverFallback(t *testing.T) {
	a := NewApp(&fakePlayer{}, Options{
		Cover: func(ctx context.Context) (string, error) { return "", errors.New("no cover") },
	})
	a.draw = func(f func()) { f() }
	a.loadCover()
	if text := a.coverView.GetText(true); !strings.Contains(text, "No Cover Art") {
		t.Errorf("cover = %q", text)
	}
}
