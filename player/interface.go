package player

import (
	"context"

	"github.com/yhkl-dev/qqm/domain"
)

// Player defines the playback operations the CLI and the watch view rely on.
// Every call is independent: state lives in the player process, not here.
type Player interface {
	// Play replaces whatever is playing with url
	Play(ctx context.Context, url, title string) error

	// TogglePause flips the pause flag and reports the new value
	TogglePause(ctx context.Context) (bool, error)

	// Seek moves the playback position
	Seek(ctx context.Context, seconds float64, mode SeekMode) error

	// SetVolume sets the volume, clamped to [MinVolume, MaxVolume]
	SetVolume(ctx context.Context, volume float64) (float64, error)

	// Volume returns the current volume, or DefaultVolume if it cannot be read
	Volume(ctx context.Context) float64

	SetLoop(ctx context.Context, mode domain.LoopMode) error
	Loop(ctx context.Context) domain.LoopMode

	// Stop quits the player. It never fails when nothing is playing.
	Stop(ctx context.Context) error

	// Status gathers a snapshot; unreadable properties take their defaults
	Status(ctx context.Context) domain.PlayerStatus

	// IsRunning reports whether a player answers on the IPC endpoint
	IsRunning(ctx context.Context) bool

	State() State
}

// SeekMode selects how Seek interprets its argument
type SeekMode string

const (
	SeekRelative SeekMode = "relative"
	SeekAbsolute SeekMode = "absolute"
)

// Volume bounds accepted by mpv
const (
	MinVolume     = 0
	MaxVolume     = 150
	DefaultVolume = 100
)

// State is the lifecycle of a playback session as seen by this process
type State int32

const (
	StateIdle State = iota
	StateStarting
	StateReady
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	default:
		return "idle"
	}
}

// ClampVolume limits v to the range mpv accepts
func ClampVolume(v float64) float64 {
	if v < MinVolume {
		return MinVolume
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}
