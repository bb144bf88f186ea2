package player

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"github.com/yhkl-dev/qqm/domain"
	"github.com/yhkl-dev/qqm/mpvplayer"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
)

// ErrSocketUnavailable is returned when mpv was launched but its IPC
// endpoint never accepted a connection. The process is left running.
var ErrSocketUnavailable = errors.New("mpv started but IPC socket not available")

// ErrNotRunning is returned by control commands when no player answers
var ErrNotRunning = errors.New("Nothing is playing")

// Options configure an MPVPlayer. Zero values fall back to the defaults
// used by the CLI.
type Options struct {
	Binary        string
	SocketPath    string
	IPCTimeout    time.Duration
	ReadyDelay    time.Duration
	ReadyInterval time.Duration
	ReadyAttempts int

	// Launcher and Dialer replace process spawning and socket dialing
	Launcher Launcher
	Dialer   mpvplayer.DialFunc
}

// MPVPlayer implements Player by driving a detached mpv process
type MPVPlayer struct {
	binary        string
	socketPath    string
	ipc           *mpvplayer.Client
	launcher      Launcher
	readyDelay    time.Duration
	readyInterval time.Duration
	readyAttempts int
	state         atomic.Int32
	logger        *log.Entry
}

// NewMPVPlayer creates a new MPVPlayer instance
func NewMPVPlayer(opts Options) *MPVPlayer {
	if opts.Binary == "" {
		opts.Binary = "mpv"
	}
	if opts.SocketPath == "" {
		opts.SocketPath = mpvplayer.DefaultSocketPath
	}
	if opts.ReadyDelay <= 0 {
		opts.ReadyDelay = 300 * time.Millisecond
	}
	if opts.ReadyInterval <= 0 {
		opts.ReadyInterval = 200 * time.Millisecond
	}
	if opts.ReadyAttempts <= 0 {
		opts.ReadyAttempts = 10
	}
	if opts.Launcher == nil {
		opts.Launcher = execLauncher{}
	}

	clientOpts := []mpvplayer.Option{mpvplayer.WithTimeout(opts.IPCTimeout)}
	if opts.Dialer != nil {
		clientOpts = append(clientOpts, mpvplayer.WithDialer(opts.Dialer))
	}

	return &MPVPlayer{
		binary:        opts.Binary,
		socketPath:    opts.SocketPath,
		ipc:           mpvplayer.NewClient(opts.SocketPath, clientOpts...),
		launcher:      opts.Launcher,
		readyDelay:    opts.ReadyDelay,
		readyInterval: opts.ReadyInterval,
		readyAttempts: opts.ReadyAttempts,
		logger: log.WithFields(log.Fields{
			"module": "player",
		}),
	}
}

// State returns the lifecycle state observed by this process
func (p *MPVPlayer) State() State {
	return State(p.state.Load())
}

func (p *MPVPlayer) setState(s State) {
	p.state.Store(int32(s))
}

// Play stops any running instance, launches mpv on url and waits for its
// control socket.
func (p *MPVPlayer) Play(ctx context.Context, url, title string) error {
	if err := p.Stop(ctx); err != nil {
		p.logger.Debugf("stop before play: %v", err)
	}
	if err := mpvplayer.RemoveStale(p.socketPath); err != nil {
		p.logger.Debugf("remove stale socket: %v", err)
	}
	if title == "" {
		title = "qqm"
	}

	args := []string{
		"--no-video",
		"--input-ipc-server=" + p.socketPath,
		"--title=" + title,
		url,
	}
	p.setState(StateStarting)
	p.logger.Infof("starting %s for %q", p.binary, title)
	if err := p.launcher.Launch(p.binary, args); err != nil {
		p.setState(StateIdle)
		return errors.Errorf("Failed to start mpv: %v", err)
	}

	if err := p.waitReady(ctx); err != nil {
		return err
	}
	p.setState(StateReady)
	return nil
}

// waitReady probes the control socket until it answers. Cancellation is
// reported as ErrSocketUnavailable combined with the context error, and like
// exhausted attempts it leaves the state at StateStarting.
func (p *MPVPlayer) waitReady(ctx context.Context) error {
	wait := p.readyDelay
	for attempt := 1; attempt <= p.readyAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return multierr.Combine(ErrSocketUnavailable, ctx.Err())
		case <-time.After(wait):
		}
		err := p.ipc.Probe(ctx)
		if err == nil {
			p.logger.Debugf("IPC socket ready after %d attempt(s)", attempt)
			return nil
		}
		p.logger.Debugf("IPC probe %d/%d: %v", attempt, p.readyAttempts, err)
		wait = p.readyInterval
	}
	return ErrSocketUnavailable
}

// TogglePause cycles the pause flag and reads it back
func (p *MPVPlayer) TogglePause(ctx context.Context) (bool, error) {
	if _, err := p.ipc.Command(ctx, "cycle", "pause"); err != nil {
		return false, err
	}
	paused, err := p.ipc.GetBool(ctx, "pause")
	if err != nil {
		return false, errors.Wrap(err, "failed to read pause state")
	}
	return paused, nil
}

func (p *MPVPlayer) Seek(ctx context.Context, seconds float64, mode SeekMode) error {
	if mode != SeekAbsolute {
		mode = SeekRelative
	}
	_, err := p.ipc.Command(ctx, "seek", strconv.FormatFloat(seconds, 'f', -1, 64), string(mode))
	return err
}

func (p *MPVPlayer) SetVolume(ctx context.Context, volume float64) (float64, error) {
	volume = ClampVolume(volume)
	if err := p.ipc.SetProperty(ctx, "volume", volume); err != nil {
		return 0, err
	}
	return volume, nil
}

func (p *MPVPlayer) Volume(ctx context.Context) float64 {
	v, err := p.ipc.GetFloat(ctx, "volume")
	if err != nil {
		p.logger.Debugf("read volume: %v", err)
		return DefaultVolume
	}
	return v
}

func (p *MPVPlayer) SetLoop(ctx context.Context, mode domain.LoopMode) error {
	return p.ipc.SetProperty(ctx, "loop-file", string(mode))
}

func (p *MPVPlayer) Loop(ctx context.Context) domain.LoopMode {
	s, err := p.ipc.GetString(ctx, "loop-file")
	if err != nil {
		p.logger.Debugf("read loop-file: %v", err)
		return domain.LoopOff
	}
	return domain.LoopMode(s)
}

// Stop sends quit. A player that is already gone is not an error.
func (p *MPVPlayer) Stop(ctx context.Context) error {
	if _, err := p.ipc.Command(ctx, "quit"); err != nil {
		p.logger.Debugf("quit: %v", err)
	}
	p.setState(StateIdle)
	return nil
}

func (p *MPVPlayer) IsRunning(ctx context.Context) bool {
	_, err := p.ipc.GetProperty(ctx, "pid")
	return err == nil
}

// Status reads every property concurrently. A property that fails keeps
// its default; the failures are only logged.
func (p *MPVPlayer) Status(ctx context.Context) domain.PlayerStatus {
	status := domain.PlayerStatus{
		Volume: DefaultVolume,
		Loop:   domain.LoopOff,
	}
	if !p.IsRunning(ctx) {
		return status
	}
	status.Playing = true

	var (
		mu   sync.Mutex
		errs error
		wg   conc.WaitGroup
	)
	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = multierr.Append(errs, errors.Wrap(err, name))
	}

	wg.Go(func() {
		if v, err := p.ipc.GetFloat(ctx, "time-pos"); err != nil {
			record("time-pos", err)
		} else {
			status.Position = v
		}
	})
	wg.Go(func() {
		if v, err := p.ipc.GetFloat(ctx, "duration"); err != nil {
			record("duration", err)
		} else {
			status.Duration = v
		}
	})
	wg.Go(func() {
		if v, err := p.ipc.GetBool(ctx, "pause"); err != nil {
			record("pause", err)
		} else {
			status.Paused = v
		}
	})
	wg.Go(func() {
		if v, err := p.ipc.GetFloat(ctx, "volume"); err != nil {
			record("volume", err)
		} else {
			status.Volume = v
		}
	})
	wg.Go(func() {
		if v, err := p.ipc.GetString(ctx, "loop-file"); err != nil {
			record("loop-file", err)
		} else {
			status.Loop = domain.LoopMode(v)
		}
	})
	wg.Go(func() {
		if v, err := p.ipc.GetString(ctx, "media-title"); err != nil {
			record("media-title", err)
		} else {
			status.Title = v
		}
	})
	wg.Wait()

	if errs != nil {
		p.logger.Debugf("status: %d propert(ies) unavailable: %v", len(multierr.Errors(errs)), errs)
	}
	return status
}
