package cli

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yhkl-dev/qqm/domain"
	"github.com/yhkl-dev/qqm/history"
	"github.com/yhkl-dev/qqm/output"
	"github.com/yhkl-dev/qqm/player"
	"github.com/yhkl-dev/qqm/ui"
)

func (r *runner) newPlayerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Control the running mpv player",
	}
	cmd.AddCommand(
		r.newStatusCommand(),
		r.newPauseCommand(),
		r.newStopCommand(),
		r.newSeekCommand(),
		r.newVolumeCommand(),
		r.newRepeatCommand(),
		r.newWatchCommand(),
	)
	return cmd
}

// playerRun wraps a control command: it requires a running player and tags
// every failure as PLAYER_ERROR
func (r *runner) playerRun(f func(ctx context.Context, p player.Player, args []string) (output.Result, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a := r.app
		ctx := cmd.Context()
		if err := a.requireRunning(ctx); err != nil {
			return withCode(PlayerError, err)
		}
		result, err := f(ctx, a.Player, args)
		if err != nil {
			return withCode(PlayerError, err)
		}
		return a.Printer.Print(result)
	}
}

func (r *runner) newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what is playing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			status := domain.PlayerStatus{}
			if a.Player.IsRunning(cmd.Context()) {
				status = a.Player.Status(cmd.Context())
			}
			return a.Printer.Print(output.NewPlayerStatus(status))
		},
	}
}

func (r *runner) newPauseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Toggle pause",
		Args:  cobra.NoArgs,
		RunE: r.playerRun(func(ctx context.Context, p player.Player, args []string) (output.Result, error) {
			paused, err := p.TogglePause(ctx)
			if err != nil {
				return nil, err
			}
			return output.NewPause(paused), nil
		}),
	}
}

func (r *runner) newStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop playback and quit mpv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			if err := a.Player.Stop(cmd.Context()); err != nil {
				return withCode(PlayerError, err)
			}
			return a.Printer.Print(output.Notice{Message: "Stopped"})
		},
	}
}

func (r *runner) newSeekCommand() *cobra.Command {
	var absolute bool
	cmd := &cobra.Command{
		Use:   "seek <seconds>",
		Short: "Seek relative to the current position, or to an absolute one",
		Long:  "Seek relative to the current position, or to an absolute one.\nUse `qqm player seek -- -10` to seek backwards.",
		Args:  cobra.ExactArgs(1),
		RunE: r.playerRun(func(ctx context.Context, p player.Player, args []string) (output.Result, error) {
			secs, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return nil, errors.Errorf("invalid seconds %q", args[0])
			}
			mode := player.SeekRelative
			if absolute {
				mode = player.SeekAbsolute
			}
			if err := p.Seek(ctx, secs, mode); err != nil {
				return nil, err
			}
			return output.NewSeek(p.Status(ctx)), nil
		}),
	}
	cmd.Flags().BoolVar(&absolute, "absolute", false, "seek to an absolute position")
	return cmd
}

func (r *runner) newVolumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "volume [level]",
		Short: "Show or set the volume (0-150)",
		Args:  cobra.MaximumNArgs(1),
		RunE: r.playerRun(func(ctx context.Context, p player.Player, args []string) (output.Result, error) {
			if len(args) == 0 {
				return output.NewVolume(p.Volume(ctx)), nil
			}
			level, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return nil, errors.Errorf("invalid volume %q", args[0])
			}
			v, err := p.SetVolume(ctx, level)
			if err != nil {
				return nil, err
			}
			return output.NewVolume(v), nil
		}),
	}
}

func (r *runner) newRepeatCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "repeat [on|off]",
		Short:     "Set or toggle repeat of the current track",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: r.playerRun(func(ctx context.Context, p player.Player, args []string) (output.Result, error) {
			var on bool
			if len(args) == 1 {
				on = strings.EqualFold(args[0], "on")
			} else {
				on = !p.Loop(ctx).Repeat()
			}
			mode := domain.LoopOff
			if on {
				mode = domain.LoopInfinite
			}
			if err := p.SetLoop(ctx, mode); err != nil {
				return nil, err
			}
			return output.NewRepeat(on), nil
		}),
	}
}

func (r *runner) newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live view of the player with key controls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.app
			cfg := a.Config.UI
			if !r.flags.debug {
				// Log lines would tear the full screen view
				log.SetOutput(io.Discard)
			}
			view := ui.NewApp(a.Player, ui.Options{
				Refresh:          cfg.GetRefresh(),
				ProgressBarWidth: cfg.ProgressBarWidth,
				SeekStep:         cfg.SeekStep,
				VolumeStep:       cfg.VolumeStep,
				Cover:            a.lastPlayedCover,
			})
			return withCode(PlayerError, view.Run(cmd.Context()))
		},
	}
}

// lastPlayedCover renders the cover of the most recent play in local history
func (a *App) lastPlayedCover(ctx context.Context) (string, error) {
	store, err := a.History()
	if err != nil {
		return "", err
	}
	if store == nil {
		return "", errors.New("local history is disabled")
	}
	entries, err := store.Recent(ctx, 10)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Action != history.ActionPlay {
			continue
		}
		track, err := a.Library.Track(ctx, e.TrackID)
		if err != nil {
			return "", err
		}
		return a.CoverArt(ctx, track, 40, true)
	}
	return "", errors.New("no track played yet")
}
