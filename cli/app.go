package cli

import (
	"context"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/yhkl-dev/qqm/auth"
	"github.com/yhkl-dev/qqm/config"
	"github.com/yhkl-dev/qqm/coverart"
	"github.com/yhkl-dev/qqm/domain"
	"github.com/yhkl-dev/qqm/download"
	"github.com/yhkl-dev/qqm/history"
	"github.com/yhkl-dev/qqm/library"
	"github.com/yhkl-dev/qqm/output"
	"github.com/yhkl-dev/qqm/player"
	"github.com/yhkl-dev/qqm/qqmusic"
)

// App is everything a command needs, built once per invocation
type App struct {
	Config     *config.Config
	Printer    *output.Printer
	Store      *auth.Store
	Auth       *auth.Manager
	Client     *qqmusic.Client
	Library    library.Library
	Player     player.Player
	Downloader *download.Downloader
	Cover      *coverart.Converter

	history *history.Store
	logger  *log.Entry
}

// Env is the process surface a run works against. Library and Player
// replace the real implementations when set.
type Env struct {
	Args   []string
	Stdout io.Writer
	Stderr io.Writer

	Library library.Library
	Player  player.Player
}

func newApp(cfg *config.Config, printer *output.Printer, env Env) (*App, error) {
	store := auth.NewStore(cfg.Home)
	if err := store.Migrate(); err != nil {
		log.Debugf("session migration: %v", err)
	}
	manager, err := auth.NewManager(store, cfg.Profile)
	if err != nil {
		return nil, err
	}

	variant, err := qqmusic.ParseVariant(cfg.API.Variant)
	if err != nil {
		return nil, err
	}
	client := qqmusic.NewClient(qqmusic.Options{
		Endpoint:        cfg.API.Endpoint,
		Variant:         variant,
		Timeout:         cfg.API.GetTimeout(),
		DownloadTimeout: cfg.API.GetDownloadTimeout(),
	}, manager)

	app := &App{
		Config:     cfg,
		Printer:    printer,
		Store:      store,
		Auth:       manager,
		Client:     client,
		Library:    env.Library,
		Player:     env.Player,
		Downloader: download.New(client, cfg.Download.Dir, cfg.Download.Tag),
		Cover:      coverart.NewConverter(),
		logger: log.WithFields(log.Fields{
			"module":  "cli",
			"profile": cfg.Profile,
		}),
	}
	if app.Library == nil {
		app.Library = library.NewQQMusicLibrary(client)
	}
	if app.Player == nil {
		app.Player = player.NewMPVPlayer(player.Options{
			Binary:        cfg.Player.Binary,
			SocketPath:    cfg.Player.Socket,
			IPCTimeout:    cfg.Player.GetIPCTimeout(),
			ReadyDelay:    cfg.Player.GetReadyDelay(),
			ReadyInterval: cfg.Player.GetReadyInterval(),
			ReadyAttempts: cfg.Player.ReadyAttempts,
		})
	}
	return app, nil
}

// History opens the local history database on first use. It returns nil
// when history is disabled.
func (a *App) History() (*history.Store, error) {
	if !a.Config.History.Enabled {
		return nil, nil
	}
	if a.history != nil {
		return a.history, nil
	}
	store, err := history.Open(a.Config.History.Path)
	if err != nil {
		return nil, err
	}
	a.history = store
	return store, nil
}

// Record adds a history entry. Failures are logged and otherwise ignored.
func (a *App) Record(ctx context.Context, t *domain.Track, quality domain.Quality, action string) {
	store, err := a.History()
	if err != nil {
		a.logger.Debugf("history unavailable: %v", err)
		return
	}
	if store == nil {
		return
	}
	err = store.Record(ctx, history.Entry{
		TrackID: t.ID,
		Name:    t.Name,
		Artist:  t.ArtistNames(", "),
		Album:   t.Album.Name,
		Quality: string(quality),
		Action:  action,
	})
	if err != nil {
		a.logger.Debugf("record %s of %s: %v", action, t.ID, err)
	}
}

// Close releases resources opened during the command
func (a *App) Close() error {
	var errs error
	if a.history != nil {
		errs = multierr.Append(errs, errors.Wrap(a.history.Close(), "failed to close history"))
		a.history = nil
	}
	return errs
}

// requireRunning fails with player.ErrNotRunning when no player answers
func (a *App) requireRunning(ctx context.Context) error {
	if !a.Player.IsRunning(ctx) {
		return player.ErrNotRunning
	}
	return nil
}

// CoverArt downloads and renders the album cover of t
func (a *App) CoverArt(ctx context.Context, t *domain.Track, width int, colored bool) (string, error) {
	return a.Cover.ConvertFromURL(ctx, t.Album.PicURL, coverart.Options{
		Width:   width,
		Height:  width / 2,
		Colored: colored,
	})
}
