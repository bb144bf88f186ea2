package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	log "github.com/sirupsen/logrus"
	"github.com/yhkl-dev/qqm/coverart"
	"github.com/yhkl-dev/qqm/domain"
	"github.com/yhkl-dev/qqm/player"
)

// Options configure the watch view
type Options struct {
	Refresh          time.Duration
	ProgressBarWidth int
	SeekStep         float64
	VolumeStep       float64

	// Cover loads the ANSI art shown beside the status. Nil or a failing
	// loader shows the placeholder.
	Cover func(ctx context.Context) (string, error)
}

// App is the live terminal view of the running player
type App struct {
	tviewApp *tview.Application
	player   player.Player
	opts     Options
	keys     *KeyBindingManager
	ctx      context.Context
	logger   *log.Entry

	statusView   *tview.TextView
	progressView *tview.TextView
	coverView    *tview.TextView
	messageView  *tview.TextView
	rootFlex     *tview.Flex

	mu     sync.Mutex
	status domain.PlayerStatus

	// dispatch runs player calls off the event loop; draw applies view
	// changes on it. Both are swapped out in tests.
	dispatch func(func())
	draw     func(func())
}

// NewApp creates the watch view for plr
func NewApp(plr player.Player, opts Options) *App {
	if opts.Refresh <= 0 {
		opts.Refresh = time.Second
	}
	if opts.ProgressBarWidth <= 0 {
		opts.ProgressBarWidth = 30
	}
	if opts.SeekStep <= 0 {
		opts.SeekStep = 10
	}
	if opts.VolumeStep <= 0 {
		opts.VolumeStep = 5
	}

	a := &App{
		tviewApp: tview.NewApplication(),
		player:   plr,
		opts:     opts,
		keys:     NewKeyBindingManager(),
		ctx:      context.Background(),
		logger:   log.WithFields(log.Fields{"module": "ui"}),
	}
	a.dispatch = func(f func()) { go f() }
	a.draw = func(f func()) { a.tviewApp.QueueUpdateDraw(f) }

	a.createLayout()
	a.registerKeys()
	return a
}

// Run shows the view until the user quits or ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.ctx = ctx

	a.tviewApp.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if a.keys.HandleKey(event) {
			return nil
		}
		return event
	})

	go a.loadCover()
	go a.refreshLoop()
	go func() {
		<-ctx.Done()
		a.tviewApp.Stop()
	}()

	a.logger.Info("starting watch view")
	return a.tviewApp.Run()
}

// Stop closes the view
func (a *App) Stop() {
	if a.tviewApp != nil {
		a.tviewApp.Stop()
	}
}

func (a *App) createLayout() {
	a.statusView = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true)
	a.statusView.SetBorder(false)

	a.progressView = tview.NewTextView().
		SetDynamicColors(true)
	a.progressView.SetBorder(false)

	a.coverView = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	a.coverView.SetBorder(false)
	a.coverView.SetText(coverart.Placeholder(coverart.Options{Markup: true}))

	a.messageView = tview.NewTextView().
		SetDynamicColors(true)
	a.messageView.SetBorder(false)

	help := tview.NewTextView().
		SetDynamicColors(true).
		SetText(CreateHelpText(a.opts.SeekStep, a.opts.VolumeStep))

	rightPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.statusView, 0, 1, false).
		AddItem(help, 8, 0, false)

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.coverView, 0, 1, false).
		AddItem(rightPanel, 0, 1, false)

	a.rootFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainLayout, 0, 1, true).
		AddItem(a.progressView, 1, 0, false).
		AddItem(a.messageView, 1, 0, false)

	a.tviewApp.SetRoot(a.rootFlex, true)
}

func (a *App) registerKeys() {
	a.keys.RegisterKeyBinding(KeyAction{name: "pause", handler: a.togglePause}, nil, []rune{' ', 'p'})
	a.keys.RegisterKeyBinding(KeyAction{name: "seekBack", handler: func() { a.seek(-a.opts.SeekStep) }},
		[]tcell.Key{tcell.KeyLeft}, []rune{'h'})
	a.keys.RegisterKeyBinding(KeyAction{name: "seekForward", handler: func() { a.seek(a.opts.SeekStep) }},
		[]tcell.Key{tcell.KeyRight}, []rune{'l'})
	a.keys.RegisterKeyBinding(KeyAction{name: "volumeUp", handler: func() { a.changeVolume(a.opts.VolumeStep) }},
		[]tcell.Key{tcell.KeyUp}, []rune{'+', '='})
	a.keys.RegisterKeyBinding(KeyAction{name: "volumeDown", handler: func() { a.changeVolume(-a.opts.VolumeStep) }},
		[]tcell.Key{tcell.KeyDown}, []rune{'-', '_'})
	a.keys.RegisterKeyBinding(KeyAction{name: "repeat", handler: a.toggleRepeat}, nil, []rune{'r'})
	a.keys.RegisterKeyBinding(KeyAction{name: "stop", handler: a.stopPlayback}, nil, []rune{'s'})
	a.keys.RegisterKeyBinding(KeyAction{name: "quit", handler: a.Stop}, []tcell.Key{tcell.KeyEscape}, []rune{'q', 'Q'})
	a.keys.RegisterSequence(KeyAction{name: "seekStart", handler: a.restart}, "gg")
}

func (a *App) togglePause() {
	a.run("pause", func(ctx context.Context) error {
		_, err := a.player.TogglePause(ctx)
		return err
	})
}

func (a *App) seek(delta float64) {
	a.run("seek", func(ctx context.Context) error {
		return a.player.Seek(ctx, delta, player.SeekRelative)
	})
}

func (a *App) restart() {
	a.run("seek", func(ctx context.Context) error {
		return a.player.Seek(ctx, 0, player.SeekAbsolute)
	})
}

func (a *App) changeVolume(delta float64) {
	a.run("volume", func(ctx context.Context) error {
		_, err := a.player.SetVolume(ctx, a.player.Volume(ctx)+delta)
		return err
	})
}

func (a *App) toggleRepeat() {
	a.run("repeat", func(ctx context.Context) error {
		mode := domain.LoopInfinite
		if a.player.Loop(ctx).Repeat() {
			mode = domain.LoopOff
		}
		return a.player.SetLoop(ctx, mode)
	})
}

func (a *App) stopPlayback() {
	a.run("stop", a.player.Stop)
}

// run executes a player call and refreshes the view afterwards
func (a *App) run(name string, f func(ctx context.Context) error) {
	a.dispatch(func() {
		message := ""
		if err := f(a.ctx); err != nil {
			a.logger.Debugf("%s: %v", name, err)
			message = fmt.Sprintf("[red]%s failed: %v", name, err)
		}
		a.draw(func() { a.messageView.SetText(message) })
		a.refresh()
	})
}

func (a *App) refreshLoop() {
	a.refresh()
	ticker := time.NewTicker(a.opts.Refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.refresh()
		case <-a.ctx.Done():
			return
		}
	}
}

// refresh polls the player and redraws the status panes
func (a *App) refresh() {
	st := a.player.Status(a.ctx)
	a.mu.Lock()
	a.status = st
	a.mu.Unlock()
	a.draw(func() { a.render(st) })
}

func (a *App) render(st domain.PlayerStatus) {
	a.statusView.SetText(FormatStatus(st))
	if st.Playing {
		a.progressView.SetText(CreateProgressText(st, a.opts.ProgressBarWidth))
	} else {
		a.progressView.SetText("")
	}
}

// Status returns the last snapshot shown
func (a *App) Status() domain.PlayerStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *App) loadCover() {
	if a.opts.Cover == nil {
		return
	}
	art, err := a.opts.Cover(a.ctx)
	text := coverart.Placeholder(coverart.Options{Markup: true})
	if err != nil {
		a.logger.Debugf("cover: %v", err)
	} else {
		text = tview.TranslateANSI(art)
	}
	a.draw(func() { a.coverView.SetText(text) })
}
