package ui

import (
	"fmt"
	"strings"

	"github.com/yhkl-dev/qqm/domain"
)

// CreateProgressBar creates a visual progress bar
func CreateProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filledWidth := int(progress * float64(width))

	var bar strings.Builder
	for i := 0; i < width; i++ {
		if i < filledWidth {
			bar.WriteString("[lightgreen]▓")
		} else {
			bar.WriteString("[darkgray]░")
		}
	}
	return bar.String() + fmt.Sprintf("[white] %.1f%%", progress*100)
}

// Progress returns the played fraction of the current file
func Progress(st domain.PlayerStatus) float64 {
	if st.Duration <= 0 {
		return 0
	}
	return st.Position / st.Duration
}

// FormatStatus renders the now playing pane
func FormatStatus(st domain.PlayerStatus) string {
	if !st.Playing {
		return `
[darkgray]Nothing is playing

[gray]Start a track with [white]qqm track play <id>`
	}

	state := "[lightgreen]▶ Playing"
	if st.Paused {
		state = "[yellow]⏸ Paused"
	}
	repeat := "[darkgray]off"
	if st.Loop.Repeat() {
		repeat = "[lightgreen]on"
	}
	title := st.Title
	if title == "" {
		title = "Unknown"
	}

	return fmt.Sprintf(`
%s
[white::b]%s[-:-:-]

[gray]Volume: [white]%.0f%%
[gray]Repeat: %s`, state, title, st.Volume, repeat)
}

// CreateProgressText creates the progress time display
func CreateProgressText(st domain.PlayerStatus, width int) string {
	return fmt.Sprintf("[darkgray]%s/%s %s",
		domain.FormatSeconds(st.Position), domain.FormatSeconds(st.Duration),
		CreateProgressBar(Progress(st), width))
}

// CreateHelpText lists the watch view key bindings
func CreateHelpText(seekStep, volumeStep float64) string {
	return fmt.Sprintf(`[darkgray] SPACE (pause)
[darkgray] h/l ←/→ (seek %gs)
[darkgray] gg (restart)
[darkgray] +/- (volume %g)
[darkgray] r (repeat)
[darkgray] s (stop)
[darkgray] q/ESC (close)`, seekStep, volumeStep)
}
