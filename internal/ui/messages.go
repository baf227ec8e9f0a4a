package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/kaleido/internal/player"
)

// frameMsg is one scheduled animation callback. Ticks from an older
// generation are dropped, which is how a schedule is revoked.
type frameMsg struct {
	gen int
}

// playbackEndedMsg reports that player finished. Messages for a player that
// is no longer current are ignored.
type playbackEndedMsg struct {
	player *player.Player
}

func frameCmd(gen int, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}
