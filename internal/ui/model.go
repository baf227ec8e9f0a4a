package ui

import (
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/kaleido/internal/player"
	"github.com/olivier-w/kaleido/internal/raster"
	"github.com/olivier-w/kaleido/internal/screen"
	"github.com/olivier-w/kaleido/internal/util"
	"github.com/olivier-w/kaleido/internal/visualizer"
)

// Options configures the TUI.
type Options struct {
	FPS   int
	Title string
	// Queue holds tracks to play after the current one. Open starts each.
	Queue []string
	Open  func(path string) (*player.Player, error)
}

// Model is the Bubbletea model for the kaleido TUI. A nil loop means the
// engine could not start; the model then only shows a message.
type Model struct {
	loop     *visualizer.Loop
	canvas   *raster.Canvas
	renderer *screen.Renderer
	player   *player.Player
	title    string
	interval time.Duration
	queue    []string
	open     func(string) (*player.Player, error)

	keys keyMap
	help help.Model

	gen      int
	width    int
	height   int
	cols     int
	rows     int
	frame    string
	elapsed  time.Duration
	duration time.Duration
	paused   bool
	quitting bool

	lastDraw time.Time
	drawRate float64 // smoothed frames drawn per second
}

// New creates a Model. p may be nil when nothing is playing.
func New(loop *visualizer.Loop, canvas *raster.Canvas, r *screen.Renderer, p *player.Player, opts Options) Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = 30
	}
	m := Model{
		loop:     loop,
		canvas:   canvas,
		renderer: r,
		player:   p,
		title:    opts.Title,
		queue:    opts.Queue,
		open:     opts.Open,
		interval: time.Second / time.Duration(fps),
		keys:     defaultKeys(),
		help:     help.New(),
	}
	if canvas != nil {
		w, h := canvas.Size()
		m.cols, m.rows = int(w), int(h)/2
	}
	if p != nil {
		m.duration = p.Duration()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle(windowTitle(m.title, false))}
	if m.loop != nil {
		cmds = append(cmds, frameCmd(m.gen, m.interval))
	}
	if m.player != nil {
		cmds = append(cmds, checkDone(m.player))
	}
	return tea.Batch(cmds...)
}

func checkDone(p *player.Player) tea.Cmd {
	return func() tea.Msg {
		<-p.Done()
		return playbackEndedMsg{player: p}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.quit()
		case key.Matches(msg, m.keys.Next):
			if m.loop != nil {
				m.loop.NextStyle()
			}
		case key.Matches(msg, m.keys.Pause):
			if m.player != nil {
				m.player.TogglePause()
				m.paused = m.player.Paused()
			} else {
				m.paused = !m.paused
			}
			return m, tea.SetWindowTitle(windowTitle(m.title, m.paused))
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.layout()
		}
		return m, nil

	case frameMsg:
		if msg.gen != m.gen || m.quitting || m.loop == nil {
			return m, nil
		}
		if m.player != nil {
			m.elapsed = m.player.Position()
		}
		if !m.paused && m.loop.Frame() {
			m.frame = m.renderer.Render(m.canvas.Image(), m.cols, m.rows)
			m.measureRate(time.Now())
		}
		return m, frameCmd(m.gen, m.interval)

	case playbackEndedMsg:
		if msg.player != m.player || m.quitting {
			return m, nil
		}
		if next, cmd, ok := m.advanceTrack(); ok {
			return next, cmd
		}
		m.elapsed = m.duration
		return m.quit()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.layout()
		if m.quitting || m.loop == nil {
			return m, nil
		}
		// Restart the schedule so exactly one tick chain survives.
		m.gen++
		return m, frameCmd(m.gen, m.interval)
	}

	return m, nil
}

func (m *Model) measureRate(now time.Time) {
	if !m.lastDraw.IsZero() {
		if dt := now.Sub(m.lastDraw).Seconds(); dt > 0 {
			if m.drawRate == 0 {
				m.drawRate = 1 / dt
			} else {
				m.drawRate += (1/dt - m.drawRate) * 0.1
			}
		}
	}
	m.lastDraw = now
}

// advanceTrack opens the next queued track that starts successfully.
func (m Model) advanceTrack() (Model, tea.Cmd, bool) {
	if m.open == nil {
		return m, nil, false
	}
	m.player.Close()
	for len(m.queue) > 0 {
		path := m.queue[0]
		m.queue = m.queue[1:]
		p, err := m.open(path)
		if err != nil {
			log.Printf("skipping %s: %v", path, err)
			continue
		}
		m.player = p
		m.title = player.ReadMetadata(path).Label()
		m.duration = p.Duration()
		m.elapsed = 0
		m.paused = false
		return m, tea.Batch(checkDone(p), tea.SetWindowTitle(windowTitle(m.title, false))), true
	}
	return m, nil, false
}

// layout sizes the canvas to the space left under the status and help lines.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 || m.quitting || m.canvas == nil {
		return
	}
	chrome := 1 + lipgloss.Height(m.help.View(m.keys))
	m.cols = m.width
	m.rows = max(1, m.height-chrome)
	m.canvas.Resize(screen.CanvasSize(m.cols, m.rows))
	m.frame = ""
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.gen++
	if m.loop != nil {
		m.loop.Stop()
	}
	if m.player != nil {
		m.player.Close()
	}
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.loop == nil {
		return "\n  " + errorStyle.Render("visualizer unavailable: no audio source or drawing surface") +
			"\n\n  " + m.help.View(m.keys) + "\n"
	}

	var b strings.Builder
	frame := m.frame
	if frame == "" {
		frame = strings.Repeat("\n", max(0, m.rows-1))
	}
	b.WriteString(frame)
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) statusLine() string {
	st := m.loop.State()
	left := styleNameStyle.Render(m.loop.StyleName()) + " " +
		statusStyle.Render(renderEngineState(m.loop.StyleName(), st, m.loop.Quality().Tier))
	if st.Beat {
		left += " " + beatStyle.Render("●")
	}
	if m.paused {
		left += " " + statusStyle.Render("❚❚ paused")
	} else {
		left += " " + timeStyle.Render(util.FormatRate(m.drawRate))
	}

	clock := util.FormatDuration(m.elapsed)
	if m.duration > 0 {
		clock += " " + renderProgressBar(m.elapsed.Seconds(), m.duration.Seconds(), 14) +
			" " + util.FormatDuration(m.duration)
	}
	right := titleStyle.Render(m.title) + "  " + timeStyle.Render(clock)
	if m.title == "" {
		right = timeStyle.Render(clock)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func windowTitle(title string, paused bool) string {
	t := "kaleido"
	if title != "" {
		t = title + " · kaleido"
	}
	if paused {
		t = "❚❚ " + t
	}
	return t
}
