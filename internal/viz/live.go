package viz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/framesim/internal/export"
	"github.com/san-kum/framesim/internal/metrics"
	"github.com/san-kum/framesim/internal/sim"
)

const (
	hudWidth   = 36
	chartWidth = 24
)

type TickMsg time.Time

// Option configures a Model.
type Option func(*Model)

func WithFPS(fps int) Option {
	return func(m *Model) {
		if fps > 0 {
			m.fps = fps
		}
	}
}

func WithTheme(name string) Option {
	return func(m *Model) { m.theme = GetTheme(name) }
}

// WithGIFPath sets where the g key saves its recording.
func WithGIFPath(path string) Option {
	return func(m *Model) { m.gifPath = path }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// Model drives a sim.Loop from bubbletea ticks and shows the latest frame
// next to a HUD.
type Model struct {
	ctx    context.Context
	loop   *sim.Loop
	term   *Terminal
	metric metrics.Metric
	logger *slog.Logger

	fps      int
	theme    Theme
	styles   styles
	showHelp bool

	recorder  *export.GIFRecorder
	recording bool
	gifPath   string

	width, height int
	status        string
	err           error
}

// NewModel attaches term as the loop's presenter. metric may be nil.
func NewModel(ctx context.Context, loop *sim.Loop, term *Terminal, metric metrics.Metric, opts ...Option) *Model {
	m := &Model{
		ctx:      ctx,
		loop:     loop,
		term:     term,
		metric:   metric,
		logger:   slog.New(slog.DiscardHandler),
		fps:      60,
		theme:    ThemeCyberpunk,
		recorder: export.NewGIFRecorder(export.DefaultDelay, 0),
		gifPath:  "framesim.gif",
	}
	for _, opt := range opts {
		opt(m)
	}
	m.applyTheme()
	loop.SetPresenter(term)
	term.Present(loop.Snapshot())
	return m
}

// Err returns the error that stopped the program, if any.
func (m *Model) Err() error { return m.err }

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Init() tea.Cmd { return m.tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.fit()
		return m, nil

	case TickMsg:
		if err := m.loop.Tick(m.ctx); err != nil {
			m.err = err
			m.logger.Error("tick failed", "err", err)
			m.loop.Close()
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.recording {
			m.stopRecording()
		}
		m.loop.Close()
		return m, tea.Quit
	case " ":
		state, err := m.loop.Toggle()
		if err != nil {
			m.status = err.Error()
			break
		}
		m.logger.Debug("toggled", "state", state.String())
	case "r":
		if err := m.loop.Reset(); err != nil {
			m.status = err.Error()
			break
		}
		if m.metric != nil {
			m.metric.Reset()
		}
		m.status = "reset"
	case "g":
		if m.recording {
			m.stopRecording()
		} else {
			m.startRecording()
		}
	case "t":
		m.theme = NextTheme(m.theme)
		m.applyTheme()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) applyTheme() {
	m.styles = newStyles(m.theme)
	m.term.SetInk(m.theme.Secondary)
}

// fit resizes the loop to the cells left of the HUD. A failed resize keeps
// the old size and is reported in the status line.
func (m *Model) fit() {
	cols := m.width - hudWidth
	rows := m.height - 1
	if cols < 1 || rows < 1 {
		return
	}
	cw, ch := m.term.Glyph().CellSize()
	if err := m.loop.Resize(cols*cw, rows*ch); err != nil {
		m.status = "resize: " + err.Error()
		m.logger.Warn("resize failed", "cols", cols, "rows", rows, "err", err)
	}
}

func (m *Model) startRecording() {
	m.recorder.Reset()
	m.loop.SetPresenter(export.Tee(m.term, m.recorder))
	m.recording = true
	m.status = "recording"
}

func (m *Model) stopRecording() {
	m.loop.SetPresenter(m.term)
	m.recording = false
	n := m.recorder.Len()
	if err := m.recorder.Save(m.gifPath); err != nil {
		m.status = "gif: " + err.Error()
		m.logger.Warn("gif save failed", "path", m.gifPath, "err", err)
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", n, m.gifPath)
}

func (m *Model) View() string {
	main := lipgloss.JoinHorizontal(lipgloss.Top, m.term.Render(), m.hud())
	if m.status != "" {
		main += "\n" + m.styles.muted.Render(m.status)
	}
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

func (m *Model) hud() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.header.Render(GradientText(strings.ToUpper(m.loop.DomainName()), m.theme.Primary, m.theme.Secondary)) + "\n")

	status := s.running.Render("RUNNING")
	if m.loop.State() == sim.Paused {
		status = s.paused.Render("PAUSED")
	}
	if m.recording {
		status += " " + s.recording.Render(fmt.Sprintf("● REC %d", m.recorder.Len()))
	}
	b.WriteString(status + "\n\n")

	w, h := m.loop.Size()
	row := func(label, value string) {
		b.WriteString(s.label.Render(label) + s.value.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", m.loop.Frame()))
	row("Backend", m.loop.BackendName())
	row("View", fmt.Sprintf("%dx%d", w, h))

	if m.metric != nil {
		row(m.metric.Name(), fmt.Sprintf("%.4g", m.metric.Value()))
		if hist := m.metric.History(); len(hist) > 1 {
			chart := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(chartWidth), asciigraph.Caption(m.metric.Name()))
			b.WriteString("\n" + s.graph.Render(chart) + "\n")
		}
	}

	b.WriteString("\n" + Separator(hudWidth-4, s.muted) + "\n")
	b.WriteString(s.hint.Render("SP:Pause R:Reset Q:Quit\nT:Theme  G:Record ?:Help"))
	return s.panel.Render(b.String())
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reseed the domain        ║
║  Q        - Quit                     ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
`

// Run blocks until the user quits or a frame fails, and returns that error.
func Run(m *Model) error {
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return m.Err()
}
