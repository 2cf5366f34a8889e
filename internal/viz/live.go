package viz

import (
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/sim"
	"github.com/san-kum/partsim/internal/world"
)

const (
	defaultCols     = 80
	defaultRows     = 24
	minCols         = 20
	minRows         = 8
	historyCapacity = 120

	// the canvas style pads by one row and two columns
	canvasOffsetX = 2
	canvasOffsetY = 1
)

type TickMsg time.Time

// Model runs a world in real time and draws it as coloured braille dots.
// Pointer motion over the canvas drives a throwable particle.
type Model struct {
	cfg     *config.Config
	world   *world.World
	sim     *sim.Simulator
	pointer world.Pointer
	clock   *sim.Clock
	canvas  *Canvas
	theme   Theme
	styles  styles
	logger  *log.Logger

	running  bool
	showHelp bool
	frame    int
	last     world.StepStats
	err      error

	keHistory      []float64
	contactHistory []float64
}

// NewModel builds the world described by cfg. A nil logger discards output.
func NewModel(cfg *config.Config, logger *log.Logger) (Model, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	theme := GetTheme(cfg.View.Theme)
	m := Model{
		cfg:     cfg.Clone(),
		clock:   sim.NewClock(cfg.Run.MaxDt),
		canvas:  NewCanvas(defaultCols, defaultRows),
		theme:   theme,
		styles:  newStyles(theme),
		logger:  logger,
		running: true,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	fps := m.cfg.View.FPS
	if fps < 1 {
		fps = config.DefaultFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
			m.clock.Reset()
		case "a":
			h := m.world.AddRandom()
			m.logger.Debug("particle added", "handle", h)
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		dt := m.clock.Tick(time.Time(msg))
		if m.running && dt > 0 {
			m.step(dt)
		}
		m.frame++
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step(dt float64) {
	stats, err := m.sim.Advance(dt)
	if err != nil {
		m.err = err
		m.running = false
		m.logger.Error("step failed", "err", err)
		return
	}
	m.last = stats
	m.keHistory = appendCapped(m.keHistory, metrics.Kinetic(m.world.Particles()))
	m.contactHistory = appendCapped(m.contactHistory, float64(stats.Contacts))
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[len(h)-historyCapacity:]
	}
	return h
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionMotion && msg.Action != tea.MouseActionPress {
		return
	}
	col, row := msg.X-canvasOffsetX, msg.Y-canvasOffsetY
	if col < 0 || row < 0 || col >= m.canvas.Width || row >= m.canvas.Height {
		return
	}
	x, y := m.toWorld(col, row)
	if _, err := m.pointer.MoveTo(m.world, x, y); err != nil {
		m.logger.Warn("pointer rejected", "x", x, "y", y, "err", err)
	}
}

// toWorld maps the centre of a character cell to world coordinates.
func (m *Model) toWorld(col, row int) (float64, float64) {
	b := m.world.Bounds()
	x := (float64(col) + 0.5) / float64(m.canvas.Width) * b.Width
	y := (float64(row) + 0.5) / float64(m.canvas.Height) * b.Height
	return x, y
}

func (m *Model) resize(w, h int) {
	cols := max(minCols, w-statsWidth-2*canvasOffsetX-2)
	rows := max(minRows, h-2*canvasOffsetY)
	if cols != m.canvas.Width || rows != m.canvas.Height {
		m.canvas = NewCanvas(cols, rows)
	}
}

func (m *Model) reset() error {
	w, err := m.cfg.NewWorld()
	if err != nil {
		return err
	}
	m.world = w
	m.sim = sim.New(w, sim.WithLogger(m.logger))
	m.pointer = world.Pointer{}
	m.clock.Reset()
	m.last = world.StepStats{}
	m.keHistory = m.keHistory[:0]
	m.contactHistory = m.contactHistory[:0]
	m.err = nil
	m.logger.Debug("world reset", "particles", w.Len(), "seed", m.cfg.Particles.Seed)
	return nil
}

func (m *Model) draw() {
	c := m.canvas
	c.Clear()

	wall := m.theme.wallColor()
	right, bottom := c.DotsWide()-1, c.DotsHigh()-1
	c.DrawLine(0, 0, right, 0, wall)
	c.DrawLine(0, bottom, right, bottom, wall)
	c.DrawLine(0, 0, 0, bottom, wall)
	c.DrawLine(right, 0, right, bottom, wall)

	b := m.world.Bounds()
	sx := float64(c.DotsWide()) / b.Width
	sy := float64(c.DotsHigh()) / b.Height
	ps := m.world.Particles()
	for i := range ps {
		p := &ps[i]
		c.FillEllipse(p.Pos.X*sx, p.Pos.Y*sy, p.Radius*sx, p.Radius*sy, p.Color())
	}
}

func (m Model) View() string {
	m.draw()
	st := m.styles
	canvasView := st.canvas.Render(m.canvas.Render())

	var s strings.Builder
	s.WriteString(st.header.Render(GradientText("PARTSIM", m.theme.Primary, m.theme.Accent)) + "\n")

	if m.running {
		s.WriteString(st.run.Render(AnimatedSpinner(m.frame)+" RUNNING") + "\n\n")
	} else {
		s.WriteString(st.pause.Render("❚❚ PAUSED") + "\n\n")
	}

	if len(m.keHistory) > 1 {
		chart := asciigraph.Plot(m.keHistory,
			asciigraph.Height(5),
			asciigraph.Width(30),
			asciigraph.SeriesColors(m.theme.Graph),
			asciigraph.Caption("kinetic energy"))
		s.WriteString(chart + "\n\n")
	}

	ps := m.world.Particles()
	mom := metrics.TotalMomentum(ps)
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Particles", fmt.Sprintf("%d", len(ps)))
	row("Time", fmt.Sprintf("%.2fs", m.sim.Time()))
	row("Kinetic", fmt.Sprintf("%.4g", metrics.Kinetic(ps)))
	row("Momentum", fmt.Sprintf("(%.3g, %.3g)", mom.X, mom.Y))
	row("Contacts", fmt.Sprintf("%d", m.last.Contacts))
	row("Walls", fmt.Sprintf("%d", m.last.BoundaryHits))
	row("Gravity", fmt.Sprintf("%g %s", m.world.Params().Gravity, m.world.Params().Falloff))
	row("Theme", m.theme.Name)
	if h, ok := m.pointer.Handle(); ok {
		row("Pointer", fmt.Sprintf("#%d", h))
	}

	s.WriteString("\n" + st.muted.Render("contacts ") + st.accent.Render(SparklineChart(m.contactHistory, 24)) + "\n")

	if m.err != nil {
		s.WriteString("\n" + st.pause.Render(m.err.Error()) + "\n")
	}

	s.WriteString(st.help.Render("─────────────────────\nSP:Pause A:Add R:Reset\nT:Theme ?:Help Q:Quit\nmouse: drag to throw"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  A        - Add a random particle    ║
║  R        - Reset to initial world   ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
║  Mouse    - Move the pointer ball    ║
╚══════════════════════════════════════╝`

// Run starts the live view full screen with mouse motion reporting.
func Run(cfg *config.Config, logger *log.Logger) error {
	m, err := NewModel(cfg, logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
