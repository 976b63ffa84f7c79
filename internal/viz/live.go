package viz

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/grainsim/internal/codec"
	"github.com/san-kum/grainsim/internal/engine"
	"github.com/san-kum/grainsim/internal/metrics"
	"github.com/san-kum/grainsim/internal/neighborhood"
	"github.com/san-kum/grainsim/internal/placement"
	"github.com/san-kum/grainsim/internal/session"
	"github.com/san-kum/grainsim/internal/statics"
)

const (
	maxCanvasW      = 96
	maxCanvasH      = 40
	historyCapacity = 600
	gifPath         = "grainsim.gif"
)

type TickMsg time.Time

// Setup prepares a freshly reset session, e.g. by placing seeds.
type Setup func(s *session.Session) error

// Options tune the interactive edits triggered from the keyboard.
type Options struct {
	Seeds           int
	Fill            int
	InclusionShape  placement.Shape
	InclusionSize   int
	InclusionCount  int
	BorderThickness int
	ClearMode       statics.ClearMode

	// Limit stops stepping after this many steps; zero runs until paused.
	Limit int
	Tick  time.Duration
}

// Model drives a session from the Bubble Tea update loop.
type Model struct {
	sess   *session.Session
	setup  Setup
	opts   Options
	canvas *Canvas

	running    bool
	batch      int
	energyView bool
	showHelp   bool
	status     string

	energy  *metrics.Energy
	grains  *metrics.Grains
	energyH []float64
	grainsH []float64

	recording bool
	frames    []*image.Paletted
}

// NewModel wraps s. setup runs on every reset and may be nil.
func NewModel(s *session.Session, setup Setup, opts Options) Model {
	if opts.Tick <= 0 {
		opts.Tick = time.Second / 20
	}
	if opts.InclusionShape == "" {
		opts.InclusionShape = placement.Square
	}
	if opts.ClearMode == "" {
		opts.ClearMode = statics.Standard
	}
	w, h := fitCanvas(s.View(), maxCanvasW, maxCanvasH)
	m := Model{
		sess:    s,
		setup:   setup,
		opts:    opts,
		canvas:  NewCanvas(w, h),
		running: true,
		energy:  metrics.NewEnergy(s.Kernel()),
		grains:  metrics.NewGrains(s.Statics()),
		energyH: make([]float64, 0, historyCapacity),
		grainsH: make([]float64, 0, historyCapacity),
	}
	m.sample()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Tick, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		if m.running {
			if m.opts.Limit > 0 && m.sess.StepCount() >= m.opts.Limit {
				m.running = false
				m.status = "limit reached"
			} else {
				m.step(m.batch)
				m.batch++
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.sess
	switch msg.String() {
	case "q", "ctrl+c":
		if m.recording {
			m.saveGIF()
		}
		return m, tea.Quit
	case " ":
		m.running = !m.running
		m.batch = 0
	case "n":
		if !m.running {
			m.step(0)
		}
	case "r":
		m.reset()
	case "e":
		m.energyView = !m.energyView
	case "s":
		m.status = fmt.Sprintf("placed %d seeds", s.AddSeeds(m.opts.Seeds))
	case "f":
		m.status = errStatus(s.FillRandom(m.opts.Fill), fmt.Sprintf("filled from %d ids", m.opts.Fill))
	case "i":
		n, err := s.AddInclusions(m.opts.InclusionShape, m.opts.InclusionSize, m.opts.InclusionCount)
		m.status = errStatus(err, fmt.Sprintf("stamped %d inclusion cells", n))
	case "b":
		n, err := s.AddBorders(m.opts.BorderThickness)
		m.status = errStatus(err, fmt.Sprintf("thickened %d border sites", n))
	case "p":
		if ids := s.PinRandom(1); len(ids) > 0 {
			m.status = "pinned " + ids[0].String()
		} else {
			m.status = "nothing to pin"
		}
	case "c":
		m.status = errStatus(s.ClearNonStatic(m.opts.ClearMode), "cleared non-static grains")
	case "x":
		m.status = fmt.Sprintf("%d nuclei", len(s.Nucleate()))
	case "m":
		modes := engine.Modes()
		_ = s.SetMode(modes[(indexOf(modes, s.Mode())+1)%len(modes)])
		m.status = "mode " + string(s.Mode())
	case "k":
		names := neighborhood.Names()
		next, _ := neighborhood.ParseKernel(names[(indexOf(names, s.Kernel().Name)+1)%len(names)])
		_ = s.SetKernel(next)
		m.energy = metrics.NewEnergy(next)
		m.status = "kernel " + next.Name
	case "t":
		NextTheme()
	case "g":
		if m.recording {
			m.saveGIF()
			m.recording = false
			m.frames = nil
			m.status = "saved " + gifPath
		} else {
			m.recording = true
			m.frames = make([]*image.Paletted, 0)
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func indexOf[T comparable](xs []T, x T) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}

func errStatus(err error, ok string) string {
	if err != nil {
		return err.Error()
	}
	return ok
}

// step advances the session as step i of the batch started by the last
// resume, so a CONST schedule injects once per resume.
func (m *Model) step(i int) {
	m.sess.BatchStep(i)
	m.sample()
	if m.recording {
		m.captureFrame()
	}
}

// sample appends the current metric values to the history buffers.
func (m *Model) sample() {
	g := m.sess.View()
	m.energy.Observe(g, m.sess.StepCount())
	m.grains.Observe(g, m.sess.StepCount())

	m.energyH = appendCapped(m.energyH, m.energy.Value())
	m.grainsH = appendCapped(m.grainsH, m.grains.Value())
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

func (m *Model) reset() {
	m.sess.Reset()
	m.batch = 0
	if m.setup != nil {
		if err := m.setup(m.sess); err != nil {
			m.status = err.Error()
		}
	}
	m.energy = metrics.NewEnergy(m.sess.Kernel())
	m.energyH = m.energyH[:0]
	m.grainsH = m.grainsH[:0]
	m.sample()
}

func (m *Model) captureFrame() {
	img := codec.Image(m.sess.View())
	if m.energyView {
		img = codec.EnergyImage(m.sess.View())
	}
	frame := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.Draw(frame, img.Bounds(), img, image.Point{}, draw.Src)
	m.frames = append(m.frames, frame)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 5)
	}
	f, err := os.Create(gifPath)
	if err != nil {
		m.status = err.Error()
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		m.status = err.Error()
	}
}

func (m Model) View() string {
	if m.showHelp {
		return helpView
	}

	g := m.sess.View()
	m.canvas.Paint(g, m.energyView)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(HeaderStyle().Render(fmt.Sprintf("GRAINSIM %dx%d", g.W, g.H)) + "\n")

	switch {
	case m.recording:
		s.WriteString(StatusRecording.Render("● REC") + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d", m.sess.StepCount()))
	row("Mode", string(m.sess.Mode()))
	row("Kernel", m.sess.Kernel().Name)
	if m.sess.Kernel().Composite {
		row("Probability", fmt.Sprintf("%d%%", m.sess.Probability()))
	}
	if m.sess.Mode() == engine.SRXMonteCarlo {
		n := m.sess.Nucleation()
		row("Nucleation", fmt.Sprintf("%s %s %d", n.Mode, n.Increment, n.Amount))
		row("Nuclei", fmt.Sprintf("%d", len(m.sess.Nuclei())))
	}
	row("Grains", fmt.Sprintf("%.0f", m.grains.Value()))
	row("Pins", fmt.Sprintf("%d", len(m.sess.Pins())))

	s.WriteString("\n" + MetricLabel.Render("Filled") + ProgressBar(metrics.FilledFraction(g), 20) + "\n")
	if m.sess.Mode() == engine.SRXMonteCarlo {
		s.WriteString(MetricLabel.Render("Recrystal.") + ProgressBar(metrics.FrozenFraction(g), 20) + "\n")
	}
	s.WriteString(MetricLabel.Render("Grains") + SparklineChart(m.grainsH, 20) + "\n")

	if len(m.energyH) > 1 {
		chart := asciigraph.Plot(m.energyH, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("Boundary energy"))
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render(chart) + "\n")
	}

	if m.status != "" {
		s.WriteString("\n" + KeyHint.Render(m.status) + "\n")
	}
	s.WriteString("\n" + Separator(24) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause N:Step R:Reset Q:Quit\nE:Energy T:Theme G:Record ?:Help"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
}

const helpView = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space  - Pause/Resume               ║
║  N      - Single step while paused   ║
║  R      - Reset and rerun setup      ║
║  E      - Toggle energy view         ║
║  S      - Add seeds                  ║
║  F      - Fill with random grains    ║
║  I      - Add inclusions             ║
║  B      - Thicken grain borders      ║
║  P      - Pin a random grain         ║
║  C      - Clear non-static grains    ║
║  X      - Nucleate                   ║
║  M      - Cycle computation mode     ║
║  K      - Cycle kernel               ║
║  T      - Cycle themes               ║
║  G      - Toggle GIF recording       ║
║  ?      - Toggle this help           ║
║  Q      - Quit                       ║
╚══════════════════════════════════════╝
`

// Run starts the viewer on the alternate screen and blocks until it exits.
func Run(s *session.Session, setup Setup, opts Options) error {
	_, err := tea.NewProgram(NewModel(s, setup, opts), tea.WithAltScreen()).Run()
	return err
}
