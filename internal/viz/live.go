package viz

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/swingby/internal/dynamo"
	"github.com/san-kum/swingby/internal/export"
	"github.com/san-kum/swingby/internal/session"
	"github.com/san-kum/swingby/internal/trail"
	"github.com/san-kum/swingby/internal/viewport"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	frameRate       = time.Second / 60
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model renders one session. Every TickMsg delivers one session tick; the
// session decides whether it does anything.
type Model struct {
	sess    *session.Session
	cam     *viewport.Camera
	canvas  *Canvas
	theme   Theme
	title   string
	horizon int // points in a precomputed horizon, 0 otherwise

	radiusHistory []float64
	energyHistory []float64

	message  string
	showHelp bool
}

// NewModel wraps s. The camera is snapped onto the initial frame.
func NewModel(s *session.Session, cam *viewport.Camera, title string) Model {
	m := Model{
		sess:          s,
		cam:           cam,
		canvas:        NewCanvas(width, height),
		theme:         Themes[0],
		title:         title,
		radiusHistory: make([]float64, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
	}
	m.rewind()
	return m
}

func (m *Model) rewind() {
	m.radiusHistory = m.radiusHistory[:0]
	m.energyHistory = m.energyHistory[:0]
	m.horizon = 0
	if m.sess.Config().Trail.Policy == trail.PolicyPrecomputed {
		m.horizon = len(m.sess.Rows())
	}
	m.record()
	w, h := m.canvas.Dots()
	m.cam.Reset(m.framePoints(m.sess.Frame()), viewport.Size{W: float64(w), H: float64(h)})
	m.draw()
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.toggle()
		case "r":
			if err := m.sess.Reset(); err != nil {
				m.message = err.Error()
			} else {
				m.message = ""
				m.rewind()
			}
		case "t":
			m.theme = NextTheme(m.theme)
		case "e":
			m.message = m.snapshot()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		w := max(msg.Width-50, 20)
		h := max(msg.Height-4, 8)
		m.canvas = NewCanvas(w, h)
	case TickMsg:
		if m.sess.Status() == session.Running {
			if err := m.sess.Tick(); err != nil {
				m.message = err.Error()
			}
			m.record()
		}
		m.draw()
		return m, tick()
	}
	return m, nil
}

func (m *Model) toggle() {
	if m.sess.Status() == session.Running {
		m.sess.Pause()
		return
	}
	if err := m.sess.Start(); err != nil {
		switch {
		case errors.Is(err, dynamo.ErrHorizonReached):
			m.message = "end of horizon, press r to replay"
		case errors.Is(err, dynamo.ErrFaulted):
			m.message = "faulted, press r to reset"
		default:
			m.message = err.Error()
		}
		return
	}
	m.message = ""
}

func (m *Model) record() {
	st := m.sess.State()
	m.radiusHistory = appendCapped(m.radiusHistory, st.Radius()/1e3)
	m.energyHistory = appendCapped(m.energyHistory, m.sess.Body().Energy(st)/1e6)
}

func appendCapped(xs []float64, v float64) []float64 {
	if len(xs) == historyCapacity {
		xs = append(xs[:0], xs[1:]...)
	}
	return append(xs, v)
}

func (m Model) snapshot() string {
	f := m.sess.Frame()
	opts := export.DefaultSVGOptions()
	opts.BodyRadius = m.sess.Body().Radius
	path := fmt.Sprintf("swingby-%s-%d.svg", f.ID[:8], f.Steps)
	err := export.ToFile(path, func(w io.Writer) error {
		return export.WriteSVG(w, f.Layers, opts)
	})
	if err != nil {
		return err.Error()
	}
	return "wrote " + path
}

// framePoints is what the camera keeps in view: the attractor, the trail
// and the body.
func (m Model) framePoints(f session.Frame) []r2.Vec {
	pts := make([]r2.Vec, 0, len(f.Trail)+2)
	pts = append(pts, r2.Vec{}, f.State.Pos)
	for _, p := range f.Trail {
		pts = append(pts, p.Pos)
	}
	return pts
}

func (m *Model) draw() {
	f := m.sess.Frame()
	w, h := m.canvas.Dots()
	m.cam.Update(m.framePoints(f), viewport.Size{W: float64(w), H: float64(h)})
	m.canvas.Clear()

	center := m.cam.WorldToScreen(r2.Vec{})
	radius := int(math.Round(m.cam.PixelsFor(m.sess.Body().Radius)))
	m.canvas.FillCircle(int(center.X), int(center.Y), radius, InkPlanet)

	for _, l := range f.Layers {
		ink := InkTrail
		if l.Opacity < 0.5 {
			ink = InkFaint
		}
		for i := 1; i < len(l.Points); i++ {
			a := m.cam.WorldToScreen(l.Points[i-1].Pos)
			b := m.cam.WorldToScreen(l.Points[i].Pos)
			m.canvas.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), ink)
		}
	}

	body := m.cam.WorldToScreen(f.State.Pos)
	m.canvas.FillCircle(int(body.X), int(body.Y), 1, InkBody)
}

func (m Model) status(f session.Frame) string {
	switch {
	case f.Fault != nil:
		return StatusFault.Render("FAULT")
	case f.Status == session.Running:
		return StatusRunning.Render("RUNNING")
	case f.Status == session.Paused:
		return StatusPaused.Render("PAUSED")
	}
	return StatusPaused.Render("READY")
}

func (m Model) View() string {
	f := m.sess.Frame()
	canvasView := canvasStyle.Render(m.canvas.Render(m.theme))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status(f) + "\n\n")

	if len(m.radiusHistory) > 1 {
		chart := asciigraph.Plot(m.radiusHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("radius (km)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	st := f.State
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.1f s", st.T)) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", f.Steps)) + "\n")
	s.WriteString(labelStyle.Render("Altitude") + valueStyle.Render(fmt.Sprintf("%.1f km", (st.Radius()-m.sess.Body().Radius)/1e3)) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.3f km/s", st.Speed()/1e3)) + "\n")
	if n := len(m.energyHistory); n > 0 {
		s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.4f MJ/kg", m.energyHistory[n-1])) + "\n")
	}
	s.WriteString(labelStyle.Render("Trail") + valueStyle.Render(fmt.Sprintf("%d pts (%s)", len(f.Trail), m.sess.Config().Trail.Policy)) + "\n")
	if m.horizon > 1 {
		s.WriteString(labelStyle.Render("Horizon") + ProgressBar(float64(f.Steps)/float64(m.horizon-1), 20) + "\n")
	}

	if vals := m.sess.Metrics(); len(vals) > 0 {
		s.WriteString("\n" + Separator(30) + "\n")
		names := make([]string, 0, len(vals))
		for k := range vals {
			names = append(names, k)
		}
		slices.Sort(names)
		for _, k := range names {
			s.WriteString(metricStyle.Render(k) + valueStyle.Render(fmt.Sprintf("%.3g", vals[k])) + "\n")
		}
	}

	if m.message != "" {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Warning).Render(m.message) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Start/Pause R:Reset Q:Quit\nT:Theme E:Snapshot ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Start/Pause simulation   ║
║  R        - Reset to initial state   ║
║  T        - Cycle themes             ║
║  E        - Write SVG snapshot       ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
