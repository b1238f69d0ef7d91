package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-kit/log"

	"github.com/san-kum/swingby/internal/analysis"
	"github.com/san-kum/swingby/internal/config"
	"github.com/san-kum/swingby/internal/metrics"
	"github.com/san-kum/swingby/internal/session"
	"github.com/san-kum/swingby/internal/viewport"
)

var presetInfo = map[string]string{
	"leo":      "low earth orbit",
	"circular": "exactly circular",
	"ellipse":  "eccentric orbit",
	"escape":   "hyperbolic flyby",
	"swingby":  "fine-step orbit",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

var paramNames = []string{"x", "y", "vx", "vy", "dt", "speed"}

type model struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	logger        log.Logger
	liveModel     Model
}

func NewInteractiveApp(logger log.Logger) *model {
	return &model{
		state:   stateMenu,
		presets: config.ListPresets(),
		logger:  logger,
	}
}

// NewLive builds a session from cfg with the standard metrics attached and
// wraps it in a live view.
func NewLive(cfg *config.Config, title string, logger log.Logger) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	s, err := session.New(cfg.Session(), session.WithLogger(logger))
	if err != nil {
		return Model{}, err
	}
	for _, m := range metrics.Standard(s.Body()) {
		s.AddMetric(m)
	}
	s.AddMetric(analysis.NewPeriodEstimate(cfg.Dt, 2048))
	cam, err := viewport.New(cfg.Viewport)
	if err != nil {
		return Model{}, err
	}
	return NewModel(s, cam, title), nil
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.cfg = config.GetPreset(m.selected)
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	name := paramNames[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if val, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.setParam(name, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(m.param(name), 'f', -1, 64)
	case "s":
		cmd := m.start()
		return m, cmd
	case "left", "h":
		m.nudge(name, -1)
	case "right", "l":
		m.nudge(name, 1)
	}
	return m, nil
}

func (m *model) param(name string) float64 {
	switch name {
	case "x":
		return m.cfg.InitState.X
	case "y":
		return m.cfg.InitState.Y
	case "vx":
		return m.cfg.InitState.VX
	case "vy":
		return m.cfg.InitState.VY
	case "dt":
		return m.cfg.Dt
	case "speed":
		return float64(m.cfg.Speed)
	}
	return 0
}

func (m *model) setParam(name string, v float64) {
	switch name {
	case "x":
		m.cfg.InitState.X = v
	case "y":
		m.cfg.InitState.Y = v
	case "vx":
		m.cfg.InitState.VX = v
	case "vy":
		m.cfg.InitState.VY = v
	case "dt":
		m.cfg.Dt = v
	case "speed":
		m.cfg.Speed = int(v)
	}
}

func (m *model) nudge(name string, dir float64) {
	step := 0.1
	switch name {
	case "dt":
		step = m.cfg.Dt * 0.1
	case "speed":
		step = 1
	}
	m.setParam(name, m.param(name)+dir*step)
}

func (m *model) start() tea.Cmd {
	live, err := NewLive(m.cfg, m.selected, m.logger)
	if err != nil {
		m.err = err
		return nil
	}
	m.liveModel = live
	m.state = stateSim
	return m.liveModel.Init()
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDetail  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

func keys(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("SWINGBY") + "\n    " + subStyle.Render("two-body orbit simulator") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-12s", name)), detailStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", name)), idleDetail.Render(desc)))
		}
	}
	b.WriteString("\n    " + keys("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(m.selected)) + "\n    " + subStyle.Render(presetInfo[m.selected]) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range paramNames {
		valStr := fmt.Sprintf("%8.3f", m.param(name))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-10s", name)), detailStyle.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", name)), idleDetail.Render(valStr)))
		}
	}
	b.WriteString("\n    " + subStyle.Render("x, y in 1000 km; vx, vy in km/s; dt in s") + "\n")
	if m.err != nil {
		b.WriteString("\n    " + errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keys("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive opens the preset menu.
func RunInteractive(logger log.Logger) error {
	_, err := tea.NewProgram(NewInteractiveApp(logger), tea.WithAltScreen()).Run()
	return err
}

// RunLive opens the live view for cfg directly.
func RunLive(cfg *config.Config, title string, logger log.Logger) error {
	live, err := NewLive(cfg, title, logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(live, tea.WithAltScreen()).Run()
	return err
}
