package tui

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/kmviz/internal/loop"
	"github.com/san-kum/kmviz/internal/render"
	"github.com/san-kum/kmviz/internal/scene"
	"github.com/san-kum/kmviz/internal/transform"
)

// halfBlock shows two vertically stacked pixels in one cell: the foreground
// paints the top pixel and the background the bottom one.
const halfBlock = "▀"

// keyHold is how long a key press keeps its axis active. Terminals only
// report presses, so auto-repeat keeps a held key alive.
const keyHold = 150 * time.Millisecond

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(loop.DefaultStep, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type Options struct {
	Background color.RGBA
	Controller loop.Controller
	Transform  *transform.Transformation
	LookSpeed  float32 // pseudo mouse pixels per arrow key press
}

// Model renders a scene into a terminal, two pixels per cell.
type Model struct {
	scene    *scene.Scene
	canvas   *render.Canvas
	renderer *render.Renderer
	ctrl     loop.Controller
	acc      *loop.Accumulator
	counter  loop.Counter
	input    loop.Input
	held     map[string]time.Time
	look     float32

	last          time.Time
	status        string
	frame         string
	width, height int
}

func NewModel(sc *scene.Scene, opts Options) *Model {
	canvas := render.NewCanvas(0, 0)
	r := render.New(canvas, opts.Transform)
	r.Background = opts.Background
	if opts.LookSpeed == 0 {
		opts.LookSpeed = 8
	}
	return &Model{
		scene:    sc,
		canvas:   canvas,
		renderer: r,
		ctrl:     opts.Controller,
		acc:      loop.NewAccumulator(loop.DefaultStep),
		held:     make(map[string]time.Time),
		look:     opts.LookSpeed,
		status:   "waiting for first frame",
	}
}

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.canvas.Resize(m.width, max(m.height-2, 0)*2)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg, time.Now())
	case tickMsg:
		m.step(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg, now time.Time) (tea.Model, tea.Cmd) {
	switch k := msg.String(); k {
	case "ctrl+c", "esc", "x":
		return m, tea.Quit
	case "w", "s", "a", "d", "q", "e":
		m.held[k] = now.Add(keyHold)
	case "left":
		m.input.AddMouse(-m.look, 0)
	case "right":
		m.input.AddMouse(m.look, 0)
	case "up":
		m.input.AddMouse(0, -m.look)
	case "down":
		m.input.AddMouse(0, m.look)
	}
	return m, nil
}

// step runs the fixed updates owed since the last tick and renders a frame.
func (m *Model) step(now time.Time) {
	var elapsed time.Duration
	if !m.last.IsZero() {
		elapsed = now.Sub(m.last)
	}
	m.last = now

	active := func(k string) bool { return now.Before(m.held[k]) }
	m.input.Forward, m.input.Backward = active("w"), active("s")
	m.input.Left, m.input.Right = active("a"), active("d")
	m.input.Down, m.input.Up = active("q"), active("e")

	n := m.acc.Advance(elapsed, func(dt float64) {
		m.ctrl.Apply(m.scene.Camera, &m.input, dt)
	})
	m.counter.Updates(n)

	if m.canvas.Width > 0 && m.canvas.Height > 0 {
		m.renderer.Render(m.scene)
		m.frame = CanvasString(m.canvas, m.renderer.Background)
	}
	m.counter.Frame()
	if s, ok := m.counter.Tick(elapsed); ok {
		m.status = s
	}
}

func (m *Model) View() string {
	var b strings.Builder
	st := m.renderer.LastFrame()
	b.WriteString(titleStyle.Render(fmt.Sprintf("kmviz %d points, %d centroids", len(m.scene.Points), len(m.scene.Centroids))))
	b.WriteString("  ")
	b.WriteString(statusStyle.Render(fmt.Sprintf("%s  drawn %d culled %d", m.status, st.Drawn, st.Culled)))
	b.WriteString("\n")
	b.WriteString(m.frame)
	b.WriteString(helpStyle.Render("wasd/qe move  arrows look  esc quit"))
	return b.String()
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// CanvasString encodes c as rows of half-block cells. Cells whose two pixels
// are both bg are written as plain spaces. Runs of identical cells share one
// style so the escape sequences stay short.
func CanvasString(c *render.Canvas, bg color.RGBA) string {
	var b strings.Builder
	for y := 0; y < c.Height; y += 2 {
		x := 0
		for x < c.Width {
			top, bot := c.RGBAAt(x, y), c.RGBAAt(x, y+1)
			if y+1 >= c.Height {
				bot = bg
			}
			run := 1
			for x+run < c.Width {
				nt, nb := c.RGBAAt(x+run, y), c.RGBAAt(x+run, y+1)
				if y+1 >= c.Height {
					nb = bg
				}
				if nt != top || nb != bot {
					break
				}
				run++
			}
			if top == bg && bot == bg {
				b.WriteString(strings.Repeat(" ", run))
			} else {
				style := lipgloss.NewStyle().Foreground(hexColor(top)).Background(hexColor(bot))
				b.WriteString(style.Render(strings.Repeat(halfBlock, run)))
			}
			x += run
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Run starts the terminal viewer and blocks until the user quits.
func Run(sc *scene.Scene, opts Options) error {
	p := tea.NewProgram(NewModel(sc, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
