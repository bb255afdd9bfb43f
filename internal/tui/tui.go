// Package tui is a terminal spectator for a running battle.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Garsondee/Trenchline/internal/game"
)

// cellsPerTile is how many terminal columns one map tile spans.
const cellsPerTile = 2

const frameInterval = time.Second / 30

type keyMap struct {
	SpawnFriendly key.Binding
	SpawnEnemy    key.Binding
	AdvanceF      key.Binding
	AdvanceE      key.Binding
	Pause         key.Binding
	Quit          key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SpawnFriendly, k.SpawnEnemy, k.AdvanceF, k.AdvanceE, k.Pause, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var keys = keyMap{
	SpawnFriendly: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "spawn friendly")),
	SpawnEnemy:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "spawn enemy")),
	AdvanceF:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "advance friendly")),
	AdvanceE:      key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "advance enemy")),
	Pause:         key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
	Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	friendlyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")).Bold(true)
	enemyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)
	groundStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#87875F"))
	holdStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	marchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FFF5F"))
	bulletStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EEEEEE"))

	statusStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			Foreground(lipgloss.Color("#AAAAAA"))
)

// Roster is the pair of template lists the spawn keys cycle through.
type Roster [2][]*game.CharacterTemplate

type tickMsg time.Time

// Model drives a battle at a fixed step and renders it as text.
type Model struct {
	battle *game.Battle
	roster Roster
	next   [2]int
	title  string

	paused bool
	step   float64
	note   string

	bars [2]progress.Model
	help help.Model
}

// NewModel wraps battle. Step is the simulated seconds per frame.
func NewModel(title string, battle *game.Battle, roster Roster, step float64) Model {
	if step <= 0 {
		step = frameInterval.Seconds()
	}
	var bars [2]progress.Model
	for i := range bars {
		bars[i] = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage())
	}
	return Model{
		battle: battle,
		roster: roster,
		title:  title,
		step:   step,
		bars:   bars,
		help:   help.New(),
	}
}

func (m Model) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, keys.SpawnFriendly):
			m.spawn(game.SideFriendly)
		case key.Matches(msg, keys.SpawnEnemy):
			m.spawn(game.SideEnemy)
		case key.Matches(msg, keys.AdvanceF):
			m.advance(game.SideFriendly)
		case key.Matches(msg, keys.AdvanceE):
			m.advance(game.SideEnemy)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if !m.paused {
			m.battle.Step(m.step)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) spawn(side game.Side) {
	list := m.roster[side]
	if len(list) == 0 {
		return
	}
	c := list[m.next[side]%len(list)]
	m.next[side]++
	if _, err := m.battle.Spawn(c, side); err != nil {
		m.note = err.Error()
		return
	}
	m.note = fmt.Sprintf("%s %s deployed", side, c.Name)
}

func (m *Model) advance(side game.Side) {
	idx, ok := m.battle.Advance(side)
	if !ok {
		m.note = fmt.Sprintf("%s: no held trench to open", side)
		return
	}
	m.note = fmt.Sprintf("%s advance past trench #%d", side, idx)
}

func (m Model) View() string {
	snap := m.battle.Snapshot()

	header := titleStyle.Render(m.title) +
		fmt.Sprintf("  T=%d  %.1fs", snap.Tick, snap.Elapsed)
	if m.paused {
		header += "  [paused]"
	}

	var status strings.Builder
	for _, side := range []game.Side{game.SideFriendly, game.SideEnemy} {
		alive := snap.Alive(side)
		frac := 0.0
		if alive > 0 {
			frac = float64(snap.Holding[side]) / float64(alive)
		}
		style := friendlyStyle
		if side == game.SideEnemy {
			style = enemyStyle
		}
		fmt.Fprintf(&status, "%s alive %2d  lost %2d  holding %s %d\n",
			style.Render(fmt.Sprintf("%-8s", side)), alive, snap.Casualties[side],
			m.bars[side].ViewAs(frac), snap.Holding[side])
	}
	if m.note != "" {
		fmt.Fprintf(&status, "%s\n", m.note)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		Render(snap),
		statusStyle.Render(status.String()),
		m.help.View(keys),
	)
}

// Run starts the spectator in the alternate screen.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// cell is one character of the battlefield strip.
type cell struct {
	r     rune
	style *lipgloss.Style
}

// Render draws the battlefield as rows of text, one row per map tile.
// Soldiers are > and < (x while dying), rounds are -, trenches are T
// coloured by action.
func Render(snap game.Snapshot) string {
	if snap.TileSize <= 0 || snap.Width <= 0 {
		return ""
	}
	cols := int(snap.Width/snap.TileSize) * cellsPerTile
	rows := int(snap.Height / snap.TileSize)
	if cols <= 0 || rows <= 0 {
		return ""
	}
	cw := snap.TileSize / cellsPerTile

	grid := make([][]cell, rows)
	for r := range grid {
		grid[r] = make([]cell, cols)
		for c := range grid[r] {
			grid[r][c] = cell{r: ' '}
		}
	}
	put := func(x, y float64, r rune, st *lipgloss.Style) {
		c, row := int(x/cw), int(y/snap.TileSize)
		if c < 0 || c >= cols || row < 0 || row >= rows {
			return
		}
		grid[row][c] = cell{r: r, style: st}
	}

	pts := snap.Paths[game.SideFriendly].Points
	for c := 0; c < cols; c++ {
		x := (float64(c) + 0.5) * cw
		y := surfaceY(pts, x)
		for row := int(y / snap.TileSize); row < rows; row++ {
			if row >= 0 {
				grid[row][c] = cell{r: '#', style: &groundStyle}
			}
		}
	}
	for i, p := range pts {
		if p.Kind != game.PathTrench {
			continue
		}
		st := &holdStyle
		if snap.Paths[game.SideFriendly].Points[i].Action == game.ActionMarch ||
			snap.Paths[game.SideEnemy].Points[i].Action == game.ActionMarch {
			st = &marchStyle
		}
		put(p.Pos.X, p.Pos.Y-snap.TileSize, 'T', st)
	}

	for _, b := range snap.Bullets {
		put(b.Pos.X, b.Pos.Y, '-', &bulletStyle)
	}
	for side, list := range snap.Soldiers {
		st := &friendlyStyle
		glyph := '>'
		if game.Side(side) == game.SideEnemy {
			st, glyph = &enemyStyle, '<'
		}
		for _, v := range list {
			r := glyph
			if v.State == game.StateDying {
				r = 'x'
			}
			h := 1.0
			if v.Character != nil {
				h = v.Character.Size.Y
			}
			x := v.Pos.X
			if v.Character != nil {
				x += v.Character.Size.X / 2
			}
			put(x, v.Pos.Y+h-1, r, st)
		}
	}

	var sb strings.Builder
	for r, line := range grid {
		for _, c := range line {
			if c.style == nil {
				sb.WriteRune(c.r)
				continue
			}
			sb.WriteString(c.style.Render(string(c.r)))
		}
		if r < rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// surfaceY interpolates the path height at x.
func surfaceY(pts []game.PathPoint, x float64) float64 {
	if len(pts) == 0 {
		return math.Inf(1)
	}
	if x <= pts[0].Pos.X {
		return pts[0].Pos.Y
	}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1].Pos, pts[i].Pos
		if x > b.X {
			continue
		}
		if b.X == a.X {
			return math.Min(a.Y, b.Y)
		}
		t := (x - a.X) / (b.X - a.X)
		return a.Y + t*(b.Y-a.Y)
	}
	return pts[len(pts)-1].Pos.Y
}
