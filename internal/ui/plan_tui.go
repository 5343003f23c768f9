package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/josephgoksu/zhice/internal/app"
	"github.com/josephgoksu/zhice/internal/plan"
)

// PlanIntents is the subset of app.PlanApp the browser drives.
type PlanIntents interface {
	State() app.View
	Toggle(phaseIndex, taskIndex int) (*plan.Plan, error)
	Reset() error
}

type planKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Collapse key.Binding
	Expand   key.Binding
	Reset    key.Binding
	Quit     key.Binding
	Help     key.Binding
}

func (k planKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Collapse, k.Reset, k.Quit, k.Help}
}

func (k planKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Toggle, k.Collapse, k.Expand},
		{k.Reset, k.Quit, k.Help},
	}
}

var defaultPlanKeys = planKeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:   key.NewBinding(key.WithKeys(" ", "enter", "x"), key.WithHelp("space", "toggle")),
	Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
	Expand:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),
	Reset:    key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete plan")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// planRow addresses a visible line: a phase heading (task == -1) or a task.
type planRow struct {
	phase int
	task  int
}

// PlanModel is the interactive plan browser.
type PlanModel struct {
	intents PlanIntents
	view    app.View

	collapsed    map[int]bool
	cursor       int
	offset       int
	confirmReset bool
	status       string
	err          error

	width  int
	height int

	keys planKeyMap
	help help.Model

	changes <-chan struct{}
	reload  func() error
}

// storeChangedMsg is sent when the plan store was written by another process.
type storeChangedMsg struct{}

// NewPlanModel creates the browser over the given intents.
func NewPlanModel(intents PlanIntents) PlanModel {
	return PlanModel{
		intents:   intents,
		view:      intents.State(),
		collapsed: make(map[int]bool),
		keys:      defaultPlanKeys,
		help:      help.New(),
	}
}

// WithExternalChanges makes the browser call reload and refresh whenever
// changes delivers a value.
func (m PlanModel) WithExternalChanges(changes <-chan struct{}, reload func() error) PlanModel {
	m.changes = changes
	m.reload = reload
	return m
}

func (m PlanModel) Init() tea.Cmd { return waitForChange(m.changes) }

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (m PlanModel) rows() []planRow {
	if m.view.Plan == nil {
		return nil
	}
	var rows []planRow
	for i, phase := range m.view.Plan.Phases {
		rows = append(rows, planRow{phase: i, task: -1})
		if m.collapsed[i] {
			continue
		}
		for j := range phase.Tasks {
			rows = append(rows, planRow{phase: i, task: j})
		}
	}
	return rows
}

func (m PlanModel) current() (planRow, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return planRow{}, false
	}
	return rows[m.cursor], true
}

func (m PlanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case storeChangedMsg:
		if m.reload != nil {
			if err := m.reload(); err != nil {
				m.err = err
			}
		}
		m.refreshView()
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		if m.confirmReset {
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

// refreshView re-reads the state. Collapsed phases and the cursor belong to
// one plan and are dropped when a different plan takes its place.
func (m *PlanModel) refreshView() {
	prevID := viewPlanID(m.view)
	m.view = m.intents.State()
	if viewPlanID(m.view) != prevID {
		m.collapsed = make(map[int]bool)
		m.cursor, m.offset = 0, 0
	}
	m.clampCursor()
}

func viewPlanID(v app.View) string {
	if v.Plan == nil {
		return ""
	}
	return v.Plan.ID
}

func (m PlanModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirmReset = false
	switch msg.String() {
	case "y", "Y":
		if err := m.intents.Reset(); err != nil {
			m.err = err
		} else {
			m.status = "Plan deleted."
			m.err = nil
		}
		m.refreshView()
		m.cursor, m.offset = 0, 0
	default:
		m.status = "Reset cancelled."
	}
	return m, nil
}

func (m PlanModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		row, ok := m.current()
		if !ok {
			break
		}
		if row.task < 0 {
			m.collapsed[row.phase] = !m.collapsed[row.phase]
			break
		}
		p, err := m.intents.Toggle(row.phase, row.task)
		m.err = err
		m.status = ""
		if errors.Is(err, app.ErrSuperseded) {
			m.err = nil
			m.status = "The plan changed in another session. Showing the latest version."
		}
		m.refreshView()
		if err == nil && plan.IsDone(p) {
			m.status = "Every task is done. Congratulations!"
		}

	case key.Matches(msg, m.keys.Collapse):
		if row, ok := m.current(); ok {
			m.collapsed[row.phase] = true
			m.cursor = m.headingIndex(row.phase)
		}

	case key.Matches(msg, m.keys.Expand):
		if row, ok := m.current(); ok {
			m.collapsed[row.phase] = false
		}

	case key.Matches(msg, m.keys.Reset):
		if m.view.Plan != nil {
			m.confirmReset = true
			m.status = ""
		}
	}
	m.clampCursor()
	return m, nil
}

func (m PlanModel) headingIndex(phase int) int {
	for i, r := range m.rows() {
		if r.phase == phase && r.task < 0 {
			return i
		}
	}
	return 0
}

func (m *PlanModel) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	visible := m.visibleRows()
	if visible <= 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

// visibleRows is how many list rows fit; 0 means unlimited.
func (m PlanModel) visibleRows() int {
	if m.height == 0 {
		return 0
	}
	return max(3, m.height-12)
}

func (m PlanModel) View() string {
	var sb strings.Builder
	p := m.view.Plan
	if p == nil {
		sb.WriteString(RenderPlan(nil, m.width))
	} else {
		sb.WriteString(RenderPlanHeader(p))
		sb.WriteString("\n")
		m.renderRows(&sb, p)
	}

	if m.confirmReset {
		sb.WriteString("\n" + StyleWarning.Render("Delete this plan and all progress? [y/N]") + "\n")
	}
	if m.err != nil {
		sb.WriteString("\n" + StyleError.Render("✗ "+m.err.Error()) + "\n")
	} else if m.view.Error != "" {
		sb.WriteString("\n" + StyleError.Render("✗ "+m.view.Error) + "\n")
	}
	if m.status != "" {
		sb.WriteString("\n" + StyleSuccess.Render(m.status) + "\n")
	}
	sb.WriteString("\n" + m.help.View(m.keys))
	return sb.String()
}

func (m PlanModel) renderRows(sb *strings.Builder, p *plan.Plan) {
	rows := m.rows()
	end := len(rows)
	if v := m.visibleRows(); v > 0 {
		end = min(len(rows), m.offset+v)
	}
	width := m.width
	if width <= 0 {
		width = defaultRenderWidth
	}

	for idx := m.offset; idx < end; idx++ {
		r := rows[idx]
		cursor := "  "
		if idx == m.cursor {
			cursor = StyleCursor.Render("▸ ")
		}
		phase := p.Phases[r.phase]
		if r.task < 0 {
			arrow := "▾"
			if m.collapsed[r.phase] {
				arrow = "▸"
			}
			fmt.Fprintf(sb, "%s%s %s\n", cursor, StyleSubtle.Render(arrow), RenderPhaseTitle(r.phase, phase))
			continue
		}

		t := phase.Tasks[r.task]
		title := t.Title
		if t.IsCompleted {
			title = StyleCompleted.Render(title)
		}
		fmt.Fprintf(sb, "%s    %s %s\n", cursor, TaskMarker(t.IsCompleted), title)
		if idx == m.cursor {
			for _, line := range wrap(t.Description, width-12) {
				if line != "" {
					sb.WriteString("          " + StyleText.Render(line) + "\n")
				}
			}
			if t.Tips != "" {
				for _, line := range wrap("Tip: "+t.Tips, width-12) {
					sb.WriteString("          " + StyleTip.Render(line) + "\n")
				}
			}
		}
	}
}
