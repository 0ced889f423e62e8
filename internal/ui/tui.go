// Package ui provides the interactive terminal interface. It turns key presses
// into dispatch-loop events and draws the views the loop returns.
package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/trivial-todo/internal/app"
	"github.com/Tiliavir/trivial-todo/internal/projection"
)

type focus int

const (
	focusFilter focus = iota
	focusList
	focusDescription
	focusCount
)

// Column widths of the task list, in cells.
const (
	descriptionWidth = 40
	datetimeWidth    = 24
	completedWidth   = 10
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("221"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	labelStyle    = lipgloss.NewStyle().Bold(true)
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	buttonStyle   = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	disabledStyle = buttonStyle.Faint(true)
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// Model is the bubbletea model for the to-do window.
type Model struct {
	loop        *app.Loop
	view        app.View
	filter      textinput.Model
	description textinput.Model
	focus       focus
	// cursor indexes view.Rows; row 0 is the header and means no selection.
	cursor int
	// completed is the checkbox value; it only reaches the store on Update.
	completed bool
	notice    string
}

// NewModel creates a Model over loop and dispatches the initial Filter.
func NewModel(loop *app.Loop) *Model {
	filter := textinput.New()
	filter.Prompt = ""
	filter.Placeholder = "type to filter"
	filter.CharLimit = 256
	filter.Width = descriptionWidth

	description := textinput.New()
	description.Prompt = ""
	description.Placeholder = "new task"
	description.CharLimit = 256
	description.Width = descriptionWidth

	m := &Model{
		loop:        loop,
		filter:      filter,
		description: description,
		focus:       focusFilter,
	}
	m.filter.Focus()
	m.apply(loop.Start())
	return m
}

// RunTUI starts the interactive program and blocks until it exits.
func RunTUI(ctx context.Context, loop *app.Loop) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	program := tea.NewProgram(NewModel(loop), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// IsTTY reports whether f is a terminal.
func IsTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.updateFocusedInput(msg)
	}

	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m, m.setFocus((m.focus + 1) % focusCount)
	case "shift+tab":
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	switch m.focus {
	case focusFilter:
		return m, m.updateFilter(key)
	case focusList:
		return m.updateList(key)
	case focusDescription:
		return m, m.updateDescription(key)
	}
	return m, nil
}

func (m *Model) updateFilter(key tea.KeyMsg) tea.Cmd {
	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(key)
	if m.filter.Value() != before {
		m.dispatch(app.Filter{Prefix: m.filter.Value()})
	}
	return cmd
}

func (m *Model) updateList(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.view.State
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.selectRow(m.cursor - 1)
		}
	case "down", "j":
		if m.cursor < len(m.view.Rows)-1 {
			m.selectRow(m.cursor + 1)
		}
	case "esc":
		m.selectRow(0)
	case " ":
		if state.CompletedEnabled {
			m.completed = !m.completed
		}
	case "enter", "u":
		if id, ok := state.Selected.ID(); ok && state.UpdateEnabled {
			m.dispatch(app.Update{ID: id, Completed: m.completed})
		}
	case "d", "delete":
		if id, ok := state.Selected.ID(); ok && state.DeleteEnabled {
			m.dispatch(app.Delete{ID: id})
		}
	}
	return m, nil
}

func (m *Model) updateDescription(key tea.KeyMsg) tea.Cmd {
	if !m.view.State.EditingEnabled {
		return nil
	}
	if key.String() == "enter" {
		m.dispatch(app.Create{Description: m.description.Value()})
		return nil
	}
	var cmd tea.Cmd
	m.description, cmd = m.description.Update(key)
	return cmd
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case focusFilter:
		m.filter, cmd = m.filter.Update(msg)
	case focusDescription:
		m.description, cmd = m.description.Update(msg)
	}
	return cmd
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.filter.Blur()
	m.description.Blur()
	switch f {
	case focusFilter:
		return m.filter.Focus()
	case focusDescription:
		return m.description.Focus()
	}
	return nil
}

func (m *Model) selectRow(i int) {
	sel := projection.None()
	if i > 0 && i < len(m.view.Rows) {
		sel = projection.Some(m.view.Rows[i].ID)
	}
	m.dispatch(app.Select{Selection: sel})
}

func (m *Model) dispatch(ev app.Event) {
	m.apply(m.loop.Dispatch(ev))
}

// apply copies a loop view into the widgets.
func (m *Model) apply(v app.View) {
	wasShowingTask := !m.view.State.EditingEnabled
	m.view = v
	m.notice = v.Notice
	m.completed = v.State.DisplayedCompleted

	// A selected task owns the description input. Without one, a draft
	// survives filtering and is dropped after Create or on deselect.
	switch {
	case !v.State.EditingEnabled:
		m.description.SetValue(v.State.DisplayedDescription)
	case v.ClearDescription || wasShowingTask:
		m.description.Reset()
	}

	m.cursor = 0
	if id, ok := v.State.Selected.ID(); ok {
		for i, row := range v.Rows {
			if !row.Header && row.ID == id {
				m.cursor = i
				break
			}
		}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.label("Filter prefix:", focusFilter))
	b.WriteString(" ")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	for i, row := range m.view.Rows {
		line := renderRow(row)
		switch {
		case row.Header:
			line = headerStyle.Render(line)
		case i == m.cursor && m.focus == focusList:
			line = cursorStyle.Render(line)
		case i == m.cursor:
			line = labelStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.label("Description:", focusDescription))
	b.WriteString(" ")
	b.WriteString(m.description.View())
	b.WriteString("\n")

	box := "[ ]"
	if m.completed {
		box = "[x]"
	}
	if !m.view.State.CompletedEnabled {
		box = helpStyle.Render(box)
	}
	b.WriteString(labelStyle.Render("Completed:"))
	b.WriteString(" ")
	b.WriteString(box)
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		button("Create", m.view.State.EditingEnabled),
		button("Update", m.view.State.UpdateEnabled),
		button("Delete", m.view.State.DeleteEnabled),
	))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab: switch focus • ↑/↓: select • space: toggle completed • u: update • d: delete • esc: deselect • ctrl+c: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) label(text string, f focus) string {
	if m.focus == f {
		return focusedStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func renderRow(row projection.Row) string {
	return cell(row.Description, descriptionWidth) + cell(row.CreatedAt, datetimeWidth) + cell(row.Glyph, completedWidth)
}

func cell(text string, width int) string {
	return lipgloss.NewStyle().Width(width).MaxWidth(width).MaxHeight(1).Render(text)
}

func button(text string, enabled bool) string {
	if enabled {
		return buttonStyle.Render(text)
	}
	return disabledStyle.Render(text)
}
