// Package tui is the interactive Bubble Tea front end over app.Controller.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/studywithme/internal/app"
	"github.com/idilsaglam/studywithme/internal/model"
)

const defaultNoticeDuration = 3 * time.Second

// Options tune the interactive view.
type Options struct {
	Title          string
	NoticeDuration time.Duration
}

type focusArea int

const (
	focusPeriod focusArea = iota
	focusTask
	focusList
)

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirmClear
	modalProfile
)

// clearNoticeMsg dismisses the notice shown with the same sequence number.
type clearNoticeMsg struct{ seq int }

// Model renders the controller's state and forwards key presses to it.
type Model struct {
	ctrl *app.Controller
	opts Options
	keys keyMap
	help help.Model

	period textinput.Model
	task   textinput.Model
	focus  focusArea
	cursor int

	modal     modalKind
	name      textinput.Model
	anonymous bool

	notice    app.Notice
	noticeSeq int

	width, height int
}

func newInput(placeholder string, width int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = width
	return ti
}

// New builds the model around an already loaded controller.
func New(ctrl *app.Controller, opts Options) Model {
	if opts.NoticeDuration <= 0 {
		opts.NoticeDuration = defaultNoticeDuration
	}
	if opts.Title == "" {
		opts.Title = "Todo List"
	}
	m := Model{
		ctrl:   ctrl,
		opts:   opts,
		keys:   newKeyMap(ctrl.ProfilesEnabled()),
		help:   help.New(),
		period: newInput("Period (e.g. Week 1, January)", 20),
		task:   newInput("What needs doing?", 40),
		name:   newInput("Your name", 30),
		focus:  focusPeriod,
	}
	m.period.Focus()
	m.notice = ctrl.Notice()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if !m.notice.IsZero() {
		cmds = append(cmds, m.dismissAfter(m.noticeSeq))
	}
	return tea.Batch(cmds...)
}

func (m Model) dismissAfter(seq int) tea.Cmd {
	return tea.Tick(m.opts.NoticeDuration, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })
}

// notify shows n and schedules its dismissal.
func (m *Model) notify(n app.Notice) tea.Cmd {
	if n.IsZero() {
		return nil
	}
	m.notice = n
	m.noticeSeq++
	return m.dismissAfter(m.noticeSeq)
}

// rows is the list in display order: grouped by period.
func (m Model) rows() []model.Todo {
	var out []model.Todo
	for _, g := range m.ctrl.Groups() {
		out = append(out, g.Todos...)
	}
	return out
}

func (m Model) selected() (model.Todo, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return model.Todo{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	m.period.Blur()
	m.task.Blur()
	switch f {
	case focusPeriod:
		return m.period.Focus()
	case focusTask:
		return m.task.Focus()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = app.Notice{}
			m.ctrl.DismissNotice()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.modal {
		case modalConfirmClear:
			return m.updateConfirm(msg)
		case modalProfile:
			return m.updateProfile(msg)
		}
		if m.focus == focusList {
			return m.updateList(msg)
		}
		return m.updateInputs(msg)
	}
	return m, nil
}

func (m Model) updateInputs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.Focus):
		return m, m.setFocus((m.focus + 1) % 3)
	case msg.String() == "shift+tab":
		return m, m.setFocus((m.focus + 2) % 3)
	case key.Matches(msg, m.keys.Cancel):
		if m.editing() {
			m.cancelEdit()
			return m, nil
		}
		return m, m.setFocus(focusList)
	}

	var cmd tea.Cmd
	if m.focus == focusPeriod {
		m.period, cmd = m.period.Update(msg)
	} else {
		m.task, cmd = m.task.Update(msg)
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if td, ok := m.selected(); ok {
			m.ctrl.DismissNotice()
			m.ctrl.Toggle(td.ID)
			if n := m.ctrl.Notice(); !n.IsZero() {
				return m, m.notify(n)
			}
		}
	case key.Matches(msg, m.keys.Edit):
		if td, ok := m.selected(); ok {
			if _, ok := m.ctrl.BeginEdit(td.ID); ok {
				m.period.SetValue(td.Period)
				m.task.SetValue(td.Text)
				m.task.CursorEnd()
				return m, m.setFocus(focusTask)
			}
		}
	case key.Matches(msg, m.keys.Delete):
		if td, ok := m.selected(); ok {
			editingThis := m.editingID() == td.ID
			cmd := m.notify(m.ctrl.Delete(td.ID))
			if editingThis {
				m.period.SetValue("")
				m.task.SetValue("")
			}
			m.clampCursor()
			return m, cmd
		}
	case key.Matches(msg, m.keys.ClearAll):
		if len(m.ctrl.Todos()) > 0 {
			m.modal = modalConfirmClear
		}
	case key.Matches(msg, m.keys.Profile):
		p := m.ctrl.Profile()
		m.anonymous = p.IsAnonymous
		m.name.SetValue(p.Name)
		m.name.CursorEnd()
		m.modal = modalProfile
		if !m.anonymous {
			return m, m.name.Focus()
		}
	case key.Matches(msg, m.keys.Focus):
		return m, m.setFocus(focusPeriod)
	case key.Matches(msg, m.keys.Cancel):
		if m.editing() {
			m.cancelEdit()
		}
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.modal = modalNone
		n := m.ctrl.ClearAll(func(string) bool { return true })
		m.period.SetValue("")
		m.task.SetValue("")
		m.cursor = 0
		return m, m.notify(n)
	case "n", "N", "esc", "q":
		m.modal = modalNone
	}
	return m, nil
}

func (m Model) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		m.name.Blur()
		return m, nil
	case "tab":
		m.anonymous = !m.anonymous
		if m.anonymous {
			m.name.Blur()
			return m, nil
		}
		return m, m.name.Focus()
	case "enter":
		n := m.ctrl.SaveProfile(model.UserProfile{Name: m.name.Value(), IsAnonymous: m.anonymous})
		if n.Level == app.LevelSuccess {
			m.modal = modalNone
			m.name.Blur()
		}
		return m, m.notify(n)
	}
	if m.anonymous {
		return m, nil
	}
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	n := m.ctrl.Submit(m.period.Value(), m.task.Value())
	if n.Level == app.LevelSuccess {
		m.period.SetValue("")
		m.task.SetValue("")
		m.clampCursor()
	}
	return m.notify(n)
}

func (m Model) editing() bool {
	_, ok := m.ctrl.Mode().(app.Editing)
	return ok
}

func (m Model) editingID() int64 {
	if e, ok := m.ctrl.Mode().(app.Editing); ok {
		return e.ID
	}
	return 0
}

func (m *Model) cancelEdit() {
	m.ctrl.CancelEdit()
	m.period.SetValue("")
	m.task.SetValue("")
}

func (m Model) View() string {
	t := theme()
	var b strings.Builder

	// header
	todos := m.ctrl.Todos()
	header := fmt.Sprintf("%s   %s", t.Title.Render(m.opts.Title), t.Muted.Render(fmt.Sprintf("%d tasks", len(todos))))
	if m.ctrl.ProfilesEnabled() {
		header += "   " + t.Muted.Render("as ") + t.Accent.Render(m.ctrl.DisplayName())
	}
	b.WriteString(header + "\n\n")

	switch m.modal {
	case modalConfirmClear:
		b.WriteString(modalStyle().Render(app.ClearPrompt + "\n\n" + helpStyle.Render("y/enter: delete all   n/esc: cancel")))
	case modalProfile:
		b.WriteString(m.profileView())
	default:
		b.WriteString(m.formView() + "\n\n")
		b.WriteString(m.listView())
	}

	if !m.notice.IsZero() {
		style := t.Success
		if m.notice.Level == app.LevelError {
			style = t.Error
		}
		b.WriteString("\n\n" + boxStyle().Render(style.Render(m.notice.Message)))
	}

	b.WriteString("\n\n" + m.help.View(m.keys))
	return boxStyle().Render(b.String())
}

func (m Model) formView() string {
	label := "Add"
	if m.editing() {
		label = "Save"
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		m.period.View(), "  ", m.task.View(), "  ", buttonStyle.Render(label))
}

func (m Model) listView() string {
	t := theme()
	groups := m.ctrl.Groups()
	if len(groups) == 0 {
		return t.Muted.Render("Add your first task!")
	}
	editID := m.editingID()
	var lines []string
	row := 0
	for gi, g := range groups {
		if gi > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, t.Period.Render(g.Period))
		for _, td := range g.Todos {
			box, text := t.Muted.Render(t.BoxUnchecked), td.Text
			if td.Completed {
				box, text = t.Success.Render(t.BoxChecked), t.Done.Render(td.Text)
			}
			line := box + " " + text
			if td.Author != "" {
				line += "  " + t.Muted.Render("by "+td.Author)
			}
			if td.ID == editID {
				line += "  " + t.Pending.Render("(editing)")
			}
			prefix := "  "
			if m.focus == focusList && row == m.cursor {
				prefix = selectedStyle.Render("> ")
			}
			lines = append(lines, prefix+line)
			row++
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) profileView() string {
	t := theme()
	sw := t.BoxUnchecked + " Anonymous mode"
	hint := "Your name is shown on new tasks."
	if m.anonymous {
		sw = t.BoxChecked + " Anonymous mode"
		hint = fmt.Sprintf("You are shown as %q.", model.AnonymousName)
	}
	lines := []string{
		t.Title.Render("Profile"),
		"",
		sw,
		t.Muted.Render(hint),
	}
	if !m.anonymous {
		lines = append(lines, "", m.name.View())
	}
	preview := model.UserProfile{Name: strings.TrimSpace(m.name.Value()), IsAnonymous: m.anonymous}.DisplayName()
	lines = append(lines,
		"",
		"Display name: "+t.Accent.Render(preview),
		"",
		helpStyle.Render("tab: toggle anonymous   enter: save   esc: cancel"),
	)
	return modalStyle().Render(strings.Join(lines, "\n"))
}
