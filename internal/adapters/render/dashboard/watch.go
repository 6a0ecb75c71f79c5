package dashboard

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/devicepool-cli/internal/application"
	"github.com/bnema/devicepool-cli/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Controller is the dashboard behaviour the interactive view drives.
type Controller interface {
	State() application.DashboardState
	Subscribe() <-chan application.DashboardState
	SetCode(code string)
	SelectFile(file domain.FileInput) error
	ClearFile()
	SetFocusTasks(focus bool)
	Submit(ctx context.Context) (domain.Task, error)
	Refresh(ctx context.Context)
}

// FileOpener opens path for upload. The returned close func is called once
// the content has been read.
type FileOpener func(path string) (domain.FileInput, func() error, error)

type WatchOptions struct {
	Context  context.Context
	OpenFile FileOpener
	Now      func() time.Time
	MaxTasks int
}

type focusArea int

const (
	focusCode focusArea = iota
	focusFile
	focusTasks
	focusAreas
)

type stateMsg application.DashboardState

type submitDoneMsg struct {
	task domain.Task
	err  error
}

type refreshDoneMsg struct{}

// WatchModel is the interactive dashboard behind `dp watch`.
type WatchModel struct {
	ctx      context.Context
	ctrl     Controller
	updates  <-chan application.DashboardState
	openFile FileOpener
	now      func() time.Time
	maxTasks int

	code    textarea.Model
	file    textinput.Model
	spinner spinner.Model
	styles  styles

	focus  focusArea
	state  application.DashboardState
	notice string
}

func NewWatchModel(ctrl Controller, opts WatchOptions) WatchModel {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	code := textarea.New()
	code.Placeholder = "Paste or type the script to run"
	code.ShowLineNumbers = false
	code.SetWidth(72)
	code.SetHeight(6)
	code.Focus()

	file := textinput.New()
	file.Placeholder = "path/to/script.js (enter to attach)"
	file.Width = 60

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return WatchModel{
		ctx:      ctx,
		ctrl:     ctrl,
		updates:  ctrl.Subscribe(),
		openFile: opts.OpenFile,
		now:      now,
		maxTasks: opts.MaxTasks,
		code:     code,
		file:     file,
		spinner:  s,
		styles:   newStyles(),
		focus:    focusCode,
		state:    ctrl.State(),
	}
}

// NewProgram runs the interactive dashboard on the alternate screen.
func NewProgram(ctrl Controller, opts WatchOptions, programOpts ...tea.ProgramOption) *tea.Program {
	options := append([]tea.ProgramOption{tea.WithAltScreen()}, programOpts...)
	if opts.Context != nil {
		options = append(options, tea.WithContext(opts.Context))
	}
	return tea.NewProgram(NewWatchModel(ctrl, opts), options...)
}

func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick, waitForState(m.updates))
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case stateMsg:
		m.state = application.DashboardState(msg)
		if m.state.FocusTasks && m.focus != focusTasks {
			m.setFocus(focusTasks)
		}
		return m, waitForState(m.updates)
	case submitDoneMsg:
		m.state = m.ctrl.State()
		if msg.err == nil {
			m.code.Reset()
			m.file.Reset()
			m.notice = "Submitted task " + msg.task.ID
			m.setFocus(focusTasks)
			m.ctrl.SetFocusTasks(true)
		}
		return m, nil
	case refreshDoneMsg:
		m.state = m.ctrl.State()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.cycleFocus(1)
		return m, nil
	case "shift+tab":
		m.cycleFocus(-1)
		return m, nil
	case "ctrl+s":
		return m.submit()
	}

	switch m.focus {
	case focusTasks:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "r":
			return m, m.refresh()
		}
		return m, nil
	case focusFile:
		if msg.Type == tea.KeyEnter {
			m.attachFile()
			return m, nil
		}
	}

	return m.updateFocused(msg)
}

func (m WatchModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusCode:
		before := m.code.Value()
		m.code, cmd = m.code.Update(msg)
		if value := m.code.Value(); value != before {
			m.ctrl.SetCode(value)
			m.state.Code = value
		}
	case focusFile:
		m.file, cmd = m.file.Update(msg)
	}
	return m, cmd
}

func (m WatchModel) submit() (tea.Model, tea.Cmd) {
	if m.state.Submitting {
		return m, nil
	}

	m.ctrl.SetCode(m.code.Value())
	if path := strings.TrimSpace(m.file.Value()); path != "" && !m.fileAttached(path) {
		if !m.attachFile() {
			return m, nil
		}
	}

	m.notice = ""
	m.state.Submitting = true
	ctx, ctrl := m.ctx, m.ctrl
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		task, err := ctrl.Submit(ctx)
		return submitDoneMsg{task: task, err: err}
	})
}

func (m WatchModel) refresh() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		ctrl.Refresh(ctx)
		return refreshDoneMsg{}
	}
}

// attachFile opens the typed path and stages it. Failures end up in the
// dashboard error line.
func (m *WatchModel) attachFile() bool {
	path := strings.TrimSpace(m.file.Value())
	if path == "" {
		m.ctrl.ClearFile()
		m.state = m.ctrl.State()
		return true
	}
	if m.openFile == nil {
		m.notice = "file upload is not available"
		return false
	}

	input, closeFile, err := m.openFile(path)
	if err != nil {
		m.notice = err.Error()
		return false
	}
	defer func() { _ = closeFile() }()

	err = m.ctrl.SelectFile(input)
	m.state = m.ctrl.State()
	if err != nil {
		m.notice = ""
		return false
	}

	m.notice = fmt.Sprintf("Attached %s", input.Name)
	return true
}

func (m WatchModel) fileAttached(path string) bool {
	return m.state.File != nil && m.state.File.Name == filepath.Base(path)
}

func (m *WatchModel) cycleFocus(step int) {
	next := (int(m.focus) + step + int(focusAreas)) % int(focusAreas)
	m.setFocus(focusArea(next))
	m.ctrl.SetFocusTasks(m.focus == focusTasks)
	m.state.FocusTasks = m.focus == focusTasks
}

func (m *WatchModel) setFocus(area focusArea) {
	m.focus = area
	m.code.Blur()
	m.file.Blur()
	switch area {
	case focusCode:
		m.code.Focus()
	case focusFile:
		m.file.Focus()
	}
}

func (m WatchModel) View() string {
	s := m.styles

	form := []string{
		s.label.Render("Code"),
		m.code.View(),
		s.label.Render("File"),
		m.file.View(),
	}
	if m.state.File != nil {
		form = append(form, s.meta.Render(fmt.Sprintf("attached: %s (%d bytes)", m.state.File.Name, m.state.File.Size)))
	}
	if m.state.Submitting {
		form = append(form, m.spinner.View()+" Submitting...")
	}

	formPane := s.pane
	if m.focus != focusTasks {
		formPane = s.paneFocus
	}
	tasksPane := s.pane
	if m.focus == focusTasks {
		tasksPane = s.paneFocus
	}

	sections := []string{
		formPane.Render(lipgloss.JoinVertical(lipgloss.Left, form...)),
		tasksPane.Render(renderView(m.state, RenderOptions{Now: m.now(), MaxTasks: m.maxTasks}, s)),
	}
	if m.notice != "" {
		sections = append(sections, s.meta.Render(m.notice))
	}
	sections = append(sections, s.help.Render(helpLine(m.focus)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func helpLine(focus focusArea) string {
	if focus == focusTasks {
		return "tab: next pane • ctrl+s: submit • r: refresh • q: quit"
	}
	return "tab: next pane • ctrl+s: submit • ctrl+c: quit"
}

func waitForState(updates <-chan application.DashboardState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return nil
		}
		return stateMsg(state)
	}
}
