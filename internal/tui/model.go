package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"enrichment/internal/model"
	"enrichment/internal/service/history"
	"enrichment/internal/service/workflow"
	"enrichment/internal/session"
)

// readClipboard 读取系统剪贴板（测试中替换）
var readClipboard = clipboard.ReadAll

type mode int

const (
	modeMain mode = iota
	modeSave
	modeRecall
)

type focus int

const (
	focusInput focus = iota
	focusButtons
)

// Options 终端界面选项
type Options struct {
	DefaultPath string // 保存对话框的默认路径
}

// Model 终端界面
type Model struct {
	ctrl   *workflow.Controller
	logger *zap.Logger
	opts   Options

	keys   keyMap
	styles styles
	help   help.Model
	input  textarea.Model
	dest   textinput.Model

	// raw 粘贴原文；textarea 会把制表符替换成空格，提交时优先使用原文
	raw string

	view    workflow.View
	mode    mode
	focus   focus
	cursor  int
	history []history.Entry
	hcursor int
	status  string
	isError bool
	width   int
}

// New 创建终端界面
func New(ctrl *workflow.Controller, opts Options, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultPath == "" {
		opts.DefaultPath = "enrichment.xlsx"
	}

	input := textarea.New()
	input.Placeholder = "Paste tab-delimited data here (with header row)"
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.MaxHeight = 0
	input.SetHeight(12)
	input.SetWidth(96)
	input.Focus()

	dest := textinput.New()
	dest.Prompt = "Save as: "
	dest.CharLimit = 1024

	return &Model{
		ctrl:   ctrl,
		logger: logger,
		opts:   opts,
		keys:   newKeyMap(),
		styles: newStyles(),
		help:   help.New(),
		input:  input,
		dest:   dest,
		view:   ctrl.View(),
	}
}

// Run 启动终端界面，直到用户退出
func Run(ctrl *workflow.Controller, opts Options, logger *zap.Logger) error {
	p := tea.NewProgram(New(ctrl, opts, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		if msg.Width > 8 {
			m.input.SetWidth(msg.Width - 4)
		}
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSave:
			return m.updateSave(msg)
		case modeRecall:
			return m.updateRecall(msg), nil
		}
		for _, a := range session.Actions {
			if b, ok := m.keys.shortcut[a]; ok && key.Matches(msg, b) {
				return m, m.run(a)
			}
		}
		switch {
		case msg.Paste:
			m.setText(string(msg.Runes))
			return m, nil
		case key.Matches(msg, m.keys.focus):
			m.toggleFocus()
			return m, nil
		case key.Matches(msg, m.keys.paste):
			m.pasteClipboard()
			return m, nil
		}
		if m.focus == focusButtons {
			return m, m.updateButtons(msg)
		}
	}

	if m.mode == modeSave {
		var cmd tea.Cmd
		m.dest, cmd = m.dest.Update(msg)
		return m, cmd
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.raw = ""
	}
	return m, cmd
}

// setText 以原文填充输入区
func (m *Model) setText(text string) {
	m.raw = text
	m.input.SetValue(text)
}

// text 待提交的输入内容
func (m *Model) text() string {
	if m.raw != "" {
		return m.raw
	}
	return m.input.Value()
}

func (m *Model) resetInput() {
	m.raw = ""
	m.input.Reset()
}

func (m *Model) toggleFocus() {
	if m.focus == focusInput {
		m.focus = focusButtons
		m.input.Blur()
		return
	}
	m.focus = focusInput
	m.input.Focus()
}

func (m *Model) updateButtons(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.left):
		m.cursor = (m.cursor + len(session.Actions) - 1) % len(session.Actions)
	case key.Matches(msg, m.keys.right):
		m.cursor = (m.cursor + 1) % len(session.Actions)
	case key.Matches(msg, m.keys.press):
		return m.run(session.Actions[m.cursor])
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *Model) pasteClipboard() {
	text, err := readClipboard()
	if err != nil {
		m.logger.Warn("读取剪贴板失败", zap.Error(err))
		m.setError(fmt.Errorf("clipboard unavailable: %w", err))
		return
	}
	m.setText(text)
	m.setInfo("Clipboard pasted into the input area.")
}

// run 执行按钮对应的操作
func (m *Model) run(a session.Action) tea.Cmd {
	switch a {
	case session.ActionPastePrimary:
		m.paste(m.ctrl.PastePrimary, "Step 1 Error")
	case session.ActionPasteSecondary:
		m.paste(m.ctrl.PasteSecondary, "Step 2 Error")
	case session.ActionAddAnother:
		m.apply(m.ctrl.AddAnother())
	case session.ActionSkip:
		m.apply(m.ctrl.Skip())
	case session.ActionGoBack:
		m.apply(m.ctrl.GoBack(), nil)
	case session.ActionClear:
		m.resetInput()
		m.apply(m.ctrl.Clear(), nil)
	case session.ActionComplete:
		if !m.view.Enabled(session.ActionComplete) {
			m.setError(fmt.Errorf("%w: paste SEQ/NAME data or skip Step 2 first", model.ErrActionUnavailable))
			return nil
		}
		m.mode = modeSave
		m.dest.SetValue(m.opts.DefaultPath)
		m.dest.CursorEnd()
		m.input.Blur()
		return m.dest.Focus()
	case session.ActionRecall:
		m.history = m.ctrl.History()
		if len(m.history) == 0 {
			m.setInfo("No previous runs to recall.")
			return nil
		}
		m.hcursor = 0
		m.mode = modeRecall
	}
	return nil
}

func (m *Model) paste(fn func(string) (workflow.View, error), prefix string) {
	view, err := fn(m.text())
	m.view = view
	if err != nil {
		m.setError(fmt.Errorf("%s: %w", prefix, err))
		return
	}
	m.resetInput()
	m.setInfo(view.Message)
}

func (m *Model) apply(view workflow.View, err error) {
	m.view = view
	if err != nil {
		m.setError(err)
		return
	}
	if view.Message != "" {
		m.setInfo(view.Message)
	}
}

func (m *Model) updateSave(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.complete(func(*excelize.File) (string, error) {
			return "", model.ErrSaveCancelled
		})
		return m, nil
	case msg.Type == tea.KeyEnter:
		path := m.dest.Value()
		m.complete(func(f *excelize.File) (string, error) {
			return saveWorkbook(f, path)
		})
		return m, nil
	}
	var cmd tea.Cmd
	m.dest, cmd = m.dest.Update(msg)
	return m, cmd
}

func (m *Model) complete(save workflow.SaveFunc) {
	m.mode = modeMain
	m.dest.Blur()
	if m.focus == focusInput {
		m.input.Focus()
	}

	res, err := m.ctrl.Complete(save)
	if err != nil {
		m.view = m.ctrl.View()
		if errors.Is(err, model.ErrSaveCancelled) {
			m.setInfo("Save cancelled.")
			return
		}
		m.setError(err)
		return
	}
	m.view = res.View
	m.setInfo(res.View.Message)
}

func (m *Model) updateRecall(msg tea.KeyMsg) *Model {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.mode = modeMain
	case key.Matches(msg, m.keys.up):
		if m.hcursor > 0 {
			m.hcursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.hcursor < len(m.history)-1 {
			m.hcursor++
		}
	case msg.Type == tea.KeyEnter:
		m.mode = modeMain
		res, err := m.ctrl.Recall(m.history[m.hcursor].Index)
		if err != nil {
			m.setError(err)
			return m
		}
		m.view = res.View
		m.setInfo(res.View.Message)
	}
	return m
}

// saveWorkbook 保存到用户输入的路径；空路径视为取消
func saveWorkbook(f *excelize.File, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", model.ErrSaveCancelled
	}
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		path += ".xlsx"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return path, fmt.Errorf("%w: %v", model.ErrFileWrite, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return path, fmt.Errorf("%w: %v", model.ErrFileWrite, err)
	}
	return path, nil
}

func (m *Model) setInfo(text string) {
	m.status = text
	m.isError = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.isError = true
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Enrichment"))
	b.WriteString("  ")
	b.WriteString(m.styles.state.Render("state: " + m.view.State))
	b.WriteString("\n\n")

	switch m.mode {
	case modeSave:
		b.WriteString(m.styles.focused.Render(m.dest.View()))
		b.WriteString("\n")
		b.WriteString(m.styles.state.Render("enter to save, esc to cancel"))
	case modeRecall:
		b.WriteString(m.renderHistory())
	default:
		panel := m.styles.panel
		if m.focus == focusInput {
			panel = m.styles.focused
		}
		b.WriteString(panel.Render(m.input.View()))
		b.WriteString("\n")
		b.WriteString(m.renderButtons())
	}
	b.WriteString("\n")

	counts := fmt.Sprintf("SKU blocks: %d  SEQ/NAME blocks: %d", m.view.PrimaryBlocks, m.view.SecondaryBlocks)
	if len(m.view.Groups) > 0 {
		counts += "  groups: " + strings.Join(m.view.Groups, ", ")
	}
	b.WriteString(m.styles.counts.Render(counts))
	b.WriteString("\n")

	if m.status != "" {
		if m.isError {
			b.WriteString(m.styles.err.Render(m.status))
		} else {
			b.WriteString(m.styles.info.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderButtons() string {
	buttons := make([]string, 0, len(m.view.Actions))
	for i, a := range m.view.Actions {
		label := a.Label
		if b, ok := m.keys.shortcut[a.Action]; ok {
			label = b.Help().Key + " " + label
		}
		style := m.styles.button
		switch {
		case m.focus == focusButtons && i == m.cursor:
			style = m.styles.selected
		case !a.Enabled:
			style = m.styles.disabled
		}
		buttons = append(buttons, style.Render(label))
	}
	half := (len(buttons) + 1) / 2
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, buttons[:half]...),
		lipgloss.JoinHorizontal(lipgloss.Top, buttons[half:]...),
	)
}

func (m *Model) renderHistory() string {
	var b strings.Builder
	b.WriteString("Recall a previous run (enter to load, esc to cancel)\n")
	for i, e := range m.history {
		cursor := "  "
		if i == m.hcursor {
			cursor = "> "
		}
		fmt.Fprintf(&b, "%sRun %d: %s\n", cursor, e.Index+1, strings.Join(e.Summary, ", "))
	}
	return m.styles.panel.Render(b.String())
}
