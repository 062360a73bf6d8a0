package tui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"enrichment/internal/model"
	"enrichment/internal/service/excel"
	"enrichment/internal/service/history"
	"enrichment/internal/service/workflow"
)

const (
	skuBlock = "SKU #\tSKU Title (English)\tStructure assignments (Selling Taxonomy)\n1001\tWidget\tHome"
	seqBlock = "Name (English)\tAttribute value (English, DEFAULT)\tPurpose\nWarn\tHot\tSafety"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	dir := t.TempDir()
	hist := history.NewStore(filepath.Join(dir, "history.json"), 3, zap.NewNop())
	ctrl := workflow.NewController(excel.NewExporter(excel.DefaultOptions()), hist, nil, zap.NewNop())
	return New(ctrl, Options{DefaultPath: filepath.Join(dir, "out.xlsx")}, zap.NewNop())
}

func press(m *Model, msgs ...tea.KeyMsg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func fkey(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

// paste 模拟终端的 bracketed paste
func paste(m *Model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text), Paste: true})
}

func TestStepFlowAndSave(t *testing.T) {
	m := newTestModel(t)

	paste(m, skuBlock)
	press(m, fkey(tea.KeyF1))
	require.False(t, m.isError, m.status)
	assert.Equal(t, "awaiting_secondary", m.view.State)
	assert.Equal(t, 1, m.view.PrimaryBlocks)
	assert.Empty(t, m.text())
	assert.Equal(t, "Step 1 completed. Now proceed to Step 2.", m.status)

	paste(m, seqBlock)
	press(m, fkey(tea.KeyF2))
	require.False(t, m.isError, m.status)
	assert.Equal(t, "secondary_captured", m.view.State)

	press(m, fkey(tea.KeyF5))
	require.Equal(t, modeSave, m.mode)
	assert.Equal(t, m.opts.DefaultPath, m.dest.Value())

	press(m, fkey(tea.KeyEnter))
	require.False(t, m.isError, m.status)
	assert.Equal(t, modeMain, m.mode)
	assert.Equal(t, "complete", m.view.State)
	assert.Equal(t, []string{"Home"}, m.view.Groups)
	assert.Equal(t, "File saved as "+m.opts.DefaultPath, m.status)

	f, err := excelize.OpenFile(m.opts.DefaultPath)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Enrichment", "A2")
	require.NoError(t, err)
	assert.Equal(t, "1001", v)
}

func TestPasteKeepsTabs(t *testing.T) {
	m := newTestModel(t)

	paste(m, skuBlock)
	assert.Equal(t, skuBlock, m.text())
	assert.False(t, m.isError)
}

func TestEmptyPasteShowsError(t *testing.T) {
	m := newTestModel(t)

	press(m, fkey(tea.KeyF1))
	assert.True(t, m.isError)
	assert.Contains(t, m.status, "Step 1 Error")
	assert.Equal(t, "idle", m.view.State)
}

func TestCompleteUnavailable(t *testing.T) {
	m := newTestModel(t)

	press(m, fkey(tea.KeyF5))
	assert.Equal(t, modeMain, m.mode)
	assert.True(t, m.isError)
}

func TestCancelSaveKeepsSession(t *testing.T) {
	m := newTestModel(t)

	paste(m, skuBlock)
	press(m, fkey(tea.KeyF1))
	paste(m, seqBlock)
	press(m, fkey(tea.KeyF2))
	press(m, fkey(tea.KeyF5), fkey(tea.KeyEsc))

	assert.Equal(t, modeMain, m.mode)
	assert.False(t, m.isError)
	assert.Equal(t, "Save cancelled.", m.status)
	assert.Equal(t, "secondary_captured", m.view.State)
	assert.Empty(t, m.ctrl.History())
	_, err := os.Stat(m.opts.DefaultPath)
	assert.True(t, os.IsNotExist(err))
}

func TestButtonNavigation(t *testing.T) {
	m := newTestModel(t)

	press(m, fkey(tea.KeyTab))
	require.Equal(t, focusButtons, m.focus)

	press(m, fkey(tea.KeyLeft))
	assert.Equal(t, 7, m.cursor)
	press(m, fkey(tea.KeyRight), fkey(tea.KeyRight))
	assert.Equal(t, 1, m.cursor)

	// Step 2 is not available before Step 1
	press(m, fkey(tea.KeyEnter))
	assert.True(t, m.isError)
	assert.Contains(t, m.status, "action not available")

	press(m, fkey(tea.KeyTab))
	assert.Equal(t, focusInput, m.focus)
}

func TestClipboardPaste(t *testing.T) {
	orig := readClipboard
	t.Cleanup(func() { readClipboard = orig })

	m := newTestModel(t)

	readClipboard = func() (string, error) { return skuBlock, nil }
	press(m, fkey(tea.KeyCtrlY))
	assert.Equal(t, skuBlock, m.text())
	assert.False(t, m.isError)

	readClipboard = func() (string, error) { return "", errors.New("no clipboard") }
	press(m, fkey(tea.KeyCtrlV))
	assert.True(t, m.isError)
	assert.Equal(t, skuBlock, m.text())

	// 手动编辑后以输入区内容为准
	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.NotEqual(t, skuBlock, m.text())
	assert.Equal(t, m.input.Value(), m.text())
}

func TestRecallFlow(t *testing.T) {
	m := newTestModel(t)

	press(m, fkey(tea.KeyF8))
	assert.Equal(t, modeMain, m.mode)
	assert.Equal(t, "No previous runs to recall.", m.status)

	paste(m, skuBlock)
	press(m, fkey(tea.KeyF1))
	paste(m, seqBlock)
	press(m, fkey(tea.KeyF2), fkey(tea.KeyF5), fkey(tea.KeyEnter))
	require.Equal(t, "complete", m.view.State)

	press(m, fkey(tea.KeyF7))
	assert.Equal(t, 0, m.view.PrimaryBlocks)

	press(m, fkey(tea.KeyF8))
	require.Equal(t, modeRecall, m.mode)
	assert.Contains(t, m.View(), "Run 1: 1001")

	press(m, fkey(tea.KeyEnter))
	assert.Equal(t, modeMain, m.mode)
	assert.Equal(t, 1, m.view.PrimaryBlocks)
	assert.Equal(t, 1, m.view.SecondaryBlocks)
	assert.Equal(t, "Recalled run 1: 1001", m.status)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewRendersButtons(t *testing.T) {
	m := newTestModel(t)

	out := m.View()
	assert.Contains(t, out, "Step 1: Paste SKU Data")
	assert.Contains(t, out, "Recall Last Run")
	assert.Contains(t, out, "state: idle")
}

func TestSaveWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	_, err := saveWorkbook(f, "   ")
	assert.ErrorIs(t, err, model.ErrSaveCancelled)

	path := filepath.Join(t.TempDir(), "nested", "run")
	got, err := saveWorkbook(f, path)
	require.NoError(t, err)
	assert.Equal(t, path+".xlsx", got)
	_, err = os.Stat(got)
	assert.NoError(t, err)
}
