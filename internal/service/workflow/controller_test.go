package workflow

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"enrichment/internal/model"
	"enrichment/internal/service/excel"
	"enrichment/internal/service/history"
	"enrichment/internal/session"
	"enrichment/internal/store"
)

const (
	skuBlock = "SKU #\tSKU Title (English)\tStructure assignments (Selling Taxonomy)\n1001\tWidget\tTools"
	seqBlock = "Name (English)\tAttribute value (English, DEFAULT)\tPurpose\nWarn\tHot\tSafety"
)

type fakeExports struct {
	logs []store.ExportLog
}

func (f *fakeExports) CreateExportLog(entry store.ExportLog) (string, error) {
	f.logs = append(f.logs, entry)
	return "id", nil
}

func newTestController(t *testing.T) (*Controller, *history.Store, *fakeExports) {
	t.Helper()

	logger := zaptest.NewLogger(t)
	hist := history.NewStore(filepath.Join(t.TempDir(), "enrichment_history.json"), 3, logger)
	exports := &fakeExports{}
	c := NewController(excel.NewExporter(excel.DefaultOptions()), hist, exports, logger)
	return c, hist, exports
}

func saveTo(path string) SaveFunc {
	return func(f *excelize.File) (string, error) {
		if err := f.SaveAs(path); err != nil {
			return path, err
		}
		return path, nil
	}
}

func fillSession(t *testing.T, c *Controller) {
	t.Helper()

	_, err := c.PastePrimary(skuBlock)
	require.NoError(t, err)
	_, err = c.PasteSecondary(seqBlock)
	require.NoError(t, err)
}

func TestViewReflectsState(t *testing.T) {
	c, _, _ := newTestController(t)

	v := c.View()
	assert.Equal(t, "idle", v.State)
	assert.Len(t, v.Actions, len(session.Actions))
	assert.True(t, v.Enabled(session.ActionPastePrimary))
	assert.False(t, v.Enabled(session.ActionComplete))

	v, err := c.PastePrimary(skuBlock)
	require.NoError(t, err)
	assert.Equal(t, "awaiting_secondary", v.State)
	assert.Equal(t, 1, v.PrimaryBlocks)
	assert.Contains(t, v.Message, "Step 1 completed")
}

func TestPasteErrorsKeepSession(t *testing.T) {
	c, _, _ := newTestController(t)

	_, err := c.PastePrimary("  ")
	assert.True(t, errors.Is(err, model.ErrEmptyInput))

	v, err := c.PasteSecondary(seqBlock)
	assert.True(t, errors.Is(err, model.ErrActionUnavailable))
	assert.Equal(t, 0, v.SecondaryBlocks)
}

func TestCompleteWritesFileHistoryAndLog(t *testing.T) {
	c, hist, exports := newTestController(t)
	fillSession(t, c)

	out := filepath.Join(t.TempDir(), "out.xlsx")
	res, err := c.Complete(saveTo(out))
	require.NoError(t, err)

	assert.Equal(t, out, res.Destination)
	assert.Equal(t, 2, res.DataRows)
	assert.Equal(t, []string{"Tools"}, res.Groups)
	assert.Equal(t, "complete", res.View.State)
	assert.Contains(t, res.View.Message, "File saved as")

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	got, err := f.GetCellValue("Enrichment", "A2")
	require.NoError(t, err)
	assert.Equal(t, "1001", got)

	runs, err := hist.Load()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, []string{skuBlock}, runs[0].SKUData)
	assert.Equal(t, []string{seqBlock}, runs[0].SeqNameData)

	require.Len(t, exports.logs, 1)
	assert.Equal(t, store.ExportSaved, exports.logs[0].Status)
	assert.Equal(t, out, exports.logs[0].Destination)
}

func TestCompleteSaveFailureLeavesSessionUnchanged(t *testing.T) {
	c, hist, exports := newTestController(t)
	fillSession(t, c)
	before := c.View()

	_, err := c.Complete(func(*excelize.File) (string, error) {
		return "", model.ErrSaveCancelled
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrFileWrite))
	assert.True(t, errors.Is(err, model.ErrSaveCancelled))

	after := c.View()
	assert.Equal(t, before.State, after.State)
	assert.Equal(t, before.PrimaryBlocks, after.PrimaryBlocks)
	assert.Empty(t, after.Groups)

	runs, err := hist.Load()
	require.NoError(t, err)
	assert.Empty(t, runs)

	require.Len(t, exports.logs, 1)
	assert.Equal(t, store.ExportFailed, exports.logs[0].Status)
}

func TestCompleteParseErrorWritesNothing(t *testing.T) {
	c, hist, exports := newTestController(t)
	_, err := c.PastePrimary("Vendor\nAcme")
	require.NoError(t, err)
	_, err = c.PasteSecondary(seqBlock)
	require.NoError(t, err)

	called := false
	_, err = c.Complete(func(*excelize.File) (string, error) {
		called = true
		return "x", nil
	})
	assert.True(t, errors.Is(err, model.ErrParse))
	assert.False(t, called)
	assert.Empty(t, exports.logs)

	runs, _ := hist.Load()
	assert.Empty(t, runs)
}

func TestCompleteUnavailableBeforeStep2(t *testing.T) {
	c, _, _ := newTestController(t)
	_, err := c.PastePrimary(skuBlock)
	require.NoError(t, err)

	_, err = c.Complete(saveTo(filepath.Join(t.TempDir(), "x.xlsx")))
	assert.True(t, errors.Is(err, model.ErrActionUnavailable))
}

func TestSkipAfterCompleteMarksGroups(t *testing.T) {
	c, _, _ := newTestController(t)
	fillSession(t, c)
	_, err := c.Complete(saveTo(filepath.Join(t.TempDir(), "a.xlsx")))
	require.NoError(t, err)

	_, err = c.AddAnother()
	require.NoError(t, err)
	fillSession(t, c)

	v, err := c.Skip()
	require.NoError(t, err)
	assert.Equal(t, []string{"Tools"}, v.SkippedGroups)
	assert.Equal(t, 2, v.PrimaryBlocks)
	assert.Equal(t, 2, v.SecondaryBlocks)
}

func TestGoBackMessages(t *testing.T) {
	c, _, _ := newTestController(t)
	fillSession(t, c)

	v := c.GoBack()
	assert.Equal(t, "Went back to Step 2.", v.Message)
	v = c.GoBack()
	assert.Equal(t, "Went back to Step 1.", v.Message)
	v = c.GoBack()
	assert.Empty(t, v.Message)
	assert.Equal(t, "idle", v.State)
}

func TestRecallRestoresSession(t *testing.T) {
	c, _, _ := newTestController(t)
	fillSession(t, c)
	_, err := c.Complete(saveTo(filepath.Join(t.TempDir(), "a.xlsx")))
	require.NoError(t, err)

	v := c.Clear()
	assert.Equal(t, 0, v.PrimaryBlocks)

	res, err := c.Recall(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1001"}, res.Summary)
	assert.Equal(t, 1, res.View.PrimaryBlocks)
	assert.Equal(t, 1, res.View.SecondaryBlocks)
	assert.Equal(t, "secondary_captured", res.View.State)
	assert.Equal(t, "Recalled run 1: 1001", res.View.Message)

	_, err = c.Recall(1)
	assert.True(t, errors.Is(err, model.ErrHistoryIndex))

	assert.Len(t, c.History(), 1)
}

func TestLoadReplacesSession(t *testing.T) {
	c, _, _ := newTestController(t)
	fillSession(t, c)

	v := c.Load(model.Run{SKUData: []string{skuBlock, skuBlock}, SeqNameData: []string{seqBlock}})
	assert.Equal(t, 2, v.PrimaryBlocks)
	assert.Equal(t, 1, v.SecondaryBlocks)
	assert.Equal(t, "awaiting_secondary", v.State)
	assert.True(t, v.Enabled(session.ActionComplete))
	assert.Equal(t, "Loaded 2 SKU blocks and 1 SEQ/NAME blocks.", v.Message)
}

func TestCompleteMessageNamesDroppedColumns(t *testing.T) {
	c, _, _ := newTestController(t)

	_, err := c.PastePrimary("SKU #\tColor\n1001\tred")
	require.NoError(t, err)
	_, err = c.PasteSecondary(seqBlock)
	require.NoError(t, err)

	res, err := c.Complete(saveTo(filepath.Join(t.TempDir(), "out.xlsx")))
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.View.Message, "File saved as")
	assert.Contains(t, res.View.Message, `column "Color" ignored`)
}

func TestStageDefersSessionHistoryAndLog(t *testing.T) {
	c, hist, exports := newTestController(t)
	fillSession(t, c)

	staged, err := c.Stage(saveTo(filepath.Join(t.TempDir(), "out.xlsx")))
	require.NoError(t, err)
	assert.NotEmpty(t, staged.ID)
	assert.Equal(t, "secondary_captured", staged.Result.View.State)
	assert.Contains(t, staged.Result.View.Message, "Save the download")

	runs, err := hist.Load()
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.Empty(t, exports.logs)

	res, err := c.Commit(staged.ID)
	require.NoError(t, err)
	assert.Equal(t, "complete", res.View.State)
	assert.Equal(t, []string{"Tools"}, res.View.Groups)

	runs, err = hist.Load()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	require.Len(t, exports.logs, 1)
	assert.Equal(t, store.ExportSaved, exports.logs[0].Status)

	_, err = c.Commit(staged.ID)
	assert.True(t, errors.Is(err, model.ErrActionUnavailable))
}

func TestDiscardLogsFailureAndKeepsSession(t *testing.T) {
	c, hist, exports := newTestController(t)
	fillSession(t, c)
	before := c.View()

	staged, err := c.Stage(saveTo(filepath.Join(t.TempDir(), "out.xlsx")))
	require.NoError(t, err)

	c.Discard(staged.ID, errors.New("download link expired"))
	assert.Equal(t, before.State, c.View().State)

	runs, err := hist.Load()
	require.NoError(t, err)
	assert.Empty(t, runs)
	require.Len(t, exports.logs, 1)
	assert.Equal(t, store.ExportFailed, exports.logs[0].Status)
	assert.Contains(t, exports.logs[0].ErrorMessage, "download link expired")

	_, err = c.Commit(staged.ID)
	assert.True(t, errors.Is(err, model.ErrActionUnavailable))
}

func TestCommitAfterSessionChangedKeepsNewData(t *testing.T) {
	c, hist, _ := newTestController(t)
	fillSession(t, c)

	staged, err := c.Stage(saveTo(filepath.Join(t.TempDir(), "out.xlsx")))
	require.NoError(t, err)
	c.Clear()

	res, err := c.Commit(staged.ID)
	require.NoError(t, err)
	assert.Equal(t, "idle", res.View.State)

	runs, err := hist.Load()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, []string{skuBlock}, runs[0].SKUData)
}
