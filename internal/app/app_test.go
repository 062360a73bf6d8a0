package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"enrichment/internal/config"
)

func TestNewWiresServices(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Data.DataDir = t.TempDir()

	a, err := New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NotNil(t, a.Store)
	assert.Equal(t, filepath.Join(cfg.Data.DataDir, "enrichment_history.json"), a.History.Path())
	assert.Equal(t, "Enrichment", a.Exporter.SheetName())

	_, err = a.Controller.PastePrimary("SKU #\n1")
	require.NoError(t, err)
	_, err = a.Controller.PasteSecondary("Purpose\nx")
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.xlsx")
	_, err = a.Controller.Complete(func(f *excelize.File) (string, error) {
		return out, f.SaveAs(out)
	})
	require.NoError(t, err)

	logs, err := a.Store.ListExportLogs(0)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestNewWithoutExportDB(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Data.DataDir = t.TempDir()
	cfg.Data.ExportDB = ""

	a, err := New(cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, a.Store)
	assert.NoError(t, a.Close())
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	_, err := NewLogger(LoggerOptions{Level: "loud"})
	assert.Error(t, err)

	logger, err := NewLogger(LoggerOptions{Level: "warn", File: filepath.Join(t.TempDir(), "x.log")})
	require.NoError(t, err)
	logger.Warn("hello")
	_ = logger.Sync()
}
