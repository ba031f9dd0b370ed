package reportlog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmg29/tmg29/internal/config"
	"github.com/tmg29/tmg29/internal/report"
)

func TestLoggerWritesInputAndFFBRows(t *testing.T) {
	dir := t.TempDir()
	logger := New(config.LoggingConfig{
		Enabled:        true,
		Path:           dir,
		LogHIDReports:  true,
		LogFFBCommands: true,
	})

	logger.ObserveInput(report.G29InputReport{Steering: 0x8000, Throttle: 100})
	logger.ObserveFFB(report.IforceCommand{CommandID: 0x41, Data: []byte{1, 2, 3}})
	logger.Close()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	f, err := os.Open(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 rows
	assert.Equal(t, "input", rows[1][1])
	assert.Equal(t, "ffb", rows[2][1])
}

func TestDisabledLoggerWritesNothing(t *testing.T) {
	dir := t.TempDir()
	logger := New(config.LoggingConfig{Enabled: false, Path: dir, LogHIDReports: true})
	logger.ObserveInput(report.G29InputReport{})
	logger.Close()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
