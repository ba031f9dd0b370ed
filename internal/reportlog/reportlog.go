// Package reportlog records translated G29 input reports and IFORCE FFB
// commands to rotating CSV files, mirroring the teacher's ECU/GPS CSV
// recorder but for wheel frames.
package reportlog

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tmg29/tmg29/internal/config"
	"github.com/tmg29/tmg29/internal/report"
)

const maxRowsPerFile = 100_000 // rotate after 100k rows

var csvHeader = []string{
	"timestamp", "kind", "steering", "throttle", "brake", "clutch", "buttons",
	"ffb_cmd_id", "ffb_payload_hex",
}

// Logger records translated reports/commands to CSV when enabled. It
// implements translator.Observer so the translation loop can drive it
// directly.
type Logger struct {
	mu sync.Mutex

	dir            string
	logHIDReports  bool
	logFFBCommands bool
	enabled        bool

	file   *os.File
	writer *csv.Writer
	rows   int
}

// New creates a Logger from the configured LoggingConfig.
func New(cfg config.LoggingConfig) *Logger {
	dir := cfg.Path
	if dir == "" {
		dir = "/var/log/tmg29"
	}
	return &Logger{
		dir:            dir,
		logHIDReports:  cfg.LogHIDReports,
		logFFBCommands: cfg.LogFFBCommands,
		enabled:        cfg.Enabled,
	}
}

// ObserveInput records a translated G29 input report, if HID-report
// logging is enabled.
func (l *Logger) ObserveInput(r report.G29InputReport) {
	if !l.enabled || !l.logHIDReports {
		return
	}
	l.write([]string{
		time.Now().Format(time.RFC3339Nano),
		"input",
		fmt.Sprintf("%d", r.Steering),
		fmt.Sprintf("%d", r.Throttle),
		fmt.Sprintf("%d", r.Brake),
		fmt.Sprintf("%d", r.Clutch),
		fmt.Sprintf("%08x", r.Buttons),
		"", "",
	})
}

// ObserveFFB records an IFORCE command destined for the physical wheel,
// if FFB-command logging is enabled.
func (l *Logger) ObserveFFB(cmd report.IforceCommand) {
	if !l.enabled || !l.logFFBCommands {
		return
	}
	l.write([]string{
		time.Now().Format(time.RFC3339Nano),
		"ffb",
		"", "", "", "", "",
		fmt.Sprintf("%02x", cmd.CommandID),
		fmt.Sprintf("%x", cmd.Data),
	})
}

func (l *Logger) write(row []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.writer == nil || l.rows >= maxRowsPerFile {
		if err := l.rotateFile(); err != nil {
			log.Printf("[reportlog] rotate failed: %v", err)
			return
		}
	}

	if err := l.writer.Write(row); err != nil {
		log.Printf("[reportlog] write failed: %v", err)
		return
	}
	l.writer.Flush()
	l.rows++
}

func (l *Logger) rotateFile() error {
	l.closeFile()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", l.dir, err)
	}

	filename := fmt.Sprintf("tmg29_%s.csv", time.Now().Format("2006-01-02_150405"))
	path := filepath.Join(l.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	l.file = f
	l.writer = csv.NewWriter(f)
	l.rows = 0

	if err := l.writer.Write(csvHeader); err != nil {
		return err
	}
	l.writer.Flush()

	log.Printf("[reportlog] opened %s", path)
	return nil
}

func (l *Logger) closeFile() {
	if l.writer != nil {
		l.writer.Flush()
		l.writer = nil
	}
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

// Close flushes and closes the current log file.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeFile()
}
