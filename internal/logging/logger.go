package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rebeliceyang/lazyjson/internal/config"
	"github.com/sirupsen/logrus"
)

var (
	base      = newBase()
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
	logFile   *os.File
)

func newBase() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&TextFormatter{})
	// Nothing is written until Setup picks a sink; the TUI owns the terminal
	logger.SetOutput(io.Discard)
	return logger
}

// Setup configures level and output of every component logger. Logs go to
// cfg.File, or <config dir>/lazyjson.log when unset. When stderr is not a
// terminal (CI, redirected output) they are mirrored there as well.
func Setup(cfg config.LoggingConfig) error {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	base.SetLevel(level)

	path := cfg.File
	if path == "" {
		path, err = config.DataFile(config.AppName + ".log")
		if err != nil {
			return err
		}
	}
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file

	writers := []io.Writer{file}
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) && level >= logrus.DebugLevel {
		writers = append(writers, os.Stderr)
	}
	base.SetOutput(io.MultiWriter(writers...))
	return nil
}

// SetOutput redirects all component loggers, mostly for tests
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// SetLevel changes the level of all component loggers
func SetLevel(level logrus.Level) {
	base.SetLevel(level)
}

// Close flushes and closes the log file opened by Setup
func Close() error {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	base.SetOutput(io.Discard)
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// NewLogger returns the logger for a component. Loggers are cached per
// component and share the output configured by Setup.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	entry := base.WithField("component", component)
	loggers[component] = entry
	return entry
}

// expandPath expands tilde in file paths
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// TextFormatter renders "time [LEVEL] [component] message key=value"
type TextFormatter struct {
	DisableTimestamp bool
}

// Format renders a single log entry.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	if !f.DisableTimestamp {
		b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
		b.WriteString(" ")
	}

	levelStr := entry.Level.String()
	if levelStr == "warning" {
		levelStr = "warn"
	}
	fmt.Fprintf(&b, "[%s]", strings.ToUpper(levelStr))

	if component, ok := entry.Data["component"]; ok {
		fmt.Fprintf(&b, " [%v]", component)
	}

	b.WriteString(" ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key != "component" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%v", key, entry.Data[key])
	}

	b.WriteString("\n")
	return []byte(b.String()), nil
}
