// Package logger writes diagnostics to a log file under the scout config
// directory. The TUI owns stdout, so nothing is ever printed there.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Level is a logging severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var (
	mu       sync.Mutex
	minLevel = LevelInfo
	out      = log.New(io.Discard, "", log.LstdFlags)
	file     *os.File
)

// Init opens the log file and sets the minimum level. SCOUT_DEBUG=true
// lowers the level to debug regardless of the argument.
func Init(level Level) error {
	mu.Lock()
	defer mu.Unlock()

	if strings.EqualFold(os.Getenv("SCOUT_DEBUG"), "true") {
		level = LevelDebug
	}
	minLevel = level

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	logDir := filepath.Join(homeDir, ".scout")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(logDir, "scout.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	if file != nil {
		file.Close()
	}
	file = f
	out = log.New(f, "", log.LstdFlags)
	return nil
}

// Close flushes and closes the log file
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	out = log.New(io.Discard, "", log.LstdFlags)
	return err
}

func logf(level Level, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if level < minLevel {
		return
	}
	out.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

// Debugf logs at debug level
func Debugf(format string, args ...interface{}) { logf(LevelDebug, format, args...) }

// Infof logs at info level
func Infof(format string, args ...interface{}) { logf(LevelInfo, format, args...) }

// Warnf logs at warn level
func Warnf(format string, args ...interface{}) { logf(LevelWarn, format, args...) }

// Errorf logs at error level
func Errorf(format string, args ...interface{}) { logf(LevelError, format, args...) }
